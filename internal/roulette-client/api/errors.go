package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound casa (via errors.Is) com qualquer StatusError de status 404.
var ErrNotFound = errors.New("roulette api: not found")

// StatusError é devolvido quando a API responde fora da faixa 2xx.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("roulette api %s %s: http %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("roulette api %s %s: http %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
