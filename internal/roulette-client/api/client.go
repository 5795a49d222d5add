package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/roulette-client/pkg/contracts/game"
)

// DefaultTimeout é o prazo de cada chamada à API.
const DefaultTimeout = 10 * time.Second

// maxErrorBody limita quanto do corpo de uma resposta de erro entra no StatusError.
const maxErrorBody = 4 << 10

// Client fala com a API da roleta. Não faz retry nem cache:
// toda falha volta para quem chamou, exceto o 404 de GetUserBalance.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	log *zap.Logger
	reg prometheus.Registerer
}

type Option func(*Client)

// WithLogger liga o log de debug das chamadas. Sem ele o client é silencioso.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHTTPClient troca o *http.Client usado nas chamadas.
// Sem Timeout definido, uma cópia dele recebe DefaultTimeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h == nil {
			return
		}
		if h.Timeout == 0 {
			hc := *h
			hc.Timeout = DefaultTimeout
			h = &hc
		}
		c.HTTP = h
	}
}

// WithMetrics instrumenta o transporte com contagem e latência por método/status.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) { c.reg = reg }
}

func New(base string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimSuffix(base, "/"),
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.reg != nil {
		hc := *c.HTTP
		hc.Transport = instrument(c.reg, hc.Transport)
		c.HTTP = &hc
	}
	return c
}

// GetRouletteResult pede um giro à API.
func (c *Client) GetRouletteResult(ctx context.Context) (*game.GameResult, error) {
	var out game.GameResult
	if err := c.do(ctx, http.MethodGet, "/roulette/spin", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CalculatePrize envia o pedido de aposta sem alterações e devolve o resultado como veio.
func (c *Client) CalculatePrize(ctx context.Context, req game.BetRequest) (*game.BetResult, error) {
	var out game.BetResult
	if err := c.do(ctx, http.MethodPost, "/roulette/prize", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveUserBalance grava o saldo do usuário. O formato da resposta é definido
// pelo servidor, então o corpo volta cru.
func (c *Client) SaveUserBalance(ctx context.Context, username string, amount float64) (json.RawMessage, error) {
	var out json.RawMessage
	body := game.SaveBalanceRequest{Username: username, Amount: amount}
	if err := c.do(ctx, http.MethodPost, "/users/save", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUserBalance busca o usuário pelo nome.
// found=false com err=nil significa que a API respondeu 404 (usuário inexistente);
// qualquer outra falha volta em err.
func (c *Client) GetUserBalance(ctx context.Context, username string) (user game.User, found bool, err error) {
	err = c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, &user)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return game.User{}, false, nil
		}
		return game.User{}, false, err
	}
	return user, true, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Debug("roulette api call failed",
			zap.String("method", method), zap.String("path", path),
			zap.Duration("took", time.Since(start)), zap.Error(err))
		return err
	}
	defer res.Body.Close()

	c.log.Debug("roulette api call",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", res.StatusCode), zap.Duration("took", time.Since(start)))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, StatusCode: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	return decode(res.Body, out)
}

func decode(r io.Reader, out any) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if raw, ok := out.(*json.RawMessage); ok {
		if len(bytes.TrimSpace(b)) == 0 {
			*raw = nil
			return nil
		}
		if !json.Valid(b) {
			return errors.New("decode response: invalid json")
		}
		*raw = append((*raw)[:0], b...)
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
