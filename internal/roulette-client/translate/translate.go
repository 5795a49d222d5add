// Package translate converte os rótulos em inglês devolvidos pela API
// para os textos exibidos ao jogador.
package translate

import (
	"strings"

	"github.com/radieske/roulette-client/pkg/contracts/game"
)

var colors = map[string]string{
	"red":   "rojo",
	"black": "negro",
	"green": "verde",
}

var parities = map[string]string{
	"even": "par",
	"odd":  "impar",
	"none": "ninguno",
}

// ColorToSpanish traduz red/black/green sem diferenciar maiúsculas.
// Vazio vira vazio; qualquer outro valor volta como veio.
func ColorToSpanish(color string) string {
	return lookup(colors, color)
}

// ParityToSpanish traduz even/odd/none com as mesmas regras de ColorToSpanish.
func ParityToSpanish(parity string) string {
	return lookup(parities, parity)
}

func Color(c game.Color) string { return ColorToSpanish(string(c)) }
func Parity(p game.Parity) string { return ParityToSpanish(string(p)) }

func lookup(table map[string]string, s string) string {
	if s == "" {
		return ""
	}
	if v, ok := table[strings.ToLower(s)]; ok {
		return v
	}
	return s
}
