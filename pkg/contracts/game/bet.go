package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// BetType identifica a modalidade da aposta.
type BetType string

const (
	BetColor        BetType = "color"
	BetEvenOddColor BetType = "even-odd-color"
	BetNumberColor  BetType = "number-color"
)

var ErrInvalidBet = errors.New("invalid bet")

// BetValue guarda o valor apostado, que pode ser texto (cor, paridade) ou número.
// No JSON aparece como string ou número, conforme a variante.
type BetValue struct {
	text     string
	number   int
	isNumber bool
}

func TextValue(s string) BetValue { return BetValue{text: s} }
func NumberValue(n int) BetValue { return BetValue{number: n, isNumber: true} }
func (v BetValue) IsNumber() bool { return v.isNumber }
func (v BetValue) Text() (string, bool) { return v.text, !v.isNumber }
func (v BetValue) Number() (int, bool) { return v.number, v.isNumber }

func (v BetValue) String() string {
	if v.isNumber {
		return strconv.Itoa(v.number)
	}
	return v.text
}

func (v BetValue) MarshalJSON() ([]byte, error) {
	if v.isNumber {
		return []byte(strconv.Itoa(v.number)), nil
	}
	return json.Marshal(v.text)
}

func (v *BetValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("bet value must be string or number: %w", err)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("bet value %v is not an integer", f)
	}
	*v = NumberValue(int(f))
	return nil
}

// Bet é a aposta como montada pelo jogador. O formato de Value depende de Type:
//   - color: Value é a cor
//   - even-odd-color: Value é a paridade, Color a cor
//   - number-color: Value (ou NumberValue) é o número, Color a cor
type Bet struct {
	Type        BetType  `json:"type"`
	Amount      float64  `json:"amount"`
	Value       BetValue `json:"value"`
	Color       *Color   `json:"color,omitempty"`
	NumberValue *int     `json:"numberValue,omitempty"`
}

// BetRequest é o payload de POST /roulette/prize.
type BetRequest struct {
	Type         string  `json:"type"`
	Color        *string `json:"color,omitempty"`
	Parity       *string `json:"parity,omitempty"`
	Number       *int    `json:"number,omitempty"`
	BetAmount    float64 `json:"betAmount"`
	ResultNumber *int    `json:"resultNumber,omitempty"`
	ResultColor  *string `json:"resultColor,omitempty"`
}

// BetResult é a resposta de POST /roulette/prize. Prize só tem significado quando Won.
type BetResult struct {
	Won   bool    `json:"won"`
	Prize float64 `json:"prize"`
}

// Request converte a aposta no payload da API. Se result vier preenchido,
// o número e a cor sorteados seguem junto no pedido.
// Nenhuma validação é feita aqui; quem consome o pedido valida.
func (b Bet) Request(result *GameResult) BetRequest {
	req := BetRequest{Type: string(b.Type), BetAmount: b.Amount}

	switch b.Type {
	case BetColor:
		if s, ok := b.Value.Text(); ok && s != "" {
			req.Color = strPtr(s)
		} else if b.Color != nil {
			req.Color = strPtr(string(*b.Color))
		}
	case BetEvenOddColor:
		if s, ok := b.Value.Text(); ok && s != "" {
			req.Parity = strPtr(s)
		}
		if b.Color != nil {
			req.Color = strPtr(string(*b.Color))
		}
	case BetNumberColor:
		if n, ok := b.Value.Number(); ok {
			req.Number = intPtr(n)
		} else if b.NumberValue != nil {
			req.Number = intPtr(*b.NumberValue)
		} else if s, ok := b.Value.Text(); ok {
			if n, err := strconv.Atoi(s); err == nil {
				req.Number = intPtr(n)
			}
		}
		if b.Color != nil {
			req.Color = strPtr(string(*b.Color))
		}
	}

	if result != nil {
		req.ResultNumber = intPtr(result.Number)
		req.ResultColor = strPtr(string(result.Color))
	}
	return req
}

// Validate confere se os campos opcionais batem com o tipo da aposta.
func (r BetRequest) Validate() error {
	switch BetType(r.Type) {
	case BetColor, BetEvenOddColor, BetNumberColor:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidBet, r.Type)
	}
	if r.BetAmount <= 0 {
		return fmt.Errorf("%w: betAmount must be positive", ErrInvalidBet)
	}
	if r.ResultNumber == nil || *r.ResultNumber < 0 || *r.ResultNumber > MaxNumber {
		return fmt.Errorf("%w: resultNumber must be within 0..%d", ErrInvalidBet, MaxNumber)
	}
	if r.ResultColor != nil && !Color(*r.ResultColor).Valid() {
		return fmt.Errorf("%w: unknown resultColor %q", ErrInvalidBet, *r.ResultColor)
	}
	if r.Color == nil || !Color(*r.Color).Valid() {
		return fmt.Errorf("%w: %s bet needs a valid color", ErrInvalidBet, r.Type)
	}

	switch BetType(r.Type) {
	case BetEvenOddColor:
		if r.Parity == nil || (Parity(*r.Parity) != ParityEven && Parity(*r.Parity) != ParityOdd) {
			return fmt.Errorf("%w: even-odd-color bet needs parity even or odd", ErrInvalidBet)
		}
	case BetNumberColor:
		if r.Number == nil || *r.Number < 0 || *r.Number > MaxNumber {
			return fmt.Errorf("%w: number-color bet needs number within 0..%d", ErrInvalidBet, MaxNumber)
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }
