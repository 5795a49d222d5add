package game

// Color é a cor de uma casa da roleta.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlack Color = "black"
	ColorGreen Color = "green"
)

// Parity é a paridade do número sorteado; o zero não tem paridade ("none").
type Parity string

const (
	ParityEven Parity = "even"
	ParityOdd  Parity = "odd"
	ParityNone Parity = "none"
)

// MaxNumber é a maior casa da roda europeia (0..36).
const MaxNumber = 36

// User representa o usuário e o saldo devolvidos por GET /users/{username}.
// O saldo pode ser fracionário; saldo negativo não é barrado no cliente.
type User struct {
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// GameResult é o resultado de um giro (GET /roulette/spin).
type GameResult struct {
	Number int    `json:"number"`
	Color  Color  `json:"color"`
	Parity Parity `json:"parity,omitempty"`
}

// SaveBalanceRequest é o payload de POST /users/save.
type SaveBalanceRequest struct {
	Username string  `json:"username"`
	Amount   float64 `json:"amount"`
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf devolve a cor da casa n na roda europeia.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return ColorGreen
	case redNumbers[n]:
		return ColorRed
	default:
		return ColorBlack
	}
}

// ParityOf devolve a paridade de n; zero é "none".
func ParityOf(n int) Parity {
	switch {
	case n == 0:
		return ParityNone
	case n%2 == 0:
		return ParityEven
	default:
		return ParityOdd
	}
}

// ResultFor monta o GameResult completo a partir do número sorteado.
func ResultFor(n int) GameResult {
	return GameResult{Number: n, Color: ColorOf(n), Parity: ParityOf(n)}
}

func (c Color) Valid() bool {
	switch c {
	case ColorRed, ColorBlack, ColorGreen:
		return true
	}
	return false
}

func (p Parity) Valid() bool {
	switch p {
	case ParityEven, ParityOdd, ParityNone:
		return true
	}
	return false
}
