package events

import "time"

// Evento emitido quando o saldo de um usuário é gravado via POST /users/save.
type BalanceSaved struct {
	EventID  string    `json:"event_id"`
	Username string    `json:"username"`
	Balance  float64   `json:"balance"`
	Ts       time.Time `json:"ts"`
}
