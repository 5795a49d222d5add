package events

import "time"

// Evento publicado no tópico "roulette_spun" a cada giro do simulador
type RouletteSpun struct {
	SpinID string    `json:"spin_id"`
	Number int       `json:"number"`
	Color  string    `json:"color"`
	Parity string    `json:"parity"`
	Ts     time.Time `json:"ts"`
}
