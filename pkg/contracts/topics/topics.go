package topics

const (
	// Roleta
	RouletteSpun = "roulette_spun"

	// Usuários
	BalanceSaved = "balance_saved"
)
