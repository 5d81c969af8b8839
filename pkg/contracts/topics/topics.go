package topics

const (
	// Ciclo de vida do jogo
	GameFinished = "game_finished"

	// Liquidação
	BetsSettled = "bets_settled"

	// DLQs
	GameFinishedDLQ = "game_finished_dlq"
)
