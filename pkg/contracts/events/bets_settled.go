package events

import "time"

// Evento emitido pelo settlement-worker após liquidar as apostas de um jogo.
type BetsSettled struct {
	GameID       string    `json:"game_id"`
	Winner       string    `json:"winner"`
	WonCount     int       `json:"won_count"`
	SettledCount int       `json:"settled_count"`
	TotalPayout  float64   `json:"total_payout"`
	FailedBetIDs []string  `json:"failed_bet_ids,omitempty"` // apostas que precisam de retry manual
	Ts           time.Time `json:"ts"`
}
