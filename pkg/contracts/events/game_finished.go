package events

import "time"

// Evento publicado pelo campaign-service quando o administrador declara o vencedor.
// Carrega as odds do jogo para que o settlement-worker não precise de nova leitura.
type GameFinished struct {
	GameID     string    `json:"game_id"`
	Winner     string    `json:"winner"` // "team1" | "team2"
	Odds1      string    `json:"odds1"`
	Odds2      string    `json:"odds2"`
	Forced     bool      `json:"forced"` // override do admin antes do fim da campanha
	FinishedAt time.Time `json:"finished_at"`
	TsUnixMs   int64     `json:"ts_unix_ms"`
}
