package repo

import "time"

// Game é o modelo persistido no Postgres.
type Game struct {
	ID              string
	Title           string
	Team1           string
	Team2           string
	League          string
	Odds1           string // odds do team1, ex: "+150"
	Odds2           string // odds do team2, ex: "-120"
	Status          string // "upcoming" | "live" | "finished"
	CampaignStartAt *time.Time
	CampaignEndAt   *time.Time
	Winner          string // vazio até o admin declarar
	FinishedAt      *time.Time
	CreatedBy       string
	CreatedAt       time.Time
}

// AdminBet é a aposta com os campos de exibição do admin (jogo e usuário).
type AdminBet struct {
	ID        string
	UserID    string
	UserName  string
	GameID    string
	GameTitle string
	Team1     string
	Team2     string
	Side      string
	Amount    float64
	Status    string
	Payout    *float64
	CreatedAt time.Time
}
