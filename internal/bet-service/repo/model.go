package repo

import "time"

// Bet é o modelo persistido no Postgres.
type Bet struct {
	ID        string
	UserID    string
	GameID    string
	Side      string // "team1" | "team2"
	Amount    float64
	Status    string   // "pending" | "won" | "lost"
	Payout    *float64 // nulo enquanto pending
	CreatedAt time.Time
}

// UserBet é a aposta do usuário com os campos de exibição do jogo.
type UserBet struct {
	Bet
	GameTitle     string
	Team1         string
	Team2         string
	League        string
	GameStatus    string
	Winner        string
	CampaignEndAt *time.Time
}

// OpenGame é o jogo exibido na lista de apostas disponíveis.
type OpenGame struct {
	ID              string
	Title           string
	Team1           string
	Team2           string
	League          string
	Odds1           string
	Odds2           string
	CampaignStartAt *time.Time
	CampaignEndAt   *time.Time
}
