package dto

import "time"

type GameResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Team1           string     `json:"team1"`
	Team2           string     `json:"team2"`
	League          string     `json:"league"`
	Odds1           string     `json:"odds1"`
	Odds2           string     `json:"odds2"`
	Status          string     `json:"status"`
	CampaignState   string     `json:"campaign_state"` // derivado no momento da resposta
	CampaignStartAt *time.Time `json:"campaign_start_at,omitempty"`
	CampaignEndAt   *time.Time `json:"campaign_end_at,omitempty"`
	Winner          string     `json:"winner,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type AdminBetResponse struct {
	BetID     string    `json:"bet_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	GameID    string    `json:"game_id"`
	GameTitle string    `json:"game_title"`
	BetOnTeam string    `json:"bet_on_team"` // nome do time, não o lado
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Payout    *float64  `json:"payout"`
	CreatedAt time.Time `json:"created_at"`
}

type SummaryResponse struct {
	ActiveGames    int     `json:"active_games"` // campanhas scheduled ou live
	TotalBets      int     `json:"total_bets"`
	PendingBets    int     `json:"pending_bets"`
	TotalBetAmount float64 `json:"total_bet_amount"`
}

type WinnerDeclaredResponse struct {
	GameID string `json:"game_id"`
	Winner string `json:"winner"`
	Status string `json:"status"` // "finished"; liquidação segue assíncrona
}
