package dto

import "time"

type CreateGameRequest struct {
	Title  string `json:"title"`
	Team1  string `json:"team1"`
	Team2  string `json:"team2"`
	League string `json:"league,omitempty"` // default "NFL"
	Odds1  string `json:"odds1"`
	Odds2  string `json:"odds2"`
}

type StartCampaignRequest struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

type DeclareWinnerRequest struct {
	Winner string `json:"winner"` // "team1" | "team2"
	Force  bool   `json:"force,omitempty"`
}
