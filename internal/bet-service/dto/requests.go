package dto

type PlaceBetRequest struct {
	UserID string  `json:"user_id"`
	GameID string  `json:"game_id"`
	Side   string  `json:"side"` // "team1" | "team2"
	Amount float64 `json:"amount"`
}
