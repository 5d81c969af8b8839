package dto

import "time"

type PlaceBetResponse struct {
	BetID  string `json:"bet_id"`
	Status string `json:"status"` // "pending"
}

type OpenGameResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Team1           string     `json:"team1"`
	Team2           string     `json:"team2"`
	League          string     `json:"league"`
	Odds1           string     `json:"odds1"`
	Odds2           string     `json:"odds2"`
	CampaignState   string     `json:"campaign_state"` // "scheduled" | "live"
	CampaignStartAt *time.Time `json:"campaign_start_at"`
	CampaignEndAt   *time.Time `json:"campaign_end_at"`
}

type UserBetResponse struct {
	BetID     string    `json:"bet_id"`
	GameID    string    `json:"game_id"`
	GameTitle string    `json:"game_title"`
	BetOnTeam string    `json:"bet_on_team"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Payout    *float64  `json:"payout"`
	CreatedAt time.Time `json:"created_at"`
}

type GameLineResponse struct {
	GameID      string   `json:"game_id"`
	TotalAmount float64  `json:"total_amount"`
	Status      string   `json:"status"`
	Payout      *float64 `json:"payout"`
}

type StatsResponse struct {
	TotalBets        int     `json:"total_bets"`
	WonCount         int     `json:"won_count"`
	LostCount        int     `json:"lost_count"`
	PendingCount     int     `json:"pending_count"`
	TotalStaked      float64 `json:"total_staked"`
	TotalPayouts     float64 `json:"total_payouts"`
	NetProfit        float64 `json:"net_profit"`
	WinRate          float64 `json:"win_rate"`
	AverageStake     float64 `json:"average_stake"`
	AvailableBalance float64 `json:"available_balance"` // clampado em zero para exibição
	BiggestWin       float64 `json:"biggest_win"`
	BiggestLoss      float64 `json:"biggest_loss"`
}
