package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Postgres implementa operações de persistência de apostas em banco Postgres
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var ErrGameNotFound = errors.New("game not found")

// CreatePending insere uma nova aposta com status pending e payout nulo
func (p *Postgres) CreatePending(ctx context.Context, b *Bet) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id,user_id,game_id,side,amount,status,payout)
		VALUES ($1,$2,$3,$4,$5,'pending',NULL)`,
		id, b.UserID, b.GameID, b.Side, b.Amount,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GameWindow é a janela de campanha autoritativa lida do banco
type GameWindow struct {
	Status          string
	Winner          string
	CampaignStartAt *time.Time
	CampaignEndAt   *time.Time
}

// GetGameWindow carrega status e janela de campanha de um jogo
func (p *Postgres) GetGameWindow(ctx context.Context, gameID string) (GameWindow, error) {
	var gw GameWindow
	var winner sql.NullString
	err := p.db.QueryRowContext(ctx, `
		SELECT status, winner, campaign_start_at, campaign_end_at
		FROM games WHERE id=$1`, gameID,
	).Scan(&gw.Status, &winner, &gw.CampaignStartAt, &gw.CampaignEndAt)
	if err == sql.ErrNoRows {
		return gw, ErrGameNotFound
	}
	if err != nil {
		return gw, err
	}
	gw.Winner = winner.String
	return gw, nil
}

// ListOpenGames retorna jogos não finalizados que têm janela de campanha
// definida. O recorte scheduled/live/ended é derivado pelo chamador com o
// relógio da requisição, não aqui.
func (p *Postgres) ListOpenGames(ctx context.Context) ([]OpenGame, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id,title,team1,team2,league,odds1,odds2,campaign_start_at,campaign_end_at
		FROM games
		WHERE status IN ('upcoming','live')
		  AND campaign_start_at IS NOT NULL AND campaign_end_at IS NOT NULL
		ORDER BY campaign_start_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OpenGame
	for rows.Next() {
		var g OpenGame
		if err := rows.Scan(&g.ID, &g.Title, &g.Team1, &g.Team2, &g.League, &g.Odds1, &g.Odds2,
			&g.CampaignStartAt, &g.CampaignEndAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListByUser retorna as apostas do usuário com os campos do jogo, mais recentes primeiro
func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]UserBet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.game_id, b.side, b.amount, b.status, b.payout, b.created_at,
		       g.title, g.team1, g.team2, g.league, g.status, COALESCE(g.winner,''), g.campaign_end_at
		FROM bets b
		JOIN games g ON g.id = b.game_id
		WHERE b.user_id=$1
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserBet
	for rows.Next() {
		var b UserBet
		if err := rows.Scan(&b.ID, &b.UserID, &b.GameID, &b.Side, &b.Amount, &b.Status, &b.Payout, &b.CreatedAt,
			&b.GameTitle, &b.Team1, &b.Team2, &b.League, &b.GameStatus, &b.Winner, &b.CampaignEndAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// StartingBalance retorna o saldo inicial configurado para o usuário.
// Usuário sem registro tem saldo inicial zero (sem dinheiro "de mentira").
func (p *Postgres) StartingBalance(ctx context.Context, userID string) (float64, error) {
	var v float64
	err := p.db.QueryRowContext(ctx,
		`SELECT COALESCE(starting_balance, 0) FROM users WHERE id=$1`, userID).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return v, err
}
