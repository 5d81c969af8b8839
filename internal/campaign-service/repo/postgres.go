package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Postgres implementa a persistência de jogos e a leitura administrativa de apostas
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório administrativo
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrNotFound           = errors.New("not found")
	ErrCampaignAlreadySet = errors.New("campaign window already set")
	ErrAlreadyFinished    = errors.New("game already finished")
)

// CreateGame insere um novo jogo sem janela de campanha, status upcoming
func (p *Postgres) CreateGame(ctx context.Context, g *Game) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO games (id,title,team1,team2,league,odds1,odds2,status,created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'upcoming',$8)`,
		id, g.Title, g.Team1, g.Team2, g.League, g.Odds1, g.Odds2, g.CreatedBy,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetGame carrega um jogo pelo id
func (p *Postgres) GetGame(ctx context.Context, gameID string) (*Game, error) {
	g := Game{}
	var winner sql.NullString
	err := p.db.QueryRowContext(ctx, `
		SELECT id,title,team1,team2,league,odds1,odds2,status,
		       campaign_start_at,campaign_end_at,winner,finished_at,created_at
		FROM games WHERE id=$1`, gameID,
	).Scan(&g.ID, &g.Title, &g.Team1, &g.Team2, &g.League, &g.Odds1, &g.Odds2, &g.Status,
		&g.CampaignStartAt, &g.CampaignEndAt, &winner, &g.FinishedAt, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	g.Winner = winner.String
	return &g, nil
}

// ListGames retorna todos os jogos, mais recentes primeiro (visão do admin)
func (p *Postgres) ListGames(ctx context.Context) ([]Game, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id,title,team1,team2,league,odds1,odds2,status,
		       campaign_start_at,campaign_end_at,winner,finished_at,created_at
		FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Game
	for rows.Next() {
		var g Game
		var winner sql.NullString
		if err := rows.Scan(&g.ID, &g.Title, &g.Team1, &g.Team2, &g.League, &g.Odds1, &g.Odds2, &g.Status,
			&g.CampaignStartAt, &g.CampaignEndAt, &winner, &g.FinishedAt, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Winner = winner.String
		out = append(out, g)
	}
	return out, rows.Err()
}

// StartCampaign grava a janela da campanha. A janela é definida uma única
// vez: o WHERE exige que ambas as bordas ainda estejam nulas.
func (p *Postgres) StartCampaign(ctx context.Context, gameID string, startAt, endAt time.Time) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE games SET campaign_start_at=$1, campaign_end_at=$2, status='upcoming'
		WHERE id=$3 AND campaign_start_at IS NULL AND campaign_end_at IS NULL AND winner IS NULL`,
		startAt, endAt, gameID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distingue id inexistente de janela já definida
		if _, gerr := p.GetGame(ctx, gameID); gerr != nil {
			return gerr
		}
		return ErrCampaignAlreadySet
	}
	return nil
}

// SetWinner marca o jogo como finished com o vencedor declarado.
// Irreversível: o WHERE recusa jogos que já têm vencedor ou status finished.
func (p *Postgres) SetWinner(ctx context.Context, gameID, winner string, finishedAt time.Time) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE games SET status='finished', winner=$1, finished_at=$2
		WHERE id=$3 AND winner IS NULL AND status <> 'finished'`,
		winner, finishedAt, gameID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, gerr := p.GetGame(ctx, gameID); gerr != nil {
			return gerr
		}
		return ErrAlreadyFinished
	}
	return nil
}

// ListBets retorna todas as apostas com os campos de exibição (visão do admin)
func (p *Postgres) ListBets(ctx context.Context) ([]AdminBet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, u.name, b.game_id, g.title, g.team1, g.team2,
		       b.side, b.amount, b.status, b.payout, b.created_at
		FROM bets b
		JOIN games g ON g.id = b.game_id
		JOIN users u ON u.id = b.user_id
		ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdminBet
	for rows.Next() {
		var b AdminBet
		if err := rows.Scan(&b.ID, &b.UserID, &b.UserName, &b.GameID, &b.GameTitle, &b.Team1, &b.Team2,
			&b.Side, &b.Amount, &b.Status, &b.Payout, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Summary agrega os contadores do topo do dashboard administrativo
type Summary struct {
	TotalBets      int
	PendingBets    int
	TotalBetAmount float64
}

// BetSummary calcula os contadores globais de apostas em uma única query
func (p *Postgres) BetSummary(ctx context.Context) (Summary, error) {
	var s Summary
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='pending'),
		       COALESCE(SUM(amount), 0)
		FROM bets`).Scan(&s.TotalBets, &s.PendingBets, &s.TotalBetAmount)
	return s, err
}
