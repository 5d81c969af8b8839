package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/settlement"
)

// Postgres implementa as escritas de liquidação
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// PendingBets carrega as apostas pending de um jogo. Apostas já liquidadas
// ficam de fora por definição, então reprocessar o mesmo evento é inofensivo.
func (p *Postgres) PendingBets(ctx context.Context, gameID string) ([]settlement.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, game_id, side, amount, status
		FROM bets WHERE game_id=$1 AND status='pending'`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settlement.Bet
	for rows.Next() {
		var b settlement.Bet
		if err := rows.Scan(&b.ID, &b.UserID, &b.GameID, &b.Side, &b.Amount, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// MarkSettled aplica a transição pending -> won|lost de uma única aposta.
// O WHERE por status garante que a transição acontece no máximo uma vez,
// mesmo com dois workers disputando o mesmo lote.
func (p *Postgres) MarkSettled(ctx context.Context, r settlement.Result) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status=$1, payout=$2, updated_at=NOW()
		WHERE id=$3 AND status='pending'`,
		r.Status, r.Payout, r.BetID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", settlement.ErrNotPending, r.BetID)
	}
	return nil
}

// InsertAudit registra a transição de status da aposta para auditoria
func (p *Postgres) InsertAudit(ctx context.Context, betID, oldStatus, newStatus, reason string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bet_transitions (bet_id, old_status, new_status, reason, created_at)
		VALUES ($1,$2,$3,$4,NOW())`, betID, oldStatus, newStatus, reason)
	return err
}
