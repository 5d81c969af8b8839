package monitor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/campaign"
)

// Refresher re-deriva o estado de campanha de todos os jogos com janela
// definida e mantém o cache Redis que o bet-service consulta. O relógio é
// a única fonte de verdade: não há evento agendado de transição, cada
// passada recalcula tudo (cadência de ~30s, ver cmd/campaign-monitor).
type Refresher struct {
	Log     *zap.Logger
	DB      *sql.DB
	Rdb     *redis.Client
	TTL     time.Duration // deve cobrir mais de um intervalo de refresh
	Channel string        // pub/sub de transições, consumido por dashboards

	Now func() time.Time

	OnRefreshed  func(int)    // métricas: jogos varridos
	OnTransition func(string) // métricas: transições por estado destino
}

// StateKey é a chave de cache consultada pelo gate de apostas
func StateKey(gameID string) string { return fmt.Sprintf("campaign:state:%s", gameID) }

// Transition é a mensagem publicada quando o estado derivado muda
type Transition struct {
	GameID string    `json:"game_id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Ts     time.Time `json:"ts"`
}

// Refresh faz uma varredura completa: deriva o estado de cada jogo,
// atualiza o cache e publica transições observadas desde a última passada.
func (r *Refresher) Refresh(ctx context.Context) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, campaign_start_at, campaign_end_at
		FROM games
		WHERE status <> 'finished'
		  AND campaign_start_at IS NOT NULL AND campaign_end_at IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("scan games: %w", err)
	}
	defer rows.Close()

	now := r.Now()
	count := 0
	for rows.Next() {
		var gameID string
		var startAt, endAt *time.Time
		if err := rows.Scan(&gameID, &startAt, &endAt); err != nil {
			return err
		}

		st := campaign.StateAt(startAt, endAt, now)
		if err := r.apply(ctx, gameID, st); err != nil {
			// um jogo com cache indisponível não interrompe a varredura
			r.Log.Warn("apply state", zap.String("gameId", gameID), zap.Error(err))
			continue
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if r.OnRefreshed != nil {
		r.OnRefreshed(count)
	}
	return nil
}

func (r *Refresher) apply(ctx context.Context, gameID string, st campaign.State) error {
	key := StateKey(gameID)

	prev, err := r.Rdb.Get(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	if err := r.Rdb.Set(ctx, key, string(st), r.TTL).Err(); err != nil {
		return err
	}

	if prev == string(st) || prev == "" {
		return nil
	}

	b, _ := json.Marshal(Transition{GameID: gameID, From: prev, To: string(st), Ts: r.Now()})
	if err := r.Rdb.Publish(ctx, r.Channel, b).Err(); err != nil {
		return err
	}
	if r.OnTransition != nil {
		r.OnTransition(string(st))
	}
	r.Log.Info("campaign transition",
		zap.String("gameId", gameID),
		zap.String("from", prev),
		zap.String("to", string(st)),
	)
	return nil
}
