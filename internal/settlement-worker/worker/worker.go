package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/settlement"
	"github.com/bigmoneygaming/campaign-bet-platform/pkg/contracts/events"
)

// Store define as escritas de liquidação usadas pelo worker (ver repo.Postgres)
type Store interface {
	PendingBets(ctx context.Context, gameID string) ([]settlement.Bet, error)
	MarkSettled(ctx context.Context, r settlement.Result) error
	InsertAudit(ctx context.Context, betID, oldStatus, newStatus, reason string) error
}

// Publisher é o subconjunto de kafka.Writer que o worker usa
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Worker consome eventos game_finished, roda o motor de liquidação e
// persiste cada aposta de forma independente. Falha em uma aposta não
// bloqueia as demais: o id vai para o evento de saída para retry manual.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Worker struct {
	Log       *zap.Logger
	Reader    *kafka.Reader
	Repo      Store
	Writer    Publisher // bets_settled
	DLQWriter Publisher // game_finished_dlq, opcional

	OnConsumed func()       // métricas (counter++)
	OnSettled  func(int)    // métricas: apostas liquidadas no lote
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e liquidação
func (w *Worker) Run(ctx context.Context) error {
	for {
		m, err := w.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			w.Log.Warn("kafka read failed", zap.Error(err))
			if w.OnError != nil {
				w.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if w.OnConsumed != nil {
			w.OnConsumed()
		}

		var ev events.GameFinished
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			w.Log.Warn("invalid message", zap.Error(err))
			if w.OnError != nil {
				w.OnError("decode")
			}
			w.toDLQ(ctx, m.Key, m.Value)
			continue
		}

		if err := w.settleGame(ctx, ev); err != nil {
			w.Log.Error("settle game", zap.String("gameId", ev.GameID), zap.Error(err))
			if w.OnError != nil {
				w.OnError("settle")
			}
			w.toDLQ(ctx, m.Key, m.Value)
		}
	}
}

// settleGame executa o fluxo de liquidação de um jogo finalizado:
// 1. Carrega as apostas pending do jogo
// 2. Roda o motor puro de liquidação com as odds do evento
// 3. Persiste cada resultado individualmente, coletando falhas por aposta
// 4. Publica o resumo bets_settled
func (w *Worker) settleGame(ctx context.Context, ev events.GameFinished) error {
	bets, err := w.Repo.PendingBets(ctx, ev.GameID)
	if err != nil {
		return fmt.Errorf("load pending bets: %w", err)
	}

	results, sum, itemErrs := settlement.Settle(ev.Winner, bets, map[string]string{
		settlement.SideTeam1: ev.Odds1,
		settlement.SideTeam2: ev.Odds2,
	})

	failed := make([]string, 0)
	for _, ie := range itemErrs {
		// odds ilegíveis ou aposta fora de pending: reporta e segue
		w.Log.Warn("bet skipped", zap.String("betId", ie.BetID), zap.Error(ie.Err))
		failed = append(failed, ie.BetID)
	}

	applied := 0
	for _, r := range results {
		if err := w.Repo.MarkSettled(ctx, r); err != nil {
			// escrita individual: falha é reportada com o id e não aborta o lote
			w.Log.Error("mark settled", zap.String("betId", r.BetID), zap.Error(err))
			if w.OnError != nil {
				w.OnError("persist")
			}
			failed = append(failed, r.BetID)
			continue
		}
		if err := w.Repo.InsertAudit(ctx, r.BetID, settlement.StatusPending, r.Status, "game "+ev.GameID+" winner "+ev.Winner); err != nil {
			w.Log.Warn("bet transition audit", zap.String("betId", r.BetID), zap.Error(err))
		}
		applied++
	}

	if w.OnSettled != nil {
		w.OnSettled(applied)
	}

	w.Log.Info("game settled",
		zap.String("gameId", ev.GameID),
		zap.String("winner", ev.Winner),
		zap.Int("settled", applied),
		zap.Int("won", sum.WonCount),
		zap.Float64("totalPayout", sum.TotalPayout),
		zap.Int("failed", len(failed)),
	)

	out := events.BetsSettled{
		GameID:       ev.GameID,
		Winner:       ev.Winner,
		WonCount:     sum.WonCount,
		SettledCount: applied,
		TotalPayout:  sum.TotalPayout,
		FailedBetIDs: failed,
		Ts:           time.Now(),
	}
	b, _ := json.Marshal(out)
	return w.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.GameID),
		Value: b,
		Time:  time.Now(),
	})
}

func (w *Worker) toDLQ(ctx context.Context, key, value []byte) {
	if w.DLQWriter == nil {
		return
	}
	if err := w.DLQWriter.WriteMessages(ctx, kafka.Message{Key: key, Value: value, Time: time.Now()}); err != nil {
		w.Log.Error("dlq write", zap.Error(err))
	}
}
