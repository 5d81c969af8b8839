package settlement

import (
	"errors"
	"fmt"
	"time"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/campaign"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/odds"
)

// Lados possíveis de um jogo de dois times.
const (
	SideTeam1 = "team1"
	SideTeam2 = "team2"
)

// Estados de uma aposta. A transição pending -> won|lost acontece
// exatamente uma vez, feita pelo motor de liquidação.
const (
	StatusPending = "pending"
	StatusWon     = "won"
	StatusLost    = "lost"
)

var (
	// ErrPrecondition: tentativa de liquidar um jogo fora das condições
	// (campanha não encerrada sem override, ou vencedor já declarado).
	ErrPrecondition = errors.New("settlement precondition failed")

	// ErrNotPending: a aposta já saiu de pending; reliquidar não pode alterá-la.
	ErrNotPending = errors.New("bet is not pending")
)

// Bet é a visão mínima de aposta que o motor precisa.
type Bet struct {
	ID     string
	UserID string
	GameID string
	Side   string // "team1" | "team2"
	Amount float64
	Status string
}

// Result é o novo estado calculado para uma aposta.
type Result struct {
	BetID  string
	UserID string
	Status string // "won" | "lost"
	Payout float64
}

// Summary agrega o lote liquidado para o evento/relatório do admin.
type Summary struct {
	WonCount     int
	SettledCount int
	TotalPayout  float64
}

// ItemError associa uma falha à aposta afetada, para retry manual.
// Falha em uma aposta nunca bloqueia as demais do lote.
type ItemError struct {
	BetID string
	Err   error
}

func (e ItemError) Error() string { return fmt.Sprintf("bet %s: %v", e.BetID, e.Err) }

func (e ItemError) Unwrap() error { return e.Err }

// GameView é a visão do jogo necessária para a checagem de precondição.
type GameView struct {
	ID              string
	Status          string // "upcoming" | "live" | "finished"
	Winner          string // vazio enquanto não declarado
	CampaignStartAt *time.Time
	CampaignEndAt   *time.Time
}

// CheckPreconditions valida se o jogo pode ser liquidado agora.
// force é o override do administrador para encerrar antes do fim da janela;
// ele não cobre jogo já finalizado, que é sempre rejeitado.
func CheckPreconditions(g GameView, now time.Time, force bool) error {
	if g.Winner != "" || g.Status == "finished" {
		return fmt.Errorf("%w: game %s already finished", ErrPrecondition, g.ID)
	}
	if force {
		return nil
	}
	if st := campaign.StateAt(g.CampaignStartAt, g.CampaignEndAt, now); st != campaign.StateEnded {
		return fmt.Errorf("%w: game %s campaign state is %q, want %q", ErrPrecondition, g.ID, st, campaign.StateEnded)
	}
	return nil
}

// Settle resolve as apostas de um jogo finalizado em uma única passada.
// oddsBySide traz a string de odds de cada lado (team1/team2).
//
// Apostas do lado vencedor viram won com payout calculado pelas odds do
// vencedor; as demais viram lost com payout 0. Apostas que já não estão
// pending e odds ilegíveis entram em errs e ficam de fora de results,
// então re-executar sobre um lote já liquidado não altera nada.
func Settle(winner string, bets []Bet, oddsBySide map[string]string) (results []Result, sum Summary, errs []ItemError) {
	winOdds := oddsBySide[winner]

	for _, b := range bets {
		if b.Status != StatusPending {
			errs = append(errs, ItemError{BetID: b.ID, Err: ErrNotPending})
			continue
		}

		if b.Side != winner {
			results = append(results, Result{BetID: b.ID, UserID: b.UserID, Status: StatusLost, Payout: 0})
			sum.SettledCount++
			continue
		}

		payout, err := odds.Payout(winOdds, b.Amount)
		if err != nil {
			errs = append(errs, ItemError{BetID: b.ID, Err: err})
			continue
		}
		results = append(results, Result{BetID: b.ID, UserID: b.UserID, Status: StatusWon, Payout: payout})
		sum.SettledCount++
		sum.WonCount++
		sum.TotalPayout += payout
	}

	return results, sum, errs
}
