package settlement

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/odds"
)

func TestSettleWinnerTeam1(t *testing.T) {
	// Cenário do jogo com odds team1=+150, team2=-120, aposta de $100 em team1.
	bets := []Bet{
		{ID: "b1", UserID: "u1", GameID: "g1", Side: SideTeam1, Amount: 100, Status: StatusPending},
	}
	gameOdds := map[string]string{SideTeam1: "+150", SideTeam2: "-120"}

	results, sum, errs := Settle(SideTeam1, bets, gameOdds)
	if len(errs) != 0 {
		t.Fatalf("unexpected item errors: %v", errs)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Status != StatusWon {
		t.Errorf("status = %q, want won", r.Status)
	}
	if math.Abs(r.Payout-250) > 1e-9 {
		t.Errorf("payout = %v, want 250", r.Payout)
	}
	if sum.WonCount != 1 || sum.SettledCount != 1 || math.Abs(sum.TotalPayout-250) > 1e-9 {
		t.Errorf("summary = %+v, want 1 won / 1 settled / 250 payout", sum)
	}
}

func TestSettleWinnerTeam2(t *testing.T) {
	// Mesmo jogo, vencedor team2: a aposta em team1 vira lost com payout 0.
	bets := []Bet{
		{ID: "b1", UserID: "u1", GameID: "g1", Side: SideTeam1, Amount: 100, Status: StatusPending},
	}
	gameOdds := map[string]string{SideTeam1: "+150", SideTeam2: "-120"}

	results, sum, errs := Settle(SideTeam2, bets, gameOdds)
	if len(errs) != 0 {
		t.Fatalf("unexpected item errors: %v", errs)
	}
	if len(results) != 1 || results[0].Status != StatusLost || results[0].Payout != 0 {
		t.Fatalf("results = %+v, want single lost bet with payout 0", results)
	}
	if sum.WonCount != 0 || sum.SettledCount != 1 || sum.TotalPayout != 0 {
		t.Errorf("summary = %+v, want 0 won / 1 settled / 0 payout", sum)
	}
}

func TestSettleMixedBatch(t *testing.T) {
	bets := []Bet{
		{ID: "b1", UserID: "u1", Side: SideTeam1, Amount: 100, Status: StatusPending},
		{ID: "b2", UserID: "u2", Side: SideTeam2, Amount: 50, Status: StatusPending},
		{ID: "b3", UserID: "u3", Side: SideTeam1, Amount: 20, Status: StatusPending},
	}
	gameOdds := map[string]string{SideTeam1: "2.0", SideTeam2: "+300"}

	results, sum, errs := Settle(SideTeam1, bets, gameOdds)
	if len(errs) != 0 {
		t.Fatalf("unexpected item errors: %v", errs)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if sum.WonCount != 2 || sum.SettledCount != 3 {
		t.Errorf("summary = %+v, want 2 won / 3 settled", sum)
	}
	if math.Abs(sum.TotalPayout-240) > 1e-9 { // 100*2 + 20*2
		t.Errorf("total payout = %v, want 240", sum.TotalPayout)
	}
}

func TestSettleSkipsNonPending(t *testing.T) {
	// Idempotência por aposta: quem já saiu de pending é reportado e não recalculado.
	bets := []Bet{
		{ID: "b1", Side: SideTeam1, Amount: 100, Status: StatusWon},
		{ID: "b2", Side: SideTeam2, Amount: 50, Status: StatusLost},
		{ID: "b3", Side: SideTeam1, Amount: 10, Status: StatusPending},
	}
	gameOdds := map[string]string{SideTeam1: "+150", SideTeam2: "-120"}

	results, sum, errs := Settle(SideTeam1, bets, gameOdds)
	if len(results) != 1 || results[0].BetID != "b3" {
		t.Fatalf("results = %+v, want only b3 settled", results)
	}
	if sum.SettledCount != 1 {
		t.Errorf("settled count = %d, want 1", sum.SettledCount)
	}
	if len(errs) != 2 {
		t.Fatalf("got %d item errors, want 2", len(errs))
	}
	for _, ie := range errs {
		if !errors.Is(ie, ErrNotPending) {
			t.Errorf("item error for %s = %v, want ErrNotPending", ie.BetID, ie.Err)
		}
	}
}

func TestSettleReportsInvalidOdds(t *testing.T) {
	// Odds ilegíveis do lado vencedor: aposta vencedora é pulada e reportada,
	// apostas perdedoras não dependem das odds e seguem normalmente.
	bets := []Bet{
		{ID: "b1", Side: SideTeam1, Amount: 100, Status: StatusPending},
		{ID: "b2", Side: SideTeam2, Amount: 40, Status: StatusPending},
	}
	gameOdds := map[string]string{SideTeam1: "not-odds", SideTeam2: "-120"}

	results, sum, errs := Settle(SideTeam1, bets, gameOdds)
	if len(results) != 1 || results[0].BetID != "b2" || results[0].Status != StatusLost {
		t.Fatalf("results = %+v, want only b2 lost", results)
	}
	if len(errs) != 1 || errs[0].BetID != "b1" || !errors.Is(errs[0], odds.ErrInvalidFormat) {
		t.Fatalf("errs = %+v, want invalid odds error for b1", errs)
	}
	if sum.WonCount != 0 || sum.SettledCount != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestCheckPreconditions(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-48 * time.Hour)
	endPast := now.Add(-time.Hour)
	endFuture := now.Add(time.Hour)

	tests := []struct {
		name    string
		game    GameView
		force   bool
		wantErr bool
	}{
		{"campaign ended, no winner", GameView{ID: "g1", Status: "upcoming", CampaignStartAt: &start, CampaignEndAt: &endPast}, false, false},
		{"campaign still live", GameView{ID: "g1", Status: "live", CampaignStartAt: &start, CampaignEndAt: &endFuture}, false, true},
		{"campaign live with admin override", GameView{ID: "g1", Status: "live", CampaignStartAt: &start, CampaignEndAt: &endFuture}, true, false},
		{"no campaign window", GameView{ID: "g1", Status: "upcoming"}, false, true},
		{"winner already declared", GameView{ID: "g1", Status: "finished", Winner: SideTeam1, CampaignStartAt: &start, CampaignEndAt: &endPast}, false, true},
		{"finished game, override does not help", GameView{ID: "g1", Status: "finished", Winner: SideTeam2}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPreconditions(tt.game, now, tt.force)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPreconditions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrPrecondition) {
				t.Errorf("error %v is not ErrPrecondition", err)
			}
		})
	}
}
