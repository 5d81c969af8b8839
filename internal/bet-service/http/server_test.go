package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/bet-service/repo"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/campaign"
)

type fakeRepo struct {
	windows  map[string]repo.GameWindow
	open     []repo.OpenGame
	userBets []repo.UserBet
	starting float64
	created  []repo.Bet
}

func (f *fakeRepo) CreatePending(_ context.Context, b *repo.Bet) (string, error) {
	f.created = append(f.created, *b)
	return "bet-1", nil
}

func (f *fakeRepo) GetGameWindow(_ context.Context, gameID string) (repo.GameWindow, error) {
	gw, ok := f.windows[gameID]
	if !ok {
		return repo.GameWindow{}, repo.ErrGameNotFound
	}
	return gw, nil
}

func (f *fakeRepo) ListOpenGames(_ context.Context) ([]repo.OpenGame, error) { return f.open, nil }

func (f *fakeRepo) ListByUser(_ context.Context, _ string) ([]repo.UserBet, error) {
	return f.userBets, nil
}

func (f *fakeRepo) StartingBalance(_ context.Context, _ string) (float64, error) {
	return f.starting, nil
}

// fakeCache simula o cache do campaign-monitor; sem entrada retorna redis.Nil
type fakeCache struct {
	states map[string]campaign.State
}

func (f *fakeCache) CachedState(_ context.Context, gameID string) (campaign.State, error) {
	st, ok := f.states[gameID]
	if !ok {
		return "", redis.Nil
	}
	return st, nil
}

func newTestServer(fr *fakeRepo, fc *fakeCache, now time.Time) *Server {
	if fc == nil {
		fc = &fakeCache{}
	}
	s := NewServer(zap.NewNop(), fr, fc)
	s.now = func() time.Time { return now }
	return s
}

func placeBet(t *testing.T, s *Server, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewReader(b))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestPlaceBetValidation(t *testing.T) {
	s := newTestServer(&fakeRepo{}, nil, time.Now())

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing user", map[string]any{"game_id": "g1", "side": "team1", "amount": 100.0}},
		{"zero amount", map[string]any{"user_id": "u1", "game_id": "g1", "side": "team1", "amount": 0.0}},
		{"negative amount", map[string]any{"user_id": "u1", "game_id": "g1", "side": "team1", "amount": -5.0}},
		{"bad side", map[string]any{"user_id": "u1", "game_id": "g1", "side": "draw", "amount": 100.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := placeBet(t, s, tc.body); w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestPlaceBetCachedStateRejects(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	fr := &fakeRepo{windows: map[string]repo.GameWindow{}}
	fc := &fakeCache{states: map[string]campaign.State{"g1": campaign.StateEnded}}
	s := newTestServer(fr, fc, now)

	w := placeBet(t, s, map[string]any{"user_id": "u1", "game_id": "g1", "side": "team1", "amount": 100.0})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if len(fr.created) != 0 {
		t.Fatal("a cached closed state must reject before any write")
	}
}

func TestPlaceBetWindowIsAuthoritative(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	endPast := now.Add(-time.Minute)

	// cache diz live, mas o banco já passou do fim: o banco decide
	fr := &fakeRepo{windows: map[string]repo.GameWindow{
		"g1": {Status: "live", CampaignStartAt: &start, CampaignEndAt: &endPast},
	}}
	fc := &fakeCache{states: map[string]campaign.State{"g1": campaign.StateLive}}
	s := newTestServer(fr, fc, now)

	w := placeBet(t, s, map[string]any{"user_id": "u1", "game_id": "g1", "side": "team1", "amount": 100.0})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if len(fr.created) != 0 {
		t.Fatal("no bet may be created after the window closed")
	}
}

func TestPlaceBetAtExactEndAccepted(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	end := now // a borda do fim ainda conta como live

	fr := &fakeRepo{windows: map[string]repo.GameWindow{
		"g1": {Status: "live", CampaignStartAt: &start, CampaignEndAt: &end},
	}}
	s := newTestServer(fr, nil, now)

	w := placeBet(t, s, map[string]any{"user_id": "u1", "game_id": "g1", "side": "team2", "amount": 50.0})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(fr.created) != 1 || fr.created[0].Side != "team2" || fr.created[0].Amount != 50 {
		t.Fatalf("created = %+v", fr.created)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "pending" {
		t.Errorf("status = %v, want pending", resp["status"])
	}
}

func TestPlaceBetFinishedGameRejected(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	fr := &fakeRepo{windows: map[string]repo.GameWindow{
		"g1": {Status: "finished", Winner: "team1", CampaignStartAt: &start, CampaignEndAt: &end},
	}}
	s := newTestServer(fr, nil, now)

	w := placeBet(t, s, map[string]any{"user_id": "u1", "game_id": "g1", "side": "team1", "amount": 100.0})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestPlaceBetGameNotFound(t *testing.T) {
	s := newTestServer(&fakeRepo{windows: map[string]repo.GameWindow{}}, nil, time.Now())
	w := placeBet(t, s, map[string]any{"user_id": "u1", "game_id": "nope", "side": "team1", "amount": 100.0})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestOpenGamesFiltersEndedCampaigns(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-2 * time.Hour)
	recent := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	later := now.Add(2 * time.Hour)

	fr := &fakeRepo{open: []repo.OpenGame{
		{ID: "live", CampaignStartAt: &recent, CampaignEndAt: &future},
		{ID: "scheduled", CampaignStartAt: &future, CampaignEndAt: &later},
		{ID: "ended", CampaignStartAt: &past, CampaignEndAt: &recent},
	}}
	s := newTestServer(fr, nil, now)

	req := httptest.NewRequest(http.MethodGet, "/games/open", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("games = %d, want 2 (ended hidden)", len(out))
	}
	states := map[string]string{}
	for _, g := range out {
		states[g["id"].(string)] = g["campaign_state"].(string)
	}
	if states["live"] != "live" || states["scheduled"] != "scheduled" {
		t.Errorf("states = %v", states)
	}
}

func TestUserStatsEndpoint(t *testing.T) {
	payout := 250.0
	fr := &fakeRepo{
		starting: 0,
		userBets: []repo.UserBet{
			{Bet: repo.Bet{ID: "b1", GameID: "g1", Side: "team1", Amount: 100, Status: "won", Payout: &payout}},
			{Bet: repo.Bet{ID: "b2", GameID: "g2", Side: "team2", Amount: 50, Status: "lost"}},
		},
	}
	s := newTestServer(fr, nil, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/stats?userId=u1", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// saldo: 0 + 250 - 150 = 100; win rate: 1 de 2 liquidadas
	if resp["available_balance"].(float64) != 100 {
		t.Errorf("available_balance = %v, want 100", resp["available_balance"])
	}
	if resp["win_rate"].(float64) != 0.5 {
		t.Errorf("win_rate = %v, want 0.5", resp["win_rate"])
	}
	if resp["biggest_win"].(float64) != 250 {
		t.Errorf("biggest_win = %v, want 250", resp["biggest_win"])
	}
}

func TestListBetsRequiresUserID(t *testing.T) {
	s := newTestServer(&fakeRepo{}, nil, time.Now())
	req := httptest.NewRequest(http.MethodGet, "/bets", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
