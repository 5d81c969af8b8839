package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/bet-service/dto"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/bet-service/repo"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/campaign"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/settlement"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/stats"
)

// Repo define as operações de persistência usadas pelo handler HTTP
type Repo interface {
	CreatePending(ctx context.Context, b *repo.Bet) (string, error)
	GetGameWindow(ctx context.Context, gameID string) (repo.GameWindow, error)
	ListOpenGames(ctx context.Context) ([]repo.OpenGame, error)
	ListByUser(ctx context.Context, userID string) ([]repo.UserBet, error)
	StartingBalance(ctx context.Context, userID string) (float64, error)
}

// StateCache é o caminho rápido do gate de apostas (ver guard.CampaignGuard)
type StateCache interface {
	CachedState(ctx context.Context, gameID string) (campaign.State, error)
}

// Server expõe a API de apostas e estatísticas do usuário
type Server struct {
	log   *zap.Logger
	repo  Repo
	guard StateCache
	now   func() time.Time
}

func NewServer(log *zap.Logger, r Repo, g StateCache) *Server {
	return &Server{log: log, repo: r, guard: g, now: time.Now}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/games/open", s.openGames)   // GET
	mux.HandleFunc("/bets", s.bets)              // POST cria, GET ?userId=...
	mux.HandleFunc("/bets/grouped", s.grouped)   // GET ?userId=...
	mux.HandleFunc("/stats", s.userStats)        // GET ?userId=...
	return mux
}

// openGames lista jogos com campanha scheduled ou live, derivado na hora.
// Campanha encerrada some da lista mesmo que o status do jogo ainda não mudou.
func (s *Server) openGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	games, err := s.repo.ListOpenGames(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	now := s.now()
	out := make([]dto.OpenGameResponse, 0, len(games))
	for _, g := range games {
		st := campaign.StateAt(g.CampaignStartAt, g.CampaignEndAt, now)
		if !st.Visible() {
			continue
		}
		out = append(out, dto.OpenGameResponse{
			ID:              g.ID,
			Title:           g.Title,
			Team1:           g.Team1,
			Team2:           g.Team2,
			League:          g.League,
			Odds1:           g.Odds1,
			Odds2:           g.Odds2,
			CampaignState:   string(st),
			CampaignStartAt: g.CampaignStartAt,
			CampaignEndAt:   g.CampaignEndAt,
		})
	}
	writeJSON(w, out)
}

func (s *Server) bets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.placeBet(w, r)
	case http.MethodGet:
		s.listBets(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.GameID == "" || req.Amount <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Side != settlement.SideTeam1 && req.Side != settlement.SideTeam2 {
		http.Error(w, "side must be team1 or team2", http.StatusBadRequest)
		return
	}

	// 1) Caminho rápido: estado de campanha cacheado pelo campaign-monitor
	if st, err := s.guard.CachedState(r.Context(), req.GameID); err == nil {
		if !st.Open() {
			http.Error(w, "betting closed; campaign state="+string(st), http.StatusConflict)
			return
		}
	} else if err != redis.Nil {
		// cache indisponível não rejeita: o banco decide
		s.log.Warn("campaign state cache", zap.String("gameId", req.GameID), zap.Error(err))
	}

	// 2) Confere a janela autoritativa no banco antes de qualquer escrita
	gw, err := s.repo.GetGameWindow(r.Context(), req.GameID)
	if errors.Is(err, repo.ErrGameNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if gw.Winner != "" || gw.Status == "finished" {
		http.Error(w, "game already finished", http.StatusConflict)
		return
	}
	st := campaign.StateAt(gw.CampaignStartAt, gw.CampaignEndAt, s.now())
	if !st.Open() {
		http.Error(w, "betting closed; campaign state="+string(st), http.StatusConflict)
		return
	}

	// 3) Cria aposta pending
	betID, err := s.repo.CreatePending(r.Context(), &repo.Bet{
		UserID: req.UserID,
		GameID: req.GameID,
		Side:   req.Side,
		Amount: req.Amount,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("bet placed",
		zap.String("betId", betID),
		zap.String("gameId", req.GameID),
		zap.String("side", req.Side),
		zap.Float64("amount", req.Amount),
	)
	writeJSON(w, dto.PlaceBetResponse{BetID: betID, Status: settlement.StatusPending})
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	bets, err := s.repo.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.UserBetResponse, 0, len(bets))
	for _, b := range bets {
		team := b.Team1
		if b.Side == settlement.SideTeam2 {
			team = b.Team2
		}
		out = append(out, dto.UserBetResponse{
			BetID:     b.ID,
			GameID:    b.GameID,
			GameTitle: b.GameTitle,
			BetOnTeam: team,
			Amount:    b.Amount,
			Status:    b.Status,
			Payout:    b.Payout,
			CreatedAt: b.CreatedAt,
		})
	}
	writeJSON(w, out)
}

// grouped agrega as apostas do usuário por jogo (linha única por jogo)
func (s *Server) grouped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	bets, err := s.repo.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	lines := stats.GroupByGame(toStatsBets(bets))
	out := make([]dto.GameLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.GameLineResponse{
			GameID:      l.GameID,
			TotalAmount: l.TotalAmount,
			Status:      l.Status,
			Payout:      l.Payout,
		})
	}
	writeJSON(w, out)
}

func (s *Server) userStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}

	bets, err := s.repo.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	starting, err := s.repo.StartingBalance(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	agg := stats.Aggregate(toStatsBets(bets), starting)
	resp := dto.StatsResponse{
		TotalBets:        agg.TotalBets,
		WonCount:         agg.WonCount,
		LostCount:        agg.LostCount,
		PendingCount:     agg.PendingCount,
		TotalStaked:      agg.TotalStaked,
		TotalPayouts:     agg.TotalPayouts,
		NetProfit:        agg.NetProfit,
		WinRate:          agg.WinRate,
		AverageStake:     agg.AverageStake,
		AvailableBalance: agg.DisplayBalance(),
	}
	if agg.BiggestWin != nil && agg.BiggestWin.Payout != nil {
		resp.BiggestWin = *agg.BiggestWin.Payout
	}
	if agg.BiggestLoss != nil {
		resp.BiggestLoss = agg.BiggestLoss.Amount
	}
	writeJSON(w, resp)
}

func toStatsBets(bets []repo.UserBet) []stats.Bet {
	out := make([]stats.Bet, 0, len(bets))
	for _, b := range bets {
		out = append(out, stats.Bet{
			ID:     b.ID,
			GameID: b.GameID,
			Side:   b.Side,
			Amount: b.Amount,
			Status: b.Status,
			Payout: b.Payout,
		})
	}
	return out
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
