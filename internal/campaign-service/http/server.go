package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/campaign"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/campaign-service/dto"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/campaign-service/repo"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/odds"
	"github.com/bigmoneygaming/campaign-bet-platform/internal/settlement"
	"github.com/bigmoneygaming/campaign-bet-platform/pkg/contracts/events"
)

// Publisher publica o evento de fim de jogo que dispara a liquidação assíncrona
type Publisher interface {
	PublishGameFinished(context.Context, events.GameFinished) error
}

// Repo define as operações de persistência usadas pelo handler HTTP
type Repo interface {
	CreateGame(ctx context.Context, g *repo.Game) (string, error)
	GetGame(ctx context.Context, gameID string) (*repo.Game, error)
	ListGames(ctx context.Context) ([]repo.Game, error)
	StartCampaign(ctx context.Context, gameID string, startAt, endAt time.Time) error
	SetWinner(ctx context.Context, gameID, winner string, finishedAt time.Time) error
	ListBets(ctx context.Context) ([]repo.AdminBet, error)
	BetSummary(ctx context.Context) (repo.Summary, error)
}

// Server expõe a API administrativa de jogos e campanhas
type Server struct {
	log  *zap.Logger
	repo Repo
	publ Publisher
	now  func() time.Time // relógio injetado; única fonte de verdade do estado da campanha
}

func NewServer(log *zap.Logger, r Repo, p Publisher) *Server {
	return &Server{log: log, repo: r, publ: p, now: time.Now}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/games", s.games)         // POST cria, GET lista
	mux.HandleFunc("/games/", s.gameAction)   // POST /games/{id}/campaign | /games/{id}/winner
	mux.HandleFunc("/bets", s.listBets)       // GET
	mux.HandleFunc("/summary", s.summary)     // GET
	return mux
}

func (s *Server) games(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createGame(w, r)
	case http.MethodGet:
		s.listGames(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Team1 == "" || req.Team2 == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	// Odds inválidas são barradas aqui, antes de existir qualquer aposta
	if _, err := odds.Parse(req.Odds1); err != nil {
		http.Error(w, "odds1: "+err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := odds.Parse(req.Odds2); err != nil {
		http.Error(w, "odds2: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.League == "" {
		req.League = "NFL"
	}

	id, err := s.repo.CreateGame(r.Context(), &repo.Game{
		Title:  req.Title,
		Team1:  req.Team1,
		Team2:  req.Team2,
		League: req.League,
		Odds1:  req.Odds1,
		Odds2:  req.Odds2,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	g, err := s.repo.GetGame(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, s.gameResponse(g))
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.repo.ListGames(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		out = append(out, s.gameResponse(&games[i]))
	}
	writeJSON(w, out)
}

// gameAction despacha POST /games/{id}/campaign e POST /games/{id}/winner
func (s *Server) gameAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/games/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		http.Error(w, "gameId required", http.StatusBadRequest)
		return
	}
	gameID := parts[0]

	switch parts[1] {
	case "campaign":
		s.startCampaign(w, r, gameID)
	case "winner":
		s.declareWinner(w, r, gameID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) startCampaign(w http.ResponseWriter, r *http.Request, gameID string) {
	var req dto.StartCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		http.Error(w, "start_at and end_at required", http.StatusBadRequest)
		return
	}
	if !req.EndAt.After(req.StartAt) {
		http.Error(w, "campaign end must be after start", http.StatusBadRequest)
		return
	}

	err := s.repo.StartCampaign(r.Context(), gameID, req.StartAt, req.EndAt)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, "game not found", http.StatusNotFound)
		return
	case errors.Is(err, repo.ErrCampaignAlreadySet):
		// a janela é definida exatamente uma vez; não existe reagendamento nativo
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("campaign started",
		zap.String("gameId", gameID),
		zap.Time("startAt", req.StartAt),
		zap.Time("endAt", req.EndAt),
	)

	g, err := s.repo.GetGame(r.Context(), gameID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.gameResponse(g))
}

func (s *Server) declareWinner(w http.ResponseWriter, r *http.Request, gameID string) {
	var req dto.DeclareWinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Winner != settlement.SideTeam1 && req.Winner != settlement.SideTeam2 {
		http.Error(w, "winner must be team1 or team2", http.StatusBadRequest)
		return
	}

	g, err := s.repo.GetGame(r.Context(), gameID)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	now := s.now()
	if err := settlement.CheckPreconditions(settlement.GameView{
		ID:              g.ID,
		Status:          g.Status,
		Winner:          g.Winner,
		CampaignStartAt: g.CampaignStartAt,
		CampaignEndAt:   g.CampaignEndAt,
	}, now, req.Force); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	if err := s.repo.SetWinner(r.Context(), gameID, req.Winner, now); err != nil {
		if errors.Is(err, repo.ErrAlreadyFinished) {
			// corrida com outra declaração; a primeira venceu
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.publ.PublishGameFinished(r.Context(), events.GameFinished{
		GameID:     g.ID,
		Winner:     req.Winner,
		Odds1:      g.Odds1,
		Odds2:      g.Odds2,
		Forced:     req.Force,
		FinishedAt: now,
	}); err != nil {
		// jogo já está finished no banco; o worker tem o reprocesso via DLQ/replay
		s.log.Error("publish game_finished", zap.String("gameId", g.ID), zap.Error(err))
	}

	s.log.Info("winner declared",
		zap.String("gameId", g.ID),
		zap.String("winner", req.Winner),
		zap.Bool("forced", req.Force),
	)
	writeJSON(w, dto.WinnerDeclaredResponse{GameID: g.ID, Winner: req.Winner, Status: "finished"})
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	bets, err := s.repo.ListBets(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.AdminBetResponse, 0, len(bets))
	for _, b := range bets {
		team := b.Team1
		if b.Side == settlement.SideTeam2 {
			team = b.Team2
		}
		out = append(out, dto.AdminBetResponse{
			BetID:     b.ID,
			UserID:    b.UserID,
			UserName:  b.UserName,
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

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	bs, err := s.repo.BetSummary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	games, err := s.repo.ListGames(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	now := s.now()
	active := 0
	for i := range games {
		if campaign.StateAt(games[i].CampaignStartAt, games[i].CampaignEndAt, now).Visible() {
			active++
		}
	}
	writeJSON(w, dto.SummaryResponse{
		ActiveGames:    active,
		TotalBets:      bs.TotalBets,
		PendingBets:    bs.PendingBets,
		TotalBetAmount: bs.TotalBetAmount,
	})
}

func (s *Server) gameResponse(g *repo.Game) dto.GameResponse {
	return dto.GameResponse{
		ID:              g.ID,
		Title:           g.Title,
		Team1:           g.Team1,
		Team2:           g.Team2,
		League:          g.League,
		Odds1:           g.Odds1,
		Odds2:           g.Odds2,
		Status:          g.Status,
		CampaignState:   string(campaign.StateAt(g.CampaignStartAt, g.CampaignEndAt, s.now())),
		CampaignStartAt: g.CampaignStartAt,
		CampaignEndAt:   g.CampaignEndAt,
		Winner:          g.Winner,
		FinishedAt:      g.FinishedAt,
		CreatedAt:       g.CreatedAt,
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
