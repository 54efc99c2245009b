// Package api exposes the score ledger over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/ledger"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/models"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/scoreupdate"
)

const maxImportBytes = 1 << 20

// ExportFilename is offered to browsers downloading GET /export
const ExportFilename = "arcade-highscores.json"

// ScoreHandler is satisfied by *scoreupdate.Handler.
type ScoreHandler interface {
	Handle(ctx context.Context, msg models.ScoreUpdate) (scoreupdate.Outcome, error)
}

type Server struct {
	ledger  *ledger.Ledger
	scores  ScoreHandler
	logger  *zap.Logger
	handler http.Handler
}

type leaderboardResponse struct {
	Game     string             `json:"game"`
	TopScore int64              `json:"top_score"`
	Entries  models.Leaderboard `json:"entries"`
}

func NewServer(l *ledger.Ledger, scores ScoreHandler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{ledger: l, scores: scores, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /leaderboards", s.allLeaderboards)
	mux.HandleFunc("GET /leaderboards/{game}", s.leaderboard)
	mux.HandleFunc("DELETE /leaderboards/{game}", s.clearLeaderboard)
	mux.HandleFunc("GET /leaderboards/{game}/qualifies", s.qualifies)
	mux.HandleFunc("POST /scores", s.submitScore)
	mux.HandleFunc("GET /export", s.export)
	mux.HandleFunc("POST /import", s.importScores)

	s.handler = s.withRequestID(mux)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// withRequestID tags each request with X-Request-ID, generating one when the
// caller didn't send it, and logs the request.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Request served",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) allLeaderboards(w http.ResponseWriter, r *http.Request) {
	blob, err := s.ledger.Export(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(blob)
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	game := r.PathValue("game")
	board := s.ledger.GetLeaderboard(r.Context(), game)

	writeJSON(w, http.StatusOK, leaderboardResponse{
		Game:     game,
		TopScore: board.TopScore(),
		Entries:  board,
	})
}

func (s *Server) clearLeaderboard(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Clear(r.Context(), r.PathValue("game")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) qualifies(w http.ResponseWriter, r *http.Request) {
	game := r.PathValue("game")

	raw := r.URL.Query().Get("score")
	if raw == "" {
		http.Error(w, "score is a mandatory field", http.StatusBadRequest)
		return
	}
	score, err := ledger.ParseScore(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Game      string `json:"game"`
		Score     int64  `json:"score"`
		Qualifies bool   `json:"qualifies"`
	}{
		Game:      game,
		Score:     score,
		Qualifies: s.ledger.Qualifies(r.Context(), game, score),
	})
}

// submitScore takes the same message a game posts to the arcade page.
func (s *Server) submitScore(w http.ResponseWriter, r *http.Request) {
	var msg models.ScoreUpdate

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&msg); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := s.scores.Handle(r.Context(), msg)
	switch {
	case errors.Is(err, ledger.ErrInvalidScore), errors.Is(err, scoreupdate.ErrMissingGame):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if outcome.Recorded {
		status = http.StatusCreated
	}
	writeJSON(w, status, outcome)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	blob, err := s.ledger.Export(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob)))
	w.Write(blob)
}

func (s *Server) importScores(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		http.Error(w, "import too large", http.StatusRequestEntityTooLarge)
		return
	}

	ok, err := s.ledger.Import(r.Context(), blob)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "invalid score import", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
