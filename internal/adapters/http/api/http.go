// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/okian/hiscore/internal/domain/types"
	"github.com/okian/hiscore/pkg/logger"
)

// DefaultMaxUploadBytes caps a request body when no option is given.
const DefaultMaxUploadBytes int64 = 32 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// RankFiles computes the ranking for an entry and a score file on disk.
	RankFiles(ctx context.Context, entryPath, scorePath string) ([]Entry, error)
}

// Entry mirrors one ranking row.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	rankingHandler *RankingHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := options{
		maxUploadBytes: DefaultMaxUploadBytes,
		tempDir:        os.TempDir(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("api")
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		rankingHandler: NewRankingHandler(deps, o),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ranking/calculate", MetricsMiddleware(s.rankingHandler.HandleCalculate, "ranking_calculate"))
	mux.HandleFunc("/api/rankings", MetricsMiddleware(s.rankingHandler.HandleRankings, "api_rankings"))
}

type rankingsResponse struct {
	Rankings []Entry `json:"rankings"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
