// Package httpapi is the REST façade over the upstream integration client.
// It owns the session registry and the ErrorKind-to-status mapping; all
// protocol logic lives in internal/play23.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luiso2/betbridge/internal/pkg/config"
	"github.com/luiso2/betbridge/internal/pkg/models"
	"github.com/luiso2/betbridge/internal/play23"
)

// ScheduleRecorder receives every live schedule for snapshot persistence.
type ScheduleRecorder interface {
	RecordSchedule(ctx context.Context, schedule models.Schedule) error
}

// OutcomeNotifier announces wager outcomes out-of-band.
type OutcomeNotifier interface {
	NotifyOutcome(username string, outcome play23.Outcome)
}

// Server holds the façade's collaborators. Recorder and Notifier are
// optional; leave them nil to disable.
type Server struct {
	cfg      *config.Config
	sessions *Registry
	recorder ScheduleRecorder
	notifier OutcomeNotifier
}

func NewServer(cfg *config.Config, sessions *Registry) *Server {
	return &Server{cfg: cfg, sessions: sessions}
}

func (s *Server) WithRecorder(r ScheduleRecorder) *Server {
	s.recorder = r
	return s
}

func (s *Server) WithNotifier(n OutcomeNotifier) *Server {
	s.notifier = n
	return s
}

func SetupRoutes(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/health", s.Health)
	r.Post("/api/login", s.Login)
	r.Get("/api/sports", s.Sports)
	r.Get("/api/odds/{leagueId}", s.Odds)
	r.Get("/api/search", s.Search)
	r.Post("/api/bet", s.Bet)
	r.Get("/api/balance", s.Balance)
	r.Get("/api/open-bets", s.OpenBets)
	r.Post("/api/logout", s.Logout)

	return r
}
