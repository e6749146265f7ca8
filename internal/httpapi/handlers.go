package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/luiso2/betbridge/internal/pkg/models"
	"github.com/luiso2/betbridge/internal/play23"
)

const sessionHeader = "X-Session-Id"

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, play23.KindAuthError, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, play23.KindAuthError, "username and password are required")
		return
	}

	client, err := play23.New(&s.cfg.Upstream)
	if err != nil {
		slog.Error("failed to build upstream client", "error", err)
		writeError(w, http.StatusInternalServerError, play23.KindNetworkError, "failed to initialize upstream client")
		return
	}

	balance, err := client.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		kind := play23.KindOf(err)
		writeError(w, statusForKind(kind), kind, messageOf(err))
		return
	}

	session := s.sessions.Add(client, req.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sessionId": session.ID,
		"balance":   balance,
		"message":   fmt.Sprintf("Welcome back, %s!", req.Username),
	})
}

func (s *Server) Sports(w http.ResponseWriter, r *http.Request) {
	session, ok := s.authed(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"sports":  session.Client.ListLeagues(),
	})
}

func (s *Server) Odds(w http.ResponseWriter, r *http.Request) {
	session, ok := s.authed(w, r)
	if !ok {
		return
	}

	leagueID, err := strconv.Atoi(chi.URLParam(r, "leagueId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, play23.KindInvalidSelection, "invalid league id")
		return
	}
	wagerType := models.WagerStraight
	if v := r.URL.Query().Get("wagerType"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			wagerType = models.WagerType(n)
		}
	}

	schedule, err := session.Client.FetchSchedule(r.Context(), leagueID, wagerType)
	if err != nil {
		kind := play23.KindOf(err)
		writeError(w, statusForKind(kind), kind, messageOf(err))
		return
	}

	s.recordSchedule(r, schedule)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "odds": schedule})
}

func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	session, ok := s.authed(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	leagueID := 535 // NBA unless told otherwise
	if v := r.URL.Query().Get("leagueId"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			leagueID = n
		}
	}

	schedule, err := session.Client.SearchSchedule(r.Context(), query, leagueID)
	if err != nil {
		kind := play23.KindOf(err)
		writeError(w, statusForKind(kind), kind, messageOf(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "results": schedule})
}

type betRequest struct {
	Selection string           `json:"selection"`
	Amount    int64            `json:"amount"`
	Password  string           `json:"password"`
	WagerType models.WagerType `json:"wagerType"`
	LeagueID  int              `json:"leagueId"`
}

// Bet validates the fast-path rules (selection present, minimum stake,
// credential present) and hands off to the placement engine. Upstream's own
// verdicts on the same rules stay authoritative.
func (s *Server) Bet(w http.ResponseWriter, r *http.Request) {
	session, ok := s.authed(w, r)
	if !ok {
		return
	}

	var req betRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, play23.KindInvalidSelection, "invalid request body")
		return
	}
	if req.Selection == "" {
		writeError(w, http.StatusBadRequest, play23.KindInvalidSelection, "selection is required")
		return
	}
	if req.Amount < s.cfg.Upstream.MinStake {
		writeError(w, http.StatusBadRequest, play23.KindMinBetNotMet,
			fmt.Sprintf("minimum bet amount is $%d", s.cfg.Upstream.MinStake))
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, play23.KindInvalidPassword, "password is required to confirm bet")
		return
	}

	outcome := session.Client.PlaceBet(r.Context(), models.WagerRequest{
		Selection: req.Selection,
		Amount:    req.Amount,
		Password:  req.Password,
		WagerType: req.WagerType,
		LeagueID:  req.LeagueID,
	})

	if s.notifier != nil {
		go s.notifier.NotifyOutcome(session.Username, outcome)
	}

	if outcome.Placed {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"ticketNumber": outcome.Ticket,
			"risking":      outcome.Risk,
			"toWin":        outcome.Win,
			"description":  outcome.Description,
			"message":      "Bet placed successfully!",
		})
		return
	}
	writeError(w, statusForKind(outcome.Kind), outcome.Kind, outcome.Detail)
}

func (s *Server) Balance(w http.ResponseWriter, r *http.Request) {
	session, ok := s.authed(w, r)
	if !ok {
		return
	}
	balance, err := session.Client.GetBalance(r.Context())
	if err != nil {
		kind := play23.KindOf(err)
		writeError(w, statusForKind(kind), kind, messageOf(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "balance": balance})
}

func (s *Server) OpenBets(w http.ResponseWriter, r *http.Request) {
	session, ok := s.authed(w, r)
	if !ok {
		return
	}
	openBets, err := session.Client.OpenBets(r.Context())
	if err != nil {
		kind := play23.KindOf(err)
		writeError(w, statusForKind(kind), kind, messageOf(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "openBets": openBets})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if session, ok := s.sessions.Get(r.Header.Get(sessionHeader)); ok {
		session.Client.Logout(r.Context())
		s.sessions.Remove(session.ID)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
}

// authed resolves the caller's session or answers 401.
func (s *Server) authed(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	session, ok := s.sessions.Get(r.Header.Get(sessionHeader))
	if !ok {
		writeError(w, http.StatusUnauthorized, play23.KindNotAuthenticated, "not authenticated")
		return nil, false
	}
	return session, true
}

func (s *Server) recordSchedule(r *http.Request, schedule models.Schedule) {
	if s.recorder == nil || schedule.Source != models.SourceLive {
		return
	}
	if err := s.recorder.RecordSchedule(r.Context(), schedule); err != nil {
		slog.Warn("failed to record odds snapshot", "league", schedule.LeagueID, "error", err)
	}
}

// statusForKind maps the error taxonomy onto transport status codes.
func statusForKind(kind play23.ErrorKind) int {
	switch kind {
	case play23.KindAuthError, play23.KindInvalidPassword,
		play23.KindNotAuthenticated, play23.KindSessionExpired:
		return http.StatusUnauthorized
	case play23.KindInsufficientBalance:
		return http.StatusPaymentRequired
	case play23.KindOddsChanged:
		return http.StatusConflict
	case play23.KindMarketClosed:
		return http.StatusGone
	case play23.KindNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func messageOf(err error) string {
	if ce, ok := err.(*play23.ClientError); ok {
		return ce.Msg
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind play23.ErrorKind, message string) {
	writeJSON(w, status, map[string]any{
		"success":   false,
		"error":     message,
		"errorKind": kind,
	})
}
