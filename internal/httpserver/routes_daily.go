// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Daily games are started with POST /game/new {"mode":"daily"} and played
// through the normal game routes; every player gets the same root word on a
// given UTC date. Each accepted word records the player's score, keeping
// their best per day.
//
// Exposes:
//   - GET /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//   - GET /daily/me          → the calling player's best for that day

package httpserver

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/game"
)

const leaderboardSize = 20

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/me", s.handleMyResult)
	})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// dailyDate returns ?date or today's date key. It writes the error response
// and returns false when the leaderboard is off or the date is malformed.
func (s *Server) dailyDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.daily == nil {
		writeError(w, http.StatusNotFound, "daily_disabled")
		return "", false
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		return daily.DateKey(s.now()), true
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return "", false
	}
	return date, true
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dailyDate(w, r)
	if !ok {
		return
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, leaderboardSize)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

// handleMyResult returns the anon player's best result for the date.
func (s *Server) handleMyResult(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dailyDate(w, r)
	if !ok {
		return
	}
	player := anonID(r)
	if player == "" {
		writeError(w, http.StatusNotFound, "no_player")
		return
	}
	res, err := s.daily.Best(r.Context(), player, date)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "no_result")
	case err != nil:
		log.Error().Err(err).Str("date", date).Msg("daily result")
		writeError(w, http.StatusInternalServerError, "server_error")
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

// recordDaily saves the player's score for a daily game (best effort).
func (s *Server) recordDaily(r *http.Request, st *game.State) {
	if s.daily == nil || st.Mode != game.ModeDaily {
		return
	}
	claims := claimsFrom(r.Context())
	if claims == nil || claims.PlayerID == "" {
		return
	}
	err := s.daily.Record(r.Context(), daily.Result{
		PlayerID: claims.PlayerID,
		Date:     st.Date,
		RootWord: st.RootWord,
		Score:    st.Score,
		Words:    len(st.UsedWords),
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", st.ID).Msg("record daily result")
	}
}
