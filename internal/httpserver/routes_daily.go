// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes, under /daily:
//   - POST /daily/new         → start (or resume) today's daily game
//   - GET  /daily/            → plus /roll, /reserve, /score, /advance (see routes_game.go)
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Every player gets the same dice for the same date, turn and roll.
// One finished result per player per day (enforced by DB + saved game state).

package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/EthanCarson/Crazy-Rolls/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
		s.mountPlay(r, modeDaily)
	})
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string    `json:"date"`
	Played bool      `json:"played"`
	Game   *gameView `json:"game,omitempty"`
}

// handleDailyNew opens today's daily game.
// - If the player already has a result for today → Played=true, no game.
// - Otherwise create/resume the saved game and return its view.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	o := s.ownerOf(w, r)
	date := daily.DateKey(s.clock.Now())

	played, err := s.daily.AlreadyPlayed(r.Context(), o.key(), date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	sess, err := s.openSession(r.Context(), dailySlot(date, o), modeDaily, date, o)
	if err != nil {
		log.Error().Err(err).Msg("open daily session")
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	defer sess.mu.Unlock()
	v := viewOf(sess)
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &v})
}

// dailyLBRow is a leaderboard entry with the player's display name.
type dailyLBRow struct {
	Player    string `json:"player"`
	Score     int    `json:"score"`
	ElapsedMs int    `json:"elapsedMs"`
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string       `json:"date"`
	Top  []dailyLBRow `json:"top"`
}

// handleDailyLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.clock.Now())
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	top := make([]dailyLBRow, 0, len(rows))
	for _, row := range rows {
		top = append(top, dailyLBRow{
			Player:    s.displayName(r, row.UserID),
			Score:     row.Score,
			ElapsedMs: row.ElapsedMs,
		})
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: top})
}

// displayName turns an owner key into a username, or "guest".
func (s *Server) displayName(r *http.Request, key string) string {
	id, ok := strings.CutPrefix(key, "u:")
	if !ok {
		return "guest"
	}
	u, err := s.users.FindByID(r.Context(), id)
	if err != nil {
		return "guest"
	}
	return u.Username
}
