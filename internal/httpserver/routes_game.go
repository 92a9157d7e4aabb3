// internal/httpserver/routes_game.go
//
// Play endpoints, shared by classic (/game) and daily (/daily) modes:
//   - GET  /            → current game view
//   - POST /roll        → roll (first roll or reroll of unreserved dice)
//   - POST /reserve     → toggle one die's reserved flag
//   - POST /score       → score a category, then advance unless advance=false
//   - POST /advance     → start the next turn after scoring
//   - POST /reset       → start over (classic only)
//
// Plus the classic leaderboard and per-user history/stats.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/EthanCarson/Crazy-Rolls/internal/daily"
	"github.com/EthanCarson/Crazy-Rolls/internal/dice"
	"github.com/EthanCarson/Crazy-Rolls/internal/game"
)

// gameView is the JSON shape of a game as the client renders it.
type gameView struct {
	Mode              string          `json:"mode"`
	Date              string          `json:"date,omitempty"`
	State             game.State      `json:"state"`
	TurnNumber        int             `json:"turnNumber"`
	MaxTurns          int             `json:"maxTurns"`
	RollsUsedThisTurn int             `json:"rollsUsedThisTurn"`
	RollsLeft         int             `json:"rollsLeft"`
	TotalScore        int             `json:"totalScore"`
	Dice              []dice.Die      `json:"dice"`
	Active            []dice.Die      `json:"active"`
	Reserved          []dice.Die      `json:"reserved"`
	Eligible          []game.Option   `json:"eligible"`
	UsedCategories    []game.Category `json:"usedCategories"`
	LastScore         *int            `json:"lastScore,omitempty"`
}

func viewOf(sess *session) gameView {
	e := sess.eng
	ds := e.Dice()
	return gameView{
		Mode:              sess.mode,
		Date:              sess.date,
		State:             e.State(),
		TurnNumber:        e.TurnNumber(),
		MaxTurns:          e.MaxTurns(),
		RollsUsedThisTurn: e.RollsUsedThisTurn(),
		RollsLeft:         e.RollsLeft(),
		TotalScore:        e.TotalScore(),
		Dice:              ds[:],
		Active:            e.ActiveDice(),
		Reserved:          e.ReservedDice(),
		Eligible:          e.Eligible(),
		UsedCategories:    e.UsedCategories(),
	}
}

// gameErrors maps engine errors to HTTP status and a stable code.
var gameErrors = []struct {
	err    error
	status int
	code   string
}{
	{game.ErrRollLimitExceeded, http.StatusConflict, "roll_limit_exceeded"},
	{game.ErrUnknownCategory, http.StatusBadRequest, "unknown_category"},
	{game.ErrCategoryAlreadyUsed, http.StatusConflict, "category_already_used"},
	{game.ErrNoEligibleSelection, http.StatusUnprocessableEntity, "no_eligible_selection"},
	{game.ErrGameOver, http.StatusConflict, "game_over"},
	{game.ErrTurnComplete, http.StatusConflict, "turn_complete"},
	{game.ErrTurnInProgress, http.StatusConflict, "turn_in_progress"},
}

func writeGameError(w http.ResponseWriter, err error) {
	for _, ge := range gameErrors {
		if errors.Is(err, ge.err) {
			writeError(w, ge.status, ge.code, err.Error())
			return
		}
	}
	log.Error().Err(err).Msg("unexpected game error")
	writeError(w, http.StatusInternalServerError, "server_error", "")
}

// playRoutes resolves the session a play request acts on.
type playRoutes struct {
	srv  *Server
	mode string
}

// mountPlay registers the play endpoints for mode on r.
func (s *Server) mountPlay(r chi.Router, mode string) {
	p := &playRoutes{srv: s, mode: mode}
	r.Get("/", p.with(false, p.show))
	r.Post("/roll", p.with(true, p.roll))
	r.Post("/reserve", p.with(true, p.reserve))
	r.Post("/score", p.with(true, p.score))
	r.Post("/advance", p.with(true, p.advance))
	if mode == modeClassic {
		r.Post("/reset", p.with(true, p.reset))
	}
}

// action runs against a locked session. It writes its own error response
// and returns false when nothing changed.
type action func(w http.ResponseWriter, r *http.Request, sess *session) (bool, *int)

// with opens the caller's session, runs act, then (for mutations) saves and
// records a finished game before replying with the view.
func (p *playRoutes) with(mutates bool, act action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o := p.srv.ownerOf(w, r)
		slot, date := classicSlot(o), ""
		if p.mode == modeDaily {
			date = daily.DateKey(p.srv.clock.Now())
			slot = dailySlot(date, o)
		}
		sess, err := p.srv.openSession(r.Context(), slot, p.mode, date, o)
		if err != nil {
			log.Error().Err(err).Str("slot", slot).Msg("open session")
			writeError(w, http.StatusInternalServerError, "server_error", "")
			return
		}
		defer sess.mu.Unlock()

		ok, last := act(w, r, sess)
		if !ok {
			return
		}
		if mutates {
			p.srv.finish(r.Context(), sess)
			p.srv.save(r.Context(), sess)
		}
		v := viewOf(sess)
		v.LastScore = last
		writeJSON(w, http.StatusOK, v)
	}
}

func (p *playRoutes) show(w http.ResponseWriter, r *http.Request, sess *session) (bool, *int) {
	return true, nil
}

func (p *playRoutes) roll(w http.ResponseWriter, r *http.Request, sess *session) (bool, *int) {
	if err := sess.eng.Roll(); err != nil {
		writeGameError(w, err)
		return false, nil
	}
	log.Debug().Str("slot", sess.slot).Int("turn", sess.eng.TurnNumber()).
		Ints("values", sess.eng.Values()).Msg("rolled")
	return true, nil
}

type reserveReq struct {
	DieID *int `json:"dieId"`
}

// reserve toggles a die. An unknown id, or a toggle once the turn is scored,
// changes nothing and still returns the view.
func (p *playRoutes) reserve(w http.ResponseWriter, r *http.Request, sess *session) (bool, *int) {
	var body reserveReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DieID == nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "dieId required")
		return false, nil
	}
	sess.eng.ToggleReserved(*body.DieID)
	return true, nil
}

type scoreReq struct {
	Category string `json:"category"`
	Advance  *bool  `json:"advance"`
}

func (p *playRoutes) score(w http.ResponseWriter, r *http.Request, sess *session) (bool, *int) {
	var body scoreReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "")
		return false, nil
	}
	c, err := game.ParseCategory(body.Category)
	if err != nil {
		writeGameError(w, err)
		return false, nil
	}
	pts, err := sess.eng.SubmitScore(c)
	if err != nil {
		writeGameError(w, err)
		return false, nil
	}
	log.Debug().Str("slot", sess.slot).Int("turn", sess.eng.TurnNumber()).
		Stringer("category", c).Int("points", pts).Msg("scored")

	if body.Advance == nil || *body.Advance {
		// Cannot fail: SubmitScore just left the engine in TurnComplete.
		_ = sess.eng.AdvanceTurn()
	}
	return true, &pts
}

func (p *playRoutes) advance(w http.ResponseWriter, r *http.Request, sess *session) (bool, *int) {
	if err := sess.eng.AdvanceTurn(); err != nil {
		writeGameError(w, err)
		return false, nil
	}
	return true, nil
}

func (p *playRoutes) reset(w http.ResponseWriter, r *http.Request, sess *session) (bool, *int) {
	p.srv.restart(sess)
	return true, nil
}

// ---------------------------- history & stats ------------------------------

type scoreRow struct {
	Username   string `json:"username"`
	Score      int    `json:"score"`
	FinishedAt string `json:"finishedAt"`
}

// handleLeaderboard lists the best finished classic games. Guests show as "guest".
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT COALESCE(u.username, 'guest'), g.score, COALESCE(g.finished_at, '')
         FROM games g LEFT JOIN users u ON u.id = g.user_id
         WHERE g.status = 'finished' AND g.mode = 'classic'
         ORDER BY g.score DESC, g.finished_at ASC
         LIMIT 20`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	defer rows.Close()

	out := []scoreRow{}
	for rows.Next() {
		var sr scoreRow
		if err := rows.Scan(&sr.Username, &sr.Score, &sr.FinishedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "db_error", "")
			return
		}
		out = append(out, sr)
	}
	writeJSON(w, http.StatusOK, map[string]any{"top": out})
}

func (s *Server) handleStatsMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.FindByID(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "not_found", "")
		return
	}
	avg := 0
	if u.GamesPlayed > 0 {
		avg = u.TotalScore / u.GamesPlayed
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           u.ID,
		"gamesPlayed":  u.GamesPlayed,
		"bestScore":    u.BestScore,
		"totalScore":   u.TotalScore,
		"averageScore": avg,
	})
}

type gameRow struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	Score      int    `json:"score"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

func (s *Server) handleGamesMine(w http.ResponseWriter, r *http.Request) {
	out, err := s.recentGames(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) recentGames(ctx context.Context, userID string) ([]gameRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, status, score, started_at, COALESCE(finished_at, '')
         FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []gameRow{}
	for rows.Next() {
		var gr gameRow
		if err := rows.Scan(&gr.ID, &gr.Mode, &gr.Status, &gr.Score, &gr.StartedAt, &gr.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, gr)
	}
	return out, rows.Err()
}
