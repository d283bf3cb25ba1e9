// internal/httpserver/server.go
//
// HTTP server wiring for the word scramble backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logging, per-client rate limiting).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints: POST /game/new, and token-gated GET /game/{id},
//     POST /game/{id}/submit, POST /game/{id}/reset.
//   - Daily Challenge leaderboard: mounted under /daily.
//
// Notes:
//   - A rejected word is a normal game outcome (200 with status "rejected"),
//     not a transport error.
//   - Submissions to one game are serialised by the store, so the dictionary
//     verdict for one word is applied before the next word is checked.
//   - Game routes require the token issued by /game/new (bearer or cookie).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/store"
)

// WordStats describes the loaded root word list for /debug/words.
type WordStats interface {
	Len() int
	Name() string
}

// Options holds the server's collaborators and settings.
type Options struct {
	Store        store.Store
	Controller   *game.Controller
	Daily        *daily.Store // nil disables the leaderboard
	Words        WordStats
	Dictionary   string // backend description for /debug/words
	JWTSecret    string
	TokenTTL     time.Duration
	ClientOrigin string
	RateLimit    rate.Limit // per client; 0 disables limiting
	RateBurst    int
	Timeout      time.Duration
	Now          func() time.Time
}

// Server bundles router, game store and controller.
type Server struct {
	r      *chi.Mux
	store  store.Store
	ctrl   *game.Controller
	daily  *daily.Store
	words  WordStats
	dict   string
	tokens *tokenIssuer
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	s := &Server{
		r:      chi.NewRouter(),
		store:  o.Store,
		ctrl:   o.Controller,
		daily:  o.Daily,
		words:  o.Words,
		dict:   o.Dictionary,
		tokens: newTokenIssuer(o.JWTSecret, o.TokenTTL, o.Now),
		now:    o.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	// request-scoped logger + one access line per request
	s.r.Use(hlog.NewHandler(log.Logger), accessLog)
	s.r.Use(chimw.Recoverer)          // recover from panics
	s.r.Use(chimw.Timeout(o.Timeout)) // bound handler time
	s.r.Use(jsonContentType)          // default JSON responses
	s.r.Use(cors(o.ClientOrigin))     // credentials-friendly CORS
	if o.RateLimit > 0 {
		s.r.Use(newClientLimiter(o.RateLimit, o.RateBurst, o.Now).middleware)
	}

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordscramble","endpoints":["/health","POST /game/new","GET /game/{id}","POST /game/{id}/submit","POST /game/{id}/reset","/daily/leaderboard","/daily/me"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", s.handleDebugWords)

	// --- game ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Route("/game/{id}", func(r chi.Router) {
		r.Use(s.requireGameToken)
		r.Get("/", s.handleGetGame)
		r.Post("/submit", s.handleSubmit)
		r.Post("/reset", s.handleReset)
	})

	// --- daily challenge ---
	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (used by tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog logs one line per request with the request ID.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode game.Mode `json:"mode"` // "classic" (default) | "daily"
}
type newGameRes struct {
	GameID string      `json:"gameId"`
	Token  string      `json:"token"`
	Game   *game.State `json:"game"`
}

// handleNewGame starts a game, stores it, and issues a token bound to it.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body starts a classic game
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var (
		st  *game.State
		err error
	)
	switch req.Mode {
	case "", game.ModeClassic:
		st, err = s.ctrl.Start(r.Context())
	case game.ModeDaily:
		st, err = s.ctrl.StartDaily(r.Context(), s.now())
	default:
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("start game")
		writeError(w, statusFor(err), "start_failed")
		return
	}
	if err := s.store.Save(r.Context(), st); err != nil {
		log.Error().Err(err).Str("gameId", st.ID).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	player := ensureAnonID(w, r, s.now())
	tok, exp, err := s.tokens.issue(st.ID, player)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setTokenCookie(w, tok, exp)

	log.Info().Str("gameId", st.ID).Str("mode", string(st.Mode)).Str("rootWord", st.RootWord).Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{GameID: st.ID, Token: tok, Game: st})
}

type gameRes struct {
	Game *game.State `json:"game"`
}

// handleGetGame returns the current state of a game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameRes{Game: st})
}

// submitReq/Res payloads for POST /game/{id}/submit.
type submitReq struct {
	Word string `json:"word"`
}
type submitRes struct {
	Outcome game.Outcome `json:"outcome"`
	Game    *game.State  `json:"game"`
}

// handleSubmit validates a word against the game and applies the verdict.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var outcome game.Outcome
	st, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(ctx context.Context, cur *game.State) (*game.State, error) {
		next, out, err := s.ctrl.Submit(ctx, cur, req.Word)
		if err != nil {
			return nil, err
		}
		outcome = out
		return next, nil
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	ev := log.Debug()
	if outcome.Accepted() {
		ev = log.Info()
		s.recordDaily(r, st)
	}
	ev.Str("gameId", st.ID).Str("word", outcome.Word).Str("status", string(outcome.Status)).
		Str("reason", string(outcome.Reason)).Int("score", st.Score).Msg("word submitted")

	writeJSON(w, http.StatusOK, submitRes{Outcome: outcome, Game: st})
}

// handleReset discards the game's words and re-rolls its root word.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), s.ctrl.Reset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	log.Info().Str("gameId", st.ID).Str("rootWord", st.RootWord).Msg("game reset")
	writeJSON(w, http.StatusOK, gameRes{Game: st})
}

// handleDebugWords reports the root word list size and dictionary backend.
func (s *Server) handleDebugWords(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{"rootWords": 0, "source": "", "dictionary": s.dict}
	if s.words != nil {
		res["rootWords"] = s.words.Len()
		res["source"] = s.words.Name()
	}
	if n, err := s.store.Count(r.Context()); err == nil {
		res["games"] = n
	}
	writeJSON(w, http.StatusOK, res)
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// statusFor maps controller and store errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeStoreError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		writeError(w, status, "not_found")
	case http.StatusServiceUnavailable:
		writeError(w, status, "timeout")
	default:
		log.Error().Err(err).Msg("game store")
		writeError(w, status, "server_error")
	}
}
