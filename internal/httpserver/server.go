// apps/go-solver/internal/httpserver/server.go
//
// HTTP server wiring for the solver backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access log).
//   - Public endpoints: "/", "/health", "/debug/words", POST /session/new.
//   - Session endpoints (token required): GET/DELETE /session,
//     POST /session/guess, POST /session/reset.
//
// Notes:
//   - Each session owns an independent solver; the dictionary is shared
//     read-only.
//   - The request timeout is the only deadline on ranking. The core does not
//     return partial results, so a timed-out request gets a 504 and the
//     computed advice is dropped.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Options configures a Server.
type Options struct {
	ClientOrigin   string        // CORS origin
	RequestTimeout time.Duration // per-request deadline (default 10s)
	DefaultTop     int           // picks returned when ?top is absent (default 10)
	MaxTop         int           // upper bound for ?top (default 50)
	SecureCookies  bool          // Secure + SameSite=None on the session cookie
}

func (o *Options) defaults() {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.DefaultTop <= 0 {
		o.DefaultTop = 10
	}
	if o.MaxTop <= 0 {
		o.MaxTop = 50
	}
	if o.DefaultTop > o.MaxTop {
		o.DefaultTop = o.MaxTop
	}
}

// Server bundles router, session store, dictionary and token signer.
type Server struct {
	r      *chi.Mux
	store  store.Store
	dict   *words.Dictionary
	tokens *Tokens
	opts   Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, dict *words.Dictionary, tokens *Tokens, opts Options) *Server {
	opts.defaults()
	s := &Server{r: chi.NewRouter(), store: st, dict: dict, tokens: tokens, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                          // zerolog line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wordle-solver",
			"endpoints": []string{
				"/health", "POST /session/new", "GET /session", "POST /session/guess",
				"POST /session/reset", "DELETE /session",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.dict.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g, "sessions": s.store.Len()})
	})

	s.r.Route("/session", func(r chi.Router) {
		r.Post("/new", s.handleNewSession)

		// Everything else needs a valid session token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleState)
			r.Delete("/", s.handleDelete)
			r.Post("/guess", s.handleGuess)
			r.Post("/reset", s.handleReset)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- session -------------------------------------

// newSessionRes is returned by POST /session/new.
type newSessionRes struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleNewSession creates a session over a fresh solver and issues its token.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sess := game.New(s.dict.NewSolver())
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.tokens.Sign(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setSessionCookie(w, tok, exp, s.opts.SecureCookies)
	log.Debug().Str("sessionId", sess.ID).Msg("session created")
	writeJSON(w, http.StatusCreated, newSessionRes{SessionID: sess.ID, Token: tok, ExpiresAt: exp})
}

// handleState returns the session's history and current recommendations.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	top, err := s.topN(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeState(w, r, sessionFrom(r.Context()), top, http.StatusOK)
}

// guessRes is the session state plus what the dictionary knows about the
// submitted word. Unknown words are accepted.
type guessRes struct {
	game.State
	GuessAllowed  bool `json:"guessAllowed"`
	GuessIsAnswer bool `json:"guessIsAnswer"`
}

// guessReq is the payload for POST /session/guess.
type guessReq struct {
	Guess   string `json:"guess"`
	Pattern string `json:"pattern"` // g/y/b per letter, e.g. "gybbg"
}

// handleGuess applies one piece of feedback and returns the new state.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	top, err := s.topN(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := sessionFrom(r.Context())
	turn, err := sess.Submit(req.Guess, req.Pattern)
	switch {
	case errors.Is(err, game.ErrInvalidGuess), errors.Is(err, game.ErrInvalidPattern):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, game.ErrBoardFull), errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	res := guessRes{
		GuessAllowed:  s.dict.IsAllowed(turn.Guess),
		GuessIsAnswer: s.dict.IsAnswer(turn.Guess),
	}
	log.Debug().
		Str("sessionId", sess.ID).
		Str("guess", turn.Guess.String()).
		Str("pattern", turn.Pattern.String()).
		Bool("inDictionary", res.GuessAllowed).
		Msg("feedback applied")

	st, ok := s.snapshot(r, sess, top)
	if !ok {
		return
	}
	res.State = st
	s.refreshToken(w, sess)
	writeJSON(w, http.StatusOK, res)
}

// handleReset restarts the session from the full answer set.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	top, err := s.topN(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := sessionFrom(r.Context())
	sess.Reset()
	s.refreshToken(w, sess)
	s.writeState(w, r, sess, top, http.StatusOK)
}

// handleDelete ends the session and clears its cookie.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.store.Delete(r.Context(), sess.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	clearSessionCookie(w, s.opts.SecureCookies)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// writeState ranks and writes the session state, unless the request
// deadline passed while ranking.
func (s *Server) writeState(w http.ResponseWriter, r *http.Request, sess *game.Session, top, status int) {
	if st, ok := s.snapshot(r, sess, top); ok {
		writeJSON(w, status, st)
	}
}

// snapshot ranks sess; ok is false once the request deadline has passed,
// in which case the timeout middleware has already answered.
func (s *Server) snapshot(r *http.Request, sess *game.Session, top int) (game.State, bool) {
	st := sess.Snapshot(top)
	if err := r.Context().Err(); err != nil {
		log.Warn().Err(err).Str("sessionId", sess.ID).Msg("ranking exceeded request deadline")
		return game.State{}, false
	}
	return st, true
}

// refreshToken re-issues the session token so that its expiry follows the
// last activity, matching the idle sweep. Bearer clients read the new
// token from the X-Session-Token header.
func (s *Server) refreshToken(w http.ResponseWriter, sess *game.Session) {
	tok, exp, err := s.tokens.Sign(sess.ID)
	if err != nil {
		log.Error().Err(err).Str("sessionId", sess.ID).Msg("refresh session token")
		return
	}
	setSessionCookie(w, tok, exp, s.opts.SecureCookies)
	w.Header().Set(sessionTokenHeader, tok)
	w.Header().Set(sessionExpiresHeader, exp.UTC().Format(time.RFC3339))
}

var errBadTop = errors.New("top must be a positive integer")

// topN reads ?top, applying the default and clamping to MaxTop.
func (s *Server) topN(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return s.opts.DefaultTop, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errBadTop
	}
	if n > s.opts.MaxTop {
		n = s.opts.MaxTop
	}
	return n, nil
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
