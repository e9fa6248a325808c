// apps/go-solver/internal/game/session.go
//
// Solving session on top of the solver core.
// Responsibilities:
//   - Validate raw user text (guess word, feedback pattern) before it
//     reaches the core.
//   - Track the guess history and the 6-row board limit.
//   - Serialize mutations against snapshots: Submit/Reset take the write
//     lock, Snapshot the read lock, so many readers can rank at once.
//
// Notes:
//   - An all-exact pattern marks the session as won; further input is
//     rejected until Reset.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

const defaultMaxGuesses = 6

var (
	ErrInvalidGuess   = errors.New("invalid guess")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrBoardFull      = errors.New("board is full, start a new game")
	ErrFinished       = errors.New("already solved, start a new game")
)

// New wraps s in a session with a fresh ID.
func New(s *solver.Solver) *Session {
	now := time.Now().UTC()
	g := &Session{
		ID:         randomID(),
		MaxGuesses: defaultMaxGuesses,
		Created:    now,
		solver:     s,
		history:    []Turn{},
	}
	g.touched.Store(now.UnixNano())
	return g
}

// Submit validates a raw guess and pattern, records the turn and narrows
// the candidate pool.
func (g *Session) Submit(rawGuess, rawPattern string) (Turn, error) {
	guess, err := solver.ParseWord(rawGuess)
	if err != nil {
		return Turn{}, fmt.Errorf("%w: %w", ErrInvalidGuess, err)
	}
	pat, err := solver.ParsePattern(rawPattern)
	if err != nil {
		return Turn{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.touched.Store(time.Now().UnixNano())

	if g.won {
		return Turn{}, ErrFinished
	}
	if len(g.history) >= g.MaxGuesses {
		return Turn{}, ErrBoardFull
	}

	t := Turn{Guess: guess, Pattern: pat, WasCandidate: g.solver.IsCandidate(guess)}
	g.history = append(g.history, t)
	g.solver.Filter(guess, pat)
	if pat.Solved() {
		g.won = true
	}
	return t, nil
}

// Reset clears the history and restores the full answer set.
func (g *Session) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.history = []Turn{}
	g.won = false
	g.solver.Reset()
	g.touched.Store(time.Now().UnixNano())
}

// Snapshot computes the current advice and returns it with the history.
func (g *Session) Snapshot(topN int, opts ...solver.RankOption) State {
	g.mu.RLock()
	defer g.mu.RUnlock()

	advice := g.solver.Advise(topN, opts...)
	picks := make([]Pick, 0, len(advice.Picks))
	for _, r := range advice.Picks {
		picks = append(picks, Pick{
			Recommendation: r,
			WinProbability: solver.WinProbability(r, advice.Remaining),
		})
	}
	return State{
		ID:          g.ID,
		Created:     g.Created,
		Turn:        len(g.history) + 1,
		MaxGuesses:  g.MaxGuesses,
		Won:         g.won,
		BoardFull:   len(g.history) >= g.MaxGuesses,
		Mode:        advice.Mode,
		Solution:    advice.Solution,
		Remaining:   advice.Remaining,
		Uncertainty: advice.Uncertainty,
		Picks:       picks,
		History:     append([]Turn{}, g.history...),
	}
}

// History returns a copy of the submitted turns.
func (g *Session) History() []Turn {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Turn{}, g.history...)
}

// Remaining returns the answers still consistent with the history.
func (g *Session) Remaining() []solver.Word {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.solver.Remaining()
}

// LastActive is the time of the last Submit or Reset (or creation).
// It does not take the session lock, so it never waits on a ranking.
func (g *Session) LastActive() time.Time {
	return time.Unix(0, g.touched.Load()).UTC()
}

// randomID returns a compact 16‑hex‑char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
