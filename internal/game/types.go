// apps/go-solver/internal/game/types.go
//
// Core type definitions for a solving session.
// Defines:
//   - Turn:    one submitted (guess, feedback) pair.
//   - Session: history plus the solver it drives.
//   - State:   read-only view handed to the transport layers.

package game

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// Turn is one guess and the feedback the game gave for it.
type Turn struct {
	Guess   solver.Word    `json:"guess"`
	Pattern solver.Pattern `json:"pattern"`

	// WasCandidate is true when the guess could still have been the answer.
	WasCandidate bool `json:"wasCandidate"`
}

// Session holds the state of a single solving session.
// The guess history lives here, not in the solver core.
type Session struct {
	ID         string // Unique session identifier (random hex string).
	MaxGuesses int    // Board height (typically 6).
	Created    time.Time

	mu      sync.RWMutex
	solver  *solver.Solver
	history []Turn
	won     bool
	touched atomic.Int64 // unix nanos of the last Submit/Reset, read without mu
}

// Pick is a recommendation with its immediate win probability.
type Pick struct {
	solver.Recommendation
	WinProbability float64 `json:"winProbability"`
}

// State is a snapshot of a session for display.
type State struct {
	ID          string       `json:"id"`
	Created     time.Time    `json:"created"`
	Turn        int          `json:"turn"` // number of the next guess, 1-based
	MaxGuesses  int          `json:"maxGuesses"`
	Won         bool         `json:"won"`
	BoardFull   bool         `json:"boardFull"`
	Mode        solver.Mode  `json:"mode"`
	Solution    *solver.Word `json:"solution,omitempty"`
	Remaining   int          `json:"remaining"`
	Uncertainty float64      `json:"uncertainty"`
	Picks       []Pick       `json:"picks"`
	History     []Turn       `json:"history"`
}
