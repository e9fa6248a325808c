// apps/go-solver/internal/solver/solver.go
//
// Solver ties the pieces together for one solving session: it owns the
// answer set, the guess universe and a private candidate pool.
//
// There is no package-level state; every Solver is independent. A Solver
// is not safe for concurrent use on its own (see game.Session for the
// locking wrapper used by the server).

package solver

import (
	"math"
)

// Mode says what kind of advice the solver is giving.
type Mode string

const (
	ModeRanked    Mode = "ranked"    // several candidates left, picks are ranked
	ModeSolved    Mode = "solved"    // exactly one candidate left
	ModeExhausted Mode = "exhausted" // nothing in the dictionary fits the feedback
)

// Advice is a recommendation snapshot for the current pool.
type Advice struct {
	Mode        Mode             `json:"mode"`
	Solution    *Word            `json:"solution,omitempty"`
	Picks       []Recommendation `json:"picks"`
	Remaining   int              `json:"remaining"`
	Uncertainty float64          `json:"uncertainty"` // log2(remaining), bits
}

// Solver is a single solving session.
type Solver struct {
	universe []Word
	pool     *Pool
}

// New builds a solver. The guess universe is answers followed by every
// allowed word not already present, so answers are always guessable.
func New(answers, allowed []Word) *Solver {
	seen := make(map[Word]struct{}, len(answers)+len(allowed))
	universe := make([]Word, 0, len(answers)+len(allowed))
	for _, list := range [][]Word{answers, allowed} {
		for _, w := range list {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			universe = append(universe, w)
		}
	}
	return &Solver{
		universe: universe,
		pool:     NewPool(answers),
	}
}

// Reset restores the full answer set.
func (s *Solver) Reset() { s.pool.Reset() }

// Filter applies one piece of feedback to the pool.
func (s *Solver) Filter(guess Word, p Pattern) { s.pool.Filter(guess, p) }

// Remaining returns a copy of the remaining candidates.
func (s *Solver) Remaining() []Word { return s.pool.Words() }

// RemainingCount is the number of remaining candidates.
func (s *Solver) RemainingCount() int { return s.pool.Len() }

// IsCandidate reports whether w is still a possible answer.
func (s *Solver) IsCandidate(w Word) bool { return s.pool.Contains(w) }

// Universe returns the guess universe. The slice must not be modified.
func (s *Solver) Universe() []Word { return s.universe }

// AnswerCount is the size of the full answer set.
func (s *Solver) AnswerCount() int { return s.pool.Size() }

// Rank scores guesses against the current pool.
func (s *Solver) Rank(topN int, opts ...RankOption) []Recommendation {
	return Rank(s.pool.Words(), s.universe, topN, opts...)
}

// Uncertainty is log2 of the pool size, or 0 for an empty pool.
func (s *Solver) Uncertainty() float64 {
	return uncertainty(s.pool.Len())
}

func uncertainty(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Log2(float64(n))
}

// Advise returns the current advice. With one candidate left the answer is
// reported as the solution instead of a ranked list; with none left the
// advice is exhausted and carries no picks.
func (s *Solver) Advise(topN int, opts ...RankOption) Advice {
	pool := s.pool.Words()
	a := Advice{
		Remaining:   len(pool),
		Uncertainty: uncertainty(len(pool)),
	}
	switch len(pool) {
	case 0:
		a.Mode = ModeExhausted
		a.Picks = []Recommendation{}
	case 1:
		a.Mode = ModeSolved
		w := pool[0]
		a.Solution = &w
		a.Picks = []Recommendation{{Word: w, Entropy: 0, IsCandidate: true}}
	default:
		a.Mode = ModeRanked
		a.Picks = Rank(pool, s.universe, topN, opts...)
	}
	return a
}
