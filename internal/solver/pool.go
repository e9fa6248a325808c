// apps/go-solver/internal/solver/pool.go
//
// Candidate pool: the answers still consistent with every piece of
// feedback seen so far.
//
// The answer set is fixed at construction; membership is a bitset over
// answer indices, so Filter only ever clears bits and Reset sets them all
// again. The pool is not safe for concurrent use: callers that share one
// must serialize Filter/Reset against readers, or rank over Words(),
// which returns an independent copy.

package solver

import (
	"github.com/bits-and-blooms/bitset"
)

// Pool tracks which answers remain possible.
type Pool struct {
	answers []Word
	index   map[Word]uint
	live    *bitset.BitSet
}

// NewPool returns a full pool over answers. The slice is copied.
func NewPool(answers []Word) *Pool {
	p := &Pool{
		answers: append([]Word(nil), answers...),
		index:   make(map[Word]uint, len(answers)),
		live:    bitset.New(uint(len(answers))),
	}
	for i, w := range p.answers {
		if _, dup := p.index[w]; !dup {
			p.index[w] = uint(i)
		}
	}
	p.Reset()
	return p
}

// Reset restores every answer.
func (p *Pool) Reset() {
	p.live.ClearAll()
	for _, i := range p.index {
		p.live.Set(i)
	}
}

// Filter drops every word whose pattern against guess differs from pat.
func (p *Pool) Filter(guess Word, pat Pattern) {
	for i, ok := p.live.NextSet(0); ok; i, ok = p.live.NextSet(i + 1) {
		if ComputePattern(guess, p.answers[i]) != pat {
			p.live.Clear(i)
		}
	}
}

// Len is the number of remaining candidates.
func (p *Pool) Len() int { return int(p.live.Count()) }

// Contains reports whether w is still a candidate.
func (p *Pool) Contains(w Word) bool {
	i, ok := p.index[w]
	return ok && p.live.Test(i)
}

// Words returns the remaining candidates in answer-set order.
func (p *Pool) Words() []Word {
	out := make([]Word, 0, p.Len())
	for i, ok := p.live.NextSet(0); ok; i, ok = p.live.NextSet(i + 1) {
		out = append(out, p.answers[i])
	}
	return out
}

// Size is the size of the full answer set the pool resets to.
func (p *Pool) Size() int { return len(p.index) }
