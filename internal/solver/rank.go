// apps/go-solver/internal/solver/rank.go
//
// Entropy ranking of candidate guesses.
//
// Each guess is scored by the Shannon entropy (bits) of the distribution
// of feedback patterns it would produce across the current pool. The scan
// is |guesses| x |pool| pattern computations; nothing is cached between
// calls, since the pool changes after every guess.

package solver

import (
	"math"
	"sort"
)

// Recommendation is one scored guess.
type Recommendation struct {
	Word        Word    `json:"word"`
	Entropy     float64 `json:"entropy"`
	IsCandidate bool    `json:"isCandidate"` // guess is itself a possible answer
}

type rankConfig struct {
	progress func()
}

// RankOption tunes a Rank call.
type RankOption func(*rankConfig)

// WithProgress registers fn to be called once per scored guess.
func WithProgress(fn func()) RankOption {
	return func(c *rankConfig) { c.progress = fn }
}

// Entropy returns the expected information in bits revealed by guessing
// guess against pool. An empty pool yields 0.
func Entropy(guess Word, pool []Word) float64 {
	var counts [NumPatterns]int
	return entropy(guess, pool, &counts)
}

func entropy(guess Word, pool []Word, counts *[NumPatterns]int) float64 {
	total := len(pool)
	if total == 0 {
		return 0
	}
	*counts = [NumPatterns]int{}
	for _, answer := range pool {
		counts[ComputePattern(guess, answer)]++
	}

	// Sum over bucket sizes in sorted order so guesses that split the pool
	// the same way score bit-for-bit the same, whichever patterns they hit.
	sizes := make([]int, 0, 16)
	for _, c := range counts {
		if c > 0 {
			sizes = append(sizes, c)
		}
	}
	sort.Ints(sizes)

	h := 0.0
	n := float64(total)
	for _, c := range sizes {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

// GuessUniverse picks which words are worth scoring: with one or two
// candidates left only a candidate can win this turn, so only those are
// considered; otherwise the whole universe is.
func GuessUniverse(pool, universe []Word) []Word {
	if len(pool) == 1 || len(pool) == 2 {
		return pool
	}
	return universe
}

// Rank scores the guess universe against pool and returns at most topN
// recommendations, best first. Equal entropies put candidates first and
// otherwise keep universe order. topN <= 0 returns every score. An empty
// pool returns nil.
func Rank(pool, universe []Word, topN int, opts ...RankOption) []Recommendation {
	if len(pool) == 0 {
		return nil
	}
	var cfg rankConfig
	for _, o := range opts {
		o(&cfg)
	}

	inPool := make(map[Word]struct{}, len(pool))
	for _, w := range pool {
		inPool[w] = struct{}{}
	}

	guesses := GuessUniverse(pool, universe)
	out := make([]Recommendation, 0, len(guesses))
	var counts [NumPatterns]int
	for _, g := range guesses {
		_, cand := inPool[g]
		out = append(out, Recommendation{
			Word:        g,
			Entropy:     entropy(g, pool, &counts),
			IsCandidate: cand,
		})
		if cfg.progress != nil {
			cfg.progress()
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Entropy != out[j].Entropy {
			return out[i].Entropy > out[j].Entropy
		}
		return out[i].IsCandidate && !out[j].IsCandidate
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// WinProbability is the chance that guessing rec wins immediately, assuming
// every remaining candidate is equally likely.
func WinProbability(rec Recommendation, poolSize int) float64 {
	if !rec.IsCandidate || poolSize <= 0 {
		return 0
	}
	return 1 / float64(poolSize)
}
