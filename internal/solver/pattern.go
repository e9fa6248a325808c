// apps/go-solver/internal/solver/pattern.go
//
// Feedback patterns and the oracle that produces them.
//
// A Pattern packs the five per-letter marks into a base-3 number
// (position 0 is the most significant digit), so every pattern fits
// in 0..242 and can index a fixed-size tally array.

package solver

import (
	"errors"
	"strings"
)

// Mark is the feedback for one letter of a guess.
type Mark uint8

const (
	Absent  Mark = iota // letter not in the answer (or all copies used up)
	Present             // letter in the answer at another position
	Exact               // letter in the right position
)

// NumPatterns is the number of distinct patterns (3^5).
const NumPatterns = 243

// Pattern is a base-3 encoding of five marks.
type Pattern uint8

// AllExact is the pattern of a winning guess.
const AllExact Pattern = NumPatterns - 1

var pow3 = [WordLen]uint8{81, 27, 9, 3, 1}

var (
	ErrPatternLength = errors.New("pattern must have exactly 5 marks")
	ErrPatternChars  = errors.New("pattern marks must be g/y/b (or 2/1/0)")
)

// PatternOf builds a pattern from marks given left to right.
func PatternOf(marks ...Mark) Pattern {
	var p uint8
	for i := 0; i < WordLen; i++ {
		var m Mark
		if i < len(marks) {
			m = marks[i]
		}
		p = p*3 + uint8(m)
	}
	return Pattern(p)
}

// At returns the mark at position i.
func (p Pattern) At(i int) Mark {
	return Mark(uint8(p) / pow3[i] % 3)
}

// Marks unpacks the pattern.
func (p Pattern) Marks() [WordLen]Mark {
	var out [WordLen]Mark
	for i := range out {
		out[i] = p.At(i)
	}
	return out
}

// Solved reports whether every position is Exact.
func (p Pattern) Solved() bool { return p == AllExact }

// String renders the pattern as g/y/b letters, e.g. "gybbg".
func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(WordLen)
	for i := 0; i < WordLen; i++ {
		switch p.At(i) {
		case Exact:
			b.WriteByte('g')
		case Present:
			b.WriteByte('y')
		default:
			b.WriteByte('b')
		}
	}
	return b.String()
}

// MarshalText encodes the pattern in its g/y/b form.
func (p Pattern) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText accepts anything ParsePattern does.
func (p *Pattern) UnmarshalText(b []byte) error {
	v, err := ParsePattern(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePattern reads five marks. Accepted per position (case-insensitive):
//
//	g, 2      exact
//	y, 1      present
//	b, 0, n   absent ("n" is an unset tile, submitted as absent)
func ParsePattern(s string) (Pattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != WordLen {
		return 0, ErrPatternLength
	}
	marks := make([]Mark, WordLen)
	for i := 0; i < WordLen; i++ {
		switch s[i] {
		case 'g', '2':
			marks[i] = Exact
		case 'y', '1':
			marks[i] = Present
		case 'b', '0', 'n':
			marks[i] = Absent
		default:
			return 0, ErrPatternChars
		}
	}
	return PatternOf(marks...), nil
}

// ComputePattern returns the feedback the game gives for guess when the
// hidden word is answer.
//
// Pass 1 marks exact matches and consumes those letters from the answer's
// letter counts. Pass 2 walks the remaining positions left to right and
// marks Present only while unconsumed copies of the letter remain, so a
// repeated guess letter is never credited more times than it occurs in
// the answer, and exact positions always win over present ones.
func ComputePattern(guess, answer Word) Pattern {
	var marks [WordLen]Mark
	var counts [26]int8

	for i := 0; i < WordLen; i++ {
		counts[answer[i]-'A']++
	}

	// Pass 1: exact matches.
	for i := 0; i < WordLen; i++ {
		if guess[i] == answer[i] {
			marks[i] = Exact
			counts[guess[i]-'A']--
		}
	}

	// Pass 2: present elsewhere, limited by remaining counts.
	for i := 0; i < WordLen; i++ {
		if marks[i] == Exact {
			continue
		}
		j := guess[i] - 'A'
		if counts[j] > 0 {
			marks[i] = Present
			counts[j]--
		}
	}

	var p uint8
	for _, m := range marks {
		p = p*3 + uint8(m)
	}
	return Pattern(p)
}
