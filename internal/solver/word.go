// apps/go-solver/internal/solver/word.go
//
// Word is the fixed-length value every other piece of the engine works on.
// Words are stored as five uppercase ASCII letters so they can be compared,
// copied and used as map keys without allocation.
//
// The engine assumes its inputs were validated upstream; ParseWord is the
// helper the dictionary loader and the presentation layer use to get there.

package solver

import (
	"errors"
	"fmt"
	"strings"
)

// WordLen is the number of letters in every word.
const WordLen = 5

var (
	ErrWordLength = errors.New("word must be exactly 5 letters")
	ErrWordChars  = errors.New("word must contain only letters A-Z")
)

// Word is a five-letter uppercase word.
type Word [WordLen]byte

// ParseWord trims and upper-cases s and checks it is five letters A–Z.
func ParseWord(s string) (Word, error) {
	var w Word
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != WordLen {
		return w, ErrWordLength
	}
	for i := 0; i < WordLen; i++ {
		c := s[i]
		if c < 'A' || c > 'Z' {
			return w, ErrWordChars
		}
		w[i] = c
	}
	return w, nil
}

// MustWord is ParseWord for literals; it panics on invalid input.
func MustWord(s string) Word {
	w, err := ParseWord(s)
	if err != nil {
		panic(fmt.Sprintf("solver: invalid word %q: %v", s, err))
	}
	return w
}

// ParseWords parses every entry of list, failing on the first bad one.
func ParseWords(list []string) ([]Word, error) {
	out := make([]Word, 0, len(list))
	for i, s := range list {
		w, err := ParseWord(s)
		if err != nil {
			return nil, fmt.Errorf("word %d (%q): %w", i, s, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func (w Word) String() string { return string(w[:]) }

// MarshalText lets words appear as plain strings in JSON.
func (w Word) MarshalText() ([]byte, error) { return w[:], nil }

// UnmarshalText is the inverse of MarshalText and validates the input.
func (w *Word) UnmarshalText(b []byte) error {
	v, err := ParseWord(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}
