// apps/go-solver/internal/words/words.go
//
// Dictionary loading for the solver.
//
// Responsibilities:
//   - Load the answer list and the extra allowed-guess list from a sqlite
//     dictionary, from files, or from the embedded defaults.
//   - Normalize entries (trim, upper-case, keep only 5-letter A–Z words,
//     drop duplicates while keeping first-seen order).
//   - Hand out independent solver.Solver values built from the lists.
//
// Source priority (Load):
//  1. Source.DB set            → words table (see sql/001_words.sql).
//  2. AnswersFile + AllowedFile → answers from the first, guesses from the second.
//  3. AllowedFile only          → that file is used for both lists.
//  4. nothing configured        → embedded lists from the assets package.
//
// The solver core never re-validates words; everything it receives has
// passed through normalize here.

package words

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// ErrNoAnswers is returned when a source yields no usable answer words.
var ErrNoAnswers = errors.New("words: answers list is empty")

// Source says where to load the dictionary from.
type Source struct {
	AnswersFile string
	AllowedFile string
	DB          *Store
}

// Dictionary is a loaded pair of word lists.
type Dictionary struct {
	Answers []solver.Word // possible solutions
	Allowed []solver.Word // every valid guess, answers included

	answerSet  mapset.Set[solver.Word]
	allowedSet mapset.Set[solver.Word]
}

// Load reads a dictionary from src.
func Load(ctx context.Context, src Source) (*Dictionary, error) {
	var ansList, allowList []string

	switch {
	case src.DB != nil:
		d, err := src.DB.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load words from db: %w", err)
		}
		return d, nil

	case src.AnswersFile != "" && src.AllowedFile != "":
		var err error
		if ansList, err = readWordFile(src.AnswersFile); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(src.AllowedFile); err != nil {
			return nil, err
		}

	case src.AllowedFile != "":
		var err error
		if allowList, err = readWordFile(src.AllowedFile); err != nil {
			return nil, err
		}
		ansList = allowList

	default:
		var err error
		if ansList, err = assets.AnswersList(); err != nil {
			return nil, fmt.Errorf("embedded answers: %w", err)
		}
		if allowList, err = assets.AllowedList(); err != nil {
			return nil, fmt.Errorf("embedded allowed: %w", err)
		}
	}

	return New(normalize(ansList), normalize(allowList))
}

// New builds a dictionary from already-valid words. Answers are always
// added to the allowed list.
func New(answers, allowed []solver.Word) (*Dictionary, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}
	d := &Dictionary{
		answerSet:  mapset.NewThreadUnsafeSet[solver.Word](),
		allowedSet: mapset.NewThreadUnsafeSet[solver.Word](),
	}
	for _, w := range answers {
		if d.answerSet.Add(w) {
			d.Answers = append(d.Answers, w)
		}
	}
	for _, list := range [][]solver.Word{d.Answers, allowed} {
		for _, w := range list {
			if d.allowedSet.Add(w) {
				d.Allowed = append(d.Allowed, w)
			}
		}
	}
	return d, nil
}

// NewSolver returns a fresh solver over this dictionary.
func (d *Dictionary) NewSolver() *solver.Solver {
	return solver.New(d.Answers, d.Allowed)
}

// IsAllowed reports whether w is a valid guess.
func (d *Dictionary) IsAllowed(w solver.Word) bool { return d.allowedSet.Contains(w) }

// IsAnswer reports whether w can be a solution.
func (d *Dictionary) IsAnswer(w solver.Word) bool { return d.answerSet.Contains(w) }

// Stats returns counts of loaded words: (answers, allowed).
func (d *Dictionary) Stats() (answersCount int, allowedCount int) {
	return len(d.Answers), len(d.Allowed)
}

// ReadFile loads one word per line from path and normalizes it.
func ReadFile(path string) ([]solver.Word, error) {
	lines, err := readWordFile(path)
	if err != nil {
		return nil, err
	}
	return normalize(lines), nil
}

// readWordFile returns the raw, trimmed lines of a word file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// normalize keeps valid 5-letter words, upper-cased and de-duplicated.
// Invalid lines (comments, blanks, wrong length, non-letters) are skipped.
func normalize(lines []string) []solver.Word {
	seen := mapset.NewThreadUnsafeSet[solver.Word]()
	out := make([]solver.Word, 0, len(lines))
	for _, line := range lines {
		w, err := solver.ParseWord(line)
		if err != nil {
			continue
		}
		if seen.Add(w) {
			out = append(out, w)
		}
	}
	return out
}
