// apps/go-solver/internal/words/store.go
//
// sqlite-backed dictionary. Word lists are imported once (see the
// `words import` command) and read back on startup instead of parsing
// text files every time.

package words

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// Migrations holds the schema for the words table.
//
//go:embed sql/*.sql
var Migrations embed.FS

// Kind selects one of the two word lists.
type Kind string

const (
	KindAnswer  Kind = "answer"
	KindAllowed Kind = "allowed"
)

var ErrUnknownKind = errors.New("words: kind must be 'answer' or 'allowed'")

// ParseKind accepts the singular or plural list name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "answer", "answers":
		return KindAnswer, nil
	case "allowed", "guesses":
		return KindAllowed, nil
	}
	return "", ErrUnknownKind
}

// Store reads and writes the words table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Import appends list to the given kind, skipping words already stored.
// Returns the number of new rows.
func (s *Store) Import(ctx context.Context, kind Kind, list []solver.Word) (int, error) {
	if kind != KindAnswer && kind != KindAllowed {
		return 0, ErrUnknownKind
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM words WHERE kind=?`, kind,
	).Scan(&next); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO words(kind, word, position) VALUES (?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, w := range list {
		res, err := stmt.ExecContext(ctx, kind, w.String(), next)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
			next++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// List returns the words of one kind in import order.
func (s *Store) List(ctx context.Context, kind Kind) ([]solver.Word, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word FROM words WHERE kind=? ORDER BY position ASC`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []solver.Word
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		w, err := solver.ParseWord(raw)
		if err != nil {
			return nil, fmt.Errorf("stored word %q: %w", raw, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Load builds a dictionary from both stored lists.
func (s *Store) Load(ctx context.Context) (*Dictionary, error) {
	answers, err := s.List(ctx, KindAnswer)
	if err != nil {
		return nil, err
	}
	allowed, err := s.List(ctx, KindAllowed)
	if err != nil {
		return nil, err
	}
	return New(answers, allowed)
}

// Counts reports how many words of each kind are stored.
func (s *Store) Counts(ctx context.Context) (map[Kind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(1) FROM words GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[Kind]int{KindAnswer: 0, KindAllowed: 0}
	for rows.Next() {
		var k Kind
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}
