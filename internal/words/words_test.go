package words

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	d, err := Load(context.Background(), Source{})
	if err != nil {
		t.Fatal(err)
	}
	a, g := d.Stats()
	if a == 0 || g <= a {
		t.Fatalf("Stats() = %d answers, %d allowed", a, g)
	}
	for _, w := range d.Answers {
		if !d.IsAllowed(w) {
			t.Fatalf("answer %s not allowed", w)
		}
	}
	if !d.IsAnswer(solver.MustWord("CRANE")) {
		t.Error("CRANE missing from embedded answers")
	}
	if d.IsAnswer(solver.MustWord("ADIEU")) || !d.IsAllowed(solver.MustWord("ADIEU")) {
		t.Error("ADIEU should be allowed but not an answer")
	}
}

func TestLoadFilesNormalizes(t *testing.T) {
	ans := writeFile(t, "answers.txt", "crane\n  Crate \n\nslate\nCRANE\ntoolong\nab1de\n# note\n")
	all := writeFile(t, "allowed.txt", "adieu\nSOARE\ncrane\n")

	d, err := Load(context.Background(), Source{AnswersFile: ans, AllowedFile: all})
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(d.Answers))
	for i, w := range d.Answers {
		got[i] = w.String()
	}
	want := []string{"CRANE", "CRATE", "SLATE"}
	if len(got) != len(want) {
		t.Fatalf("answers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("answers = %v, want %v", got, want)
		}
	}
	if _, allowed := d.Stats(); allowed != 5 {
		t.Errorf("allowed = %d, want 5", allowed)
	}
}

func TestLoadAllowedOnlyUsesItForBoth(t *testing.T) {
	all := writeFile(t, "allowed.txt", "adieu\nsoare\n")
	d, err := Load(context.Background(), Source{AllowedFile: all})
	if err != nil {
		t.Fatal(err)
	}
	if a, g := d.Stats(); a != 2 || g != 2 {
		t.Fatalf("Stats() = %d, %d", a, g)
	}
}

func TestLoadErrors(t *testing.T) {
	empty := writeFile(t, "answers.txt", "# nothing\nxx\n")
	all := writeFile(t, "allowed.txt", "adieu\n")
	if _, err := Load(context.Background(), Source{AnswersFile: empty, AllowedFile: all}); !errors.Is(err, ErrNoAnswers) {
		t.Errorf("empty answers err = %v", err)
	}
	missing := filepath.Join(t.TempDir(), "nope.txt")
	if _, err := Load(context.Background(), Source{AllowedFile: missing}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestDictionaryNewSolverIsFresh(t *testing.T) {
	d, err := New(
		[]solver.Word{solver.MustWord("CRANE"), solver.MustWord("CRATE")},
		[]solver.Word{solver.MustWord("NYMPH")},
	)
	if err != nil {
		t.Fatal(err)
	}
	s1 := d.NewSolver()
	s1.Filter(solver.MustWord("CRANE"), solver.AllExact)
	if s2 := d.NewSolver(); s2.RemainingCount() != 2 {
		t.Fatalf("second solver has %d remaining", s2.RemainingCount())
	}
	if len(s1.Universe()) != 3 {
		t.Errorf("universe = %v", s1.Universe())
	}
}
