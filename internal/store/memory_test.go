package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()
	ws, err := solver.ParseWords([]string{"CRANE", "CRATE"})
	if err != nil {
		t.Fatal(err)
	}
	return game.New(solver.New(ws, nil))
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)

	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before Save err = %v", err)
	}
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if st.Len() != 1 {
		t.Fatalf("Len = %d", st.Len())
	}
	if err := st.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	a, b := newSession(t), newSession(t)
	_ = st.Save(ctx, a)
	_ = st.Save(ctx, b)

	if n := st.Sweep(time.Now().Add(-time.Hour)); n != 0 {
		t.Fatalf("swept %d fresh sessions", n)
	}
	if n := st.Sweep(time.Now().Add(time.Second)); n != 2 {
		t.Fatalf("swept %d, want 2", n)
	}
	if st.Len() != 0 {
		t.Fatalf("Len = %d", st.Len())
	}
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	st := NewMemoryStore()
	_ = st.Save(context.Background(), newSession(t))

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 16)
	done := make(chan struct{})
	go func() {
		RunSweeper(ctx, st, 5*time.Millisecond, -time.Minute, func(n int) {
			select {
			case swept <- n:
			default:
			}
		})
		close(done)
	}()

	select {
	case n := <-swept:
		if n != 1 {
			t.Errorf("first sweep removed %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never ran")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
