package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TwiN/go-color"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

const playHelp = `enter feedback as: GUESS PATTERN   (pattern letters: g=green y=yellow b=gray)
  e.g. "crane bygbb"
other commands: list, reset, help, quit`

func newPlayCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Solve interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.setupLogging(true)
			dict, closeDB, err := cfg.loadDictionary(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			return runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), game.New(dict.NewSolver()), cfg.top)
		},
	}
}

// runPlay reads commands from in until EOF or "quit".
func runPlay(ctx context.Context, in io.Reader, out io.Writer, sess *game.Session, top int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Fprintln(out, playHelp)
	printState(out, sess.Snapshot(top))

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			fmt.Fprintln(out, playHelp)
			continue
		case "reset":
			sess.Reset()
			fmt.Fprintln(out, color.Ize(color.Cyan, "solver reset, ready for a new puzzle"))
			printState(out, sess.Snapshot(top))
			continue
		case "list":
			printRemaining(out, sess)
			continue
		}

		if len(fields) != 2 {
			fmt.Fprintln(out, color.Ize(color.Red, "expected: GUESS PATTERN"))
			continue
		}
		turn, err := sess.Submit(fields[0], fields[1])
		if err != nil {
			fmt.Fprintln(out, color.Ize(color.Red, err.Error()))
			if errors.Is(err, game.ErrBoardFull) || errors.Is(err, game.ErrFinished) {
				fmt.Fprintln(out, `type "reset" to start over`)
			}
			continue
		}
		st := sess.Snapshot(top)
		printState(out, st)
		if turn.Pattern.Solved() {
			fmt.Fprintln(out, color.Ize(color.Green, fmt.Sprintf("solved in %d guess(es)!", len(st.History))))
		}
	}
}

// tiles renders a guess coloured by its feedback.
func tiles(t game.Turn) string {
	var b strings.Builder
	for i, m := range t.Pattern.Marks() {
		letter := " " + string(t.Guess[i]) + " "
		switch m {
		case solver.Exact:
			b.WriteString(color.Ize(color.Green, letter))
		case solver.Present:
			b.WriteString(color.Ize(color.Yellow, letter))
		default:
			b.WriteString(color.Ize(color.Gray, letter))
		}
	}
	return b.String()
}

func printState(out io.Writer, st game.State) {
	for _, t := range st.History {
		fmt.Fprintf(out, "  %s  %s\n", tiles(t), t.Pattern)
	}
	fmt.Fprintf(out, "turn %d/%d  possible words: %d  uncertainty: %.2f bits\n",
		st.Turn, st.MaxGuesses, st.Remaining, st.Uncertainty)

	switch st.Mode {
	case solver.ModeExhausted:
		fmt.Fprintln(out, color.Ize(color.Red, "no solutions found: the word might not be in the dictionary"))
	case solver.ModeSolved:
		fmt.Fprintf(out, "solution: %s\n", color.Ize(color.Green, st.Solution.String()))
	default:
		fmt.Fprintln(out, "  word   entropy  win prob")
		for _, p := range st.Picks {
			line := fmt.Sprintf("  %s  %7.2f  %8.4f", p.Word, p.Entropy, p.WinProbability)
			if p.IsCandidate {
				line = color.Ize(color.Cyan, line)
			}
			fmt.Fprintln(out, line)
		}
	}
}

// printRemaining lists candidates when there are few enough to read.
func printRemaining(out io.Writer, sess *game.Session) {
	const maxListed = 100
	ws := sess.Remaining()
	if len(ws) > maxListed {
		fmt.Fprintf(out, "%d words remain, too many to list\n", len(ws))
		return
	}
	names := make([]string, len(ws))
	for i, w := range ws {
		names[i] = w.String()
	}
	fmt.Fprintln(out, strings.Join(names, " "))
}
