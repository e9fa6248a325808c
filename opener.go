package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

func newOpenerCmd(cfg *Config) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "opener [GUESS PATTERN]...",
		Short: "Rank every guess against the remaining answers",
		Long: `Scores the whole guess list against the answer list and prints the best
guesses. Optional GUESS PATTERN pairs narrow the answers first.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args)%2 != 0 {
				return fmt.Errorf("expected GUESS PATTERN pairs, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.setupLogging(true)
			dict, closeDB, err := cfg.loadDictionary(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			s := dict.NewSolver()
			for i := 0; i < len(args); i += 2 {
				g, err := solver.ParseWord(args[i])
				if err != nil {
					return fmt.Errorf("guess %q: %w", args[i], err)
				}
				p, err := solver.ParsePattern(args[i+1])
				if err != nil {
					return fmt.Errorf("pattern %q: %w", args[i+1], err)
				}
				s.Filter(g, p)
			}

			var progress io.Writer = cmd.ErrOrStderr()
			if quiet {
				progress = io.Discard
			}
			start := time.Now()
			advice := adviseWithBar(s, cfg.top, progress)
			log.Debug().Dur("took", time.Since(start)).Int("remaining", advice.Remaining).Msg("ranked")

			printAdvice(cmd.OutOrStdout(), advice)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

// adviseWithBar runs Advise with a progress bar sized to the guesses it will score.
func adviseWithBar(s *solver.Solver, top int, w io.Writer) solver.Advice {
	n := len(solver.GuessUniverse(s.Remaining(), s.Universe()))
	if s.RemainingCount() == 0 {
		n = 0
	}
	bar := progressbar.NewOptions64(int64(n),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("scoring guesses"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	advice := s.Advise(top, solver.WithProgress(func() { _ = bar.Add(1) }))
	_ = bar.Finish()
	return advice
}

func printAdvice(out io.Writer, a solver.Advice) {
	fmt.Fprintf(out, "%d possible answers (%.2f bits)\n", a.Remaining, a.Uncertainty)
	switch a.Mode {
	case solver.ModeExhausted:
		fmt.Fprintln(out, "no possible answers left")
	case solver.ModeSolved:
		fmt.Fprintf(out, "solution: %s\n", a.Solution)
	default:
		for i, r := range a.Picks {
			mark := ""
			if r.IsCandidate {
				mark = " *"
			}
			fmt.Fprintf(out, "%3d. %s  %.4f%s\n", i+1, r.Word, r.Entropy, mark)
		}
	}
}
