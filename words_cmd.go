package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func newWordsCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the sqlite dictionary",
	}
	cmd.AddCommand(newWordsImportCmd(cfg), newWordsStatsCmd(cfg))
	return cmd
}

func newWordsImportCmd(cfg *Config) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Append word files to the answer or allowed list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.setupLogging(true)
			k, err := words.ParseKind(kind)
			if err != nil {
				return err
			}
			db, err := cfg.openWordsDB()
			if err != nil {
				return err
			}
			defer db.Close()

			st := words.NewStore(db)
			total := 0
			for _, path := range args {
				list, err := words.ReadFile(path)
				if err != nil {
					return err
				}
				n, err := st.Import(cmd.Context(), k, list)
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				log.Info().Str("file", path).Str("kind", string(k)).Int("read", len(list)).Int("added", n).Msg("imported")
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d %s word(s)\n", total, k)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "answers", "list to import into: answers or allowed")
	return cmd
}

func newWordsStatsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many words each list holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.setupLogging(true)
			db, err := cfg.openWordsDB()
			if err != nil {
				return err
			}
			defer db.Close()

			counts, err := words.NewStore(db).Counts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "answers: %d\nallowed: %d\n", counts[words.KindAnswer], counts[words.KindAllowed])
			return nil
		},
	}
}
