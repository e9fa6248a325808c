package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

const releaseVersion = "0.4.0"

// Config is filled from flags, then from the environment (and .env).
type Config struct {
	logLevel       string
	port           int
	answersFile    string
	allowedFile    string
	wordsDB        string
	sessionSecret  string
	sessionTTL     time.Duration
	clientOrigin   string
	top            int
	requestTimeout time.Duration
	secureCookies  bool
}

func (c *Config) validate() error {
	if c.top < 1 {
		return fmt.Errorf("invalid top (must be at least 1): %d", c.top)
	}
	if c.answersFile != "" && c.allowedFile == "" {
		return errors.New("--words-answers-file needs --words-allowed-file as well")
	}
	return nil
}

// setupLogging applies the level and, for interactive commands, a console writer.
func (c *Config) setupLogging(console bool) {
	if lvl, err := zerolog.ParseLevel(c.logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// loadDictionary reads the configured word lists. The returned closer
// releases the database handle, if one was opened.
func (c *Config) loadDictionary(ctx context.Context) (*words.Dictionary, func(), error) {
	src := words.Source{AnswersFile: c.answersFile, AllowedFile: c.allowedFile}
	closer := func() {}
	if c.wordsDB != "" {
		db, err := c.openWordsDB()
		if err != nil {
			return nil, closer, err
		}
		closer = func() { _ = db.Close() }
		src.DB = words.NewStore(db)
	}
	dict, err := words.Load(ctx, src)
	if err != nil {
		closer()
		return nil, func() {}, err
	}
	a, g := dict.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Str("db", c.wordsDB).Msg("dictionary loaded")
	return dict, closer, nil
}

func (c *Config) openWordsDB() (*sql.DB, error) {
	if c.wordsDB == "" {
		return nil, errors.New("no words database configured (--words-db / WORDS_DB)")
	}
	db, err := openDB(c.wordsDB)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, words.Migrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// bindEnv copies environment values into flags the user did not set.
// Flag "words-db" reads WORDS_DB, and so on.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newRootCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "wordle-solver",
		Short:   "Suggests the Wordle guess that reveals the most information.",
		Version: releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindEnv(v, cmd.Flags())
			return cfg.validate()
		},
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.logLevel, "log-level", "info", "zerolog level (env: LOG_LEVEL)")
	fs.StringVar(&cfg.answersFile, "words-answers-file", "", "answer list, one word per line (env: WORDS_ANSWERS_FILE)")
	fs.StringVar(&cfg.allowedFile, "words-allowed-file", "", "allowed guess list, one word per line (env: WORDS_ALLOWED_FILE)")
	fs.StringVar(&cfg.wordsDB, "words-db", "", "sqlite dictionary path; overrides the word files (env: WORDS_DB)")
	fs.IntVarP(&cfg.top, "top", "n", 10, "number of recommendations to show (env: TOP)")

	cmd.AddCommand(
		newServeCmd(cfg),
		newPlayCmd(cfg),
		newOpenerCmd(cfg),
		newWordsCmd(cfg),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("wordle-solver v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
