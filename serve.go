package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

func newServeCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the solver HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.port < 1 || cfg.port > 65535 {
				return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", cfg.port)
			}
			cfg.setupLogging(false)
			return runServe(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: PORT)")
	fs.StringVar(&cfg.sessionSecret, "session-secret", "", "HMAC secret for session tokens (env: SESSION_SECRET)")
	fs.DurationVar(&cfg.sessionTTL, "session-ttl", 2*time.Hour, "idle time before a session is dropped (env: SESSION_TTL)")
	fs.StringVar(&cfg.clientOrigin, "client-origin", "http://localhost:5173", "allowed CORS origin (env: CLIENT_ORIGIN)")
	fs.DurationVar(&cfg.requestTimeout, "request-timeout", 10*time.Second, "per-request deadline, ranking included (env: REQUEST_TIMEOUT)")
	fs.BoolVar(&cfg.secureCookies, "secure-cookies", false, "mark session cookies Secure/SameSite=None (env: SECURE_COOKIES)")

	return cmd
}

func runServe(parent context.Context, cfg *Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dict, closeDB, err := cfg.loadDictionary(ctx)
	if err != nil {
		return fmt.Errorf("failed to load word lists: %w", err)
	}
	defer closeDB()

	if cfg.sessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET not set, using development secret")
	}

	mem := store.NewMemoryStore()
	go store.RunSweeper(ctx, mem, time.Minute, cfg.sessionTTL, func(n int) {
		if n > 0 {
			log.Info().Int("evicted", n).Int("active", mem.Len()).Msg("idle sessions swept")
		}
	})

	srv := httpserver.New(mem, dict, httpserver.NewTokens(cfg.sessionSecret, cfg.sessionTTL), httpserver.Options{
		ClientOrigin:   cfg.clientOrigin,
		RequestTimeout: cfg.requestTimeout,
		DefaultTop:     cfg.top,
		SecureCookies:  cfg.secureCookies,
	})

	addr := ":" + strconv.Itoa(cfg.port)
	log.Info().Str("addr", addr).Msg("starting wordle-solver")
	if err := srv.Serve(ctx, addr); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
