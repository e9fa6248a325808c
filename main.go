package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := newRootCmd(cfg).Execute(); err != nil {
		log.Fatal().Err(err).Msg("wordle-solver exited")
	}
}
