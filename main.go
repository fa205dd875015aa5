package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sagaleh/erayle/internal/httpserver"
	"github.com/sagaleh/erayle/internal/persist"
	"github.com/sagaleh/erayle/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("DB_PATH", "./data/erayle.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}
	if err := words.SeedIfEmpty(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("seed words table")
	}

	gw := persist.NewGateway(persist.NewSQLiteStore(db))
	srv := httpserver.New(gw, words.NewProvider(db), db)

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting erayle server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
