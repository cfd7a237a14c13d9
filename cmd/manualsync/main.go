// Command manualsync runs one feed sync batch followed by one grading pass
// and exits. Useful for backfills and for kicking the pipeline after a feed
// outage; both steps are idempotent, so re-running is always safe.
package main

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/client"
	"pickpool/gradingd/internal/config"
	"pickpool/gradingd/internal/grading"
	"pickpool/gradingd/internal/oddssync"
	"pickpool/gradingd/internal/repository"
)

func main() {
	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Validate database connectivity before touching the feed
	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	feed := client.NewClient(
		cfg.OddsBaseURL,
		cfg.OddsAPIKey,
		cfg.OddsSportKey,
		cfg.OddsAPITimeout,
	)

	syncEngine := oddssync.NewEngine(feed, db.Games)
	result, err := syncEngine.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}
	log.Info().
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Msg("Sync complete")

	grader := grading.NewEngine(db.Picks)
	graded, err := grader.GradePickedGames(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Grading failed")
	}
	log.Info().Int("graded", graded).Msg("Grading complete")
}
