// Package oddssync reconciles raw feed records into the canonical schedule.
package oddssync

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/metrics"
	"pickpool/gradingd/internal/models"
	"pickpool/gradingd/internal/teams"
	"pickpool/gradingd/internal/weeks"
)

// GameStore is the slice of the repository the engine writes through.
type GameStore interface {
	Upsert(ctx context.Context, up *models.GameUpsert) (int64, bool, error)
}

// Feed is the raw record source.
type Feed interface {
	FetchOdds(ctx context.Context) ([]models.RawGameRecord, error)
	FetchScores(ctx context.Context, daysFrom int) ([]models.RawGameRecord, error)
}

// Engine normalizes, classifies and upserts feed records.
type Engine struct {
	feed  Feed
	games GameStore

	// scoresDaysFrom bounds how far back the scores endpoint looks.
	scoresDaysFrom int
}

// Result summarizes one sync batch.
type Result struct {
	Inserted int
	Updated  int
	Failed   int
}

// NewEngine creates a sync engine over a feed and a game store.
func NewEngine(feed Feed, games GameStore) *Engine {
	return &Engine{
		feed:           feed,
		games:          games,
		scoresDaysFrom: 3,
	}
}

// Run performs one full sync pass: odds records first, then recent score
// records. Feed unavailability is returned as a single error for the whole
// invocation; the scheduler owns retry policy.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.SyncBatchDuration.Observe(time.Since(start).Seconds())
	}()

	oddsRecords, err := e.feed.FetchOdds(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("odds fetch failed: %w", err)
	}
	result := e.SyncBatch(ctx, oddsRecords)

	scoreRecords, err := e.feed.FetchScores(ctx, e.scoresDaysFrom)
	if err != nil {
		return result, fmt.Errorf("scores fetch failed: %w", err)
	}
	scoreResult := e.SyncBatch(ctx, scoreRecords)

	result.Inserted += scoreResult.Inserted
	result.Updated += scoreResult.Updated
	result.Failed += scoreResult.Failed

	log.Info().
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Dur("duration", time.Since(start)).
		Msg("Sync pass complete")

	return result, nil
}

// SyncBatch reconciles a batch of raw records into the schedule. A bad
// record is logged and skipped; one malformed feed entry must not stop the
// rest of the batch.
func (e *Engine) SyncBatch(ctx context.Context, records []models.RawGameRecord) Result {
	var result Result

	for i := range records {
		record := &records[i]

		up, err := buildUpsert(record)
		if err != nil {
			result.Failed++
			metrics.SyncRecordsTotal.WithLabelValues("failed").Inc()
			log.Warn().
				Err(err).
				Str("external_id", record.ID).
				Msg("Skipping malformed feed record")
			continue
		}

		_, inserted, err := e.games.Upsert(ctx, up)
		if err != nil {
			result.Failed++
			metrics.SyncRecordsTotal.WithLabelValues("failed").Inc()
			log.Error().
				Err(err).
				Str("external_id", record.ID).
				Str("home", up.HomeTeam).
				Str("away", up.AwayTeam).
				Msg("Failed to upsert game from feed record")
			continue
		}

		if inserted {
			result.Inserted++
			metrics.SyncRecordsTotal.WithLabelValues("inserted").Inc()
		} else {
			result.Updated++
			metrics.SyncRecordsTotal.WithLabelValues("updated").Inc()
		}
	}

	return result
}

// buildUpsert converts one raw record into upsert fields: canonical team
// codes, season/week classification, spread extraction and, when the feed
// says the game is done, final scores and status.
func buildUpsert(record *models.RawGameRecord) (*models.GameUpsert, error) {
	if record.HomeTeam == "" || record.AwayTeam == "" {
		return nil, fmt.Errorf("record %q missing team names", record.ID)
	}
	if record.CommenceTime.IsZero() {
		return nil, fmt.Errorf("record %q missing commence time", record.ID)
	}

	up := &models.GameUpsert{
		Season:   weeks.SeasonYear(record.CommenceTime),
		Week:     weeks.Classify(record.CommenceTime),
		HomeTeam: teams.Normalize(record.HomeTeam),
		AwayTeam: teams.Normalize(record.AwayTeam),
		Kickoff:  record.CommenceTime,
	}

	if record.ID != "" {
		up.ExternalID = sql.NullString{String: record.ID, Valid: true}
	}

	// Spread is display data; a record without a spread market still syncs.
	if spread, ok := record.HomeSpread(); ok {
		up.Spread = sql.NullFloat64{Float64: spread, Valid: true}
	}

	if home, away, ok := record.FinalScores(); ok {
		up.HomeScore = sql.NullInt32{Int32: int32(home), Valid: true}
		up.AwayScore = sql.NullInt32{Int32: int32(away), Valid: true}
		up.Status = sql.NullString{String: string(models.StatusFinal), Valid: true}
	}

	return up, nil
}
