// Package grading scores submitted picks against final results.
package grading

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/metrics"
	"pickpool/gradingd/internal/models"
)

// PickStore is the slice of the repository the engine grades through.
type PickStore interface {
	ListUngradedForFinalGames(ctx context.Context) ([]*models.UngradedPick, error)
	SetResult(ctx context.Context, pickID int64, correct bool) (bool, error)
}

// Engine grades ungraded picks on final games. Passes are idempotent: a
// pick's result is written at most once, so overlapping or repeated runs
// are safe.
type Engine struct {
	picks PickStore
}

// NewEngine creates a grading engine over a pick store.
func NewEngine(picks PickStore) *Engine {
	return &Engine{picks: picks}
}

// Correct is the grading decision: a pick is correct iff the selected team
// scored strictly more than its opponent. An exact tie grades false for
// both sides; the pool has no push state. That is deliberate policy, not an
// omission.
func Correct(selectedTeam, homeTeam string, homeScore, awayScore int32) bool {
	switch {
	case homeScore > awayScore:
		return selectedTeam == homeTeam
	case awayScore > homeScore:
		return selectedTeam != homeTeam
	default:
		return false
	}
}

// GradePickedGames grades every ungraded pick whose game is final. Returns
// the number of picks whose result this pass actually wrote; a pick another
// concurrent pass already graded is skipped silently.
func (e *Engine) GradePickedGames(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		metrics.GradingPassDuration.Observe(time.Since(start).Seconds())
	}()

	items, err := e.picks.ListUngradedForFinalGames(ctx)
	if err != nil {
		return 0, err
	}

	if len(items) == 0 {
		log.Debug().Msg("No ungraded picks on final games")
		return 0, nil
	}

	graded := 0
	for _, item := range items {
		correct := Correct(item.SelectedTeam, item.HomeTeam, item.HomeScore, item.AwayScore)

		wrote, err := e.picks.SetResult(ctx, item.PickID, correct)
		if err != nil {
			log.Error().
				Err(err).
				Int64("pick_id", item.PickID).
				Int64("game_id", item.GameID).
				Msg("Failed to write grading result")
			continue
		}
		if !wrote {
			// Lost the race to another grading pass; the stored result stands.
			continue
		}

		graded++
		if correct {
			metrics.PicksGradedTotal.WithLabelValues("correct").Inc()
		} else {
			metrics.PicksGradedTotal.WithLabelValues("incorrect").Inc()
		}
	}

	log.Info().
		Int("graded", graded).
		Int("candidates", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Grading pass complete")

	return graded, nil
}
