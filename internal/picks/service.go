// Package picks handles pick submission.
package picks

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/metrics"
	"pickpool/gradingd/internal/models"
)

// Store is the slice of the repository submissions write through.
type Store interface {
	InsertIgnore(ctx context.Context, pick *models.Pick) (bool, error)
}

// GameGetter resolves game ids during validation.
type GameGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Game, error)
}

// Service validates and records pick submissions.
type Service struct {
	picks Store
	games GameGetter
}

// NewService creates a pick submission service.
func NewService(picks Store, games GameGetter) *Service {
	return &Service{picks: picks, games: games}
}

// Result summarizes one submission batch.
type Result struct {
	Accepted  int
	Duplicate int
	Rejected  int
}

// Submit applies a user's selections, one per game id. Each selection is
// insert-or-ignore: an existing pick for the same game stands and the new
// one is dropped. Invalid entries (unknown game, team not in the game) are
// logged and skipped. Submission is fire-and-forget for the caller; the
// batch never fails as a whole.
func (s *Service) Submit(ctx context.Context, userID int64, selections map[int64]string) Result {
	var result Result
	now := time.Now()

	for gameID, team := range selections {
		game, err := s.games.GetByID(ctx, gameID)
		if err != nil {
			result.Rejected++
			metrics.PickSubmissionsTotal.WithLabelValues("rejected").Inc()
			log.Warn().
				Err(err).
				Int64("user_id", userID).
				Int64("game_id", gameID).
				Msg("Pick rejected: unknown game")
			continue
		}

		if team != game.HomeTeam && team != game.AwayTeam {
			result.Rejected++
			metrics.PickSubmissionsTotal.WithLabelValues("rejected").Inc()
			log.Warn().
				Int64("user_id", userID).
				Int64("game_id", gameID).
				Str("team", team).
				Str("home", game.HomeTeam).
				Str("away", game.AwayTeam).
				Msg("Pick rejected: team not playing in game")
			continue
		}

		inserted, err := s.picks.InsertIgnore(ctx, &models.Pick{
			UserID:       userID,
			GameID:       gameID,
			SelectedTeam: team,
			SubmittedAt:  now,
		})
		if err != nil {
			result.Rejected++
			metrics.PickSubmissionsTotal.WithLabelValues("rejected").Inc()
			log.Error().
				Err(err).
				Int64("user_id", userID).
				Int64("game_id", gameID).
				Msg("Pick insert failed")
			continue
		}

		if inserted {
			result.Accepted++
			metrics.PickSubmissionsTotal.WithLabelValues("accepted").Inc()
		} else {
			result.Duplicate++
			metrics.PickSubmissionsTotal.WithLabelValues("duplicate").Inc()
		}
	}

	return result
}
