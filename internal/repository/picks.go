package repository

import (
	"context"
	"fmt"

	"pickpool/gradingd/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PickRepository handles pick database operations
type PickRepository struct {
	db *Database
}

// InsertIgnore inserts a pick unless one already exists for the same
// (user_id, game_id). The first pick stands: a conflicting insert is a
// no-op, not an overwrite and not an error. Returns whether a row was
// actually created.
func (r *PickRepository) InsertIgnore(ctx context.Context, pick *models.Pick) (bool, error) {
	query := `
		INSERT INTO picks (user_id, game_id, selected_team, submitted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, game_id) DO NOTHING
	`

	result, err := r.db.Pool.Exec(
		ctx, query,
		pick.UserID, pick.GameID, pick.SelectedTeam, pick.SubmittedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert pick: %w", err)
	}

	inserted := result.RowsAffected() == 1
	log.Debug().
		Int64("user_id", pick.UserID).
		Int64("game_id", pick.GameID).
		Str("team", pick.SelectedTeam).
		Bool("inserted", inserted).
		Msg("Pick submitted")

	return inserted, nil
}

// GetByUserAndGame retrieves a single pick by its identity tuple.
func (r *PickRepository) GetByUserAndGame(ctx context.Context, userID, gameID int64) (*models.Pick, error) {
	query := `
		SELECT id, user_id, game_id, selected_team, submitted_at, is_correct, graded_at
		FROM picks
		WHERE user_id = $1 AND game_id = $2
	`

	var pick models.Pick
	err := r.db.Pool.QueryRow(ctx, query, userID, gameID).Scan(
		&pick.ID, &pick.UserID, &pick.GameID, &pick.SelectedTeam,
		&pick.SubmittedAt, &pick.IsCorrect, &pick.GradedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("pick user=%d game=%d: %w", userID, gameID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}

	return &pick, nil
}

// ListByUserWeek retrieves a user's picks for a season week.
func (r *PickRepository) ListByUserWeek(ctx context.Context, userID int64, season, week int) ([]*models.Pick, error) {
	query := `
		SELECT p.id, p.user_id, p.game_id, p.selected_team, p.submitted_at, p.is_correct, p.graded_at
		FROM picks p
		JOIN games g ON g.id = p.game_id
		WHERE p.user_id = $1 AND g.season = $2 AND g.week = $3
		ORDER BY g.kickoff, p.game_id
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var picks []*models.Pick
	for rows.Next() {
		var pick models.Pick
		err := rows.Scan(
			&pick.ID, &pick.UserID, &pick.GameID, &pick.SelectedTeam,
			&pick.SubmittedAt, &pick.IsCorrect, &pick.GradedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, &pick)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating picks: %w", err)
	}

	return picks, nil
}

// ListUngradedForFinalGames returns grading work items: every ungraded pick
// whose game is final with both scores on record.
func (r *PickRepository) ListUngradedForFinalGames(ctx context.Context) ([]*models.UngradedPick, error) {
	query := `
		SELECT p.id, p.game_id, p.selected_team,
		       g.home_team, g.away_team, g.home_score, g.away_score
		FROM picks p
		JOIN games g ON g.id = p.game_id
		WHERE p.is_correct IS NULL
		  AND g.status = 'final'
		  AND g.home_score IS NOT NULL
		  AND g.away_score IS NOT NULL
		ORDER BY p.game_id, p.id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ungraded picks: %w", err)
	}
	defer rows.Close()

	var items []*models.UngradedPick
	for rows.Next() {
		var item models.UngradedPick
		err := rows.Scan(
			&item.PickID, &item.GameID, &item.SelectedTeam,
			&item.HomeTeam, &item.AwayTeam, &item.HomeScore, &item.AwayScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ungraded pick: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ungraded picks: %w", err)
	}

	log.Debug().Int("count", len(items)).Msg("Retrieved ungraded picks on final games")
	return items, nil
}

// SetResult writes a grading result for a pick that has not been graded
// yet. The IS NULL guard makes overlapping grading passes re-entrant: the
// second writer affects zero rows instead of clobbering a result. Returns
// whether this call performed the grading transition.
func (r *PickRepository) SetResult(ctx context.Context, pickID int64, correct bool) (bool, error) {
	query := `
		UPDATE picks
		SET is_correct = $2, graded_at = NOW()
		WHERE id = $1 AND is_correct IS NULL
	`

	result, err := r.db.Pool.Exec(ctx, query, pickID, correct)
	if err != nil {
		return false, fmt.Errorf("failed to set pick result: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// Count returns the total number of picks
func (r *PickRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM picks`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count picks: %w", err)
	}

	return count, nil
}
