package repository

import (
	"context"
	"fmt"

	"pickpool/gradingd/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

// Upsert inserts or updates a game keyed by its identity tuple
// (season, week, home_team, away_team). The kickoff time is always taken
// from the record; external id, spread, scores and status only overwrite
// stored values when the record actually carries them, so a repeat sync can
// never erase previously recorded scores. Returns the game id and whether a
// new row was created.
func (r *GameRepository) Upsert(ctx context.Context, up *models.GameUpsert) (int64, bool, error) {
	query := `
		INSERT INTO games (
			season, week, home_team, away_team, kickoff,
			external_id, spread, home_score, away_score, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, 'scheduled'))
		ON CONFLICT (season, week, home_team, away_team) DO UPDATE SET
			kickoff = EXCLUDED.kickoff,
			external_id = COALESCE($6, games.external_id),
			spread = COALESCE($7, games.spread),
			home_score = COALESCE($8, games.home_score),
			away_score = COALESCE($9, games.away_score),
			status = COALESCE($10, games.status),
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`

	var (
		id       int64
		inserted bool
	)
	err := r.db.Pool.QueryRow(
		ctx, query,
		up.Season, up.Week, up.HomeTeam, up.AwayTeam, up.Kickoff,
		up.ExternalID, up.Spread, up.HomeScore, up.AwayScore, up.Status,
	).Scan(&id, &inserted)

	if err != nil {
		return 0, false, fmt.Errorf("failed to upsert game: %w", err)
	}

	log.Debug().
		Int64("id", id).
		Bool("inserted", inserted).
		Str("home", up.HomeTeam).
		Str("away", up.AwayTeam).
		Int("season", up.Season).
		Int("week", up.Week).
		Msg("Game upserted")

	return id, inserted, nil
}

// MarkFinal atomically records both final scores and flips the game to
// final. Used by sync when the feed delivers scores and by manual admin
// score entry.
func (r *GameRepository) MarkFinal(ctx context.Context, gameID int64, homeScore, awayScore int32) error {
	query := `
		UPDATE games
		SET home_score = $2, away_score = $3, status = 'final', updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query, gameID, homeScore, awayScore)
	if err != nil {
		return fmt.Errorf("failed to mark game final: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game id=%d: %w", gameID, ErrNotFound)
	}

	log.Info().
		Int64("game_id", gameID).
		Int32("home_score", homeScore).
		Int32("away_score", awayScore).
		Msg("Game marked final")

	return nil
}

// GetByID retrieves a game by its database ID
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	query := `
		SELECT id, season, week, home_team, away_team, external_id, kickoff,
		       spread, home_score, away_score, status, created_at, updated_at
		FROM games
		WHERE id = $1
	`

	var game models.Game
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&game.ID, &game.Season, &game.Week, &game.HomeTeam, &game.AwayTeam,
		&game.ExternalID, &game.Kickoff, &game.Spread,
		&game.HomeScore, &game.AwayScore, &game.Status,
		&game.CreatedAt, &game.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game id=%d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

// GetByIdentity retrieves a game by its natural identity tuple.
func (r *GameRepository) GetByIdentity(ctx context.Context, season, week int, homeTeam, awayTeam string) (*models.Game, error) {
	query := `
		SELECT id, season, week, home_team, away_team, external_id, kickoff,
		       spread, home_score, away_score, status, created_at, updated_at
		FROM games
		WHERE season = $1 AND week = $2 AND home_team = $3 AND away_team = $4
	`

	var game models.Game
	err := r.db.Pool.QueryRow(ctx, query, season, week, homeTeam, awayTeam).Scan(
		&game.ID, &game.Season, &game.Week, &game.HomeTeam, &game.AwayTeam,
		&game.ExternalID, &game.Kickoff, &game.Spread,
		&game.HomeScore, &game.AwayScore, &game.Status,
		&game.CreatedAt, &game.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game %d wk%d %s/%s: %w", season, week, homeTeam, awayTeam, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

// GetByWeek retrieves games for a specific season and week
func (r *GameRepository) GetByWeek(ctx context.Context, season, week int) ([]*models.Game, error) {
	query := `
		SELECT id, season, week, home_team, away_team, external_id, kickoff,
		       spread, home_score, away_score, status, created_at, updated_at
		FROM games
		WHERE season = $1 AND week = $2
		ORDER BY kickoff, id
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get games by week: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		var game models.Game
		err := rows.Scan(
			&game.ID, &game.Season, &game.Week, &game.HomeTeam, &game.AwayTeam,
			&game.ExternalID, &game.Kickoff, &game.Spread,
			&game.HomeScore, &game.AwayScore, &game.Status,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM games`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
