package repository

import (
	"context"
	"fmt"

	"pickpool/gradingd/internal/models"
)

// AggregateStandings folds graded picks into per-user totals for a season,
// optionally narrowed to one week (week <= 0 means season-to-date). Only
// graded picks count; ordering is left to the aggregator.
func (r *PickRepository) AggregateStandings(ctx context.Context, season, week int) ([]*models.StandingEntry, error) {
	query := `
		SELECT p.user_id,
		       COUNT(*) FILTER (WHERE p.is_correct) AS correct,
		       COUNT(*) AS total
		FROM picks p
		JOIN games g ON g.id = p.game_id
		WHERE p.is_correct IS NOT NULL
		  AND g.season = $1
		  AND ($2 <= 0 OR g.week = $2)
		GROUP BY p.user_id
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate standings: %w", err)
	}
	defer rows.Close()

	var entries []*models.StandingEntry
	for rows.Next() {
		var entry models.StandingEntry
		if err := rows.Scan(&entry.UserID, &entry.Correct, &entry.Total); err != nil {
			return nil, fmt.Errorf("failed to scan standing entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}

	return entries, nil
}
