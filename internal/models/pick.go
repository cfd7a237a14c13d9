package models

import (
	"database/sql"
	"time"
)

// Pick is one user's selection on one game. At most one pick exists per
// (user_id, game_id); the first submission stands.
type Pick struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	GameID       int64     `db:"game_id"`
	SelectedTeam string    `db:"selected_team"`
	SubmittedAt  time.Time `db:"submitted_at"`

	// IsCorrect is NULL until the game goes final and a grading pass runs.
	IsCorrect sql.NullBool `db:"is_correct"`
	GradedAt  sql.NullTime `db:"graded_at"`
}

// Graded reports whether this pick has been scored.
func (p *Pick) Graded() bool {
	return p.IsCorrect.Valid
}

// UngradedPick is a grading work item: an ungraded pick joined with the
// final scores of its game.
type UngradedPick struct {
	PickID       int64  `db:"pick_id"`
	GameID       int64  `db:"game_id"`
	SelectedTeam string `db:"selected_team"`
	HomeTeam     string `db:"home_team"`
	AwayTeam     string `db:"away_team"`
	HomeScore    int32  `db:"home_score"`
	AwayScore    int32  `db:"away_score"`
}
