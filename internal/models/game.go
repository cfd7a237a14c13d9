package models

import (
	"database/sql"
	"time"
)

// GameStatus is the lifecycle state of a scheduled game.
type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusFinal      GameStatus = "final"
	StatusPostponed  GameStatus = "postponed"
	StatusCanceled   GameStatus = "canceled"
)

// Game represents one pool game. Identity is the tuple
// (season, week, home_team, away_team); everything else is mutable.
type Game struct {
	ID         int64           `db:"id"`
	Season     int             `db:"season"`
	Week       int             `db:"week"`
	HomeTeam   string          `db:"home_team"`
	AwayTeam   string          `db:"away_team"`
	ExternalID sql.NullString  `db:"external_id"`
	Kickoff    time.Time       `db:"kickoff"`
	Spread     sql.NullFloat64 `db:"spread"`

	// Scores stay NULL until the game goes final.
	HomeScore sql.NullInt32 `db:"home_score"`
	AwayScore sql.NullInt32 `db:"away_score"`

	Status GameStatus `db:"status"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GameUpsert carries the fields a sync pass may write. Nullable fields that
// are not set leave the stored value untouched on update.
type GameUpsert struct {
	Season   int
	Week     int
	HomeTeam string
	AwayTeam string
	Kickoff  time.Time

	ExternalID sql.NullString
	Spread     sql.NullFloat64
	HomeScore  sql.NullInt32
	AwayScore  sql.NullInt32
	Status     sql.NullString
}

// IsFinal returns true if the game is completed
func (g *Game) IsFinal() bool {
	return g.Status == StatusFinal
}

// IsScheduled returns true if the game is scheduled but not started
func (g *Game) IsScheduled() bool {
	return g.Status == StatusScheduled
}

// HasScores reports whether both final scores are recorded.
func (g *Game) HasScores() bool {
	return g.HomeScore.Valid && g.AwayScore.Valid
}

// Winner returns the team with the strictly higher score. The second return
// is false when scores are missing or the game ended in an exact tie.
func (g *Game) Winner() (string, bool) {
	if !g.HasScores() {
		return "", false
	}
	switch {
	case g.HomeScore.Int32 > g.AwayScore.Int32:
		return g.HomeTeam, true
	case g.AwayScore.Int32 > g.HomeScore.Int32:
		return g.AwayTeam, true
	default:
		return "", false
	}
}
