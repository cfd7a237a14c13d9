package models

// StandingEntry is one user's aggregate over graded picks in a scope. It is
// recomputed at read time, never persisted as a running total.
type StandingEntry struct {
	UserID  int64 `db:"user_id"`
	Correct int   `db:"correct"`
	Total   int   `db:"total"`

	// Rank is filled in after ordering.
	Rank int `db:"-"`
}

// Percentage returns correct/total, with 0 for a user with no graded picks.
func (e *StandingEntry) Percentage() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total)
}
