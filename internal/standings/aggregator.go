// Package standings computes leaderboards from graded picks.
package standings

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/metrics"
	"pickpool/gradingd/internal/models"
)

// Store is the slice of the repository the aggregator reads from.
type Store interface {
	AggregateStandings(ctx context.Context, season, week int) ([]*models.StandingEntry, error)
}

// Scope selects a single week or, with Week <= 0, the season to date.
type Scope struct {
	Season int
	Week   int
}

// Aggregator ranks users by graded-pick percentage. Leaderboards are a pure
// read-time computation over graded picks; nothing here is persisted, so a
// historical score correction plus a re-grade propagates without manual
// reconciliation.
type Aggregator struct {
	picks Store
}

// NewAggregator creates a standings aggregator over a pick store.
func NewAggregator(picks Store) *Aggregator {
	return &Aggregator{picks: picks}
}

// ComputeLeaderboard returns ranked standings for the scope. Ordering is a
// total order: percentage descending, then correct count descending, then
// user id ascending, so equal performers always appear in the same order.
func (a *Aggregator) ComputeLeaderboard(ctx context.Context, scope Scope) ([]*models.StandingEntry, error) {
	entries, err := a.picks.AggregateStandings(ctx, scope.Season, scope.Week)
	if err != nil {
		return nil, err
	}

	Rank(entries)

	scopeLabel := "season"
	if scope.Week > 0 {
		scopeLabel = "week"
	}
	metrics.LeaderboardQueriesTotal.WithLabelValues(scopeLabel).Inc()

	log.Debug().
		Int("season", scope.Season).
		Int("week", scope.Week).
		Int("entries", len(entries)).
		Msg("Leaderboard computed")

	return entries, nil
}

// Rank orders entries in place and assigns 1-based ranks.
func Rank(entries []*models.StandingEntry) {
	sort.Slice(entries, func(i, j int) bool {
		pi, pj := entries[i].Percentage(), entries[j].Percentage()
		if pi != pj {
			return pi > pj
		}
		if entries[i].Correct != entries[j].Correct {
			return entries[i].Correct > entries[j].Correct
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i, entry := range entries {
		entry.Rank = i + 1
	}
}
