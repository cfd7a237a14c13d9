package standings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpool/gradingd/internal/models"
)

type fakeStore struct {
	entries []*models.StandingEntry
}

func (f *fakeStore) AggregateStandings(context.Context, int, int) ([]*models.StandingEntry, error) {
	// Hand back copies so repeated computations start from the same state.
	out := make([]*models.StandingEntry, len(f.entries))
	for i, e := range f.entries {
		c := *e
		out[i] = &c
	}
	return out, nil
}

func TestComputeLeaderboard_OrdersByPercentage(t *testing.T) {
	agg := NewAggregator(&fakeStore{entries: []*models.StandingEntry{
		{UserID: 1, Correct: 5, Total: 10},
		{UserID: 2, Correct: 9, Total: 10},
		{UserID: 3, Correct: 7, Total: 10},
	}})

	entries, err := agg.ComputeLeaderboard(context.Background(), Scope{Season: 2025})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(2), entries[0].UserID)
	assert.Equal(t, int64(3), entries[1].UserID)
	assert.Equal(t, int64(1), entries[2].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestComputeLeaderboard_TieBreaksByCorrectThenUserID(t *testing.T) {
	agg := NewAggregator(&fakeStore{entries: []*models.StandingEntry{
		// Same percentage, more graded picks: higher correct count first.
		{UserID: 5, Correct: 8, Total: 10},
		{UserID: 4, Correct: 4, Total: 5},
	}})

	entries, err := agg.ComputeLeaderboard(context.Background(), Scope{Season: 2025})
	require.NoError(t, err)
	assert.Equal(t, int64(5), entries[0].UserID)
	assert.Equal(t, int64(4), entries[1].UserID)
}

func TestComputeLeaderboard_IdenticalRecordsOrderByUserID(t *testing.T) {
	store := &fakeStore{entries: []*models.StandingEntry{
		{UserID: 9, Correct: 8, Total: 10},
		{UserID: 3, Correct: 8, Total: 10},
	}}
	agg := NewAggregator(store)

	for i := 0; i < 5; i++ {
		entries, err := agg.ComputeLeaderboard(context.Background(), Scope{Season: 2025})
		require.NoError(t, err)
		assert.Equal(t, int64(3), entries[0].UserID, "lower user id first, every time")
		assert.Equal(t, int64(9), entries[1].UserID)
	}
}

func TestPercentage_ZeroGradedPicks(t *testing.T) {
	entry := &models.StandingEntry{UserID: 1, Correct: 0, Total: 0}
	assert.Equal(t, 0.0, entry.Percentage())
}

func TestRank_EmptyLeaderboard(t *testing.T) {
	agg := NewAggregator(&fakeStore{})
	entries, err := agg.ComputeLeaderboard(context.Background(), Scope{Season: 2025, Week: 3})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
