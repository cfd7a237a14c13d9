package oddssync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpool/gradingd/internal/models"
)

// fakeGameStore records upserts in memory, keyed by identity tuple.
type fakeGameStore struct {
	upserts []*models.GameUpsert
	seen    map[string]int64
	nextID  int64
	failOn  string // home team code that triggers an error
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{seen: map[string]int64{}}
}

func (f *fakeGameStore) Upsert(_ context.Context, up *models.GameUpsert) (int64, bool, error) {
	if f.failOn != "" && up.HomeTeam == f.failOn {
		return 0, false, assert.AnError
	}
	f.upserts = append(f.upserts, up)
	key := fmt.Sprintf("%d|%d|%s|%s", up.Season, up.Week, up.HomeTeam, up.AwayTeam)
	if id, ok := f.seen[key]; ok {
		return id, false, nil
	}
	f.nextID++
	f.seen[key] = f.nextID
	return f.nextID, true, nil
}

func floatPtr(v float64) *float64 { return &v }

func record(id, home, away string, kickoff time.Time) models.RawGameRecord {
	return models.RawGameRecord{
		ID:           id,
		CommenceTime: kickoff,
		HomeTeam:     home,
		AwayTeam:     away,
		Bookmakers: []models.RawBookmaker{
			{
				Key: "draftkings",
				Markets: []models.RawMarket{
					{
						Key: "spreads",
						Outcomes: []models.RawOutcome{
							{Name: home, Point: floatPtr(-2.5)},
							{Name: away, Point: floatPtr(2.5)},
						},
					},
				},
			},
		},
	}
}

func TestSyncBatch_NormalizesAndClassifies(t *testing.T) {
	store := newFakeGameStore()
	engine := NewEngine(nil, store)

	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)
	result := engine.SyncBatch(context.Background(), []models.RawGameRecord{
		record("evt1", "Kansas City Chiefs", "Baltimore Ravens", kickoff),
	})

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 0, result.Failed)

	require.Len(t, store.upserts, 1)
	up := store.upserts[0]
	assert.Equal(t, "KC", up.HomeTeam)
	assert.Equal(t, "BAL", up.AwayTeam)
	assert.Equal(t, 2025, up.Season)
	assert.Equal(t, 1, up.Week)
	require.True(t, up.Spread.Valid)
	assert.Equal(t, -2.5, up.Spread.Float64)
	assert.Equal(t, "evt1", up.ExternalID.String)
	assert.False(t, up.HomeScore.Valid, "no scores on an upcoming game")
	assert.False(t, up.Status.Valid, "status left to the store default")
}

func TestSyncBatch_UnmappedTeamPassesThrough(t *testing.T) {
	store := newFakeGameStore()
	engine := NewEngine(nil, store)

	kickoff := time.Date(2025, time.October, 12, 17, 0, 0, 0, time.UTC)
	result := engine.SyncBatch(context.Background(), []models.RawGameRecord{
		record("evt2", "London Monarchs", "Baltimore Ravens", kickoff),
	})

	assert.Equal(t, 1, result.Inserted)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "London Monarchs", store.upserts[0].HomeTeam,
		"unmapped names fail open")
}

func TestSyncBatch_CompletedRecordCarriesScores(t *testing.T) {
	store := newFakeGameStore()
	engine := NewEngine(nil, store)

	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)
	rec := record("evt3", "Kansas City Chiefs", "Baltimore Ravens", kickoff)
	rec.Completed = true
	rec.Scores = []models.RawTeamScore{
		{Name: "Kansas City Chiefs", Score: 24},
		{Name: "Baltimore Ravens", Score: 17},
	}

	engine.SyncBatch(context.Background(), []models.RawGameRecord{rec})

	require.Len(t, store.upserts, 1)
	up := store.upserts[0]
	require.True(t, up.HomeScore.Valid)
	require.True(t, up.AwayScore.Valid)
	assert.Equal(t, int32(24), up.HomeScore.Int32)
	assert.Equal(t, int32(17), up.AwayScore.Int32)
	assert.Equal(t, string(models.StatusFinal), up.Status.String)
}

func TestSyncBatch_MalformedRecordDoesNotAbortBatch(t *testing.T) {
	store := newFakeGameStore()
	engine := NewEngine(nil, store)

	kickoff := time.Date(2025, time.September, 14, 17, 0, 0, 0, time.UTC)
	bad := models.RawGameRecord{ID: "evt4", CommenceTime: kickoff} // no teams
	good := record("evt5", "Chicago Bears", "Detroit Lions", kickoff)

	result := engine.SyncBatch(context.Background(), []models.RawGameRecord{bad, good})

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "CHI", store.upserts[0].HomeTeam)
}

func TestSyncBatch_StoreFailureIsIsolated(t *testing.T) {
	store := newFakeGameStore()
	store.failOn = "CHI"
	engine := NewEngine(nil, store)

	kickoff := time.Date(2025, time.September, 14, 17, 0, 0, 0, time.UTC)
	result := engine.SyncBatch(context.Background(), []models.RawGameRecord{
		record("evt6", "Chicago Bears", "Detroit Lions", kickoff),
		record("evt7", "Green Bay Packers", "Minnesota Vikings", kickoff),
	})

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Inserted)
}

func TestSyncBatch_RepeatIsUpdateNotDuplicate(t *testing.T) {
	store := newFakeGameStore()
	engine := NewEngine(nil, store)

	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)
	rec := record("evt8", "Kansas City Chiefs", "Baltimore Ravens", kickoff)

	first := engine.SyncBatch(context.Background(), []models.RawGameRecord{rec})
	second := engine.SyncBatch(context.Background(), []models.RawGameRecord{rec})

	assert.Equal(t, 1, first.Inserted)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 1, second.Updated)
}

func TestHomeSpread_FirstMatchWins(t *testing.T) {
	rec := models.RawGameRecord{
		HomeTeam: "Kansas City Chiefs",
		AwayTeam: "Baltimore Ravens",
		Bookmakers: []models.RawBookmaker{
			{
				Key: "draftkings",
				Markets: []models.RawMarket{
					{Key: "h2h", Outcomes: []models.RawOutcome{
						{Name: "Kansas City Chiefs", Price: floatPtr(-145)},
					}},
					{Key: "spreads", Outcomes: []models.RawOutcome{
						{Name: "Baltimore Ravens", Point: floatPtr(3.0)},
						{Name: "Kansas City Chiefs", Point: floatPtr(-3.0)},
					}},
				},
			},
			{
				Key: "fanduel",
				Markets: []models.RawMarket{
					{Key: "spreads", Outcomes: []models.RawOutcome{
						{Name: "Kansas City Chiefs", Point: floatPtr(-3.5)},
					}},
				},
			},
		},
	}

	spread, ok := rec.HomeSpread()
	require.True(t, ok)
	assert.Equal(t, -3.0, spread, "first listed spread market wins")
}

func TestHomeSpread_NoSpreadMarket(t *testing.T) {
	rec := models.RawGameRecord{
		HomeTeam: "Kansas City Chiefs",
		Bookmakers: []models.RawBookmaker{
			{Markets: []models.RawMarket{{Key: "h2h"}}},
		},
	}

	_, ok := rec.HomeSpread()
	assert.False(t, ok)
}
