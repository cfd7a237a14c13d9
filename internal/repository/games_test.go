package repository

import (
	"database/sql"
	"testing"
	"time"

	"pickpool/gradingd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKickoff() time.Time {
	return time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
}

func TestGameRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	up := &models.GameUpsert{
		Season:     2025,
		Week:       1,
		HomeTeam:   "KC",
		AwayTeam:   "BAL",
		Kickoff:    testKickoff(),
		ExternalID: sql.NullString{String: "feed-abc123", Valid: true},
		Spread:     sql.NullFloat64{Float64: -2.5, Valid: true},
	}

	// First upsert inserts
	id, inserted, err := db.Games.Upsert(ctx, up)
	require.NoError(t, err)
	assert.True(t, inserted, "First upsert should insert a new row")
	assert.Greater(t, id, int64(0))

	// Same identity tuple again updates in place
	up.Spread = sql.NullFloat64{Float64: -3.0, Valid: true}
	id2, inserted2, err := db.Games.Upsert(ctx, up)
	require.NoError(t, err)
	assert.False(t, inserted2, "Repeat upsert should update, not insert")
	assert.Equal(t, id, id2, "Repeat upsert should hit the same row")

	count, err := db.Games.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Should still have exactly one game")

	game, err := db.Games.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "KC", game.HomeTeam)
	assert.Equal(t, "BAL", game.AwayTeam)
	assert.Equal(t, models.StatusScheduled, game.Status)
	require.True(t, game.Spread.Valid)
	assert.Equal(t, -3.0, game.Spread.Float64)
	assert.False(t, game.HasScores(), "Scores should be NULL before the game goes final")
}

func TestGameRepository_UpsertPreservesScores(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// Final record with scores
	id, _, err := db.Games.Upsert(ctx, &models.GameUpsert{
		Season:    2025,
		Week:      1,
		HomeTeam:  "KC",
		AwayTeam:  "BAL",
		Kickoff:   testKickoff(),
		HomeScore: sql.NullInt32{Int32: 24, Valid: true},
		AwayScore: sql.NullInt32{Int32: 17, Valid: true},
		Status:    sql.NullString{String: string(models.StatusFinal), Valid: true},
	})
	require.NoError(t, err)

	// A later record without scores must not erase them or reopen the game
	_, inserted, err := db.Games.Upsert(ctx, &models.GameUpsert{
		Season:   2025,
		Week:     1,
		HomeTeam: "KC",
		AwayTeam: "BAL",
		Kickoff:  testKickoff(),
		Spread:   sql.NullFloat64{Float64: -2.5, Valid: true},
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	game, err := db.Games.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinal, game.Status)
	require.True(t, game.HasScores())
	assert.Equal(t, int32(24), game.HomeScore.Int32)
	assert.Equal(t, int32(17), game.AwayScore.Int32)
	require.True(t, game.Spread.Valid, "Update should still apply fields the record carries")
	assert.Equal(t, -2.5, game.Spread.Float64)
}

func TestGameRepository_MarkFinal(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	id, _, err := db.Games.Upsert(ctx, &models.GameUpsert{
		Season:   2025,
		Week:     2,
		HomeTeam: "BUF",
		AwayTeam: "MIA",
		Kickoff:  testKickoff().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	err = db.Games.MarkFinal(ctx, id, 31, 10)
	require.NoError(t, err)

	game, err := db.Games.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, game.IsFinal())
	assert.Equal(t, int32(31), game.HomeScore.Int32)
	assert.Equal(t, int32(10), game.AwayScore.Int32)

	winner, ok := game.Winner()
	require.True(t, ok)
	assert.Equal(t, "BUF", winner)
}

func TestGameRepository_MarkFinalNotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Games.MarkFinal(ctx, 999999, 21, 14)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGameRepository_GetByIdentity(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	id, _, err := db.Games.Upsert(ctx, &models.GameUpsert{
		Season:   2025,
		Week:     3,
		HomeTeam: "PHI",
		AwayTeam: "DAL",
		Kickoff:  testKickoff().AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	game, err := db.Games.GetByIdentity(ctx, 2025, 3, "PHI", "DAL")
	require.NoError(t, err)
	assert.Equal(t, id, game.ID)

	_, err = db.Games.GetByIdentity(ctx, 2025, 3, "DAL", "PHI")
	assert.ErrorIs(t, err, ErrNotFound, "Identity tuple is order-sensitive")
}

func TestGameRepository_GetByWeek(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	later := testKickoff().Add(3 * time.Hour)
	_, _, err := db.Games.Upsert(ctx, &models.GameUpsert{
		Season: 2025, Week: 1, HomeTeam: "SF", AwayTeam: "SEA", Kickoff: later,
	})
	require.NoError(t, err)
	_, _, err = db.Games.Upsert(ctx, &models.GameUpsert{
		Season: 2025, Week: 1, HomeTeam: "KC", AwayTeam: "BAL", Kickoff: testKickoff(),
	})
	require.NoError(t, err)
	_, _, err = db.Games.Upsert(ctx, &models.GameUpsert{
		Season: 2025, Week: 2, HomeTeam: "KC", AwayTeam: "DEN", Kickoff: later.AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	games, err := db.Games.GetByWeek(ctx, 2025, 1)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "KC", games[0].HomeTeam, "Games should be ordered by kickoff")
	assert.Equal(t, "SF", games[1].HomeTeam)

	games, err = db.Games.GetByWeek(ctx, 2025, 5)
	require.NoError(t, err)
	assert.Empty(t, games)
}
