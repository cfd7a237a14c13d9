package picks

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpool/gradingd/internal/models"
	"pickpool/gradingd/internal/repository"
)

type fakeStore struct {
	picks map[string]*models.Pick
}

func newFakeStore() *fakeStore {
	return &fakeStore{picks: map[string]*models.Pick{}}
}

func (f *fakeStore) InsertIgnore(_ context.Context, pick *models.Pick) (bool, error) {
	key := fmt.Sprintf("%d|%d", pick.UserID, pick.GameID)
	if _, exists := f.picks[key]; exists {
		return false, nil
	}
	f.picks[key] = pick
	return true, nil
}

type fakeGames struct {
	games map[int64]*models.Game
}

func (f *fakeGames) GetByID(_ context.Context, id int64) (*models.Game, error) {
	game, ok := f.games[id]
	if !ok {
		return nil, fmt.Errorf("game id=%d: %w", id, repository.ErrNotFound)
	}
	return game, nil
}

func testService() (*Service, *fakeStore) {
	store := newFakeStore()
	games := &fakeGames{games: map[int64]*models.Game{
		1: {ID: 1, HomeTeam: "KC", AwayTeam: "BAL"},
		2: {ID: 2, HomeTeam: "CHI", AwayTeam: "DET"},
	}}
	return NewService(store, games), store
}

func TestSubmit_AcceptsValidSelections(t *testing.T) {
	svc, store := testService()

	result := svc.Submit(context.Background(), 7, map[int64]string{
		1: "KC",
		2: "DET",
	})

	assert.Equal(t, 2, result.Accepted)
	assert.Equal(t, 0, result.Rejected)
	require.Len(t, store.picks, 2)
	assert.Equal(t, "KC", store.picks["7|1"].SelectedTeam)
}

func TestSubmit_FirstPickStands(t *testing.T) {
	svc, store := testService()

	first := svc.Submit(context.Background(), 7, map[int64]string{1: "KC"})
	second := svc.Submit(context.Background(), 7, map[int64]string{1: "BAL"})

	assert.Equal(t, 1, first.Accepted)
	assert.Equal(t, 1, second.Duplicate)
	assert.Equal(t, "KC", store.picks["7|1"].SelectedTeam,
		"a later submission never overwrites the first pick")
}

func TestSubmit_RejectsUnknownGame(t *testing.T) {
	svc, store := testService()

	result := svc.Submit(context.Background(), 7, map[int64]string{99: "KC"})

	assert.Equal(t, 1, result.Rejected)
	assert.Empty(t, store.picks)
}

func TestSubmit_RejectsTeamNotInGame(t *testing.T) {
	svc, store := testService()

	result := svc.Submit(context.Background(), 7, map[int64]string{1: "CHI"})

	assert.Equal(t, 1, result.Rejected)
	assert.Empty(t, store.picks)
}

func TestSubmit_BadEntryDoesNotBlockOthers(t *testing.T) {
	svc, store := testService()

	result := svc.Submit(context.Background(), 7, map[int64]string{
		1:  "KC",
		99: "KC",
	})

	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 1, result.Rejected)
	assert.Len(t, store.picks, 1)
}
