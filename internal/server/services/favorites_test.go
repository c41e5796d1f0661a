package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/logging"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFavoritesFixture(t *testing.T) (*FavoritesService, *memStore, int64) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	u, err := (&memUsers{store}).Create(context.Background(), &models.User{Username: "alice", Email: "alice@x.com"})
	require.NoError(t, err)
	return NewFavoritesService(db, &fakeRepoManager{s: store}, logging.Nop{}), store, u.ID
}

func TestFavoritesService_AddListRemove(t *testing.T) {
	svc, _, uid := newFavoritesFixture(t)
	ctx := context.Background()

	btc, err := svc.Add(ctx, uid, "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", btc.CoinID)
	assert.Equal(t, uid, btc.UserID)

	_, err = svc.Add(ctx, uid, "  ethereum ")
	require.NoError(t, err)

	list, err := svc.List(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ethereum", list[0].CoinID)
	assert.Equal(t, "bitcoin", list[1].CoinID)

	require.NoError(t, svc.Remove(ctx, uid, "bitcoin"))
	require.NoError(t, svc.Remove(ctx, uid, "bitcoin"))

	list, err = svc.List(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ethereum", list[0].CoinID)
}

func TestFavoritesService_AddDuplicate(t *testing.T) {
	svc, store, uid := newFavoritesFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, uid, "bitcoin")
	require.NoError(t, err)

	_, err = svc.Add(ctx, uid, "bitcoin")
	require.ErrorIs(t, err, common.ErrDuplicateFavorite)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "Coin already in favorites", err.Error())
	assert.Len(t, store.favs, 1)
}

func TestFavoritesService_AddUnknownUser(t *testing.T) {
	svc, store, _ := newFavoritesFixture(t)

	_, err := svc.Add(context.Background(), 999, "bitcoin")

	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "User not found with id: 999", err.Error())
	assert.Empty(t, store.favs)
}

func TestFavoritesService_InvalidCoinID(t *testing.T) {
	svc, _, uid := newFavoritesFixture(t)
	ctx := context.Background()

	for _, id := range []string{"", "   ", strings.Repeat("x", 65)} {
		_, err := svc.Add(ctx, uid, id)
		assert.ErrorIs(t, err, common.ErrorValidation, "add %q", id)
		assert.ErrorIs(t, svc.Remove(ctx, uid, id), common.ErrorValidation, "remove %q", id)
	}

	_, err := svc.Add(ctx, uid, strings.Repeat("x", 64))
	assert.NoError(t, err)
}
