package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAddresses(t *testing.T, repo AddressRepository, n int) []models.Address {
	t.Helper()
	out := make([]models.Address, 0, n)
	for i := 0; i < n; i++ {
		a := models.Address{Address1: "1 High St", City: "Nairobi", Country: "KE"}
		require.NoError(t, repo.Create(context.Background(), &a))
		out = append(out, a)
	}
	return out
}

func TestMemoryAddresses_ListNewestFirst(t *testing.T) {
	repo := NewMemory().Addresses()
	seedAddresses(t, repo, 3)

	got, total, err := repo.List(context.Background(), Query{Scope: access.AllRows(), Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 2)
	assert.Equal(t, uint(3), got[0].ID)
	assert.Equal(t, uint(2), got[1].ID)

	got, _, err = repo.List(context.Background(), Query{Scope: access.AllRows(), Offset: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(1), got[0].ID)

	got, total, err = repo.List(context.Background(), Query{Scope: access.NoRows()})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func TestMemoryAddresses_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory().Addresses()
	a := seedAddresses(t, repo, 1)[0]

	a.City = "Mombasa"
	require.NoError(t, repo.Update(ctx, &a))

	got, err := repo.Get(ctx, access.AllRows(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mombasa", got.City)

	_, err = repo.Get(ctx, access.NoRows(), a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Update(ctx, &models.Address{ID: 99}), ErrNotFound)

	deleted, err := repo.Delete(ctx, access.AllRows(), a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, access.AllRows(), a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryAddresses_FindByIDs(t *testing.T) {
	repo := NewMemory().Addresses()
	seedAddresses(t, repo, 3)

	got, err := repo.FindByIDs(context.Background(), []uint{3, 7, 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(3), got[1].ID)
}

func TestMemoryUsers_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	addrs := seedAddresses(t, store.Addresses(), 2)

	u := models.User{
		Username:   "judy",
		DateJoined: time.Now(),
		Addresses:  []models.Address{addrs[1], addrs[0]},
	}
	require.NoError(t, store.Users().Create(ctx, &u))
	assert.Equal(t, uint(1), u.ID)

	got, err := store.Users().Get(ctx, access.OnlyRow(1), 1)
	require.NoError(t, err)
	assert.Equal(t, "judy", got.Username)
	assert.Equal(t, []uint{1, 2}, got.AddressIDs())

	_, err = store.Users().Get(ctx, access.OnlyRow(2), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	byName, err := store.Users().GetByUsername(ctx, access.AllRows(), "judy")
	require.NoError(t, err)
	assert.Equal(t, uint(1), byName.ID)

	err = store.Users().Create(ctx, &models.User{Username: "judy"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryUsers_ReturnsDetachedCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory().Users()
	bio := "0712345678"
	u := models.User{Username: "judy", Mobile: &bio}
	require.NoError(t, repo.Create(ctx, &u))

	*u.Mobile = "changed"
	got, err := repo.Get(ctx, access.AllRows(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "0712345678", *got.Mobile)
}

func TestMemoryUsers_UpdateKeepsIdentityColumns(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	addrs := seedAddresses(t, store.Addresses(), 2)
	joined := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	u := models.User{Username: "judy", DateJoined: joined, Addresses: addrs[:1]}
	require.NoError(t, store.Users().Create(ctx, &u))

	u.Username = "someone-else"
	u.DateJoined = time.Now()
	u.Bio = "hello"
	u.Addresses = addrs[1:]
	require.NoError(t, store.Users().Update(ctx, &u, false))

	got, err := store.Users().Get(ctx, access.AllRows(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "judy", got.Username)
	assert.True(t, joined.Equal(got.DateJoined))
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, []uint{1}, got.AddressIDs())

	require.NoError(t, store.Users().Update(ctx, &u, true))
	got, err = store.Users().Get(ctx, access.AllRows(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, got.AddressIDs())
}

func TestMemoryUsers_ListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory().Users()
	same := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &models.User{Username: "a", DateJoined: same}))
	require.NoError(t, repo.Create(ctx, &models.User{Username: "b", DateJoined: same.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.User{Username: "c", DateJoined: same}))

	got, total, err := repo.List(ctx, Query{Scope: access.AllRows()})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Username)
	assert.Equal(t, "c", got[1].Username)
	assert.Equal(t, "a", got[2].Username)

	got, total, err = repo.List(ctx, Query{Scope: access.OnlyRow(1)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "a", got[0].Username)
}

func TestMemory_DeleteAddressUnlinksUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	addrs := seedAddresses(t, store.Addresses(), 2)

	u := models.User{Username: "judy", Addresses: addrs}
	require.NoError(t, store.Users().Create(ctx, &u))

	deleted, err := store.Addresses().Delete(ctx, access.AllRows(), addrs[0].ID)
	require.NoError(t, err)
	require.True(t, deleted)

	got, err := store.Users().Get(ctx, access.AllRows(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{addrs[1].ID}, got.AddressIDs())
}

func TestMemoryUsers_DeleteLeavesAddresses(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	addrs := seedAddresses(t, store.Addresses(), 1)

	u := models.User{Username: "judy", Addresses: addrs}
	require.NoError(t, store.Users().Create(ctx, &u))

	deleted, err := store.Users().Delete(ctx, access.OnlyRow(2), u.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.Users().Delete(ctx, access.OnlyRow(u.ID), u.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.Addresses().Get(ctx, access.AllRows(), addrs[0].ID)
	assert.NoError(t, err)
}
