package directory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/filmclub/screener/internal/awards"
	"github.com/filmclub/screener/internal/cache"
	"github.com/filmclub/screener/internal/directory"
	"github.com/filmclub/screener/internal/directory/mocks"
)

var testUsers = []awards.User{
	{ID: "usr_aaaaaa", Username: "frank"},
	{ID: "usr_bbbbbb", Username: "maria"},
}

func TestFetch_UsesMemoryCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := mocks.NewMockUsersLister(ctrl)
	client.EXPECT().Users(gomock.Any()).Return(testUsers, nil).Times(1)

	a := directory.NewAccessor(client)

	dir, err := a.Fetch(context.Background())
	require.NoError(t, err)

	// Second fetch within the staleness window must not hit the backend.
	dir, err = a.Fetch(context.Background())
	require.NoError(t, err)

	name, ok := dir.Lookup("usr_bbbbbb")
	require.True(t, ok)
	assert.Equal(t, "maria", name)
}

func TestFetch_ExpiredWindowRefetches(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := mocks.NewMockUsersLister(ctrl)
	client.EXPECT().Users(gomock.Any()).Return(testUsers, nil).Times(2)

	a := directory.NewAccessor(client, directory.WithTTL(time.Nanosecond))

	_, err := a.Fetch(context.Background())
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = a.Fetch(context.Background())
	require.NoError(t, err)
}

func TestFetch_PersistentCacheAcrossAccessors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store, err := cache.OpenMemory()
	require.NoError(t, err)
	defer store.Close()

	client := mocks.NewMockUsersLister(ctrl)
	client.EXPECT().Users(gomock.Any()).Return(testUsers, nil).Times(1)

	first := directory.NewAccessor(client, directory.WithStore(store))
	_, err = first.Fetch(context.Background())
	require.NoError(t, err)

	// A fresh accessor (new process) sharing the store resolves without
	// a backend call.
	second := directory.NewAccessor(client, directory.WithStore(store))
	dir, err := second.Fetch(context.Background())
	require.NoError(t, err)

	name, ok := dir.Lookup("usr_aaaaaa")
	require.True(t, ok)
	assert.Equal(t, "frank", name)
}

func TestFetch_BackendErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := mocks.NewMockUsersLister(ctrl)
	client.EXPECT().Users(gomock.Any()).Return(nil, awards.ErrUnavailable)

	a := directory.NewAccessor(client)

	_, err := a.Fetch(context.Background())
	assert.ErrorIs(t, err, awards.ErrUnavailable)
}

func TestFetch_DuplicateIDRejected(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := mocks.NewMockUsersLister(ctrl)
	client.EXPECT().Users(gomock.Any()).Return([]awards.User{
		{ID: "usr_aaaaaa", Username: "frank"},
		{ID: "usr_aaaaaa", Username: "imposter"},
	}, nil)

	a := directory.NewAccessor(client)

	_, err := a.Fetch(context.Background())
	assert.True(t, errors.Is(err, directory.ErrDuplicateID))
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	store, err := cache.OpenMemory()
	require.NoError(t, err)
	defer store.Close()

	client := mocks.NewMockUsersLister(ctrl)
	client.EXPECT().Users(gomock.Any()).Return(testUsers, nil).Times(2)

	a := directory.NewAccessor(client, directory.WithStore(store))

	_, err = a.Fetch(context.Background())
	require.NoError(t, err)

	a.Invalidate(context.Background())

	_, err = a.Fetch(context.Background())
	require.NoError(t, err)
}

func TestLookup_Absent(t *testing.T) {
	dir := directory.Directory{Users: testUsers}
	_, ok := dir.Lookup("usr_zzzzzz")
	assert.False(t, ok)
}
