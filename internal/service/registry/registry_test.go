package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabil-dev/chathub/internal/service/registry"
)

func TestRegisterPlacesSessionInDefaultRoom(t *testing.T) {
	reg := registry.New("global")

	session, err := reg.Register("conn-1", "alice")
	require.NoError(t, err)

	assert.Equal(t, "conn-1", session.ID)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "global", session.Room)
}

func TestRegisterDuplicateKeepsExistingSession(t *testing.T) {
	reg := registry.New("global")

	_, err := reg.Register("conn-1", "alice")
	require.NoError(t, err)

	_, err = reg.Register("conn-1", "impostor")
	require.ErrorIs(t, err, registry.ErrDuplicateConnection)

	session, ok := reg.Get("conn-1")
	require.True(t, ok)
	assert.Equal(t, "alice", session.Username)
}

func TestUpdateRoomTracksMostRecentJoin(t *testing.T) {
	reg := registry.New("global")
	_, err := reg.Register("conn-1", "alice")
	require.NoError(t, err)

	for _, room := range []string{"coding", "music", "coding"} {
		session, err := reg.UpdateRoom("conn-1", room)
		require.NoError(t, err)
		assert.Equal(t, room, session.Room)
	}

	session, ok := reg.Get("conn-1")
	require.True(t, ok)
	assert.Equal(t, "coding", session.Room)
}

func TestUpdateRoomUnknownConnection(t *testing.T) {
	reg := registry.New("global")

	_, err := reg.UpdateRoom("ghost", "coding")
	assert.ErrorIs(t, err, registry.ErrUnknownConnection)
}

func TestRemoveIsIdempotent(t *testing.T) {
	reg := registry.New("global")
	_, err := reg.Register("conn-1", "alice")
	require.NoError(t, err)

	reg.Remove("conn-1")
	reg.Remove("conn-1")
	reg.Remove("never-existed")

	_, ok := reg.Get("conn-1")
	assert.False(t, ok)
	assert.Empty(t, reg.List())
}

func TestListReturnsDetachedSnapshot(t *testing.T) {
	reg := registry.New("global")
	_, err := reg.Register("conn-1", "alice")
	require.NoError(t, err)

	snapshot := reg.List()
	require.Len(t, snapshot, 1)

	_, err = reg.UpdateRoom("conn-1", "coding")
	require.NoError(t, err)

	assert.Equal(t, "global", snapshot[0].Room)
}

func TestConcurrentRegisterAndList(t *testing.T) {
	reg := registry.New("global")

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := reg.Register(id, "user-"+id)
			assert.NoError(t, err)
			reg.List()
		}(id)
	}
	wg.Wait()

	assert.Len(t, reg.List(), 8)
}
