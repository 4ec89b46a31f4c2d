package roomlog_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabil-dev/chathub/internal/model/chat"
	"github.com/nabil-dev/chathub/internal/service/roomlog"
)

func newMessage(id int64, body string) *chat.Message {
	return &chat.Message{
		ID:        id,
		Sender:    "alice",
		SenderID:  "conn-1",
		Body:      body,
		Timestamp: time.Now().UTC(),
		Reactions: make(map[string][]string),
		ReadBy:    []string{},
	}
}

func TestAppendEvictsOldestBeyondLimit(t *testing.T) {
	store := roomlog.NewStore(500)

	for i := 1; i <= 501; i++ {
		store.Append("global", newMessage(int64(i), fmt.Sprintf("msg %d", i)))
	}

	history := store.History("global")
	require.Len(t, history, 500)

	assert.Equal(t, int64(2), history[0].ID, "oldest message should be evicted")
	assert.Equal(t, int64(501), history[len(history)-1].ID)

	_, found := store.Find("global", 1)
	assert.False(t, found)
}

func TestAppendPreservesRelativeOrder(t *testing.T) {
	store := roomlog.NewStore(3)

	for i := 1; i <= 5; i++ {
		store.Append("global", newMessage(int64(i), "m"))
	}

	history := store.History("global")
	require.Len(t, history, 3)
	assert.Equal(t, int64(3), history[0].ID)
	assert.Equal(t, int64(4), history[1].ID)
	assert.Equal(t, int64(5), history[2].ID)
}

func TestFindUnknownRoomOrMessage(t *testing.T) {
	store := roomlog.NewStore(10)

	_, found := store.Find("nowhere", 1)
	assert.False(t, found)

	store.Append("global", newMessage(1, "hi"))
	_, found = store.Find("global", 99)
	assert.False(t, found)
}

func TestAddReactionIsIdempotent(t *testing.T) {
	store := roomlog.NewStore(10)
	store.Append("global", newMessage(1, "hi"))

	first, ok := store.AddReaction("global", 1, "👍", "conn-2")
	require.True(t, ok)
	second, ok := store.AddReaction("global", 1, "👍", "conn-2")
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"conn-2"}, second["👍"])
}

func TestAddReactionUnknownMessage(t *testing.T) {
	store := roomlog.NewStore(10)
	store.Append("global", newMessage(1, "hi"))

	_, ok := store.AddReaction("global", 42, "👍", "conn-2")
	assert.False(t, ok)

	_, ok = store.AddReaction("nowhere", 1, "👍", "conn-2")
	assert.False(t, ok)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	store := roomlog.NewStore(10)
	store.Append("global", newMessage(1, "hi"))

	first, ok := store.MarkRead("global", 1, "bob")
	require.True(t, ok)
	second, ok := store.MarkRead("global", 1, "bob")
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"bob"}, second)
}

func TestMutationVisibleToLaterReaders(t *testing.T) {
	store := roomlog.NewStore(10)
	store.Append("global", newMessage(1, "hi"))

	_, ok := store.AddReaction("global", 1, "🎉", "conn-2")
	require.True(t, ok)

	msg, found := store.Find("global", 1)
	require.True(t, found)
	assert.Equal(t, []string{"conn-2"}, msg.Reactions["🎉"])
}

func TestHistoryReturnsDetachedCopies(t *testing.T) {
	store := roomlog.NewStore(10)
	store.Append("global", newMessage(1, "hi"))

	history := store.History("global")
	require.Len(t, history, 1)

	_, ok := store.AddReaction("global", 1, "👍", "conn-2")
	require.True(t, ok)

	assert.Empty(t, history[0].Reactions, "snapshot must not see later mutation")
}

func TestPageNewestFirstNoOverlapNoGap(t *testing.T) {
	store := roomlog.NewStore(100)
	for i := 1; i <= 25; i++ {
		store.Append("global", newMessage(int64(i), fmt.Sprintf("msg %d", i)))
	}

	page1 := store.Page("global", 1, 10, "")
	require.Len(t, page1, 10)
	assert.Equal(t, int64(16), page1[0].ID)
	assert.Equal(t, int64(25), page1[9].ID)

	page2 := store.Page("global", 2, 10, "")
	require.Len(t, page2, 10)
	assert.Equal(t, int64(6), page2[0].ID)
	assert.Equal(t, int64(15), page2[9].ID)

	page3 := store.Page("global", 3, 10, "")
	require.Len(t, page3, 5, "last page clamps at the start of the log")
	assert.Equal(t, int64(1), page3[0].ID)

	assert.Empty(t, store.Page("global", 4, 10, ""))
}

func TestPageSmallerThanPageSize(t *testing.T) {
	store := roomlog.NewStore(100)
	for i := 1; i <= 3; i++ {
		store.Append("global", newMessage(int64(i), "m"))
	}

	page := store.Page("global", 1, 10, "")
	require.Len(t, page, 3)
	assert.Equal(t, int64(1), page[0].ID)
	assert.Equal(t, int64(3), page[2].ID)
}

func TestPageSearchIsCaseInsensitiveSubstring(t *testing.T) {
	store := roomlog.NewStore(100)
	store.Append("global", newMessage(1, "Deploy finished"))
	store.Append("global", newMessage(2, "lunch?"))
	store.Append("global", newMessage(3, "redeploy tonight"))

	page := store.Page("global", 1, 10, "DEPLOY")
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].ID)
	assert.Equal(t, int64(3), page[1].ID)
}

func TestPageUnknownRoom(t *testing.T) {
	store := roomlog.NewStore(100)
	assert.Empty(t, store.Page("nowhere", 1, 10, ""))
}

func TestRoomsAreIndependent(t *testing.T) {
	store := roomlog.NewStore(2)

	var wg sync.WaitGroup
	for _, room := range []string{"coding", "music", "random"} {
		wg.Add(1)
		go func(room string) {
			defer wg.Done()
			for i := 1; i <= 50; i++ {
				store.Append(room, newMessage(int64(i), room))
			}
		}(room)
	}
	wg.Wait()

	for _, room := range []string{"coding", "music", "random"} {
		history := store.History(room)
		require.Len(t, history, 2)
		assert.Equal(t, room, history[0].Body)
	}
}
