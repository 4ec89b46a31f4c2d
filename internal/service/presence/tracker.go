package presence

import "sync"

// Tracker keeps the set of connections currently typing, keyed by connection
// id so a disconnect can clear its entry without an explicit typing=false.
type Tracker struct {
	mu     sync.RWMutex
	typing map[string]typist
}

type typist struct {
	username string
	room     string
}

func NewTracker() *Tracker {
	return &Tracker{typing: make(map[string]typist)}
}

// SetTyping marks or clears the typing state of a connection in a room.
func (t *Tracker) SetTyping(connID, username, room string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isTyping {
		t.typing[connID] = typist{username: username, room: room}
	} else {
		delete(t.typing, connID)
	}
}

// Remove clears any typing entry owned by the connection.
func (t *Tracker) Remove(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.typing, connID)
}

// Snapshot returns the display names currently typing in room.
func (t *Tracker) Snapshot(room string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.typing))
	for _, entry := range t.typing {
		if entry.room == room {
			out = append(out, entry.username)
		}
	}
	return out
}
