package registry

import (
	"errors"
	"sync"

	"github.com/nabil-dev/chathub/internal/model/chat"
)

var (
	ErrDuplicateConnection = errors.New("connection id already registered")
	ErrUnknownConnection   = errors.New("connection not found")
)

// Registry owns the session record of every live connection. All mutation
// goes through the coordinator; every operation is atomic under one lock.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]chat.Session
	defaultRoom string
}

// New creates a registry placing fresh sessions in defaultRoom.
func New(defaultRoom string) *Registry {
	return &Registry{
		sessions:    make(map[string]chat.Session),
		defaultRoom: defaultRoom,
	}
}

// Register creates a session for a new connection. A duplicate id is an
// invariant violation; the existing session is kept and the new registration
// rejected.
func (r *Registry) Register(id, username string) (chat.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; ok {
		return chat.Session{}, ErrDuplicateConnection
	}

	session := chat.Session{ID: id, Username: username, Room: r.defaultRoom}
	r.sessions[id] = session
	return session, nil
}

// UpdateRoom moves the connection's session to room and returns the updated
// record.
func (r *Registry) UpdateRoom(id, room string) (chat.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return chat.Session{}, ErrUnknownConnection
	}

	session.Room = room
	r.sessions[id] = session
	return session, nil
}

// Get returns the session for id, if any.
func (r *Registry) Get(id string) (chat.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Remove deletes the session. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// List returns a snapshot of all sessions. The slice is detached from the
// registry and safe to hold across further joins and leaves.
func (r *Registry) List() []chat.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chat.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		out = append(out, session)
	}
	return out
}
