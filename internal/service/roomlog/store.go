package roomlog

import (
	"strings"
	"sync"

	"github.com/nabil-dev/chathub/internal/model/chat"
)

// Store holds the bounded message log of every room. Each room carries its
// own lock so traffic in one room never contends with another; the outer
// lock only guards the room map itself.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*roomLog
	limit int
}

type roomLog struct {
	mu       sync.Mutex
	messages []*chat.Message
}

// NewStore creates a store evicting oldest messages once a room log holds
// more than limit entries.
func NewStore(limit int) *Store {
	return &Store{
		rooms: make(map[string]*roomLog),
		limit: limit,
	}
}

func (s *Store) room(name string) *roomLog {
	s.mu.RLock()
	r, ok := s.rooms[name]
	s.mu.RUnlock()
	if ok {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok = s.rooms[name]; ok {
		return r
	}
	r = &roomLog{}
	s.rooms[name] = r
	return r
}

// lookup returns the room log without creating it.
func (s *Store) lookup(name string) (*roomLog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[name]
	return r, ok
}

// Append adds msg to the tail of room's log, creating the log on first use.
// When the log would exceed the limit the oldest entry is evicted in the
// same critical section, so an over-limit log is never observable.
func (s *Store) Append(room string, msg *chat.Message) {
	r := s.room(room)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, msg)
	if len(r.messages) > s.limit {
		overflow := len(r.messages) - s.limit
		r.messages = append([]*chat.Message(nil), r.messages[overflow:]...)
	}
}

// Find returns a detached copy of the message with the given id. It is the
// store's read-only single-message lookup; mutating paths go through
// AddReaction and MarkRead, which locate the message themselves so the
// update happens under the room lock.
func (s *Store) Find(room string, id int64) (chat.Message, bool) {
	r, ok := s.lookup(room)
	if !ok {
		return chat.Message{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msg := r.find(id)
	if msg == nil {
		return chat.Message{}, false
	}
	return msg.Clone(), true
}

// must hold r.mu
func (r *roomLog) find(id int64) *chat.Message {
	for _, msg := range r.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// AddReaction records that connID reacted with symbol to the message.
// Applying the same reaction twice is a no-op. The returned map is a copy of
// the message's reaction state after the update.
func (s *Store) AddReaction(room string, id int64, symbol, connID string) (map[string][]string, bool) {
	r, ok := s.lookup(room)
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msg := r.find(id)
	if msg == nil {
		return nil, false
	}

	if msg.Reactions == nil {
		msg.Reactions = make(map[string][]string)
	}
	if !contains(msg.Reactions[symbol], connID) {
		msg.Reactions[symbol] = append(msg.Reactions[symbol], connID)
	}
	return msg.Clone().Reactions, true
}

// MarkRead records that username has read the message, idempotently, and
// returns a copy of the resulting read list.
func (s *Store) MarkRead(room string, id int64, username string) ([]string, bool) {
	r, ok := s.lookup(room)
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msg := r.find(id)
	if msg == nil {
		return nil, false
	}

	if !contains(msg.ReadBy, username) {
		msg.ReadBy = append(msg.ReadBy, username)
	}
	return append([]string(nil), msg.ReadBy...), true
}

// History returns a detached copy of the room's full log, oldest first.
func (s *Store) History(room string) []chat.Message {
	r, ok := s.lookup(room)
	if !ok {
		return []chat.Message{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]chat.Message, 0, len(r.messages))
	for _, msg := range r.messages {
		out = append(out, msg.Clone())
	}
	return out
}

// Page returns one page of the room's log, newest pages first: page 1 holds
// the newest pageSize messages, page 2 the pageSize before those, clamped at
// the start. A non-empty search narrows the log to messages whose body
// contains it, case-insensitively, before paging. Messages within a page
// stay in chronological order.
func (s *Store) Page(room string, page, pageSize int, search string) []chat.Message {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []chat.Message{}
	}

	r, ok := s.lookup(room)
	if !ok {
		return []chat.Message{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := r.messages
	if search != "" {
		needle := strings.ToLower(search)
		filtered = make([]*chat.Message, 0, len(r.messages))
		for _, msg := range r.messages {
			if strings.Contains(strings.ToLower(msg.Body), needle) {
				filtered = append(filtered, msg)
			}
		}
	}

	end := len(filtered) - (page-1)*pageSize
	if end <= 0 {
		return []chat.Message{}
	}
	start := end - pageSize
	if start < 0 {
		start = 0
	}

	out := make([]chat.Message, 0, end-start)
	for _, msg := range filtered[start:end] {
		out = append(out, msg.Clone())
	}
	return out
}

func contains(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
