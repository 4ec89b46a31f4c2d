package chat

import "time"

// Message is one chat message in a room log, or a private message delivered
// directly. Sender, body and timestamp never change after creation; only
// Reactions and ReadBy are mutated in place.
type Message struct {
	ID        int64               `json:"id"`
	Sender    string              `json:"sender"`
	SenderID  string              `json:"senderId"`
	Body      string              `json:"message"`
	Timestamp time.Time           `json:"timestamp"`
	Reactions map[string][]string `json:"reactions"`
	ReadBy    []string            `json:"readBy"`
	IsPrivate bool                `json:"isPrivate,omitempty"`
}

// Clone returns a copy whose reaction map and read list do not alias the
// original, so snapshots stay stable while the log keeps mutating.
func (m Message) Clone() Message {
	out := m
	out.Reactions = make(map[string][]string, len(m.Reactions))
	for symbol, ids := range m.Reactions {
		out.Reactions[symbol] = append([]string(nil), ids...)
	}
	out.ReadBy = append([]string(nil), m.ReadBy...)
	return out
}
