package coordinator

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nabil-dev/chathub/internal/model/chat"
	"github.com/nabil-dev/chathub/internal/service/presence"
	"github.com/nabil-dev/chathub/internal/service/registry"
	"github.com/nabil-dev/chathub/internal/service/roomlog"
)

// Emitter is the outbound side of the coordinator. The broadcaster satisfies
// it; tests substitute a recorder.
type Emitter interface {
	Unicast(connID string, event chat.OutboundEvent)
	ToRoom(room string, event chat.OutboundEvent)
	Global(event chat.OutboundEvent)
}

// Coordinator owns all protocol logic: it validates inbound events against
// session state, mutates the registry, room logs and presence tracker, and
// emits the resulting events. Events referencing sessions or messages that
// do not exist are silent no-ops; the transport may deliver events in
// unexpected order and best-effort semantics swallow failures.
type Coordinator struct {
	registry    *registry.Registry
	logs        *roomlog.Store
	presence    *presence.Tracker
	emitter     Emitter
	defaultRoom string
	nextID      atomic.Int64
}

// New wires the coordinator to its stores and emitter. Message ids are
// unique and increasing within the process, seeded from the clock so ids
// stay distinct across restarts for clients holding stale references.
func New(reg *registry.Registry, logs *roomlog.Store, pres *presence.Tracker, emitter Emitter, defaultRoom string) *Coordinator {
	c := &Coordinator{
		registry:    reg,
		logs:        logs,
		presence:    pres,
		emitter:     emitter,
		defaultRoom: defaultRoom,
	}
	c.nextID.Store(time.Now().UnixMilli())
	return c
}

// Connect creates a session for the connection in the default room and
// announces it to everyone. A duplicate connection id is rejected and the
// existing session kept.
func (c *Coordinator) Connect(connID, username string) {
	_, err := c.registry.Register(connID, username)
	if err != nil {
		if errors.Is(err, registry.ErrDuplicateConnection) {
			log.Error().Str("conn", connID).Msg("coordinator: duplicate connection id, registration rejected")
		}
		return
	}

	c.emitter.Global(chat.OutboundEvent{Type: chat.EventUserList, Data: c.registry.List()})
	c.emitter.Global(chat.OutboundEvent{Type: chat.EventUserJoined, Data: chat.UserEvent{Username: username, ID: connID}})
	log.Info().Str("conn", connID).Str("username", username).Msg("user joined")
}

// JoinRoom moves the connection into room and sends it, and only it, the
// room's current history.
func (c *Coordinator) JoinRoom(connID, room string) {
	if _, err := c.registry.UpdateRoom(connID, room); err != nil {
		return
	}

	c.emitter.Unicast(connID, chat.OutboundEvent{Type: chat.EventRoomHistory, Data: c.logs.History(room)})
}

// SendMessage appends a message to the room's log and casts it to the room.
// An empty room targets the session's current room.
func (c *Coordinator) SendMessage(connID, body, room string) {
	session, ok := c.registry.Get(connID)
	if !ok {
		return
	}
	if room == "" {
		room = session.Room
	}

	msg := c.newMessage(session, body, false)
	// Copy for the broadcast while the message is still exclusively ours:
	// the moment it is appended, its id is discoverable and a concurrent
	// reaction or read receipt may mutate it under the room lock.
	event := msg.Clone()
	c.logs.Append(room, msg)
	c.emitter.ToRoom(room, chat.OutboundEvent{Type: chat.EventMessage, Data: event})
}

// PrivateMessage delivers a message to one connection and echoes it to the
// sender. It is never logged. An unknown target drops the message silently.
func (c *Coordinator) PrivateMessage(connID, to, body string) {
	session, ok := c.registry.Get(connID)
	if !ok {
		return
	}
	if _, ok := c.registry.Get(to); !ok {
		return
	}

	msg := c.newMessage(session, body, true)
	event := chat.OutboundEvent{Type: chat.EventPrivateMessage, Data: msg.Clone()}
	c.emitter.Unicast(to, event)
	c.emitter.Unicast(connID, event)
}

// SetTyping updates the connection's typing state and casts the room's
// typing snapshot to the session's current room.
func (c *Coordinator) SetTyping(connID string, isTyping bool) {
	session, ok := c.registry.Get(connID)
	if !ok {
		return
	}

	c.presence.SetTyping(connID, session.Username, session.Room, isTyping)
	c.emitter.ToRoom(session.Room, chat.OutboundEvent{
		Type: chat.EventTypingUsers,
		Data: c.presence.Snapshot(session.Room),
	})
}

// AddReaction records a reaction on a message in the session's current room
// and casts the updated reaction state. Unknown messages are a no-op.
func (c *Coordinator) AddReaction(connID string, messageID int64, symbol string) {
	session, ok := c.registry.Get(connID)
	if !ok {
		return
	}

	reactions, ok := c.logs.AddReaction(session.Room, messageID, symbol, connID)
	if !ok {
		return
	}

	c.emitter.ToRoom(session.Room, chat.OutboundEvent{
		Type: chat.EventReaction,
		Data: chat.ReactionEvent{MessageID: messageID, Reactions: reactions},
	})
}

// MarkRead records a read receipt on a message in the session's current room
// and casts the updated read list. Unknown messages are a no-op.
func (c *Coordinator) MarkRead(connID string, messageID int64) {
	session, ok := c.registry.Get(connID)
	if !ok {
		return
	}

	readBy, ok := c.logs.MarkRead(session.Room, messageID, session.Username)
	if !ok {
		return
	}

	c.emitter.ToRoom(session.Room, chat.OutboundEvent{
		Type: chat.EventRead,
		Data: chat.ReadEvent{MessageID: messageID, ReadBy: readBy},
	})
}

// Disconnect tears the session down: leave notice to the prior room, typing
// and registry cleanup, then a fresh global user list. Disconnecting an
// unknown connection is a no-op.
func (c *Coordinator) Disconnect(connID string) {
	session, ok := c.registry.Get(connID)
	if !ok {
		return
	}

	c.emitter.ToRoom(session.Room, chat.OutboundEvent{
		Type: chat.EventUserLeft,
		Data: chat.UserEvent{Username: session.Username, ID: connID},
	})

	c.presence.Remove(connID)
	c.registry.Remove(connID)
	c.emitter.Global(chat.OutboundEvent{Type: chat.EventUserList, Data: c.registry.List()})
	log.Info().Str("conn", connID).Str("username", session.Username).Msg("user left")
}

func (c *Coordinator) newMessage(session chat.Session, body string, private bool) *chat.Message {
	return &chat.Message{
		ID:        c.nextID.Add(1),
		Sender:    session.Username,
		SenderID:  session.ID,
		Body:      body,
		Timestamp: time.Now().UTC(),
		Reactions: make(map[string][]string),
		ReadBy:    []string{},
		IsPrivate: private,
	}
}
