package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nabil-dev/chathub/internal/metrics"
	"github.com/nabil-dev/chathub/internal/model/chat"
)

// Conn is the write side of a websocket connection. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// memberLister resolves which connections belong to which room. The registry
// satisfies it; membership is resolved at send time, never cached.
type memberLister interface {
	List() []chat.Session
}

// Broadcaster delivers outbound events to one connection, to every
// connection in a room, or to everyone. Each attached connection gets its
// own write pump goroutine fed by a buffered channel, so delivery to one
// connection is FIFO in the order events were issued and a slow client
// cannot block the rest.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[string]*client
	registry memberLister
	buffer   int
}

type client struct {
	id   string
	conn Conn
	send chan []byte
}

// New creates a broadcaster resolving room membership through registry.
// buffer is the per-connection send queue length; events beyond it are
// dropped rather than queued without bound.
func New(registry memberLister, buffer int) *Broadcaster {
	return &Broadcaster{
		clients:  make(map[string]*client),
		registry: registry,
		buffer:   buffer,
	}
}

// Attach registers a connection and starts its write pump.
func (b *Broadcaster) Attach(connID string, conn Conn) {
	c := &client{id: connID, conn: conn, send: make(chan []byte, b.buffer)}

	b.mu.Lock()
	b.clients[connID] = c
	b.mu.Unlock()

	go c.writePump()
}

// Detach removes the connection, stops its pump and closes the socket.
// Detaching an unknown id is a no-op.
func (b *Broadcaster) Detach(connID string) {
	b.mu.Lock()
	c, ok := b.clients[connID]
	if ok {
		delete(b.clients, connID)
		close(c.send)
	}
	b.mu.Unlock()
}

// Unicast delivers an event to a single connection, if attached.
func (b *Broadcaster) Unicast(connID string, event chat.OutboundEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("broadcast: marshal failed")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if c, ok := b.clients[connID]; ok {
		c.enqueue(data)
	}
}

// ToRoom delivers an event to every connection whose session is currently in
// room, per the registry at call time.
func (b *Broadcaster) ToRoom(room string, event chat.OutboundEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("broadcast: marshal failed")
		return
	}

	members := b.registry.List()

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, session := range members {
		if session.Room != room {
			continue
		}
		if c, ok := b.clients[session.ID]; ok {
			c.enqueue(data)
		}
	}
}

// Global delivers an event to every attached connection.
func (b *Broadcaster) Global(event chat.OutboundEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("broadcast: marshal failed")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.clients {
		c.enqueue(data)
	}
}

// enqueue hands a frame to the client's pump. Callers hold at least the read
// lock, so the channel cannot be closed mid-send. A full queue drops the
// frame; delivery is best effort.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		metrics.EventsDropped.Inc()
		log.Warn().Str("client", c.id).Msg("broadcast: send buffer full, dropping event")
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug().Err(err).Str("client", c.id).Msg("broadcast: write failed")
			return
		}
		metrics.EventsSent.Inc()
	}
}
