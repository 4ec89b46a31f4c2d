package ws

import (
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nabil-dev/chathub/internal/metrics"
	"github.com/nabil-dev/chathub/internal/model/chat"
	"github.com/nabil-dev/chathub/internal/service/broadcast"
	"github.com/nabil-dev/chathub/internal/service/coordinator"
)

// Handler upgrades websocket connections and pumps inbound events into the
// coordinator. Events of one connection are dispatched in the order the
// transport delivered them.
type Handler struct {
	coordinator *coordinator.Coordinator
	broadcaster *broadcast.Broadcaster
	upgrader    websocket.Upgrader
}

// New creates the websocket handler.
func New(coord *coordinator.Coordinator, bcast *broadcast.Broadcaster) *Handler {
	return &Handler{
		coordinator: coord,
		broadcaster: bcast,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("ws: upgrade failed")
		return
	}

	connID := uuid.NewString()
	metrics.ActiveConnections.Inc()
	metrics.TotalConnections.Inc()
	log.Info().Str("conn", connID).Str("remote", r.RemoteAddr).Msg("ws: connected")

	h.broadcaster.Attach(connID, conn)
	defer func() {
		h.coordinator.Disconnect(connID)
		h.broadcaster.Detach(connID)
		metrics.ActiveConnections.Dec()
		log.Info().Str("conn", connID).Msg("ws: disconnected")
	}()

	// Tell the client its connection id so it can be addressed privately.
	h.broadcaster.Unicast(connID, chat.OutboundEvent{
		Type: chat.EventConnected,
		Data: map[string]string{"id": connID},
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, net.ErrClosed) {
				log.Debug().Err(err).Str("conn", connID).Msg("ws: read error")
			}
			return
		}
		h.coordinator.Dispatch(connID, raw)
	}
}
