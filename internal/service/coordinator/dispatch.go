package coordinator

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/nabil-dev/chathub/internal/metrics"
	"github.com/nabil-dev/chathub/internal/model/chat"
)

// Dispatch decodes one inbound envelope and applies the matching transition.
// Malformed envelopes and unknown event types are logged and dropped; no
// error ever travels back to the client.
func (c *Coordinator) Dispatch(connID string, raw []byte) {
	var event chat.InboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Debug().Err(err).Str("conn", connID).Msg("coordinator: malformed event envelope")
		return
	}

	metrics.EventsReceived.WithLabelValues(event.Type).Inc()

	switch event.Type {
	case chat.EventJoin:
		var p chat.JoinPayload
		if decode(connID, event, &p) {
			c.Connect(connID, p.Username)
		}
	case chat.EventJoinRoom:
		var p chat.JoinRoomPayload
		if decode(connID, event, &p) {
			c.JoinRoom(connID, p.Room)
		}
	case chat.EventSendMessage:
		var p chat.SendMessagePayload
		if decode(connID, event, &p) {
			c.SendMessage(connID, p.Body, p.Room)
		}
	case chat.EventPrivateMessage:
		var p chat.PrivateMessagePayload
		if decode(connID, event, &p) {
			c.PrivateMessage(connID, p.To, p.Body)
		}
	case chat.EventTyping:
		var p chat.TypingPayload
		if decode(connID, event, &p) {
			c.SetTyping(connID, p.IsTyping)
		}
	case chat.EventAddReaction:
		var p chat.ReactionPayload
		if decode(connID, event, &p) {
			c.AddReaction(connID, p.MessageID, p.Reaction)
		}
	case chat.EventMarkRead:
		var p chat.MarkReadPayload
		if decode(connID, event, &p) {
			c.MarkRead(connID, p.MessageID)
		}
	default:
		log.Debug().Str("conn", connID).Str("type", event.Type).Msg("coordinator: unknown event type")
	}
}

func decode[T any](connID string, event chat.InboundEvent, out *T) bool {
	if err := json.Unmarshal(event.Data, out); err != nil {
		log.Debug().Err(err).Str("conn", connID).Str("type", event.Type).Msg("coordinator: malformed event payload")
		return false
	}
	return true
}
