package chat

import "encoding/json"

// Inbound event types, sent by clients over the websocket.
const (
	EventJoin           = "user_join"
	EventJoinRoom       = "join_room"
	EventSendMessage    = "send_message"
	EventPrivateMessage = "private_message"
	EventTyping         = "typing"
	EventAddReaction    = "add_reaction"
	EventMarkRead       = "mark_read"
)

// Outbound event types, emitted by the server. EventPrivateMessage is reused
// for delivery of private messages.
const (
	EventConnected   = "connected"
	EventUserList    = "user_list"
	EventUserJoined  = "user_joined"
	EventUserLeft    = "user_left"
	EventRoomHistory = "load_messages"
	EventMessage     = "receive_message"
	EventTypingUsers = "typing_users"
	EventReaction    = "message_reaction"
	EventRead        = "message_read"
)

// InboundEvent is the envelope clients send; Data is decoded per Type.
type InboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// OutboundEvent is the envelope the server emits.
type OutboundEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Inbound payload shapes.
type JoinPayload struct {
	Username string `json:"username"`
}

type JoinRoomPayload struct {
	Room string `json:"room"`
}

type SendMessagePayload struct {
	Body string `json:"message"`
	Room string `json:"room,omitempty"`
}

type PrivateMessagePayload struct {
	To   string `json:"to"`
	Body string `json:"message"`
}

type TypingPayload struct {
	IsTyping bool `json:"isTyping"`
}

type ReactionPayload struct {
	MessageID int64  `json:"messageId"`
	Reaction  string `json:"reaction"`
}

type MarkReadPayload struct {
	MessageID int64 `json:"messageId"`
}

// Outbound payload shapes that are not a bare Message or Session list.
type UserEvent struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

type ReactionEvent struct {
	MessageID int64               `json:"messageId"`
	Reactions map[string][]string `json:"reactions"`
}

type ReadEvent struct {
	MessageID int64    `json:"messageId"`
	ReadBy    []string `json:"readBy"`
}
