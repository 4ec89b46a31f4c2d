package chat

// Session binds a live connection to a display name and its current room.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Room     string `json:"room"`
}
