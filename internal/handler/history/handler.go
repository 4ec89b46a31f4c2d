package history

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nabil-dev/chathub/internal/service/registry"
	"github.com/nabil-dev/chathub/internal/service/roomlog"
	"github.com/nabil-dev/chathub/pkg/utils"
)

// Handler serves the history and presence query endpoints. Both read the
// same stores the live coordinator writes, so query results never diverge
// from what was broadcast.
type Handler struct {
	logs        *roomlog.Store
	registry    *registry.Registry
	defaultRoom string
	pageSize    int
}

// New creates the query handler. pageSize is the page length used when the
// client does not ask for one.
func New(logs *roomlog.Store, reg *registry.Registry, defaultRoom string, pageSize int) *Handler {
	return &Handler{
		logs:        logs,
		registry:    reg,
		defaultRoom: defaultRoom,
		pageSize:    pageSize,
	}
}

// RegisterRoutes mounts the query endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/messages", h.handleMessages)
	r.Get("/users", h.handleUsers)
}

// handleMessages returns one page of a room's log, newest page first,
// optionally narrowed by a case-insensitive search term.
func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	room := query.Get("room")
	if room == "" {
		room = h.defaultRoom
	}

	page := positiveIntOrDefault(query.Get("page"), 1)
	pageSize := positiveIntOrDefault(query.Get("pageSize"), h.pageSize)
	search := query.Get("search")

	utils.RespondJSON(w, http.StatusOK, h.logs.Page(room, page, pageSize, search))
}

// handleUsers returns a snapshot of all connected users.
func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.registry.List())
}

func positiveIntOrDefault(raw string, defaultValue int) int {
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return defaultValue
	}
	return val
}
