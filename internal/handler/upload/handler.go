package upload

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nabil-dev/chathub/internal/metrics"
	"github.com/nabil-dev/chathub/pkg/utils"
)

// Handler stores uploaded files on disk and serves them back under
// /uploads. The chat core treats upload URLs embedded in message bodies as
// opaque text; this is the only place that knows about files.
type Handler struct {
	dir      string
	maxBytes int64
}

// New creates the upload handler, making sure the storage directory exists.
func New(dir string, maxBytes int64) (*Handler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Handler{dir: dir, maxBytes: maxBytes}, nil
}

// RegisterRoutes mounts the upload endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
}

// FileServer serves the stored files.
func (h *Handler) FileServer() http.Handler {
	return http.FileServer(http.Dir(h.dir))
}

// handleUpload accepts a multipart "file" field and responds with the URL it
// can be retrieved from. Upload failures are the one place an error is
// surfaced back to the client.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("upload: create failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Error().Err(err).Str("file", name).Msg("upload: write failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	metrics.UploadsTotal.Inc()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"url": "/uploads/" + name})
}
