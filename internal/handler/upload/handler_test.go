package upload_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabil-dev/chathub/internal/handler/upload"
)

func newServer(t *testing.T, dir string, maxBytes int64) *httptest.Server {
	t.Helper()
	h, err := upload.New(dir, maxBytes)
	require.NoError(t, err)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", h.FileServer()))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadStoresFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	srv := newServer(t, dir, 1<<20)

	body, contentType := multipartBody(t, "file", "notes.txt", "hello upload")
	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Contains(t, payload, "url")
	assert.True(t, strings.HasPrefix(payload["url"], "/uploads/"))
	assert.True(t, strings.HasSuffix(payload["url"], "-notes.txt"))

	// The stored file is retrievable through the static file server.
	fileResp, err := http.Get(srv.URL + payload["url"])
	require.NoError(t, err)
	defer fileResp.Body.Close()
	require.Equal(t, http.StatusOK, fileResp.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stored, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "hello upload", string(stored))
}

func TestUploadWithoutFileIsRejected(t *testing.T) {
	srv := newServer(t, t.TempDir(), 1<<20)

	body, contentType := multipartBody(t, "wrong-field", "notes.txt", "hi")
	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "no file uploaded", payload["error"])
}

func TestUploadBeyondSizeLimitFails(t *testing.T) {
	srv := newServer(t, t.TempDir(), 64)

	body, contentType := multipartBody(t, "file", "big.bin", strings.Repeat("x", 4096))
	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
