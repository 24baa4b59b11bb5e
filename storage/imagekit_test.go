package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nkpol/nkpolbackend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageKitTestServer(t *testing.T) (*httptest.Server, *map[string]bool) {
	t.Helper()
	deleted := map[string]bool{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/files/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		user, _, ok := r.BasicAuth()
		if !ok || user != "priv-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("fileName") == "" || r.FormValue("folder") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"fileId":       "ik-file-1",
			"name":         r.FormValue("fileName"),
			"url":          "https://ik.imagekit.io/nkpol/gallery/booth.png",
			"thumbnailUrl": "https://ik.imagekit.io/nkpol/tr:n-ik_ml_thumbnail/gallery/booth.png",
			"filePath":     "/gallery/booth.png",
			"size":         2048,
			"width":        1200,
			"height":       800,
		})
	})
	mux.HandleFunc("/v1/files/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/v1/files/")
		if deleted[id] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		deleted[id] = true
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &deleted
}

func newTestImageKitAdapter(t *testing.T, srv *httptest.Server) *ImageKitAdapter {
	t.Helper()
	a, err := NewImageKitAdapter(config.ImageKitConfig{
		PrivateKey:    "priv-key",
		PublicKey:     "pub-key",
		URLEndpoint:   "https://ik.imagekit.io/nkpol",
		UploadBaseURL: srv.URL,
		APIBaseURL:    srv.URL,
		Folder:        "nkpol",
	})
	require.NoError(t, err)
	return a
}

func TestImageKitUploadFile(t *testing.T) {
	srv, _ := newImageKitTestServer(t)
	a := newTestImageKitAdapter(t, srv)

	obj, err := a.UploadFile(context.Background(), bytes.NewReader([]byte("png-bytes")), 9, "booth.png", "image/png", "gallery")
	require.NoError(t, err)

	assert.Equal(t, "imagekit", obj.StorageType)
	// the deletion key is the provider fileId, not a path
	assert.Equal(t, "ik-file-1", obj.Key)
	assert.Equal(t, "https://ik.imagekit.io/nkpol/gallery/booth.png", obj.URL)
	// ImageKit derives a real transformation thumbnail, distinct from URL
	assert.NotEqual(t, obj.URL, obj.ThumbnailURL)
	assert.Equal(t, int64(2048), obj.Size)
	assert.Equal(t, 1200, obj.Width)
	assert.Equal(t, 800, obj.Height)
}

func TestImageKitUploadRejected(t *testing.T) {
	srv, _ := newImageKitTestServer(t)
	a := newTestImageKitAdapter(t, srv)
	a.privateKey = "wrong-key"

	_, err := a.UploadFile(context.Background(), bytes.NewReader([]byte("x")), 1, "a.png", "image/png", "gallery")
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestImageKitDeleteFile(t *testing.T) {
	srv, deleted := newImageKitTestServer(t)
	a := newTestImageKitAdapter(t, srv)

	require.NoError(t, a.DeleteFile(context.Background(), "ik-file-1"))
	assert.True(t, (*deleted)["ik-file-1"])

	// second delete hits 404: already gone counts as success
	require.NoError(t, a.DeleteFile(context.Background(), "ik-file-1"))
}

func TestImageKitDeleteEmptyKey(t *testing.T) {
	srv, deleted := newImageKitTestServer(t)
	a := newTestImageKitAdapter(t, srv)

	require.NoError(t, a.DeleteFile(context.Background(), ""))
	assert.Empty(t, *deleted)
}

func TestImageKitGetStorageInfo(t *testing.T) {
	srv, _ := newImageKitTestServer(t)
	a := newTestImageKitAdapter(t, srv)

	info := a.GetStorageInfo()
	assert.Equal(t, "imagekit", info.Type)
	assert.Equal(t, "https://ik.imagekit.io/nkpol", info.Endpoint)
	assert.Equal(t, "nkpol", info.Folder)
}

func TestNewImageKitAdapterMissingConfig(t *testing.T) {
	_, err := NewImageKitAdapter(config.ImageKitConfig{PublicKey: "pub-only"})
	assert.Error(t, err)
}
