// Package testutil provides shared helpers for tests that exercise the
// retrieval chain against a real HTTP server.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// MirrorServer serves a directory of source archives over HTTP, standing in
// for a sources mirror.
type MirrorServer struct {
	// URL is the mirror base URL.
	URL string
	// Dir is the directory the mirror serves.
	Dir string

	server *httptest.Server
}

// NewMirrorServer starts a file-serving mirror over a fresh temp directory.
// The server shuts down with the test.
func NewMirrorServer(t *testing.T) *MirrorServer {
	t.Helper()
	dir := t.TempDir()
	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(server.Close)
	return &MirrorServer{URL: server.URL, Dir: dir, server: server}
}

// Publish places a file on the mirror under the given name.
func (m *MirrorServer) Publish(t *testing.T, name string, content []byte) {
	t.Helper()
	path := filepath.Join(m.Dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}
