package download_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/forgelabs/crossforge/pkg/download"
	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFetchWritesFile(t *testing.T) {
	srv := newTestServer(t, "archive-bytes")
	mgr := download.NewManager(5*time.Second, "")
	dir := t.TempDir()

	path, err := mgr.Fetch(context.Background(), download.Item{
		ID:       "pkg",
		URL:      mustParse(t, srv.URL+"/pkg-1.0.tar.gz"),
		Filename: "pkg-1.0.tar.gz",
	}, download.Options{Dir: dir})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "archive-bytes", string(data))
}

func TestFetchChecksumMismatch(t *testing.T) {
	srv := newTestServer(t, "archive-bytes")
	mgr := download.NewManager(5*time.Second, "")

	_, err := mgr.Fetch(context.Background(), download.Item{
		ID:       "pkg",
		URL:      mustParse(t, srv.URL+"/pkg-1.0.tar.gz"),
		Filename: "pkg-1.0.tar.gz",
		Checksum: "deadbeef",
	}, download.Options{Dir: t.TempDir()})
	require.ErrorIs(t, err, errors.ErrFileHashMismatch)
}

func TestFetchChecksumMatch(t *testing.T) {
	body := "archive-bytes"
	sum := sha256.Sum256([]byte(body))
	srv := newTestServer(t, body)
	mgr := download.NewManager(5*time.Second, "")

	path, err := mgr.Fetch(context.Background(), download.Item{
		ID:       "pkg",
		URL:      mustParse(t, srv.URL+"/pkg-1.0.tar.gz"),
		Filename: "pkg-1.0.tar.gz",
		Checksum: hex.EncodeToString(sum[:]),
	}, download.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestFetchReusesExistingFile(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	mgr := download.NewManager(5*time.Second, "")
	dir := t.TempDir()
	item := download.Item{ID: "pkg", URL: mustParse(t, srv.URL+"/a.tar.gz"), Filename: "a.tar.gz"}

	_, err := mgr.Fetch(context.Background(), item, download.Options{Dir: dir})
	require.NoError(t, err)
	_, err = mgr.Fetch(context.Background(), item, download.Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}

func TestFetchRelativeDir(t *testing.T) {
	mgr := download.NewManager(5*time.Second, "")
	_, err := mgr.Fetch(context.Background(), download.Item{ID: "x"}, download.Options{Dir: "relative/dir"})
	require.ErrorIs(t, err, errors.ErrInvalidPath)
}

func TestFetchAll(t *testing.T) {
	srv := newTestServer(t, "payload")
	mgr := download.NewManager(5*time.Second, "")

	items := []download.Item{
		{ID: "a", URL: mustParse(t, srv.URL+"/a.tar.gz"), Filename: "a.tar.gz"},
		{ID: "b", URL: mustParse(t, srv.URL+"/b.tar.gz"), Filename: "b.tar.gz"},
	}
	got, err := mgr.FetchAll(context.Background(), items, download.Options{Dir: t.TempDir(), Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.FileExists(t, got["a"])
	assert.FileExists(t, got["b"])
}

func TestHead(t *testing.T) {
	srv := newTestServer(t, "payload")
	mgr := download.NewManager(5*time.Second, "")

	assert.NoError(t, mgr.Head(context.Background(), mustParse(t, srv.URL+"/present")))
	assert.Error(t, mgr.Head(context.Background(), mustParse(t, srv.URL+"/missing")))
}
