package content_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnieconomy/wiki-mcp/internal/content"
	"github.com/omnieconomy/wiki-mcp/internal/registry"
)

func TestFSSource_Fetch(t *testing.T) {
	src := content.NewFSSource(fstest.MapFS{
		"content/users/intro.md": {Data: []byte("# Intro")},
	})

	got, err := src.Fetch(context.Background(), "/content/users/intro.md")
	require.NoError(t, err)
	assert.Equal(t, "# Intro", got)

	_, err = src.Fetch(context.Background(), "/content/users/missing.md")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestFSSource_CannotEscapeRoot(t *testing.T) {
	src := content.NewFSSource(fstest.MapFS{
		"secret.md": {Data: []byte("nope")},
	})

	got, err := src.Fetch(context.Background(), "/content/../../secret.md")
	require.NoError(t, err, "cleaned path stays inside the root")
	assert.Equal(t, "nope", got)

	_, err = src.Fetch(context.Background(), "../outside.md")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestEmbeddedSource_ServesEveryRegistryPage(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	src := content.NewEmbeddedSource()
	for _, ref := range reg.Pages() {
		doc, err := src.Fetch(context.Background(), ref.Page.ContentPath)
		require.NoError(t, err, ref.Key())
		assert.NotEmpty(t, doc, ref.Key())
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content", "admin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "admin", "installation.md"), []byte("# Install"), 0644))

	src, err := content.NewDirSource(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, src.Root())

	got, err := src.Fetch(context.Background(), "/content/admin/installation.md")
	require.NoError(t, err)
	assert.Equal(t, "# Install", got)
}

func TestDirSource_RejectsMissingDir(t *testing.T) {
	_, err := content.NewDirSource(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/content/users/intro.md":
			w.Write([]byte("# Intro"))
		case "/content/users/broken.md":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src := content.NewHTTPSource(server.URL+"/", server.Client())

	got, err := src.Fetch(context.Background(), "/content/users/intro.md")
	require.NoError(t, err)
	assert.Equal(t, "# Intro", got)

	_, err = src.Fetch(context.Background(), "/content/users/broken.md")
	var statusErr *content.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)

	_, err = src.Fetch(context.Background(), "/content/users/missing.md")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestMockSource(t *testing.T) {
	mock := content.NewMockSource()
	mock.AddDocument("/a.md", "alpha")
	mock.FailWithStatus("/b.md", http.StatusBadGateway)
	boom := errors.New("boom")
	mock.FailWith("/c.md", boom)

	got, err := mock.Fetch(context.Background(), "/a.md")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got)

	var statusErr *content.StatusError
	_, err = mock.Fetch(context.Background(), "/b.md")
	assert.ErrorAs(t, err, &statusErr)

	_, err = mock.Fetch(context.Background(), "/c.md")
	assert.ErrorIs(t, err, boom)

	_, err = mock.Fetch(context.Background(), "/missing.md")
	assert.ErrorIs(t, err, content.ErrNotFound)

	assert.Equal(t, 4, mock.Fetches())
}

func TestMockSource_BlockRespectsContext(t *testing.T) {
	mock := content.NewMockSource()
	mock.AddDocument("/a.md", "alpha")
	release := mock.Block()
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Fetch(ctx, "/a.md")
	assert.ErrorIs(t, err, context.Canceled)
}
