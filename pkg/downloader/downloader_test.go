package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashString(t *testing.T) {
	a := HashString("https://example.com/v0.1.0.tar.gz")
	b := HashString("https://example.com/v0.2.0.tar.gz")
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
	assert.EqualValues(t, a, HashString("https://example.com/v0.1.0.tar.gz"))
}

func TestDownloader_Download(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/targets.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("10.0.0.0/24\n"))
	}))
	defer srv.Close()

	dl, err := NewDownloader(t.TempDir())
	require.NoError(t, err)

	t.Run("file is downloaded", func(t *testing.T) {
		path, err := dl.Download(ctx, srv.URL+"/targets.txt")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.EqualValues(t, "10.0.0.0/24\n", string(data))
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := dl.Download(ctx, srv.URL+"/missing.txt")
		assert.Error(t, err)
	})
	t.Run("clean", func(t *testing.T) {
		assert.NoError(t, dl.Clean(ctx))
		_, err := os.Stat(dl.CacheDir())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
