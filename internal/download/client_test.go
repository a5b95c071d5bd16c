package download

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDownloadsAndCachesArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 'p', 'a', 'y', 'l', 'o', 'a', 'd'})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, newTestCache(t))
	path, format, err := c.Fetch(t.Context(), "nodejs.org", "linux", "x86_64", "22.5.1", nil)
	require.NoError(t, err)
	assert.Equal(t, FormatTarXZ, format)
	assert.FileExists(t, path)
}

func TestFetchUsesCacheBeforeHTTP(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cache := newTestCache(t)
	_, err := cache.Save("nodejs.org", "22.5.1", string(FormatTarXZ), []byte("cached-archive"))
	require.NoError(t, err)

	c := NewClient(srv.URL, cache)
	_, format, err := c.Fetch(t.Context(), "nodejs.org", "linux", "x86_64", "22.5.1", nil)
	require.NoError(t, err)
	assert.Equal(t, FormatTarXZ, format)
	assert.False(t, called)
}

func TestFetchFailsAfterAllFormatsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, newTestCache(t))
	c.http.RetryMax = 0
	_, _, err := c.Fetch(t.Context(), "nodejs.org", "linux", "x86_64", "22.5.1", nil)
	assert.Error(t, err)
}

func TestFetchResumableDownloadsFullFile(t *testing.T) {
	content := []byte("archive-content-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.tar.xz")
	c := NewClient(srv.URL, newTestCache(t))
	require.NoError(t, c.FetchResumable(t.Context(), srv.URL, dest, int64(len(content))))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestFetchResumableRejectsSizeMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("short"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.tar.xz")
	c := NewClient(srv.URL, newTestCache(t))
	c.http.RetryMax = 0
	err := c.FetchResumable(t.Context(), srv.URL, dest, 9999)
	assert.Error(t, err)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
