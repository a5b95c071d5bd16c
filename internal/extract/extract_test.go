package extract

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tarFile struct {
	name string
	mode int64
	body string
}

func buildTarGz(t *testing.T, files []tarFile) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, f := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: f.name,
			Mode: f.mode,
			Size: int64(len(f.body)),
		}))
		_, err := tw.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtractUnpacksIntoVersionedPrefix(t *testing.T) {
	archive := buildTarGz(t, []tarFile{
		{name: "bin/node", mode: 0o755, body: "#!/bin/sh\necho hi"},
		{name: "lib/libnode.so", mode: 0o644, body: "binary-data"},
	})

	prefix := t.TempDir()
	dest, err := Extract(archive, "tar.gz", prefix, "nodejs.org", "22.5.1", FixupOptions{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(prefix, "nodejs.org", "v22.5.1"), dest)
	assert.FileExists(t, filepath.Join(dest, "bin", "node"))
	assert.FileExists(t, filepath.Join(dest, "lib", "libnode.so"))
}

func TestFindPackageRootPrefersNestedDomainVersionDir(t *testing.T) {
	scratch := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(scratch, "nodejs.org", "v22.5.1", "bin"), 0o755))

	root, err := findPackageRoot(scratch, "nodejs.org", "22.5.1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(scratch, "nodejs.org", "v22.5.1"), root)
}

func TestFindPackageRootFallsBackToFirstSubdirWithKnownLayout(t *testing.T) {
	scratch := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(scratch, "node-v22.5.1-linux-x64", "bin"), 0o755))

	root, err := findPackageRoot(scratch, "nodejs.org", "22.5.1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(scratch, "node-v22.5.1-linux-x64"), root)
}

func TestFindPackageRootErrorsWhenNoCandidateMatches(t *testing.T) {
	scratch := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(scratch, "docs"), 0o755))

	_, err := findPackageRoot(scratch, "nodejs.org", "22.5.1")
	assert.Error(t, err)
}

func TestIsCompleteRequiresExecutableInBin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "node"), []byte("x"), 0o644))
	assert.False(t, isComplete(dir, "nodejs.org"))

	require.NoError(t, os.Chmod(filepath.Join(dir, "bin", "node"), 0o755))
	assert.True(t, isComplete(dir, "nodejs.org"))
}

func TestIsCompleteExceptionsAlwaysPass(t *testing.T) {
	assert.True(t, isComplete(t.TempDir(), "certifi.org"))
}
