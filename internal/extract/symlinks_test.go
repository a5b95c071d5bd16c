package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeVersionDirs(t *testing.T, domainDir string, versions ...string) {
	t.Helper()
	for _, v := range versions {
		require.NoError(t, os.MkdirAll(filepath.Join(domainDir, "v"+v), 0o755))
	}
}

func TestUpdateVersionSymlinksPointsAtHighestVersion(t *testing.T) {
	prefix := t.TempDir()
	domainDir := filepath.Join(prefix, "nodejs.org")
	makeVersionDirs(t, domainDir, "20.15.0", "22.5.1", "22.4.0")

	require.NoError(t, UpdateVersionSymlinks(prefix, "nodejs.org"))

	target, err := os.Readlink(filepath.Join(domainDir, "v"))
	require.NoError(t, err)
	assert.Equal(t, "v22.5.1", target)

	target, err = os.Readlink(filepath.Join(domainDir, "v22"))
	require.NoError(t, err)
	assert.Equal(t, "v22.5.1", target)

	target, err = os.Readlink(filepath.Join(domainDir, "v22.4"))
	require.NoError(t, err)
	assert.Equal(t, "v22.4.0", target)
}

func TestUpdateVersionSymlinksNoVersionsIsNoop(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "nodejs.org"), 0o755))
	assert.NoError(t, UpdateVersionSymlinks(prefix, "nodejs.org"))
}

func TestInstalledVersionsSkipsUnparseableDirs(t *testing.T) {
	domainDir := t.TempDir()
	makeVersionDirs(t, domainDir, "22.5.1")
	require.NoError(t, os.Symlink("v22.5.1", filepath.Join(domainDir, "v22")))

	versions, err := installedVersions(domainDir)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "22.5.1", versions[0].Original())
}

func TestCompatVersionSymlinksCreatesLegacyLabels(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "openssl.org", "v3.3.1"), 0o755))

	require.NoError(t, compatVersionSymlinks(prefix, "openssl.org", "3.3.1"))

	target, err := os.Readlink(filepath.Join(prefix, "openssl.org", "v1"))
	require.NoError(t, err)
	assert.Equal(t, "v3.3.1", target)
}

func TestCompatVersionSymlinksSkipsDomainsWithoutTable(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "nodejs.org", "v22.5.1"), 0o755))
	require.NoError(t, compatVersionSymlinks(prefix, "nodejs.org", "22.5.1"))

	_, err := os.Lstat(filepath.Join(prefix, "nodejs.org", "v1"))
	assert.True(t, os.IsNotExist(err))
}
