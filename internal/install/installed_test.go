package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeInstalledDomain(t *testing.T, prefix, domain string, versions ...string) {
	t.Helper()
	for _, v := range versions {
		dir := filepath.Join(prefix, domain, "v"+v)
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
}

func TestListEmptyPrefixReturnsNil(t *testing.T) {
	all, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Nil(t, all)
}

func TestListSortsDomainsAndDescendingVersions(t *testing.T) {
	prefix := t.TempDir()
	makeInstalledDomain(t, prefix, "nodejs.org", "22.5.1", "20.15.0")
	makeInstalledDomain(t, prefix, "go.dev", "1.22.0")

	all, err := List(prefix)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "go.dev", all[0].Domain)
	assert.Equal(t, "nodejs.org", all[1].Domain)
	assert.Equal(t, "22.5.1", all[1].Version)
	assert.Equal(t, "nodejs.org", all[2].Domain)
	assert.Equal(t, "20.15.0", all[2].Version)
}

func TestListSkipsReservedTopLevelEntries(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, ".ready"), 0o755))
	makeInstalledDomain(t, prefix, "nodejs.org", "22.5.1")

	all, err := List(prefix)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "nodejs.org", all[0].Domain)
}

func TestListSkipsNonSemverVersionDirs(t *testing.T) {
	prefix := t.TempDir()
	makeInstalledDomain(t, prefix, "openssl.org", "3.3.1")
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "openssl.org", "vcurrent"), 0o755)) // not a semver version label

	all, err := List(prefix)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "3.3.1", all[0].Version)
}

func TestFindReturnsHighestVersion(t *testing.T) {
	prefix := t.TempDir()
	makeInstalledDomain(t, prefix, "nodejs.org", "22.5.1", "20.15.0")

	got, ok := Find(prefix, "nodejs.org")
	require.True(t, ok)
	assert.Equal(t, "22.5.1", got.Version)
}

func TestFindMissingDomain(t *testing.T) {
	_, ok := Find(t.TempDir(), "nodejs.org")
	assert.False(t, ok)
}

func TestRemoveDeletesDomainTree(t *testing.T) {
	prefix := t.TempDir()
	makeInstalledDomain(t, prefix, "nodejs.org", "22.5.1")

	require.NoError(t, Remove(prefix, "nodejs.org"))
	_, err := os.Stat(filepath.Join(prefix, "nodejs.org"))
	assert.True(t, os.IsNotExist(err))
}
