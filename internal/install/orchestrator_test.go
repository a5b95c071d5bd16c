package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/pantry"
)

func TestReadyMarkerFreshFalseWhenAbsent(t *testing.T) {
	prefix := t.TempDir()
	assert.False(t, readyMarkerFresh(prefix))
}

func TestWriteAndDetectReadyMarker(t *testing.T) {
	prefix := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, writeReadyMarker(prefix))
	assert.True(t, readyMarkerFresh(prefix))

	_, err := os.Stat(filepath.Join(prefix, ".ready"))
	assert.NoError(t, err)
}

func TestInstalledDomainsSkipsFailures(t *testing.T) {
	results := []Result{
		{Domain: "nodejs.org", Err: nil},
		{Domain: "broken.org", Err: assertErr{}},
		{Domain: "python.org", Err: nil},
	}
	assert.Equal(t, []string{"nodejs.org", "python.org"}, installedDomains(results))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestLatestVersionReturnsNewestCatalogEntry(t *testing.T) {
	catalog := pantry.NewStaticCatalog(
		map[string][]string{"nodejs.org": {"22.5.1", "20.15.0"}},
		map[string]pantry.Info{},
		map[string]string{},
	)
	p := pantry.New(catalog)

	v, ok := latestVersion(p, "nodejs.org")
	require.True(t, ok)
	assert.Equal(t, "22.5.1", v)
}

func TestLatestVersionFalseForUnknownDomain(t *testing.T) {
	p := pantry.New(pantry.NewStaticCatalog(map[string][]string{}, map[string]pantry.Info{}, map[string]string{}))

	_, ok := latestVersion(p, "unknown.org")
	assert.False(t, ok)
}

func TestInstallSkipsResolutionWhenReadyMarkerFresh(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	prefix := t.TempDir()
	require.NoError(t, writeReadyMarker(prefix))

	o := &Orchestrator{Pantry: nil, Client: nil}
	results, err := o.Install(t.Context(), []string{"node@22"}, Options{
		Prefix: prefix,
		Global: 0,
	})
	require.NoError(t, err)
	assert.Nil(t, results)
}
