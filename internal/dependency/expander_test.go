package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/pantry"
)

func testAdapter() *pantry.Adapter {
	versions := map[string][]string{
		"nodejs.org":     {"22.5.1", "20.15.0"},
		"postgresql.org": {"16.3", "15.7"},
		"libevent.org":   {"2.1.12"},
		"pgadmin.org":    {"8.9"},
	}
	info := map[string]pantry.Info{
		"postgresql.org": {Dependencies: []string{"libevent.org"}, Companions: []string{"pgadmin.org"}},
	}
	catalog := pantry.NewStaticCatalog(versions, info, map[string]string{})
	return pantry.New(catalog)
}

func TestExpandRequestedOnly(t *testing.T) {
	out := Expand(testAdapter(), []string{"nodejs.org@22.5.1"}, Options{})
	require.Len(t, out, 1)
	assert.Equal(t, "nodejs.org", out[0].Domain)
	assert.Equal(t, "22.5.1", out[0].Version)
	assert.Equal(t, RoleRequested, out[0].Role)
}

func TestExpandPullsInDependencies(t *testing.T) {
	out := Expand(testAdapter(), []string{"postgresql.org@16.3"}, Options{InstallDependencies: true})
	require.Len(t, out, 2)
	assert.Equal(t, "postgresql.org", out[0].Domain)
	assert.Equal(t, RoleRequested, out[0].Role)
	assert.Equal(t, "libevent.org", out[1].Domain)
	assert.Equal(t, RoleDependency, out[1].Role)
}

func TestExpandSkipsDependenciesWhenDisabled(t *testing.T) {
	out := Expand(testAdapter(), []string{"postgresql.org@16.3"}, Options{InstallDependencies: false})
	require.Len(t, out, 1)
	assert.Equal(t, "postgresql.org", out[0].Domain)
}

func TestExpandAddsCompanionsForRequestedOnly(t *testing.T) {
	out := Expand(testAdapter(), []string{"postgresql.org@16.3"}, Options{
		InstallDependencies: true,
		InstallCompanions:   true,
	})
	var sawCompanion bool
	for _, r := range out {
		if r.Domain == "pgadmin.org" {
			sawCompanion = true
			assert.Equal(t, RoleCompanion, r.Role)
		}
	}
	assert.True(t, sawCompanion)
}

func TestExpandDeduplicatesAcrossRequests(t *testing.T) {
	out := Expand(testAdapter(), []string{"nodejs.org@22.5.1", "nodejs.org@22.5.1"}, Options{})
	assert.Len(t, out, 1)
}

func TestExpandUnresolvableSpecIsDropped(t *testing.T) {
	out := Expand(testAdapter(), []string{"nodejs.org@99.0.0"}, Options{})
	assert.Empty(t, out)
}

func TestExpandStableOrderRequestedBeforeDeps(t *testing.T) {
	out := Expand(testAdapter(), []string{"postgresql.org@16.3", "nodejs.org@22.5.1"}, Options{InstallDependencies: true})
	require.Len(t, out, 3)
	assert.Equal(t, RoleRequested, out[0].Role)
	assert.Equal(t, RoleRequested, out[1].Role)
	assert.Equal(t, RoleDependency, out[2].Role)
}
