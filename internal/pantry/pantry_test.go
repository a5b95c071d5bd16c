package pantry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestAdapter() *Adapter {
	catalog := NewStaticCatalog(
		map[string][]string{"nodejs.org": {"22.5.1"}},
		map[string]Info{"nodejs.org": {Name: "Node.js"}},
		map[string]string{"nodejs": "nodejs.org"},
	)
	return New(catalog)
}

func TestResolveAliasOverrideTakesPrecedence(t *testing.T) {
	a := newTestAdapter()
	assert.Equal(t, "nodejs.org", a.ResolveAlias("node"))
}

func TestResolveAliasCatalogAlias(t *testing.T) {
	a := newTestAdapter()
	assert.Equal(t, "nodejs.org", a.ResolveAlias("nodejs"))
}

func TestResolveAliasFallbackTable(t *testing.T) {
	a := newTestAdapter()
	assert.Equal(t, "postgresql.org", a.ResolveAlias("postgres"))
}

func TestResolveAliasUnknownNameUnchanged(t *testing.T) {
	a := newTestAdapter()
	assert.Equal(t, "some-unknown-thing", a.ResolveAlias("some-unknown-thing"))
}

func TestVersionsAndInfoDelegateToCatalog(t *testing.T) {
	a := newTestAdapter()
	assert.Equal(t, []string{"22.5.1"}, a.Versions("nodejs.org"))

	info, ok := a.Info("nodejs.org")
	assert.True(t, ok)
	assert.Equal(t, "Node.js", info.Name)

	_, ok = a.Info("unknown.org")
	assert.False(t, ok)
}

func TestDefaultCatalogResolvesKnownAliases(t *testing.T) {
	catalog := DefaultCatalog()
	a := New(catalog)

	assert.Equal(t, "nodejs.org", a.ResolveAlias("node"))
	assert.Equal(t, "postgresql.org", a.ResolveAlias("postgres"))
	assert.NotEmpty(t, a.Versions("nodejs.org"))
}

func TestStaticCatalogDomains(t *testing.T) {
	catalog := NewStaticCatalog(
		map[string][]string{"a.org": {"1"}, "b.org": {"1"}},
		map[string]Info{},
		map[string]string{},
	)
	assert.ElementsMatch(t, []string{"a.org", "b.org"}, catalog.Domains())
}
