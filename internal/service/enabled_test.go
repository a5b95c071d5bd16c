package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabledSetRoundTrip(t *testing.T) {
	s := &enabledSet{path: filepath.Join(t.TempDir(), "enabled-services.json")}

	assert.False(t, s.isEnabled("postgresql.org"))

	require.NoError(t, s.set("postgresql.org", true))
	assert.True(t, s.isEnabled("postgresql.org"))
	assert.False(t, s.isEnabled("mysql.com"))

	require.NoError(t, s.set("postgresql.org", false))
	assert.False(t, s.isEnabled("postgresql.org"))
}

func TestEnabledSetPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enabled-services.json")
	a := &enabledSet{path: path}
	require.NoError(t, a.set("redis.io", true))

	b := &enabledSet{path: path}
	assert.True(t, b.isEnabled("redis.io"))
}

func TestEnabledSetLoadMissingFileReturnsEmpty(t *testing.T) {
	s := &enabledSet{path: filepath.Join(t.TempDir(), "missing.json")}
	assert.Empty(t, s.load())
}

func TestEnableDisableServiceIntegration(t *testing.T) {
	orig := defaultEnabled
	defaultEnabled = &enabledSet{path: filepath.Join(t.TempDir(), "enabled-services.json")}
	defer func() { defaultEnabled = orig }()

	m := &Manager{}
	inst := NewInstance("postgresql", "postgresql.org")
	inst.setRunning(123)

	require.NoError(t, m.EnableService(t.Context(), inst))
	assert.True(t, IsEnabled("postgresql"))

	require.NoError(t, m.DisableService(inst))
	assert.False(t, IsEnabled("postgresql"))
}
