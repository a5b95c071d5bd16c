package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"LAUNCHPAD_INSTALL_PATH", "LAUNCHPAD_SHIM_PATH", "LAUNCHPAD_VERBOSE",
		"LAUNCHPAD_AUTO_SUDO", "LAUNCHPAD_AUTO_ADD_PATH", "LAUNCHPAD_SHELL_INTEGRATION",
		"LAUNCHPAD_FORCE_SQLITE", "LAUNCHPAD_TEST_MODE", "LAUNCHPAD_ALLOW_NETWORK",
		"LAUNCHPAD_SUPPRESS_INSTALL_SUMMARY", "CI", "GITHUB_ACTIONS",
	} {
		t.Setenv(k, "")
	}

	s := Load()
	assert.Equal(t, "", s.InstallPath)
	assert.False(t, s.Verbose)
	assert.True(t, s.AutoAddPath)
	assert.True(t, s.AllowNetwork)
	assert.False(t, s.CI)
}

func TestLoadHonorsEnvOverrides(t *testing.T) {
	t.Setenv("LAUNCHPAD_INSTALL_PATH", "/opt/launchpad")
	t.Setenv("LAUNCHPAD_VERBOSE", "1")
	t.Setenv("LAUNCHPAD_AUTO_ADD_PATH", "false")
	t.Setenv("LAUNCHPAD_ALLOW_NETWORK", "no")
	t.Setenv("CI", "true")

	s := Load()
	assert.Equal(t, "/opt/launchpad", s.InstallPath)
	assert.True(t, s.Verbose)
	assert.False(t, s.AutoAddPath)
	assert.False(t, s.AllowNetwork)
	assert.True(t, s.CI)
}

func TestHomeDirPrefersHOME(t *testing.T) {
	t.Setenv("HOME", "/home/launchpad-test")
	assert.Equal(t, "/home/launchpad-test", HomeDir())
}

func TestCacheAndDataDirsNestUnderHome(t *testing.T) {
	t.Setenv("HOME", "/home/launchpad-test")
	assert.Equal(t, filepath.Join("/home/launchpad-test", ".cache", "launchpad"), CacheDir())
	assert.Equal(t, filepath.Join("/home/launchpad-test", ".local", "share", "launchpad"), DataDir())
	assert.Equal(t, filepath.Join("/home/launchpad-test", ".local", "share", "launchpad", "envs"), EnvsDir())
}

func TestPackageMetadataFile(t *testing.T) {
	got := PackageMetadataFile("/opt/launchpad", "nodejs.org", "22.5.1")
	assert.Equal(t, filepath.Join("/opt/launchpad", "pkgs", "nodejs.org", "v22.5.1", "metadata.json"), got)
}

func TestPerPackageTimeoutLocalVsCI(t *testing.T) {
	assert.Equal(t, 5, Settings{}.PerPackageTimeout())
	assert.Equal(t, 15, Settings{CI: true}.PerPackageTimeout())
	assert.Equal(t, 15, Settings{GithubActions: true}.PerPackageTimeout())
}

func TestEnabledServicesFileUnderDataDir(t *testing.T) {
	t.Setenv("HOME", "/home/launchpad-test")
	assert.Equal(t, filepath.Join(DataDir(), "enabled-services.json"), EnabledServicesFile())
}
