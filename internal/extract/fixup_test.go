package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeLibSymlinksCreatesUnversionedAndMajorLinks(t *testing.T) {
	pkgDir := t.TempDir()
	libDir := filepath.Join(pkgDir, "lib")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "libfoo.1.2.3.so"), []byte("x"), 0o644))

	require.NoError(t, synthesizeLibSymlinks(pkgDir))

	target, err := os.Readlink(filepath.Join(libDir, "libfoo.so"))
	require.NoError(t, err)
	assert.Equal(t, "libfoo.1.2.3.so", target)

	target, err = os.Readlink(filepath.Join(libDir, "libfoo.1.so"))
	require.NoError(t, err)
	assert.Equal(t, "libfoo.1.2.3.so", target)
}

func TestSynthesizeLibSymlinksAppliesNamedCompatPairs(t *testing.T) {
	pkgDir := t.TempDir()
	libDir := filepath.Join(pkgDir, "lib")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "libpng16.1.6.40.dylib"), []byte("x"), 0o644))

	require.NoError(t, synthesizeLibSymlinks(pkgDir))

	target, err := os.Readlink(filepath.Join(libDir, "libpng.dylib"))
	require.NoError(t, err)
	assert.Equal(t, "libpng16.1.6.40.dylib", target)
}

func TestSynthesizeLibSymlinksNoLibDirIsNoop(t *testing.T) {
	assert.NoError(t, synthesizeLibSymlinks(t.TempDir()))
}

func TestCrossPackageLibSymlinksPullsFromSiblingPackages(t *testing.T) {
	prefix := t.TempDir()
	siblingLib := filepath.Join(prefix, "libevent.org", "v2.1.12", "lib")
	require.NoError(t, os.MkdirAll(siblingLib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(siblingLib, "libevent.so"), []byte("x"), 0o644))

	pkgDir := filepath.Join(prefix, "postgresql.org", "v16.3")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))

	require.NoError(t, crossPackageLibSymlinks(prefix, "postgresql.org", pkgDir))

	target, err := os.Readlink(filepath.Join(pkgDir, "lib", "libevent.so"))
	require.NoError(t, err)
	assert.Equal(t, siblingLib, filepath.Dir(target))
}

func TestRewritePkgConfigUpdatesPrefixLine(t *testing.T) {
	pkgDir := t.TempDir()
	pcDir := filepath.Join(pkgDir, "lib", "pkgconfig")
	require.NoError(t, os.MkdirAll(pcDir, 0o755))
	original := "prefix=/old/path\nlibdir=${prefix}/lib\n"
	require.NoError(t, os.WriteFile(filepath.Join(pcDir, "libfoo.pc"), []byte(original), 0o644))

	require.NoError(t, rewritePkgConfig(pkgDir, "/opt/launchpad", "foo.org", "1.0.0"))

	got, err := os.ReadFile(filepath.Join(pcDir, "libfoo.pc"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "prefix=/opt/launchpad/foo.org/v1.0.0")
}

func TestRewritePkgConfigSynthesizesAlias(t *testing.T) {
	pkgDir := t.TempDir()
	pcDir := filepath.Join(pkgDir, "lib", "pkgconfig")
	require.NoError(t, os.MkdirAll(pcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pcDir, "libpng16.pc"), []byte("prefix=/x\n"), 0o644))

	require.NoError(t, rewritePkgConfig(pkgDir, "/opt/launchpad", "libpng.org", "1.6.40"))

	assert.FileExists(t, filepath.Join(pcDir, "libpng.pc"))
}

func TestRunFixupsSkipsDesignatedFixupsForUnlistedDomains(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "postgresql.org", "v16.3"), 0o755))

	err := RunFixups(prefix, "postgresql.org", "16.3", FixupOptions{})
	assert.NoError(t, err)

	// The cross-package lib fixup would have created lib/; it must not run.
	_, statErr := os.Stat(filepath.Join(prefix, "postgresql.org", "v16.3", "lib"))
	assert.True(t, os.IsNotExist(statErr))
}
