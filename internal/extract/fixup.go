package extract

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"launchpad/internal/logging"
)

// FixupOptions controls which designated domains receive the
// cross-package-library and install_name fixups, since those only make
// sense for a small set of domains (e.g. a database depending on an event
// library).
type FixupOptions struct {
	// CrossPackageLibDomains lists domains that should have other installed
	// packages' libraries symlinked into their own lib/.
	CrossPackageLibDomains []string
	// InstallNameDomains lists domains whose Mach-O binaries should have
	// their embedded library paths rewritten (macOS only).
	InstallNameDomains []string
}

// RunFixups runs the post-extract fixups in order for the package just
// installed at {prefix}/{domain}/v{version}/.
func RunFixups(prefix, domain, version string, opts FixupOptions) error {
	pkgDir := filepath.Join(prefix, domain, "v"+version)

	if err := synthesizeLibSymlinks(pkgDir); err != nil {
		logging.Warn("extract", "lib symlink synthesis failed for %s: %v", domain, err)
	}

	if contains(opts.CrossPackageLibDomains, domain) {
		if err := crossPackageLibSymlinks(prefix, domain, pkgDir); err != nil {
			logging.Warn("extract", "cross-package lib symlinks failed for %s: %v", domain, err)
		}
	}

	if err := rewritePkgConfig(pkgDir, prefix, domain, version); err != nil {
		logging.Warn("extract", "pkg-config rewiring failed for %s: %v", domain, err)
	}

	if contains(opts.InstallNameDomains, domain) {
		if err := patchInstallNames(pkgDir, prefix); err != nil {
			logging.Warn("extract", "install_name patching failed for %s: %v", domain, err)
		}
	}

	if err := UpdateVersionSymlinks(prefix, domain); err != nil {
		logging.Warn("extract", "version symlink update failed for %s: %v", domain, err)
	}

	if err := compatVersionSymlinks(prefix, domain, version); err != nil {
		logging.Warn("extract", "version compat symlinks failed for %s: %v", domain, err)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// versionedLib matches "libfoo.1.2.3.dylib" or "libfoo.1.2.3.so".
var versionedLib = regexp.MustCompile(`^(lib\w+)\.(\d+(?:\.\d+)*)\.(dylib|so)$`)

// namedCompat are hand-curated sibling-link pairs beyond the generic
// major-version rule.
var namedCompat = [][2]string{
	{"libncursesw", "libncurses"},
	{"libncurses", "libncursesw"},
	{"libpng16", "libpng"},
}

// synthesizeLibSymlinks creates {lib}.{ext} and {lib}.{major}.{ext}
// symlinks for every versioned shared library under lib/, plus the named
// compatibility links.
func synthesizeLibSymlinks(pkgDir string) error {
	libDir := filepath.Join(pkgDir, "lib")
	entries, err := os.ReadDir(libDir)
	if err != nil {
		return nil // no lib/, nothing to do
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := versionedLib.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		libName, ver, ext := m[1], m[2], m[3]
		major := strings.SplitN(ver, ".", 2)[0]

		linkIfAbsent(libDir, libName+"."+ext, e.Name())
		linkIfAbsent(libDir, libName+"."+major+"."+ext, e.Name())

		for _, pair := range namedCompat {
			if pair[0] == libName {
				linkIfAbsent(libDir, pair[1]+"."+ext, e.Name())
			}
		}
	}
	return nil
}

func linkIfAbsent(dir, linkName, target string) {
	link := filepath.Join(dir, linkName)
	if _, err := os.Lstat(link); err == nil {
		return
	}
	if err := os.Symlink(target, link); err != nil {
		logging.Debug("extract", "could not create lib symlink %s -> %s: %v", link, target, err)
	}
}

// crossPackageLibSymlinks scans sibling installed packages' lib/
// directories under the same prefix and symlinks named libraries into
// pkgDir/lib.
func crossPackageLibSymlinks(prefix, selfDomain, pkgDir string) error {
	selfLib := filepath.Join(pkgDir, "lib")
	if err := os.MkdirAll(selfLib, 0o755); err != nil {
		return err
	}

	entries, err := os.ReadDir(prefix)
	if err != nil {
		return err
	}
	for _, domainEntry := range entries {
		if !domainEntry.IsDir() || domainEntry.Name() == selfDomain {
			continue
		}
		versions, err := os.ReadDir(filepath.Join(prefix, domainEntry.Name()))
		if err != nil {
			continue
		}
		for _, v := range versions {
			if !v.IsDir() || !strings.HasPrefix(v.Name(), "v") {
				continue
			}
			libDir := filepath.Join(prefix, domainEntry.Name(), v.Name(), "lib")
			libs, err := os.ReadDir(libDir)
			if err != nil {
				continue
			}
			for _, l := range libs {
				if l.IsDir() {
					continue
				}
				linkIfAbsent(selfLib, l.Name(), filepath.Join(libDir, l.Name()))
			}
		}
	}
	return nil
}

// pcAliases are .pc names consumers commonly pkg-config against that
// upstream ships under a different canonical name.
var pcAliases = map[string][]string{
	"libpng16": {"libpng"},
}

// rewritePkgConfig rewrites absolute prefix paths within .pc files to the
// current installation prefix, then synthesizes any missing alias .pc
// files consumers expect under a different name.
func rewritePkgConfig(pkgDir, prefix, domain, version string) error {
	pcDir := filepath.Join(pkgDir, "lib", "pkgconfig")
	entries, err := os.ReadDir(pcDir)
	if err != nil {
		return nil // no pkg-config files
	}

	selfPrefix := filepath.Join(prefix, domain, "v"+version)
	prefixLine := regexp.MustCompile(`^prefix=.*$`)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pc") {
			continue
		}
		path := filepath.Join(pcDir, e.Name())
		if err := rewritePrefixLine(path, prefixLine, selfPrefix); err != nil {
			logging.Debug("extract", "could not rewrite %s: %v", path, err)
		}

		base := strings.TrimSuffix(e.Name(), ".pc")
		for _, alias := range pcAliases[base] {
			aliasPath := filepath.Join(pcDir, alias+".pc")
			if _, err := os.Lstat(aliasPath); err == nil {
				continue
			}
			if err := copyFile(path, aliasPath, 0o644); err != nil {
				logging.Debug("extract", "could not synthesize %s: %v", aliasPath, err)
			}
		}
	}
	return nil
}

func rewritePrefixLine(path string, pattern *regexp.Regexp, newPrefix string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if pattern.MatchString(line) {
			line = fmt.Sprintf("prefix=%s", newPrefix)
		}
		lines = append(lines, line)
	}
	f.Close()

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}
