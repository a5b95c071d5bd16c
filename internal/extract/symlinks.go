package extract

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"launchpad/internal/logging"
)

// compatVersions is a small table of legacy version labels that should
// resolve to a given installed version when not already present. The
// entries are illustrative, not a claim that every consumer built against
// e.g. libssl.1.1 is actually satisfied by OpenSSL 3 (see DESIGN.md's Open
// Question decision).
var compatVersions = map[string][]string{
	"openssl.org": {"1", "1.1", "1.0"},
}

// UpdateVersionSymlinks repoints {prefix}/{domain}/v, v{major}, and
// v{major}.{minor} at the highest installed version for that scope,
// preserving the invariant that these pointers only ever advance.
// Creation writes the real directory first (already done by Extract);
// this only repoints symlinks.
func UpdateVersionSymlinks(prefix, domain string) error {
	domainDir := filepath.Join(prefix, domain)
	versions, err := installedVersions(domainDir)
	if err != nil || len(versions) == 0 {
		return err
	}

	highest := versions[0]
	if err := relink(domainDir, "v", "v"+highest.Original()); err != nil {
		return err
	}

	majors := map[string]*semver.Version{}
	majorMinors := map[string]*semver.Version{}
	for _, v := range versions {
		majorKey := strconv.FormatInt(v.Major(), 10)
		if _, ok := majors[majorKey]; !ok {
			majors[majorKey] = v
		}
		mmKey := majorKey + "." + strconv.FormatInt(v.Minor(), 10)
		if _, ok := majorMinors[mmKey]; !ok {
			majorMinors[mmKey] = v
		}
	}
	for k, v := range majors {
		if err := relink(domainDir, "v"+k, "v"+v.Original()); err != nil {
			logging.Debug("extract", "relink v%s failed: %v", k, err)
		}
	}
	for k, v := range majorMinors {
		if err := relink(domainDir, "v"+k, "v"+v.Original()); err != nil {
			logging.Debug("extract", "relink v%s failed: %v", k, err)
		}
	}
	return nil
}

// installedVersions lists the v{x.y.z} directories under domainDir as
// parsed semver versions, descending. v{version} must be a
// semver-parseable directory name.
func installedVersions(domainDir string) ([]*semver.Version, error) {
	entries, err := os.ReadDir(domainDir)
	if err != nil {
		return nil, nil
	}

	var versions []*semver.Version
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "v") {
			continue
		}
		raw := strings.TrimPrefix(e.Name(), "v")
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue // not a semver-parseable version dir (e.g. "vcurrent")
		}
		versions = append(versions, v)
	}

	sort.Sort(sort.Reverse(semver.Collection(versions)))
	return versions, nil
}

func relink(domainDir, linkName, target string) error {
	link := filepath.Join(domainDir, linkName)
	os.Remove(link)
	return os.Symlink(target, link)
}

// compatVersionSymlinks creates sibling symlinks from legacy version labels
// to v{version} for domains in compatVersions, when absent.
func compatVersionSymlinks(prefix, domain, version string) error {
	labels, ok := compatVersions[domain]
	if !ok {
		return nil
	}
	domainDir := filepath.Join(prefix, domain)
	for _, label := range labels {
		link := filepath.Join(domainDir, "v"+label)
		if _, err := os.Lstat(link); err == nil {
			continue
		}
		if err := os.Symlink("v"+version, link); err != nil {
			logging.Debug("extract", "compat symlink v%s failed: %v", label, err)
		}
	}
	return nil
}
