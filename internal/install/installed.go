package install

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Installed is one package found on disk under a prefix.
type Installed struct {
	Domain  string
	Version string
	Dir     string
}

// reservedTopLevel are prefix entries that are never package domains
// (shim directories and launchpad's own markers).
var reservedTopLevel = map[string]bool{
	"bin": true, "sbin": true, "lib": true, "include": true, "share": true,
	".ready": true, "pkgs": true,
}

// List walks prefix/{domain}/v{version} and returns every installed
// package, sorted by domain then descending version.
func List(prefix string) ([]Installed, error) {
	domains, err := os.ReadDir(prefix)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Installed
	for _, d := range domains {
		if !d.IsDir() || reservedTopLevel[d.Name()] {
			continue
		}
		domain := d.Name()
		versionDirs, err := os.ReadDir(filepath.Join(prefix, domain))
		if err != nil {
			continue
		}
		var versions []*semver.Version
		byVersion := map[string]string{}
		for _, v := range versionDirs {
			if !v.IsDir() || !strings.HasPrefix(v.Name(), "v") {
				continue
			}
			raw := strings.TrimPrefix(v.Name(), "v")
			sv, err := semver.NewVersion(raw)
			if err != nil {
				continue
			}
			versions = append(versions, sv)
			byVersion[sv.Original()] = raw
		}
		sort.Sort(sort.Reverse(semver.Collection(versions)))
		for _, sv := range versions {
			raw := byVersion[sv.Original()]
			out = append(out, Installed{
				Domain:  domain,
				Version: raw,
				Dir:     filepath.Join(prefix, domain, "v"+raw),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out, nil
}

// Find returns the installed entry for domain, preferring the highest
// version, or ok=false if domain isn't installed.
func Find(prefix, domain string) (Installed, bool) {
	all, err := List(prefix)
	if err != nil {
		return Installed{}, false
	}
	for _, p := range all {
		if p.Domain == domain {
			return p, true
		}
	}
	return Installed{}, false
}

// Remove deletes domain's installed directory tree under prefix.
func Remove(prefix, domain string) error {
	return os.RemoveAll(filepath.Join(prefix, domain))
}
