// Package environment implements out-of-band utilities over per-project
// prefixes under ~/.local/share/launchpad/envs/: list, inspect, clean,
// and remove.
package environment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"launchpad/internal/errs"
)

// Info describes one per-project environment directory.
type Info struct {
	Name         string // {projectName}_{shortHash}
	Path         string
	SizeBytes    int64
	PackageCount int
	BinaryCount  int
	ModTime      time.Time
}

// List enumerates every environment under envsDir.
func List(envsDir string) ([]Info, error) {
	entries, err := os.ReadDir(envsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.Filesystem("list environments", err)
	}

	var out []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := inspectDir(filepath.Join(envsDir, e.Name()), e.Name())
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

func inspectDir(path, name string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}

	size, pkgCount := dirStats(path)
	binCount := len(binaries(path, 0))

	return Info{
		Name:         name,
		Path:         path,
		SizeBytes:    size,
		PackageCount: pkgCount,
		BinaryCount:  binCount,
		ModTime:      st.ModTime(),
	}, nil
}

// dirStats returns the recursive byte size of path and the count of
// top-level package (domain) directories.
func dirStats(path string) (size int64, packages int) {
	domains, err := os.ReadDir(path)
	if err != nil {
		return 0, 0
	}
	for _, d := range domains {
		if d.IsDir() && d.Name() != "bin" && d.Name() != "sbin" {
			packages++
		}
	}

	filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err == nil && !fi.IsDir() {
			size += fi.Size()
		}
		return nil
	})
	return size, packages
}

// binaries lists the executables under path/bin and path/sbin, up to
// limit entries (0 means unlimited), for Inspect's "first 10 binaries".
func binaries(path string, limit int) []string {
	var names []string
	for _, sub := range []string{"bin", "sbin"} {
		entries, err := os.ReadDir(filepath.Join(path, sub))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			names = append(names, e.Name())
			if limit > 0 && len(names) >= limit {
				return names
			}
		}
	}
	return names
}

// Inspect renders a human-readable summary of one environment: its
// layout, installed packages, the first 10 binaries, and optionally the
// contents of each shim.
func Inspect(envsDir, name string, showShims bool) (string, error) {
	path := filepath.Join(envsDir, name)
	info, err := inspectDir(path, name)
	if err != nil {
		return "", errs.Filesystem("inspect "+name, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Environment: %s\n", info.Name)
	fmt.Fprintf(&b, "Path:        %s\n", info.Path)
	fmt.Fprintf(&b, "Size:        %d bytes\n", info.SizeBytes)
	fmt.Fprintf(&b, "Packages:    %d\n", info.PackageCount)
	fmt.Fprintf(&b, "Binaries:    %d\n", info.BinaryCount)
	fmt.Fprintf(&b, "Modified:    %s\n", info.ModTime.Format(time.RFC3339))

	fmt.Fprintln(&b, "\nBinaries (first 10):")
	for _, name := range binaries(path, 10) {
		fmt.Fprintf(&b, "  %s\n", name)
		if showShims {
			if content, err := os.ReadFile(filepath.Join(path, "bin", name)); err == nil {
				fmt.Fprintf(&b, "    %s\n", strings.ReplaceAll(string(content), "\n", "\n    "))
			}
		}
	}
	return b.String(), nil
}

// CleanCriteria selects environments for removal by Clean.
type CleanCriteria struct {
	OlderThan time.Duration // zero means no age criterion
}

// Clean removes environments matching any of: older than criteria.OlderThan,
// zero packages, or a missing bin/ directory. It returns the names removed.
func Clean(envsDir string, criteria CleanCriteria, dryRun bool) ([]string, error) {
	infos, err := List(envsDir)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, info := range infos {
		if shouldClean(info, criteria) {
			if !dryRun {
				if err := os.RemoveAll(info.Path); err != nil {
					return removed, errs.Filesystem("clean "+info.Name, err)
				}
			}
			removed = append(removed, info.Name)
		}
	}
	return removed, nil
}

func shouldClean(info Info, criteria CleanCriteria) bool {
	if criteria.OlderThan > 0 && time.Since(info.ModTime) > criteria.OlderThan {
		return true
	}
	if info.PackageCount == 0 {
		return true
	}
	if _, err := os.Stat(filepath.Join(info.Path, "bin")); err != nil {
		return true
	}
	return false
}

// Remove deletes a single environment by name, refusing unless force is set.
func Remove(envsDir, name string, force bool) error {
	if !force {
		return errs.Filesystem("remove "+name, fmt.Errorf("refusing to remove without force"))
	}
	path := filepath.Join(envsDir, name)
	if err := os.RemoveAll(path); err != nil {
		return errs.Filesystem("remove "+name, err)
	}
	return nil
}
