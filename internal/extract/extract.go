// Package extract implements archive extraction and post-extract layout
// fixups: atomic extraction into a versioned prefix, library symlink
// synthesis, pkg-config rewiring, macOS install_name patching, and
// version-directory symlinks.
package extract

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ulikunitz/xz"

	"launchpad/internal/errs"
	"launchpad/internal/logging"
)

// candidateSubdirs are checked, in order, to decide whether a directory is
// a package root.
var candidateSubdirs = []string{"bin", "sbin", "lib", "include", "share"}

// Extract unpacks archivePath (tar.xz or tar.gz, per format) into
// {prefix}/{domain}/v{version}/, via a scratch directory, then runs the
// post-extract fixups. It returns the final package directory.
func Extract(archivePath, format, prefix, domain, version string, opts FixupOptions) (string, error) {
	scratch := filepath.Join(os.TempDir(), "launchpad-extract-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return "", errs.Filesystem("mkdir scratch", err)
	}
	defer os.RemoveAll(scratch)

	if err := untar(archivePath, format, scratch); err != nil {
		return "", errs.Integrity("extract "+archivePath, err)
	}

	root, err := findPackageRoot(scratch, domain, version)
	if err != nil {
		return "", errs.Integrity("locate package root", err)
	}

	dest := filepath.Join(prefix, domain, "v"+version)
	if err := copyTree(root, dest); err != nil {
		return "", errs.Filesystem("copy package tree", err)
	}

	if err := RunFixups(prefix, domain, version, opts); err != nil {
		logging.Warn("extract", "post-extract fixups for %s@%s had errors: %v", domain, version, err)
	}

	if !isComplete(dest, domain) {
		logging.Warn("extract", "package %s@%s has no executables in bin/ or sbin/", domain, version)
	}

	return dest, nil
}

func untar(archivePath, format, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	switch format {
	case "tar.gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	case "tar.xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return err
		}
		r = xr
	default:
		return fmt.Errorf("unsupported archive format %q", format)
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target := filepath.Join(dest, hdr.Name)
		if err := extractEntry(tr, hdr, target); err != nil {
			return err
		}
	}
}

func extractEntry(tr *tar.Reader, hdr *tar.Header, target string) error {
	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, os.FileMode(hdr.Mode))
	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		os.Remove(target)
		return os.Symlink(hdr.Linkname, target)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, tr)
		return err
	default:
		return nil // skip device files, hardlinks-as-separate-entries, etc.
	}
}

// findPackageRoot locates the package root: check
// {scratch}/{domain}/v{version}/, then {scratch} itself, then each
// immediate subdirectory, accepting the first candidate containing any of
// bin/sbin/lib/include/share.
func findPackageRoot(scratch, domain, version string) (string, error) {
	candidates := []string{
		filepath.Join(scratch, domain, "v"+version),
		scratch,
	}
	entries, _ := os.ReadDir(scratch)
	for _, e := range entries {
		if e.IsDir() {
			candidates = append(candidates, filepath.Join(scratch, e.Name()))
		}
	}

	for _, c := range candidates {
		if hasAnySubdir(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("no package root found under %s", scratch)
}

func hasAnySubdir(dir string) bool {
	for _, s := range candidateSubdirs {
		if info, err := os.Stat(filepath.Join(dir, s)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// copyTree copies src to dst, preserving file modes (incl. the executable
// bit) and recreating symlinks verbatim. It hard-links files where
// possible, falling back to a copy across filesystems.
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			return os.MkdirAll(target, info.Mode())
		case info.Mode()&os.ModeSymlink != 0:
			linkTarget, err := os.Readlink(path)
			if err != nil {
				return err
			}
			os.Remove(target)
			return os.Symlink(linkTarget, target)
		default:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Link(path, target); err == nil {
				return nil
			}
			return copyFile(path, target, info.Mode())
		}
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// completenessExceptions are domains that are legitimately "complete"
// without an executable, e.g. a certificate bundle.
var completenessExceptions = map[string]bool{
	"certifi.org": true,
	"ca-certs":    true,
}

func isComplete(pkgDir, domain string) bool {
	if completenessExceptions[domain] {
		return true
	}
	for _, sub := range []string{"bin", "sbin"} {
		entries, err := os.ReadDir(filepath.Join(pkgDir, sub))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				if info, err := e.Info(); err == nil && info.Mode()&0o111 != 0 {
					return true
				}
			}
		}
	}
	return false
}
