//go:build darwin

package extract

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"launchpad/internal/logging"
)

// patchInstallNames rewrites absolute shared-library paths embedded in
// Mach-O binaries to @loader_path-relative paths, using install_name_tool.
// This only runs for designated domains.
func patchInstallNames(pkgDir, prefix string) error {
	binDirs := []string{filepath.Join(pkgDir, "bin"), filepath.Join(pkgDir, "lib")}
	for _, dir := range binDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			deps, err := otoolDeps(path)
			if err != nil {
				continue
			}
			for _, dep := range deps {
				if !strings.HasPrefix(dep, prefix) {
					continue
				}
				rel, err := filepath.Rel(dir, dep)
				if err != nil {
					continue
				}
				newPath := "@loader_path/" + rel
				if out, err := exec.Command("install_name_tool", "-change", dep, newPath, path).CombinedOutput(); err != nil {
					logging.Debug("extract", "install_name_tool on %s: %v (%s)", path, err, out)
				}
			}
		}
	}
	return nil
}

func otoolDeps(path string) ([]string, error) {
	out, err := exec.Command("otool", "-L", path).Output()
	if err != nil {
		return nil, err
	}
	var deps []string
	for _, line := range strings.Split(string(out), "\n")[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			deps = append(deps, fields[0])
		}
	}
	return deps, nil
}
