// Package shim generates executable launcher scripts for installed
// packages: one per binary in {pkgDir}/bin and {pkgDir}/sbin, written to
// {prefix}/bin or {prefix}/sbin, exporting the resolved runtime
// environment and exec'ing the real binary.
package shim

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"launchpad/internal/errs"
	"launchpad/internal/logging"
)

// scriptTemplate is a POSIX sh launcher. It sets any package-specific
// environment, appends Linux library search paths, and execs the real
// binary with forwarded arguments so exit codes and signals pass through
// unchanged.
const scriptTemplate = `#!/bin/sh
# generated by launchpad, do not edit
%s
exec "%s" "$@"
`

// Generate writes shims for every executable in {pkgDir}/bin and
// {pkgDir}/sbin to {prefix}/bin and {prefix}/sbin respectively, overwriting
// any existing shim for the same name: shims are regenerated on every
// install.
func Generate(pkgDir, prefix string, env map[string]string) ([]string, error) {
	var written []string
	for _, sub := range []string{"bin", "sbin"} {
		srcDir := filepath.Join(pkgDir, sub)
		entries, err := os.ReadDir(srcDir)
		if err != nil {
			continue
		}

		destDir := filepath.Join(prefix, sub)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return written, errs.Filesystem("mkdir "+destDir, err)
		}

		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil || info.Mode()&0o111 == 0 {
				continue
			}

			target := filepath.Join(srcDir, e.Name())
			shimPath := filepath.Join(destDir, e.Name())
			if err := writeShim(shimPath, target, env); err != nil {
				return written, err
			}
			written = append(written, shimPath)
			logging.Debug("shim", "wrote %s -> %s", shimPath, target)
		}
	}
	return written, nil
}

func writeShim(shimPath, target string, env map[string]string) error {
	exports := exportLines(env)
	content := fmt.Sprintf(scriptTemplate, exports, target)

	tmp := shimPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o755); err != nil {
		return errs.Filesystem("write shim "+shimPath, err)
	}
	if err := os.Rename(tmp, shimPath); err != nil {
		return errs.Filesystem("rename shim "+shimPath, err)
	}
	return nil
}

// exportLines renders deterministic, shell-quoted `export KEY=VALUE`
// lines, sorted by key so regeneration is idempotent byte-for-byte.
func exportLines(env map[string]string) string {
	if len(env) == 0 {
		return ""
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "export %s=%s\n", k, shellQuote(env[k]))
	}
	return strings.TrimRight(b.String(), "\n")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// RuntimeEnv builds the environment a shim should export: the package's
// own declared env (already template-expanded by the caller) plus, on
// Linux, an appended library search path so dynamically linked binaries
// find their sibling lib/.
func RuntimeEnv(pkgDir string, packageEnv map[string]string) map[string]string {
	env := make(map[string]string, len(packageEnv)+1)
	for k, v := range packageEnv {
		env[k] = v
	}

	if runtime.GOOS == "linux" {
		libDir := filepath.Join(pkgDir, "lib")
		if _, err := os.Stat(libDir); err == nil {
			if existing, ok := env["LD_LIBRARY_PATH"]; ok && existing != "" {
				env["LD_LIBRARY_PATH"] = existing + ":" + libDir
			} else {
				env["LD_LIBRARY_PATH"] = libDir
			}
		}
	}
	return env
}
