//go:build darwin

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"launchpad/internal/config"
	"launchpad/internal/errs"
)

const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{ .label }}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{ .executable }}</string>
{{- range .args }}
		<string>{{ . }}</string>
{{- end }}
	</array>
	<key>WorkingDirectory</key>
	<string>{{ .workingDir }}</string>
	<key>StandardOutPath</key>
	<string>{{ .logFile }}</string>
	<key>StandardErrorPath</key>
	<string>{{ .logFile }}</string>
	<key>RunAtLoad</key>
	<false/>
	<key>KeepAlive</key>
	<false/>
</dict>
</plist>
`

// launchdManager loads/unloads launchd plists under ~/Library/LaunchAgents.
type launchdManager struct{}

// NewManager returns the macOS launchd-backed platform.Manager.
func NewManager() Manager { return launchdManager{} }

func (launchdManager) plistPath(label string) string {
	return filepath.Join(config.LaunchAgentsDir(), label+".plist")
}

func (m launchdManager) Load(u Unit) error {
	ctx := map[string]interface{}{
		"label":       u.Label,
		"executable":  u.Executable,
		"args":        u.Args,
		"workingDir":  u.WorkingDir,
		"logFile":     fmt.Sprint(u.Vars["logFile"]),
	}
	for k, v := range u.Vars {
		ctx[k] = v
	}

	rendered, err := expandPlist(ctx)
	if err != nil {
		return errs.Service("render launchd plist for "+u.Name, err)
	}

	path := m.plistPath(u.Label)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Filesystem("mkdir LaunchAgents", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return errs.Filesystem("write plist "+path, err)
	}

	if out, err := exec.Command("launchctl", "load", path).CombinedOutput(); err != nil {
		return errs.Service("launchctl load "+u.Name, fmt.Errorf("%w: %s", err, out))
	}
	return nil
}

func (m launchdManager) Unload(name string) error {
	path := m.plistPath(name)
	if out, err := exec.Command("launchctl", "unload", path).CombinedOutput(); err != nil {
		return errs.Service("launchctl unload "+name, fmt.Errorf("%w: %s", err, out))
	}
	return nil
}

func (m launchdManager) IsLoaded(name string) (bool, error) {
	out, err := exec.Command("launchctl", "list").Output()
	if err != nil {
		return false, errs.Service("launchctl list", err)
	}
	return strings.Contains(string(out), name), nil
}

func expandPlist(ctx map[string]interface{}) (string, error) {
	return expand(plistTemplate, Unit{Vars: ctx})
}
