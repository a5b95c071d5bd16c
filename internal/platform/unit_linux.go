//go:build linux

package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	systemdDbus "github.com/coreos/go-systemd/v22/dbus"

	"launchpad/internal/config"
	"launchpad/internal/errs"
)

const unitTemplate = `[Unit]
Description=launchpad service {{ .name }}

[Service]
ExecStart={{ .executable }}{{ range .args }} {{ . }}{{ end }}
WorkingDirectory={{ .workingDir }}
Restart=no

[Install]
WantedBy=default.target
`

// systemdManager loads/unloads systemd user units via D-Bus.
type systemdManager struct{}

// NewManager returns the Linux systemd-backed platform.Manager.
func NewManager() Manager { return systemdManager{} }

func unitFileName(name string) string { return name + ".service" }

func (systemdManager) unitPath(name string) string {
	return filepath.Join(config.SystemdUserUnitDir(), unitFileName(name))
}

func (m systemdManager) Load(u Unit) error {
	ctx := map[string]interface{}{
		"name":       u.Name,
		"executable": u.Executable,
		"args":       u.Args,
		"workingDir": u.WorkingDir,
	}
	for k, v := range u.Vars {
		ctx[k] = v
	}

	rendered, err := expand(unitTemplate, Unit{Vars: ctx})
	if err != nil {
		return errs.Service("render systemd unit for "+u.Name, err)
	}

	path := m.unitPath(u.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Filesystem("mkdir systemd user dir", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return errs.Filesystem("write unit "+path, err)
	}

	conn, err := systemdDbus.NewUserConnectionContext(context.Background())
	if err != nil {
		return errs.Service("connect to systemd user bus", err)
	}
	defer conn.Close()

	if err := conn.ReloadContext(context.Background()); err != nil {
		return errs.Service("systemd daemon-reload", err)
	}

	unitName := unitFileName(u.Name)
	ch := make(chan string, 1)
	if _, err := conn.StartUnitContext(context.Background(), unitName, "replace", ch); err != nil {
		return errs.Service("start unit "+unitName, err)
	}
	result := <-ch
	if result != "done" {
		return errs.Service("start unit "+unitName, fmt.Errorf("systemd reported %q", result))
	}
	return nil
}

func (m systemdManager) Unload(name string) error {
	conn, err := systemdDbus.NewUserConnectionContext(context.Background())
	if err != nil {
		return errs.Service("connect to systemd user bus", err)
	}
	defer conn.Close()

	unitName := unitFileName(name)
	ch := make(chan string, 1)
	if _, err := conn.StopUnitContext(context.Background(), unitName, "replace", ch); err != nil {
		return errs.Service("stop unit "+unitName, err)
	}
	<-ch
	return nil
}

func (m systemdManager) IsLoaded(name string) (bool, error) {
	conn, err := systemdDbus.NewUserConnectionContext(context.Background())
	if err != nil {
		return false, errs.Service("connect to systemd user bus", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsByNamesContext(context.Background(), []string{unitFileName(name)})
	if err != nil {
		return false, errs.Service("list units", err)
	}
	for _, unit := range units {
		if strings.HasPrefix(unit.ActiveState, "active") {
			return true, nil
		}
	}
	return false, nil
}
