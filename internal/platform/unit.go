// Package platform expands and loads platform service units: a launchd
// property list on macOS, a systemd user unit on Linux. Template expansion
// is shared; load/unload/status are platform-specific (see
// unit_darwin.go, unit_linux.go).
package platform

import (
	"launchpad/internal/template"
)

// Unit is the data needed to render and manage one service's platform
// unit file.
type Unit struct {
	Name       string // service name, e.g. "postgresql"
	Label      string // reverse-DNS style label for launchd, or the unit name for systemd
	Executable string
	Args       []string
	WorkingDir string
	// Vars is the template context: dataDir, configFile, logFile, pidFile,
	// port, projectName, projectDatabase, dbUsername, dbPassword,
	// authMethod, plus any instance config keys.
	Vars map[string]interface{}
}

// Manager loads/unloads/queries a service's platform unit. Implementations
// are platform-specific; Load writes the unit file (plist or systemd unit)
// and activates it.
type Manager interface {
	Load(u Unit) error
	Unload(name string) error
	IsLoaded(name string) (bool, error)
}

var engine = template.New()

// expand renders tmpl against u.Vars using the shared template engine, so
// both platform implementations get identical {{ .var }} substitution
// semantics.
func expand(tmpl string, u Unit) (string, error) {
	ctx := make(map[string]interface{}, len(u.Vars)+1)
	for k, v := range u.Vars {
		ctx[k] = v
	}
	ctx["name"] = u.Name

	return engine.Render(tmpl, ctx)
}
