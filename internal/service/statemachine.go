package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"launchpad/internal/config"
	"launchpad/internal/errs"
	"launchpad/internal/logging"
	"launchpad/internal/platform"
)

// Manager drives Instance state transitions: package install (via the
// install orchestrator's ServiceHook seam), first-start initialization,
// platform unit load/unload, health probing, and the post-start command
// pipeline.
type Manager struct {
	Platform platform.Manager
	OpLog    *OperationLog
	Settings config.Settings
	// EnsureInstalled is called before a first start to guarantee the
	// service's package is present; nil is treated as "already installed"
	// (used by tests and by callers that installed eagerly).
	EnsureInstalled func(ctx context.Context, domain string) error

	instances map[string]*Instance // keyed by domain, for AutoStart
}

// Register associates inst with its domain so a later AutoStart (invoked
// by the install orchestrator's ServiceHook seam) can find it.
func (m *Manager) Register(inst *Instance) {
	if m.instances == nil {
		m.instances = map[string]*Instance{}
	}
	m.instances[inst.Domain] = inst
}

// AutoStart implements install.ServiceHook: it starts the registered
// instance for each domain just installed, if any. Domains with no
// registered instance, or that aren't a supervisable service domain, are
// skipped.
func (m *Manager) AutoStart(ctx context.Context, domains []string) error {
	var lastErr error
	for _, domain := range domains {
		inst, ok := m.instances[domain]
		if !ok {
			continue
		}
		if err := m.Start(ctx, inst); err != nil {
			logging.Warn("service", "auto-start of %s failed: %v", domain, err)
			lastErr = err
		}
	}
	return lastErr
}

// NewManager builds a Manager using the current platform's unit manager
// and the operation log at its default location.
func NewManager(settings config.Settings) *Manager {
	return &Manager{
		Platform: platform.NewManager(),
		OpLog:    NewOperationLog(config.ServiceOperationLogFile()),
		Settings: settings,
	}
}

// Start runs the stopped -> starting -> running transition.
func (m *Manager) Start(ctx context.Context, inst *Instance) error {
	def, ok := Lookup(inst.Domain)
	if !ok {
		return errs.Service("start "+inst.Name, fmt.Errorf("%s is not a supervisable service domain", inst.Domain))
	}

	if inst.State() != StateStopped && inst.State() != StateFailed {
		return nil
	}
	inst.transition(StateStarting)

	if m.Settings.TestMode {
		inst.setRunning(1)
		m.log(inst, StateStarting, StateRunning, nil)
		return nil
	}

	if m.EnsureInstalled != nil {
		if err := m.EnsureInstalled(ctx, inst.Domain); err != nil {
			return m.fail(inst, StateStarting, err)
		}
	}

	if err := m.firstStartInit(ctx, inst, def); err != nil {
		return m.fail(inst, StateStarting, err)
	}

	vars := inst.templateContext()
	unit := platform.Unit{
		Name:       inst.Name,
		Label:      "com.launchpad." + inst.Name,
		Executable: def.Executable,
		Args:       def.Args,
		WorkingDir: inst.DataDir,
		Vars:       vars,
	}

	loadErr := m.Platform.Load(unit)
	if loadErr != nil {
		logging.Warn("service", "platform load failed for %s: %v", inst.Name, loadErr)
		if !m.fallbackStart(ctx, inst, def, vars) {
			return m.fail(inst, StateStarting, loadErr)
		}
	}

	if !probeWithRetry(ctx, def, vars) {
		return m.fail(inst, StateStarting, fmt.Errorf("health check did not pass after start"))
	}

	inst.setRunning(0)
	m.log(inst, StateStarting, StateRunning, nil)

	if err := m.runPostStart(ctx, def, vars); err != nil {
		logging.Warn("service", "post-start commands for %s had errors: %v", inst.Name, err)
	}
	return nil
}

// Stop runs the running -> stopping -> stopped transition.
func (m *Manager) Stop(ctx context.Context, inst *Instance) error {
	if inst.State() != StateRunning {
		return nil
	}
	inst.transition(StateStopping)

	if m.Settings.TestMode {
		inst.setStopped()
		m.log(inst, StateStopping, StateStopped, nil)
		return nil
	}

	if err := m.Platform.Unload(inst.Name); err != nil {
		return m.fail(inst, StateStopping, err)
	}

	vars := inst.templateContext()
	def, _ := Lookup(inst.Domain)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !probeOnce(ctx, def, vars) {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	inst.setStopped()
	m.log(inst, StateStopping, StateStopped, nil)
	return nil
}

// Restart stops then starts inst.
func (m *Manager) Restart(ctx context.Context, inst *Instance) error {
	if err := m.Stop(ctx, inst); err != nil {
		return err
	}
	return m.Start(ctx, inst)
}

// Status returns the instance's current state.
func (m *Manager) Status(inst *Instance) State {
	return inst.State()
}

func (m *Manager) fail(inst *Instance, from State, err error) error {
	inst.setFailed(err)
	m.log(inst, from, StateFailed, err)
	return errs.Service(inst.Name, err)
}

func (m *Manager) log(inst *Instance, from, to State, err error) {
	if m.OpLog == nil {
		return
	}
	entry := OperationEntry{Time: time.Now(), Service: inst.Name, From: from, To: to}
	if err != nil {
		entry.Error = err.Error()
	}
	m.OpLog.Append(entry)
}

// firstStartInit detects an uninitialized data directory and runs def's
// templated init command, augmenting the library search path with sibling
// packages' lib/ directories.
func (m *Manager) firstStartInit(ctx context.Context, inst *Instance, def Definition) error {
	if def.DataDirMarker == "" || inst.DataDir == "" {
		return nil
	}
	marker := filepath.Join(inst.DataDir, def.DataDirMarker)
	if _, err := os.Stat(marker); err == nil {
		return nil // already initialized
	}

	if err := os.MkdirAll(inst.DataDir, 0o755); err != nil {
		return errs.Filesystem("mkdir data dir for "+inst.Name, err)
	}

	argv, err := expandArgv(def.InitCommand, inst.templateContext())
	if err != nil || len(argv) == 0 {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), "LD_LIBRARY_PATH="+siblingLibPaths(m.Settings.InstallPath))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("init command for %s: %w: %s", inst.Name, err, out)
	}
	return nil
}

// siblingLibPaths scans prefix for installed packages' lib/ directories,
// for dynamic library discovery during first-start init.
func siblingLibPaths(prefix string) string {
	if prefix == "" {
		return ""
	}
	var paths []string
	domains, err := os.ReadDir(prefix)
	if err != nil {
		return ""
	}
	for _, d := range domains {
		if !d.IsDir() {
			continue
		}
		versions, err := os.ReadDir(filepath.Join(prefix, d.Name()))
		if err != nil {
			continue
		}
		for _, v := range versions {
			lib := filepath.Join(prefix, d.Name(), v.Name(), "lib")
			if info, err := os.Stat(lib); err == nil && info.IsDir() {
				paths = append(paths, lib)
			}
		}
	}
	return strings.Join(paths, ":")
}

// fallbackStart runs the executable directly when the platform unit fails
// to load, macOS-only (Linux has no fallback here, since systemd --user
// is the only supported Linux path).
func (m *Manager) fallbackStart(ctx context.Context, inst *Instance, def Definition, vars map[string]interface{}) bool {
	if runtime.GOOS != "darwin" {
		return false
	}
	argv, err := expandArgv(append([]string{def.Executable}, def.Args...), vars)
	if err != nil || len(argv) == 0 {
		return false
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		logging.Warn("service", "fallback start for %s failed: %v", inst.Name, err)
		return false
	}
	time.Sleep(500 * time.Millisecond)
	return true
}

// runPostStart runs def's post-start argv templates, each under a 10s
// timeout. Stderr containing "already exists" or "duplicate" is treated as
// success (idempotent provisioning).
func (m *Manager) runPostStart(ctx context.Context, def Definition, vars map[string]interface{}) error {
	var errsFound []string
	for _, template := range def.PostStart {
		argv, err := expandArgv(template, vars)
		if err != nil || len(argv) == 0 {
			continue
		}

		pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		cmd := exec.CommandContext(pctx, argv[0], argv[1:]...)
		out, err := cmd.CombinedOutput()
		cancel()

		if err != nil {
			lower := strings.ToLower(string(out))
			if strings.Contains(lower, "already exists") || strings.Contains(lower, "duplicate") {
				continue
			}
			errsFound = append(errsFound, fmt.Sprintf("%v: %s", err, out))
		}
	}
	if len(errsFound) > 0 {
		return fmt.Errorf("%s", strings.Join(errsFound, "; "))
	}
	return nil
}
