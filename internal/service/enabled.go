package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"launchpad/internal/config"
)

// enabledSet tracks which service names are enabled for auto-start on
// login, independent of an instance's live process state. Persisted as a
// single JSON document next to the operation log, written via
// temp-file-then-rename like OperationLog.
type enabledSet struct {
	mu   sync.Mutex
	path string
}

var defaultEnabled = &enabledSet{path: config.EnabledServicesFile()}

func (s *enabledSet) load() map[string]bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]bool{}
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return map[string]bool{}
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func (s *enabledSet) save(set map[string]bool) error {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *enabledSet) set(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.load()
	if enabled {
		set[name] = true
	} else {
		delete(set, name)
	}
	return s.save(set)
}

func (s *enabledSet) isEnabled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()[name]
}

// EnableService marks inst enabled for auto-start and starts it now if
// it is not already running.
func (m *Manager) EnableService(ctx context.Context, inst *Instance) error {
	if err := defaultEnabled.set(inst.Name, true); err != nil {
		return err
	}
	if inst.State() == StateRunning {
		return nil
	}
	return m.Start(ctx, inst)
}

// DisableService marks inst disabled for auto-start. It does not stop an
// already-running instance; callers that want both call Stop separately.
func (m *Manager) DisableService(inst *Instance) error {
	return defaultEnabled.set(inst.Name, false)
}

// IsEnabled reports whether name is marked for auto-start on login.
func IsEnabled(name string) bool {
	return defaultEnabled.isEnabled(name)
}
