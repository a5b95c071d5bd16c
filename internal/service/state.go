package service

import (
	"sync"
	"time"
)

// State is one of the service lifecycle states.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateFailed   State = "failed"
)

// Instance is a supervised service instance: its identity, the template
// context used to expand commands and unit files, and mutex-guarded
// runtime state. A single mutex protects state plus the fields that
// change with it, and an optional callback fires on every transition
// (here used to append to the operation log).
type Instance struct {
	Name            string
	Domain          string
	ProjectName     string
	ProjectDatabase string
	DBUsername      string
	DBPassword      string
	AuthMethod      string
	DataDir         string
	ConfigFile      string
	LogFile         string
	PidFile         string
	Port            int
	Config          map[string]interface{}

	mu        sync.Mutex
	state     State
	pid       int
	startedAt time.Time
	lastErr   error

	onChange func(Instance, State, State)
}

// NewInstance creates an Instance in the stopped state.
func NewInstance(name, domain string) *Instance {
	return &Instance{Name: name, Domain: domain, state: StateStopped, Config: map[string]interface{}{}}
}

// OnChange registers a callback invoked after every state transition, with
// the previous and new state. Only one callback is supported; the last
// caller of OnChange wins, matching how a single state machine owns one
// instance.
func (i *Instance) OnChange(fn func(inst Instance, from, to State)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.onChange = fn
}

// State returns the current lifecycle state.
func (i *Instance) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// PID returns the recorded process id, valid only while State() == running.
func (i *Instance) PID() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pid
}

// LastError returns the error recorded by the most recent failed
// transition, if any.
func (i *Instance) LastError() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastErr
}

// transition moves the instance to "to", invoking the registered callback
// outside the lock so callbacks may themselves call back into Instance.
func (i *Instance) transition(to State) {
	i.mu.Lock()
	from := i.state
	i.state = to
	cb := i.onChange
	i.mu.Unlock()

	if cb != nil {
		cb(*i, from, to)
	}
}

func (i *Instance) setRunning(pid int) {
	i.mu.Lock()
	i.pid = pid
	i.startedAt = time.Now()
	i.mu.Unlock()
	i.transition(StateRunning)
}

func (i *Instance) setStopped() {
	i.mu.Lock()
	i.pid = 0
	i.startedAt = time.Time{}
	i.mu.Unlock()
	i.transition(StateStopped)
}

func (i *Instance) setFailed(err error) {
	i.mu.Lock()
	i.lastErr = err
	i.mu.Unlock()
	i.transition(StateFailed)
}

// templateContext builds the variable map recognized by unit/command
// expansion: dataDir, configFile, logFile, pidFile, port, projectName,
// projectDatabase, dbUsername, dbPassword, authMethod, plus any instance
// config keys.
func (i *Instance) templateContext() map[string]interface{} {
	ctx := map[string]interface{}{
		"dataDir":         i.DataDir,
		"configFile":      i.ConfigFile,
		"logFile":         i.LogFile,
		"pidFile":         i.PidFile,
		"port":            i.Port,
		"projectName":     i.ProjectName,
		"projectDatabase": i.ProjectDatabase,
		"dbUsername":      i.DBUsername,
		"dbPassword":      i.DBPassword,
		"authMethod":      i.AuthMethod,
	}
	for k, v := range i.Config {
		ctx[k] = v
	}
	return ctx
}
