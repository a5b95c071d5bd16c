// Package service implements a service lifecycle state machine:
// first-start initialization, platform unit lifecycle, health probing,
// the post-start command pipeline, and a bounded operation log.
package service

// Definition is the static, per-domain description of how to run and
// supervise a service. Definitions are looked up by domain from a small
// compiled-in table; unknown domains cannot be supervised.
type Definition struct {
	Domain string
	// DataDirMarker is the filename whose absence under dataDir indicates
	// the data directory needs first-start initialization.
	DataDirMarker string
	// InitCommand is an argv template run once, before the first start,
	// when DataDirMarker is absent.
	InitCommand []string
	// Executable and Args are the argv template the platform unit runs.
	Executable string
	Args       []string
	// HealthCheck is an argv template; the service is healthy iff its exit
	// code equals HealthExitCode.
	HealthCheck    []string
	HealthExitCode int
	// PostStart is a list of argv templates run once after the health
	// probe succeeds.
	PostStart [][]string
}

// registry is the compiled-in table of supervisable domains.
var registry = map[string]Definition{
	"postgresql.org": {
		Domain:         "postgresql.org",
		DataDirMarker:  "PG_VERSION",
		InitCommand:    []string{"initdb", "-D", "{{ .dataDir }}", "-U", "{{ .dbUsername }}", "--auth-local={{ .authMethod }}"},
		Executable:     "postgres",
		Args:           []string{"-D", "{{ .dataDir }}", "-p", "{{ .port }}"},
		HealthCheck:    []string{"pg_isready", "-p", "{{ .port }}"},
		HealthExitCode: 0,
		PostStart: [][]string{
			{"createdb", "-p", "{{ .port }}", "{{ .projectDatabase }}"},
		},
	},
	"mysql.com": {
		Domain:         "mysql.com",
		DataDirMarker:  "ibdata1",
		InitCommand:    []string{"mysqld", "--initialize-insecure", "--datadir={{ .dataDir }}"},
		Executable:     "mysqld",
		Args:           []string{"--datadir={{ .dataDir }}", "--port={{ .port }}"},
		HealthCheck:    []string{"mysqladmin", "--port={{ .port }}", "ping"},
		HealthExitCode: 0,
		PostStart: [][]string{
			{"mysql", "--port={{ .port }}", "-e", "CREATE DATABASE IF NOT EXISTS {{ .projectDatabase }}"},
		},
	},
	"redis.io": {
		Domain:         "redis.io",
		Executable:     "redis-server",
		Args:           []string{"--port", "{{ .port }}", "--dir", "{{ .dataDir }}"},
		HealthCheck:    []string{"redis-cli", "-p", "{{ .port }}", "ping"},
		HealthExitCode: 0,
	},
}

// Lookup returns domain's service Definition, or ok=false if the domain
// isn't supervisable.
func Lookup(domain string) (Definition, bool) {
	d, ok := registry[domain]
	return d, ok
}
