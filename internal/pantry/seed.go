package pantry

// DefaultCatalog returns the small compiled-in catalog launchpad ships
// with, covering the domains exercised by the worked examples and the
// service definitions in internal/service. A real deployment would
// refresh this from the upstream pantry's published index (see
// StaticCatalog's doc comment); the Catalog interface is what matters.
func DefaultCatalog() *StaticCatalog {
	versions := map[string][]string{
		"nodejs.org":     {"22.5.1", "22.4.0", "20.15.0", "18.20.3"},
		"python.org":     {"3.12.4", "3.11.9", "3.10.14"},
		"postgresql.org": {"16.3", "15.7", "14.12"},
		"mysql.com":      {"8.4.0", "8.0.37"},
		"redis.io":       {"7.2.5", "7.0.15"},
		"openssl.org":    {"3.3.1", "3.2.2", "1.1.1w"},
		"curl.se":        {"8.8.0", "8.7.1"},
		"zlib.net":       {"1.3.1"},
		"npmjs.com":      {"10.8.1", "10.7.0"},
		"pip.pypa.io":    {"24.1.2"},
	}

	info := map[string]Info{
		"nodejs.org": {
			Name:         "nodejs.org",
			Description:  "JavaScript runtime built on V8",
			Programs:     []string{"node"},
			Dependencies: []string{"openssl.org", "zlib.net"},
			Companions:   []string{"npmjs.com"},
		},
		"python.org": {
			Name:        "python.org",
			Description: "Python interpreter",
			Programs:    []string{"python3"},
			Companions:  []string{"pip.pypa.io"},
		},
		"postgresql.org": {
			Name:         "postgresql.org",
			Description:  "PostgreSQL relational database",
			Programs:     []string{"postgres", "psql", "initdb", "createdb"},
			Dependencies: []string{"openssl.org", "linux:libicu.org"},
		},
		"mysql.com": {
			Name:        "mysql.com",
			Description: "MySQL relational database",
			Programs:    []string{"mysqld", "mysql", "mysqladmin"},
		},
		"redis.io": {
			Name:        "redis.io",
			Description: "In-memory data structure store",
			Programs:    []string{"redis-server", "redis-cli"},
		},
		"curl.se": {
			Name:         "curl.se",
			Description:  "Command-line HTTP client",
			Programs:     []string{"curl"},
			Dependencies: []string{"openssl.org", "zlib.net"},
		},
		"openssl.org": {Name: "openssl.org", Description: "TLS/crypto library", Programs: []string{"openssl"}},
		"zlib.net":    {Name: "zlib.net", Description: "Compression library"},
		"npmjs.com":   {Name: "npmjs.com", Description: "Node package manager", Programs: []string{"npm"}},
		"pip.pypa.io": {Name: "pip.pypa.io", Description: "Python package installer", Programs: []string{"pip3"}},
	}

	aliases := map[string]string{
		"node":       "nodejs.org",
		"python":     "python.org",
		"python3":    "python.org",
		"postgres":   "postgresql.org",
		"postgresql": "postgresql.org",
		"mysql":      "mysql.com",
		"redis":      "redis.io",
		"curl":       "curl.se",
		"npm":        "npmjs.com",
		"pip":        "pip.pypa.io",
	}

	return NewStaticCatalog(versions, info, aliases)
}
