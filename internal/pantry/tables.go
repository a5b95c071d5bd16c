package pantry

// defaultOverrides shadows catalog aliases for known-bad mappings — cases
// where the upstream pantry's own alias table points at a domain that
// launchpad has found to be wrong or ambiguous for its users. This is
// policy, curated by hand; add entries as real mismatches are found.
func defaultOverrides() map[string]string {
	return map[string]string{
		"python": "python.org",
		"node":   "nodejs.org",
	}
}

// defaultFallback handles common unaliased names: languages, databases, and
// CLI tools that users type without knowing the canonical domain form.
func defaultFallback() map[string]string {
	return map[string]string{
		"go":         "go.dev",
		"golang":     "go.dev",
		"rust":       "rust-lang.org",
		"ruby":       "ruby-lang.org",
		"php":        "php.net",
		"postgres":   "postgresql.org",
		"postgresql": "postgresql.org",
		"mysql":      "mysql.com",
		"redis":      "redis.io",
		"mongo":      "mongodb.com",
		"mongodb":    "mongodb.com",
		"nginx":      "nginx.org",
		"openssl":    "openssl.org",
		"curl":       "curl.se",
		"git":        "git-scm.org",
		"yarn":       "yarnpkg.com",
		"npm":        "npmjs.com",
		"bun":        "bun.sh",
		"deno":       "deno.land",
	}
}
