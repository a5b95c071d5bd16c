// Package pkgspec parses free-form package specification strings:
// name[+constraint], OS-scoped prefixes, and platform-scoped dependency
// tokens.
package pkgspec

import (
	"regexp"
	"runtime"
	"strings"
)

// osPrefixes are the recognized OS-scoped prefixes for "{os}@name[:constraint]".
var osPrefixes = []string{"darwin", "linux", "windows", "freebsd", "openbsd", "netbsd"}

// separators are tried in priority order.
var separators = []string{"@", ">=", "<=", ">", "<", "^", "~", "="}

// Spec is a parsed package specification.
type Spec struct {
	// Name is the alias or canonical domain, with any OS/platform scoping
	// already stripped.
	Name string
	// Constraint is the raw constraint string (e.g. "^1.2", ">=3", "*") or ""
	// when no constraint was given (treated as "latest" by the resolver).
	Constraint string
	// Raw is the original input string.
	Raw string
}

var malformedConstraint = regexp.MustCompile(`^([^:@]+):\s*(.+)$`)

// Parse splits a raw spec string into name and constraint.
//
// Recognized forms:
//   - "node"              -> {Name: "node"}
//   - "node@22.5.1"       -> {Name: "node", Constraint: "22.5.1"}
//   - "node^22"           -> {Name: "node", Constraint: "^22"}
//   - "pkg>=1.2"          -> {Name: "pkg", Constraint: ">=1.2"}
//   - "darwin@node:22.5"  -> OS prefix stripped, malformed ": c" repaired to "@c"
func Parse(raw string) Spec {
	s := raw
	s = stripOSPrefix(s)

	for _, sep := range separators {
		if idx := strings.Index(s, sep); idx > 0 {
			name := s[:idx]
			constraint := s[idx+len(sep):]
			if sep != "@" && sep != "=" {
				// keep the operator as part of the constraint, e.g. "^22"
				constraint = sep + constraint
			}
			return Spec{Name: name, Constraint: constraint, Raw: raw}
		}
	}

	return Spec{Name: s, Raw: raw}
}

// stripOSPrefix removes a leading "{os}@" and repairs a malformed "{name}: c"
// remainder to "{name}@c" before constraint parsing.
func stripOSPrefix(s string) string {
	for _, os := range osPrefixes {
		prefix := os + "@"
		if strings.HasPrefix(s, prefix) {
			rest := s[len(prefix):]
			if m := malformedConstraint.FindStringSubmatch(rest); m != nil {
				return repairMalformed(rest)
			}
			return rest
		}
	}
	return s
}

// repairMalformed turns "name: constraint" into "name@constraint".
func repairMalformed(s string) string {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return s
	}
	name := s[:idx]
	rest := strings.TrimSpace(s[idx+1:])
	return name + "@" + rest
}

// IsPlatformScoped reports whether a dependency token is of the form
// "os:name" (e.g. "linux:foo"), used to filter transitive dependency lists
// per the current platform.
func IsPlatformScoped(token string) (platform, name string, scoped bool) {
	idx := strings.Index(token, ":")
	if idx <= 0 {
		return "", token, false
	}
	prefix := token[:idx]
	for _, os := range osPrefixes {
		if prefix == os {
			return prefix, token[idx+1:], true
		}
	}
	return "", token, false
}

// MatchesCurrentPlatform reports whether a platform-scoped token's platform
// matches runtime.GOOS. Non-scoped tokens always match.
func MatchesCurrentPlatform(token string) bool {
	platform, _, scoped := IsPlatformScoped(token)
	if !scoped {
		return true
	}
	return platform == runtime.GOOS
}

// FilterPlatform removes platform-scoped tokens that don't match the current
// platform and strips the prefix from the ones that do.
func FilterPlatform(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		_, name, scoped := IsPlatformScoped(t)
		if scoped {
			if MatchesCurrentPlatform(t) {
				out = append(out, name)
			}
			continue
		}
		out = append(out, t)
	}
	return out
}

// String renders the spec back into "name" or "name@constraint" form.
func (s Spec) String() string {
	if s.Constraint == "" {
		return s.Name
	}
	return s.Name + "@" + s.Constraint
}
