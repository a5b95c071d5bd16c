// Package version implements a constraint resolver: given a latest-first
// list of version strings and a constraint, pick the highest matching
// version. It never errors; an unsatisfiable constraint simply yields
// Resolve's zero value (ok=false).
package version

import (
	"regexp"
	"strconv"
	"strings"
)

// components is a parsed, component-wise numeric version: missing trailing
// components default to 0 for comparisons.
type components [3]int

// parseComponents parses up to three dot-separated components. Each
// component's leading integer is taken (so "1w" parses as 1); a component
// with no leading digits makes the whole version unparseable (ok=false).
func parseComponents(v string) (components, bool) {
	var c components
	parts := strings.SplitN(v, ".", 3)
	for i, p := range parts {
		if i >= 3 {
			break
		}
		n, ok := leadingInt(p)
		if !ok {
			return c, false
		}
		c[i] = n
	}
	return c, true
}

// leadingInt parses the leading run of digits in s as an integer.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// cmp returns -1, 0, 1 comparing a to b component-wise.
func (a components) cmp(b components) int {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (a components) ge(b components) bool { return a.cmp(b) >= 0 }
func (a components) gt(b components) bool { return a.cmp(b) > 0 }
func (a components) le(b components) bool { return a.cmp(b) <= 0 }
func (a components) lt(b components) bool { return a.cmp(b) < 0 }
func (a components) eq(b components) bool { return a.cmp(b) == 0 }

var xPattern = regexp.MustCompile(`[xX]`)

// Resolve returns the highest version in versions (assumed latest-first,
// but re-derived by numeric comparison where a numeric ordering applies)
// satisfying constraint, and true if one was found.
func Resolve(versions []string, constraint string) (string, bool) {
	if len(versions) == 0 {
		return "", false
	}

	constraint = strings.TrimSpace(constraint)

	switch {
	case constraint == "" || constraint == "latest" || constraint == "*":
		return versions[0], true

	case strings.HasPrefix(constraint, "^"):
		return resolveCaret(versions, constraint[1:])

	case strings.HasPrefix(constraint, "~"):
		return resolveTilde(versions, constraint[1:])

	case strings.HasPrefix(constraint, ">="):
		return resolveCompare(versions, constraint[2:], func(v, target components) bool { return v.ge(target) })

	case strings.HasPrefix(constraint, "<="):
		return resolveCompare(versions, constraint[2:], func(v, target components) bool { return v.le(target) })

	case strings.HasPrefix(constraint, ">"):
		return resolveCompare(versions, constraint[1:], func(v, target components) bool { return v.gt(target) })

	case strings.HasPrefix(constraint, "<"):
		return resolveCompare(versions, constraint[1:], func(v, target components) bool { return v.lt(target) })

	case strings.Contains(constraint, " - "):
		return resolveRange(versions, constraint)

	case xPattern.MatchString(constraint):
		return resolvePattern(versions, constraint)
	}

	// Exact match.
	for _, v := range versions {
		if v == constraint {
			return v, true
		}
	}

	// Fallback: longest-prefix match, but only after every numeric-aware
	// strategy above has failed to short-circuit.
	return resolvePrefix(versions, constraint)
}

func highestMatching(versions []string, keep func(components) bool) (string, bool) {
	var best string
	var bestC components
	found := false
	for _, v := range versions {
		c, ok := parseComponents(v)
		if !ok || !keep(c) {
			continue
		}
		if !found || c.gt(bestC) {
			best, bestC, found = v, c, true
		}
	}
	return best, found
}

// resolveCaret implements "^x[.y[.z]]": greatest v with v.major == x and
// v >= x.y.z (missing components default to 0).
func resolveCaret(versions []string, spec string) (string, bool) {
	target, ok := parseComponents(spec)
	if !ok {
		return "", false
	}
	return highestMatching(versions, func(c components) bool {
		return c[0] == target[0] && c.ge(target)
	})
}

// resolveTilde implements "~x.y[.z]": greatest v with v.major==x,
// v.minor==y, v.patch >= z.
func resolveTilde(versions []string, spec string) (string, bool) {
	target, ok := parseComponents(spec)
	if !ok {
		return "", false
	}
	return highestMatching(versions, func(c components) bool {
		return c[0] == target[0] && c[1] == target[1] && c[2] >= target[2]
	})
}

func resolveCompare(versions []string, spec string, keep func(v, target components) bool) (string, bool) {
	target, ok := parseComponents(spec)
	if !ok {
		return "", false
	}
	return highestMatching(versions, func(c components) bool { return keep(c, target) })
}

// resolveRange implements "a - b": greatest v with a <= v <= b.
func resolveRange(versions []string, spec string) (string, bool) {
	parts := strings.SplitN(spec, " - ", 2)
	if len(parts) != 2 {
		return "", false
	}
	lo, ok1 := parseComponents(strings.TrimSpace(parts[0]))
	hi, ok2 := parseComponents(strings.TrimSpace(parts[1]))
	if !ok1 || !ok2 {
		return "", false
	}
	return highestMatching(versions, func(c components) bool { return c.ge(lo) && c.le(hi) })
}

// resolvePattern implements "1.2.x" style constraints via a regex built
// from the literal prefix and a \d+ wildcard for the x/X component.
func resolvePattern(versions []string, spec string) (string, bool) {
	escaped := regexp.QuoteMeta(spec)
	escaped = strings.ReplaceAll(escaped, regexp.QuoteMeta("x"), `\d+`)
	escaped = strings.ReplaceAll(escaped, regexp.QuoteMeta("X"), `\d+`)
	re, err := regexp.Compile("^" + escaped + "$")
	if err != nil {
		return "", false
	}
	return highestMatchingRaw(versions, re.MatchString)
}

func highestMatchingRaw(versions []string, keep func(string) bool) (string, bool) {
	var best string
	var bestC components
	found := false
	for _, v := range versions {
		if !keep(v) {
			continue
		}
		c, ok := parseComponents(v)
		if !ok {
			continue
		}
		if !found || c.gt(bestC) {
			best, bestC, found = v, c, true
		}
	}
	return best, found
}

// resolvePrefix implements the final fallback: longest-prefix match
// ("3" matches "3.11.4").
func resolvePrefix(versions []string, spec string) (string, bool) {
	return highestMatchingRaw(versions, func(v string) bool {
		return v == spec || strings.HasPrefix(v, spec+".")
	})
}
