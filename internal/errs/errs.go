// Package errs defines the typed error kinds used across launchpad so that
// callers can branch on failure category without parsing message strings,
// while every error still carries a human remediation hint.
package errs

import "fmt"

// Kind categorizes a launchpad error for propagation-policy decisions
// (skip-and-warn vs. fatal vs. self-healing).
type Kind string

const (
	KindResolution Kind = "resolution"
	KindNetwork    Kind = "network"
	KindIntegrity  Kind = "integrity"
	KindFilesystem Kind = "filesystem"
	KindService    Kind = "service"
	KindTimeout    Kind = "timeout"
)

// Error is a launchpad error annotated with a kind and, optionally, a
// remediation hint shown to the user in non-verbose mode.
type Error struct {
	Kind       Kind
	Op         string // the operation that failed, e.g. "download nodejs.org"
	Err        error
	Remediable string // suggested fix, e.g. "run with sudo, or install to ~/.local"
}

func (e *Error) Error() string {
	if e.Remediable != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Remediable)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func new_(kind Kind, op string, err error, remediation string) *Error {
	return &Error{Kind: kind, Op: op, Err: err, Remediable: remediation}
}

// Resolution wraps an error as a version/alias resolution failure.
func Resolution(op string, err error) *Error {
	return new_(KindResolution, op, err, "")
}

// Network wraps an error as a network/fetch failure.
func Network(op string, err error) *Error {
	return new_(KindNetwork, op, err, "check network connectivity or set LAUNCHPAD_ALLOW_NETWORK=false to use only cached archives")
}

// Integrity wraps an error as an archive/cache integrity failure.
func Integrity(op string, err error) *Error {
	return new_(KindIntegrity, op, err, "the cache entry was purged; re-run the install to re-download")
}

// Filesystem wraps an error as a permission/missing-directory failure.
func Filesystem(op string, err error) *Error {
	return new_(KindFilesystem, op, err, "use sudo, install to ~/.local, or chown the prefix directory")
}

// Service wraps an error as a service-lifecycle failure.
func Service(op string, err error) *Error {
	return new_(KindService, op, err, "")
}

// Timeout wraps an error as a per-package/global/command timeout.
func Timeout(op string, err error) *Error {
	return new_(KindTimeout, op, err, "")
}

// Is reports whether err is a launchpad *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind == kind
	}
	return false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
