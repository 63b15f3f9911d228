// Package hifyerr collects the error kinds distinguished at the batch and
// orchestrator boundaries (§7): each kind is a typed sentinel wrapped with
// github.com/pkg/errors so a call site retains a stack trace, matching the
// teacher's own error-handling idiom in cfg.go/object.go/content.go, where
// every returned error is wrapped with errors.Wrap/Wrapf rather than
// returned bare.
package hifyerr

import "github.com/pkg/errors"

// Kind distinguishes the six error categories this system reports across
// a package boundary.
type Kind string

const (
	// Config marks a fatal startup error: bad CLI flags, a missing
	// directory, an invalid config file.
	Config Kind = "config"
	// IO marks a read/write/scan failure. Within batch steps these are
	// collected per item and logged; they are only fatal when no useful
	// result can be produced at all.
	IO Kind = "io"
	// Metadata marks a per-file tag problem: unsupported codec, a missing
	// required tag, an unparsable date/number. The offending file is
	// dropped with a warning; the batch continues.
	Metadata Kind = "metadata"
	// Build marks a violated Index invariant. This should never occur in
	// practice; when it does, the orchestrator aborts and keeps the
	// previous Index current.
	Build Kind = "build"
	// Resource marks a per-item art-pipeline failure. Logged, does not
	// abort sibling items.
	Resource Kind = "resource"
	// UserData marks a rejected user-data mutation: a history overlap, an
	// unknown playlist/mix id, an out-of-bounds move.
	UserData Kind = "userdata"
)

// Error wraps an underlying error with the Kind that classifies it.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, hifyerr.UserDataErr) style checks against the
// per-kind sentinels declared below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs a new Error of kind, with msg as the top-level message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, err: errors.New(msg)}
}

// Wrap wraps err with msg, tagging the result as kind. Returns nil if err
// is nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, err: errors.Wrap(err, msg)}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, err: errors.Wrapf(err, format, args...)}
}

// sentinels usable with errors.Is(err, hifyerr.ConfigErr) etc.
var (
	ConfigErr   = &Error{Kind: Config}
	IOErr       = &Error{Kind: IO}
	MetadataErr = &Error{Kind: Metadata}
	BuildErr    = &Error{Kind: Build}
	ResourceErr = &Error{Kind: Resource}
	UserDataErr = &Error{Kind: UserData}
)
