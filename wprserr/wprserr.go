// Package wprserr defines the stable error kinds shared across the proxy
// (spec.md §7). Call sites wrap one of the sentinel Kind values with
// xerrors.Errorf("...: %w", Kind) so that callers can still recover the kind
// via errors.Is while getting a frame-carrying message, the same pattern
// internal/fuse uses for its own error paths.
package wprserr

import "golang.org/x/xerrors"

// Kind is a stable, comparable error classification. Its string form is the
// spec name, so log lines and errors.Is checks agree.
type Kind string

const (
	// Eof means the peer closed the stream mid-frame.
	Eof Kind = "eof"
	// BadData means a framing length/UTF-8/zero/tag violation or schema
	// validation failure.
	BadData Kind = "bad_data"
	// Io means an OS-level socket/file error.
	Io Kind = "io"
	// Unavailable means an optional platform global is missing.
	Unavailable Kind = "unavailable"
	// RoleMismatch means an operation required a different Role variant.
	RoleMismatch Kind = "role_mismatch"
	// UnknownSurface means an event referenced an id no longer tracked.
	UnknownSurface Kind = "unknown_surface"
	// BufferFormat means a buffer's pixel format was not ARGB8888/XRGB8888.
	BufferFormat Kind = "buffer_format"
)

func (k Kind) Error() string { return string(k) }

// Wrap attaches msg as context to kind, preserving it for errors.Is(err, kind).
func Wrap(kind Kind, format string, args ...any) error {
	args = append(append([]any{}, args...), kind)
	return xerrors.Errorf(format+": %w", args...)
}
