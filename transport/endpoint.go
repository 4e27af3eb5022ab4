// Package transport implements the framed stream-socket link between the
// wprs server and client processes (spec.md §4.D): endpoint parsing, socket
// setup, the version/schema handshake, and the reader/writer worker
// goroutines that pump Request/Event frames across one connection.
//
// Grounded on cmd/distri/export.go's net.Listen/http.Server accept-loop
// idiom and cmd/distri/internal/fuse's unix-socket plumbing; socket buffer
// tuning uses golang.org/x/sys/unix the way internal/batch/batch.go reaches
// for unix.IoctlGetTermios instead of hand-rolling syscalls.
package transport

import (
	"strings"

	"github.com/wprsproj/wprs/wprserr"
)

// Endpoint names a stream-socket address: either a Unix domain socket path
// or a TCP host:port.
type Endpoint struct {
	Network string // "unix" or "tcp"
	Address string
}

// ParseEndpoint accepts the forms spec.md §4.D names:
//
//	unix:/path/to/socket     -> unix, /path/to/socket
//	unix:///abs/path         -> unix, /abs/path
//	tcp://host:port          -> tcp, host:port
//	tcp:host:port            -> tcp, host:port
//	/bare/path               -> unix, /bare/path (no scheme: assumed unix)
func ParseEndpoint(s string) (Endpoint, error) {
	switch {
	case strings.HasPrefix(s, "unix://"):
		return Endpoint{Network: "unix", Address: strings.TrimPrefix(s, "unix://")}, nil
	case strings.HasPrefix(s, "unix:"):
		return Endpoint{Network: "unix", Address: strings.TrimPrefix(s, "unix:")}, nil
	case strings.HasPrefix(s, "tcp://"):
		return Endpoint{Network: "tcp", Address: strings.TrimPrefix(s, "tcp://")}, nil
	case strings.HasPrefix(s, "tcp:"):
		return Endpoint{Network: "tcp", Address: strings.TrimPrefix(s, "tcp:")}, nil
	case strings.Contains(s, "://"):
		return Endpoint{}, wprserr.Wrap(wprserr.BadData, "transport: unrecognized endpoint scheme %q", s)
	default:
		return Endpoint{Network: "unix", Address: s}, nil
	}
}

func (e Endpoint) String() string {
	if e.Network == "unix" {
		return "unix:" + e.Address
	}
	return e.Network + "://" + e.Address
}
