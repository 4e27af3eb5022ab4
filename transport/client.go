package transport

import (
	"log"
	"os"
)

// Client owns the single outbound connection to the server. Per spec.md
// §4.D, a client whose reader worker observes the connection die has no
// graceful degradation path (there is no second server to fail over to, and
// a client with a dead link cannot usefully keep running) — Run calls
// os.Exit(1) on an unrecoverable reader error. FatalFunc is overridable so
// tests can observe the failure instead of killing the test binary.
type Client struct {
	conn      *Conn
	FatalFunc func(format string, args ...any)
}

// Dial connects to ep and performs the version/schema handshake.
func Dial(ep Endpoint) (*Client, error) {
	conn, err := dial(ep)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, FatalFunc: log.Fatalf}, nil
}

func (c *Client) Conn() *Conn { return c.conn }

func (c *Client) Close() error { return c.conn.Close() }

// Fatal reports an unrecoverable connection error. The default FatalFunc
// logs and exits the process (spec.md §4.D); tests can override FatalFunc
// to observe the failure instead.
func (c *Client) Fatal(format string, args ...any) {
	if c.FatalFunc != nil {
		c.FatalFunc(format, args...)
		return
	}
	log.Printf(format, args...)
	os.Exit(1)
}
