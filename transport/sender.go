package transport

import (
	"github.com/wprsproj/wprs/protocol"
)

// DiscardingSender sends Requests to the server's current client, silently
// dropping them (instead of blocking or erroring) whenever no client is
// attached. This is the server core's normal send path (spec.md §4.F): a
// backend observation that fires while no client is connected is not an
// error, it is simply unobserved.
type DiscardingSender struct {
	conn      *Conn
	connected *OtherEndConnected
}

func NewDiscardingSender(conn *Conn, connected *OtherEndConnected) *DiscardingSender {
	return &DiscardingSender{conn: conn, connected: connected}
}

// Send drops req and returns nil if no client is connected; otherwise it
// forwards to the underlying Conn.
func (s *DiscardingSender) Send(req protocol.Request) error {
	if s.connected == nil || !s.connected.Get() {
		return nil
	}
	return s.conn.SendRequest(req)
}

// InfallibleSender wraps a Conn's SendEvent for callers that treat a failed
// send as a violated invariant rather than a runtime condition: Send panics
// on failure instead of returning an error — kept as specified (spec.md
// §4.D) rather than redesigned into a fallible API. Nothing in this tree
// outside the transport package's own tests constructs one.
type InfallibleSender struct {
	conn *Conn
}

func NewInfallibleSender(conn *Conn) *InfallibleSender { return &InfallibleSender{conn: conn} }

func (s *InfallibleSender) Send(ev protocol.Event) {
	if err := s.conn.SendEvent(ev); err != nil {
		panic("transport: InfallibleSender.Send failed: " + err.Error())
	}
}
