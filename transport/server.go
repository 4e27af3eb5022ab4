package transport

import (
	"log"
	"net"
	"sync/atomic"

	"github.com/wprsproj/wprs/wprserr"
)

// Server hands out client connections one Accept at a time (spec.md §4.D):
// wprs is a single-seat remoting proxy, not a multiplexing compositor.
// Server does not refuse a second connection attempt itself; one that
// arrives while a client is being served waits in the listener's backlog
// until the next Accept.
type Server struct {
	ln net.Listener
	ep Endpoint
}

// Listen binds ep and returns a Server ready to Accept. For Unix sockets,
// a stale socket file from a prior run is removed first.
func Listen(ep Endpoint) (*Server, error) {
	var ln net.Listener
	var err error
	switch ep.Network {
	case "unix":
		ln, err = listenUnix(ep.Address)
	case "tcp":
		ln, err = net.Listen("tcp", ep.Address)
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "transport: unknown network %q", ep.Network)
	}
	if err != nil {
		return nil, wprserr.Wrap(wprserr.Io, "transport: listening on %s", ep)
	}
	return &Server{ln: ln, ep: ep}, nil
}

func (s *Server) Addr() net.Addr { return s.ln.Addr() }

func (s *Server) Close() error { return s.ln.Close() }

// Accept blocks for the next client connection, tunes its socket, performs
// the version/schema handshake, and returns a ready Conn. Callers that want
// the "one client at a time" invariant should fully drain and Close() the
// previous Conn before calling Accept again.
func (s *Server) Accept() (*Conn, error) {
	for {
		nc, err := s.ln.Accept()
		if err != nil {
			return nil, wprserr.Wrap(wprserr.Io, "transport: accept on %s", s.ep)
		}
		if err := tuneConn(nc); err != nil {
			log.Printf("transport: tuning accepted connection: %v", err)
			nc.Close()
			continue
		}
		if err := performHandshake(nc); err != nil {
			log.Printf("transport: handshake with accepted connection failed: %v", err)
			nc.Close()
			continue
		}
		return newConn(nc), nil
	}
}

// OtherEndConnected tracks, for DiscardingSender, whether a client is
// currently attached. A run-loop flips this when Accept/Close fire.
type OtherEndConnected struct {
	connected atomic.Bool
}

func (o *OtherEndConnected) Set(v bool) { o.connected.Store(v) }
func (o *OtherEndConnected) Get() bool  { return o.connected.Load() }
