package transport

import (
	"bufio"
	"net"
	"sync"

	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

// writeJob is one pending frame: encode writes it to w, and the result is
// delivered on done. A single writer goroutine drains these sequentially so
// concurrent Send callers never interleave partial frames on the wire.
type writeJob struct {
	encode func(w *wire.Writer) error
	done   chan error
}

// Conn is one framed connection. It owns a single writer goroutine (spec.md
// §4.D: "reader and writer worker threads") that serializes concurrent
// sends; reads are driven by the caller via RecvRequest/RecvEvent or
// ReadFrame/ReadEventFrame, which
// block the calling goroutine directly rather than spawning their own (the
// caller's run-loop goroutine *is* the reader worker).
type Conn struct {
	conn net.Conn
	w    *wire.Writer
	r    *wire.Reader

	outbound chan writeJob

	closeOnce sync.Once
	closed    chan struct{}
}

func newConn(nc net.Conn) *Conn {
	c := &Conn{
		conn:     nc,
		w:        wire.NewWriter(bufio.NewWriter(nc)),
		r:        wire.NewReader(bufio.NewReader(nc)),
		outbound: make(chan writeJob, 64),
		closed:   make(chan struct{}),
	}
	go c.runWriter()
	return c
}

func (c *Conn) runWriter() {
	for {
		select {
		case job := <-c.outbound:
			err := job.encode(c.w)
			if err == nil {
				err = c.w.Flush()
			}
			job.done <- err
		case <-c.closed:
			return
		}
	}
}

func (c *Conn) send(encode func(w *wire.Writer) error) error {
	done := make(chan error, 1)
	select {
	case c.outbound <- writeJob{encode: encode, done: done}:
	case <-c.closed:
		return wprserr.Wrap(wprserr.Unavailable, "transport: send on closed connection")
	}
	select {
	case err := <-done:
		return err
	case <-c.closed:
		return wprserr.Wrap(wprserr.Unavailable, "transport: connection closed while sending")
	}
}

// FrameKind tags every frame on the wire so a reader that doesn't know in
// advance what's coming next (the server interleaves RawBuffer frames
// ahead of External commits on the same stream as Requests, spec.md §3)
// can tell them apart.
type FrameKind uint8

const (
	FrameRequest FrameKind = iota
	FrameEvent
	FrameRawBuffer
)

// SendRequest sends one Request frame (server -> client direction).
func (c *Conn) SendRequest(req protocol.Request) error {
	return c.send(func(w *wire.Writer) error {
		if err := w.WriteU8(uint8(FrameRequest)); err != nil {
			return err
		}
		return protocol.EncodeRequest(w, req)
	})
}

// SendEvent sends one Event frame (client -> server direction).
func (c *Conn) SendEvent(ev protocol.Event) error {
	return c.send(func(w *wire.Writer) error {
		if err := w.WriteU8(uint8(FrameEvent)); err != nil {
			return err
		}
		return protocol.EncodeEvent(w, ev)
	})
}

// SendRawBuffer sends a length-prefixed blob of pixel bytes preceding an
// External buffer assignment (spec.md §3): the commit references the bytes
// positionally rather than inline, so the wire carries them as a bare frame
// instead of a tagged message.
func (c *Conn) SendRawBuffer(b []byte) error {
	return c.send(func(w *wire.Writer) error {
		if err := w.WriteU8(uint8(FrameRawBuffer)); err != nil {
			return err
		}
		return w.WriteBytes(b)
	})
}

// RecvRequest blocks until the next frame arrives and errors if it isn't a
// Request, including when it is a RawBuffer frame. The client's reader
// worker uses ReadFrame instead, since RawBuffer frames precede External
// commits on its stream.
func (c *Conn) RecvRequest() (protocol.Request, error) {
	kind, err := c.r.U8()
	if err != nil {
		return nil, err
	}
	if FrameKind(kind) != FrameRequest {
		return nil, wprserr.Wrap(wprserr.BadData, "transport: expected request frame, got kind %d", kind)
	}
	return protocol.DecodeRequest(c.r)
}

// RecvEvent blocks until the next frame arrives and errors if it isn't an
// Event. The server's reader worker uses ReadEventFrame instead, which
// tolerates a stray RawBuffer frame.
func (c *Conn) RecvEvent() (protocol.Event, error) {
	kind, err := c.r.U8()
	if err != nil {
		return protocol.Event(nil), err
	}
	if FrameKind(kind) != FrameEvent {
		return protocol.Event(nil), wprserr.Wrap(wprserr.BadData, "transport: expected event frame, got kind %d", kind)
	}
	return protocol.DecodeEvent(c.r)
}

// ReadFrame reads whatever frame comes next without assuming its kind, for
// the client's reader worker, which must distinguish a RawBuffer preceding
// an External commit from the Request that follows it.
func (c *Conn) ReadFrame() (kind FrameKind, req protocol.Request, buf []byte, err error) {
	tag, err := c.r.U8()
	if err != nil {
		return 0, nil, nil, err
	}
	switch FrameKind(tag) {
	case FrameRequest:
		req, err = protocol.DecodeRequest(c.r)
		return FrameRequest, req, nil, err
	case FrameRawBuffer:
		buf, err = c.r.Bytes()
		return FrameRawBuffer, nil, buf, err
	default:
		return 0, nil, nil, wprserr.Wrap(wprserr.BadData, "transport: unexpected frame kind %d", tag)
	}
}

// ReadEventFrame is ReadFrame's mirror on the client->server direction: a
// well-behaved client only ever sends Events, but the server's reader
// worker must not choke if one sends a bare RawBuffer instead (spec.md §4.F:
// such a frame is logged and discarded, not treated as a protocol error).
func (c *Conn) ReadEventFrame() (kind FrameKind, ev protocol.Event, buf []byte, err error) {
	tag, err := c.r.U8()
	if err != nil {
		return 0, nil, nil, err
	}
	switch FrameKind(tag) {
	case FrameEvent:
		ev, err = protocol.DecodeEvent(c.r)
		return FrameEvent, ev, nil, err
	case FrameRawBuffer:
		buf, err = c.r.Bytes()
		return FrameRawBuffer, nil, buf, err
	default:
		return 0, nil, nil, wprserr.Wrap(wprserr.BadData, "transport: unexpected frame kind %d", tag)
	}
}

// Close shuts down both halves of the socket (spec.md §4.D: SHUT_RDWR on
// teardown, not just closing our file descriptor, so a blocked peer read
// unblocks immediately) and stops the writer goroutine.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		shutdownBothHalves(c.conn)
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

func dial(ep Endpoint) (*Conn, error) {
	nc, err := net.Dial(ep.Network, ep.Address)
	if err != nil {
		return nil, wprserr.Wrap(wprserr.Io, "transport: dial %s", ep)
	}
	if err := tuneConn(nc); err != nil {
		nc.Close()
		return nil, wprserr.Wrap(wprserr.Io, "transport: tuning socket for %s", ep)
	}
	if err := performHandshake(nc); err != nil {
		nc.Close()
		return nil, err
	}
	return newConn(nc), nil
}
