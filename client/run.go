package client

import (
	"context"
	"log"

	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/transport"
)

// Run drives cl's reader loop until ctx is canceled or the connection dies.
// It announces the client as connected (spec.md §8 scenario 4), then reads
// frames with Conn.ReadFrame, stashing RawBuffer payloads and dispatching
// every Request through core. An unrecoverable read error calls cl.Fatal
// (spec.md §4.D: a client with a dead link has no failover path).
func Run(ctx context.Context, cl *transport.Client, core *Core) error {
	if err := cl.Conn().SendEvent(protocol.WprsClientConnect{}); err != nil {
		return err
	}

	type frame struct {
		kind transport.FrameKind
		req  protocol.Request
		buf  []byte
		err  error
	}
	frames := make(chan frame, 16)
	go func() {
		defer close(frames)
		for {
			kind, req, buf, err := cl.Conn().ReadFrame()
			frames <- frame{kind: kind, req: req, buf: buf, err: err}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			if f.err != nil {
				cl.Fatal("client: connection lost: %v", f.err)
				return f.err
			}
			switch f.kind {
			case transport.FrameRawBuffer:
				core.HandleRawBuffer(f.buf)
			case transport.FrameRequest:
				if err := core.HandleRequest(f.req); err != nil {
					log.Printf("client: dropping request: %v", err)
				}
			}
		}
	}
}
