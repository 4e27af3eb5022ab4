package client

import (
	"bytes"

	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/shard"
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

// Core dispatches the server's Request stream to an Applier, resolving the
// externalized-buffer rule (spec.md §4.F) along the way: a SurfaceCommit
// whose Buffer.Data.Kind is BufferExternal is preceded on the wire by a
// RawBuffer frame carrying an encoded shard.Set, which Core decodes and
// decompresses back into BGRA before calling OnSurfaceCommit.
type Core struct {
	applier      Applier
	decompressor *Decompressor

	pendingRaw  []byte
	havePending bool
}

// NewCore returns a Core dispatching to applier, using decompressor to
// resolve externalized buffers.
func NewCore(applier Applier, decompressor *Decompressor) *Core {
	return &Core{applier: applier, decompressor: decompressor}
}

// HandleRawBuffer stashes buf, the payload of a RawBuffer frame, for the
// Request that is expected to follow immediately.
func (c *Core) HandleRawBuffer(buf []byte) {
	c.pendingRaw = buf
	c.havePending = true
}

// HandleRequest dispatches req, resolving any RawBuffer HandleRawBuffer
// most recently stashed into decoded BGRA bytes if req is a SurfaceCommit
// referencing one.
func (c *Core) HandleRequest(req protocol.Request) error {
	raw := c.pendingRaw
	hadPending := c.havePending
	c.pendingRaw = nil
	c.havePending = false

	switch r := req.(type) {
	case protocol.Capabilities:
		return c.applier.OnCapabilities(r)

	case protocol.SurfaceRequest:
		switch payload := r.Payload.(type) {
		case protocol.SurfaceCommit:
			bgra, err := c.resolveBuffer(payload.State, raw, hadPending)
			if err != nil {
				return err
			}
			return c.applier.OnSurfaceCommit(payload.State, bgra)
		case protocol.SurfaceDestroyed:
			return c.applier.OnSurfaceDestroyed(r.Client, r.Surface)
		default:
			return wprserr.Wrap(wprserr.BadData, "client: unrecognized surface request payload %T", payload)
		}

	case protocol.CursorImage:
		return c.applier.OnCursorImage(r)
	case protocol.ToplevelRequest:
		return c.applier.OnToplevelRequest(r)
	case protocol.PopupRequest:
		return c.applier.OnPopupRequest(r)
	case protocol.DataRequest:
		return c.applier.OnDataRequest(r)
	case protocol.ClientDisconnected:
		return c.applier.OnClientDisconnected(r.Client)
	default:
		return wprserr.Wrap(wprserr.BadData, "client: unrecognized request type %T", req)
	}
}

// resolveBuffer returns the BGRA bytes a committed buffer carries, or nil
// if the commit has no buffer or removed one.
func (c *Core) resolveBuffer(state protocol.SurfaceState, raw []byte, hadPending bool) ([]byte, error) {
	if state.Buffer == nil {
		return nil, nil
	}
	switch state.Buffer.Data.Kind {
	case protocol.BufferRemoved:
		return nil, nil
	case protocol.BufferExternal:
		if !hadPending {
			return nil, wprserr.Wrap(wprserr.BadData, "client: commit references an external buffer but no RawBuffer frame preceded it")
		}
		set, err := shard.Decode(wire.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return nil, err
		}
		return c.decompressor.Decompress(set)
	case protocol.BufferCompressed:
		// A commit should never reach the client still tagged Compressed;
		// the server always externalizes before sending (spec.md §4.F).
		return nil, wprserr.Wrap(wprserr.BadData, "client: commit carries an inline Compressed buffer, expected External")
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "client: unrecognized buffer data kind %v", state.Buffer.Data.Kind)
	}
}
