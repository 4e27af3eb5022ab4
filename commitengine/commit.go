package commitengine

import (
	"bytes"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

// OutboundMessage mirrors server.OutboundMessage (a Request, or a RawBuffer
// that must precede the Request externalizing it); kept as its own type so
// this package doesn't import server and create a cycle.
type OutboundMessage interface{ isOutboundMessage() }

type RequestMessage struct{ Request protocol.Request }
type RawBufferMessage struct{ Bytes []byte }

func (RequestMessage) isOutboundMessage()   {}
func (RawBufferMessage) isOutboundMessage() {}

// commitOne implements spec.md §4.G's per-surface steps 3-5 for the single
// surface id, using its most recently stored pending state, given whether
// any of its sync descendants were just shipped (childrenDirty).
func (s *Store) commitOne(id ids.WlSurfaceId, childrenDirty bool) ([]OutboundMessage, bool, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, false, nil
	}

	pending := rec.pending.Clone()
	pending.Children = withSelfSentinel(pending.Children, id)

	sub, isSync := pending.Role.(protocol.SubSurfaceRole)
	isSync = isSync && sub.Sync

	toSend := pending.Clone()
	toSend.Buffer = nil

	switch {
	case rec.pendingBgra != nil:
		// NewBuffer: always ships, regardless of the dirty test.
		if pending.Buffer == nil {
			return nil, false, wprserr.Wrap(wprserr.BadData, "commitengine: commit carries a BGRA frame but no buffer metadata")
		}
		if len(rec.pendingBgra) != pending.Buffer.Metadata.Len() {
			return nil, false, wprserr.Wrap(wprserr.BadData, "commitengine: Bgra length %d does not match metadata length %d",
				len(rec.pendingBgra), pending.Buffer.Metadata.Len())
		}
		data, err := s.pipeline.Compress(rec.pendingBgra, s.shardCount)
		if err != nil {
			return nil, false, err
		}
		stored := *pending.Buffer
		stored.Data = data
		rec.storedBuffer = &stored
		toSend.Buffer = &stored
		rec.pendingBgra = nil

	case pending.Buffer != nil && pending.Buffer.Data.Kind == protocol.BufferRemoved:
		// Removed: always ships.
		rec.storedBuffer = nil
		toSend.Buffer = &protocol.BufferAssignment{
			Metadata: pending.Buffer.Metadata,
			Data:     protocol.BufferData{Kind: protocol.BufferRemoved},
		}

	default:
		// No buffer change this commit: only ship if something else
		// changed, and never ship a sync subsurface on account of a dirty
		// descendant alone (the next non-sync ancestor's commit covers it).
		unchanged := rec.everSent && toSend.EqualIgnoringBuffer(rec.lastSent)
		if unchanged && !childrenDirty {
			return nil, false, nil
		}
		if childrenDirty && isSync {
			return nil, false, nil
		}
		toSend.Buffer = rec.storedBuffer
	}

	out, raw, err := externalize(toSend)
	if err != nil {
		return nil, false, err
	}

	var msgs []OutboundMessage
	if raw != nil {
		msgs = append(msgs, RawBufferMessage{Bytes: raw})
	}
	msgs = append(msgs, RequestMessage{Request: protocol.SurfaceRequest{
		Client:  out.Client,
		Surface: out.Surface,
		Payload: protocol.SurfaceCommit{State: out},
	}})

	rec.lastSent = toSend
	rec.everSent = true
	return msgs, true, nil
}

// withSelfSentinel ensures children always includes an entry for the
// surface's own id at position (0,0) (spec.md §3), without duplicating one
// a caller already supplied.
func withSelfSentinel(children []protocol.SubsurfacePosition, self ids.WlSurfaceId) []protocol.SubsurfacePosition {
	for _, c := range children {
		if c.Id == self {
			return children
		}
	}
	return append(append([]protocol.SubsurfacePosition(nil), children...), protocol.SubsurfacePosition{Id: self})
}

// externalize is commitengine's copy of server's buffer-externalization
// rule (spec.md §4.F): a Compressed BufferData never travels inline in a
// Request, it's shipped as a preceding RawBuffer and the commit references
// it positionally instead.
func externalize(state protocol.SurfaceState) (protocol.SurfaceState, []byte, error) {
	if state.Buffer == nil || state.Buffer.Data.Kind != protocol.BufferCompressed {
		return state, nil, nil
	}
	out := state.Clone()
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := out.Buffer.Data.Compressed.Encode(w); err != nil {
		return protocol.SurfaceState{}, nil, err
	}
	if err := w.Flush(); err != nil {
		return protocol.SurfaceState{}, nil, err
	}
	out.Buffer.Data = protocol.BufferData{Kind: protocol.BufferExternal}
	return out, buf.Bytes(), nil
}
