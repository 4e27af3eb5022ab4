// Package server implements the server-side protocol core (spec.md §4.F):
// translating a backend's snapshots and per-tick observations into the
// Request sequence a client expects, and routing client Events back to the
// backend. It owns no socket of its own — the transport adapter (package
// transport, wired up in cmd/wprsd) drives Core from its run loop.
//
// Grounded on original_source/src/server/runtime/backend.rs's ServerBackend
// trait and its split between a dispatching core and the mock backend's
// plain Rust match, translated to Go's interface-and-type-switch idiom the
// way distri/pb's command dispatch (cmd/distri/export.go) switches on a
// parsed flag.FlagSet subcommand.
package server

import (
	"github.com/wprsproj/wprs/backend"
	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/wprserr"
)

// OutboundMessage is one frame Core wants written to the client: either a
// protocol.Request or a bare RawBuffer payload that must precede the
// Request referencing it externally (spec.md §4.F's externalize-on-send
// rule).
type OutboundMessage interface{ isOutboundMessage() }

type RequestMessage struct{ Request protocol.Request }
type RawBufferMessage struct{ Bytes []byte }

func (RequestMessage) isOutboundMessage()   {}
func (RawBufferMessage) isOutboundMessage() {}

// Core is the protocol-level server state that doesn't depend on any
// particular transport or backend implementation.
type Core struct {
	// XwaylandEnabled is whether this server binary was built/configured
	// with Xwayland surface support at all. The capability actually
	// advertised to a client is also gated on the backend's own report,
	// so a backend that can't surface Xwayland windows never has to know
	// about this flag.
	XwaylandEnabled bool
}

// EffectiveCapabilities reports what to actually advertise to a client: the
// backend's capabilities, narrowed by anything this server binary doesn't
// support regardless of backend.
func (c Core) EffectiveCapabilities(backendCaps protocol.Capabilities) protocol.Capabilities {
	return protocol.Capabilities{Xwayland: c.XwaylandEnabled && backendCaps.Xwayland}
}

// InitialMessages builds the message sequence sent the moment a client
// connects (spec.md §8 scenarios 1-3): one Capabilities request carrying
// caps as given (the run loop passes EffectiveCapabilities: the backend's
// own Capabilities() narrowed by c.XwaylandEnabled), then for each
// snapshot surface, a RawBuffer/Commit pair if its
// buffer arrived pre-compressed, or a bare Commit otherwise.
func (c Core) InitialMessages(caps protocol.Capabilities, surfaces []backend.SurfaceSnapshot) ([]OutboundMessage, error) {
	msgs := make([]OutboundMessage, 0, 1+2*len(surfaces))
	msgs = append(msgs, RequestMessage{Request: caps})
	for _, snap := range surfaces {
		out, raw, err := externalize(snap.State)
		if err != nil {
			return nil, err
		}
		if raw != nil {
			msgs = append(msgs, RawBufferMessage{Bytes: raw})
		}
		msgs = append(msgs, RequestMessage{Request: protocol.SurfaceRequest{
			Client:  out.Client,
			Surface: out.Surface,
			Payload: protocol.SurfaceCommit{State: out},
		}})
	}
	return msgs, nil
}

// ApplyObservations turns one tick's backend observations into outbound
// messages, running the pixel filter and shard compressor over any raw BGRA
// frame before externalizing it (spec.md §4.F/§4.B/§4.C chained together).
func (c Core) ApplyObservations(pipeline *Pipeline, shardCount int, obs []backend.BackendObservation) ([]OutboundMessage, error) {
	msgs := make([]OutboundMessage, 0, 2*len(obs))
	for _, o := range obs {
		state := o.SurfaceCommit.State
		if o.SurfaceCommit.Bgra != nil {
			if state.Buffer == nil {
				return nil, wprserr.Wrap(wprserr.BadData, "server: observation carries Bgra but no buffer metadata")
			}
			if len(o.SurfaceCommit.Bgra) != state.Buffer.Metadata.Len() {
				return nil, wprserr.Wrap(wprserr.BadData, "server: Bgra length %d does not match metadata length %d",
					len(o.SurfaceCommit.Bgra), state.Buffer.Metadata.Len())
			}
			data, err := pipeline.Compress(o.SurfaceCommit.Bgra, shardCount)
			if err != nil {
				return nil, err
			}
			state = state.Clone()
			state.Buffer.Data = data
		}
		out, raw, err := externalize(state)
		if err != nil {
			return nil, err
		}
		if raw != nil {
			msgs = append(msgs, RawBufferMessage{Bytes: raw})
		}
		msgs = append(msgs, RequestMessage{Request: protocol.SurfaceRequest{
			Client:  out.Client,
			Surface: out.Surface,
			Payload: protocol.SurfaceCommit{State: out},
		}})
	}
	return msgs, nil
}

// HandleEvent routes ev to the matching Backend method. WprsClientConnect
// is explicitly rejected: the transport adapter, not the backend, owns
// reacting to a new connection by sending the initial snapshot (spec.md
// §4.F; spec.md §8 scenario 4).
func (c Core) HandleEvent(b backend.Backend, ev protocol.Event) error {
	switch e := ev.(type) {
	case protocol.WprsClientConnect:
		return wprserr.Wrap(wprserr.BadData, "server: WprsClientConnect must be handled by the transport adapter, not dispatched to the backend")
	case protocol.OutputEvent:
		return b.OnOutputEvent(e)
	case protocol.PointerFrame:
		return b.OnPointerFrame(e)
	case protocol.KeyboardEvent:
		return b.OnKeyboardEvent(e)
	case protocol.ToplevelEvent:
		return b.OnToplevelEvent(e)
	case protocol.PopupEvent:
		return b.OnPopupEvent(e)
	case protocol.DataEvent:
		return b.OnDataEvent(e)
	case protocol.SurfaceEvent:
		return b.OnSurfaceEvent(e)
	default:
		return wprserr.Wrap(wprserr.BadData, "server: unrecognized event type %T", ev)
	}
}
