package server

import (
	"context"
	"log"
	"time"

	"github.com/wprsproj/wprs/backend"
	"github.com/wprsproj/wprs/commitengine"
	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/transport"
)

// Serve accepts and serves clients one at a time for as long as ctx is
// live (spec.md §4.D: one stream socket, one client). Each client is run to
// completion (its Conn closed, by either side, or ctx canceled) before the
// next Accept, matching the "single-seat" invariant transport.Server's doc
// comment describes.
func Serve(ctx context.Context, core Core, srv *transport.Server, pb backend.PollingBackend, pipeline *Pipeline, shardCount int) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := srv.Accept()
		if err != nil {
			return err
		}
		connected := &transport.OtherEndConnected{}
		if err := serveOneClient(ctx, core, conn, pb, pipeline, shardCount, connected); err != nil {
			log.Printf("server: client session ended: %v", err)
		}
		conn.Close()
	}
}

// serveOneClient registers the transport's event reader and a periodic
// tick as the two event sources of a single cooperative loop (spec.md
// §4.F's run loop): on WprsClientConnect it sends the initial snapshot, on
// any other Event it is forwarded to pb.HandleClientEvent, and each tick
// (skipped while no client has announced itself connected) polls the
// backend and ships the observations through the externalize-on-send
// pipeline.
func serveOneClient(ctx context.Context, core Core, conn *transport.Conn, pb backend.PollingBackend, pipeline *Pipeline, shardCount int, connected *transport.OtherEndConnected) error {
	interval := tickIntervalOf(pb)

	// One commitengine.Store per client session (spec.md §4.G): it owns the
	// sync-children-first commit ordering and per-surface dirty tracking
	// that a flat per-tick translation can't express, across the whole
	// lifetime of this connection.
	store := commitengine.NewStore(pipeline, shardCount)

	type eventOrErr struct {
		ev  protocol.Event
		err error
	}
	events := make(chan eventOrErr, 16)
	go func() {
		defer close(events)
		for {
			kind, ev, buf, err := conn.ReadEventFrame()
			if err != nil {
				events <- eventOrErr{err: err}
				return
			}
			switch kind {
			case transport.FrameRawBuffer:
				log.Printf("server: discarding unexpected %d-byte RawBuffer frame from client", len(buf))
				continue
			default:
				events <- eventOrErr{ev: ev}
			}
		}
	}()

	ticker := time.NewTicker(nonZeroDuration(interval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item, ok := <-events:
			if !ok {
				return nil
			}
			if item.err != nil {
				return item.err
			}
			if _, isConnect := item.ev.(protocol.WprsClientConnect); isConnect {
				connected.Set(true)
				caps := core.EffectiveCapabilities(pb.Capabilities())
				if err := sendInitialSnapshot(core, conn, pb, caps, store); err != nil {
					return err
				}
				continue
			}
			if err := pb.HandleClientEvent(item.ev); err != nil {
				return err
			}
		case <-ticker.C:
			if !connected.Get() {
				continue
			}
			obs, err := pb.Poll()
			if err != nil {
				return err
			}
			msgs, err := commitObservations(store, obs)
			if err != nil {
				return err
			}
			if err := sendMessages(conn, msgs); err != nil {
				return err
			}
		}
	}
}

func sendInitialSnapshot(core Core, conn *transport.Conn, pb backend.PollingBackend, caps protocol.Capabilities, store *commitengine.Store) error {
	snaps, err := pb.InitialSnapshot()
	if err != nil {
		return err
	}
	msgs, err := core.InitialMessages(caps, snaps)
	if err != nil {
		return err
	}
	// The initial snapshot ships each surface's state directly rather than
	// through store.Commit, so the store has to be primed after the fact:
	// otherwise its first real Commit for these surfaces would see a
	// zero-value record and re-ship a spurious duplicate.
	for _, snap := range snaps {
		store.Prime(snap.State)
	}
	return sendMessages(conn, msgs)
}

// commitObservations drives one tick's backend observations through store,
// resolving any cursor/decoration observation first and folding a resolved
// decoration into the surface's Role before committing it (spec.md §4.G),
// then running the surface commit itself through the store's sync-aware
// commit-ordering algorithm rather than shipping it unconditionally.
func commitObservations(store *commitengine.Store, obs []backend.BackendObservation) ([]OutboundMessage, error) {
	var msgs []OutboundMessage
	for _, o := range obs {
		if o.Cursor != nil {
			msgs = append(msgs, asOutboundMessage(store.ResolveCursor(commitengine.CursorObservation{
				Serial:  o.Cursor.Serial,
				Status:  o.Cursor.Status,
				Hotspot: o.Cursor.Hotspot,
			})))
		}

		state := o.SurfaceCommit.State
		if o.Decoration != nil && o.Decoration.Surface == state.Surface {
			resolved, _ := store.ResolveDecoration(o.Decoration.Surface, o.Decoration.Mode, o.Decoration.Source)
			if top, ok := state.Role.(protocol.XdgToplevelRole); ok {
				top.State.Decoration = &resolved
				state.Role = top
			}
		}

		commitMsgs, err := store.Commit(commitengine.Commit{State: state, Bgra: o.SurfaceCommit.Bgra})
		if err != nil {
			return nil, err
		}
		for _, m := range commitMsgs {
			msgs = append(msgs, asOutboundMessage(m))
		}
	}
	return msgs, nil
}

// asOutboundMessage converts a commitengine.OutboundMessage to the
// server package's own OutboundMessage (the same two-variant shape, kept
// separately in each package to avoid an import cycle — see
// commitengine's package doc).
func asOutboundMessage(m commitengine.OutboundMessage) OutboundMessage {
	switch v := m.(type) {
	case commitengine.RequestMessage:
		return RequestMessage{Request: v.Request}
	case commitengine.RawBufferMessage:
		return RawBufferMessage{Bytes: v.Bytes}
	default:
		panic("server: unrecognized commitengine.OutboundMessage variant")
	}
}

func sendMessages(conn *transport.Conn, msgs []OutboundMessage) error {
	for _, m := range msgs {
		switch v := m.(type) {
		case RequestMessage:
			if err := conn.SendRequest(v.Request); err != nil {
				return err
			}
		case RawBufferMessage:
			if err := conn.SendRawBuffer(v.Bytes); err != nil {
				return err
			}
		}
	}
	return nil
}

func tickIntervalOf(pb backend.PollingBackend) time.Duration {
	if ticker, ok := pb.(interface{ TickInterval() time.Duration }); ok {
		return ticker.TickInterval()
	}
	return time.Second / 30
}

func nonZeroDuration(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second / 30
	}
	return d
}
