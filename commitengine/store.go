// Package commitengine implements the server-side surface commit engine
// (spec.md §4.G): it tracks the subsurface tree a real Wayland compositor
// backend observes and decides, on each surface commit, what (if anything)
// to forward to the client and in what order.
//
// Grounded directly on original_source/src/server/smithay_handlers.rs's
// commit/commit_impl/commit_sync_children trio: when a surface commits, any
// pending change of its sync subsurfaces is shipped first (so the client
// already has the children when the parent frame arrives), a surface with
// no buffer change is skipped unless something else about it changed or
// (for a surface that is not itself a sync subsurface) one of its
// descendants shipped, and a buffer always ships unconditionally when
// attached or removed. A sync subsurface's own commit that changes
// something ships right away; it is not held back until an ancestor
// commits.
package commitengine

import (
	"sort"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

// Commit is one record of what an actual Wayland surface commit carried:
// its new pending state (everything except the buffer bytes) and,
// optionally, a raw BGRA frame when a new buffer was attached. A nil Buffer
// on State paired with a nil Bgra means no buffer change this commit; a
// non-nil Buffer with Data.Kind == BufferRemoved means the buffer was
// detached.
type Commit struct {
	State protocol.SurfaceState
	Bgra  []byte
}

type record struct {
	pending      protocol.SurfaceState
	pendingBgra  []byte
	lastSent     protocol.SurfaceState
	everSent     bool
	storedBuffer *protocol.BufferAssignment // authoritative buffer, survives across commits that don't touch it
}

// Store holds every surface the server currently tracks, keyed by id, plus
// enough of the subsurface tree (via each record's Role) to find a
// surface's direct sync children without a separate parent index.
type Store struct {
	records    map[ids.WlSurfaceId]*record
	pipeline   Pipeline
	shardCount int
}

// Pipeline is the buffer-compression step the commit engine delegates to
// (server.Pipeline satisfies this; kept as a narrow interface here so
// commitengine doesn't import the server package).
type Pipeline interface {
	Compress(bgra []byte, shardCount int) (protocol.BufferData, error)
}

// NewStore returns an empty Store driven by pipeline for buffer
// compression, sharding each compressed buffer into shardCount shards.
func NewStore(pipeline Pipeline, shardCount int) *Store {
	return &Store{
		records:    make(map[ids.WlSurfaceId]*record),
		pipeline:   pipeline,
		shardCount: shardCount,
	}
}

func (s *Store) getOrCreate(id ids.WlSurfaceId) *record {
	rec, ok := s.records[id]
	if !ok {
		rec = &record{}
		s.records[id] = rec
	}
	return rec
}

// directSyncChildren returns the ids of every currently tracked surface
// whose stored Role is a sync SubSurfaceRole of parent, in a stable
// (sorted) order so output is deterministic.
func (s *Store) directSyncChildren(parent ids.WlSurfaceId) []ids.WlSurfaceId {
	var out []ids.WlSurfaceId
	for id, rec := range s.records {
		sub, ok := rec.pending.Role.(protocol.SubSurfaceRole)
		if ok && sub.Sync && sub.Parent == parent {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Commit applies one real surface commit and returns every outbound
// message it and its shipped sync descendants produce, in the order
// spec.md §4.G requires: descendants first, this surface last.
func (s *Store) Commit(c Commit) ([]OutboundMessage, error) {
	rec := s.getOrCreate(c.State.Surface)
	rec.pending = c.State
	rec.pendingBgra = c.Bgra

	msgs, _, err := s.commitChain(c.State.Surface)
	return msgs, err
}

func (s *Store) commitChain(id ids.WlSurfaceId) ([]OutboundMessage, bool, error) {
	childMsgs, childrenDirty, err := s.shipSyncChildren(id)
	if err != nil {
		return nil, false, err
	}
	ownMsgs, dirty, err := s.commitOne(id, childrenDirty)
	if err != nil {
		return nil, false, err
	}
	return append(childMsgs, ownMsgs...), dirty || childrenDirty, nil
}

func (s *Store) shipSyncChildren(parent ids.WlSurfaceId) ([]OutboundMessage, bool, error) {
	var msgs []OutboundMessage
	anyDirty := false
	for _, child := range s.directSyncChildren(parent) {
		grandMsgs, grandDirty, err := s.shipSyncChildren(child)
		if err != nil {
			return nil, false, err
		}
		ownMsgs, dirty, err := s.commitOne(child, grandDirty)
		if err != nil {
			return nil, false, err
		}
		msgs = append(msgs, grandMsgs...)
		msgs = append(msgs, ownMsgs...)
		anyDirty = anyDirty || dirty || grandDirty
	}
	return msgs, anyDirty, nil
}

// Prime records state as the most recently sent state for its surface
// without producing any outbound message, for a surface whose first commit
// already went out through a different path (server.Core.InitialMessages
// ships the initial snapshot directly). Without this, the next real Commit
// for that surface would compare against a zero-value record and ship a
// spurious duplicate.
func (s *Store) Prime(state protocol.SurfaceState) {
	rec := s.getOrCreate(state.Surface)
	rec.pending = state
	toSent := state.Clone()
	toSent.Children = withSelfSentinel(toSent.Children, state.Surface)
	toSent.Buffer = nil
	rec.lastSent = toSent
	rec.everSent = true
	rec.storedBuffer = state.Buffer
}

// CursorObservation is what a backend reports when the pointer cursor image
// changes (spec.md §4.G): Status mirrors the CursorImage request's own
// Hidden/Named/Surface union, and for a Surface status the backend has
// already resolved Hotspot from the compositor's cursor-surface user data —
// that resolution happens inside the real compositor binding, an external
// collaborator spec.md §1 excludes, so only the already-resolved point
// crosses into this package.
type CursorObservation struct {
	Serial  protocol.Serial
	Status  protocol.CursorImageStatus
	Hotspot protocol.Point
}

// ResolveCursor applies a CursorObservation: when Status names a client
// surface, it records that surface's Role as Cursor(hotspot) so a later
// commit to it carries the role, then returns the CursorImage request to
// send. The surface itself does not need to have committed yet; the role
// is applied to whatever record already exists (or is created) for it.
func (s *Store) ResolveCursor(obs CursorObservation) OutboundMessage {
	if surf, ok := obs.Status.(protocol.CursorImageSurface); ok {
		rec := s.getOrCreate(surf.ClientSurface)
		rec.pending.Role = protocol.CursorRole{Hotspot: obs.Hotspot}
	}
	return RequestMessage{Request: protocol.CursorImage{Serial: obs.Serial, Status: obs.Status}}
}

// ResolveDecoration merges a newly observed decoration mode into id's
// currently tracked one, translating `xdg_decoration` and the KDE
// server-decoration legacy into the shared DecorationMode (spec.md §4.G)
// while keeping the requester-provenance rule from original_source's
// decoration.rs: an explicit client request sticks across subsequent
// compositor-default reports, so the compositor's own default never flaps a
// toplevel back out of the mode the client asked for. It only reads the
// store, leaving the caller to fold the resolved state into the
// SurfaceState it passes to Commit — ResolveDecoration itself never writes
// to the record, since Commit always overwrites rec.pending wholesale and
// a write here would just be clobbered.
func (s *Store) ResolveDecoration(id ids.WlSurfaceId, mode protocol.DecorationMode, source protocol.DecorationSource) (protocol.DecorationState, bool) {
	var current *protocol.DecorationState
	if rec, ok := s.records[id]; ok {
		if top, ok := rec.pending.Role.(protocol.XdgToplevelRole); ok {
			current = top.State.Decoration
		}
	}

	resolved := protocol.DecorationState{Mode: mode, Source: source}
	if current != nil && current.Source == protocol.DecorationSourceClientRequested && source == protocol.DecorationSourceCompositorDefault {
		resolved = *current
	}
	changed := current == nil || *current != resolved
	return resolved, changed
}

// Destroy removes id and every descendant still tracked under it (spec.md
// §9: surface destruction cascades rather than leaving orphans in a cyclic
// or partially-torn-down tree), returning a SurfaceDestroyed request for
// every surface actually removed, deepest first.
func (s *Store) Destroy(id ids.WlSurfaceId) []protocol.Request {
	var ordered []ids.WlSurfaceId
	var walk func(ids.WlSurfaceId)
	walk = func(cur ids.WlSurfaceId) {
		for _, child := range s.directChildren(cur) {
			walk(child)
		}
		ordered = append(ordered, cur)
	}
	walk(id)

	reqs := make([]protocol.Request, 0, len(ordered))
	for _, sid := range ordered {
		rec, ok := s.records[sid]
		if !ok {
			continue
		}
		reqs = append(reqs, protocol.SurfaceRequest{
			Client:  rec.pending.Client,
			Surface: sid,
			Payload: protocol.SurfaceDestroyed{},
		})
		delete(s.records, sid)
	}
	return reqs
}

// directChildren returns every currently tracked surface whose Role names
// cur as parent, sync or not (used by Destroy's cascade, unlike
// directSyncChildren which the commit-ordering algorithm restricts to sync
// children only).
func (s *Store) directChildren(cur ids.WlSurfaceId) []ids.WlSurfaceId {
	var out []ids.WlSurfaceId
	for id, rec := range s.records {
		if sub, ok := rec.pending.Role.(protocol.SubSurfaceRole); ok && sub.Parent == cur {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
