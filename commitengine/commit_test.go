package commitengine

import (
	"testing"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/shard"
)

// fakePipeline avoids running the real zstd-backed Pipeline in tests; it
// wraps the input bytes in a single uncompressed shard.
type fakePipeline struct{ calls int }

func (f *fakePipeline) Compress(bgra []byte, shardCount int) (protocol.BufferData, error) {
	f.calls++
	set := shard.Set{
		UncompressedSize: len(bgra),
		Shards:           []shard.Shard{{Idx: 0, UncompressedSize: len(bgra), Compressed: false, Bytes: append([]byte(nil), bgra...)}},
	}
	return protocol.BufferData{Kind: protocol.BufferCompressed, Compressed: &set}, nil
}

func toplevel(client ids.ClientId, surface ids.WlSurfaceId, title string) protocol.SurfaceState {
	t := title
	return protocol.SurfaceState{
		Client:  client,
		Surface: surface,
		Role:    protocol.XdgToplevelRole{Id: ids.XdgToplevelId(surface), State: protocol.ToplevelState{Title: &t}},
	}
}

func TestCommitFirstTimeAlwaysShips(t *testing.T) {
	fp := &fakePipeline{}
	store := NewStore(fp, 2)

	msgs, err := store.Commit(Commit{State: toplevel(1, 1, "a")})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len(msgs) = %d, want 1", len(msgs))
	}
	if _, ok := msgs[0].(RequestMessage); !ok {
		t.Fatalf("msgs[0] = %T, want RequestMessage", msgs[0])
	}
}

func TestCommitUnchangedSkipsAfterFirstSend(t *testing.T) {
	fp := &fakePipeline{}
	store := NewStore(fp, 2)

	state := toplevel(1, 1, "a")
	if _, err := store.Commit(Commit{State: state}); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	msgs, err := store.Commit(Commit{State: state})
	if err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("len(msgs) = %d, want 0 for an unchanged re-commit", len(msgs))
	}
}

func TestCommitChangedAttributeShipsAgain(t *testing.T) {
	fp := &fakePipeline{}
	store := NewStore(fp, 2)

	if _, err := store.Commit(Commit{State: toplevel(1, 1, "a")}); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	msgs, err := store.Commit(Commit{State: toplevel(1, 1, "b")})
	if err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len(msgs) = %d, want 1 for a changed title", len(msgs))
	}
}

func TestCommitWithBgraExternalizesAndAlwaysShips(t *testing.T) {
	fp := &fakePipeline{}
	store := NewStore(fp, 2)

	state := toplevel(1, 1, "a")
	state.Buffer = &protocol.BufferAssignment{
		Metadata: protocol.BufferMetadata{Width: 1, Height: 1, Stride: 4, Format: protocol.FormatArgb8888},
	}
	bgra := []byte{1, 2, 3, 4}

	msgs, err := store.Commit(Commit{State: state, Bgra: bgra})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2 (RawBuffer, Commit)", len(msgs))
	}
	if _, ok := msgs[0].(RawBufferMessage); !ok {
		t.Fatalf("msgs[0] = %T, want RawBufferMessage", msgs[0])
	}
	commit := msgs[1].(RequestMessage).Request.(protocol.SurfaceRequest).Payload.(protocol.SurfaceCommit)
	if commit.State.Buffer.Data.Kind != protocol.BufferExternal {
		t.Fatalf("buffer kind = %v, want BufferExternal", commit.State.Buffer.Data.Kind)
	}
	if fp.calls != 1 {
		t.Fatalf("pipeline.Compress calls = %d, want 1", fp.calls)
	}

	// Re-committing with the same buffer metadata but no new Bgra (no
	// change otherwise) should not ship again.
	msgs, err = store.Commit(Commit{State: state})
	if err != nil {
		t.Fatalf("re-commit: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("len(msgs) = %d, want 0 for an unchanged re-commit", len(msgs))
	}
}

func TestSyncSubsurfaceDefersToParentOnUnchangedRecommit(t *testing.T) {
	fp := &fakePipeline{}
	store := NewStore(fp, 2)

	parent := toplevel(1, 1, "parent")
	child := protocol.SurfaceState{
		Client:  1,
		Surface: 2,
		Role:    protocol.SubSurfaceRole{Parent: 1, Sync: true},
	}

	if _, err := store.Commit(Commit{State: parent}); err != nil {
		t.Fatalf("parent first commit: %v", err)
	}
	childMsgs, err := store.Commit(Commit{State: child})
	if err != nil {
		t.Fatalf("child first commit: %v", err)
	}
	if len(childMsgs) != 1 {
		t.Fatalf("child first commit: len(msgs) = %d, want 1", len(childMsgs))
	}

	// Parent re-commits unchanged; the child hasn't changed either, so
	// nothing should ship for either surface.
	msgs, err := store.Commit(Commit{State: parent})
	if err != nil {
		t.Fatalf("parent re-commit: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("len(msgs) = %d, want 0", len(msgs))
	}
}

func TestPrimeThenUnchangedCommitSkips(t *testing.T) {
	fp := &fakePipeline{}
	store := NewStore(fp, 2)

	state := toplevel(1, 1, "a")
	store.Prime(state)

	msgs, err := store.Commit(Commit{State: state})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("len(msgs) = %d, want 0 after priming with the same state", len(msgs))
	}
}

func TestResolveCursorRecordsRoleAndReturnsRequest(t *testing.T) {
	fp := &fakePipeline{}
	store := NewStore(fp, 2)

	msg := store.ResolveCursor(CursorObservation{
		Serial:  7,
		Status:  protocol.CursorImageSurface{ClientSurface: 9, Hotspot: protocol.Point{X: 3, Y: 4}},
		Hotspot: protocol.Point{X: 3, Y: 4},
	})
	req, ok := msg.(RequestMessage)
	if !ok {
		t.Fatalf("msg = %T, want RequestMessage", msg)
	}
	cursor, ok := req.Request.(protocol.CursorImage)
	if !ok || cursor.Serial != 7 {
		t.Fatalf("request = %#v, want CursorImage{Serial: 7, ...}", req.Request)
	}

	rec, ok := store.records[9]
	if !ok {
		t.Fatalf("surface 9 has no record after ResolveCursor")
	}
	role, ok := rec.pending.Role.(protocol.CursorRole)
	if !ok || role.Hotspot != (protocol.Point{X: 3, Y: 4}) {
		t.Fatalf("role = %#v, want CursorRole{Hotspot: {3,4}}", rec.pending.Role)
	}
}

func TestResolveDecorationClientRequestStickyOverCompositorDefault(t *testing.T) {
	fp := &fakePipeline{}
	store := NewStore(fp, 2)

	resolved, changed := store.ResolveDecoration(1, protocol.DecorationServer, protocol.DecorationSourceClientRequested)
	if !changed || resolved.Mode != protocol.DecorationServer {
		t.Fatalf("first resolve = %#v, changed=%v, want Server/true", resolved, changed)
	}

	// The caller folds the resolved state into the toplevel's next commit,
	// which is where ResolveDecoration reads the current mode from.
	state := toplevel(1, 1, "a")
	top := state.Role.(protocol.XdgToplevelRole)
	dec := resolved
	top.State.Decoration = &dec
	state.Role = top
	if _, err := store.Commit(Commit{State: state}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// A later compositor-default report must not flap the mode back.
	resolved, changed = store.ResolveDecoration(1, protocol.DecorationClient, protocol.DecorationSourceCompositorDefault)
	if changed || resolved.Mode != protocol.DecorationServer || resolved.Source != protocol.DecorationSourceClientRequested {
		t.Fatalf("second resolve = %#v, changed=%v, want Server/ClientRequested/false", resolved, changed)
	}
}

func TestDestroyCascadesChildrenFirst(t *testing.T) {
	fp := &fakePipeline{}
	store := NewStore(fp, 2)

	parent := toplevel(1, 1, "parent")
	child := protocol.SurfaceState{Client: 1, Surface: 2, Role: protocol.SubSurfaceRole{Parent: 1}}
	grandchild := protocol.SurfaceState{Client: 1, Surface: 3, Role: protocol.SubSurfaceRole{Parent: 2}}

	for _, s := range []protocol.SurfaceState{parent, child, grandchild} {
		if _, err := store.Commit(Commit{State: s}); err != nil {
			t.Fatalf("Commit(%d): %v", s.Surface, err)
		}
	}

	reqs := store.Destroy(1)
	if len(reqs) != 3 {
		t.Fatalf("len(reqs) = %d, want 3", len(reqs))
	}
	order := make([]ids.WlSurfaceId, len(reqs))
	for i, r := range reqs {
		order[i] = r.(protocol.SurfaceRequest).Surface
	}
	if order[len(order)-1] != 1 {
		t.Fatalf("order = %v, want parent (1) last", order)
	}
	if len(store.records) != 0 {
		t.Fatalf("len(store.records) = %d, want 0 after cascade", len(store.records))
	}
}
