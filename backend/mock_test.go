package backend

import (
	"flag"
	"testing"
	"time"

	"github.com/wprsproj/wprs/protocol"
)

func TestMockBackendInitialSnapshot(t *testing.T) {
	b := NewMockBackend(MockOptions{Width: 64, Height: 32, FPS: 30, Windows: 2, Title: "t"})
	snaps, err := b.InitialSnapshot()
	if err != nil {
		t.Fatalf("InitialSnapshot: %v", err)
	}
	// Each window reports both its toplevel and its badge subsurface.
	if len(snaps) != 4 {
		t.Fatalf("len(snaps) = %d, want 4", len(snaps))
	}
	toplevel := snaps[0]
	if toplevel.State.Buffer == nil || toplevel.State.Buffer.Data.Kind != protocol.BufferExternal {
		t.Error("toplevel snapshot: expected External buffer placeholder")
	}
	if toplevel.State.Buffer.Metadata.Width != 64 || toplevel.State.Buffer.Metadata.Height != 32 {
		t.Errorf("toplevel snapshot: unexpected metadata %+v", toplevel.State.Buffer.Metadata)
	}
	if toplevel.State.Buffer.Metadata.Stride != 64*4 {
		t.Errorf("toplevel snapshot: stride = %d, want 256", toplevel.State.Buffer.Metadata.Stride)
	}
	badge := snaps[1]
	sub, ok := badge.State.Role.(protocol.SubSurfaceRole)
	if !ok || !sub.Sync || sub.Parent != toplevel.State.Surface {
		t.Errorf("badge snapshot: role = %#v, want a sync SubSurfaceRole of the toplevel", badge.State.Role)
	}
}

func TestMockBackendPollProducesFrames(t *testing.T) {
	b := NewMockBackend(MockOptions{Width: 8, Height: 8, FPS: 10, Windows: 1, Title: "t"})
	obs, err := b.Poll()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	// One observation for the badge subsurface, one for its toplevel; the
	// badge ships first so a sync child's buffer always precedes its
	// parent's commit on the wire.
	if len(obs) != 2 {
		t.Fatalf("len(obs) = %d, want 2", len(obs))
	}
	wantBadge := badgeSize * badgeSize * 4
	if got := len(obs[0].SurfaceCommit.Bgra); got != wantBadge {
		t.Fatalf("badge Bgra length = %d, want %d", got, wantBadge)
	}
	want := 8 * 8 * 4
	if got := len(obs[1].SurfaceCommit.Bgra); got != want {
		t.Fatalf("Bgra length = %d, want %d", got, want)
	}
	if obs[1].Cursor == nil {
		t.Error("obs[1].Cursor = nil, want a CursorObservation for the mock's single toplevel")
	}
	if obs[1].Decoration == nil {
		t.Error("obs[1].Decoration = nil, want a DecorationObservation for the mock's single toplevel")
	}
}

func TestMockBackendPollVariesAcrossFrames(t *testing.T) {
	b := NewMockBackend(MockOptions{Width: 8, Height: 8, FPS: 10, Windows: 1, Title: "t"})
	first, _ := b.Poll()
	second, _ := b.Poll()
	// Index 1 is the toplevel (the gradient animates every frame); the
	// badge at index 0 only flips color once every fps frames.
	if string(first[1].SurfaceCommit.Bgra) == string(second[1].SurfaceCommit.Bgra) {
		t.Fatal("expected successive polls to produce different frames")
	}
}

func TestMockBackendTickInterval(t *testing.T) {
	b := NewMockBackend(MockOptions{FPS: 25})
	if got, want := b.TickInterval(), time.Second/25; got != want {
		t.Fatalf("TickInterval() = %v, want %v", got, want)
	}
}

func TestMockBackendZeroFPSDoesNotDivideByZero(t *testing.T) {
	b := NewMockBackend(MockOptions{FPS: 0, Width: 1, Height: 1, Windows: 1})
	if b.TickInterval() != time.Second {
		t.Fatalf("TickInterval() = %v, want 1s", b.TickInterval())
	}
}

func TestParseMockFlagsDefaults(t *testing.T) {
	fset := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, err := ParseMockFlags(fset, nil)
	if err != nil {
		t.Fatalf("ParseMockFlags: %v", err)
	}
	if opts != DefaultMockOptions() {
		t.Fatalf("ParseMockFlags() = %+v, want defaults %+v", opts, DefaultMockOptions())
	}
}

func TestParseMockFlagsOverrides(t *testing.T) {
	fset := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, err := ParseMockFlags(fset, []string{"-mock-windows", "3", "-mock-title", "hi"})
	if err != nil {
		t.Fatalf("ParseMockFlags: %v", err)
	}
	if opts.Windows != 3 || opts.Title != "hi" {
		t.Fatalf("ParseMockFlags() = %+v", opts)
	}
}

func TestMockBackendHandleClientEventIsNoOp(t *testing.T) {
	b := NewMockBackend(DefaultMockOptions())
	if err := b.HandleClientEvent(protocol.WprsClientConnect{}); err != nil {
		t.Fatalf("HandleClientEvent: %v", err)
	}
}

func TestAdaptReportsFixedInterval(t *testing.T) {
	b := NewMockBackend(DefaultMockOptions())
	adapted := Adapt(b, 16*time.Millisecond)
	if adapted.TickInterval() != 16*time.Millisecond {
		t.Fatalf("TickInterval() = %v, want 16ms", adapted.TickInterval())
	}
}
