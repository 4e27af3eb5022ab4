package client

import (
	"testing"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

func TestReorderChildrenSameOrderConvergesToNoMoves(t *testing.T) {
	// current is already stored in reorderChildren's reversed convention
	// (see its doc comment); feeding it the newOrder that produced it
	// must be a no-op.
	current := []protocol.SubsurfacePosition{{Id: 3}, {Id: 2}, {Id: 1}}
	newOrder := []protocol.SubsurfacePosition{{Id: 1}, {Id: 2}, {Id: 3}}
	out, moves := reorderChildren(current, newOrder)
	if len(moves) != 0 {
		t.Fatalf("moves = %v, want none", moves)
	}
	if len(out) != 3 {
		t.Fatalf("out = %v", out)
	}
}

func TestReorderChildrenSwapProducesOneMove(t *testing.T) {
	current := []protocol.SubsurfacePosition{{Id: 2}, {Id: 1}} // reversed([1,2])
	newOrder := []protocol.SubsurfacePosition{{Id: 2}, {Id: 1}}
	_, moves := reorderChildren(current, newOrder)
	if len(moves) != 1 {
		t.Fatalf("moves = %v, want exactly one", moves)
	}
	if moves[0].Surface != 1 || moves[0].AboveOf != 2 {
		t.Fatalf("moves[0] = %+v, want {Surface:1 AboveOf:2}", moves[0])
	}
}

func TestReorderChildrenIgnoresUntrackedSurfaces(t *testing.T) {
	current := []protocol.SubsurfacePosition{{Id: 2}, {Id: 1}}
	// Id 9 hasn't been committed yet as far as this tracker knows; it must
	// not be treated as a reorder target.
	newOrder := []protocol.SubsurfacePosition{{Id: 9}, {Id: 2}, {Id: 1}}
	out, moves := reorderChildren(current, newOrder)
	for _, m := range moves {
		if m.Surface == 9 || m.AboveOf == 9 {
			t.Fatalf("move referenced untracked surface 9: %+v", moves)
		}
	}
	for _, e := range out {
		if e.Id == 9 {
			t.Fatalf("out tracked untracked surface 9: %v", out)
		}
	}
}

func TestDamageRequestsUnderLimitPassesThrough(t *testing.T) {
	damage := []protocol.Rect{{X: 0, Y: 0, W: 1, H: 1}, {X: 2, Y: 2, W: 1, H: 1}}
	got := damageRequests(damage)
	if len(got) != 2 {
		t.Fatalf("damageRequests = %v, want the 2 rects unchanged", got)
	}
}

func TestDamageRequestsOverLimitFallsBackToWholeSurface(t *testing.T) {
	damage := make([]protocol.Rect, sentDamageLimit+1)
	got := damageRequests(damage)
	if len(got) != 1 || got[0] != (protocol.Rect{}) {
		t.Fatalf("damageRequests = %v, want a single whole-surface sentinel", got)
	}
}

func TestDamageRequestsEmptyFallsBackToWholeSurface(t *testing.T) {
	got := damageRequests(nil)
	if len(got) != 1 || got[0] != (protocol.Rect{}) {
		t.Fatalf("damageRequests(nil) = %v, want a single whole-surface sentinel", got)
	}
}

type recordingToolkit struct {
	placedAbove []subsurfaceMove
	damaged     []protocol.Rect
	viewports   []*protocol.ViewportState
}

func (r *recordingToolkit) PlaceAbove(surface, sibling ids.WlSurfaceId) error {
	r.placedAbove = append(r.placedAbove, subsurfaceMove{Surface: surface, AboveOf: sibling})
	return nil
}
func (r *recordingToolkit) PlaceBelow(surface, sibling ids.WlSurfaceId) error { return nil }
func (r *recordingToolkit) DamageBuffer(_ ids.WlSurfaceId, rect protocol.Rect) error {
	r.damaged = append(r.damaged, rect)
	return nil
}
func (r *recordingToolkit) ApplyViewport(_ ids.WlSurfaceId, vp *protocol.ViewportState) error {
	r.viewports = append(r.viewports, vp)
	return nil
}

func TestSurfaceTrackerAppliesReorderOnSecondCommit(t *testing.T) {
	tk := &recordingToolkit{}
	tr := NewSurfaceTracker(tk)

	first := protocol.SurfaceState{Surface: 1, Children: []protocol.SubsurfacePosition{{Id: 1}, {Id: 2}}}
	if err := tr.Apply(first); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(tk.placedAbove) != 0 {
		t.Fatalf("first commit issued moves: %v", tk.placedAbove)
	}

	second := protocol.SurfaceState{Surface: 1, Children: []protocol.SubsurfacePosition{{Id: 2}, {Id: 1}}}
	if err := tr.Apply(second); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(tk.placedAbove) != 1 {
		t.Fatalf("second commit placedAbove = %v, want one move", tk.placedAbove)
	}
}

func TestSurfaceTrackerAppliesViewportOnlyWhenChanged(t *testing.T) {
	tk := &recordingToolkit{}
	tr := NewSurfaceTracker(tk)

	vp := &protocol.ViewportState{Dst: &protocol.Size{W: 100, H: 100}}
	state := protocol.SurfaceState{Surface: 1, Viewport: vp}
	if err := tr.Apply(state); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := tr.Apply(state); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(tk.viewports) != 1 {
		t.Fatalf("viewports = %v, want exactly one call (unchanged second commit skipped)", tk.viewports)
	}

	changed := protocol.SurfaceState{Surface: 1, Viewport: &protocol.ViewportState{Dst: &protocol.Size{W: 50, H: 50}}}
	if err := tr.Apply(changed); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(tk.viewports) != 2 {
		t.Fatalf("viewports = %v, want a second call after the viewport changed", tk.viewports)
	}
}

func TestSurfaceTrackerForgetDropsState(t *testing.T) {
	tk := &recordingToolkit{}
	tr := NewSurfaceTracker(tk)
	_ = tr.Apply(protocol.SurfaceState{Surface: 1, Children: []protocol.SubsurfacePosition{{Id: 1}}})
	tr.Forget(1)
	if _, ok := tr.states[1]; ok {
		t.Fatal("Forget did not remove tracked state")
	}
}
