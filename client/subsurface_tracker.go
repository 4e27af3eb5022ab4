package client

import (
	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

// sentDamageLimit caps how many individual damage_buffer calls a single
// commit will issue before falling back to one whole-surface damage call,
// to avoid overwhelming the Wayland connection with a flood of small
// requests when a commit's damage list is large (original_source/src/
// client/backends/wayland/sctk.rs's apply_buffer, gated on
// constants::SENT_DAMAGE_LIMIT). The retrieved source doesn't carry
// constants.rs's defined value, so this is a chosen, documented literal
// rather than a grounded one.
const sentDamageLimit = 32

// subsurfaceMove is one place_above call: move Surface so it stacks
// directly above AboveOf.
type subsurfaceMove struct {
	Surface ids.WlSurfaceId
	AboveOf ids.WlSurfaceId
}

// reorderChildren computes the place_above moves needed to reconcile
// current against newOrder, along with the resulting order to store back
// as current for the next call.
//
// Mirrors RemoteSurface::reorder_children exactly, including its
// implementation detail that current (the tracker's self.z_ordered_children)
// is kept in newOrder's list reversed, not in newOrder's own bottom-to-top
// orientation: each call reverses newOrder, drops any entry not already
// present in current (a subsurface the tracker hasn't bootstrapped yet is
// adopted directly by the caller, not reordered here — see
// SurfaceTracker.Apply), then for each slot either accepts the position
// update in place (same id already there) or relocates the element and
// records a move. Two calls with the same newOrder converge to zero moves
// on the second call; that is the invariant to preserve, not any
// particular move count for a single transition.
func reorderChildren(current []protocol.SubsurfacePosition, newOrder []protocol.SubsurfacePosition) ([]protocol.SubsurfacePosition, []subsurfaceMove) {
	tracked := make(map[ids.WlSurfaceId]bool, len(current))
	for _, c := range current {
		tracked[c.Id] = true
	}

	reversed := make([]protocol.SubsurfacePosition, 0, len(newOrder))
	for i := len(newOrder) - 1; i >= 0; i-- {
		if tracked[newOrder[i].Id] {
			reversed = append(reversed, newOrder[i])
		}
	}

	out := append([]protocol.SubsurfacePosition(nil), current...)
	var moves []subsurfaceMove
	for idx, elem := range reversed {
		if idx >= len(out) {
			break
		}
		currentElem := out[idx]
		if currentElem.Id == elem.Id {
			out[idx] = elem
			continue
		}
		currentIdx := indexOfSurface(out, elem.Id)
		out = append(out[:currentIdx], out[currentIdx+1:]...)
		tail := append([]protocol.SubsurfacePosition{elem}, out[idx:]...)
		out = append(out[:idx], tail...)
		moves = append(moves, subsurfaceMove{Surface: elem.Id, AboveOf: currentElem.Id})
	}
	return out, moves
}

func reverseSubsurfacePositions(order []protocol.SubsurfacePosition) []protocol.SubsurfacePosition {
	out := make([]protocol.SubsurfacePosition, len(order))
	for i, e := range order {
		out[len(order)-1-i] = e
	}
	return out
}

func indexOfSurface(order []protocol.SubsurfacePosition, id ids.WlSurfaceId) int {
	for i, e := range order {
		if e.Id == id {
			return i
		}
	}
	return -1
}

// damageRequests returns the Rects a commit's damage list should be
// forwarded as, applying the SENT_DAMAGE_LIMIT fallback: one zero Rect
// (Toolkit.DamageBuffer's whole-surface sentinel) when the list is empty
// or grows past sentDamageLimit, the list verbatim otherwise.
func damageRequests(damage []protocol.Rect) []protocol.Rect {
	if len(damage) == 0 {
		return []protocol.Rect{{}}
	}
	if len(damage) > sentDamageLimit {
		return []protocol.Rect{{}}
	}
	return damage
}

// surfaceTrackerState is what SurfaceTracker remembers about one surface
// across commits, to detect what changed since the last one.
type surfaceTrackerState struct {
	children []protocol.SubsurfacePosition
	viewport *protocol.ViewportState
}

// SurfaceTracker applies the parts of a commit's state that a Toolkit
// binding has to translate into its own restacking/damage/viewport calls
// rather than a single "here is the new state" hand-off: subsurface
// z-order (place_above), damage (damage_buffer, gated by
// sentDamageLimit), and wp_viewport (set only when changed since the
// surface's last commit).
type SurfaceTracker struct {
	tk     Toolkit
	states map[ids.WlSurfaceId]*surfaceTrackerState
}

// NewSurfaceTracker returns a SurfaceTracker that issues its restack,
// damage, and viewport calls against tk.
func NewSurfaceTracker(tk Toolkit) *SurfaceTracker {
	return &SurfaceTracker{tk: tk, states: make(map[ids.WlSurfaceId]*surfaceTrackerState)}
}

// Apply runs state's children/damage/viewport deltas through t's Toolkit.
// It does not itself render the buffer bgra carries; callers still need
// to hand that to whatever paints the surface.
func (t *SurfaceTracker) Apply(state protocol.SurfaceState) error {
	st, ok := t.states[state.Surface]
	if !ok {
		st = &surfaceTrackerState{}
		t.states[state.Surface] = st
	}

	if len(st.children) == 0 && len(state.Children) != 0 {
		// First commit reporting this surface's children: there is
		// nothing previously stacked to reconcile against, so adopt the
		// reported order directly (reorderChildren only knows how to move
		// children it has already seen, per RemoteSurface::reorder_children,
		// and stores its tracked order reversed relative to the wire's
		// bottom-to-top list — see reorderChildren's doc comment).
		st.children = reverseSubsurfacePositions(state.Children)
	} else {
		newOrder, moves := reorderChildren(st.children, state.Children)
		for _, mv := range moves {
			if err := t.tk.PlaceAbove(mv.Surface, mv.AboveOf); err != nil {
				return err
			}
		}
		st.children = newOrder
	}

	for _, rect := range damageRequests(state.Damage) {
		if err := t.tk.DamageBuffer(state.Surface, rect); err != nil {
			return err
		}
	}

	if !viewportEqual(st.viewport, state.Viewport) {
		if err := t.tk.ApplyViewport(state.Surface, state.Viewport); err != nil {
			return err
		}
		st.viewport = state.Viewport
	}

	return nil
}

// Forget drops a destroyed surface's tracked state.
func (t *SurfaceTracker) Forget(surface ids.WlSurfaceId) {
	delete(t.states, surface)
}

func viewportEqual(a, b *protocol.ViewportState) bool {
	if a == nil || b == nil {
		return a == b
	}
	return rectFEqual(a.Src, b.Src) && sizeEqual(a.Dst, b.Dst)
}

func rectFEqual(a, b *protocol.RectF64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sizeEqual(a, b *protocol.Size) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
