package client

import (
	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

// Toolkit is the minimal compositor-adapter interface a real Wayland client
// toolkit binding would implement; spec.md's Non-goals exclude a real
// binding but its §1 scoping note — "only the interfaces the core consumes
// and exposes are specified" — means the surface-tree manipulation logic
// that would drive such a binding still belongs here, against this
// interface. Grounded on original_source/src/client/backends/wayland/
// sctk.rs's RemoteSurface: PlaceAbove/PlaceBelow mirror its
// wl_subsurface.place_above/place_below calls, DamageBuffer its
// wl_surface.damage_buffer, ApplyViewport its wp_viewport set_source/
// set_destination pair.
type Toolkit interface {
	// PlaceAbove restacks surface directly above sibling in their shared
	// parent's child list.
	PlaceAbove(surface, sibling ids.WlSurfaceId) error
	// PlaceBelow restacks surface directly below sibling.
	PlaceBelow(surface, sibling ids.WlSurfaceId) error
	// DamageBuffer marks rect (buffer-local coordinates) as needing
	// repaint. A zero Rect means "damage the whole surface".
	DamageBuffer(surface ids.WlSurfaceId, rect protocol.Rect) error
	// ApplyViewport sets or clears a surface's wp_viewport crop/scale; a
	// nil vp removes any previously applied viewport.
	ApplyViewport(surface ids.WlSurfaceId, vp *protocol.ViewportState) error
}
