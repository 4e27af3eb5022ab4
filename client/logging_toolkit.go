package client

import (
	"log"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

// LoggingToolkit is the Toolkit wprsc runs with in the absence of a real
// Wayland client toolkit binding: it logs each restack/damage/viewport
// call instead of issuing it, the same stand-in role LoggingApplier plays
// for Applier.
type LoggingToolkit struct{}

func (LoggingToolkit) PlaceAbove(surface, sibling ids.WlSurfaceId) error {
	log.Printf("client: toolkit: place_above surface=%d sibling=%d", surface, sibling)
	return nil
}

func (LoggingToolkit) PlaceBelow(surface, sibling ids.WlSurfaceId) error {
	log.Printf("client: toolkit: place_below surface=%d sibling=%d", surface, sibling)
	return nil
}

func (LoggingToolkit) DamageBuffer(surface ids.WlSurfaceId, rect protocol.Rect) error {
	log.Printf("client: toolkit: damage_buffer surface=%d rect=%+v", surface, rect)
	return nil
}

func (LoggingToolkit) ApplyViewport(surface ids.WlSurfaceId, vp *protocol.ViewportState) error {
	log.Printf("client: toolkit: apply_viewport surface=%d viewport=%+v", surface, vp)
	return nil
}
