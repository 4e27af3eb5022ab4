package client

import (
	"log"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

// ToolkitApplier is the Applier wprsc runs in place of a bare
// LoggingApplier: it still logs every Request the same way, but also
// drives a SurfaceTracker against a Toolkit so the subsurface-reorder,
// damage, and viewport logic actually runs against every commit the
// shipped binary receives, not just in unit tests (spec.md §4.G).
type ToolkitApplier struct {
	LoggingApplier
	tracker *SurfaceTracker
}

// NewToolkitApplier returns a ToolkitApplier driving tk.
func NewToolkitApplier(tk Toolkit) *ToolkitApplier {
	return &ToolkitApplier{tracker: NewSurfaceTracker(tk)}
}

func (a *ToolkitApplier) OnSurfaceCommit(state protocol.SurfaceState, bgra []byte) error {
	if err := a.LoggingApplier.OnSurfaceCommit(state, bgra); err != nil {
		return err
	}
	if err := a.tracker.Apply(state); err != nil {
		log.Printf("client: toolkit: dropping commit side effects for surface=%d: %v", state.Surface, err)
	}
	return nil
}

func (a *ToolkitApplier) OnSurfaceDestroyed(client ids.ClientId, surface ids.WlSurfaceId) error {
	a.tracker.Forget(surface)
	return a.LoggingApplier.OnSurfaceDestroyed(client, surface)
}
