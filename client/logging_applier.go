package client

import (
	"log"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

// LoggingApplier is the Applier wprsc runs with in the absence of a real
// Wayland client toolkit binding (spec.md's Non-goals explicitly exclude
// Wayland-server/client library bindings): it logs every Request it
// receives instead of rendering it, which is enough to exercise and
// observe the wire protocol end to end.
type LoggingApplier struct{}

func (LoggingApplier) OnCapabilities(caps protocol.Capabilities) error {
	log.Printf("client: capabilities: xwayland=%v", caps.Xwayland)
	return nil
}

func (LoggingApplier) OnSurfaceCommit(state protocol.SurfaceState, bgra []byte) error {
	log.Printf("client: commit: client=%d surface=%d role=%T bgra=%d bytes",
		state.Client, state.Surface, state.Role, len(bgra))
	return nil
}

func (LoggingApplier) OnSurfaceDestroyed(client ids.ClientId, surface ids.WlSurfaceId) error {
	log.Printf("client: surface destroyed: client=%d surface=%d", client, surface)
	return nil
}

func (LoggingApplier) OnCursorImage(img protocol.CursorImage) error {
	log.Printf("client: cursor image: serial=%d status=%T", img.Serial, img.Status)
	return nil
}

func (LoggingApplier) OnToplevelRequest(req protocol.ToplevelRequest) error {
	log.Printf("client: toplevel request: toplevel=%d option=%T", req.Toplevel, req.Option)
	return nil
}

func (LoggingApplier) OnPopupRequest(req protocol.PopupRequest) error {
	log.Printf("client: popup request: popup=%d option=%T", req.Popup, req.Option)
	return nil
}

func (LoggingApplier) OnDataRequest(req protocol.DataRequest) error {
	log.Printf("client: data request: kind=%T", req.Kind)
	return nil
}

func (LoggingApplier) OnClientDisconnected(client ids.ClientId) error {
	log.Printf("client: server reports client disconnected: client=%d", client)
	return nil
}
