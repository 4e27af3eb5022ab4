package client

import (
	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

// Applier is what a real Wayland client toolkit (or a test double) does
// with each Request the server sends, one method per payload kind — the
// same per-variant shape as backend.Backend, mirrored onto the opposite
// direction of the wire.
type Applier interface {
	// OnCapabilities runs once, right after the connection is established,
	// before any surface traffic.
	OnCapabilities(caps protocol.Capabilities) error

	// OnSurfaceCommit receives a surface's full committed state. bgra is
	// non-nil only when the commit carried an External buffer, which Core
	// decodes from the preceding RawBuffer frame and decompresses back into
	// BGRA; state.Buffer may still be non-nil with bgra == nil when the
	// buffer was removed this commit. Any other buffer kind makes Core
	// return an error instead of calling OnSurfaceCommit.
	OnSurfaceCommit(state protocol.SurfaceState, bgra []byte) error
	OnSurfaceDestroyed(client ids.ClientId, surface ids.WlSurfaceId) error

	OnCursorImage(img protocol.CursorImage) error
	OnToplevelRequest(req protocol.ToplevelRequest) error
	OnPopupRequest(req protocol.PopupRequest) error
	OnDataRequest(req protocol.DataRequest) error
	OnClientDisconnected(client ids.ClientId) error
}
