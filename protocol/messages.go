package protocol

import "github.com/wprsproj/wprs/ids"

// Request is the server→client message union (spec.md §4.E): surface
// commits/destroys, cursor image updates, toplevel/popup option changes,
// data-transfer traffic, disconnect notices, and the capability handshake.
type Request interface{ isRequest() }

// SurfaceRequestPayload is Commit(SurfaceState) | Destroyed.
type SurfaceRequestPayload interface{ isSurfaceRequestPayload() }

type SurfaceCommit struct{ State SurfaceState }
type SurfaceDestroyed struct{}

func (SurfaceCommit) isSurfaceRequestPayload()   {}
func (SurfaceDestroyed) isSurfaceRequestPayload() {}

type SurfaceRequest struct {
	Client  ids.ClientId
	Surface ids.WlSurfaceId
	Payload SurfaceRequestPayload
}

func (SurfaceRequest) isRequest() {}

// CursorImageStatus is Hidden | Named(name) | Surface{client_surface, hotspot}.
type CursorImageStatus interface{ isCursorImageStatus() }

type CursorImageHidden struct{}
type CursorImageNamed struct{ Name string }
type CursorImageSurface struct {
	ClientSurface ids.WlSurfaceId
	Hotspot       Point
}

func (CursorImageHidden) isCursorImageStatus()  {}
func (CursorImageNamed) isCursorImageStatus()   {}
func (CursorImageSurface) isCursorImageStatus() {}

type CursorImage struct {
	Serial Serial
	Status CursorImageStatus
}

func (CursorImage) isRequest() {}

// ToplevelOption is the recognized, non-idempotent toplevel request option
// set (spec.md §4.E). AckConfigure is an added supplement (see SPEC_FULL.md)
// carrying the serial the client echoes back after an xdg_surface.configure.
type ToplevelOption interface{ isToplevelOption() }

type ToplevelSetMaximized struct{}
type ToplevelUnsetMaximized struct{}
type ToplevelSetFullscreen struct{}
type ToplevelUnsetFullscreen struct{}
type ToplevelSetMinimized struct{}
type ToplevelMove struct{ Serial Serial }

// ResizeEdge mirrors xdg_toplevel's resize edge bitfield.
type ResizeEdge uint32

const (
	ResizeEdgeNone   ResizeEdge = 0
	ResizeEdgeTop    ResizeEdge = 1 << 0
	ResizeEdgeBottom ResizeEdge = 1 << 1
	ResizeEdgeLeft   ResizeEdge = 1 << 2
	ResizeEdgeRight  ResizeEdge = 1 << 3
)

type ToplevelResize struct {
	Serial Serial
	Edge   ResizeEdge
}
type ToplevelDestroyed struct{}
type ToplevelAckConfigure struct{ Serial Serial }

func (ToplevelSetMaximized) isToplevelOption()   {}
func (ToplevelUnsetMaximized) isToplevelOption() {}
func (ToplevelSetFullscreen) isToplevelOption()  {}
func (ToplevelUnsetFullscreen) isToplevelOption() {}
func (ToplevelSetMinimized) isToplevelOption()   {}
func (ToplevelMove) isToplevelOption()           {}
func (ToplevelResize) isToplevelOption()         {}
func (ToplevelDestroyed) isToplevelOption()      {}
func (ToplevelAckConfigure) isToplevelOption()   {}

type ToplevelRequest struct {
	Client   ids.ClientId
	Toplevel ids.XdgToplevelId
	Option   ToplevelOption
}

func (ToplevelRequest) isRequest() {}

// PopupOption is Destroyed | AckConfigure(serial) (the latter added,
// mirroring ToplevelRequest).
type PopupOption interface{ isPopupOption() }

type PopupDestroyed struct{}
type PopupAckConfigure struct{ Serial Serial }

func (PopupDestroyed) isPopupOption()    {}
func (PopupAckConfigure) isPopupOption() {}

type PopupRequest struct {
	Client ids.ClientId
	Popup  ids.XdgPopupId
	Option PopupOption
}

func (PopupRequest) isRequest() {}

func (DataRequest) isRequest() {}

type ClientDisconnected struct{ Client ids.ClientId }

func (ClientDisconnected) isRequest() {}

type Capabilities struct{ Xwayland bool }

func (Capabilities) isRequest() {}

// Event is the client→server message union (spec.md §4.E): connect
// notification, output changes, batched pointer frames, keyboard events,
// toplevel/popup configure acks, data-transfer traffic, and surface events.
type Event interface{ isEvent() }

// WprsClientConnect signals that the client's transport has connected. The
// server core explicitly does not handle this itself (spec.md §4.F) — the
// transport adapter owns sending the initial snapshot.
type WprsClientConnect struct{}

func (WprsClientConnect) isEvent() {}

// OutputEventKind is Added | Removed | Changed for one output.
type OutputEventKind interface{ isOutputEventKind() }

type OutputAdded struct{ Info OutputInfo }
type OutputRemoved struct{ Id uint64 }
type OutputChanged struct{ Info OutputInfo }

func (OutputAdded) isOutputEventKind()   {}
func (OutputRemoved) isOutputEventKind() {}
func (OutputChanged) isOutputEventKind() {}

type OutputEvent struct{ Kind OutputEventKind }

func (OutputEvent) isEvent() {}

type PointerFrame struct{ Events []PointerEvent }

func (PointerFrame) isEvent() {}

func (KeyboardEvent) isEvent() {}

// ToplevelEventKind is Configure | Close for one toplevel.
type ToplevelEventKind interface{ isToplevelEventKind() }

type ToplevelConfigure struct {
	Serial Serial
	Size   Size
	State  WindowState
}
type ToplevelClose struct{}

func (ToplevelConfigure) isToplevelEventKind() {}
func (ToplevelClose) isToplevelEventKind()     {}

type ToplevelEvent struct {
	Toplevel ids.XdgToplevelId
	Kind     ToplevelEventKind
}

func (ToplevelEvent) isEvent() {}

// PopupEventKind is Configure | Done for one popup.
type PopupEventKind interface{ isPopupEventKind() }

type PopupConfigure struct {
	Serial   Serial
	Geometry Rect
}
type PopupDone struct{}

func (PopupConfigure) isPopupEventKind() {}
func (PopupDone) isPopupEventKind()      {}

type PopupEvent struct {
	Popup ids.XdgPopupId
	Kind  PopupEventKind
}

func (PopupEvent) isEvent() {}

func (DataEvent) isEvent() {}

// SurfaceEventKind reports changes observed by the client's real Wayland
// toolkit that the server's surface store should reflect back (added: the
// one concrete instance is the standard wl_surface.enter/leave-driven output
// membership list, since nothing else in spec.md's Event union needs a
// surface-scoped event, but that membership directly feeds
// SurfaceState.Outputs on the server side).
type SurfaceEventKind interface{ isSurfaceEventKind() }

type SurfaceOutputsChanged struct{ Outputs []uint64 }

func (SurfaceOutputsChanged) isSurfaceEventKind() {}

type SurfaceEvent struct {
	Surface ids.WlSurfaceId
	Kind    SurfaceEventKind
}

func (SurfaceEvent) isEvent() {}
