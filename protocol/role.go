package protocol

import "github.com/wprsproj/wprs/ids"

// RoleKind tags which Role variant a surface carries.
type RoleKind uint8

const (
	RoleCursor RoleKind = iota
	RoleSubSurface
	RoleXdgToplevel
	RoleXdgPopup
)

// Role is the Wayland concept of what a surface *is*. A surface transitions
// None (nil Role) → a concrete Role exactly once (spec.md §3).
type Role interface {
	RoleKind() RoleKind
}

// CursorRole marks a surface as a cursor image, with its hotspot resolved
// from the compositor's cursor-surface user data (spec.md §4.G).
type CursorRole struct {
	Hotspot Point
}

func (CursorRole) RoleKind() RoleKind { return RoleCursor }

// SubSurfaceRole marks a surface as a wl_subsurface.
type SubSurfaceRole struct {
	Parent ids.WlSurfaceId
	X, Y   int32
	Sync   bool
}

func (SubSurfaceRole) RoleKind() RoleKind { return RoleSubSurface }

// ToplevelState is the xdg_toplevel-specific pending/committed state.
type ToplevelState struct {
	Title      *string
	AppId      *string
	ParentId   *ids.XdgToplevelId
	Window     WindowState
	Decoration *DecorationState
}

// DecorationState is the current decoration mode and who last set it.
type DecorationState struct {
	Mode   DecorationMode
	Source DecorationSource
}

// XdgToplevelRole marks a surface as an xdg_toplevel.
type XdgToplevelRole struct {
	Id    ids.XdgToplevelId
	State ToplevelState
}

func (XdgToplevelRole) RoleKind() RoleKind { return RoleXdgToplevel }

// PopupState is the xdg_popup-specific state.
type PopupState struct {
	Parent    ids.WlSurfaceId
	Geometry  Rect
	Grabbed   bool
	ReactiveX bool // repositioned: reposition-on-constraint requested
}

// XdgPopupRole marks a surface as an xdg_popup.
type XdgPopupRole struct {
	Id    ids.XdgPopupId
	State PopupState
}

func (XdgPopupRole) RoleKind() RoleKind { return RoleXdgPopup }
