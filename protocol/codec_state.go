package protocol

import (
	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

func writeDecorationState(w *wire.Writer, d *DecorationState) error {
	if err := writePresence(w, d != nil); err != nil {
		return err
	}
	if d == nil {
		return nil
	}
	if err := w.WriteU8(uint8(d.Mode)); err != nil {
		return err
	}
	return w.WriteU8(uint8(d.Source))
}

func readDecorationState(r *wire.Reader) (*DecorationState, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	mode, err := r.U8()
	if err != nil {
		return nil, err
	}
	source, err := r.U8()
	if err != nil {
		return nil, err
	}
	return &DecorationState{Mode: DecorationMode(mode), Source: DecorationSource(source)}, nil
}

func writeOptionalXdgToplevelId(w *wire.Writer, id *ids.XdgToplevelId) error {
	if err := writePresence(w, id != nil); err != nil {
		return err
	}
	if id == nil {
		return nil
	}
	return w.WriteU32(uint32(*id))
}

func readOptionalXdgToplevelId(r *wire.Reader) (*ids.XdgToplevelId, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	v, err := r.U32()
	if err != nil {
		return nil, err
	}
	id := ids.XdgToplevelId(v)
	return &id, nil
}

func writeToplevelState(w *wire.Writer, s ToplevelState) error {
	if err := writeOptionalString(w, s.Title); err != nil {
		return err
	}
	if err := writeOptionalString(w, s.AppId); err != nil {
		return err
	}
	if err := writeOptionalXdgToplevelId(w, s.ParentId); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(s.Window.Bits())); err != nil {
		return err
	}
	return writeDecorationState(w, s.Decoration)
}

func readToplevelState(r *wire.Reader) (ToplevelState, error) {
	var s ToplevelState
	var err error
	if s.Title, err = readOptionalString(r); err != nil {
		return s, err
	}
	if s.AppId, err = readOptionalString(r); err != nil {
		return s, err
	}
	if s.ParentId, err = readOptionalXdgToplevelId(r); err != nil {
		return s, err
	}
	bits, err := r.U32()
	if err != nil {
		return s, err
	}
	s.Window = WindowStateFromBits(uint16(bits))
	if s.Decoration, err = readDecorationState(r); err != nil {
		return s, err
	}
	return s, nil
}

func writePopupState(w *wire.Writer, s PopupState) error {
	if err := w.WriteU32(uint32(s.Parent)); err != nil {
		return err
	}
	if err := writeRect(w, s.Geometry); err != nil {
		return err
	}
	if err := w.WriteBool(s.Grabbed); err != nil {
		return err
	}
	return w.WriteBool(s.ReactiveX)
}

func readPopupState(r *wire.Reader) (PopupState, error) {
	var s PopupState
	parent, err := r.U32()
	if err != nil {
		return s, err
	}
	s.Parent = ids.WlSurfaceId(parent)
	if s.Geometry, err = readRect(r); err != nil {
		return s, err
	}
	if s.Grabbed, err = r.Bool(); err != nil {
		return s, err
	}
	if s.ReactiveX, err = r.Bool(); err != nil {
		return s, err
	}
	return s, nil
}

func writeRole(w *wire.Writer, role Role) error {
	if err := writePresence(w, role != nil); err != nil {
		return err
	}
	if role == nil {
		return nil
	}
	if err := w.WriteU8(uint8(role.RoleKind())); err != nil {
		return err
	}
	switch r := role.(type) {
	case CursorRole:
		return writePoint(w, r.Hotspot)
	case SubSurfaceRole:
		if err := w.WriteU32(uint32(r.Parent)); err != nil {
			return err
		}
		if err := writeInt32(w, r.X); err != nil {
			return err
		}
		if err := writeInt32(w, r.Y); err != nil {
			return err
		}
		return w.WriteBool(r.Sync)
	case XdgToplevelRole:
		if err := w.WriteU32(uint32(r.Id)); err != nil {
			return err
		}
		return writeToplevelState(w, r.State)
	case XdgPopupRole:
		if err := w.WriteU32(uint32(r.Id)); err != nil {
			return err
		}
		return writePopupState(w, r.State)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown role type %T", role)
	}
}

func readRole(r *wire.Reader) (Role, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	kindByte, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch RoleKind(kindByte) {
	case RoleCursor:
		hotspot, err := readPoint(r)
		if err != nil {
			return nil, err
		}
		return CursorRole{Hotspot: hotspot}, nil
	case RoleSubSurface:
		parent, err := r.U32()
		if err != nil {
			return nil, err
		}
		x, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		y, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		sync, err := r.Bool()
		if err != nil {
			return nil, err
		}
		return SubSurfaceRole{Parent: ids.WlSurfaceId(parent), X: x, Y: y, Sync: sync}, nil
	case RoleXdgToplevel:
		id, err := r.U32()
		if err != nil {
			return nil, err
		}
		state, err := readToplevelState(r)
		if err != nil {
			return nil, err
		}
		return XdgToplevelRole{Id: ids.XdgToplevelId(id), State: state}, nil
	case RoleXdgPopup:
		id, err := r.U32()
		if err != nil {
			return nil, err
		}
		state, err := readPopupState(r)
		if err != nil {
			return nil, err
		}
		return XdgPopupRole{Id: ids.XdgPopupId(id), State: state}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown role tag %d", kindByte)
	}
}

// EncodeSurfaceState writes a full SurfaceState.
func EncodeSurfaceState(w *wire.Writer, s SurfaceState) error {
	if err := w.WriteU32(uint32(s.Client)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(s.Surface)); err != nil {
		return err
	}
	if err := writeBufferAssignment(w, s.Buffer); err != nil {
		return err
	}
	if err := writeRole(w, s.Role); err != nil {
		return err
	}
	if err := writeInt32(w, s.BufferScale); err != nil {
		return err
	}
	if err := writeTransform(w, s.BufferTransform); err != nil {
		return err
	}
	if err := writeRegion(w, s.OpaqueRegion); err != nil {
		return err
	}
	if err := writeRegion(w, s.InputRegion); err != nil {
		return err
	}
	if err := writeSubsurfacePositions(w, s.Children); err != nil {
		return err
	}
	if err := writeRectList(w, s.Damage); err != nil {
		return err
	}
	if err := writeU64List(w, s.Outputs); err != nil {
		return err
	}
	if err := writeViewport(w, s.Viewport); err != nil {
		return err
	}
	return writeXdgSurfaceState(w, s.Xdg)
}

// DecodeSurfaceState reads a SurfaceState written by EncodeSurfaceState.
func DecodeSurfaceState(r *wire.Reader) (SurfaceState, error) {
	var s SurfaceState
	client, err := r.U32()
	if err != nil {
		return s, err
	}
	s.Client = ids.ClientId(client)
	surface, err := r.U32()
	if err != nil {
		return s, err
	}
	s.Surface = ids.WlSurfaceId(surface)
	if s.Buffer, err = readBufferAssignment(r); err != nil {
		return s, err
	}
	if s.Role, err = readRole(r); err != nil {
		return s, err
	}
	if s.BufferScale, err = readInt32(r); err != nil {
		return s, err
	}
	if s.BufferTransform, err = readTransform(r); err != nil {
		return s, err
	}
	if s.OpaqueRegion, err = readRegion(r); err != nil {
		return s, err
	}
	if s.InputRegion, err = readRegion(r); err != nil {
		return s, err
	}
	if s.Children, err = readSubsurfacePositions(r); err != nil {
		return s, err
	}
	if s.Damage, err = readRectList(r); err != nil {
		return s, err
	}
	if s.Outputs, err = readU64List(r); err != nil {
		return s, err
	}
	if s.Viewport, err = readViewport(r); err != nil {
		return s, err
	}
	if s.Xdg, err = readXdgSurfaceState(r); err != nil {
		return s, err
	}
	return s, nil
}
