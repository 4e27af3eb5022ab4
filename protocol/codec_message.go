package protocol

import (
	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

const (
	surfaceCommitTag   = 0
	surfaceDestroyTag  = 1
)

func writeSurfaceRequestPayload(w *wire.Writer, p SurfaceRequestPayload) error {
	switch v := p.(type) {
	case SurfaceCommit:
		if err := w.WriteU8(surfaceCommitTag); err != nil {
			return err
		}
		return EncodeSurfaceState(w, v.State)
	case SurfaceDestroyed:
		return w.WriteU8(surfaceDestroyTag)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown SurfaceRequestPayload %T", p)
	}
}

func readSurfaceRequestPayload(r *wire.Reader) (SurfaceRequestPayload, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case surfaceCommitTag:
		s, err := DecodeSurfaceState(r)
		if err != nil {
			return nil, err
		}
		return SurfaceCommit{State: s}, nil
	case surfaceDestroyTag:
		return SurfaceDestroyed{}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown SurfaceRequestPayload tag %d", tag)
	}
}

const (
	cursorHidden  = 0
	cursorNamed   = 1
	cursorSurface = 2
)

func writeCursorImageStatus(w *wire.Writer, s CursorImageStatus) error {
	switch v := s.(type) {
	case CursorImageHidden:
		return w.WriteU8(cursorHidden)
	case CursorImageNamed:
		if err := w.WriteU8(cursorNamed); err != nil {
			return err
		}
		return w.WriteString(v.Name)
	case CursorImageSurface:
		if err := w.WriteU8(cursorSurface); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.ClientSurface)); err != nil {
			return err
		}
		return writePoint(w, v.Hotspot)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown CursorImageStatus %T", s)
	}
}

func readCursorImageStatus(r *wire.Reader) (CursorImageStatus, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case cursorHidden:
		return CursorImageHidden{}, nil
	case cursorNamed:
		name, err := r.String()
		if err != nil {
			return nil, err
		}
		return CursorImageNamed{Name: name}, nil
	case cursorSurface:
		surface, err := r.U32()
		if err != nil {
			return nil, err
		}
		hotspot, err := readPoint(r)
		if err != nil {
			return nil, err
		}
		return CursorImageSurface{ClientSurface: ids.WlSurfaceId(surface), Hotspot: hotspot}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown CursorImageStatus tag %d", tag)
	}
}

const (
	toplevelSetMaximized   = 0
	toplevelUnsetMaximized = 1
	toplevelSetFullscreen  = 2
	toplevelUnsetFullscreen = 3
	toplevelSetMinimized   = 4
	toplevelMove           = 5
	toplevelResize         = 6
	toplevelDestroyed      = 7
	toplevelAckConfigure   = 8
)

func writeToplevelOption(w *wire.Writer, o ToplevelOption) error {
	switch v := o.(type) {
	case ToplevelSetMaximized:
		return w.WriteU8(toplevelSetMaximized)
	case ToplevelUnsetMaximized:
		return w.WriteU8(toplevelUnsetMaximized)
	case ToplevelSetFullscreen:
		return w.WriteU8(toplevelSetFullscreen)
	case ToplevelUnsetFullscreen:
		return w.WriteU8(toplevelUnsetFullscreen)
	case ToplevelSetMinimized:
		return w.WriteU8(toplevelSetMinimized)
	case ToplevelMove:
		if err := w.WriteU8(toplevelMove); err != nil {
			return err
		}
		return writeSerial(w, v.Serial)
	case ToplevelResize:
		if err := w.WriteU8(toplevelResize); err != nil {
			return err
		}
		if err := writeSerial(w, v.Serial); err != nil {
			return err
		}
		return w.WriteU32(uint32(v.Edge))
	case ToplevelDestroyed:
		return w.WriteU8(toplevelDestroyed)
	case ToplevelAckConfigure:
		if err := w.WriteU8(toplevelAckConfigure); err != nil {
			return err
		}
		return writeSerial(w, v.Serial)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown ToplevelOption %T", o)
	}
}

func readToplevelOption(r *wire.Reader) (ToplevelOption, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case toplevelSetMaximized:
		return ToplevelSetMaximized{}, nil
	case toplevelUnsetMaximized:
		return ToplevelUnsetMaximized{}, nil
	case toplevelSetFullscreen:
		return ToplevelSetFullscreen{}, nil
	case toplevelUnsetFullscreen:
		return ToplevelUnsetFullscreen{}, nil
	case toplevelSetMinimized:
		return ToplevelSetMinimized{}, nil
	case toplevelMove:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		return ToplevelMove{Serial: s}, nil
	case toplevelResize:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		edge, err := r.U32()
		if err != nil {
			return nil, err
		}
		return ToplevelResize{Serial: s, Edge: ResizeEdge(edge)}, nil
	case toplevelDestroyed:
		return ToplevelDestroyed{}, nil
	case toplevelAckConfigure:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		return ToplevelAckConfigure{Serial: s}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown ToplevelOption tag %d", tag)
	}
}

const (
	popupDestroyed    = 0
	popupAckConfigure = 1
)

func writePopupOption(w *wire.Writer, o PopupOption) error {
	switch v := o.(type) {
	case PopupDestroyed:
		return w.WriteU8(popupDestroyed)
	case PopupAckConfigure:
		if err := w.WriteU8(popupAckConfigure); err != nil {
			return err
		}
		return writeSerial(w, v.Serial)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown PopupOption %T", o)
	}
}

func readPopupOption(r *wire.Reader) (PopupOption, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case popupDestroyed:
		return PopupDestroyed{}, nil
	case popupAckConfigure:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		return PopupAckConfigure{Serial: s}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown PopupOption tag %d", tag)
	}
}

const (
	outputAdded   = 0
	outputRemoved = 1
	outputChanged = 2
)

func writeOutputEventKind(w *wire.Writer, k OutputEventKind) error {
	switch v := k.(type) {
	case OutputAdded:
		if err := w.WriteU8(outputAdded); err != nil {
			return err
		}
		return EncodeOutputInfo(w, v.Info)
	case OutputRemoved:
		if err := w.WriteU8(outputRemoved); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Id >> 32)); err != nil {
			return err
		}
		return w.WriteU32(uint32(v.Id))
	case OutputChanged:
		if err := w.WriteU8(outputChanged); err != nil {
			return err
		}
		return EncodeOutputInfo(w, v.Info)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown OutputEventKind %T", k)
	}
}

func readOutputEventKind(r *wire.Reader) (OutputEventKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case outputAdded:
		info, err := DecodeOutputInfo(r)
		if err != nil {
			return nil, err
		}
		return OutputAdded{Info: info}, nil
	case outputRemoved:
		hi, err := r.U32()
		if err != nil {
			return nil, err
		}
		lo, err := r.U32()
		if err != nil {
			return nil, err
		}
		return OutputRemoved{Id: uint64(hi)<<32 | uint64(lo)}, nil
	case outputChanged:
		info, err := DecodeOutputInfo(r)
		if err != nil {
			return nil, err
		}
		return OutputChanged{Info: info}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown OutputEventKind tag %d", tag)
	}
}

const (
	toplevelConfigure = 0
	toplevelClose     = 1
)

func writeToplevelEventKind(w *wire.Writer, k ToplevelEventKind) error {
	switch v := k.(type) {
	case ToplevelConfigure:
		if err := w.WriteU8(toplevelConfigure); err != nil {
			return err
		}
		if err := writeSerial(w, v.Serial); err != nil {
			return err
		}
		if err := writeSize(w, v.Size); err != nil {
			return err
		}
		return w.WriteU32(uint32(v.State.Bits()))
	case ToplevelClose:
		return w.WriteU8(toplevelClose)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown ToplevelEventKind %T", k)
	}
}

func readToplevelEventKind(r *wire.Reader) (ToplevelEventKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case toplevelConfigure:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		sz, err := readSize(r)
		if err != nil {
			return nil, err
		}
		bits, err := r.U32()
		if err != nil {
			return nil, err
		}
		return ToplevelConfigure{Serial: s, Size: sz, State: WindowStateFromBits(uint16(bits))}, nil
	case toplevelClose:
		return ToplevelClose{}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown ToplevelEventKind tag %d", tag)
	}
}

const (
	popupConfigure = 0
	popupDone      = 1
)

func writePopupEventKind(w *wire.Writer, k PopupEventKind) error {
	switch v := k.(type) {
	case PopupConfigure:
		if err := w.WriteU8(popupConfigure); err != nil {
			return err
		}
		if err := writeSerial(w, v.Serial); err != nil {
			return err
		}
		return writeRect(w, v.Geometry)
	case PopupDone:
		return w.WriteU8(popupDone)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown PopupEventKind %T", k)
	}
}

func readPopupEventKind(r *wire.Reader) (PopupEventKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case popupConfigure:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		geom, err := readRect(r)
		if err != nil {
			return nil, err
		}
		return PopupConfigure{Serial: s, Geometry: geom}, nil
	case popupDone:
		return PopupDone{}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown PopupEventKind tag %d", tag)
	}
}

const surfaceOutputsChangedTag = 0

func writeSurfaceEventKind(w *wire.Writer, k SurfaceEventKind) error {
	switch v := k.(type) {
	case SurfaceOutputsChanged:
		if err := w.WriteU8(surfaceOutputsChangedTag); err != nil {
			return err
		}
		return writeU64List(w, v.Outputs)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown SurfaceEventKind %T", k)
	}
}

func readSurfaceEventKind(r *wire.Reader) (SurfaceEventKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case surfaceOutputsChangedTag:
		outputs, err := readU64List(r)
		if err != nil {
			return nil, err
		}
		return SurfaceOutputsChanged{Outputs: outputs}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown SurfaceEventKind tag %d", tag)
	}
}

// --- top-level Request/Event -----------------------------------------------

const (
	reqSurface            = 0
	reqCursorImage         = 1
	reqToplevel            = 2
	reqPopup               = 3
	reqData                = 4
	reqClientDisconnected  = 5
	reqCapabilities        = 6
)

// EncodeRequest writes a server→client Request.
func EncodeRequest(w *wire.Writer, req Request) error {
	switch v := req.(type) {
	case SurfaceRequest:
		if err := w.WriteU8(reqSurface); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Client)); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Surface)); err != nil {
			return err
		}
		return writeSurfaceRequestPayload(w, v.Payload)
	case CursorImage:
		if err := w.WriteU8(reqCursorImage); err != nil {
			return err
		}
		if err := writeSerial(w, v.Serial); err != nil {
			return err
		}
		return writeCursorImageStatus(w, v.Status)
	case ToplevelRequest:
		if err := w.WriteU8(reqToplevel); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Client)); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Toplevel)); err != nil {
			return err
		}
		return writeToplevelOption(w, v.Option)
	case PopupRequest:
		if err := w.WriteU8(reqPopup); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Client)); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Popup)); err != nil {
			return err
		}
		return writePopupOption(w, v.Option)
	case DataRequest:
		if err := w.WriteU8(reqData); err != nil {
			return err
		}
		return writeDataRequest(w, v)
	case ClientDisconnected:
		if err := w.WriteU8(reqClientDisconnected); err != nil {
			return err
		}
		return w.WriteU32(uint32(v.Client))
	case Capabilities:
		if err := w.WriteU8(reqCapabilities); err != nil {
			return err
		}
		return w.WriteBool(v.Xwayland)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown Request %T", req)
	}
}

// DecodeRequest reads a Request written by EncodeRequest.
func DecodeRequest(r *wire.Reader) (Request, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case reqSurface:
		client, err := r.U32()
		if err != nil {
			return nil, err
		}
		surface, err := r.U32()
		if err != nil {
			return nil, err
		}
		payload, err := readSurfaceRequestPayload(r)
		if err != nil {
			return nil, err
		}
		return SurfaceRequest{Client: ids.ClientId(client), Surface: ids.WlSurfaceId(surface), Payload: payload}, nil
	case reqCursorImage:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		status, err := readCursorImageStatus(r)
		if err != nil {
			return nil, err
		}
		return CursorImage{Serial: s, Status: status}, nil
	case reqToplevel:
		client, err := r.U32()
		if err != nil {
			return nil, err
		}
		toplevel, err := r.U32()
		if err != nil {
			return nil, err
		}
		opt, err := readToplevelOption(r)
		if err != nil {
			return nil, err
		}
		return ToplevelRequest{Client: ids.ClientId(client), Toplevel: ids.XdgToplevelId(toplevel), Option: opt}, nil
	case reqPopup:
		client, err := r.U32()
		if err != nil {
			return nil, err
		}
		popup, err := r.U32()
		if err != nil {
			return nil, err
		}
		opt, err := readPopupOption(r)
		if err != nil {
			return nil, err
		}
		return PopupRequest{Client: ids.ClientId(client), Popup: ids.XdgPopupId(popup), Option: opt}, nil
	case reqData:
		return readDataRequest(r)
	case reqClientDisconnected:
		client, err := r.U32()
		if err != nil {
			return nil, err
		}
		return ClientDisconnected{Client: ids.ClientId(client)}, nil
	case reqCapabilities:
		xwayland, err := r.Bool()
		if err != nil {
			return nil, err
		}
		return Capabilities{Xwayland: xwayland}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown Request tag %d", tag)
	}
}

const (
	evtClientConnect = 0
	evtOutput        = 1
	evtPointerFrame  = 2
	evtKeyboard      = 3
	evtToplevel      = 4
	evtPopup         = 5
	evtData          = 6
	evtSurface       = 7
)

// EncodeEvent writes a client→server Event.
func EncodeEvent(w *wire.Writer, ev Event) error {
	switch v := ev.(type) {
	case WprsClientConnect:
		return w.WriteU8(evtClientConnect)
	case OutputEvent:
		if err := w.WriteU8(evtOutput); err != nil {
			return err
		}
		return writeOutputEventKind(w, v.Kind)
	case PointerFrame:
		if err := w.WriteU8(evtPointerFrame); err != nil {
			return err
		}
		return writePointerFrame(w, v)
	case KeyboardEvent:
		if err := w.WriteU8(evtKeyboard); err != nil {
			return err
		}
		return writeKeyboardEvent(w, v)
	case ToplevelEvent:
		if err := w.WriteU8(evtToplevel); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Toplevel)); err != nil {
			return err
		}
		return writeToplevelEventKind(w, v.Kind)
	case PopupEvent:
		if err := w.WriteU8(evtPopup); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Popup)); err != nil {
			return err
		}
		return writePopupEventKind(w, v.Kind)
	case DataEvent:
		if err := w.WriteU8(evtData); err != nil {
			return err
		}
		return writeDataEvent(w, v)
	case SurfaceEvent:
		if err := w.WriteU8(evtSurface); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Surface)); err != nil {
			return err
		}
		return writeSurfaceEventKind(w, v.Kind)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown Event %T", ev)
	}
}

// DecodeEvent reads an Event written by EncodeEvent.
func DecodeEvent(r *wire.Reader) (Event, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case evtClientConnect:
		return WprsClientConnect{}, nil
	case evtOutput:
		kind, err := readOutputEventKind(r)
		if err != nil {
			return nil, err
		}
		return OutputEvent{Kind: kind}, nil
	case evtPointerFrame:
		return readPointerFrame(r)
	case evtKeyboard:
		return readKeyboardEvent(r)
	case evtToplevel:
		toplevel, err := r.U32()
		if err != nil {
			return nil, err
		}
		kind, err := readToplevelEventKind(r)
		if err != nil {
			return nil, err
		}
		return ToplevelEvent{Toplevel: ids.XdgToplevelId(toplevel), Kind: kind}, nil
	case evtPopup:
		popup, err := r.U32()
		if err != nil {
			return nil, err
		}
		kind, err := readPopupEventKind(r)
		if err != nil {
			return nil, err
		}
		return PopupEvent{Popup: ids.XdgPopupId(popup), Kind: kind}, nil
	case evtData:
		return readDataEvent(r)
	case evtSurface:
		surface, err := r.U32()
		if err != nil {
			return nil, err
		}
		kind, err := readSurfaceEventKind(r)
		if err != nil {
			return nil, err
		}
		return SurfaceEvent{Surface: ids.WlSurfaceId(surface), Kind: kind}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown Event tag %d", tag)
	}
}
