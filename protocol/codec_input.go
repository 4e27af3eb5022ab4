package protocol

import (
	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

func writeAxisScroll(w *wire.Writer, a AxisScroll) error {
	if err := writeFloat64(w, a.Absolute); err != nil {
		return err
	}
	if err := writeInt32(w, a.Discrete); err != nil {
		return err
	}
	return w.WriteBool(a.Stop)
}

func readAxisScroll(r *wire.Reader) (AxisScroll, error) {
	var a AxisScroll
	var err error
	if a.Absolute, err = readFloat64(r); err != nil {
		return a, err
	}
	if a.Discrete, err = readInt32(r); err != nil {
		return a, err
	}
	if a.Stop, err = r.Bool(); err != nil {
		return a, err
	}
	return a, nil
}

func writeOptionalAxisSource(w *wire.Writer, s *AxisSource) error {
	if err := writePresence(w, s != nil); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	return w.WriteU8(uint8(*s))
}

func readOptionalAxisSource(r *wire.Reader) (*AxisSource, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	b, err := r.U8()
	if err != nil {
		return nil, err
	}
	s := AxisSource(b)
	return &s, nil
}

const (
	pointerEnter   = 0
	pointerLeave   = 1
	pointerMotion  = 2
	pointerPress   = 3
	pointerRelease = 4
	pointerAxis    = 5
)

func writePointerEventKind(w *wire.Writer, k PointerEventKind) error {
	switch v := k.(type) {
	case PointerEnter:
		if err := w.WriteU8(pointerEnter); err != nil {
			return err
		}
		return writeSerial(w, v.Serial)
	case PointerLeave:
		if err := w.WriteU8(pointerLeave); err != nil {
			return err
		}
		return writeSerial(w, v.Serial)
	case PointerMotion:
		if err := w.WriteU8(pointerMotion); err != nil {
			return err
		}
		if err := writeFloat64(w, v.X); err != nil {
			return err
		}
		return writeFloat64(w, v.Y)
	case PointerPress:
		if err := w.WriteU8(pointerPress); err != nil {
			return err
		}
		if err := writeSerial(w, v.Serial); err != nil {
			return err
		}
		return w.WriteU32(v.Button)
	case PointerRelease:
		if err := w.WriteU8(pointerRelease); err != nil {
			return err
		}
		if err := writeSerial(w, v.Serial); err != nil {
			return err
		}
		return w.WriteU32(v.Button)
	case PointerAxis:
		if err := w.WriteU8(pointerAxis); err != nil {
			return err
		}
		if err := writeAxisScroll(w, v.Horizontal); err != nil {
			return err
		}
		if err := writeAxisScroll(w, v.Vertical); err != nil {
			return err
		}
		return writeOptionalAxisSource(w, v.Source)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown PointerEventKind %T", k)
	}
}

func readPointerEventKind(r *wire.Reader) (PointerEventKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case pointerEnter:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		return PointerEnter{Serial: s}, nil
	case pointerLeave:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		return PointerLeave{Serial: s}, nil
	case pointerMotion:
		x, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		y, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		return PointerMotion{X: x, Y: y}, nil
	case pointerPress:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		b, err := r.U32()
		if err != nil {
			return nil, err
		}
		return PointerPress{Serial: s, Button: b}, nil
	case pointerRelease:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		b, err := r.U32()
		if err != nil {
			return nil, err
		}
		return PointerRelease{Serial: s, Button: b}, nil
	case pointerAxis:
		h, err := readAxisScroll(r)
		if err != nil {
			return nil, err
		}
		v, err := readAxisScroll(r)
		if err != nil {
			return nil, err
		}
		src, err := readOptionalAxisSource(r)
		if err != nil {
			return nil, err
		}
		return PointerAxis{Horizontal: h, Vertical: v, Source: src}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown PointerEventKind tag %d", tag)
	}
}

func writePointerEvent(w *wire.Writer, e PointerEvent) error {
	if err := w.WriteU32(uint32(e.Surface)); err != nil {
		return err
	}
	return writePointerEventKind(w, e.Kind)
}

func readPointerEvent(r *wire.Reader) (PointerEvent, error) {
	surface, err := r.U32()
	if err != nil {
		return PointerEvent{}, err
	}
	kind, err := readPointerEventKind(r)
	if err != nil {
		return PointerEvent{}, err
	}
	return PointerEvent{Surface: ids.WlSurfaceId(surface), Kind: kind}, nil
}

func writePointerFrame(w *wire.Writer, f PointerFrame) error {
	if err := w.WriteUsize(len(f.Events)); err != nil {
		return err
	}
	for _, e := range f.Events {
		if err := writePointerEvent(w, e); err != nil {
			return err
		}
	}
	return nil
}

func readPointerFrame(r *wire.Reader) (PointerFrame, error) {
	n, err := r.Usize()
	if err != nil {
		return PointerFrame{}, err
	}
	events := make([]PointerEvent, n)
	for i := range events {
		if events[i], err = readPointerEvent(r); err != nil {
			return PointerFrame{}, err
		}
	}
	return PointerFrame{Events: events}, nil
}

func writeRepeatInfo(w *wire.Writer, ri RepeatInfo) error {
	if err := w.WriteBool(ri.Disabled); err != nil {
		return err
	}
	if err := writeInt32(w, ri.Rate); err != nil {
		return err
	}
	return writeInt32(w, ri.Delay)
}

func readRepeatInfo(r *wire.Reader) (RepeatInfo, error) {
	var ri RepeatInfo
	var err error
	if ri.Disabled, err = r.Bool(); err != nil {
		return ri, err
	}
	if ri.Rate, err = readInt32(r); err != nil {
		return ri, err
	}
	if ri.Delay, err = readInt32(r); err != nil {
		return ri, err
	}
	return ri, nil
}

const (
	keyboardEnter       = 0
	keyboardLeave       = 1
	keyboardKey         = 2
	keyboardRepeatInfo  = 3
	keyboardKeymap      = 4
	keyboardModifiers   = 5
)

func writeKeyboardEventKind(w *wire.Writer, k KeyboardEventKind) error {
	switch v := k.(type) {
	case KeyboardEnter:
		if err := w.WriteU8(keyboardEnter); err != nil {
			return err
		}
		if err := writeSerial(w, v.Serial); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v.Surface)); err != nil {
			return err
		}
		if err := writeU32List(w, v.Keycodes); err != nil {
			return err
		}
		return writeU32List(w, v.Keysyms)
	case KeyboardLeave:
		if err := w.WriteU8(keyboardLeave); err != nil {
			return err
		}
		return writeSerial(w, v.Serial)
	case KeyboardKey:
		if err := w.WriteU8(keyboardKey); err != nil {
			return err
		}
		if err := writeSerial(w, v.Serial); err != nil {
			return err
		}
		if err := w.WriteU32(v.RawCode); err != nil {
			return err
		}
		return w.WriteU8(uint8(v.State))
	case KeyboardRepeatInfo:
		if err := w.WriteU8(keyboardRepeatInfo); err != nil {
			return err
		}
		return writeRepeatInfo(w, v.Info)
	case KeyboardKeymap:
		if err := w.WriteU8(keyboardKeymap); err != nil {
			return err
		}
		return w.WriteString(v.Keymap)
	case KeyboardModifiers:
		if err := w.WriteU8(keyboardModifiers); err != nil {
			return err
		}
		if err := w.WriteU32(v.State); err != nil {
			return err
		}
		return w.WriteU32(v.LayoutIndex)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown KeyboardEventKind %T", k)
	}
}

func readKeyboardEventKind(r *wire.Reader) (KeyboardEventKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case keyboardEnter:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		surface, err := r.U32()
		if err != nil {
			return nil, err
		}
		codes, err := readU32List(r)
		if err != nil {
			return nil, err
		}
		syms, err := readU32List(r)
		if err != nil {
			return nil, err
		}
		return KeyboardEnter{Serial: s, Surface: ids.WlSurfaceId(surface), Keycodes: codes, Keysyms: syms}, nil
	case keyboardLeave:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		return KeyboardLeave{Serial: s}, nil
	case keyboardKey:
		s, err := readSerial(r)
		if err != nil {
			return nil, err
		}
		raw, err := r.U32()
		if err != nil {
			return nil, err
		}
		state, err := r.U8()
		if err != nil {
			return nil, err
		}
		return KeyboardKey{Serial: s, RawCode: raw, State: KeyState(state)}, nil
	case keyboardRepeatInfo:
		ri, err := readRepeatInfo(r)
		if err != nil {
			return nil, err
		}
		return KeyboardRepeatInfo{Info: ri}, nil
	case keyboardKeymap:
		km, err := r.String()
		if err != nil {
			return nil, err
		}
		return KeyboardKeymap{Keymap: km}, nil
	case keyboardModifiers:
		state, err := r.U32()
		if err != nil {
			return nil, err
		}
		layout, err := r.U32()
		if err != nil {
			return nil, err
		}
		return KeyboardModifiers{State: state, LayoutIndex: layout}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown KeyboardEventKind tag %d", tag)
	}
}

func writeKeyboardEvent(w *wire.Writer, e KeyboardEvent) error {
	return writeKeyboardEventKind(w, e.Kind)
}

func readKeyboardEvent(r *wire.Reader) (KeyboardEvent, error) {
	kind, err := readKeyboardEventKind(r)
	if err != nil {
		return KeyboardEvent{}, err
	}
	return KeyboardEvent{Kind: kind}, nil
}
