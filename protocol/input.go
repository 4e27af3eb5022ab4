package protocol

import "github.com/wprsproj/wprs/ids"

// Serial is a monotonic token attaching an input event to a later request
// that references it (grab, move/resize, cursor image).
type Serial uint32

// AxisSource is the scroll source hint (wl_pointer.axis_source).
type AxisSource uint8

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
	AxisSourceWheelTilt
)

// AxisScroll is one scroll axis' state within a PointerEventKind.Axis event.
type AxisScroll struct {
	Absolute float64
	Discrete int32
	Stop     bool
}

// PointerEventKind is the tagged union of pointer sub-events.
type PointerEventKind interface {
	isPointerEventKind()
}

type PointerEnter struct{ Serial Serial }
type PointerLeave struct{ Serial Serial }
type PointerMotion struct{ X, Y float64 }
type PointerPress struct {
	Serial Serial
	Button uint32
}
type PointerRelease struct {
	Serial Serial
	Button uint32
}
type PointerAxis struct {
	Horizontal AxisScroll
	Vertical   AxisScroll
	Source     *AxisSource
}

func (PointerEnter) isPointerEventKind()   {}
func (PointerLeave) isPointerEventKind()   {}
func (PointerMotion) isPointerEventKind()  {}
func (PointerPress) isPointerEventKind()   {}
func (PointerRelease) isPointerEventKind() {}
func (PointerAxis) isPointerEventKind()    {}

// PointerEvent pairs a pointer sub-event with the surface it targets. A
// single wl_pointer frame's worth of PointerEvents travels together as one
// Event.PointerFrame batch — never split (spec.md §5).
type PointerEvent struct {
	Surface ids.WlSurfaceId
	Kind    PointerEventKind
}

// KeyState is a key's transition.
type KeyState uint8

const (
	KeyReleased KeyState = iota
	KeyPressed
	KeyRepeated
)

// RepeatInfo is either a repeat rate/delay or a request to disable repeat.
type RepeatInfo struct {
	Disabled bool
	Rate     int32
	Delay    int32
}

// KeyboardEventKind is the tagged union of keyboard sub-events.
type KeyboardEventKind interface {
	isKeyboardEventKind()
}

type KeyboardEnter struct {
	Serial   Serial
	Surface  ids.WlSurfaceId
	Keycodes []uint32
	Keysyms  []uint32
}
type KeyboardLeave struct{ Serial Serial }
type KeyboardKey struct {
	Serial  Serial
	RawCode uint32
	State   KeyState
}
type KeyboardRepeatInfo struct{ Info RepeatInfo }
type KeyboardKeymap struct{ Keymap string }
type KeyboardModifiers struct {
	State       uint32
	LayoutIndex uint32
}

func (KeyboardEnter) isKeyboardEventKind()      {}
func (KeyboardLeave) isKeyboardEventKind()      {}
func (KeyboardKey) isKeyboardEventKind()        {}
func (KeyboardRepeatInfo) isKeyboardEventKind() {}
func (KeyboardKeymap) isKeyboardEventKind()     {}
func (KeyboardModifiers) isKeyboardEventKind()  {}

// KeyboardEvent is the keyboard sub-event envelope.
type KeyboardEvent struct {
	Kind KeyboardEventKind
}
