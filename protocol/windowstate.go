package protocol

// WindowState is the toplevel windowing-state bitfield (spec.md §4.E), a
// plain uint16 with fixed bit positions so FromBits/Bits is a trivial,
// lossless identity — including for any bits a future compositor sets that
// this version of the schema does not yet name.
type WindowState uint16

const (
	WindowStateMaximized    WindowState = 0x0001
	WindowStateFullscreen   WindowState = 0x0002
	WindowStateResizing     WindowState = 0x0004
	WindowStateActivated    WindowState = 0x0008
	WindowStateTiledLeft    WindowState = 0x0010
	WindowStateTiledRight   WindowState = 0x0020
	WindowStateTiledTop     WindowState = 0x0040
	WindowStateTiledBottom  WindowState = 0x0080
)

// WindowStateFromBits constructs a WindowState from a raw bitfield.
func WindowStateFromBits(bits uint16) WindowState { return WindowState(bits) }

// Bits returns the raw bitfield.
func (w WindowState) Bits() uint16 { return uint16(w) }

func (w WindowState) Has(bit WindowState) bool { return w&bit != 0 }

func (w WindowState) Set(bit WindowState) WindowState   { return w | bit }
func (w WindowState) Clear(bit WindowState) WindowState { return w &^ bit }
