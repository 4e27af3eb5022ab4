// Package protocol implements the closed set of messages spec.md §4.E
// specifies: surface state, roles, buffers, input, selection/DnD and output
// messages, plus the binary codec that frames them on the wire.
//
// The binary layout is hand-rolled length-prefixed encoding/binary, grounded
// on internal/squashfs/writer.go and reader.go's manual struct layout (the
// closest analogue in the teacher repo to spec.md §4.A's fixed big-endian
// framing) rather than a generated zero-copy format — see SPEC_FULL.md's
// domain-stack table for why google.golang.org/protobuf is still exercised,
// narrowly, for the schema-version hash.
package protocol

import (
	"reflect"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/shard"
)

// surfaceStateDeepEqual compares two SurfaceStates field-by-field. It uses
// reflect.DeepEqual, which is safe here because Buffer (the one field that
// can hold a *shard.Set with internal goroutine-owned state) is always
// cleared by callers before comparing.
func surfaceStateDeepEqual(a, b SurfaceState) bool {
	return reflect.DeepEqual(a, b)
}

// Point is an integer 2D coordinate, used for hotspots and subsurface
// positions.
type Point struct{ X, Y int32 }

// Size is an integer 2D extent.
type Size struct{ W, H int32 }

// Rect is an integer rectangle, used for damage and regions.
type Rect struct{ X, Y, W, H int32 }

// RectF64 is a floating-point rectangle, used for viewport source rects.
type RectF64 struct{ X, Y, W, H float64 }

// Region is an optional set of rectangles (opaque region, input region).
// A nil *Region means "not set"; a non-nil Region with zero Rects means an
// explicitly empty region.
type Region struct {
	Rects []Rect
}

// Transform is the eight-valued buffer transform enum (wl_output.transform).
type Transform uint8

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Format is the pixel format of a buffer. Only ARGB8888/XRGB8888 are
// accepted (spec.md §1 scope, §7 BufferFormat error).
type Format uint8

const (
	FormatArgb8888 Format = iota
	FormatXrgb8888
)

// BufferMetadata describes a buffer's dimensions and pixel layout.
type BufferMetadata struct {
	Width  int32
	Height int32
	Stride int32
	Format Format
}

// Len returns the buffer's uncompressed byte length (height * stride).
func (m BufferMetadata) Len() int { return int(m.Height) * int(m.Stride) }

// BufferDataKind tags the variant a BufferData holds.
type BufferDataKind uint8

const (
	// BufferExternal means the pixel bytes travel in a preceding RawBuffer
	// message; the commit references them positionally.
	BufferExternal BufferDataKind = iota
	// BufferUncompressed carries the pixel bytes inline, in 4-plane SoA
	// layout (the pixelfilter package's Planes.Bytes() layout).
	BufferUncompressed
	// BufferCompressed carries a reference to a shard set.
	BufferCompressed
	// BufferRemoved means the surface's buffer was detached.
	BufferRemoved
)

// BufferData is one of External, Uncompressed(bytes), Compressed(shards), or
// Removed (spec.md §3). The Compressed variant shares its *shard.Set by
// pointer — Go's garbage collector keeping the set alive for as long as any
// holder (the surface record, an in-flight writer message) references it is
// the idiomatic stand-in for the spec's reference-counted handle; no manual
// refcount type is needed.
type BufferData struct {
	Kind         BufferDataKind
	Uncompressed []byte
	Compressed   *shard.Set
}

// BufferAssignment pairs a buffer's metadata with its data. A nil
// *BufferAssignment on a SurfaceState means "no new buffer this commit"
// (spec.md §3's optional BufferAssignment).
type BufferAssignment struct {
	Metadata BufferMetadata
	Data     BufferData
}

// SubsurfacePosition gives one child's z-order slot and relative position
// within its parent's child list. Per spec.md §3, a surface's own child list
// always contains a sentinel entry for the surface itself.
type SubsurfacePosition struct {
	Id ids.WlSurfaceId
	X  int32
	Y  int32
}

// ViewportState is the optional wp_viewporter state for a surface. A nil
// *ViewportState means "no viewport" (spec.md §4.G).
type ViewportState struct {
	Src *RectF64 // nil: no source rect (crop)
	Dst *Size    // nil: no destination size (scale)
}

// DecorationMode is whether the compositor or the client draws the window
// frame.
type DecorationMode uint8

const (
	DecorationClient DecorationMode = iota
	DecorationServer
)

// DecorationSource records whether the current DecorationMode came from the
// compositor's default or an explicit client request (added: supplements
// spec.md §4.G from original_source/src/xwayland_xdg_shell/decoration.rs,
// so a later explicit client request can override a compositor default
// without a subsequent compositor default flapping it back).
type DecorationSource uint8

const (
	DecorationSourceCompositorDefault DecorationSource = iota
	DecorationSourceClientRequested
)

// XdgSurfaceState carries the xdg_surface-level geometry that accompanies a
// toplevel or popup role.
type XdgSurfaceState struct {
	WindowGeometry *Rect
	MinSize        *Size
	MaxSize        *Size
}

// SurfaceState is the full committed state of one surface (spec.md §3).
type SurfaceState struct {
	Client  ids.ClientId
	Surface ids.WlSurfaceId

	Buffer *BufferAssignment

	Role Role

	BufferScale     int32
	BufferTransform *Transform

	OpaqueRegion *Region
	InputRegion  *Region

	// Children is the z-ordered list of subsurfaces, including a sentinel
	// entry for Surface itself at its own z-position.
	Children []SubsurfacePosition

	Damage []Rect

	Outputs []uint64

	Viewport *ViewportState

	Xdg *XdgSurfaceState
}

// Clone returns a deep-enough copy of s suitable for producing a
// send-snapshot that can be mutated (e.g. externalizing its buffer) without
// aliasing the stored authoritative state.
func (s SurfaceState) Clone() SurfaceState {
	c := s
	if s.Buffer != nil {
		b := *s.Buffer
		c.Buffer = &b
	}
	if s.BufferTransform != nil {
		t := *s.BufferTransform
		c.BufferTransform = &t
	}
	if s.OpaqueRegion != nil {
		r := Region{Rects: append([]Rect(nil), s.OpaqueRegion.Rects...)}
		c.OpaqueRegion = &r
	}
	if s.InputRegion != nil {
		r := Region{Rects: append([]Rect(nil), s.InputRegion.Rects...)}
		c.InputRegion = &r
	}
	c.Children = append([]SubsurfacePosition(nil), s.Children...)
	c.Damage = append([]Rect(nil), s.Damage...)
	c.Outputs = append([]uint64(nil), s.Outputs...)
	if s.Viewport != nil {
		v := *s.Viewport
		c.Viewport = &v
	}
	if s.Xdg != nil {
		x := *s.Xdg
		c.Xdg = &x
	}
	return c
}

// EqualIgnoringBuffer reports whether a and b are equal ignoring their
// Buffer field, used by the commit engine's dirty test (spec.md §4.G step 5).
func (s SurfaceState) EqualIgnoringBuffer(o SurfaceState) bool {
	a := s
	b := o
	a.Buffer = nil
	b.Buffer = nil
	return surfaceStateDeepEqual(a, b)
}

// Subpixel is the wl_output subpixel layout hint.
type Subpixel uint8

const (
	SubpixelUnknown Subpixel = iota
	SubpixelNone
	SubpixelHorizontalRGB
	SubpixelHorizontalBGR
	SubpixelVerticalRGB
	SubpixelVerticalBGR
)

// OutputMode is one advertised mode of an output.
type OutputMode struct {
	Dimensions  Size
	RefreshRate int32 // mHz
	Current     bool
	Preferred   bool
}

// OutputInfo describes one output (spec.md §3).
type OutputInfo struct {
	Id           uint64
	Model        string
	Make         string
	Location     Point
	PhysicalSize Size
	Subpixel     Subpixel
	Transform    Transform
	ScaleFactor  int32
	Modes        []OutputMode
	Name         *string
	Description  *string
}
