package protocol

import (
	"math"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/shard"
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

// --- small shared helpers -------------------------------------------------

func writeInt32(w *wire.Writer, v int32) error { return w.WriteU32(uint32(v)) }

func readInt32(r *wire.Reader) (int32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func writeFloat64(w *wire.Writer, v float64) error {
	bits := math.Float64bits(v)
	if err := w.WriteU32(uint32(bits >> 32)); err != nil {
		return err
	}
	return w.WriteU32(uint32(bits))
}

func readFloat64(r *wire.Reader) (float64, error) {
	hi, err := r.U32()
	if err != nil {
		return 0, err
	}
	lo, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(hi)<<32 | uint64(lo)), nil
}

func writePresence(w *wire.Writer, present bool) error { return w.WriteBool(present) }

func writeOptionalString(w *wire.Writer, s *string) error {
	if err := writePresence(w, s != nil); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	return w.WriteString(*s)
}

func readOptionalString(r *wire.Reader) (*string, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	s, err := r.String()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func writeStringList(w *wire.Writer, ss []string) error {
	if err := w.WriteUsize(len(ss)); err != nil {
		return err
	}
	for _, s := range ss {
		if err := w.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func readStringList(r *wire.Reader) ([]string, error) {
	n, err := r.Usize()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = r.String(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeU32List(w *wire.Writer, vs []uint32) error {
	if err := w.WriteUsize(len(vs)); err != nil {
		return err
	}
	for _, v := range vs {
		if err := w.WriteU32(v); err != nil {
			return err
		}
	}
	return nil
}

func readU32List(r *wire.Reader) ([]uint32, error) {
	n, err := r.Usize()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		v, err := r.U32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func writeU64List(w *wire.Writer, vs []uint64) error {
	if err := w.WriteUsize(len(vs)); err != nil {
		return err
	}
	for _, v := range vs {
		if err := w.WriteU32(uint32(v >> 32)); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(v)); err != nil {
			return err
		}
	}
	return nil
}

func readU64List(r *wire.Reader) ([]uint64, error) {
	n, err := r.Usize()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // empty lists decode as nil, as SurfaceState.Clone stores them
	}
	out := make([]uint64, n)
	for i := range out {
		hi, err := r.U32()
		if err != nil {
			return nil, err
		}
		lo, err := r.U32()
		if err != nil {
			return nil, err
		}
		out[i] = uint64(hi)<<32 | uint64(lo)
	}
	return out, nil
}

func writeRect(w *wire.Writer, r Rect) error {
	for _, v := range [4]int32{r.X, r.Y, r.W, r.H} {
		if err := writeInt32(w, v); err != nil {
			return err
		}
	}
	return nil
}

func readRect(r *wire.Reader) (Rect, error) {
	var vals [4]int32
	for i := range vals {
		v, err := readInt32(r)
		if err != nil {
			return Rect{}, err
		}
		vals[i] = v
	}
	return Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}

func writeRectList(w *wire.Writer, rs []Rect) error {
	if err := w.WriteUsize(len(rs)); err != nil {
		return err
	}
	for _, rect := range rs {
		if err := writeRect(w, rect); err != nil {
			return err
		}
	}
	return nil
}

func readRectList(r *wire.Reader) ([]Rect, error) {
	n, err := r.Usize()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // empty lists decode as nil, as SurfaceState.Clone stores them
	}
	out := make([]Rect, n)
	for i := range out {
		if out[i], err = readRect(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeSize(w *wire.Writer, s Size) error {
	if err := writeInt32(w, s.W); err != nil {
		return err
	}
	return writeInt32(w, s.H)
}

func readSize(r *wire.Reader) (Size, error) {
	wd, err := readInt32(r)
	if err != nil {
		return Size{}, err
	}
	ht, err := readInt32(r)
	if err != nil {
		return Size{}, err
	}
	return Size{W: wd, H: ht}, nil
}

func writePoint(w *wire.Writer, p Point) error {
	if err := writeInt32(w, p.X); err != nil {
		return err
	}
	return writeInt32(w, p.Y)
}

func readPoint(r *wire.Reader) (Point, error) {
	x, err := readInt32(r)
	if err != nil {
		return Point{}, err
	}
	y, err := readInt32(r)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func writeOptionalSize(w *wire.Writer, s *Size) error {
	if err := writePresence(w, s != nil); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	return writeSize(w, *s)
}

func readOptionalSize(r *wire.Reader) (*Size, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	s, err := readSize(r)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func writeOptionalRect(w *wire.Writer, rect *Rect) error {
	if err := writePresence(w, rect != nil); err != nil {
		return err
	}
	if rect == nil {
		return nil
	}
	return writeRect(w, *rect)
}

func readOptionalRect(r *wire.Reader) (*Rect, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	rect, err := readRect(r)
	if err != nil {
		return nil, err
	}
	return &rect, nil
}

func writeRegion(w *wire.Writer, reg *Region) error {
	if err := writePresence(w, reg != nil); err != nil {
		return err
	}
	if reg == nil {
		return nil
	}
	return writeRectList(w, reg.Rects)
}

func readRegion(r *wire.Reader) (*Region, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	rects, err := readRectList(r)
	if err != nil {
		return nil, err
	}
	return &Region{Rects: rects}, nil
}

func writeViewport(w *wire.Writer, v *ViewportState) error {
	if err := writePresence(w, v != nil); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := writePresence(w, v.Src != nil); err != nil {
		return err
	}
	if v.Src != nil {
		for _, f := range [4]float64{v.Src.X, v.Src.Y, v.Src.W, v.Src.H} {
			if err := writeFloat64(w, f); err != nil {
				return err
			}
		}
	}
	return writeOptionalSize(w, v.Dst)
}

func readViewport(r *wire.Reader) (*ViewportState, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	var vs ViewportState
	srcPresent, err := r.Bool()
	if err != nil {
		return nil, err
	}
	if srcPresent {
		var vals [4]float64
		for i := range vals {
			if vals[i], err = readFloat64(r); err != nil {
				return nil, err
			}
		}
		vs.Src = &RectF64{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
	}
	if vs.Dst, err = readOptionalSize(r); err != nil {
		return nil, err
	}
	return &vs, nil
}

func writeXdgSurfaceState(w *wire.Writer, x *XdgSurfaceState) error {
	if err := writePresence(w, x != nil); err != nil {
		return err
	}
	if x == nil {
		return nil
	}
	if err := writeOptionalRect(w, x.WindowGeometry); err != nil {
		return err
	}
	if err := writeOptionalSize(w, x.MinSize); err != nil {
		return err
	}
	return writeOptionalSize(w, x.MaxSize)
}

func readXdgSurfaceState(r *wire.Reader) (*XdgSurfaceState, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	var x XdgSurfaceState
	if x.WindowGeometry, err = readOptionalRect(r); err != nil {
		return nil, err
	}
	if x.MinSize, err = readOptionalSize(r); err != nil {
		return nil, err
	}
	if x.MaxSize, err = readOptionalSize(r); err != nil {
		return nil, err
	}
	return &x, nil
}

func writeBufferMetadata(w *wire.Writer, m BufferMetadata) error {
	if err := writeInt32(w, m.Width); err != nil {
		return err
	}
	if err := writeInt32(w, m.Height); err != nil {
		return err
	}
	if err := writeInt32(w, m.Stride); err != nil {
		return err
	}
	return w.WriteU8(uint8(m.Format))
}

func readBufferMetadata(r *wire.Reader) (BufferMetadata, error) {
	width, err := readInt32(r)
	if err != nil {
		return BufferMetadata{}, err
	}
	height, err := readInt32(r)
	if err != nil {
		return BufferMetadata{}, err
	}
	stride, err := readInt32(r)
	if err != nil {
		return BufferMetadata{}, err
	}
	formatByte, err := r.U8()
	if err != nil {
		return BufferMetadata{}, err
	}
	if formatByte != uint8(FormatArgb8888) && formatByte != uint8(FormatXrgb8888) {
		return BufferMetadata{}, wprserr.Wrap(wprserr.BufferFormat, "protocol: unknown buffer format byte %d", formatByte)
	}
	return BufferMetadata{Width: width, Height: height, Stride: stride, Format: Format(formatByte)}, nil
}

func writeBufferData(w *wire.Writer, d BufferData) error {
	if err := w.WriteU8(uint8(d.Kind)); err != nil {
		return err
	}
	switch d.Kind {
	case BufferExternal, BufferRemoved:
		return nil
	case BufferUncompressed:
		return w.WriteBytes(d.Uncompressed)
	case BufferCompressed:
		if d.Compressed == nil {
			return wprserr.Wrap(wprserr.BadData, "protocol: Compressed buffer data with nil shard set")
		}
		return d.Compressed.Encode(w)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown buffer data kind %d", d.Kind)
	}
}

func readBufferData(r *wire.Reader) (BufferData, error) {
	kindByte, err := r.U8()
	if err != nil {
		return BufferData{}, err
	}
	kind := BufferDataKind(kindByte)
	switch kind {
	case BufferExternal, BufferRemoved:
		return BufferData{Kind: kind}, nil
	case BufferUncompressed:
		b, err := r.Bytes()
		if err != nil {
			return BufferData{}, err
		}
		return BufferData{Kind: kind, Uncompressed: b}, nil
	case BufferCompressed:
		set, err := shard.Decode(r)
		if err != nil {
			return BufferData{}, err
		}
		return BufferData{Kind: kind, Compressed: &set}, nil
	default:
		return BufferData{}, wprserr.Wrap(wprserr.BadData, "protocol: unknown buffer data tag %d", kindByte)
	}
}

func writeBufferAssignment(w *wire.Writer, b *BufferAssignment) error {
	if err := writePresence(w, b != nil); err != nil {
		return err
	}
	if b == nil {
		return nil
	}
	if err := writeBufferMetadata(w, b.Metadata); err != nil {
		return err
	}
	return writeBufferData(w, b.Data)
}

func readBufferAssignment(r *wire.Reader) (*BufferAssignment, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	md, err := readBufferMetadata(r)
	if err != nil {
		return nil, err
	}
	data, err := readBufferData(r)
	if err != nil {
		return nil, err
	}
	return &BufferAssignment{Metadata: md, Data: data}, nil
}

func writeTransform(w *wire.Writer, t *Transform) error {
	if err := writePresence(w, t != nil); err != nil {
		return err
	}
	if t == nil {
		return nil
	}
	return w.WriteU8(uint8(*t))
}

func readTransform(r *wire.Reader) (*Transform, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return nil, err
	}
	b, err := r.U8()
	if err != nil {
		return nil, err
	}
	t := Transform(b)
	return &t, nil
}

func writeSubsurfacePositions(w *wire.Writer, ps []SubsurfacePosition) error {
	if err := w.WriteUsize(len(ps)); err != nil {
		return err
	}
	for _, p := range ps {
		if err := w.WriteU32(uint32(p.Id)); err != nil {
			return err
		}
		if err := writeInt32(w, p.X); err != nil {
			return err
		}
		if err := writeInt32(w, p.Y); err != nil {
			return err
		}
	}
	return nil
}

func readSubsurfacePositions(r *wire.Reader) ([]SubsurfacePosition, error) {
	n, err := r.Usize()
	if err != nil {
		return nil, err
	}
	out := make([]SubsurfacePosition, n)
	for i := range out {
		id, err := r.U32()
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
		out[i] = SubsurfacePosition{Id: ids.WlSurfaceId(id), X: x, Y: y}
	}
	return out, nil
}

func writeSerial(w *wire.Writer, s Serial) error { return w.WriteU32(uint32(s)) }

func readSerial(r *wire.Reader) (Serial, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return Serial(v), nil
}
