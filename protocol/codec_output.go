package protocol

import "github.com/wprsproj/wprs/wire"

func writeOutputMode(w *wire.Writer, m OutputMode) error {
	if err := writeSize(w, m.Dimensions); err != nil {
		return err
	}
	if err := writeInt32(w, m.RefreshRate); err != nil {
		return err
	}
	if err := w.WriteBool(m.Current); err != nil {
		return err
	}
	return w.WriteBool(m.Preferred)
}

func readOutputMode(r *wire.Reader) (OutputMode, error) {
	var m OutputMode
	var err error
	if m.Dimensions, err = readSize(r); err != nil {
		return m, err
	}
	if m.RefreshRate, err = readInt32(r); err != nil {
		return m, err
	}
	if m.Current, err = r.Bool(); err != nil {
		return m, err
	}
	if m.Preferred, err = r.Bool(); err != nil {
		return m, err
	}
	return m, nil
}

// EncodeOutputInfo writes an OutputInfo.
func EncodeOutputInfo(w *wire.Writer, o OutputInfo) error {
	if err := w.WriteU32(uint32(o.Id >> 32)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(o.Id)); err != nil {
		return err
	}
	if err := w.WriteString(o.Model); err != nil {
		return err
	}
	if err := w.WriteString(o.Make); err != nil {
		return err
	}
	if err := writePoint(w, o.Location); err != nil {
		return err
	}
	if err := writeSize(w, o.PhysicalSize); err != nil {
		return err
	}
	if err := w.WriteU8(uint8(o.Subpixel)); err != nil {
		return err
	}
	if err := w.WriteU8(uint8(o.Transform)); err != nil {
		return err
	}
	if err := writeInt32(w, o.ScaleFactor); err != nil {
		return err
	}
	if err := w.WriteUsize(len(o.Modes)); err != nil {
		return err
	}
	for _, m := range o.Modes {
		if err := writeOutputMode(w, m); err != nil {
			return err
		}
	}
	if err := writeOptionalString(w, o.Name); err != nil {
		return err
	}
	return writeOptionalString(w, o.Description)
}

// DecodeOutputInfo reads an OutputInfo written by EncodeOutputInfo.
func DecodeOutputInfo(r *wire.Reader) (OutputInfo, error) {
	var o OutputInfo
	hi, err := r.U32()
	if err != nil {
		return o, err
	}
	lo, err := r.U32()
	if err != nil {
		return o, err
	}
	o.Id = uint64(hi)<<32 | uint64(lo)
	if o.Model, err = r.String(); err != nil {
		return o, err
	}
	if o.Make, err = r.String(); err != nil {
		return o, err
	}
	if o.Location, err = readPoint(r); err != nil {
		return o, err
	}
	if o.PhysicalSize, err = readSize(r); err != nil {
		return o, err
	}
	sp, err := r.U8()
	if err != nil {
		return o, err
	}
	o.Subpixel = Subpixel(sp)
	tr, err := r.U8()
	if err != nil {
		return o, err
	}
	o.Transform = Transform(tr)
	if o.ScaleFactor, err = readInt32(r); err != nil {
		return o, err
	}
	n, err := r.Usize()
	if err != nil {
		return o, err
	}
	o.Modes = make([]OutputMode, n)
	for i := range o.Modes {
		if o.Modes[i], err = readOutputMode(r); err != nil {
			return o, err
		}
	}
	if o.Name, err = readOptionalString(r); err != nil {
		return o, err
	}
	if o.Description, err = readOptionalString(r); err != nil {
		return o, err
	}
	return o, nil
}
