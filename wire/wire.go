// Package wire implements the fixed-layout binary encoding used both inside
// compressed payloads and for transport headers (spec.md §4.A): u8, bool,
// big-endian u32/usize, NonZeroUsize, and length-prefixed byte blocks and
// UTF-8 strings.
//
// Grounded on internal/squashfs/writer.go and reader.go, which hand-roll the
// same "fixed layout, big-endian, explicit length prefix" idiom per struct
// field; wire generalizes that into reusable Reader/Writer helpers instead of
// inlining binary.Read/Write at every call site.
package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/wprsproj/wprs/wprserr"
)

// Reader wraps an io.Reader with the primitive decoders spec.md §4.A names.
// Every method returns wprserr.Eof if the underlying reader returns io.EOF or
// io.ErrUnexpectedEOF mid-frame, and wprserr.BadData on malformed content.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

func (r *Reader) fill(buf []byte) error {
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return wprserr.Wrap(wprserr.Eof, "wire: reading %d bytes", len(buf))
		}
		return wprserr.Wrap(wprserr.Io, "wire: reading %d bytes", len(buf))
	}
	return nil
}

// U8 reads a single byte.
func (r *Reader) U8() (uint8, error) {
	var buf [1]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Bool reads a 1-byte boolean (0 = false, nonzero = true).
func (r *Reader) Bool() (bool, error) {
	b, err := r.U8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// U32 reads a 4-byte big-endian uint32.
func (r *Reader) U32() (uint32, error) {
	var buf [4]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// Usize reads a 4-byte big-endian length, capped at uint32 range.
func (r *Reader) Usize() (int, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// NonZeroUsize reads a 4-byte big-endian length and fails with BadData if it
// is zero.
func (r *Reader) NonZeroUsize() (int, error) {
	v, err := r.Usize()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, wprserr.Wrap(wprserr.BadData, "wire: NonZeroUsize read zero")
	}
	return v, nil
}

// Bytes reads a length-prefixed byte block.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Usize()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if n > 0 {
		if err := r.fill(buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// String reads a length-prefixed UTF-8 string, failing with BadData if the
// bytes are not valid UTF-8.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", wprserr.Wrap(wprserr.BadData, "wire: invalid UTF-8 string")
	}
	return string(b), nil
}

// Writer wraps an io.Writer (typically a *bufio.Writer) with the primitive
// encoders matching Reader.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) WriteU8(v uint8) error {
	_, err := w.w.Write([]byte{v})
	return err
}

func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.WriteU8(1)
	}
	return w.WriteU8(0)
}

func (w *Writer) WriteU32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.w.Write(buf[:])
	return err
}

func (w *Writer) WriteUsize(v int) error {
	return w.WriteU32(uint32(v))
}

func (w *Writer) WriteBytes(b []byte) error {
	if err := w.WriteUsize(len(b)); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	_, err := w.w.Write(b)
	return err
}

func (w *Writer) WriteString(s string) error {
	return w.WriteBytes([]byte(s))
}

// Flush flushes the underlying writer if it is a *bufio.Writer.
func (w *Writer) Flush() error {
	if bw, ok := w.w.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}
