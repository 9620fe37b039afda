package encodbin

import (
	"fmt"
	"io"
)

// Marshaler is implemented by any packed account or instruction payload that
// knows how to write itself field by field. Types implement this explicitly
// rather than relying on struct-tag reflection, so that the wire layout is
// always exactly what the code says it is.
type Marshaler interface {
	MarshalWithEncoder(enc *Encoder) error
}

// Encoder writes packed, fixed little-endian fields to an underlying writer.
// It keeps no buffering of its own beyond what io.Writer provides, and it
// never pads or aligns fields: callers are responsible for writing fields in
// the exact order and width the account layout requires.
type Encoder struct {
	w     io.Writer
	count int
}

func NewBinEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Written() int {
	return e.count
}

func (e *Encoder) writeBytes(b []byte) error {
	n, err := e.w.Write(b)
	e.count += n
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("encodbin: short write, wrote %d of %d bytes", n, len(b))
	}
	return nil
}

func (e *Encoder) WriteBool(v bool) error {
	if v {
		return e.WriteUint8(1)
	}
	return e.WriteUint8(0)
}

func (e *Encoder) WriteUint8(v uint8) error {
	return e.writeBytes([]byte{v})
}

func (e *Encoder) WriteUint16(v uint16) error {
	buf := make([]byte, 2)
	LE.PutUint16(buf, v)
	return e.writeBytes(buf)
}

func (e *Encoder) WriteUint32(v uint32) error {
	buf := make([]byte, 4)
	LE.PutUint32(buf, v)
	return e.writeBytes(buf)
}

func (e *Encoder) WriteUint64(v uint64) error {
	buf := make([]byte, 8)
	LE.PutUint64(buf, v)
	return e.writeBytes(buf)
}

func (e *Encoder) WriteInt64(v int64) error {
	return e.WriteUint64(uint64(v))
}

// WritePubkey writes a raw 32-byte address with no length prefix, matching
// how a SolPubkey is embedded directly in packed account data.
func (e *Encoder) WritePubkey(pk [32]byte) error {
	return e.writeBytes(pk[:])
}

// WriteFixedBytes writes exactly n bytes, zero-padding or truncating the
// source so the field always occupies a fixed width in the layout.
func (e *Encoder) WriteFixedBytes(src []byte, n int) error {
	buf := make([]byte, n)
	copy(buf, src)
	return e.writeBytes(buf)
}

// WriteBytes writes raw bytes with no length prefix and no padding.
func (e *Encoder) WriteBytes(b []byte) error {
	return e.writeBytes(b)
}

// WriteRustString writes a borsh/std-style length-prefixed UTF-8 string:
// a little-endian uint32 byte length followed by the raw bytes.
func (e *Encoder) WriteRustString(s string) error {
	if err := e.WriteUint32(uint32(len(s))); err != nil {
		return err
	}
	return e.writeBytes([]byte(s))
}

func (e *Encoder) Encode(v Marshaler) error {
	return v.MarshalWithEncoder(e)
}

func MarshalBin(v Marshaler) ([]byte, error) {
	buf := &sliceWriter{}
	if err := NewBinEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.b, nil
}

type sliceWriter struct {
	b []byte
}

func (s *sliceWriter) Write(p []byte) (int, error) {
	s.b = append(s.b, p...)
	return len(p), nil
}
