package encodbin

import "fmt"

// Unmarshaler is implemented by any packed account or instruction payload
// that knows how to read itself field by field from a Decoder.
type Unmarshaler interface {
	UnmarshalWithDecoder(dec *Decoder) error
}

// Decoder reads packed little-endian fields out of a fixed byte slice. It
// never allocates to grow its input and returns an error rather than
// panicking when a read runs past the end of the slice, since malformed or
// truncated account data must never crash the program.
type Decoder struct {
	data []byte
	pos  int
}

func NewBinDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

func (d *Decoder) Position() int {
	return d.pos
}

func (d *Decoder) readBytes(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, fmt.Errorf("encodbin: read past end of buffer: want %d bytes, have %d", n, d.Remaining())
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadUint8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (d *Decoder) ReadUint8() (uint8, error) {
	b, err := d.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.readBytes(2)
	if err != nil {
		return 0, err
	}
	return LE.Uint16(b), nil
}

func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return LE.Uint32(b), nil
}

func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.readBytes(8)
	if err != nil {
		return 0, err
	}
	return LE.Uint64(b), nil
}

func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

func (d *Decoder) ReadPubkey() ([32]byte, error) {
	var out [32]byte
	b, err := d.readBytes(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func (d *Decoder) ReadFixedBytes(n int) ([]byte, error) {
	b, err := d.readBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (d *Decoder) ReadRustString() (string, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return "", err
	}
	b, err := d.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) Decode(v Unmarshaler) error {
	return v.UnmarshalWithDecoder(d)
}

func UnmarshalBin(v Unmarshaler, data []byte) error {
	return NewBinDecoder(data).Decode(v)
}
