// Package classfile reads the binary representation of a compiled Java
// class file into a fully resolved in-memory model.
package classfile

import (
	"encoding/binary"
	"math"
)

// Cursor is a bounds-checked, random-access view over an immutable byte
// sequence. It never mutates the bytes it was constructed with.
type Cursor struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

// NewCursor builds a Cursor over buf at position 0, reading fixed-width
// integers and floats with the given byte order. Class files are always
// big-endian; the order is still a parameter of the cursor rather than
// hard-coded so the same type serves any fixed-endian binary format.
func NewCursor(buf []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{buf: buf, order: order}
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Position returns the current absolute position.
func (c *Cursor) Position() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Seek moves the cursor to an absolute position, clamped to [0, len(buf)].
func (c *Cursor) Seek(absolute int) {
	switch {
	case absolute < 0:
		c.pos = 0
	case absolute > len(c.buf):
		c.pos = len(c.buf)
	default:
		c.pos = absolute
	}
}

// Skip moves the cursor by a relative offset, clamped the same way Seek is.
func (c *Cursor) Skip(relative int) {
	c.Seek(c.pos + relative)
}

// ReadBytes returns the next n bytes and advances the cursor past them. The
// returned slice aliases the cursor's backing buffer; callers must not
// mutate it.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, ErrEndOfBuffer
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadUTF copies n bytes verbatim, with no endianness reversal. Used for
// Modified-UTF-8 constant-pool string payloads, which are a byte sequence
// rather than a single multi-byte scalar.
func (c *Cursor) ReadUTF(n int) ([]byte, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadU8 reads one unsigned byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a 2-byte unsigned integer in the cursor's declared order.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(b), nil
}

// ReadU32 reads a 4-byte unsigned integer in the cursor's declared order.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

// ReadU64 reads an 8-byte unsigned integer in the cursor's declared order.
func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return c.order.Uint64(b), nil
}

// ReadI32 reads a 4-byte two's-complement signed integer.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadI64 reads an 8-byte two's-complement signed integer.
func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadF32 reads an IEEE-754 32-bit float. The bit pattern is copied from the
// integer of equal width, so NaN payloads survive intact.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads an IEEE-754 64-bit float, NaN bit patterns preserved.
func (c *Cursor) ReadF64() (float64, error) {
	v, err := c.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
