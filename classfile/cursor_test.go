package classfile

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestCursorReadBytesBoundsCheck(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3}, binary.BigEndian)

	if _, err := c.ReadBytes(2); err != nil {
		t.Fatalf("ReadBytes(2): %v", err)
	}
	if c.Position() != 2 {
		t.Fatalf("position = %d, want 2", c.Position())
	}
	if _, err := c.ReadBytes(2); err != ErrEndOfBuffer {
		t.Fatalf("ReadBytes past end: got %v, want ErrEndOfBuffer", err)
	}
}

func TestCursorSeekClamped(t *testing.T) {
	c := NewCursor(make([]byte, 4), binary.BigEndian)

	c.Seek(-5)
	if c.Position() != 0 {
		t.Fatalf("Seek(-5): position = %d, want 0", c.Position())
	}
	c.Seek(100)
	if c.Position() != 4 {
		t.Fatalf("Seek(100): position = %d, want 4", c.Position())
	}
}

func TestCursorEndiannessRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
	}{
		{"big-endian", binary.BigEndian},
		{"little-endian", binary.LittleEndian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 8)
			tt.order.PutUint64(buf, 0x0102030405060708)

			c := NewCursor(buf, tt.order)
			got, err := c.ReadU64()
			if err != nil {
				t.Fatalf("ReadU64: %v", err)
			}
			if got != 0x0102030405060708 {
				t.Fatalf("ReadU64 = %#x, want %#x", got, uint64(0x0102030405060708))
			}
		})
	}
}

func TestCursorFloatNaNPreserved(t *testing.T) {
	bits := uint32(0x7fc00001) // a specific NaN payload, not the canonical one
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, bits)

	c := NewCursor(buf, binary.BigEndian)
	f, err := c.ReadF32()
	if err != nil {
		t.Fatalf("ReadF32: %v", err)
	}
	if math.Float32bits(f) != bits {
		t.Fatalf("ReadF32 bits = %#x, want %#x", math.Float32bits(f), bits)
	}
}

func TestCursorDoubleNaNPreserved(t *testing.T) {
	bits := uint64(0x7ff8000000000001)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, bits)

	c := NewCursor(buf, binary.BigEndian)
	f, err := c.ReadF64()
	if err != nil {
		t.Fatalf("ReadF64: %v", err)
	}
	if math.Float64bits(f) != bits {
		t.Fatalf("ReadF64 bits = %#x, want %#x", math.Float64bits(f), bits)
	}
}

func TestCursorReadUTFNoEndiannessReversal(t *testing.T) {
	buf := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	c := NewCursor(buf, binary.LittleEndian)

	got, err := c.ReadUTF(4)
	if err != nil {
		t.Fatalf("ReadUTF: %v", err)
	}
	for i, b := range buf {
		if got[i] != b {
			t.Fatalf("ReadUTF[%d] = %#x, want %#x (no byte reversal expected)", i, got[i], b)
		}
	}
}
