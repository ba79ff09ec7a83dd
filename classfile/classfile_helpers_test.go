package classfile

import "encoding/binary"

// classBuilder assembles a well-formed class file byte-for-byte, the way
// the scenarios in spec §8 describe them, without depending on a real javac
// toolchain.
type classBuilder struct {
	buf []byte
}

func newClassBuilder() *classBuilder { return &classBuilder{} }

func (b *classBuilder) u8(v uint8)   { b.buf = append(b.buf, v) }
func (b *classBuilder) u16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}
func (b *classBuilder) u32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}
func (b *classBuilder) u64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}
func (b *classBuilder) bytes(v []byte) { b.buf = append(b.buf, v...) }

func (b *classBuilder) utf8(s string) {
	b.u8(uint8(TagUtf8))
	b.u16(uint16(len(s)))
	b.bytes([]byte(s))
}

func (b *classBuilder) classRef(nameIndex uint16) {
	b.u8(uint8(TagClass))
	b.u16(nameIndex)
}

// minimalClassBytes builds a hand-made, simplified stand-in for compiling
// `class A {}`: magic/version, a pool with just enough entries to name the
// class, its superclass and a SourceFile attribute, no interfaces, a single
// <init> method with no attributes (no Code), and a top-level SourceFile
// attribute (spec scenario S1).
func minimalClassBytes() []byte {
	b := newClassBuilder()
	b.u32(classMagic)
	b.u16(0)  // minor
	b.u16(52) // major (Java 8)

	// Constant pool: 7 live slots -> pool_count = 8.
	// 1: Utf8 "A"
	// 2: Class -> 1
	// 3: Utf8 "java/lang/Object"
	// 4: Class -> 3
	// 5: Utf8 "<init>"
	// 6: Utf8 "()V"
	// 7: Utf8 "SourceFile"
	b.u16(8)
	b.utf8("A")
	b.classRef(1)
	b.utf8("java/lang/Object")
	b.classRef(3)
	b.utf8("<init>")
	b.utf8("()V")
	b.utf8("SourceFile")

	b.u16(uint16(ClassSuper)) // access_flags
	b.u16(2)                  // this_class
	b.u16(4)                  // super_class
	b.u16(0)                  // interfaces_count

	b.u16(0) // fields_count

	b.u16(1)                       // methods_count
	b.u16(uint16(MethodPublic))    // access_flags
	b.u16(5)                       // name_index -> <init>
	b.u16(6)                       // descriptor_index -> ()V
	b.u16(0)                       // attributes_count

	b.u16(1)           // attributes_count (class-level)
	b.u16(7)           // attribute_name_index -> SourceFile
	b.u32(2)           // attribute_length
	b.bytes([]byte{0, 1}) // opaque payload (would name a source-file Utf8 index)

	return b.buf
}

// longConstantClassBytes builds a pool of size 5 (pool_count=5, slots 1..4)
// with a Long at index 3, so index 4 is a ghost (spec scenario S2).
func longConstantClassBytes() []byte {
	b := newClassBuilder()
	b.u32(classMagic)
	b.u16(0)
	b.u16(52)

	b.u16(5) // pool_count
	b.utf8("A")
	b.classRef(1)
	b.u8(uint8(TagLong))
	b.u64(0x1122334455667788)
	// index 4 is a ghost: no bytes written for it.

	b.u16(uint16(ClassSuper))
	b.u16(2) // this_class -> Class "A"
	b.u16(0) // super_class = 0 (tolerated; A != java/lang/Object so flagged)
	b.u16(0) // interfaces_count
	b.u16(0) // fields_count
	b.u16(0) // methods_count
	b.u16(0) // attributes_count

	return b.buf
}

// malformedTagClassBytes builds a pool whose second entry begins with the
// reserved tag byte 0x02 (spec scenario S3), followed by a valid Utf8 entry
// whose own tag byte is the very byte that would have been misread as part
// of the malformed entry's payload, to prove recovery re-syncs correctly.
func malformedTagClassBytes() []byte {
	b := newClassBuilder()
	b.u32(classMagic)
	b.u16(0)
	b.u16(52)

	b.u16(4) // pool_count: slots 1..3
	b.utf8("A")
	b.u8(0x02) // reserved/invalid tag at index 2
	b.utf8("java/lang/Object")

	b.u16(uint16(ClassSuper))
	b.u16(1) // this_class is actually a Utf8 here (only used to exercise the pool, not resolved)
	b.u16(0)
	b.u16(0)
	b.u16(0)
	b.u16(0)
	b.u16(0)

	return b.buf
}
