package classfile

import "fmt"

// Tag is the 1-byte discriminator selecting a constant-pool entry's payload
// shape. Codes 2, 13 and 14 are reserved by the class-file format and never
// appear on the wire.
type Tag uint8

// Recognized constant pool tags, per the JVM class file format.
const (
	TagUtf8                     Tag = 1
	TagInteger                  Tag = 3
	TagFloat                    Tag = 4
	TagLong                     Tag = 5
	TagDouble                   Tag = 6
	TagClass                    Tag = 7
	TagString                   Tag = 8
	TagFieldReference           Tag = 9
	TagMethodReference          Tag = 10
	TagInterfaceMethodReference Tag = 11
	TagNameAndType              Tag = 12
	TagMethodHandle             Tag = 15
	TagMethodType               Tag = 16
	TagDynamic                  Tag = 17
	TagInvokeDynamic            Tag = 18
	TagModule                   Tag = 19
	TagPackage                  Tag = 20

	// tagPlaceholder marks a slot recovered from a malformed/unrecognized
	// tag byte. It never appears on the wire; it is synthesized by the
	// pool parser.
	tagPlaceholder Tag = 0
)

var tagNames = map[Tag]string{
	TagUtf8:                     "Utf8",
	TagInteger:                  "Integer",
	TagFloat:                    "Float",
	TagLong:                     "Long",
	TagDouble:                   "Double",
	TagClass:                    "Class",
	TagString:                   "String",
	TagFieldReference:           "FieldReference",
	TagMethodReference:          "MethodReference",
	TagInterfaceMethodReference: "InterfaceMethodReference",
	TagNameAndType:              "NameAndType",
	TagMethodHandle:             "MethodHandle",
	TagMethodType:               "MethodType",
	TagDynamic:                  "Dynamic",
	TagInvokeDynamic:            "InvokeDynamic",
	TagModule:                   "Module",
	TagPackage:                  "Package",
	tagPlaceholder:              "Placeholder",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// ReferenceKind is the reference-kind byte of a CONSTANT_MethodHandle entry.
type ReferenceKind uint8

// Valid method-handle reference kinds.
const (
	RefGetField         ReferenceKind = 1
	RefGetStatic        ReferenceKind = 2
	RefPutField         ReferenceKind = 3
	RefPutStatic        ReferenceKind = 4
	RefInvokeVirtual    ReferenceKind = 5
	RefInvokeStatic     ReferenceKind = 6
	RefInvokeSpecial    ReferenceKind = 7
	RefNewInvokeSpecial ReferenceKind = 8
	RefInvokeInterface  ReferenceKind = 9
)

func validReferenceKind(k ReferenceKind) bool {
	return k >= RefGetField && k <= RefInvokeInterface
}

// ConstantEntry is the tagged union over the 17 recognized constant-pool
// tags, plus the placeholder kind used for malformed-tag recovery. pool.go's
// typed Resolve functions type-assert an entry to its concrete type (e.g.
// Utf8Entry).
type ConstantEntry interface {
	Tag() Tag
}

// Utf8Entry holds the raw Modified-UTF-8 bytes declared by a CONSTANT_Utf8
// entry's length prefix. No interpretation happens at parse time — Decode
// converts to standard UTF-8 lazily, on demand.
type Utf8Entry struct {
	Bytes []byte
}

func (Utf8Entry) Tag() Tag { return TagUtf8 }

// IntegerEntry holds a CONSTANT_Integer's 32-bit two's-complement value.
type IntegerEntry struct{ Value int32 }

func (IntegerEntry) Tag() Tag { return TagInteger }

// FloatEntry holds a CONSTANT_Float's IEEE-754 32-bit value.
type FloatEntry struct{ Value float32 }

func (FloatEntry) Tag() Tag { return TagFloat }

// LongEntry holds a CONSTANT_Long's 64-bit two's-complement value. It
// occupies two pool slots; the one following it is a ghost.
type LongEntry struct{ Value int64 }

func (LongEntry) Tag() Tag { return TagLong }

// DoubleEntry holds a CONSTANT_Double's IEEE-754 64-bit value. Like Long, it
// occupies two pool slots.
type DoubleEntry struct{ Value float64 }

func (DoubleEntry) Tag() Tag { return TagDouble }

// IndexEntry is the shared shape of the five single-index constant kinds:
// Class, String, MethodType, Module and Package each carry one 1-based pool
// index, pointing at a Utf8 entry.
type IndexEntry struct {
	tag   Tag
	Index uint16
}

func (e IndexEntry) Tag() Tag { return e.tag }

// RefPairEntry is the shared shape of FieldReference, MethodReference and
// InterfaceMethodReference: a pair of (class-index, name-and-type-index).
type RefPairEntry struct {
	tag              Tag
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (e RefPairEntry) Tag() Tag { return e.tag }

// NameAndTypeEntry pairs a name index and a descriptor index, both
// resolving to Utf8 entries.
type NameAndTypeEntry struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (NameAndTypeEntry) Tag() Tag { return TagNameAndType }

// MethodHandleEntry carries a reference kind in {1..9} and the index of the
// field/method it refers to.
type MethodHandleEntry struct {
	ReferenceKind  ReferenceKind
	ReferenceIndex uint16
}

func (MethodHandleEntry) Tag() Tag { return TagMethodHandle }

// DynamicEntry is the shared shape of Dynamic and InvokeDynamic: a
// bootstrap-method-attribute index paired with a name-and-type index.
type DynamicEntry struct {
	tag                      Tag
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (e DynamicEntry) Tag() Tag { return e.tag }

// placeholderEntry fills a slot whose tag byte was not a recognized value.
// It has no payload and occupies exactly one slot.
type placeholderEntry struct{}

func (placeholderEntry) Tag() Tag { return tagPlaceholder }

// ghostEntry marks the slot immediately following a Long or Double entry.
// It must never be resolved.
type ghostEntry struct{}

func (ghostEntry) Tag() Tag { return tagPlaceholder }

// parseConstantEntry reads one tag byte and its payload from c, in the wire
// order fixed by the class file format (explicitly enumerated here rather
// than relying on struct field order).
func parseConstantEntry(c *Cursor) (ConstantEntry, error) {
	tagByte, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	tag := Tag(tagByte)

	switch tag {
	case TagUtf8:
		length, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		b, err := c.ReadUTF(int(length))
		if err != nil {
			return nil, err
		}
		return Utf8Entry{Bytes: b}, nil

	case TagInteger:
		v, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		return IntegerEntry{Value: v}, nil

	case TagFloat:
		v, err := c.ReadF32()
		if err != nil {
			return nil, err
		}
		return FloatEntry{Value: v}, nil

	case TagLong:
		v, err := c.ReadI64()
		if err != nil {
			return nil, err
		}
		return LongEntry{Value: v}, nil

	case TagDouble:
		v, err := c.ReadF64()
		if err != nil {
			return nil, err
		}
		return DoubleEntry{Value: v}, nil

	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		idx, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return IndexEntry{tag: tag, Index: idx}, nil

	case TagFieldReference, TagMethodReference, TagInterfaceMethodReference:
		classIdx, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		natIdx, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return RefPairEntry{tag: tag, ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil

	case TagNameAndType:
		nameIdx, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		descIdx, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return NameAndTypeEntry{NameIndex: nameIdx, DescriptorIndex: descIdx}, nil

	case TagMethodHandle:
		// reference_kind (u1) then reference_index (u2): the wire order,
		// not struct declaration order.
		kindByte, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		kind := ReferenceKind(kindByte)
		idx, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		if !validReferenceKind(kind) {
			return nil, newClassFormatError(c, "invalid method handle kind")
		}
		return MethodHandleEntry{ReferenceKind: kind, ReferenceIndex: idx}, nil

	case TagDynamic, TagInvokeDynamic:
		bootstrapIdx, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		natIdx, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return DynamicEntry{tag: tag, BootstrapMethodAttrIndex: bootstrapIdx, NameAndTypeIndex: natIdx}, nil

	default:
		return nil, unrecognizedTagError{tag: tag}
	}
}

// unrecognizedTagError signals to the pool parser (and only the pool parser)
// that the tag byte did not match any recognized kind, so it can apply the
// recovery procedure from spec §4.3 step 3.
type unrecognizedTagError struct{ tag Tag }

func (e unrecognizedTagError) Error() string {
	return fmt.Sprintf("classfile: unrecognized constant pool tag %d", uint8(e.tag))
}
