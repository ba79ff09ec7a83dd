package classfile

import (
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/text/encoding/unicode"
)

// ConstantPool is the one-based indexed table of constant entries that
// backs a ClassFile. Index 0 is unused by convention; a Long or Double
// entry at index i leaves i+1 as a permanent ghost slot that must never be
// resolved.
type ConstantPool struct {
	// entries is indexed 1..size-1; entries[0] is always nil.
	entries []ConstantEntry
}

// Size returns pool_count: one more than the number of addressable slots.
func (p *ConstantPool) Size() int { return len(p.entries) }

// parseConstantPoolOptions configures how the pool parser reacts to a
// malformed tag byte.
type parseConstantPoolOptions struct {
	strict bool
	logger *log.Helper
}

// parseConstantPool implements spec §4.3: reads pool_count, then fills
// exactly pool_count-1 slots (ghosts included), recovering from malformed
// tags unless opts.strict is set.
func parseConstantPool(c *Cursor, opts parseConstantPoolOptions) (*ConstantPool, error) {
	count, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	pool := &ConstantPool{entries: make([]ConstantEntry, count)}

	i := 1
	for i < int(count) {
		entry, err := parseConstantEntry(c)
		if unrec, ok := err.(unrecognizedTagError); ok {
			if opts.strict {
				return nil, newClassFormatError(c, "invalid constant tag")
			}
			if opts.logger != nil {
				opts.logger.Warnf("classfile: malformed constant pool tag %d at index %d, recovering", uint8(unrec.tag), i)
			}
			// Only the bad tag byte has been consumed; no payload is read
			// for it, so the byte after it is taken as the next entry's tag.
			pool.entries[i] = placeholderEntry{}
			i++
			continue
		}
		if err != nil {
			return nil, err
		}

		pool.entries[i] = entry
		switch entry.(type) {
		case LongEntry, DoubleEntry:
			if i+1 < int(count) {
				pool.entries[i+1] = ghostEntry{}
			}
			i += 2
		default:
			i++
		}
	}

	return pool, nil
}

// entryAt returns the raw entry at index, validating range and ghost-slot
// access. A ghost slot (the second index occupied by a Long/Double) is a
// distinct concrete value from a recovered placeholder slot — it must never
// be resolved, while a placeholder remains addressable like any other slot.
func (p *ConstantPool) entryAt(index int) (ConstantEntry, error) {
	if index < 1 || index >= len(p.entries) || p.entries[index] == nil {
		return nil, &InvalidIndexError{Index: index, PoolSize: len(p.entries)}
	}
	if _, isGhost := p.entries[index].(ghostEntry); isGhost {
		return nil, &InvalidIndexError{Index: index, PoolSize: len(p.entries)}
	}
	return p.entries[index], nil
}

// ResolveUtf8 returns the string index's Utf8 payload, raw (no Modified
// UTF-8 to UTF-8 conversion).
func (p *ConstantPool) ResolveUtf8(index int) (Utf8Entry, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return Utf8Entry{}, err
	}
	u, ok := e.(Utf8Entry)
	if !ok {
		return Utf8Entry{}, &TagMismatchError{Expected: TagUtf8, Actual: e.Tag(), Index: index}
	}
	return u, nil
}

// ResolveString chases an index to its decoded string value: directly for a
// Utf8 entry, or via one extra hop for the indirect kinds (Class, String,
// MethodType, Module, Package) that merely name a Utf8 entry.
func (p *ConstantPool) ResolveString(index int) (string, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return "", err
	}
	switch v := e.(type) {
	case Utf8Entry:
		return v.Decode(), nil
	case IndexEntry:
		switch v.tag {
		case TagClass, TagString, TagMethodType, TagModule, TagPackage:
			u, err := p.ResolveUtf8(int(v.Index))
			if err != nil {
				return "", err
			}
			return u.Decode(), nil
		}
	}
	return "", &TagMismatchError{Expected: TagUtf8, Actual: e.Tag(), Index: index}
}

// ResolveInteger resolves index to a CONSTANT_Integer's value.
func (p *ConstantPool) ResolveInteger(index int) (int32, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return 0, err
	}
	v, ok := e.(IntegerEntry)
	if !ok {
		return 0, &TagMismatchError{Expected: TagInteger, Actual: e.Tag(), Index: index}
	}
	return v.Value, nil
}

// ResolveLong resolves index to a CONSTANT_Long's value. index+1 is that
// entry's ghost slot and is never itself a valid argument to any Resolve*.
func (p *ConstantPool) ResolveLong(index int) (int64, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return 0, err
	}
	v, ok := e.(LongEntry)
	if !ok {
		return 0, &TagMismatchError{Expected: TagLong, Actual: e.Tag(), Index: index}
	}
	return v.Value, nil
}

// ResolveFloat resolves index to a CONSTANT_Float's value.
func (p *ConstantPool) ResolveFloat(index int) (float32, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return 0, err
	}
	v, ok := e.(FloatEntry)
	if !ok {
		return 0, &TagMismatchError{Expected: TagFloat, Actual: e.Tag(), Index: index}
	}
	return v.Value, nil
}

// ResolveDouble resolves index to a CONSTANT_Double's value.
func (p *ConstantPool) ResolveDouble(index int) (float64, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return 0, err
	}
	v, ok := e.(DoubleEntry)
	if !ok {
		return 0, &TagMismatchError{Expected: TagDouble, Actual: e.Tag(), Index: index}
	}
	return v.Value, nil
}

// ResolveNameAndType resolves index to a CONSTANT_NameAndType pair.
func (p *ConstantPool) ResolveNameAndType(index int) (NameAndTypeEntry, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return NameAndTypeEntry{}, err
	}
	v, ok := e.(NameAndTypeEntry)
	if !ok {
		return NameAndTypeEntry{}, &TagMismatchError{Expected: TagNameAndType, Actual: e.Tag(), Index: index}
	}
	return v, nil
}

// MemberRef is a resolved field/method/interface-method reference: the
// referring class, member name and descriptor.
type MemberRef struct {
	ClassName  string
	Name       string
	Descriptor string
}

// resolveRefPair resolves any of the three reference-pair kinds (Fieldref,
// Methodref, InterfaceMethodref) to the class/name/descriptor triple its
// class-index and name-and-type-index name.
func (p *ConstantPool) resolveRefPair(index int, want Tag) (MemberRef, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return MemberRef{}, err
	}
	v, ok := e.(RefPairEntry)
	if !ok || v.tag != want {
		return MemberRef{}, &TagMismatchError{Expected: want, Actual: e.Tag(), Index: index}
	}

	className, err := p.resolveClassName(int(v.ClassIndex))
	if err != nil {
		return MemberRef{}, err
	}
	nat, err := p.ResolveNameAndType(int(v.NameAndTypeIndex))
	if err != nil {
		return MemberRef{}, err
	}
	name, err := p.ResolveString(int(nat.NameIndex))
	if err != nil {
		return MemberRef{}, err
	}
	desc, err := p.ResolveString(int(nat.DescriptorIndex))
	if err != nil {
		return MemberRef{}, err
	}
	return MemberRef{ClassName: className, Name: name, Descriptor: desc}, nil
}

// ResolveFieldRef resolves a CONSTANT_Fieldref entry.
func (p *ConstantPool) ResolveFieldRef(index int) (MemberRef, error) {
	return p.resolveRefPair(index, TagFieldReference)
}

// ResolveMethodRef resolves a CONSTANT_Methodref entry.
func (p *ConstantPool) ResolveMethodRef(index int) (MemberRef, error) {
	return p.resolveRefPair(index, TagMethodReference)
}

// ResolveInterfaceMethodRef resolves a CONSTANT_InterfaceMethodref entry.
func (p *ConstantPool) ResolveInterfaceMethodRef(index int) (MemberRef, error) {
	return p.resolveRefPair(index, TagInterfaceMethodReference)
}

// resolveClassName resolves a CONSTANT_Class index to its name string.
// Unlike ResolveString it accepts only a Class entry; an index of 0 yields
// an InvalidIndexError here, so classfile.go checks for a zero index itself
// to report "class name not specified".
func (p *ConstantPool) resolveClassName(index int) (string, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return "", err
	}
	v, ok := e.(IndexEntry)
	if !ok || v.tag != TagClass {
		return "", &TagMismatchError{Expected: TagClass, Actual: e.Tag(), Index: index}
	}
	return p.ResolveString(int(v.Index))
}

// ResolveMethodHandle resolves a CONSTANT_MethodHandle entry.
func (p *ConstantPool) ResolveMethodHandle(index int) (MethodHandleEntry, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return MethodHandleEntry{}, err
	}
	v, ok := e.(MethodHandleEntry)
	if !ok {
		return MethodHandleEntry{}, &TagMismatchError{Expected: TagMethodHandle, Actual: e.Tag(), Index: index}
	}
	return v, nil
}

// ResolveDynamic resolves a CONSTANT_Dynamic or CONSTANT_InvokeDynamic entry.
func (p *ConstantPool) ResolveDynamic(index int) (DynamicEntry, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return DynamicEntry{}, err
	}
	v, ok := e.(DynamicEntry)
	if !ok {
		return DynamicEntry{}, &TagMismatchError{Expected: TagDynamic, Actual: e.Tag(), Index: index}
	}
	return v, nil
}

// Decode converts a Utf8 entry's raw Modified-UTF-8 bytes to standard
// UTF-8. Modified UTF-8 differs from UTF-8 only in how it packs UTF-16 code
// units: NUL is the overlong two-byte sequence C0 80, and characters
// outside the Basic Multilingual Plane are stored as a surrogate pair, each
// half CESU-8-encoded as its own 3-byte sequence. Decoding therefore walks
// the bytes as 16-bit code units first (modifiedUTF8ToUTF16Units), then
// hands the reassembled UTF-16 stream to a standard UTF-16 decoder. Parsing
// itself never fails on any byte content; on malformed input this falls
// back to a lossy direct conversion rather than erroring.
func (u Utf8Entry) Decode() string {
	units, ok := modifiedUTF8ToUTF16Units(u.Bytes)
	if !ok {
		return string(u.Bytes)
	}
	raw := make([]byte, len(units)*2)
	for i, unit := range units {
		raw[2*i] = byte(unit >> 8)
		raw[2*i+1] = byte(unit)
	}
	decoded, err := modifiedUTF8Decoder.Bytes(raw)
	if err != nil {
		return string(u.Bytes)
	}
	return string(decoded)
}

// modifiedUTF8Decoder reassembles big-endian UTF-16 code units (including
// surrogate pairs) into UTF-8.
var modifiedUTF8Decoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

// modifiedUTF8ToUTF16Units walks Modified-UTF-8 bytes and extracts the
// 16-bit code units it packs: ordinary 1/2/3-byte CESU-8 sequences each
// decode to one unit, including the overlong C0 80 encoding of NUL and each
// half of a surrogate pair. Returns ok=false if the bytes don't parse as
// any recognized CESU-8 sequence shape.
func modifiedUTF8ToUTF16Units(b []byte) ([]uint16, bool) {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		switch {
		case b[i]&0x80 == 0:
			units = append(units, uint16(b[i]))
			i++
		case b[i]&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return nil, false
			}
			units = append(units, uint16(b[i]&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case b[i]&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return nil, false
			}
			units = append(units, uint16(b[i]&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return nil, false
		}
	}
	return units, true
}
