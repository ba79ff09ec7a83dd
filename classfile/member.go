package classfile

// FieldFlags is the 16-bit access-flag bitset of a field_info structure.
type FieldFlags uint16

// Field access flag bits (LSB = 0). Unknown bits are preserved verbatim;
// this reader does not reject or normalize them.
const (
	FieldPublic    FieldFlags = 1 << 0
	FieldPrivate   FieldFlags = 1 << 1
	FieldProtected FieldFlags = 1 << 2
	FieldStatic    FieldFlags = 1 << 3
	FieldFinal     FieldFlags = 1 << 4
	FieldVolatile  FieldFlags = 1 << 6
	FieldTransient FieldFlags = 1 << 7
	FieldSynthetic FieldFlags = 1 << 12
	FieldEnum      FieldFlags = 1 << 14
)

// Has reports whether every bit in mask is set.
func (f FieldFlags) Has(mask FieldFlags) bool { return f&mask == mask }

// MethodFlags is the 16-bit access-flag bitset of a method_info structure.
// It shares bit positions 0-4 with FieldFlags and adds its own; this reader
// does not enforce which bits are legal for a method, only stores them.
type MethodFlags uint16

// Method access flag bits (LSB = 0).
const (
	MethodPublic       MethodFlags = 1 << 0
	MethodPrivate      MethodFlags = 1 << 1
	MethodProtected    MethodFlags = 1 << 2
	MethodStatic       MethodFlags = 1 << 3
	MethodFinal        MethodFlags = 1 << 4
	MethodSynchronized MethodFlags = 1 << 5
	MethodBridge       MethodFlags = 1 << 6
	MethodVarargs      MethodFlags = 1 << 7
	MethodNative       MethodFlags = 1 << 8
	MethodAbstract     MethodFlags = 1 << 10
	MethodStrict       MethodFlags = 1 << 11
	MethodSynthetic    MethodFlags = 1 << 12
)

// Has reports whether every bit in mask is set.
func (f MethodFlags) Has(mask MethodFlags) bool { return f&mask == mask }

// Field is a field_info record: access flags, name, descriptor and the
// attributes attached to it (ConstantValue, Synthetic, Signature, ...).
type Field struct {
	Flags      FieldFlags
	Name       string
	Descriptor string
	Attributes []Attribute
}

// Method is a method_info record, the field_info shape with method
// semantics for its flags.
type Method struct {
	Flags      MethodFlags
	Name       string
	Descriptor string
	Attributes []Attribute
}

// parseMember reads the shape shared by field_info and method_info: a u2
// flags word, a name index, a descriptor index, and an attribute list. The
// 16 raw flag bits are returned unchanged; callers reinterpret them as
// FieldFlags or MethodFlags.
func parseMember(c *Cursor, pool *ConstantPool) (flags uint16, name, descriptor string, attrs []Attribute, err error) {
	flags, err = c.ReadU16()
	if err != nil {
		return 0, "", "", nil, err
	}
	nameIndex, err := c.ReadU16()
	if err != nil {
		return 0, "", "", nil, err
	}
	nameEntry, err := pool.ResolveUtf8(int(nameIndex))
	if err != nil {
		return 0, "", "", nil, err
	}
	descIndex, err := c.ReadU16()
	if err != nil {
		return 0, "", "", nil, err
	}
	descEntry, err := pool.ResolveUtf8(int(descIndex))
	if err != nil {
		return 0, "", "", nil, err
	}
	attrs, err = parseAttributes(c, pool)
	if err != nil {
		return 0, "", "", nil, err
	}
	return flags, nameEntry.Decode(), descEntry.Decode(), attrs, nil
}

func parseField(c *Cursor, pool *ConstantPool) (Field, error) {
	flags, name, desc, attrs, err := parseMember(c, pool)
	if err != nil {
		return Field{}, err
	}
	return Field{Flags: FieldFlags(flags), Name: name, Descriptor: desc, Attributes: attrs}, nil
}

func parseMethod(c *Cursor, pool *ConstantPool) (Method, error) {
	flags, name, desc, attrs, err := parseMember(c, pool)
	if err != nil {
		return Method{}, err
	}
	return Method{Flags: MethodFlags(flags), Name: name, Descriptor: desc, Attributes: attrs}, nil
}

func parseFields(c *Cursor, pool *ConstantPool) ([]Field, error) {
	count, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	fields := make([]Field, 0, count)
	for i := 0; i < int(count); i++ {
		f, err := parseField(c, pool)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func parseMethods(c *Cursor, pool *ConstantPool) ([]Method, error) {
	count, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	methods := make([]Method, 0, count)
	for i := 0; i < int(count); i++ {
		m, err := parseMethod(c, pool)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}
