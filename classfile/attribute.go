package classfile

// Attribute is a length-prefixed, named, opaque byte payload attached to a
// class, field, method, or (recursively, though this reader does not
// descend into them) another attribute. Its payload is left uninterpreted
// for the downstream bytecode decoder; unknown attribute names are valid
// and must still be skipped by their declared length.
type Attribute struct {
	Name    string
	Payload []byte
}

// parseAttribute implements spec §4.6: resolve the name index, read the
// u4 length, then copy exactly that many bytes regardless of whether the
// name is recognized.
func parseAttribute(c *Cursor, pool *ConstantPool) (Attribute, error) {
	nameIndex, err := c.ReadU16()
	if err != nil {
		return Attribute{}, err
	}
	name, err := pool.ResolveUtf8(int(nameIndex))
	if err != nil {
		return Attribute{}, err
	}

	length, err := c.ReadU32()
	if err != nil {
		return Attribute{}, err
	}
	payload, err := c.ReadUTF(int(length))
	if err != nil {
		return Attribute{}, err
	}

	return Attribute{Name: name.Decode(), Payload: payload}, nil
}

// parseAttributes reads a u2 count followed by that many attributes.
func parseAttributes(c *Cursor, pool *ConstantPool) ([]Attribute, error) {
	count, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0, count)
	for i := 0; i < int(count); i++ {
		attr, err := parseAttribute(c, pool)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}
