package classfile

import (
	"encoding/binary"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// classMagic is the fixed CA FE BA BE signature every class file begins with.
const classMagic = 0xCAFEBABE

// ClassAccessFlags is the 16-bit access-flag bitset of a ClassFile.
type ClassAccessFlags uint16

// Class access flag bits (LSB = 0). Unknown bits are preserved verbatim.
const (
	ClassPublic     ClassAccessFlags = 1 << 0
	ClassFinal      ClassAccessFlags = 1 << 4
	ClassSuper      ClassAccessFlags = 1 << 5
	ClassInterface  ClassAccessFlags = 1 << 9
	ClassAbstract   ClassAccessFlags = 1 << 10
	ClassSynthetic  ClassAccessFlags = 1 << 12
	ClassAnnotation ClassAccessFlags = 1 << 13
	ClassEnum       ClassAccessFlags = 1 << 14
	ClassModule     ClassAccessFlags = 1 << 15
)

// Has reports whether every bit in mask is set.
func (f ClassAccessFlags) Has(mask ClassAccessFlags) bool { return f&mask == mask }

// ClassFile is the fully resolved in-memory model of a compiled Java class:
// version, constant pool, access flags, identity (this/super/interfaces),
// members and class-level attributes. It is immutable once returned by
// Parse and safe to share for read across goroutines.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Pool         *ConstantPool
	AccessFlags  ClassAccessFlags
	ThisName     string
	SuperName    string // empty if this class has no superclass (java/lang/Object)
	Interfaces   []string
	Fields       []Field
	Methods      []Method
	Attributes   []Attribute

	// Anomalies records non-fatal oddities observed during parsing that
	// did not stop the parse (e.g. a zero super-index on a class other
	// than java/lang/Object). Purely informational.
	Anomalies []string
}

// Options configures a Parse/Open call.
type Options struct {
	// Strict turns a malformed constant pool tag into a ClassFormatError
	// instead of the default best-effort placeholder recovery (spec §9,
	// Open Question b).
	Strict bool

	// Logger receives warnings for recovered conditions. Defaults to a
	// filtered stdout logger if nil.
	Logger log.Logger
}

func (o *Options) helper() *log.Helper {
	logger := o.Logger
	if logger == nil {
		logger = log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(log.LevelWarn))
	}
	return log.NewHelper(logger)
}

// Parse parses a class file from cursor, per spec §4.4. On any failure the
// partially built ClassFile is discarded; Parse never returns a non-nil
// *ClassFile alongside a non-nil error.
func Parse(c *Cursor, opts *Options) (*ClassFile, error) {
	if opts == nil {
		opts = &Options{}
	}
	helper := opts.helper()

	magicOffset := c.Position()
	magic, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != classMagic {
		return nil, &ClassFormatError{Reason: "invalid magic number", Offset: magicOffset}
	}

	minor, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	major, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	pool, err := parseConstantPool(c, parseConstantPoolOptions{strict: opts.Strict, logger: helper})
	if err != nil {
		return nil, err
	}

	accessFlags, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	thisIndex, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	if thisIndex == 0 {
		return nil, newClassFormatError(c, "class name not specified")
	}
	thisName, err := pool.resolveClassName(int(thisIndex))
	if err != nil {
		return nil, err
	}

	superIndex, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	var superName string
	var anomalies []string
	if superIndex != 0 {
		superName, err = pool.resolveClassName(int(superIndex))
		if err != nil {
			return nil, err
		}
	} else if thisName != "java/lang/Object" {
		// Spec-true reading of Open Question (c): a zero super-index is
		// only expected for java/lang/Object. Tolerated (the JVM itself
		// tolerates it) but flagged.
		anomalies = append(anomalies, "zero super-index on a class other than java/lang/Object")
	}

	interfaceCount, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	interfaces := make([]string, 0, interfaceCount)
	for i := 0; i < int(interfaceCount); i++ {
		idx, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		if idx == 0 {
			return nil, newClassFormatError(c, "interface index must not be zero")
		}
		name, err := pool.resolveClassName(int(idx))
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, name)
	}

	fields, err := parseFields(c, pool)
	if err != nil {
		return nil, err
	}
	methods, err := parseMethods(c, pool)
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttributes(c, pool)
	if err != nil {
		return nil, err
	}

	return &ClassFile{
		MinorVersion: minor,
		MajorVersion: major,
		Pool:         pool,
		AccessFlags:  ClassAccessFlags(accessFlags),
		ThisName:     thisName,
		SuperName:    superName,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   attrs,
		Anomalies:    anomalies,
	}, nil
}

// ParseBytes is a convenience wrapper that wraps data in a big-endian
// Cursor (class files are always big-endian) and parses it.
func ParseBytes(data []byte, opts *Options) (*ClassFile, error) {
	return Parse(NewCursor(data, binary.BigEndian), opts)
}

// Open memory-maps the class file at path and parses it. The mapping is
// unmapped before Open returns; ClassFile does not retain the file handle
// (unlike Jar, a ClassFile is an immutable value, not a live resource).
func Open(path string, opts *Options) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileInaccessibleError{Path: path, Err: err}
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, &FileInaccessibleError{Path: path, Err: err}
	}
	defer data.Unmap()

	return ParseBytes(data, opts)
}
