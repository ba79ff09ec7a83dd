// Package jarfile adapts a JAR (a ZIP archive containing class files and an
// optional manifest) to the classfile package: it enumerates entries,
// streams an entry's uncompressed bytes, and parses META-INF/MANIFEST.MF.
package jarfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// ManifestPath is the fixed location of a JAR's manifest inside the archive.
const ManifestPath = "META-INF/MANIFEST.MF"

// chunkSize bounds each read of an entry's decompressed stream. The
// underlying zip.Reader doesn't actually require this (Go's io helpers
// already loop internally), but an explicit bounded loop is kept to mirror
// the C++ original's unzReadCurrentFile contract, which is capped at
// UINT32_MAX bytes per call and must be looped by the caller for entries
// larger than that.
const chunkSize = 1 << 20

// Options configures a Jar.
type Options struct {
	// Logger receives warnings for absent entries/manifests. Defaults to
	// a filtered stdout logger if nil.
	Logger log.Logger
}

func (o *Options) helper() *log.Helper {
	logger := o.Logger
	if logger == nil {
		logger = log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(log.LevelWarn))
	}
	return log.NewHelper(logger)
}

// Jar is an open, read-only view over a JAR/ZIP archive. It owns the file
// handle (and its memory mapping, when opened by path) backing its
// *zip.Reader; concurrent use of the same Jar from multiple goroutines is
// not supported, but independent Jar instances over the same path are.
type Jar struct {
	path   string
	f      *os.File
	mapped mmap.MMap
	reader *zip.Reader
	helper *log.Helper
}

// Open resolves path to an absolute path, confirms it can be opened for
// reading and parses as a ZIP central directory, and returns a Jar. The
// underlying file is memory-mapped rather than read fully into RAM.
func Open(path string, opts *Options) (*Jar, error) {
	if opts == nil {
		opts = &Options{}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &FileInaccessibleError{Path: path, Err: err}
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, &FileInaccessibleError{Path: absPath, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &FileInaccessibleError{Path: absPath, Err: err}
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, &FileInaccessibleError{Path: absPath, Err: err}
	}

	reader, err := zip.NewReader(bytes.NewReader(data), info.Size())
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, &FileInaccessibleError{Path: absPath, Err: fmt.Errorf("not a valid ZIP archive: %w", err)}
	}

	return &Jar{
		path:   absPath,
		f:      f,
		mapped: data,
		reader: reader,
		helper: opts.helper(),
	}, nil
}

// Close releases the archive's file handle and memory mapping. Safe to
// call once; every path through Open that returns a non-nil error has
// already released any resource it acquired.
func (j *Jar) Close() error {
	var firstErr error
	if j.mapped != nil {
		if err := j.mapped.Unmap(); err != nil {
			firstErr = err
		}
		j.mapped = nil
	}
	if j.f != nil {
		if err := j.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		j.f = nil
	}
	return firstErr
}

// Path returns the absolute path the Jar was opened from.
func (j *Jar) Path() string { return j.path }

// List enumerates all entry names in the archive, in directory order.
func (j *Jar) List() []string {
	names := make([]string, 0, len(j.reader.File))
	for _, f := range j.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// find locates a named entry, or nil if absent.
func (j *Jar) find(name string) *zip.File {
	for _, f := range j.reader.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// OpenBinary decompresses jarEntry fully and returns its bytes, or
// (nil, false) if the entry does not exist. An entry with declared
// uncompressed size zero is returned as an empty, non-nil slice without
// ever opening the decompression stream.
func (j *Jar) OpenBinary(jarEntry string) ([]byte, bool, error) {
	f := j.find(jarEntry)
	if f == nil {
		j.helper.Warnf("jarfile: entry %q not found", jarEntry)
		return nil, false, nil
	}
	if f.UncompressedSize64 == 0 {
		return []byte{}, true, nil
	}

	rc, err := f.Open()
	if err != nil {
		return nil, true, err
	}
	defer rc.Close()

	buf := make([]byte, 0, f.UncompressedSize64)
	chunk := make([]byte, chunkSize)
	for {
		n, err := rc.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, true, err
		}
	}
	return buf, true, nil
}

// OpenText is OpenBinary decoded as UTF-8 text.
func (j *Jar) OpenText(jarEntry string) (string, bool, error) {
	data, ok, err := j.OpenBinary(jarEntry)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(data), true, nil
}

// Manifest opens and parses META-INF/MANIFEST.MF. An archive with no
// manifest yields an empty Manifest, not an error.
func (j *Jar) Manifest() (*Manifest, error) {
	text, ok, err := j.OpenText(ManifestPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewManifest(), nil
	}
	return ParseManifest(text)
}

// FileInaccessibleError reports that the host could not open path for
// reading, or that it is not a valid ZIP archive.
type FileInaccessibleError struct {
	Path string
	Err  error
}

func (e *FileInaccessibleError) Error() string {
	return fmt.Sprintf("jarfile: cannot open %q: %v", e.Path, e.Err)
}

func (e *FileInaccessibleError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, &FileInaccessibleError{}) match any
// FileInaccessibleError.
func (e *FileInaccessibleError) Is(target error) bool {
	_, ok := target.(*FileInaccessibleError)
	return ok
}
