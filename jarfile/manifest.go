package jarfile

import (
	"fmt"
	"strings"
)

// mainSectionSentinel is the reserved name under which the manifest's
// unnamed head section is filed. It is distinct from "" (the name a
// section carries by default, before any "Name:" line sets it) so the two
// never collide.
const mainSectionSentinel = "\x00main\x00"

// Manifest is a mapping from section name to a mapping from attribute key
// to attribute value. The head section is stored under MainSection().
type Manifest struct {
	sections map[string]map[string]string
}

// NewManifest returns an empty Manifest, as used when a JAR has no
// META-INF/MANIFEST.MF.
func NewManifest() *Manifest {
	return &Manifest{sections: map[string]map[string]string{}}
}

// MainSection returns the attributes of the manifest's unnamed head
// section (e.g. Manifest-Version, Main-Class), or nil if absent.
func (m *Manifest) MainSection() map[string]string {
	return m.sections[mainSectionSentinel]
}

// Section returns the named section's attributes, or nil if no section by
// that name was present.
func (m *Manifest) Section(name string) map[string]string {
	return m.sections[name]
}

// SectionNames returns the names of every section other than the main one.
func (m *Manifest) SectionNames() []string {
	names := make([]string, 0, len(m.sections))
	for name := range m.sections {
		if name == mainSectionSentinel {
			continue
		}
		names = append(names, name)
	}
	return names
}

// ManifestParseError reports that a manifest line matched no production.
type ManifestParseError struct {
	LineNo int
	Line   string
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("jarfile: manifest line %d: unrecognized line %q", e.LineNo, e.Line)
}

// Is lets errors.Is(err, &ManifestParseError{}) match any ManifestParseError.
func (e *ManifestParseError) Is(target error) bool {
	_, ok := target.(*ManifestParseError)
	return ok
}

// ParseManifest implements the state machine of spec §4.8: lines
// terminated by LF or CRLF, a blank line flushes the section being
// accumulated, a leading space continues the previous value (or the
// section name itself, if the last key was "Name"), and every other line
// must split on its first colon into a key and a value.
func ParseManifest(text string) (*Manifest, error) {
	m := NewManifest()

	lines := splitLines(text)

	sectionName := mainSectionSentinel
	section := map[string]string{}
	lastKey := ""

	flush := func() {
		if len(section) == 0 {
			return
		}
		m.sections[sectionName] = section
		section = map[string]string{}
	}

	for lineNo, line := range lines {
		switch {
		case line == "":
			flush()
			sectionName = ""
			lastKey = ""

		case line[0] == ' ':
			cont := strings.TrimSpace(line)
			if lastKey == "Name" {
				sectionName += cont
			} else if lastKey != "" {
				section[lastKey] += cont
			} else {
				return nil, &ManifestParseError{LineNo: lineNo + 1, Line: line}
			}

		default:
			idx := strings.IndexByte(line, ':')
			if idx < 0 {
				return nil, &ManifestParseError{LineNo: lineNo + 1, Line: line}
			}
			key := strings.TrimSpace(line[:idx])
			value := line[idx+1:]
			value = strings.TrimPrefix(value, " ")

			if key == "Name" {
				sectionName = value
				lastKey = "Name"
			} else {
				section[key] = value
				lastKey = key
			}
		}
	}
	flush()

	return m, nil
}

// splitLines splits text on LF, first stripping a trailing CR from each
// line so both LF and CRLF line endings are accepted.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	// A trailing newline produces one spurious empty element that would
	// otherwise be seen as a blank-line section flush; drop it only when
	// it's the final, input-terminating line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
