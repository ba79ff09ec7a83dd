package jarfile

import "testing"

// TestParseManifestContinuation exercises spec scenario S6: a continuation
// line wrapping a value, and a "Name:" section following a blank line.
func TestParseManifestContinuation(t *testing.T) {
	text := "Manifest-Version: 1.0\r\n" +
		"Main-Class: com.example.Ap\r\n plication\r\n" +
		"\r\n" +
		"Name: a/b.txt\r\nDigest: xyz\r\n"

	m, err := ParseManifest(text)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}

	main := m.MainSection()
	if main["Main-Class"] != "com.example.Application" {
		t.Fatalf("Main-Class = %q, want %q", main["Main-Class"], "com.example.Application")
	}
	if main["Manifest-Version"] != "1.0" {
		t.Fatalf("Manifest-Version = %q, want %q", main["Manifest-Version"], "1.0")
	}

	section := m.Section("a/b.txt")
	if section == nil {
		t.Fatal("section \"a/b.txt\" missing")
	}
	if section["Digest"] != "xyz" {
		t.Fatalf("Digest = %q, want %q", section["Digest"], "xyz")
	}
}

func TestParseManifestLFOnly(t *testing.T) {
	text := "Manifest-Version: 1.0\nCreated-By: 17 (test)\n"
	m, err := ParseManifest(text)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	main := m.MainSection()
	if main["Created-By"] != "17 (test)" {
		t.Fatalf("Created-By = %q, want %q", main["Created-By"], "17 (test)")
	}
}

func TestParseManifestMalformedLine(t *testing.T) {
	text := "Manifest-Version: 1.0\nthis line has no colon\n"
	_, err := ParseManifest(text)
	perr, ok := err.(*ManifestParseError)
	if !ok {
		t.Fatalf("error = %v (%T), want *ManifestParseError", err, err)
	}
	if perr.LineNo != 2 {
		t.Fatalf("LineNo = %d, want 2", perr.LineNo)
	}
}

func TestParseManifestEmpty(t *testing.T) {
	m, err := ParseManifest("")
	if err != nil {
		t.Fatalf("ParseManifest(\"\"): %v", err)
	}
	if m.MainSection() != nil {
		t.Fatalf("MainSection() = %v, want nil", m.MainSection())
	}
}

func TestParseManifestSectionKeysUnique(t *testing.T) {
	// Spec invariant 7: section keys are unique. A repeated key overwrites
	// rather than producing two entries, which a map already guarantees;
	// this pins the expected final value.
	text := "Manifest-Version: 1.0\nManifest-Version: 2.0\n"
	m, err := ParseManifest(text)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if got := m.MainSection()["Manifest-Version"]; got != "2.0" {
		t.Fatalf("Manifest-Version = %q, want %q", got, "2.0")
	}
}
