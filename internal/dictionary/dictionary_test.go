package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDictFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dictionary file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeDictFile(t, `
cat:
  - cat
  - neko
  - kitty
Fuji:
  - fuji
  - mount fuji
`)

	d, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", d.Len())
	}

	alternates := d.Lookup("cat")
	if len(alternates) != 3 {
		t.Fatalf("expected 3 alternates for cat, got %d", len(alternates))
	}
	if alternates[1] != "neko" {
		t.Errorf("expected second alternate 'neko', got %q", alternates[1])
	}
}

func TestLoad_NormalizesKeys(t *testing.T) {
	path := writeDictFile(t, `
Fuji:
  - fuji
  - mount fuji
`)

	d, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Lookup normalizes too, so any casing hits.
	if got := d.Lookup("FUJI"); len(got) != 2 {
		t.Errorf("expected lookup to hit regardless of casing, got %v", got)
	}
	if got := d.Lookup(" fuji "); len(got) != 2 {
		t.Errorf("expected lookup to trim whitespace, got %v", got)
	}
}

func TestLoad_DropsBlankAlternates(t *testing.T) {
	path := writeDictFile(t, `
cat:
  - cat
  - "  "
  - neko
`)

	d, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alternates := d.Lookup("cat")
	if len(alternates) != 2 {
		t.Errorf("expected blank alternate dropped, got %v", alternates)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeDictFile(t, "cat: [unclosed")

	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestNewEmpty(t *testing.T) {
	d := NewEmpty()
	if d.Len() != 0 {
		t.Errorf("expected 0 entries, got %d", d.Len())
	}
	if got := d.Lookup("anything"); got != nil {
		t.Errorf("expected nil for unknown key, got %v", got)
	}
	if d.Set() == nil {
		t.Error("expected a non-nil synonym set")
	}
}

func TestLookup_UnknownKey(t *testing.T) {
	path := writeDictFile(t, "cat:\n  - cat\n")

	d, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.Lookup("dog"); got != nil {
		t.Errorf("expected nil for unknown key, got %v", got)
	}
}
