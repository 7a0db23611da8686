package kad

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseKAPBytesReplaceMode(t *testing.T) {
	data := buildZip(t, map[string]string{
		"manifest.json": `{"version":"2"}`,
		"holes.json":    `[{"HoleID":"H1"}]`,
		"drawings.json": `[]`,
		"surfaces.json": `{}`,
	})

	var into DataStores
	result, err := ParseKAPBytes(data, ImportReplace, &into, nil)
	if err != nil {
		t.Fatalf("ParseKAPBytes failed: %v", err)
	}
	if len(into.Holes) != 1 || into.Holes[0].HoleID != "H1" {
		t.Errorf("expected DataStores to absorb the imported hole, got %+v", into.Holes)
	}
	if result.Document.HoleCount() != 1 {
		t.Errorf("Document.HoleCount() = %d, want 1", result.Document.HoleCount())
	}
}

func TestParseKAPFileReadsFromDisk(t *testing.T) {
	data := buildZip(t, map[string]string{
		"manifest.json": `{"version":"2"}`,
		"holes.json":    `[]`,
		"drawings.json": `[]`,
		"surfaces.json": `{}`,
	})
	dir := t.TempDir()
	path := filepath.Join(dir, "project.kap")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing test fixture failed: %v", err)
	}

	var into DataStores
	_, err := ParseKAPFile(path, ImportMerge, &into, nil)
	if err != nil {
		t.Fatalf("ParseKAPFile failed: %v", err)
	}
}

func TestWriteKAPFileRoundTrips(t *testing.T) {
	kadPath := filepath.Join(t.TempDir(), "in.kad")
	if err := os.WriteFile(kadPath, []byte("P1,point,1,1,2,3,0.5,#FF0000\n"), 0o644); err != nil {
		t.Fatalf("writing test fixture failed: %v", err)
	}
	parsed, err := NewParser().Parse(kadPath)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "out.kap")
	if err := WriteKAPFile(outPath, parsed.Document, "20260731_120000"); err != nil {
		t.Fatalf("WriteKAPFile failed: %v", err)
	}

	var into DataStores
	result, err := ParseKAPFile(outPath, ImportReplace, &into, nil)
	if err != nil {
		t.Fatalf("re-parsing written KAP file failed: %v", err)
	}
	if len(result.Document.Drawings()) != 1 {
		t.Errorf("round trip lost the drawing: got %d", len(result.Document.Drawings()))
	}
}
