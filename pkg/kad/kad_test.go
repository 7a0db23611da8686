package kad

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParserRoundTripsKADFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern1.kad")
	text := "P1,point,1,1,2,3,0.5,#FF0000\n" +
		"L1,line,1,0,0,0,0.5,#00FF00\n" +
		"L1,line,2,10,0,0,0.5,#00FF00\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("writing test fixture failed: %v", err)
	}

	p := NewParser()
	result, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Document.Drawings()) != 2 {
		t.Errorf("got %d drawings, want 2", len(result.Document.Drawings()))
	}
}

func TestWriterRoundTripsKAD(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.kad")
	if err := os.WriteFile(inPath, []byte("P1,point,1,1,2,3,0.5,#FF0000\n"), 0o644); err != nil {
		t.Fatalf("writing test fixture failed: %v", err)
	}

	result, err := NewParser().Parse(inPath)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	w := NewWriter()
	text, err := w.WriteKAD(result.Document)
	if err != nil {
		t.Fatalf("WriteKAD failed: %v", err)
	}
	if text == "" {
		t.Error("expected non-empty KAD output")
	}
}

func TestClassifyFileAndFilterString(t *testing.T) {
	kind, err := ClassifyFile("pattern1.kad", nil)
	if err != nil {
		t.Fatalf("ClassifyFile failed: %v", err)
	}
	if kind != FormatKAD {
		t.Errorf("ClassifyFile(pattern1.kad) = %v, want FormatKAD", kind)
	}
	if kind.String() != "kad" {
		t.Errorf("FormatKAD.String() = %q, want kad", kind.String())
	}
	if FilterString() == "" {
		t.Error("expected a non-empty filter string")
	}
}
