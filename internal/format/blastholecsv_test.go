package format

import "testing"

func TestParseBlastHoleCSVFixedSchema(t *testing.T) {
	text := "entityName,entityType,holeID,startX,startY,startZ,endX,endY,endZ\n" +
		"D1,hole,H1,0,0,100,0,0,90\n" +
		"D1,hole,H2,10,0,100,10,0,90\n"
	result, err := ParseBlastHoleCSV(text, DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseBlastHoleCSV failed: %v", err)
	}
	if len(result.Project.Holes) != 2 {
		t.Fatalf("got %d holes, want 2", len(result.Project.Holes))
	}
	h := result.Project.Holes[0]
	if h.EntityName != "D1" || h.HoleID != "H1" {
		t.Errorf("got entityName=%q holeID=%q, want D1/H1", h.EntityName, h.HoleID)
	}
	if h.Collar.Z != 100 || h.Toe.Z != 90 {
		t.Errorf("collar/toe not read from startX..endZ columns: %+v", h)
	}
}

func TestParseBlastHoleCSVNoHeader(t *testing.T) {
	text := "D1,hole,H1,0,0,100,0,0,90\n"
	result, err := ParseBlastHoleCSV(text, DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseBlastHoleCSV failed: %v", err)
	}
	if len(result.Project.Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(result.Project.Holes))
	}
}

func TestParseBlastHoleCSVFromHoleIDSelfReferencesWhenAbsent(t *testing.T) {
	text := "D1,hole,H1,0,0,100,0,0,90\n"
	result, err := ParseBlastHoleCSV(text, DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseBlastHoleCSV failed: %v", err)
	}
	h := result.Project.Holes[0]
	want := FromHoleIDFor("D1", "H1")
	if h.FromHoleID != want {
		t.Errorf("FromHoleID = %q, want %q", h.FromHoleID, want)
	}
}

func TestParseBlastHoleCSVUnrecognizedColumnCount(t *testing.T) {
	text := "a,b,c,d,e\n"
	_, err := ParseBlastHoleCSV(text, DefaultParseOptions())
	if err == nil {
		t.Fatal("expected ErrSchemaMismatch for an unrecognized column count")
	}
	if _, ok := err.(*ErrSchemaMismatch); !ok {
		t.Fatalf("expected *ErrSchemaMismatch, got %T", err)
	}
}

func TestWriteBlastHoleCSVCanonicalWidth(t *testing.T) {
	p := NewProject()
	p.Holes = []Hole{{EntityName: "D1", HoleID: "H1", Collar: Point3{X: 0, Y: 0, Z: 100}, Toe: Point3{X: 0, Y: 0, Z: 90}}}
	text, err := WriteBlastHoleCSV(p)
	if err != nil {
		t.Fatalf("WriteBlastHoleCSV failed: %v", err)
	}
	lines := splitNonEmptyLines(text)
	if len(lines) != 2 {
		t.Fatalf("expected a header line plus one data line, got %d lines", len(lines))
	}
	header := splitCSVRow(lines[0])
	if len(header) != len(blastHoleCanonicalColumns) {
		t.Errorf("header has %d columns, want %d", len(header), len(blastHoleCanonicalColumns))
	}
	if header[0] != "entityName" || header[1] != "entityType" || header[2] != "holeID" {
		t.Errorf("canonical header does not lead with entityName,entityType,holeID: %v", header[:3])
	}
	row := splitCSVRow(lines[1])
	if len(row) != len(blastHoleCanonicalColumns) {
		t.Errorf("data row has %d columns, want %d", len(row), len(blastHoleCanonicalColumns))
	}
	if row[0] != "D1" || row[2] != "H1" {
		t.Errorf("data row entityName/holeID = %q/%q, want D1/H1", row[0], row[2])
	}
}
