package format

import "testing"

func TestParseKAPReplaceMode(t *testing.T) {
	zip := newFakeZip().
		put("manifest.json", `{"version":"2"}`).
		put("holes.json", `[{"HoleID":"H1","EntityName":"Design1"}]`).
		put("drawings.json", `[]`).
		put("surfaces.json", `{}`)

	var into DataStores
	into.Holes = []Hole{{HoleID: "OLD"}}

	result, err := ParseKAP(zip, KAPReplace, &into, nil)
	if err != nil {
		t.Fatalf("ParseKAP failed: %v", err)
	}
	if len(result.Project.Holes) != 1 || result.Project.Holes[0].HoleID != "H1" {
		t.Fatalf("unexpected holes in result: %+v", result.Project.Holes)
	}
	if len(into.Holes) != 1 || into.Holes[0].HoleID != "H1" {
		t.Fatalf("Replace mode should discard prior live holes, got %+v", into.Holes)
	}
}

func TestParseKAPMergeModeOverwritesByID(t *testing.T) {
	zip := newFakeZip().
		put("manifest.json", `{"version":"2"}`).
		put("holes.json", `[{"HoleID":"H1","HoleDiameter":229}]`).
		put("drawings.json", `[]`).
		put("surfaces.json", `{}`)

	into := DataStores{Holes: []Hole{{HoleID: "H1", HoleDiameter: 100}, {HoleID: "H2", HoleDiameter: 150}}}

	_, err := ParseKAP(zip, KAPMerge, &into, nil)
	if err != nil {
		t.Fatalf("ParseKAP failed: %v", err)
	}
	if len(into.Holes) != 2 {
		t.Fatalf("merge should overwrite existing H1 in place, not append: got %d holes", len(into.Holes))
	}
	for _, h := range into.Holes {
		if h.HoleID == "H1" && h.HoleDiameter != 229 {
			t.Errorf("H1 not overwritten by merge, got diameter %v", h.HoleDiameter)
		}
		if h.HoleID == "H2" && h.HoleDiameter != 150 {
			t.Errorf("H2 should be left untouched by merge, got diameter %v", h.HoleDiameter)
		}
	}
}

func TestParseKAPMissingManifestFails(t *testing.T) {
	zip := newFakeZip()
	var into DataStores
	_, err := ParseKAP(zip, KAPReplace, &into, nil)
	if err == nil {
		t.Fatal("expected an error for a KAP archive with no manifest.json")
	}
}

func TestParseKAPVersionDriftWarns(t *testing.T) {
	zip := newFakeZip().
		put("manifest.json", `{"version":"1"}`).
		put("holes.json", `[]`).
		put("drawings.json", `[]`).
		put("surfaces.json", `{}`)
	var into DataStores
	result, err := ParseKAP(zip, KAPReplace, &into, nil)
	if err != nil {
		t.Fatalf("ParseKAP failed: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a version-drift warning for an old manifest version")
	}
}

func TestParseKAPDrawingsJSONArrayOfPairs(t *testing.T) {
	zip := newFakeZip().
		put("manifest.json", `{"version":"2"}`).
		put("holes.json", `[]`).
		put("drawings.json", `[["P1",{"Type":1,"EntityName":"P1"}],["L1",{"Type":2,"EntityName":"L1"}]]`).
		put("surfaces.json", `{}`)

	var into DataStores
	result, err := ParseKAP(zip, KAPReplace, &into, nil)
	if err != nil {
		t.Fatalf("ParseKAP failed: %v", err)
	}
	if len(result.Project.Drawings) != 2 {
		t.Fatalf("got %d drawings, want 2", len(result.Project.Drawings))
	}
	if d, ok := result.Project.Drawings["P1"]; !ok || d.Type != DrawingPoint {
		t.Errorf("P1 drawing missing or wrong type: %+v", result.Project.Drawings["P1"])
	}
	if d, ok := result.Project.Drawings["L1"]; !ok || d.Type != DrawingLine {
		t.Errorf("L1 drawing missing or wrong type: %+v", result.Project.Drawings["L1"])
	}
}

func TestWriteKAPDrawingsJSONIsArrayOfPairs(t *testing.T) {
	p := NewProject()
	p.Drawings["P1"] = &Drawing{Type: DrawingPoint, EntityName: "P1"}
	out, err := WriteKAP(p, "20260731_120000")
	if err != nil {
		t.Fatalf("WriteKAP failed: %v", err)
	}
	zip := newFakeZip()
	for name, data := range out {
		zip.put(name, string(data))
	}
	var into DataStores
	result, err := ParseKAP(zip, KAPReplace, &into, nil)
	if err != nil {
		t.Fatalf("re-parsing written KAP failed: %v", err)
	}
	if len(result.Project.Drawings) != 1 || result.Project.Drawings["P1"] == nil {
		t.Errorf("drawings.json round trip lost the drawing: %+v", result.Project.Drawings)
	}
}

func TestWriteKAPRoundTrip(t *testing.T) {
	p := NewProject()
	p.Holes = []Hole{{HoleID: "H1", HoleDiameter: 229}}
	out, err := WriteKAP(p, "20260731_120000")
	if err != nil {
		t.Fatalf("WriteKAP failed: %v", err)
	}
	if _, ok := out["manifest.json"]; !ok {
		t.Error("expected manifest.json in the written archive")
	}
	if _, ok := out["holes.json"]; !ok {
		t.Error("expected holes.json in the written archive")
	}

	zip := newFakeZip()
	for name, data := range out {
		zip.put(name, string(data))
	}

	var into DataStores
	result, err := ParseKAP(zip, KAPReplace, &into, nil)
	if err != nil {
		t.Fatalf("re-parsing written KAP failed: %v", err)
	}
	if len(result.Project.Holes) != 1 || result.Project.Holes[0].HoleID != "H1" {
		t.Errorf("round trip lost the hole: %+v", result.Project.Holes)
	}
}
