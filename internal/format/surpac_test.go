package format

import "testing"

func TestParseSurpacSTRSplitsObjectsOnSentinel(t *testing.T) {
	text := "1,0,0,0,\n2,10,0,0,\n0,0,0,0,\nEND\n" +
		"1,0,5,0,\n2,10,5,0,\n0,0,0,0,\nEND\n"
	objects, err := ParseSurpacSTR(text)
	if err != nil {
		t.Fatalf("ParseSurpacSTR failed: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("got %d objects, want 2", len(objects))
	}
	if len(objects[0]) != 2 || len(objects[1]) != 2 {
		t.Fatalf("expected 2 points per object, got %d and %d", len(objects[0]), len(objects[1]))
	}
	// Y,X axis order: first column after pointID is Y, second is X.
	if objects[0][0].X != 0 || objects[0][0].Y != 0 {
		t.Errorf("unexpected first point: %+v", objects[0][0])
	}
	if objects[0][1].X != 0 || objects[0][1].Y != 10 {
		t.Errorf("Y,X axis order not respected: %+v", objects[0][1])
	}
}

func TestParseSurpacDTMReadsTriangleIndices(t *testing.T) {
	text := "1,1,2,3\n2,2,4,3\n0,0,0,0\nEND\n"
	tris, err := ParseSurpacDTM(text)
	if err != nil {
		t.Fatalf("ParseSurpacDTM failed: %v", err)
	}
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	if tris[0] != [3]int{1, 2, 3} {
		t.Errorf("tris[0] = %v, want [1 2 3]", tris[0])
	}
}

func TestBuildSurpacSurfacesSplitsIntoParts(t *testing.T) {
	objects := [][]Point3{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		{{X: 10, Y: 0, Z: 0}, {X: 11, Y: 0, Z: 0}, {X: 10, Y: 1, Z: 0}},
	}
	triangles := [][3]int{
		{1, 2, 3}, // part 1
		{4, 5, 6}, // part 2
	}
	surfaces := BuildSurpacSurfaces("SURF", objects, triangles, DefaultTolerance)
	if len(surfaces) != 2 {
		t.Fatalf("got %d surfaces, want 2", len(surfaces))
	}
	if surfaces[0].Name != "SURF" {
		t.Errorf("surfaces[0].Name = %q, want SURF", surfaces[0].Name)
	}
	if surfaces[1].Name != "SURF_part2" {
		t.Errorf("surfaces[1].Name = %q, want SURF_part2", surfaces[1].Name)
	}
}

func TestWriteSurpacSTRAndDTMRoundTrip(t *testing.T) {
	m := NewMeshBuilder(DefaultTolerance)
	m.AddTriangle(Point3{X: 0, Y: 0, Z: 0}, Point3{X: 1, Y: 0, Z: 0}, Point3{X: 0, Y: 1, Z: 0})
	surf := m.Build("s1", "Surface 1")

	strText := WriteSurpacSTR(surf)
	dtmText := WriteSurpacDTM(surf)

	objects, err := ParseSurpacSTR(strText)
	if err != nil {
		t.Fatalf("ParseSurpacSTR on round trip failed: %v", err)
	}
	if len(objects) != 1 || len(objects[0]) != len(surf.Points) {
		t.Fatalf("round-tripped STR has wrong point count: %+v", objects)
	}

	tris, err := ParseSurpacDTM(dtmText)
	if err != nil {
		t.Fatalf("ParseSurpacDTM on round trip failed: %v", err)
	}
	if len(tris) != len(surf.Triangles) {
		t.Fatalf("round-tripped DTM has %d triangles, want %d", len(tris), len(surf.Triangles))
	}
}
