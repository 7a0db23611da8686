package format

import "testing"

func holeAt(id string, x, y float64) *Hole {
	return &Hole{HoleID: id, Collar: Point3{X: x, Y: y, Z: 0}, HoleDiameter: 100}
}

func TestRowDetectorAlphanumericPrefixClustering(t *testing.T) {
	holes := []*Hole{
		holeAt("A1", 0, 0), holeAt("A2", 1, 0), holeAt("A3", 2, 0),
		holeAt("B1", 0, 5), holeAt("B2", 1, 5), holeAt("B3", 2, 5),
		holeAt("C1", 0, 10), holeAt("C2", 1, 10), holeAt("C3", 2, 10),
	}
	NewRowDetector().Assign(holes)

	rows := make(map[string]int)
	for _, h := range holes {
		rows[h.HoleID] = h.RowID
	}
	if rows["A1"] != rows["A2"] || rows["A2"] != rows["A3"] {
		t.Errorf("row A holes split across rows: %+v", rows)
	}
	if rows["A1"] == rows["B1"] || rows["B1"] == rows["C1"] {
		t.Errorf("distinct prefixes should land in distinct rows: %+v", rows)
	}
	for _, h := range holes {
		if h.PosID == 0 {
			t.Errorf("hole %s left with PosID 0", h.HoleID)
		}
	}
}

func TestRowDetectorNumericLineFitClustering(t *testing.T) {
	// A straight line of holes along Y=0 should all land in one row; the
	// detector only splits when perpendicular deviation exceeds threshold.
	holes := []*Hole{
		holeAt("1", 0, 0), holeAt("2", 1, 0), holeAt("3", 2, 0), holeAt("4", 3, 0),
	}
	NewRowDetector().Assign(holes)
	for _, h := range holes {
		if h.RowID != holes[0].RowID {
			t.Errorf("collinear numeric holes should share a row: hole %s got row %d, want %d", h.HoleID, h.RowID, holes[0].RowID)
		}
	}
}

func TestRowDetectorFallsBackWhenIDsAreMixed(t *testing.T) {
	holes := []*Hole{
		holeAt("X", 0, 0), holeAt("42", 1, 0), holeAt("Y-weird!", 2, 0),
	}
	NewRowDetector().Assign(holes)
	for i, h := range holes {
		if h.RowID != 1 {
			t.Errorf("fallback should assign every hole to row 1, hole %d got row %d", i, h.RowID)
		}
		if h.PosID != i+1 {
			t.Errorf("fallback PosID[%d] = %d, want %d", i, h.PosID, i+1)
		}
	}
}

func TestRowDetectorSkipsHolesWithExistingRowID(t *testing.T) {
	holes := []*Hole{
		{HoleID: "A1", RowID: 9, PosID: 9},
		holeAt("A2", 1, 0),
	}
	NewRowDetector().Assign(holes)
	if holes[0].RowID != 9 || holes[0].PosID != 9 {
		t.Error("a hole with an already-assigned RowID must not be reassigned")
	}
}
