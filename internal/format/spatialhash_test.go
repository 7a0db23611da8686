package format

import "testing"

func TestSpatialPointHashInternDedup(t *testing.T) {
	h := NewSpatialPointHash(1e-3)

	i1, inserted1 := h.Intern(Point3{X: 1, Y: 2, Z: 3})
	if !inserted1 {
		t.Fatal("first Intern of a fresh point should report inserted=true")
	}
	i2, inserted2 := h.Intern(Point3{X: 1.0001, Y: 2.0001, Z: 3.0001})
	if inserted2 {
		t.Error("a point within tolerance should not be re-inserted")
	}
	if i1 != i2 {
		t.Errorf("within-tolerance points got different indices: %d vs %d", i1, i2)
	}
	if len(h.Points()) != 1 {
		t.Errorf("expected 1 interned point, got %d", len(h.Points()))
	}
}

func TestSpatialPointHashDistinctPoints(t *testing.T) {
	h := NewSpatialPointHash(1e-3)
	i1, _ := h.Intern(Point3{X: 0, Y: 0, Z: 0})
	i2, _ := h.Intern(Point3{X: 10, Y: 10, Z: 10})
	if i1 == i2 {
		t.Error("distinct points should not share an index")
	}
	if len(h.Points()) != 2 {
		t.Errorf("expected 2 interned points, got %d", len(h.Points()))
	}
}

func TestSpatialPointHashNeighborCellProbe(t *testing.T) {
	// Two points that snap into adjacent grid cells but remain within
	// tolerance must still dedup via the 26-neighbor probe.
	tol := 1.0
	h := NewSpatialPointHash(tol)
	i1, _ := h.Intern(Point3{X: 0.49, Y: 0, Z: 0})
	i2, _ := h.Intern(Point3{X: 0.51, Y: 0, Z: 0})
	if i1 != i2 {
		t.Errorf("points straddling a cell boundary within tolerance should dedup, got indices %d and %d", i1, i2)
	}
}

func TestSpatialPointHashDefaultTolerance(t *testing.T) {
	h := NewSpatialPointHash(0)
	if h.tolerance != DefaultTolerance {
		t.Errorf("zero tolerance should fall back to DefaultTolerance, got %v", h.tolerance)
	}
}
