package format

import "math"

// DefaultTolerance is the default interning tolerance for SpatialPointHash.
const DefaultTolerance = 1e-3

type cellKey struct {
	x, y, z int64
}

// SpatialPointHash interns points into a shared vertex table with
// tolerance-based deduplication, used by surface assembly (spec.md §4.2).
// A hash is owned by a single parse invocation and dropped once the surface
// it builds is finalized (spec.md §5).
type SpatialPointHash struct {
	tolerance float64
	points    []Point3
	cells     map[cellKey]int
}

// NewSpatialPointHash creates a hash with the given tolerance. A tolerance
// <= 0 falls back to DefaultTolerance.
func NewSpatialPointHash(tolerance float64) *SpatialPointHash {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &SpatialPointHash{
		tolerance: tolerance,
		cells:     make(map[cellKey]int),
	}
}

// Points returns the deduplicated vertex table built so far. The returned
// slice aliases internal storage and must not be mutated.
func (h *SpatialPointHash) Points() []Point3 { return h.points }

func (h *SpatialPointHash) snap(p Point3) cellKey {
	return cellKey{
		x: int64(math.Round(p.X / h.tolerance)),
		y: int64(math.Round(p.Y / h.tolerance)),
		z: int64(math.Round(p.Z / h.tolerance)),
	}
}

// Intern returns the index of an existing point within tolerance of p, or
// appends p as a new vertex and returns its new index. The second return
// value reports whether p was newly inserted.
func (h *SpatialPointHash) Intern(p Point3) (int, bool) {
	key := h.snap(p)
	if idx, ok := h.cells[key]; ok {
		return idx, false
	}

	// Probe the 26 neighboring cells for a point within Chebyshev distance
	// of tolerance; alias this cell to that index without inserting.
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				neighbor := cellKey{x: key.x + dx, y: key.y + dy, z: key.z + dz}
				idx, ok := h.cells[neighbor]
				if !ok {
					continue
				}
				if chebyshev(h.points[idx], p) <= h.tolerance {
					h.cells[key] = idx
					return idx, false
				}
			}
		}
	}

	idx := len(h.points)
	h.points = append(h.points, p)
	h.cells[key] = idx
	return idx, true
}

func chebyshev(a, b Point3) float64 {
	dx := math.Abs(a.X - b.X)
	dy := math.Abs(a.Y - b.Y)
	dz := math.Abs(a.Z - b.Z)
	m := dx
	if dy > m {
		m = dy
	}
	if dz > m {
		m = dz
	}
	return m
}
