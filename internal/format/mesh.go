package format

// MeshBuilder assembles a triangulated Surface from a stream of triangle
// vertex triples, deduplicating vertices through a SpatialPointHash. Shared
// by every 3DFACE-producing parser (binary/ASCII DXF, Surpac DTM+STR) per
// spec.md §4.6.6.
type MeshBuilder struct {
	hash      *SpatialPointHash
	triangles []Triangle
}

// NewMeshBuilder creates a builder with the given interning tolerance.
func NewMeshBuilder(tolerance float64) *MeshBuilder {
	return &MeshBuilder{hash: NewSpatialPointHash(tolerance)}
}

// AddTriangle interns v1/v2/v3 and appends a Triangle referencing their
// (deduplicated) indices, with minZ/maxZ precomputed over the three vertices.
func (m *MeshBuilder) AddTriangle(v1, v2, v3 Point3) {
	i1, _ := m.hash.Intern(v1)
	i2, _ := m.hash.Intern(v2)
	i3, _ := m.hash.Intern(v3)

	minZ, maxZ := v1.Z, v1.Z
	for _, z := range []float64{v2.Z, v3.Z} {
		if z < minZ {
			minZ = z
		}
		if z > maxZ {
			maxZ = z
		}
	}
	m.triangles = append(m.triangles, Triangle{V1: i1, V2: i2, V3: i3, MinZ: minZ, MaxZ: maxZ})
}

// Build finalizes the surface: computes meshBounds in one pass and returns
// nil if no triangles were ever added (spec.md §4.6.6: "If no triangles, no
// surface is emitted").
func (m *MeshBuilder) Build(id, name string) *Surface {
	if len(m.triangles) == 0 {
		return nil
	}
	var bounds AABB3
	for _, p := range m.hash.Points() {
		bounds.Extend(p)
	}
	return &Surface{
		ID:           id,
		Name:         name,
		Points:       append([]Point3(nil), m.hash.Points()...),
		Triangles:    m.triangles,
		MeshBounds:   bounds,
		Visible:      true,
		Gradient:     "hillshade",
		Transparency: 1.0,
	}
}
