package format

import "testing"

func TestMeshBuilderEmptyBuildsNothing(t *testing.T) {
	m := NewMeshBuilder(DefaultTolerance)
	if surf := m.Build("s1", "Surface 1"); surf != nil {
		t.Errorf("expected nil surface with no triangles, got %+v", surf)
	}
}

func TestMeshBuilderDedupesSharedVertices(t *testing.T) {
	m := NewMeshBuilder(DefaultTolerance)
	a := Point3{X: 0, Y: 0, Z: 0}
	b := Point3{X: 1, Y: 0, Z: 0}
	c := Point3{X: 0, Y: 1, Z: 0}
	d := Point3{X: 1, Y: 1, Z: 0}

	m.AddTriangle(a, b, c)
	m.AddTriangle(b, d, c) // shares edge b-c with the first triangle

	surf := m.Build("s1", "Surface 1")
	if surf == nil {
		t.Fatal("expected a non-nil surface")
	}
	if len(surf.Points) != 4 {
		t.Errorf("expected 4 deduplicated points, got %d", len(surf.Points))
	}
	if len(surf.Triangles) != 2 {
		t.Errorf("expected 2 triangles, got %d", len(surf.Triangles))
	}
	if surf.Triangles[0].V2 != surf.Triangles[1].V1 || surf.Triangles[0].V3 != surf.Triangles[1].V3 {
		t.Error("shared vertex b/c should resolve to the same index across both triangles")
	}
}

func TestMeshBuilderBoundsAndMinMaxZ(t *testing.T) {
	m := NewMeshBuilder(DefaultTolerance)
	m.AddTriangle(Point3{X: 0, Y: 0, Z: -5}, Point3{X: 1, Y: 0, Z: 10}, Point3{X: 0, Y: 1, Z: 2})
	surf := m.Build("s1", "Surface 1")
	if surf.Triangles[0].MinZ != -5 || surf.Triangles[0].MaxZ != 10 {
		t.Errorf("triangle Z bounds = [%v,%v], want [-5,10]", surf.Triangles[0].MinZ, surf.Triangles[0].MaxZ)
	}
	if surf.MeshBounds.MinZ != -5 || surf.MeshBounds.MaxZ != 10 {
		t.Errorf("mesh bounds Z = [%v,%v], want [-5,10]", surf.MeshBounds.MinZ, surf.MeshBounds.MaxZ)
	}
}
