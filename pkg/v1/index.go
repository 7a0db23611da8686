package kad

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/beetlebugorg/kirrakad/pkg/kad"
)

// entryKind tags which collection a ProjectIndex entry came from.
type entryKind int

const (
	entryDrawing entryKind = iota
	entrySurface
	entryHole
)

// IndexEntry is one spatially-indexed item: a drawing, a surface, or a hole.
type IndexEntry struct {
	Kind   entryKind
	Name   string // entity name, surface id, or hole id
	Bounds kad.AABB3
}

// indexedEntry adapts an IndexEntry to rtreego.Spatial.
type indexedEntry struct {
	entry IndexEntry
}

const rtreeEpsilon = 1e-3

// Bounds implements rtreego.Spatial, widening degenerate (point) boxes to a
// small minimum extent since rtreego requires strictly positive side lengths.
func (e *indexedEntry) Bounds() rtreego.Rect {
	b := e.entry.Bounds
	point := rtreego.Point{b.MinX, b.MinY, b.MinZ}
	lengths := []float64{b.MaxX - b.MinX, b.MaxY - b.MinY, b.MaxZ - b.MinZ}
	for i, l := range lengths {
		if l < rtreeEpsilon {
			lengths[i] = rtreeEpsilon
		}
	}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		// Degenerate beyond repair (e.g. NaN bounds): index at the origin
		// rather than panic, matching the resolver's own NaN-guard posture.
		rect, _ = rtreego.NewRect(rtreego.Point{0, 0, 0}, []float64{rtreeEpsilon, rtreeEpsilon, rtreeEpsilon})
	}
	return rect
}

// ProjectIndex provides fast spatial queries over a Document's drawings,
// surfaces, and holes via an R-tree (spec.md §4.4 enrichment, grounded on
// the teacher's chart spatial index).
type ProjectIndex struct {
	tree *rtreego.Rtree
}

// BuildProjectIndex indexes every drawing, surface, and hole in doc.
func BuildProjectIndex(doc *kad.Document) *ProjectIndex {
	tree := rtreego.NewTree(3, 25, 50)

	for name, d := range doc.Drawings() {
		var b kad.AABB3
		for _, v := range d.Vertices {
			b.Extend(v.Point)
		}
		if d.Type == kad.DrawingCircle {
			b.Extend(kad.Point3{X: d.Center.X - d.Radius, Y: d.Center.Y - d.Radius, Z: d.Center.Z})
			b.Extend(kad.Point3{X: d.Center.X + d.Radius, Y: d.Center.Y + d.Radius, Z: d.Center.Z})
		}
		tree.Insert(&indexedEntry{entry: IndexEntry{Kind: entryDrawing, Name: name, Bounds: b}})
	}

	for id, s := range doc.Surfaces() {
		tree.Insert(&indexedEntry{entry: IndexEntry{Kind: entrySurface, Name: id, Bounds: s.MeshBounds}})
	}

	for _, h := range doc.Holes() {
		var b kad.AABB3
		b.Extend(h.Collar)
		b.Extend(h.Toe)
		b.Extend(h.Grade)
		tree.Insert(&indexedEntry{entry: IndexEntry{Kind: entryHole, Name: h.HoleID, Bounds: b}})
	}

	return &ProjectIndex{tree: tree}
}

// Query returns every indexed entry whose bounds intersect the given box.
func (idx *ProjectIndex) Query(box kad.AABB3) []IndexEntry {
	point := rtreego.Point{box.MinX, box.MinY, box.MinZ}
	lengths := []float64{box.MaxX - box.MinX, box.MaxY - box.MinY, box.MaxZ - box.MinZ}
	for i, l := range lengths {
		if l < rtreeEpsilon {
			lengths[i] = rtreeEpsilon
		}
	}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}

	results := idx.tree.SearchIntersect(rect)
	out := make([]IndexEntry, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*indexedEntry).entry)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count returns the total number of indexed entries.
func (idx *ProjectIndex) Count() int {
	return idx.tree.Size()
}
