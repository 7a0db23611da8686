package kad

import "github.com/beetlebugorg/kirrakad/internal/format"

// Point3 is a 3-D coordinate.
type Point3 = format.Point3

// ColorHex is a 24-bit RGB color serialized as "#RRGGBB".
type ColorHex = format.ColorHex

// Vertex is one point of a Point/Line/Polygon/Text drawing.
type Vertex = format.Vertex

// Triangle is one face of a Surface mesh.
type Triangle = format.Triangle

// AABB3 is an axis-aligned bounding box.
type AABB3 = format.AABB3

// Measurement is a value with the timestamp it was captured at.
type Measurement = format.Measurement

// Drawing is a Point/Line/Polygon/Circle/Text entity.
type Drawing = format.Drawing

// Hole is a single blast hole with full geometry and timing/charging metadata.
type Hole = format.Hole

// Surface is a triangulated mesh, optionally textured.
type Surface = format.Surface

// Image is an opaque binary blob keyed by id in a Document (KAP payload).
type Image = format.Image

// DrawingType tags which Drawing variant is populated.
type DrawingType = format.DrawingType

const (
	DrawingPoint   = format.DrawingPoint
	DrawingLine    = format.DrawingLine
	DrawingPolygon = format.DrawingPolygon
	DrawingCircle  = format.DrawingCircle
	DrawingText    = format.DrawingText
)

// Document is the unified parse result: holes, drawings, surfaces, images,
// and any opaque round-trip-only KAP collections. Fields are private;
// access them through the accessor methods below.
type Document struct {
	project *format.Project
}

func newDocument(p *format.Project) *Document {
	if p == nil {
		p = format.NewProject()
	}
	return &Document{project: p}
}

// Holes returns every blast hole in the document.
func (d *Document) Holes() []Hole { return d.project.Holes }

// Drawings returns every drawing, keyed by entity name.
func (d *Document) Drawings() map[string]*Drawing { return d.project.Drawings }

// Surfaces returns every triangulated surface, keyed by id.
func (d *Document) Surfaces() map[string]*Surface { return d.project.Surfaces }

// Images returns every opaque image blob, keyed by id.
func (d *Document) Images() map[string]*Image { return d.project.Images }

// DrawingLayers returns the ordered list of drawing layer names.
func (d *Document) DrawingLayers() []string { return d.project.DrawingLayers }

// SurfaceLayers returns the ordered list of surface layer names.
func (d *Document) SurfaceLayers() []string { return d.project.SurfaceLayers }

// HoleCount returns the number of holes in the document.
func (d *Document) HoleCount() int { return len(d.project.Holes) }

// Raw returns the underlying internal project representation, for callers
// that need direct field access (e.g. the pkg/v1 cache/index layer).
func (d *Document) Raw() *format.Project { return d.project }
