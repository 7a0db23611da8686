package format

import (
	"math"
	"strconv"
)

// dxfEntity accumulates group-code fields for one in-progress DXF entity
// before it is closed out into a Drawing or routed to the mesh builder.
// Shared by the binary and ASCII DXF parsers (spec.md §4.6.1/§4.6.2).
type dxfEntity struct {
	typeName string
	handle   string
	layer    string
	text     string
	color    int
	flags    int
	rotation float64
	radius   float64
	fontSize float64

	startAngle, endAngle float64 // ARC only, radians

	// Primary/secondary/third/fourth XYZ triples, per spec.md §4.6.1's
	// group-code semantic table (10/20/30, 11/21/31, 12/22/32, 13/23/33).
	p1, p2, p3, p4                 Point3
	havep1, havep2, havep3, havep4 bool

	vertices []Point3 // POLYLINE/LWPOLYLINE vertex accumulator

	vulcanAppName string
	vulcanString  string
}

// dxfState is the SECTION/ENTITIES state machine shared by the binary and
// ASCII DXF parsers.
type dxfState struct {
	section    string
	current    *dxfEntity
	inPolyline bool
	polyline   *dxfEntity // open POLYLINE while its VERTEX records are read

	namer       *EntityNamer
	existing    map[string]bool
	layerIndex  map[string]int
	globalIndex int
	lastLayer   string

	colors  *ColorTable
	mesh    *MeshBuilder
	project *Project
	result  *ParseResult
}

func newDXFState(opts ParseOptions) *dxfState {
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &dxfState{
		namer:      NewEntityNamer(opts.NamingStrategy),
		existing:   make(map[string]bool),
		layerIndex: make(map[string]int),
		colors:     NewColorTable(),
		mesh:       NewMeshBuilder(tolerance),
		project:    NewProject(),
		result:     &ParseResult{},
	}
}

// feed processes one decoded Record through the state machine.
func (s *dxfState) feed(rec Record) {
	switch rec.Code {
	case 0:
		name := rec.Value.Str
		switch name {
		case "SECTION":
			return // the following (2,name) record names the section
		case "ENDSEC":
			s.closeCurrent()
			s.section = ""
			return
		case "EOF":
			s.closeCurrent()
			return
		case "SEQEND":
			s.closeCurrent()
			s.current, s.polyline = s.polyline, nil
			s.closeCurrent()
			s.inPolyline = false
			return
		}
		if name == "VERTEX" && s.inPolyline && s.current != nil && s.current.typeName == "POLYLINE" {
			s.polyline, s.current = s.current, nil
		}
		s.closeCurrent()
		s.current = &dxfEntity{typeName: name, layer: DefaultLayer}
		if name == "POLYLINE" {
			s.inPolyline = true
		}
		return
	case 2:
		if s.current == nil {
			s.section = rec.Value.Str
		} else {
			s.current.typeName = rec.Value.Str
		}
	case 1:
		if s.current != nil {
			s.current.text = rec.Value.Str
		}
	case 5:
		if s.current != nil {
			s.current.handle = rec.Value.Str
		}
	case 8:
		if s.current != nil {
			s.current.layer = rec.Value.Str
		}
	case 10, 20, 30:
		s.feedVertex(rec)
	case 11, 21, 31:
		if s.current != nil {
			setAxis(&s.current.p2, &s.current.havep2, int(rec.Code-11)/10, asDouble(rec.Value))
		}
	case 12, 22, 32:
		if s.current != nil {
			setAxis(&s.current.p3, &s.current.havep3, int(rec.Code-12)/10, asDouble(rec.Value))
		}
	case 13, 23, 33:
		if s.current != nil {
			setAxis(&s.current.p4, &s.current.havep4, int(rec.Code-13)/10, asDouble(rec.Value))
		}
	case 40:
		if s.current != nil {
			if s.current.typeName == "TEXT" {
				s.current.fontSize = asDouble(rec.Value)
			} else {
				s.current.radius = asDouble(rec.Value)
			}
		}
	case 50:
		if s.current != nil {
			if s.current.typeName == "TEXT" || s.current.typeName == "INSERT" {
				s.current.rotation = asDouble(rec.Value)
			} else {
				s.current.startAngle = asDouble(rec.Value) * math.Pi / 180
			}
		}
	case 51:
		if s.current != nil {
			s.current.endAngle = asDouble(rec.Value) * math.Pi / 180
		}
	case 62:
		if s.current != nil {
			s.current.color = int(asInt(rec.Value))
		}
	case 70:
		if s.current != nil {
			s.current.flags = int(asInt(rec.Value))
		}
	case 1001:
		if s.current != nil {
			s.current.vulcanAppName = rec.Value.Str
		}
	case 1000:
		if s.current != nil && s.current.vulcanAppName == "MAPTEK_VULCAN" && parseVulcanName(rec.Value.Str) != "" {
			s.current.vulcanString = rec.Value.Str
		}
	}
}

func (s *dxfState) feedVertex(rec Record) {
	if s.current == nil {
		return
	}
	var axis int
	switch rec.Code {
	case 10:
		axis = 0
	case 20:
		axis = 1
	case 30:
		axis = 2
	}
	v := asDouble(rec.Value)
	if s.current.typeName == "VERTEX" && s.inPolyline && s.polyline != nil {
		s.appendVertexAxis(s.polyline, v, axis)
		return
	}
	if s.current.typeName == "LWPOLYLINE" {
		s.appendVertexAxis(s.current, v, axis)
		return
	}
	setAxis(&s.current.p1, &s.current.havep1, axis, v)
}

// appendVertexAxis appends to/updates the last in-progress vertex of a
// multi-coordinate entity: axis 0 (x) always starts a fresh point.
func (s *dxfState) appendVertexAxis(e *dxfEntity, v float64, axis int) {
	if axis == 0 || len(e.vertices) == 0 {
		e.vertices = append(e.vertices, Point3{})
	}
	last := &e.vertices[len(e.vertices)-1]
	switch axis {
	case 0:
		last.X = v
	case 1:
		last.Y = v
	case 2:
		last.Z = v
	}
}

func setAxis(p *Point3, have *bool, axis int, v float64) {
	*have = true
	switch axis {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	case 2:
		p.Z = v
	}
}

func asDouble(v Value) float64 {
	switch v.Kind {
	case ValueDouble:
		return v.F64
	case ValueInt16:
		return float64(v.I16)
	case ValueInt32:
		return float64(v.I32)
	case ValueString:
		f, _ := strconv.ParseFloat(v.Str, 64)
		return f
	}
	return 0
}

func asInt(v Value) int64 {
	switch v.Kind {
	case ValueInt16:
		return int64(v.I16)
	case ValueInt32:
		return int64(v.I32)
	case ValueDouble:
		return int64(v.F64)
	case ValueString:
		n, _ := strconv.ParseInt(v.Str, 10, 64)
		return n
	}
	return 0
}

// closeCurrent finalizes the in-progress entity (if any) into a Drawing or
// routes a 3DFACE to the mesh builder. A VERTEX is always folded into its
// parent POLYLINE and never closed out on its own.
func (s *dxfState) closeCurrent() {
	e := s.current
	s.current = nil
	if e == nil || e.typeName == "" || e.typeName == "VERTEX" {
		return
	}

	color := s.colors.ACIToHex(e.color)

	switch e.typeName {
	case "3DFACE":
		if e.havep1 && e.havep2 && e.havep3 {
			if e.havep4 && e.p4 != e.p3 {
				s.mesh.AddTriangle(e.p1, e.p2, e.p3)
				s.mesh.AddTriangle(e.p1, e.p3, e.p4)
			} else {
				s.mesh.AddTriangle(e.p1, e.p2, e.p3)
			}
		}
	case "POINT":
		s.emitDrawing(e, DrawingPoint, []Point3{e.p1}, color)
	case "LINE":
		s.emitDrawing(e, DrawingLine, []Point3{e.p1, e.p2}, color)
	case "CIRCLE":
		s.emitCircle(e, color)
	case "TEXT":
		s.emitText(e, color)
	case "POLYLINE", "LWPOLYLINE":
		dtype := DrawingLine
		if e.flags&1 != 0 {
			dtype = DrawingPolygon
		}
		s.emitDrawing(e, dtype, e.vertices, color)
	case "ARC":
		s.emitArc(e, color)
	case "ELLIPSE":
		s.emitEllipse(e, color)
	}

	if e.vulcanAppName == "MAPTEK_VULCAN" && e.vulcanString != "" {
		s.emitVulcanName(e)
	}
}

func (s *dxfState) nextName(layer, entityType, handle string) string {
	s.layerIndex[layer]++
	li := s.layerIndex[layer]
	s.globalIndex++
	s.lastLayer = layer
	return s.namer.Generate(layer, entityType, handle, li, s.globalIndex, s.existing, "")
}

func (s *dxfState) emitDrawing(e *dxfEntity, t DrawingType, pts []Point3, color ColorHex) {
	if len(pts) == 0 {
		return
	}
	if t == DrawingLine && len(pts) < 2 {
		return
	}
	if t == DrawingPolygon && len(pts) < 3 {
		return
	}
	name := s.nextName(e.layer, e.typeName, e.handle)
	verts := make([]Vertex, len(pts))
	for i, p := range pts {
		verts[i] = Vertex{Point: p, Color: color, PointID: i + 1}
	}
	if t == DrawingPolygon {
		verts[len(verts)-1].Closed = true
	}
	d := &Drawing{Type: t, EntityName: name, Layer: e.layer, Handle: e.handle, Vertices: verts}
	s.project.Drawings[name] = d
}

func (s *dxfState) emitCircle(e *dxfEntity, color ColorHex) {
	name := s.nextName(e.layer, "CIRCLE", e.handle)
	d := &Drawing{Type: DrawingCircle, EntityName: name, Layer: e.layer, Handle: e.handle, Center: e.p1, Radius: e.radius}
	s.project.Drawings[name] = d
}

func (s *dxfState) emitText(e *dxfEntity, color ColorHex) {
	name := s.nextName(e.layer, "TEXT", e.handle)
	d := &Drawing{Type: DrawingText, EntityName: name, Layer: e.layer, Handle: e.handle, Text: e.text, FontHeight: e.fontSize,
		Vertices: []Vertex{{Point: e.p1, Color: color, PointID: 1}}}
	s.project.Drawings[name] = d
}

// emitArc samples an ARC as a 32-segment open polyline. When endAngle <
// startAngle the sweep wraps through 2*pi (spec.md Open Question, resolved
// in SPEC_FULL.md §D.2: always sweep the positive/counter-clockwise way).
func (s *dxfState) emitArc(e *dxfEntity, color ColorHex) {
	const segments = 32
	start, end := e.startAngle, e.endAngle
	if end < start {
		end += 2 * math.Pi
	}
	pts := sampleArc(e.p1, e.radius, start, end, segments)
	s.emitDrawing(e, DrawingLine, pts, color)
}

// emitEllipse samples an ELLIPSE as a 64-segment closed polygon.
func (s *dxfState) emitEllipse(e *dxfEntity, color ColorHex) {
	const segments = 64
	pts := sampleArc(e.p1, e.radius, 0, 2*math.Pi, segments)
	s.emitDrawing(e, DrawingPolygon, pts, color)
}

func sampleArc(center Point3, radius, startAngle, endAngle float64, segments int) []Point3 {
	pts := make([]Point3, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := startAngle + (endAngle-startAngle)*float64(i)/float64(segments)
		pts = append(pts, Point3{X: center.X + radius*math.Cos(t), Y: center.Y + radius*math.Sin(t), Z: center.Z})
	}
	return pts
}

// emitVulcanName produces the additional Text drawing anchored at the
// entity's first vertex, for MAPTEK_VULCAN extended entity data (spec.md §4.6.1).
func (s *dxfState) emitVulcanName(e *dxfEntity) {
	name := parseVulcanName(e.vulcanString)
	if name == "" || name == "-" || name == "--" {
		return
	}
	anchor := e.p1
	if len(e.vertices) > 0 {
		anchor = e.vertices[0]
	}
	entName := s.nextName(e.layer, "VULCAN_TEXT", e.handle)
	d := &Drawing{Type: DrawingText, EntityName: entName, Layer: e.layer, VulcanName: name, Text: name,
		Vertices: []Vertex{{Point: anchor, PointID: 1}}}
	s.project.Drawings[entName] = d
}

func parseVulcanName(raw string) string {
	const prefix = "VulcanName="
	if len(raw) > len(prefix) && raw[:len(prefix)] == prefix {
		return raw[len(prefix):]
	}
	return ""
}

// finish attaches the accumulated mesh (if any triangles were seen) to the
// project and returns the parse result.
func (s *dxfState) finish(surfaceID, surfaceName string) *ParseResult {
	if surf := s.mesh.Build(surfaceID, surfaceName); surf != nil {
		s.project.Surfaces[surf.ID] = surf
	}
	s.result.Project = s.project
	return s.result
}
