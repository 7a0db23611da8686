package format

import (
	"fmt"
	"sort"
)

// ParseBinaryDXF decodes a binary DXF byte stream into a Project. Geometry is
// produced directly from ENTITIES records; no hole geometry is derived here
// (binary DXF carries drawings and surfaces only, spec.md §4.6.1).
func ParseBinaryDXF(data []byte, opts ParseOptions) (*ParseResult, error) {
	codec := NewGroupCodeCodec()
	records, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}

	st := newDXFState(opts)
	for _, rec := range records {
		st.feed(rec)
	}
	return st.finish("dxf-surface", "DXF Surface"), nil
}

// WriteBinaryDXF serializes a Project's drawings and surface triangles into
// the binary DXF layout (spec.md §4.7.1). Handles are assigned sequentially
// starting at 0x100. When opts.VulcanExtendedData is set, each hole is also
// emitted as a collar/grade/toe POLYLINE carrying MAPTEK_VULCAN extended
// data, followed by a TEXT label.
func WriteBinaryDXF(p *Project, opts WriteOptions) ([]byte, error) {
	w := &dxfWriter{opts: opts, handle: 0x100}
	records := w.buildRecords(p)

	codec := NewGroupCodeCodec()
	return codec.Encode(records), nil
}

type dxfWriter struct {
	opts   WriteOptions
	handle int
}

func (w *dxfWriter) nextHandle() string {
	h := fmt.Sprintf("%X", w.handle)
	w.handle++
	return h
}

func (w *dxfWriter) buildRecords(p *Project) []Record {
	var recs []Record
	add := func(code int, v Value) { recs = append(recs, Record{Code: code, Value: v}) }
	str := func(code int, s string) { add(code, Value{Kind: ValueString, Str: s}) }
	i16 := func(code int, n int16) { add(code, Value{Kind: ValueInt16, I16: n}) }

	str(0, "SECTION")
	str(2, "HEADER")
	str(9, "$ACADVER")
	str(1, "AC1015")
	str(9, "$INSUNITS")
	i16(70, 4) // millimetres, per spec.md §4.7.1
	str(0, "ENDSEC")

	str(0, "SECTION")
	str(2, "TABLES")
	w.writeLTypeTable(&recs)
	w.writeLayerTable(&recs, p)
	if w.opts.VulcanExtendedData {
		w.writeAppIDTable(&recs)
	}
	str(0, "ENDSEC")

	str(0, "SECTION")
	str(2, "BLOCKS")
	str(0, "ENDSEC")

	str(0, "SECTION")
	str(2, "ENTITIES")

	names := sortedDrawingNames(p)
	for _, name := range names {
		d := p.Drawings[name]
		w.writeDrawing(&recs, d)
	}
	for _, surf := range sortedSurfaces(p) {
		w.write3DFaces(&recs, surf)
	}
	if w.opts.VulcanExtendedData {
		for _, h := range p.Holes {
			w.writeVulcanHole(&recs, h)
		}
	}
	str(0, "ENDSEC")

	str(0, "EOF")
	return recs
}

func (w *dxfWriter) writeLTypeTable(recs *[]Record) {
	add := func(code int, v Value) { *recs = append(*recs, Record{Code: code, Value: v}) }
	str := func(code int, s string) { add(code, Value{Kind: ValueString, Str: s}) }
	i16 := func(code int, n int16) { add(code, Value{Kind: ValueInt16, I16: n}) }

	str(0, "TABLE")
	str(2, "LTYPE")
	i16(70, 1)
	str(0, "LTYPE")
	str(2, "CONTINUOUS")
	i16(70, 0)
	str(3, "Solid line")
	i16(72, 65)
	i16(73, 0)
	str(0, "ENDTAB")
}

func (w *dxfWriter) writeAppIDTable(recs *[]Record) {
	add := func(code int, v Value) { *recs = append(*recs, Record{Code: code, Value: v}) }
	str := func(code int, s string) { add(code, Value{Kind: ValueString, Str: s}) }
	i16 := func(code int, n int16) { add(code, Value{Kind: ValueInt16, I16: n}) }

	str(0, "TABLE")
	str(2, "APPID")
	i16(70, 1)
	str(0, "APPID")
	str(2, "MAPTEK_VULCAN")
	i16(70, 0)
	str(0, "ENDTAB")
}

func (w *dxfWriter) writeLayerTable(recs *[]Record, p *Project) {
	add := func(code int, v Value) { *recs = append(*recs, Record{Code: code, Value: v}) }
	str := func(code int, s string) { add(code, Value{Kind: ValueString, Str: s}) }
	i16 := func(code int, n int16) { add(code, Value{Kind: ValueInt16, I16: n}) }

	layers := p.DrawingLayers
	if len(layers) == 0 {
		layers = []string{DefaultLayer}
	}
	str(0, "TABLE")
	str(2, "LAYER")
	i16(70, int16(len(layers)))
	for _, layer := range layers {
		str(0, "LAYER")
		str(2, layer)
		i16(70, 0)
		i16(62, 7)
		str(6, "CONTINUOUS")
	}
	str(0, "ENDTAB")
}

func (w *dxfWriter) writeDrawing(recs *[]Record, d *Drawing) {
	add := func(code int, v Value) { *recs = append(*recs, Record{Code: code, Value: v}) }
	str := func(code int, s string) { add(code, Value{Kind: ValueString, Str: s}) }
	dbl := func(code int, f float64) { add(code, Value{Kind: ValueDouble, F64: f}) }
	i16 := func(code int, n int16) { add(code, Value{Kind: ValueInt16, I16: n}) }

	colors := NewColorTable()
	aci := int16(colors.HexToACI(dominantColor(d)))

	switch d.Type {
	case DrawingPoint:
		str(0, "POINT")
		str(8, d.Layer)
		i16(62, aci)
		p := d.Vertices[0].Point
		dbl(10, p.X)
		dbl(20, p.Y)
		dbl(30, p.Z)
	case DrawingLine, DrawingPolygon:
		closed := d.Type == DrawingPolygon && d.IsClosed()
		w.writePolyline(recs, d.Layer, aci, d.Vertices, closed)
	case DrawingCircle:
		str(0, "CIRCLE")
		str(8, d.Layer)
		i16(62, aci)
		dbl(10, d.Center.X)
		dbl(20, d.Center.Y)
		dbl(30, d.Center.Z)
		dbl(40, d.Radius)
	case DrawingText:
		str(0, "TEXT")
		str(8, d.Layer)
		i16(62, aci)
		p := d.Vertices[0].Point
		dbl(10, p.X)
		dbl(20, p.Y)
		dbl(30, p.Z)
		dbl(40, d.FontHeight)
		str(1, d.Text)
	}
}

func (w *dxfWriter) write3DFaces(recs *[]Record, surf *Surface) {
	add := func(code int, v Value) { *recs = append(*recs, Record{Code: code, Value: v}) }
	str := func(code int, s string) { add(code, Value{Kind: ValueString, Str: s}) }
	dbl := func(code int, f float64) { add(code, Value{Kind: ValueDouble, F64: f}) }

	for _, t := range surf.Triangles {
		str(0, "3DFACE")
		str(8, "SURFACES")
		str(5, w.nextHandle())
		v1, v2, v3 := surf.Points[t.V1], surf.Points[t.V2], surf.Points[t.V3]
		dbl(10, v1.X)
		dbl(20, v1.Y)
		dbl(30, v1.Z)
		dbl(11, v2.X)
		dbl(21, v2.Y)
		dbl(31, v2.Z)
		dbl(12, v3.X)
		dbl(22, v3.Y)
		dbl(32, v3.Z)
		dbl(13, v3.X) // degenerate 4th vertex, repeats the 3rd
		dbl(23, v3.Y)
		dbl(33, v3.Z)
	}
}

// writePolyline emits vertices as a single LWPOLYLINE (opts.UseLWPolyline) or,
// by default, a 3-D POLYLINE+VERTEX+SEQEND triplet with flag 70=8 (open) or
// 9 (closed), per spec.md §4.7.1.
func (w *dxfWriter) writePolyline(recs *[]Record, layer string, aci int16, verts []Vertex, closed bool) {
	add := func(code int, v Value) { *recs = append(*recs, Record{Code: code, Value: v}) }
	str := func(code int, s string) { add(code, Value{Kind: ValueString, Str: s}) }
	dbl := func(code int, f float64) { add(code, Value{Kind: ValueDouble, F64: f}) }
	i16 := func(code int, n int16) { add(code, Value{Kind: ValueInt16, I16: n}) }

	if w.opts.UseLWPolyline {
		str(0, "LWPOLYLINE")
		str(8, layer)
		i16(62, aci)
		if closed {
			i16(70, 1)
		} else {
			i16(70, 0)
		}
		add(90, Value{Kind: ValueInt32, I32: int32(len(verts))})
		for _, v := range verts {
			dbl(10, v.Point.X)
			dbl(20, v.Point.Y)
			dbl(30, v.Point.Z)
		}
		return
	}

	str(0, "POLYLINE")
	str(8, layer)
	str(5, w.nextHandle())
	i16(62, aci)
	if closed {
		i16(70, 9)
	} else {
		i16(70, 8)
	}
	for _, v := range verts {
		str(0, "VERTEX")
		str(8, layer)
		str(5, w.nextHandle())
		dbl(10, v.Point.X)
		dbl(20, v.Point.Y)
		dbl(30, v.Point.Z)
	}
	str(0, "SEQEND")
	str(8, layer)
	str(5, w.nextHandle())
}

// writeVulcanHole emits a hole as a 3-vertex 3-D polyline (collar, grade,
// toe) with MAPTEK_VULCAN extended data, plus a TEXT label at the collar
// (spec.md §4.7.1 Vulcan mode).
func (w *dxfWriter) writeVulcanHole(recs *[]Record, h Hole) {
	add := func(code int, v Value) { *recs = append(*recs, Record{Code: code, Value: v}) }
	str := func(code int, s string) { add(code, Value{Kind: ValueString, Str: s}) }
	dbl := func(code int, f float64) { add(code, Value{Kind: ValueDouble, F64: f}) }
	i16 := func(code int, n int16) { add(code, Value{Kind: ValueInt16, I16: n}) }

	layer := "HOLES"
	colors := NewColorTable()
	aci := int16(colors.HexToACI(h.ColorHex))

	str(0, "POLYLINE")
	str(8, layer)
	str(5, w.nextHandle())
	i16(62, aci)
	i16(70, 8)
	str(1001, "MAPTEK_VULCAN")
	str(1000, "VulcanName="+h.HoleID)
	str(1000, "VulcanGroup=")
	str(1000, "VulcanValue=0")
	str(1000, "VulcanDescription="+string(h.HoleType))
	str(1000, fmt.Sprintf("VulcanBearing=%g", h.HoleBearing))
	str(1000, fmt.Sprintf("VulcanDip=%g", 90-h.HoleAngle))
	str(1000, fmt.Sprintf("VulcanLength=%g", h.HoleLengthCalculated))
	for _, p := range []Point3{h.Collar, h.Grade, h.Toe} {
		str(0, "VERTEX")
		str(8, layer)
		str(5, w.nextHandle())
		dbl(10, p.X)
		dbl(20, p.Y)
		dbl(30, p.Z)
	}
	str(0, "SEQEND")
	str(8, layer)
	str(5, w.nextHandle())

	str(0, "TEXT")
	str(8, layer)
	str(5, w.nextHandle())
	i16(62, aci)
	dbl(10, h.Collar.X)
	dbl(20, h.Collar.Y)
	dbl(30, h.Collar.Z)
	dbl(40, 1.0)
	str(1, h.HoleID)
}

func dominantColor(d *Drawing) ColorHex {
	if len(d.Vertices) > 0 {
		return d.Vertices[0].Color
	}
	return DefaultColorHex
}

func sortedDrawingNames(p *Project) []string {
	names := make([]string, 0, len(p.Drawings))
	for name := range p.Drawings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedSurfaces(p *Project) []*Surface {
	ids := make([]string, 0, len(p.Surfaces))
	for id := range p.Surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Surface, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.Surfaces[id])
	}
	return out
}
