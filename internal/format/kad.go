package format

import (
	"bufio"
	"strconv"
	"strings"
)

// kadEntityTypes maps a record's entityType column to a DrawingType, per the
// entityType ∈ {point,line,poly,circle,text} enum of spec.md §4.6.3.
var kadEntityTypes = map[string]DrawingType{
	"point":  DrawingPoint,
	"line":   DrawingLine,
	"poly":   DrawingPolygon,
	"circle": DrawingCircle,
	"text":   DrawingText,
}

// ParseKAD decodes the native line-oriented KAD format (spec.md §4.6.3): one
// row per vertex, `entityName,entityType,pointID,x,y,z,<type-specific tail>`.
// Rows sharing an entityName accumulate into the same Drawing. Malformed rows
// are recoverable: skipped, counted, and warned about.
func ParseKAD(text string, opts ParseOptions) (*ParseResult, error) {
	project := NewProject()
	result := &ParseResult{Project: project}

	entities := make(map[string]*Drawing)
	var order []string

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, ",")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if len(cols) < 3 {
			result.warn(&ErrBadRow{Line: lineNo, Reason: "fewer than 3 columns"})
			continue
		}
		if err := parseKADRecord(cols, lineNo, entities, &order); err != nil {
			result.warn(err)
			continue
		}
		result.SuccessCount++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for _, name := range order {
		d := entities[name]
		d.Demote()
		project.Drawings[name] = d
	}
	return result, nil
}

func parseKADRecord(cols []string, line int, entities map[string]*Drawing, order *[]string) error {
	entityName := cols[0]
	if entityName == "" {
		return &ErrBadRow{Line: line, Reason: "empty entity name"}
	}
	typeTag := strings.ToLower(cols[1])
	dtype, ok := kadEntityTypes[typeTag]
	if !ok {
		return &ErrBadRow{Line: line, Reason: "unknown entity type " + cols[1]}
	}
	if len(cols) < 6 {
		return &ErrBadRow{Line: line, Reason: "vertex record needs at least 6 columns"}
	}
	pointID, err := strconv.Atoi(cols[2])
	if err != nil {
		return &ErrBadRow{Line: line, Reason: "bad point id: " + cols[2]}
	}
	p, err := parsePoint3(cols[3], cols[4], cols[5])
	if err != nil {
		return &ErrBadRow{Line: line, Reason: err.Error()}
	}
	tail := cols[6:]

	d, ok := entities[entityName]
	if !ok {
		d = &Drawing{Type: dtype, EntityName: entityName, Layer: DefaultLayer}
		entities[entityName] = d
		*order = append(*order, entityName)
	}

	switch typeTag {
	case "point", "line":
		if len(tail) < 2 {
			return &ErrBadRow{Line: line, Reason: "point/line record needs lineWidth,color"}
		}
		lineWidth, _ := strconv.ParseFloat(tail[0], 64)
		color := ColorHex(orDefaultStr(tail[1], string(DefaultColorHex)))
		d.Vertices = append(d.Vertices, Vertex{Point: p, Color: color, LineWidth: lineWidth, PointID: pointID})
	case "poly":
		if len(tail) < 3 {
			return &ErrBadRow{Line: line, Reason: "poly record needs lineWidth,color,closedFlag"}
		}
		lineWidth, _ := strconv.ParseFloat(tail[0], 64)
		color := ColorHex(orDefaultStr(tail[1], string(DefaultColorHex)))
		closed := tail[2] == "true" || tail[2] == "1"
		d.Vertices = append(d.Vertices, Vertex{Point: p, Color: color, LineWidth: lineWidth, PointID: pointID, Closed: closed})
	case "circle":
		if len(tail) < 3 {
			return &ErrBadRow{Line: line, Reason: "circle record needs radius,lineWidth,color"}
		}
		radius, err := strconv.ParseFloat(tail[0], 64)
		if err != nil {
			return &ErrBadRow{Line: line, Reason: "bad radius: " + tail[0]}
		}
		d.Center = p
		d.Radius = radius
	case "text":
		if len(tail) < 3 {
			return &ErrBadRow{Line: line, Reason: "text record needs text,color,fontHeight"}
		}
		fontHeight, err := strconv.ParseFloat(tail[2], 64)
		if err != nil {
			return &ErrBadRow{Line: line, Reason: "bad font height: " + tail[2]}
		}
		color := ColorHex(orDefaultStr(tail[1], string(DefaultColorHex)))
		d.Text = tail[0]
		d.FontHeight = fontHeight
		d.Vertices = []Vertex{{Point: p, Color: color, PointID: pointID}}
	}
	return nil
}

func parsePoint3(xs, ys, zs string) (Point3, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Point3{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Point3{}, err
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(zs), 64)
	if err != nil {
		return Point3{}, err
	}
	return Point3{X: x, Y: y, Z: z}, nil
}

func orDefault(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

func orDefaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// WriteKAD serializes a Project's drawings back into the native KAD line
// format (spec.md §4.7.3), one row per vertex.
func WriteKAD(p *Project) (string, error) {
	var b strings.Builder
	for _, name := range sortedDrawingNames(p) {
		writeKADDrawing(&b, p.Drawings[name])
	}
	return b.String(), nil
}

func writeKADDrawing(b *strings.Builder, d *Drawing) {
	entityType := d.Type.String()
	switch d.Type {
	case DrawingPoint, DrawingLine:
		for _, v := range d.Vertices {
			writeKADRow(b, d.EntityName, entityType, v.PointID, v.Point)
			b.WriteString("," + strconv.FormatFloat(v.LineWidth, 'f', -1, 64) + "," + string(v.Color))
			b.WriteByte('\n')
		}
	case DrawingPolygon:
		for i, v := range d.Vertices {
			writeKADRow(b, d.EntityName, entityType, v.PointID, v.Point)
			closed := "0"
			if i == len(d.Vertices)-1 && v.Closed {
				closed = "1"
			}
			b.WriteString("," + strconv.FormatFloat(v.LineWidth, 'f', -1, 64) + "," + string(v.Color) + "," + closed)
			b.WriteByte('\n')
		}
	case DrawingCircle:
		writeKADRow(b, d.EntityName, entityType, 1, d.Center)
		b.WriteString("," + strconv.FormatFloat(d.Radius, 'f', -1, 64) + ",0," + string(DefaultColorHex))
		b.WriteByte('\n')
	case DrawingText:
		p := Point3{}
		pointID := 1
		color := DefaultColorHex
		if len(d.Vertices) > 0 {
			p = d.Vertices[0].Point
			pointID = d.Vertices[0].PointID
			color = d.Vertices[0].Color
		}
		writeKADRow(b, d.EntityName, entityType, pointID, p)
		b.WriteString("," + d.Text + "," + string(color) + "," + strconv.FormatFloat(d.FontHeight, 'f', -1, 64))
		b.WriteByte('\n')
	}
}

func writeKADRow(b *strings.Builder, name, entityType string, pointID int, p Point3) {
	b.WriteString(name + "," + entityType + "," + strconv.Itoa(pointID))
	writeKADPoint(b, p)
}

func writeKADPoint(b *strings.Builder, p Point3) {
	b.WriteString("," + strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteString("," + strconv.FormatFloat(p.Y, 'f', -1, 64))
	b.WriteString("," + strconv.FormatFloat(p.Z, 'f', -1, 64))
}
