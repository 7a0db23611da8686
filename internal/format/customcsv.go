package format

import (
	"strconv"
	"strings"
)

// CSVColumnMap is the caller-provided column-index binding for CustomCSV
// (spec.md §4.6.5). Indices are 0-based; a negative index (e.g. -1) means
// the column is absent from this file. An unset field is 0, which selects
// the first column.
type CSVColumnMap struct {
	HoleID int

	CollarX, CollarY, CollarZ int
	ToeX, ToeY, ToeZ           int
	Length, Angle, Bearing     int
	Subdrill                   int
	Diameter                   int

	HasHeader bool

	// AngleIsDipFromHorizontal flips the angle convention: when true, 0 means
	// horizontal and 90 means vertical down, the inverse of this engine's
	// native "0 = vertical down" convention (spec.md §4.6.5).
	AngleIsDipFromHorizontal bool

	// LengthUnitToMeters scales the Length and Subdrill columns (e.g. 0.3048
	// for feet).
	// Zero means 1 (no conversion).
	LengthUnitToMeters float64
}

func (m CSVColumnMap) has(idx int) bool { return idx >= 0 }

// ParseCustomCSV decodes a CSV using a caller-supplied column map, applying
// unit conversion, the angle convention flip, and the full GeometryResolver
// ladder plus row-detection (spec.md §4.6.5).
func ParseCustomCSV(text string, opts ParseOptions) (*ParseResult, error) {
	if opts.ColumnMap == nil {
		return nil, &ErrSchemaMismatch{Reason: "CustomCSV requires a ColumnMap"}
	}
	cm := *opts.ColumnMap
	unitScale := cm.LengthUnitToMeters
	if unitScale <= 0 {
		unitScale = 1
	}

	result := &ParseResult{Project: NewProject()}
	resolver := NewGeometryResolver()

	lines := splitNonEmptyLines(text)
	start := 0
	if cm.HasHeader && len(lines) > 0 {
		start = 1
	}

	seen := make(map[string]int) // row-collision policy: last write wins, earlier rows warned
	var holes []*Hole
	for i := start; i < len(lines); i++ {
		line := i + 1
		cols := splitCSVRow(lines[i])
		h, err := customCSVRowToHole(cols, line, cm, unitScale, resolver)
		if err != nil {
			result.warn(err)
			continue
		}
		if prevIdx, ok := seen[h.HoleID]; ok {
			result.warn(&ErrNameCollision{Name: h.HoleID})
			holes[prevIdx] = h
		} else {
			seen[h.HoleID] = len(holes)
			holes = append(holes, h)
		}
		result.SuccessCount++
	}

	NewRowDetector().Assign(holes)
	for _, h := range holes {
		result.Project.Holes = append(result.Project.Holes, *h)
	}
	return result, nil
}

func customCSVRowToHole(cols []string, line int, cm CSVColumnMap, unitScale float64, resolver *GeometryResolver) (*Hole, error) {
	get := func(idx int) (string, bool) {
		if idx < 0 || idx >= len(cols) {
			return "", false
		}
		return strings.TrimSpace(cols[idx]), true
	}
	parseF := func(idx int) (*float64, bool) {
		s, ok := get(idx)
		if !ok || s == "" {
			return nil, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return &v, true
	}

	holeID, ok := get(cm.HoleID)
	if !ok || holeID == "" {
		return nil, &ErrBadRow{Line: line, Reason: "missing hole id column"}
	}

	in := GeometryInputs{}
	if cm.has(cm.CollarX) {
		cx, okx := parseF(cm.CollarX)
		cy, oky := parseF(cm.CollarY)
		cz, okz := parseF(cm.CollarZ)
		if okx && oky && okz {
			in.Collar = &Point3{X: *cx, Y: *cy, Z: *cz}
		}
	}
	if cm.has(cm.ToeX) {
		tx, okx := parseF(cm.ToeX)
		ty, oky := parseF(cm.ToeY)
		tz, okz := parseF(cm.ToeZ)
		if okx && oky && okz {
			in.Toe = &Point3{X: *tx, Y: *ty, Z: *tz}
		}
	}
	if cm.has(cm.Length) {
		if v, ok := parseF(cm.Length); ok {
			scaled := *v * unitScale
			in.Length = &scaled
		}
	}
	if cm.has(cm.Angle) {
		if v, ok := parseF(cm.Angle); ok {
			angle := *v
			if cm.AngleIsDipFromHorizontal {
				angle = 90 - angle
			}
			in.Angle = &angle
		}
	}
	if cm.has(cm.Bearing) {
		if v, ok := parseF(cm.Bearing); ok {
			in.Bearing = v
		}
	}
	if cm.has(cm.Subdrill) {
		if v, ok := parseF(cm.Subdrill); ok {
			scaled := *v * unitScale
			in.Subdrill = &scaled
		}
	}
	if in.Collar == nil && in.Toe == nil {
		return nil, &ErrMissingGeometry{HoleID: holeID}
	}

	h, _, err := resolver.Resolve(holeID, in)
	if err != nil {
		return nil, err
	}
	if cm.has(cm.Diameter) {
		if v, ok := parseF(cm.Diameter); ok {
			h.HoleDiameter = *v
		}
	}
	return &h, nil
}
