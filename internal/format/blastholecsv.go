package format

import (
	"bufio"
	"strconv"
	"strings"
)

// blastHoleCSVSchemas lists the fixed column counts this format recognizes
// (spec.md §4.6.4). A file with any other column count is an ErrSchemaMismatch.
var blastHoleCSVSchemas = map[int]bool{4: true, 7: true, 9: true, 12: true, 14: true, 30: true, 32: true, 35: true}

// blastHoleCanonicalColumns is the 35-column canonical order (spec.md §6);
// shorter schemas are left-aligned prefixes of it.
var blastHoleCanonicalColumns = []string{
	"entityName", "entityType", "holeID",
	"startX", "startY", "startZ",
	"endX", "endY", "endZ",
	"gradeX", "gradeY", "gradeZ",
	"subdrillAmount", "subdrillLength", "benchHeight",
	"holeDiameter", "holeType", "fromHoleID", "timingDelayMs", "colorHex",
	"holeLengthCalculated", "holeAngle", "holeBearing", "holeTime",
	"measuredLength", "measuredLengthTS", "measuredMass", "measuredMassTS",
	"measuredComment", "measuredCommentTS",
	"rowID", "posID", "burden", "spacing", "connectorCurve",
}

// ParseBlastHoleCSV decodes a fixed-column blast-hole CSV into holes, running
// every row through the GeometryResolver (spec.md §4.6.4).
func ParseBlastHoleCSV(text string, opts ParseOptions) (*ParseResult, error) {
	result := &ParseResult{Project: NewProject()}
	resolver := NewGeometryResolver()

	lines := splitNonEmptyLines(text)
	if len(lines) == 0 {
		return result, nil
	}

	startIdx := 0
	firstCols := splitCSVRow(lines[0])
	if looksLikeHeaderRow(firstCols) {
		startIdx = 1
	}
	if len(firstCols) == 0 || !blastHoleCSVSchemas[len(firstCols)] {
		return nil, &ErrSchemaMismatch{Reason: "unrecognized blast-hole CSV column count: " + strconv.Itoa(len(firstCols))}
	}
	width := len(firstCols)

	var holes []*Hole
	for i := startIdx; i < len(lines); i++ {
		line := i + 1
		cols := splitCSVRow(lines[i])
		if len(cols) != width {
			result.warn(&ErrBadRow{Line: line, Reason: "column count changed mid-file"})
			continue
		}
		h, err := blastHoleRowToHole(cols, line, resolver)
		if err != nil {
			result.warn(err)
			continue
		}
		holes = append(holes, h)
		result.SuccessCount++
	}

	NewRowDetector().Assign(holes)
	for _, h := range holes {
		result.Project.Holes = append(result.Project.Holes, *h)
	}
	return result, nil
}

// looksLikeHeaderRow applies the spec's header-row heuristic: a row is a
// header if the startX/startY/startZ columns (indices 3,4,5) are not
// parseable as floats.
func looksLikeHeaderRow(cols []string) bool {
	checked := 0
	for _, idx := range []int{3, 4, 5} {
		if idx >= len(cols) {
			continue
		}
		checked++
		if _, err := strconv.ParseFloat(strings.TrimSpace(cols[idx]), 64); err == nil {
			return false
		}
	}
	return checked > 0
}

func blastHoleRowToHole(cols []string, line int, resolver *GeometryResolver) (*Hole, error) {
	get := func(idx int) string {
		if idx < len(cols) {
			return strings.TrimSpace(cols[idx])
		}
		return ""
	}
	entityName := get(0)
	entityType := get(1)
	holeID := get(2)
	if holeID == "" {
		return nil, &ErrBadRow{Line: line, Reason: "empty hole id"}
	}

	in := GeometryInputs{}
	if len(cols) >= 6 {
		if collar, err := parsePoint3(get(3), get(4), get(5)); err == nil {
			in.Collar = &collar
		}
	}
	if len(cols) >= 9 {
		if toe, err := parsePoint3(get(6), get(7), get(8)); err == nil {
			in.Toe = &toe
		}
	}
	if len(cols) >= 13 {
		if v, err := strconv.ParseFloat(get(12), 64); err == nil {
			in.Subdrill = &v
		}
	}

	h, _, err := resolver.Resolve(holeID, in)
	if err != nil {
		return nil, err
	}
	h.EntityName = entityName
	if entityType != "" {
		h.EntityType = entityType
	} else {
		h.EntityType = "hole"
	}

	if len(cols) >= 16 {
		if v, err := strconv.ParseFloat(get(15), 64); err == nil {
			h.HoleDiameter = v
		}
	}
	if len(cols) >= 17 {
		h.HoleType = HoleType(get(16))
	}
	if len(cols) >= 18 {
		h.FromHoleID = get(17)
	}
	if h.FromHoleID == "" {
		h.FromHoleID = FromHoleIDFor(h.EntityName, h.HoleID)
	}
	if len(cols) >= 19 {
		if v, err := strconv.ParseFloat(get(18), 64); err == nil {
			h.TimingDelayMilliseconds = v
		}
	}
	if len(cols) >= 20 {
		if c := get(19); c != "" {
			h.ColorHex = NewColorTable().NormalizeColor(c)
		}
	}
	if len(cols) >= 24 {
		h.HoleTime = get(23)
	}
	if len(cols) >= 26 {
		if v, err := strconv.ParseFloat(get(24), 64); err == nil {
			h.MeasuredLength = &Measurement{Value: v, Timestamp: get(25)}
		}
	}
	if len(cols) >= 28 {
		if v, err := strconv.ParseFloat(get(26), 64); err == nil {
			h.MeasuredMass = &Measurement{Value: v, Timestamp: get(27)}
		}
	}
	if len(cols) >= 30 {
		if v, err := strconv.ParseFloat(get(28), 64); err == nil {
			h.MeasuredComment = &Measurement{Value: v, Timestamp: get(29)}
		}
	}
	if len(cols) >= 32 {
		if v, err := strconv.Atoi(get(30)); err == nil {
			h.RowID = v
		}
		if v, err := strconv.Atoi(get(31)); err == nil {
			h.PosID = v
		}
	}
	if len(cols) >= 34 {
		if v, err := strconv.ParseFloat(get(32), 64); err == nil {
			h.Burden = &v
		}
		if v, err := strconv.ParseFloat(get(33), 64); err == nil {
			h.Spacing = &v
		}
	}
	if len(cols) >= 35 {
		h.ConnectorCurve = get(34)
	}
	return &h, nil
}

func splitNonEmptyLines(text string) []string {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var out []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitCSVRow(line string) []string {
	cols := strings.Split(line, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

// WriteBlastHoleCSV serializes holes using the full 35-column canonical
// schema (spec.md §4.7.4 — CSV formats always write the canonical width).
func WriteBlastHoleCSV(p *Project) (string, error) {
	var b strings.Builder
	b.WriteString(strings.Join(blastHoleCanonicalColumns, ","))
	b.WriteByte('\n')
	for _, h := range p.Holes {
		entityType := h.EntityType
		if entityType == "" {
			entityType = "hole"
		}
		fields := []string{
			h.EntityName, entityType, h.HoleID,
			fmtF(h.Collar.X), fmtF(h.Collar.Y), fmtF(h.Collar.Z),
			fmtF(h.Toe.X), fmtF(h.Toe.Y), fmtF(h.Toe.Z),
			fmtF(h.Grade.X), fmtF(h.Grade.Y), fmtF(h.Grade.Z),
			fmtF(h.SubdrillAmount), fmtF(h.SubdrillLength), fmtF(h.BenchHeight),
			fmtF(h.HoleDiameter), string(h.HoleType), h.FromHoleID, fmtF(h.TimingDelayMilliseconds), string(h.ColorHex),
			fmtF(h.HoleLengthCalculated), fmtF(h.HoleAngle), fmtF(h.HoleBearing), h.HoleTime,
			fmtMeasurement(h.MeasuredLength), fmtMeasurementTime(h.MeasuredLength),
			fmtMeasurement(h.MeasuredMass), fmtMeasurementTime(h.MeasuredMass),
			fmtMeasurement(h.MeasuredComment), fmtMeasurementTime(h.MeasuredComment),
			strconv.Itoa(h.RowID), strconv.Itoa(h.PosID),
			fmtPtr(h.Burden), fmtPtr(h.Spacing), h.ConnectorCurve,
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func fmtF(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func fmtPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmtF(*v)
}

func fmtMeasurement(m *Measurement) string {
	if m == nil {
		return ""
	}
	return fmtF(m.Value)
}

func fmtMeasurementTime(m *Measurement) string {
	if m == nil {
		return ""
	}
	return m.Timestamp
}
