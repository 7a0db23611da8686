package format

import (
	"strconv"
	"strings"
)

// spfBlisNamespace is the XML namespace SPF files carry their blast elements
// under (spec.md §4.6.7).
const spfBlisNamespace = "http://www.orica.com/namespaces/blis"

// ParseSPF decodes an Orica SPF archive: a ZIP container holding a single
// namespaced BLIS XML document describing BlastDescription, Holes,
// DesignLoading, TieTypes, TieTable, and Leadins (spec.md §4.6.7). The tie
// network is resolved into FromHoleID/TimingDelayMilliseconds/ColorHex per
// §4.3.3.
func ParseSPF(zip ZipContainer, xmlParser XmlParser, opts ParseOptions) (*ParseResult, error) {
	result := &ParseResult{Project: NewProject()}

	entry, ok := findXMLEntry(zip)
	if !ok {
		return nil, &ErrSchemaMismatch{Reason: "SPF archive has no XML document"}
	}
	text, err := entry.AsString()
	if err != nil {
		return nil, err
	}

	root := xmlParser
	resolver := NewGeometryResolver()
	holes := make(map[string]*Hole)
	var order []string

	for _, holeEl := range root.GetElementsByNamespace(spfBlisNamespace, "Hole") {
		holeID, _ := holeEl.Attr("id")
		if holeID == "" || strings.EqualFold(holeID, "dummy") {
			continue // dummy holes are tie-network routing aids only, spec.md §4.6.7
		}
		h, warnings, err := spfHoleFromElement(holeEl, holeID, resolver)
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, w)
		}
		if err != nil {
			result.warn(err)
			continue
		}
		holes[holeID] = h
		order = append(order, holeID)
		result.SuccessCount++
	}

	resolveSPFTieNetwork(root, holes)

	NewRowDetector().Assign(holesSlice(holes, order))
	for _, id := range order {
		result.Project.Holes = append(result.Project.Holes, *holes[id])
	}

	_ = text // the XML is consumed entirely through xmlParser, not re-parsed as text
	return result, nil
}

func findXMLEntry(zip ZipContainer) (ZipEntry, bool) {
	for _, name := range zip.Names() {
		if strings.HasSuffix(strings.ToLower(name), ".xml") {
			if e, ok := zip.File(name); ok {
				return e, true
			}
		}
	}
	return nil, false
}

func spfHoleFromElement(el XmlElement, holeID string, resolver *GeometryResolver) (*Hole, []string, error) {
	attrF := func(name string) (*float64, bool) {
		s, ok := el.Attr(name)
		if !ok || s == "" {
			return nil, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return &v, true
	}

	in := GeometryInputs{}
	cx, okx := attrF("collarX")
	cy, oky := attrF("collarY")
	cz, okz := attrF("collarZ")
	if okx && oky && okz {
		in.Collar = &Point3{X: *cx, Y: *cy, Z: *cz}
	}
	if tx, ok1 := attrF("toeX"); ok1 {
		if ty, ok2 := attrF("toeY"); ok2 {
			if tz, ok3 := attrF("toeZ"); ok3 {
				in.Toe = &Point3{X: *tx, Y: *ty, Z: *tz}
			}
		}
	}
	in.Length, _ = attrF("length")
	in.Angle, _ = attrF("angle")
	in.Bearing, _ = attrF("bearing")

	// Subdrill is positive when the toe sits below grade (SPF's own sign
	// convention, resolved per SPEC_FULL.md §D.1).
	if subdrill, ok := attrF("subdrill"); ok {
		in.Subdrill = subdrill
	}

	h, warnings, err := resolver.Resolve(holeID, in)
	if err != nil {
		return nil, warnings, err
	}
	if d, ok := attrF("diameter"); ok {
		h.HoleDiameter = *d
	}
	return &h, warnings, nil
}

// resolveSPFTieNetwork builds a fromHoleMap from the TieTable and applies
// per-tie timing delay and color from TieTypes/Leadins (spec.md §4.3.3).
func resolveSPFTieNetwork(root XmlParser, holes map[string]*Hole) {
	tieTypes := make(map[string]tieType)
	for _, el := range root.GetElementsByNamespace(spfBlisNamespace, "TieType") {
		id, _ := el.Attr("id")
		delayStr, _ := el.Attr("delayMs")
		color, _ := el.Attr("color")
		delay, _ := strconv.ParseFloat(delayStr, 64)
		tieTypes[id] = tieType{delayMs: delay, color: ColorHex(color)}
	}

	for _, tie := range root.GetElementsByNamespace(spfBlisNamespace, "Tie") {
		from, _ := tie.Attr("fromHoleId")
		to, _ := tie.Attr("toHoleId")
		typeID, _ := tie.Attr("tieTypeId")
		if from == "" || to == "" {
			continue
		}
		toHole, ok := holes[to]
		if !ok {
			continue
		}
		fromName := from
		if fromHole, ok := holes[from]; ok {
			fromName = fromHole.EntityName
		}
		toHole.FromHoleID = FromHoleIDFor(fromName, from)
		if tt, ok := tieTypes[typeID]; ok {
			toHole.TimingDelayMilliseconds = tt.delayMs
			if tt.color != "" {
				toHole.ColorHex = tt.color
			}
		}
	}

	for _, leadin := range root.GetElementsByNamespace(spfBlisNamespace, "Leadin") {
		holeID, _ := leadin.Attr("holeId")
		if h, ok := holes[holeID]; ok {
			h.FromHoleID = FromHoleIDFor(h.EntityName, h.HoleID)
			h.TimingDelayMilliseconds = 0
		}
	}

	for _, h := range holes {
		if h.FromHoleID == "" {
			h.FromHoleID = FromHoleIDFor(h.EntityName, h.HoleID)
		}
	}
}

type tieType struct {
	delayMs float64
	color   ColorHex
}

func holesSlice(m map[string]*Hole, order []string) []*Hole {
	out := make([]*Hole, 0, len(order))
	for _, id := range order {
		out = append(out, m[id])
	}
	return out
}
