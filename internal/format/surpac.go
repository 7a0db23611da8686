package format

import (
	"strconv"
	"strings"
)

// ParseSurpacSTR decodes a Surpac STR string file: one point per line as
// "pointID,Y,X,Z,description" (spec.md §4.6.6 — note the Y,X axis order is
// Surpac's own convention, inverted from this engine's X,Y,Z). A line whose
// first column is "0" (such as "0,0,0,0") closes an object; "END" lines are
// skipped. A new non-zero pointID after a close starts the next object, which
// becomes its own "_part2", "_part3", ... surface when paired with a DTM.
func ParseSurpacSTR(text string) ([][]Point3, error) {
	var objects [][]Point3
	var current []Point3

	for _, raw := range splitNonEmptyLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" || strings.EqualFold(line, "END") {
			continue
		}
		cols := splitCSVRow(strings.ReplaceAll(line, "\t", ","))
		if len(cols) < 4 {
			continue
		}
		if cols[0] == "0" {
			if len(current) > 0 {
				objects = append(objects, current)
				current = nil
			}
			continue
		}
		y, err1 := strconv.ParseFloat(cols[1], 64)
		x, err2 := strconv.ParseFloat(cols[2], 64)
		z, err3 := strconv.ParseFloat(cols[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		current = append(current, Point3{X: x, Y: y, Z: z})
	}
	if len(current) > 0 {
		objects = append(objects, current)
	}
	return objects, nil
}

// ParseSurpacDTM decodes a Surpac DTM triangle file: each data line is
// "triID,v1,v2,v3" with 1-based indices into the paired STR's point list
// (spec.md §4.6.6). Lines whose first column is "0" and "END" lines are
// terminators and are skipped.
func ParseSurpacDTM(text string) ([][3]int, error) {
	var tris [][3]int
	for _, raw := range splitNonEmptyLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" || strings.EqualFold(line, "END") {
			continue
		}
		cols := splitCSVRow(strings.ReplaceAll(line, "\t", ","))
		if len(cols) < 4 || cols[0] == "0" {
			continue
		}
		v1, err1 := strconv.Atoi(cols[1])
		v2, err2 := strconv.Atoi(cols[2])
		v3, err3 := strconv.Atoi(cols[3])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		tris = append(tris, [3]int{v1, v2, v3})
	}
	return tris, nil
}

// BuildSurpacSurfaces merges an STR point-object list with a DTM triangle
// list into one Surface per STR object that receives triangles, named
// "_part2", "_part3", ... after the first. Each triangle goes to the object
// that holds its first vertex index (spec.md §4.6.6).
func BuildSurpacSurfaces(name string, objects [][]Point3, triangles [][3]int, tolerance float64) []*Surface {
	if len(objects) == 0 {
		return nil
	}

	// Flatten STR objects into one global point list, remembering each
	// object's index range so triangles can be routed back to their part.
	var flat []Point3
	ranges := make([][2]int, len(objects))
	offset := 0
	for i, obj := range objects {
		ranges[i] = [2]int{offset + 1, offset + len(obj)} // 1-based, inclusive
		flat = append(flat, obj...)
		offset += len(obj)
	}

	builders := make([]*MeshBuilder, len(objects))
	for i := range builders {
		builders[i] = NewMeshBuilder(orDefault(tolerance, DefaultTolerance))
	}

	for _, tri := range triangles {
		part := partForIndex(ranges, tri[0])
		if part < 0 || tri[0] > len(flat) || tri[1] > len(flat) || tri[2] > len(flat) {
			continue
		}
		v1 := flat[tri[0]-1]
		v2 := flat[tri[1]-1]
		v3 := flat[tri[2]-1]
		builders[part].AddTriangle(v1, v2, v3)
	}

	var out []*Surface
	for i, b := range builders {
		surfName := name
		id := name
		if i > 0 {
			surfName = name + "_part" + strconv.Itoa(i+1)
			id = id + "_part" + strconv.Itoa(i+1)
		}
		if surf := b.Build(id, surfName); surf != nil {
			out = append(out, surf)
		}
	}
	return out
}

func partForIndex(ranges [][2]int, idx int) int {
	for i, r := range ranges {
		if idx >= r[0] && idx <= r[1] {
			return i
		}
	}
	return -1
}

// WriteSurpacSTR serializes a Surface's points back into STR format: one
// object (the whole surface, since this engine does not track the original
// part boundaries once a single mesh has been rebuilt downstream).
func WriteSurpacSTR(surf *Surface) string {
	var b strings.Builder
	for i, p := range surf.Points {
		b.WriteString(strconv.Itoa(i+1) + "," + fmtF(p.Y) + "," + fmtF(p.X) + "," + fmtF(p.Z) + ",\n")
	}
	b.WriteString("0,0,0,0,\nEND\n")
	return b.String()
}

// WriteSurpacDTM serializes a Surface's triangles back into DTM format using
// 1-based point indices matching WriteSurpacSTR's ordering.
func WriteSurpacDTM(surf *Surface) string {
	var b strings.Builder
	for i, t := range surf.Triangles {
		b.WriteString(strconv.Itoa(i+1) + "," + strconv.Itoa(t.V1+1) + "," + strconv.Itoa(t.V2+1) + "," + strconv.Itoa(t.V3+1) + "\n")
	}
	b.WriteString("0,0,0,0\nEND\n")
	return b.String()
}
