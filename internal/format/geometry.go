package format

import "math"

// epsilon bounds the "angle is effectively vertical" check in §4.3.2's
// subdrillLength formula and the "no collar/toe known" degenerate checks.
const epsilon = 1e-9

// GeometryInputs is whichever subset of a hole's geometry the caller knows.
// Nil pointers mean "not known". Angle/Bearing are in degrees, Subdrill is
// the signed vertical delta-Z.
type GeometryInputs struct {
	Collar, Toe *Point3
	Length      *float64
	Angle       *float64
	Bearing     *float64
	Subdrill    *float64
}

// GeometryResolver completes a Hole from a GeometryInputs per the priority
// ladder of spec.md §4.3, and is idempotent: resolving an already-resolved
// Hole a second time reproduces the same fields (spec.md §8 property 2).
type GeometryResolver struct{}

// NewGeometryResolver returns a resolver. It holds no state.
func NewGeometryResolver() *GeometryResolver { return &GeometryResolver{} }

// Resolve completes hole, applying rule 1 through rule 5 of spec.md §4.3 in
// order, and returns ErrMissingGeometry if no rule matches.
func (r *GeometryResolver) Resolve(holeID string, in GeometryInputs) (Hole, []string, error) {
	var warnings []string
	h := Hole{HoleID: holeID}

	switch {
	case in.Collar != nil && in.Toe != nil:
		// Rule 1: derive length/bearing/angle from collar+toe; L/A/B inputs ignored.
		h.Collar = *in.Collar
		h.Toe = *in.Toe
		dx := h.Toe.X - h.Collar.X
		dy := h.Toe.Y - h.Collar.Y
		dz := h.Collar.Z - h.Toe.Z // positive downward
		h.HoleLengthCalculated = math.Sqrt(dx*dx + dy*dy + dz*dz)
		h.HoleBearing = normalizeBearing(math.Atan2(dx, dy))
		h.HoleAngle = math.Atan2(math.Sqrt(dx*dx+dy*dy), dz) * 180 / math.Pi

		subdrill := math.Min(h.HoleLengthCalculated*0.1, 1)
		if in.Subdrill != nil {
			subdrill = *in.Subdrill
		}
		r.applyGradeFromSubdrill(&h, subdrill)

	case in.Collar != nil && in.Length != nil && in.Angle != nil && in.Bearing != nil && in.Subdrill != nil:
		// Rule 2: forward project toe from collar, then grade.
		h.Collar = *in.Collar
		r.forwardProject(&h, *in.Length, *in.Angle, *in.Bearing)
		r.applyGradeFromSubdrill(&h, *in.Subdrill)

	case in.Toe != nil && in.Length != nil && in.Angle != nil && in.Bearing != nil && in.Subdrill != nil && in.Collar == nil:
		// Rule 3: inverse-project collar from toe+L/A/B/subdrill.
		h.Toe = *in.Toe
		h.HoleLengthCalculated = *in.Length
		h.HoleAngle = *in.Angle
		h.HoleBearing = *in.Bearing
		angle := *in.Angle * math.Pi / 180
		bearing := *in.Bearing * math.Pi / 180
		h.Collar = Point3{
			X: h.Toe.X - (*in.Length)*math.Sin(angle)*math.Sin(bearing),
			Y: h.Toe.Y - (*in.Length)*math.Sin(angle)*math.Cos(bearing),
			Z: h.Toe.Z + (*in.Length)*math.Cos(angle),
		}
		r.applyGradeFromSubdrill(&h, *in.Subdrill)

	case in.Collar != nil && in.Length != nil && in.Angle != nil && in.Bearing != nil && in.Subdrill == nil:
		// Rule 4: default subdrill to 1, then rule 2.
		h.Collar = *in.Collar
		r.forwardProject(&h, *in.Length, *in.Angle, *in.Bearing)
		r.applyGradeFromSubdrill(&h, 1)

	case in.Collar != nil:
		// Rule 5: defaults for everything else, then rule 2.
		h.Collar = *in.Collar
		const defaultBench, defaultSubdrill = 10.0, 1.0
		length := defaultBench + defaultSubdrill
		if in.Length != nil {
			length = *in.Length
		}
		angle := 0.0
		if in.Angle != nil {
			angle = *in.Angle
		}
		bearing := 0.0
		if in.Bearing != nil {
			bearing = *in.Bearing
		}
		r.forwardProject(&h, length, angle, bearing)
		r.applyGradeFromSubdrill(&h, defaultSubdrill)

	default:
		return Hole{}, nil, &ErrMissingGeometry{HoleID: holeID}
	}

	r.guardNaN(&h, &warnings)
	h.BenchHeight = math.Abs(h.Collar.Z - h.Grade.Z)
	return h, warnings, nil
}

// forwardProject implements §4.3.1: project toe from collar given L, A(deg), B(deg).
func (r *GeometryResolver) forwardProject(h *Hole, length, angleDeg, bearingDeg float64) {
	h.HoleLengthCalculated = length
	h.HoleAngle = angleDeg
	h.HoleBearing = bearingDeg
	angle := angleDeg * math.Pi / 180
	bearing := bearingDeg * math.Pi / 180
	horizontal := length * math.Sin(angle)
	vertical := length * math.Cos(angle)
	h.Toe = Point3{
		X: h.Collar.X + horizontal*math.Sin(bearing),
		Y: h.Collar.Y + horizontal*math.Cos(bearing),
		Z: h.Collar.Z - vertical,
	}
}

// applyGradeFromSubdrill implements the critical §4.3.2 contract: subdrill is
// a signed vertical delta-Z, not an arc length.
func (r *GeometryResolver) applyGradeFromSubdrill(h *Hole, subdrill float64) {
	h.SubdrillAmount = subdrill
	angle := h.HoleAngle * math.Pi / 180
	bearing := h.HoleBearing * math.Pi / 180

	h.Grade.Z = h.Toe.Z + subdrill
	horizOff := subdrill * math.Tan(angle)
	h.Grade.X = h.Toe.X - horizOff*math.Sin(bearing)
	h.Grade.Y = h.Toe.Y - horizOff*math.Cos(bearing)

	if math.Abs(h.HoleAngle) > epsilon {
		h.SubdrillLength = math.Abs(subdrill) / math.Cos(angle)
	} else {
		h.SubdrillLength = math.Abs(subdrill)
	}
}

// guardNaN replaces any NaN coordinate/scalar with a safe fallback (collar
// component for toe/grade, 0 for scalars), per spec.md §4.3.2.
func (r *GeometryResolver) guardNaN(h *Hole, warnings *[]string) {
	fix := func(v, fallback float64) float64 {
		if math.IsNaN(v) {
			*warnings = append(*warnings, "geometry resolver replaced a NaN value with a fallback")
			return fallback
		}
		return v
	}
	h.Toe.X = fix(h.Toe.X, h.Collar.X)
	h.Toe.Y = fix(h.Toe.Y, h.Collar.Y)
	h.Toe.Z = fix(h.Toe.Z, h.Collar.Z)
	h.Grade.X = fix(h.Grade.X, h.Collar.X)
	h.Grade.Y = fix(h.Grade.Y, h.Collar.Y)
	h.Grade.Z = fix(h.Grade.Z, h.Collar.Z)
	h.HoleLengthCalculated = fix(h.HoleLengthCalculated, 0)
	h.HoleAngle = fix(h.HoleAngle, 0)
	h.HoleBearing = fix(h.HoleBearing, 0)
	h.SubdrillAmount = fix(h.SubdrillAmount, 0)
	h.SubdrillLength = fix(h.SubdrillLength, 0)
}

func normalizeBearing(rad float64) float64 {
	deg := rad * 180 / math.Pi
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}
