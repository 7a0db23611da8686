// Package kad provides a clean public API for reading and writing blast
// design files across the KAD, DXF, Surpac, SPF, and Kirra KAP format
// families.
package kad

import "github.com/beetlebugorg/kirrakad/internal/format"

// NamingStrategy selects how an entity without a native identifier gets
// named on import.
type NamingStrategy int

const (
	NamingLayerIndex NamingStrategy = iota
	NamingHandle
	NamingLayerHandle
	NamingBlockName
)

func (n NamingStrategy) internal() format.NamingStrategy {
	return format.NamingStrategy(n)
}

// ParseOptions configures a parse/import call across every format family.
type ParseOptions struct {
	NamingStrategy NamingStrategy
	Tolerance      float64
	ColumnMap      *CSVColumnMap
}

// DefaultParseOptions returns the engine's baseline options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{NamingStrategy: NamingLayerIndex, Tolerance: format.DefaultTolerance}
}

func (o ParseOptions) internal() format.ParseOptions {
	var cm *format.CSVColumnMap
	if o.ColumnMap != nil {
		ic := o.ColumnMap.internal()
		cm = &ic
	}
	return format.ParseOptions{
		NamingStrategy: o.NamingStrategy.internal(),
		Tolerance:      o.Tolerance,
		ColumnMap:      cm,
	}
}

// CSVColumnMap is the caller-provided column-index binding for CustomCSV.
type CSVColumnMap struct {
	HoleID                                int
	CollarX, CollarY, CollarZ             int
	ToeX, ToeY, ToeZ                      int
	Length, Angle, Bearing, Subdrill      int
	Diameter                              int
	HasHeader                             bool
	AngleIsDipFromHorizontal              bool
	LengthUnitToMeters                    float64
}

func (m CSVColumnMap) internal() format.CSVColumnMap {
	return format.CSVColumnMap{
		HoleID: m.HoleID,
		CollarX: m.CollarX, CollarY: m.CollarY, CollarZ: m.CollarZ,
		ToeX: m.ToeX, ToeY: m.ToeY, ToeZ: m.ToeZ,
		Length: m.Length, Angle: m.Angle, Bearing: m.Bearing, Subdrill: m.Subdrill,
		Diameter:                 m.Diameter,
		HasHeader:                m.HasHeader,
		AngleIsDipFromHorizontal: m.AngleIsDipFromHorizontal,
		LengthUnitToMeters:       m.LengthUnitToMeters,
	}
}

// WriteOptions configures an export call.
type WriteOptions struct {
	VulcanExtendedData bool

	// UseLWPolyline emits Line/Polygon drawings as a single LWPOLYLINE
	// record instead of the default 3-D POLYLINE+VERTEX+SEQEND triplet.
	UseLWPolyline bool
}

func (o WriteOptions) internal() format.WriteOptions {
	return format.WriteOptions{VulcanExtendedData: o.VulcanExtendedData, UseLWPolyline: o.UseLWPolyline}
}

// DefaultWriteOptions returns the engine's baseline export options.
func DefaultWriteOptions() WriteOptions { return WriteOptions{} }
