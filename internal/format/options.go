package format

// ParseOptions configures a parse/import call across every format family.
type ParseOptions struct {
	// NamingStrategy controls how entities without a native identifier get
	// named (spec.md §4.5). Zero value is NamingLayerIndex.
	NamingStrategy NamingStrategy

	// Tolerance is the vertex-dedup distance for mesh assembly (spec.md
	// §4.6.6). Zero means DefaultTolerance.
	Tolerance float64

	// ColumnMap configures CustomCSV column interpretation (spec.md §4.6.5).
	// Nil for every other format.
	ColumnMap *CSVColumnMap
}

// DefaultParseOptions returns the engine's baseline options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		NamingStrategy: NamingLayerIndex,
		Tolerance:      DefaultTolerance,
	}
}

// WriteOptions configures an export call.
type WriteOptions struct {
	// VulcanExtendedData emits each hole as a POLYLINE carrying MAPTEK_VULCAN
	// extended entity data, plus a TEXT label, on DXF export (spec.md
	// §4.7.1). Drawings are written without extended data.
	VulcanExtendedData bool

	// UseLWPolyline emits Line/Polygon drawings as a single LWPOLYLINE
	// record instead of the default 3-D POLYLINE+VERTEX+SEQEND triplet
	// (spec.md §4.7.1).
	UseLWPolyline bool
}

// DefaultWriteOptions returns the engine's baseline export options.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{}
}
