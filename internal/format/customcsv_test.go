package format

import "testing"

func TestParseCustomCSVColumnMapAndUnitConversion(t *testing.T) {
	cm := CSVColumnMap{
		HoleID:             0,
		CollarX:            1,
		CollarY:            2,
		CollarZ:            3,
		ToeX:               -1,
		ToeY:               -1,
		ToeZ:               -1,
		Length:             4,
		Angle:              5,
		Bearing:            6,
		Subdrill:           -1,
		Diameter:           7,
		HasHeader:          true,
		LengthUnitToMeters: 0.3048, // feet
	}
	opts := ParseOptions{ColumnMap: &cm}
	text := "id,x,y,z,length,angle,bearing,diameter\n" +
		"H1,0,0,100,32.8084,0,0,9\n" // 32.8084 ft ~= 10 m
	result, err := ParseCustomCSV(text, opts)
	if err != nil {
		t.Fatalf("ParseCustomCSV failed: %v", err)
	}
	if len(result.Project.Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(result.Project.Holes))
	}
	h := result.Project.Holes[0]
	if h.HoleLengthCalculated < 9.9 || h.HoleLengthCalculated > 10.1 {
		t.Errorf("expected the feet column to convert to ~10m, got %v", h.HoleLengthCalculated)
	}
}

func TestParseCustomCSVAngleIsDipFromHorizontalFlip(t *testing.T) {
	cm := CSVColumnMap{
		HoleID: 0, CollarX: 1, CollarY: 2, CollarZ: 3,
		ToeX: -1, ToeY: -1, ToeZ: -1,
		Length: 4, Angle: 5, Bearing: 6, Subdrill: -1, Diameter: -1,
		AngleIsDipFromHorizontal: true,
	}
	opts := ParseOptions{ColumnMap: &cm}
	// dip-from-horizontal of 90 means straight down, i.e. this engine's angle 0.
	text := "H1,0,0,100,10,90,0\n"
	result, err := ParseCustomCSV(text, opts)
	if err != nil {
		t.Fatalf("ParseCustomCSV failed: %v", err)
	}
	h := result.Project.Holes[0]
	if h.HoleAngle < -0.01 || h.HoleAngle > 0.01 {
		t.Errorf("expected dip 90 to flip to angle 0, got %v", h.HoleAngle)
	}
}

func TestParseCustomCSVRequiresColumnMap(t *testing.T) {
	_, err := ParseCustomCSV("H1,0,0,0\n", ParseOptions{})
	if err == nil {
		t.Fatal("expected an error when no ColumnMap is supplied")
	}
}

func TestParseCustomCSVMissingGeometrySkipsRow(t *testing.T) {
	cm := CSVColumnMap{HoleID: 0, CollarX: -1, CollarY: -1, CollarZ: -1, ToeX: -1, ToeY: -1, ToeZ: -1, Length: -1, Angle: -1, Bearing: -1, Subdrill: -1, Diameter: -1}
	opts := ParseOptions{ColumnMap: &cm}
	result, err := ParseCustomCSV("H1\n", opts)
	if err != nil {
		t.Fatalf("ParseCustomCSV failed: %v", err)
	}
	if len(result.Project.Holes) != 0 {
		t.Errorf("expected a hole with no geometry columns to be skipped, got %d holes", len(result.Project.Holes))
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the geometry-less row")
	}
}
