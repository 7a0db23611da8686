package kad

import "testing"

func TestParseSPFBytesResolvesHolesAndTies(t *testing.T) {
	xmlDoc := `<BlastDescription xmlns="http://www.orica.com/namespaces/blis">
		<Holes>
			<Hole id="H1" collarX="0" collarY="0" collarZ="100" toeX="0" toeY="0" toeZ="90" diameter="229"/>
			<Hole id="H2" collarX="5" collarY="0" collarZ="100" toeX="5" toeY="0" toeZ="90" diameter="229"/>
			<Hole id="dummy"/>
		</Holes>
		<TieTypes>
			<TieType id="T1" delayMs="25" color="#FF0000"/>
		</TieTypes>
		<TieTable>
			<Tie fromHoleId="H1" toHoleId="H2" tieTypeId="T1"/>
		</TieTable>
	</BlastDescription>`

	data := buildZip(t, map[string]string{"design.xml": xmlDoc})

	result, err := ParseSPFBytes(data, DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseSPFBytes failed: %v", err)
	}
	if result.Document.HoleCount() != 2 {
		t.Fatalf("got %d holes, want 2 (dummy should be skipped)", result.Document.HoleCount())
	}

	var h2 *Hole
	for i, h := range result.Document.Holes() {
		if h.HoleID == "H2" {
			h2 = &result.Document.Holes()[i]
		}
	}
	if h2 == nil {
		t.Fatal("H2 missing from parsed holes")
	}
	if h2.TimingDelayMilliseconds != 25 {
		t.Errorf("H2 timing delay = %v, want 25", h2.TimingDelayMilliseconds)
	}
}

func TestParseSPFBytesNoXMLFails(t *testing.T) {
	data := buildZip(t, map[string]string{"readme.txt": "not xml"})
	_, err := ParseSPFBytes(data, DefaultParseOptions())
	if err == nil {
		t.Fatal("expected an error when the archive has no .xml entry")
	}
}
