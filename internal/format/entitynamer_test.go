package format

import "testing"

func TestEntityNamerLayerIndex(t *testing.T) {
	n := NewEntityNamer(NamingLayerIndex)
	existing := make(map[string]bool)
	name := n.Generate("BENCH1", "LINE", "", 3, 7, existing, "")
	if name != "BENCH1_LINE_0003" {
		t.Errorf("got %q, want BENCH1_LINE_0003", name)
	}
}

func TestEntityNamerHandle(t *testing.T) {
	n := NewEntityNamer(NamingHandle)
	existing := make(map[string]bool)
	name := n.Generate("BENCH1", "LINE", "1A2B", 3, 7, existing, "")
	if name != "LINE_1A2B" {
		t.Errorf("got %q, want LINE_1A2B", name)
	}
	fallback := n.Generate("BENCH1", "LINE", "", 3, 8, existing, "")
	if fallback != "LINE_00008" {
		t.Errorf("handle-less fallback got %q, want LINE_00008", fallback)
	}
}

func TestEntityNamerBlockName(t *testing.T) {
	n := NewEntityNamer(NamingBlockName)
	existing := make(map[string]bool)
	if got := n.Generate("0", "INSERT", "", 1, 1, existing, "DrillPattern"); got != "DrillPattern" {
		t.Errorf("got %q, want DrillPattern", got)
	}
}

func TestEntityNamerDedupesCollisions(t *testing.T) {
	n := NewEntityNamer(NamingLayerIndex)
	existing := make(map[string]bool)
	first := n.Generate("0", "LINE", "", 1, 1, existing, "")
	second := n.Generate("0", "LINE", "", 1, 2, existing, "")
	if first == second {
		t.Fatalf("expected distinct names, both got %q", first)
	}
	if !existing[first] || !existing[second] {
		t.Error("Generate must record both names in existing")
	}
}
