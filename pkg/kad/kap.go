package kad

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"

	"github.com/beetlebugorg/kirrakad/internal/format"
)

// ImportMode selects how an imported KAP project combines with the caller's
// live DataStores.
type ImportMode int

const (
	ImportReplace ImportMode = iota
	ImportMerge
)

// DataStores is the caller-owned live data a KAP import merges/replaces into.
type DataStores struct {
	Holes    []Hole
	Drawings map[string]*Drawing
	Surfaces map[string]*Surface
	Images   map[string]*Image
	Layers   map[string][]string
}

func (d *DataStores) internal() *format.DataStores {
	return &format.DataStores{Holes: d.Holes, Drawings: d.Drawings, Surfaces: d.Surfaces, Images: d.Images, Layers: d.Layers}
}

func (d *DataStores) absorb(in *format.DataStores) {
	d.Holes = in.Holes
	d.Drawings = in.Drawings
	d.Surfaces = in.Surfaces
	d.Images = in.Images
	d.Layers = in.Layers
}

// PersistenceGuard brackets a KAP import so the caller's debounced autosave
// is suspended until the import returns.
type PersistenceGuard = format.PersistenceGuard

// ParseKAPFile decodes a Kirra KAP archive from disk, merging or replacing
// into into the given mode.
func ParseKAPFile(filename string, mode ImportMode, into *DataStores, guard PersistenceGuard) (*ParseResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("kad: reading %s: %w", filename, err)
	}
	return ParseKAPBytes(data, mode, into, guard)
}

// ParseKAPBytes decodes a Kirra KAP archive already loaded into memory.
func ParseKAPBytes(data []byte, mode ImportMode, into *DataStores, guard PersistenceGuard) (*ParseResult, error) {
	z, err := openZip(data)
	if err != nil {
		return nil, fmt.Errorf("kad: opening KAP archive: %w", err)
	}
	internalStores := into.internal()
	r, err := format.ParseKAP(z, format.KAPImportMode(mode), internalStores, guard)
	if err != nil {
		return nil, err
	}
	into.absorb(internalStores)
	return convertResult(r), nil
}

// WriteKAPFile serializes doc into a Kirra KAP archive at filename, named
// "KirraProject_<timestamp>.kap" by convention at the call site.
func WriteKAPFile(filename string, doc *Document, timestamp string) error {
	payload, err := format.WriteKAP(doc.project, timestamp)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range payload {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0o644)
}
