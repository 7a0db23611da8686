package format

import "context"

// FileReader abstracts the host's file-reading primitive (browser
// FileReader in the source system; os.ReadFile in a Go host). spec.md §6.
type FileReader interface {
	ReadAsText(ctx context.Context, path string) (string, error)
	ReadAsBytes(ctx context.Context, path string) ([]byte, error)
}

// ZipEntry is one member of a ZipContainer.
type ZipEntry interface {
	AsString() (string, error)
	AsBytes() ([]byte, error)
	Name() string
}

// ZipContainer abstracts a ZIP archive (SPF/KAP are both ZIP containers).
type ZipContainer interface {
	File(path string) (ZipEntry, bool)
	Names() []string
}

// XmlParser abstracts a namespace-aware DOM, used by the SPF parser.
type XmlParser interface {
	GetElementsByNamespace(namespace, name string) []XmlElement
}

// XmlElement is one namespaced XML element.
type XmlElement interface {
	Text() string
	Attr(name string) (string, bool)
	Children(name string) []XmlElement
}

// CsvTokenizer abstracts a row-aware CSV parser with delimiter detection.
type CsvTokenizer interface {
	Tokenize(text string) ([][]string, error)
}

// DataStores is the caller-owned live data the KAP parser merges/replaces
// into. Parsers never mutate these except through an explicit Replace/Merge
// call (spec.md §6, §9).
type DataStores struct {
	Holes    []Hole
	Drawings map[string]*Drawing
	Surfaces map[string]*Surface
	Images   map[string]*Image
	Layers   map[string][]string
}

// ProgressReporter is an optional progress UI hook. A parser runs silently
// if none is supplied.
type ProgressReporter interface {
	Open(title string)
	Update(percent float64, message string)
	Close()
}

// NoopProgress is the default no-op ProgressReporter for headless use.
type NoopProgress struct{}

func (NoopProgress) Open(string)            {}
func (NoopProgress) Update(float64, string) {}
func (NoopProgress) Close()                 {}

// PersistenceGuard brackets an import so the caller's debounced autosave is
// suspended until the import returns (spec.md §5, §9 — the _kapImporting
// Open Question, resolved in SPEC_FULL.md §D.4).
type PersistenceGuard interface {
	BeginImport()
	EndImport()
}

// NoopGuard is the default PersistenceGuard when the caller supplies none.
type NoopGuard struct{}

func (NoopGuard) BeginImport() {}
func (NoopGuard) EndImport()   {}
