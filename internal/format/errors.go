package format

import "fmt"

// ErrUnknownFormat indicates the dispatcher could not classify an input.
type ErrUnknownFormat struct {
	Extension string
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown format for extension %q", e.Extension)
}

// ErrBadSentinel indicates a binary DXF sentinel mismatch.
type ErrBadSentinel struct {
	Got []byte
}

func (e *ErrBadSentinel) Error() string {
	return fmt.Sprintf("bad binary DXF sentinel: got %q", e.Got)
}

// ErrTruncatedRecord indicates a binary read ran past the end of the buffer.
type ErrTruncatedRecord struct {
	Offset, Want int
}

func (e *ErrTruncatedRecord) Error() string {
	return fmt.Sprintf("truncated record at offset %d: need %d more bytes", e.Offset, e.Want)
}

// ErrSchemaMismatch indicates a wrong column count or missing XML/JSON element.
type ErrSchemaMismatch struct {
	Reason string
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("schema mismatch: %s", e.Reason)
}

// ErrBadRow indicates a row-level parse failure. Recoverable: the caller
// skips the row, increments an error counter, and records a warning.
type ErrBadRow struct {
	Line   int
	Reason string
}

func (e *ErrBadRow) Error() string {
	return fmt.Sprintf("bad row at line %d: %s", e.Line, e.Reason)
}

// ErrMissingGeometry indicates a hole has no usable geometry combination.
type ErrMissingGeometry struct {
	HoleID string
}

func (e *ErrMissingGeometry) Error() string {
	return fmt.Sprintf("hole %q: no usable geometry combination", e.HoleID)
}

// ErrNameCollision indicates an entity name was already present. Recoverable
// via suffixing; callers emit a debug-level warning.
type ErrNameCollision struct {
	Name string
}

func (e *ErrNameCollision) Error() string {
	return fmt.Sprintf("entity name %q already exists", e.Name)
}

// ErrAssetMissing indicates a KAP texture or blob was referenced but absent.
// Recoverable: the surface is still emitted, marked not mesh-ready.
type ErrAssetMissing struct {
	SurfaceID, Asset string
}

func (e *ErrAssetMissing) Error() string {
	return fmt.Sprintf("surface %q: missing asset %q", e.SurfaceID, e.Asset)
}

// ErrVersionDrift indicates a KAP manifest version does not match current.
// Warning only; import proceeds.
type ErrVersionDrift struct {
	Got, Want string
}

func (e *ErrVersionDrift) Error() string {
	return fmt.Sprintf("kap version drift: file is %q, engine expects %q", e.Got, e.Want)
}

// ParseResult is returned by every parser. Payload is format-specific
// (*Project for archive formats, a partial Project for drawing/CSV formats).
type ParseResult struct {
	Project      *Project
	SuccessCount int
	ErrorCount   int
	Warnings     []string
}

func (r *ParseResult) warn(err error) {
	r.Warnings = append(r.Warnings, err.Error())
	r.ErrorCount++
}
