package payslip

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// ErrNotObject is returned by Decode when the JSON root is not an object.
var ErrNotObject = errors.New("payslip document is not a JSON object")

// Document is a decoded payslip record as read from disk. It is not
// validated against the Record schema; fields are looked up on demand.
type Document struct {
	root map[string]any
}

// Decode parses a JSON payslip document.
func Decode(data []byte) (*Document, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	root, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return &Document{root: root}, nil
}

// Fields returns a reader that remembers the first lookup failure.
func (d *Document) Fields() *FieldReader {
	return &FieldReader{doc: d}
}

// FieldReader reads leaf values out of a Document. After the first failed
// lookup every further lookup returns a zero value; Err reports the failure.
type FieldReader struct {
	doc *Document
	err error
}

// Err returns the first *FieldError encountered, if any.
func (r *FieldReader) Err() error {
	return r.err
}

func (r *FieldReader) lookup(group, key string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	raw, ok := r.doc.root[group]
	if !ok {
		r.err = &FieldError{Path: group, Cause: ErrMissingField}
		return nil, false
	}
	g, ok := raw.(map[string]any)
	if !ok {
		r.err = &FieldError{Path: group, Cause: ErrFieldType}
		return nil, false
	}
	v, ok := g[key]
	if !ok {
		r.err = &FieldError{Path: group + "." + key, Cause: ErrMissingField}
		return nil, false
	}
	return v, true
}

// Text returns a field rendered as display text. Numbers and booleans are
// accepted; null renders as an empty string.
func (r *FieldReader) Text(group, key string) string {
	v, ok := r.lookup(group, key)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		r.err = &FieldError{Path: group + "." + key, Cause: ErrFieldType}
		return ""
	}
}

// Amount returns a numeric field. Null yields nil so that it formats as an
// empty cell.
func (r *FieldReader) Amount(group, key string) *float64 {
	v, ok := r.lookup(group, key)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return &t
	default:
		r.err = &FieldError{Path: group + "." + key, Cause: ErrFieldType}
		return nil
	}
}

// Marshal encodes a record the way payslip files are stored: two-space
// indentation, non-ASCII characters kept literal, no HTML escaping.
func Marshal(rec *Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("failed to encode payslip: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
