package payslip

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a single payslip file could not be processed.
type FailureKind string

const (
	KindIO    FailureKind = "io"
	KindParse FailureKind = "parse"
	KindField FailureKind = "field"
)

// Kinds lists every failure kind in reporting order.
var Kinds = []FailureKind{KindIO, KindParse, KindField}

// Failure is the per-file error of a batch run.
type Failure struct {
	Kind FailureKind
	Path string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure wraps err as a failure of the given kind. A *FieldError keeps
// its own kind regardless of the kind requested.
func NewFailure(kind FailureKind, path string, err error) *Failure {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		kind = KindField
	}
	return &Failure{Kind: kind, Path: path, Err: err}
}

// ErrMissingField and ErrFieldType are the causes carried by a FieldError.
var (
	ErrMissingField = errors.New("missing field")
	ErrFieldType    = errors.New("unexpected field type")
)

// FieldError reports a structural problem found while reading a record.
type FieldError struct {
	Path  string
	Cause error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v %q", e.Cause, e.Path)
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}
