package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrShortRead indicates the stream ended before a value was fully read.
	ErrShortRead = errors.New("short read")

	// ErrInvalidDiscriminant indicates a union tag that names no declared variant.
	ErrInvalidDiscriminant = errors.New("invalid discriminant")

	// ErrInvalidEncoding indicates bytes that cannot represent the expected value,
	// such as malformed UTF-8 text or a length header beyond the platform int range.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrRead indicates the underlying reader failed for a reason other than end of stream.
	ErrRead = errors.New("read failed")

	// ErrWrite indicates the underlying writer failed.
	ErrWrite = errors.New("write failed")

	// ErrUnsupportedType indicates a Go type with no wire representation.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidTag indicates a wire struct tag has an invalid value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrTrailingData indicates Unmarshal input held bytes past the decoded value.
	ErrTrailingData = errors.New("trailing data")
)

// DecodeError reports a failed decode.
// It wraps a sentinel error with the wire type and field path being decoded.
type DecodeError struct {
	Err          error  // Underlying sentinel error (ErrShortRead, ErrInvalidDiscriminant, ...)
	Type         string // Wire type being decoded (u32, string, Example, ...)
	Field        string // Dotted field path within the enclosing record, if any
	Discriminant uint32 // Offending tag, set only for ErrInvalidDiscriminant
	Cause        error  // Original error from the stream, if any
}

func (e *DecodeError) Error() string {
	return formatError("decode", e.Err, e.Type, e.Field, e.Discriminant, e.Cause)
}

// Unwrap exposes both the sentinel and the stream error to errors.Is.
func (e *DecodeError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// EncodeError reports a failed encode.
type EncodeError struct {
	Err          error  // Underlying sentinel error (ErrWrite, ErrInvalidDiscriminant)
	Type         string // Wire type being encoded
	Field        string // Dotted field path within the enclosing record, if any
	Discriminant uint32 // Offending tag, set only for ErrInvalidDiscriminant
	Cause        error  // Original error from the stream, if any
}

func (e *EncodeError) Error() string {
	return formatError("encode", e.Err, e.Type, e.Field, e.Discriminant, e.Cause)
}

// Unwrap exposes both the sentinel and the stream error to errors.Is.
func (e *EncodeError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// TypeError reports a Go type that cannot be given a wire plan.
type TypeError struct {
	Err    error  // ErrUnsupportedType or ErrInvalidTag
	Type   string // Go type name
	Field  string // Field path that introduced the type, if any
	Reason string
}

func (e *TypeError) Error() string {
	var b strings.Builder
	b.WriteString("wire: ")
	b.WriteString(e.Err.Error())
	b.WriteString(" ")
	b.WriteString(e.Type)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

func formatError(op string, sentinel error, typ, field string, tag uint32, cause error) string {
	var b strings.Builder
	b.WriteString("wire: ")
	b.WriteString(op)
	if field != "" {
		b.WriteString(" ")
		b.WriteString(field)
	}
	if typ != "" {
		fmt.Fprintf(&b, " (%s)", typ)
	}
	b.WriteString(": ")
	b.WriteString(sentinel.Error())
	if errors.Is(sentinel, ErrInvalidDiscriminant) {
		fmt.Fprintf(&b, " %d", tag)
	}
	if cause != nil {
		fmt.Fprintf(&b, ": %v", cause)
	}
	return b.String()
}

// WithField records that err happened while handling the named record field.
// Field paths accumulate outward, so nested records read Outer.Inner.Leaf.
// Errors that are not *DecodeError or *EncodeError are returned unchanged.
func WithField(name string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		cp := *de
		cp.Field = joinField(name, de.Field)
		return &cp
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		cp := *ee
		cp.Field = joinField(name, ee.Field)
		return &cp
	}
	return err
}

func joinField(outer, inner string) string {
	switch {
	case inner == "":
		return outer
	case strings.HasPrefix(inner, "["):
		return outer + inner
	default:
		return outer + "." + inner
	}
}

// withIndex records that err happened while handling sequence element i.
func withIndex(i int, err error) error {
	return WithField(fmt.Sprintf("[%d]", i), err)
}

func newDecodeError(sentinel error, typ string, cause error) error {
	return &DecodeError{
		Err:   sentinel,
		Type:  typ,
		Cause: cause,
	}
}

func newEncodeError(sentinel error, typ string, cause error) error {
	return &EncodeError{
		Err:   sentinel,
		Type:  typ,
		Cause: cause,
	}
}

func newTypeError(sentinel error, typ, field, reason string) error {
	return &TypeError{
		Err:    sentinel,
		Type:   typ,
		Field:  field,
		Reason: reason,
	}
}
