package wire_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/zoobzio/wire"
)

func TestDecodeError_Is(t *testing.T) {
	err := &wire.DecodeError{Err: wire.ErrShortRead, Type: "u32", Cause: io.ErrUnexpectedEOF}

	if !errors.Is(err, wire.ErrShortRead) {
		t.Error("DecodeError should unwrap to ErrShortRead")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("DecodeError should unwrap to its cause")
	}
	if errors.Is(err, wire.ErrInvalidEncoding) {
		t.Error("DecodeError should not match ErrInvalidEncoding")
	}
}

func TestEncodeError_Is(t *testing.T) {
	cause := errors.New("disk full")
	err := &wire.EncodeError{Err: wire.ErrWrite, Type: "string", Cause: cause}

	if !errors.Is(err, wire.ErrWrite) {
		t.Error("EncodeError should unwrap to ErrWrite")
	}
	if !errors.Is(err, cause) {
		t.Error("EncodeError should unwrap to its cause")
	}
	if errors.Is(err, wire.ErrRead) {
		t.Error("EncodeError should not match ErrRead")
	}
}

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "short read with field",
			err: &wire.DecodeError{
				Err:   wire.ErrShortRead,
				Type:  "string",
				Field: "Owner.Name",
				Cause: io.ErrUnexpectedEOF,
			},
			want: "wire: decode Owner.Name (string): short read: unexpected EOF",
		},
		{
			name: "discriminant",
			err:  &wire.DecodeError{Err: wire.ErrInvalidDiscriminant, Type: "Color", Discriminant: 5},
			want: "wire: decode (Color): invalid discriminant 5",
		},
		{
			name: "encode write failure",
			err:  &wire.EncodeError{Err: wire.ErrWrite, Type: "u64", Field: "Counter"},
			want: "wire: encode Counter (u64): write failed",
		},
		{
			name: "sentinel only",
			err:  &wire.DecodeError{Err: wire.ErrTrailingData},
			want: "wire: decode: trailing data",
		},
		{
			name: "type error",
			err:  &wire.TypeError{Err: wire.ErrUnsupportedType, Type: "float64", Field: "Score", Reason: "float64 has no wire encoding"},
			want: "wire: unsupported type float64 (field Score): float64 has no wire encoding",
		},
		{
			name: "type error without field",
			err:  &wire.TypeError{Err: wire.ErrInvalidTag, Type: "main.User"},
			want: "wire: invalid tag main.User",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeError_Is(t *testing.T) {
	err := &wire.TypeError{Err: wire.ErrInvalidTag, Type: "T"}
	if !errors.Is(err, wire.ErrInvalidTag) {
		t.Error("TypeError should unwrap to ErrInvalidTag")
	}
	if errors.Is(err, wire.ErrUnsupportedType) {
		t.Error("TypeError should not match ErrUnsupportedType")
	}
}

func TestWithField(t *testing.T) {
	leaf := &wire.DecodeError{Err: wire.ErrShortRead, Type: "u16"}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"single", wire.WithField("Age", leaf), "Age"},
		{"nested", wire.WithField("Owner", wire.WithField("Age", leaf)), "Owner.Age"},
		{"index", wire.WithField("Contacts", wire.WithField("[2]", wire.WithField("Age", leaf))), "Contacts[2].Age"},
		{"nested index", wire.WithField("Scores", wire.WithField("[0]", wire.WithField("[1]", leaf))), "Scores[0][1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var de *wire.DecodeError
			if !errors.As(tt.err, &de) {
				t.Fatalf("error %T is not *DecodeError", tt.err)
			}
			if de.Field != tt.want {
				t.Errorf("Field = %q, want %q", de.Field, tt.want)
			}
			if !errors.Is(tt.err, wire.ErrShortRead) {
				t.Error("WithField lost the sentinel")
			}
		})
	}

	if leaf.Field != "" {
		t.Errorf("WithField mutated the original error: Field = %q", leaf.Field)
	}
}

func TestWithField_EncodeError(t *testing.T) {
	err := wire.WithField("Name", &wire.EncodeError{Err: wire.ErrWrite, Type: "string"})
	var ee *wire.EncodeError
	if !errors.As(err, &ee) || ee.Field != "Name" {
		t.Errorf("error = %v, want EncodeError at Name", err)
	}
}

func TestWithField_PassesOtherErrors(t *testing.T) {
	plain := errors.New("boom")
	if got := wire.WithField("X", plain); got != plain {
		t.Errorf("WithField() = %v, want the error unchanged", got)
	}
	if got := wire.WithField("X", nil); got != nil {
		t.Errorf("WithField(nil) = %v, want nil", got)
	}
}

func TestWithField_Wrapped(t *testing.T) {
	inner := &wire.DecodeError{Err: wire.ErrInvalidEncoding, Type: "string"}
	err := wire.WithField("Name", fmt.Errorf("context: %w", inner))
	var de *wire.DecodeError
	if !errors.As(err, &de) || de.Field != "Name" {
		t.Errorf("error = %v, want DecodeError at Name", err)
	}
}
