// Package testing provides test utilities for wire.
package testing

import (
	_ "embed"
	"errors"
	"testing"

	"github.com/zoobzio/wire"
	"github.com/zoobzio/wire/schema"
)

//go:generate go run ../cmd/wiregen -schema example.yaml -out example_wire.go

//go:embed example.yaml
var exampleYAML []byte

// ExampleSchema returns the validated schema the generated types come from.
func ExampleSchema(tb testing.TB) *schema.Schema {
	tb.Helper()
	s, err := schema.Parse(exampleYAML, schema.FormatYAML)
	if err != nil {
		tb.Fatalf("example schema: %v", err)
	}
	return s
}

// ExampleSource returns the raw example schema.
func ExampleSource() []byte {
	return exampleYAML
}

// SampleExample returns a populated Example.
func SampleExample() Example {
	return Example{
		ID:      wire.Uint128{Hi: 0x0102030405060708, Lo: 0x090a0b0c0d0e0f10},
		Name:    "Ada Lovelace",
		Address: "12 St James's Square, London",
		Age:     36,
		Phone:   "+44 20 7946 0000",
	}
}

// SampleProfile returns a Profile with every field populated.
func SampleProfile() Profile {
	return Profile{
		Owner:    SampleExample(),
		Favorite: ColorGreen,
		Flags:    0x81,
		Epoch:    1_700_000_000,
		Counter:  1 << 40,
		Slot:     7,
		Tags:     []string{"analyst", "écrivain"},
		Avatar:   []byte{0xde, 0xad, 0xbe, 0xef},
		Scores:   [][]uint32{{1, 2}, {}, {3}},
		Contacts: []Example{{Name: "Charles"}},
	}
}

// ReflectExample has the same shape as Example but no wire methods,
// so it is encoded through a reflection plan.
type ReflectExample struct {
	ID      wire.Uint128
	Name    string
	Address string
	Age     uint16
	Phone   string
}

// Reflected converts e to its reflection-encoded twin.
func (e Example) Reflected() ReflectExample {
	return ReflectExample(e)
}

// MustMarshal encodes v or fails tb.
func MustMarshal(tb testing.TB, v any) []byte {
	tb.Helper()
	data, err := wire.Marshal(v)
	if err != nil {
		tb.Fatalf("Marshal(%T) error: %v", v, err)
	}
	return data
}

// ErrInjected is returned by FailWriter.
var ErrInjected = errors.New("injected failure")

// FailWriter accepts Limit bytes and then fails with ErrInjected.
type FailWriter struct {
	Limit   int
	Written int
}

func (f *FailWriter) Write(p []byte) (int, error) {
	room := f.Limit - f.Written
	if room <= 0 {
		return 0, ErrInjected
	}
	if len(p) > room {
		f.Written += room
		return room, ErrInjected
	}
	f.Written += len(p)
	return len(p), nil
}

// FailReader returns data and then fails with ErrInjected instead of io.EOF.
type FailReader struct {
	Data []byte
}

func (f *FailReader) Read(p []byte) (int, error) {
	if len(f.Data) == 0 {
		return 0, ErrInjected
	}
	n := copy(p, f.Data)
	f.Data = f.Data[n:]
	return n, nil
}
