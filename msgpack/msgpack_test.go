package msgpack

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/wire"
	"github.com/zoobzio/wire/schema"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	rec := &schema.Record{Type: "Example", Fields: []schema.Field{
		{Name: "Name", Value: "test"},
		{Name: "ID", Value: wire.Uint128{Hi: 1}},
		{Name: "Age", Value: uint16(42)},
	}}

	data, err := c.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored map[string]any
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored["Name"] != "test" {
		t.Errorf("Name = %#v, want test", restored["Name"])
	}
	if restored["ID"] != "18446744073709551616" {
		t.Errorf("ID = %#v, want decimal string", restored["ID"])
	}
}

func TestMarshalTopLevelUint128(t *testing.T) {
	data, err := New().Marshal(wire.Uint128From64(5))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var s string
	if err := msgpack.Unmarshal(data, &s); err != nil {
		t.Fatalf("msgpack.Unmarshal() error: %v", err)
	}
	if s != "5" {
		t.Errorf("got %q, want %q", s, "5")
	}
}

func TestMarshalNil(t *testing.T) {
	c := New()

	data, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}

	// nil encodes as msgpack nil (0xc0)
	if len(data) != 1 || data[0] != 0xc0 {
		t.Errorf("Marshal(nil) = %v, want [0xc0]", data)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v map[string]any
	if err := c.Unmarshal([]byte{0xc1}, &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
