package bson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/wire"
	"github.com/zoobzio/wire/schema"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	rec := &schema.Record{Type: "Example", Fields: []schema.Field{
		{Name: "Name", Value: "test"},
		{Name: "Age", Value: uint16(42)},
		{Name: "Tags", Value: []any{"a", "b"}},
		{Name: "ID", Value: wire.Uint128{Hi: 1}},
	}}

	data, err := c.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored any
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	want := map[string]any{
		"Name": "test",
		"Age":  int32(42),
		"Tags": []any{"a", "b"},
		"ID":   "18446744073709551616",
	}
	if diff := cmp.Diff(want, restored); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalScalar(t *testing.T) {
	data, err := New().Marshal(uint32(7))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		t.Fatalf("bson.Unmarshal() error: %v", err)
	}
	want := bson.D{{Key: ValueKey, Value: int64(7)}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("Marshal() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v any
	err := c.Unmarshal([]byte("invalid bson"), &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
