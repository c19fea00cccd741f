package yaml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
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
	if c.ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/yaml")
	}
}

func TestMarshalRecord(t *testing.T) {
	rec := &schema.Record{Type: "Example", Fields: []schema.Field{
		{Name: "Name", Value: "test"},
		{Name: "Tags", Value: []any{"a"}},
		{Name: "Age", Value: uint16(42)},
	}}

	data, err := New().Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := "Name: test\nTags:\n  - a\nAge: 42\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("Marshal() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshal(t *testing.T) {
	var v any
	if err := New().Unmarshal([]byte("Name: test\nAge: 42\n"), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	want := map[string]any{"Name": "test", "Age": 42}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v any
	if err := c.Unmarshal([]byte("key: [unclosed"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
	if err := c.Unmarshal([]byte("a: 1\n---\nb: 2\n"), &v); err == nil {
		t.Error("Unmarshal(two documents) should return error")
	}
}
