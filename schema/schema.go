// Package schema declares record and union shapes at run time.
//
// A schema is a list of named types. Records list their fields in encoding
// order; unions list their nullary variants in discriminant order:
//
//	package: people
//	types:
//	  - name: Color
//	    kind: union
//	    variants: [Red, Green, Blue]
//	  - name: Person
//	    kind: record
//	    fields:
//	      - {name: ID, type: u128}
//	      - {name: Name, type: string}
//	      - {name: Favorite, type: Color}
//	      - {name: Friends, type: "[]Person"}
//
// Field types are written as u8, u16, u32, u64, u128, uint, string, []T or the
// name of another type in the schema.
//
// A validated schema encodes and decodes values whose shape is only known at
// run time, producing exactly the bytes a Go type with the same shape would.
// The same files drive cmd/wiregen, which generates Go types instead.
package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies a schema file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefKind distinguishes records from unions.
type DefKind string

const (
	KindRecord DefKind = "record"
	KindUnion  DefKind = "union"
)

// Schema is a set of named record and union declarations.
type Schema struct {
	Package string    `yaml:"package,omitempty" toml:"package"`
	Types   []TypeDef `yaml:"types" toml:"types"`

	byName map[string]*TypeDef
}

// TypeDef declares one record or union.
type TypeDef struct {
	Name     string     `yaml:"name" toml:"name"`
	Kind     DefKind    `yaml:"kind" toml:"kind"`
	Doc      string     `yaml:"doc,omitempty" toml:"doc"`
	Fields   []FieldDef `yaml:"fields,omitempty" toml:"fields"`
	Variants []string   `yaml:"variants,omitempty" toml:"variants"`
}

// FieldDef declares one record field.
type FieldDef struct {
	Name string `yaml:"name" toml:"name"`
	Type string `yaml:"type" toml:"type"`
	Doc  string `yaml:"doc,omitempty" toml:"doc"`

	ref *TypeRef
}

// Ref returns the parsed field type. It is nil until the schema is validated.
func (f *FieldDef) Ref() *TypeRef {
	return f.ref
}

// Parse decodes and validates a schema.
func Parse(data []byte, format Format) (*Schema, error) {
	var s Schema
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("schema parse failed: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, fmt.Errorf("schema parse failed: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("schema parse failed: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("schema parse failed: unknown format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a schema file, choosing the syntax from its extension.
func Load(path string) (*Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema load failed (%s): %w", path, err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FormatOf maps a file extension to a schema format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("schema: unsupported file extension %q", filepath.Ext(path))
	}
}

// Lookup returns the declaration for name.
func (s *Schema) Lookup(name string) (*TypeDef, bool) {
	def, ok := s.byName[name]
	return def, ok
}

// Index returns the discriminant of a union variant.
func (d *TypeDef) Index(variant string) (uint32, bool) {
	for i, v := range d.Variants {
		if v == variant {
			return uint32(i), true
		}
	}
	return 0, false
}
