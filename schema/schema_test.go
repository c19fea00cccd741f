package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const peopleYAML = `
package: people
types:
  - name: Color
    kind: union
    variants: [Red, Green, Blue]
  - name: Person
    kind: record
    doc: A person and their friends.
    fields:
      - {name: ID, type: u128}
      - {name: Name, type: string}
      - {name: Favorite, type: Color}
      - {name: Friends, type: "[]Person"}
`

const peopleTOML = `
package = "people"

[[types]]
name = "Color"
kind = "union"
variants = ["Red", "Green", "Blue"]

[[types]]
name = "Person"
kind = "record"

  [[types.fields]]
  name = "ID"
  type = "u128"

  [[types.fields]]
  name = "Name"
  type = "string"

  [[types.fields]]
  name = "Favorite"
  type = "Color"

  [[types.fields]]
  name = "Friends"
  type = "[]Person"
`

func mustParse(t *testing.T, src string) *Schema {
	t.Helper()
	s, err := Parse([]byte(src), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return s
}

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format Format
	}{
		{"yaml", peopleYAML, FormatYAML},
		{"toml", peopleTOML, FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.src), tt.format)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if s.Package != "people" {
				t.Errorf("Package = %q, want %q", s.Package, "people")
			}
			person, ok := s.Lookup("Person")
			if !ok {
				t.Fatal("Lookup(Person) not found")
			}
			if len(person.Fields) != 4 {
				t.Fatalf("Person has %d fields, want 4", len(person.Fields))
			}
			friends := person.Fields[3].Ref()
			if friends == nil || friends.Kind != RefSeq || friends.Elem.Name != "Person" {
				t.Errorf("Friends ref = %+v, want []Person", friends)
			}
			color, _ := s.Lookup("Color")
			if idx, ok := color.Index("Blue"); !ok || idx != 2 {
				t.Errorf("Index(Blue) = %d, %v; want 2, true", idx, ok)
			}
		})
	}
}

func TestParse_UnknownKeys(t *testing.T) {
	yamlSrc := "types:\n  - name: A\n    kind: union\n    variants: [X]\n    colour: red\n"
	if _, err := Parse([]byte(yamlSrc), FormatYAML); err == nil {
		t.Error("expected error for unknown YAML key")
	}

	tomlSrc := "[[types]]\nname = \"A\"\nkind = \"union\"\nvariants = [\"X\"]\ncolour = \"red\"\n"
	if _, err := Parse([]byte(tomlSrc), FormatTOML); err == nil {
		t.Error("expected error for unknown TOML key")
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	if _, err := Parse([]byte(peopleYAML), Format("json")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "duplicate type",
			src:  "types:\n  - {name: A, kind: union, variants: [X]}\n  - {name: A, kind: union, variants: [Y]}\n",
			want: "declared more than once",
		},
		{
			name: "shadows builtin",
			src:  "types:\n  - {name: u32, kind: union, variants: [X]}\n",
			want: "shadows a builtin",
		},
		{
			name: "unknown kind",
			src:  "types:\n  - {name: A, kind: struct}\n",
			want: "unknown kind",
		},
		{
			name: "unknown field type",
			src:  "types:\n  - name: A\n    kind: record\n    fields: [{name: B, type: Missing}]\n",
			want: `unknown type "Missing"`,
		},
		{
			name: "bad type expression",
			src:  "types:\n  - name: A\n    kind: record\n    fields: [{name: B, type: \"map[string]u8\"}]\n",
			want: "invalid type expression",
		},
		{
			name: "duplicate field",
			src:  "types:\n  - name: A\n    kind: record\n    fields: [{name: B, type: u8}, {name: B, type: u16}]\n",
			want: "declared more than once",
		},
		{
			name: "empty union",
			src:  "types:\n  - {name: A, kind: union}\n",
			want: "no variants",
		},
		{
			name: "duplicate variant",
			src:  "types:\n  - {name: A, kind: union, variants: [X, X]}\n",
			want: "variant declared more than once",
		},
		{
			name: "union with fields",
			src:  "types:\n  - name: A\n    kind: union\n    variants: [X]\n    fields: [{name: B, type: u8}]\n",
			want: "unions carry no fields",
		},
		{
			name: "direct self containment",
			src:  "types:\n  - name: A\n    kind: record\n    fields: [{name: Next, type: A}]\n",
			want: "contains itself",
		},
		{
			name: "indirect self containment",
			src:  "types:\n  - name: A\n    kind: record\n    fields: [{name: B, type: B}]\n  - name: B\n    kind: record\n    fields: [{name: A, type: A}]\n",
			want: "A.B.A",
		},
		{
			name: "bad package",
			src:  "package: 9lives\ntypes: []\n",
			want: "invalid package name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), FormatYAML)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidSchema) {
				t.Errorf("error %v does not wrap ErrInvalidSchema", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_SequenceBreaksRecursion(t *testing.T) {
	src := "types:\n  - name: Tree\n    kind: record\n    fields: [{name: Children, type: \"[]Tree\"}]\n"
	if _, err := Parse([]byte(src), FormatYAML); err != nil {
		t.Errorf("recursive record through a sequence should validate: %v", err)
	}
}

func TestValidate_SharedRecordsLinear(t *testing.T) {
	// Each record holds two fields of the next, so walking every field path
	// would visit 2^depth records.
	const depth = 40
	var b strings.Builder
	b.WriteString("types:\n")
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&b, "  - name: R%d\n    kind: record\n", i)
		if i == depth-1 {
			b.WriteString("    fields: [{name: V, type: u8}]\n")
			continue
		}
		fmt.Fprintf(&b, "    fields: [{name: L, type: R%d}, {name: R, type: R%d}]\n", i+1, i+1)
	}

	done := make(chan error, 1)
	go func() {
		_, err := Parse([]byte(b.String()), FormatYAML)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Parse() did not finish validating a chain of shared records")
	}
}

func TestValidate_CycleBehindSharedRecord(t *testing.T) {
	src := `types:
  - name: A
    kind: record
    fields: [{name: X, type: C}, {name: Y, type: B}]
  - name: B
    kind: record
    fields: [{name: Z, type: C}]
  - name: C
    kind: record
    fields: [{name: Back, type: B}]
`
	_, err := Parse([]byte(src), FormatYAML)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if se.Type != "C" || se.Field != "Back.Z" {
		t.Errorf("cycle reported at %s.%s, want C.Back.Z", se.Type, se.Field)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "people.yaml")
	if err := os.WriteFile(yamlPath, []byte(peopleYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	tomlPath := filepath.Join(dir, "people.toml")
	if err := os.WriteFile(tomlPath, []byte(peopleTOML), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{yamlPath, tomlPath} {
		s, err := Load(path)
		if err != nil {
			t.Errorf("Load(%s) error: %v", filepath.Base(path), err)
			continue
		}
		if _, ok := s.Lookup("Person"); !ok {
			t.Errorf("Load(%s): Person missing", filepath.Base(path))
		}
	}

	if _, err := Load(filepath.Join(dir, "people.json")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := Load(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		expr string
		want string
		bits int
	}{
		{"u8", "u8", 8},
		{"u128", "u128", 128},
		{"uint", "uint", 64},
		{" string ", "string", 0},
		{"[]u16", "[]u16", 0},
		{"[][]Person", "[][]Person", 0},
		{"Person", "Person", 0},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			ref, err := ParseType(tt.expr)
			if err != nil {
				t.Fatalf("ParseType() error: %v", err)
			}
			if got := ref.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := ref.Bits(); got != tt.bits {
				t.Errorf("Bits() = %d, want %d", got, tt.bits)
			}
		})
	}

	for _, bad := range []string{"", "[]", "*u8", "a.b", "1x"} {
		if _, err := ParseType(bad); err == nil {
			t.Errorf("ParseType(%q) should fail", bad)
		}
	}
}
