// Package gen generates Go types with wire methods from a schema.
//
// Records become structs with a value-receiver EncodeTo and a pointer-receiver
// DecodeFrom that call the primitive and composite codecs directly. Unions
// become named uint32 types implementing wire.Enum.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"
	"unicode"

	"github.com/zoobzio/wire/schema"
)

// Options controls generated output.
type Options struct {
	// Package overrides the schema's package name.
	Package string

	// Source names the schema file in the generated header.
	Source string
}

// Generate renders s as gofmt'd Go source.
func Generate(s *schema.Schema, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = s.Package
	}
	if pkg == "" {
		return nil, fmt.Errorf("gen: no package name given and schema declares none")
	}
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("gen: package name %q is not a Go identifier", pkg)
	}
	if len(s.Types) == 0 {
		return nil, fmt.Errorf("gen: schema declares no types")
	}

	f, err := buildFile(s, pkg, opts.Source)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, f); err != nil {
		return nil, fmt.Errorf("gen: render failed: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: generated source does not parse: %w", err)
	}
	return src, nil
}

type file struct {
	Package string
	Source  string
	Records []record
	Unions  []union
}

type record struct {
	Name   string
	Doc    []string
	Fields []field
}

type field struct {
	GoName   string // exported struct field name
	WireName string // schema field name, used in error paths
	Type     string
	Doc      []string
	Encode   string // expression yielding (int, error) for x.GoName
	Decode   string // expression yielding (T, error) from r
}

type union struct {
	Name     string
	Doc      []string
	VarName  string
	Variants []variant
}

type variant struct {
	Const string
	Name  string
}

// reservedIdents cannot name package-level declarations: the generated file
// refers to them by these names.
var reservedIdents = map[string]bool{
	// imports
	"wire": true,
	"io":   true,
	// method receivers, parameters and locals
	"x":     true,
	"w":     true,
	"r":     true,
	"v":     true,
	"n":     true,
	"err":   true,
	"total": true,
	// predeclared identifiers spelled out in generated code
	"int":    true,
	"error":  true,
	"uint":   true,
	"uint8":  true,
	"uint16": true,
	"uint32": true,
	"uint64": true,
	"string": true,
	"nil":    true,
	"iota":   true,
}

// recordMethods are the methods generated on every record.
var recordMethods = map[string]bool{
	"EncodeTo":   true,
	"DecodeFrom": true,
}

func buildFile(s *schema.Schema, pkg, source string) (*file, error) {
	f := &file{Package: pkg, Source: source}
	idents := make(map[string]string)
	claim := func(ident, owner string) error {
		if token.IsKeyword(ident) {
			return fmt.Errorf("gen: %s: %s is a Go keyword", owner, ident)
		}
		if reservedIdents[ident] {
			return fmt.Errorf("gen: %s: identifier %s is used by generated code", owner, ident)
		}
		if prev, ok := idents[ident]; ok {
			return fmt.Errorf("gen: identifier %s generated for both %s and %s", ident, prev, owner)
		}
		idents[ident] = owner
		return nil
	}

	for i := range s.Types {
		def := &s.Types[i]
		if err := claim(def.Name, def.Name); err != nil {
			return nil, err
		}

		switch def.Kind {
		case schema.KindUnion:
			u := union{
				Name:    def.Name,
				Doc:     docLines(def.Doc, def.Name+" is a wire union."),
				VarName: lowerFirst(def.Name) + "Variants",
			}
			if err := claim(u.VarName, def.Name); err != nil {
				return nil, err
			}
			for _, v := range def.Variants {
				c := def.Name + exportName(v)
				if err := claim(c, def.Name+"."+v); err != nil {
					return nil, err
				}
				u.Variants = append(u.Variants, variant{Const: c, Name: v})
			}
			f.Unions = append(f.Unions, u)

		case schema.KindRecord:
			r := record{
				Name: def.Name,
				Doc:  docLines(def.Doc, def.Name+" is a wire record."),
			}
			seen := make(map[string]bool, len(def.Fields))
			for j := range def.Fields {
				fd := &def.Fields[j]
				ref := fd.Ref()
				if ref == nil {
					return nil, fmt.Errorf("gen: schema has not been validated")
				}
				goName := exportName(fd.Name)
				if recordMethods[goName] {
					return nil, fmt.Errorf("gen: %s: field %s collides with the generated %s method", def.Name, fd.Name, goName)
				}
				if seen[goName] {
					return nil, fmt.Errorf("gen: %s: fields map to the same Go name %s", def.Name, goName)
				}
				seen[goName] = true
				r.Fields = append(r.Fields, field{
					GoName:   goName,
					WireName: fd.Name,
					Type:     goType(ref),
					Doc:      docLines(fd.Doc, ""),
					Encode:   encodeExpr(ref, "x."+goName),
					Decode:   decodeExpr(ref),
				})
			}
			f.Records = append(f.Records, r)
		}
	}
	return f, nil
}

func goType(ref *schema.TypeRef) string {
	switch ref.Kind {
	case schema.RefU8:
		return "uint8"
	case schema.RefU16:
		return "uint16"
	case schema.RefU32:
		return "uint32"
	case schema.RefU64:
		return "uint64"
	case schema.RefU128:
		return "wire.Uint128"
	case schema.RefUint:
		return "uint"
	case schema.RefString:
		return "string"
	case schema.RefSeq:
		return "[]" + goType(ref.Elem)
	default:
		return ref.Name
	}
}

// writer names the wire function writing one value of ref.
func writer(ref *schema.TypeRef) string {
	switch ref.Kind {
	case schema.RefU8:
		return "wire.WriteUint8"
	case schema.RefU16:
		return "wire.WriteUint16"
	case schema.RefU32:
		return "wire.WriteUint32"
	case schema.RefU64:
		return "wire.WriteUint64"
	case schema.RefU128:
		return "wire.WriteUint128"
	case schema.RefUint:
		return "wire.WriteUint"
	case schema.RefString:
		return "wire.WriteString"
	case schema.RefNamed:
		return "wire.WriteCodable[" + ref.Name + "]"
	}
	if isBytes(ref) {
		return "wire.WriteBytes"
	}
	return fmt.Sprintf("func(w io.Writer, v %s) (int, error) {\nreturn %s\n}",
		goType(ref), encodeExpr(ref, "v"))
}

// reader names the wire function reading one value of ref.
func reader(ref *schema.TypeRef) string {
	switch ref.Kind {
	case schema.RefU8:
		return "wire.ReadUint8"
	case schema.RefU16:
		return "wire.ReadUint16"
	case schema.RefU32:
		return "wire.ReadUint32"
	case schema.RefU64:
		return "wire.ReadUint64"
	case schema.RefU128:
		return "wire.ReadUint128"
	case schema.RefUint:
		return "wire.ReadUint"
	case schema.RefString:
		return "wire.ReadString"
	case schema.RefNamed:
		return "wire.ReadCodable[" + ref.Name + "]"
	}
	if isBytes(ref) {
		return "wire.ReadBytes"
	}
	return fmt.Sprintf("func(r io.Reader) (%s, error) {\nreturn %s\n}",
		goType(ref), decodeExpr(ref))
}

func encodeExpr(ref *schema.TypeRef, value string) string {
	switch {
	case ref.Kind == schema.RefNamed:
		return value + ".EncodeTo(w)"
	case ref.Kind == schema.RefSeq && !isBytes(ref):
		return fmt.Sprintf("wire.WriteSeq(w, %s, %s)", value, writer(ref.Elem))
	default:
		return fmt.Sprintf("%s(w, %s)", writer(ref), value)
	}
}

func decodeExpr(ref *schema.TypeRef) string {
	if ref.Kind == schema.RefSeq && !isBytes(ref) {
		return fmt.Sprintf("wire.ReadSeq(r, %s)", reader(ref.Elem))
	}
	return reader(ref) + "(r)"
}

func isBytes(ref *schema.TypeRef) bool {
	return ref.Kind == schema.RefSeq && ref.Elem.Kind == schema.RefU8
}

func docLines(doc, fallback string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		if fallback == "" {
			return nil
		}
		return []string{fallback}
	}
	return strings.Split(doc, "\n")
}

func exportName(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by wiregen{{if .Source}} from {{.Source}}{{end}}. DO NOT EDIT.

package {{.Package}}

import (
	"io"

	"github.com/zoobzio/wire"
)

var (
{{- range .Unions}}
	_ wire.Enum    = {{.Name}}(0)
	_ wire.Codable = (*{{.Name}})(nil)
{{- end}}
{{- range .Records}}
	_ wire.Codable = (*{{.Name}})(nil)
{{- end}}
)
{{range .Unions}}{{$u := .}}
{{range .Doc}}// {{.}}
{{end}}type {{.Name}} uint32

const (
{{range $i, $v := .Variants}}	{{$v.Const}}{{if eq $i 0}} {{$u.Name}} = iota{{end}}
{{end}})

var {{.VarName}} = []string{ {{range $i, $v := .Variants}}{{if $i}}, {{end}}"{{$v.Name}}"{{end}} }

// Variants implements wire.Enum.
func ({{.Name}}) Variants() []string {
	return {{.VarName}}
}

// String returns the variant name.
func (x {{.Name}}) String() string {
	return wire.VariantName(x)
}

// EncodeTo implements wire.Encodable.
func (x {{.Name}}) EncodeTo(w io.Writer) (int, error) {
	return wire.EncodeEnum(w, x)
}

// DecodeFrom implements wire.Decodable.
func (x *{{.Name}}) DecodeFrom(r io.Reader) error {
	v, err := wire.DecodeEnum[{{.Name}}](r)
	if err != nil {
		return err
	}
	*x = v
	return nil
}
{{end}}{{range .Records}}
{{range .Doc}}// {{.}}
{{end}}type {{.Name}} struct {
{{range .Fields}}{{range .Doc}}	// {{.}}
{{end}}	{{.GoName}} {{.Type}}
{{end}}}

// EncodeTo implements wire.Encodable.
func (x {{.Name}}) EncodeTo(w io.Writer) (int, error) {
{{- if .Fields}}
	var (
		total int
		n     int
		err   error
	)
{{range .Fields}}
	n, err = {{.Encode}}
	total += n
	if err != nil {
		return total, wire.WithField("{{.WireName}}", err)
	}
{{end}}
	return total, nil
{{- else}}
	return 0, nil
{{- end}}
}

// DecodeFrom implements wire.Decodable.
// On failure x is left unchanged.
func (x *{{.Name}}) DecodeFrom(r io.Reader) error {
	var v {{.Name}}
{{- if .Fields}}
	var err error
{{range .Fields}}
	if v.{{.GoName}}, err = {{.Decode}}; err != nil {
		return wire.WithField("{{.WireName}}", err)
	}
{{- end}}
{{- end}}
	*x = v
	return nil
}
{{end}}`))
