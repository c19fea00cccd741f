package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSchema indicates a schema declaration that cannot be encoded.
var ErrInvalidSchema = errors.New("invalid schema")

// SchemaError reports the declaration that failed validation.
type SchemaError struct {
	Type   string // Declaration name, if known
	Field  string // Field name, if the failure is field-specific
	Reason string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema: ")
	b.WriteString(ErrInvalidSchema.Error())
	if e.Type != "" {
		b.WriteString(" ")
		b.WriteString(e.Type)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return ErrInvalidSchema
}

// Validate checks every declaration and resolves field types.
// Parse and Load call it; schemas built in code must call it before use.
func (s *Schema) Validate() error {
	if s.Package != "" && !isIdent(s.Package) {
		return &SchemaError{Reason: fmt.Sprintf("invalid package name %q", s.Package)}
	}

	s.byName = make(map[string]*TypeDef, len(s.Types))
	for i := range s.Types {
		def := &s.Types[i]
		if !isIdent(def.Name) {
			return &SchemaError{Type: def.Name, Reason: "type name must be an identifier"}
		}
		if _, dup := s.byName[def.Name]; dup {
			return &SchemaError{Type: def.Name, Reason: "declared more than once"}
		}
		if _, scalar := scalarRefs[def.Name]; scalar {
			return &SchemaError{Type: def.Name, Reason: "type name shadows a builtin type"}
		}
		s.byName[def.Name] = def
	}

	for i := range s.Types {
		def := &s.Types[i]
		var err error
		switch def.Kind {
		case KindRecord:
			err = s.validateRecord(def)
		case KindUnion:
			err = validateUnion(def)
		default:
			err = &SchemaError{Type: def.Name, Reason: fmt.Sprintf("unknown kind %q (want record or union)", def.Kind)}
		}
		if err != nil {
			s.byName = nil
			return err
		}
	}

	if err := s.checkInline(); err != nil {
		s.byName = nil
		return err
	}
	return nil
}

func (s *Schema) validateRecord(def *TypeDef) error {
	if len(def.Variants) > 0 {
		return &SchemaError{Type: def.Name, Reason: "records cannot declare variants"}
	}
	seen := make(map[string]bool, len(def.Fields))
	for i := range def.Fields {
		f := &def.Fields[i]
		if !isIdent(f.Name) {
			return &SchemaError{Type: def.Name, Field: f.Name, Reason: "field name must be an identifier"}
		}
		if seen[f.Name] {
			return &SchemaError{Type: def.Name, Field: f.Name, Reason: "declared more than once"}
		}
		seen[f.Name] = true

		ref, err := ParseType(f.Type)
		if err != nil {
			return &SchemaError{Type: def.Name, Field: f.Name, Reason: err.Error()}
		}
		if name, ok := unresolved(ref, s.byName); ok {
			return &SchemaError{Type: def.Name, Field: f.Name, Reason: fmt.Sprintf("unknown type %q", name)}
		}
		f.ref = ref
	}
	return nil
}

func validateUnion(def *TypeDef) error {
	if len(def.Fields) > 0 {
		return &SchemaError{Type: def.Name, Reason: "unions carry no fields"}
	}
	if len(def.Variants) == 0 {
		return &SchemaError{Type: def.Name, Reason: "union declares no variants"}
	}
	seen := make(map[string]bool, len(def.Variants))
	for _, v := range def.Variants {
		if !isIdent(v) {
			return &SchemaError{Type: def.Name, Field: v, Reason: "variant name must be an identifier"}
		}
		if seen[v] {
			return &SchemaError{Type: def.Name, Field: v, Reason: "variant declared more than once"}
		}
		seen[v] = true
	}
	return nil
}

// unresolved returns the first named type in ref missing from known.
func unresolved(ref *TypeRef, known map[string]*TypeDef) (string, bool) {
	switch ref.Kind {
	case RefSeq:
		return unresolved(ref.Elem, known)
	case RefNamed:
		if _, ok := known[ref.Name]; !ok {
			return ref.Name, true
		}
	}
	return "", false
}

// checkInline rejects records that contain themselves without a sequence in
// between; such a value would have no finite encoding. Each record is walked
// once, so shared field types do not multiply the work.
func (s *Schema) checkInline() error {
	const (
		unvisited = iota
		onPath
		done
	)
	type step struct {
		def   *TypeDef
		field string
	}

	state := make(map[*TypeDef]int, len(s.Types))
	var path []step

	var visit func(def *TypeDef) error
	visit = func(def *TypeDef) error {
		state[def] = onPath
		for _, f := range def.Fields {
			if f.ref.Kind != RefNamed {
				continue
			}
			next := s.byName[f.ref.Name]
			if next.Kind != KindRecord {
				continue
			}
			switch state[next] {
			case onPath:
				start := len(path)
				for i := range path {
					if path[i].def == next {
						start = i
						break
					}
				}
				fields := make([]string, 0, len(path)-start+1)
				for _, st := range path[start:] {
					fields = append(fields, st.field)
				}
				fields = append(fields, f.Name)
				return &SchemaError{
					Type:   next.Name,
					Field:  strings.Join(fields, "."),
					Reason: "record contains itself without a sequence",
				}
			case unvisited:
				path = append(path, step{def: def, field: f.Name})
				if err := visit(next); err != nil {
					return err
				}
				path = path[:len(path)-1]
			}
		}
		state[def] = done
		return nil
	}

	for i := range s.Types {
		def := &s.Types[i]
		if def.Kind == KindRecord && state[def] == unvisited {
			if err := visit(def); err != nil {
				return err
			}
		}
	}
	return nil
}
