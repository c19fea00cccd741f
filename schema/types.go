package schema

import (
	"fmt"
	"strings"
)

// RefKind enumerates field type expressions.
type RefKind int

const (
	RefU8 RefKind = iota
	RefU16
	RefU32
	RefU64
	RefU128
	RefUint
	RefString
	RefSeq
	RefNamed
)

var scalarRefs = map[string]RefKind{
	"u8":     RefU8,
	"u16":    RefU16,
	"u32":    RefU32,
	"u64":    RefU64,
	"u128":   RefU128,
	"uint":   RefUint,
	"string": RefString,
}

// TypeRef is a parsed field type expression.
type TypeRef struct {
	Kind RefKind
	Elem *TypeRef // RefSeq element
	Name string   // RefNamed declaration name
}

// ParseType parses a type expression such as "u32", "[]string" or "[][]Person".
func ParseType(expr string) (*TypeRef, error) {
	expr = strings.TrimSpace(expr)
	if rest, ok := strings.CutPrefix(expr, "[]"); ok {
		elem, err := ParseType(rest)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: RefSeq, Elem: elem}, nil
	}
	if kind, ok := scalarRefs[expr]; ok {
		return &TypeRef{Kind: kind}, nil
	}
	if !isIdent(expr) {
		return nil, fmt.Errorf("invalid type expression %q", expr)
	}
	return &TypeRef{Kind: RefNamed, Name: expr}, nil
}

// String returns the expression form of t.
func (t *TypeRef) String() string {
	switch t.Kind {
	case RefSeq:
		return "[]" + t.Elem.String()
	case RefNamed:
		return t.Name
	}
	for name, kind := range scalarRefs {
		if kind == t.Kind {
			return name
		}
	}
	return fmt.Sprintf("RefKind(%d)", t.Kind)
}

// Bits returns the width of an unsigned integer kind, or 0 for other kinds.
func (t *TypeRef) Bits() int {
	switch t.Kind {
	case RefU8:
		return 8
	case RefU16:
		return 16
	case RefU32:
		return 32
	case RefU64, RefUint:
		return 64
	case RefU128:
		return 128
	}
	return 0
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r == '_' && i > 0:
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
