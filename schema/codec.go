package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/zoobzio/wire"
)

var (
	// ErrUnknownType indicates a type expression naming no declaration.
	ErrUnknownType = errors.New("unknown type")

	// ErrValue indicates a dynamic value that does not fit its declared type.
	ErrValue = errors.New("value does not match type")
)

// Encode writes v as the type named by typeExpr.
//
// Unsigned fields accept any Go integer, float64 holding an integer,
// json.Number or a decimal string. u128 fields also accept wire.Uint128 and
// *big.Int. Records accept *Record, Record or map[string]any with exactly the
// declared fields. Unions accept a variant name or its discriminant.
func (s *Schema) Encode(w io.Writer, typeExpr string, v any) (int, error) {
	ref, err := s.Resolve(typeExpr)
	if err != nil {
		return 0, err
	}
	return s.encode(w, ref, v)
}

// Decode reads one value of the type named by typeExpr.
//
// Unsigned integers decode to their exact-width Go type (uint for uint),
// u128 to wire.Uint128, sequences to []any, records to *Record and unions to
// the variant name.
func (s *Schema) Decode(r io.Reader, typeExpr string) (any, error) {
	ref, err := s.Resolve(typeExpr)
	if err != nil {
		return nil, err
	}
	return s.decode(r, ref)
}

// Resolve parses typeExpr and checks every name it uses is declared.
func (s *Schema) Resolve(typeExpr string) (*TypeRef, error) {
	if s.byName == nil && len(s.Types) > 0 {
		return nil, &SchemaError{Reason: "schema has not been validated"}
	}
	ref, err := ParseType(typeExpr)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if name, ok := unresolved(ref, s.byName); ok {
		return nil, fmt.Errorf("schema: %w %q", ErrUnknownType, name)
	}
	return ref, nil
}

func (s *Schema) encode(w io.Writer, ref *TypeRef, v any) (int, error) {
	switch ref.Kind {
	case RefU8, RefU16, RefU32, RefU64, RefUint:
		u, err := toUint64(v, ref.Bits())
		if err != nil {
			return 0, valueError(ref.String(), err)
		}
		switch ref.Kind {
		case RefU8:
			return wire.WriteUint8(w, uint8(u))
		case RefU16:
			return wire.WriteUint16(w, uint16(u))
		case RefU32:
			return wire.WriteUint32(w, uint32(u))
		case RefU64:
			return wire.WriteUint64(w, u)
		default:
			return wire.WriteUint(w, uint(u))
		}

	case RefU128:
		u, err := toUint128(v)
		if err != nil {
			return 0, valueError("u128", err)
		}
		return wire.WriteUint128(w, u)

	case RefString:
		str, ok := v.(string)
		if !ok {
			return 0, valueError("string", fmt.Errorf("got %T", v))
		}
		return wire.WriteString(w, str)

	case RefSeq:
		return s.encodeSeq(w, ref, v)

	default:
		def := s.byName[ref.Name]
		if def.Kind == KindUnion {
			return encodeUnion(w, def, v)
		}
		return s.encodeRecord(w, def, v)
	}
}

func (s *Schema) encodeSeq(w io.Writer, ref *TypeRef, v any) (int, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return wire.WriteLen(w, 0)
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, valueError(ref.String(), fmt.Errorf("got %T", v))
	}

	total, err := wire.WriteLen(w, rv.Len())
	if err != nil {
		return total, err
	}
	for i := 0; i < rv.Len(); i++ {
		n, err := s.encode(w, ref.Elem, rv.Index(i).Interface())
		total += n
		if err != nil {
			return total, wire.WithField(fmt.Sprintf("[%d]", i), err)
		}
	}
	return total, nil
}

func encodeUnion(w io.Writer, def *TypeDef, v any) (int, error) {
	var tag uint32
	if name, ok := v.(string); ok {
		idx, found := def.Index(name)
		if !found {
			return 0, valueError(def.Name, fmt.Errorf("unknown variant %q", name))
		}
		tag = idx
	} else {
		u, err := toUint64(v, 32)
		if err != nil {
			return 0, valueError(def.Name, err)
		}
		tag = uint32(u)
	}

	n, err := wire.WriteVariant(w, tag, def.Variants)
	if err != nil {
		return n, renamed(err, def.Name)
	}
	return n, nil
}

func (s *Schema) encodeRecord(w io.Writer, def *TypeDef, v any) (int, error) {
	fields, err := fieldMap(def, v)
	if err != nil {
		return 0, valueError(def.Name, err)
	}

	total := 0
	for i := range def.Fields {
		f := &def.Fields[i]
		val, ok := fields[f.Name]
		if !ok {
			return total, wire.WithField(f.Name, valueError(f.ref.String(), errors.New("missing field")))
		}
		n, err := s.encode(w, f.ref, val)
		total += n
		if err != nil {
			return total, wire.WithField(f.Name, err)
		}
	}
	return total, nil
}

// fieldMap flattens the accepted record forms and rejects undeclared fields.
func fieldMap(def *TypeDef, v any) (map[string]any, error) {
	var fields map[string]any
	switch rec := v.(type) {
	case *Record:
		if rec == nil {
			return nil, errors.New("nil record")
		}
		fields = rec.asMap()
		if rec.Type != "" && rec.Type != def.Name {
			return nil, fmt.Errorf("record of type %s", rec.Type)
		}
	case Record:
		fields = rec.asMap()
		if rec.Type != "" && rec.Type != def.Name {
			return nil, fmt.Errorf("record of type %s", rec.Type)
		}
	case map[string]any:
		fields = rec
	default:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("got %T", v)
		}
		fields = make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields[iter.Key().String()] = iter.Value().Interface()
		}
	}

	if len(fields) > len(def.Fields) {
		for name := range fields {
			if !def.hasField(name) {
				return nil, fmt.Errorf("unknown field %q", name)
			}
		}
	}
	return fields, nil
}

func (d *TypeDef) hasField(name string) bool {
	for _, f := range d.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (s *Schema) decode(r io.Reader, ref *TypeRef) (any, error) {
	switch ref.Kind {
	case RefU8:
		return wire.ReadUint8(r)
	case RefU16:
		return wire.ReadUint16(r)
	case RefU32:
		return wire.ReadUint32(r)
	case RefU64:
		return wire.ReadUint64(r)
	case RefUint:
		return wire.ReadUint(r)
	case RefU128:
		return wire.ReadUint128(r)
	case RefString:
		return wire.ReadString(r)
	case RefSeq:
		return wire.ReadSeq(r, func(r io.Reader) (any, error) {
			return s.decode(r, ref.Elem)
		})
	}

	def := s.byName[ref.Name]
	if def.Kind == KindUnion {
		tag, err := wire.ReadVariant(r, def.Variants)
		if err != nil {
			return nil, renamed(err, def.Name)
		}
		return def.Variants[tag], nil
	}

	rec := &Record{Type: def.Name, Fields: make([]Field, 0, len(def.Fields))}
	for i := range def.Fields {
		f := &def.Fields[i]
		val, err := s.decode(r, f.ref)
		if err != nil {
			return nil, wire.WithField(f.Name, err)
		}
		rec.Fields = append(rec.Fields, Field{Name: f.Name, Value: val})
	}
	return rec, nil
}

func valueError(typ string, cause error) error {
	return &wire.EncodeError{Err: ErrValue, Type: typ, Cause: cause}
}

// renamed replaces the u32 type on a discriminant error with the union name.
func renamed(err error, name string) error {
	var de *wire.DecodeError
	if errors.As(err, &de) && errors.Is(de.Err, wire.ErrInvalidDiscriminant) {
		cp := *de
		cp.Type = name
		return &cp
	}
	var ee *wire.EncodeError
	if errors.As(err, &ee) && errors.Is(ee.Err, wire.ErrInvalidDiscriminant) {
		cp := *ee
		cp.Type = name
		return &cp
	}
	return err
}

// toUint64 converts a dynamic integer and checks it fits in bits.
func toUint64(v any, bits int) (uint64, error) {
	var u uint64
	switch x := v.(type) {
	case uint8:
		u = uint64(x)
	case uint16:
		u = uint64(x)
	case uint32:
		u = uint64(x)
	case uint64:
		u = x
	case uint:
		u = uint64(x)
	case int8:
		return signed(int64(x), bits)
	case int16:
		return signed(int64(x), bits)
	case int32:
		return signed(int64(x), bits)
	case int64:
		return signed(x, bits)
	case int:
		return signed(int64(x), bits)
	case float64:
		if x < 0 || x != math.Trunc(x) || x >= math.Exp2(64) {
			return 0, fmt.Errorf("%v is not an unsigned integer", x)
		}
		u = uint64(x)
	case json.Number:
		parsed, err := strconv.ParseUint(string(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s is not an unsigned integer", x)
		}
		u = parsed
	case string:
		parsed, err := strconv.ParseUint(x, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an unsigned integer", x)
		}
		u = parsed
	default:
		return 0, fmt.Errorf("got %T", v)
	}
	if bits < 64 && u>>uint(bits) != 0 {
		return 0, fmt.Errorf("%d overflows u%d", u, bits)
	}
	return u, nil
}

func signed(x int64, bits int) (uint64, error) {
	if x < 0 {
		return 0, fmt.Errorf("%d is negative", x)
	}
	return toUint64(uint64(x), bits)
}

func toUint128(v any) (wire.Uint128, error) {
	switch x := v.(type) {
	case wire.Uint128:
		return x, nil
	case *big.Int:
		return wire.Uint128FromBig(x)
	case json.Number:
		return wire.ParseUint128(string(x))
	case string:
		return wire.ParseUint128(x)
	}
	u, err := toUint64(v, 64)
	if err != nil {
		return wire.Uint128{}, err
	}
	return wire.Uint128From64(u), nil
}
