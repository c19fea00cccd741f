package wire

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/zoobzio/sentinel"
	"go.uber.org/zap"
)

func init() {
	// Register the field tag with sentinel
	sentinel.Tag("wire")
}

// planKind enumerates the wire shapes a Go type can map to.
type planKind int

const (
	kindUint8 planKind = iota
	kindUint16
	kindUint32
	kindUint64
	kindUint128
	kindUint
	kindString
	kindBytes
	kindSeq
	kindRecord
	kindEnum
	kindCodable
)

var (
	uint128Type   = reflect.TypeFor[Uint128]()
	encodableType = reflect.TypeFor[Encodable]()
	decodableType = reflect.TypeFor[Decodable]()
	enumType      = reflect.TypeFor[Enum]()
)

// typePlan describes how to encode and decode one Go type.
// Plans are immutable once compiled and shared through the registry.
type typePlan struct {
	kind     planKind
	typ      reflect.Type
	name     string      // wire type name used in errors
	elem     *typePlan   // kindSeq element
	fields   []fieldPlan // kindRecord fields in declared order
	variants []string    // kindEnum variant names
}

// fieldPlan describes one record field.
type fieldPlan struct {
	index []int  // reflect.Value.FieldByIndex access path
	name  string // field name for error paths
	plan  *typePlan
}

// compiler builds plans for a type graph, tolerating cycles through slices.
type compiler struct {
	building map[reflect.Type]*typePlan
	root     *sentinel.Metadata // scanned metadata for the root type, if any
	rootType reflect.Type
}

func compilePlan(rt reflect.Type, root *sentinel.Metadata) (*typePlan, error) {
	c := &compiler{
		building: make(map[reflect.Type]*typePlan),
		root:     root,
		rootType: rt,
	}
	return c.compile(rt, "")
}

func (c *compiler) compile(rt reflect.Type, field string) (*typePlan, error) {
	if p, ok := c.building[rt]; ok {
		return p, nil
	}
	if p, ok := lookupPlan(rt); ok {
		return p, nil
	}

	switch {
	case rt == uint128Type:
		return c.leaf(rt, kindUint128, "u128"), nil
	case rt.Implements(enumType):
		if rt.Kind() != reflect.Uint32 {
			return nil, newTypeError(ErrUnsupportedType, rt.String(), field,
				"union must have underlying type uint32")
		}
		return c.enum(rt, field)
	case implementsCodable(rt):
		return c.leaf(rt, kindCodable, rt.String()), nil
	}

	switch rt.Kind() {
	case reflect.Uint8:
		return c.leaf(rt, kindUint8, "u8"), nil
	case reflect.Uint16:
		return c.leaf(rt, kindUint16, "u16"), nil
	case reflect.Uint32:
		return c.leaf(rt, kindUint32, "u32"), nil
	case reflect.Uint64:
		return c.leaf(rt, kindUint64, "u64"), nil
	case reflect.Uint:
		return c.leaf(rt, kindUint, "uint"), nil
	case reflect.String:
		return c.leaf(rt, kindString, "string"), nil
	case reflect.Slice:
		return c.seq(rt, field)
	case reflect.Struct:
		return c.record(rt, field)
	default:
		return nil, newTypeError(ErrUnsupportedType, rt.String(), field,
			fmt.Sprintf("%s has no wire encoding", rt.Kind()))
	}
}

func (c *compiler) leaf(rt reflect.Type, kind planKind, name string) *typePlan {
	p := &typePlan{kind: kind, typ: rt, name: name}
	c.building[rt] = p
	return p
}

func (c *compiler) enum(rt reflect.Type, field string) (*typePlan, error) {
	variants := reflect.Zero(rt).Interface().(Enum).Variants()
	if len(variants) == 0 {
		return nil, newTypeError(ErrUnsupportedType, rt.String(), field, "union declares no variants")
	}
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if seen[v] {
			return nil, newTypeError(ErrUnsupportedType, rt.String(), field,
				fmt.Sprintf("duplicate variant %q", v))
		}
		seen[v] = true
	}
	p := c.leaf(rt, kindEnum, rt.String())
	p.variants = slices.Clone(variants)
	return p, nil
}

func (c *compiler) seq(rt reflect.Type, field string) (*typePlan, error) {
	p := &typePlan{kind: kindSeq, typ: rt, name: "[]" + rt.Elem().String()}
	c.building[rt] = p

	elem, err := c.compile(rt.Elem(), field)
	if err != nil {
		delete(c.building, rt)
		return nil, err
	}
	p.elem = elem
	if elem.kind == kindUint8 && rt.Elem().Kind() == reflect.Uint8 {
		p.kind = kindBytes
	}
	return p, nil
}

func (c *compiler) record(rt reflect.Type, field string) (*typePlan, error) {
	var spec sentinel.Metadata
	if rt == c.rootType && c.root != nil {
		spec = *c.root
	} else {
		spec = scanStruct(rt)
	}
	name := spec.TypeName
	if name == "" {
		name = rt.String()
	}
	p := &typePlan{kind: kindRecord, typ: rt, name: name}
	c.building[rt] = p

	fields := slices.Clone(spec.Fields)
	slices.SortStableFunc(fields, func(a, b sentinel.FieldMetadata) int {
		return slices.Compare(a.Index, b.Index)
	})

	for _, fm := range fields {
		if !isExported(fm.Name) {
			continue
		}
		path := fm.Name
		if field != "" {
			path = field + "." + fm.Name
		}
		tag, tagged := fm.Tags["wire"]
		if tagged && tag == "-" {
			continue
		}
		if tagged && tag != "" {
			delete(c.building, rt)
			return nil, newTypeError(ErrInvalidTag, rt.String(), path,
				fmt.Sprintf("unknown wire tag %q", tag))
		}
		fp, err := c.compile(fm.ReflectType, path)
		if err != nil {
			delete(c.building, rt)
			return nil, err
		}
		p.fields = append(p.fields, fieldPlan{
			index: fm.Index,
			name:  fm.Name,
			plan:  fp,
		})
	}

	Logger().Debug("compiled record plan",
		zap.String("type", rt.String()),
		zap.Int("fields", len(p.fields)))
	return p, nil
}

// scanStruct returns field metadata for a struct type, preferring sentinel's
// cache and falling back to direct reflection for types it has not scanned.
// Sentinel keys its cache by bare type name, so a hit is only used when it
// describes rt itself.
func scanStruct(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.Name()); ok && describes(spec, rt) {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        make(map[string]string),
		}
		if val, ok := sf.Tag.Lookup("wire"); ok {
			fm.Tags["wire"] = val
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// describes reports whether spec was extracted from rt rather than from
// another type with the same name.
func describes(spec sentinel.Metadata, rt reflect.Type) bool {
	if rt.Kind() != reflect.Struct || spec.TypeName != rt.Name() || spec.PackageName != rt.PkgPath() {
		return false
	}
	exported := 0
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).IsExported() {
			exported++
		}
	}
	if len(spec.Fields) != exported {
		return false
	}
	for _, fm := range spec.Fields {
		if len(fm.Index) != 1 || fm.Index[0] >= rt.NumField() {
			return false
		}
		sf := rt.Field(fm.Index[0])
		if sf.Name != fm.Name || sf.Type != fm.ReflectType || sf.Tag.Get("wire") != fm.Tags["wire"] {
			return false
		}
	}
	return true
}

func implementsCodable(rt reflect.Type) bool {
	ptr := reflect.PointerTo(rt)
	return (rt.Implements(encodableType) || ptr.Implements(encodableType)) &&
		ptr.Implements(decodableType)
}

func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// encode writes v, which must have the plan's type.
func (p *typePlan) encode(w io.Writer, v reflect.Value) (int, error) {
	switch p.kind {
	case kindUint8:
		return WriteUint8(w, uint8(v.Uint()))
	case kindUint16:
		return WriteUint16(w, uint16(v.Uint()))
	case kindUint32:
		return WriteUint32(w, uint32(v.Uint()))
	case kindUint64:
		return WriteUint64(w, v.Uint())
	case kindUint:
		return WriteUint(w, uint(v.Uint()))
	case kindUint128:
		return WriteUint128(w, v.Interface().(Uint128))
	case kindString:
		return WriteString(w, v.String())
	case kindBytes:
		return WriteBytes(w, v.Bytes())
	case kindEnum:
		n, err := WriteVariant(w, uint32(v.Uint()), p.variants)
		return n, retype(err, p.name)
	case kindCodable:
		return encodeCodable(w, v)
	case kindSeq:
		total, err := WriteLen(w, v.Len())
		if err != nil {
			return total, err
		}
		for i := 0; i < v.Len(); i++ {
			n, err := p.elem.encode(w, v.Index(i))
			total += n
			if err != nil {
				return total, withIndex(i, err)
			}
		}
		return total, nil
	case kindRecord:
		var total int
		for _, f := range p.fields {
			n, err := f.plan.encode(w, v.FieldByIndex(f.index))
			total += n
			if err != nil {
				return total, WithField(f.name, err)
			}
		}
		return total, nil
	}
	return 0, newTypeError(ErrUnsupportedType, p.typ.String(), "", "no encoder")
}

func encodeCodable(w io.Writer, v reflect.Value) (int, error) {
	if enc, ok := v.Interface().(Encodable); ok {
		return enc.EncodeTo(w)
	}
	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)
	return ptr.Interface().(Encodable).EncodeTo(w)
}

// decode reads into v, which must be settable and have the plan's type.
// Callers decode into a fresh value so a failure never exposes partial state.
func (p *typePlan) decode(r io.Reader, v reflect.Value) error {
	switch p.kind {
	case kindUint8:
		x, err := ReadUint8(r)
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case kindUint16:
		x, err := ReadUint16(r)
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case kindUint32:
		x, err := ReadUint32(r)
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case kindUint64:
		x, err := ReadUint64(r)
		if err != nil {
			return err
		}
		v.SetUint(x)
	case kindUint:
		x, err := ReadUint(r)
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case kindUint128:
		x, err := ReadUint128(r)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(x))
	case kindString:
		x, err := ReadString(r)
		if err != nil {
			return err
		}
		v.SetString(x)
	case kindBytes:
		x, err := ReadBytes(r)
		if err != nil {
			return err
		}
		v.SetBytes(x)
	case kindEnum:
		tag, err := ReadVariant(r, p.variants)
		if err != nil {
			return retype(err, p.name)
		}
		v.SetUint(uint64(tag))
	case kindCodable:
		return v.Addr().Interface().(Decodable).DecodeFrom(r)
	case kindSeq:
		n, err := ReadLen(r)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(p.typ, 0, min(n, maxPreallocElems))
		elem := reflect.New(p.typ.Elem()).Elem()
		zero := reflect.Zero(p.typ.Elem())
		for i := 0; i < n; i++ {
			elem.Set(zero)
			if err := p.elem.decode(r, elem); err != nil {
				return withIndex(i, err)
			}
			out = reflect.Append(out, elem)
		}
		v.Set(out)
	case kindRecord:
		for _, f := range p.fields {
			if err := f.plan.decode(r, v.FieldByIndex(f.index)); err != nil {
				return WithField(f.name, err)
			}
		}
	default:
		return newTypeError(ErrUnsupportedType, p.typ.String(), "", "no decoder")
	}
	return nil
}
