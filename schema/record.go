package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/wire"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

// Record is a decoded record value with fields in declaration order.
// It renders as an ordered mapping in JSON, YAML, MessagePack and BSON.
type Record struct {
	Type   string
	Fields []Field
}

// Field is one named record value.
type Field struct {
	Name  string
	Value any
}

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the named field, appending it if absent.
func (r *Record) Set(name string, v any) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = v
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: v})
}

func (r Record) asMap() map[string]any {
	m := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Name] = f.Value
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range r.Fields {
		var val yaml.Node
		if err := val.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			&val,
		)
	}
	return node, nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
// u128 values are written as decimal strings.
func (r Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(r.Fields)); err != nil {
		return err
	}
	for _, f := range r.Fields {
		if err := enc.EncodeString(f.Name); err != nil {
			return err
		}
		if err := EncodeMsgpackValue(enc, f.Value); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}

// EncodeMsgpackValue writes a decoded value, rendering u128 as a decimal string.
func EncodeMsgpackValue(enc *msgpack.Encoder, v any) error {
	switch x := v.(type) {
	case wire.Uint128:
		return enc.EncodeString(x.String())
	case []any:
		if err := enc.EncodeArrayLen(len(x)); err != nil {
			return err
		}
		for _, elem := range x {
			if err := EncodeMsgpackValue(enc, elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(v)
	}
}

// MarshalBSON implements bson.Marshaler.
func (r Record) MarshalBSON() ([]byte, error) {
	return bson.Marshal(r.D())
}

// D returns r as an ordered BSON document.
func (r Record) D() bson.D {
	doc := make(bson.D, 0, len(r.Fields))
	for _, f := range r.Fields {
		doc = append(doc, bson.E{Key: f.Name, Value: ToBSON(f.Value)})
	}
	return doc
}

// ToBSON maps a decoded value onto the types BSON can hold.
// BSON has no unsigned integers: u8 and u16 become int32, u32 becomes int64,
// u64 and uint become int64 when they fit and a decimal string otherwise,
// and u128 is always a decimal string.
func ToBSON(v any) any {
	switch x := v.(type) {
	case uint8:
		return int32(x)
	case uint16:
		return int32(x)
	case uint32:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return fmt.Sprint(x)
		}
		return int64(x)
	case uint:
		if uint64(x) > math.MaxInt64 {
			return fmt.Sprint(x)
		}
		return int64(x)
	case wire.Uint128:
		return x.String()
	case []any:
		arr := make(bson.A, len(x))
		for i, elem := range x {
			arr[i] = ToBSON(elem)
		}
		return arr
	case *Record:
		return x.D()
	case Record:
		return x.D()
	default:
		return v
	}
}
