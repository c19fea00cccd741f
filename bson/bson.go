// Package bson renders decoded wire values as BSON documents and reads BSON
// input for schema encoding.
package bson

import (
	"github.com/zoobzio/wire"
	"github.com/zoobzio/wire/schema"
	"go.mongodb.org/mongo-driver/bson"
)

// ValueKey holds a value that is not itself a document.
const ValueKey = "value"

// bsonCodec implements wire.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() wire.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document.
// Records become documents in field order; any other value is stored under
// ValueKey. Unsigned integers are mapped as described by schema.ToBSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	converted := schema.ToBSON(v)
	if doc, ok := converted.(bson.D); ok {
		return bson.Marshal(doc)
	}
	return bson.Marshal(bson.D{{Key: ValueKey, Value: converted}})
}

// Unmarshal decodes a BSON document into v.
// A *any target receives map[string]any with nested arrays as []any.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	target, ok := v.(*any)
	if !ok {
		return bson.Unmarshal(data, v)
	}
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	*target = plain(doc)
	return nil
}

func plain(v any) any {
	switch x := v.(type) {
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[k] = plain(val)
		}
		return m
	case bson.A:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = plain(elem)
		}
		return out
	default:
		return v
	}
}
