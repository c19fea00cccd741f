// Package json renders decoded wire values as JSON and reads JSON input for
// schema encoding.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zoobzio/wire"
)

// jsonCodec implements wire.Codec for JSON.
type jsonCodec struct {
	indent string
}

// New returns a compact JSON codec.
func New() wire.Codec {
	return &jsonCodec{}
}

// NewIndent returns a JSON codec that indents output with indent.
func NewIndent(indent string) wire.Codec {
	return &jsonCodec{indent: indent}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON. Records keep their field order and u128 values
// are written as decimal strings.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	if c.indent != "" {
		return json.MarshalIndent(v, "", c.indent)
	}
	return json.Marshal(v)
}

// Unmarshal decodes a single JSON document into v.
// Numbers decode as json.Number so integers wider than 53 bits survive.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("json: unexpected data after top-level value")
	}
	return nil
}
