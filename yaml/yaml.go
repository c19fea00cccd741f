// Package yaml renders decoded wire values as YAML and reads YAML input for
// schema encoding.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/zoobzio/wire"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements wire.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() wire.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML with two-space indentation.
// Records keep their field order.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a single YAML document into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("yaml: expected a single document")
	}
	return nil
}
