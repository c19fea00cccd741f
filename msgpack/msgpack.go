// Package msgpack renders decoded wire values as MessagePack and reads
// MessagePack input for schema encoding.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/wire"
	"github.com/zoobzio/wire/schema"
)

// msgpackCodec implements wire.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() wire.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack. Integers use the smallest encoding that
// holds them and u128 values are written as decimal strings.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := schema.EncodeMsgpackValue(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v. Maps decode as map[string]any.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
