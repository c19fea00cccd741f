package wire

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
)

// ContentType is the MIME type of the wire encoding.
const ContentType = "application/vnd.zoobzio.wire"

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// binaryCodec implements Codec for the wire encoding.
type binaryCodec struct{}

// Binary returns the wire encoding as a Codec.
func Binary() Codec {
	return &binaryCodec{}
}

// ContentType returns the MIME type for the wire encoding.
func (c *binaryCodec) ContentType() string {
	return ContentType
}

// Marshal encodes v in the wire format.
func (c *binaryCodec) Marshal(v any) ([]byte, error) {
	return Marshal(v)
}

// Unmarshal decodes wire data into v.
func (c *binaryCodec) Unmarshal(data []byte, v any) error {
	return Unmarshal(data, v)
}

// Encode writes v to w and returns the number of bytes written.
// Encodable values write themselves; anything else goes through a cached plan.
// A pointer is encoded as the value it points to.
func Encode(w io.Writer, v any) (int, error) {
	if enc, ok := v.(Encodable); ok {
		return enc.EncodeTo(w)
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, newTypeError(ErrUnsupportedType, "nil", "", "cannot encode nil")
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, newTypeError(ErrUnsupportedType, rv.Type().String(), "", "cannot encode nil pointer")
		}
		rv = rv.Elem()
	}
	plan, err := planFor(rv.Type())
	if err != nil {
		return 0, err
	}
	return plan.encode(w, rv)
}

// Decode reads one value from r into the value v points to.
// On failure *v is left unchanged.
func Decode(r io.Reader, v any) error {
	if dec, ok := v.(Decodable); ok {
		return dec.DecodeFrom(r)
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newTypeError(ErrUnsupportedType, fmt.Sprintf("%T", v), "", "decode target must be a non-nil pointer")
	}
	target := rv.Elem()
	plan, err := planFor(target.Type())
	if err != nil {
		return err
	}
	fresh := reflect.New(target.Type()).Elem()
	if err := plan.decode(r, fresh); err != nil {
		return err
	}
	target.Set(fresh)
	return nil
}

// Marshal encodes v into a new byte slice.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes exactly one value from data into v.
// Bytes left over after the value fail with ErrTrailingData.
func Unmarshal(data []byte, v any) error {
	r := bytes.NewReader(data)
	if err := Decode(r, v); err != nil {
		return err
	}
	if r.Len() > 0 {
		return trailingError(fmt.Sprintf("%T", v), r.Len())
	}
	return nil
}

// Size returns the number of bytes Encode would write for v.
func Size(v any) (int, error) {
	return Encode(io.Discard, v)
}

func trailingError(typ string, n int) error {
	return newDecodeError(ErrTrailingData, typ, fmt.Errorf("%d unread bytes", n))
}
