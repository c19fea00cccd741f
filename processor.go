package wire

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"time"

	"github.com/zoobzio/sentinel"
)

// Processor encodes and decodes values of one type through a cached plan.
//
// Processors hold no mutable state and are safe for concurrent use. The
// context passed to Encode and Decode only carries signal delivery; the codec
// itself never blocks on it.
type Processor[T any] struct {
	plan *typePlan

	// Type metadata
	typeName string
}

// NewProcessor creates a new Processor for type T.
// It fails with a *TypeError if T or any type it contains has no wire encoding.
func NewProcessor[T any]() (*Processor[T], error) {
	rt := reflect.TypeFor[T]()
	var root *sentinel.Metadata
	if rt.Kind() == reflect.Struct {
		// Scanning also caches nested types so their plans reuse the metadata.
		if spec, err := sentinel.TryScan[T](); err == nil && describes(spec, rt) {
			root = &spec
		}
	}

	plan, err := planWith(rt, root)
	if err != nil {
		return nil, err
	}

	return &Processor[T]{
		plan:     plan,
		typeName: plan.name,
	}, nil
}

// TypeName returns the wire type name used in errors and signals.
func (p *Processor[T]) TypeName() string {
	return p.typeName
}

// Encode writes v to w and returns the number of bytes written.
func (p *Processor[T]) Encode(ctx context.Context, w io.Writer, v T) (int, error) {
	start := time.Now()
	emitEncodeStart(ctx, p.typeName)

	n, err := p.plan.encode(w, reflect.ValueOf(&v).Elem())
	emitEncodeComplete(ctx, p.typeName, n, time.Since(start), err)
	return n, err
}

// Decode reads one value from r.
// On failure the zero value is returned along with the first error hit.
func (p *Processor[T]) Decode(ctx context.Context, r io.Reader) (T, error) {
	start := time.Now()
	emitDecodeStart(ctx, p.typeName)

	cr := &countingReader{r: r}
	var v T
	err := p.plan.decode(cr, reflect.ValueOf(&v).Elem())
	emitDecodeComplete(ctx, p.typeName, cr.n, time.Since(start), err)
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Marshal encodes v into a new byte slice.
func (p *Processor[T]) Marshal(ctx context.Context, v T) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.Encode(ctx, &buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes exactly one value from data.
// Bytes left over after the value fail with ErrTrailingData.
func (p *Processor[T]) Unmarshal(ctx context.Context, data []byte) (T, error) {
	r := bytes.NewReader(data)
	v, err := p.Decode(ctx, r)
	if err != nil {
		return v, err
	}
	if r.Len() > 0 {
		var zero T
		return zero, trailingError(p.typeName, r.Len())
	}
	return v, nil
}

// Size returns the number of bytes Encode would write for v.
func (p *Processor[T]) Size(v T) (int, error) {
	return p.plan.encode(io.Discard, reflect.ValueOf(&v).Elem())
}

// countingReader tracks bytes consumed for decode signals.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += n
	return n, err
}
