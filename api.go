// Package wire provides a compact, non-self-describing binary encoding with
// codecs derived from a type's declared shape.
//
// The package pairs every encodable type with two operations: encode a value
// to an io.Writer and decode one back from an io.Reader. Composite types get
// their codec by composition, so once the primitives are defined any record,
// union or sequence built from them encodes without hand-written code.
//
// # Wire Format
//
// All multi-byte integers are big-endian:
//
//	u8 u16 u32 u64 u128   1, 2, 4, 8, 16 raw bytes, most significant first
//	uint                  8 bytes (platform words are always 64-bit on the wire)
//	length header         u64 byte or element count
//	string                length header + UTF-8 bytes
//	[]T                   length header + each element's encoding, in order
//	record                each field's encoding in declared order, no header
//	union                 u32 discriminant = variant's declared index
//
// Nothing else is written: no magic number, no type tags, no field names.
// Decoding requires knowing the exact type up front.
//
// # Deriving Codecs
//
// Structs are derived by reflection from their exported fields in declaration
// order. Fields tagged `wire:"-"` are skipped:
//
//	type Person struct {
//	    ID      wire.Uint128
//	    Name    string
//	    Age     uint16
//	    Tags    []string
//	    Scratch string `wire:"-"`
//	}
//
//	data, _ := wire.Marshal(person)
//	var p Person
//	_ = wire.Unmarshal(data, &p)
//
// Tagged unions with nullary variants are named uint32 types implementing Enum:
//
//	type Color uint32
//
//	const (
//	    Red Color = iota
//	    Green
//	)
//
//	func (Color) Variants() []string { return []string{"Red", "Green"} }
//
// Types known only at run time are declared through the schema package, and
// cmd/wiregen generates reflection-free EncodeTo/DecodeFrom methods from the
// same schema files.
//
// # Typed Processors
//
// Processor[T] caches the plan for T and emits capitan signals around every
// operation:
//
//	proc, _ := wire.Use[Person]()
//	n, err := proc.Encode(ctx, w, person)
//	p, err := proc.Decode(ctx, r)
//
// # Errors
//
// Every failure is a *DecodeError, *EncodeError or *TypeError wrapping one of
// the sentinel errors (ErrShortRead, ErrInvalidDiscriminant, ErrInvalidEncoding,
// ...). A nested failure aborts the enclosing operation immediately and names
// the field path that failed. Nothing is retried and no partial value is returned.
package wire

import "io"

// Encodable types write their own wire encoding.
// EncodeTo returns the number of bytes written.
type Encodable interface {
	EncodeTo(w io.Writer) (int, error)
}

// Decodable types read their own wire encoding.
// DecodeFrom must leave the receiver unchanged when it fails.
type Decodable interface {
	DecodeFrom(r io.Reader) error
}

// Codable types implement both directions. Generated types satisfy Codable
// through a value-receiver EncodeTo and a pointer-receiver DecodeFrom, so it is
// *T that implements Codable.
//
// Reflection-derived plans call these methods instead of walking the type.
type Codable interface {
	Encodable
	Decodable
}

// Enum is implemented by tagged unions with nullary variants.
// Variants lists variant names in declared order; a value's discriminant is
// its index in that list. Implementations must have underlying type uint32.
type Enum interface {
	Variants() []string
}
