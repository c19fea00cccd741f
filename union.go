package wire

import (
	"fmt"
	"io"
)

// WriteVariant writes tag as a u32 discriminant.
// A tag outside variants fails with ErrInvalidDiscriminant and writes nothing.
func WriteVariant(w io.Writer, tag uint32, variants []string) (int, error) {
	if uint64(tag) >= uint64(len(variants)) {
		return 0, &EncodeError{
			Err:          ErrInvalidDiscriminant,
			Type:         "u32",
			Discriminant: tag,
		}
	}
	return WriteUint32(w, tag)
}

// ReadVariant reads a u32 discriminant and checks it against variants.
func ReadVariant(r io.Reader, variants []string) (uint32, error) {
	tag, err := ReadUint32(r)
	if err != nil {
		return 0, err
	}
	if uint64(tag) >= uint64(len(variants)) {
		return 0, &DecodeError{
			Err:          ErrInvalidDiscriminant,
			Type:         "u32",
			Discriminant: tag,
		}
	}
	return tag, nil
}

// EncodeEnum writes the discriminant of v.
func EncodeEnum[E interface {
	~uint32
	Enum
}](w io.Writer, v E) (int, error) {
	n, err := WriteVariant(w, uint32(v), v.Variants())
	if err != nil {
		return n, retype(err, fmt.Sprintf("%T", v))
	}
	return n, nil
}

// DecodeEnum reads a discriminant of E.
func DecodeEnum[E interface {
	~uint32
	Enum
}](r io.Reader) (E, error) {
	var zero E
	tag, err := ReadVariant(r, zero.Variants())
	if err != nil {
		return zero, retype(err, fmt.Sprintf("%T", zero))
	}
	return E(tag), nil
}

// VariantName returns the declared name of v, or a placeholder naming the
// raw discriminant when v is out of range.
func VariantName[E interface {
	~uint32
	Enum
}](v E) string {
	variants := v.Variants()
	if uint64(v) < uint64(len(variants)) {
		return variants[v]
	}
	return fmt.Sprintf("%T(%d)", v, uint32(v))
}

// retype names the union type on a discriminant error raised by the u32 codec.
func retype(err error, typ string) error {
	switch e := err.(type) {
	case *DecodeError:
		if e.Type == "u32" {
			cp := *e
			cp.Type = typ
			return &cp
		}
	case *EncodeError:
		if e.Type == "u32" {
			cp := *e
			cp.Type = typ
			return &cp
		}
	}
	return err
}
