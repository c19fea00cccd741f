package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"
)

// LenSize is the width in bytes of a length header.
// Headers are 64-bit on every platform so encodings are portable.
const LenSize = 8

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Uint128From64 widens v to 128 bits.
func Uint128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Uint128FromBig converts b, which must fit in 128 unsigned bits.
func Uint128FromBig(b *big.Int) (Uint128, error) {
	if b == nil {
		return Uint128{}, fmt.Errorf("wire: nil big.Int for u128")
	}
	if b.Sign() < 0 || b.BitLen() > 128 {
		return Uint128{}, fmt.Errorf("wire: %s out of range for u128", b)
	}
	var buf [16]byte
	b.FillBytes(buf[:])
	return Uint128{
		Hi: binary.BigEndian.Uint64(buf[0:8]),
		Lo: binary.BigEndian.Uint64(buf[8:16]),
	}, nil
}

// ParseUint128 parses a decimal or 0x-prefixed hexadecimal string.
func ParseUint128(s string) (Uint128, error) {
	b, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return Uint128{}, fmt.Errorf("wire: invalid u128 %q", s)
	}
	return Uint128FromBig(b)
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], u.Hi)
	binary.BigEndian.PutUint64(buf[8:16], u.Lo)
	return new(big.Int).SetBytes(buf[:])
}

// IsZero reports whether u is zero.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// Cmp compares u and v and returns -1, 0 or +1.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// String returns the decimal form of u.
func (u Uint128) String() string {
	if u.Hi == 0 {
		return fmt.Sprint(u.Lo)
	}
	return u.Big().String()
}

// MarshalText implements encoding.TextMarshaler.
func (u Uint128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Uint128) UnmarshalText(text []byte) error {
	v, err := ParseUint128(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// WriteUint8 writes v as one byte.
func WriteUint8(w io.Writer, v uint8) (int, error) {
	return writeFull(w, []byte{v}, "u8")
}

// WriteUint16 writes v as 2 big-endian bytes.
func WriteUint16(w io.Writer, v uint16) (int, error) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return writeFull(w, buf[:], "u16")
}

// WriteUint32 writes v as 4 big-endian bytes.
func WriteUint32(w io.Writer, v uint32) (int, error) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return writeFull(w, buf[:], "u32")
}

// WriteUint64 writes v as 8 big-endian bytes.
func WriteUint64(w io.Writer, v uint64) (int, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return writeFull(w, buf[:], "u64")
}

// WriteUint128 writes v as 16 big-endian bytes.
func WriteUint128(w io.Writer, v Uint128) (int, error) {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], v.Hi)
	binary.BigEndian.PutUint64(buf[8:16], v.Lo)
	return writeFull(w, buf[:], "u128")
}

// WriteUint writes a platform word as 8 big-endian bytes.
func WriteUint(w io.Writer, v uint) (int, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return writeFull(w, buf[:], "uint")
}

// WriteLen writes a length header for n bytes or elements.
func WriteLen(w io.Writer, n int) (int, error) {
	if n < 0 {
		return 0, newEncodeError(ErrInvalidEncoding, "len", fmt.Errorf("negative length %d", n))
	}
	var buf [LenSize]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	return writeFull(w, buf[:], "len")
}

// ReadUint8 reads one byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if err := readFull(r, buf[:], "u8"); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads 2 big-endian bytes.
func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if err := readFull(r, buf[:], "u16"); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadUint32 reads 4 big-endian bytes.
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:], "u32"); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadUint64 reads 8 big-endian bytes.
func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:], "u64"); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// ReadUint128 reads 16 big-endian bytes.
func ReadUint128(r io.Reader) (Uint128, error) {
	var buf [16]byte
	if err := readFull(r, buf[:], "u128"); err != nil {
		return Uint128{}, err
	}
	return Uint128{
		Hi: binary.BigEndian.Uint64(buf[0:8]),
		Lo: binary.BigEndian.Uint64(buf[8:16]),
	}, nil
}

// ReadUint reads a platform word written by WriteUint.
func ReadUint(r io.Reader) (uint, error) {
	var buf [8]byte
	if err := readFull(r, buf[:], "uint"); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(buf[:])
	if v > uint64(^uint(0)) {
		return 0, newDecodeError(ErrInvalidEncoding, "uint", fmt.Errorf("%d overflows uint", v))
	}
	return uint(v), nil
}

// ReadLen reads a length header.
func ReadLen(r io.Reader) (int, error) {
	var buf [LenSize]byte
	if err := readFull(r, buf[:], "len"); err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint64(buf[:])
	if n > math.MaxInt {
		return 0, newDecodeError(ErrInvalidEncoding, "len", fmt.Errorf("length %d overflows int", n))
	}
	return int(n), nil
}

func writeFull(w io.Writer, buf []byte, typ string) (int, error) {
	n, err := w.Write(buf)
	if err == nil && n < len(buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, newEncodeError(ErrWrite, typ, err)
	}
	return n, nil
}

func readFull(r io.Reader, buf []byte, typ string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return readError(typ, err)
	}
	return nil
}

func readError(typ string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return newDecodeError(ErrShortRead, typ, err)
	}
	return newDecodeError(ErrRead, typ, err)
}
