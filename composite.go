package wire

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("body is not valid UTF-8")

// Bodies and sequences are read incrementally past these sizes, so a corrupt
// length header cannot force a large allocation before the stream runs dry.
const (
	maxPreallocBytes = 64 << 10
	maxPreallocElems = 1024
)

// WriteString writes a length header holding the UTF-8 byte count of s,
// followed by those bytes.
func WriteString(w io.Writer, s string) (int, error) {
	n, err := WriteLen(w, len(s))
	if err != nil {
		return n, err
	}
	if len(s) == 0 {
		return n, nil
	}
	m, err := io.WriteString(w, s)
	if err == nil && m < len(s) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n + m, newEncodeError(ErrWrite, "string", err)
	}
	return n + m, nil
}

// ReadString reads text written by WriteString.
// A body that is not valid UTF-8 fails with ErrInvalidEncoding.
func ReadString(r io.Reader) (string, error) {
	body, err := readBody(r, "string")
	if err != nil {
		return "", err
	}
	if !utf8.Valid(body) {
		return "", newDecodeError(ErrInvalidEncoding, "string", errInvalidUTF8)
	}
	return string(body), nil
}

// WriteBytes writes b with the same encoding as a sequence of u8.
func WriteBytes(w io.Writer, b []byte) (int, error) {
	n, err := WriteLen(w, len(b))
	if err != nil {
		return n, err
	}
	if len(b) == 0 {
		return n, nil
	}
	m, err := writeFull(w, b, "bytes")
	return n + m, err
}

// ReadBytes reads bytes written by WriteBytes.
func ReadBytes(r io.Reader) ([]byte, error) {
	return readBody(r, "bytes")
}

func readBody(r io.Reader, typ string) ([]byte, error) {
	n, err := ReadLen(r)
	if err != nil {
		return nil, err
	}
	if n <= maxPreallocBytes {
		body := make([]byte, n)
		if err := readFull(r, body, typ); err != nil {
			return nil, err
		}
		return body, nil
	}
	var buf bytes.Buffer
	buf.Grow(maxPreallocBytes)
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return nil, readError(typ, err)
	}
	return buf.Bytes(), nil
}

// WriteSeq writes a length header holding len(items), then each element
// in order using enc.
func WriteSeq[T any](w io.Writer, items []T, enc func(io.Writer, T) (int, error)) (int, error) {
	total, err := WriteLen(w, len(items))
	if err != nil {
		return total, err
	}
	for i, item := range items {
		n, err := enc(w, item)
		total += n
		if err != nil {
			return total, withIndex(i, err)
		}
	}
	return total, nil
}

// ReadSeq reads a sequence written by WriteSeq, decoding each element with dec.
// The first element failure aborts the read.
func ReadSeq[T any](r io.Reader, dec func(io.Reader) (T, error)) ([]T, error) {
	n, err := ReadLen(r)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, min(n, maxPreallocElems))
	for i := 0; i < n; i++ {
		item, err := dec(r)
		if err != nil {
			return nil, withIndex(i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// WriteCodable adapts an Encodable type to the element signature WriteSeq expects.
func WriteCodable[T Encodable](w io.Writer, v T) (int, error) {
	return v.EncodeTo(w)
}

// ReadCodable adapts a Decodable type to the element signature ReadSeq expects.
func ReadCodable[T any, PT interface {
	*T
	Decodable
}](r io.Reader) (T, error) {
	var v T
	if err := PT(&v).DecodeFrom(r); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
