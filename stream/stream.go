// Package stream provides the byte stream used by kernel save state
// serialisation. Scalars are little-endian; strings are length-prefixed.
package stream

import (
	"encoding/binary"
	"errors"
)

// ErrShortRead is returned when the stream runs out of bytes.
var ErrShortRead = errors.New("stream: short read")

// ByteStream is an in-memory growable read/write cursor.
type ByteStream struct {
	buf []byte
	off int
}

// New returns a stream reading from (and appending to) data.
func New(data []byte) *ByteStream {
	return &ByteStream{buf: data}
}

// Bytes returns the full underlying buffer.
func (s *ByteStream) Bytes() []byte { return s.buf }

// Offset returns the current read offset.
func (s *ByteStream) Offset() int { return s.off }

// WriteU8 appends one byte.
func (s *ByteStream) WriteU8(v uint8) {
	s.buf = append(s.buf, v)
}

// WriteU32 appends a 32-bit scalar.
func (s *ByteStream) WriteU32(v uint32) {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, v)
}

// WriteU64 appends a 64-bit scalar.
func (s *ByteStream) WriteU64(v uint64) {
	s.buf = binary.LittleEndian.AppendUint64(s.buf, v)
}

// WriteBool appends a bool as one byte.
func (s *ByteStream) WriteBool(v bool) {
	if v {
		s.WriteU8(1)
	} else {
		s.WriteU8(0)
	}
}

// WriteBytes appends raw bytes with no length prefix.
func (s *ByteStream) WriteBytes(b []byte) {
	s.buf = append(s.buf, b...)
}

// WriteString appends a length-prefixed string.
func (s *ByteStream) WriteString(v string) {
	s.WriteU32(uint32(len(v)))
	s.buf = append(s.buf, v...)
}

// ReadU8 reads one byte.
func (s *ByteStream) ReadU8() (uint8, error) {
	if s.off+1 > len(s.buf) {
		return 0, ErrShortRead
	}
	v := s.buf[s.off]
	s.off++
	return v, nil
}

// ReadU32 reads a 32-bit scalar.
func (s *ByteStream) ReadU32() (uint32, error) {
	if s.off+4 > len(s.buf) {
		return 0, ErrShortRead
	}
	v := binary.LittleEndian.Uint32(s.buf[s.off:])
	s.off += 4
	return v, nil
}

// ReadU64 reads a 64-bit scalar.
func (s *ByteStream) ReadU64() (uint64, error) {
	if s.off+8 > len(s.buf) {
		return 0, ErrShortRead
	}
	v := binary.LittleEndian.Uint64(s.buf[s.off:])
	s.off += 8
	return v, nil
}

// ReadBool reads a bool byte.
func (s *ByteStream) ReadBool() (bool, error) {
	v, err := s.ReadU8()
	return v != 0, err
}

// ReadBytes reads exactly n raw bytes.
func (s *ByteStream) ReadBytes(n int) ([]byte, error) {
	if s.off+n > len(s.buf) {
		return nil, ErrShortRead
	}
	v := s.buf[s.off : s.off+n]
	s.off += n
	return v, nil
}

// ReadString reads a length-prefixed string.
func (s *ByteStream) ReadString() (string, error) {
	n, err := s.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := s.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MakeFourCC packs four characters into a 32-bit tag.
func MakeFourCC(a, b, c, d byte) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d)
}
