package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexlab/rexglue/stream"
)

func TestScalarAndStringRoundTrip(t *testing.T) {
	s := stream.New(nil)
	s.WriteU32(0xDEADBEEF)
	s.WriteU64(0x0102030405060708)
	s.WriteBool(true)
	s.WriteString("main thread")
	s.WriteU8(7)

	v32, err := s.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), v32)

	v64, err := s.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), v64)

	b, err := s.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	str, err := s.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "main thread", str)

	v8, err := s.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), v8)
}

func TestShortReadErrors(t *testing.T) {
	s := stream.New([]byte{1, 2})
	_, err := s.ReadU32()
	assert.ErrorIs(t, err, stream.ErrShortRead)
}

func TestMakeFourCC(t *testing.T) {
	assert.Equal(t, uint32(0x4B524E4C), stream.MakeFourCC('K', 'R', 'N', 'L'))
}
