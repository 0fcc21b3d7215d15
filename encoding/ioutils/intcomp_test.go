package ioutils

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUints32RoundTrip(t *testing.T) {
	assert := require.New(t)

	cases := [][]uint32{
		{},
		{42},
		{1, 2, 3, 4, 5},
		{7, 3, 3, 900000, 0, 1 << 30},
	}
	for _, in := range cases {
		var buf bytes.Buffer
		assert.NoError(CompressAndWriteUints32(&buf, in))

		out, err := ReadAndDecompressUints32(&buf)
		assert.NoError(err)
		assert.Equal(len(in), len(out))
		for i := range in {
			assert.Equal(in[i], out[i])
		}
	}
}

func TestUints32Truncated(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer
	assert.NoError(CompressAndWriteUints32(&buf, []uint32{1, 2, 3}))

	data := buf.Bytes()
	_, err := ReadAndDecompressUints32(bytes.NewReader(data[:len(data)-2]))
	assert.Error(err)
}

func TestUints32OversizedLengthPrefix(t *testing.T) {
	assert := require.New(t)

	// a word count far beyond the remaining bytes must error, not allocate
	var buf bytes.Buffer
	assert.NoError(binary.Write(&buf, binary.LittleEndian, uint64(1)<<61))
	buf.Write([]byte{1, 2, 3, 4})

	_, err := ReadAndDecompressUints32(bytes.NewReader(buf.Bytes()))
	assert.Error(err)
	assert.Contains(err.Error(), "claims")
}
