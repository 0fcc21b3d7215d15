// Package ioutils provides compressed integer stream helpers for the
// encoding package.
package ioutils

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ronanh/intcomp"
)

// CompressAndWriteUints32 compresses a slice of uint32 and writes it to w,
// prefixed by the compressed word count.
func CompressAndWriteUints32(w io.Writer, input []uint32) error {
	buffer := intcomp.CompressUint32(input, nil)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, buffer)
}

// ReadAndDecompressUints32 reads a compressed slice of uint32 from r and
// decompresses it. The word count prefix is untrusted; when the reader knows
// how many bytes are left (bytes.Reader does), a count that cannot fit in the
// remaining input is rejected before any allocation.
func ReadAndDecompressUints32(r io.Reader) ([]uint32, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if lr, ok := r.(interface{ Len() int }); ok && length > uint64(lr.Len())/4 {
		return nil, fmt.Errorf("compressed stream claims %d words but only %d bytes remain", length, lr.Len())
	}
	buffer := make([]uint32, length)
	if err := binary.Read(r, binary.LittleEndian, buffer); err != nil {
		return nil, err
	}
	return intcomp.UncompressUint32(buffer, nil), nil
}
