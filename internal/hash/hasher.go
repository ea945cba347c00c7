package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// XXHashFunc is a hash function adapter for go-merkletree.
// It returns the 64-bit xxHash of data in big-endian byte order.
func XXHashFunc(data []byte) ([]byte, error) {
	h := xxhash.New()
	h.Write(data)

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, h.Sum64())
	return buf, nil
}

// Leaf encodes a tracked file as the bytes hashed into a snapshot digest:
// the path, a NUL separator, then the modification time in nanoseconds.
func Leaf(path string, modTimeNanos int64) []byte {
	buf := make([]byte, 0, len(path)+1+8)
	buf = append(buf, path...)
	buf = append(buf, 0)
	buf = binary.BigEndian.AppendUint64(buf, uint64(modTimeNanos))
	return buf
}
