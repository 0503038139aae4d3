// Package murmur implements the 32-bit MurmurHash2 variant used by the
// Shenmue HD engine to name entries inside its TAD/TAC archives.
package murmur

import "encoding/binary"

const (
	initSeed   = 0x066EE5D0
	multiplier = 0x5BD1E995
	rotation   = 0x18
)

// Hash computes the archive hash over the first length bytes of data.
// All arithmetic is unsigned 32-bit and wraps; the seed and tail terms
// are written exactly as the game computes them and must not be folded.
// Passing a length greater than len(data) is a caller error.
func Hash(data []byte, length uint32) uint32 {
	hash := ((length / 0xFFFFFFFF) + length) ^ initSeed

	// Full little-endian words
	var offset uint32
	for offset/4 < length/4 {
		t := binary.LittleEndian.Uint32(data[offset:offset+4]) * multiplier
		hash = (hash * multiplier) ^ (((t >> rotation) ^ t) * multiplier)
		offset += 4
	}

	// Tail bytes are taken relative to length, not to the last full word.
	remaining := length + (length/4)*0xFFFFFFFC
	if remaining > 0 {
		var tail [4]byte
		copy(tail[:], data[length-remaining:length])
		hash = (hash ^ binary.LittleEndian.Uint32(tail[:])) * multiplier
	}

	// Final avalanche
	e := ((hash >> 0x0D) ^ hash) * multiplier
	hash = (e >> 0x0F) ^ e

	return hash
}

// Sum hashes the whole of data.
func Sum(data []byte) uint32 {
	return Hash(data, uint32(len(data)))
}

// SumString hashes the bytes of s.
func SumString(s string) uint32 {
	return Sum([]byte(s))
}
