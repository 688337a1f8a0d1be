package lphash

import (
	"unicode/utf16"

	"github.com/cespare/xxhash/v2"
)

// Hasher maps a key to the 32-bit value used to pick its home slot.
type Hasher func(key string) uint32

const djb2Seed uint32 = 5381

// HashString computes the DJB2 hash of key over its UTF-16 code units.
//
// The accumulator starts at 5381 and is updated as acc*33 + unit, wrapping
// at 32 bits. It is not a cryptographic hash: keys chosen by an adversary can
// collide at will, so use XXHash32 for untrusted input.
func HashString(key string) uint32 {
	hash := djb2Seed
	for _, r := range key {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			hash = (hash << 5) + hash + uint32(hi)
			hash = (hash << 5) + hash + uint32(lo)
			continue
		}
		hash = (hash << 5) + hash + uint32(r)
	}
	return hash
}

// XXHash32 folds the 64-bit xxHash of key into 32 bits.
func XXHash32(key string) uint32 {
	h := xxhash.Sum64String(key)
	return uint32(h>>32) ^ uint32(h)
}
