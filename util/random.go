package util

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
)

// NewSeed returns a cryptographically random seed for math/rand generators.
func NewSeed() int64 {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
