package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given stream name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// NewDigest returns a streaming xxHash64 digest, used to fingerprint container bytes.
func NewDigest() *xxhash.Digest {
	return xxhash.New()
}
