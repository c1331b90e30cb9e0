// hash.go - pluggable 64-bit hashing for keys and archive checksums
//
// The MPHF core (mphf.go) works purely on uint64 fingerprints. The
// container layer (set.go, map.go, bitpackedmap.go) is the piece that
// turns an arbitrary key into one of those fingerprints, via a Hasher
// plus a byte-encoding of the key.

package entropymap

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"github.com/zeebo/xxh3"
)

// Hasher produces a 64-bit digest of a byte slice. Implementations need not
// be cryptographically strong; they must mix their input well enough that
// fastmod32 and bitIndex (mphf.go) see a near-uniform distribution.
type Hasher interface {
	Sum64(data []byte) uint64
}

// XXH3Hasher is the default Hasher: a fast, well-mixing, non-cryptographic
// hash, recommended for ordinary keys where hostile input is not a concern.
type XXH3Hasher struct{}

// Sum64 implements Hasher.
func (XXH3Hasher) Sum64(data []byte) uint64 {
	return xxh3.Hash(data)
}

// DefaultHasher is the Hasher used by every container's "from mapping"
// (defaults) constructor.
var DefaultHasher Hasher = XXH3Hasher{}

// SipHasher is a keyed Hasher wrapping siphash-2-4, for callers who want a
// DoS-resistant keyed hash for untrusted key material. The archive format's
// record-integrity checksums (archive_writer.go, archive_reader.go) call
// siphash directly and do not go through this type.
type SipHasher struct {
	k0, k1 uint64
}

// NewSipHasher builds a SipHasher from a 16-byte key.
func NewSipHasher(key []byte) SipHasher {
	return SipHasher{
		k0: binary.LittleEndian.Uint64(key[0:8]),
		k1: binary.LittleEndian.Uint64(key[8:16]),
	}
}

// Sum64 implements Hasher.
func (s SipHasher) Sum64(data []byte) uint64 {
	return siphash.Hash(s.k0, s.k1, data)
}

// keyEncoder turns a typed key into bytes for hashing. Containers check key
// identity by comparing Go values with ==, not re-encoded bytes, so the
// encoder only ever feeds the Hasher.
type keyEncoder[K any] func(K) []byte

// StringKeyBytes is the default encoder for string keys.
func StringKeyBytes(k string) []byte {
	return []byte(k)
}

// BytesKeyBytes is the identity encoder for []byte data. []byte is not
// comparable, so it cannot be the key type of Set, Map or BitpackedMap.
func BytesKeyBytes(k []byte) []byte {
	return k
}

// Uint64KeyBytes is the default encoder for uint64 keys.
func Uint64KeyBytes(k uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], k)
	return b[:]
}

// Int64KeyBytes is the default encoder for int64 keys.
func Int64KeyBytes(k int64) []byte {
	return Uint64KeyBytes(uint64(k))
}
