// seeder.go -- compact storage for per-group seeds
//
// Each level of the MPHF assigns one seed in [0, 2^S) to every group of B
// bits. Since S <= 16, a seed never needs more than two bytes, so this
// interface only ever needs a u8-backed and a u16-backed implementation.

package entropymap

import "io"

// seeder abstracts over the on-disk width of the MPHF's seed table (the
// seeds of every level, concatenated) so that an MPHF with small S can be
// packed as 1 byte/seed instead of 2.
type seeder interface {
	// seed returns the seed assigned to group index i.
	seed(i uint64) uint32

	// marshal writes the seed table to w.
	marshal(w io.Writer) (int, error)

	// length returns the number of seeds (== number of groups).
	length() int

	// seedsize returns the on-disk width of one seed, in bytes.
	seedsize() byte
}

var (
	_ seeder = &u8Seeder{}
	_ seeder = &u16Seeder{}
)

// newSeeder picks the narrowest seeder that can hold every value in seeds,
// given a known maximum seed value (2^S - 1).
func newSeeder(seeds []uint32, maxSeed uint32) seeder {
	if maxSeed < 256 {
		return newU8Seeder(seeds)
	}
	return newU16Seeder(seeds)
}

// u8Seeder stores one byte per seed, for S <= 8.
type u8Seeder struct {
	seeds []uint8
}

func newU8Seeder(v []uint32) seeder {
	bs := make([]uint8, len(v))
	for i, a := range v {
		bs[i] = uint8(a)
	}
	return &u8Seeder{seeds: bs}
}

func (u *u8Seeder) seed(i uint64) uint32 { return uint32(u.seeds[i]) }
func (u *u8Seeder) length() int          { return len(u.seeds) }
func (u *u8Seeder) seedsize() byte       { return 1 }

func (u *u8Seeder) marshal(w io.Writer) (int, error) {
	return writeAll(w, u.seeds)
}

func unmarshalU8Seeder(b []byte, n int) seeder {
	return &u8Seeder{seeds: b[:n]}
}

// u16Seeder stores two little-endian bytes per seed, for 8 < S <= 16.
type u16Seeder struct {
	seeds []uint16
}

func newU16Seeder(v []uint32) seeder {
	us := make([]uint16, len(v))
	for i, a := range v {
		us[i] = uint16(a)
	}
	return &u16Seeder{seeds: us}
}

func (u *u16Seeder) seed(i uint64) uint32 { return uint32(u.seeds[i]) }
func (u *u16Seeder) length() int          { return len(u.seeds) }
func (u *u16Seeder) seedsize() byte       { return 2 }

func (u *u16Seeder) marshal(w io.Writer) (int, error) {
	b := make([]byte, 2*len(u.seeds))
	for i, s := range u.seeds {
		b[2*i] = byte(s)
		b[2*i+1] = byte(s >> 8)
	}
	return writeAll(w, b)
}

func unmarshalU16Seeder(b []byte, n int) seeder {
	us := make([]uint16, n)
	for i := range us {
		us[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return &u16Seeder{seeds: us}
}
