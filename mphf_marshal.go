// mphf_marshal.go -- binary encoding for MPHF
//
// A small fixed header followed by the variable-length pieces written
// back to back. Used by the archive writer/reader (archive_writer.go,
// archive_reader.go) to embed an MPHF inside a memory-mappable container.

package entropymap

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const mphfMarshalVersion = 1

// MarshalBinary encodes m into a binary form suitable for durable storage.
//
// Layout:
//
//	header (32 bytes): version byte, 3 reserved bytes, uint32 b, uint32 s,
//	    float64 gamma (as bits), uint32 n, uint32 num_levels
//	level_groups: num_levels x uint32
//	seed_width byte, num_groups uint32, packed seeds (seed_width bytes each)
//	ranked bits: uint64 num_words, then num_words x uint64 words
func (m *MPHF) MarshalBinary(w io.Writer) (int, error) {
	le := binary.LittleEndian

	var hdr [32]byte
	hdr[0] = mphfMarshalVersion
	le.PutUint32(hdr[4:8], uint32(m.b))
	le.PutUint32(hdr[8:12], uint32(m.s))
	le.PutUint64(hdr[12:20], math.Float64bits(m.gamma))
	le.PutUint32(hdr[20:24], uint32(m.n))
	le.PutUint32(hdr[24:28], uint32(len(m.levelGroups)))

	ew := newErrWriter(w)
	total, _ := ew.Write(hdr[:])

	lg := make([]byte, 4*len(m.levelGroups))
	for i, g := range m.levelGroups {
		le.PutUint32(lg[4*i:], g)
	}
	n, _ := ew.Write(lg)
	total += n

	var swb [5]byte
	swb[0] = m.groupSeeds.seedsize()
	le.PutUint32(swb[1:5], uint32(m.groupSeeds.length()))
	n, _ = ew.Write(swb[:])
	total += n

	n, _ = m.groupSeeds.marshal(ew)
	total += n

	var wc [8]byte
	le.PutUint64(wc[:], uint64(len(m.ranked.bits)))
	n, _ = ew.Write(wc[:])
	total += n

	wb := make([]byte, 8*len(m.ranked.bits))
	for i, word := range m.ranked.bits {
		le.PutUint64(wb[8*i:], word)
	}
	n, _ = ew.Write(wb)
	total += n

	return total, ew.Error()
}

// unmarshalMPHF reconstructs an MPHF from a buffer produced by
// MarshalBinary. buf is expected to be memory-mapped or otherwise
// immutable for the lifetime of the returned MPHF.
func unmarshalMPHF(buf []byte) (*MPHF, int, error) {
	if len(buf) < 32 {
		return nil, 0, ErrTooSmall
	}

	le := binary.LittleEndian
	ver := buf[0]
	if ver != mphfMarshalVersion {
		return nil, 0, fmt.Errorf("entropymap: unsupported mphf encoding version %d", ver)
	}

	b := uint(le.Uint32(buf[4:8]))
	s := uint(le.Uint32(buf[8:12]))
	gamma := math.Float64frombits(le.Uint64(buf[12:20]))
	n := int(le.Uint32(buf[20:24]))
	numLevels := int(le.Uint32(buf[24:28]))

	off := 32
	if len(buf) < off+4*numLevels {
		return nil, 0, ErrTooSmall
	}
	levelGroups := make([]uint32, numLevels)
	for i := range levelGroups {
		levelGroups[i] = le.Uint32(buf[off+4*i:])
	}
	off += 4 * numLevels

	if len(buf) < off+5 {
		return nil, 0, ErrTooSmall
	}
	seedWidth := buf[off]
	numSeeds := int(le.Uint32(buf[off+1 : off+5]))
	off += 5

	var gs seeder
	switch seedWidth {
	case 1:
		if len(buf) < off+numSeeds {
			return nil, 0, ErrTooSmall
		}
		gs = unmarshalU8Seeder(buf[off:off+numSeeds], numSeeds)
		off += numSeeds
	case 2:
		if len(buf) < off+2*numSeeds {
			return nil, 0, ErrTooSmall
		}
		gs = unmarshalU16Seeder(buf[off:off+2*numSeeds], numSeeds)
		off += 2 * numSeeds
	default:
		return nil, 0, ErrArchiveCorrupt
	}

	if len(buf) < off+8 {
		return nil, 0, ErrTooSmall
	}
	numWords := int(le.Uint64(buf[off:]))
	off += 8

	if len(buf) < off+8*numWords {
		return nil, 0, ErrTooSmall
	}
	words := make([]uint64, numWords)
	for i := range words {
		words[i] = le.Uint64(buf[off+8*i:])
	}
	off += 8 * numWords

	m := &MPHF{
		ranked:      newRankedBits(words),
		levelGroups: levelGroups,
		groupSeeds:  gs,
		b:           b,
		s:           s,
		gamma:       gamma,
		n:           n,
	}
	return m, off, nil
}
