// pack.go -- bit-packing of fixed-length u32 vectors
//
// Grounded on original_source/src/map_with_dict_bitpacked.rs's pack_values
// / unpack_values (built there on the bitpacking crate's BitPacker1x).
// Values are packed LSB-first, blockLen (32) at a time, each block preceded
// by one header byte giving the bit width needed for its largest value.
// Decode always works over a blockLen-wide scratch window so that a short
// final block's unused high values can be silently discarded rather than
// special-cased; this is why every values_dict buffer carries 4*blockLen
// zero bytes of tail padding (see NewBitpackedMap in bitpackedmap.go).

package entropymap

import "math/bits"

// blockLen is the number of u32 values packed (and decoded) together.
const blockLen = 32

// packTailPadding is the number of zero bytes appended once, at the very
// end of a values_dict buffer, so unpackValues can always read a full
// blockLen-wide scratch window even past the true end of the last block.
const packTailPadding = 4 * blockLen

// bitWidth returns the minimum number of bits needed to represent the
// largest value in values (0 if every value is 0).
func bitWidth(values []uint32) int {
	var max uint32
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return bits.Len32(max)
}

// packBits packs len(values) values, each width bits wide, LSB-first and
// contiguously (no per-value byte alignment).
func packBits(values []uint32, width uint) []byte {
	if width == 0 {
		return nil
	}
	totalBits := len(values) * int(width)
	out := make([]byte, (totalBits+7)/8)

	var bitPos uint
	for _, val := range values {
		v := uint64(val) & (uint64(1)<<width - 1)
		remaining := width
		for remaining > 0 {
			byteIdx := bitPos / 8
			bitOff := bitPos % 8
			space := 8 - bitOff
			n := remaining
			if n > space {
				n = space
			}
			out[byteIdx] |= byte(v&(uint64(1)<<n-1)) << bitOff
			v >>= n
			remaining -= n
			bitPos += n
		}
	}
	return out
}

// unpackBits is the inverse of packBits: it decodes count values of width
// bits each, contiguously, from src.
func unpackBits(src []byte, width uint, count int) []uint32 {
	out := make([]uint32, count)
	if width == 0 {
		return out
	}

	var bitPos uint
	for idx := 0; idx < count; idx++ {
		var v uint64
		var shift uint
		remaining := width
		for remaining > 0 {
			byteIdx := bitPos / 8
			bitOff := bitPos % 8
			space := 8 - bitOff
			n := remaining
			if n > space {
				n = space
			}
			mask := byte(uint64(1)<<n - 1)
			chunk := (src[byteIdx] >> bitOff) & mask
			v |= uint64(chunk) << shift
			shift += n
			remaining -= n
			bitPos += n
		}
		out[idx] = uint32(v)
	}
	return out
}

// appendPackedValues bit-packs values (in blocks of blockLen) and appends
// the result to dict, returning the extended dict. It does not add the
// tail padding; callers pad once, after every value vector has been
// appended (see NewBitpackedMap in bitpackedmap.go).
func appendPackedValues(dict []byte, values []uint32) []byte {
	for i := 0; i < len(values); i += blockLen {
		end := i + blockLen
		if end > len(values) {
			end = len(values)
		}
		block := values[i:end]

		width := bitWidth(block)
		dict = append(dict, byte(width))
		if width > 0 {
			dict = append(dict, packBits(block, uint(width))...)
		}
	}
	return dict
}

// unpackValues decodes len(out) values starting at dict[0], overwriting
// out in place. dict must have at least packTailPadding bytes available
// past the last real block (the tail padding invariant).
func unpackValues(dict []byte, out []uint32) {
	pos := 0
	for i := 0; i < len(out); i += blockLen {
		end := i + blockLen
		if end > len(out) {
			end = len(out)
		}
		n := end - i

		width := uint(dict[pos])
		pos++

		scratch := dict[pos : pos+packTailPadding]
		block := unpackBits(scratch, width, blockLen)
		copy(out[i:end], block[:n])

		size := (n*int(width) + 7) / 8
		pos += size
	}
}
