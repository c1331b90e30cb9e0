// archive.go -- shared layout for the zero-copy archive format
//
// A constant-DB-style format: a 64-byte big-endian header, a page-aligned
// offset table, a SHA512/256 strong checksum over header+offset-table+MPHF,
// and per-record siphash checksums. Built on an MPHF + RankedBits rather
// than on a bucket-displacement perfect hash, and keyed by arbitrary
// bytes rather than a fixed-width hash, so each record keeps its own key
// bytes alongside its value -- that's what lets a loaded archive reject
// false positives from the MPHF.
//
// On-disk layout:
//
//	[0:64)   header, big-endian: magic[4] "EMA1", flags uint32, salt[16],
//	         nkeys uint64, offtbl uint64 (page-aligned file offset)
//	[64:off) records, one per key, in MPHF order:
//	         cksum uint64 (siphash over offset+key+val, big-endian)
//	         keylen uint32, key bytes
//	         vallen uint32, val bytes
//	[..page boundary] zero padding
//	[offtbl:)  offset table: nkeys x uint64 (little-endian, memory-mapped)
//	           then the marshaled MPHF (mphf_marshal.go)
//	[end-32:end) SHA512/256 of header + offset table + marshaled MPHF
package entropymap

const (
	archiveMagic    = "EMA1"
	archiveHdrSize  = 64
	archiveSumSize  = 32
	archiveSaltSize = 16
)

type archiveWState int

const (
	archiveOpen archiveWState = iota
	archiveFrozen
	archiveAborted
)
