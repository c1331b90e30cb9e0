// archive_reader.go -- query interface for a frozen archive file
//
// Validates the header and strong checksum, memory-maps the offset table
// and marshaled MPHF, and caches opportunistically decoded records behind
// an ARC cache.

package entropymap

import (
	"bytes"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"io"
	"os"

	"github.com/dchest/siphash"
	arc "github.com/hashicorp/golang-lru/arc/v2"
	"github.com/opencoff/go-mmap"
)

// ArchiveReader provides read-only, zero-copy queries over a file written
// by ArchiveWriter.
type ArchiveReader struct {
	mphf *MPHF

	hasher Hasher
	salt   []byte
	nkeys  uint64

	offsetTable []byte // mmap'd window: nkeys x uint64, little-endian
	records     []byte // mmap'd window covering the whole file

	cache *arc.ARCCache[string, []byte]

	mm *mmap.Mapping
	fd *os.File
}

// OpenArchive opens and validates a previously frozen archive, using
// hasher to turn query keys into MPHF fingerprints (this must be the same
// Hasher the archive was written with) and caching up to cacheSize
// decoded records (0 selects a default of 128).
func OpenArchive(fn string, hasher Hasher, cacheSize int) (rd *ArchiveReader, err error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			fd.Close()
		}
	}()

	if cacheSize <= 0 {
		cacheSize = 128
	}

	st, err := fd.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() < archiveHdrSize+archiveSumSize {
		return nil, ErrArchiveCorrupt
	}

	var hdr [archiveHdrSize]byte
	if _, err := io.ReadFull(fd, hdr[:]); err != nil {
		return nil, err
	}

	be := binary.BigEndian
	if string(hdr[:4]) != archiveMagic {
		return nil, ErrArchiveVersion
	}
	salt := append([]byte(nil), hdr[8:8+archiveSaltSize]...)
	nkeys := be.Uint64(hdr[24:32])
	offtbl := be.Uint64(hdr[32:40])

	tblsz := nkeys * 8
	if uint64(st.Size()) < offtbl+tblsz+archiveSumSize {
		return nil, ErrArchiveCorrupt
	}

	mm := mmap.New(fd)
	mapping, err := mm.Map(st.Size(), 0, mmap.PROT_READ, mmap.F_READAHEAD)
	if err != nil {
		return nil, err
	}
	data := mapping.Bytes()

	h := sha512.New512_256()
	h.Write(hdr[:])
	h.Write(data[offtbl : int64(len(data))-archiveSumSize])
	want := data[int64(len(data))-archiveSumSize:]
	if subtle.ConstantTimeCompare(h.Sum(nil), want) != 1 {
		return nil, ErrArchiveCorrupt
	}

	mphf, n, err := unmarshalMPHF(data[offtbl+tblsz:])
	if err != nil {
		return nil, err
	}
	if uint64(offtbl)+tblsz+uint64(n)+archiveSumSize != uint64(len(data)) {
		return nil, ErrArchiveCorrupt
	}

	cache, err := arc.NewARC[string, []byte](cacheSize)
	if err != nil {
		return nil, err
	}

	return &ArchiveReader{
		mphf:        mphf,
		hasher:      hasher,
		salt:        salt,
		nkeys:       nkeys,
		offsetTable: data[offtbl : offtbl+tblsz],
		records:     data,
		cache:       cache,
		mm:          mm,
		fd:          fd,
	}, nil
}

// Close unmaps and closes the underlying file.
func (rd *ArchiveReader) Close() error {
	if err := rd.mm.Unmap(); err != nil {
		return err
	}
	return rd.fd.Close()
}

// Len returns the number of keys in the archive.
func (rd *ArchiveReader) Len() int { return int(rd.nkeys) }

// Get looks up key and returns its value and whether it was found. The
// returned slice aliases the memory-mapped file and must not be retained
// past Close.
func (rd *ArchiveReader) Get(key []byte) ([]byte, bool) {
	// The cache is keyed by the exact key bytes, not by h below: h is only
	// a 64-bit fingerprint and two distinct keys can collide under it, so
	// keying the cache by h would let one key's cached value answer for
	// another without ever comparing keys.
	cacheKey := string(key)
	if v, ok := rd.cache.Get(cacheKey); ok {
		return v, true
	}

	h := rd.hasher.Sum64(key)

	idx, ok := rd.mphf.Get(h)
	if !ok {
		return nil, false
	}

	off := binary.LittleEndian.Uint64(rd.offsetTable[8*idx:])
	rec := rd.records[off:]

	be := binary.BigEndian
	cksum := be.Uint64(rec[0:8])
	keylen := be.Uint32(rec[8:12])
	pos := uint32(12)
	recKey := rec[pos : pos+keylen]
	if !bytes.Equal(recKey, key) {
		return nil, false
	}
	pos += keylen

	vallen := be.Uint32(rec[pos : pos+4])
	pos += 4
	val := rec[pos : pos+vallen]

	var offb [8]byte
	be.PutUint64(offb[:], off)
	sh := siphash.New(rd.salt)
	sh.Write(offb[:])
	sh.Write(recKey)
	sh.Write(val)
	if sh.Sum64() != cksum {
		return nil, false
	}

	rd.cache.Add(cacheKey, val)
	return val, true
}
