// archive_writer.go -- builds a zero-copy archive file
//
// Records are appended one at a time; Freeze() runs the MPHF
// construction, lays out the offset table at a page-aligned boundary,
// and writes a strong trailer checksum.

package entropymap

import (
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/dchest/siphash"
)

// ArchiveWriter accumulates byte-keyed records and freezes them into a
// memory-mappable archive file.
type ArchiveWriter struct {
	fd      *os.File
	builder *Builder
	hasher  Hasher

	records map[uint64]*archiveRecord

	salt []byte
	off  uint64

	fntmp, fn string
	state     archiveWState
}

type archiveRecord struct {
	key []byte
	val []byte
}

// NewArchiveWriter prepares file fn to hold an archive built with the
// given hasher and MPHF options. Call Add for every key/value pair, then
// Freeze to build the MPHF and write the file.
func NewArchiveWriter(fn string, hasher Hasher, opts ...BuilderOption) (*ArchiveWriter, error) {
	b, err := NewBuilder(opts...)
	if err != nil {
		return nil, err
	}

	tmp := fmt.Sprintf("%s.tmp.%d", fn, rand32())
	fd, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}

	w := &ArchiveWriter{
		fd:      fd,
		builder: b,
		hasher:  hasher,
		records: make(map[uint64]*archiveRecord),
		salt:    randbytes(archiveSaltSize),
		off:     archiveHdrSize,
		fn:      fn,
		fntmp:   tmp,
	}

	var z [archiveHdrSize]byte
	if _, err := writeAll(fd, z[:]); err != nil {
		return nil, err
	}
	return w, nil
}

// Len returns the number of distinct keys added so far.
func (w *ArchiveWriter) Len() int { return len(w.records) }

// Add appends one key/value pair. A key equal (by hash) to one already
// added is rejected.
func (w *ArchiveWriter) Add(key, val []byte) error {
	if w.state != archiveOpen {
		return fmt.Errorf("entropymap: archive writer is frozen")
	}

	h := w.hasher.Sum64(key)
	if _, exists := w.records[h]; exists {
		return fmt.Errorf("entropymap: archive: duplicate key")
	}

	w.builder.Add(h)
	w.records[h] = &archiveRecord{
		key: append([]byte(nil), key...),
		val: append([]byte(nil), val...),
	}
	return nil
}

// Abort discards the in-progress archive and removes its temp file.
func (w *ArchiveWriter) Abort() error {
	if w.state != archiveOpen {
		return fmt.Errorf("entropymap: archive writer is frozen")
	}
	return w.abort()
}

func (w *ArchiveWriter) abort() error {
	os.Remove(w.fd.Name())
	w.fd.Close()
	w.state = archiveAborted
	return nil
}

// Freeze builds the MPHF over every added key, writes the archive, and
// renames the temp file into place at fn.
func (w *ArchiveWriter) Freeze() (err error) {
	defer func() {
		if err != nil {
			w.abort()
		}
	}()

	if w.state != archiveOpen {
		return fmt.Errorf("entropymap: archive writer is frozen")
	}

	mphf, err := w.builder.Freeze()
	if err != nil {
		return err
	}

	n := mphf.Len()
	order := make([]uint64, n)
	for h := range w.records {
		idx, ok := mphf.Get(h)
		if !ok {
			return fmt.Errorf("entropymap: archive: internal error, key not found in mphf")
		}
		order[idx] = h
	}

	recordOffsets := make([]uint64, n)
	for i, h := range order {
		rec := w.records[h]
		recordOffsets[i] = w.off
		if err := w.writeRecord(rec.key, rec.val); err != nil {
			return err
		}
	}

	pgsz := uint64(os.Getpagesize())
	offtbl := roundUpToMultiple(w.off, pgsz)
	if offtbl > w.off {
		if _, err := writeAll(w.fd, make([]byte, offtbl-w.off)); err != nil {
			return err
		}
		w.off = offtbl
	}

	var hdr [archiveHdrSize]byte
	be := binary.BigEndian
	copy(hdr[:4], archiveMagic)
	copy(hdr[8:8+archiveSaltSize], w.salt)
	be.PutUint64(hdr[24:32], uint64(n))
	be.PutUint64(hdr[32:40], offtbl)

	h := sha512.New512_256()
	h.Write(hdr[:])

	tee := io.MultiWriter(w.fd, h)

	otbl := make([]byte, 8*n)
	for i, off := range recordOffsets {
		binary.LittleEndian.PutUint64(otbl[8*i:], off)
	}
	if _, err := writeAll(tee, otbl); err != nil {
		return err
	}
	w.off += uint64(len(otbl))

	nw, err := mphf.MarshalBinary(tee)
	if err != nil {
		return err
	}
	w.off += uint64(nw)

	cksum := h.Sum(nil)
	if _, err := writeAll(w.fd, cksum); err != nil {
		return err
	}

	if _, err := w.fd.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := writeAll(w.fd, hdr[:]); err != nil {
		return err
	}

	if err := w.fd.Sync(); err != nil {
		return err
	}
	if err := w.fd.Close(); err != nil {
		return err
	}
	if err := os.Rename(w.fntmp, w.fn); err != nil {
		return err
	}

	w.state = archiveFrozen
	return nil
}

// writeRecord writes one self-describing record at the writer's current
// offset: a siphash checksum, then the length-prefixed key, then the
// length-prefixed value.
func (w *ArchiveWriter) writeRecord(key, val []byte) error {
	be := binary.BigEndian

	var off [8]byte
	be.PutUint64(off[:], w.off)

	h := siphash.New(w.salt)
	h.Write(off[:])
	h.Write(key)
	h.Write(val)

	var rec [8 + 4]byte
	be.PutUint64(rec[0:8], h.Sum64())
	be.PutUint32(rec[8:12], uint32(len(key)))

	n, err := writeAll(w.fd, rec[:])
	if err != nil {
		return err
	}
	w.off += uint64(n)

	if n, err = writeAll(w.fd, key); err != nil {
		return err
	}
	w.off += uint64(n)

	var vl [4]byte
	be.PutUint32(vl[:], uint32(len(val)))
	if n, err = writeAll(w.fd, vl[:]); err != nil {
		return err
	}
	w.off += uint64(n)

	if n, err = writeAll(w.fd, val); err != nil {
		return err
	}
	w.off += uint64(n)

	return nil
}
