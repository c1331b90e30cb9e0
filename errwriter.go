// errwriter.go -- io.writer that handles errors gracefully

package entropymap

import (
	"fmt"
	"io"
)

type errWriter struct {
	w   io.Writer
	err error
}

func newErrWriter(w io.Writer) *errWriter {
	e := &errWriter{
		w: w,
	}
	return e
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	n, err := e.w.Write(b)
	if err != nil {
		e.err = err
		return n, err
	}
	if n != len(b) {
		e.err = shortWrite(n, len(b))
		return n, e.err
	}

	return n, nil
}

func (e *errWriter) Error() error {
	return e.err
}

func shortWrite(saw, exp int) error {
	return fmt.Errorf("short write: exp %d, wrote %d", exp, saw)
}

// writeAll writes buf in full or returns an error.
func writeAll(w io.Writer, buf []byte) (int, error) {
	n, err := w.Write(buf)
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return n, errShortWrite("archive", n)
	}
	return n, nil
}
