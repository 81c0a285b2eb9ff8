package gctrace

import (
	"bufio"
	"io"
	"iter"
)

// MaxLineSize is the longest line a Reader accepts.
const MaxLineSize = 1 << 20

// Reader parses trace records from an io.Reader. It follows the
// bufio.Scanner convention: iterate All, then check Err.
type Reader struct {
	sc   *bufio.Scanner
	opts []Option
	err  error
}

// NewReader returns a Reader that parses r with the given options.
func NewReader(r io.Reader, opts ...Option) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{sc: sc, opts: opts}
}

// All returns the parsed records. The underlying input is consumed as the
// sequence is iterated, so it can only be iterated once.
func (r *Reader) All() iter.Seq[Record] {
	return Parse(r.lines(), r.opts...)
}

// Err returns the first read error encountered by All, if any. Lines that
// fail to match are never errors.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for r.sc.Scan() {
			if !yield(r.sc.Text()) {
				return
			}
		}
		r.err = r.sc.Err()
	}
}
