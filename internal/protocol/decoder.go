package protocol

import (
	"bytes"
	"errors"
	"io"
)

const (
	maxFrameSize = 1 << 20
	readSize     = 4096
)

var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// Bare client frames start with one of these.
var clientTags = [][]byte{
	[]byte(TagKey + ":"),
	[]byte(TagChat + ":"),
	[]byte(TagName + ":"),
}

// Decoder reassembles frames from a byte stream. Frames may be split across
// reads or arrive several to a read.
//
// Frames normally end in :END, but client frames may also arrive bare. A bare
// KEY frame ends after its key character. Any other bare frame ends at the
// next client tag or at the end of the read that carried it. Once a stream
// has sent a terminated frame, only terminated frames other than KEY are
// accepted from it.
type Decoder struct {
	r      io.Reader
	buf    []byte
	frames []Frame
	strict bool
	err    error
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next blocks until a complete frame is available. It returns io.EOF when the
// stream ends cleanly; a trailing partial frame is discarded.
func (d *Decoder) Next() (Frame, error) {
	chunk := make([]byte, readSize)
	for {
		if len(d.frames) > 0 {
			f := d.frames[0]
			d.frames = d.frames[1:]
			return f, nil
		}
		if d.err != nil {
			return Frame{}, d.err
		}

		n, err := d.r.Read(chunk)
		if n > 0 {
			d.buf = append(d.buf, chunk[:n]...)
			d.split()
			if len(d.buf) > maxFrameSize {
				d.buf = nil
				d.err = ErrFrameTooLarge
			}
		}
		if err != nil && d.err == nil {
			d.err = err
		}
	}
}

// split moves every complete frame in the buffer to the queue. It runs at the
// end of each read.
func (d *Decoder) split() {
	for len(d.buf) > 0 {
		n, body, ok := d.next(d.buf)
		if n == 0 {
			break
		}
		if ok {
			d.frames = append(d.frames, ParseFrame(string(body)))
		}
		d.buf = d.buf[n:]
	}
	if len(d.buf) == 0 {
		d.buf = nil
	}
}

// next reports how many bytes the leading frame in data spans and its body.
// n is zero when more input is needed.
func (d *Decoder) next(data []byte) (n int, body []byte, ok bool) {
	term := []byte(Terminator)

	// a terminator left behind by a bare KEY frame split from its :END
	if bytes.HasPrefix(data, term) {
		d.strict = true
		return len(term), nil, false
	}
	if isPrefix(data, term) {
		return 0, nil, false
	}

	if bytes.HasPrefix(data, clientTags[0]) {
		return d.nextKey(data)
	}

	colon := bytes.IndexByte(data, ':')
	if colon < 0 {
		return 0, nil, false
	}

	end := bytes.Index(data, term)
	if d.strict {
		if end < 0 {
			return 0, nil, false
		}
		return end + len(term), data[:end], true
	}

	next := nextTag(data, colon+1)
	switch {
	case end >= 0 && (next < 0 || end < next):
		d.strict = true
		return end + len(term), data[:end], true
	case next >= 0:
		return next, data[:next], true
	case endsWithPartial(data, term):
		return 0, nil, false
	default:
		return len(data), data, true
	}
}

// nextKey handles KEY:<c>, terminated or not.
func (d *Decoder) nextKey(data []byte) (int, []byte, bool) {
	term := []byte(Terminator)
	const bare = len(TagKey) + 2
	if len(data) < bare {
		return 0, nil, false
	}

	rest := data[bare:]
	switch {
	case bytes.HasPrefix(rest, term):
		d.strict = true
		return bare + len(term), data[:bare], true
	case len(rest) > 0 && isPrefix(rest, term):
		return 0, nil, false
	default:
		return bare, data[:bare], true
	}
}

// nextTag returns the offset of the first client tag at or after from.
func nextTag(data []byte, from int) int {
	first := -1
	for _, tag := range clientTags {
		if i := bytes.Index(data[from:], tag); i >= 0 && (first < 0 || from+i < first) {
			first = from + i
		}
	}
	return first
}

// isPrefix reports whether data is a proper prefix of full.
func isPrefix(data, full []byte) bool {
	return len(data) < len(full) && bytes.HasPrefix(full, data)
}

func endsWithPartial(data, term []byte) bool {
	for i := len(term) - 1; i > 0; i-- {
		if bytes.HasSuffix(data, term[:i]) {
			return true
		}
	}
	return false
}
