// Package stream presents frame-by-frame LZ4 decoding as an incremental
// io.Reader: it repeatedly invokes the frame decoder, buffers each frame's
// output, and serves arbitrary-size read requests, draining one frame
// before pulling the next so that frame boundaries are never observable to
// the consumer.
package stream

import (
	"errors"
	"io"

	"github.com/harriteja/lz4decode/frame"
	"github.com/harriteja/lz4decode/lz4errors"
)

// Reader adapts a byte source producing zero or more concatenated LZ4
// frames (optionally interleaved with skippable frames) into an io.Reader.
// It is single-threaded: the decoder is strictly sequential, per spec.md §5.
type Reader struct {
	src  io.Reader
	opts frame.Options

	buffer []byte
	offset int
	done   bool
}

// NewReader wraps src. opts controls checksum verification and the
// content-size-mismatch logger for every frame the stream decodes.
func NewReader(src io.Reader, opts frame.Options) *Reader {
	return &Reader{src: src, opts: opts}
}

// Read fills dst, pulling additional frames from the underlying source as
// needed. It returns 0, io.EOF only once the source is cleanly exhausted
// between frames; any error mid-frame is returned verbatim (io.EOF is
// never silently swallowed there — see frame.Decode's EndOfStream split).
// Once Read has returned an error, every later call returns 0, io.EOF.
func (r *Reader) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if r.done {
		return 0, io.EOF
	}

	n := 0
	for n < len(dst) {
		if r.offset < len(r.buffer) {
			copied := copy(dst[n:], r.buffer[r.offset:])
			r.offset += copied
			n += copied
			continue
		}

		r.buffer = nil
		r.offset = 0

		next, err := frame.Decode(r.src, r.opts)
		if errors.Is(err, lz4errors.EndOfStream) {
			r.done = true
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		if err != nil {
			r.done = true
			return n, err
		}

		r.buffer = next
		if len(next) == 0 {
			// A skippable frame or an empty-content LZ4 frame: nothing to
			// deliver this round, but the source may still hold more
			// frames, so loop rather than returning a short read.
			continue
		}
	}

	return n, nil
}

// Close releases the current frame buffer. If src implements io.Closer,
// Close also closes it.
func (r *Reader) Close() error {
	r.buffer = nil
	r.offset = 0
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
