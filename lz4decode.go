// Package lz4decode provides a decode-only implementation of the LZ4
// compressed data format: the raw block codec, the frame container, and a
// streaming reader adapter over concatenated frames.
package lz4decode

import (
	"io"

	"github.com/harriteja/lz4decode/block"
	"github.com/harriteja/lz4decode/frame"
	"github.com/harriteja/lz4decode/parallel"
	"github.com/harriteja/lz4decode/stream"
)

// Version identifies this module.
const Version = "1.0.0"

// Options configures checksum verification and content-size-mismatch
// logging for frame and stream decoding. It is an alias of frame.Options
// so callers never need to import the frame package directly.
type Options = frame.Options

// DefaultOptions returns the conventional decode options: checksum
// verification on, content-size-mismatch warnings to slog's default logger.
func DefaultOptions() Options {
	return frame.DefaultOptions()
}

// DecodeBlock decompresses a single raw LZ4 block (no frame, no magic, no
// checksums) from src, appending to dst and returning the extended slice.
// It allocates a new destination slice if dst is nil.
func DecodeBlock(src []byte, dst []byte) ([]byte, error) {
	return block.Decode(src, dst)
}

// DecodeFrame consumes exactly one LZ4 frame from src and returns its
// uncompressed content.
func DecodeFrame(src io.Reader, opts Options) ([]byte, error) {
	return frame.Decode(src, opts)
}

// Reader decompresses a sequence of concatenated LZ4 frames from an
// underlying io.Reader, presenting them as one continuous byte stream.
type Reader struct {
	r *stream.Reader
}

// NewReader creates a Reader that decompresses from src using opts.
func NewReader(src io.Reader, opts Options) *Reader {
	return &Reader{r: stream.NewReader(src, opts)}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

// Close implements io.Closer.
func (r *Reader) Close() error {
	return r.r.Close()
}

// Dispatcher decodes a batch of wholly independent LZ4 streams
// concurrently. It never parallelises within a single stream.
type Dispatcher struct {
	d *parallel.Dispatcher
}

// NewDispatcher creates a Dispatcher with numWorkers goroutines (0 means
// runtime.GOMAXPROCS(0)).
func NewDispatcher(numWorkers int) *Dispatcher {
	return &Dispatcher{d: parallel.NewDispatcher(numWorkers)}
}

// DecodeAll decodes each of srcs independently and concurrently.
func (d *Dispatcher) DecodeAll(srcs []io.Reader, opts Options) ([][]byte, error) {
	return d.d.DecodeAll(srcs, opts)
}

// Stop shuts down the dispatcher's worker goroutines.
func (d *Dispatcher) Stop() {
	d.d.Stop()
}
