// Package frame decodes the LZ4 frame container: magic, descriptor,
// optionally-checksummed data blocks, end mark, and optional content
// checksum. Skippable frames are recognized and transparently skipped.
// Compressed data blocks are delegated to the block package.
package frame

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"

	"github.com/harriteja/lz4decode/block"
	"github.com/harriteja/lz4decode/internal/xxh32"
	"github.com/harriteja/lz4decode/lz4errors"
)

const (
	magicLZ4             uint32 = 0x184D2204
	magicSkippableLow    uint32 = 0x184D2A50
	magicSkippableHigh   uint32 = 0x184D2A5F
	flagVersionMask      byte   = 0xC0
	flagVersionValue     byte   = 0x40 // version field == 1, in bits 6-7
	flagBlockIndependent byte   = 0x20
	flagBlockChecksum    byte   = 0x10
	flagContentSize      byte   = 0x08
	flagContentChecksum  byte   = 0x04
	flagReservedBit1     byte   = 0x02
	flagDictID           byte   = 0x01
	bdReservedHighBit    byte   = 0x80
	bdBlockMaxSizeShift         = 4
	bdBlockMaxSizeMask   byte   = 0x07
	bdReservedLowMask    byte   = 0x0F
)

var blockMaxSizes = map[byte]int{
	4: 64 * 1024,
	5: 256 * 1024,
	6: 1024 * 1024,
	7: 4 * 1024 * 1024,
}

// Options configures a single frame decode.
type Options struct {
	// VerifyChecksums enables header, block, and content XXH32 verification.
	// Bytes are consumed either way; only the comparison is skipped when
	// false. Defaults to true via DefaultOptions.
	VerifyChecksums bool

	// Logger receives a warning when a present content-size field disagrees
	// with the number of bytes actually decoded (spec policy: log, don't
	// fail). A nil Logger disables the message entirely.
	Logger *slog.Logger

	// MaxBlockSize, when nonzero, caps the declared block_size a data block
	// may carry, overriding the frame's own block_max_size code whenever it
	// is smaller. A block declaring more than the effective cap fails with
	// lz4errors.ErrBlockTooLarge before any of its payload is read. Leave
	// at zero to trust the frame's own block_max_size code exclusively.
	MaxBlockSize int
}

// DefaultOptions returns the conventional decode options: checksum
// verification on, warnings to the default slog logger, no additional cap
// beyond the frame's own block_max_size code.
func DefaultOptions() Options {
	return Options{VerifyChecksums: true, Logger: slog.Default()}
}

// Descriptor is the parsed form of an LZ4 frame's two-byte descriptor plus
// its optional trailing fields.
type Descriptor struct {
	BlockIndependent bool
	BlockChecksum    bool
	ContentSize      bool
	ContentSizeValue uint64
	ContentChecksum  bool
	DictID           bool
	BlockMaxSizeCode byte
}

// blockMaxSize returns the decoded byte limit for BlockMaxSizeCode.
func (d Descriptor) blockMaxSize() int {
	return blockMaxSizes[d.BlockMaxSizeCode]
}

// Decode consumes exactly one frame from src and returns its uncompressed
// content. A skippable frame always decodes to an empty payload. It
// returns lz4errors.EndOfStream if src is cleanly empty at entry — this is
// not a decode failure, only the stream package should observe it.
func Decode(src io.Reader, opts Options) ([]byte, error) {
	magic, err := readMagicOrEOF(src)
	if err != nil {
		return nil, err
	}

	if magic >= magicSkippableLow && magic <= magicSkippableHigh {
		return nil, skipFrame(src)
	}
	if magic != magicLZ4 {
		return nil, lz4errors.ErrBadStartMagic
	}

	desc, err := readDescriptor(src, opts)
	if err != nil {
		return nil, err
	}

	var contentDigest *xxh32.Digest
	if desc.ContentChecksum {
		contentDigest = xxh32.New(0)
	}

	var out []byte
	for {
		before := len(out)
		done, err := readDataBlock(src, desc, opts, &out)
		if err != nil {
			return nil, err
		}
		if contentDigest != nil {
			contentDigest.Write(out[before:])
		}
		if done {
			break
		}
	}

	if desc.ContentChecksum {
		want, err := readLE32(src)
		if err != nil {
			return nil, err
		}
		if opts.VerifyChecksums {
			if got := contentDigest.Sum32(); got != want {
				return nil, lz4errors.ErrChecksumMismatch
			}
		}
	}

	if desc.ContentSize && uint64(len(out)) != desc.ContentSizeValue {
		logContentSizeMismatch(opts.Logger, desc.ContentSizeValue, len(out))
	}

	return out, nil
}

// readMagicOrEOF reads the 4-byte magic, translating a clean empty source
// into lz4errors.EndOfStream rather than io.EOF/io.ErrUnexpectedEOF, since
// the stream adapter needs to distinguish "no more frames" from "frame cut
// off mid-field."
func readMagicOrEOF(src io.Reader) (uint32, error) {
	var buf [4]byte
	n, err := io.ReadFull(src, buf[:])
	if n == 0 && err == io.EOF {
		return 0, lz4errors.EndOfStream
	}
	if err != nil {
		return 0, lz4errors.ErrPrematureEnd
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func skipFrame(src io.Reader) error {
	size, err := readLE32(src)
	if err != nil {
		return err
	}
	if _, err := io.CopyN(io.Discard, src, int64(size)); err != nil {
		return lz4errors.ErrPrematureEnd
	}
	return nil
}

// readDescriptor reads the descriptor byte, block-descriptor byte, any
// present optional fields, and the header checksum, validating reserved
// bits and the header checksum along the way. The checksummed window is
// accumulated into a small stack buffer per spec.md §9's recommended
// option (a).
func readDescriptor(src io.Reader, opts Options) (Descriptor, error) {
	var header [14]byte // descriptor(1) + BD(1) + contentSize(8) + dictID(4), max
	headerLen := 2
	if _, err := io.ReadFull(src, header[:2]); err != nil {
		return Descriptor{}, lz4errors.ErrPrematureEnd
	}

	flg := header[0]
	bd := header[1]

	if flg&flagReservedBit1 != 0 {
		return Descriptor{}, lz4errors.ErrReservedBitSet
	}
	if flg&flagVersionMask != flagVersionValue {
		return Descriptor{}, lz4errors.ErrInvalidVersion
	}
	if bd&bdReservedHighBit != 0 || bd&bdReservedLowMask != 0 {
		return Descriptor{}, lz4errors.ErrReservedBitSet
	}

	desc := Descriptor{
		BlockIndependent: flg&flagBlockIndependent != 0,
		BlockChecksum:    flg&flagBlockChecksum != 0,
		ContentSize:      flg&flagContentSize != 0,
		ContentChecksum:  flg&flagContentChecksum != 0,
		DictID:           flg&flagDictID != 0,
		BlockMaxSizeCode: (bd >> bdBlockMaxSizeShift) & bdBlockMaxSizeMask,
	}

	if _, ok := blockMaxSizes[desc.BlockMaxSizeCode]; !ok {
		return Descriptor{}, lz4errors.ErrInvalidMaxSize
	}

	if desc.ContentSize {
		if _, err := io.ReadFull(src, header[headerLen:headerLen+8]); err != nil {
			return Descriptor{}, lz4errors.ErrPrematureEnd
		}
		desc.ContentSizeValue = binary.LittleEndian.Uint64(header[headerLen : headerLen+8])
		headerLen += 8
	}

	if desc.DictID {
		// Read (and include in the checksum window) before failing: the
		// bytes are still consumed off the wire even though we reject the
		// frame, matching spec.md §4.2 step 2.
		if _, err := io.ReadFull(src, header[headerLen:headerLen+4]); err != nil {
			return Descriptor{}, lz4errors.ErrPrematureEnd
		}
		headerLen += 4
		return Descriptor{}, lz4errors.ErrDictionaryUnsupported
	}

	hc, err := readByte(src)
	if err != nil {
		return Descriptor{}, lz4errors.ErrPrematureEnd
	}

	if opts.VerifyChecksums {
		want := byte(xxh32.Checksum(0, header[:headerLen]) >> 8)
		if want != hc {
			return Descriptor{}, lz4errors.ErrChecksumMismatch
		}
	}

	return desc, nil
}

// readDataBlock reads one data-block header and, unless it is the end
// mark, its payload (and optional checksum), appending decoded bytes to
// *out. It reports done=true once the end mark has been consumed.
func readDataBlock(src io.Reader, desc Descriptor, opts Options, out *[]byte) (done bool, err error) {
	word, err := readLE32(src)
	if err != nil {
		return false, err
	}
	if word == 0 {
		return true, nil
	}

	uncompressed := word&0x80000000 != 0
	blockSize := int64(word & 0x7FFFFFFF)

	effectiveMax := desc.blockMaxSize()
	if opts.MaxBlockSize > 0 && opts.MaxBlockSize < effectiveMax {
		effectiveMax = opts.MaxBlockSize
	}
	if blockSize > int64(effectiveMax) {
		return false, lz4errors.ErrBlockTooLarge
	}

	// Read via a size-limited reader rather than preallocating blockSize
	// bytes up front: blockSize is attacker-controlled (up to ~2GiB) and an
	// under-sized source should fail on the bytes it actually lacks, not
	// force an allocation for bytes that were never going to arrive.
	var buf bytes.Buffer
	n, copyErr := buf.ReadFrom(io.LimitReader(src, blockSize))
	if copyErr != nil || n != blockSize {
		return false, lz4errors.ErrPrematureEnd
	}
	raw := buf.Bytes()

	if desc.BlockChecksum {
		want, err := readLE32(src)
		if err != nil {
			return false, err
		}
		if opts.VerifyChecksums {
			if got := xxh32.Checksum(0, raw); got != want {
				return false, lz4errors.ErrChecksumMismatch
			}
		}
	}

	if uncompressed {
		*out = append(*out, raw...)
		return false, nil
	}

	decoded, err := block.Decode(raw, *out)
	if err != nil {
		return false, err
	}
	*out = decoded
	return false, nil
}

func readByte(src io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(src, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readLE32(src io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return 0, lz4errors.ErrPrematureEnd
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func logContentSizeMismatch(logger *slog.Logger, declared uint64, got int) {
	if logger == nil {
		return
	}
	logger.Warn("lz4: content size mismatch",
		slog.Uint64("declared", declared),
		slog.Int("decoded", got),
	)
}
