// Package lz4errors defines the typed error taxonomy shared by the block,
// frame, and stream decoders.
package lz4errors

import "errors"

// Sentinel errors. Use errors.Is against these; call sites that need extra
// context wrap them with fmt.Errorf("...: %w", ErrX).
var (
	// ErrBadStartMagic is returned when a frame's leading 4 bytes are
	// neither the LZ4 frame magic nor in the skippable-frame magic range.
	ErrBadStartMagic = errors.New("lz4: bad start magic")
	// ErrBadEndMagic names a non-zero end word in the legacy single-block
	// framing variant. This module has no legacy-framing decoder, and no
	// function in it returns this error.
	ErrBadEndMagic = errors.New("lz4: bad end magic")
	// ErrReservedBitSet is returned when a reserved descriptor bit is nonzero.
	ErrReservedBitSet = errors.New("lz4: reserved bit set")
	// ErrInvalidVersion is returned when the descriptor version field is not 1.
	ErrInvalidVersion = errors.New("lz4: invalid frame version")
	// ErrDictionaryUnsupported is returned when dict_id_present is set.
	ErrDictionaryUnsupported = errors.New("lz4: dictionary frames are not supported")
	// ErrInvalidMaxSize is returned when the block-max-size code is outside {4,5,6,7}.
	ErrInvalidMaxSize = errors.New("lz4: invalid block max size code")
	// ErrChecksumMismatch is returned when a header, block, or content XXH32
	// checksum does not match, with verification enabled.
	ErrChecksumMismatch = errors.New("lz4: checksum mismatch")
	// ErrPrematureEnd is returned when the source is exhausted mid-field.
	ErrPrematureEnd = errors.New("lz4: premature end of input")
	// ErrBadMatchOffset is returned when a match offset is zero or exceeds
	// the current output length.
	ErrBadMatchOffset = errors.New("lz4: bad match offset")
	// ErrBadMatchLen is returned when an extended-length chain (literal or
	// match) accumulates past the block decoder's bound.
	ErrBadMatchLen = errors.New("lz4: bad match length")
	// ErrBlockTooLarge is returned when a data block's declared block_size
	// exceeds the frame's block_max_size (or a caller-supplied override).
	ErrBlockTooLarge = errors.New("lz4: block size exceeds max")
	// ErrOutOfMemory names an allocator refusal. No function in this module
	// returns it.
	ErrOutOfMemory = errors.New("lz4: out of memory")
)

// EndOfStream is a sentinel passed from the frame decoder to the stream
// adapter: it means the source was cleanly empty at a frame boundary,
// which is not a decode failure. frame.Decode (and so
// lz4decode.DecodeFrame) returns it when the source is empty at entry;
// the stream adapter never returns it and reports a clean io.EOF instead.
var EndOfStream = errors.New("lz4: end of stream")
