// Package block decodes the raw LZ4 block format: a densely packed
// sequence of tokens, literals, and back-reference matches. It has no
// notion of frames, magic numbers, or checksums — those belong to the
// frame package, which calls here with one data block's bounded bytes.
package block

import (
	"github.com/harriteja/lz4decode/internal/wordcopy"
	"github.com/harriteja/lz4decode/lz4errors"
)

// minMatchLen is the implicit bias LZ4 subtracts from the encoded match
// length nibble: a token's match-length code of 0 means an actual match of
// 4 bytes.
const minMatchLen = 4

// maxExtendedLen bounds the extended-length accumulation loop so a
// malformed, endlessly-0xFF input cannot make the "conceptually unbounded"
// accumulation described in spec.md §3 actually unbounded in practice.
const maxExtendedLen = 1 << 40

// Decode appends the decompressed form of src (one block's on-wire bytes,
// already delimited by the caller) to dst and returns the extended slice.
//
// It returns lz4errors.ErrPrematureEnd if src runs out mid-field,
// lz4errors.ErrBadMatchOffset if a match's offset is zero or exceeds the
// output length built up so far, and lz4errors.ErrBadMatchLen if an
// extended-length chain would overflow.
func Decode(src []byte, dst []byte) ([]byte, error) {
	out := dst
	srcPos := 0

	for srcPos < len(src) {
		token := src[srcPos]
		srcPos++

		literalLen := int(token >> 4)
		if literalLen == 15 {
			extra, next, err := readExtendedLen(src, srcPos)
			if err != nil {
				return out, err
			}
			literalLen += extra
			srcPos = next
		}

		if srcPos+literalLen > len(src) {
			return out, lz4errors.ErrPrematureEnd
		}

		out = growBy(out, literalLen)
		copy(out[len(out)-literalLen:], src[srcPos:srcPos+literalLen])
		srcPos += literalLen

		if srcPos >= len(src) {
			// Last sequence of the block: literal only, no match.
			break
		}

		if srcPos+2 > len(src) {
			return out, lz4errors.ErrPrematureEnd
		}
		offset := int(src[srcPos]) | int(src[srcPos+1])<<8
		srcPos += 2
		if offset == 0 {
			return out, lz4errors.ErrBadMatchOffset
		}

		matchLenCode := int(token & 0x0F)
		matchLen := minMatchLen + matchLenCode
		if matchLenCode == 15 {
			extra, next, err := readExtendedLen(src, srcPos)
			if err != nil {
				return out, err
			}
			matchLen += extra
			srcPos = next
		}

		start := len(out)
		if offset > start {
			return out, lz4errors.ErrBadMatchOffset
		}

		out = growBy(out, matchLen)
		wordcopy.CopyOverlap(out, start, offset, matchLen)
	}

	return out, nil
}

// readExtendedLen reads the extended-length byte chain that follows a
// token nibble of 15: accumulate bytes until one is less than 255.
func readExtendedLen(src []byte, pos int) (extra, next int, err error) {
	var total uint64
	for {
		if pos >= len(src) {
			return 0, 0, lz4errors.ErrPrematureEnd
		}
		b := src[pos]
		pos++
		total += uint64(b)
		if total > maxExtendedLen {
			return 0, 0, lz4errors.ErrBadMatchLen
		}
		if b != 255 {
			break
		}
	}
	return int(total), pos, nil
}

// growBy extends out by n zero bytes and returns the new slice; it never
// moves the source region of an in-progress match copy because callers
// always grow fully before copying.
func growBy(out []byte, n int) []byte {
	newLen := len(out) + n
	if newLen <= cap(out) {
		return out[:newLen]
	}
	grown := make([]byte, newLen, growCap(cap(out), newLen))
	copy(grown, out)
	return grown
}

// growCap doubles capacity (amortized-growth, matching the teacher's
// buffer-growth strategy) unless the caller's request already exceeds that.
func growCap(oldCap, need int) int {
	newCap := oldCap * 2
	if newCap < need {
		newCap = need
	}
	return newCap
}
