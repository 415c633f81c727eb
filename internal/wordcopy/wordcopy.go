// Package wordcopy provides the block decoder's match-copy fast path.
//
// LZ4 match copies are self-aliasing: the source region `[pos-offset,
// pos-offset+length)` can extend into bytes the copy itself is about to
// write, which is exactly how LZ4 encodes runs (offset < length). A naive
// bulk memmove is wrong in that case. This package proves the one case
// where a wider-than-one-byte stride is still safe — offset >= wordSize —
// and falls back to a strict byte-by-byte copy otherwise.
package wordcopy

import "sync"

const wordSize = 8

var (
	detectOnce sync.Once
	wideOK     bool
)

// Features reports which wide-copy strides this CPU can use safely.
type Features struct {
	// Wide reports whether an 8-byte word-at-a-time stride is available.
	Wide bool
}

// Detect returns the CPU features relevant to the match-copy fast path.
// Detection runs once per process.
func Detect() Features {
	detectOnce.Do(func() {
		wideOK = detectWide()
	})
	return Features{Wide: wideOK}
}

// CopyOverlap fills dst[pos:pos+length] by copying forward from
// dst[pos-offset:pos-offset+length]. It copies in word-sized strides when
// offset >= wordSize and wide copies are available (no single word can then
// read bytes it is itself writing), and one position at a time otherwise.
//
// The caller must ensure dst has length >= pos+length and 1 <= offset <= pos.
func CopyOverlap(dst []byte, pos, offset, length int) {
	src := pos - offset

	if offset >= wordSize && Detect().Wide {
		i := 0
		for ; i+wordSize <= length; i += wordSize {
			copyWord(dst[pos+i:pos+i+wordSize], dst[src+i:src+i+wordSize])
		}
		for ; i < length; i++ {
			dst[pos+i] = dst[src+i]
		}
		return
	}

	for i := 0; i < length; i++ {
		dst[pos+i] = dst[src+i]
	}
}

// copyWord copies exactly wordSize bytes. Since the caller has already
// proven offset >= wordSize, src and dst never alias within one call.
func copyWord(dst, src []byte) {
	_ = dst[wordSize-1]
	_ = src[wordSize-1]
	dst[0] = src[0]
	dst[1] = src[1]
	dst[2] = src[2]
	dst[3] = src[3]
	dst[4] = src[4]
	dst[5] = src[5]
	dst[6] = src[6]
	dst[7] = src[7]
}
