//go:build arm64
// +build arm64

package wordcopy

// detectWide reports whether the CPU supports the wide-register feature
// set the word-copy stride is modeled after. All ARM64 platforms have
// NEON, which is more than sufficient for an 8-byte stride.
func detectWide() bool {
	return true
}
