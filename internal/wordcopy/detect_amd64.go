//go:build amd64
// +build amd64

package wordcopy

import "golang.org/x/sys/cpu"

// detectWide reports whether the CPU supports the wide-register feature
// set the word-copy stride is modeled after. Every amd64 CPU Go runs on
// has SSE2, so this is true in practice; the check documents the
// dependency rather than gating on exotic hardware.
func detectWide() bool {
	return cpu.X86.HasSSE2
}
