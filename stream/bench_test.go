package stream

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/harriteja/lz4decode/frame"
	"github.com/harriteja/lz4decode/internal/xxh32"
)

func buildBenchFrame(content []byte) []byte {
	var out bytes.Buffer

	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], 0x184D2204)
	out.Write(magic[:])

	flg := byte(0x40)
	bd := byte(7 << 4)
	out.WriteByte(flg)
	out.WriteByte(bd)
	out.WriteByte(byte(xxh32.Checksum(0, []byte{flg, bd}) >> 8))

	var sizeWord [4]byte
	binary.LittleEndian.PutUint32(sizeWord[:], uint32(len(content))|0x80000000)
	out.Write(sizeWord[:])
	out.Write(content)
	out.Write([]byte{0, 0, 0, 0})

	return out.Bytes()
}

// BenchmarkReaderDecode measures end-to-end stream decode throughput across
// a range of payload sizes, mirroring the small/medium/large sizing used by
// the teacher's compression benchmarks.
func BenchmarkReaderDecode(b *testing.B) {
	sizes := map[string]int{
		"Small":  4 * 1024,
		"Medium": 64 * 1024,
		"Large":  1024 * 1024,
	}

	for name, size := range sizes {
		content := []byte(strings.Repeat("a", size))
		framed := buildBenchFrame(content)

		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r := NewReader(bytes.NewReader(framed), frame.DefaultOptions())
				if _, err := io.Copy(io.Discard, r); err != nil {
					b.Fatalf("decode: %v", err)
				}
				r.Close()
			}
		})
	}
}
