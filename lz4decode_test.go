package lz4decode

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/harriteja/lz4decode/internal/xxh32"
)

func TestDecodeBlockFacade(t *testing.T) {
	got, err := DecodeBlock([]byte("\x40asdf"), nil)
	if err != nil {
		t.Fatalf("DecodeBlock() error = %v", err)
	}
	if string(got) != "asdf" {
		t.Errorf("DecodeBlock() = %q, want %q", got, "asdf")
	}
}

func buildFrame(t *testing.T, content []byte) []byte {
	t.Helper()
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

func TestDecodeFrameFacade(t *testing.T) {
	got, err := DecodeFrame(bytes.NewReader(buildFrame(t, []byte("framed content"))), DefaultOptions())
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if string(got) != "framed content" {
		t.Errorf("DecodeFrame() = %q, want %q", got, "framed content")
	}
}

func TestReaderFacadeConcatenation(t *testing.T) {
	var both bytes.Buffer
	both.Write(buildFrame(t, []byte("one-")))
	both.Write(buildFrame(t, []byte("two")))

	r := NewReader(bytes.NewReader(both.Bytes()), DefaultOptions())
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "one-two" {
		t.Errorf("ReadAll() = %q, want %q", got, "one-two")
	}
}

func TestDispatcherFacade(t *testing.T) {
	srcs := []io.Reader{
		bytes.NewReader(buildFrame(t, []byte("a"))),
		bytes.NewReader(buildFrame(t, []byte("b"))),
	}

	d := NewDispatcher(0)
	defer d.Stop()

	results, err := d.DecodeAll(srcs, DefaultOptions())
	if err != nil {
		t.Fatalf("DecodeAll() error = %v", err)
	}
	if string(results[0]) != "a" || string(results[1]) != "b" {
		t.Fatalf("DecodeAll() = %q, want [a b]", results)
	}
}
