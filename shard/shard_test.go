package shard

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/wprsproj/wprs/wire"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	rand.New(rand.NewSource(42)).Read(b)
	return b
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 100, 4095, 4096, 4097, 1 << 20}
	ns := []int{1, 2, 3, 4, 8}
	for _, size := range sizes {
		for _, n := range ns {
			data := randomBytes(t, size)
			c := NewCompressor(2, zstd.SpeedFastest)
			set := c.Compress(data, n)
			c.Close()

			d := NewDecompressor(2)
			got, err := d.DecompressOwning(set)
			d.Close()
			if err != nil {
				t.Fatalf("size=%d n=%d: DecompressOwning: %v", size, n, err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("size=%d n=%d: round trip mismatch: got %d bytes, want %d", size, n, len(got), len(data))
			}
		}
	}
}

func TestCompressBelowThresholdIsUncompressed(t *testing.T) {
	data := randomBytes(t, 100)
	c := NewCompressor(1, zstd.SpeedFastest)
	defer c.Close()
	set := c.Compress(data, 1)
	for _, sh := range set.Shards {
		if sh.Compressed {
			t.Fatalf("shard under MinSizeToCompress reported compressed=true")
		}
	}
}

func TestCompressAboveThresholdIsCompressed(t *testing.T) {
	// Highly compressible data so the compressed form is smaller, but the
	// important assertion is the compressed flag, not the ratio.
	data := bytes.Repeat([]byte{0xAB}, MinSizeToCompress+1)
	c := NewCompressor(1, zstd.SpeedFastest)
	defer c.Close()
	set := c.Compress(data, 1)
	if len(set.Shards) != 1 || !set.Shards[0].Compressed {
		t.Fatalf("shard at/above MinSizeToCompress was not compressed: %+v", set.Shards)
	}
}

func TestShardOrderingAndSizes(t *testing.T) {
	data := randomBytes(t, 1<<20) // 1 MiB
	c := NewCompressor(4, zstd.SpeedFastest)
	defer c.Close()
	set := c.Compress(data, 4)
	if len(set.Shards) != 4 {
		t.Fatalf("got %d shards, want 4", len(set.Shards))
	}
	wantIdx := []int{0, 262144, 524288, 786432}
	for i, sh := range set.Shards {
		if sh.Idx != wantIdx[i] {
			t.Errorf("shard %d: idx=%d, want %d", i, sh.Idx, wantIdx[i])
		}
		if sh.UncompressedSize != 262144 {
			t.Errorf("shard %d: uncompressed_size=%d, want 262144", i, sh.UncompressedSize)
		}
	}
}

func TestSetWireRoundTrip(t *testing.T) {
	data := randomBytes(t, 1<<16)
	c := NewCompressor(2, zstd.SpeedFastest)
	set := c.Compress(data, 4)
	c.Close()

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := set.Encode(w); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(wire.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if got.UncompressedSize != set.UncompressedSize {
		t.Fatalf("uncompressed size mismatch: got %d, want %d", got.UncompressedSize, set.UncompressedSize)
	}
	if len(got.Shards) != len(set.Shards) {
		t.Fatalf("shard count mismatch: got %d, want %d", len(got.Shards), len(set.Shards))
	}
	for i := range set.Shards {
		if got.Shards[i].Idx != set.Shards[i].Idx {
			t.Errorf("shard %d idx: got %d, want %d", i, got.Shards[i].Idx, set.Shards[i].Idx)
		}
		if !bytes.Equal(got.Shards[i].Bytes, set.Shards[i].Bytes) {
			t.Errorf("shard %d bytes mismatch", i)
		}
	}

	d := NewDecompressor(2)
	defer d.Close()
	final, err := d.DecompressOwning(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(final, data) {
		t.Fatalf("final decompressed bytes mismatch")
	}
}

func TestDecodeRejectsUnsortedIndices(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	w.WriteUsize(2)
	w.WriteU32(10)
	w.WriteU32(5) // out of order
	w.WriteU32(20)
	w.WriteU32(10)
	w.WriteU32(5)
	w.WriteBool(false)
	w.WriteBytes(make([]byte, 5))
	w.WriteU32(5)
	w.WriteU32(5)
	w.WriteBool(false)
	w.WriteBytes(make([]byte, 5))

	_, err := Decode(wire.NewReader(&buf))
	if err == nil {
		t.Fatal("expected error for unsorted indices")
	}
}
