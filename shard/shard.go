// Package shard implements the sharded codec (spec.md §4.B): compressing a
// contiguous buffer into an ordered set of independently-decodable shards in
// parallel over a small worker pool, preserving byte-identity on round trip.
//
// Grounded on cmd/distri/initrd.go's use of github.com/klauspost/pgzip to
// parallelize gzip over an io.Writer — shard.Compressor/Decompressor
// generalize that "worker pool consuming blocks off a channel" idiom from
// whole-stream gzip blocks to addressable, independently compressed shards,
// using github.com/klauspost/compress's zstd codec as spec.md names.
package shard

import (
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

// MinSizeToCompress is the threshold below which a shard is stored raw
// (compressed=false) rather than paying zstd's fixed overhead.
const MinSizeToCompress = 4096

// InitialDecompressBufSize is the decompressor's initial reusable output
// buffer size; it grows on demand for larger frames.
const InitialDecompressBufSize = 36 * 1024 * 1024

// Shard is an independently (de)compressible byte range of a larger buffer,
// tagged with its starting byte offset in the original uncompressed data.
type Shard struct {
	Idx              int
	UncompressedSize int
	Compressed       bool
	Bytes            []byte
}

// Set is an ordered, non-empty list of shards reconstructing one
// contiguous buffer. Invariant: Shards is sorted by Idx, no two shards
// overlap, and the sum of UncompressedSize across shards equals
// UncompressedSize.
type Set struct {
	Shards           []Shard
	UncompressedSize int
}

// Encode writes the shard set in the wire format spec.md §4.B defines:
// a length-prefixed indices[] block, then uncompressed_size, then each
// shard's four fields in order (idx, uncompressed_size, compressed, data).
// The writer is flushed after each shard so a reader can overlap I/O with
// decompression.
func (s Set) Encode(w *wire.Writer) error {
	if err := w.WriteUsize(len(s.Shards)); err != nil {
		return err
	}
	for _, sh := range s.Shards {
		if err := w.WriteU32(uint32(sh.Idx)); err != nil {
			return err
		}
	}
	if err := w.WriteU32(uint32(s.UncompressedSize)); err != nil {
		return err
	}
	for _, sh := range s.Shards {
		if err := w.WriteU32(uint32(sh.Idx)); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(sh.UncompressedSize)); err != nil {
			return err
		}
		if err := w.WriteBool(sh.Compressed); err != nil {
			return err
		}
		if err := w.WriteBytes(sh.Bytes); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a shard set previously written by Encode.
func Decode(r *wire.Reader) (Set, error) {
	nIndices, err := r.NonZeroUsize()
	if err != nil {
		return Set{}, err
	}
	indices := make([]int, nIndices)
	for i := range indices {
		v, err := r.U32()
		if err != nil {
			return Set{}, err
		}
		indices[i] = int(v)
	}
	if !sort.IntsAreSorted(indices) {
		return Set{}, wprserr.Wrap(wprserr.BadData, "shard: indices not sorted")
	}
	uncompressedSize, err := r.U32()
	if err != nil {
		return Set{}, err
	}
	shards := make([]Shard, nIndices)
	for i := range shards {
		idx, err := r.U32()
		if err != nil {
			return Set{}, err
		}
		usz, err := r.U32()
		if err != nil {
			return Set{}, err
		}
		compressed, err := r.Bool()
		if err != nil {
			return Set{}, err
		}
		data, err := r.Bytes()
		if err != nil {
			return Set{}, err
		}
		if int(idx) != indices[i] {
			return Set{}, wprserr.Wrap(wprserr.BadData, "shard: idx field disagrees with indices[] at position %d", i)
		}
		shards[i] = Shard{Idx: int(idx), UncompressedSize: int(usz), Compressed: compressed, Bytes: data}
	}
	return Set{Shards: shards, UncompressedSize: int(uncompressedSize)}, nil
}

type compressJob struct {
	idx  int
	data []byte
	out  chan<- Shard
}

// Compressor compresses a single contiguous buffer into an ordered shard set
// using a fixed-size pool of worker goroutines that live for the
// compressor's lifetime.
type Compressor struct {
	jobs chan compressJob
	wg   sync.WaitGroup
}

// NewCompressor starts workers worker goroutines, each with its own zstd
// encoder configured at level.
func NewCompressor(workers int, level zstd.EncoderLevel) *Compressor {
	if workers < 1 {
		workers = 1
	}
	c := &Compressor{jobs: make(chan compressJob)}
	for i := 0; i < workers; i++ {
		c.wg.Add(1)
		go c.worker(level)
	}
	return c
}

func (c *Compressor) worker(level zstd.EncoderLevel) {
	defer c.wg.Done()
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		// Construction only fails on invalid options; level is always a
		// valid constant we control, so this is unreachable in practice.
		panic(err)
	}
	defer enc.Close()
	for job := range c.jobs {
		var sh Shard
		sh.Idx = job.idx
		sh.UncompressedSize = len(job.data)
		if len(job.data) < MinSizeToCompress {
			sh.Compressed = false
			sh.Bytes = append([]byte(nil), job.data...)
		} else {
			sh.Compressed = true
			sh.Bytes = enc.EncodeAll(job.data, nil)
		}
		job.out <- sh
	}
}

// Close shuts down the worker pool. The Compressor must not be used
// afterwards.
func (c *Compressor) Close() {
	close(c.jobs)
	c.wg.Wait()
}

// Compress splits data into n equal-sized chunks (the last chunk absorbs any
// remainder; data shorter than n bytes yields one 1-byte chunk per byte),
// dispatches them to the worker pool with idx = chunk_index *
// chunk_size, and returns the resulting shard set sorted by idx. n must be
// at least 1; data may be empty, in which case a single empty shard is
// produced.
func (c *Compressor) Compress(data []byte, n int) Set {
	if n < 1 {
		n = 1
	}
	if len(data) == 0 {
		out := make(chan Shard, 1)
		c.jobs <- compressJob{idx: 0, data: nil, out: out}
		sh := <-out
		return Set{Shards: []Shard{sh}, UncompressedSize: 0}
	}
	chunkSize := len(data) / n
	if chunkSize == 0 {
		chunkSize = 1
	}
	out := make(chan Shard, n)
	sent := 0
	for i := 0; i < n; i++ {
		start := i * chunkSize
		if start >= len(data) {
			break
		}
		end := start + chunkSize
		if i == n-1 || end > len(data) {
			end = len(data)
		}
		c.jobs <- compressJob{idx: start, data: data[start:end], out: out}
		sent++
		if end == len(data) {
			break
		}
	}
	shards := make([]Shard, sent)
	for i := 0; i < sent; i++ {
		shards[i] = <-out
	}
	sort.Slice(shards, func(i, j int) bool { return shards[i].Idx < shards[j].Idx })
	return Set{Shards: shards, UncompressedSize: len(data)}
}
