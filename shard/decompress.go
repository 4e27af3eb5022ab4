package shard

import (
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/wprsproj/wprs/wprserr"
)

type decompressJob struct {
	shard Shard
	slice []byte
	errCh chan<- error
}

// Decompressor reconstructs a contiguous buffer from a shard set using a
// fixed-size pool of worker goroutines, each either zstd-decompressing into
// its assigned output slice or memcpying raw bytes. It maintains a reusable
// output buffer that grows on demand, so repeated calls on similarly-sized
// frames avoid reallocating.
type Decompressor struct {
	jobs chan decompressJob
	wg   sync.WaitGroup

	mu  sync.Mutex
	buf []byte
}

// NewDecompressor starts workers worker goroutines, each with its own zstd
// decoder.
func NewDecompressor(workers int) *Decompressor {
	if workers < 1 {
		workers = 1
	}
	d := &Decompressor{
		jobs: make(chan decompressJob),
		buf:  make([]byte, InitialDecompressBufSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Decompressor) worker() {
	defer d.wg.Done()
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	defer dec.Close()
	for job := range d.jobs {
		if !job.shard.Compressed {
			if len(job.shard.Bytes) != len(job.slice) {
				job.errCh <- wprserr.Wrap(wprserr.BadData, "shard: raw shard length %d does not match expected %d", len(job.shard.Bytes), len(job.slice))
				continue
			}
			copy(job.slice, job.shard.Bytes)
			job.errCh <- nil
			continue
		}
		out, err := dec.DecodeAll(job.shard.Bytes, job.slice[:0])
		if err != nil {
			job.errCh <- wprserr.Wrap(wprserr.BadData, "shard: zstd decode failed")
			continue
		}
		if len(out) != len(job.slice) {
			job.errCh <- wprserr.Wrap(wprserr.BadData, "shard: decoded length %d does not match expected %d", len(out), len(job.slice))
			continue
		}
		job.errCh <- nil
	}
}

// Close shuts down the worker pool. The Decompressor must not be used
// afterwards.
func (d *Decompressor) Close() {
	close(d.jobs)
	d.wg.Wait()
}

// ensureBuf grows d.buf (under lock) to at least n bytes.
func (d *Decompressor) ensureBuf(n int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	return d.buf[:n]
}

// partition returns, for a sorted nonempty indices slice and a total
// uncompressedSize, the non-overlapping slices of buf covering
// [idx, next_idx) for each index.
func partition(buf []byte, indices []int, uncompressedSize int) [][]byte {
	slices := make([][]byte, len(indices))
	for i, idx := range indices {
		end := uncompressedSize
		if i+1 < len(indices) {
			end = indices[i+1]
		}
		slices[i] = buf[idx:end]
	}
	return slices
}

// dispatch sends one decompressJob per shard and waits for all workers to
// finish, returning the first error encountered (if any).
func (d *Decompressor) dispatch(shards []Shard, slices [][]byte) error {
	if len(shards) != len(slices) {
		return wprserr.Wrap(wprserr.BadData, "shard: %d shards but %d index slices", len(shards), len(slices))
	}
	errCh := make(chan error, len(shards))
	for i, sh := range shards {
		d.jobs <- decompressJob{shard: sh, slice: slices[i], errCh: errCh}
	}
	var firstErr error
	for range shards {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DecompressBorrow reconstructs set into the decompressor's reusable output
// buffer and invokes fn with a short-lived slice over the decompressed
// bytes. The slice is only valid for the duration of fn.
func (d *Decompressor) DecompressBorrow(set Set, fn func([]byte) error) error {
	if len(set.Shards) == 0 {
		return wprserr.Wrap(wprserr.BadData, "shard: empty shard set")
	}
	indices := make([]int, len(set.Shards))
	for i, sh := range set.Shards {
		indices[i] = sh.Idx
	}
	buf := d.ensureBuf(set.UncompressedSize)
	slices := partition(buf, indices, set.UncompressedSize)
	if err := d.dispatch(set.Shards, slices); err != nil {
		return err
	}
	return fn(buf[:set.UncompressedSize])
}

// DecompressOwning reconstructs set, returning the decompressed bytes by
// moving the decompressor's output buffer to the caller and replacing it
// with a freshly allocated one.
func (d *Decompressor) DecompressOwning(set Set) ([]byte, error) {
	if len(set.Shards) == 0 {
		return nil, wprserr.Wrap(wprserr.BadData, "shard: empty shard set")
	}
	indices := make([]int, len(set.Shards))
	for i, sh := range set.Shards {
		indices[i] = sh.Idx
	}
	buf := d.ensureBuf(set.UncompressedSize)
	slices := partition(buf, indices, set.UncompressedSize)
	if err := d.dispatch(set.Shards, slices); err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.buf = make([]byte, InitialDecompressBufSize)
	d.mu.Unlock()
	return buf[:set.UncompressedSize], nil
}
