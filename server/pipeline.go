package server

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
	"github.com/wprsproj/wprs/pixelfilter"
	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/shard"
	"github.com/wprsproj/wprs/wire"
)

// Pipeline owns the worker pools that turn a raw BGRA frame into a
// compressed BufferData (spec.md §4.B/§4.C): the pixel filter runs inline
// (it parallelizes internally via pixelfilter.Workers goroutines) and the
// result is handed to a shard.Compressor pool shared across every surface.
type Pipeline struct {
	compressor *shard.Compressor
}

// NewPipeline starts a shard compressor with shardWorkers goroutines at the
// given zstd level; the pixel filter always uses pixelfilter.Workers.
func NewPipeline(shardWorkers int, level zstd.EncoderLevel) *Pipeline {
	return &Pipeline{compressor: shard.NewCompressor(shardWorkers, level)}
}

// Close shuts down the underlying compressor pool.
func (p *Pipeline) Close() { p.compressor.Close() }

// Compress runs the forward pixel filter over bgra and shards+compresses
// the result, returning a ready-to-store Compressed BufferData.
func (p *Pipeline) Compress(bgra []byte, shardCount int) (protocol.BufferData, error) {
	planes, err := pixelfilter.Filter(bgra)
	if err != nil {
		return protocol.BufferData{}, err
	}
	set := p.compressor.Compress(planes.Bytes(), shardCount)
	return protocol.BufferData{Kind: protocol.BufferCompressed, Compressed: &set}, nil
}

// externalize applies spec.md §4.F's externalize-on-send rule: a Compressed
// BufferData never travels inline inside a Request. Its shard set is
// encoded into a standalone RawBuffer frame that must be sent immediately
// before the commit, and the commit's own copy of the state is rewritten to
// reference it positionally (BufferExternal) instead.
//
// Uncompressed and External buffers, and states with no buffer at all, pass
// through unchanged; externalize returns a nil raw slice in that case.
func externalize(state protocol.SurfaceState) (protocol.SurfaceState, []byte, error) {
	if state.Buffer == nil || state.Buffer.Data.Kind != protocol.BufferCompressed {
		return state, nil, nil
	}
	out := state.Clone()
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := out.Buffer.Data.Compressed.Encode(w); err != nil {
		return protocol.SurfaceState{}, nil, err
	}
	if err := w.Flush(); err != nil {
		return protocol.SurfaceState{}, nil, err
	}
	out.Buffer.Data = protocol.BufferData{Kind: protocol.BufferExternal}
	return out, buf.Bytes(), nil
}
