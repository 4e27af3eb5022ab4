// Package client implements the client-side protocol core (spec.md §4.E):
// applying the server's Request stream (surface commits/destroys, cursor
// image, toplevel/popup options, capabilities) to whatever local
// representation an Applier maintains, and resolving the externalized
// buffer bytes a preceding RawBuffer frame carries before handing a commit
// to it.
//
// Grounded the same way package server is: original_source/src/client's
// event-loop-driven apply step, translated to Go's interface dispatch the
// way cmd/distri/export.go's subcommand switch reads.
package client

import (
	"github.com/wprsproj/wprs/pixelfilter"
	"github.com/wprsproj/wprs/shard"
)

// Decompressor reverses Pipeline.Compress (package server): shard-decompress
// the raw bytes a RawBuffer frame carried, then undo the pixel filter to
// recover plain BGRA.
type Decompressor struct {
	decompressor *shard.Decompressor
}

// NewDecompressor returns a Decompressor running its shard decompression
// over workers goroutines.
func NewDecompressor(workers int) *Decompressor {
	return &Decompressor{decompressor: shard.NewDecompressor(workers)}
}

func (d *Decompressor) Close() { d.decompressor.Close() }

// Decompress turns a decoded shard Set back into BGRA pixel bytes.
func (d *Decompressor) Decompress(set shard.Set) ([]byte, error) {
	raw, err := d.decompressor.DecompressOwning(set)
	if err != nil {
		return nil, err
	}
	n := len(raw) / 4
	planes := pixelfilter.NewPlanes(n)
	copy(planes.Bytes(), raw)
	return pixelfilter.Unfilter(planes), nil
}
