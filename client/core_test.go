package client

import (
	"bytes"
	"testing"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/pixelfilter"
	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/shard"
	"github.com/wprsproj/wprs/wire"
)

type recordingApplier struct {
	caps        []protocol.Capabilities
	commits     []protocol.SurfaceState
	bgras       [][]byte
	destroyed   []ids.WlSurfaceId
	cursorCalls int
}

func (r *recordingApplier) OnCapabilities(caps protocol.Capabilities) error {
	r.caps = append(r.caps, caps)
	return nil
}
func (r *recordingApplier) OnSurfaceCommit(state protocol.SurfaceState, bgra []byte) error {
	r.commits = append(r.commits, state)
	r.bgras = append(r.bgras, bgra)
	return nil
}
func (r *recordingApplier) OnSurfaceDestroyed(_ ids.ClientId, surface ids.WlSurfaceId) error {
	r.destroyed = append(r.destroyed, surface)
	return nil
}
func (r *recordingApplier) OnCursorImage(protocol.CursorImage) error {
	r.cursorCalls++
	return nil
}
func (r *recordingApplier) OnToplevelRequest(protocol.ToplevelRequest) error { return nil }
func (r *recordingApplier) OnPopupRequest(protocol.PopupRequest) error      { return nil }
func (r *recordingApplier) OnDataRequest(protocol.DataRequest) error        { return nil }
func (r *recordingApplier) OnClientDisconnected(ids.ClientId) error         { return nil }

func TestHandleRequestCapabilities(t *testing.T) {
	app := &recordingApplier{}
	core := NewCore(app, NewDecompressor(1))

	if err := core.HandleRequest(protocol.Capabilities{Xwayland: true}); err != nil {
		t.Fatalf("HandleRequest: %v", err)
	}
	if len(app.caps) != 1 || !app.caps[0].Xwayland {
		t.Fatalf("caps = %v, want one Xwayland=true", app.caps)
	}
}

func TestHandleRequestSurfaceDestroyed(t *testing.T) {
	app := &recordingApplier{}
	core := NewCore(app, NewDecompressor(1))

	req := protocol.SurfaceRequest{Client: 1, Surface: 5, Payload: protocol.SurfaceDestroyed{}}
	if err := core.HandleRequest(req); err != nil {
		t.Fatalf("HandleRequest: %v", err)
	}
	if len(app.destroyed) != 1 || app.destroyed[0] != 5 {
		t.Fatalf("destroyed = %v, want [5]", app.destroyed)
	}
}

func TestHandleRequestCommitNoBuffer(t *testing.T) {
	app := &recordingApplier{}
	core := NewCore(app, NewDecompressor(1))

	state := protocol.SurfaceState{Client: 1, Surface: 2}
	req := protocol.SurfaceRequest{Client: 1, Surface: 2, Payload: protocol.SurfaceCommit{State: state}}
	if err := core.HandleRequest(req); err != nil {
		t.Fatalf("HandleRequest: %v", err)
	}
	if len(app.commits) != 1 || app.bgras[0] != nil {
		t.Fatalf("commits = %v, bgras = %v, want one commit with nil bgra", app.commits, app.bgras)
	}
}

func TestHandleRequestExternalBufferWithoutRawBufferErrors(t *testing.T) {
	app := &recordingApplier{}
	core := NewCore(app, NewDecompressor(1))

	state := protocol.SurfaceState{
		Client: 1, Surface: 2,
		Buffer: &protocol.BufferAssignment{Data: protocol.BufferData{Kind: protocol.BufferExternal}},
	}
	req := protocol.SurfaceRequest{Client: 1, Surface: 2, Payload: protocol.SurfaceCommit{State: state}}
	if err := core.HandleRequest(req); err == nil {
		t.Fatalf("HandleRequest: want error for an External buffer with no preceding RawBuffer")
	}
}

func TestHandleRawBufferThenCommitResolvesBgra(t *testing.T) {
	app := &recordingApplier{}
	// A fakePipeline-equivalent: build a one-shard uncompressed Set directly
	// whose bytes are the filtered representation of a 1x1 BGRA pixel, the
	// same way server.Pipeline.Compress would have produced it.
	bgra := []byte{10, 20, 30, 255}
	planes, err := pixelfilter.Filter(bgra)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	filtered := planes.Bytes()

	set := shard.Set{
		UncompressedSize: len(filtered),
		Shards:           []shard.Shard{{Idx: 0, UncompressedSize: len(filtered), Compressed: false, Bytes: filtered}},
	}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := set.Encode(w); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	core := NewCore(app, NewDecompressor(1))
	core.HandleRawBuffer(buf.Bytes())

	state := protocol.SurfaceState{
		Client: 1, Surface: 2,
		Buffer: &protocol.BufferAssignment{
			Metadata: protocol.BufferMetadata{Width: 1, Height: 1, Stride: 4, Format: protocol.FormatArgb8888},
			Data:     protocol.BufferData{Kind: protocol.BufferExternal},
		},
	}
	req := protocol.SurfaceRequest{Client: 1, Surface: 2, Payload: protocol.SurfaceCommit{State: state}}
	if err := core.HandleRequest(req); err != nil {
		t.Fatalf("HandleRequest: %v", err)
	}
	if len(app.bgras) != 1 || !bytes.Equal(app.bgras[0], bgra) {
		t.Fatalf("bgras = %v, want [%v]", app.bgras, bgra)
	}
}
