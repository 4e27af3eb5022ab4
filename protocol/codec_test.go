package protocol

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/wire"
)

func roundTripRequest(t *testing.T, req Request) Request {
	t.Helper()
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := EncodeRequest(w, req); err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	got, err := DecodeRequest(wire.NewReader(&buf))
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	return got
}

func roundTripEvent(t *testing.T, ev Event) Event {
	t.Helper()
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := EncodeEvent(w, ev); err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}
	got, err := DecodeEvent(wire.NewReader(&buf))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	return got
}

func TestRequestRoundTrip(t *testing.T) {
	title := "xterm"
	cases := []Request{
		SurfaceRequest{Client: 1, Surface: 2, Payload: SurfaceDestroyed{}},
		SurfaceRequest{Client: 1, Surface: 2, Payload: SurfaceCommit{State: SurfaceState{
			Client:  1,
			Surface: 2,
			Role:    XdgToplevelRole{Id: 3, State: ToplevelState{Title: &title}},
			Children: []SubsurfacePosition{{Id: 2, X: 0, Y: 0}},
		}}},
		CursorImage{Serial: 5, Status: CursorImageHidden{}},
		CursorImage{Serial: 5, Status: CursorImageNamed{Name: "left_ptr"}},
		CursorImage{Serial: 5, Status: CursorImageSurface{ClientSurface: 9, Hotspot: Point{X: 1, Y: 2}}},
		ToplevelRequest{Client: 1, Toplevel: 3, Option: ToplevelSetMaximized{}},
		ToplevelRequest{Client: 1, Toplevel: 3, Option: ToplevelResize{Serial: 4, Edge: ResizeEdgeBottom | ResizeEdgeRight}},
		ToplevelRequest{Client: 1, Toplevel: 3, Option: ToplevelAckConfigure{Serial: 7}},
		PopupRequest{Client: 1, Popup: 6, Option: PopupDestroyed{}},
		PopupRequest{Client: 1, Popup: 6, Option: PopupAckConfigure{Serial: 8}},
		DataRequest{Kind: DataRequestSource{Kind: SourceRequestSend{Source: DataSourceDnD, MimeType: "text/plain"}}},
		DataRequest{Kind: DataRequestTransfer{Data: TransferData{Source: DataSourcePrimary, Bytes: []byte("hello")}}},
		ClientDisconnected{Client: 42},
		Capabilities{Xwayland: true},
	}
	for i, want := range cases {
		got := roundTripRequest(t, want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("case %d: round trip mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestEventRoundTrip(t *testing.T) {
	cases := []Event{
		WprsClientConnect{},
		OutputEvent{Kind: OutputRemoved{Id: 0xDEADBEEFCAFEBABE}},
		OutputEvent{Kind: OutputAdded{Info: OutputInfo{Id: 1, Model: "eDP-1", Modes: []OutputMode{{Dimensions: Size{W: 1920, H: 1080}, RefreshRate: 60000, Current: true}}}}},
		PointerFrame{Events: []PointerEvent{
			{Surface: 1, Kind: PointerEnter{Serial: 2}},
			{Surface: 1, Kind: PointerMotion{X: 1.5, Y: -2.25}},
			{Surface: 1, Kind: PointerAxis{Horizontal: AxisScroll{Absolute: 1, Discrete: 1, Stop: false}}},
		}},
		KeyboardEvent{Kind: KeyboardKey{Serial: 3, RawCode: 30, State: KeyPressed}},
		KeyboardEvent{Kind: KeyboardEnter{Serial: 3, Surface: 1, Keycodes: []uint32{1, 2}, Keysyms: []uint32{3, 4}}},
		ToplevelEvent{Toplevel: 5, Kind: ToplevelConfigure{Serial: 6, Size: Size{W: 100, H: 200}, State: WindowStateFromBits(0x3)}},
		ToplevelEvent{Toplevel: 5, Kind: ToplevelClose{}},
		PopupEvent{Popup: 7, Kind: PopupConfigure{Serial: 8, Geometry: Rect{X: 1, Y: 2, W: 3, H: 4}}},
		DataEvent{Kind: DataEventSource{Kind: SourceEventOffer{Source: DataSourceSelection, MimeTypes: []string{"text/plain", "text/html"}}}},
		SurfaceEvent{Surface: 9, Kind: SurfaceOutputsChanged{Outputs: []uint64{1, 2, 3}}},
	}
	for i, want := range cases {
		got := roundTripEvent(t, want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("case %d: round trip mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestWindowStateBitsIdentity(t *testing.T) {
	for bits := 0; bits <= 0xFF; bits++ {
		ws := WindowStateFromBits(uint16(bits))
		if got := ws.Bits(); got != uint16(bits) {
			t.Fatalf("bits=%d: Bits() = %d", bits, got)
		}
	}
}

func TestWindowStateSetClearHas(t *testing.T) {
	ws := WindowStateFromBits(0)
	ws = ws.Set(WindowStateMaximized)
	if !ws.Has(WindowStateMaximized) {
		t.Fatal("expected Maximized set")
	}
	ws = ws.Clear(WindowStateMaximized)
	if ws.Has(WindowStateMaximized) {
		t.Fatal("expected Maximized cleared")
	}
}

func TestSchemaHashStable(t *testing.T) {
	a := SchemaHash()
	b := SchemaHash()
	if a != b {
		t.Fatalf("SchemaHash not stable across calls: %d != %d", a, b)
	}
	if !VerifySchemaHash(a) {
		t.Fatal("VerifySchemaHash rejected this build's own hash")
	}
	if VerifySchemaHash(a ^ 1) {
		t.Fatal("VerifySchemaHash accepted a corrupted hash")
	}
}

func TestSurfaceStateEqualIgnoringBuffer(t *testing.T) {
	base := SurfaceState{Client: 1, Surface: 2, BufferScale: 1}
	a := base.Clone()
	a.Buffer = &BufferAssignment{Metadata: BufferMetadata{Width: 10, Height: 10, Stride: 40, Format: FormatArgb8888}}
	b := base.Clone()
	b.Buffer = nil
	if !a.EqualIgnoringBuffer(b) {
		t.Fatal("expected states differing only by Buffer to compare equal")
	}
	c := base.Clone()
	c.BufferScale = 2
	if a.EqualIgnoringBuffer(c) {
		t.Fatal("expected states differing by BufferScale to compare unequal")
	}
}

func TestSurfaceStateCodecRoundTrip(t *testing.T) {
	title := "term"
	geom := Rect{X: 0, Y: 0, W: 640, H: 480}
	s := SurfaceState{
		Client:      1,
		Surface:     2,
		BufferScale: 2,
		Role: XdgToplevelRole{Id: 3, State: ToplevelState{
			Title: &title,
			Window: WindowStateFromBits(0x3),
			Decoration: &DecorationState{Mode: DecorationServer, Source: DecorationSourceClientRequested},
		}},
		OpaqueRegion: &Region{Rects: []Rect{{X: 0, Y: 0, W: 10, H: 10}}},
		Children:     []SubsurfacePosition{{Id: 2, X: 0, Y: 0}, {Id: 4, X: 5, Y: 5}},
		Damage:       []Rect{{X: 1, Y: 1, W: 2, H: 2}},
		Outputs:      []uint64{7},
		Viewport:     &ViewportState{Dst: &Size{W: 100, H: 100}},
		Xdg:          &XdgSurfaceState{WindowGeometry: &geom},
	}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := EncodeSurfaceState(w, s); err != nil {
		t.Fatalf("EncodeSurfaceState: %v", err)
	}
	got, err := DecodeSurfaceState(wire.NewReader(&buf))
	if err != nil {
		t.Fatalf("DecodeSurfaceState: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("SurfaceState round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputInfoCodecRoundTrip(t *testing.T) {
	name := "eDP-1"
	o := OutputInfo{
		Id:           0x0102030405060708,
		Model:        "ModelX",
		Make:         "MakeY",
		Location:     Point{X: 0, Y: 0},
		PhysicalSize: Size{W: 300, H: 200},
		Subpixel:     SubpixelHorizontalRGB,
		Transform:    Transform90,
		ScaleFactor:  1,
		Modes: []OutputMode{
			{Dimensions: Size{W: 1920, H: 1080}, RefreshRate: 60000, Current: true, Preferred: true},
			{Dimensions: Size{W: 1280, H: 720}, RefreshRate: 60000},
		},
		Name: &name,
	}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := EncodeOutputInfo(w, o); err != nil {
		t.Fatalf("EncodeOutputInfo: %v", err)
	}
	got, err := DecodeOutputInfo(wire.NewReader(&buf))
	if err != nil {
		t.Fatalf("DecodeOutputInfo: %v", err)
	}
	if diff := cmp.Diff(o, got); diff != "" {
		t.Errorf("OutputInfo round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRequestUnknownTag(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	_ = w.WriteU8(0xFF)
	if _, err := DecodeRequest(wire.NewReader(&buf)); err == nil {
		t.Fatal("expected error decoding unknown Request tag")
	}
}

func TestClientIdPreservedAcrossSurfaceRequest(t *testing.T) {
	req := SurfaceRequest{Client: ids.ClientId(99), Surface: ids.WlSurfaceId(1), Payload: SurfaceDestroyed{}}
	got := roundTripRequest(t, req).(SurfaceRequest)
	if got.Client != 99 {
		t.Fatalf("Client = %d, want 99", got.Client)
	}
}
