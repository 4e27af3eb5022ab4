package backend

import (
	"flag"
	"time"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

// MockOptions configures MockBackend: a fixed set of toplevel windows, each
// painted with an animated test pattern instead of real compositor content.
// Grounded on original_source/src/server/backends/mock/mod.rs's MockOptions
// and its clap-derived CLI, translated to the teacher's flag.FlagSet idiom
// (cmd/distri/export.go).
type MockOptions struct {
	Width, Height int32
	FPS           int
	Windows       int
	Title         string
}

// DefaultMockOptions returns the same defaults original_source ships.
func DefaultMockOptions() MockOptions {
	return MockOptions{Width: 512, Height: 512, FPS: 30, Windows: 1, Title: "wprs mock"}
}

// ParseMockFlags registers the mock backend's flags on fset and parses args
// against them, matching the `distri export`/cmd/distri subcommand idiom of
// one FlagSet per verb (cmd/distri/export.go).
func ParseMockFlags(fset *flag.FlagSet, args []string) (MockOptions, error) {
	defaults := DefaultMockOptions()
	width := fset.Int("mock-width", int(defaults.Width), "surface width in pixels")
	height := fset.Int("mock-height", int(defaults.Height), "surface height in pixels")
	fps := fset.Int("mock-fps", defaults.FPS, "frames per second")
	windows := fset.Int("mock-windows", defaults.Windows, "number of toplevel windows to simulate")
	title := fset.String("mock-title", defaults.Title, "window title")
	if err := fset.Parse(args); err != nil {
		return MockOptions{}, err
	}
	return MockOptions{
		Width:   int32(*width),
		Height:  int32(*height),
		FPS:     *fps,
		Windows: *windows,
		Title:   *title,
	}, nil
}

// badgeSize is the mock subsurface badge's fixed width and height in
// pixels (spec.md §4.G's subsurface tree needs at least one real multi-
// surface backend to exercise its sync-children-first commit ordering;
// MockBackend's badge is that minimal case).
const badgeSize = 16

// MockSurface is one simulated toplevel window, plus the sync subsurface
// badge painted in its top-right corner.
type MockSurface struct {
	Client        ids.ClientId
	Surface       ids.WlSurfaceId
	Toplevel      ids.XdgToplevelId
	Badge         ids.WlSurfaceId
	Title         string
	Width, Height int32
}

// BaseState returns the toplevel's committed state sans buffer data; the
// caller fills in Buffer.Data before sending (External on snapshot,
// whatever the pixel pipeline produced on each poll).
func (m MockSurface) BaseState() protocol.SurfaceState {
	return protocol.SurfaceState{
		Client:  m.Client,
		Surface: m.Surface,
		Buffer: &protocol.BufferAssignment{
			Metadata: protocol.BufferMetadata{
				Width:  m.Width,
				Height: m.Height,
				Stride: m.Width * 4,
				Format: protocol.FormatArgb8888,
			},
			Data: protocol.BufferData{Kind: protocol.BufferExternal},
		},
		Role: protocol.XdgToplevelRole{
			Id: m.Toplevel,
			State: protocol.ToplevelState{
				Title: strPtr(m.Title),
				AppId: strPtr("wprs-mock"),
			},
		},
		BufferScale: 1,
		Children: []protocol.SubsurfacePosition{
			{Id: m.Surface, X: 0, Y: 0},
			{Id: m.Badge, X: m.Width - badgeSize, Y: 0},
		},
	}
}

// BadgeState returns the badge subsurface's committed state sans buffer
// data. It is always a sync subsurface, so when its toplevel commits the
// commit engine ships any pending badge change before the toplevel
// (spec.md §4.G). Each Poll reports the badge with a fresh frame ahead of
// its toplevel, and a commit carrying a new buffer ships on its own.
func (m MockSurface) BadgeState() protocol.SurfaceState {
	return protocol.SurfaceState{
		Client:  m.Client,
		Surface: m.Badge,
		Buffer: &protocol.BufferAssignment{
			Metadata: protocol.BufferMetadata{
				Width:  badgeSize,
				Height: badgeSize,
				Stride: badgeSize * 4,
				Format: protocol.FormatArgb8888,
			},
			Data: protocol.BufferData{Kind: protocol.BufferExternal},
		},
		Role: protocol.SubSurfaceRole{
			Parent: m.Surface,
			X:      m.Width - badgeSize,
			Y:      0,
			Sync:   true,
		},
		BufferScale: 1,
		Children:    []protocol.SubsurfacePosition{{Id: m.Badge, X: 0, Y: 0}},
	}
}

func strPtr(s string) *string { return &s }

// MockBackend is a PollingBackend with no compositor behind it at all: it
// paints each simulated window with an animated gradient every tick. It
// exists to exercise the server core, commit engine, and codec paths
// end-to-end without a real Wayland compositor (original_source/src/
// server/backends/mock).
type MockBackend struct {
	surfaces []MockSurface
	fps      int
	frame    uint64
}

// NewMockBackend builds the fixed set of simulated toplevel windows opts
// describes.
func NewMockBackend(opts MockOptions) *MockBackend {
	windows := opts.Windows
	if windows < 1 {
		windows = 1
	}
	surfaces := make([]MockSurface, windows)
	for i := 0; i < windows; i++ {
		title := opts.Title
		if windows > 1 {
			title = opts.Title + " #" + itoa(i)
		}
		surfaces[i] = MockSurface{
			Client:   ids.ClientId(1),
			Surface:  ids.WlSurfaceId(i + 1),
			Toplevel: ids.XdgToplevelId(i + 1),
			Badge:    ids.WlSurfaceId(windows + i + 1),
			Title:    title,
			Width:    opts.Width,
			Height:   opts.Height,
		}
	}
	return &MockBackend{surfaces: surfaces, fps: max1(opts.FPS)}
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// TickInterval reports the poll period matching the configured FPS.
// *MockBackend has no On* methods, so it is not a Backend by itself, and
// Adapt uses its own interval argument rather than this method; server.Serve
// reads this method off the PollingBackend it is given.
func (m *MockBackend) TickInterval() time.Duration {
	return time.Second / time.Duration(max1(m.fps))
}

func (m *MockBackend) Capabilities() protocol.Capabilities {
	return protocol.Capabilities{Xwayland: false}
}

func (m *MockBackend) InitialSnapshot() ([]SurfaceSnapshot, error) {
	out := make([]SurfaceSnapshot, 0, 2*len(m.surfaces))
	for _, s := range m.surfaces {
		out = append(out, SurfaceSnapshot{State: s.BaseState()}, SurfaceSnapshot{State: s.BadgeState()})
	}
	return out, nil
}

func (m *MockBackend) Poll() ([]BackendObservation, error) {
	m.frame++
	out := make([]BackendObservation, 0, 2*len(m.surfaces))
	for i, s := range m.surfaces {
		// The sync badge ships before its toplevel (original_source/src/
		// server/smithay_handlers.rs's CompositorHandler::commit ships a
		// surface's sync children before the surface itself, "so that the
		// client already has them when the parent is committed").
		badge := solidColorBGRA(badgeSize, badgeSize, 0, 0, byte(128+64*((m.frame/uint64(m.fps))%2)), 255)
		out = append(out, BackendObservation{SurfaceCommit: SurfaceCommitObservation{
			State: s.BadgeState(),
			Bgra:  badge,
		}})

		bgra := movingGradientBGRA(s.Width, s.Height, m.frame+uint64(i)*37)
		obs := BackendObservation{SurfaceCommit: SurfaceCommitObservation{
			State: s.BaseState(),
			Bgra:  bgra,
		}}
		if i == 0 {
			// Exercise the cursor and decoration observation paths through
			// the one binary that ships this backend; a real compositor
			// binding would report these only when the pointer or a
			// toplevel's decoration preference actually changes.
			obs.Cursor = &CursorObservation{
				Serial: protocol.Serial(m.frame),
				Status: protocol.CursorImageNamed{Name: "default"},
			}
			obs.Decoration = &DecorationObservation{
				Surface: s.Surface,
				Mode:    protocol.DecorationClient,
				Source:  protocol.DecorationSourceCompositorDefault,
			}
		}
		out = append(out, obs)
	}
	return out, nil
}

func (m *MockBackend) HandleClientEvent(protocol.Event) error {
	// The mock backend has no input model to apply events to.
	return nil
}
