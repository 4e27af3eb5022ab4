// Package backend defines the server-side capture abstraction spec.md §4.F
// names: a PollingBackend is driven on a fixed tick by the server's run
// loop and reports surface snapshots and per-tick observations; the server
// core translates those into Requests without needing to know what kind of
// backend produced them.
//
// Grounded on the teacher's plugin-shaped interfaces (internal/build's
// Pkg/Builder split) generalized to this domain; the one concrete
// implementation shipped here, MockBackend, is grounded directly on
// original_source/src/server/backends/mock.
package backend

import (
	"time"

	"github.com/wprsproj/wprs/ids"
	"github.com/wprsproj/wprs/protocol"
)

// SurfaceSnapshot is one surface's full state as reported by
// InitialSnapshot, before any commit-engine dirty tracking has run.
type SurfaceSnapshot struct {
	State protocol.SurfaceState
}

// BackendObservation is what a PollingBackend reports out of Poll. A
// surface commit optionally carries a full BGRA frame; when it does, the
// server core is responsible for running the pixel filter and shard codec
// over it and externalizing the buffer before constructing the commit
// Request. A nil Bgra submits the commit assuming its buffer has already
// been assigned (including BufferExternal payloads forwarded verbatim).
type BackendObservation struct {
	SurfaceCommit SurfaceCommitObservation

	// Cursor is non-nil when the pointer cursor image changed this tick
	// (spec.md §4.G). The hotspot resolution against the compositor's
	// cursor-surface user data is the compositor binding's job, an
	// external collaborator spec.md §1 excludes; only the resolved point
	// is reported here.
	Cursor *CursorObservation

	// Decoration is non-nil when a toplevel's decoration preference
	// changed this tick, translated from whichever of xdg_decoration or
	// the KDE server-decoration legacy protocol the compositor received
	// (spec.md §4.G).
	Decoration *DecorationObservation
}

type SurfaceCommitObservation struct {
	State protocol.SurfaceState
	Bgra  []byte // ARGB8888, row-major, len == State.Buffer.Metadata.Len(); nil if none
}

// CursorObservation reports a new pointer cursor image.
type CursorObservation struct {
	Serial  protocol.Serial
	Status  protocol.CursorImageStatus
	Hotspot protocol.Point // only meaningful when Status is CursorImageSurface
}

// DecorationObservation reports a toplevel's requested decoration mode.
type DecorationObservation struct {
	Surface ids.WlSurfaceId
	Mode    protocol.DecorationMode
	Source  protocol.DecorationSource
}

// Backend is the unified server backend interface (spec.md §4.F): the server
// core dispatches each Event variant to the matching On* method rather than
// handing the backend the raw union, so a backend only has to implement the
// variants it cares about tracking. Polling backends are adapted to it
// automatically by Adapt, which forwards every On* call back through the
// single HandleClientEvent entry point; an event-driven backend (a real
// Wayland compositor) would implement the On* methods directly instead,
// outside this package's scope.
type Backend interface {
	// TickInterval reports how often the server core should call Poll.
	// server.Serve, which reads this method off the PollingBackend it is
	// given, substitutes its 1/30 s default for zero or a negative value;
	// no value turns polling off.
	TickInterval() time.Duration

	Capabilities() protocol.Capabilities

	InitialSnapshot() ([]SurfaceSnapshot, error)

	// Poll is called once per tick and reports what changed since the
	// previous call.
	Poll() ([]BackendObservation, error)

	OnOutputEvent(protocol.OutputEvent) error
	OnPointerFrame(protocol.PointerFrame) error
	OnKeyboardEvent(protocol.KeyboardEvent) error
	OnToplevelEvent(protocol.ToplevelEvent) error
	OnPopupEvent(protocol.PopupEvent) error
	OnDataEvent(protocol.DataEvent) error
	OnSurfaceEvent(protocol.SurfaceEvent) error
}

// PollingBackend is the narrower interface most backends implement; Backend
// itself adds TickInterval so the server core has one shape to depend on
// regardless of how a given backend is driven.
type PollingBackend interface {
	Capabilities() protocol.Capabilities
	InitialSnapshot() ([]SurfaceSnapshot, error)
	Poll() ([]BackendObservation, error)
	HandleClientEvent(protocol.Event) error
}

// pollingAdapter lifts a PollingBackend to Backend with a fixed tick
// interval, mirroring original_source's blanket "impl<T: PollingBackend>
// ServerBackend for T" — Go has no blanket impls, so the adaptation is an
// explicit wrapper type instead.
type pollingAdapter struct {
	PollingBackend
	interval time.Duration
}

// Adapt wraps a PollingBackend as a Backend polled every interval.
func Adapt(pb PollingBackend, interval time.Duration) Backend {
	return pollingAdapter{PollingBackend: pb, interval: interval}
}

func (p pollingAdapter) TickInterval() time.Duration { return p.interval }

func (p pollingAdapter) OnOutputEvent(ev protocol.OutputEvent) error {
	return p.HandleClientEvent(ev)
}
func (p pollingAdapter) OnPointerFrame(ev protocol.PointerFrame) error {
	return p.HandleClientEvent(ev)
}
func (p pollingAdapter) OnKeyboardEvent(ev protocol.KeyboardEvent) error {
	return p.HandleClientEvent(ev)
}
func (p pollingAdapter) OnToplevelEvent(ev protocol.ToplevelEvent) error {
	return p.HandleClientEvent(ev)
}
func (p pollingAdapter) OnPopupEvent(ev protocol.PopupEvent) error {
	return p.HandleClientEvent(ev)
}
func (p pollingAdapter) OnDataEvent(ev protocol.DataEvent) error {
	return p.HandleClientEvent(ev)
}
func (p pollingAdapter) OnSurfaceEvent(ev protocol.SurfaceEvent) error {
	return p.HandleClientEvent(ev)
}
