// Package wayland adapts the wlturbo client toolkit into the typed lifecycle
// events and surface handles the rest of the daemon consumes. It binds the
// globals a wallpaper needs (compositor, shm, layer shell, outputs) plus the
// optional quality-of-life protocols (viewporter, fractional scale,
// single-pixel buffers) when the compositor offers them.
package wayland

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bnema/wlturbo"
	"github.com/rs/zerolog"

	"github.com/bnema/tabula/internal/app"
	"github.com/bnema/tabula/internal/output"
)

// ErrMissingGlobal is returned when the compositor lacks a protocol the
// daemon cannot run without.
var ErrMissingGlobal = errors.New("required wayland global not offered")

// outputState is the session's per-output protocol bookkeeping, keyed by the
// registry global name, which doubles as the output id everywhere else.
type outputState struct {
	proxy     *Output
	transform output.Transform
	scale     output.Scale // integer scale from wl_output
	fracScale output.Scale // 0 until a preferred_scale event arrives
}

// effectiveScale prefers the fractional scale when the compositor sent one.
func (st *outputState) effectiveScale() output.Scale {
	if st.fracScale > 0 {
		return st.fracScale
	}
	return st.scale
}

// Session is the connection to the compositor. It implements app.EventSource
// and surface.Conn. All methods run on the event-loop goroutine except
// Close, which may be called from a signal handler.
type Session struct {
	display *wlturbo.Display
	log     zerolog.Logger

	compositor  *Compositor
	shm         *Shm
	layerShell  *LayerShell
	viewporter  *Viewporter
	fractional  *FractionalScaleManager
	singlePixel *SinglePixelBufferManager

	outputs map[uint32]*outputState
	handles map[uint32]*surfaceHandle
	events  []app.Event
	closing atomic.Bool
}

// Connect dials the compositor named by WAYLAND_DISPLAY, binds globals and
// verifies that the required ones are present.
func Connect(log zerolog.Logger) (*Session, error) {
	display, err := wlturbo.Connect("")
	if err != nil {
		return nil, fmt.Errorf("connect wayland display: %w", err)
	}

	s := &Session{
		display: display,
		log:     log.With().Str("component", "wayland").Logger(),
		outputs: make(map[uint32]*outputState),
		handles: make(map[uint32]*surfaceHandle),
	}

	reg := display.Registry()
	reg.AddHandler(ifaceCompositor, func(r *wlturbo.Registry, name, version uint32) {
		s.compositor = &Compositor{}
		s.bind(r, name, ifaceCompositor, min(version, 4), s.compositor)
	})
	reg.AddHandler(ifaceShm, func(r *wlturbo.Registry, name, version uint32) {
		s.shm = &Shm{}
		s.bind(r, name, ifaceShm, 1, s.shm)
	})
	reg.AddHandler(ifaceLayerShell, func(r *wlturbo.Registry, name, version uint32) {
		s.layerShell = &LayerShell{}
		s.bind(r, name, ifaceLayerShell, min(version, 4), s.layerShell)
	})
	reg.AddHandler(ifaceViewporter, func(r *wlturbo.Registry, name, version uint32) {
		s.viewporter = &Viewporter{}
		s.bind(r, name, ifaceViewporter, 1, s.viewporter)
	})
	reg.AddHandler(ifaceFractionalScale, func(r *wlturbo.Registry, name, version uint32) {
		s.fractional = &FractionalScaleManager{}
		s.bind(r, name, ifaceFractionalScale, 1, s.fractional)
	})
	reg.AddHandler(ifaceSinglePixel, func(r *wlturbo.Registry, name, version uint32) {
		s.singlePixel = &SinglePixelBufferManager{}
		s.bind(r, name, ifaceSinglePixel, 1, s.singlePixel)
	})
	reg.AddHandler(ifaceOutput, func(r *wlturbo.Registry, name, version uint32) {
		s.bindOutput(r, name, version)
	})

	// wlturbo exposes global removal only as a raw registry listener
	// (opcode 1 = global_remove).
	display.AddListener(reg.ID(), 1, s.handleGlobalRemove)

	if err := display.Roundtrip(); err != nil {
		_ = display.Close()
		return nil, fmt.Errorf("wayland registry roundtrip: %w", err)
	}

	for _, missing := range []struct {
		ok    bool
		iface string
	}{
		{s.compositor != nil, ifaceCompositor},
		{s.shm != nil, ifaceShm},
		{s.layerShell != nil, ifaceLayerShell},
	} {
		if !missing.ok {
			_ = display.Close()
			return nil, fmt.Errorf("%w: %s", ErrMissingGlobal, missing.iface)
		}
	}

	s.log.Debug().
		Bool("viewporter", s.viewporter != nil).
		Bool("fractional_scale", s.fractional != nil).
		Bool("single_pixel_buffer", s.singlePixel != nil).
		Msg("connected to compositor")
	return s, nil
}

func (s *Session) bind(r *wlturbo.Registry, name uint32, iface string, version uint32, proxy wlturbo.Proxy) {
	if err := r.Bind(name, iface, version, proxy); err != nil {
		s.log.Error().Err(err).Str("interface", iface).Msg("global bind failed")
	}
}

// bindOutput binds a new wl_output global and announces it to the event
// loop. The global name is the output's identity for its whole lifetime; a
// re-plugged display arrives under a fresh name.
func (s *Session) bindOutput(r *wlturbo.Registry, name, version uint32) {
	if _, ok := s.outputs[name]; ok {
		return
	}

	proxy := &Output{}
	if err := r.Bind(name, ifaceOutput, min(version, 4), proxy); err != nil {
		s.log.Error().Err(err).Uint32("output", name).Msg("output bind failed")
		return
	}

	st := &outputState{proxy: proxy, scale: output.ScaleOne}
	proxy.OnDone = func(transform, scale int32) {
		st.transform = output.Transform(transform)
		st.scale = output.ScaleFromInteger(scale)
		s.push(app.OutputGeometry{
			ID:        name,
			Scale:     st.effectiveScale(),
			Transform: st.transform,
		})
	}

	s.outputs[name] = st
	s.push(app.OutputAnnounced{ID: name})
}

func (s *Session) handleGlobalRemove(data []byte) {
	if len(data) < 4 {
		return
	}
	name := binary.LittleEndian.Uint32(data[0:4])
	st, ok := s.outputs[name]
	if !ok {
		return
	}
	delete(s.outputs, name)
	st.proxy.Release()
	s.push(app.OutputRemoved{ID: name})
}

// setFractionalScale records a preferred_scale event for an output's surface
// and forwards the resulting geometry change.
func (s *Session) setFractionalScale(id uint32, scale120 uint32) {
	st, ok := s.outputs[id]
	if !ok || scale120 == 0 {
		return
	}
	st.fracScale = output.Scale(scale120)
	s.push(app.OutputGeometry{
		ID:        id,
		Scale:     st.effectiveScale(),
		Transform: st.transform,
	})
}

func (s *Session) push(ev app.Event) {
	s.events = append(s.events, ev)
}

// Dispatch blocks on the next protocol message batch.
func (s *Session) Dispatch() error {
	return s.display.Dispatch()
}

// Drain returns the lifecycle events produced since the last call.
func (s *Session) Drain() []app.Event {
	evs := s.events
	s.events = nil
	return evs
}

// Close tears down the connection. The blocked Dispatch in the event loop
// fails afterwards; Closing distinguishes that from a real error.
func (s *Session) Close() error {
	s.closing.Store(true)
	return s.display.Close()
}

// Closing reports whether a Close was requested.
func (s *Session) Closing() bool {
	return s.closing.Load()
}
