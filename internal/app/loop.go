// Package app drives the wallpaper daemon: a single-threaded loop that
// receives typed lifecycle events from the protocol layer and advances a
// per-output state machine (Announced -> Bound -> Configured* -> Removed),
// keeping registry, surfaces and rendering in lockstep.
package app

import (
	"github.com/rs/zerolog"

	"github.com/bnema/tabula/internal/geometry"
	"github.com/bnema/tabula/internal/output"
	"github.com/bnema/tabula/internal/surface"
)

// EventSource is the blocking side of the protocol layer: Dispatch reads and
// decodes the next batch of protocol messages, Drain returns the lifecycle
// events they produced.
type EventSource interface {
	Dispatch() error
	Drain() []Event
}

type phase int

const (
	phaseAnnounced phase = iota
	phaseBound
	phaseConfigured
)

// track is the loop's view of one output's lifecycle.
type track struct {
	phase     phase
	scale     output.Scale
	transform output.Transform
	size      geometry.Size
	serial    uint32
	hasSize   bool
	painted   bool
}

// Loop owns the per-output state machines and dispatches work to the
// registry and surface manager. All methods must be called from a single
// goroutine; per-output work runs to completion before the next event.
type Loop struct {
	reg    *output.Registry
	mgr    *surface.Manager
	tracks map[uint32]*track
	log    zerolog.Logger
}

// NewLoop creates an event loop over the given registry and surface manager.
func NewLoop(reg *output.Registry, mgr *surface.Manager, log zerolog.Logger) *Loop {
	return &Loop{
		reg:    reg,
		mgr:    mgr,
		tracks: make(map[uint32]*track),
		log:    log.With().Str("component", "loop").Logger(),
	}
}

// Run processes protocol events until Dispatch fails, which is also how a
// deliberate connection close terminates the loop. Events queued during
// connection setup are drained before the first blocking read.
func (l *Loop) Run(src EventSource) error {
	for {
		for _, ev := range src.Drain() {
			l.Handle(ev)
		}
		if err := src.Dispatch(); err != nil {
			return err
		}
	}
}

// Handle advances the state machine for one event. Per-output errors are
// logged and contained here; they never propagate past the event that
// caused them.
func (l *Loop) Handle(ev Event) {
	switch e := ev.(type) {
	case OutputAnnounced:
		if _, ok := l.tracks[e.ID]; ok {
			l.log.Debug().Uint32("output", e.ID).Msg("duplicate announcement ignored")
			return
		}
		l.tracks[e.ID] = &track{phase: phaseAnnounced, scale: output.ScaleOne}
		l.log.Info().Uint32("output", e.ID).Msg("output announced")
		l.bind(e.ID)

	case OutputGeometry:
		tr, ok := l.tracks[e.ID]
		if !ok {
			l.log.Debug().Uint32("output", e.ID).Msg("geometry for unknown output ignored")
			return
		}
		tr.scale = e.Scale
		tr.transform = e.Transform
		if tr.phase == phaseAnnounced {
			// A previous bind failed; this event is the retry point.
			l.bind(e.ID)
		}
		if tr.phase == phaseConfigured && tr.hasSize {
			l.apply(e.ID, tr)
		}

	case SurfaceConfigured:
		tr, ok := l.tracks[e.ID]
		if !ok || tr.phase == phaseAnnounced {
			l.log.Debug().Uint32("output", e.ID).Msg("configure for unbound output ignored")
			return
		}
		tr.size = e.Size
		tr.serial = e.Serial
		tr.hasSize = true
		tr.phase = phaseConfigured
		l.apply(e.ID, tr)

	case SurfaceClosed:
		tr, ok := l.tracks[e.ID]
		if !ok {
			return
		}
		l.log.Info().Uint32("output", e.ID).Msg("surface closed by compositor")
		l.mgr.Unbind(e.ID)
		tr.phase = phaseAnnounced
		tr.hasSize = false
		tr.painted = false

	case OutputRemoved:
		if _, ok := l.tracks[e.ID]; !ok {
			l.log.Debug().Uint32("output", e.ID).Msg("removal of unknown output ignored")
			return
		}
		l.mgr.Unbind(e.ID)
		l.reg.Remove(e.ID)
		delete(l.tracks, e.ID)
		l.log.Info().Uint32("output", e.ID).Msg("output removed")
	}
}

// bind realizes the output's surface. Failure is non-fatal: the output stays
// unpainted and bind is retried on its next geometry event.
func (l *Loop) bind(id uint32) {
	tr := l.tracks[id]
	if err := l.mgr.Bind(id); err != nil {
		l.log.Error().Err(err).Uint32("output", id).Msg("surface bind failed, output left unpainted")
		return
	}
	tr.phase = phaseBound
	tr.painted = false
}

// apply pushes the track's current geometry through registry, surface
// manager and renderer. Identical geometry acks its configure but triggers
// no second reconfigure/render cycle.
func (l *Loop) apply(id uint32, tr *track) {
	geom := output.Geometry{Size: tr.size, Scale: tr.scale, Transform: tr.transform}
	changed := l.reg.Upsert(id, geom)

	if err := l.mgr.Reconfigure(id, tr.serial, geom); err != nil {
		l.log.Error().Err(err).Uint32("output", id).Msg("surface reconfigure failed")
		return
	}
	if !changed && tr.painted {
		return
	}

	if err := l.mgr.Draw(id); err != nil {
		// A failed present abandons the surface. Bind a fresh one right
		// away; its next configure event repaints the output.
		l.log.Error().Err(err).Uint32("output", id).Msg("draw failed, resetting surface")
		l.mgr.Unbind(id)
		tr.phase = phaseAnnounced
		tr.hasSize = false
		tr.painted = false
		l.bind(id)
		return
	}
	tr.painted = true
}

// Close tears down every bound surface.
func (l *Loop) Close() {
	l.mgr.UnbindAll()
}
