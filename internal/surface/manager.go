// Package surface owns the per-output rendering surfaces and their
// lifecycle. Surfaces are created when an output is announced, resized when
// its geometry changes and destroyed when it disappears, without touching
// the surfaces of other outputs.
package surface

import (
	"fmt"
	"image/color"

	"github.com/rs/zerolog"

	"github.com/bnema/tabula/internal/geometry"
	"github.com/bnema/tabula/internal/output"
	"github.com/bnema/tabula/internal/render"
	"github.com/bnema/tabula/internal/source"
)

// Conn is the slice of the protocol layer the manager needs: it can realize
// a rendering surface for an output.
type Conn interface {
	CreateSurface(outputID uint32) (Handle, error)
}

// Handle is one output's presentation surface as exposed by the protocol
// layer.
type Handle interface {
	// AckConfigure acknowledges a configure event before the next commit.
	AckConfigure(serial uint32)
	// Resize (re)allocates the drawable at the geometry's physical pixel
	// size and applies scale and viewport state.
	Resize(geom output.Geometry) error
	// BeginFrame returns the back buffer to draw into.
	BeginFrame() (*render.Frame, error)
	// Present attaches the drawn back buffer, damages it fully and commits.
	Present() error
	// AttachColor presents a solid color through a compositor-side
	// single-pixel buffer. It reports false when the compositor lacks
	// support, in which case the caller falls back to drawing.
	AttachColor(c color.NRGBA) (bool, error)
	// Destroy releases every protocol object and buffer owned by the
	// surface. Safe to call on a partially initialized surface.
	Destroy()
}

// State is the per-output surface bookkeeping. Owned exclusively by the
// Manager, keyed by output id.
type State struct {
	handle Handle
	tex    *render.Texture
	geom   output.Geometry
	crop   geometry.CropRect
	sized  bool
}

// Manager creates, reconfigures and destroys output surfaces.
type Manager struct {
	conn   Conn
	src    *source.Source
	focus  geometry.Point
	states map[uint32]*State
	log    zerolog.Logger
}

// NewManager creates a manager painting the given source with the given
// focus point.
func NewManager(conn Conn, src *source.Source, focus geometry.Point, log zerolog.Logger) *Manager {
	return &Manager{
		conn:   conn,
		src:    src,
		focus:  focus,
		states: make(map[uint32]*State),
		log:    log.With().Str("component", "surface").Logger(),
	}
}

// Bind realizes the rendering surface for an output and, for image sources,
// uploads the wallpaper texture. The texture is uploaded exactly once per
// surface lifetime; resizes reuse it.
func (m *Manager) Bind(id uint32) error {
	if _, ok := m.states[id]; ok {
		return fmt.Errorf("bind output %d: already bound", id)
	}

	handle, err := m.conn.CreateSurface(id)
	if err != nil {
		return fmt.Errorf("bind output %d: %w", id, err)
	}

	st := &State{handle: handle, crop: geometry.Full}
	if m.src.Kind() == source.KindImage {
		tex, err := render.UploadTexture(m.src.Pixels())
		if err != nil {
			handle.Destroy()
			return fmt.Errorf("bind output %d: %w", id, err)
		}
		st.tex = tex
	}

	m.states[id] = st
	m.log.Debug().Uint32("output", id).Msg("surface bound")
	return nil
}

// Bound reports whether the output currently has a surface.
func (m *Manager) Bound(id uint32) bool {
	_, ok := m.states[id]
	return ok
}

// Reconfigure applies a new geometry to an already-bound output: the
// drawable is resized to the new physical pixel size and the crop is
// recomputed for the new target aspect ratio. The caller draws afterwards.
func (m *Manager) Reconfigure(id uint32, serial uint32, geom output.Geometry) error {
	st, ok := m.states[id]
	if !ok {
		return fmt.Errorf("reconfigure output %d: not bound", id)
	}

	st.handle.AckConfigure(serial)

	if st.sized && st.geom == geom {
		return nil
	}

	if err := st.handle.Resize(geom); err != nil {
		return fmt.Errorf("reconfigure output %d: %w", id, err)
	}
	st.geom = geom
	st.sized = true

	if m.src.Kind() == source.KindImage {
		st.crop = geometry.Crop(m.src.Aspect(), geom.Aspect(), m.focus)
	}

	m.log.Debug().
		Uint32("output", id).
		Stringer("geometry", geom).
		Msg("surface reconfigured")
	return nil
}

// Draw renders the wallpaper into the output's surface and presents it.
func (m *Manager) Draw(id uint32) error {
	st, ok := m.states[id]
	if !ok {
		return fmt.Errorf("draw output %d: not bound", id)
	}
	if !st.sized {
		return fmt.Errorf("draw output %d: no configured size yet", id)
	}

	if m.src.Kind() == source.KindColor {
		handled, err := st.handle.AttachColor(m.src.Color())
		if err != nil {
			return fmt.Errorf("draw output %d: %w", id, err)
		}
		if handled {
			return nil
		}
	}

	frame, err := st.handle.BeginFrame()
	if err != nil {
		return fmt.Errorf("draw output %d: %w", id, err)
	}

	switch m.src.Kind() {
	case source.KindColor:
		render.Fill(frame, m.src.Color())
	case source.KindImage:
		render.Draw(frame, st.tex, st.crop)
	}

	if err := st.handle.Present(); err != nil {
		return fmt.Errorf("present output %d: %w", id, err)
	}
	return nil
}

// Crop returns the last computed crop window for an output. Color sources
// always report the full source.
func (m *Manager) Crop(id uint32) (geometry.CropRect, bool) {
	st, ok := m.states[id]
	if !ok {
		return geometry.CropRect{}, false
	}
	return st.crop, true
}

// Unbind destroys the output's surface and releases its resources. Safe to
// call for outputs that never completed a bind.
func (m *Manager) Unbind(id uint32) {
	st, ok := m.states[id]
	if !ok {
		return
	}
	st.handle.Destroy()
	delete(m.states, id)
	m.log.Debug().Uint32("output", id).Msg("surface unbound")
}

// UnbindAll tears down every surface, used at shutdown.
func (m *Manager) UnbindAll() {
	for id := range m.states {
		m.Unbind(id)
	}
}
