package wayland

import (
	"fmt"
	"image/color"
	"math"

	"github.com/bnema/wlturbo"

	"github.com/bnema/tabula/internal/app"
	"github.com/bnema/tabula/internal/geometry"
	"github.com/bnema/tabula/internal/output"
	"github.com/bnema/tabula/internal/render"
	"github.com/bnema/tabula/internal/surface"
)

// CreateSurface realizes the background surface for an output: a wl_surface
// with the layer-shell background role, anchored to every edge with no
// exclusive zone, plus viewport and fractional-scale objects when available.
// It implements surface.Conn.
func (s *Session) CreateSurface(outputID uint32) (surface.Handle, error) {
	st, ok := s.outputs[outputID]
	if !ok {
		return nil, fmt.Errorf("create surface: unknown output %d", outputID)
	}

	h := &surfaceHandle{sess: s, outputID: outputID}

	var err error
	if h.wlSurface, err = s.compositor.CreateSurface(); err != nil {
		return nil, fmt.Errorf("create wl_surface: %w", err)
	}

	// Optional protocols attach to the surface before the role is set.
	if s.fractional != nil {
		if h.fractional, err = s.fractional.GetFractionalScale(h.wlSurface); err != nil {
			h.Destroy()
			return nil, fmt.Errorf("get fractional scale: %w", err)
		}
		h.fractional.OnPreferredScale = func(scale120 uint32) {
			s.setFractionalScale(outputID, scale120)
		}
	}
	if s.viewporter != nil {
		if h.viewport, err = s.viewporter.GetViewport(h.wlSurface); err != nil {
			h.Destroy()
			return nil, fmt.Errorf("get viewport: %w", err)
		}
	}

	if h.layer, err = s.layerShell.GetLayerSurface(h.wlSurface, st.proxy, "wallpaper"); err != nil {
		h.Destroy()
		return nil, fmt.Errorf("get layer surface: %w", err)
	}
	h.layer.OnConfigure = func(serial, width, height uint32) {
		s.push(app.SurfaceConfigured{
			ID:     outputID,
			Serial: serial,
			Size:   geometry.Size{Width: int(width), Height: int(height)},
		})
	}
	h.layer.OnClosed = func() {
		s.push(app.SurfaceClosed{ID: outputID})
	}

	// Size 0,0 asks the compositor to pick the full output size for an
	// all-edge anchor; -1 keeps the wallpaper out of exclusive-zone math.
	if err := h.layer.SetSize(0, 0); err != nil {
		h.Destroy()
		return nil, err
	}
	_ = h.layer.SetAnchor(anchorAll)
	_ = h.layer.SetExclusiveZone(-1)
	if err := h.wlSurface.Commit(); err != nil {
		h.Destroy()
		return nil, err
	}

	s.handles[outputID] = h
	return h, nil
}

// bufferSlot is one entry of the surface's two-deep swapchain.
type bufferSlot struct {
	buf   *Buffer
	frame *render.Frame
	busy  bool
}

// surfaceHandle is the protocol-side surface state for one output. It
// implements surface.Handle.
type surfaceHandle struct {
	sess     *Session
	outputID uint32

	wlSurface  *WlSurface
	layer      *LayerSurface
	viewport   *Viewport
	fractional *FractionalScale

	pool      *wlturbo.ShmPool
	poolProxy *ShmPool
	slots     [2]bufferSlot
	current   int
	pending   int

	logical geometry.Size
	spb     *Buffer
}

func (h *surfaceHandle) AckConfigure(serial uint32) {
	_ = h.layer.AckConfigure(serial)
}

// Resize reallocates the swapchain at the geometry's physical pixel size.
// Without viewporter support a fractional scale degrades to the nearest
// integer buffer scale.
func (h *surfaceHandle) Resize(geom output.Geometry) error {
	scale := geom.Scale
	if h.viewport == nil && !scale.IsInteger() {
		n := int32(math.Round(scale.Float()))
		if n < 1 {
			n = 1
		}
		h.sess.log.Warn().
			Uint32("output", h.outputID).
			Stringer("scale", scale).
			Int32("fallback", n).
			Msg("no viewporter, rounding fractional scale to integer")
		scale = output.ScaleFromInteger(n)
	}

	phys := geometry.Size{
		Width:  scale.Apply(geom.Size.Width),
		Height: scale.Apply(geom.Size.Height),
	}
	if phys.IsEmpty() {
		return fmt.Errorf("resize surface: empty physical size for %s", geom)
	}

	h.releaseBuffers()

	// Two frames back to back, second offset 64-byte aligned by the pool.
	stride := phys.Width * 4
	frameSize := stride * phys.Height
	aligned := (frameSize + 63) / 64 * 64
	total := aligned + frameSize

	pool, err := wlturbo.CreateShmPool(total)
	if err != nil {
		return fmt.Errorf("create shm pool: %w", err)
	}
	poolProxy, err := h.sess.shm.CreatePool(pool.FD(), int32(total))
	if err != nil {
		_ = pool.Close()
		return fmt.Errorf("share shm pool: %w", err)
	}
	h.pool = pool
	h.poolProxy = poolProxy

	for i := range h.slots {
		shmBuf, err := pool.AllocateBuffer(phys.Width, phys.Height, stride, wlturbo.FormatXRGB8888)
		if err != nil {
			h.releaseBuffers()
			return fmt.Errorf("allocate shm buffer: %w", err)
		}
		buf, err := poolProxy.CreateBuffer(int32(shmBuf.Offset()), int32(phys.Width), int32(phys.Height), int32(stride), wlturbo.FormatXRGB8888)
		if err != nil {
			h.releaseBuffers()
			return fmt.Errorf("create wl_buffer: %w", err)
		}
		slot := &h.slots[i]
		buf.OnRelease = func() { slot.busy = false }
		slot.buf = buf
		slot.frame = &render.Frame{Pix: shmBuf.Data(), Stride: stride, Size: phys}
		slot.busy = false
	}
	h.current = 0
	h.pending = 0
	h.logical = geom.Size

	if h.viewport == nil && scale.IsInteger() && scale.Int() > 1 {
		_ = h.wlSurface.SetBufferScale(scale.Int())
	}

	// The wallpaper is fully opaque, let the compositor skip blending.
	if region, err := h.sess.compositor.CreateRegion(); err == nil {
		_ = region.Add(0, 0, int32(geom.Size.Width), int32(geom.Size.Height))
		_ = h.wlSurface.SetOpaqueRegion(region)
		region.Destroy()
	}

	return nil
}

// BeginFrame returns a back buffer the compositor is not reading. With both
// buffers held it reuses the front one; wallpaper redraws are rare enough
// that tearing is preferable to stalling the loop.
func (h *surfaceHandle) BeginFrame() (*render.Frame, error) {
	if h.slots[0].frame == nil {
		return nil, fmt.Errorf("surface for output %d has no buffers", h.outputID)
	}
	next := 1 - h.current
	if h.slots[next].busy && !h.slots[h.current].busy {
		next = h.current
	}
	h.pending = next
	return h.slots[next].frame, nil
}

// Present commits the frame returned by the last BeginFrame.
func (h *surfaceHandle) Present() error {
	slot := &h.slots[h.pending]
	if slot.buf == nil {
		return fmt.Errorf("present output %d: no buffer", h.outputID)
	}

	if h.viewport != nil {
		// Sway forgets the destination between commits, set it every time.
		if err := h.viewport.SetDestination(int32(h.logical.Width), int32(h.logical.Height)); err != nil {
			return err
		}
	}
	if err := h.wlSurface.Attach(slot.buf, 0, 0); err != nil {
		return err
	}
	if err := h.wlSurface.Damage(0, 0, int32(h.logical.Width), int32(h.logical.Height)); err != nil {
		return err
	}
	if err := h.wlSurface.Commit(); err != nil {
		return err
	}

	slot.busy = true
	h.current = h.pending
	return nil
}

// AttachColor presents a solid color through the single-pixel-buffer
// protocol. It needs the viewporter to stretch the 1x1 buffer over the
// surface; without either protocol the caller falls back to a filled frame.
func (h *surfaceHandle) AttachColor(c color.NRGBA) (bool, error) {
	if h.sess.singlePixel == nil || h.viewport == nil {
		return false, nil
	}

	if h.spb == nil {
		buf, err := h.sess.singlePixel.CreateBuffer(c.R, c.G, c.B, c.A)
		if err != nil {
			return false, fmt.Errorf("create single-pixel buffer: %w", err)
		}
		h.spb = buf
	}

	if err := h.viewport.SetDestination(int32(h.logical.Width), int32(h.logical.Height)); err != nil {
		return false, err
	}
	if err := h.wlSurface.Attach(h.spb, 0, 0); err != nil {
		return false, err
	}
	if err := h.wlSurface.Damage(0, 0, int32(h.logical.Width), int32(h.logical.Height)); err != nil {
		return false, err
	}
	if err := h.wlSurface.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (h *surfaceHandle) releaseBuffers() {
	for i := range h.slots {
		if h.slots[i].buf != nil {
			h.slots[i].buf.Destroy()
			h.slots[i] = bufferSlot{}
		}
	}
	if h.poolProxy != nil {
		h.poolProxy.Destroy()
		h.poolProxy = nil
	}
	if h.pool != nil {
		_ = h.pool.Close()
		h.pool = nil
	}
}

// Destroy releases every protocol object the surface owns. Safe on a
// partially constructed handle.
func (h *surfaceHandle) Destroy() {
	h.releaseBuffers()
	if h.spb != nil {
		h.spb.Destroy()
		h.spb = nil
	}
	if h.fractional != nil {
		h.fractional.Destroy()
		h.fractional = nil
	}
	if h.viewport != nil {
		h.viewport.Destroy()
		h.viewport = nil
	}
	if h.layer != nil {
		h.layer.Destroy()
		h.layer = nil
	}
	if h.wlSurface != nil {
		h.wlSurface.Destroy()
		h.wlSurface = nil
	}
	delete(h.sess.handles, h.outputID)
}
