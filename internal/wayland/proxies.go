package wayland

import (
	"github.com/bnema/wlturbo"
)

// Wayland interface names bound from the registry.
const (
	ifaceCompositor      = "wl_compositor"
	ifaceShm             = "wl_shm"
	ifaceOutput          = "wl_output"
	ifaceLayerShell      = "zwlr_layer_shell_v1"
	ifaceViewporter      = "wp_viewporter"
	ifaceFractionalScale = "wp_fractional_scale_manager_v1"
	ifaceSinglePixel     = "wp_single_pixel_buffer_manager_v1"
)

// zwlr_layer_shell_v1 layer values.
const layerBackground uint32 = 0

// zwlr_layer_surface_v1 anchor bits.
const (
	anchorTop    uint32 = 1
	anchorBottom uint32 = 2
	anchorLeft   uint32 = 4
	anchorRight  uint32 = 8
	anchorAll           = anchorTop | anchorBottom | anchorLeft | anchorRight
)

// newProxy allocates an id for p and registers it with the connection.
func newProxy[T interface {
	wlturbo.Proxy
	SetContext(*wlturbo.Context)
}](ctx *wlturbo.Context, p T) T {
	p.SetContext(ctx)
	p.SetID(ctx.AllocateID())
	ctx.Register(p)
	return p
}

// Compositor wraps wl_compositor.
type Compositor struct {
	wlturbo.BaseProxy
}

func (c *Compositor) CreateSurface() (*WlSurface, error) {
	s := newProxy(c.Context(), &WlSurface{})
	if err := c.Context().SendRequest(c, 0, s); err != nil {
		c.Context().Unregister(s)
		return nil, err
	}
	return s, nil
}

func (c *Compositor) CreateRegion() (*Region, error) {
	r := newProxy(c.Context(), &Region{})
	if err := c.Context().SendRequest(c, 1, r); err != nil {
		c.Context().Unregister(r)
		return nil, err
	}
	return r, nil
}

// Region wraps wl_region.
type Region struct {
	wlturbo.BaseProxy
}

func (r *Region) Add(x, y, width, height int32) error {
	return r.Context().SendRequest(r, 1, x, y, width, height)
}

func (r *Region) Destroy() {
	_ = r.Context().SendRequest(r, 0)
	r.Context().Unregister(r)
}

// WlSurface wraps wl_surface.
type WlSurface struct {
	wlturbo.BaseProxy
}

func (s *WlSurface) Attach(b *Buffer, x, y int32) error {
	if b == nil {
		return s.Context().SendRequest(s, 1, nil, x, y)
	}
	return s.Context().SendRequest(s, 1, b, x, y)
}

func (s *WlSurface) Damage(x, y, width, height int32) error {
	return s.Context().SendRequest(s, 2, x, y, width, height)
}

func (s *WlSurface) SetOpaqueRegion(r *Region) error {
	return s.Context().SendRequest(s, 4, r)
}

func (s *WlSurface) Commit() error {
	return s.Context().SendRequest(s, 6)
}

func (s *WlSurface) SetBufferScale(scale int32) error {
	return s.Context().SendRequest(s, 8, scale)
}

func (s *WlSurface) Destroy() {
	_ = s.Context().SendRequest(s, 0)
	s.Context().Unregister(s)
}

// Shm wraps wl_shm.
type Shm struct {
	wlturbo.BaseProxy
}

// CreatePool shares a memfd-backed pool with the compositor. The fd travels
// as SCM_RIGHTS ancillary data, not in the message body.
func (s *Shm) CreatePool(fd int, size int32) (*ShmPool, error) {
	p := newProxy(s.Context(), &ShmPool{})
	if err := s.Context().SendRequestWithFDs(s, 0, []int{fd}, p, size); err != nil {
		s.Context().Unregister(p)
		return nil, err
	}
	return p, nil
}

// ShmPool wraps wl_shm_pool.
type ShmPool struct {
	wlturbo.BaseProxy
}

func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) (*Buffer, error) {
	b := newProxy(p.Context(), &Buffer{})
	if err := p.Context().SendRequest(p, 0, b, offset, width, height, stride, format); err != nil {
		p.Context().Unregister(b)
		return nil, err
	}
	return b, nil
}

func (p *ShmPool) Destroy() {
	_ = p.Context().SendRequest(p, 1)
	p.Context().Unregister(p)
}

// Buffer wraps wl_buffer. OnRelease fires when the compositor is done
// reading the buffer.
type Buffer struct {
	wlturbo.BaseProxy
	OnRelease func()
}

func (b *Buffer) Dispatch(event *wlturbo.Event) {
	if event.Opcode == 0 && b.OnRelease != nil {
		b.OnRelease()
	}
}

func (b *Buffer) Destroy() {
	_ = b.Context().SendRequest(b, 0)
	b.Context().Unregister(b)
}

// LayerShell wraps zwlr_layer_shell_v1.
type LayerShell struct {
	wlturbo.BaseProxy
}

// GetLayerSurface assigns the background-layer role to a surface on the
// given output.
func (l *LayerShell) GetLayerSurface(surface *WlSurface, out *Output, namespace string) (*LayerSurface, error) {
	ls := newProxy(l.Context(), &LayerSurface{})
	if err := l.Context().SendRequest(l, 0, ls, surface, out, layerBackground, namespace); err != nil {
		l.Context().Unregister(ls)
		return nil, err
	}
	return ls, nil
}

// LayerSurface wraps zwlr_layer_surface_v1.
type LayerSurface struct {
	wlturbo.BaseProxy
	OnConfigure func(serial, width, height uint32)
	OnClosed    func()
}

func (l *LayerSurface) Dispatch(event *wlturbo.Event) {
	switch event.Opcode {
	case 0: // configure
		serial := event.Uint32()
		width := event.Uint32()
		height := event.Uint32()
		if l.OnConfigure != nil {
			l.OnConfigure(serial, width, height)
		}
	case 1: // closed
		if l.OnClosed != nil {
			l.OnClosed()
		}
	}
}

func (l *LayerSurface) SetSize(width, height uint32) error {
	return l.Context().SendRequest(l, 0, width, height)
}

func (l *LayerSurface) SetAnchor(anchor uint32) error {
	return l.Context().SendRequest(l, 1, anchor)
}

func (l *LayerSurface) SetExclusiveZone(zone int32) error {
	return l.Context().SendRequest(l, 2, zone)
}

func (l *LayerSurface) AckConfigure(serial uint32) error {
	return l.Context().SendRequest(l, 6, serial)
}

func (l *LayerSurface) Destroy() {
	_ = l.Context().SendRequest(l, 7)
	l.Context().Unregister(l)
}

// Viewporter wraps wp_viewporter.
type Viewporter struct {
	wlturbo.BaseProxy
}

func (v *Viewporter) GetViewport(surface *WlSurface) (*Viewport, error) {
	vp := newProxy(v.Context(), &Viewport{})
	if err := v.Context().SendRequest(v, 1, vp, surface); err != nil {
		v.Context().Unregister(vp)
		return nil, err
	}
	return vp, nil
}

// Viewport wraps wp_viewport.
type Viewport struct {
	wlturbo.BaseProxy
}

func (v *Viewport) SetDestination(width, height int32) error {
	return v.Context().SendRequest(v, 2, width, height)
}

func (v *Viewport) Destroy() {
	_ = v.Context().SendRequest(v, 0)
	v.Context().Unregister(v)
}

// FractionalScaleManager wraps wp_fractional_scale_manager_v1.
type FractionalScaleManager struct {
	wlturbo.BaseProxy
}

func (m *FractionalScaleManager) GetFractionalScale(surface *WlSurface) (*FractionalScale, error) {
	f := newProxy(m.Context(), &FractionalScale{})
	if err := m.Context().SendRequest(m, 1, f, surface); err != nil {
		m.Context().Unregister(f)
		return nil, err
	}
	return f, nil
}

// FractionalScale wraps wp_fractional_scale_v1. OnPreferredScale receives
// the compositor's preferred scale in 1/120 units.
type FractionalScale struct {
	wlturbo.BaseProxy
	OnPreferredScale func(scale120 uint32)
}

func (f *FractionalScale) Dispatch(event *wlturbo.Event) {
	if event.Opcode == 0 && f.OnPreferredScale != nil {
		f.OnPreferredScale(event.Uint32())
	}
}

func (f *FractionalScale) Destroy() {
	_ = f.Context().SendRequest(f, 0)
	f.Context().Unregister(f)
}

// SinglePixelBufferManager wraps wp_single_pixel_buffer_manager_v1.
type SinglePixelBufferManager struct {
	wlturbo.BaseProxy
}

// CreateBuffer makes a 1x1 buffer of the given color. Channels are 32-bit,
// so 8-bit values are spread over the full range.
func (m *SinglePixelBufferManager) CreateBuffer(r, g, b, a uint8) (*Buffer, error) {
	const unit = 0xffffffff / 0xff
	buf := newProxy(m.Context(), &Buffer{})
	err := m.Context().SendRequest(m, 1, buf,
		uint32(r)*unit, uint32(g)*unit, uint32(b)*unit, uint32(a)*unit)
	if err != nil {
		m.Context().Unregister(buf)
		return nil, err
	}
	return buf, nil
}
