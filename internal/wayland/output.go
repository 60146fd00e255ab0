package wayland

import (
	"github.com/bnema/wlturbo"
)

// Output wraps wl_output. The compositor sends a burst of state events
// terminated by done; the proxy accumulates them and reports the atomic
// batch through OnDone.
type Output struct {
	wlturbo.BaseProxy

	// OnDone receives the accumulated transform and integer scale once a
	// state batch is complete.
	OnDone func(transform int32, scale int32)

	transform int32
	scale     int32
}

func (o *Output) Dispatch(event *wlturbo.Event) {
	switch event.Opcode {
	case 0: // geometry: x, y, physical w/h, subpixel, make, model, transform
		event.Int32()
		event.Int32()
		event.Int32()
		event.Int32()
		event.Int32()
		_ = event.String()
		_ = event.String()
		o.transform = event.Int32()
	case 2: // done
		scale := o.scale
		if scale <= 0 {
			scale = 1
		}
		if o.OnDone != nil {
			o.OnDone(o.transform, scale)
		}
	case 3: // scale
		o.scale = event.Int32()
	}
	// mode, name and description are irrelevant here: the surface size
	// comes from layer-surface configure events.
}

// Release tells the compositor the client no longer needs the output.
func (o *Output) Release() {
	_ = o.Context().SendRequest(o, 0)
	o.Context().Unregister(o)
}
