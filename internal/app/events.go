package app

import (
	"github.com/bnema/tabula/internal/geometry"
	"github.com/bnema/tabula/internal/output"
)

// Event is a typed output/surface lifecycle event delivered by the protocol
// layer. Events are processed strictly in delivery order on a single
// goroutine.
type Event interface {
	isEvent()
}

// OutputAnnounced reports a new output global.
type OutputAnnounced struct {
	ID uint32
}

// OutputGeometry reports the scale and transform of an output, sent after
// the protocol layer has collected a full atomic batch of output state.
type OutputGeometry struct {
	ID        uint32
	Scale     output.Scale
	Transform output.Transform
}

// SurfaceConfigured reports the compositor-assigned logical size for an
// output's background surface. Serial must be acknowledged before the next
// commit.
type SurfaceConfigured struct {
	ID     uint32
	Serial uint32
	Size   geometry.Size
}

// SurfaceClosed reports that the compositor closed the output's surface.
type SurfaceClosed struct {
	ID uint32
}

// OutputRemoved reports that an output disappeared. Terminal: no further
// events are processed for this id.
type OutputRemoved struct {
	ID uint32
}

func (OutputAnnounced) isEvent()   {}
func (OutputGeometry) isEvent()    {}
func (SurfaceConfigured) isEvent() {}
func (SurfaceClosed) isEvent()     {}
func (OutputRemoved) isEvent()     {}
