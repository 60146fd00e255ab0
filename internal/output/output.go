// Package output tracks the compositor's display outputs and their geometry.
package output

import (
	"fmt"
	"math"

	"github.com/bnema/tabula/internal/geometry"
)

// Transform is one of the eight standard output flip/rotate values, matching
// the wl_output.transform enum.
type Transform int32

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

func (t Transform) String() string {
	switch t {
	case TransformNormal:
		return "normal"
	case Transform90:
		return "90"
	case Transform180:
		return "180"
	case Transform270:
		return "270"
	case TransformFlipped:
		return "flipped"
	case TransformFlipped90:
		return "flipped-90"
	case TransformFlipped180:
		return "flipped-180"
	case TransformFlipped270:
		return "flipped-270"
	}
	return fmt.Sprintf("transform(%d)", int32(t))
}

// Scale is an output scale factor in 1/120 units, the wp_fractional_scale
// convention. 120 is 1.0; fractional factors like 1.25 are exact (150).
type Scale int32

// ScaleOne is the identity scale.
const ScaleOne Scale = 120

// ScaleFromInteger converts a wl_output integer scale factor.
func ScaleFromInteger(n int32) Scale {
	return Scale(n) * 120
}

// Float returns the scale as a float64.
func (s Scale) Float() float64 {
	return float64(s) / 120
}

// IsInteger reports whether the scale is a whole number.
func (s Scale) IsInteger() bool {
	return s%120 == 0
}

// Int returns the integer part usable for wl_surface.set_buffer_scale. Only
// meaningful when IsInteger holds.
func (s Scale) Int() int32 {
	return int32(s / 120)
}

// Apply scales a logical pixel count to physical pixels, rounding to
// nearest as the fractional-scale protocol specifies.
func (s Scale) Apply(logical int) int {
	return int(math.Round(float64(logical) * s.Float()))
}

func (s Scale) String() string {
	return fmt.Sprintf("%g", s.Float())
}

// Geometry is the mutable part of an output's state: logical size, scale
// factor and transform.
type Geometry struct {
	Size      geometry.Size
	Scale     Scale
	Transform Transform
}

// PhysicalSize returns the buffer size in physical pixels.
func (g Geometry) PhysicalSize() geometry.Size {
	return geometry.Size{
		Width:  g.Scale.Apply(g.Size.Width),
		Height: g.Scale.Apply(g.Size.Height),
	}
}

// Aspect returns the logical aspect ratio of the output.
func (g Geometry) Aspect() float64 {
	return g.Size.Aspect()
}

func (g Geometry) String() string {
	return fmt.Sprintf("%s@%s/%s", g.Size, g.Scale, g.Transform)
}

// Output is one known display output. Owned exclusively by the Registry.
type Output struct {
	ID       uint32
	Geometry Geometry
}
