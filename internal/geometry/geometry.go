// Package geometry provides the shared geometry types and the focus-aware
// crop computation used to fit a wallpaper source onto an output.
package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a normalized 2D coordinate in [0,1]x[0,1] source space.
type Point struct {
	X float64
	Y float64
}

// Center is the default focus point.
var Center = Point{X: 0.5, Y: 0.5}

// ParsePoint parses a "<x>+<y>" pair of decimals, the CLI form of a focus
// point. Both components must lie in [0,1].
func ParsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(s, "+")
	if !ok {
		return Point{}, fmt.Errorf("parse point %q: X and Y must be separated by '+'", s)
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse point %q: invalid X: %w", s, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse point %q: invalid Y: %w", s, err)
	}
	p := Point{X: x, Y: y}
	if !p.InUnit() {
		return Point{}, fmt.Errorf("parse point %q: coordinates must be within [0,1]", s)
	}
	return p, nil
}

// InUnit reports whether both coordinates lie in [0,1].
func (p Point) InUnit() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

func (p Point) String() string {
	return fmt.Sprintf("%g+%g", p.X, p.Y)
}

// Size is a 2D extent in pixels.
type Size struct {
	Width  int
	Height int
}

// Aspect returns width/height, or 0 for an empty size.
func (s Size) Aspect() float64 {
	if s.Width <= 0 || s.Height <= 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// IsEmpty reports whether either dimension is non-positive.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// CropRect is a normalized sub-rectangle of the source selected for display.
// All fields lie in [0,1] and X+W <= 1, Y+H <= 1.
type CropRect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Full is the crop covering the whole source.
var Full = CropRect{X: 0, Y: 0, W: 1, H: 1}

// IsFull reports whether the crop covers the entire source.
func (c CropRect) IsFull() bool {
	return c == Full
}

// PixelRect maps the normalized crop onto a source of the given pixel size.
// The result is clamped to the source bounds and never empty for a non-empty
// source.
func (c CropRect) PixelRect(src Size) (x0, y0, x1, y1 int) {
	x0 = int(c.X * float64(src.Width))
	y0 = int(c.Y * float64(src.Height))
	x1 = int((c.X + c.W) * float64(src.Width))
	y1 = int((c.Y + c.H) * float64(src.Height))
	if x1 > src.Width {
		x1 = src.Width
	}
	if y1 > src.Height {
		y1 = src.Height
	}
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}
