// Package source describes what the daemon paints: a solid color or a
// decoded wallpaper image. A Source is built once at startup and never
// mutated afterwards; it is shared read-only by every output.
package source

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/bnema/tabula/internal/geometry"
)

// Kind tags the two source variants.
type Kind int

const (
	KindColor Kind = iota
	KindImage
)

// Source is an immutable wallpaper source.
type Source struct {
	kind  Kind
	color color.NRGBA
	img   *image.RGBA
	size  geometry.Size
}

// NewColor creates a solid-color source.
func NewColor(c color.NRGBA) *Source {
	return &Source{kind: KindColor, color: c}
}

// NewImage creates an image source from a decoded RGBA buffer. The buffer
// must be non-empty.
func NewImage(img *image.RGBA) (*Source, error) {
	b := img.Bounds()
	size := geometry.Size{Width: b.Dx(), Height: b.Dy()}
	if size.IsEmpty() {
		return nil, fmt.Errorf("image source: zero-dimension image %s", size)
	}
	return &Source{kind: KindImage, img: img, size: size}, nil
}

// Kind returns the source variant.
func (s *Source) Kind() Kind {
	return s.kind
}

// Color returns the fill color. For image sources it is opaque black.
func (s *Source) Color() color.NRGBA {
	if s.kind == KindImage {
		return color.NRGBA{A: 0xff}
	}
	return s.color
}

// Aspect returns the source aspect ratio. A color has no meaningful shape,
// so it reports 1:1.
func (s *Source) Aspect() float64 {
	if s.kind == KindColor {
		return 1
	}
	return s.size.Aspect()
}

// Size returns the pixel dimensions of an image source, or the zero size for
// colors.
func (s *Source) Size() geometry.Size {
	return s.size
}

// Pixels returns the decoded pixel buffer for upload. It is nil for color
// sources, which need no texture.
func (s *Source) Pixels() *image.RGBA {
	return s.img
}

// ParseColor parses a 6-digit RGB hex string, with an optional leading '#'.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: must contain exactly 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: must only contain the characters 0-9 and a-f", s)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}
