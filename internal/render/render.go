// Package render rasterizes the wallpaper into output frames.
//
// Frames are wl_shm backed: 32-bit XRGB8888, which on little-endian hosts is
// B, G, R, X byte order. The renderer works on image.RGBA views of the frame
// memory and keeps textures pre-swizzled into the same byte order, so the
// channel swap costs nothing at draw time.
package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/bnema/tabula/internal/geometry"
)

// Frame is one drawable buffer of an output surface.
type Frame struct {
	Pix    []byte
	Stride int
	Size   geometry.Size
}

// Image wraps the frame memory as an image.RGBA without copying.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Stride,
		Rect:   image.Rect(0, 0, f.Size.Width, f.Size.Height),
	}
}

// Texture is a wallpaper image converted into frame byte order. It is built
// once per surface lifetime and reused across resizes.
type Texture struct {
	img  *image.RGBA
	size geometry.Size
}

// UploadTexture converts the decoded RGBA pixels into a texture. The source
// buffer is not modified.
func UploadTexture(src *image.RGBA) (*Texture, error) {
	b := src.Bounds()
	size := geometry.Size{Width: b.Dx(), Height: b.Dy()}
	if size.IsEmpty() {
		return nil, fmt.Errorf("upload texture: empty source %s", size)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	for y := 0; y < size.Height; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+size.Width*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+size.Width*4]
		for x := 0; x < size.Width*4; x += 4 {
			d[x+0] = s[x+2] // B
			d[x+1] = s[x+1] // G
			d[x+2] = s[x+0] // R
			d[x+3] = 0xff
		}
	}
	return &Texture{img: dst, size: size}, nil
}

// Size returns the texture dimensions.
func (t *Texture) Size() geometry.Size {
	return t.size
}

// Fill paints the whole frame with a solid color.
func Fill(f *Frame, c color.NRGBA) {
	if f.Size.IsEmpty() {
		return
	}
	row := make([]byte, f.Size.Width*4)
	for x := 0; x < len(row); x += 4 {
		row[x+0] = c.B
		row[x+1] = c.G
		row[x+2] = c.R
		row[x+3] = 0xff
	}
	for y := 0; y < f.Size.Height; y++ {
		copy(f.Pix[y*f.Stride:y*f.Stride+len(row)], row)
	}
}

// Draw samples the crop window of the texture and scales it over the whole
// frame, the cover-fit contract: every target pixel is written, excess
// source stays outside the crop.
func Draw(f *Frame, tex *Texture, crop geometry.CropRect) {
	if f.Size.IsEmpty() {
		return
	}
	x0, y0, x1, y1 := crop.PixelRect(tex.size)
	dst := f.Image()
	draw.CatmullRom.Scale(dst, dst.Bounds(), tex.img, image.Rect(x0, y0, x1, y1), draw.Src, nil)
}
