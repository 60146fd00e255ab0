package source

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	// Stdlib and x/image decoders registered for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage reads and decodes the file at path into an image source. Any
// failure here is fatal to startup: the daemon cannot run without a source.
func LoadImage(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wallpaper image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode wallpaper image %s: %w", path, err)
	}

	src, err := NewImage(toRGBA(img))
	if err != nil {
		return nil, fmt.Errorf("wallpaper image %s (%s): %w", path, format, err)
	}
	return src, nil
}

// toRGBA normalizes any decoded image into RGBA with a zero origin.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
