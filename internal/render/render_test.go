package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabula/internal/geometry"
)

func newFrame(w, h int) *Frame {
	return &Frame{
		Pix:    make([]byte, w*h*4),
		Stride: w * 4,
		Size:   geometry.Size{Width: w, Height: h},
	}
}

func TestFill_ByteOrder(t *testing.T) {
	f := newFrame(3, 2)

	Fill(f, color.NRGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}) // magenta

	for i := 0; i < len(f.Pix); i += 4 {
		assert.Equal(t, byte(0xff), f.Pix[i+0], "B at %d", i)
		assert.Equal(t, byte(0x00), f.Pix[i+1], "G at %d", i)
		assert.Equal(t, byte(0xff), f.Pix[i+2], "R at %d", i)
		assert.Equal(t, byte(0xff), f.Pix[i+3], "X at %d", i)
	}
}

func TestUploadTexture_Swizzles(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	src.SetRGBA(1, 0, color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff})

	tex, err := UploadTexture(src)
	require.NoError(t, err)

	assert.Equal(t, geometry.Size{Width: 2, Height: 1}, tex.Size())
	assert.Equal(t, []byte{0x33, 0x22, 0x11, 0xff, 0xcc, 0xbb, 0xaa, 0xff}, tex.img.Pix)
}

func TestUploadTexture_Empty(t *testing.T) {
	_, err := UploadTexture(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}

func TestDraw_CoversEveryPixel(t *testing.T) {
	// Uniform red texture; after a cover draw no frame pixel may remain
	// at its zero value.
	src := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+0] = 0xff
		src.Pix[i+3] = 0xff
	}
	tex, err := UploadTexture(src)
	require.NoError(t, err)

	f := newFrame(20, 10)
	Draw(f, tex, geometry.Crop(16.0/9.0, 2.0, geometry.Center))

	for i := 0; i < len(f.Pix); i += 4 {
		// Red texture in frame order: B=0, G=0, R=ff.
		assert.Equal(t, byte(0xff), f.Pix[i+2], "R at %d", i)
	}
}

func TestDraw_SamplesCropWindow(t *testing.T) {
	// Left half green, right half blue. Cropping the right half must
	// produce only blue.
	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				src.SetRGBA(x, y, color.RGBA{G: 0xff, A: 0xff})
			} else {
				src.SetRGBA(x, y, color.RGBA{B: 0xff, A: 0xff})
			}
		}
	}
	tex, err := UploadTexture(src)
	require.NoError(t, err)

	f := newFrame(4, 4)
	Draw(f, tex, geometry.CropRect{X: 0.5, Y: 0, W: 0.5, H: 1})

	for i := 0; i < len(f.Pix); i += 4 {
		assert.Equal(t, byte(0xff), f.Pix[i+0], "B at %d", i)
		assert.Equal(t, byte(0x00), f.Pix[i+1], "G at %d", i)
	}
}
