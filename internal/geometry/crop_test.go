package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrop_ContainedInUnitSquare(t *testing.T) {
	aspects := []float64{0.3, 0.5625, 1, 1.25, 16.0 / 9.0, 3.2}
	focuses := []Point{{0, 0}, {1, 1}, {0.5, 0.5}, {0.1, 0.9}, {1, 0}}

	for _, src := range aspects {
		for _, dst := range aspects {
			for _, focus := range focuses {
				c := Crop(src, dst, focus)

				assert.GreaterOrEqual(t, c.X, 0.0)
				assert.GreaterOrEqual(t, c.Y, 0.0)
				assert.LessOrEqual(t, c.X+c.W, 1.0+1e-9)
				assert.LessOrEqual(t, c.Y+c.H, 1.0+1e-9)
				assert.Greater(t, c.W, 0.0)
				assert.Greater(t, c.H, 0.0)

				// Cover fit: the free axis shrinks, the other spans the
				// full source.
				if dst >= src {
					assert.InDelta(t, src/dst, c.W, 1e-9)
					assert.InDelta(t, 1.0, c.H, 1e-9)
				} else {
					assert.InDelta(t, 1.0, c.W, 1e-9)
					assert.InDelta(t, dst/src, c.H, 1e-9)
				}
			}
		}
	}
}

func TestCrop_CenterFocusStaysCentered(t *testing.T) {
	for _, dst := range []float64{0.4, 1, 1.6, 2.35} {
		c := Crop(16.0/9.0, dst, Center)

		assert.InDelta(t, 0.5, c.X+c.W/2, 1e-9, "target aspect %g", dst)
		assert.InDelta(t, 0.5, c.Y+c.H/2, 1e-9, "target aspect %g", dst)
	}
}

func TestCrop_CornerFocusClampsToOrigin(t *testing.T) {
	// A much wider target forces a narrow crop; focus at (0,0) must clamp
	// rather than go negative.
	c := Crop(1.0, 4.0, Point{X: 0, Y: 0})

	assert.Equal(t, 0.0, c.X)
	assert.Equal(t, 0.0, c.Y)
	assert.InDelta(t, 0.25, c.W, 1e-9)
	assert.InDelta(t, 1.0, c.H, 1e-9)
}

func TestCrop_PortraitTargetFromLandscapeSource(t *testing.T) {
	// 16:9 source onto a 9:16 target with focus 0.6+0.6.
	focus, err := ParsePoint("0.6+0.6")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 0.6, Y: 0.6}, focus)

	src := 16.0 / 9.0
	dst := 9.0 / 16.0
	c := Crop(src, dst, focus)

	assert.InDelta(t, 1.0, c.W, 1e-9)
	assert.InDelta(t, dst/src, c.H, 1e-9) // ~0.3164
	assert.InDelta(t, 0.0, c.X, 1e-9)
	assert.InDelta(t, 0.6-(dst/src)/2, c.Y, 1e-9) // ~0.4418, no clamping needed
}

func TestCrop_DegenerateAspects(t *testing.T) {
	assert.Equal(t, Full, Crop(0, 1, Center))
	assert.Equal(t, Full, Crop(1, 0, Center))
	assert.Equal(t, Full, Crop(-1, -1, Center))
}

func TestCrop_EqualAspectsFullSource(t *testing.T) {
	c := Crop(1.6, 1.6, Point{X: 0.9, Y: 0.1})

	assert.Equal(t, Full, c)
}

func TestParsePoint(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := ParsePoint("0.25+0.75")
		require.NoError(t, err)
		assert.Equal(t, Point{X: 0.25, Y: 0.75}, p)
	})

	t.Run("bounds", func(t *testing.T) {
		p, err := ParsePoint("0+1")
		require.NoError(t, err)
		assert.Equal(t, Point{X: 0, Y: 1}, p)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := ParsePoint("0.5,0.5")
		assert.Error(t, err)
	})

	t.Run("non numeric", func(t *testing.T) {
		_, err := ParsePoint("a+0.5")
		assert.Error(t, err)
		_, err = ParsePoint("0.5+b")
		assert.Error(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := ParsePoint("1.5+0.5")
		assert.Error(t, err)
		_, err = ParsePoint("0.5+-0.1")
		assert.Error(t, err)
	})
}

func TestCropRect_PixelRect(t *testing.T) {
	src := Size{Width: 1920, Height: 1080}

	t.Run("full", func(t *testing.T) {
		x0, y0, x1, y1 := Full.PixelRect(src)
		assert.Equal(t, [4]int{0, 0, 1920, 1080}, [4]int{x0, y0, x1, y1})
	})

	t.Run("half height", func(t *testing.T) {
		c := CropRect{X: 0, Y: 0.25, W: 1, H: 0.5}
		x0, y0, x1, y1 := c.PixelRect(src)
		assert.Equal(t, [4]int{0, 270, 1920, 810}, [4]int{x0, y0, x1, y1})
	})

	t.Run("never empty", func(t *testing.T) {
		c := CropRect{X: 0.999999, Y: 0.999999, W: 0.0000001, H: 0.0000001}
		x0, y0, x1, y1 := c.PixelRect(src)
		assert.Greater(t, x1, x0)
		assert.Greater(t, y1, y0)
		assert.LessOrEqual(t, x1, src.Width+1)
		assert.LessOrEqual(t, y1, src.Height+1)
	})
}

func TestSize_Aspect(t *testing.T) {
	assert.InDelta(t, 16.0/9.0, Size{Width: 1920, Height: 1080}.Aspect(), 1e-9)
	assert.Equal(t, 0.0, Size{}.Aspect())
	assert.True(t, Size{Width: -1, Height: 5}.IsEmpty())
	assert.False(t, Size{Width: 1, Height: 1}.IsEmpty())
}
