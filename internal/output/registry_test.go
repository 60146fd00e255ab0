package output

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabula/internal/geometry"
)

func testGeometry() Geometry {
	return Geometry{
		Size:      geometry.Size{Width: 1920, Height: 1080},
		Scale:     ScaleOne,
		Transform: TransformNormal,
	}
}

func TestRegistry_Upsert(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	t.Run("insert reports change", func(t *testing.T) {
		assert.True(t, r.Upsert(1, testGeometry()))
		require.NotNil(t, r.Get(1))
		assert.Equal(t, testGeometry(), r.Get(1).Geometry)
	})

	t.Run("identical geometry is idempotent", func(t *testing.T) {
		assert.False(t, r.Upsert(1, testGeometry()))
	})

	t.Run("changed geometry reports change", func(t *testing.T) {
		g := testGeometry()
		g.Scale = ScaleFromInteger(2)
		assert.True(t, r.Upsert(1, g))
		assert.Equal(t, g, r.Get(1).Geometry)
	})
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Upsert(7, testGeometry())

	r.Remove(7)
	assert.Nil(t, r.Get(7))
	assert.Zero(t, r.Len())

	// Removing twice is harmless.
	r.Remove(7)
}

func TestScale(t *testing.T) {
	assert.Equal(t, ScaleOne, ScaleFromInteger(1))
	assert.True(t, ScaleFromInteger(2).IsInteger())
	assert.Equal(t, int32(2), ScaleFromInteger(2).Int())

	frac := Scale(150) // 1.25
	assert.False(t, frac.IsInteger())
	assert.Equal(t, 1.25, frac.Float())
	assert.Equal(t, 2400, frac.Apply(1920))
	assert.Equal(t, 1350, frac.Apply(1080))

	// Rounding to nearest, per the fractional-scale protocol.
	assert.Equal(t, 1, Scale(130).Apply(1))
}

func TestGeometry_PhysicalSize(t *testing.T) {
	g := Geometry{Size: geometry.Size{Width: 1280, Height: 800}, Scale: Scale(180)}
	assert.Equal(t, geometry.Size{Width: 1920, Height: 1200}, g.PhysicalSize())
}
