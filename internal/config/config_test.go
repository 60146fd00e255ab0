package config

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabula/internal/geometry"
	"github.com/bnema/tabula/internal/source"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wall.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfig(t, `
[wallpaper]
color = "1a2b3c"

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1a2b3c", cfg.Wallpaper.Color)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Wallpaper.Color)
	assert.Empty(t, cfg.Wallpaper.Image)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[wallpaper]
color = "000000"
`)
	t.Setenv("TABULA_WALLPAPER_COLOR", "ffffff")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ffffff", cfg.Wallpaper.Color)
}

func TestResolve_SourceSelection(t *testing.T) {
	t.Run("neither set", func(t *testing.T) {
		cfg := &Config{}
		_, err := cfg.Resolve(zerolog.Nop())
		assert.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("both set", func(t *testing.T) {
		cfg := &Config{Wallpaper: WallpaperConfig{Color: "ff0000", Image: "x.png"}}
		_, err := cfg.Resolve(zerolog.Nop())
		assert.ErrorIs(t, err, ErrConflictingSources)
	})

	t.Run("color", func(t *testing.T) {
		cfg := &Config{Wallpaper: WallpaperConfig{Color: "#ff8000"}}
		w, err := cfg.Resolve(zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, source.KindColor, w.Source.Kind())
		assert.Equal(t, color.NRGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, w.Source.Color())
	})

	t.Run("invalid color", func(t *testing.T) {
		cfg := &Config{Wallpaper: WallpaperConfig{Color: "red"}}
		_, err := cfg.Resolve(zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("image with focus", func(t *testing.T) {
		cfg := &Config{Wallpaper: WallpaperConfig{Image: writePNG(t, 8, 4), Focus: "0.25+0.75"}}
		w, err := cfg.Resolve(zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, source.KindImage, w.Source.Kind())
		assert.Equal(t, geometry.Point{X: 0.25, Y: 0.75}, w.Focus)
	})

	t.Run("image defaults to centered focus", func(t *testing.T) {
		cfg := &Config{Wallpaper: WallpaperConfig{Image: writePNG(t, 8, 4)}}
		w, err := cfg.Resolve(zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, geometry.Center, w.Focus)
	})

	t.Run("invalid focus", func(t *testing.T) {
		cfg := &Config{Wallpaper: WallpaperConfig{Image: writePNG(t, 8, 4), Focus: "1.5+0.5"}}
		_, err := cfg.Resolve(zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("missing image", func(t *testing.T) {
		cfg := &Config{Wallpaper: WallpaperConfig{Image: filepath.Join(t.TempDir(), "gone.png")}}
		_, err := cfg.Resolve(zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("focus with color is ignored", func(t *testing.T) {
		cfg := &Config{Wallpaper: WallpaperConfig{Color: "123456", Focus: "0.1+0.1"}}
		w, err := cfg.Resolve(zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, geometry.Center, w.Focus)
	})
}
