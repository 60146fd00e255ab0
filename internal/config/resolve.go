package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bnema/tabula/internal/geometry"
	"github.com/bnema/tabula/internal/source"
)

// ErrNoSource and ErrConflictingSources reject configurations that don't pick
// exactly one wallpaper source.
var (
	ErrNoSource           = errors.New("one of color or image must be set")
	ErrConflictingSources = errors.New("color and image are mutually exclusive")
)

// Wallpaper is the validated, runtime form of the wallpaper settings.
type Wallpaper struct {
	Source *source.Source
	Focus  geometry.Point
}

// Resolve validates the wallpaper settings and loads the selected source.
// A focus point given for a solid color is ignored with a warning rather
// than rejected.
func (c *Config) Resolve(log zerolog.Logger) (*Wallpaper, error) {
	w := &c.Wallpaper
	switch {
	case w.Color == "" && w.Image == "":
		return nil, ErrNoSource
	case w.Color != "" && w.Image != "":
		return nil, ErrConflictingSources
	}

	if w.Color != "" {
		if w.Focus != "" {
			log.Warn().Str("focus", w.Focus).Msg("focus point is meaningless for a solid color, ignoring")
		}
		col, err := source.ParseColor(w.Color)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", w.Color, err)
		}
		return &Wallpaper{Source: source.NewColor(col), Focus: geometry.Center}, nil
	}

	focus := geometry.Center
	if w.Focus != "" {
		var err error
		if focus, err = geometry.ParsePoint(w.Focus); err != nil {
			return nil, fmt.Errorf("invalid focus %q: %w", w.Focus, err)
		}
	}

	src, err := source.LoadImage(w.Image)
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", w.Image, err)
	}
	return &Wallpaper{Source: src, Focus: focus}, nil
}
