package geometry

// Crop computes the source-space window that covers a target of the given
// aspect ratio while keeping the focus point as close to the window's center
// as the source bounds allow.
//
// The fit is a "cover" fit: the target is filled completely and excess source
// is cropped, never letterboxed. When the target is relatively wider than the
// source the window keeps the full source height and narrows to
// sourceAspect/targetAspect of the width; otherwise it keeps the full width
// and shrinks to targetAspect/sourceAspect of the height. The window is
// centered on the focus point, then slid back inside [0,1] when the focus
// sits near an edge, trading exact centering for staying in bounds.
//
// Crop is deterministic and depends only on its arguments. Non-positive
// aspect ratios yield the full source.
func Crop(sourceAspect, targetAspect float64, focus Point) CropRect {
	if sourceAspect <= 0 || targetAspect <= 0 {
		return Full
	}

	w, h := 1.0, 1.0
	if targetAspect >= sourceAspect {
		w = sourceAspect / targetAspect
	} else {
		h = targetAspect / sourceAspect
	}

	x := clamp(focus.X-w/2, 0, 1-w)
	y := clamp(focus.Y-h/2, 0, 1-h)

	return CropRect{X: x, Y: y, W: w, H: h}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
