package render

import "image/color"

// Surface is an immediate-mode 2-D drawing target with its pixel origin at
// the top-left corner. Paths are built with NewPath, MoveTo, LineTo and
// ClosePath and painted with Stroke, which also discards the path.
type Surface interface {
	// Size returns the pixel dimensions. A surface that reports a
	// non-positive width or height is treated as unusable.
	Size() (width, height int)
	// Clear resets every pixel to the surface background.
	Clear()
	// SetSourceColor sets the colour used by Stroke and FillText.
	SetSourceColor(c color.RGBA)
	// SetLineWidth sets the stroke width in pixels.
	SetLineWidth(width float64)
	// SetFontSize sets the text size in pixels.
	SetFontSize(size float64)
	NewPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Stroke()
	// FillText draws text centred horizontally and vertically on (x, y).
	FillText(text string, x, y float64)
}

// StrokeStyler is implemented by surfaces that honour line caps and joins.
// PlaneRenderer applies its style to such surfaces before drawing.
type StrokeStyler interface {
	SetLineCap(c LineCap)
	SetLineJoin(j LineJoin)
}

// Usable reports whether s can be drawn on.
func Usable(s Surface) bool {
	if s == nil {
		return false
	}
	w, h := s.Size()
	return w > 0 && h > 0
}
