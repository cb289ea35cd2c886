package render

import (
	"image/color"
	"math"
	"strconv"
	"sync"

	"github.com/opd-ai/go-matrixquiz/internal/linalg"
)

// Default plane geometry and colours.
const (
	DefaultUnit       = 20
	DefaultLabelRange = 10
	DefaultGridMargin = 1
	DefaultLabelSize  = 10.0
	DefaultLabelGap   = 10.0
)

// PlaneStyle controls how a Cartesian plane is painted.
type PlaneStyle struct {
	// Unit is the number of pixels per mathematical unit.
	Unit int
	// LabelRange labels integer ticks in [-LabelRange, LabelRange] on both
	// axes, skipping 0 and ticks that fall outside the surface.
	LabelRange int
	// GridMargin is the number of extra grid units drawn past each edge.
	GridMargin int
	// LabelSize is the label text size in pixels.
	LabelSize float64
	// LabelGap is the distance between an axis and its labels.
	LabelGap float64
	// LineWidth is used for axes and grid lines.
	LineWidth float64
	// ShapeWidth is used for the transformed unit square.
	ShapeWidth float64
	// LineCap and LineJoin apply to surfaces implementing StrokeStyler.
	LineCap    LineCap
	LineJoin   LineJoin
	AxisColor  color.RGBA
	GridColor  color.RGBA
	LabelColor color.RGBA
	// EdgeColors, when non-empty, strokes each edge of the transformed
	// square separately, cycling through the palette, instead of using the
	// single stroke colour passed to Render.
	EdgeColors []color.RGBA
}

// DefaultPlaneStyle returns the stock plane style: 20 px units, black axes,
// a #ddd grid and labels from -10 to 10.
func DefaultPlaneStyle() PlaneStyle {
	return PlaneStyle{
		Unit:       DefaultUnit,
		LabelRange: DefaultLabelRange,
		GridMargin: DefaultGridMargin,
		LabelSize:  DefaultLabelSize,
		LabelGap:   DefaultLabelGap,
		LineWidth:  1,
		ShapeWidth: 2,
		AxisColor:  color.RGBA{R: 0, G: 0, B: 0, A: 255},
		GridColor:  color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 255},
		LabelColor: color.RGBA{R: 0, G: 0, B: 0, A: 255},
	}
}

// PlaneRenderer paints a matrix as the image of the unit square on a
// labelled Cartesian plane. It is safe for concurrent use.
type PlaneRenderer struct {
	style PlaneStyle
	mu    sync.RWMutex
}

// NewPlaneRenderer creates a PlaneRenderer. Zero-valued numeric fields of
// style fall back to the defaults.
func NewPlaneRenderer(style PlaneStyle) *PlaneRenderer {
	return &PlaneRenderer{style: normalizeStyle(style)}
}

// Style returns the current style.
func (pr *PlaneRenderer) Style() PlaneStyle {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.style
}

// SetStyle replaces the style.
func (pr *PlaneRenderer) SetStyle(style PlaneStyle) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.style = normalizeStyle(style)
}

// Render clears s and draws axes, grid, axis labels and the quadrilateral
// obtained by mapping the unit square through m, outlined in stroke.
// An unusable surface makes Render a no-op.
func (pr *PlaneRenderer) Render(s Surface, m linalg.Matrix, stroke color.RGBA) {
	if !Usable(s) {
		return
	}
	st := pr.Style()
	w, h := s.Size()
	originX, originY := Origin(w, h)
	unit := float64(st.Unit)

	s.Clear()
	if ss, ok := s.(StrokeStyler); ok {
		ss.SetLineCap(st.LineCap)
		ss.SetLineJoin(st.LineJoin)
	}

	// Axes, one stroke.
	s.SetLineWidth(st.LineWidth)
	s.SetSourceColor(st.AxisColor)
	s.NewPath()
	s.MoveTo(0, originY)
	s.LineTo(float64(w), originY)
	s.MoveTo(originX, 0)
	s.LineTo(originX, float64(h))
	s.Stroke()

	// Grid. The k == 0 lines lie on the axes and are left to them.
	s.SetSourceColor(st.GridColor)
	s.NewPath()
	nx := gridExtent(w, st.Unit, st.GridMargin)
	for k := -nx; k <= nx; k++ {
		if k == 0 {
			continue
		}
		x := originX + float64(k)*unit
		s.MoveTo(x, 0)
		s.LineTo(x, float64(h))
	}
	ny := gridExtent(h, st.Unit, st.GridMargin)
	for k := -ny; k <= ny; k++ {
		if k == 0 {
			continue
		}
		y := originY + float64(k)*unit
		s.MoveTo(0, y)
		s.LineTo(float64(w), y)
	}
	s.Stroke()

	// Labels.
	s.SetSourceColor(st.LabelColor)
	s.SetFontSize(st.LabelSize)
	for k := -st.LabelRange; k <= st.LabelRange; k++ {
		if k == 0 {
			continue
		}
		label := strconv.Itoa(k)
		if x := originX + float64(k)*unit; x >= 0 && x <= float64(w) {
			s.FillText(label, x, originY+st.LabelGap)
		}
		if y := originY - float64(k)*unit; y >= 0 && y <= float64(h) {
			s.FillText(label, originX-st.LabelGap, y)
		}
	}

	// Transformed unit square.
	corners := screenCorners(m, originX, originY, unit)
	bounds := screenBounds(w, h)
	s.SetLineWidth(st.ShapeWidth)
	if len(st.EdgeColors) == 0 && bounds.containsAll(corners) {
		s.SetSourceColor(stroke)
		s.NewPath()
		s.MoveTo(corners[0].X, corners[0].Y)
		for _, p := range corners[1:] {
			s.LineTo(p.X, p.Y)
		}
		s.ClosePath()
		s.Stroke()
		return
	}
	// Edge by edge, clipped so far-away corners never reach the surface.
	for i := range corners {
		a, b, ok := bounds.clip(corners[i], corners[(i+1)%len(corners)])
		if !ok {
			continue
		}
		c := stroke
		if len(st.EdgeColors) > 0 {
			c = st.EdgeColors[i%len(st.EdgeColors)]
		}
		s.SetSourceColor(c)
		s.NewPath()
		s.MoveTo(a.X, a.Y)
		s.LineTo(b.X, b.Y)
		s.Stroke()
	}
}

// Corners returns the screen-space corners of the unit square mapped
// through m on a w×h surface, in the order (0,0), (1,0), (1,1), (0,1).
func (pr *PlaneRenderer) Corners(m linalg.Matrix, w, h int) [4]linalg.Vector2 {
	originX, originY := Origin(w, h)
	return screenCorners(m, originX, originY, float64(pr.Style().Unit))
}

// Origin returns the pixel position of the mathematical origin on a w×h
// surface: its centre, floored to whole pixels.
func Origin(w, h int) (x, y float64) {
	return float64(w / 2), float64(h / 2)
}

// ToScreen maps a plane point to pixel coordinates. Screen Y grows
// downwards, so the Y component is flipped.
func ToScreen(p linalg.Vector2, originX, originY, unit float64) linalg.Vector2 {
	return linalg.Vector2{X: originX + p.X*unit, Y: originY - p.Y*unit}
}

// maxCoord caps screen coordinates so that differences between corners
// stay finite.
const maxCoord = math.MaxFloat64 / 4

func screenCorners(m linalg.Matrix, originX, originY, unit float64) [4]linalg.Vector2 {
	corners := m.TransformAll(linalg.UnitSquare())
	for i, p := range corners {
		p = ToScreen(p, originX, originY, unit)
		corners[i] = linalg.Vector2{X: clampCoord(p.X), Y: clampCoord(p.Y)}
	}
	return corners
}

func clampCoord(v float64) float64 {
	return math.Max(-maxCoord, math.Min(maxCoord, v))
}

// boundsFactor sets how far past a w×h surface, in multiples of w+h,
// shape coordinates may reach before they are clipped.
const boundsFactor = 4

// rect is an axis-aligned clip rectangle in screen space.
type rect struct {
	minX, minY, maxX, maxY float64
}

func screenBounds(w, h int) rect {
	margin := float64(boundsFactor * (w + h))
	return rect{minX: -margin, minY: -margin, maxX: float64(w) + margin, maxY: float64(h) + margin}
}

func (r rect) contains(p linalg.Vector2) bool {
	return p.X >= r.minX && p.X <= r.maxX && p.Y >= r.minY && p.Y <= r.maxY
}

func (r rect) containsAll(ps [4]linalg.Vector2) bool {
	for _, p := range ps {
		if !r.contains(p) {
			return false
		}
	}
	return true
}

// clip returns the part of segment a–b inside r (Liang–Barsky). ok is
// false when nothing of the segment is inside, or a coordinate is NaN.
// Clipped endpoints land exactly on the boundary they were cut at.
func (r rect) clip(a, b linalg.Vector2) (linalg.Vector2, linalg.Vector2, bool) {
	for _, v := range []float64{a.X, a.Y, b.X, b.Y} {
		if math.IsNaN(v) {
			return a, b, false
		}
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	edges := [4]struct {
		p, q float64
		snap func(*linalg.Vector2)
	}{
		{-dx, a.X - r.minX, func(v *linalg.Vector2) { v.X = r.minX }},
		{dx, r.maxX - a.X, func(v *linalg.Vector2) { v.X = r.maxX }},
		{-dy, a.Y - r.minY, func(v *linalg.Vector2) { v.Y = r.minY }},
		{dy, r.maxY - a.Y, func(v *linalg.Vector2) { v.Y = r.maxY }},
	}
	t0, t1 := 0.0, 1.0
	var snap0, snap1 func(*linalg.Vector2)
	for _, e := range edges {
		if e.p == 0 {
			if e.q < 0 {
				return a, b, false
			}
			continue
		}
		t := e.q / e.p
		if e.p < 0 {
			if t > t1 {
				return a, b, false
			}
			if t > t0 {
				t0, snap0 = t, e.snap
			}
		} else {
			if t < t0 {
				return a, b, false
			}
			if t < t1 {
				t1, snap1 = t, e.snap
			}
		}
	}
	start, end := a, b
	if snap0 != nil {
		start = linalg.Vector2{X: a.X + t0*dx, Y: a.Y + t0*dy}
		snap0(&start)
	}
	if snap1 != nil {
		end = linalg.Vector2{X: a.X + t1*dx, Y: a.Y + t1*dy}
		snap1(&end)
	}
	return r.clamp(start), r.clamp(end), true
}

// clamp absorbs rounding in the other coordinate of a clipped endpoint.
func (r rect) clamp(v linalg.Vector2) linalg.Vector2 {
	return linalg.Vector2{
		X: math.Max(r.minX, math.Min(r.maxX, v.X)),
		Y: math.Max(r.minY, math.Min(r.maxY, v.Y)),
	}
}

// gridExtent returns how many grid units to draw on each side of the
// origin so that lines cover size pixels plus margin units.
func gridExtent(size, unit, margin int) int {
	return int(math.Ceil(float64(size)/float64(unit))) + margin
}

func normalizeStyle(st PlaneStyle) PlaneStyle {
	def := DefaultPlaneStyle()
	if st.Unit <= 0 {
		st.Unit = def.Unit
	}
	if st.LabelRange < 0 {
		st.LabelRange = 0
	}
	if st.GridMargin < 0 {
		st.GridMargin = 0
	}
	if st.LabelSize <= 0 {
		st.LabelSize = def.LabelSize
	}
	if st.LabelGap <= 0 {
		st.LabelGap = def.LabelGap
	}
	if st.LineWidth <= 0 {
		st.LineWidth = def.LineWidth
	}
	if st.ShapeWidth <= 0 {
		st.ShapeWidth = def.ShapeWidth
	}
	if st.EdgeColors != nil {
		st.EdgeColors = append([]color.RGBA(nil), st.EdgeColors...)
	}
	return st
}
