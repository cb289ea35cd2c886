package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type rasterPoint struct {
	x, y float64
}

type rasterSubpath struct {
	points []rasterPoint
	closed bool
}

// RasterSurface implements Surface on an in-memory *image.RGBA, rasterising
// strokes with golang.org/x/image/vector. It needs no window or GPU, which
// makes it suitable for snapshots and headless use.
type RasterSurface struct {
	img          *image.RGBA
	background   color.RGBA
	currentColor color.RGBA
	lineWidth    float64
	fontSize     float64
	faces        map[float64]font.Face
	subpaths     []rasterSubpath
	rasterizer   *vector.Rasterizer
	mu           sync.Mutex
}

// NewRasterSurface creates a white w×h raster surface. Non-positive sizes
// produce an unusable surface that ignores drawing calls.
func NewRasterSurface(w, h int) *RasterSurface {
	rs := &RasterSurface{
		background:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		currentColor: color.RGBA{A: 255},
		lineWidth:    1,
		fontSize:     DefaultLabelSize,
		faces:        make(map[float64]font.Face),
	}
	if w > 0 && h > 0 {
		rs.img = image.NewRGBA(image.Rect(0, 0, w, h))
		rs.rasterizer = vector.NewRasterizer(w, h)
		rs.fillBackgroundUnlocked()
	}
	return rs
}

// Image returns the backing image.
func (rs *RasterSurface) Image() *image.RGBA {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.img
}

// Size returns the image dimensions.
func (rs *RasterSurface) Size() (width, height int) {
	if rs == nil {
		return 0, 0
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.img == nil {
		return 0, 0
	}
	b := rs.img.Bounds()
	return b.Dx(), b.Dy()
}

// SetBackground sets the colour Clear fills with.
func (rs *RasterSurface) SetBackground(c color.RGBA) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.background = c
}

// Clear fills the image with the background colour and drops any path.
func (rs *RasterSurface) Clear() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.subpaths = nil
	rs.fillBackgroundUnlocked()
}

// SetSourceColor sets the colour for Stroke and FillText.
func (rs *RasterSurface) SetSourceColor(c color.RGBA) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.currentColor = c
}

// SetLineWidth sets the stroke width in pixels.
func (rs *RasterSurface) SetLineWidth(width float64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if width <= 0 {
		width = 1
	}
	rs.lineWidth = width
}

// SetFontSize sets the text size in pixels.
func (rs *RasterSurface) SetFontSize(size float64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if size <= 0 {
		size = DefaultLabelSize
	}
	rs.fontSize = size
}

// NewPath discards the current path.
func (rs *RasterSurface) NewPath() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.subpaths = nil
}

// MoveTo starts a new sub-path at (x, y).
func (rs *RasterSurface) MoveTo(x, y float64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.subpaths = append(rs.subpaths, rasterSubpath{points: []rasterPoint{{x, y}}})
}

// LineTo extends the current sub-path to (x, y), starting one if needed.
func (rs *RasterSurface) LineTo(x, y float64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.subpaths) == 0 || rs.subpaths[len(rs.subpaths)-1].closed {
		rs.subpaths = append(rs.subpaths, rasterSubpath{points: []rasterPoint{{x, y}}})
		return
	}
	last := &rs.subpaths[len(rs.subpaths)-1]
	last.points = append(last.points, rasterPoint{x, y})
}

// ClosePath marks the current sub-path as closed.
func (rs *RasterSurface) ClosePath() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.subpaths) > 0 {
		rs.subpaths[len(rs.subpaths)-1].closed = true
	}
}

// Stroke paints every segment of the path as a quad of the current line
// width with square caps, then discards the path.
func (rs *RasterSurface) Stroke() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	defer func() { rs.subpaths = nil }()

	if rs.img == nil {
		return
	}
	src := image.NewUniform(rs.currentColor)
	for _, sp := range rs.subpaths {
		n := len(sp.points)
		for i := 0; i+1 < n; i++ {
			rs.strokeSegmentUnlocked(sp.points[i], sp.points[i+1], src)
		}
		if sp.closed && n > 2 {
			rs.strokeSegmentUnlocked(sp.points[n-1], sp.points[0], src)
		}
	}
}

// FillText draws text centred on (x, y).
func (rs *RasterSurface) FillText(text string, x, y float64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.img == nil || text == "" {
		return
	}

	face := rs.faceUnlocked(rs.fontSize)
	d := &font.Drawer{
		Dst:  rs.img,
		Src:  image.NewUniform(rs.currentColor),
		Face: face,
	}
	width := d.MeasureString(text)
	m := face.Metrics()
	// Baseline sits half the glyph height below the requested centre.
	baseline := fixed.Int26_6(math.Round(y*64)) + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(math.Round(x*64)) - width/2,
		Y: baseline,
	}
	d.DrawString(text)
}

// WritePNG encodes the current image as PNG.
func (rs *RasterSurface) WritePNG(w io.Writer) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.img == nil {
		return fmt.Errorf("write png: %w", ErrNoSurface)
	}
	return png.Encode(w, rs.img)
}

// strokeSegmentUnlocked must be called while holding the mutex.
func (rs *RasterSurface) strokeSegmentUnlocked(a, b rasterPoint, src image.Image) {
	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := rs.lineWidth / 2
	// Unit direction scaled to half width, and its normal.
	ux, uy := dx/length*half, dy/length*half
	nx, ny := -uy, ux

	ax, ay := a.x-ux, a.y-uy
	bx, by := b.x+ux, b.y+uy

	r := rs.rasterizer
	b0 := rs.img.Bounds()
	r.Reset(b0.Dx(), b0.Dy())
	r.DrawOp = draw.Over
	r.MoveTo(float32(ax+nx), float32(ay+ny))
	r.LineTo(float32(bx+nx), float32(by+ny))
	r.LineTo(float32(bx-nx), float32(by-ny))
	r.LineTo(float32(ax-nx), float32(ay-ny))
	r.ClosePath()
	r.Draw(rs.img, b0, src, image.Point{})
}

// faceUnlocked returns a cached face for size, falling back to the fixed
// 7x13 bitmap face if the embedded TrueType font cannot be loaded.
// It must be called while holding the mutex.
func (rs *RasterSurface) faceUnlocked(size float64) font.Face {
	if f, ok := rs.faces[size]; ok {
		return f
	}
	var face font.Face = basicfont.Face7x13
	if parsed, err := parsedGoRegular(); err == nil {
		if f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		}); err == nil {
			face = f
		}
	}
	rs.faces[size] = face
	return face
}

// fillBackgroundUnlocked must be called while holding the mutex.
func (rs *RasterSurface) fillBackgroundUnlocked() {
	if rs.img == nil {
		return
	}
	draw.Draw(rs.img, rs.img.Bounds(), image.NewUniform(rs.background), image.Point{}, draw.Src)
}

var (
	goRegularOnce sync.Once
	goRegular     *opentype.Font
	goRegularErr  error
)

func parsedGoRegular() (*opentype.Font, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	return goRegular, goRegularErr
}
