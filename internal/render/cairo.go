//go:build !noebiten

// Package render provides Ebiten-based rendering for matrixquiz.
// This file implements a Cairo-style path API on top of Ebiten vector
// graphics so that the plane renderer can draw into an *ebiten.Image.
package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CairoRenderer implements Surface with a Cairo-like drawing state over an
// *ebiten.Image. Drawing calls made before SetScreen are ignored.
type CairoRenderer struct {
	screen       *ebiten.Image
	background   color.RGBA
	currentColor color.RGBA
	lineWidth    float32
	lineCap      LineCap
	lineJoin     LineJoin
	antialias    bool
	path         *vector.Path
	hasPath      bool
	pathCurrentX float32
	pathCurrentY float32
	textRenderer *TextRenderer
	fontSize     float64
	mu           sync.Mutex
}

// NewCairoRenderer creates a new CairoRenderer instance.
// The renderer is initialized with default state: black colour, line width
// 1.0 and a white background for Clear.
func NewCairoRenderer() *CairoRenderer {
	return &CairoRenderer{
		background:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		currentColor: color.RGBA{R: 0, G: 0, B: 0, A: 255},
		lineWidth:    1.0,
		lineCap:      LineCapButt,
		lineJoin:     LineJoinMiter,
		antialias:    true,
		path:         &vector.Path{},
		textRenderer: NewTextRenderer(),
		fontSize:     DefaultLabelSize,
	}
}

// SetScreen sets the target image for drawing operations.
func (cr *CairoRenderer) SetScreen(screen *ebiten.Image) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.screen = screen
}

// Size returns the target image size, or 0, 0 without a target.
func (cr *CairoRenderer) Size() (width, height int) {
	if cr == nil {
		return 0, 0
	}
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.screen == nil {
		return 0, 0
	}
	b := cr.screen.Bounds()
	return b.Dx(), b.Dy()
}

// SetBackground sets the colour Clear fills with.
func (cr *CairoRenderer) SetBackground(c color.RGBA) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.background = c
}

// Clear fills the target with the background colour and drops any path.
func (cr *CairoRenderer) Clear() {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.clearPathUnlocked()
	if cr.screen == nil {
		return
	}
	cr.screen.Clear()
	if cr.background.A > 0 {
		cr.screen.Fill(cr.background)
	}
}

// SetSourceColor sets the current drawing colour.
func (cr *CairoRenderer) SetSourceColor(c color.RGBA) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.currentColor = c
}

// SetLineWidth sets the line width for stroke operations.
func (cr *CairoRenderer) SetLineWidth(width float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if width <= 0 {
		width = 1
	}
	cr.lineWidth = float32(width)
}

// GetLineWidth returns the current line width.
func (cr *CairoRenderer) GetLineWidth() float64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return float64(cr.lineWidth)
}

// SetLineCap sets the line cap style.
func (cr *CairoRenderer) SetLineCap(capStyle LineCap) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.lineCap = capStyle
}

// SetLineJoin sets the line join style.
func (cr *CairoRenderer) SetLineJoin(join LineJoin) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.lineJoin = join
}

// SetAntialias enables or disables antialiasing of strokes.
func (cr *CairoRenderer) SetAntialias(enabled bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.antialias = enabled
}

// SetFontSize sets the font size for FillText.
func (cr *CairoRenderer) SetFontSize(size float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if size <= 0 {
		size = DefaultLabelSize
	}
	cr.fontSize = size
}

// GetFontSize returns the current font size.
func (cr *CairoRenderer) GetFontSize() float64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.fontSize
}

// NewPath clears the current path and starts a new one.
func (cr *CairoRenderer) NewPath() {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.clearPathUnlocked()
}

// MoveTo begins a new sub-path at the given point.
func (cr *CairoRenderer) MoveTo(x, y float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.path.MoveTo(float32(x), float32(y))
	cr.pathCurrentX = float32(x)
	cr.pathCurrentY = float32(y)
	cr.hasPath = true
}

// LineTo adds a line from the current point to the given point.
// Without a current point it behaves like MoveTo.
func (cr *CairoRenderer) LineTo(x, y float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if !cr.hasPath {
		cr.path.MoveTo(float32(x), float32(y))
		cr.hasPath = true
	} else {
		cr.path.LineTo(float32(x), float32(y))
	}
	cr.pathCurrentX = float32(x)
	cr.pathCurrentY = float32(y)
}

// ClosePath closes the current sub-path by drawing a line back to the start.
func (cr *CairoRenderer) ClosePath() {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.hasPath {
		cr.path.Close()
	}
}

// Stroke draws the current path as a stroked line and clears it.
func (cr *CairoRenderer) Stroke() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.canDraw() {
		cr.clearPathUnlocked()
		return
	}

	opts := cr.buildStrokeOptions()
	vertices, indices := cr.path.AppendVerticesAndIndicesForStroke(strokeVertices.Get(), strokeIndices.Get(), opts)
	defer strokeVertices.Put(vertices)
	defer strokeIndices.Put(indices)
	cr.setVertexColors(vertices)

	cr.screen.DrawTriangles(vertices, indices, emptySubImage, &ebiten.DrawTrianglesOptions{
		AntiAlias: cr.antialias,
	})

	cr.clearPathUnlocked()
}

// FillText draws text centred on (x, y) in the current colour and font size.
func (cr *CairoRenderer) FillText(text string, x, y float64) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.screen == nil || text == "" {
		return
	}
	cr.textRenderer.DrawTextCenteredSize(cr.screen, text, x, y, cr.fontSize, cr.currentColor)
}

// canDraw checks if drawing is possible (has screen and path).
// This must be called while holding the mutex.
func (cr *CairoRenderer) canDraw() bool {
	return cr.screen != nil && cr.hasPath
}

// buildStrokeOptions creates stroke options from current state.
// This must be called while holding the mutex.
func (cr *CairoRenderer) buildStrokeOptions() *vector.StrokeOptions {
	opts := &vector.StrokeOptions{
		Width:      cr.lineWidth,
		MiterLimit: 10,
	}
	switch cr.lineCap {
	case LineCapButt:
		opts.LineCap = vector.LineCapButt
	case LineCapRound:
		opts.LineCap = vector.LineCapRound
	case LineCapSquare:
		opts.LineCap = vector.LineCapSquare
	}
	switch cr.lineJoin {
	case LineJoinMiter:
		opts.LineJoin = vector.LineJoinMiter
	case LineJoinRound:
		opts.LineJoin = vector.LineJoinRound
	case LineJoinBevel:
		opts.LineJoin = vector.LineJoinBevel
	}
	return opts
}

// setVertexColors sets the current color on all vertices.
// This must be called while holding the mutex.
func (cr *CairoRenderer) setVertexColors(vertices []ebiten.Vertex) {
	r := float32(cr.currentColor.R) / 255
	g := float32(cr.currentColor.G) / 255
	b := float32(cr.currentColor.B) / 255
	a := float32(cr.currentColor.A) / 255
	for i := range vertices {
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
		vertices[i].ColorR = r
		vertices[i].ColorG = g
		vertices[i].ColorB = b
		vertices[i].ColorA = a
	}
}

// clearPathUnlocked resets the path state without acquiring the mutex.
// This must be called while holding the mutex.
func (cr *CairoRenderer) clearPathUnlocked() {
	cr.path = &vector.Path{}
	cr.hasPath = false
	cr.pathCurrentX = 0
	cr.pathCurrentY = 0
}

// emptySubImage is the white centre pixel of a 3x3 image, used as the
// source for vertex-coloured triangles.
var emptySubImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()
