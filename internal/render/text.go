//go:build !noebiten

package render

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// TextRenderer handles text rendering using Ebiten's text package.
type TextRenderer struct {
	fontSource *text.GoTextFaceSource
	fontSize   float64
	mu         sync.RWMutex
}

// NewTextRenderer creates a new TextRenderer with the embedded Go Regular font.
func NewTextRenderer() *TextRenderer {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		// This should never fail with the embedded font
		panic("failed to load embedded font: " + err.Error())
	}

	return &TextRenderer{
		fontSource: fontSource,
		fontSize:   defaultFontSize,
	}
}

// SetFontSize sets the font size for text rendering.
// Non-positive sizes reset to the default size.
func (tr *TextRenderer) SetFontSize(size float64) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if size <= 0 {
		size = defaultFontSize
	}
	tr.fontSize = size
}

// FontSize returns the current font size.
func (tr *TextRenderer) FontSize() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.fontSize
}

// DrawText renders text with its top-left corner at (x, y).
func (tr *TextRenderer) DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA) {
	tr.mu.RLock()
	size := tr.fontSize
	tr.mu.RUnlock()
	tr.draw(screen, textStr, x, y, size, text.AlignStart, clr)
}

// DrawTextCentered renders text centred on (x, y) at the current font size.
func (tr *TextRenderer) DrawTextCentered(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA) {
	tr.mu.RLock()
	size := tr.fontSize
	tr.mu.RUnlock()
	tr.draw(screen, textStr, x, y, size, text.AlignCenter, clr)
}

// DrawTextCenteredSize renders text centred on (x, y) at the given size
// without changing the renderer's font size.
func (tr *TextRenderer) DrawTextCenteredSize(screen *ebiten.Image, textStr string, x, y, size float64, clr color.RGBA) {
	tr.draw(screen, textStr, x, y, size, text.AlignCenter, clr)
}

func (tr *TextRenderer) draw(screen *ebiten.Image, textStr string, x, y, size float64, align text.Align, clr color.RGBA) {
	face := &text.GoTextFace{
		Source: tr.fontSource,
		Size:   size,
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	op.SecondaryAlign = align

	text.Draw(screen, textStr, face, op)
}

// MeasureText returns the width and height of the given text string.
func (tr *TextRenderer) MeasureText(textStr string) (width, height float64) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	face := &text.GoTextFace{
		Source: tr.fontSource,
		Size:   tr.fontSize,
	}

	lineSpacing := tr.fontSize * 1.2
	w, h := text.Measure(textStr, face, lineSpacing)
	return w, h
}

// LineHeight returns the height of a single line of text.
func (tr *TextRenderer) LineHeight() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.fontSize * 1.2
}
