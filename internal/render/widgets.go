//go:build !noebiten

// Package render provides Ebiten-based rendering for matrixquiz.
// This file implements the numeric input cells and push buttons of the
// game window.
package render

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// maxFieldLength bounds the number of characters a cell accepts.
const maxFieldLength = 12

// TextField is a single-line numeric input cell.
// When it gains focus its content is selected, so the next typed character
// replaces it.
type TextField struct {
	rect     Rect
	text     string
	focused  bool
	selected bool
	mu       sync.RWMutex
}

// NewTextField creates a cell occupying rect with initial text.
func NewTextField(rect Rect, text string) *TextField {
	return &TextField{rect: rect, text: text}
}

// Rect returns the cell bounds.
func (f *TextField) Rect() Rect {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rect
}

// Text returns the current content.
func (f *TextField) Text() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.text
}

// SetText replaces the content without emitting an edit.
func (f *TextField) SetText(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = s
}

// Focused reports whether the cell has keyboard focus.
func (f *TextField) Focused() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.focused
}

// SetFocused gives or removes keyboard focus.
func (f *TextField) SetFocused(focused bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = focused
	f.selected = focused
}

// Insert appends r if it can appear in a number and reports whether the
// content changed.
func (f *TextField) Insert(r rune) bool {
	if !acceptsRune(r) {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selected {
		f.text = ""
		f.selected = false
	}
	if len(f.text) >= maxFieldLength {
		return false
	}
	f.text += string(r)
	return true
}

// Backspace removes the last character, or the whole selected content,
// and reports whether the content changed.
func (f *TextField) Backspace() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selected {
		f.selected = false
		if f.text == "" {
			return false
		}
		f.text = ""
		return true
	}
	if f.text == "" {
		return false
	}
	f.text = f.text[:len(f.text)-1]
	return true
}

// Draw paints the cell.
func (f *TextField) Draw(screen *ebiten.Image, tr TextRendererInterface, style WidgetStyle) {
	f.mu.RLock()
	rect, text, focused, selected := f.rect, f.text, f.focused, f.selected
	f.mu.RUnlock()

	border := style.BorderColor
	if focused {
		border = style.FocusColor
	}
	fillRect(screen, rect, style.BackgroundColor)
	if selected && text != "" {
		inner := Rect{X: rect.X + 4, Y: rect.Y + 4, W: rect.W - 8, H: rect.H - 8}
		fillRect(screen, inner, Lighten(style.FocusColor, 0.8))
	}
	strokeRect(screen, rect, style.BorderWidth, border)
	cx, cy := rect.Center()
	tr.DrawTextCentered(screen, text, cx, cy, style.TextColor)
}

// Button is a clickable push button.
type Button struct {
	rect    Rect
	label   string
	hovered bool
	mu      sync.RWMutex
}

// NewButton creates a button occupying rect.
func NewButton(rect Rect, label string) *Button {
	return &Button{rect: rect, label: label}
}

// Rect returns the button bounds.
func (b *Button) Rect() Rect {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rect
}

// Label returns the button text.
func (b *Button) Label() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.label
}

// SetHovered records whether the pointer is over the button.
func (b *Button) SetHovered(hovered bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hovered = hovered
}

// Draw paints the button.
func (b *Button) Draw(screen *ebiten.Image, tr TextRendererInterface, style WidgetStyle) {
	b.mu.RLock()
	rect, label, hovered := b.rect, b.label, b.hovered
	b.mu.RUnlock()

	fill := style.ButtonColor
	if hovered {
		fill = Darken(fill, 0.1)
	}
	fillRect(screen, rect, fill)
	strokeRect(screen, rect, style.BorderWidth, style.BorderColor)
	cx, cy := rect.Center()
	tr.DrawTextCentered(screen, label, cx, cy, style.TextColor)
}

func acceptsRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '-', r == '+', r == '.', r == 'e', r == 'E':
		return true
	default:
		return false
	}
}

func fillRect(screen *ebiten.Image, r Rect, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}

func strokeRect(screen *ebiten.Image, r Rect, width float32, clr color.RGBA) {
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), width, clr, false)
}
