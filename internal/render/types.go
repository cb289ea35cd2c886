// Package render provides Ebiten-based rendering for matrixquiz.
package render

import (
	"fmt"
	"image/color"
)

// defaultFontSize is the default font size in points.
const defaultFontSize = 14.0

// Labels holds the fixed display strings of the game window.
type Labels struct {
	Heading       string
	SecretCaption string
	GuessCaption  string
	InputCaption  string
	CheckButton   string
	NewRound      string
}

// DefaultLabels returns the stock display strings.
func DefaultLabels() Labels {
	return Labels{
		Heading:       "Escolha a matriz correta",
		SecretCaption: "Matriz Aleatória",
		GuessCaption:  "Sua Matriz",
		InputCaption:  "Digite os valores da matriz:",
		CheckButton:   "Enviar Resposta",
		NewRound:      "Gerar Nova Matriz",
	}
}

// Config holds the rendering configuration options.
type Config struct {
	// Title is the window title.
	Title string
	// PlaneWidth and PlaneHeight are the pixel size of each plane.
	PlaneWidth  int
	PlaneHeight int
	// BackgroundColor is the window background colour.
	BackgroundColor color.RGBA
	// PlaneBackground is the colour each plane is cleared to.
	PlaneBackground color.RGBA
	// TextColor is used for captions and the result message.
	TextColor color.RGBA
	// SecretColor outlines the transformed square of the secret matrix.
	SecretColor color.RGBA
	// GuessColor outlines the transformed square of the guess matrix.
	GuessColor color.RGBA
	// FontSize is the size of captions, input text and buttons.
	FontSize float64
	// Plane controls axes, grid, labels and stroke widths.
	Plane PlaneStyle
	// Widgets styles the input cells and buttons.
	Widgets WidgetStyle
	// Labels are the window's display strings.
	Labels Labels
	// ShowDeterminant appends det(guess) to the guess caption.
	ShowDeterminant bool
	// Antialias smooths plane strokes in the window.
	Antialias bool
}

// DefaultConfig returns a Config with two 300×300 planes, the secret drawn
// in red and the guess in blue.
func DefaultConfig() Config {
	return Config{
		Title:           "matrixquiz",
		PlaneWidth:      300,
		PlaneHeight:     300,
		BackgroundColor: color.RGBA{R: 245, G: 245, B: 245, A: 255},
		PlaneBackground: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		TextColor:       color.RGBA{R: 0, G: 0, B: 0, A: 255},
		SecretColor:     color.RGBA{R: 255, G: 0, B: 0, A: 255},
		GuessColor:      color.RGBA{R: 0, G: 0, B: 255, A: 255},
		FontSize:        defaultFontSize,
		Plane:           DefaultPlaneStyle(),
		Widgets:         DefaultWidgetStyle(),
		Labels:          DefaultLabels(),
		Antialias:       true,
	}
}

// Validate checks if the Config has valid values.
// Returns an error if the plane size is not positive.
func (c Config) Validate() error {
	if c.PlaneWidth <= 0 {
		return fmt.Errorf("plane width must be positive, got %d", c.PlaneWidth)
	}
	if c.PlaneHeight <= 0 {
		return fmt.Errorf("plane height must be positive, got %d", c.PlaneHeight)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %v", c.FontSize)
	}
	return nil
}
