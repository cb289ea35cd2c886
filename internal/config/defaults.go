package config

import (
	"image/color"
)

// Default values for configuration options.
const (
	// DefaultTitle is the default window title.
	DefaultTitle = "matrixquiz"
	// DefaultPlaneSize is the default plane width and height in pixels.
	DefaultPlaneSize = 300
	// DefaultUnit is the default number of pixels per unit.
	DefaultUnit = 20
	// DefaultLabelRange is the default largest labelled tick.
	DefaultLabelRange = 10
	// DefaultGridMargin is the default number of grid units past each edge.
	DefaultGridMargin = 1
	// DefaultLabelSize is the default axis label size in pixels.
	DefaultLabelSize = 10.0
	// DefaultFontSize is the default UI font size in points.
	DefaultFontSize = 14.0
	// DefaultSuccessMessage is shown after a correct check.
	DefaultSuccessMessage = "Correto! Você acertou a matriz."
	// DefaultFailureMessage is shown after an incorrect check.
	DefaultFailureMessage = "Errado! Tente novamente."
	// DefaultLineCap ends strokes flush with their endpoints.
	DefaultLineCap = "butt"
	// DefaultLineJoin gives the transformed square sharp corners.
	DefaultLineJoin = "miter"
)

// Default colors.
var (
	// DefaultSecretColor outlines the secret matrix (red).
	DefaultSecretColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	// DefaultGuessColor outlines the guessed matrix (blue).
	DefaultGuessColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	// DefaultGridColor is the light grey grid (#ddd).
	DefaultGridColor = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 255}
	// Black is used for axes, labels and text.
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	// White is the plane background.
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// DefaultBackground is the window background.
	DefaultBackground = color.RGBA{R: 245, G: 245, B: 245, A: 255}
)

// DefaultConfig returns a Config with sensible default values.
// These defaults reproduce the stock game: two 300×300 planes with 20 px
// units, the secret in red and the guess in blue.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:     DefaultTitle,
			FontSize:  DefaultFontSize,
			Antialias: true,
		},
		Plane: PlaneConfig{
			Width:      DefaultPlaneSize,
			Height:     DefaultPlaneSize,
			Unit:       DefaultUnit,
			LabelRange: DefaultLabelRange,
			GridMargin: DefaultGridMargin,
			LabelSize:  DefaultLabelSize,
			LineWidth:  1,
			ShapeWidth: 2,
			LineCap:    DefaultLineCap,
			LineJoin:   DefaultLineJoin,
		},
		Colors: ColorConfig{
			Background:      DefaultBackground,
			PlaneBackground: White,
			Text:            Black,
			Secret:          DefaultSecretColor,
			Guess:           DefaultGuessColor,
			Axis:            Black,
			Grid:            DefaultGridColor,
			Label:           Black,
		},
		Quiz: QuizConfig{
			SuccessMessage: DefaultSuccessMessage,
			FailureMessage: DefaultFailureMessage,
		},
	}
}
