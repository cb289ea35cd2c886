// Package config provides configuration parsing for matrixquiz.
// This file defines the configuration data structures.
package config

import (
	"image/color"
)

// Config represents a complete matrixquiz configuration.
// It holds all settings parsed from a Lua configuration file.
type Config struct {
	// Window contains window-related settings.
	Window WindowConfig
	// Plane contains Cartesian plane geometry.
	Plane PlaneConfig
	// Colors contains the colour palette.
	Colors ColorConfig
	// Quiz contains round and feedback settings.
	Quiz QuizConfig
}

// WindowConfig defines the game window.
type WindowConfig struct {
	// Title is the window title.
	Title string
	// FontSize is the size of captions, cells and buttons in points.
	FontSize float64
	// ShowDeterminant appends the guess determinant to its caption.
	ShowDeterminant bool
	// Antialias smooths plane strokes.
	Antialias bool
}

// PlaneConfig defines the geometry of each plane.
type PlaneConfig struct {
	// Width and Height are the plane size in pixels.
	Width  int
	Height int
	// Unit is the number of pixels per mathematical unit.
	Unit int
	// LabelRange labels integer ticks from -LabelRange to LabelRange.
	LabelRange int
	// GridMargin is the number of extra grid units past each edge.
	GridMargin int
	// LabelSize is the axis label size in pixels.
	LabelSize float64
	// LineWidth is used for axes and grid.
	LineWidth float64
	// ShapeWidth is used for the transformed unit square.
	ShapeWidth float64
	// LineCap is butt, round or square.
	LineCap string
	// LineJoin is miter, round or bevel.
	LineJoin string
}

// ColorConfig defines the colour palette.
type ColorConfig struct {
	Background      color.RGBA
	PlaneBackground color.RGBA
	Text            color.RGBA
	Secret          color.RGBA
	Guess           color.RGBA
	Axis            color.RGBA
	Grid            color.RGBA
	Label           color.RGBA
	// Edges, when non-empty, strokes each side of the transformed square
	// in turn instead of using Secret or Guess.
	Edges []color.RGBA
}

// QuizConfig defines round behaviour.
type QuizConfig struct {
	// Seed makes secret matrices reproducible; 0 picks a random seed.
	Seed int64
	// SuccessMessage is shown after a correct check.
	SuccessMessage string
	// FailureMessage is shown after an incorrect check.
	FailureMessage string
}

// Validate checks if the configuration is valid.
// Returns an error describing all problems found, or nil.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}
