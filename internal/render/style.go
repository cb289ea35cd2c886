package render

import (
	"fmt"
	"image/color"
	"strings"
)

// WidgetStyle defines the visual appearance of input cells and buttons.
type WidgetStyle struct {
	// BackgroundColor fills input cells.
	BackgroundColor color.RGBA
	// ButtonColor fills buttons.
	ButtonColor color.RGBA
	// BorderColor is the color used for the widget border.
	BorderColor color.RGBA
	// FocusColor replaces BorderColor on the focused cell.
	FocusColor color.RGBA
	// TextColor is used for cell content and button labels.
	TextColor color.RGBA
	// BorderWidth is the width of the border in pixels.
	BorderWidth float32
}

// DefaultWidgetStyle returns a WidgetStyle with sensible defaults.
func DefaultWidgetStyle() WidgetStyle {
	return WidgetStyle{
		BackgroundColor: MustParseColor("white"),
		ButtonColor:     MustParseColor("#e1e1e1"),
		BorderColor:     MustParseColor("#767676"),
		FocusColor:      MustParseColor("#005fcc"),
		TextColor:       MustParseColor("black"),
		BorderWidth:     1.0,
	}
}

// Rect is an axis-aligned rectangle in window pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the centre point of r.
func (r Rect) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// LineCap represents the style of line end points.
type LineCap int

const (
	// LineCapButt ends the line at the exact endpoint.
	LineCapButt LineCap = iota
	// LineCapRound ends the line with a semicircular cap.
	LineCapRound
	// LineCapSquare ends the line with a square cap extending past the endpoint.
	LineCapSquare
)

// LineJoin represents the style of line corners.
type LineJoin int

const (
	// LineJoinMiter creates a sharp corner.
	LineJoinMiter LineJoin = iota
	// LineJoinRound creates a rounded corner.
	LineJoinRound
	// LineJoinBevel creates a beveled corner.
	LineJoinBevel
)

// String returns the configuration name of the cap.
func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "butt"
	case LineCapRound:
		return "round"
	case LineCapSquare:
		return "square"
	default:
		return "unknown"
	}
}

// String returns the configuration name of the join.
func (j LineJoin) String() string {
	switch j {
	case LineJoinMiter:
		return "miter"
	case LineJoinRound:
		return "round"
	case LineJoinBevel:
		return "bevel"
	default:
		return "unknown"
	}
}

// ParseLineCap parses "butt", "round" or "square". An empty string is butt.
func ParseLineCap(s string) (LineCap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "butt":
		return LineCapButt, nil
	case "round":
		return LineCapRound, nil
	case "square":
		return LineCapSquare, nil
	}
	return LineCapButt, fmt.Errorf("unknown line cap %q", s)
}

// ParseLineJoin parses "miter", "round" or "bevel". An empty string is miter.
func ParseLineJoin(s string) (LineJoin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "miter":
		return LineJoinMiter, nil
	case "round":
		return LineJoinRound, nil
	case "bevel":
		return LineJoinBevel, nil
	}
	return LineJoinMiter, fmt.Errorf("unknown line join %q", s)
}
