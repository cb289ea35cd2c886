// Package render provides Ebiten-based rendering for matrixquiz.
// This file implements colour parsing and the small set of colour helpers
// used by the plane renderer and the input widgets.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// NamedColors maps CSS colour names to their RGBA values.
var NamedColors = map[string]color.RGBA{
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 128, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"yellow":      {R: 255, G: 255, B: 0, A: 255},
	"cyan":        {R: 0, G: 255, B: 255, A: 255},
	"magenta":     {R: 255, G: 0, B: 255, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"silver":      {R: 192, G: 192, B: 192, A: 255},
	"orange":      {R: 255, G: 165, B: 0, A: 255},
	"purple":      {R: 128, G: 0, B: 128, A: 255},
	"teal":        {R: 0, G: 128, B: 128, A: 255},
	"navy":        {R: 0, G: 0, B: 128, A: 255},
	"maroon":      {R: 128, G: 0, B: 0, A: 255},
	"crimson":     {R: 220, G: 20, B: 60, A: 255},
	"darkgreen":   {R: 0, G: 100, B: 0, A: 255},
	"lightblue":   {R: 173, G: 216, B: 230, A: 255},
	"lightgray":   {R: 211, G: 211, B: 211, A: 255},
	"lightgrey":   {R: 211, G: 211, B: 211, A: 255},
	"darkgray":    {R: 169, G: 169, B: 169, A: 255},
	"darkgrey":    {R: 169, G: 169, B: 169, A: 255},
	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// ParseColor parses a colour string and returns an RGBA colour.
// Supported formats:
//   - Named colours: "red", "blue", "orange", ...
//   - Hex: "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA", with or without '#'
//   - "rgb(255, 0, 0)" and "rgba(255, 0, 0, 0.5)" or "rgba(255, 0, 0, 128)"
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}

	if clr, ok := NamedColors[strings.ToLower(s)]; ok {
		return clr, nil
	}

	if strings.HasPrefix(s, "#") || isHexString(s) {
		return parseHexColor(s)
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "rgba("):
		return parseRGBFunc(s, "rgba(", 4)
	case strings.HasPrefix(lower, "rgb("):
		return parseRGBFunc(s, "rgb(", 3)
	}

	return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
}

// MustParseColor parses a colour string and panics if parsing fails.
// Use this only for known-good colour values in initialization code.
func MustParseColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// isHexString checks if the string looks like a hex colour (without #).
func isHexString(s string) bool {
	if len(s) != 3 && len(s) != 4 && len(s) != 6 && len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'f') ||
		(c >= 'A' && c <= 'F')
}

// parseHexColor parses a hex colour string. Shorthand forms repeat each
// digit; a missing alpha component means opaque.
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")

	var width int
	switch len(s) {
	case 3, 4:
		width = 1
	case 6, 8:
		width = 2
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}

	comps := [4]uint8{0, 0, 0, 255}
	names := [4]string{"red", "green", "blue", "alpha"}
	for i := 0; i*width < len(s); i++ {
		digits := s[i*width : (i+1)*width]
		if width == 1 {
			digits += digits
		}
		v, err := strconv.ParseUint(digits, 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid %s component: %w", names[i], err)
		}
		comps[i] = uint8(v)
	}
	return color.RGBA{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

// parseRGBFunc parses "rgb(r, g, b)" (n == 3) or "rgba(r, g, b, a)" (n == 4).
func parseRGBFunc(s, prefix string, n int) (color.RGBA, error) {
	if !strings.HasSuffix(s, ")") {
		return color.RGBA{}, fmt.Errorf("invalid %s) format: %q", prefix, s)
	}

	parts := strings.Split(s[len(prefix):len(s)-1], ",")
	if len(parts) != n {
		return color.RGBA{}, fmt.Errorf("%s) requires exactly %d values, got %d", prefix, n, len(parts))
	}

	comps := [4]uint8{0, 0, 0, 255}
	names := [4]string{"red", "green", "blue", "alpha"}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		var (
			v   uint8
			err error
		)
		if i == 3 {
			v, err = parseAlphaComponent(p)
		} else {
			v, err = parseColorComponent(p)
		}
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid %s value: %w", names[i], err)
		}
		comps[i] = v
	}
	return color.RGBA{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

// parseColorComponent parses a colour component value (0-255).
func parseColorComponent(s string) (uint8, error) {
	val, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(val), nil
}

// parseAlphaComponent parses an alpha value.
// Accepts both 0-255 integer and 0.0-1.0 float formats.
func parseAlphaComponent(s string) (uint8, error) {
	if strings.Contains(s, ".") {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return uint8(clamp01(val) * 255), nil
	}

	val, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(val), nil
}

// ToHex converts a colour to a hex string with # prefix.
// Format: #RRGGBB or #RRGGBBAA if alpha is not 255.
func ToHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Lighten returns a lighter version of the colour.
// Amount is a value from 0.0-1.0, where 1.0 returns white.
func Lighten(c color.RGBA, amount float64) color.RGBA {
	amount = clamp01(amount)
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*amount),
		G: uint8(float64(c.G) + (255-float64(c.G))*amount),
		B: uint8(float64(c.B) + (255-float64(c.B))*amount),
		A: c.A,
	}
}

// Darken returns a darker version of the colour.
// Amount is a value from 0.0-1.0, where 1.0 returns black.
func Darken(c color.RGBA, amount float64) color.RGBA {
	amount = clamp01(amount)
	return color.RGBA{
		R: uint8(float64(c.R) * (1 - amount)),
		G: uint8(float64(c.G) * (1 - amount)),
		B: uint8(float64(c.B) * (1 - amount)),
		A: c.A,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
