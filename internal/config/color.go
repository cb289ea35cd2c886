package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// colorNames maps the colour names accepted in configuration files.
var colorNames = map[string]color.RGBA{
	"black":     {R: 0, G: 0, B: 0, A: 255},
	"white":     {R: 255, G: 255, B: 255, A: 255},
	"red":       {R: 255, G: 0, B: 0, A: 255},
	"green":     {R: 0, G: 128, B: 0, A: 255},
	"blue":      {R: 0, G: 0, B: 255, A: 255},
	"yellow":    {R: 255, G: 255, B: 0, A: 255},
	"cyan":      {R: 0, G: 255, B: 255, A: 255},
	"magenta":   {R: 255, G: 0, B: 255, A: 255},
	"orange":    {R: 255, G: 165, B: 0, A: 255},
	"purple":    {R: 128, G: 0, B: 128, A: 255},
	"gray":      {R: 128, G: 128, B: 128, A: 255},
	"grey":      {R: 128, G: 128, B: 128, A: 255},
	"lightgray": {R: 211, G: 211, B: 211, A: 255},
	"lightgrey": {R: 211, G: 211, B: 211, A: 255},
	"darkgreen": {R: 0, G: 100, B: 0, A: 255},
	"navy":      {R: 0, G: 0, B: 128, A: 255},
}

// parseColor parses a colour name or a #rgb, #rrggbb or #rrggbbaa hex
// value. The leading '#' is optional.
func parseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	// Check named colors first
	if c, ok := colorNames[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color format: %s", s)
	}

	var comps [4]uint8
	for i, name := range []string{"red", "green", "blue", "alpha"} {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid %s component in color: %s", name, s)
		}
		comps[i] = uint8(v)
	}
	return color.RGBA{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

// parseColorList parses a comma-separated list of colours.
func parseColorList(s string) ([]color.RGBA, error) {
	var out []color.RGBA
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := parseColor(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
