package render

import (
	"image/color"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PlaneWidth != 300 || cfg.PlaneHeight != 300 {
		t.Errorf("plane size = %dx%d, want 300x300", cfg.PlaneWidth, cfg.PlaneHeight)
	}
	if cfg.SecretColor != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("SecretColor = %v, want red", cfg.SecretColor)
	}
	if cfg.GuessColor != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("GuessColor = %v, want blue", cfg.GuessColor)
	}
	if cfg.Plane.Unit != DefaultUnit {
		t.Errorf("Plane.Unit = %d, want %d", cfg.Plane.Unit, DefaultUnit)
	}
	if cfg.Labels.CheckButton != "Enviar Resposta" || cfg.Labels.NewRound != "Gerar Nova Matriz" {
		t.Errorf("unexpected button labels: %+v", cfg.Labels)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero width", func(c *Config) { c.PlaneWidth = 0 }, true},
		{"negative height", func(c *Config) { c.PlaneHeight = -10 }, true},
		{"zero font size", func(c *Config) { c.FontSize = 0 }, true},
		{"odd plane", func(c *Config) { c.PlaneWidth = 301 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestComputeLayout(t *testing.T) {
	l := computeLayout(DefaultConfig())

	if l.secretPlane.W != 300 || l.guessPlane.H != 300 {
		t.Errorf("plane rects = %+v / %+v", l.secretPlane, l.guessPlane)
	}
	if l.secretPlane.X+l.secretPlane.W >= l.guessPlane.X {
		t.Error("planes overlap")
	}
	if l.secretPlane.Y != l.guessPlane.Y {
		t.Error("planes should share a row")
	}
	if float64(l.width) < l.guessPlane.X+l.guessPlane.W {
		t.Errorf("width %d does not fit the guess plane", l.width)
	}
	for i := 1; i < len(l.fields); i++ {
		for j := 0; j < i; j++ {
			a, b := l.fields[i], l.fields[j]
			if a.Contains(b.X+1, b.Y+1) {
				t.Errorf("fields %d and %d overlap", i, j)
			}
		}
	}
	// Cells are laid out row-major: 0 1 / 2 3.
	if l.fields[0].Y != l.fields[1].Y || l.fields[0].X != l.fields[2].X {
		t.Errorf("fields not row-major: %+v", l.fields)
	}
	if l.check.Y <= l.fields[3].Y || l.message.Y <= l.check.Y {
		t.Error("buttons must sit below the cells and the message below the buttons")
	}
	if float64(l.height) <= l.message.Y {
		t.Errorf("height %d does not fit the message line", l.height)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 10}
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 10, true},
		{29.9, 19.9, true},
		{30, 15, false},
		{15, 20, false},
		{9, 15, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if x, y := r.Center(); x != 20 || y != 15 {
		t.Errorf("Center() = (%v, %v), want (20, 15)", x, y)
	}
}

func TestPlaneKindString(t *testing.T) {
	if SecretPlane.String() != "secret" || GuessPlane.String() != "guess" {
		t.Error("unexpected plane names")
	}
	if PlaneKind(9).String() != "unknown" {
		t.Error("out of range kind should be unknown")
	}
}
