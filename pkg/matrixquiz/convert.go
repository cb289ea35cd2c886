package matrixquiz

import (
	"slices"

	"github.com/opd-ai/go-matrixquiz/internal/config"
	"github.com/opd-ai/go-matrixquiz/internal/linalg"
	"github.com/opd-ai/go-matrixquiz/internal/quiz"
	"github.com/opd-ai/go-matrixquiz/internal/render"
)

// renderConfig maps a parsed configuration onto the renderer's settings.
func renderConfig(cfg *config.Config) render.Config {
	rc := render.DefaultConfig()
	if cfg.Window.Title != "" {
		rc.Title = cfg.Window.Title
	}
	rc.FontSize = cfg.Window.FontSize
	rc.ShowDeterminant = cfg.Window.ShowDeterminant
	rc.Antialias = cfg.Window.Antialias
	rc.PlaneWidth = cfg.Plane.Width
	rc.PlaneHeight = cfg.Plane.Height
	rc.BackgroundColor = cfg.Colors.Background
	rc.PlaneBackground = cfg.Colors.PlaneBackground
	rc.TextColor = cfg.Colors.Text
	rc.SecretColor = cfg.Colors.Secret
	rc.GuessColor = cfg.Colors.Guess
	rc.Widgets.TextColor = cfg.Colors.Text
	rc.Plane = planeStyle(cfg)
	return rc
}

// planeStyle maps the plane and colour settings onto a PlaneStyle.
func planeStyle(cfg *config.Config) render.PlaneStyle {
	st := render.DefaultPlaneStyle()
	st.Unit = cfg.Plane.Unit
	st.LabelRange = cfg.Plane.LabelRange
	st.GridMargin = cfg.Plane.GridMargin
	st.LabelSize = cfg.Plane.LabelSize
	st.LineWidth = cfg.Plane.LineWidth
	st.ShapeWidth = cfg.Plane.ShapeWidth
	// Validation has already rejected unknown names; they fall back to
	// butt and miter.
	st.LineCap, _ = render.ParseLineCap(cfg.Plane.LineCap)
	st.LineJoin, _ = render.ParseLineJoin(cfg.Plane.LineJoin)
	st.AxisColor = cfg.Colors.Axis
	st.GridColor = cfg.Colors.Grid
	st.LabelColor = cfg.Colors.Label
	st.EdgeColors = slices.Clone(cfg.Colors.Edges)
	return st
}

func messages(cfg *config.Config) quiz.Messages {
	return quiz.Messages{
		Success: cfg.Quiz.SuccessMessage,
		Failure: cfg.Quiz.FailureMessage,
	}
}

// sampler returns a reproducible sampler for a non-zero seed and a
// randomly seeded one otherwise. override takes precedence over the
// configured seed.
func sampler(cfg *config.Config, override int64) *linalg.Sampler {
	seed := cfg.Quiz.Seed
	if override != 0 {
		seed = override
	}
	if seed == 0 {
		return linalg.NewSampler(nil)
	}
	return linalg.NewSeededSampler(uint64(seed))
}
