// Package config provides configuration parsing and validation for matrixquiz.
// This file implements validation of configuration values.
package config

import (
	"fmt"
	"image/color"
	"slices"
	"strings"
)

// Limits used by validation.
const (
	// MinUnit is the smallest unit that still separates grid lines.
	MinUnit = 2
	// maxDimension triggers a size warning.
	maxDimension = 4000
	// maxFontSize triggers a font size warning.
	maxFontSize = 200
)

// Stroke styles accepted for line_cap and line_join. Empty selects the
// first entry.
var (
	lineCaps  = []string{"butt", "round", "square"}
	lineJoins = []string{"miter", "round", "bevel"}
)

func validName(s string, names []string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || slices.Contains(names, s)
}

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Validator checks a Config for values the game cannot use.
type Validator struct {
	// strictMode promotes warnings to errors.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode enables strict validation where warnings are errors.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate performs validation of a Config.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	v.validateWindow(&cfg.Window, result)
	v.validatePlane(&cfg.Plane, result)
	v.validateColors(&cfg.Colors, result)
	v.validateQuiz(&cfg.Quiz, result)

	if v.strictMode {
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
	}
	return result
}

// validateWindow validates WindowConfig settings.
func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.FontSize <= 0 {
		result.AddError("window.font_size", fmt.Sprintf("must be positive, got %v", wc.FontSize))
	}
	if wc.FontSize > maxFontSize {
		result.AddWarning("window.font_size", fmt.Sprintf("unusually large font size: %v", wc.FontSize))
	}
	if strings.TrimSpace(wc.Title) == "" {
		result.AddWarning("window.title", "empty title")
	}
}

// validatePlane validates PlaneConfig settings.
func (v *Validator) validatePlane(pc *PlaneConfig, result *ValidationResult) {
	if pc.Width <= 0 {
		result.AddError("plane.width", fmt.Sprintf("must be positive, got %d", pc.Width))
	}
	if pc.Height <= 0 {
		result.AddError("plane.height", fmt.Sprintf("must be positive, got %d", pc.Height))
	}
	if pc.Width > maxDimension {
		result.AddWarning("plane.width", fmt.Sprintf("unusually large value %d", pc.Width))
	}
	if pc.Height > maxDimension {
		result.AddWarning("plane.height", fmt.Sprintf("unusually large value %d", pc.Height))
	}

	if pc.Unit < MinUnit {
		result.AddError("plane.unit", fmt.Sprintf("must be at least %d, got %d", MinUnit, pc.Unit))
	}
	if pc.LabelRange < 0 {
		result.AddError("plane.label_range", fmt.Sprintf("must be non-negative, got %d", pc.LabelRange))
	}
	if pc.GridMargin < 0 {
		result.AddError("plane.grid_margin", fmt.Sprintf("must be non-negative, got %d", pc.GridMargin))
	}
	if pc.LabelSize <= 0 {
		result.AddError("plane.label_size", fmt.Sprintf("must be positive, got %v", pc.LabelSize))
	}
	if pc.LineWidth <= 0 {
		result.AddError("plane.line_width", fmt.Sprintf("must be positive, got %v", pc.LineWidth))
	}
	if pc.ShapeWidth <= 0 {
		result.AddError("plane.shape_width", fmt.Sprintf("must be positive, got %v", pc.ShapeWidth))
	}

	if !validName(pc.LineCap, lineCaps) {
		result.AddError("plane.line_cap", fmt.Sprintf("must be one of %s, got %q", strings.Join(lineCaps, ", "), pc.LineCap))
	}
	if !validName(pc.LineJoin, lineJoins) {
		result.AddError("plane.line_join", fmt.Sprintf("must be one of %s, got %q", strings.Join(lineJoins, ", "), pc.LineJoin))
	}

	// A secret with entries up to ±5 spans ten units; warn when the plane
	// cannot show it.
	if pc.Unit >= MinUnit && pc.Width > 0 && pc.Height > 0 {
		if half := min(pc.Width, pc.Height) / 2; half < 5*pc.Unit {
			result.AddWarning("plane.unit",
				fmt.Sprintf("%d px units on a %dx%d plane clip shapes beyond %d units", pc.Unit, pc.Width, pc.Height, half/pc.Unit))
		}
	}
}

// validateColors validates ColorConfig settings.
func (v *Validator) validateColors(cc *ColorConfig, result *ValidationResult) {
	// Colors are validated during parsing, so we check for visibility
	// issues here.
	named := []struct {
		field string
		c     color.RGBA
	}{
		{"colors.secret", cc.Secret},
		{"colors.guess", cc.Guess},
		{"colors.axis", cc.Axis},
		{"colors.text", cc.Text},
	}
	for _, n := range named {
		if n.c.A == 0 {
			result.AddWarning(n.field, "fully transparent color will be invisible")
		}
	}
	if len(cc.Edges) == 0 && cc.Secret == cc.Guess {
		result.AddWarning("colors.guess", "same as the secret color")
	}
	if cc.Text == cc.Background {
		result.AddWarning("colors.text", "same as the background color")
	}
}

// validateQuiz validates QuizConfig settings.
func (v *Validator) validateQuiz(qc *QuizConfig, result *ValidationResult) {
	if qc.Seed < 0 {
		result.AddError("quiz.seed", fmt.Sprintf("must be non-negative, got %d", qc.Seed))
	}
	if qc.SuccessMessage == "" {
		result.AddWarning("quiz.success_message", "empty, the default message will be used")
	}
	if qc.FailureMessage == "" {
		result.AddWarning("quiz.failure_message", "empty, the default message will be used")
	}
	if qc.SuccessMessage != "" && qc.SuccessMessage == qc.FailureMessage {
		result.AddWarning("quiz.failure_message", "same as the success message")
	}
}

// ValidateConfig is a convenience function to validate a Config with default settings.
// Returns nil if the config is valid, or an error describing validation failures.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	validator := NewValidator()
	result := validator.Validate(cfg)
	return result.Error()
}

// ValidateConfigStrict validates a Config with strict mode enabled.
// Warnings are treated as errors.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	validator := NewValidator().WithStrictMode(true)
	result := validator.Validate(cfg)
	return result.Error()
}
