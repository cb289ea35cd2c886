// Package config provides configuration parsing for matrixquiz.
// This file implements environment variable expansion support for configuration values.
package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches environment variable references in configuration values.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string.
// It supports the following formats:
//   - ${VAR_NAME} - replaced with value of VAR_NAME
//   - ${VAR_NAME:-default} - replaced with VAR_NAME's value, or "default" if unset/empty
//   - $VAR_NAME - replaced with value of VAR_NAME (simple format)
//
// Unknown or unset variables without defaults are replaced with empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") && strings.HasSuffix(match, "}") {
			inner := match[2 : len(match)-1]

			if name, def, ok := strings.Cut(inner, ":-"); ok {
				if val := os.Getenv(name); val != "" {
					return val
				}
				return def
			}
			return os.Getenv(inner)
		}
		return os.Getenv(strings.TrimPrefix(match, "$"))
	})
}

// ExpandEnvConfig expands environment variables in all string configuration
// values: the window title and both feedback messages.
func ExpandEnvConfig(cfg *Config) {
	ExpandEnvConfigWithOptions(cfg)
}

// EnvConfigOption is a functional option for environment variable expansion.
type EnvConfigOption func(*envConfigOptions)

type envConfigOptions struct {
	expandTitle    bool
	expandMessages bool
}

// defaultEnvConfigOptions returns the default options (all expansion enabled).
func defaultEnvConfigOptions() *envConfigOptions {
	return &envConfigOptions{
		expandTitle:    true,
		expandMessages: true,
	}
}

// WithExpandTitle controls whether the window title should be expanded.
func WithExpandTitle(expand bool) EnvConfigOption {
	return func(o *envConfigOptions) {
		o.expandTitle = expand
	}
}

// WithExpandMessages controls whether the feedback messages should be expanded.
func WithExpandMessages(expand bool) EnvConfigOption {
	return func(o *envConfigOptions) {
		o.expandMessages = expand
	}
}

// ExpandEnvConfigWithOptions expands environment variables with specific options.
func ExpandEnvConfigWithOptions(cfg *Config, opts ...EnvConfigOption) {
	if cfg == nil {
		return
	}

	options := defaultEnvConfigOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.expandTitle {
		cfg.Window.Title = ExpandEnv(cfg.Window.Title)
	}
	if options.expandMessages {
		cfg.Quiz.SuccessMessage = ExpandEnv(cfg.Quiz.SuccessMessage)
		cfg.Quiz.FailureMessage = ExpandEnv(cfg.Quiz.FailureMessage)
	}
}
