package config

import (
	"testing"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_QUIZ_VAR", "test_value")
	t.Setenv("TEST_QUIZ_NAME", "Ana")
	t.Setenv("TEST_QUIZ_EMPTY", "")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no variables", "plain text without variables", "plain text without variables"},
		{"braced", "prefix ${TEST_QUIZ_VAR} suffix", "prefix test_value suffix"},
		{"simple", "prefix $TEST_QUIZ_VAR suffix", "prefix test_value suffix"},
		{"unset becomes empty", "prefix ${UNSET_VAR_12345} suffix", "prefix  suffix"},
		{"unset with default", "${UNSET_VAR_12345:-fallback}", "fallback"},
		{"empty uses default", "${TEST_QUIZ_EMPTY:-fallback}", "fallback"},
		{"set ignores default", "Olá ${TEST_QUIZ_NAME:-jogador}!", "Olá Ana!"},
		{"empty default", "${UNSET_VAR_12345:-}", ""},
		{"adjacent", "${TEST_QUIZ_NAME}${TEST_QUIZ_VAR}", "Anatest_value"},
		{"default with colon", "${UNSET:-a:b:c}", "a:b:c"},
		{"dollar without name", "costs $5", "costs $5"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.expected {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExpandEnvConfig(t *testing.T) {
	t.Setenv("QUIZ_TEST_PLAYER", "Bia")

	cfg := DefaultConfig()
	cfg.Window.Title = "matrixquiz - ${QUIZ_TEST_PLAYER}"
	cfg.Quiz.SuccessMessage = "Correto, $QUIZ_TEST_PLAYER!"
	cfg.Quiz.FailureMessage = "${QUIZ_TEST_MISSING:-Errado!}"

	ExpandEnvConfig(&cfg)

	if cfg.Window.Title != "matrixquiz - Bia" {
		t.Errorf("Title = %q", cfg.Window.Title)
	}
	if cfg.Quiz.SuccessMessage != "Correto, Bia!" {
		t.Errorf("SuccessMessage = %q", cfg.Quiz.SuccessMessage)
	}
	if cfg.Quiz.FailureMessage != "Errado!" {
		t.Errorf("FailureMessage = %q", cfg.Quiz.FailureMessage)
	}
}

func TestExpandEnvConfigNil(t *testing.T) {
	// Should not panic
	ExpandEnvConfig(nil)
	ExpandEnvConfigWithOptions(nil, WithExpandTitle(false))
}

func TestExpandEnvConfigWithOptions(t *testing.T) {
	t.Setenv("QUIZ_TEST_X", "x")

	tests := []struct {
		name        string
		opts        []EnvConfigOption
		wantTitle   string
		wantMessage string
	}{
		{"all", nil, "x", "x"},
		{"title only", []EnvConfigOption{WithExpandMessages(false)}, "x", "$QUIZ_TEST_X"},
		{"messages only", []EnvConfigOption{WithExpandTitle(false)}, "$QUIZ_TEST_X", "x"},
		{"none", []EnvConfigOption{WithExpandTitle(false), WithExpandMessages(false)}, "$QUIZ_TEST_X", "$QUIZ_TEST_X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Window.Title = "$QUIZ_TEST_X"
			cfg.Quiz.SuccessMessage = "$QUIZ_TEST_X"
			ExpandEnvConfigWithOptions(&cfg, tt.opts...)
			if cfg.Window.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", cfg.Window.Title, tt.wantTitle)
			}
			if cfg.Quiz.SuccessMessage != tt.wantMessage {
				t.Errorf("SuccessMessage = %q, want %q", cfg.Quiz.SuccessMessage, tt.wantMessage)
			}
		})
	}
}
