package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	os.Setenv("QF_TEST_STR", "hello")
	defer os.Unsetenv("QF_TEST_STR")

	if got := getEnvOrDefault("QF_TEST_STR", "fallback"); got != "hello" {
		t.Errorf("Expected env value, got %q", got)
	}
	if got := getEnvOrDefault("QF_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"parses integer", "42", 42},
		{"empty uses default", "", 7},
		{"non-numeric uses default", "lots", 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.value != "" {
				os.Setenv("QF_TEST_INT", tc.value)
				defer os.Unsetenv("QF_TEST_INT")
			}
			if got := getEnvAsIntOrDefault("QF_TEST_INT", 7); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestMustGetEnv_PanicsWhenMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for missing required variable")
		}
	}()
	os.Unsetenv("QF_TEST_REQUIRED")
	mustGetEnv("QF_TEST_REQUIRED")
}
