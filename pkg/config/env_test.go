package config

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("STUDIO_TEST_VAR", "")
	if got := GetEnv("STUDIO_TEST_VAR", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %s", got)
	}
	t.Setenv("STUDIO_TEST_VAR", "set")
	if got := GetEnv("STUDIO_TEST_VAR", "fallback"); got != "set" {
		t.Fatalf("expected set, got %s", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("STUDIO_TEST_NUM", "")
	if got := GetEnvInt("STUDIO_TEST_NUM", 10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	t.Setenv("STUDIO_TEST_NUM", "25")
	if got := GetEnvInt("STUDIO_TEST_NUM", 10); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
	t.Setenv("STUDIO_TEST_NUM", "notanumber")
	if got := GetEnvInt("STUDIO_TEST_NUM", 3); got != 3 {
		t.Fatalf("expected 3 on parse error, got %d", got)
	}
}

func TestGetLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"":      logrus.InfoLevel,
	}
	for value, want := range cases {
		t.Setenv("LOG_LEVEL", value)
		if got := GetLogLevel(); got != want {
			t.Fatalf("LOG_LEVEL=%q: expected %v, got %v", value, want, got)
		}
	}
}

func TestLoadEnvWithoutFiles(t *testing.T) {
	// No .env in the test working directory; must not panic.
	LoadEnv(logrus.New())
	LoadEnv(nil)
}
