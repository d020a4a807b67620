package log

import (
	"testing"
)

func TestZapLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		expected string
	}{
		{"debug level", LevelDebug, "debug"},
		{"info level", LevelInfo, "info"},
		{"warn level", LevelWarn, "warn"},
		{"error level", LevelError, "error"},
		{"unknown level defaults to info", Level("unknown"), "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := zapLevel(tt.level); got.String() != tt.expected {
				t.Errorf("zapLevel() = %v, want %v", got.String(), tt.expected)
			}
		})
	}
}

func TestInitAndGet(t *testing.T) {
	Reset()
	defer Reset()

	for _, level := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		t.Run(string(level), func(t *testing.T) {
			Reset()
			Init(Config{Level: level})
			if Get() == nil {
				t.Error("Get() returned nil logger")
			}
		})
	}
}

func TestGetInitializesDefault(t *testing.T) {
	Reset()
	defer Reset()

	if Get() == nil {
		t.Error("Get() returned nil logger before Init")
	}
}
