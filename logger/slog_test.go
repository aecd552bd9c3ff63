package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger_JSON(t *testing.T) {
	require := require.New(t)
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, InfoLevel, false)

	l.Debug("hidden")
	require.Zero(buf.Len())

	l.With("relay", 3).Info("relay on", "cmd", "on")

	var rec map[string]any
	require.NoError(json.Unmarshal(buf.Bytes(), &rec))
	require.Equal("relay on", rec["msg"])
	require.Equal("on", rec["cmd"])
	require.EqualValues(3, rec["relay"])
	require.Contains(rec, "ts")
	require.NotContains(rec, "time")
}

func TestSlogLogger_Level(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, WarnLevel, false)
	require.Equal(WarnLevel, l.Level())

	child := l.With("addr", "127.0.0.1:8899")
	l.SetLevel(DebugLevel)
	require.Equal(DebugLevel, child.Level())

	child.Debug("frame sent")
	require.Contains(buf.String(), "frame sent")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ParseLevel(tt.name))
		})
	}
}
