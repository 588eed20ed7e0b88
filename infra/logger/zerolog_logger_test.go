package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("station", &buf)
	l.Infof("booking %d accepted", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "station", rec["component"])
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "booking 7 accepted", rec["message"])
	assert.Contains(t, rec, "time")
}

func TestZerologLoggerDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("station", &buf)
	l.Debugf("hidden")
	l.Debugw("hidden", map[string]any{"k": 1})
	assert.Zero(t, buf.Len())
}

func TestNopLogger(t *testing.T) {
	// must not panic
	NopLogger{}.Debugf("x")
	NopLogger{}.Debugw("x", nil)
	NopLogger{}.Infof("x")
	NopLogger{}.Warnf("x")
	NopLogger{}.Errorf("x")
}
