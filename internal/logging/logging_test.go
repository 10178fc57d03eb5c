package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	lg, err := New("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lg.Level())

	lg, err = New("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lg.Level())
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty")
	assert.Error(t, err)
}
