package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name     string
		debug    bool
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{"default is quiet", false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"debug mode", true, zapcore.DebugLevel, zapcore.Level(-2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.debug)
			require.NoError(t, err)

			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.disabled))
		})
	}
}

func TestNewServerLogger(t *testing.T) {
	log, err := NewServerLogger(false)
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestSync_NilLogger(t *testing.T) {
	assert.NoError(t, Sync(nil))
}
