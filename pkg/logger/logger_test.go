package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env        string
		debugLevel bool
	}{
		{env: "local", debugLevel: true},
		{env: "dev", debugLevel: true},
		{env: "production", debugLevel: false},
		{env: "", debugLevel: false},
	}

	for _, tt := range tests {
		t.Run("env_"+tt.env, func(t *testing.T) {
			log := New(tt.env)
			assert.NotNil(t, log)
			assert.Equal(t, tt.debugLevel, log.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		})
	}
}
