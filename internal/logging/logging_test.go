package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "defaults", wantLevel: zapcore.InfoLevel},
		{name: "json debug", level: "debug", format: "json", wantLevel: zapcore.DebugLevel},
		{name: "console warn", level: "WARN", format: "console", wantLevel: zapcore.WarnLevel},
		{name: "error", level: "error", wantLevel: zapcore.ErrorLevel},
		{name: "unknown level", level: "loud", wantErr: true},
		{name: "unknown format", format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}
