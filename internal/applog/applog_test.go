package applog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_JSONFormatEmitsParsableLines(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, zapcore.InfoLevel, FormatJSON)
	require.NoError(t, err)

	logger.Info("generation finished", zap.String("result", "PROTOC_SUCCEEDED"))
	require.NoError(t, logger.Sync())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "generation finished", decoded["msg"])
	assert.Equal(t, "PROTOC_SUCCEEDED", decoded["result"])
}

func TestNewLogger_TextFormatEmitsHumanReadableLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, zapcore.InfoLevel, FormatText)
	require.NoError(t, err)

	logger.Info("starting generation")
	require.NoError(t, logger.Sync())

	assert.True(t, strings.Contains(buf.String(), "starting generation"))
}

func TestNewLogger_LevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, zapcore.WarnLevel, FormatText)
	require.NoError(t, err)

	logger.Info("should not appear")
	logger.Warn("should appear")
	require.NoError(t, logger.Sync())

	assert.False(t, strings.Contains(buf.String(), "should not appear"))
	assert.True(t, strings.Contains(buf.String(), "should appear"))
}

func TestNewLogger_UnrecognisedFormatErrors(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewLogger(&buf, zapcore.InfoLevel, Format("xml"))
	assert.Error(t, err)
}
