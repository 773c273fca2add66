package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "vdrm", configBaseName)
	assert.Equal(t, "vdrm.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "rules", rulesFlagName)
	assert.Equal(t, "algorithm", algorithmFlagName)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "parallel", evalParallelFlagName)
	assert.Equal(t, "eval.parallel", evalParallelConfigKey)
	assert.Equal(t, "rules.yaml", defaultRulesFile)
	assert.Equal(t, "ASI2", defaultAlgorithm)
	assert.Equal(t, ".vdrm-reports", defaultReportsDir)
	assert.Equal(t, 1, defaultEvalParallel)
	assert.Equal(t, "VDRM", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty", "", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DeBuG", slog.LevelDebug},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}
