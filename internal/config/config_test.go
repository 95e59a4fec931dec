package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speck-sh/speck/internal/coverage"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AbsentFile_IsNotAnError(t *testing.T) {
	opts := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, Defaults(), opts)
	assert.Equal(t, 0, opts.Threshold)
	assert.True(t, opts.Messages)
}

func TestLoad_FullManifest(t *testing.T) {
	path := writeManifest(t, `
coverage:
  threshold: 95
  formula: legacy
report:
  messages: false
`)
	opts := Load(path)
	assert.Equal(t, 95, opts.Threshold)
	assert.Equal(t, coverage.FormulaLegacy, opts.Formula)
	assert.False(t, opts.Messages)
}

func TestLoad_AbsentSections_KeepDefaults(t *testing.T) {
	path := writeManifest(t, "coverage:\n  threshold: 80\n")
	opts := Load(path)
	assert.Equal(t, 80, opts.Threshold)
	assert.Equal(t, coverage.FormulaRound, opts.Formula)
	assert.True(t, opts.Messages)
}

func TestLoad_ThresholdOutOfRange_Ignored(t *testing.T) {
	path := writeManifest(t, "coverage:\n  threshold: 150\n")
	assert.Equal(t, 0, Load(path).Threshold)
}

func TestLoad_MalformedYAML_FallsBackToDefaults(t *testing.T) {
	path := writeManifest(t, "coverage: [not: valid\n")
	assert.Equal(t, Defaults(), Load(path))
}
