package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
backend: software
workers: 8
image_path: assets/photo.png
matrix_size: 8
log_level: debug
stages:
  saturation: false
  dither: true
adjustments:
  exposure: -0.5
  contrast: 1.2
  highlights: 0.8
  shadows: 1.1
  saturation: 1.5
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadParsesFullConfig(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "software", cfg.Backend)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "assets/photo.png", cfg.ImagePath)
	assert.Equal(t, 8, cfg.MatrixSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Stages.Saturation)
	assert.True(t, cfg.Stages.Dither)
	assert.Equal(t, float32(-0.5), cfg.Adjustments.Exposure)
	assert.Equal(t, float32(1.2), cfg.Adjustments.Contrast)
	assert.Equal(t, float32(1.5), cfg.Adjustments.Saturation)
}

func TestLoadFillsDefaultsForOmittedKeys(t *testing.T) {
	cfg, err := Load(writeTemp(t, "image_path: x.png\n"))
	require.NoError(t, err)

	assert.Equal(t, "x.png", cfg.ImagePath)
	assert.Equal(t, Default().Backend, cfg.Backend)
	assert.Equal(t, Default().MatrixSize, cfg.MatrixSize)
	assert.Equal(t, Default().Adjustments.Shadows, cfg.Adjustments.Shadows)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	bad := Default()
	bad.MatrixSize = 3
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Workers = -1
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Adjustments.Shadows = 0
	assert.Error(t, bad.Validate())
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	_, err := Load(writeTemp(t, "matrix_size: 5\n"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	original := Default()
	original.MatrixSize = 8
	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
