package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "transactions.csv", cfg.Data.RawArtifact)
	assert.Equal(t, "customer_features.csv", cfg.Data.FinalArtifact)
	assert.Equal(t, 1, cfg.Cleaning.MaxAnomalousDigits)
	assert.Equal(t, "United Kingdom", cfg.Features.HomeMarket)
	assert.Equal(t, 0.05, cfg.Features.Contamination)
	assert.Equal(t, int64(42), cfg.Features.Seed)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SEGPIPE_FEATURES_CONTAMINATION", "0.1")
	t.Setenv("SEGPIPE_DATA_DIR", "/tmp/artifacts")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Features.Contamination)
	assert.Equal(t, "/tmp/artifacts", cfg.Data.Dir)
}

func TestLoadFromFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "features:\n  home_market: Germany\n  contamination: 0.2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Germany", cfg.Features.HomeMarket)
	assert.Equal(t, 0.2, cfg.Features.Contamination)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "data", cfg.Data.Dir)
}

func TestValidateRejectsBadContamination(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Features.Contamination = 0.9
	assert.Error(t, cfg.Validate())

	cfg.Features.Contamination = 0
	assert.Error(t, cfg.Validate())
}
