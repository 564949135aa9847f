package nogo

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 0.68, cfg.InnerRadius)
	assert.Equal(t, Thresholds{Alg: 0.20, Info: 0.20, Dyn: 0.05, Geom: 0.30}, cfg.Thresholds)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NOGO_SEED", "7")
	t.Setenv("NOGO_CLOUD_SIZE", "4000")
	t.Setenv("NOGO_THRESHOLD_DYN", "0.04")
	t.Setenv("NOGO_SWEEP_SEEDS", "1, 2,3")
	t.Setenv("NOGO_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 4000, cfg.CloudSize)
	assert.Equal(t, 0.04, cfg.Thresholds.Dyn)
	assert.Equal(t, 0.20, cfg.Thresholds.Alg)
	assert.Equal(t, []uint64{1, 2, 3}, cfg.SweepSeeds)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_IgnoresUnparsable(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("NOGO_CLOUD_SIZE", "lots")
	t.Setenv("NOGO_SEED", "abc")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().CloudSize, cfg.CloudSize)
	assert.Equal(t, DefaultConfig().Seed, cfg.Seed)

	out := logs.String()
	assert.Contains(t, out, "key=NOGO_CLOUD_SIZE value=lots")
	assert.Contains(t, out, "key=NOGO_SEED value=abc")
	t.Logf("✓ rejected values are logged:\n%s", out)
}

func TestLoadConfig_Rejects(t *testing.T) {
	t.Run("inner radius", func(t *testing.T) {
		t.Setenv("NOGO_INNER_RADIUS", "1.5")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("seed list", func(t *testing.T) {
		t.Setenv("NOGO_SWEEP_SEEDS", "1,x")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrConfig)
	})
}

func TestValidate_ZeroThreshold(t *testing.T) {
	for _, set := range []func(*Thresholds){
		func(th *Thresholds) { th.Alg = 0 },
		func(th *Thresholds) { th.Info = 0 },
		func(th *Thresholds) { th.Dyn = 0 },
		func(th *Thresholds) { th.Geom = 0 },
	} {
		cfg := DefaultConfig()
		set(&cfg.Thresholds)
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrConfig)
		assert.ErrorContains(t, err, "non-positive threshold")
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CloudSize = 3
	cfg.Depolarizing = 1
	cfg.Thresholds.Geom = -0.1
	cfg.Workers = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	for _, want := range []string{"cloud size", "depolarizing", "non-positive threshold", "workers"} {
		assert.Contains(t, err.Error(), want)
	}
}
