package nogo

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Thresholds are the minimum proxy increases each oracle demands.
type Thresholds struct {
	Alg  float64 // C_alg across circuit compilation
	Info float64 // C_info across syndrome encoding
	Dyn  float64 // C_dyn across dynamical mixing
	Geom float64 // C_geom across the annulus transform
}

// Config controls one cycle run and the seed sweep.
type Config struct {
	Seed      uint64 // Measurement randomness
	CloudSize int    // Points in the geometric cloud

	// Syndrome encoding
	MeasuredQubit int
	Depolarizing  float64 // Channel strength s in (1-s)ρ + s·I/8

	// Dynamical mixing
	CatRounds int     // Cat-map applications on the bit torus
	IsingJ    float64 // ZZ coupling
	IsingH    float64 // Transverse field
	IsingTau  float64 // Kick period
	Kicks     int     // Floquet periods

	// Geometric transform
	InnerRadius float64 // a in T_a
	VoidAlpha   float64 // Void disk radius as a fraction of a

	Thresholds         Thresholds
	RoundTripTolerance float64

	SweepSeeds []uint64
	Workers    int // Sweep goroutines

	LogLevel string
}

// DefaultConfig returns the canonical demonstration parameters.
func DefaultConfig() Config {
	return Config{
		Seed:      42,
		CloudSize: 10000,

		MeasuredQubit: 0,
		Depolarizing:  0.1,

		CatRounds: 2,
		IsingJ:    math.Pi / 4,
		IsingH:    math.Pi / 8,
		IsingTau:  0.5,
		Kicks:     5,

		InnerRadius: 0.68,
		VoidAlpha:   0.8,

		Thresholds: Thresholds{
			Alg:  0.20,
			Info: 0.20,
			Dyn:  0.05,
			Geom: 0.30,
		},
		RoundTripTolerance: Tolerance,

		SweepSeeds: []uint64{7, 13, 37, 42, 101, 256, 512, 1024, 2025},
		Workers:    4,

		LogLevel: "info",
	}
}

// LoadConfig starts from DefaultConfig and applies NOGO_* environment
// overrides. A .env file in the working directory is read when present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.Seed = getEnvAsUint("NOGO_SEED", cfg.Seed)
	cfg.CloudSize = getEnvAsInt("NOGO_CLOUD_SIZE", cfg.CloudSize)
	cfg.Depolarizing = getEnvAsFloat("NOGO_DEPOLARIZING", cfg.Depolarizing)
	cfg.CatRounds = getEnvAsInt("NOGO_CAT_ROUNDS", cfg.CatRounds)
	cfg.Kicks = getEnvAsInt("NOGO_KICKS", cfg.Kicks)
	cfg.InnerRadius = getEnvAsFloat("NOGO_INNER_RADIUS", cfg.InnerRadius)
	cfg.Thresholds.Alg = getEnvAsFloat("NOGO_THRESHOLD_ALG", cfg.Thresholds.Alg)
	cfg.Thresholds.Info = getEnvAsFloat("NOGO_THRESHOLD_INFO", cfg.Thresholds.Info)
	cfg.Thresholds.Dyn = getEnvAsFloat("NOGO_THRESHOLD_DYN", cfg.Thresholds.Dyn)
	cfg.Thresholds.Geom = getEnvAsFloat("NOGO_THRESHOLD_GEOM", cfg.Thresholds.Geom)
	cfg.Workers = getEnvAsInt("NOGO_WORKERS", cfg.Workers)
	cfg.LogLevel = getEnv("NOGO_LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("NOGO_SWEEP_SEEDS"); v != "" {
		seeds, err := parseSeeds(v)
		if err != nil {
			return Config{}, fmt.Errorf("NOGO_SWEEP_SEEDS: %w", err)
		}
		cfg.SweepSeeds = seeds
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range parameter at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format+": %w", append(args, ErrConfig)...))
		}
	}

	check(c.CloudSize >= 16, "cloud size %d below 16", c.CloudSize)
	check(c.MeasuredQubit >= 0 && c.MeasuredQubit < NumQubits, "measured qubit %d out of range", c.MeasuredQubit)
	check(c.Depolarizing >= 0 && c.Depolarizing < 1, "depolarizing strength %g outside [0,1)", c.Depolarizing)
	check(c.CatRounds >= 1, "cat rounds %d below 1", c.CatRounds)
	check(c.Kicks >= 1, "kicks %d below 1", c.Kicks)
	check(c.InnerRadius > 0 && c.InnerRadius < 1, "inner radius %g outside (0,1)", c.InnerRadius)
	check(c.VoidAlpha > 0 && c.VoidAlpha <= 1, "void alpha %g outside (0,1]", c.VoidAlpha)
	check(c.Thresholds.Alg > 0 && c.Thresholds.Info > 0 &&
		c.Thresholds.Dyn > 0 && c.Thresholds.Geom > 0, "non-positive threshold %+v", c.Thresholds)
	check(c.RoundTripTolerance > 0, "round-trip tolerance %g not positive", c.RoundTripTolerance)
	check(len(c.SweepSeeds) > 0, "empty sweep seed list")
	check(c.Workers >= 1, "workers %d below 1", c.Workers)

	return errors.Join(errs...)
}

func parseSeeds(v string) ([]uint64, error) {
	var seeds []uint64
	for _, f := range strings.Split(v, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		s, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", f, ErrConfig)
		}
		seeds = append(seeds, s)
	}
	return seeds, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		slog.Warn("ignoring unparsable environment value", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

func getEnvAsUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
		slog.Warn("ignoring unparsable environment value", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
		slog.Warn("ignoring unparsable environment value", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}
