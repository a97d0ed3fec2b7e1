// Package config loads plantsim settings from a YAML file with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Blob       BlobConfig       `yaml:"blob"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Simulation SimulationConfig `yaml:"simulation"`
	Plant      Plant            `yaml:"plant"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver      string `yaml:"driver"` // memory|sqlite|postgres
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// BlobConfig selects the snapshot archive backend.
type BlobConfig struct {
	Driver string   `yaml:"driver"` // fs|s3|memory
	FSRoot string   `yaml:"fs_root"`
	S3     S3Config `yaml:"s3"`
	// Keep bounds the number of archived snapshots; zero keeps all.
	Keep int `yaml:"keep"`
}

// S3Config holds S3 / MinIO settings. Credentials come from the AWS chain.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // json|text
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
}

// SimulationConfig drives the day loop.
type SimulationConfig struct {
	Days             int         `yaml:"simulation_days"`
	DailyOrderMin    int         `yaml:"daily_order_min"`
	DailyOrderMax    int         `yaml:"daily_order_max"`
	MaxOrderQuantity int         `yaml:"max_order_quantity"`
	DailyCapacity    int         `yaml:"daily_capacity"`
	InitialInventory map[int]int `yaml:"initial_inventory"`
	Seed             uint64      `yaml:"seed"`
	SchedulingPolicy string      `yaml:"scheduling_policy"` // skip|strict
	Epoch            string      `yaml:"epoch"`             // YYYY-MM-DD of day 0
}

// Default returns the built-in configuration: an in-memory plant assembling
// one printer model from filament.
func Default() Config {
	return Config{
		Storage: StorageConfig{Driver: "memory", SQLitePath: "plantsim.db"},
		Blob:    BlobConfig{Driver: "fs", FSRoot: "./blobdata"},
		Log:     LogConfig{Level: "info", Format: "json"},
		Simulation: SimulationConfig{
			Days:             30,
			DailyOrderMin:    5,
			DailyOrderMax:    15,
			MaxOrderQuantity: 3,
			DailyCapacity:    20,
			InitialInventory: map[int]int{1: 100, 2: 20},
			Seed:             1,
			SchedulingPolicy: "skip",
			Epoch:            "2025-01-01",
		},
		Plant: DefaultPlant(),
	}
}

// Load reads path over Default, applies environment overrides and validates
// the result. An empty path skips the file. A file that declares plant
// products replaces the default plant entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	defaults := cfg.Plant
	cfg.Plant = Plant{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if len(cfg.Plant.Products) == 0 {
		cfg.Plant = defaults
	}
	return nil
}
