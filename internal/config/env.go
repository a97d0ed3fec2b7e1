package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables recognised by ApplyEnv.
const (
	EnvStorageDriver = "PLANTSIM_STORAGE_DRIVER"
	EnvSQLitePath    = "PLANTSIM_SQLITE_PATH"
	EnvPostgresDSN   = "PLANTSIM_POSTGRES_DSN"
	EnvBlobDriver    = "PLANTSIM_BLOB_DRIVER"
	EnvBlobFSRoot    = "PLANTSIM_BLOB_FS_ROOT"
	EnvS3Bucket      = "PLANTSIM_BLOB_S3_BUCKET"
	EnvS3Region      = "PLANTSIM_BLOB_S3_REGION"
	EnvS3Endpoint    = "PLANTSIM_BLOB_S3_ENDPOINT"
	EnvS3PathStyle   = "PLANTSIM_BLOB_S3_PATH_STYLE"
	EnvLogLevel      = "PLANTSIM_LOG_LEVEL"
	EnvLogFormat     = "PLANTSIM_LOG_FORMAT"
	EnvMetricsAddr   = "PLANTSIM_METRICS_ADDR"
	EnvSeed          = "PLANTSIM_SEED"
)

// ApplyEnv overlays non-empty environment values onto cfg. getenv is
// usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvStorageDriver, &cfg.Storage.Driver},
		{EnvSQLitePath, &cfg.Storage.SQLitePath},
		{EnvPostgresDSN, &cfg.Storage.PostgresDSN},
		{EnvBlobDriver, &cfg.Blob.Driver},
		{EnvBlobFSRoot, &cfg.Blob.FSRoot},
		{EnvS3Bucket, &cfg.Blob.S3.Bucket},
		{EnvS3Region, &cfg.Blob.S3.Region},
		{EnvS3Endpoint, &cfg.Blob.S3.Endpoint},
		{EnvLogLevel, &cfg.Log.Level},
		{EnvLogFormat, &cfg.Log.Format},
		{EnvMetricsAddr, &cfg.Metrics.Addr},
	}
	for _, s := range strs {
		if v := strings.TrimSpace(getenv(s.key)); v != "" {
			*s.dst = v
		}
	}
	if v := strings.TrimSpace(getenv(EnvS3PathStyle)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvS3PathStyle, err)
		}
		cfg.Blob.S3.PathStyle = b
	}
	if v := strings.TrimSpace(getenv(EnvSeed)); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Simulation.Seed = seed
	}
	return nil
}
