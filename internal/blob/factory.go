package blob

import (
	"context"
	"fmt"
	"os"
	infraS3 "plantsim/internal/infra/blob/s3"
)

// Environment variables read by OptionsFromEnv. S3 variables are listed in
// the s3 backend package.
const (
	EnvDriver = "PLANTSIM_BLOB_DRIVER"
	EnvFSRoot = "PLANTSIM_BLOB_FS_ROOT"
)

// Options selects and configures a backend.
type Options struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// OptionsFromEnv reads PLANTSIM_BLOB_* variables. The driver defaults to fs.
func OptionsFromEnv() (Options, error) {
	opts := Options{Driver: Driver(os.Getenv(EnvDriver)), FSRoot: os.Getenv(EnvFSRoot)}
	if opts.Driver == "" {
		opts.Driver = DriverFilesystem
	}
	if opts.Driver == DriverS3 {
		cfg, err := infraS3.ConfigFromEnv()
		if err != nil {
			return Options{}, err
		}
		opts.S3 = cfg
	}
	return opts, nil
}

// Open constructs the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFilesystem, "":
		return NewFilesystem(opts.FSRoot)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", opts.Driver)
	}
}

// OpenFromEnv is Open(ctx, OptionsFromEnv()).
func OpenFromEnv(ctx context.Context) (Store, error) {
	opts, err := OptionsFromEnv()
	if err != nil {
		return nil, err
	}
	return Open(ctx, opts)
}
