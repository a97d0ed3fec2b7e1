package core

import (
	"fmt"
	"io"
	"os"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral runs)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// Environment variables read by StorageOptionsFromEnv.
const (
	EnvStorageDriver = "PLANTSIM_STORAGE_DRIVER"
	EnvSQLitePath    = "PLANTSIM_SQLITE_PATH"
	EnvPostgresDSN   = "PLANTSIM_POSTGRES_DSN"
)

// StorageOptions selects the backend for OpenPersistentStore.
type StorageOptions struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
}

// StorageOptionsFromEnv reads PLANTSIM_STORAGE_DRIVER, PLANTSIM_SQLITE_PATH and
// PLANTSIM_POSTGRES_DSN. The driver defaults to memory.
func StorageOptionsFromEnv() StorageOptions {
	opts := StorageOptions{
		Driver:      StorageDriver(os.Getenv(EnvStorageDriver)),
		SQLitePath:  os.Getenv(EnvSQLitePath),
		PostgresDSN: os.Getenv(EnvPostgresDSN),
	}
	if opts.Driver == "" {
		opts.Driver = StorageMemory
	}
	return opts
}

// OpenPersistentStore opens the backend described by opts.
func OpenPersistentStore(opts StorageOptions, engine *RulesEngine) (PersistentStore, error) {
	switch opts.Driver {
	case StorageMemory, "":
		return NewMemoryStore(engine), nil
	case StorageSQLite:
		return NewSQLiteStore(opts.SQLitePath, engine)
	case StoragePostgres:
		return NewPostgresStore(opts.PostgresDSN, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// CloseStore releases the resources of durable stores; in-memory stores are a no-op.
func CloseStore(store PersistentStore) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
