package core

import (
	"path/filepath"
	"testing"
)

func TestStorageOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvStorageDriver, "")
	if opts := StorageOptionsFromEnv(); opts.Driver != StorageMemory {
		t.Fatalf("expected memory default, got %q", opts.Driver)
	}
	t.Setenv(EnvStorageDriver, "sqlite")
	t.Setenv(EnvSQLitePath, "/tmp/x.db")
	t.Setenv(EnvPostgresDSN, "postgres://localhost/plant")
	opts := StorageOptionsFromEnv()
	if opts.Driver != StorageSQLite || opts.SQLitePath != "/tmp/x.db" || opts.PostgresDSN != "postgres://localhost/plant" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestOpenPersistentStoreMemory(t *testing.T) {
	store, err := OpenPersistentStore(StorageOptions{}, NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", store)
	}
	if err := CloseStore(store); err != nil {
		t.Fatalf("closing a memory store is a no-op, got %v", err)
	}
}

func TestOpenPersistentStoreSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plant.db")
	store, err := OpenPersistentStore(StorageOptions{Driver: StorageSQLite, SQLitePath: path}, NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := CloseStore(store); err != nil {
		t.Fatalf("close sqlite: %v", err)
	}
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	if _, err := OpenPersistentStore(StorageOptions{Driver: "mongo"}, nil); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
