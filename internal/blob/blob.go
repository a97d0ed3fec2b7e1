// Package blob is the entry point to object storage. Callers depend on the
// Store interface and the constructors here; backend packages under
// internal/infra/blob stay private to this package.
package blob

import (
	"context"
	"plantsim/internal/blob/core"
	"plantsim/internal/infra/blob/fs"
	memorystore "plantsim/internal/infra/blob/memory"
	infraS3 "plantsim/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
	// S3Config configures the S3 backend.
	S3Config = infraS3.Config
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory driver.
	DriverMemory = core.DriverMemory
)

var (
	// ErrNotFound reports a missing key.
	ErrNotFound = core.ErrNotFound
	// ErrExists reports a Put on a taken key.
	ErrExists = core.ErrExists
	// ErrInvalidKey reports a malformed key.
	ErrInvalidKey = core.ErrInvalidKey
)

// NewFilesystem constructs a filesystem-backed Store rooted at root.
func NewFilesystem(root string) (Store, error) { return fs.New(root) }

// NewMemory returns an in-memory Store.
func NewMemory() Store { return memorystore.New() }

// NewS3 constructs an S3-backed Store from cfg.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) { return infraS3.New(ctx, cfg) }

// NewMockS3ForTests exposes the in-process fake bucket for cross-package tests.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests(0) }
