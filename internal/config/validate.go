package config

import (
	"errors"
	"fmt"
	"plantsim/pkg/domain"
	"strings"
)

// Validate reports every invalid setting joined into one error.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch strings.ToLower(c.Storage.Driver) {
	case "memory", "sqlite", "postgres":
	default:
		add("storage.driver: unknown driver %q", c.Storage.Driver)
	}

	switch strings.ToLower(c.Blob.Driver) {
	case "fs", "memory":
	case "s3":
		if strings.TrimSpace(c.Blob.S3.Bucket) == "" {
			add("blob.s3.bucket: required for s3 driver")
		}
	default:
		add("blob.driver: unknown driver %q", c.Blob.Driver)
	}
	if c.Blob.Keep < 0 {
		add("blob.keep: must be >= 0, got %d", c.Blob.Keep)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("log.level: unknown level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		add("log.format: unknown format %q", c.Log.Format)
	}

	sim := c.Simulation
	if sim.Days < 0 {
		add("simulation.simulation_days: must be >= 0, got %d", sim.Days)
	}
	if sim.DailyOrderMin < 0 {
		add("simulation.daily_order_min: must be >= 0, got %d", sim.DailyOrderMin)
	}
	if sim.DailyOrderMax < sim.DailyOrderMin {
		add("simulation.daily_order_max: %d is below daily_order_min %d", sim.DailyOrderMax, sim.DailyOrderMin)
	}
	if sim.MaxOrderQuantity < 1 {
		add("simulation.max_order_quantity: must be >= 1, got %d", sim.MaxOrderQuantity)
	}
	if sim.DailyCapacity < 0 {
		add("simulation.daily_capacity: must be >= 0, got %d", sim.DailyCapacity)
	}
	for id, qty := range sim.InitialInventory {
		if qty < 0 {
			add("simulation.initial_inventory[%d]: must be >= 0, got %d", id, qty)
		}
	}
	if p := sim.Policy(); p != domain.PolicySkip && p != domain.PolicyStrict {
		add("simulation.scheduling_policy: unknown policy %q", sim.SchedulingPolicy)
	}
	if _, err := sim.Calendar(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.Plant.DomainSuppliers(); err != nil {
		errs = append(errs, fmt.Errorf("plant: %w", err))
	}
	known := make(map[int]bool, len(c.Plant.Products))
	for _, p := range c.Plant.Products {
		known[p.ID] = true
	}
	for id := range sim.InitialInventory {
		if !known[id] {
			add("simulation.initial_inventory: unknown product %d", id)
		}
	}

	return errors.Join(errs...)
}
