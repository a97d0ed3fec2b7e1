package core

import (
	"context"
	"plantsim/internal/config"
)

// SeedResult reports what Seed wrote.
type SeedResult struct {
	Products      int
	Suppliers     int
	BOMEntries    int
	Credited      int
	DailyCapacity int
	// Skipped is set when the store already held a catalog.
	Skipped bool
	Result  Result
}

// Seed loads the configured plant, initial inventory and daily capacity into
// an empty store in a single transaction. A store that already has products
// is left untouched.
func (s *Service) Seed(ctx context.Context, cfg config.Config) (SeedResult, error) {
	suppliers, err := cfg.Plant.DomainSuppliers()
	if err != nil {
		return SeedResult{}, err
	}
	var out SeedResult
	res, err := s.run(ctx, opSeed, func(tx Transaction) (auditRef, error) {
		view := tx.Snapshot()
		if len(view.ListProducts()) > 0 {
			out.Skipped = true
			return auditRef{Day: view.Day()}, nil
		}
		for _, p := range cfg.Plant.DomainProducts() {
			if _, err := tx.CreateProduct(p); err != nil {
				return auditRef{}, err
			}
			out.Products++
		}
		for _, sup := range suppliers {
			if _, err := tx.CreateSupplier(sup); err != nil {
				return auditRef{}, err
			}
			out.Suppliers++
		}
		for _, entry := range cfg.Plant.DomainBOM() {
			if _, err := tx.CreateBOMEntry(entry); err != nil {
				return auditRef{}, err
			}
			out.BOMEntries++
		}
		for _, id := range cfg.Simulation.InitialInventoryIDs() {
			qty := cfg.Simulation.InitialInventory[id]
			if _, err := tx.CreditInventory(id, qty); err != nil {
				return auditRef{}, err
			}
			out.Credited += qty
		}
		capacity, err := tx.ConfigureCapacity(cfg.Simulation.DailyCapacity)
		if err != nil {
			return auditRef{}, err
		}
		out.DailyCapacity = capacity.DailyCapacity
		return auditRef{Day: view.Day()}, nil
	})
	out.Result = res
	if err != nil {
		return SeedResult{Result: res}, err
	}
	if out.Skipped {
		s.opts.logger.Info("seed skipped, catalog already present")
		return out, nil
	}
	s.opts.logger.Info("plant seeded",
		"products", out.Products,
		"suppliers", out.Suppliers,
		"bom_entries", out.BOMEntries,
		"credited_units", out.Credited,
		"daily_capacity", out.DailyCapacity,
	)
	return out, nil
}
