package config

import (
	"fmt"
	"plantsim/pkg/domain"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Plant is the catalog seeded into an empty store.
type Plant struct {
	Products  []ProductSpec  `yaml:"products"`
	Suppliers []SupplierSpec `yaml:"suppliers"`
	BOM       []BOMSpec      `yaml:"bom"`
}

// ProductSpec describes one product.
type ProductSpec struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	Type string `yaml:"type"` // raw|finished
}

// SupplierSpec describes one supplier. UnitCost is a decimal string.
type SupplierSpec struct {
	ID        int    `yaml:"id"`
	ProductID int    `yaml:"product_id"`
	UnitCost  string `yaml:"unit_cost"`
	LeadTime  int    `yaml:"lead_time"`
}

// BOMSpec is one finished -> raw requirement.
type BOMSpec struct {
	FinishedID int `yaml:"finished_id"`
	RawID      int `yaml:"raw_id"`
	QtyPerUnit int `yaml:"qty_per_unit"`
}

// DefaultPlant is a single printer model built from filament.
func DefaultPlant() Plant {
	return Plant{
		Products: []ProductSpec{
			{ID: 1, Name: "Plastic Filament", Type: string(domain.ProductRaw)},
			{ID: 2, Name: "3D Printer Model X", Type: string(domain.ProductFinished)},
		},
		Suppliers: []SupplierSpec{
			{ID: 1, ProductID: 1, UnitCost: "10.5", LeadTime: 3},
		},
		BOM: []BOMSpec{
			{FinishedID: 2, RawID: 1, QtyPerUnit: 5},
		},
	}
}

// DomainProducts converts the product specs.
func (p Plant) DomainProducts() []domain.Product {
	out := make([]domain.Product, 0, len(p.Products))
	for _, spec := range p.Products {
		out = append(out, domain.Product{
			ID:   spec.ID,
			Name: spec.Name,
			Kind: domain.ProductKind(strings.ToLower(strings.TrimSpace(spec.Type))),
		})
	}
	return out
}

// DomainSuppliers converts the supplier specs, parsing unit costs.
func (p Plant) DomainSuppliers() ([]domain.Supplier, error) {
	out := make([]domain.Supplier, 0, len(p.Suppliers))
	for _, spec := range p.Suppliers {
		cost, err := decimal.NewFromString(strings.TrimSpace(spec.UnitCost))
		if err != nil {
			return nil, fmt.Errorf("supplier %d: unit_cost %q: %w", spec.ID, spec.UnitCost, err)
		}
		out = append(out, domain.Supplier{
			ID:        spec.ID,
			ProductID: spec.ProductID,
			UnitCost:  cost,
			LeadTime:  spec.LeadTime,
		})
	}
	return out, nil
}

// DomainBOM converts the BOM specs.
func (p Plant) DomainBOM() []domain.BOMEntry {
	out := make([]domain.BOMEntry, 0, len(p.BOM))
	for _, spec := range p.BOM {
		out = append(out, domain.BOMEntry{FinishedID: spec.FinishedID, RawID: spec.RawID, QtyPerUnit: spec.QtyPerUnit})
	}
	return out
}

// InitialInventoryIDs returns product ids with a positive starting quantity in
// ascending order.
func (s SimulationConfig) InitialInventoryIDs() []int {
	ids := make([]int, 0, len(s.InitialInventory))
	for id, qty := range s.InitialInventory {
		if qty > 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Policy returns the scheduling policy; empty means skip.
func (s SimulationConfig) Policy() domain.SchedulingPolicy {
	switch strings.ToLower(strings.TrimSpace(s.SchedulingPolicy)) {
	case "", string(domain.PolicySkip):
		return domain.PolicySkip
	default:
		return domain.SchedulingPolicy(strings.ToLower(strings.TrimSpace(s.SchedulingPolicy)))
	}
}

const maxEpochYear = 4000

// Calendar returns the calendar anchored at Epoch; empty means the default epoch.
func (s SimulationConfig) Calendar() (domain.Calendar, error) {
	if strings.TrimSpace(s.Epoch) == "" {
		return domain.DefaultCalendar(), nil
	}
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(s.Epoch))
	if err != nil {
		return domain.Calendar{}, fmt.Errorf("simulation.epoch: %w", err)
	}
	if t.Year() > maxEpochYear {
		return domain.Calendar{}, fmt.Errorf("simulation.epoch: year %d is after %d", t.Year(), maxEpochYear)
	}
	return domain.Calendar{Epoch: t}, nil
}
