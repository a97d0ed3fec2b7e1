package simulation

import (
	"plantsim/pkg/domain"
	"strings"
)

// Catalog owns products and the bill of materials.
type Catalog struct {
	state *domain.SimulationState
}

// NewCatalog binds a catalog to state.
func NewCatalog(state *domain.SimulationState) Catalog {
	return Catalog{state: state}
}

// CreateProduct registers a product and opens its inventory item at zero.
func (c Catalog) CreateProduct(p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.ID <= 0 {
		return domain.Product{}, domain.Validationf(domain.EntityProduct, "id", "must be positive, got %d", p.ID)
	}
	if _, exists := c.state.Products[p.ID]; exists {
		return domain.Product{}, domain.Validationf(domain.EntityProduct, "id", "duplicate id %d", p.ID)
	}
	if p.Name == "" {
		return domain.Product{}, domain.Validationf(domain.EntityProduct, "name", "required")
	}
	if !p.Kind.Valid() {
		return domain.Product{}, domain.Validationf(domain.EntityProduct, "type", "unknown product type %q", p.Kind)
	}
	c.state.Products[p.ID] = p
	c.state.Inventory[p.ID] = domain.InventoryItem{ProductID: p.ID}
	return p, nil
}

// CreateBOMEntry adds a single-level finished -> raw requirement.
func (c Catalog) CreateBOMEntry(e domain.BOMEntry) (domain.BOMEntry, error) {
	if err := domain.CheckBOMEntry(*c.state, e); err != nil {
		return domain.BOMEntry{}, err
	}
	for _, existing := range c.state.BOM {
		if existing.FinishedID == e.FinishedID && existing.RawID == e.RawID {
			return domain.BOMEntry{}, domain.Validationf(domain.EntityBOMEntry, "raw_id", "entry %d->%d already defined", e.FinishedID, e.RawID)
		}
	}
	c.state.BOM = append(c.state.BOM, e)
	domain.SortBOM(c.state.BOM)
	return e, nil
}

// HasBOM reports whether finishedID has at least one BOM entry.
func (c Catalog) HasBOM(finishedID int) bool {
	for _, e := range c.state.BOM {
		if e.FinishedID == finishedID {
			return true
		}
	}
	return false
}

// Requirements expands qty units of productID into raw material quantities.
// ok is false when a quantity does not fit in an int.
func (c Catalog) Requirements(productID, qty int) (required map[int]int, ok bool) {
	return domain.RequirementsFor(c.state.BOM, productID, qty)
}
