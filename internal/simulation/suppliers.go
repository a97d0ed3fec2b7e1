package simulation

import "plantsim/pkg/domain"

// SupplierDirectory owns supplier reference data.
type SupplierDirectory struct {
	state *domain.SimulationState
}

// NewSupplierDirectory binds a directory to state.
func NewSupplierDirectory(state *domain.SimulationState) SupplierDirectory {
	return SupplierDirectory{state: state}
}

// Create registers a supplier of a raw product.
func (d SupplierDirectory) Create(s domain.Supplier) (domain.Supplier, error) {
	if s.ID <= 0 {
		return domain.Supplier{}, domain.Validationf(domain.EntitySupplier, "id", "must be positive, got %d", s.ID)
	}
	if _, exists := d.state.Suppliers[s.ID]; exists {
		return domain.Supplier{}, domain.Validationf(domain.EntitySupplier, "id", "duplicate id %d", s.ID)
	}
	p, ok := d.state.Products[s.ProductID]
	if !ok {
		return domain.Supplier{}, domain.Validationf(domain.EntitySupplier, "product_id", "unknown product %d", s.ProductID)
	}
	if p.Kind != domain.ProductRaw {
		return domain.Supplier{}, domain.Validationf(domain.EntitySupplier, "product_id", "product %d is not a raw material", s.ProductID)
	}
	if s.UnitCost.IsNegative() {
		return domain.Supplier{}, domain.Validationf(domain.EntitySupplier, "unit_cost", "must be >= 0")
	}
	if s.LeadTime < 0 || s.LeadTime > domain.MaxDay {
		return domain.Supplier{}, domain.Validationf(domain.EntitySupplier, "lead_time", "must be within [0, %d]", domain.MaxDay)
	}
	d.state.Suppliers[s.ID] = s
	return s, nil
}

// Get looks up a supplier.
func (d SupplierDirectory) Get(id int) (domain.Supplier, bool) {
	return d.state.FindSupplier(id)
}

// Preferred returns the best supplier for productID.
func (d SupplierDirectory) Preferred(productID int) (domain.Supplier, bool) {
	return PreferredSupplier(d.state.ListSuppliers(), productID)
}

// PreferredSupplier picks the lowest unit cost supplier of productID, breaking
// ties by lead time and then by id.
func PreferredSupplier(suppliers []domain.Supplier, productID int) (domain.Supplier, bool) {
	var best domain.Supplier
	found := false
	for _, s := range suppliers {
		if s.ProductID != productID {
			continue
		}
		if !found || better(s, best) {
			best = s
			found = true
		}
	}
	return best, found
}

func better(a, b domain.Supplier) bool {
	if c := a.UnitCost.Cmp(b.UnitCost); c != 0 {
		return c < 0
	}
	if a.LeadTime != b.LeadTime {
		return a.LeadTime < b.LeadTime
	}
	return a.ID < b.ID
}
