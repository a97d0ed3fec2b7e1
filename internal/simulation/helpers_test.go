package simulation

import (
	"plantsim/pkg/domain"
	"testing"

	"github.com/shopspring/decimal"
)

const (
	rawSteel  = 1
	rawBolt   = 2
	finFrame  = 10
	finBrace  = 11
	supSteel  = 100
	supSteel2 = 101
	supBolt   = 102
)

// newPlant builds a two-product plant: frame needs 1 steel per unit, brace
// needs 2 steel and 1 bolt per unit.
func newPlant(t *testing.T, capacity int) *domain.SimulationState {
	t.Helper()
	state := domain.NewSimulationState()
	cat := NewCatalog(&state)
	for _, p := range []domain.Product{
		{ID: rawSteel, Name: "steel", Kind: domain.ProductRaw},
		{ID: rawBolt, Name: "bolt", Kind: domain.ProductRaw},
		{ID: finFrame, Name: "frame", Kind: domain.ProductFinished},
		{ID: finBrace, Name: "brace", Kind: domain.ProductFinished},
	} {
		if _, err := cat.CreateProduct(p); err != nil {
			t.Fatalf("create product %d: %v", p.ID, err)
		}
	}
	for _, e := range []domain.BOMEntry{
		{FinishedID: finFrame, RawID: rawSteel, QtyPerUnit: 1},
		{FinishedID: finBrace, RawID: rawSteel, QtyPerUnit: 2},
		{FinishedID: finBrace, RawID: rawBolt, QtyPerUnit: 1},
	} {
		if _, err := cat.CreateBOMEntry(e); err != nil {
			t.Fatalf("create bom %+v: %v", e, err)
		}
	}
	dir := NewSupplierDirectory(&state)
	for _, s := range []domain.Supplier{
		{ID: supSteel, ProductID: rawSteel, UnitCost: decimal.RequireFromString("4.50"), LeadTime: 3},
		{ID: supSteel2, ProductID: rawSteel, UnitCost: decimal.RequireFromString("4.50"), LeadTime: 1},
		{ID: supBolt, ProductID: rawBolt, UnitCost: decimal.RequireFromString("0.10"), LeadTime: 2},
	} {
		if _, err := dir.Create(s); err != nil {
			t.Fatalf("create supplier %d: %v", s.ID, err)
		}
	}
	if _, err := NewCapacityTracker(&state).Configure(capacity); err != nil {
		t.Fatalf("configure capacity: %v", err)
	}
	return &state
}

func credit(t *testing.T, state *domain.SimulationState, productID, qty int) {
	t.Helper()
	if _, err := NewInventoryLedger(state).Credit(productID, qty); err != nil {
		t.Fatalf("credit %d: %v", productID, err)
	}
}

func order(t *testing.T, state *domain.SimulationState, productID, qty, day int) domain.ManufacturingOrder {
	t.Helper()
	mo, err := NewManufacturingOrders(state).Create(productID, qty, day)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return mo
}

func assertNonNegative(t *testing.T, state domain.SimulationState) {
	t.Helper()
	for _, item := range state.ListInventory() {
		if item.Qty < 0 {
			t.Fatalf("product %d went negative: %d", item.ProductID, item.Qty)
		}
	}
}
