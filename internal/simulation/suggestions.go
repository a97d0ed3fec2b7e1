package simulation

import (
	"maps"
	"plantsim/pkg/domain"
	"slices"

	"github.com/shopspring/decimal"
)

// StockReader reports on-hand quantities.
type StockReader interface {
	Available(productID int) int
}

// Suggest recommends purchases for every raw product whose requirement exceeds
// on-hand stock plus pending purchase quantities. Products without a supplier
// are still reported with SupplierID 0. Output is ordered by product id.
func Suggest(requirements map[int]int, stock StockReader, open []domain.PurchaseOrder, suppliers []domain.Supplier) []domain.Suggestion {
	incoming := map[int]int{}
	for _, po := range open {
		if po.Status == domain.PurchasePending {
			incoming[po.ProductID] = domain.SaturatingAdd(incoming[po.ProductID], po.Quantity)
		}
	}
	var out []domain.Suggestion
	for _, productID := range slices.Sorted(maps.Keys(requirements)) {
		shortfall := requirements[productID] - domain.SaturatingAdd(stock.Available(productID), incoming[productID])
		if shortfall <= 0 {
			continue
		}
		s := domain.Suggestion{ProductID: productID, Quantity: shortfall, UnitCost: decimal.Zero}
		if sup, ok := PreferredSupplier(suppliers, productID); ok {
			s.SupplierID = sup.ID
			s.UnitCost = sup.UnitCost
			s.LeadTime = sup.LeadTime
		}
		out = append(out, s)
	}
	return out
}

// Suggestions computes advisory purchases for state without modifying it.
func Suggestions(state domain.SimulationState) []domain.Suggestion {
	reqs := ComputeRequirements(state.ListManufacturingOrders(), state.BOM)
	return Suggest(reqs, NewInventoryLedger(&state), state.ListPurchaseOrders(), state.ListSuppliers())
}
