package simulation

import (
	"maps"
	"plantsim/pkg/domain"
	"slices"
)

// InventoryLedger is the only component that changes stock levels.
type InventoryLedger struct {
	state *domain.SimulationState
}

// NewInventoryLedger binds a ledger to state.
func NewInventoryLedger(state *domain.SimulationState) InventoryLedger {
	return InventoryLedger{state: state}
}

// Available returns the on-hand quantity of productID, or 0 when unknown.
func (l InventoryLedger) Available(productID int) int {
	return l.state.Inventory[productID].Qty
}

// Credit adds qty units to productID.
func (l InventoryLedger) Credit(productID, qty int) (domain.InventoryItem, error) {
	if qty <= 0 {
		return domain.InventoryItem{}, domain.Validationf(domain.EntityInventoryItem, "qty", "credit must be positive, got %d", qty)
	}
	item, ok := l.state.Inventory[productID]
	if !ok {
		return domain.InventoryItem{}, domain.Validationf(domain.EntityInventoryItem, "product_id", "unknown product %d", productID)
	}
	sum, ok := domain.AddQty(item.Qty, qty)
	if !ok {
		return domain.InventoryItem{}, domain.Validationf(domain.EntityInventoryItem, "qty", "crediting %d to product %d overflows stock of %d", qty, productID, item.Qty)
	}
	item.Qty = sum
	l.state.Inventory[productID] = item
	return item, nil
}

// CanCredit reports whether qty more units of productID fit in the stock counter.
func (l InventoryLedger) CanCredit(productID, qty int) bool {
	_, ok := domain.AddQty(l.Available(productID), qty)
	return ok
}

// Debit removes qty units from productID. It fails without side effects when stock is short.
func (l InventoryLedger) Debit(productID, qty int) (domain.InventoryItem, error) {
	if qty <= 0 {
		return domain.InventoryItem{}, domain.Validationf(domain.EntityInventoryItem, "qty", "debit must be positive, got %d", qty)
	}
	item, ok := l.state.Inventory[productID]
	if !ok {
		return domain.InventoryItem{}, domain.Validationf(domain.EntityInventoryItem, "product_id", "unknown product %d", productID)
	}
	if item.Qty < qty {
		return domain.InventoryItem{}, domain.InsufficientInventoryError{ProductID: productID, Required: qty, Available: item.Qty}
	}
	item.Qty -= qty
	l.state.Inventory[productID] = item
	return item, nil
}

// Check reports the first shortfall, in product id order, for a set of requirements.
func (l InventoryLedger) Check(requirements map[int]int) error {
	for _, id := range slices.Sorted(maps.Keys(requirements)) {
		need := requirements[id]
		if have := l.Available(id); have < need {
			return domain.InsufficientInventoryError{ProductID: id, Required: need, Available: have}
		}
	}
	return nil
}

// DebitAll debits every requirement or none of them.
func (l InventoryLedger) DebitAll(requirements map[int]int) error {
	if err := l.Check(requirements); err != nil {
		return err
	}
	for _, id := range slices.Sorted(maps.Keys(requirements)) {
		if requirements[id] == 0 {
			continue
		}
		if _, err := l.Debit(id, requirements[id]); err != nil {
			return err
		}
	}
	return nil
}
