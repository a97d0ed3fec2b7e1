package core

import (
	"context"
	"errors"
	"plantsim/pkg/domain"
	"testing"
)

func ruleState() domain.SimulationState {
	s := domain.NewSimulationState()
	s.Products[1] = domain.Product{ID: 1, Name: "Filament", Kind: domain.ProductRaw}
	s.Products[2] = domain.Product{ID: 2, Name: "Printer", Kind: domain.ProductFinished}
	s.Inventory[1] = domain.InventoryItem{ProductID: 1, Qty: 10}
	s.Inventory[2] = domain.InventoryItem{ProductID: 2}
	s.Capacity = domain.ProductionCapacity{DailyCapacity: 5}
	return s
}

func evaluate(t *testing.T, rule Rule, view domain.RuleView, changes []Change) Result {
	t.Helper()
	res, err := rule.Evaluate(context.Background(), view, changes)
	if err != nil {
		t.Fatalf("%s: %v", rule.Name(), err)
	}
	return res
}

func TestInventoryNonNegativeRule(t *testing.T) {
	rule := NewInventoryNonNegativeRule()
	s := ruleState()
	if res := evaluate(t, rule, s, nil); len(res.Violations) != 0 {
		t.Fatalf("expected clean state, got %+v", res.Violations)
	}

	s.Inventory[1] = domain.InventoryItem{ProductID: 1, Qty: -1}
	delete(s.Inventory, 2)
	s.Inventory[7] = domain.InventoryItem{ProductID: 7}
	res := evaluate(t, rule, s, nil)
	if len(res.Violations) != 3 || !res.HasBlocking() {
		t.Fatalf("expected three blocking violations, got %+v", res.Violations)
	}
}

func TestCapacityBoundRule(t *testing.T) {
	rule := NewCapacityBoundRule()
	s := ruleState()
	s.Capacity.ConsumedToday = 5
	if res := evaluate(t, rule, s, nil); len(res.Violations) != 0 {
		t.Fatalf("consumption at the limit is allowed, got %+v", res.Violations)
	}
	s.Capacity.ConsumedToday = 6
	if res := evaluate(t, rule, s, nil); !res.HasBlocking() {
		t.Fatalf("expected blocking violation over capacity")
	}
}

func TestOrderStatusMonotonicRule(t *testing.T) {
	rule := NewOrderStatusMonotonicRule()
	s := ruleState()
	pending := domain.ManufacturingOrder{ID: 1, ProductID: 2, Quantity: 1, Status: domain.ManufacturingPending}
	completed := pending
	completed.Status = domain.ManufacturingCompleted
	received := domain.PurchaseOrder{ID: 1, SupplierID: 1, ProductID: 1, Quantity: 1, Status: domain.PurchaseReceived}
	reopened := received
	reopened.Status = domain.PurchasePending

	forward := []Change{{Entity: domain.EntityManufacturingOrder, Action: domain.ActionUpdate, Before: pending, After: completed}}
	if res := evaluate(t, rule, s, forward); len(res.Violations) != 0 {
		t.Fatalf("forward transition flagged: %+v", res.Violations)
	}

	backward := []Change{
		{Entity: domain.EntityManufacturingOrder, Action: domain.ActionUpdate, Before: completed, After: pending},
		{Entity: domain.EntityPurchaseOrder, Action: domain.ActionUpdate, Before: received, After: reopened},
	}
	res := evaluate(t, rule, s, backward)
	if len(res.Violations) != 2 || !res.HasBlocking() {
		t.Fatalf("expected two blocking violations, got %+v", res.Violations)
	}

	replace := append([]Change{{Entity: domain.EntitySimulation, Action: domain.ActionReplace, Before: 3, After: 0}}, backward...)
	if res := evaluate(t, rule, s, replace); len(res.Violations) != 0 {
		t.Fatalf("state replacement must be exempt, got %+v", res.Violations)
	}
}

func TestStalePendingOrdersRule(t *testing.T) {
	rule := NewStalePendingOrdersRule(DefaultStaleAfterDays)
	s := ruleState()
	s.CurrentDay = 20
	s.ManufacturingOrders[1] = domain.ManufacturingOrder{ID: 1, CreatedDay: 6, ProductID: 2, Quantity: 1, Status: domain.ManufacturingPending}
	s.ManufacturingOrders[2] = domain.ManufacturingOrder{ID: 2, CreatedDay: 5, ProductID: 2, Quantity: 1, Status: domain.ManufacturingPending}
	s.ManufacturingOrders[3] = domain.ManufacturingOrder{ID: 3, CreatedDay: 0, ProductID: 2, Quantity: 1, Status: domain.ManufacturingCompleted}

	res := evaluate(t, rule, s, nil)
	if len(res.Violations) != 1 || res.Violations[0].EntityID != 2 {
		t.Fatalf("expected only order 2 reported, got %+v", res.Violations)
	}
	if res.HasBlocking() {
		t.Fatalf("stale orders must only warn")
	}
}

func TestDefaultRulesEngineBlocksCommit(t *testing.T) {
	store := NewMemoryStore(NewDefaultRulesEngine())
	state := ruleState()
	store.ImportState(state)

	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		next := tx.Snapshot().State()
		next.Capacity.ConsumedToday = 9
		return tx.ReplaceState(next)
	})
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) || rve.Result.Violations[0].Rule != "capacity_bound" {
		t.Fatalf("expected capacity_bound violation, got %v", err)
	}
	if got := store.ExportState().Capacity.ConsumedToday; got != 0 {
		t.Fatalf("blocked commit must not apply, consumed %d", got)
	}
}
