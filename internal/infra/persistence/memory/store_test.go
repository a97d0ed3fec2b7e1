package memory

import (
	"context"
	"errors"
	"plantsim/internal/simulation"
	"plantsim/pkg/domain"
	"testing"

	"github.com/shopspring/decimal"
)

func seedPlant(t *testing.T, store *Store) {
	t.Helper()
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		for _, p := range []domain.Product{
			{ID: 1, Name: "resin", Kind: domain.ProductRaw},
			{ID: 2, Name: "housing", Kind: domain.ProductFinished},
		} {
			if _, err := tx.CreateProduct(p); err != nil {
				return err
			}
		}
		if _, err := tx.CreateBOMEntry(domain.BOMEntry{FinishedID: 2, RawID: 1, QtyPerUnit: 1}); err != nil {
			return err
		}
		if _, err := tx.CreateSupplier(domain.Supplier{ID: 1, ProductID: 1, UnitCost: decimal.NewFromInt(3), LeadTime: 3}); err != nil {
			return err
		}
		if _, err := tx.CreditInventory(1, 30); err != nil {
			return err
		}
		_, err := tx.ConfigureCapacity(10)
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestStoreRunInTransactionAndSnapshots(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	seedPlant(t, store)
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		mo, err := tx.CreateManufacturingOrder(2, 8, 0)
		if err != nil {
			return err
		}
		if mo.ID != 1 {
			t.Fatalf("expected generated ID 1, got %d", mo.ID)
		}
		if len(tx.Snapshot().ListManufacturingOrders()) != 1 {
			t.Fatalf("snapshot mismatch")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run transaction: %v", err)
	}
	exported := store.ExportState()
	if len(exported.ManufacturingOrders) != 1 {
		t.Fatalf("expected persisted order")
	}
	store.ImportState(domain.NewSimulationState())
	if len(store.ExportState().Products) != 0 {
		t.Fatalf("expected cleared state")
	}
	store.ImportState(exported)
	if len(store.ExportState().ManufacturingOrders) != 1 {
		t.Fatalf("expected restored state")
	}
	if store.RulesEngine() == nil || store.NowFunc() == nil {
		t.Fatalf("expected rules engine and now func")
	}
}

func TestStoreDiscardsFailedTransaction(t *testing.T) {
	store := NewStore(nil)
	seedPlant(t, store)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreditInventory(1, 5); err != nil {
			return err
		}
		_, err := tx.CreatePurchaseOrder(99, 1, 0)
		return err
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := store.ExportState().Inventory[1].Qty; got != 30 {
		t.Fatalf("expected rollback to 30 units, got %d", got)
	}
}

func TestStoreAdvanceIsAtomic(t *testing.T) {
	store := NewStore(nil)
	seedPlant(t, store)
	bad := simulation.Schedule{1: {{ProductID: 2, Quantity: 1}, {ProductID: 7, Quantity: 1}}}
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.AdvanceDay(bad, domain.PolicySkip)
		return err
	})
	if err == nil {
		t.Fatalf("expected advance failure")
	}
	state := store.ExportState()
	if state.CurrentDay != 0 || len(state.ManufacturingOrders) != 0 {
		t.Fatalf("failed advance leaked state: day=%d orders=%d", state.CurrentDay, len(state.ManufacturingOrders))
	}

	var report domain.DayReport
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		var err error
		report, err = tx.AdvanceDay(simulation.Schedule{1: {{ProductID: 2, Quantity: 4}}}, domain.PolicySkip)
		return err
	})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if report.Day != 1 || len(report.Completed) != 1 || store.CurrentDay() != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestStoreRuleViolation(t *testing.T) {
	store := NewStore(domain.NewRulesEngine())
	store.RulesEngine().Register(blockingRule{})
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, e := tx.CreateProduct(domain.Product{ID: 1, Name: "blocked", Kind: domain.ProductRaw})
		return e
	})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected rule violation error, got %v", err)
	}
	if len(store.ExportState().Products) != 0 {
		t.Fatalf("blocked transaction committed")
	}
}

func TestStoreRecordsChanges(t *testing.T) {
	rec := &recordingRule{}
	engine := domain.NewRulesEngine()
	engine.Register(rec)
	store := NewStore(engine)
	seedPlant(t, store)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateManufacturingOrder(2, 5, 0); err != nil {
			return err
		}
		_, err := tx.StartManufacturingOrder(1)
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	var sawCompletion bool
	for _, c := range rec.last {
		if mo, ok := c.After.(domain.ManufacturingOrder); ok && c.Action == domain.ActionUpdate && mo.Status == domain.ManufacturingCompleted {
			sawCompletion = true
		}
	}
	if !sawCompletion {
		t.Fatalf("expected completion change, got %+v", rec.last)
	}
}

func TestReplaceStateValidates(t *testing.T) {
	store := NewStore(nil)
	seedPlant(t, store)
	bad := store.ExportState()
	bad.Inventory[1] = domain.InventoryItem{ProductID: 1, Qty: -4}
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.ReplaceState(bad)
	})
	if !errors.Is(err, domain.ErrImportSchema) {
		t.Fatalf("expected import schema error, got %v", err)
	}
	if store.ExportState().Inventory[1].Qty != 30 {
		t.Fatalf("rejected import modified state")
	}
}

func TestViewIsIsolated(t *testing.T) {
	store := NewStore(nil)
	seedPlant(t, store)
	err := store.View(context.Background(), func(view domain.TransactionView) error {
		s := view.State()
		s.Inventory[1] = domain.InventoryItem{ProductID: 1, Qty: 0}
		if item, _ := view.FindInventoryItem(1); item.Qty != 30 {
			t.Fatalf("view aliased its own state")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if store.ExportState().Inventory[1].Qty != 30 {
		t.Fatalf("view mutated the store")
	}
}

type blockingRule struct{}

func (blockingRule) Name() string { return "block" }

func (blockingRule) Evaluate(context.Context, domain.RuleView, []domain.Change) (domain.Result, error) {
	return domain.Result{Violations: []domain.Violation{{Rule: "block", Severity: domain.SeverityBlock}}}, nil
}

type recordingRule struct{ last []domain.Change }

func (*recordingRule) Name() string { return "record" }

func (r *recordingRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	r.last = changes
	return domain.Result{}, nil
}
