package simulation

import (
	"errors"
	"math"
	"plantsim/pkg/domain"
	"slices"
	"testing"
)

func TestCreateRejectsOverflowingBOMExpansion(t *testing.T) {
	state := newPlant(t, 10)
	mfg := NewManufacturingOrders(state)
	if _, err := mfg.Create(finBrace, math.MaxInt, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for overflowing brace order, got %v", err)
	}
	if len(state.ManufacturingOrders) != 0 {
		t.Fatalf("rejected order was stored")
	}
	// Frame needs one steel per unit, so the largest quantity still expands.
	big := order(t, state, finFrame, math.MaxInt/2+1, 0)
	_, err := NewCatalog(state).CreateBOMEntry(domain.BOMEntry{FinishedID: finFrame, RawID: rawBolt, QtyPerUnit: 2})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected bom entry overflowing order %d to be rejected, got %v", big.ID, err)
	}
	if len(state.BOM) != 3 {
		t.Fatalf("rejected bom entry was stored")
	}
}

func TestAdvanceKeepsRunningWithOverflowingOrder(t *testing.T) {
	state := newPlant(t, 10)
	credit(t, state, rawSteel, 20)
	credit(t, state, rawBolt, 5)
	frame := order(t, state, finFrame, 5, 0)
	// An order that bypassed creation checks must block, not abort the day.
	huge := domain.ManufacturingOrder{
		ID:        state.NextManufacturingOrderID(),
		ProductID: finBrace,
		Quantity:  math.MaxInt,
		Status:    domain.ManufacturingPending,
	}
	state.ManufacturingOrders[huge.ID] = huge

	for day := 1; day <= 3; day++ {
		report, err := AdvanceDay(state, nil, domain.PolicySkip)
		if err != nil {
			t.Fatalf("day %d: advance: %v", day, err)
		}
		if !slices.Contains(report.Deferred, huge.ID) {
			t.Fatalf("day %d: expected order %d deferred, got %+v", day, huge.ID, report)
		}
	}
	if state.ManufacturingOrders[frame.ID].Status != domain.ManufacturingCompleted {
		t.Fatalf("expected frame order completed")
	}
	if state.Inventory[rawSteel].Qty != 15 || state.Inventory[rawBolt].Qty != 5 {
		t.Fatalf("unexpected stock %+v", state.Inventory)
	}
	assertNonNegative(t, *state)

	if _, err := NewManufacturingOrders(state).ForceStart(huge.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected forced start of overflowing order to fail validation, got %v", err)
	}
	suggestions := Suggestions(*state)
	if len(suggestions) == 0 || suggestions[0].Quantity <= 0 {
		t.Fatalf("expected saturated positive suggestions, got %+v", suggestions)
	}
}

func TestCapacityFitsNeverWraps(t *testing.T) {
	c := domain.ProductionCapacity{DailyCapacity: 10, ConsumedToday: 5}
	if c.Fits(math.MaxInt) || c.Fits(-1) {
		t.Fatalf("out-of-range quantities must not fit")
	}
	if !c.Fits(5) || c.Fits(6) {
		t.Fatalf("unexpected fit at the boundary")
	}
}

func TestStockCounterOverflow(t *testing.T) {
	state := newPlant(t, 10)
	credit(t, state, rawSteel, math.MaxInt-5)
	ledger := NewInventoryLedger(state)
	if _, err := ledger.Credit(rawSteel, 10); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected overflow validation error, got %v", err)
	}
	if state.Inventory[rawSteel].Qty != math.MaxInt-5 {
		t.Fatalf("failed credit changed stock")
	}

	pos := NewPurchaseOrders(state)
	po, err := pos.Create(supSteel, 10, 0)
	if err != nil {
		t.Fatalf("create po: %v", err)
	}
	received, err := pos.ResolveDeliveries(po.EstimatedDeliveryDay)
	if err != nil || len(received) != 0 {
		t.Fatalf("expected overflowing delivery to wait, got %v %v", received, err)
	}
	if state.PurchaseOrders[po.ID].Status != domain.PurchasePending {
		t.Fatalf("expected order still pending")
	}
	if _, err := ledger.Debit(rawSteel, 20); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if received, err := pos.ResolveDeliveries(po.EstimatedDeliveryDay); err != nil || len(received) != 1 {
		t.Fatalf("expected delivery once stock has room, got %v %v", received, err)
	}
}

func TestDayLimits(t *testing.T) {
	state := newPlant(t, 10)
	if _, err := NewPurchaseOrders(state).Create(supSteel, 1, domain.MaxDay+1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected issue day beyond the limit to be rejected, got %v", err)
	}
	if _, err := NewManufacturingOrders(state).Create(finFrame, 1, domain.MaxDay+1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected creation day beyond the limit to be rejected, got %v", err)
	}
	if _, err := NewSupplierDirectory(state).Create(domain.Supplier{ID: 300, ProductID: rawSteel, LeadTime: domain.MaxDay + 1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected lead time beyond the limit to be rejected, got %v", err)
	}
	state.CurrentDay = domain.MaxDay
	if _, err := AdvanceDay(state, nil, domain.PolicySkip); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected the last day to stop advancing, got %v", err)
	}
}

func TestOrdersWaitForTheirCreationDay(t *testing.T) {
	state := newPlant(t, 10)
	credit(t, state, rawSteel, 10)
	later := order(t, state, finFrame, 2, 3)
	mfg := NewManufacturingOrders(state)
	if _, err := mfg.ForceStart(later.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected forced start before creation day to fail, got %v", err)
	}
	if outcome, err := mfg.TryStart(later.ID); err != nil || outcome.Reason != BlockedNotDue {
		t.Fatalf("expected not-due block, got %+v %v", outcome, err)
	}
	for day := 1; day <= 2; day++ {
		report, err := AdvanceDay(state, nil, domain.PolicyStrict)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if len(report.Started) != 0 || len(report.Deferred) != 0 {
			t.Fatalf("day %d: order created on day 3 was scanned: %+v", day, report)
		}
	}
	report, err := AdvanceDay(state, nil, domain.PolicyStrict)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !slices.Equal(report.Completed, []int{later.ID}) {
		t.Fatalf("expected order completed on day 3, got %+v", report)
	}
}
