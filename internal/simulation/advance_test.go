package simulation

import (
	"errors"
	"plantsim/pkg/domain"
	"testing"
)

// Day 2 scenario: 20 units with lead time 3 issued on day 2 arrive on day 5.
func TestAdvanceDeliversOnEstimatedDay(t *testing.T) {
	state := newPlant(t, 10)
	state.CurrentDay = 1
	po, err := NewPurchaseOrders(state).Create(supSteel, 20, 2)
	if err != nil {
		t.Fatalf("create po: %v", err)
	}
	if po.EstimatedDeliveryDay != 5 {
		t.Fatalf("expected delivery day 5, got %d", po.EstimatedDeliveryDay)
	}
	for _, day := range []int{2, 3, 4} {
		report, err := AdvanceDay(state, nil, domain.PolicySkip)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if report.Day != day || len(report.Received) != 0 || state.Inventory[rawSteel].Qty != 0 {
			t.Fatalf("day %d: unexpected receipt %+v", day, report)
		}
	}
	report, err := AdvanceDay(state, nil, domain.PolicySkip)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if report.Day != 5 || len(report.Received) != 1 {
		t.Fatalf("expected receipt on day 5, got %+v", report)
	}
	if state.Inventory[rawSteel].Qty != 20 || state.PurchaseOrders[po.ID].Status != domain.PurchaseReceived {
		t.Fatalf("expected 20 units received, got %d", state.Inventory[rawSteel].Qty)
	}
	for range 3 {
		if _, err := AdvanceDay(state, nil, domain.PolicySkip); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if state.Inventory[rawSteel].Qty != 20 {
		t.Fatalf("delivery credited more than once: %d", state.Inventory[rawSteel].Qty)
	}
}

func TestAdvanceConservationAndCapacity(t *testing.T) {
	state := newPlant(t, 12)
	credit(t, state, rawSteel, 40)
	credit(t, state, rawBolt, 3)
	orders := []domain.ManufacturingOrder{
		order(t, state, finFrame, 5, 0),
		order(t, state, finBrace, 4, 0),
		order(t, state, finBrace, 3, 0),
		order(t, state, finFrame, 6, 0),
	}
	before := map[int]int{rawSteel: state.Inventory[rawSteel].Qty, rawBolt: state.Inventory[rawBolt].Qty}
	report, err := AdvanceDay(state, nil, domain.PolicySkip)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	cat := NewCatalog(state)
	expected := map[int]int{}
	completedQty := 0
	for _, id := range report.Completed {
		mo := state.ManufacturingOrders[id]
		completedQty += mo.Quantity
		required, _ := cat.Requirements(mo.ProductID, mo.Quantity)
		for raw, qty := range required {
			expected[raw] += qty
		}
	}
	for raw, qty := range expected {
		if debited := before[raw] - state.Inventory[raw].Qty; debited != qty || report.Consumed[raw] != qty {
			t.Fatalf("raw %d: debited %d, reported %d, expected %d", raw, debited, report.Consumed[raw], qty)
		}
	}
	if completedQty > state.Capacity.DailyCapacity || completedQty != report.CapacityUsed {
		t.Fatalf("capacity bound broken: completed %d, capacity %d", completedQty, state.Capacity.DailyCapacity)
	}
	// frame 5 fits; brace 4 lacks bolts; brace 3 fits (8 used); frame 6 exceeds capacity.
	if len(report.Completed) != 2 || report.Completed[0] != orders[0].ID || report.Completed[1] != orders[2].ID {
		t.Fatalf("unexpected completions %v", report.Completed)
	}
	if len(report.Deferred) != 2 {
		t.Fatalf("expected two deferred orders, got %v", report.Deferred)
	}
	assertNonNegative(t, *state)
}

func TestAdvancePolicies(t *testing.T) {
	run := func(policy domain.SchedulingPolicy) (*domain.SimulationState, domain.DayReport) {
		state := newPlant(t, 10)
		credit(t, state, rawSteel, 5)
		order(t, state, finFrame, 8, 0)
		order(t, state, finFrame, 3, 1)
		report, err := AdvanceDay(state, nil, policy)
		if err != nil {
			t.Fatalf("advance %s: %v", policy, err)
		}
		return state, report
	}
	state, report := run(domain.PolicySkip)
	if len(report.Completed) != 1 || state.ManufacturingOrders[2].Status != domain.ManufacturingCompleted {
		t.Fatalf("skip policy should start the later small order, got %+v", report)
	}
	state, report = run(domain.PolicyStrict)
	if len(report.Completed) != 0 || state.ManufacturingOrders[2].Status != domain.ManufacturingPending {
		t.Fatalf("strict policy should stop at the blocked head, got %+v", report)
	}
	if len(report.Deferred) != 2 {
		t.Fatalf("strict policy should defer the whole tail, got %v", report.Deferred)
	}
}

func TestAdvanceFIFOFairness(t *testing.T) {
	state := newPlant(t, 6)
	credit(t, state, rawSteel, 100)
	a := order(t, state, finFrame, 4, 1)
	b := order(t, state, finFrame, 4, 0)
	report, err := AdvanceDay(state, nil, domain.PolicySkip)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(report.Completed) != 1 || report.Completed[0] != b.ID {
		t.Fatalf("older order must start first, got %v", report.Completed)
	}
	report, err = AdvanceDay(state, nil, domain.PolicySkip)
	if err != nil || len(report.Completed) != 1 || report.Completed[0] != a.ID {
		t.Fatalf("younger order should start next day, got %v %v", report.Completed, err)
	}

	state = newPlant(t, 8)
	credit(t, state, rawSteel, 100)
	order(t, state, finFrame, 4, 0)
	order(t, state, finFrame, 4, 1)
	report, err = AdvanceDay(state, nil, domain.PolicySkip)
	if err != nil || len(report.Completed) != 2 {
		t.Fatalf("both orders should start the same day, got %v %v", report.Completed, err)
	}
}

func TestAdvanceResetsCapacityEachDay(t *testing.T) {
	state := newPlant(t, 5)
	credit(t, state, rawSteel, 50)
	gen := GeneratorFunc(func(int, domain.RuleView) ([]domain.OrderRequest, error) {
		return []domain.OrderRequest{{ProductID: finFrame, Quantity: 5}}, nil
	})
	for day := 1; day <= 3; day++ {
		report, err := AdvanceDay(state, gen, domain.PolicySkip)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if report.CapacityUsed != 5 || len(report.Generated) != 1 || len(report.Completed) != 1 {
			t.Fatalf("day %d: unexpected report %+v", day, report)
		}
	}
	if state.Inventory[rawSteel].Qty != 35 || state.Inventory[finFrame].Qty != 15 {
		t.Fatalf("unexpected inventory %+v", state.Inventory)
	}
}

func TestAdvanceIsAtomicOnGeneratorFailure(t *testing.T) {
	state := newPlant(t, 10)
	credit(t, state, rawSteel, 10)
	order(t, state, finFrame, 2, 0)
	snapshot := state.Clone()
	bad := Schedule{1: {{ProductID: finFrame, Quantity: 1}, {ProductID: 404, Quantity: 1}}}
	next, suggestions, _, err := Advance(*state, bad, domain.PolicySkip)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if suggestions != nil || next.CurrentDay != 0 || len(next.ManufacturingOrders) != 1 {
		t.Fatalf("failed advance leaked changes: %+v", next)
	}
	if state.CurrentDay != snapshot.CurrentDay || state.Inventory[rawSteel] != snapshot.Inventory[rawSteel] {
		t.Fatalf("input state mutated")
	}

	failing := GeneratorFunc(func(int, domain.RuleView) ([]domain.OrderRequest, error) {
		return nil, errors.New("feed offline")
	})
	if _, _, _, err := Advance(*state, failing, domain.PolicySkip); err == nil {
		t.Fatalf("expected generator error")
	}
}

func TestAdvanceReturnsSuggestions(t *testing.T) {
	state := newPlant(t, 10)
	credit(t, state, rawSteel, 2)
	order(t, state, finBrace, 4, 0)
	next, suggestions, report, err := Advance(*state, nil, domain.PolicySkip)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if report.Day != 1 || next.CurrentDay != 1 {
		t.Fatalf("expected day 1, got %d", next.CurrentDay)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected suggestions for steel and bolt, got %+v", suggestions)
	}
	if suggestions[0].ProductID != rawSteel || suggestions[0].Quantity != 6 || suggestions[0].SupplierID != supSteel2 {
		t.Fatalf("unexpected steel suggestion %+v", suggestions[0])
	}
	if suggestions[1].ProductID != rawBolt || suggestions[1].Quantity != 4 {
		t.Fatalf("unexpected bolt suggestion %+v", suggestions[1])
	}
}
