package simulation

import (
	"fmt"
	"plantsim/pkg/domain"
)

// AdvanceDay runs one tick on the working copy state:
//
//  1. increment the day counter
//  2. register orders from gen
//  3. receive due purchase orders
//  4. reset today's capacity
//  5. scan pending manufacturing orders in FIFO order
//
// On error the working copy is left partially advanced and must be discarded.
// Use Advance for a call that never touches its input.
func AdvanceDay(state *domain.SimulationState, gen domain.OrderGenerator, policy domain.SchedulingPolicy) (domain.DayReport, error) {
	if gen == nil {
		gen = NoOrders{}
	}
	if policy == "" {
		policy = domain.PolicySkip
	}
	state.Normalize()
	if state.CurrentDay >= domain.MaxDay {
		return domain.DayReport{}, domain.Validationf(domain.EntitySimulation, "current_day", "day %d is the last simulated day", domain.MaxDay)
	}
	state.CurrentDay++
	day := state.CurrentDay
	report := domain.DayReport{
		Day:           day,
		Consumed:      map[int]int{},
		Produced:      map[int]int{},
		CapacityLimit: state.Capacity.DailyCapacity,
	}

	requests, err := gen.Generate(day, *state)
	if err != nil {
		return domain.DayReport{}, fmt.Errorf("generate orders for day %d: %w", day, err)
	}
	mfg := NewManufacturingOrders(state)
	for i, req := range requests {
		mo, err := mfg.Create(req.ProductID, req.Quantity, day)
		if err != nil {
			return domain.DayReport{}, fmt.Errorf("generated order %d for day %d: %w", i, day, err)
		}
		report.Generated = append(report.Generated, mo.ID)
	}

	received, err := NewPurchaseOrders(state).ResolveDeliveries(day)
	if err != nil {
		return domain.DayReport{}, fmt.Errorf("resolve deliveries for day %d: %w", day, err)
	}
	report.Received = received

	NewCapacityTracker(state).Reset()

	pending := mfg.Due(day)
	for i, mo := range pending {
		outcome, err := mfg.TryStart(mo.ID)
		if err != nil {
			return domain.DayReport{}, fmt.Errorf("start manufacturing order %d: %w", mo.ID, err)
		}
		if !outcome.Started {
			if policy == domain.PolicyStrict {
				for _, rest := range pending[i:] {
					report.Deferred = append(report.Deferred, rest.ID)
				}
				break
			}
			report.Deferred = append(report.Deferred, mo.ID)
			continue
		}
		report.Started = append(report.Started, mo.ID)
		report.Completed = append(report.Completed, outcome.Order.ID)
		for raw, qty := range outcome.Consumed {
			report.Consumed[raw] += qty
		}
		report.Produced[outcome.Order.ProductID] += outcome.Order.Quantity
	}
	report.CapacityUsed = state.Capacity.ConsumedToday
	return report, nil
}

// Advance is the value form of AdvanceDay: it advances a clone of state and
// returns the new state with its purchase suggestions. On error the returned
// state is the unchanged input.
func Advance(state domain.SimulationState, gen domain.OrderGenerator, policy domain.SchedulingPolicy) (domain.SimulationState, []domain.Suggestion, domain.DayReport, error) {
	next := state.Clone()
	report, err := AdvanceDay(&next, gen, policy)
	if err != nil {
		return state, nil, domain.DayReport{}, err
	}
	return next, Suggestions(next), report, nil
}
