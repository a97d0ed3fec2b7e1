package simulation

import "plantsim/pkg/domain"

// CapacityTracker guards the daily production ceiling.
type CapacityTracker struct {
	state *domain.SimulationState
}

// NewCapacityTracker binds a tracker to state.
func NewCapacityTracker(state *domain.SimulationState) CapacityTracker {
	return CapacityTracker{state: state}
}

// Configure sets the daily ceiling. Lowering it below today's consumption is rejected.
func (c CapacityTracker) Configure(daily int) (domain.ProductionCapacity, error) {
	if daily < 0 {
		return domain.ProductionCapacity{}, domain.Validationf(domain.EntityCapacity, "daily_capacity", "must be >= 0, got %d", daily)
	}
	if daily < c.state.Capacity.ConsumedToday {
		return domain.ProductionCapacity{}, domain.Validationf(domain.EntityCapacity, "daily_capacity", "%d already consumed today", c.state.Capacity.ConsumedToday)
	}
	c.state.Capacity.DailyCapacity = daily
	return c.state.Capacity, nil
}

// Reset zeroes today's consumption.
func (c CapacityTracker) Reset() {
	c.state.Capacity.ConsumedToday = 0
}

// Fits reports whether qty more units fit today.
func (c CapacityTracker) Fits(qty int) bool {
	return c.state.Capacity.Fits(qty)
}

// Consume books qty units against today's capacity.
func (c CapacityTracker) Consume(qty int) error {
	if !c.Fits(qty) {
		return domain.Validationf(domain.EntityCapacity, "consumed_today", "%d units exceed remaining capacity %d", qty, c.state.Capacity.Remaining())
	}
	c.state.Capacity.ConsumedToday += qty
	return nil
}
