package domain

import "fmt"

// OrderRequest asks the day advancer to register a new manufacturing order.
type OrderRequest struct {
	ProductID int
	Quantity  int
}

// OrderGenerator supplies the manufacturing orders that arrive on a simulated day.
// The view is the state after the day counter was incremented.
type OrderGenerator interface {
	Generate(day int, view RuleView) ([]OrderRequest, error)
}

// SchedulingPolicy selects how the daily scan treats a pending order that cannot start.
type SchedulingPolicy string

const (
	// PolicySkip leaves the order pending and keeps scanning later orders.
	PolicySkip SchedulingPolicy = "skip"
	// PolicyStrict stops the scan at the first order that cannot start.
	PolicyStrict SchedulingPolicy = "strict"
)

// ParseSchedulingPolicy accepts "skip", "strict" or empty (skip).
func ParseSchedulingPolicy(value string) (SchedulingPolicy, error) {
	switch SchedulingPolicy(value) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown scheduling policy %q", value)
	}
}

// DayReport records what a single advance did.
type DayReport struct {
	Day           int
	Generated     []int
	Received      []int
	Started       []int
	Completed     []int
	Deferred      []int
	Consumed      map[int]int
	Produced      map[int]int
	CapacityUsed  int
	CapacityLimit int
}

// ConsumedTotal sums raw material consumption over all products.
func (r DayReport) ConsumedTotal() int {
	total := 0
	for _, qty := range r.Consumed {
		total += qty
	}
	return total
}
