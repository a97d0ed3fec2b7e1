package core

import (
	"context"
	"fmt"
	"plantsim/pkg/domain"
)

// NewCapacityBoundRule blocks commits where the day's consumed capacity exceeds the daily limit.
func NewCapacityBoundRule() domain.Rule {
	return capacityBoundRule{}
}

type capacityBoundRule struct{}

func (capacityBoundRule) Name() string { return "capacity_bound" }

func (r capacityBoundRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	c := view.CurrentCapacity()
	if c.ConsumedToday >= 0 && c.ConsumedToday <= c.DailyCapacity {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:     r.Name(),
		Severity: domain.SeverityBlock,
		Message:  fmt.Sprintf("consumed %d of daily capacity %d", c.ConsumedToday, c.DailyCapacity),
		Entity:   domain.EntityCapacity,
	}}}, nil
}
