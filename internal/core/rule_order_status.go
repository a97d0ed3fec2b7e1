package core

import (
	"context"
	"fmt"
	"plantsim/pkg/domain"
)

// NewOrderStatusMonotonicRule blocks updates that move a purchase or
// manufacturing order back to an earlier status. Whole-state replacement
// (snapshot import) is exempt.
func NewOrderStatusMonotonicRule() domain.Rule {
	return orderStatusMonotonicRule{}
}

type orderStatusMonotonicRule struct{}

func (orderStatusMonotonicRule) Name() string { return "order_status_monotonic" }

func (r orderStatusMonotonicRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	for _, c := range changes {
		if c.Entity == domain.EntitySimulation && c.Action == domain.ActionReplace {
			return domain.Result{}, nil
		}
	}
	res := domain.Result{}
	for _, c := range changes {
		if c.Action != domain.ActionUpdate {
			continue
		}
		switch before := c.Before.(type) {
		case domain.ManufacturingOrder:
			after, ok := c.After.(domain.ManufacturingOrder)
			if ok && after.Status.Rank() < before.Status.Rank() {
				res.Violations = append(res.Violations, r.violation(c.Entity, before.ID, string(before.Status), string(after.Status)))
			}
		case domain.PurchaseOrder:
			after, ok := c.After.(domain.PurchaseOrder)
			if ok && before.Status == domain.PurchaseReceived && after.Status != domain.PurchaseReceived {
				res.Violations = append(res.Violations, r.violation(c.Entity, before.ID, string(before.Status), string(after.Status)))
			}
		}
	}
	return res, nil
}

func (r orderStatusMonotonicRule) violation(entity domain.EntityType, id int, from, to string) domain.Violation {
	return domain.Violation{
		Rule:     r.Name(),
		Severity: domain.SeverityBlock,
		Message:  fmt.Sprintf("%s %d status moved backwards: %s -> %s", entity, id, from, to),
		Entity:   entity,
		EntityID: id,
	}
}
