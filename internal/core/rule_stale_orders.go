package core

import (
	"context"
	"fmt"
	"plantsim/pkg/domain"
)

// DefaultStaleAfterDays is the age at which a pending manufacturing order is reported.
const DefaultStaleAfterDays = 14

// NewStalePendingOrdersRule warns about manufacturing orders pending for more than days.
func NewStalePendingOrdersRule(days int) domain.Rule {
	return stalePendingOrdersRule{days: days}
}

type stalePendingOrdersRule struct {
	days int
}

func (stalePendingOrdersRule) Name() string { return "stale_pending_orders" }

func (r stalePendingOrdersRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	today := view.Day()
	for _, mo := range view.ListManufacturingOrders() {
		if mo.Status != domain.ManufacturingPending {
			continue
		}
		if age := today - mo.CreatedDay; age > r.days {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("manufacturing order %d pending for %d days", mo.ID, age),
				Entity:   domain.EntityManufacturingOrder,
				EntityID: mo.ID,
			})
		}
	}
	return res, nil
}
