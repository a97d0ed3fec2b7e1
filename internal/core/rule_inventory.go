package core

import (
	"context"
	"fmt"
	"plantsim/pkg/domain"
)

// NewInventoryNonNegativeRule blocks commits that leave an inventory item below
// zero or a product without exactly one inventory item.
func NewInventoryNonNegativeRule() domain.Rule {
	return inventoryNonNegativeRule{}
}

type inventoryNonNegativeRule struct{}

func (inventoryNonNegativeRule) Name() string { return "inventory_non_negative" }

func (r inventoryNonNegativeRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, item := range view.ListInventory() {
		if _, ok := view.FindProduct(item.ProductID); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("inventory item for unknown product %d", item.ProductID),
				Entity:   domain.EntityInventoryItem,
				EntityID: item.ProductID,
			})
		}
		if item.Qty < 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("product %d inventory is negative: %d", item.ProductID, item.Qty),
				Entity:   domain.EntityInventoryItem,
				EntityID: item.ProductID,
			})
		}
	}
	for _, p := range view.ListProducts() {
		if _, ok := view.FindInventoryItem(p.ID); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("product %d (%s) has no inventory item", p.ID, p.Name),
				Entity:   domain.EntityProduct,
				EntityID: p.ID,
			})
		}
	}
	return res, nil
}
