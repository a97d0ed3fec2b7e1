package domain

import "context"

// RuleView provides read-only access to plant state for rule evaluation.
type RuleView interface {
	Day() int
	ListProducts() []Product
	ListInventory() []InventoryItem
	ListSuppliers() []Supplier
	ListPurchaseOrders() []PurchaseOrder
	ListManufacturingOrders() []ManufacturingOrder
	ListBOM() []BOMEntry
	CurrentCapacity() ProductionCapacity
	FindProduct(id int) (Product, bool)
	FindInventoryItem(productID int) (InventoryItem, bool)
	FindSupplier(id int) (Supplier, bool)
	FindPurchaseOrder(id int) (PurchaseOrder, bool)
	FindManufacturingOrder(id int) (ManufacturingOrder, bool)
}

// Rule defines an evaluation executed within a transaction boundary.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rule names in registration order.
func (e *RulesEngine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
