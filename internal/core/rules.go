package core

import "plantsim/pkg/domain"

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }

// NewDefaultRulesEngine builds an engine with the built-in plant invariants.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewInventoryNonNegativeRule())
	engine.Register(NewCapacityBoundRule())
	engine.Register(NewOrderStatusMonotonicRule())
	engine.Register(NewStalePendingOrdersRule(DefaultStaleAfterDays))
	return engine
}
