package core

import "plantsim/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Product            = domain.Product
	Supplier           = domain.Supplier
	BOMEntry           = domain.BOMEntry
	InventoryItem      = domain.InventoryItem
	PurchaseOrder      = domain.PurchaseOrder
	ManufacturingOrder = domain.ManufacturingOrder
	ProductionCapacity = domain.ProductionCapacity
	Suggestion         = domain.Suggestion
	DayReport          = domain.DayReport
	Rule               = domain.Rule
	RuleView           = domain.RuleView
	RulesEngine        = domain.RulesEngine
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
)

const (
	EntityProduct            = domain.EntityProduct
	EntitySupplier           = domain.EntitySupplier
	EntityBOMEntry           = domain.EntityBOMEntry
	EntityInventoryItem      = domain.EntityInventoryItem
	EntityPurchaseOrder      = domain.EntityPurchaseOrder
	EntityManufacturingOrder = domain.EntityManufacturingOrder
	EntityCapacity           = domain.EntityCapacity
	EntitySimulation         = domain.EntitySimulation
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)
