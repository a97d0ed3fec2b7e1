// Package domain defines the plant entities, value types, and rule
// evaluation primitives shared by the simulation engine and its stores.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EntityType identifies the type of record stored in the simulation state.
type EntityType string

// Supported entity type identifiers used in Change records, errors and persistence buckets.
const (
	// EntityProduct identifies a catalog product.
	EntityProduct EntityType = "product"
	// EntityBOMEntry identifies a bill-of-materials line.
	EntityBOMEntry EntityType = "bom_entry"
	// EntityInventoryItem identifies the on-hand stock record of a product.
	EntityInventoryItem EntityType = "inventory_item"
	// EntitySupplier identifies a supplier record.
	EntitySupplier EntityType = "supplier"
	// EntityPurchaseOrder identifies a purchase order.
	EntityPurchaseOrder EntityType = "purchase_order"
	// EntityManufacturingOrder identifies a manufacturing order.
	EntityManufacturingOrder EntityType = "manufacturing_order"
	// EntityCapacity identifies the plant production capacity record.
	EntityCapacity EntityType = "production_capacity"
	// EntitySimulation identifies the aggregate state (day counter, imports).
	EntitySimulation EntityType = "simulation"
)

// ProductKind distinguishes purchasable raw materials from manufactured goods.
type ProductKind string

// Product kinds.
const (
	ProductRaw      ProductKind = "raw"
	ProductFinished ProductKind = "finished"
)

// Valid reports whether k is a known product kind.
func (k ProductKind) Valid() bool {
	return k == ProductRaw || k == ProductFinished
}

// PurchaseOrderStatus enumerates purchase order lifecycle states.
type PurchaseOrderStatus string

// Purchase order statuses. The only transition is pending -> received.
const (
	PurchasePending  PurchaseOrderStatus = "pending"
	PurchaseReceived PurchaseOrderStatus = "received"
)

// Valid reports whether s is a known purchase order status.
func (s PurchaseOrderStatus) Valid() bool {
	return s == PurchasePending || s == PurchaseReceived
}

// ManufacturingOrderStatus enumerates manufacturing order lifecycle states.
type ManufacturingOrderStatus string

// Manufacturing order statuses: pending -> in_progress -> completed.
const (
	ManufacturingPending    ManufacturingOrderStatus = "pending"
	ManufacturingInProgress ManufacturingOrderStatus = "in_progress"
	ManufacturingCompleted  ManufacturingOrderStatus = "completed"
)

// Valid reports whether s is a known manufacturing order status.
func (s ManufacturingOrderStatus) Valid() bool {
	return s.Rank() >= 0
}

// Rank orders statuses along the lifecycle; unknown statuses rank -1.
func (s ManufacturingOrderStatus) Rank() int {
	switch s {
	case ManufacturingPending:
		return 0
	case ManufacturingInProgress:
		return 1
	case ManufacturingCompleted:
		return 2
	default:
		return -1
	}
}

// CanTransition reports whether s may move directly to next.
func (s ManufacturingOrderStatus) CanTransition(next ManufacturingOrderStatus) bool {
	return s.Rank() >= 0 && next.Rank() == s.Rank()+1
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Product is a catalog entry. IDs are never reused.
type Product struct {
	ID   int         `json:"id"`
	Name string      `json:"name"`
	Kind ProductKind `json:"type"`
}

// BOMEntry states how many units of a raw material one unit of a finished product consumes.
type BOMEntry struct {
	FinishedID int `json:"finished_id"`
	RawID      int `json:"raw_id"`
	QtyPerUnit int `json:"qty_per_unit"`
}

// InventoryItem holds the on-hand quantity of one product.
type InventoryItem struct {
	ProductID int `json:"product_id"`
	Qty       int `json:"qty"`
}

// Supplier sells a single raw product at a unit cost with a fixed lead time in days.
type Supplier struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LeadTime  int             `json:"lead_time"`
}

// PurchaseOrder is a replenishment order placed with a supplier. Days are simulation day numbers.
type PurchaseOrder struct {
	ID                   int                 `json:"id"`
	SupplierID           int                 `json:"supplier_id"`
	ProductID            int                 `json:"product_id"`
	Quantity             int                 `json:"quantity"`
	IssueDay             int                 `json:"issue_day"`
	EstimatedDeliveryDay int                 `json:"estimated_delivery_day"`
	Status               PurchaseOrderStatus `json:"status"`
}

// ManufacturingOrder requests production of a finished product.
type ManufacturingOrder struct {
	ID         int                      `json:"id"`
	CreatedDay int                      `json:"created_day"`
	ProductID  int                      `json:"product_id"`
	Quantity   int                      `json:"quantity"`
	Status     ManufacturingOrderStatus `json:"status"`
}

// ProductionCapacity tracks the daily production ceiling and what today's starts consumed.
type ProductionCapacity struct {
	DailyCapacity int `json:"daily_capacity"`
	ConsumedToday int `json:"consumed_today"`
}

// Remaining returns the capacity still available today.
func (c ProductionCapacity) Remaining() int {
	if c.ConsumedToday >= c.DailyCapacity {
		return 0
	}
	return c.DailyCapacity - c.ConsumedToday
}

// Fits reports whether qty more units can be produced today.
func (c ProductionCapacity) Fits(qty int) bool {
	return qty >= 0 && qty <= c.Remaining()
}

// Suggestion recommends restocking a raw material whose projected demand exceeds supply.
type Suggestion struct {
	ProductID  int             `json:"product_id"`
	Quantity   int             `json:"quantity"`
	SupplierID int             `json:"supplier_id"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	LeadTime   int             `json:"lead_time"`
}

// HasSupplier reports whether a supplier could be named for the suggestion.
func (s Suggestion) HasSupplier() bool { return s.SupplierID > 0 }

// EstimatedCost returns quantity * unit cost.
func (s Suggestion) EstimatedCost() decimal.Decimal {
	return s.UnitCost.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported operations captured in the audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	// ActionReplace indicates the whole state was replaced by an import.
	ActionReplace Action = "replace"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID int
}

func (v Violation) String() string {
	return fmt.Sprintf("%s[%s] %s", v.Rule, v.Severity, v.Message)
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return "transaction blocked by rules: " + v.String()
		}
	}
	return "transaction blocked by rules"
}
