package domain

import "context"

// Transaction exposes the plant operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateProduct(Product) (Product, error)
	CreateSupplier(Supplier) (Supplier, error)
	CreateBOMEntry(BOMEntry) (BOMEntry, error)
	CreditInventory(productID, qty int) (InventoryItem, error)
	ConfigureCapacity(dailyCapacity int) (ProductionCapacity, error)
	CreatePurchaseOrder(supplierID, quantity, issueDay int) (PurchaseOrder, error)
	CreateManufacturingOrder(productID, quantity, createdDay int) (ManufacturingOrder, error)
	StartManufacturingOrder(id int) (ManufacturingOrder, error)
	AdvanceDay(gen OrderGenerator, policy SchedulingPolicy) (DayReport, error)
	ReplaceState(SimulationState) error
}

// TransactionView provides read-only access to snapshot data for rules and queries.
type TransactionView interface {
	RuleView
	State() SimulationState
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ExportState() SimulationState
	ImportState(SimulationState)
	RulesEngine() *RulesEngine
}
