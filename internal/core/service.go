package core

import (
	"context"
	"plantsim/internal/simulation"
	"plantsim/pkg/domain"
)

// Service exposes the plant operations. Every write runs in one store
// transaction and is traced, measured and audited.
type Service struct {
	store PersistentStore
	opts  serviceOptions
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	options := defaultServiceOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{store: store, opts: options}
}

// NewInMemoryService creates a service over a fresh in-memory store. A nil
// engine selects the default rule set.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(NewMemoryStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore { return s.store }

// Calendar returns the day-to-date mapping used for snapshots.
func (s *Service) Calendar() domain.Calendar { return s.opts.calendar }

// Close releases durable store resources.
func (s *Service) Close() error { return CloseStore(s.store) }

// AdvanceOutcome is the result of advancing one simulated day.
type AdvanceOutcome struct {
	State       domain.SimulationState
	Suggestions []domain.Suggestion
	Report      domain.DayReport
}

// CreateProduct registers a product and its zero inventory item.
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, Result, error) {
	var created domain.Product
	res, err := s.run(ctx, opCreateProduct, func(tx Transaction) (auditRef, error) {
		var err error
		created, err = tx.CreateProduct(product)
		return auditRef{EntityID: created.ID}, err
	})
	return created, res, err
}

// CreateSupplier registers a supplier of a raw product.
func (s *Service) CreateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, Result, error) {
	var created domain.Supplier
	res, err := s.run(ctx, opCreateSupplier, func(tx Transaction) (auditRef, error) {
		var err error
		created, err = tx.CreateSupplier(supplier)
		return auditRef{EntityID: created.ID}, err
	})
	return created, res, err
}

// CreateBOMEntry adds one raw material line to a finished product's bill of materials.
func (s *Service) CreateBOMEntry(ctx context.Context, entry domain.BOMEntry) (domain.BOMEntry, Result, error) {
	var created domain.BOMEntry
	res, err := s.run(ctx, opCreateBOMEntry, func(tx Transaction) (auditRef, error) {
		var err error
		created, err = tx.CreateBOMEntry(entry)
		return auditRef{EntityID: created.FinishedID}, err
	})
	return created, res, err
}

// CreditInventory adds qty units to a product's stock.
func (s *Service) CreditInventory(ctx context.Context, productID, qty int) (domain.InventoryItem, Result, error) {
	var item domain.InventoryItem
	res, err := s.run(ctx, opCreditInventory, func(tx Transaction) (auditRef, error) {
		var err error
		item, err = tx.CreditInventory(productID, qty)
		return auditRef{EntityID: productID}, err
	})
	return item, res, err
}

// ConfigureCapacity sets the daily production limit.
func (s *Service) ConfigureCapacity(ctx context.Context, dailyCapacity int) (domain.ProductionCapacity, Result, error) {
	var capacity domain.ProductionCapacity
	res, err := s.run(ctx, opConfigureCapacity, func(tx Transaction) (auditRef, error) {
		var err error
		capacity, err = tx.ConfigureCapacity(dailyCapacity)
		return auditRef{}, err
	})
	return capacity, res, err
}

// CreatePurchaseOrder issues a pending order to a supplier.
func (s *Service) CreatePurchaseOrder(ctx context.Context, supplierID, quantity, issueDay int) (domain.PurchaseOrder, Result, error) {
	var po domain.PurchaseOrder
	res, err := s.run(ctx, opCreatePurchaseOrder, func(tx Transaction) (auditRef, error) {
		var err error
		po, err = tx.CreatePurchaseOrder(supplierID, quantity, issueDay)
		return auditRef{EntityID: po.ID, Day: issueDay}, err
	})
	return po, res, err
}

// CreateManufacturingOrder records a pending production order.
func (s *Service) CreateManufacturingOrder(ctx context.Context, productID, quantity, createdDay int) (domain.ManufacturingOrder, Result, error) {
	var mo domain.ManufacturingOrder
	res, err := s.run(ctx, opCreateManufacturingOrder, func(tx Transaction) (auditRef, error) {
		var err error
		mo, err = tx.CreateManufacturingOrder(productID, quantity, createdDay)
		return auditRef{EntityID: mo.ID, Day: createdDay}, err
	})
	return mo, res, err
}

// StartManufacturingOrder runs a pending order now, failing instead of deferring
// when materials or capacity are short.
func (s *Service) StartManufacturingOrder(ctx context.Context, id int) (domain.ManufacturingOrder, Result, error) {
	var mo domain.ManufacturingOrder
	res, err := s.run(ctx, opStartManufacturingOrder, func(tx Transaction) (auditRef, error) {
		var err error
		mo, err = tx.StartManufacturingOrder(id)
		return auditRef{EntityID: id}, err
	})
	return mo, res, err
}

// AdvanceDay moves the plant one day forward with the configured generator
// and scheduling policy. The advance commits entirely or not at all.
func (s *Service) AdvanceDay(ctx context.Context) (AdvanceOutcome, Result, error) {
	var out AdvanceOutcome
	res, err := s.run(ctx, opAdvanceDay, func(tx Transaction) (auditRef, error) {
		report, err := tx.AdvanceDay(s.opts.generator, s.opts.policy)
		if err != nil {
			return auditRef{}, err
		}
		state := tx.Snapshot().State()
		out = AdvanceOutcome{State: state, Suggestions: simulation.Suggestions(state), Report: report}
		return auditRef{Day: report.Day}, nil
	})
	if err != nil {
		return AdvanceOutcome{}, res, err
	}
	r := out.Report
	s.opts.logger.Info("day advanced",
		"day", r.Day,
		"date", s.opts.calendar.Format(r.Day),
		"generated", len(r.Generated),
		"received", len(r.Received),
		"completed", len(r.Completed),
		"deferred", len(r.Deferred),
		"capacity_used", r.CapacityUsed,
		"suggestions", len(out.Suggestions),
	)
	return out, res, nil
}

// Run advances days one at a time, calling fn after each committed day. It
// stops at the first error or when ctx is cancelled between days.
func (s *Service) Run(ctx context.Context, days int, fn func(AdvanceOutcome)) error {
	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, _, err := s.AdvanceDay(ctx)
		if err != nil {
			return err
		}
		if fn != nil {
			fn(out)
		}
	}
	return nil
}

// PurchaseSuggestions computes suggestions for the committed state.
func (s *Service) PurchaseSuggestions(ctx context.Context) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	err := s.view(ctx, opPurchaseSuggestions, func(v TransactionView) error {
		out = simulation.Suggestions(v.State())
		return nil
	})
	return out, err
}

// State returns a copy of the committed state.
func (s *Service) State(ctx context.Context) (domain.SimulationState, error) {
	var state domain.SimulationState
	err := s.view(ctx, opState, func(v TransactionView) error {
		state = v.State()
		return nil
	})
	return state, err
}

// CurrentDay returns the current day number and its calendar date.
func (s *Service) CurrentDay(ctx context.Context) (int, string, error) {
	var day int
	err := s.view(ctx, opState, func(v TransactionView) error {
		day = v.Day()
		return nil
	})
	return day, s.opts.calendar.Format(day), err
}

// Products lists products by id.
func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := s.view(ctx, opListProducts, func(v TransactionView) error {
		out = v.ListProducts()
		return nil
	})
	return out, err
}

// Inventory lists inventory items by product id.
func (s *Service) Inventory(ctx context.Context) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	err := s.view(ctx, opListInventory, func(v TransactionView) error {
		out = v.ListInventory()
		return nil
	})
	return out, err
}

// Suppliers lists suppliers by id.
func (s *Service) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := s.view(ctx, opListSuppliers, func(v TransactionView) error {
		out = v.ListSuppliers()
		return nil
	})
	return out, err
}

// BOM lists the bill of materials ordered by (finished_id, raw_id).
func (s *Service) BOM(ctx context.Context) ([]domain.BOMEntry, error) {
	var out []domain.BOMEntry
	err := s.view(ctx, opListBOM, func(v TransactionView) error {
		out = v.ListBOM()
		return nil
	})
	return out, err
}

// Capacity returns the production capacity record.
func (s *Service) Capacity(ctx context.Context) (domain.ProductionCapacity, error) {
	var out domain.ProductionCapacity
	err := s.view(ctx, opState, func(v TransactionView) error {
		out = v.CurrentCapacity()
		return nil
	})
	return out, err
}

// ListPurchaseOrders lists purchase orders, optionally filtered by status.
func (s *Service) ListPurchaseOrders(ctx context.Context, status domain.PurchaseOrderStatus) ([]domain.PurchaseOrder, error) {
	var out []domain.PurchaseOrder
	err := s.view(ctx, opListPurchaseOrders, func(v TransactionView) error {
		out = domain.FilterPurchaseOrders(v.ListPurchaseOrders(), status)
		return nil
	})
	return out, err
}

// ListManufacturingOrders lists manufacturing orders, optionally filtered by status.
func (s *Service) ListManufacturingOrders(ctx context.Context, status domain.ManufacturingOrderStatus) ([]domain.ManufacturingOrder, error) {
	var out []domain.ManufacturingOrder
	err := s.view(ctx, opListManufacturingOrders, func(v TransactionView) error {
		out = domain.FilterManufacturingOrders(v.ListManufacturingOrders(), status)
		return nil
	})
	return out, err
}
