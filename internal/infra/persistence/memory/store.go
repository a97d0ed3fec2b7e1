// Package memory provides an in-memory implementation of the plant persistence
// store used for tests, ephemeral runs, and as the transactional core of the
// durable stores.
package memory

import (
	"context"
	"maps"
	"plantsim/internal/simulation"
	"plantsim/pkg/domain"
	"slices"
	"sync"
	"time"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// State aliases domain.SimulationState.
	State = domain.SimulationState
)

// Store provides an in-memory transactional store for a single plant.
// Writers are serialised; readers share a read lock and see cloned state.
type Store struct {
	mu     sync.RWMutex
	state  State
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  domain.NewSimulationState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ImportState replaces the store state with a copy of the provided state.
// Callers are expected to have validated it.
func (s *Store) ImportState(state State) {
	next := state.Clone()
	next.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// CurrentDay returns the committed day counter.
func (s *Store) CurrentDay() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentDay
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy replaces the live state only when fn succeeds and no rule blocks.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{state: s.state.Clone()}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, tx.state, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.Clone()
	s.mu.RUnlock()
	return fn(transactionView{snapshot})
}

type transactionView struct {
	domain.SimulationState
}

func (v transactionView) State() State { return v.SimulationState.Clone() }

// transaction represents a mutation set applied to a working copy of the store state.
type transaction struct {
	state   State
	changes []Change
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return transactionView{tx.state.Clone()}
}

func (tx *transaction) CreateProduct(p domain.Product) (domain.Product, error) {
	created, err := simulation.NewCatalog(&tx.state).CreateProduct(p)
	if err != nil {
		return domain.Product{}, err
	}
	tx.recordChange(Change{Entity: domain.EntityProduct, Action: domain.ActionCreate, After: created})
	tx.recordChange(Change{Entity: domain.EntityInventoryItem, Action: domain.ActionCreate, After: tx.state.Inventory[created.ID]})
	return created, nil
}

func (tx *transaction) CreateSupplier(s domain.Supplier) (domain.Supplier, error) {
	created, err := simulation.NewSupplierDirectory(&tx.state).Create(s)
	if err != nil {
		return domain.Supplier{}, err
	}
	tx.recordChange(Change{Entity: domain.EntitySupplier, Action: domain.ActionCreate, After: created})
	return created, nil
}

func (tx *transaction) CreateBOMEntry(e domain.BOMEntry) (domain.BOMEntry, error) {
	created, err := simulation.NewCatalog(&tx.state).CreateBOMEntry(e)
	if err != nil {
		return domain.BOMEntry{}, err
	}
	tx.recordChange(Change{Entity: domain.EntityBOMEntry, Action: domain.ActionCreate, After: created})
	return created, nil
}

func (tx *transaction) CreditInventory(productID, qty int) (domain.InventoryItem, error) {
	before := tx.state.Inventory[productID]
	item, err := simulation.NewInventoryLedger(&tx.state).Credit(productID, qty)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	tx.recordChange(Change{Entity: domain.EntityInventoryItem, Action: domain.ActionUpdate, Before: before, After: item})
	return item, nil
}

func (tx *transaction) ConfigureCapacity(daily int) (domain.ProductionCapacity, error) {
	before := tx.state.Capacity
	capacity, err := simulation.NewCapacityTracker(&tx.state).Configure(daily)
	if err != nil {
		return domain.ProductionCapacity{}, err
	}
	tx.recordChange(Change{Entity: domain.EntityCapacity, Action: domain.ActionUpdate, Before: before, After: capacity})
	return capacity, nil
}

func (tx *transaction) CreatePurchaseOrder(supplierID, quantity, issueDay int) (domain.PurchaseOrder, error) {
	po, err := simulation.NewPurchaseOrders(&tx.state).Create(supplierID, quantity, issueDay)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	tx.recordChange(Change{Entity: domain.EntityPurchaseOrder, Action: domain.ActionCreate, After: po})
	return po, nil
}

func (tx *transaction) CreateManufacturingOrder(productID, quantity, createdDay int) (domain.ManufacturingOrder, error) {
	mo, err := simulation.NewManufacturingOrders(&tx.state).Create(productID, quantity, createdDay)
	if err != nil {
		return domain.ManufacturingOrder{}, err
	}
	tx.recordChange(Change{Entity: domain.EntityManufacturingOrder, Action: domain.ActionCreate, After: mo})
	return mo, nil
}

func (tx *transaction) StartManufacturingOrder(id int) (domain.ManufacturingOrder, error) {
	before := tx.state.Clone()
	mo, err := simulation.NewManufacturingOrders(&tx.state).ForceStart(id)
	if err != nil {
		tx.state = before
		return domain.ManufacturingOrder{}, err
	}
	tx.changes = append(tx.changes, Diff(before, tx.state)...)
	return mo, nil
}

func (tx *transaction) AdvanceDay(gen domain.OrderGenerator, policy domain.SchedulingPolicy) (domain.DayReport, error) {
	before := tx.state.Clone()
	report, err := simulation.AdvanceDay(&tx.state, gen, policy)
	if err != nil {
		tx.state = before
		return domain.DayReport{}, err
	}
	tx.changes = append(tx.changes, Diff(before, tx.state)...)
	return report, nil
}

func (tx *transaction) ReplaceState(next State) error {
	if err := domain.ValidateState(next); err != nil {
		return err
	}
	before := tx.state
	tx.state = next.Clone()
	tx.state.Normalize()
	tx.recordChange(Change{Entity: domain.EntitySimulation, Action: domain.ActionReplace, Before: before.CurrentDay, After: tx.state.CurrentDay})
	tx.changes = append(tx.changes, Diff(before, tx.state)...)
	return nil
}

// Diff reports per-entity changes between two states in a stable order:
// day counter, inventory, capacity, purchase orders, then manufacturing orders.
func Diff(before, after State) []Change {
	var out []Change
	if before.CurrentDay != after.CurrentDay {
		out = append(out, Change{Entity: domain.EntitySimulation, Action: domain.ActionUpdate, Before: before.CurrentDay, After: after.CurrentDay})
	}
	out = appendMapChanges(out, domain.EntityInventoryItem, before.Inventory, after.Inventory)
	if before.Capacity != after.Capacity {
		out = append(out, Change{Entity: domain.EntityCapacity, Action: domain.ActionUpdate, Before: before.Capacity, After: after.Capacity})
	}
	out = appendMapChanges(out, domain.EntityPurchaseOrder, before.PurchaseOrders, after.PurchaseOrders)
	out = appendMapChanges(out, domain.EntityManufacturingOrder, before.ManufacturingOrders, after.ManufacturingOrders)
	return out
}

func appendMapChanges[V comparable](out []Change, entity domain.EntityType, before, after map[int]V) []Change {
	for _, id := range slices.Sorted(maps.Keys(after)) {
		next := after[id]
		prev, existed := before[id]
		switch {
		case !existed:
			out = append(out, Change{Entity: entity, Action: domain.ActionCreate, After: next})
		case prev != next:
			out = append(out, Change{Entity: entity, Action: domain.ActionUpdate, Before: prev, After: next})
		}
	}
	return out
}
