package simulation

import (
	"plantsim/pkg/domain"
	"slices"
)

// BlockReason explains why a pending order could not start.
type BlockReason string

const (
	BlockedNone      BlockReason = ""
	BlockedMaterials BlockReason = "materials"
	BlockedCapacity  BlockReason = "capacity"
	BlockedNotDue    BlockReason = "not_due"
	BlockedStock     BlockReason = "stock"
)

// StartOutcome is the result of a start attempt.
type StartOutcome struct {
	Order    domain.ManufacturingOrder
	Started  bool
	Reason   BlockReason
	Consumed map[int]int
}

// ManufacturingOrders owns the manufacturing order lifecycle.
type ManufacturingOrders struct {
	state    *domain.SimulationState
	catalog  Catalog
	ledger   InventoryLedger
	capacity CapacityTracker
}

// NewManufacturingOrders binds the manager to state.
func NewManufacturingOrders(state *domain.SimulationState) ManufacturingOrders {
	return ManufacturingOrders{
		state:    state,
		catalog:  NewCatalog(state),
		ledger:   NewInventoryLedger(state),
		capacity: NewCapacityTracker(state),
	}
}

// Create registers a pending order for a finished product with a BOM.
func (m ManufacturingOrders) Create(productID, quantity, createdDay int) (domain.ManufacturingOrder, error) {
	p, ok := m.state.Products[productID]
	if !ok {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "product_id", "unknown product %d", productID)
	}
	if p.Kind != domain.ProductFinished {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "product_id", "product %d is not a finished product", productID)
	}
	if !m.catalog.HasBOM(productID) {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "product_id", "product %d has no bill of materials", productID)
	}
	if quantity <= 0 {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "quantity", "must be positive, got %d", quantity)
	}
	if createdDay < 0 {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "created_at", "day %d precedes the simulation start", createdDay)
	}
	if createdDay > domain.MaxDay {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "created_at", "day %d is after day %d", createdDay, domain.MaxDay)
	}
	if _, ok := m.catalog.Requirements(productID, quantity); !ok {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "quantity", "bill of materials for %d units overflows", quantity)
	}
	mo := domain.ManufacturingOrder{
		ID:         m.state.NextManufacturingOrderID(),
		CreatedDay: createdDay,
		ProductID:  productID,
		Quantity:   quantity,
		Status:     domain.ManufacturingPending,
	}
	m.state.ManufacturingOrders[mo.ID] = mo
	return mo, nil
}

// Pending returns pending orders in FIFO order: created day, then id.
func (m ManufacturingOrders) Pending() []domain.ManufacturingOrder {
	pending := domain.FilterManufacturingOrders(m.state.ListManufacturingOrders(), domain.ManufacturingPending)
	slices.SortStableFunc(pending, func(a, b domain.ManufacturingOrder) int {
		if a.CreatedDay != b.CreatedDay {
			return a.CreatedDay - b.CreatedDay
		}
		return a.ID - b.ID
	})
	return pending
}

// Due returns the pending orders created on or before day, in FIFO order.
func (m ManufacturingOrders) Due(day int) []domain.ManufacturingOrder {
	var due []domain.ManufacturingOrder
	for _, mo := range m.Pending() {
		if mo.CreatedDay <= day {
			due = append(due, mo)
		}
	}
	return due
}

// TryStart attempts to start order id. An order that is not yet due, lacks
// materials or capacity, or whose output would overflow finished stock stays
// pending and is reported through the outcome, not an error.
func (m ManufacturingOrders) TryStart(id int) (StartOutcome, error) {
	mo, err := m.pendingOrder(id)
	if err != nil {
		return StartOutcome{}, err
	}
	if mo.CreatedDay > m.state.CurrentDay {
		return StartOutcome{Order: mo, Reason: BlockedNotDue}, nil
	}
	required, ok := m.catalog.Requirements(mo.ProductID, mo.Quantity)
	if !ok || m.ledger.Check(required) != nil {
		return StartOutcome{Order: mo, Reason: BlockedMaterials}, nil
	}
	if !m.capacity.Fits(mo.Quantity) {
		return StartOutcome{Order: mo, Reason: BlockedCapacity}, nil
	}
	if !m.ledger.CanCredit(mo.ProductID, mo.Quantity) {
		return StartOutcome{Order: mo, Reason: BlockedStock}, nil
	}
	done, err := m.produce(mo, required)
	if err != nil {
		return StartOutcome{}, err
	}
	return StartOutcome{Order: done, Started: true, Consumed: required}, nil
}

// ForceStart starts order id outside the daily scan and reports why it cannot.
func (m ManufacturingOrders) ForceStart(id int) (domain.ManufacturingOrder, error) {
	mo, err := m.pendingOrder(id)
	if err != nil {
		return domain.ManufacturingOrder{}, err
	}
	if mo.CreatedDay > m.state.CurrentDay {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "created_at",
			"order %d is due on day %d, today is day %d", mo.ID, mo.CreatedDay, m.state.CurrentDay)
	}
	required, ok := m.catalog.Requirements(mo.ProductID, mo.Quantity)
	if !ok {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "quantity", "bill of materials for %d units overflows", mo.Quantity)
	}
	if err := m.ledger.Check(required); err != nil {
		return domain.ManufacturingOrder{}, err
	}
	if !m.capacity.Fits(mo.Quantity) {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityCapacity, "consumed_today",
			"order %d needs %d units, %d remaining today", mo.ID, mo.Quantity, m.state.Capacity.Remaining())
	}
	if !m.ledger.CanCredit(mo.ProductID, mo.Quantity) {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityInventoryItem, "qty",
			"order %d output of %d units overflows stock of product %d", mo.ID, mo.Quantity, mo.ProductID)
	}
	return m.produce(mo, required)
}

// produce consumes materials and capacity, then walks the order through
// in_progress to completed within the same tick.
func (m ManufacturingOrders) produce(mo domain.ManufacturingOrder, required map[int]int) (domain.ManufacturingOrder, error) {
	if err := m.ledger.DebitAll(required); err != nil {
		return domain.ManufacturingOrder{}, err
	}
	if err := m.capacity.Consume(mo.Quantity); err != nil {
		return domain.ManufacturingOrder{}, err
	}
	if _, err := m.Transition(mo.ID, domain.ManufacturingInProgress); err != nil {
		return domain.ManufacturingOrder{}, err
	}
	done, err := m.Transition(mo.ID, domain.ManufacturingCompleted)
	if err != nil {
		return domain.ManufacturingOrder{}, err
	}
	if _, err := m.ledger.Credit(done.ProductID, done.Quantity); err != nil {
		return domain.ManufacturingOrder{}, err
	}
	return done, nil
}

// Transition moves order id one step along pending -> in_progress -> completed.
func (m ManufacturingOrders) Transition(id int, to domain.ManufacturingOrderStatus) (domain.ManufacturingOrder, error) {
	mo, ok := m.state.ManufacturingOrders[id]
	if !ok {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "id", "unknown order %d", id)
	}
	if !mo.Status.CanTransition(to) {
		return domain.ManufacturingOrder{}, domain.InvalidStateTransitionError{
			Entity: domain.EntityManufacturingOrder,
			ID:     id,
			From:   string(mo.Status),
			To:     string(to),
		}
	}
	mo.Status = to
	m.state.ManufacturingOrders[id] = mo
	return mo, nil
}

func (m ManufacturingOrders) pendingOrder(id int) (domain.ManufacturingOrder, error) {
	mo, ok := m.state.ManufacturingOrders[id]
	if !ok {
		return domain.ManufacturingOrder{}, domain.Validationf(domain.EntityManufacturingOrder, "id", "unknown order %d", id)
	}
	if mo.Status != domain.ManufacturingPending {
		return domain.ManufacturingOrder{}, domain.InvalidStateTransitionError{
			Entity: domain.EntityManufacturingOrder,
			ID:     id,
			From:   string(mo.Status),
			To:     string(domain.ManufacturingInProgress),
		}
	}
	return mo, nil
}
