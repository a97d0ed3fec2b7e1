package simulation

import "plantsim/pkg/domain"

// PurchaseOrders owns the purchase order lifecycle.
type PurchaseOrders struct {
	state  *domain.SimulationState
	ledger InventoryLedger
}

// NewPurchaseOrders binds the manager to state.
func NewPurchaseOrders(state *domain.SimulationState) PurchaseOrders {
	return PurchaseOrders{state: state, ledger: NewInventoryLedger(state)}
}

// Create issues a pending order with a supplier on issueDay.
func (m PurchaseOrders) Create(supplierID, quantity, issueDay int) (domain.PurchaseOrder, error) {
	supplier, ok := m.state.Suppliers[supplierID]
	if !ok {
		return domain.PurchaseOrder{}, domain.Validationf(domain.EntityPurchaseOrder, "supplier_id", "unknown supplier %d", supplierID)
	}
	if quantity <= 0 {
		return domain.PurchaseOrder{}, domain.Validationf(domain.EntityPurchaseOrder, "quantity", "must be positive, got %d", quantity)
	}
	if issueDay < 0 {
		return domain.PurchaseOrder{}, domain.Validationf(domain.EntityPurchaseOrder, "issue_date", "day %d precedes the simulation start", issueDay)
	}
	if issueDay > domain.MaxDay {
		return domain.PurchaseOrder{}, domain.Validationf(domain.EntityPurchaseOrder, "issue_date", "day %d is after day %d", issueDay, domain.MaxDay)
	}
	po := domain.PurchaseOrder{
		ID:                   m.state.NextPurchaseOrderID(),
		SupplierID:           supplier.ID,
		ProductID:            supplier.ProductID,
		Quantity:             quantity,
		IssueDay:             issueDay,
		EstimatedDeliveryDay: issueDay + supplier.LeadTime,
		Status:               domain.PurchasePending,
	}
	m.state.PurchaseOrders[po.ID] = po
	return po, nil
}

// Open returns pending orders ordered by id.
func (m PurchaseOrders) Open() []domain.PurchaseOrder {
	return domain.FilterPurchaseOrders(m.state.ListPurchaseOrders(), domain.PurchasePending)
}

// ResolveDeliveries receives every pending order due on or before day and
// returns the received ids. Received orders are never credited again. An order
// whose quantity would overflow the stock counter stays pending.
func (m PurchaseOrders) ResolveDeliveries(day int) ([]int, error) {
	var received []int
	for _, po := range m.Open() {
		if po.EstimatedDeliveryDay > day || !m.ledger.CanCredit(po.ProductID, po.Quantity) {
			continue
		}
		if _, err := m.ledger.Credit(po.ProductID, po.Quantity); err != nil {
			return nil, err
		}
		po.Status = domain.PurchaseReceived
		m.state.PurchaseOrders[po.ID] = po
		received = append(received, po.ID)
	}
	return received, nil
}
