package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Snapshot section keys. Every key is required on import.
const (
	SectionCurrentDay          = "current_day"
	SectionProducts            = "products"
	SectionInventory           = "inventory"
	SectionSuppliers           = "suppliers"
	SectionPurchaseOrders      = "purchase_orders"
	SectionManufacturingOrders = "manufacturing_orders"
	SectionBOM                 = "bom"
	SectionCapacity            = "capacity"
)

// SnapshotSections lists the snapshot keys in canonical order.
var SnapshotSections = []string{
	SectionCurrentDay,
	SectionProducts,
	SectionInventory,
	SectionSuppliers,
	SectionPurchaseOrders,
	SectionManufacturingOrders,
	SectionBOM,
	SectionCapacity,
}

type snapshotDoc struct {
	CurrentDay          int                     `json:"current_day"`
	Products            []productDoc            `json:"products"`
	Inventory           []InventoryItem         `json:"inventory"`
	Suppliers           []supplierDoc           `json:"suppliers"`
	PurchaseOrders      []purchaseOrderDoc      `json:"purchase_orders"`
	ManufacturingOrders []manufacturingOrderDoc `json:"manufacturing_orders"`
	BOM                 []BOMEntry              `json:"bom"`
	Capacity            ProductionCapacity      `json:"capacity"`
}

type productDoc struct {
	ID   int         `json:"id"`
	Name string      `json:"name"`
	Type ProductKind `json:"type"`
}

type supplierDoc struct {
	ID        int         `json:"id"`
	ProductID int         `json:"product_id"`
	UnitCost  json.Number `json:"unit_cost"`
	LeadTime  int         `json:"lead_time"`
}

type purchaseOrderDoc struct {
	ID                int                 `json:"id"`
	SupplierID        int                 `json:"supplier_id"`
	ProductID         int                 `json:"product_id"`
	Quantity          int                 `json:"quantity"`
	IssueDate         string              `json:"issue_date"`
	EstimatedDelivery string              `json:"estimated_delivery"`
	Status            PurchaseOrderStatus `json:"status"`
}

type manufacturingOrderDoc struct {
	ID        int                      `json:"id"`
	CreatedAt string                   `json:"created_at"`
	ProductID int                      `json:"product_id"`
	Quantity  int                      `json:"quantity"`
	Status    ManufacturingOrderStatus `json:"status"`
}

// EncodeSnapshot serialises state into the field-exact snapshot document.
func EncodeSnapshot(state SimulationState, cal Calendar) ([]byte, error) {
	doc := toDoc(state, cal)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// EncodeSnapshotSections serialises state into one JSON payload per top-level key.
func EncodeSnapshotSections(state SimulationState, cal Calendar) (map[string][]byte, error) {
	data, err := EncodeSnapshot(state, cal)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("split snapshot: %w", err)
	}
	out := make(map[string][]byte, len(raw))
	for k, v := range raw {
		out[k] = []byte(v)
	}
	return out, nil
}

// DecodeSnapshotSections reassembles section payloads and decodes them.
func DecodeSnapshotSections(sections map[string][]byte, cal Calendar) (SimulationState, error) {
	raw := make(map[string]json.RawMessage, len(sections))
	for k, v := range sections {
		raw[k] = json.RawMessage(v)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return SimulationState{}, fmt.Errorf("join snapshot: %w", err)
	}
	return DecodeSnapshot(data, cal)
}

// DecodeSnapshot parses and validates a snapshot document. Any structural or
// referential problem yields an ImportSchemaError and no state.
func DecodeSnapshot(data []byte, cal Calendar) (SimulationState, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return SimulationState{}, ImportSchemaError{Message: "malformed json: " + err.Error()}
	}
	for _, k := range SnapshotSections {
		v, ok := keys[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return SimulationState{}, ImportSchemaError{Path: k, Message: "missing"}
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc snapshotDoc
	if err := dec.Decode(&doc); err != nil {
		return SimulationState{}, ImportSchemaError{Message: err.Error()}
	}
	state, err := fromDoc(doc, cal)
	if err != nil {
		return SimulationState{}, err
	}
	if err := ValidateState(state); err != nil {
		return SimulationState{}, err
	}
	return state, nil
}

func toDoc(state SimulationState, cal Calendar) snapshotDoc {
	doc := snapshotDoc{
		CurrentDay:          state.CurrentDay,
		Products:            []productDoc{},
		Inventory:           state.ListInventory(),
		Suppliers:           []supplierDoc{},
		PurchaseOrders:      []purchaseOrderDoc{},
		ManufacturingOrders: []manufacturingOrderDoc{},
		BOM:                 state.ListBOM(),
		Capacity:            state.Capacity,
	}
	if doc.BOM == nil {
		doc.BOM = []BOMEntry{}
	}
	SortBOM(doc.BOM)
	for _, p := range state.ListProducts() {
		doc.Products = append(doc.Products, productDoc{ID: p.ID, Name: p.Name, Type: p.Kind})
	}
	for _, s := range state.ListSuppliers() {
		doc.Suppliers = append(doc.Suppliers, supplierDoc{
			ID:        s.ID,
			ProductID: s.ProductID,
			UnitCost:  json.Number(s.UnitCost.String()),
			LeadTime:  s.LeadTime,
		})
	}
	for _, po := range state.ListPurchaseOrders() {
		doc.PurchaseOrders = append(doc.PurchaseOrders, purchaseOrderDoc{
			ID:                po.ID,
			SupplierID:        po.SupplierID,
			ProductID:         po.ProductID,
			Quantity:          po.Quantity,
			IssueDate:         cal.Format(po.IssueDay),
			EstimatedDelivery: cal.Format(po.EstimatedDeliveryDay),
			Status:            po.Status,
		})
	}
	for _, mo := range state.ListManufacturingOrders() {
		doc.ManufacturingOrders = append(doc.ManufacturingOrders, manufacturingOrderDoc{
			ID:        mo.ID,
			CreatedAt: cal.Format(mo.CreatedDay),
			ProductID: mo.ProductID,
			Quantity:  mo.Quantity,
			Status:    mo.Status,
		})
	}
	return doc
}

func fromDoc(doc snapshotDoc, cal Calendar) (SimulationState, error) {
	state := NewSimulationState()
	state.CurrentDay = doc.CurrentDay
	state.Capacity = doc.Capacity
	for i, p := range doc.Products {
		if _, dup := state.Products[p.ID]; dup {
			return SimulationState{}, schemaErr("products", i, "id", "duplicate id %d", p.ID)
		}
		state.Products[p.ID] = Product{ID: p.ID, Name: p.Name, Kind: p.Type}
	}
	for i, item := range doc.Inventory {
		if _, dup := state.Inventory[item.ProductID]; dup {
			return SimulationState{}, schemaErr("inventory", i, "product_id", "duplicate inventory item for product %d", item.ProductID)
		}
		state.Inventory[item.ProductID] = item
	}
	for i, s := range doc.Suppliers {
		if _, dup := state.Suppliers[s.ID]; dup {
			return SimulationState{}, schemaErr("suppliers", i, "id", "duplicate id %d", s.ID)
		}
		cost, err := decimal.NewFromString(s.UnitCost.String())
		if err != nil {
			return SimulationState{}, schemaErr("suppliers", i, "unit_cost", "invalid decimal %q", s.UnitCost)
		}
		state.Suppliers[s.ID] = Supplier{ID: s.ID, ProductID: s.ProductID, UnitCost: cost, LeadTime: s.LeadTime}
	}
	for i, po := range doc.PurchaseOrders {
		if _, dup := state.PurchaseOrders[po.ID]; dup {
			return SimulationState{}, schemaErr("purchase_orders", i, "id", "duplicate id %d", po.ID)
		}
		issue, err := cal.Day(po.IssueDate)
		if err != nil {
			return SimulationState{}, schemaErr("purchase_orders", i, "issue_date", "%v", err)
		}
		delivery, err := cal.Day(po.EstimatedDelivery)
		if err != nil {
			return SimulationState{}, schemaErr("purchase_orders", i, "estimated_delivery", "%v", err)
		}
		state.PurchaseOrders[po.ID] = PurchaseOrder{
			ID:                   po.ID,
			SupplierID:           po.SupplierID,
			ProductID:            po.ProductID,
			Quantity:             po.Quantity,
			IssueDay:             issue,
			EstimatedDeliveryDay: delivery,
			Status:               po.Status,
		}
	}
	for i, mo := range doc.ManufacturingOrders {
		if _, dup := state.ManufacturingOrders[mo.ID]; dup {
			return SimulationState{}, schemaErr("manufacturing_orders", i, "id", "duplicate id %d", mo.ID)
		}
		created, err := cal.Day(mo.CreatedAt)
		if err != nil {
			return SimulationState{}, schemaErr("manufacturing_orders", i, "created_at", "%v", err)
		}
		state.ManufacturingOrders[mo.ID] = ManufacturingOrder{
			ID:         mo.ID,
			CreatedDay: created,
			ProductID:  mo.ProductID,
			Quantity:   mo.Quantity,
			Status:     mo.Status,
		}
	}
	state.BOM = slices.Clone(doc.BOM)
	SortBOM(state.BOM)
	return state, nil
}

func schemaErr(section string, index int, field, format string, args ...any) ImportSchemaError {
	return ImportSchemaError{
		Path:    fmt.Sprintf("%s[%d].%s", section, index, field),
		Message: fmt.Sprintf(format, args...),
	}
}

func stateErr(section string, id int, field, format string, args ...any) ImportSchemaError {
	return ImportSchemaError{
		Path:    fmt.Sprintf("%s[id=%d].%s", section, id, field),
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidateState checks a whole state for internal consistency: every reference
// resolves, quantities are in range, and each product owns exactly one inventory item.
func ValidateState(state SimulationState) error {
	if state.CurrentDay < 0 || state.CurrentDay > MaxDay {
		return ImportSchemaError{Path: SectionCurrentDay, Message: fmt.Sprintf("must be within [0, %d]", MaxDay)}
	}
	for _, p := range state.ListProducts() {
		if p.ID <= 0 {
			return stateErr(SectionProducts, p.ID, "id", "must be positive")
		}
		if !p.Kind.Valid() {
			return stateErr(SectionProducts, p.ID, "type", "unknown product type %q", p.Kind)
		}
		if _, ok := state.Inventory[p.ID]; !ok {
			return stateErr(SectionProducts, p.ID, "id", "no inventory item")
		}
	}
	for _, item := range state.ListInventory() {
		if _, ok := state.Products[item.ProductID]; !ok {
			return stateErr(SectionInventory, item.ProductID, "product_id", "unknown product")
		}
		if item.Qty < 0 {
			return stateErr(SectionInventory, item.ProductID, "qty", "negative quantity %d", item.Qty)
		}
	}
	for _, s := range state.ListSuppliers() {
		if s.ID <= 0 {
			return stateErr(SectionSuppliers, s.ID, "id", "must be positive")
		}
		p, ok := state.Products[s.ProductID]
		if !ok {
			return stateErr(SectionSuppliers, s.ID, "product_id", "unknown product %d", s.ProductID)
		}
		if p.Kind != ProductRaw {
			return stateErr(SectionSuppliers, s.ID, "product_id", "product %d is not raw", s.ProductID)
		}
		if s.UnitCost.IsNegative() {
			return stateErr(SectionSuppliers, s.ID, "unit_cost", "negative cost")
		}
		if s.LeadTime < 0 || s.LeadTime > MaxDay {
			return stateErr(SectionSuppliers, s.ID, "lead_time", "must be within [0, %d]", MaxDay)
		}
	}
	seen := make(map[[2]int]struct{}, len(state.BOM))
	for i, e := range state.BOM {
		if err := checkBOMEntry(state, e); err != nil {
			return schemaErr(SectionBOM, i, err.Field, "%s", err.Message)
		}
		key := [2]int{e.FinishedID, e.RawID}
		if _, dup := seen[key]; dup {
			return schemaErr(SectionBOM, i, "raw_id", "duplicate entry %d->%d", e.FinishedID, e.RawID)
		}
		seen[key] = struct{}{}
	}
	for _, po := range state.ListPurchaseOrders() {
		if po.ID <= 0 {
			return stateErr(SectionPurchaseOrders, po.ID, "id", "must be positive")
		}
		s, ok := state.Suppliers[po.SupplierID]
		if !ok {
			return stateErr(SectionPurchaseOrders, po.ID, "supplier_id", "unknown supplier %d", po.SupplierID)
		}
		if po.ProductID != s.ProductID {
			return stateErr(SectionPurchaseOrders, po.ID, "product_id", "supplier %d supplies product %d", s.ID, s.ProductID)
		}
		if po.Quantity <= 0 {
			return stateErr(SectionPurchaseOrders, po.ID, "quantity", "must be positive")
		}
		if po.IssueDay < 0 || po.IssueDay > MaxDay {
			return stateErr(SectionPurchaseOrders, po.ID, "issue_date", "must be within [0, %d]", MaxDay)
		}
		if po.EstimatedDeliveryDay < po.IssueDay {
			return stateErr(SectionPurchaseOrders, po.ID, "estimated_delivery", "before issue date")
		}
		if po.EstimatedDeliveryDay > 2*MaxDay {
			return stateErr(SectionPurchaseOrders, po.ID, "estimated_delivery", "after day %d", 2*MaxDay)
		}
		if !po.Status.Valid() {
			return stateErr(SectionPurchaseOrders, po.ID, "status", "unknown status %q", po.Status)
		}
	}
	for _, mo := range state.ListManufacturingOrders() {
		if mo.ID <= 0 {
			return stateErr(SectionManufacturingOrders, mo.ID, "id", "must be positive")
		}
		p, ok := state.Products[mo.ProductID]
		if !ok {
			return stateErr(SectionManufacturingOrders, mo.ID, "product_id", "unknown product %d", mo.ProductID)
		}
		if p.Kind != ProductFinished {
			return stateErr(SectionManufacturingOrders, mo.ID, "product_id", "product %d is not finished", mo.ProductID)
		}
		if mo.Quantity <= 0 {
			return stateErr(SectionManufacturingOrders, mo.ID, "quantity", "must be positive")
		}
		if mo.CreatedDay < 0 || mo.CreatedDay > MaxDay {
			return stateErr(SectionManufacturingOrders, mo.ID, "created_at", "must be within [0, %d]", MaxDay)
		}
		if _, ok := RequirementsFor(state.BOM, mo.ProductID, mo.Quantity); !ok {
			return stateErr(SectionManufacturingOrders, mo.ID, "quantity", "bill of materials for %d units overflows", mo.Quantity)
		}
		if !mo.Status.Valid() {
			return stateErr(SectionManufacturingOrders, mo.ID, "status", "unknown status %q", mo.Status)
		}
	}
	c := state.Capacity
	if c.DailyCapacity < 0 {
		return ImportSchemaError{Path: "capacity.daily_capacity", Message: "must be >= 0"}
	}
	if c.ConsumedToday < 0 || c.ConsumedToday > c.DailyCapacity {
		return ImportSchemaError{Path: "capacity.consumed_today", Message: fmt.Sprintf("must be within [0, %d]", c.DailyCapacity)}
	}
	return nil
}

// CheckBOMEntry validates a BOM entry against the products of state.
// Open orders for the finished product must still expand without overflow.
func CheckBOMEntry(state SimulationState, e BOMEntry) error {
	if err := checkBOMEntry(state, e); err != nil {
		return *err
	}
	for _, mo := range state.ManufacturingOrders {
		if mo.ProductID != e.FinishedID || mo.Status == ManufacturingCompleted {
			continue
		}
		if _, ok := MulQty(e.QtyPerUnit, mo.Quantity); !ok {
			return Validationf(EntityBOMEntry, "qty_per_unit", "%d per unit overflows open order %d of %d units", e.QtyPerUnit, mo.ID, mo.Quantity)
		}
	}
	return nil
}

// RequirementsFor expands qty units of productID into raw product id -> quantity.
// It reports false when any quantity does not fit in an int.
func RequirementsFor(bom []BOMEntry, productID, qty int) (map[int]int, bool) {
	out := map[int]int{}
	for _, e := range bom {
		if e.FinishedID != productID {
			continue
		}
		need, ok := MulQty(e.QtyPerUnit, qty)
		if !ok {
			return nil, false
		}
		sum, ok := AddQty(out[e.RawID], need)
		if !ok {
			return nil, false
		}
		out[e.RawID] = sum
	}
	return out, true
}

func checkBOMEntry(state SimulationState, e BOMEntry) *ValidationError {
	fail := func(field, format string, args ...any) *ValidationError {
		v := Validationf(EntityBOMEntry, field, format, args...)
		return &v
	}
	if e.FinishedID == e.RawID {
		return fail("raw_id", "product %d cannot consume itself", e.RawID)
	}
	if e.QtyPerUnit <= 0 {
		return fail("qty_per_unit", "must be positive")
	}
	finished, ok := state.Products[e.FinishedID]
	if !ok {
		return fail("finished_id", "unknown product %d", e.FinishedID)
	}
	if finished.Kind != ProductFinished {
		return fail("finished_id", "product %d is not finished", e.FinishedID)
	}
	raw, ok := state.Products[e.RawID]
	if !ok {
		return fail("raw_id", "unknown product %d", e.RawID)
	}
	if raw.Kind != ProductRaw {
		return fail("raw_id", "product %d is not raw", e.RawID)
	}
	return nil
}
