package domain

import (
	"maps"
	"slices"
)

// SimulationState is the aggregate snapshot of a plant: every entity plus the day counter.
// Entities reference each other only by id.
type SimulationState struct {
	CurrentDay          int
	Products            map[int]Product
	BOM                 []BOMEntry
	Inventory           map[int]InventoryItem
	Suppliers           map[int]Supplier
	PurchaseOrders      map[int]PurchaseOrder
	ManufacturingOrders map[int]ManufacturingOrder
	Capacity            ProductionCapacity
}

// NewSimulationState returns an empty state at day 0.
func NewSimulationState() SimulationState {
	return SimulationState{
		Products:            map[int]Product{},
		Inventory:           map[int]InventoryItem{},
		Suppliers:           map[int]Supplier{},
		PurchaseOrders:      map[int]PurchaseOrder{},
		ManufacturingOrders: map[int]ManufacturingOrder{},
	}
}

// Clone returns a deep copy that shares no mutable collections with s.
func (s SimulationState) Clone() SimulationState {
	out := SimulationState{
		CurrentDay:          s.CurrentDay,
		Products:            cloneMap(s.Products),
		BOM:                 slices.Clone(s.BOM),
		Inventory:           cloneMap(s.Inventory),
		Suppliers:           cloneMap(s.Suppliers),
		PurchaseOrders:      cloneMap(s.PurchaseOrders),
		ManufacturingOrders: cloneMap(s.ManufacturingOrders),
		Capacity:            s.Capacity,
	}
	return out
}

func cloneMap[V any](in map[int]V) map[int]V {
	if in == nil {
		return map[int]V{}
	}
	return maps.Clone(in)
}

// Normalize allocates nil collections and sorts the BOM.
func (s *SimulationState) Normalize() {
	if s.Products == nil {
		s.Products = map[int]Product{}
	}
	if s.Inventory == nil {
		s.Inventory = map[int]InventoryItem{}
	}
	if s.Suppliers == nil {
		s.Suppliers = map[int]Supplier{}
	}
	if s.PurchaseOrders == nil {
		s.PurchaseOrders = map[int]PurchaseOrder{}
	}
	if s.ManufacturingOrders == nil {
		s.ManufacturingOrders = map[int]ManufacturingOrder{}
	}
	SortBOM(s.BOM)
}

// SortBOM orders entries by (finished_id, raw_id).
func SortBOM(entries []BOMEntry) {
	slices.SortFunc(entries, func(a, b BOMEntry) int {
		if a.FinishedID != b.FinishedID {
			return a.FinishedID - b.FinishedID
		}
		return a.RawID - b.RawID
	})
}

func sortedValues[V any](in map[int]V) []V {
	keys := slices.Sorted(maps.Keys(in))
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, in[k])
	}
	return out
}

// Day returns the current simulation day.
func (s SimulationState) Day() int { return s.CurrentDay }

// ListProducts returns products ordered by id.
func (s SimulationState) ListProducts() []Product { return sortedValues(s.Products) }

// ListInventory returns inventory items ordered by product id.
func (s SimulationState) ListInventory() []InventoryItem { return sortedValues(s.Inventory) }

// ListSuppliers returns suppliers ordered by id.
func (s SimulationState) ListSuppliers() []Supplier { return sortedValues(s.Suppliers) }

// ListPurchaseOrders returns purchase orders ordered by id.
func (s SimulationState) ListPurchaseOrders() []PurchaseOrder { return sortedValues(s.PurchaseOrders) }

// ListManufacturingOrders returns manufacturing orders ordered by id.
func (s SimulationState) ListManufacturingOrders() []ManufacturingOrder {
	return sortedValues(s.ManufacturingOrders)
}

// ListBOM returns a copy of the bill of materials.
func (s SimulationState) ListBOM() []BOMEntry { return slices.Clone(s.BOM) }

// CurrentCapacity returns the capacity record.
func (s SimulationState) CurrentCapacity() ProductionCapacity { return s.Capacity }

// FindProduct looks up a product.
func (s SimulationState) FindProduct(id int) (Product, bool) {
	p, ok := s.Products[id]
	return p, ok
}

// FindInventoryItem looks up the inventory item of a product.
func (s SimulationState) FindInventoryItem(productID int) (InventoryItem, bool) {
	item, ok := s.Inventory[productID]
	return item, ok
}

// FindSupplier looks up a supplier.
func (s SimulationState) FindSupplier(id int) (Supplier, bool) {
	sup, ok := s.Suppliers[id]
	return sup, ok
}

// FindPurchaseOrder looks up a purchase order.
func (s SimulationState) FindPurchaseOrder(id int) (PurchaseOrder, bool) {
	po, ok := s.PurchaseOrders[id]
	return po, ok
}

// FindManufacturingOrder looks up a manufacturing order.
func (s SimulationState) FindManufacturingOrder(id int) (ManufacturingOrder, bool) {
	mo, ok := s.ManufacturingOrders[id]
	return mo, ok
}

// BOMFor returns the entries of a finished product ordered by raw id.
func (s SimulationState) BOMFor(finishedID int) []BOMEntry {
	var out []BOMEntry
	for _, e := range s.BOM {
		if e.FinishedID == finishedID {
			out = append(out, e)
		}
	}
	return out
}

// NextPurchaseOrderID returns max(existing)+1.
func (s SimulationState) NextPurchaseOrderID() int { return nextID(s.PurchaseOrders) }

// NextManufacturingOrderID returns max(existing)+1.
func (s SimulationState) NextManufacturingOrderID() int { return nextID(s.ManufacturingOrders) }

func nextID[V any](in map[int]V) int {
	maxID := 0
	for id := range in {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// FilterPurchaseOrders returns orders with the given status, or all when status is empty.
func FilterPurchaseOrders(orders []PurchaseOrder, status PurchaseOrderStatus) []PurchaseOrder {
	if status == "" {
		return orders
	}
	out := make([]PurchaseOrder, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// FilterManufacturingOrders returns orders with the given status, or all when status is empty.
func FilterManufacturingOrders(orders []ManufacturingOrder, status ManufacturingOrderStatus) []ManufacturingOrder {
	if status == "" {
		return orders
	}
	out := make([]ManufacturingOrder, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}
