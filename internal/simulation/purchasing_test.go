package simulation

import (
	"errors"
	"plantsim/pkg/domain"
	"testing"
)

func TestPurchaseOrderCreate(t *testing.T) {
	state := newPlant(t, 10)
	pos := NewPurchaseOrders(state)
	po, err := pos.Create(supSteel, 20, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if po.ID != 1 || po.ProductID != rawSteel || po.EstimatedDeliveryDay != 5 || po.Status != domain.PurchasePending {
		t.Fatalf("unexpected order %+v", po)
	}
	for name, fn := range map[string]func() error{
		"unknown supplier": func() error { _, err := pos.Create(404, 1, 0); return err },
		"zero quantity":    func() error { _, err := pos.Create(supSteel, 0, 0); return err },
		"negative day":     func() error { _, err := pos.Create(supSteel, 1, -1); return err },
	} {
		if err := fn(); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if next, _ := pos.Create(supBolt, 5, 0); next.ID != 2 {
		t.Fatalf("expected sequential id 2, got %d", next.ID)
	}
}

func TestResolveDeliveriesCreditsOnce(t *testing.T) {
	state := newPlant(t, 10)
	pos := NewPurchaseOrders(state)
	po, err := pos.Create(supSteel, 20, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for day := 2; day <= 4; day++ {
		received, err := pos.ResolveDeliveries(day)
		if err != nil || len(received) != 0 {
			t.Fatalf("day %d: unexpected delivery %v %v", day, received, err)
		}
	}
	received, err := pos.ResolveDeliveries(5)
	if err != nil || len(received) != 1 || received[0] != po.ID {
		t.Fatalf("expected delivery on day 5, got %v %v", received, err)
	}
	for day := 5; day <= 8; day++ {
		if again, _ := pos.ResolveDeliveries(day); len(again) != 0 {
			t.Fatalf("order credited twice on day %d", day)
		}
	}
	if state.Inventory[rawSteel].Qty != 20 {
		t.Fatalf("expected 20 units, got %d", state.Inventory[rawSteel].Qty)
	}
}
