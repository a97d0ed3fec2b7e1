package core

import (
	"context"
	"errors"
	"plantsim/internal/blob"
	"plantsim/internal/simulation"
	"plantsim/pkg/domain"
	"testing"
)

func advanceWithOrders(t *testing.T, svc *Service, days int) {
	t.Helper()
	if err := svc.Run(context.Background(), days, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	schedule := simulation.Schedule{1: {{ProductID: 2, Quantity: 3}, {ProductID: 2, Quantity: 40}}}
	src := newSeededService(t, WithOrderGenerator(schedule))
	if _, _, err := src.CreatePurchaseOrder(ctx, 1, 25, 0); err != nil {
		t.Fatalf("create purchase order: %v", err)
	}
	advanceWithOrders(t, src, 2)

	data, err := src.ExportState(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	dst := NewInMemoryService(nil)
	imported, err := dst.ImportState(ctx, data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want, _ := src.State(ctx)
	if imported.CurrentDay != want.CurrentDay || len(imported.ManufacturingOrders) != len(want.ManufacturingOrders) {
		t.Fatalf("imported state differs: %+v vs %+v", imported, want)
	}
	for id, item := range want.Inventory {
		if imported.Inventory[id] != item {
			t.Fatalf("inventory %d differs: %+v vs %+v", id, imported.Inventory[id], item)
		}
	}

	again, err := dst.ExportState(ctx)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if string(again) != string(data) {
		t.Fatalf("export of imported state must be identical")
	}
}

func TestImportRejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	audit := &captureAuditRecorder{}
	svc := newSeededService(t, WithAuditRecorder(audit))
	before, _ := svc.ExportState(ctx)

	for name, doc := range map[string]string{
		"malformed":       `{"products":`,
		"missing section": `{"products": []}`,
	} {
		if _, err := svc.ImportState(ctx, []byte(doc)); !errors.Is(err, domain.ErrImportSchema) {
			t.Fatalf("%s: expected schema error, got %v", name, err)
		}
	}
	after, _ := svc.ExportState(ctx)
	if string(before) != string(after) {
		t.Fatalf("failed import must leave state unchanged")
	}
	if !audit.has(opImportState, AuditStatusError, nil) {
		t.Fatalf("expected failed import audit entry")
	}
}

func TestImportOlderSnapshotIsAllowed(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t, WithOrderGenerator(simulation.Schedule{1: {{ProductID: 2, Quantity: 1}}}))
	early, err := svc.ExportState(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	advanceWithOrders(t, svc, 1)
	if mo := manufacturingOrder(t, svc, 1); mo.Status != domain.ManufacturingCompleted {
		t.Fatalf("expected order completed, got %s", mo.Status)
	}
	state, err := svc.ImportState(ctx, early)
	if err != nil {
		t.Fatalf("rewinding to an earlier snapshot: %v", err)
	}
	if state.CurrentDay != 0 || len(state.ManufacturingOrders) != 0 {
		t.Fatalf("expected day 0 with no orders, got %+v", state)
	}
}

func TestArchiveAndRestoreSnapshot(t *testing.T) {
	ctx := context.Background()
	stores := map[string]blob.Store{
		"memory": blob.NewMemory(),
		"s3":     blob.NewMockS3ForTests(),
	}
	fsStore, err := blob.NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("filesystem store: %v", err)
	}
	stores["fs"] = fsStore

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			logger := &captureLogger{}
			svc := newSeededService(t, WithLogger(logger))
			day0, err := svc.ArchiveSnapshot(ctx, store)
			if err != nil {
				t.Fatalf("archive day 0: %v", err)
			}
			if d, ok := blob.ParseSnapshotDay(day0.Key); !ok || d != 0 {
				t.Fatalf("unexpected key %s", day0.Key)
			}
			if _, _, err := svc.CreditInventory(ctx, 1, 7); err != nil {
				t.Fatalf("credit: %v", err)
			}
			advanceWithOrders(t, svc, 2)
			day2, err := svc.ArchiveSnapshot(ctx, store)
			if err != nil {
				t.Fatalf("archive day 2: %v", err)
			}
			if day2.Key == day0.Key {
				t.Fatalf("distinct states must get distinct keys")
			}
			if !logger.contains("i:snapshot archived") {
				t.Fatalf("expected archive log")
			}

			restored := NewInMemoryService(nil)
			state, err := restored.RestoreSnapshot(ctx, store, "")
			if err != nil {
				t.Fatalf("restore latest: %v", err)
			}
			if state.CurrentDay != 2 || state.Inventory[1].Qty != 107 {
				t.Fatalf("expected latest snapshot, got day %d filament %d", state.CurrentDay, state.Inventory[1].Qty)
			}
			state, err = restored.RestoreSnapshot(ctx, store, day0.Key)
			if err != nil {
				t.Fatalf("restore day 0: %v", err)
			}
			if state.CurrentDay != 0 || state.Inventory[1].Qty != 100 {
				t.Fatalf("expected day 0 snapshot, got %+v", state)
			}
			if _, err := restored.RestoreSnapshot(ctx, store, "snapshots/day-00009-missing.json"); !errors.Is(err, blob.ErrNotFound) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}
}

func TestRestoreFromEmptyArchive(t *testing.T) {
	svc := NewInMemoryService(nil)
	if _, err := svc.RestoreSnapshot(context.Background(), blob.NewMemory(), ""); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected not found for empty archive, got %v", err)
	}
}
