package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"plantsim/internal/blob/core"
	"testing"
)

func TestStoreMissingKeys(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found from head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found from get, got %v", err)
	}
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected delete false, got %v %v", ok, err)
	}
}

func TestStoreCreateOnlyAndIsolation(t *testing.T) {
	store := New()
	ctx := context.Background()
	meta := map[string]string{"day": "3"}
	info, err := store.Put(ctx, "snapshots/a.json", bytes.NewReader([]byte(`{"x":1}`)), core.PutOptions{ContentType: "application/json", Metadata: meta})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 7 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	meta["day"] = "9"
	if _, err := store.Put(ctx, "snapshots/a.json", bytes.NewReader([]byte("other")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected exists error, got %v", err)
	}
	got, rc, err := store.Get(ctx, "snapshots/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != `{"x":1}` || got.Metadata["day"] != "3" {
		t.Fatalf("unexpected object %s %+v", body, got)
	}
	got.Metadata["day"] = "7"
	head, _ := store.Head(ctx, "snapshots/a.json")
	if head.Metadata["day"] != "3" {
		t.Fatalf("metadata aliased: %+v", head.Metadata)
	}
}

func TestStoreListPrefix(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, k := range []string{"snapshots/b", "snapshots/a", "other/c"} {
		if _, err := store.Put(ctx, k, bytes.NewReader(nil), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	list, err := store.List(ctx, "snapshots/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "snapshots/a" || list[1].Key != "snapshots/b" {
		t.Fatalf("unexpected list %+v", list)
	}
	all, _ := store.List(ctx, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(all))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStorePutErrors(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
	if _, err := store.Put(context.Background(), " ", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
}
