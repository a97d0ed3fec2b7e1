package core

import (
	"context"
	"fmt"
	"plantsim/internal/config"
	"plantsim/pkg/domain"
	"strings"
	"sync"
	"testing"
	"time"
)

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus, predicate func(AuditEntry) bool) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			if predicate == nil || predicate(entry) {
				return true
			}
		}
	}
	return false
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op && (record.err == nil) == success {
			return true
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

// captureLogger records "level:message" lines.
type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) add(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%s:%s %v", level, msg, args))
}

func (l *captureLogger) Debug(msg string, args ...any) { l.add("d", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.add("i", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.add("w", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.add("e", msg, args...) }

func (l *captureLogger) contains(prefix string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// testPlant is the default printer plant: product 1 filament (raw), product 2
// printer (finished, 5 filament each), supplier 1 for filament with lead time 3.
func testPlant() config.Config {
	cfg := config.Default()
	cfg.Simulation.InitialInventory = map[int]int{1: 100, 2: 20}
	cfg.Simulation.DailyCapacity = 20
	return cfg
}

func newSeededService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	svc := NewInMemoryService(nil, opts...)
	if _, err := svc.Seed(context.Background(), testPlant()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc
}

func inventoryOf(t *testing.T, svc *Service, productID int) int {
	t.Helper()
	items, err := svc.Inventory(context.Background())
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	for _, item := range items {
		if item.ProductID == productID {
			return item.Qty
		}
	}
	t.Fatalf("no inventory item for product %d", productID)
	return 0
}

func manufacturingOrder(t *testing.T, svc *Service, id int) domain.ManufacturingOrder {
	t.Helper()
	orders, err := svc.ListManufacturingOrders(context.Background(), "")
	if err != nil {
		t.Fatalf("list manufacturing orders: %v", err)
	}
	for _, mo := range orders {
		if mo.ID == id {
			return mo
		}
	}
	t.Fatalf("manufacturing order %d not found", id)
	return domain.ManufacturingOrder{}
}
