package core

import (
	"context"
	"plantsim/pkg/domain"
	"time"
)

const (
	opCreateProduct            = "create_product"
	opCreateSupplier           = "create_supplier"
	opCreateBOMEntry           = "create_bom_entry"
	opCreditInventory          = "credit_inventory"
	opConfigureCapacity        = "configure_capacity"
	opCreatePurchaseOrder      = "create_purchase_order"
	opCreateManufacturingOrder = "create_manufacturing_order"
	opStartManufacturingOrder  = "start_manufacturing_order"
	opAdvanceDay               = "advance_day"
	opImportState              = "import_state"
	opRestoreSnapshot          = "restore_snapshot"
	opSeed                     = "seed"

	opPurchaseSuggestions     = "purchase_suggestions"
	opState                   = "state"
	opListProducts            = "list_products"
	opListInventory           = "list_inventory"
	opListSuppliers           = "list_suppliers"
	opListBOM                 = "list_bom"
	opListPurchaseOrders      = "list_purchase_orders"
	opListManufacturingOrders = "list_manufacturing_orders"
	opExportState             = "export_state"
	opArchiveSnapshot         = "archive_snapshot"
)

type operationMetadata struct {
	entity domain.EntityType
	action domain.Action
}

var auditedOperations = map[string]operationMetadata{
	opCreateProduct:            {domain.EntityProduct, domain.ActionCreate},
	opCreateSupplier:           {domain.EntitySupplier, domain.ActionCreate},
	opCreateBOMEntry:           {domain.EntityBOMEntry, domain.ActionCreate},
	opCreditInventory:          {domain.EntityInventoryItem, domain.ActionUpdate},
	opConfigureCapacity:        {domain.EntityCapacity, domain.ActionUpdate},
	opCreatePurchaseOrder:      {domain.EntityPurchaseOrder, domain.ActionCreate},
	opCreateManufacturingOrder: {domain.EntityManufacturingOrder, domain.ActionCreate},
	opStartManufacturingOrder:  {domain.EntityManufacturingOrder, domain.ActionUpdate},
	opAdvanceDay:               {domain.EntitySimulation, domain.ActionUpdate},
	opImportState:              {domain.EntitySimulation, domain.ActionReplace},
	opRestoreSnapshot:          {domain.EntitySimulation, domain.ActionReplace},
	opSeed:                     {domain.EntitySimulation, domain.ActionCreate},
}

// auditRef identifies what an operation touched.
type auditRef struct {
	EntityID int
	Day      int
}

// run executes fn in a store transaction wrapped with tracing, metrics, audit and logging.
func (s *Service) run(ctx context.Context, op string, fn func(Transaction) (auditRef, error)) (Result, error) {
	start := s.opts.clock.Now()
	ctx, span := s.opts.tracer.Start(ctx, op)
	s.opts.logger.Debug("service operation", "operation", op)

	var ref auditRef
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		var err error
		ref, err = fn(tx)
		return err
	})
	duration := s.opts.clock.Now().Sub(start)

	span.End(err)
	s.opts.metrics.Observe(ctx, op, err == nil, duration)
	s.logViolations(op, res)
	if err != nil {
		s.opts.logger.Error("service operation failed", "operation", op, "error", err)
		s.recordAudit(ctx, op, ref, duration, err)
		return res, err
	}
	s.recordAudit(ctx, op, ref, duration, nil)
	return res, nil
}

// view executes fn against a read-only snapshot with tracing and metrics.
func (s *Service) view(ctx context.Context, op string, fn func(TransactionView) error) error {
	start := s.opts.clock.Now()
	ctx, span := s.opts.tracer.Start(ctx, op)
	err := s.store.View(ctx, fn)
	span.End(err)
	s.opts.metrics.Observe(ctx, op, err == nil, s.opts.clock.Now().Sub(start))
	if err != nil {
		s.opts.logger.Error("service query failed", "operation", op, "error", err)
	}
	return err
}

// observe wraps a non-transactional step (encoding, blob I/O) with tracing and metrics.
func (s *Service) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	start := s.opts.clock.Now()
	ctx, span := s.opts.tracer.Start(ctx, op)
	err := fn(ctx)
	span.End(err)
	s.opts.metrics.Observe(ctx, op, err == nil, s.opts.clock.Now().Sub(start))
	if err != nil {
		s.opts.logger.Error("service operation failed", "operation", op, "error", err)
	}
	return err
}

func (s *Service) logViolations(op string, res Result) {
	for _, v := range res.Violations {
		if v.Severity == domain.SeverityBlock {
			continue
		}
		s.opts.logger.Warn("rule violation",
			"operation", op,
			"rule", v.Rule,
			"severity", string(v.Severity),
			"entity", string(v.Entity),
			"entity_id", v.EntityID,
			"message", v.Message,
		)
	}
}

func (s *Service) recordAudit(ctx context.Context, op string, ref auditRef, duration time.Duration, err error) {
	meta, ok := auditedOperations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  ref.EntityID,
		Day:       ref.Day,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.opts.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.opts.audit.Record(ctx, entry)
}
