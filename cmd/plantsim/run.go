package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"plantsim/internal/blob"
	"plantsim/internal/config"
	"plantsim/internal/core"
	"plantsim/internal/simulation"
	"plantsim/pkg/domain"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const latestKey = "latest"

func storageOptions(cfg config.Config) core.StorageOptions {
	return core.StorageOptions{
		Driver:      core.StorageDriver(strings.ToLower(cfg.Storage.Driver)),
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresDSN: cfg.Storage.PostgresDSN,
	}
}

func blobOptions(cfg config.Config) blob.Options {
	return blob.Options{
		Driver: blob.Driver(strings.ToLower(cfg.Blob.Driver)),
		FSRoot: cfg.Blob.FSRoot,
		S3: blob.S3Config{
			Bucket:    cfg.Blob.S3.Bucket,
			Region:    cfg.Blob.S3.Region,
			Endpoint:  cfg.Blob.S3.Endpoint,
			PathStyle: cfg.Blob.S3.PathStyle,
		},
	}
}

func run(ctx context.Context, cfg config.Config, opts options, stdout io.Writer, logger *slog.Logger) error {
	calendar, err := cfg.Simulation.Calendar()
	if err != nil {
		return err
	}
	gen, err := simulation.NewRandomGenerator(cfg.Simulation.Seed, cfg.Simulation.DailyOrderMin, cfg.Simulation.DailyOrderMax, cfg.Simulation.MaxOrderQuantity)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		return err
	}
	if cfg.Metrics.Addr != "" {
		stopMetrics, err := serveMetrics(cfg.Metrics.Addr, reg, logger)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	store, err := core.OpenPersistentStore(storageOptions(cfg), core.NewDefaultRulesEngine())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	svc := core.NewService(store,
		core.WithLogger(logger),
		core.WithAuditRecorder(core.LogAuditRecorder{Logger: logger.With("component", "audit")}),
		core.WithMetricsRecorder(metrics),
		core.WithOrderGenerator(gen),
		core.WithSchedulingPolicy(cfg.Simulation.Policy()),
		core.WithCalendar(calendar),
	)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()

	var archive blob.Store
	if opts.archive || opts.restoreKey != "" {
		if archive, err = blob.Open(ctx, blobOptions(cfg)); err != nil {
			return fmt.Errorf("open blob store: %w", err)
		}
	}

	if err := prepare(ctx, svc, cfg, opts, archive); err != nil {
		return err
	}

	logger.Info("simulation starting",
		"days", cfg.Simulation.Days,
		"seed", cfg.Simulation.Seed,
		"policy", string(cfg.Simulation.Policy()),
		"storage", cfg.Storage.Driver,
	)
	runErr := svc.Run(ctx, cfg.Simulation.Days, nil)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	// Whatever was committed is still exported after an interrupt.
	final := context.WithoutCancel(ctx)
	if err := finish(final, svc, cfg, opts, archive, stdout, logger); err != nil {
		return err
	}
	return runErr
}

// prepare brings the store to its starting state: an imported file, an
// archived snapshot, or the configured plant.
func prepare(ctx context.Context, svc *core.Service, cfg config.Config, opts options, archive blob.Store) error {
	switch {
	case opts.importPath != "":
		data, err := os.ReadFile(opts.importPath)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		_, err = svc.ImportState(ctx, data)
		return err
	case opts.restoreKey != "":
		key := opts.restoreKey
		if key == latestKey {
			key = ""
		}
		_, err := svc.RestoreSnapshot(ctx, archive, key)
		return err
	default:
		_, err := svc.Seed(ctx, cfg)
		return err
	}
}

func finish(ctx context.Context, svc *core.Service, cfg config.Config, opts options, archive blob.Store, stdout io.Writer, logger *slog.Logger) error {
	if opts.exportPath != "" {
		data, err := svc.ExportState(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.exportPath, data, 0o600); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		logger.Info("snapshot exported", "path", opts.exportPath, "size_bytes", len(data))
	}
	if opts.archive {
		if _, err := svc.ArchiveSnapshot(ctx, archive); err != nil {
			return err
		}
		if cfg.Blob.Keep > 0 {
			removed, err := blob.NewSnapshotArchive(archive).Prune(ctx, cfg.Blob.Keep)
			if err != nil {
				return err
			}
			if removed > 0 {
				logger.Info("snapshots pruned", "removed", removed, "keep", cfg.Blob.Keep)
			}
		}
	}

	day, date, err := svc.CurrentDay(ctx)
	if err != nil {
		return err
	}
	suggestions, err := svc.PurchaseSuggestions(ctx)
	if err != nil {
		return err
	}
	products, err := svc.Products(ctx)
	if err != nil {
		return err
	}
	return writeSuggestions(stdout, day, date, products, suggestions)
}

func writeSuggestions(w io.Writer, day int, date string, products []domain.Product, suggestions []domain.Suggestion) error {
	names := make(map[int]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	if _, err := fmt.Fprintf(w, "Purchase suggestions for day %d (%s)\n", day, date); err != nil {
		return err
	}
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(w, "none")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tQTY\tSUPPLIER\tUNIT COST\tLEAD TIME\tEST. COST")
	for _, s := range suggestions {
		supplier := "-"
		if s.HasSupplier() {
			supplier = fmt.Sprintf("%d", s.SupplierID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%d\t%s\n",
			s.ProductID, names[s.ProductID], s.Quantity, supplier,
			s.UnitCost.StringFixed(2), s.LeadTime, s.EstimatedCost().StringFixed(2))
	}
	return tw.Flush()
}

// serveMetrics exposes reg on addr until the returned stop function runs.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", ln.Addr().String())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
