// cmd/reconcile/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/adapters/output"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/adapters/store"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/ports"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/usecases"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/cache"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/config"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/registry"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/resilience"

	// Import sources for auto-registration via init()
	_ "github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/sources/fandom"
	_ "github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/sources/game8"
	_ "github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/sources/gamepress"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// 1. Configuración centralizada
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	if cfg.PrintVersion {
		fmt.Printf("reconcile %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	// 2. Logger compartido
	logger := logx.New()

	logger.Info("reconcile starting",
		"version", version,
		"snapshot_dir", cfg.SnapshotDir,
		"sources", cfg.EnabledSources(),
		"workers", cfg.Workers,
		"refresh", cfg.Refresh,
	)

	// 3. Contexto raíz con señales para shutdown limpio
	ctx, cancel := rootContextWithSignals(cfg.TimeoutS, logger)
	defer cancel()

	// 4. Construir fuentes desde el registry, con resilience
	sources, err := buildSourcesWithResilience(logger, cfg)
	if err != nil {
		logger.Err(err, "phase", "source-build")
		os.Exit(2)
	}

	defer func() {
		for _, src := range sources {
			if err := src.Close(); err != nil {
				logger.Warn("failed to close source",
					"source", src.Name(),
					"error", err.Error(),
				)
			}
		}
	}()

	// 5. Store de snapshot JSON
	snapshotStore, err := store.NewJSONSnapshotStore(cfg.SnapshotDir, logger)
	if err != nil {
		logger.Err(err, "phase", "store-init")
		os.Exit(2)
	}

	// 6. Presenter de terminal (noop en modo quiet o salida JSON pura)
	var presenter ports.Presenter
	if !cfg.Quiet && !cfg.JSONStdout {
		presenter = output.NewPTermPresenter()
	}

	// 7. Pipeline
	pipeline := usecases.NewPipeline(usecases.PipelineOptions{
		Sources:    sources,
		Store:      snapshotStore,
		Presenter:  presenter,
		Logger:     logger,
		MaxWorkers: cfg.Workers,
		Version:    version,
	})

	start := time.Now()
	result, runErr := pipeline.Run(ctx)
	elapsed := time.Since(start)

	if runErr != nil {
		logger.Err(runErr, "phase", "run", "elapsed_ms", elapsed.Milliseconds())
	}

	// 8. Salidas: informe JSON en disco siempre que haya resultado,
	// stdout opcional para pipelines.
	if result != nil {
		result.Metadata.Environment["commit"] = commit
		result.Metadata.Environment["date"] = date

		if path, err := output.WriteJSONReport(cfg.ReportDir, result); err != nil {
			logger.Err(err, "phase", "report")
		} else {
			logger.Debug("report written", "path", path)
		}

		if cfg.JSONStdout {
			if err := output.WriteJSONStdout(result, true); err != nil {
				logger.Err(err, "phase", "report-stdout")
				os.Exit(1)
			}
		}

		logger.Info("reconcile finished",
			"elapsed_ms", elapsed.Milliseconds(),
			"incoming", len(result.Incoming),
			"created", result.Stats.Created,
			"updated", result.Stats.UpdatedByURL+result.Stats.UpdatedBySlug,
			"unresolved", result.Stats.Unresolved,
			"warnings", len(result.Warnings),
			"errors", len(result.Errors),
		)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

// buildSourcesWithResilience construye las fuentes habilitadas y las
// envuelve con retry + circuit breaker si está habilitado.
func buildSourcesWithResilience(logger logx.Logger, cfg config.Config) ([]ports.Source, error) {
	// Un pase de refresco global marca todas las fuentes.
	configs := make(map[string]ports.SourceConfig, len(cfg.Sources))
	for name, sc := range cfg.Sources {
		if cfg.Refresh {
			sc.Refresh = true
		}
		configs[name] = sc
	}

	deps := registry.Deps{
		PageCache: cache.NewPageCache(cfg.Cache.Capacity),
		CacheTTL:  cfg.Cache.TTL,
		UserAgent: cfg.UserAgent,
		ProxyURL:  cfg.ProxyURL,
		Logger:    logger,
	}

	sources, err := registry.Global().Build(configs, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, domain.ErrNoSourcesAvailable
	}

	if !cfg.Resilience.CircuitBreakerEnabled {
		logger.Debug("resilience disabled, using sources directly")
		return sources, nil
	}

	resilient := make([]ports.Source, 0, len(sources))
	for _, src := range sources {
		cb := resilience.NewCircuitBreaker(
			cfg.Resilience.CircuitBreakerThreshold,
			cfg.Resilience.CircuitBreakerTimeout,
			cfg.Resilience.CircuitBreakerHalfOpenMax,
		)
		resilient = append(resilient, resilience.NewRetryableSource(
			src,
			cfg.Resilience.MaxRetries,
			cfg.Resilience.BackoffBase,
			cfg.Resilience.BackoffMultiplier,
			cb,
			logger,
		))
		logger.Debug("wrapped source with resilience",
			"source", src.Name(),
			"max_retries", cfg.Resilience.MaxRetries,
		)
	}
	return resilient, nil
}

// rootContextWithSignals crea el contexto raíz con timeout opcional y
// cancelación por SIGINT/SIGTERM.
func rootContextWithSignals(timeoutSeconds int, logger logx.Logger) (context.Context, context.CancelFunc) {
	var base context.Context
	var baseCancel context.CancelFunc

	if timeoutSeconds > 0 {
		base, baseCancel = context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	} else {
		base, baseCancel = context.WithCancel(context.Background())
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-ch:
			logger.Warn("signal received, shutting down", "signal", sig.String())
			baseCancel()
		case <-base.Done():
		}
	}()

	return base, func() {
		signal.Stop(ch)
		baseCancel()
	}
}
