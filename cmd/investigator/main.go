// Command investigator is the Investigation Engine's CLI entrypoint:
// run a single screening from the command line, or run the monitoring
// scheduler loop continuously. Grounded on cmd/helm/main.go's
// Run(args, stdout, stderr) int dispatch pattern.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clearcheck/investigator/internal/config"
	"github.com/clearcheck/investigator/pkg/audit"
	"github.com/clearcheck/investigator/pkg/cache"
	"github.com/clearcheck/investigator/pkg/compliance"
	"github.com/clearcheck/investigator/pkg/directory"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/gateway"
	"github.com/clearcheck/investigator/pkg/investigation"
	"github.com/clearcheck/investigator/pkg/monitoring"
	"github.com/clearcheck/investigator/pkg/planner"
	"github.com/clearcheck/investigator/pkg/profile"
	"github.com/clearcheck/investigator/pkg/providers"
	entityresolver "github.com/clearcheck/investigator/pkg/resolver"
	"github.com/clearcheck/investigator/pkg/sar"
	"github.com/clearcheck/investigator/pkg/store"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		return runServe(stdout, stderr)
	}

	switch args[1] {
	case "screen":
		return runScreenCmd(args[2:], stdout, stderr)
	case "serve", "monitor":
		return runServe(stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "investigator: unknown command %q\n\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: investigator <command>")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  screen   run a single screening (see 'investigator screen -h')")
	fmt.Fprintln(w, "  serve    run the monitoring scheduler loop until signaled to stop")
	fmt.Fprintln(w, "  help     show this message")
}

// deps bundles the wired engine and the pieces a subcommand composes
// around it.
type deps struct {
	logger      *slog.Logger
	engine      *investigation.Engine
	directory   *directory.InMemoryDirectory
	resolver    *entityresolver.Resolver
	profiles    *profile.Manager
	configStore monitoring.ConfigStore
	scheduler   *monitoring.Scheduler
}

// bootstrap wires every SPEC_FULL.md component into a runnable Engine plus
// a Scheduler, following the teacher's runServer pattern of resolving
// infrastructure from environment-sourced Config before constructing the
// domain layers on top of it.
func bootstrap(cfg *config.Config) (*deps, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	gw := gateway.New()
	registry := providers.NewRegistry(gw)
	if cfg.ProviderConfigPath != "" {
		if err := registerProvidersFromFile(registry, cfg.ProviderConfigPath); err != nil {
			return nil, fmt.Errorf("bootstrap: register providers: %w", err)
		}
	} else {
		logger.Warn("PROVIDER_CONFIG_PATH not set; starting with zero registered providers")
	}
	sources := planner.NewDataSourceResolver(registry.Providers())

	var cacheStore cache.Store
	if cfg.RedisURL != "" {
		addr, password, db, err := parseRedisURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: parse REDIS_URL: %w", err)
		}
		cacheStore = cache.NewRedisStore(addr, password, db, 730*24*time.Hour)
		logger.Info("cache: using redis store", "addr", addr)
	} else {
		logger.Warn("REDIS_URL not set; falling back to an in-process cache (lost on restart)")
		cacheStore = cache.NewInMemoryStore()
	}
	resolver := cache.NewResolver(cacheStore, gw, domain.TierStandard)

	var ruleStore compliance.RuleStore
	if cfg.ComplianceBundleDir != "" {
		loader := compliance.NewLoader(cfg.ComplianceBundleDir)
		if err := loader.LoadAll(); err != nil {
			return nil, fmt.Errorf("bootstrap: load compliance bundles: %w", err)
		}
		ruleStore = compliance.NewBundleRuleStore(loader)
		logger.Info("compliance: loaded rule bundles", "dir", cfg.ComplianceBundleDir)
	} else {
		logger.Warn("COMPLIANCE_BUNDLE_DIR not set; starting with zero compliance rules (every check will be denied)")
		ruleStore = compliance.NewMemoryRuleStore(nil)
	}
	celEnv, err := compliance.NewCELEnv()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: build CEL environment: %w", err)
	}
	evaluator := compliance.NewEvaluator(ruleStore, celEnv)

	profiles := profile.NewManager(profile.NewInMemoryStore())

	auditStore := store.NewAuditStore()
	auditLogger := audit.NewStoreLogger(auditStore)

	thresholds := investigation.Thresholds{
		Foundation: sar.Thresholds{
			ConfidenceThreshold: cfg.FoundationConfidenceThreshold,
			MaxIterations:       cfg.FoundationMaxIterations,
			MinGainRate:         cfg.MinGainThreshold,
		},
		Standard: sar.Thresholds{
			ConfidenceThreshold: cfg.ConfidenceThreshold,
			MaxIterations:       cfg.MaxIterations,
			MinGainRate:         cfg.MinGainThreshold,
		},
		MaxParallel:        cfg.MaxParallelInvestigations,
		NetworkMaxEntities: cfg.NetworkMaxEntitiesPerDegree,
	}

	dir := directory.NewInMemoryDirectory()
	entityResolver := entityresolver.NewResolver(entityresolver.NewInMemoryStore())
	engine := investigation.New(resolver, evaluator, sources, dir, profiles, auditLogger, thresholds)

	configStore := monitoring.NewInMemoryConfigStore()
	runner := investigation.NewMonitoringRunner(engine, dir)
	sink := &auditAlertSink{logger: auditLogger}
	scheduler := monitoring.NewScheduler(configStore, profiles, runner, sink, cfg.MonitoringOwnerID, cfg.MonitoringLeaseDuration)

	return &deps{
		logger:      logger,
		engine:      engine,
		directory:   dir,
		resolver:    entityResolver,
		profiles:    profiles,
		configStore: configStore,
		scheduler:   scheduler,
	}, nil
}

// auditAlertSink adapts the audit Logger to monitoring.AlertSink, so
// monitoring alerts land in the same tenant-scoped hash chain as every
// other audit event (spec §8).
type auditAlertSink struct{ logger audit.Logger }

func (s *auditAlertSink) Emit(ctx context.Context, alert monitoring.Alert) error {
	return s.logger.Record(ctx, audit.EventMonitoringAlert, string(alert.Severity), alert.EntityID, map[string]any{
		"signals":    alert.Signals,
		"emitted_at": alert.EmittedAt,
	})
}

func logLevel(level string) slog.Level {
	switch level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runServe bootstraps the engine and drives the monitoring Scheduler on
// MONITORING_POLL_INTERVAL until SIGINT/SIGTERM, mirroring the teacher's
// runServer signal-handling shutdown style.
func runServe(stdout, stderr io.Writer) int {
	cfg := config.Load()
	d, err := bootstrap(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "investigator: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d.logger.Info("investigator: monitoring scheduler starting", "poll_interval", cfg.MonitoringPollInterval)
	ticker := time.NewTicker(cfg.MonitoringPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("investigator: shutting down")
			return 0
		case <-ticker.C:
			if err := d.scheduler.Tick(ctx); err != nil {
				d.logger.Error("investigator: scheduler tick failed", "error", err)
			}
		}
	}
}
