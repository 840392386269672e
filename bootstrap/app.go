package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/inject/component"
	"github.com/kbukum/inject/di"
	"github.com/kbukum/inject/diag"
	"github.com/kbukum/inject/logger"
	"github.com/kbukum/inject/observability"
	"github.com/kbukum/inject/version"
)

const registryComponentName = "di"

// App represents a service with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy Config.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Registry   *di.Registry
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	modules         [][]di.Descriptor
	onConfigure     []func(ctx context.Context, app *App[C]) error
	shutdowns       []func(context.Context) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, initializes the logger and,
// when enabled, the OpenTelemetry providers and the diagnostics server.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         version.Get().Short(),
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: 15 * time.Second,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Registry = o.registry
	if app.Registry == nil {
		regOpts := []di.Option{di.WithLogger(app.Logger.WithComponent("di"))}
		telemetry, err := app.initTelemetry()
		if err != nil {
			return nil, err
		}
		app.Registry = di.New(append(regOpts, telemetry...)...)
	}

	if err := app.Components.Register(di.AsComponent(app.Registry, registryComponentName)); err != nil {
		return nil, err
	}
	if base.Diagnostics.Enabled {
		srv := diag.NewServer(base.Diagnostics.Addr, app.Registry, base.Name, app.componentHealth)
		if err := app.Components.Register(srv); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// initTelemetry starts the OTLP providers when enabled and returns the
// registry options that feed them.
func (a *App[C]) initTelemetry() ([]di.Option, error) {
	base := a.Cfg.GetConfig()
	if !base.Observability.Enabled {
		return nil, nil
	}

	providers, err := observability.Start(context.Background(), base.Observability, observability.Service{
		Name:        base.Name,
		Version:     a.Version,
		Environment: base.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	a.shutdowns = append(a.shutdowns, providers.Shutdown)

	return providers.RegistryOptions()
}

// componentHealth reports every component except the registry, which the
// diagnostics endpoint already covers.
func (a *App[C]) componentHealth(ctx context.Context) []component.Health {
	all := a.Components.HealthAll(ctx)
	out := make([]component.Health, 0, len(all))
	for _, h := range all {
		if h.Name != registryComponentName {
			out = append(out, h)
		}
	}
	return out
}

// Provide adds modules to inject when the application starts.
func (a *App[C]) Provide(modules ...[]di.Descriptor) {
	a.modules = append(a.modules, modules...)
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback that runs once dependencies are injected
// and components are started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run executes the full lifecycle for long-running services:
// Inject → Start components → OnStart → Configure → ReadyCheck → OnReady →
// block on signal → Shutdown.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		a.abort()
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full lifecycle. The task context is
// canceled on SIGINT/SIGTERM; shutdown follows when the task returns.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		a.abort()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// startup performs the initialization sequence shared by Run and RunTask.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if len(a.modules) > 0 {
		if err := a.Registry.Inject(di.Module(a.modules...)...); err != nil {
			return fmt.Errorf("inject dependencies: %w", err)
		}
	}

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.ErrorFields("ready_check", err))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Logger.Info("Application started", logger.Fields(
		logger.FieldCount, a.Registry.Len(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	if a.Cfg.GetConfig().Debug {
		a.Logger.Debug("Registered dependencies\n" + a.Registry.SprintRegistrations())
	}
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(_ context.Context) error {
	return a.stop()
}

// abort releases what a failed startup may have acquired.
func (a *App[C]) abort() {
	if err := a.stop(); err != nil {
		a.Logger.Warn("Cleanup after failed startup reported errors", logger.ErrorFields("shutdown", err))
	}
}

// stop runs OnStop hooks, stops components in reverse order (closing the
// registry) and flushes telemetry, all within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields(
		"timeout", a.gracefulTimeout.String(),
	))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("on_stop", err))
		errs = append(errs, err)
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("stop_all", err))
		errs = append(errs, err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil {
			a.Logger.Warn("Telemetry shutdown error", logger.ErrorFields("telemetry", err))
		}
	}
	a.shutdowns = nil

	a.Logger.Info("Application shutdown complete")
	return stderrors.Join(errs...)
}
