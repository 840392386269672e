// Package bootstrap runs a service whose dependencies live in a di.Registry.
//
// An App validates its config, sets up logging and optional OpenTelemetry,
// injects the provided modules, then starts its components in order:
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.Provide(storage.Module(), handlers.Module())
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    return di.MustResolve[*Cache](a.Registry).Warm(ctx)
//	})
//	err = app.Run(context.Background())
//
// Shutdown runs OnStop hooks, stops components in reverse order and closes
// the registry, which closes every built singleton implementing io.Closer.
package bootstrap
