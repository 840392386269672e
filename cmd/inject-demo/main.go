// Command inject-demo wires a small greeting service through the dependency
// registry and, when diagnostics are enabled, serves the registry over HTTP
// until interrupted.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/inject/bootstrap"
	"github.com/kbukum/inject/config"
	"github.com/kbukum/inject/di"
)

const serviceName = "inject-demo"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if err := config.Load(serviceName, &cfg); err != nil {
		return err
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	// Wrappers built without an explicit registry use the process-wide one.
	di.SetDefault(app.Registry)

	app.Provide(Module())
	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*config.Config]) error {
		greeter := NewGreeter()
		for _, name := range []string{"Ada", "Grace"} {
			a.Logger.Info(greeter.Greet(name))
		}
		if !greeter.HasMailer() {
			a.Logger.Info("no mailer registered, greetings stay local")
		}
		return nil
	})

	ctx := context.Background()
	if cfg.Diagnostics.Enabled {
		return app.Run(ctx)
	}
	return app.RunTask(ctx, func(context.Context) error { return nil })
}
