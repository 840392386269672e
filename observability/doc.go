// Package observability exports registry activity through OpenTelemetry.
//
// Exporters:
//
//	p, err := observability.Start(ctx, cfg, observability.Service{Name: "my-service", Version: version.Get().Version})
//	defer p.Shutdown(ctx)
//
//	opts, err := p.RegistryOptions()
//	r := di.New(opts...)
//
// Instrument takes any meter and tracer, which is how tests record into an
// in-memory reader. Every resolution, constructor call and injection then
// feeds the di.* instruments, and each constructor call is recorded as a
// di.construct span.
package observability
