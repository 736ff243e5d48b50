// Package dependency wires core secagent services using go.uber.org/dig.
package dependency

import (
	"context"
	"log/slog"

	"go.uber.org/dig"

	"github.com/secagent/secagent/internal/agent"
	"github.com/secagent/secagent/internal/completion"
	"github.com/secagent/secagent/internal/config"
	"github.com/secagent/secagent/internal/telemetry"
	"github.com/secagent/secagent/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	service   completion.Service
	registry  *tools.Registry
	telemetry *telemetry.Provider
	assistant agent.Assistant
}

func (c *Container) Service() completion.Service    { return c.service }
func (c *Container) Registry() *tools.Registry      { return c.registry }
func (c *Container) Telemetry() *telemetry.Provider { return c.telemetry }
func (c *Container) Assistant() agent.Assistant     { return c.assistant }

// Close flushes telemetry exporters.
func (c *Container) Close(ctx context.Context) error {
	return c.telemetry.Shutdown(ctx)
}

// New builds and wires all core services from cfg. ctx bounds exporter setup.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() context.Context { return ctx }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newService); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newTelemetry); err != nil {
		return nil, err
	}
	if err := d.Provide(newAgent); err != nil {
		return nil, err
	}
	if err := d.Provide(newAssistant); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		service completion.Service,
		registry *tools.Registry,
		provider *telemetry.Provider,
		assistant agent.Assistant,
	) {
		result = &Container{
			service:   service,
			registry:  registry,
			telemetry: provider,
			assistant: assistant,
		}
	})
	return result, err
}

func newService(cfg *config.Config) (completion.Service, error) {
	return completion.New(completion.Params{
		Backend: cfg.Backend,
		Host:    cfg.Host,
		APIKey:  cfg.APIKey,
	})
}

func newRegistry(cfg *config.Config) *tools.Registry {
	return tools.NewCatalog(tools.CatalogOptions{
		WorkingDir:     cfg.WorkingDirPath(),
		CommandTimeout: cfg.Tools.CommandTimeout,
	})
}

// newTelemetry never fails: exporter errors downgrade to no-op providers.
func newTelemetry(ctx context.Context, cfg *config.Config) *telemetry.Provider {
	opts := telemetry.Options{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	}
	p, err := telemetry.Setup(ctx, opts)
	if err != nil {
		slog.Warn("Could not set up tracing", "endpoint", opts.Endpoint, "err", err)
		p, _ = telemetry.Setup(ctx, telemetry.Options{})
	}
	return p
}

func newAgent(cfg *config.Config, service completion.Service, registry *tools.Registry) (*agent.Agent, error) {
	return agent.New(cfg.Settings(), service, registry)
}

func newAssistant(a *agent.Agent, p *telemetry.Provider) (agent.Assistant, error) {
	if !p.Enabled() {
		return a, nil
	}
	return telemetry.NewTracedAgent(a, p.TracerProvider, p.MeterProvider)
}
