package di

import (
	"context"
	"fmt"

	"github.com/kbukum/inject/component"
	"github.com/kbukum/inject/errors"
)

// registryComponent runs a Registry inside a component.Registry.
type registryComponent struct {
	registry *Registry
	name     string
}

// AsComponent adapts r to the component lifecycle. Start fails unless r has
// been injected, Stop closes r, and Health is degraded until injection.
func AsComponent(r *Registry, name string) component.Component {
	if name == "" {
		name = "di"
	}
	return &registryComponent{registry: r, name: name}
}

func (c *registryComponent) Name() string { return c.name }

func (c *registryComponent) Start(_ context.Context) error {
	if !c.registry.Injected() {
		return errors.EmptyRegistration()
	}
	return nil
}

func (c *registryComponent) Stop(_ context.Context) error {
	return c.registry.Close()
}

func (c *registryComponent) Health(_ context.Context) component.Health {
	if !c.registry.Injected() {
		return component.Health{
			Name:    c.name,
			Status:  component.StatusDegraded,
			Message: "no dependencies injected",
		}
	}
	return component.Health{Name: c.name, Status: component.StatusHealthy}
}

func (c *registryComponent) Describe() component.Description {
	infos := c.registry.Registrations()
	built := 0
	for _, info := range infos {
		if info.Initialized {
			built++
		}
	}
	return component.Description{
		Name:    "Dependency registry",
		Type:    "di",
		Details: fmt.Sprintf("%d registrations, %d built", len(infos), built),
	}
}
