package routing

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/manycore/topology"
)

// Builder can create routing engines.
type Builder struct {
	system *topology.System
	hooks  []sim.Hook
}

// WithSystem sets the validated system to route on.
func (b Builder) WithSystem(system *topology.System) Builder {
	b.system = system
	return b
}

// WithHook registers a hook on the engine being built.
func (b Builder) WithHook(hook sim.Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
	return b
}

// Build creates an engine.
func (b Builder) Build() *Engine {
	e := &Engine{
		HookableBase: sim.NewHookableBase(),
		system:       b.system,
	}

	for _, h := range b.hooks {
		e.AcceptHook(h)
	}

	return e
}
