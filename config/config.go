// Package config builds manycore systems in code and reads and writes them in
// the supported configuration formats.
package config

import (
	"fmt"

	"github.com/sarchlab/manycore/topology"
)

// DefaultBandwidth is the channel bandwidth used when none is set.
const DefaultBandwidth uint16 = 400

type allocation struct {
	core int
	task uint16
}

type observation struct {
	core      int
	direction topology.Direction
	load      uint16
}

// MeshBuilder can build raw manycore systems. Every core gets a channel in
// each of the four directions. The built system still has to be validated.
type MeshBuilder struct {
	rows, columns     int
	bandwidth         uint16
	observedAlgorithm string

	tasks       []topology.Task
	edges       []topology.Edge
	allocations []allocation
	observed    []observation
	sources     []topology.Source
	sinks       []topology.Sink
}

// MakeMeshBuilder creates a MeshBuilder with default parameters.
func MakeMeshBuilder() MeshBuilder {
	return MeshBuilder{
		bandwidth: DefaultBandwidth,
	}
}

// WithRows sets the number of rows of the mesh.
func (b MeshBuilder) WithRows(rows int) MeshBuilder {
	b.rows = rows
	return b
}

// WithColumns sets the number of columns of the mesh.
func (b MeshBuilder) WithColumns(columns int) MeshBuilder {
	b.columns = columns
	return b
}

// WithBandwidth sets the bandwidth of every channel.
func (b MeshBuilder) WithBandwidth(bandwidth uint16) MeshBuilder {
	b.bandwidth = bandwidth
	return b
}

// WithObservedAlgorithm records the algorithm that produced the observed
// channel loads.
func (b MeshBuilder) WithObservedAlgorithm(name string) MeshBuilder {
	b.observedAlgorithm = name
	return b
}

// WithTask adds a task to the task graph.
func (b MeshBuilder) WithTask(id, computationCost uint16) MeshBuilder {
	b.tasks = append(b.tasks[:len(b.tasks):len(b.tasks)],
		topology.Task{ID: id, ComputationCost: computationCost})
	return b
}

// WithEdge adds a communication between two tasks.
func (b MeshBuilder) WithEdge(from, to, cost uint16) MeshBuilder {
	b.edges = append(b.edges[:len(b.edges):len(b.edges)],
		topology.Edge{From: from, To: to, CommunicationCost: cost})
	return b
}

// WithAllocation allocates a task on a core.
func (b MeshBuilder) WithAllocation(coreID int, task uint16) MeshBuilder {
	b.allocations = append(b.allocations[:len(b.allocations):len(b.allocations)],
		allocation{core: coreID, task: task})
	return b
}

// WithObservedLoad sets the observed load of a channel.
func (b MeshBuilder) WithObservedLoad(
	coreID int,
	d topology.Direction,
	load uint16,
) MeshBuilder {
	b.observed = append(b.observed[:len(b.observed):len(b.observed)],
		observation{core: coreID, direction: d, load: load})
	return b
}

// WithSource attaches a Source to a side of a core.
func (b MeshBuilder) WithSource(
	coreID int,
	d topology.Direction,
	task uint16,
	observedLoad uint16,
) MeshBuilder {
	b.sources = append(b.sources[:len(b.sources):len(b.sources)],
		topology.Source{
			CoreID:        coreID,
			Direction:     d,
			TaskID:        task,
			ActualComCost: observedLoad,
		})
	return b
}

// WithSink attaches a Sink to a side of a core.
func (b MeshBuilder) WithSink(
	coreID int,
	d topology.Direction,
	task uint16,
) MeshBuilder {
	b.sinks = append(b.sinks[:len(b.sinks):len(b.sinks)],
		topology.Sink{CoreID: coreID, Direction: d, TaskID: task})
	return b
}

// Build creates the system. Allocations and observed loads that name cores
// outside the mesh are reported as errors.
func (b MeshBuilder) Build() (*topology.System, error) {
	if b.rows < 0 || b.columns < 0 {
		return nil, topology.GenerationErrorf(
			"invalid mesh size %dx%d", b.rows, b.columns)
	}

	sys := &topology.System{
		Rows:              b.rows,
		Columns:           b.columns,
		ObservedAlgorithm: b.observedAlgorithm,
		TaskGraph: topology.TaskGraph{
			Tasks: append([]topology.Task(nil), b.tasks...),
			Edges: append([]topology.Edge(nil), b.edges...),
		},
		Cores: make([]topology.Core, b.rows*b.columns),
	}

	for id := range sys.Cores {
		channels := make([]*topology.Channel, 0, topology.NumDirections)
		for _, d := range topology.AllDirections {
			channels = append(channels, topology.NewChannel(d, b.bandwidth, 0))
		}

		sys.Cores[id] = topology.Core{
			ID:       id,
			Router:   topology.Router{ID: id},
			Channels: topology.NewChannels(channels...),
		}
	}

	for _, a := range b.allocations {
		core, err := b.core(sys, a.core)
		if err != nil {
			return nil, err
		}

		task := a.task
		core.AllocatedTask = &task
	}

	for _, o := range b.observed {
		core, err := b.core(sys, o.core)
		if err != nil {
			return nil, err
		}

		ch, ok := core.Channels[o.direction]
		if !ok {
			return nil, topology.GenerationErrorf(
				"core %d has no %s channel", o.core, o.direction)
		}

		ch.ActualComCost = o.load
	}

	if len(b.sources) > 0 || len(b.sinks) > 0 {
		sys.Borders = topology.NewBorders(
			append([]topology.Source(nil), b.sources...),
			append([]topology.Sink(nil), b.sinks...))
	}

	return sys, nil
}

func (b MeshBuilder) core(sys *topology.System, id int) (*topology.Core, error) {
	if id < 0 || id >= len(sys.Cores) {
		return nil, topology.GenerationErrorf(
			"core %d is outside the %s mesh", id, b.size())
	}

	return &sys.Cores[id], nil
}

func (b MeshBuilder) size() string {
	return fmt.Sprintf("%dx%d", b.rows, b.columns)
}
