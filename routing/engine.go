package routing

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/manycore/topology"
)

// Hook positions at which the engine publishes the events of a successful
// routing pass. The hook item is the Event.
var (
	HookPosOutput = &sim.HookPos{Name: "Routing Output"}
	HookPosSource = &sim.HookPos{Name: "Routing Source"}
	HookPosSink   = &sim.HookPos{Name: "Routing Sink"}
)

// An Engine routes the task graph of a system across its mesh.
type Engine struct {
	*sim.HookableBase

	system *topology.System
}

// System returns the system the engine routes on.
func (e *Engine) System() *topology.System {
	return e.system
}

// endpoint is a task graph node resolved onto the mesh. A node that is a
// border endpoint carries the direction it is attached to.
type endpoint struct {
	coreID       int
	direction    topology.Direction
	hasDirection bool
}

type plannedEdge struct {
	edge topology.Edge
	from endpoint
	to   endpoint
}

// Route clears all loads and routes the whole task graph with the given
// algorithm. On error every load is cleared and no report is returned.
func (e *Engine) Route(algorithm Algorithm) (*Report, error) {
	if e.system == nil || !e.system.Validated() {
		return nil, topology.RoutingErrorf(
			"The system must be validated before it can be routed.")
	}

	e.system.ClearLoads()

	report := newReport(algorithm)

	var err error

	switch algorithm {
	case RowFirst:
		err = e.routeDimensionOrder(report, true)
	case ColumnFirst:
		err = e.routeDimensionOrder(report, false)
	case Observed:
		err = e.routeObserved(report)
	default:
		err = topology.RoutingErrorf("unsupported routing algorithm %d", algorithm)
	}

	if err != nil {
		e.system.ClearLoads()
		return nil, err
	}

	e.publish(report)

	return report, nil
}

func (e *Engine) resolve(taskID uint16) (endpoint, error) {
	if id, ok := e.system.CoreOfTask(taskID); ok {
		if _, err := e.system.Core(id); err != nil {
			return endpoint{}, err
		}

		return endpoint{coreID: id}, nil
	}

	if b := e.system.Borders; b != nil {
		if sink, ok := b.SinkByTask(taskID); ok {
			return e.borderEndpoint(sink.CoreID, sink.Direction)
		}

		if source, ok := b.SourceByTask(taskID); ok {
			return e.borderEndpoint(source.CoreID, source.Direction)
		}
	}

	return endpoint{}, topology.RoutingErrorf(
		"Malformed TaskGraph: Task %d is not allocated on any core, "+
			"sink or source.", taskID)
}

func (e *Engine) borderEndpoint(
	coreID int,
	d topology.Direction,
) (endpoint, error) {
	if _, err := e.system.Core(coreID); err != nil {
		return endpoint{}, err
	}

	return endpoint{coreID: coreID, direction: d, hasDirection: true}, nil
}

// plan resolves every edge before any load is touched.
func (e *Engine) plan() ([]plannedEdge, error) {
	edges := e.system.TaskGraph.Edges
	plans := make([]plannedEdge, 0, len(edges))

	for _, edge := range edges {
		from, err := e.resolve(edge.From)
		if err != nil {
			return nil, err
		}

		to, err := e.resolve(edge.To)
		if err != nil {
			return nil, err
		}

		plans = append(plans, plannedEdge{edge: edge, from: from, to: to})
	}

	return plans, nil
}

func (e *Engine) routeDimensionOrder(report *Report, rowFirst bool) error {
	plans, err := e.plan()
	if err != nil {
		return err
	}

	for _, p := range plans {
		if err := e.walk(report, p, rowFirst); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) walk(report *Report, p plannedEdge, rowFirst bool) error {
	columns := e.system.Columns
	cost := p.edge.CommunicationCost

	if p.from.hasDirection {
		start, err := e.system.Core(p.from.coreID)
		if err != nil {
			return err
		}

		if err := start.AddSourceLoad(cost, p.from.direction); err != nil {
			return err
		}

		report.record(Event{
			Kind:      SourceEvent,
			CoreID:    start.ID,
			Direction: p.from.direction,
			Load:      cost,
		})
	}

	current := p.from.coreID
	dstRow, dstColumn := p.to.coreID/columns, p.to.coreID%columns

	alongRows := func() error {
		for current/columns != dstRow {
			d := topology.South
			if current/columns > dstRow {
				d = topology.North
			}

			if err := e.hop(report, current, d, cost); err != nil {
				return err
			}

			current += d.Delta(columns)
		}

		return nil
	}

	alongColumns := func() error {
		for current%columns != dstColumn {
			d := topology.East
			if current%columns > dstColumn {
				d = topology.West
			}

			if err := e.hop(report, current, d, cost); err != nil {
				return err
			}

			current += d.Delta(columns)
		}

		return nil
	}

	first, second := alongRows, alongColumns
	if !rowFirst {
		first, second = alongColumns, alongRows
	}

	if err := first(); err != nil {
		return err
	}

	if err := second(); err != nil {
		return err
	}

	if p.to.hasDirection {
		dst, err := e.system.Core(p.to.coreID)
		if err != nil {
			return err
		}

		if err := dst.Channels.AddLoad(cost, p.to.direction); err != nil {
			return err
		}

		report.record(Event{
			Kind:      SinkEvent,
			CoreID:    dst.ID,
			Direction: p.to.direction,
			Load:      cost,
		})
	}

	return nil
}

func (e *Engine) hop(
	report *Report,
	coreID int,
	d topology.Direction,
	cost uint16,
) error {
	core, err := e.system.Core(coreID)
	if err != nil {
		return err
	}

	if _, ok := core.Channels[d]; !ok {
		return topology.RoutingErrorf(
			"Core with ID %d has no %s channel to route through.", coreID, d)
	}

	if err := core.Channels.AddLoad(cost, d); err != nil {
		return err
	}

	Trace("Hop", "core", coreID, "direction", d, "cost", cost)

	report.record(Event{
		Kind:      OutputEvent,
		CoreID:    coreID,
		Direction: d,
		Load:      cost,
	})

	return nil
}

func (e *Engine) routeObserved(report *Report) error {
	for i := range e.system.Cores {
		core := &e.system.Cores[i]

		for _, ch := range core.Channels.Sorted() {
			if ch.ActualComCost == 0 {
				continue
			}

			ch.AddLoad(ch.ActualComCost)
			report.record(Event{
				Kind:      OutputEvent,
				CoreID:    core.ID,
				Direction: ch.Direction,
				Load:      ch.ActualComCost,
			})
		}
	}

	if e.system.Borders == nil {
		return nil
	}

	for _, source := range e.system.Borders.Sources {
		load := e.observedSourceLoad(source)
		if load == 0 {
			continue
		}

		core, err := e.system.Core(source.CoreID)
		if err != nil {
			return err
		}

		if err := core.AddSourceLoad(load, source.Direction); err != nil {
			return err
		}

		report.record(Event{
			Kind:      SourceEvent,
			CoreID:    core.ID,
			Direction: source.Direction,
			Load:      load,
		})
	}

	return nil
}

// observedSourceLoad prefers the load recorded on the source itself and falls
// back to the edges that leave the source's task.
func (e *Engine) observedSourceLoad(source topology.Source) uint16 {
	if source.ActualComCost != 0 {
		return source.ActualComCost
	}

	var load uint64
	for _, edge := range e.system.TaskGraph.EdgesFrom(source.TaskID) {
		load += uint64(edge.CommunicationCost)
	}

	if load > uint64(^uint16(0)) {
		return ^uint16(0)
	}

	return uint16(load)
}

func (e *Engine) publish(report *Report) {
	for _, ev := range report.Events {
		pos := HookPosOutput

		switch ev.Kind {
		case SourceEvent:
			pos = HookPosSource
		case SinkEvent:
			pos = HookPosSink
		}

		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    pos,
			Item:   ev,
		})
	}
}
