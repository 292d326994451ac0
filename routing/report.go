package routing

import (
	"sort"

	"github.com/sarchlab/manycore/topology"
)

// EventKind tells which accumulator an event touched.
type EventKind int

const (
	// OutputEvent is load added to a channel while walking across the mesh
	// or while replaying observed channel load.
	OutputEvent EventKind = iota
	// SourceEvent is load entering a core from a Source.
	SourceEvent
	// SinkEvent is load leaving the destination core towards a Sink.
	SinkEvent
)

func (k EventKind) String() string {
	switch k {
	case OutputEvent:
		return "Output"
	case SourceEvent:
		return "Source"
	case SinkEvent:
		return "Sink"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// An Event records one load addition.
type Event struct {
	Kind      EventKind          `yaml:"kind" json:"kind"`
	CoreID    int                `yaml:"core" json:"core"`
	Direction topology.Direction `yaml:"direction" json:"direction"`
	Load      uint16             `yaml:"load" json:"load"`
}

// CoreUsage lists the directions a routing pass used on one core.
type CoreUsage struct {
	Output topology.DirectionSet
	Source topology.DirectionSet
	Sink   topology.DirectionSet
}

// A Report is the outcome of one routing pass.
type Report struct {
	Algorithm Algorithm
	Usage     map[int]*CoreUsage
	Events    []Event
}

func newReport(algorithm Algorithm) *Report {
	return &Report{
		Algorithm: algorithm,
		Usage:     make(map[int]*CoreUsage),
	}
}

func (r *Report) record(ev Event) {
	u, ok := r.Usage[ev.CoreID]
	if !ok {
		u = &CoreUsage{}
		r.Usage[ev.CoreID] = u
	}

	switch ev.Kind {
	case OutputEvent:
		u.Output = u.Output.Add(ev.Direction)
	case SourceEvent:
		u.Source = u.Source.Add(ev.Direction)
	case SinkEvent:
		u.Sink = u.Sink.Add(ev.Direction)
	}

	r.Events = append(r.Events, ev)
}

// CoreIDs returns the ids of the cores with any usage, in ascending order.
func (r *Report) CoreIDs() []int {
	ids := make([]int, 0, len(r.Usage))
	for id := range r.Usage {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}

// UsageOf returns the usage of a core. Unused cores have an empty usage.
func (r *Report) UsageOf(coreID int) CoreUsage {
	if u, ok := r.Usage[coreID]; ok {
		return *u
	}

	return CoreUsage{}
}

// TotalLoad sums the load of every event of the given kind.
func (r *Report) TotalLoad(kind EventKind) uint64 {
	var total uint64
	for _, ev := range r.Events {
		if ev.Kind == kind {
			total += uint64(ev.Load)
		}
	}

	return total
}
