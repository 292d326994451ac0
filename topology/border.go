package topology

import "sort"

// A Source injects traffic into the mesh through a boundary core.
type Source struct {
	CoreID    int
	Direction Direction
	TaskID    uint16

	// ActualComCost is the observed load entering through the source. Zero
	// means not recorded.
	ActualComCost uint16
}

// A Sink drains traffic out of the mesh through a boundary core.
type Sink struct {
	CoreID    int
	Direction Direction
	TaskID    uint16
}

// BorderKind tells a Source entry from a Sink entry.
type BorderKind int

const (
	SourceEntry BorderKind = iota
	SinkEntry
)

func (k BorderKind) String() string {
	if k == SinkEntry {
		return "Sink"
	}

	return "Source"
}

// A BorderEntry is what sits on a given side of a boundary core.
type BorderEntry struct {
	Kind   BorderKind
	TaskID uint16
}

// Borders holds the endpoints attached to the mesh boundary.
type Borders struct {
	Sources []Source
	Sinks   []Sink

	sourceByTask map[uint16]int
	sinkByTask   map[uint16]int
	coreIndex    map[int]map[Direction]BorderEntry
}

// NewBorders creates a Borders collection.
func NewBorders(sources []Source, sinks []Sink) *Borders {
	return &Borders{Sources: sources, Sinks: sinks}
}

// BuildIndex validates the endpoints and builds the lookup indices. edgeOf
// must return the boundary classification of a core, or false if the core
// does not exist. allocated tells if a task id is allocated on a core.
func (b *Borders) BuildIndex(
	edgeOf func(coreID int) (EdgePosition, bool),
	allocated func(taskID uint16) bool,
) error {
	b.sourceByTask = make(map[uint16]int, len(b.Sources))
	b.sinkByTask = make(map[uint16]int, len(b.Sinks))
	b.coreIndex = make(map[int]map[Direction]BorderEntry)

	for i, s := range b.Sources {
		if err := b.index(edgeOf, allocated, SourceEntry,
			s.CoreID, s.Direction, s.TaskID); err != nil {
			return err
		}

		b.sourceByTask[s.TaskID] = i
	}

	for i, s := range b.Sinks {
		if err := b.index(edgeOf, allocated, SinkEntry,
			s.CoreID, s.Direction, s.TaskID); err != nil {
			return err
		}

		b.sinkByTask[s.TaskID] = i
	}

	return nil
}

func (b *Borders) index(
	edgeOf func(coreID int) (EdgePosition, bool),
	allocated func(taskID uint16) bool,
	kind BorderKind,
	coreID int,
	d Direction,
	taskID uint16,
) error {
	edge, ok := edgeOf(coreID)
	if !ok {
		return GenerationErrorf("%s of task %d references core %d, "+
			"which does not exist.", kind, taskID, coreID)
	}

	if !edge.Permits(d) {
		return GenerationErrorf("%s of task %d is attached to the %s side "+
			"of core %d, which is not on that mesh border (%s).",
			kind, taskID, d, coreID, edge)
	}

	if allocated(taskID) {
		return GenerationErrorf("Task %d is both allocated on a core and "+
			"used as a %s.", taskID, kind)
	}

	_, dupSource := b.sourceByTask[taskID]
	_, dupSink := b.sinkByTask[taskID]
	if dupSource || dupSink {
		return GenerationErrorf("Task %d is used by more than one border "+
			"endpoint.", taskID)
	}

	if _, taken := b.coreIndex[coreID][d]; taken {
		return GenerationErrorf("Core %d has more than one border endpoint "+
			"on its %s side.", coreID, d)
	}

	if b.coreIndex[coreID] == nil {
		b.coreIndex[coreID] = make(map[Direction]BorderEntry)
	}

	b.coreIndex[coreID][d] = BorderEntry{Kind: kind, TaskID: taskID}

	return nil
}

// SourceByTask returns the source that represents the task.
func (b *Borders) SourceByTask(taskID uint16) (Source, bool) {
	i, ok := b.sourceByTask[taskID]
	if !ok {
		return Source{}, false
	}

	return b.Sources[i], true
}

// SinkByTask returns the sink that represents the task.
func (b *Borders) SinkByTask(taskID uint16) (Sink, bool) {
	i, ok := b.sinkByTask[taskID]
	if !ok {
		return Sink{}, false
	}

	return b.Sinks[i], true
}

// At returns the endpoint attached to a side of a core.
func (b *Borders) At(coreID int, d Direction) (BorderEntry, bool) {
	e, ok := b.coreIndex[coreID][d]
	return e, ok
}

// ForCore returns the endpoints attached to a core, keyed by direction.
func (b *Borders) ForCore(coreID int) map[Direction]BorderEntry {
	return b.coreIndex[coreID]
}

// CoreIDs returns the ids of the cores that have endpoints, in ascending
// order.
func (b *Borders) CoreIDs() []int {
	ids := make([]int, 0, len(b.coreIndex))
	for id := range b.coreIndex {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}
