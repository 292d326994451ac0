// Package ingest validates freshly loaded systems and builds the indices
// routing depends on.
package ingest

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/sarchlab/manycore/attributes"
	"github.com/sarchlab/manycore/routing"
	"github.com/sarchlab/manycore/topology"
)

// A Validator checks a raw system and turns it into a routable one.
type Validator struct {
	workers int
	logger  *slog.Logger

	// inspect, if set, runs on every core a worker visits.
	inspect func(core *topology.Core)
}

type chunkResult struct {
	taskCores map[uint16]int
	catalogs  attributes.ElementCatalogs
	err       error
}

// Validate checks the system and populates its indices. On success the
// system is marked validated and the attributes the front end may render are
// returned. On failure the system stays unvalidated.
func (v *Validator) Validate(
	system *topology.System,
) (*attributes.Configurable, error) {
	if err := checkShape(system); err != nil {
		return nil, err
	}

	sort.SliceStable(system.Cores, func(i, j int) bool {
		return system.Cores[i].ID < system.Cores[j].ID
	})

	results := v.validateCores(system)

	taskCores := make(map[uint16]int)
	catalogs := attributes.NewElementCatalogs()

	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
	}

	for _, r := range results {
		for task, coreID := range r.taskCores {
			if other, dup := taskCores[task]; dup {
				return nil, topology.GenerationErrorf(
					"Task %d is allocated on both core %d and core %d.",
					task, other, coreID)
			}

			taskCores[task] = coreID
		}

		mergeCatalogs(catalogs, r.catalogs)
	}

	if err := v.indexBorders(system, taskCores); err != nil {
		return nil, err
	}

	if err := checkTaskGraph(&system.TaskGraph); err != nil {
		return nil, err
	}

	system.SetTaskCoreMap(taskCores)
	system.MarkValidated()

	v.logger.Debug("System validated",
		"rows", system.Rows,
		"columns", system.Columns,
		"allocated_tasks", len(taskCores))

	return configurable(system, catalogs), nil
}

func checkShape(system *topology.System) error {
	if system == nil {
		return topology.GenerationErrorf("No system to validate.")
	}

	if system.Rows < 0 || system.Columns < 0 {
		return topology.GenerationErrorf(
			"Rows and columns must not be negative, got %d rows and %d columns.",
			system.Rows, system.Columns)
	}

	expected := system.Rows * system.Columns
	if len(system.Cores) != expected {
		return topology.GenerationErrorf(
			"Provided cores do not match the mesh size. A %dx%d mesh needs "+
				"%d cores, got %d. Check the rows and columns attributes.",
			system.Rows, system.Columns, expected, len(system.Cores))
	}

	return nil
}

// validateCores splits the cores into contiguous chunks and validates each
// chunk on its own goroutine. Every worker owns its sub-slice.
func (v *Validator) validateCores(system *topology.System) []chunkResult {
	n := len(system.Cores)
	if n == 0 {
		return nil
	}

	chunks := v.workers
	if chunks > n {
		chunks = n
	}

	size := (n + chunks - 1) / chunks
	chunks = (n + size - 1) / size

	v.logger.Debug("Validating cores",
		"cores", n, "chunks", chunks, "chunk_size", size)

	results := make([]chunkResult, chunks)

	var wg sync.WaitGroup

	for i := 0; i < chunks; i++ {
		start := i * size
		end := start + size
		if end > n {
			end = n
		}

		wg.Add(1)

		go func(slot int, start int, cores []topology.Core) {
			defer wg.Done()
			results[slot] = v.validateChunk(system, start, cores)
		}(i, start, system.Cores[start:end])
	}

	wg.Wait()

	return results
}

func (v *Validator) validateChunk(
	system *topology.System,
	start int,
	cores []topology.Core,
) (result chunkResult) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("Core validation worker panicked",
				"chunk_start", start, "panic", r)

			result = chunkResult{
				err: topology.GenerationErrorf("Concurrency error. Bailing..."),
			}
		}
	}()

	result.taskCores = make(map[uint16]int)
	result.catalogs = attributes.NewElementCatalogs()

	prev := start - 1
	for i := range cores {
		core := &cores[i]

		if v.inspect != nil {
			v.inspect(core)
		}

		if core.ID != prev+1 {
			result.err = topology.GenerationErrorf(
				"Core IDs must be incremental starting from 0. Was expecting "+
					"ID %d, got %d. Previously inspected core had ID %d.",
				prev+1, core.ID, prev)

			return result
		}

		prev = core.ID

		core.PopulateEdge(system.Columns, system.Rows)
		core.Router.ID = core.ID

		if task, ok := core.Task(); ok {
			if other, dup := result.taskCores[task]; dup {
				result.err = topology.GenerationErrorf(
					"Task %d is allocated on both core %d and core %d.",
					task, other, core.ID)

				return result
			}

			result.taskCores[task] = core.ID
		}

		result.catalogs.AddCore(core)
	}

	return result
}

func mergeCatalogs(dst, src attributes.ElementCatalogs) {
	dst.Core.Merge(src.Core)
	dst.Router.Merge(src.Router)
	dst.Channel.Merge(src.Channel)
}

func (v *Validator) indexBorders(
	system *topology.System,
	taskCores map[uint16]int,
) error {
	if system.Borders == nil {
		return nil
	}

	edgeOf := func(coreID int) (topology.EdgePosition, bool) {
		if coreID < 0 || coreID >= len(system.Cores) {
			return topology.Interior, false
		}

		return system.Cores[coreID].Edge()
	}

	allocated := func(task uint16) bool {
		_, ok := taskCores[task]
		return ok
	}

	if err := system.Borders.BuildIndex(edgeOf, allocated); err != nil {
		return err
	}

	v.logger.Debug("Borders indexed",
		"sources", len(system.Borders.Sources),
		"sinks", len(system.Borders.Sinks))

	return nil
}

func checkTaskGraph(graph *topology.TaskGraph) error {
	seen := make(map[uint16]struct{}, len(graph.Tasks))
	for _, t := range graph.Tasks {
		if _, dup := seen[t.ID]; dup {
			return topology.GenerationErrorf(
				"Malformed TaskGraph: Task %d is declared more than once.", t.ID)
		}

		seen[t.ID] = struct{}{}
	}

	return nil
}

func configurable(
	system *topology.System,
	catalogs attributes.ElementCatalogs,
) *attributes.Configurable {
	conf := attributes.NewConfigurable()

	conf.Core.InsertManual(attributes.IDKey, attributes.Text)
	conf.Core.InsertManual(attributes.CoordinatesKey, attributes.Coordinates)
	conf.Core.InsertManual(attributes.TaskCostKey, attributes.Boolean)

	conf.Channel.InsertManual(attributes.RoutingKey, attributes.Routing)
	if system.Borders != nil {
		conf.Channel.InsertManual(attributes.BorderRoutersKey, attributes.Boolean)
	}

	catalogs.MergeInto(conf)

	conf.Algorithms = routing.SupportedAlgorithmNames()
	conf.ObservedAlgorithm = system.ObservedAlgorithm

	return conf
}
