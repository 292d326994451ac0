package topology

// A System is a manycore mesh together with the task graph mapped onto it.
//
// A freshly loaded System is raw: its indices are empty and it must go
// through ingestion before it can be routed.
type System struct {
	Rows    int
	Columns int

	// ObservedAlgorithm names the routing algorithm that produced the
	// channels' ActualComCost values, if known.
	ObservedAlgorithm string

	TaskGraph TaskGraph
	Cores     []Core
	Borders   *Borders

	// Namespace holds root attributes (xmlns and friends) that are only
	// carried through to re-encoding.
	Namespace map[string]string

	taskCoreMap map[uint16]int
	validated   bool
}

// Core returns the core with the given id. Ids match slot positions once the
// system has been validated.
func (s *System) Core(id int) (*Core, error) {
	if id < 0 || id >= len(s.Cores) {
		return nil, RoutingErrorf("Could not get a core with ID %d.", id)
	}

	return &s.Cores[id], nil
}

// TaskCoreMap maps an allocated task id to the id of its core.
func (s *System) TaskCoreMap() map[uint16]int {
	return s.taskCoreMap
}

// SetTaskCoreMap replaces the task to core index.
func (s *System) SetTaskCoreMap(m map[uint16]int) {
	s.taskCoreMap = m
}

// CoreOfTask returns the id of the core the task is allocated on.
func (s *System) CoreOfTask(taskID uint16) (int, bool) {
	id, ok := s.taskCoreMap[taskID]
	return id, ok
}

// MarkValidated records that every index has been built.
func (s *System) MarkValidated() {
	s.validated = true
}

// Validated tells if the system went through ingestion successfully.
func (s *System) Validated() bool {
	return s.validated
}

// ClearLoads resets every channel load and every source load.
func (s *System) ClearLoads() {
	for i := range s.Cores {
		s.Cores[i].Channels.ClearLoads()
		s.Cores[i].ClearSourceLoads()
	}
}

// TotalLoad sums the load of every channel.
func (s *System) TotalLoad() uint64 {
	var total uint64
	for i := range s.Cores {
		for _, ch := range s.Cores[i].Channels {
			total += uint64(ch.CurrentLoad())
		}
	}

	return total
}
