package topology

// A Task is a node of the task graph.
type Task struct {
	ID              uint16
	ComputationCost uint16
}

// An Edge is a directed data transfer between two tasks.
type Edge struct {
	From              uint16
	To                uint16
	CommunicationCost uint16
}

// TaskGraph describes the communication requirements to map onto the mesh.
type TaskGraph struct {
	Tasks []Task
	Edges []Edge
}

// Task finds a task by id.
func (g *TaskGraph) Task(id uint16) (Task, bool) {
	for _, t := range g.Tasks {
		if t.ID == id {
			return t, true
		}
	}

	return Task{}, false
}

// EdgesFrom returns the edges leaving a task, in graph order.
func (g *TaskGraph) EdgesFrom(id uint16) []Edge {
	var edges []Edge
	for _, e := range g.Edges {
		if e.From == id {
			edges = append(edges, e)
		}
	}

	return edges
}
