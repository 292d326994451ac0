package topology

// A Router sits next to each core. The model carries no routing state in it;
// its id mirrors the owning core once the system has been validated.
type Router struct {
	ID         int
	Attributes map[string]string
}

// Kind returns KindRouter.
func (r *Router) Kind() ElementKind {
	return KindRouter
}

// ExtraAttributes returns the attributes that are not part of the model.
func (r *Router) ExtraAttributes() map[string]string {
	return r.Attributes
}

// A Core is a compute core in the mesh.
type Core struct {
	ID            int
	Router        Router
	Channels      Channels
	AllocatedTask *uint16
	Attributes    map[string]string

	edge        EdgePosition
	classified  bool
	sourceLoads map[Direction]uint16
}

// Kind returns KindCore.
func (c *Core) Kind() ElementKind {
	return KindCore
}

// ExtraAttributes returns the attributes that are not part of the model.
func (c *Core) ExtraAttributes() map[string]string {
	return c.Attributes
}

// Task returns the allocated task, if any.
func (c *Core) Task() (uint16, bool) {
	if c.AllocatedTask == nil {
		return 0, false
	}

	return *c.AllocatedTask, true
}

// PopulateEdge records where on the mesh boundary the core sits.
func (c *Core) PopulateEdge(columns, rows int) {
	c.edge = CalculateEdge(c.ID, columns, rows)
	c.classified = true
}

// Edge returns the boundary classification. The second return value is false
// until PopulateEdge has been called.
func (c *Core) Edge() (EdgePosition, bool) {
	return c.edge, c.classified
}

// Coordinates converts the core id into a row and a column.
func (c *Core) Coordinates(columns int) (row, column int) {
	return c.ID / columns, c.ID % columns
}

// AddSourceLoad adds load entering the core from a Source in direction d.
func (c *Core) AddSourceLoad(load uint16, d Direction) error {
	if !c.classified || !c.edge.IsBoundary() {
		return RoutingErrorf(
			"Malformed TaskGraph: Attempted to add load from a Source on "+
				"Core with ID %d. The Core is not on the matrix edge.", c.ID)
	}

	if !c.edge.Permits(d) {
		return RoutingErrorf(
			"Malformed TaskGraph: Core with ID %d (%s) has no %s border.",
			c.ID, c.edge, d)
	}

	if c.sourceLoads == nil {
		c.sourceLoads = make(map[Direction]uint16)
	}

	c.sourceLoads[d] = saturatingAdd(c.sourceLoads[d], load)

	return nil
}

// SourceLoads returns a copy of the loads entering the core from Sources, or
// nil if there are none.
func (c *Core) SourceLoads() map[Direction]uint16 {
	if c.sourceLoads == nil {
		return nil
	}

	loads := make(map[Direction]uint16, len(c.sourceLoads))
	for d, l := range c.sourceLoads {
		loads[d] = l
	}

	return loads
}

// SourceLoad returns the load entering the core from direction d.
func (c *Core) SourceLoad(d Direction) (uint16, bool) {
	l, ok := c.sourceLoads[d]
	return l, ok
}

// ClearSourceLoads drops all source loads.
func (c *Core) ClearSourceLoads() {
	c.sourceLoads = nil
}
