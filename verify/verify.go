// Package verify checks the loads a routing pass left on a mesh.
//
// Three kinds of issues are reported:
//
//	OVERLOAD  a channel carries more load than its bandwidth
//	STRUCT    load leaves the mesh through a side that has no sink attached
//	DRIFT     a routed load differs from the observed load of the algorithm
//	          that produced the observation
package verify

import (
	"fmt"

	"github.com/sarchlab/manycore/topology"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueOverload IssueType = "OVERLOAD" // Load above bandwidth
	IssueStruct   IssueType = "STRUCT"   // Load leaving the mesh nowhere
	IssueDrift    IssueType = "DRIFT"    // Routed and observed loads disagree
)

// Issue represents a single lint issue
type Issue struct {
	Type      IssueType          // OVERLOAD, STRUCT or DRIFT
	CoreID    int                // Core owning the channel
	Row       int                // Row of the core
	Column    int                // Column of the core
	Direction topology.Direction // Channel direction
	Message   string             // Human-readable description
	Details   map[string]interface{}
}

// Location renders where the issue is, e.g. "c4(1,1) North".
func (i Issue) Location() string {
	return fmt.Sprintf("c%d(%d,%d) %s", i.CoreID, i.Row, i.Column, i.Direction)
}

// ArchInfo describes the mesh the loads were computed on.
type ArchInfo struct {
	Rows              int
	Columns           int
	Topology          string
	ObservedAlgorithm string
}

// LoadArchInfo extracts the ArchInfo of a system.
func LoadArchInfo(sys *topology.System) *ArchInfo {
	return &ArchInfo{
		Rows:              sys.Rows,
		Columns:           sys.Columns,
		Topology:          "mesh",
		ObservedAlgorithm: sys.ObservedAlgorithm,
	}
}
