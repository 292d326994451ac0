package verify

import (
	"fmt"
	"sort"

	"github.com/sarchlab/manycore/routing"
	"github.com/sarchlab/manycore/topology"
)

// RunLint checks the channel loads of a routed system. The report must come
// from the last routing pass on the system.
// Returns a list of issues found, or empty list if no issues.
func RunLint(sys *topology.System, report *routing.Report) []Issue {
	var issues []Issue

	checkDrift := report != nil &&
		report.Algorithm != routing.Observed &&
		sys.ObservedAlgorithm == report.Algorithm.String()

	for i := range sys.Cores {
		core := &sys.Cores[i]
		row, col := core.Coordinates(sys.Columns)

		for _, ch := range core.Channels.Sorted() {
			issue := Issue{
				CoreID:    core.ID,
				Row:       row,
				Column:    col,
				Direction: ch.Direction,
			}

			load := ch.CurrentLoad()

			if load > ch.Bandwidth {
				issue.Type = IssueOverload
				issue.Message = fmt.Sprintf(
					"Channel overloaded: %d exceeds the bandwidth of %d",
					load, ch.Bandwidth)
				issue.Details = map[string]interface{}{
					"load":      load,
					"bandwidth": ch.Bandwidth,
				}
				issues = append(issues, issue)
			}

			if load > 0 && leavesMesh(sys, core, ch.Direction) {
				issue.Type = IssueStruct
				issue.Message = fmt.Sprintf(
					"Load of %d leaves the mesh with no sink attached", load)
				issue.Details = map[string]interface{}{"load": load}
				issues = append(issues, issue)
			}

			if checkDrift && load != ch.ActualComCost {
				issue.Type = IssueDrift
				issue.Message = fmt.Sprintf(
					"Routed load %d differs from the observed load %d",
					load, ch.ActualComCost)
				issue.Details = map[string]interface{}{
					"routed":   load,
					"observed": ch.ActualComCost,
				}
				issues = append(issues, issue)
			}
		}
	}

	sortIssues(issues)

	return issues
}

// leavesMesh tells if a channel points out of the mesh without feeding a sink.
func leavesMesh(
	sys *topology.System,
	core *topology.Core,
	d topology.Direction,
) bool {
	edge, ok := core.Edge()
	if !ok {
		edge = topology.CalculateEdge(core.ID, sys.Columns, sys.Rows)
	}

	if !edge.Permits(d) {
		return false
	}

	if sys.Borders == nil {
		return true
	}

	entry, ok := sys.Borders.At(core.ID, d)

	return !ok || entry.Kind != topology.SinkEntry
}

func sortIssues(issues []Issue) {
	rank := map[IssueType]int{IssueOverload: 0, IssueStruct: 1, IssueDrift: 2}

	sort.SliceStable(issues, func(i, j int) bool {
		if rank[issues[i].Type] != rank[issues[j].Type] {
			return rank[issues[i].Type] < rank[issues[j].Type]
		}

		if issues[i].CoreID != issues[j].CoreID {
			return issues[i].CoreID < issues[j].CoreID
		}

		return issues[i].Direction < issues[j].Direction
	})
}
