package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/manycore/routing"
	"github.com/sarchlab/manycore/topology"
)

// LoadReport represents a complete load verification report
type LoadReport struct {
	Algorithm      routing.Algorithm
	Arch           *ArchInfo
	UsedCores      int
	TotalLoad      uint64
	SourceLoad     uint64
	LintIssues     []Issue
	OverloadIssues []Issue
	StructIssues   []Issue
	DriftIssues    []Issue
}

// GenerateReport runs the lint on a routed system and returns a report
func GenerateReport(sys *topology.System, report *routing.Report) *LoadReport {
	r := &LoadReport{
		Algorithm:  report.Algorithm,
		Arch:       LoadArchInfo(sys),
		UsedCores:  len(report.Usage),
		TotalLoad:  sys.TotalLoad(),
		SourceLoad: report.TotalLoad(routing.SourceEvent),
	}

	r.LintIssues = RunLint(sys, report)

	for _, issue := range r.LintIssues {
		switch issue.Type {
		case IssueOverload:
			r.OverloadIssues = append(r.OverloadIssues, issue)
		case IssueStruct:
			r.StructIssues = append(r.StructIssues, issue)
		case IssueDrift:
			r.DriftIssues = append(r.DriftIssues, issue)
		}
	}

	return r
}

// Passed tells if no channel is overloaded and no load gets lost.
func (r *LoadReport) Passed() bool {
	return len(r.OverloadIssues) == 0 && len(r.StructIssues) == 0
}

// WriteReport writes a formatted report to a writer
func (r *LoadReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "MANYCORE LOAD VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\nMesh: %dx%d %s\n", r.Arch.Rows, r.Arch.Columns, r.Arch.Topology)
	fmt.Fprintf(w, "Algorithm: %s\n", r.Algorithm)
	if r.Arch.ObservedAlgorithm != "" {
		fmt.Fprintf(w, "Observed algorithm: %s\n", r.Arch.ObservedAlgorithm)
	}
	fmt.Fprintf(w, "Cores used: %d\n", r.UsedCores)
	fmt.Fprintf(w, "Channel load: %d\n", r.TotalLoad)
	fmt.Fprintf(w, "Source load: %d\n", r.SourceLoad)

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "LINT")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues (%d OVERLOAD, %d STRUCT, %d DRIFT):\n\n",
			len(r.LintIssues), len(r.OverloadIssues), len(r.StructIssues),
			len(r.DriftIssues))

		t := table.NewWriter()
		t.AppendHeader(table.Row{"#", "Type", "Location", "Message"})
		for i, issue := range r.LintIssues {
			t.AppendRow(table.Row{i + 1, issue.Type, issue.Location(), issue.Message})
		}

		fmt.Fprintln(w, t.Render())
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "RECOMMENDATION")
	fmt.Fprintln(w, separator)

	if r.Passed() {
		fmt.Fprintln(w, "✓ ROUTING PASSED ALL CHECKS")
	} else {
		fmt.Fprintln(w, "⚠ ROUTING VIOLATIONS DETECTED")
		fmt.Fprintln(w, "Consider:")
		fmt.Fprintln(w, "  1. Moving communicating tasks closer together")
		fmt.Fprintln(w, "  2. Trying another routing algorithm")
		fmt.Fprintln(w, "  3. Attaching sinks to the sides that receive load")
	}

	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file
func (r *LoadReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
