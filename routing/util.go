package routing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/manycore/topology"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// RenderLoads renders the channel and source loads of every core that carries
// any load as a table.
func RenderLoads(system *topology.System, report *Report) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Loads (%s)", report.Algorithm))

	header := table.Row{"Core"}
	for _, d := range topology.AllDirections {
		header = append(header, d.Name())
	}

	header = append(header, "Source", "Sink")
	t.AppendHeader(header)

	for _, id := range report.CoreIDs() {
		core, err := system.Core(id)
		if err != nil {
			continue
		}

		row := table.Row{fmt.Sprintf("c%d", id)}
		for _, d := range topology.AllDirections {
			ch, ok := core.Channels[d]
			if !ok {
				row = append(row, "-")
				continue
			}

			row = append(row, fmt.Sprintf("%d/%d", ch.CurrentLoad(), ch.Bandwidth))
		}

		usage := report.UsageOf(id)
		row = append(row, sourceCell(core, usage.Source), sinkCell(usage.Sink))
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{"Total", system.TotalLoad()})

	return t.Render()
}

func sourceCell(core *topology.Core, used topology.DirectionSet) string {
	if used.Len() == 0 {
		return ""
	}

	s := ""
	for i, d := range used.Directions() {
		if i > 0 {
			s += " "
		}

		l, _ := core.SourceLoad(d)
		s += fmt.Sprintf("%s=%d", d.Name(), l)
	}

	return s
}

func sinkCell(used topology.DirectionSet) string {
	if used.Len() == 0 {
		return ""
	}

	return used.String()
}
