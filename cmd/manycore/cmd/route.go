package cmd

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/manycore/loadstore"
	"github.com/sarchlab/manycore/routing"
	"github.com/sarchlab/manycore/topology"
)

var (
	routeAlgorithm string
	routeFormat    string
	routeRecord    string
)

// routeSummary is the machine readable outcome of a routing pass.
type routeSummary struct {
	XMLName    xml.Name        `xml:"RoutingResult" yaml:"-"`
	Algorithm  string          `xml:"algorithm,attr" yaml:"algorithm"`
	TotalLoad  uint64          `xml:"totalLoad,attr" yaml:"totalLoad"`
	SourceLoad uint64          `xml:"sourceLoad,attr" yaml:"sourceLoad"`
	Channels   []channelLoad   `xml:"Channels>Channel" yaml:"channels"`
	Events     []routing.Event `xml:"Events>Event" yaml:"events"`
}

type channelLoad struct {
	Core      int                `xml:"core,attr" yaml:"core"`
	Direction topology.Direction `xml:"direction,attr" yaml:"direction"`
	Load      uint16             `xml:"load,attr" yaml:"load"`
	Bandwidth uint16             `xml:"bandwidth,attr" yaml:"bandwidth"`
}

func summarize(sys *topology.System, report *routing.Report) routeSummary {
	s := routeSummary{
		Algorithm:  report.Algorithm.String(),
		TotalLoad:  sys.TotalLoad(),
		SourceLoad: report.TotalLoad(routing.SourceEvent),
		Events:     report.Events,
	}

	for i := range sys.Cores {
		for _, ch := range sys.Cores[i].Channels.Sorted() {
			if ch.CurrentLoad() == 0 {
				continue
			}

			s.Channels = append(s.Channels, channelLoad{
				Core:      sys.Cores[i].ID,
				Direction: ch.Direction,
				Load:      ch.CurrentLoad(),
				Bandwidth: ch.Bandwidth,
			})
		}
	}

	return s
}

func writeRouting(
	w io.Writer,
	format string,
	sys *topology.System,
	report *routing.Report,
) error {
	switch format {
	case "table":
		fmt.Fprintln(w, routing.RenderLoads(sys, report))
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(summarize(sys, report)); err != nil {
			return err
		}

		return enc.Close()
	case "xml":
		enc := xml.NewEncoder(w)
		enc.Indent("", "    ")

		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}

		if err := enc.Encode(summarize(sys, report)); err != nil {
			return err
		}

		_, err := io.WriteString(w, "\n")

		return err
	default:
		return fmt.Errorf("unknown output format %q, expecting table, yaml or xml",
			format)
	}
}

var routeCmd = &cobra.Command{
	Use:   "route FILE",
	Short: "Route the task graph and print the channel loads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, _, err := loadValidated(args[0])
		if err != nil {
			return err
		}

		algorithm, err := pickAlgorithm(routeAlgorithm, sys)
		if err != nil {
			return err
		}

		report, err := routing.Builder{}.WithSystem(sys).Build().Route(algorithm)
		if err != nil {
			return err
		}

		if err := writeRouting(cmd.OutOrStdout(), routeFormat, sys, report); err != nil {
			return err
		}

		if routeRecord == "" {
			return nil
		}

		store, err := loadstore.New(routeRecord)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.RecordPass(sys, report)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Recorded pass %s in %s\n", id, store.Path())

		return nil
	},
}

func init() {
	routeCmd.Flags().StringVarP(&routeAlgorithm, "algorithm", "a", "",
		"routing algorithm, defaults to the observed one")
	routeCmd.Flags().StringVarP(&routeFormat, "format", "f", "table",
		"output format: table, yaml or xml")
	routeCmd.Flags().StringVar(&routeRecord, "record", "",
		"record the pass in this SQLite database")
	rootCmd.AddCommand(routeCmd)
}
