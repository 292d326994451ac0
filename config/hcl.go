package config

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/sarchlab/manycore/topology"
	"github.com/zclconf/go-cty/cty"
)

// hclSystem is the top level structure of an HCL mesh description.
type hclSystem struct {
	Rows        int           `hcl:"rows"`
	Columns     int           `hcl:"columns"`
	RoutingAlgo string        `hcl:"routing_algo,optional"`
	TaskGraph   *hclTaskGraph `hcl:"task_graph,block"`
	Cores       []*hclCore    `hcl:"core,block"`
	Sources     []*hclSource  `hcl:"source,block"`
	Sinks       []*hclSink    `hcl:"sink,block"`
}

type hclTaskGraph struct {
	Tasks []*hclTask `hcl:"task,block"`
	Edges []*hclEdge `hcl:"edge,block"`
}

type hclTask struct {
	ID              uint16 `hcl:"id"`
	ComputationCost uint16 `hcl:"computation_cost,optional"`
}

type hclEdge struct {
	From              uint16 `hcl:"from"`
	To                uint16 `hcl:"to"`
	CommunicationCost uint16 `hcl:"communication_cost"`
}

type hclCore struct {
	ID            int               `hcl:"id"`
	AllocatedTask *uint16           `hcl:"allocated_task,optional"`
	Attributes    map[string]string `hcl:"attributes,optional"`
	Router        *hclRouter        `hcl:"router,block"`
	Channels      []*hclChannel     `hcl:"channel,block"`
}

type hclRouter struct {
	Attributes map[string]string `hcl:"attributes,optional"`
}

type hclChannel struct {
	Direction     string            `hcl:"direction,label"`
	Bandwidth     uint16            `hcl:"bandwidth"`
	ActualComCost uint16            `hcl:"actual_com_cost,optional"`
	Attributes    map[string]string `hcl:"attributes,optional"`
}

type hclSource struct {
	CoreID        int    `hcl:"core"`
	Direction     string `hcl:"direction"`
	TaskID        uint16 `hcl:"task"`
	ActualComCost uint16 `hcl:"actual_com_cost,optional"`
}

type hclSink struct {
	CoreID    int    `hcl:"core"`
	Direction string `hcl:"direction"`
	TaskID    uint16 `hcl:"task"`
}

// DecodeHCL reads a raw system from an HCL mesh description. The filename is
// only used in diagnostics.
func DecodeHCL(filename string, src []byte) (*topology.System, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, topology.GenerationErrorf(
			"failed to parse HCL file %s: %s", filename, diags.Error())
	}

	var doc hclSystem
	diags = gohcl.DecodeBody(file.Body, evalContext(), &doc)
	if diags.HasErrors() {
		return nil, topology.GenerationErrorf(
			"failed to decode HCL file %s: %s", filename, diags.Error())
	}

	sys := &topology.System{
		Rows:              doc.Rows,
		Columns:           doc.Columns,
		ObservedAlgorithm: doc.RoutingAlgo,
		Cores:             make([]topology.Core, 0, len(doc.Cores)),
	}

	if doc.TaskGraph != nil {
		for _, t := range doc.TaskGraph.Tasks {
			sys.TaskGraph.Tasks = append(sys.TaskGraph.Tasks,
				topology.Task{ID: t.ID, ComputationCost: t.ComputationCost})
		}

		for _, e := range doc.TaskGraph.Edges {
			sys.TaskGraph.Edges = append(sys.TaskGraph.Edges, topology.Edge{
				From:              e.From,
				To:                e.To,
				CommunicationCost: e.CommunicationCost,
			})
		}
	}

	for _, c := range doc.Cores {
		core, err := hclToCore(c)
		if err != nil {
			return nil, err
		}

		sys.Cores = append(sys.Cores, core)
	}

	if len(doc.Sources) > 0 || len(doc.Sinks) > 0 {
		borders, err := hclToBorders(doc.Sources, doc.Sinks)
		if err != nil {
			return nil, err
		}

		sys.Borders = borders
	}

	return sys, nil
}

// evalContext lets border blocks name their side as direction.north and so
// on instead of a quoted string.
func evalContext() *hcl.EvalContext {
	dirs := make(map[string]cty.Value, topology.NumDirections)
	for _, d := range topology.AllDirections {
		dirs[strings.ToLower(d.Name())] = cty.StringVal(d.Name())
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"direction": cty.ObjectVal(dirs),
		},
	}
}

func hclToCore(c *hclCore) (topology.Core, error) {
	channels := make([]*topology.Channel, 0, len(c.Channels))
	seen := topology.DirectionSet(0)

	for _, hc := range c.Channels {
		d, err := parseDirection(hc.Direction)
		if err != nil {
			return topology.Core{}, err
		}

		if seen.Has(d) {
			return topology.Core{}, topology.GenerationErrorf(
				"Core %d has more than one %s channel.", c.ID, d)
		}

		seen = seen.Add(d)

		ch := topology.NewChannel(d, hc.Bandwidth, hc.ActualComCost)
		ch.Attributes = hc.Attributes
		channels = append(channels, ch)
	}

	router := topology.Router{ID: c.ID}
	if c.Router != nil {
		router.Attributes = c.Router.Attributes
	}

	return topology.Core{
		ID:            c.ID,
		Router:        router,
		Channels:      topology.NewChannels(channels...),
		AllocatedTask: c.AllocatedTask,
		Attributes:    c.Attributes,
	}, nil
}

func hclToBorders(
	hclSources []*hclSource,
	hclSinks []*hclSink,
) (*topology.Borders, error) {
	sources := make([]topology.Source, 0, len(hclSources))
	for _, s := range hclSources {
		d, err := parseDirection(s.Direction)
		if err != nil {
			return nil, err
		}

		sources = append(sources, topology.Source{
			CoreID:        s.CoreID,
			Direction:     d,
			TaskID:        s.TaskID,
			ActualComCost: s.ActualComCost,
		})
	}

	sinks := make([]topology.Sink, 0, len(hclSinks))
	for _, s := range hclSinks {
		d, err := parseDirection(s.Direction)
		if err != nil {
			return nil, err
		}

		sinks = append(sinks, topology.Sink{
			CoreID:    s.CoreID,
			Direction: d,
			TaskID:    s.TaskID,
		})
	}

	return topology.NewBorders(sources, sinks), nil
}
