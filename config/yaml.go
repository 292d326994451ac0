package config

import (
	"io"

	"github.com/sarchlab/manycore/topology"
	"gopkg.in/yaml.v3"
)

type yamlSystem struct {
	Rows        int               `yaml:"rows"`
	Columns     int               `yaml:"columns"`
	RoutingAlgo string            `yaml:"routingAlgo,omitempty"`
	TaskGraph   yamlTaskGraph     `yaml:"taskGraph"`
	Cores       []yamlCore        `yaml:"cores"`
	Borders     *yamlBorders      `yaml:"borders,omitempty"`
	Namespace   map[string]string `yaml:"namespace,omitempty"`
}

type yamlTaskGraph struct {
	Tasks []yamlTask `yaml:"tasks"`
	Edges []yamlEdge `yaml:"edges"`
}

type yamlTask struct {
	ID              uint16 `yaml:"id"`
	ComputationCost uint16 `yaml:"computationCost"`
}

type yamlEdge struct {
	From              uint16 `yaml:"from"`
	To                uint16 `yaml:"to"`
	CommunicationCost uint16 `yaml:"communicationCost"`
}

type yamlCore struct {
	ID            int               `yaml:"id"`
	AllocatedTask *uint16           `yaml:"allocatedTask,omitempty"`
	Attributes    map[string]string `yaml:"attributes,omitempty"`
	Router        yamlRouter        `yaml:"router,omitempty"`
	Channels      []yamlChannel     `yaml:"channels"`
}

type yamlRouter struct {
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

type yamlChannel struct {
	Direction     string            `yaml:"direction"`
	ActualComCost uint16            `yaml:"actualComCost"`
	Bandwidth     uint16            `yaml:"bandwidth"`
	Attributes    map[string]string `yaml:"attributes,omitempty"`
}

type yamlBorders struct {
	Sources []yamlSource `yaml:"sources,omitempty"`
	Sinks   []yamlSink   `yaml:"sinks,omitempty"`
}

type yamlSource struct {
	CoreID        int    `yaml:"coreID"`
	Direction     string `yaml:"direction"`
	TaskID        uint16 `yaml:"taskID"`
	ActualComCost uint16 `yaml:"actualComCost,omitempty"`
}

type yamlSink struct {
	CoreID    int    `yaml:"coreID"`
	Direction string `yaml:"direction"`
	TaskID    uint16 `yaml:"taskID"`
}

// DecodeYAML reads a raw system from its YAML configuration.
func DecodeYAML(r io.Reader) (*topology.System, error) {
	var doc yamlSystem
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, topology.GenerationErrorf("could not parse YAML: %v", err)
	}

	sys := &topology.System{
		Rows:              doc.Rows,
		Columns:           doc.Columns,
		ObservedAlgorithm: doc.RoutingAlgo,
		Namespace:         doc.Namespace,
		Cores:             make([]topology.Core, 0, len(doc.Cores)),
	}

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

	for _, c := range doc.Cores {
		channels := make([]*topology.Channel, 0, len(c.Channels))
		seen := topology.DirectionSet(0)

		for _, yc := range c.Channels {
			d, err := parseDirection(yc.Direction)
			if err != nil {
				return nil, err
			}

			if seen.Has(d) {
				return nil, topology.GenerationErrorf(
					"Core %d has more than one %s channel.", c.ID, d)
			}

			seen = seen.Add(d)

			ch := topology.NewChannel(d, yc.Bandwidth, yc.ActualComCost)
			ch.Attributes = yc.Attributes
			channels = append(channels, ch)
		}

		sys.Cores = append(sys.Cores, topology.Core{
			ID:            c.ID,
			Router:        topology.Router{ID: c.ID, Attributes: c.Router.Attributes},
			Channels:      topology.NewChannels(channels...),
			AllocatedTask: c.AllocatedTask,
			Attributes:    c.Attributes,
		})
	}

	if doc.Borders != nil {
		borders, err := yamlToBorders(doc.Borders)
		if err != nil {
			return nil, err
		}

		sys.Borders = borders
	}

	return sys, nil
}

func yamlToBorders(b *yamlBorders) (*topology.Borders, error) {
	sources := make([]topology.Source, 0, len(b.Sources))
	for _, s := range b.Sources {
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

	sinks := make([]topology.Sink, 0, len(b.Sinks))
	for _, s := range b.Sinks {
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

// EncodeYAML writes the system in its YAML configuration format.
func EncodeYAML(w io.Writer, sys *topology.System) error {
	doc := yamlSystem{
		Rows:        sys.Rows,
		Columns:     sys.Columns,
		RoutingAlgo: sys.ObservedAlgorithm,
		Namespace:   sys.Namespace,
		TaskGraph: yamlTaskGraph{
			Tasks: []yamlTask{},
			Edges: []yamlEdge{},
		},
		Cores: make([]yamlCore, 0, len(sys.Cores)),
	}

	for _, t := range sys.TaskGraph.Tasks {
		doc.TaskGraph.Tasks = append(doc.TaskGraph.Tasks,
			yamlTask{ID: t.ID, ComputationCost: t.ComputationCost})
	}

	for _, e := range sys.TaskGraph.Edges {
		doc.TaskGraph.Edges = append(doc.TaskGraph.Edges, yamlEdge{
			From:              e.From,
			To:                e.To,
			CommunicationCost: e.CommunicationCost,
		})
	}

	for i := range sys.Cores {
		c := &sys.Cores[i]

		yc := yamlCore{
			ID:            c.ID,
			AllocatedTask: c.AllocatedTask,
			Attributes:    c.Attributes,
			Router:        yamlRouter{Attributes: c.Router.Attributes},
			Channels:      []yamlChannel{},
		}

		for _, ch := range c.Channels.Sorted() {
			yc.Channels = append(yc.Channels, yamlChannel{
				Direction:     ch.Direction.Name(),
				ActualComCost: ch.ActualComCost,
				Bandwidth:     ch.Bandwidth,
				Attributes:    ch.Attributes,
			})
		}

		doc.Cores = append(doc.Cores, yc)
	}

	if sys.Borders != nil {
		doc.Borders = &yamlBorders{}

		for _, s := range sys.Borders.Sources {
			doc.Borders.Sources = append(doc.Borders.Sources, yamlSource{
				CoreID:        s.CoreID,
				Direction:     s.Direction.Name(),
				TaskID:        s.TaskID,
				ActualComCost: s.ActualComCost,
			})
		}

		for _, s := range sys.Borders.Sinks {
			doc.Borders.Sinks = append(doc.Borders.Sinks, yamlSink{
				CoreID:    s.CoreID,
				Direction: s.Direction.Name(),
				TaskID:    s.TaskID,
			})
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return err
	}

	return enc.Close()
}
