package config

import (
	"encoding/xml"
	"io"
	"sort"

	"github.com/sarchlab/manycore/topology"
)

const xmlIndent = "    "

type xmlSystem struct {
	XMLName     xml.Name     `xml:"SystemConfiguration"`
	Namespace   []xml.Attr   `xml:",any,attr"`
	Rows        int          `xml:"rows,attr"`
	Columns     int          `xml:"columns,attr"`
	RoutingAlgo string       `xml:"routingAlgo,attr,omitempty"`
	TaskGraph   xmlTaskGraph `xml:"TaskGraph"`
	Cores       xmlCores     `xml:"Cores"`
	Borders     *xmlBorders  `xml:"Borders,omitempty"`
}

type xmlTaskGraph struct {
	Tasks []xmlTask `xml:"Task"`
	Edges []xmlEdge `xml:"Edge"`
}

type xmlTask struct {
	ID              uint16 `xml:"id,attr"`
	ComputationCost uint16 `xml:"computationCost,attr"`
}

type xmlEdge struct {
	From              uint16 `xml:"from,attr"`
	To                uint16 `xml:"to,attr"`
	CommunicationCost uint16 `xml:"communicationCost,attr"`
}

type xmlCores struct {
	Cores []xmlCore `xml:"Core"`
}

type xmlCore struct {
	ID            int         `xml:"id,attr"`
	AllocatedTask *uint16     `xml:"allocatedTask,attr,omitempty"`
	Attrs         []xml.Attr  `xml:",any,attr"`
	Router        xmlRouter   `xml:"Router"`
	Channels      xmlChannels `xml:"Channels"`
}

type xmlRouter struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type xmlChannels struct {
	Channels []xmlChannel `xml:"Channel"`
}

type xmlChannel struct {
	Direction     string     `xml:"direction,attr"`
	ActualComCost uint16     `xml:"actualComCost,attr"`
	Bandwidth     uint16     `xml:"bandwidth,attr"`
	Attrs         []xml.Attr `xml:",any,attr"`
}

type xmlBorders struct {
	Sources []xmlSource `xml:"Source"`
	Sinks   []xmlSink   `xml:"Sink"`
}

type xmlSource struct {
	CoreID        int    `xml:"coreID,attr"`
	Direction     string `xml:"direction,attr"`
	TaskID        uint16 `xml:"taskid,attr"`
	ActualComCost uint16 `xml:"actualComCost,attr,omitempty"`
}

type xmlSink struct {
	CoreID    int    `xml:"coreID,attr"`
	Direction string `xml:"direction,attr"`
	TaskID    uint16 `xml:"taskid,attr"`
}

// DecodeXML reads a raw system from its XML configuration.
func DecodeXML(r io.Reader) (*topology.System, error) {
	var doc xmlSystem
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, topology.GenerationErrorf("could not parse XML: %v", err)
	}

	sys := &topology.System{
		Rows:              doc.Rows,
		Columns:           doc.Columns,
		ObservedAlgorithm: doc.RoutingAlgo,
		Namespace:         namespaceAttrs(doc.Namespace),
		Cores:             make([]topology.Core, 0, len(doc.Cores.Cores)),
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

	for _, c := range doc.Cores.Cores {
		core, err := xmlToCore(c)
		if err != nil {
			return nil, err
		}

		sys.Cores = append(sys.Cores, core)
	}

	if doc.Borders != nil {
		borders, err := xmlToBorders(doc.Borders)
		if err != nil {
			return nil, err
		}

		sys.Borders = borders
	}

	return sys, nil
}

func xmlToCore(c xmlCore) (topology.Core, error) {
	channels := make([]*topology.Channel, 0, len(c.Channels.Channels))
	seen := topology.DirectionSet(0)

	for _, xc := range c.Channels.Channels {
		d, err := parseDirection(xc.Direction)
		if err != nil {
			return topology.Core{}, err
		}

		if seen.Has(d) {
			return topology.Core{}, topology.GenerationErrorf(
				"Core %d has more than one %s channel.", c.ID, d)
		}

		seen = seen.Add(d)

		ch := topology.NewChannel(d, xc.Bandwidth, xc.ActualComCost)
		ch.Attributes = attrMap(xc.Attrs)
		channels = append(channels, ch)
	}

	return topology.Core{
		ID:            c.ID,
		Router:        topology.Router{ID: c.ID, Attributes: attrMap(c.Router.Attrs)},
		Channels:      topology.NewChannels(channels...),
		AllocatedTask: c.AllocatedTask,
		Attributes:    attrMap(c.Attrs),
	}, nil
}

func xmlToBorders(b *xmlBorders) (*topology.Borders, error) {
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

func parseDirection(s string) (topology.Direction, error) {
	d, err := topology.ParseDirection(s)
	if err != nil {
		return 0, topology.GenerationErrorf("invalid direction %q", s)
	}

	return d, nil
}

// namespaceAttrs keeps the root attributes under their prefixed names so they
// can be written back unchanged.
func namespaceAttrs(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}

	prefixes := make(map[string]string)
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			prefixes[a.Value] = a.Name.Local
		}
	}

	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		switch {
		case a.Name.Space == "":
			m[a.Name.Local] = a.Value
		case a.Name.Space == "xmlns":
			m["xmlns:"+a.Name.Local] = a.Value
		case prefixes[a.Name.Space] != "":
			m[prefixes[a.Name.Space]+":"+a.Name.Local] = a.Value
		default:
			m[a.Name.Local] = a.Value
		}
	}

	return m
}

func attrMap(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}

	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}

	return m
}

// sortedAttrs turns a map back into attributes, ordered by name.
func sortedAttrs(m map[string]string) []xml.Attr {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	attrs := make([]xml.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: k}, Value: m[k]})
	}

	return attrs
}

// EncodeXML writes the system in its XML configuration format. The output
// only depends on the state of the system.
func EncodeXML(w io.Writer, sys *topology.System) error {
	doc := xmlSystem{
		Namespace:   sortedAttrs(sys.Namespace),
		Rows:        sys.Rows,
		Columns:     sys.Columns,
		RoutingAlgo: sys.ObservedAlgorithm,
	}

	for _, t := range sys.TaskGraph.Tasks {
		doc.TaskGraph.Tasks = append(doc.TaskGraph.Tasks,
			xmlTask{ID: t.ID, ComputationCost: t.ComputationCost})
	}

	for _, e := range sys.TaskGraph.Edges {
		doc.TaskGraph.Edges = append(doc.TaskGraph.Edges, xmlEdge{
			From:              e.From,
			To:                e.To,
			CommunicationCost: e.CommunicationCost,
		})
	}

	for i := range sys.Cores {
		c := &sys.Cores[i]

		xc := xmlCore{
			ID:            c.ID,
			AllocatedTask: c.AllocatedTask,
			Attrs:         sortedAttrs(c.Attributes),
			Router:        xmlRouter{Attrs: sortedAttrs(c.Router.Attributes)},
		}

		for _, ch := range c.Channels.Sorted() {
			xc.Channels.Channels = append(xc.Channels.Channels, xmlChannel{
				Direction:     ch.Direction.Name(),
				ActualComCost: ch.ActualComCost,
				Bandwidth:     ch.Bandwidth,
				Attrs:         sortedAttrs(ch.Attributes),
			})
		}

		doc.Cores.Cores = append(doc.Cores.Cores, xc)
	}

	if sys.Borders != nil {
		doc.Borders = &xmlBorders{}

		for _, s := range sys.Borders.Sources {
			doc.Borders.Sources = append(doc.Borders.Sources, xmlSource{
				CoreID:        s.CoreID,
				Direction:     s.Direction.Name(),
				TaskID:        s.TaskID,
				ActualComCost: s.ActualComCost,
			})
		}

		for _, s := range sys.Borders.Sinks {
			doc.Borders.Sinks = append(doc.Borders.Sinks, xmlSink{
				CoreID:    s.CoreID,
				Direction: s.Direction.Name(),
				TaskID:    s.TaskID,
			})
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", xmlIndent)

	if err := enc.Encode(doc); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")

	return err
}
