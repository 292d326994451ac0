// Package attributes classifies the extra attributes found on mesh elements
// so that a front end can offer them as rendering options.
package attributes

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/sarchlab/manycore/topology"
)

// Keys of attributes that are not part of the extra attribute maps but are
// still offered to the front end.
const (
	IDKey            = "id"
	CoordinatesKey   = "coordinates"
	TaskCostKey      = "taskCost"
	RoutingKey       = "routingAlgorithm"
	BorderRoutersKey = "borderRouters"
)

// Type tells the front end how an attribute can be rendered.
type Type string

const (
	Text        Type = "text"
	Number      Type = "number"
	Coordinates Type = "coordinates"
	Boolean     Type = "boolean"
	Routing     Type = "routing"
)

// Processed is a classified attribute.
type Processed struct {
	Type    Type   `json:"type" yaml:"type"`
	Display string `json:"display" yaml:"display"`
}

// NewProcessed classifies key as the given type.
func NewProcessed(key string, t Type) Processed {
	return Processed{Type: t, Display: FormatDisplay(key)}
}

// FormatDisplay turns a camel case attribute key into a human readable
// label, e.g. "actualFrequency" becomes "Actual frequency" and
// "helloCAMELCase" becomes "Hello camel case".
func FormatDisplay(key string) string {
	runes := []rune(strings.TrimPrefix(key, "@"))
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder

	prev := 0
	for i := 0; i < len(runes)-1; i++ {
		first := unicode.IsUpper(runes[i])
		second := unicode.IsUpper(runes[i+1])

		switch {
		case first && !second && prev != i:
			// An upper case block ends, e.g. the "C" of "CAMELCase".
			b.WriteString(strings.ToLower(string(runes[prev:i])))
			b.WriteByte(' ')
			prev = i
		case !first && second:
			b.WriteString(strings.ToLower(string(runes[prev : i+1])))
			b.WriteByte(' ')
			prev = i + 1
		}
	}

	b.WriteString(strings.ToLower(string(runes[prev:])))

	result := []rune(strings.TrimRight(b.String(), " "))
	if len(result) == 0 {
		return ""
	}

	result[0] = unicode.ToUpper(result[0])

	return string(result)
}

// Catalog maps attribute keys to their classification.
type Catalog map[string]Processed

// InsertManual adds a key that does not come from an element's extra
// attributes.
func (c Catalog) InsertManual(key string, t Type) {
	c[key] = NewProcessed(key, t)
}

// ExtendFromElement classifies the extra attributes of an element. Keys that
// are already in the catalog keep their classification. Values that parse as
// unsigned integers are numbers, everything else is text.
func (c Catalog) ExtendFromElement(e topology.Element) {
	for key, value := range e.ExtraAttributes() {
		if _, ok := c[key]; ok {
			continue
		}

		if _, err := strconv.ParseUint(value, 10, 64); err == nil {
			c[key] = NewProcessed(key, Number)
		} else {
			c[key] = NewProcessed(key, Text)
		}
	}
}

// Merge adds the entries of other that are missing from c.
func (c Catalog) Merge(other Catalog) {
	for k, v := range other {
		if _, ok := c[k]; !ok {
			c[k] = v
		}
	}
}

// Configurable lists what the front end may ask to render.
type Configurable struct {
	Core              Catalog  `json:"core" yaml:"core"`
	Router            Catalog  `json:"router" yaml:"router"`
	Channel           Catalog  `json:"channel" yaml:"channel"`
	Algorithms        []string `json:"algorithms" yaml:"algorithms"`
	ObservedAlgorithm string   `json:"observedAlgorithm,omitempty" yaml:"observedAlgorithm,omitempty"`
}

// NewConfigurable creates an empty Configurable.
func NewConfigurable() *Configurable {
	return &Configurable{
		Core:    Catalog{},
		Router:  Catalog{},
		Channel: Catalog{},
	}
}

// ElementCatalogs collects catalogs for the three element kinds. Ingestion
// workers fill one each and merge them afterwards.
type ElementCatalogs struct {
	Core    Catalog
	Router  Catalog
	Channel Catalog
}

// NewElementCatalogs creates empty catalogs.
func NewElementCatalogs() ElementCatalogs {
	return ElementCatalogs{
		Core:    Catalog{},
		Router:  Catalog{},
		Channel: Catalog{},
	}
}

// AddCore classifies a core, its router and its channels.
func (e ElementCatalogs) AddCore(core *topology.Core) {
	e.Core.ExtendFromElement(core)
	e.Router.ExtendFromElement(&core.Router)

	for _, ch := range core.Channels.Sorted() {
		e.Channel.ExtendFromElement(ch)
	}
}

// MergeInto adds the classified attributes to a Configurable.
func (e ElementCatalogs) MergeInto(c *Configurable) {
	c.Core.Merge(e.Core)
	c.Router.Merge(e.Router)
	c.Channel.Merge(e.Channel)
}
