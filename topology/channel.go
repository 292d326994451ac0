package topology

import "math"

// A Channel is a directional link that leaves a core.
type Channel struct {
	Direction Direction
	Bandwidth uint16

	// ActualComCost is the load observed on the channel by whatever produced
	// the configuration. The Observed routing algorithm replays it.
	ActualComCost uint16

	Attributes map[string]string

	currentLoad uint16
}

// NewChannel creates a channel.
func NewChannel(direction Direction, bandwidth, actualComCost uint16) *Channel {
	return &Channel{
		Direction:     direction,
		Bandwidth:     bandwidth,
		ActualComCost: actualComCost,
	}
}

// Kind returns KindChannel.
func (c *Channel) Kind() ElementKind {
	return KindChannel
}

// ExtraAttributes returns the attributes that are not part of the model.
func (c *Channel) ExtraAttributes() map[string]string {
	return c.Attributes
}

// CurrentLoad returns the load accumulated by the last routing pass.
func (c *Channel) CurrentLoad() uint16 {
	return c.currentLoad
}

// AddLoad adds load to the channel, saturating at the maximum value.
func (c *Channel) AddLoad(load uint16) {
	c.currentLoad = saturatingAdd(c.currentLoad, load)
}

// ClearLoad resets the accumulated load.
func (c *Channel) ClearLoad() {
	c.currentLoad = 0
}

func saturatingAdd(a, b uint16) uint16 {
	if a > math.MaxUint16-b {
		return math.MaxUint16
	}

	return a + b
}

// Channels holds at most one channel per direction.
type Channels map[Direction]*Channel

// NewChannels creates a Channels collection. A later channel replaces an
// earlier one with the same direction.
func NewChannels(list ...*Channel) Channels {
	c := make(Channels, len(list))
	for _, ch := range list {
		c[ch.Direction] = ch
	}

	return c
}

// AddLoad adds load to the channel in the given direction.
func (c Channels) AddLoad(load uint16, d Direction) error {
	ch, ok := c[d]
	if !ok {
		return RoutingErrorf("no %s channel to route through", d)
	}

	ch.AddLoad(load)

	return nil
}

// Sorted returns the channels in canonical direction order.
func (c Channels) Sorted() []*Channel {
	list := make([]*Channel, 0, len(c))
	for _, d := range AllDirections {
		if ch, ok := c[d]; ok {
			list = append(list, ch)
		}
	}

	return list
}

// ClearLoads resets the load of every channel.
func (c Channels) ClearLoads() {
	for _, ch := range c {
		ch.ClearLoad()
	}
}
