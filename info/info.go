// Package info answers attribute queries about single mesh elements.
//
// Elements are addressed by group ids: "c3" is core 3, "r3" is the router of
// core 3 and "l3_North" is the north channel of core 3.
package info

import (
	"strconv"
	"strings"

	"github.com/sarchlab/manycore/attributes"
	"github.com/sarchlab/manycore/topology"
)

// Keys added to the looked up attributes on top of the extra attributes.
const (
	AllocatedTaskKey = "allocatedTask"
	BandwidthKey     = "bandwidth"
	ActualComCostKey = "actualComCost"
	CurrentLoadKey   = "currentLoad"
)

// Lookup returns the attributes of the element named by groupID.
func Lookup(sys *topology.System, groupID string) (map[string]string, error) {
	if groupID == "" {
		return nil, topology.InfoErrorf("Empty group id.")
	}

	id, suffix, hasSuffix := strings.Cut(groupID, "_")
	if id == "" {
		return nil, topology.InfoErrorf("Invalid group id %q.", groupID)
	}

	kind := topology.ElementKind(id[:1])

	index, err := strconv.Atoi(id[1:])
	if err != nil || index < 0 {
		return nil, topology.InfoErrorf("Invalid group id %q.", groupID)
	}

	if index >= len(sys.Cores) {
		return nil, topology.InfoErrorf("Invalid index %d.", index)
	}

	core := &sys.Cores[index]

	switch kind {
	case topology.KindCore:
		if hasSuffix {
			return nil, topology.InfoErrorf("Invalid group id %q.", groupID)
		}

		m := copyAttributes(core)
		m[attributes.IDKey] = strconv.Itoa(core.ID)

		if task, ok := core.Task(); ok {
			m[AllocatedTaskKey] = strconv.Itoa(int(task))
		}

		return m, nil
	case topology.KindRouter:
		if hasSuffix {
			return nil, topology.InfoErrorf("Invalid group id %q.", groupID)
		}

		return copyAttributes(&core.Router), nil
	case topology.KindChannel:
		return channelInfo(core, suffix, hasSuffix)
	default:
		return nil, topology.InfoErrorf("Invalid variant %q.", string(kind))
	}
}

func channelInfo(
	core *topology.Core,
	suffix string,
	hasSuffix bool,
) (map[string]string, error) {
	if !hasSuffix {
		return nil, topology.InfoErrorf("Invalid channel id.")
	}

	d, err := topology.ParseDirection(suffix)
	if err != nil {
		return nil, topology.InfoErrorf("Invalid channel direction %q.", suffix)
	}

	ch, ok := core.Channels[d]
	if !ok {
		return nil, topology.InfoErrorf(
			"Channel direction mismatch: Could not retrieve this channel's " +
				"information.")
	}

	m := copyAttributes(ch)
	m[BandwidthKey] = strconv.Itoa(int(ch.Bandwidth))
	m[ActualComCostKey] = strconv.Itoa(int(ch.ActualComCost))
	m[CurrentLoadKey] = strconv.Itoa(int(ch.CurrentLoad()))

	return m, nil
}

func copyAttributes(e topology.Element) map[string]string {
	extra := e.ExtraAttributes()

	m := make(map[string]string, len(extra)+4)
	for k, v := range extra {
		m[k] = v
	}

	return m
}
