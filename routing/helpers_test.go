package routing_test

import (
	"fmt"

	. "github.com/onsi/gomega"

	"github.com/sarchlab/manycore/config"
	"github.com/sarchlab/manycore/ingest"
	"github.com/sarchlab/manycore/topology"
)

const fixture = "../config/testdata/mesh3x3.xml"

func validated(sys *topology.System) *topology.System {
	_, err := ingest.MakeBuilder().WithWorkers(2).Build().Validate(sys)
	Expect(err).ToNot(HaveOccurred())

	return sys
}

func loadFixture() *topology.System {
	sys, err := config.LoadFile(fixture)
	Expect(err).ToNot(HaveOccurred())

	return validated(sys)
}

func key(coreID int, d topology.Direction) string {
	return fmt.Sprintf("%d%s", coreID, d.Name()[:1])
}

// channelLoads lists every channel carrying load, keyed like "7N".
func channelLoads(sys *topology.System) map[string]uint16 {
	loads := make(map[string]uint16)
	for i := range sys.Cores {
		for d, ch := range sys.Cores[i].Channels {
			if ch.CurrentLoad() != 0 {
				loads[key(sys.Cores[i].ID, d)] = ch.CurrentLoad()
			}
		}
	}

	return loads
}

func sourceLoads(sys *topology.System) map[string]uint16 {
	loads := make(map[string]uint16)
	for i := range sys.Cores {
		for d, l := range sys.Cores[i].SourceLoads() {
			loads[key(sys.Cores[i].ID, d)] = l
		}
	}

	return loads
}
