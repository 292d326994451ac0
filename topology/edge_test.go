package topology_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/manycore/topology"
)

var _ = Describe("EdgePosition", func() {
	It("should classify a 3x3 mesh", func() {
		expected := []topology.EdgePosition{
			topology.TopLeft, topology.Top, topology.TopRight,
			topology.Left, topology.Interior, topology.Right,
			topology.BottomLeft, topology.Bottom, topology.BottomRight,
		}

		for id, pos := range expected {
			Expect(topology.CalculateEdge(id, 3, 3)).To(Equal(pos), "id %d", id)
		}
	})

	It("should give corners two directions, edges one and interior none", func() {
		for rows := 2; rows <= 6; rows++ {
			for columns := 2; columns <= 6; columns++ {
				corners := map[int]bool{}
				for _, id := range []int{
					0, columns - 1, columns * (rows - 1), rows*columns - 1,
				} {
					corners[id] = true
				}

				for id := 0; id < rows*columns; id++ {
					row, col := id/columns, id%columns
					onEdge := row == 0 || row == rows-1 ||
						col == 0 || col == columns-1
					n := len(topology.CalculateEdge(id, columns, rows).Directions())

					switch {
					case corners[id]:
						Expect(n).To(Equal(2), "corner %d in %dx%d", id, rows, columns)
					case onEdge:
						Expect(n).To(Equal(1), "edge %d in %dx%d", id, rows, columns)
					default:
						Expect(n).To(Equal(0), "interior %d in %dx%d", id, rows, columns)
					}
				}
			}
		}
	})

	It("should permit only boundary facing directions", func() {
		Expect(topology.TopLeft.Permits(topology.North)).To(BeTrue())
		Expect(topology.TopLeft.Permits(topology.West)).To(BeTrue())
		Expect(topology.TopLeft.Permits(topology.East)).To(BeFalse())
		Expect(topology.Bottom.Directions()).
			To(Equal([]topology.Direction{topology.South}))
		Expect(topology.Interior.IsBoundary()).To(BeFalse())
	})

	It("should treat a single column as left edges", func() {
		Expect(topology.CalculateEdge(0, 1, 3)).To(Equal(topology.TopLeft))
		Expect(topology.CalculateEdge(1, 1, 3)).To(Equal(topology.Left))
		Expect(topology.CalculateEdge(2, 1, 3)).To(Equal(topology.BottomLeft))
	})
})
