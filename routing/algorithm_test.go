package routing_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/manycore/routing"
	"github.com/sarchlab/manycore/topology"
)

var _ = Describe("Algorithm", func() {
	It("should parse names ignoring case", func() {
		a, err := routing.ParseAlgorithm("rowfirst")
		Expect(err).ToNot(HaveOccurred())
		Expect(a).To(Equal(routing.RowFirst))

		a, err = routing.ParseAlgorithm("ColumnFirst")
		Expect(err).ToNot(HaveOccurred())
		Expect(a).To(Equal(routing.ColumnFirst))
	})

	It("should reject unknown names", func() {
		_, err := routing.ParseAlgorithm("Diagonal")
		Expect(errors.Is(err, topology.ErrRouting)).To(BeTrue())
	})

	It("should list the supported algorithms", func() {
		Expect(routing.SupportedAlgorithmNames()).To(Equal(
			[]string{"Observed", "RowFirst", "ColumnFirst"}))
	})

	It("should round trip through text", func() {
		var a routing.Algorithm
		Expect(a.UnmarshalText([]byte("Observed"))).To(Succeed())
		Expect(a).To(Equal(routing.Observed))

		text, err := routing.ColumnFirst.MarshalText()
		Expect(err).ToNot(HaveOccurred())
		Expect(string(text)).To(Equal("ColumnFirst"))
	})
})

var _ = Describe("RenderLoads", func() {
	It("should render the loaded cores", func() {
		sys := loadFixture()
		report, err := routing.Builder{}.WithSystem(sys).Build().
			Route(routing.RowFirst)
		Expect(err).ToNot(HaveOccurred())

		out := routing.RenderLoads(sys, report)

		Expect(out).To(ContainSubstring("Loads (RowFirst)"))
		Expect(out).To(ContainSubstring("c7"))
		Expect(out).To(ContainSubstring("180/400"))
		Expect(out).To(ContainSubstring("West=20"))
		Expect(out).ToNot(ContainSubstring("c2 "))
	})
})
