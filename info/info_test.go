package info_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/manycore/config"
	"github.com/sarchlab/manycore/info"
	"github.com/sarchlab/manycore/topology"
)

var _ = Describe("Lookup", func() {
	var sys *topology.System

	BeforeEach(func() {
		var err error
		sys, err = config.LoadFile("../config/testdata/mesh3x3.xml")
		Expect(err).ToNot(HaveOccurred())
	})

	It("should return core attributes with the id and the task", func() {
		m, err := info.Lookup(sys, "c7")

		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal(map[string]string{
			"id":              "7",
			"allocatedTask":   "2",
			"age":             "15",
			"temperature":     "30",
			"status":          "High",
			"actualFrequency": "Mid",
		}))
	})

	It("should not report a task for an idle core", func() {
		m, err := info.Lookup(sys, "c0")

		Expect(err).ToNot(HaveOccurred())
		Expect(m).ToNot(HaveKey("allocatedTask"))
	})

	It("should return router attributes", func() {
		m, err := info.Lookup(sys, "r4")

		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal(map[string]string{
			"age":         "30",
			"temperature": "30",
			"status":      "Normal",
		}))
	})

	It("should return channel attributes with the loads", func() {
		m, err := info.Lookup(sys, "l8_West")

		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(HaveKeyWithValue("bandwidth", "400"))
		Expect(m).To(HaveKeyWithValue("actualComCost", "0"))
		Expect(m).To(HaveKeyWithValue("currentLoad", "0"))
		Expect(m).To(HaveKeyWithValue("status", "Normal"))
	})

	It("should not hand out the element's own map", func() {
		m, err := info.Lookup(sys, "r0")
		Expect(err).ToNot(HaveOccurred())

		m["age"] = "0"
		Expect(sys.Cores[0].Router.Attributes).To(HaveKeyWithValue("age", "30"))
	})

	DescribeTable("should reject malformed group ids",
		func(groupID string) {
			_, err := info.Lookup(sys, groupID)
			Expect(errors.Is(err, topology.ErrInfo)).To(BeTrue())
		},
		Entry("empty", ""),
		Entry("suffix only", "_North"),
		Entry("variant only", "c"),
		Entry("not a number", "cx"),
		Entry("negative", "c-1"),
		Entry("out of range", "c9"),
		Entry("unknown variant", "x1"),
		Entry("channel without direction", "l1"),
		Entry("channel with bad direction", "l1_Up"),
		Entry("core with suffix", "c1_North"),
	)
})
