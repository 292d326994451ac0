package config_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/manycore/config"
	"github.com/sarchlab/manycore/topology"
)

func mustLoad(path string) *topology.System {
	sys, err := config.LoadFile(path)
	Expect(err).ToNot(HaveOccurred())

	return sys
}

var _ = Describe("Codecs", func() {
	Context("when reading the XML fixture", func() {
		var sys *topology.System

		BeforeEach(func() {
			sys = mustLoad("testdata/mesh3x3.xml")
		})

		It("should read the mesh", func() {
			Expect(sys.Rows).To(Equal(3))
			Expect(sys.Columns).To(Equal(3))
			Expect(sys.ObservedAlgorithm).To(Equal("RowFirst"))
			Expect(sys.Cores).To(HaveLen(9))
			Expect(sys.TaskGraph.Tasks).To(HaveLen(3))
			Expect(sys.TaskGraph.Edges).To(ContainElement(
				topology.Edge{From: 2, To: 3, CommunicationCost: 50}))
		})

		It("should keep extra attributes", func() {
			core := sys.Cores[0]
			Expect(core.Attributes).To(Equal(map[string]string{
				"age":             "238",
				"temperature":     "45",
				"status":          "High",
				"actualFrequency": "Low",
			}))
			Expect(core.Router.Attributes).To(HaveKeyWithValue("status", "Normal"))

			west := core.Channels[topology.West]
			Expect(west.ActualComCost).To(Equal(uint16(0)))
			Expect(west.Bandwidth).To(Equal(uint16(400)))
			Expect(west.Attributes).To(HaveKeyWithValue("age", "30"))
		})

		It("should read allocations and borders", func() {
			task, ok := sys.Cores[7].Task()
			Expect(ok).To(BeTrue())
			Expect(task).To(Equal(uint16(2)))

			_, ok = sys.Cores[0].Task()
			Expect(ok).To(BeFalse())

			Expect(sys.Borders.Sources).To(ConsistOf(
				topology.Source{CoreID: 1, Direction: topology.North, TaskID: 0, ActualComCost: 10},
				topology.Source{CoreID: 0, Direction: topology.West, TaskID: 1},
			))
			Expect(sys.Borders.Sinks).To(ConsistOf(
				topology.Sink{CoreID: 6, Direction: topology.West, TaskID: 5},
			))
		})

		It("should keep the namespace attributes", func() {
			Expect(sys.Namespace).To(HaveKey("xmlns"))
			Expect(sys.Namespace).To(HaveKey("xmlns:xsi"))
			Expect(sys.Namespace).To(HaveKey("xsi:schemaLocation"))
		})

		It("should write back what it read", func() {
			var buf bytes.Buffer
			Expect(config.EncodeXML(&buf, sys)).To(Succeed())

			Expect(buf.String()).To(HavePrefix("<?xml"))
			Expect(buf.String()).To(ContainSubstring(
				"\n    <TaskGraph>"))
			Expect(buf.String()).To(ContainSubstring(
				`<Channel direction="North" actualComCost="4" bandwidth="400" age="30" status="Normal">`))

			again, err := config.DecodeXML(&buf)
			Expect(err).ToNot(HaveOccurred())
			Expect(again).To(Equal(sys))
		})

		It("should encode the same state the same way", func() {
			var a, b bytes.Buffer
			Expect(config.EncodeXML(&a, sys)).To(Succeed())
			Expect(config.EncodeXML(&b, sys)).To(Succeed())
			Expect(a.String()).To(Equal(b.String()))
		})
	})

	It("should read the same system from every format", func() {
		fromXML := mustLoad("testdata/mesh3x3.xml")
		fromXML.Namespace = nil

		Expect(mustLoad("testdata/mesh3x3.yaml")).To(Equal(fromXML))
		Expect(mustLoad("testdata/mesh3x3.hcl")).To(Equal(fromXML))
	})

	It("should write YAML that reads back", func() {
		sys := mustLoad("testdata/mesh3x3.yaml")

		var buf bytes.Buffer
		Expect(config.EncodeYAML(&buf, sys)).To(Succeed())

		again, err := config.DecodeYAML(&buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(again).To(Equal(sys))
	})

	DescribeTable("should report broken input as generation errors",
		func(format config.Format, src string) {
			_, err := config.Decode(format, "broken", []byte(src))
			Expect(errors.Is(err, topology.ErrGeneration)).To(BeTrue())
		},
		Entry("malformed XML", config.FormatXML, "<SystemConfiguration"),
		Entry("wrong root", config.FormatXML, "<Mesh rows=\"1\"/>"),
		Entry("bad direction", config.FormatXML,
			`<SystemConfiguration rows="1" columns="1"><Cores><Core id="0">`+
				`<Channels><Channel direction="Up" bandwidth="1"/></Channels>`+
				`</Core></Cores></SystemConfiguration>`),
		Entry("duplicate channel", config.FormatYAML,
			"rows: 1\ncolumns: 1\ncores:\n  - id: 0\n    channels:\n"+
				"      - direction: North\n      - direction: North\n"),
		Entry("malformed YAML", config.FormatYAML, "rows: [1"),
		Entry("malformed HCL", config.FormatHCL, "rows = "),
		Entry("missing HCL attribute", config.FormatHCL, "rows = 1\n"),
		Entry("unknown HCL direction", config.FormatHCL,
			"rows = 1\ncolumns = 1\nsink {\n  core = 0\n"+
				"  direction = direction.up\n  task = 1\n}\n"),
	)

	It("should reject unknown extensions", func() {
		_, err := config.LoadFile("mesh.json")
		Expect(errors.Is(err, topology.ErrGeneration)).To(BeTrue())
	})

	It("should report missing files as generation errors", func() {
		dir := GinkgoT().TempDir()
		_, err := config.LoadFile(filepath.Join(dir, "missing.xml"))
		Expect(errors.Is(err, topology.ErrGeneration)).To(BeTrue())
	})

	It("should load files written by Encode", func() {
		sys := mustLoad("testdata/mesh3x3.hcl")
		path := filepath.Join(GinkgoT().TempDir(), "mesh.yml")

		var buf bytes.Buffer
		Expect(config.Encode(&buf, config.FormatYAML, sys)).To(Succeed())
		Expect(os.WriteFile(path, buf.Bytes(), 0o644)).To(Succeed())

		Expect(mustLoad(path)).To(Equal(sys))
		Expect(strings.Count(buf.String(), "direction: North")).To(Equal(10))
	})
})
