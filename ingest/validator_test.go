package ingest_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/manycore/attributes"
	"github.com/sarchlab/manycore/config"
	"github.com/sarchlab/manycore/ingest"
	"github.com/sarchlab/manycore/topology"
)

func loadFixture() *topology.System {
	sys, err := config.LoadFile("../config/testdata/mesh3x3.xml")
	Expect(err).ToNot(HaveOccurred())

	return sys
}

func mesh(rows, columns int) config.MeshBuilder {
	return config.MakeMeshBuilder().WithRows(rows).WithColumns(columns)
}

func build(b config.MeshBuilder) *topology.System {
	sys, err := b.Build()
	Expect(err).ToNot(HaveOccurred())

	return sys
}

var _ = Describe("Validator", func() {
	var validator *ingest.Validator

	BeforeEach(func() {
		validator = ingest.MakeBuilder().WithWorkers(3).Build()
	})

	Context("with the 3x3 fixture", func() {
		var (
			sys  *topology.System
			conf *attributes.Configurable
		)

		BeforeEach(func() {
			sys = loadFixture()

			var err error
			conf, err = validator.Validate(sys)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should mark the system validated", func() {
			Expect(sys.Validated()).To(BeTrue())
		})

		It("should index allocated tasks", func() {
			Expect(sys.TaskCoreMap()).To(Equal(map[uint16]int{
				3: 1,
				4: 5,
				2: 7,
			}))
		})

		It("should classify every core", func() {
			expected := []topology.EdgePosition{
				topology.TopLeft, topology.Top, topology.TopRight,
				topology.Left, topology.Interior, topology.Right,
				topology.BottomLeft, topology.Bottom, topology.BottomRight,
			}

			for i := range sys.Cores {
				edge, ok := sys.Cores[i].Edge()
				Expect(ok).To(BeTrue())
				Expect(edge).To(Equal(expected[i]))
				Expect(sys.Cores[i].Router.ID).To(Equal(i))
			}
		})

		It("should index the borders", func() {
			entry, ok := sys.Borders.At(6, topology.West)
			Expect(ok).To(BeTrue())
			Expect(entry).To(Equal(topology.BorderEntry{
				Kind:   topology.SinkEntry,
				TaskID: 5,
			}))

			Expect(sys.Borders.CoreIDs()).To(Equal([]int{0, 1, 6}))
		})

		It("should list the configurable attributes", func() {
			Expect(conf.Core).To(HaveKeyWithValue("id",
				attributes.Processed{Type: attributes.Text, Display: "Id"}))
			Expect(conf.Core).To(HaveKeyWithValue("coordinates",
				attributes.Processed{Type: attributes.Coordinates, Display: "Coordinates"}))
			Expect(conf.Core).To(HaveKeyWithValue("taskCost",
				attributes.Processed{Type: attributes.Boolean, Display: "Task cost"}))
			Expect(conf.Core).To(HaveKeyWithValue("age",
				attributes.Processed{Type: attributes.Number, Display: "Age"}))
			Expect(conf.Core).To(HaveKeyWithValue("actualFrequency",
				attributes.Processed{Type: attributes.Text, Display: "Actual frequency"}))
			Expect(conf.Core).To(HaveLen(7))

			Expect(conf.Router).To(HaveLen(3))

			Expect(conf.Channel).To(HaveKeyWithValue("routingAlgorithm",
				attributes.Processed{Type: attributes.Routing, Display: "Routing algorithm"}))
			Expect(conf.Channel).To(HaveKeyWithValue("borderRouters",
				attributes.Processed{Type: attributes.Boolean, Display: "Border routers"}))
			Expect(conf.Channel).To(HaveLen(4))

			Expect(conf.Algorithms).To(Equal(
				[]string{"Observed", "RowFirst", "ColumnFirst"}))
			Expect(conf.ObservedAlgorithm).To(Equal("RowFirst"))
		})
	})

	DescribeTable("should give the same result for any number of workers",
		func(workers int) {
			reference := loadFixture()
			refConf, err := ingest.MakeBuilder().WithWorkers(1).Build().
				Validate(reference)
			Expect(err).ToNot(HaveOccurred())

			sys := loadFixture()
			conf, err := ingest.MakeBuilder().WithWorkers(workers).Build().
				Validate(sys)
			Expect(err).ToNot(HaveOccurred())

			Expect(conf).To(Equal(refConf))
			Expect(sys).To(Equal(reference))
		},
		Entry("two", 2),
		Entry("four", 4),
		Entry("one per core", 9),
		Entry("more than cores", 32),
		Entry("default", 0),
	)

	It("should sort shuffled cores", func() {
		sys := loadFixture()
		sys.Cores[0], sys.Cores[8] = sys.Cores[8], sys.Cores[0]
		sys.Cores[3], sys.Cores[5] = sys.Cores[5], sys.Cores[3]

		_, err := validator.Validate(sys)

		Expect(err).ToNot(HaveOccurred())
		for i := range sys.Cores {
			Expect(sys.Cores[i].ID).To(Equal(i))
		}
	})

	It("should accept an empty mesh", func() {
		sys := build(mesh(0, 0))

		_, err := validator.Validate(sys)

		Expect(err).ToNot(HaveOccurred())
		Expect(sys.Validated()).To(BeTrue())
	})

	DescribeTable("should name the first offending core id",
		func(workers int, replaced, with int, message string) {
			sys := loadFixture()
			sys.Cores[replaced].ID = with

			_, err := ingest.MakeBuilder().WithWorkers(workers).Build().
				Validate(sys)

			Expect(err).To(MatchError("Generation Error: " + message))
			Expect(sys.Validated()).To(BeFalse())
		},
		Entry("gap, one worker", 1, 4, 9,
			"Core IDs must be incremental starting from 0. Was expecting ID 4, "+
				"got 5. Previously inspected core had ID 3."),
		Entry("gap, three workers", 3, 4, 9,
			"Core IDs must be incremental starting from 0. Was expecting ID 4, "+
				"got 5. Previously inspected core had ID 3."),
		Entry("duplicate, one worker", 1, 4, 3,
			"Core IDs must be incremental starting from 0. Was expecting ID 4, "+
				"got 3. Previously inspected core had ID 3."),
		Entry("duplicate, nine workers", 9, 4, 3,
			"Core IDs must be incremental starting from 0. Was expecting ID 4, "+
				"got 3. Previously inspected core had ID 3."),
		Entry("missing zero", 2, 0, 9,
			"Core IDs must be incremental starting from 0. Was expecting ID 0, "+
				"got 1. Previously inspected core had ID -1."),
	)

	It("should reject a core count that does not match the mesh", func() {
		sys := loadFixture()
		sys.Rows = 4

		_, err := validator.Validate(sys)

		Expect(errors.Is(err, topology.ErrGeneration)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("needs 12 cores, got 9"))
	})

	It("should reject negative sizes", func() {
		sys := build(mesh(0, 0))
		sys.Rows = -1

		_, err := validator.Validate(sys)

		Expect(errors.Is(err, topology.ErrGeneration)).To(BeTrue())
	})

	It("should reject a task allocated on two cores", func() {
		for _, workers := range []int{1, 4} {
			sys := build(mesh(2, 2).
				WithAllocation(0, 7).
				WithAllocation(3, 7))

			_, err := ingest.MakeBuilder().WithWorkers(workers).Build().
				Validate(sys)

			Expect(err).To(MatchError("Generation Error: Task 7 is allocated " +
				"on both core 0 and core 3."))
		}
	})

	It("should reject duplicate task graph ids", func() {
		sys := build(mesh(1, 1).WithTask(1, 1).WithTask(1, 2))

		_, err := validator.Validate(sys)

		Expect(errors.Is(err, topology.ErrGeneration)).To(BeTrue())
	})

	DescribeTable("should reject misplaced border endpoints",
		func(b config.MeshBuilder) {
			sys := build(b)

			_, err := validator.Validate(sys)

			Expect(errors.Is(err, topology.ErrGeneration)).To(BeTrue())
			Expect(sys.Validated()).To(BeFalse())
		},
		Entry("interior core", mesh(3, 3).WithSource(4, topology.North, 1, 0)),
		Entry("inner side", mesh(3, 3).WithSink(1, topology.South, 1)),
		Entry("missing core", mesh(3, 3).WithSink(9, topology.South, 1)),
		Entry("allocated task", mesh(3, 3).
			WithAllocation(4, 1).
			WithSource(0, topology.North, 1, 0)),
		Entry("shared task", mesh(3, 3).
			WithSource(0, topology.North, 1, 0).
			WithSink(8, topology.South, 1)),
		Entry("shared side", mesh(3, 3).
			WithSource(0, topology.North, 1, 0).
			WithSink(0, topology.North, 2)),
	)
})
