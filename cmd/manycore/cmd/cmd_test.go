package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/manycore/loadstore"
)

const fixture = "../../../config/testdata/mesh3x3.xml"

func run(args ...string) (string, error) {
	logLevel = "error"
	logJSON = false
	workers = 0
	routeAlgorithm, routeFormat, routeRecord = "", "table", ""
	infoAlgorithm = ""
	lintAlgorithm, lintReport = "", ""
	convertTo = "yaml"

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := Execute()

	return out.String(), err
}

var _ = Describe("CLI", func() {
	It("should validate a configuration", func() {
		out, err := run("validate", fixture)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(
			"3x3 mesh, 3 tasks, 6 edges, 3 allocated tasks"))
	})

	It("should fail on a missing file", func() {
		_, err := run("validate", "missing.xml")

		Expect(err).To(HaveOccurred())
	})

	It("should reject unknown log levels", func() {
		_, err := run("--log-level", "loud", "validate", fixture)

		Expect(err).To(MatchError(ContainSubstring("unknown log level")))
	})

	It("should route with the observed algorithm by default", func() {
		out, err := run("route", fixture)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Loads (RowFirst)"))
	})

	It("should print the routing as yaml", func() {
		out, err := run("route", fixture, "--algorithm", "columnfirst",
			"--format", "yaml")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("algorithm: ColumnFirst"))
		Expect(out).To(ContainSubstring("totalLoad: 740"))
		Expect(out).To(ContainSubstring("sourceLoad: 50"))
		Expect(out).To(ContainSubstring("kind: Source"))
	})

	It("should print the routing as xml", func() {
		out, err := run("route", fixture, "-a", "RowFirst", "-f", "xml")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(
			`<RoutingResult algorithm="RowFirst" totalLoad="740" sourceLoad="50">`))
		Expect(out).To(ContainSubstring(
			`<Channel core="1" direction="South" load="180" bandwidth="400">`))
	})

	It("should reject unknown formats and algorithms", func() {
		_, err := run("route", fixture, "--format", "csv")
		Expect(err).To(MatchError(ContainSubstring("unknown output format")))

		_, err = run("route", fixture, "--algorithm", "Diagonal")
		Expect(err).To(HaveOccurred())
	})

	It("should record the pass", func() {
		path := filepath.Join(GinkgoT().TempDir(), "loads.sqlite3")

		_, err := run("route", fixture, "--record", path)
		Expect(err).NotTo(HaveOccurred())

		store, err := loadstore.New(path)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		passes, err := store.Passes()
		Expect(err).NotTo(HaveOccurred())
		Expect(passes).To(HaveLen(1))
		Expect(passes[0].Algorithm).To(Equal("RowFirst"))
		Expect(passes[0].TotalLoad).To(Equal(uint64(740)))
	})

	It("should print info", func() {
		out, err := run("info", fixture, "c7")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("allocatedTask: 2\n"))
		Expect(out).To(ContainSubstring("id: 7\n"))
	})

	It("should print the current load of a channel after routing", func() {
		out, err := run("info", fixture, "l1_South", "--algorithm", "RowFirst")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("currentLoad: 180\n"))
	})

	It("should print the attributes as json", func() {
		out, err := run("attributes", fixture)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal([]byte(out), &decoded)).To(Succeed())
		Expect(decoded).To(HaveKey("core"))
		Expect(decoded).To(HaveKeyWithValue("observedAlgorithm", "RowFirst"))
	})

	It("should lint and save the report", func() {
		path := filepath.Join(GinkgoT().TempDir(), "report.txt")

		out, err := run("lint", fixture, "--algorithm", "ColumnFirst",
			"--report", path)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("ROUTING PASSED ALL CHECKS"))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(out))
	})

	It("should convert to yaml", func() {
		out, err := run("convert", fixture)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("rows: 3\n"))
		Expect(out).To(ContainSubstring("routingAlgo: RowFirst\n"))
	})

	It("should refuse to convert to hcl", func() {
		_, err := run("convert", fixture, "--to", "hcl")

		Expect(err).To(HaveOccurred())
	})
})
