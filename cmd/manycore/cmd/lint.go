package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sarchlab/manycore/routing"
	"github.com/sarchlab/manycore/verify"
)

var (
	lintAlgorithm string
	lintReport    string
)

// errViolations is returned when the routed loads fail the checks.
var errViolations = errors.New("routing violations detected")

var lintCmd = &cobra.Command{
	Use:   "lint FILE",
	Short: "Route the task graph and check the loads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, _, err := loadValidated(args[0])
		if err != nil {
			return err
		}

		algorithm, err := pickAlgorithm(lintAlgorithm, sys)
		if err != nil {
			return err
		}

		report, err := routing.Builder{}.WithSystem(sys).Build().Route(algorithm)
		if err != nil {
			return err
		}

		result := verify.GenerateReport(sys, report)
		result.WriteReport(cmd.OutOrStdout())

		if lintReport != "" {
			if err := result.SaveReportToFile(lintReport); err != nil {
				return err
			}
		}

		if !result.Passed() {
			return errViolations
		}

		return nil
	},
}

func init() {
	lintCmd.Flags().StringVarP(&lintAlgorithm, "algorithm", "a", "",
		"routing algorithm, defaults to the observed one")
	lintCmd.Flags().StringVar(&lintReport, "report", "",
		"also save the report to this file")
	rootCmd.AddCommand(lintCmd)
}
