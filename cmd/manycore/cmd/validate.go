package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check that a configuration describes a well formed mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, _, err := loadValidated(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"%s: %dx%d mesh, %d tasks, %d edges, %d allocated tasks\n",
			args[0], sys.Rows, sys.Columns,
			len(sys.TaskGraph.Tasks), len(sys.TaskGraph.Edges),
			len(sys.TaskCoreMap()))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
