package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var attributesCmd = &cobra.Command{
	Use:   "attributes FILE",
	Short: "Print the attributes a front end may render, as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, configurable, err := loadValidated(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(configurable)
	},
}

func init() {
	rootCmd.AddCommand(attributesCmd)
}
