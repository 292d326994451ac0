package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/manycore/config"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Rewrite a configuration as XML or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, _, err := loadValidated(args[0])
		if err != nil {
			return err
		}

		return config.Encode(cmd.OutOrStdout(), config.Format(convertTo), sys)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "yaml",
		"output format: xml or yaml")
	rootCmd.AddCommand(convertCmd)
}
