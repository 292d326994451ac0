package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sarchlab/manycore/info"
	"github.com/sarchlab/manycore/routing"
)

var infoAlgorithm string

var infoCmd = &cobra.Command{
	Use:   "info FILE GROUP",
	Short: "Print the attributes of a core (cN), router (rN) or channel (lN_Dir)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, _, err := loadValidated(args[0])
		if err != nil {
			return err
		}

		if infoAlgorithm != "" {
			algorithm, err := routing.ParseAlgorithm(infoAlgorithm)
			if err != nil {
				return err
			}

			_, err = routing.Builder{}.WithSystem(sys).Build().Route(algorithm)
			if err != nil {
				return err
			}
		}

		attrs, err := info.Lookup(sys, args[1])
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, attrs[k])
		}

		return nil
	},
}

func init() {
	infoCmd.Flags().StringVarP(&infoAlgorithm, "algorithm", "a", "",
		"route first so that channels report their current load")
	rootCmd.AddCommand(infoCmd)
}
