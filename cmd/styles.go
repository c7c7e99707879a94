package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/fugue/fitness"
)

func init() {
	rootCmd.AddCommand(stylesCmd)
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "Lists fitness styles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range fitness.Styles() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
