package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/fugue/evolve"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <checkpoint>",
	Short: "Inspects a checkpoint",
	Long:  `Prints the best passage of a saved run and its per-generation history.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := evolve.LoadCheckpoint(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "style: %v\nkey: %v\nseed: %v\n", c.Style, c.Key, c.Seed)
		fmt.Fprintf(out, "fitness: %.4f (generation %d)\n", c.Result.Fitness, c.Result.Generation)
		fmt.Fprintf(out, "best: %v\n", c.Result.Best)
		for _, s := range c.Result.History {
			fmt.Fprintf(out, "%5d  best %.4f  mean %.4f  std %.4f\n", s.Generation, s.Best, s.Mean, s.StdDev)
		}
		return nil
	},
}
