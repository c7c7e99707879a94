package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsphweid/fugue/constants"
	"github.com/jsphweid/fugue/midi"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
	"github.com/jsphweid/fugue/transform"
	"github.com/jsphweid/fugue/util"
)

var transformFlags struct {
	key      string
	steps    int
	harmonic bool
	rest     float64
	factor   float64
	slower   bool
}

func init() {
	f := transformCmd.Flags()
	f.StringVarP(&transformFlags.key, "key", "k", "C", "key of the input")
	f.IntVar(&transformFlags.steps, "steps", 0, "half steps for transpose")
	f.BoolVar(&transformFlags.harmonic, "harmonic", false, "raise the leading tone for minor")
	f.Float64Var(&transformFlags.rest, "rest", 0.25, "rest length, in bars, for shift")
	f.Float64Var(&transformFlags.factor, "factor", 2, "speed factor for speed")
	f.BoolVar(&transformFlags.slower, "slower", false, "slow down instead of speeding up")
	rootCmd.AddCommand(transformCmd)
}

var transformCmd = &cobra.Command{
	Use:   "transform <transpose|reverse|inverse|minor|answer|shift|speed> <file.mid>",
	Short: "Applies a melodic transform to a MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := theory.ParseKey(transformFlags.key)
		if err != nil {
			return err
		}
		in, err := midi.ReadTrack(args[1], key)
		if err != nil {
			return err
		}
		out, err := applyTransform(args[0], in, key)
		if err != nil {
			return err
		}

		dir := constants.GetOutputDir()
		if err := util.EnsureDir(dir); err != nil {
			return err
		}
		path := filepath.Join(dir, uuid.New().String()+".mid")
		if err := midi.Write(path, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nsaved to %s\n", out, path)
		return nil
	},
}

func applyTransform(name string, in model.Track, key theory.Key) (model.Track, error) {
	switch name {
	case "transpose":
		return transform.Transpose(in, transformFlags.steps), nil
	case "reverse":
		return transform.Reverse(in)
	case "inverse":
		return transform.Inverse(in), nil
	case "minor":
		out, _, err := transform.RelativeMinor(in, key, transformFlags.harmonic)
		return out, err
	case "answer":
		return transform.Answer(in, key), nil
	case "shift":
		return transform.Shift(in, transformFlags.rest)
	case "speed":
		return transform.ChangeSpeed(in, transformFlags.factor, !transformFlags.slower)
	}
	return model.Track{}, fmt.Errorf("unknown transform %q", name)
}
