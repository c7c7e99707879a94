package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsphweid/fugue/chord"
	"github.com/jsphweid/fugue/constants"
	"github.com/jsphweid/fugue/feature"
	"github.com/jsphweid/fugue/midi"
	"github.com/jsphweid/fugue/theory"
	"github.com/jsphweid/fugue/util"
)

var (
	reportKey    string
	reportMax    int
	reportChords bool
)

func init() {
	reportCmd.Flags().StringVarP(&reportKey, "key", "k", "C", "key the melodies are judged in")
	reportCmd.Flags().IntVar(&reportMax, "max", 0, "stop after this many files; 0 reads all")
	reportCmd.Flags().BoolVar(&reportChords, "chords", false, "also list the distinct chords of each file")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Prints melodic features of MIDI files",
	Long: `Prints the features the fitness styles are built from for every MIDI
file under path (MEDIA_PATH when no path is given).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := constants.GetMediaDir()
		if len(args) == 1 {
			root = args[0]
		}
		key, err := theory.ParseKey(reportKey)
		if err != nil {
			return err
		}
		paths, err := util.GatherAllMidiPaths(root, reportMax)
		if err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), paths, key)
	},
}

func report(out io.Writer, paths []string, key theory.Key) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	var counts []int
	fmt.Fprintln(w, "file\tnotes\tchords\trep. length\trep. pitch\tpassages\trhythmic\ton beat\tin scale\tintervals\tleaps")
	for _, path := range paths {
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			logger.Warn("skipping file", "path", path, "err", err)
			continue
		}
		chords := chord.GetChords(s)
		distinct := make(map[string]bool)
		for _, c := range chords {
			distinct[chord.CreateChordKey(c.Keys)] = true
		}
		ticks, err := midi.Resolution(s)
		if err != nil {
			logger.Warn("skipping file", "path", path, "err", err)
			continue
		}
		track, err := midi.ToTrack(chords, ticks, key)
		if err != nil {
			logger.Warn("skipping file", "path", path, "err", err)
			continue
		}
		r := feature.Analyze(track, key)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.2f\t%.1fx%.1f\t%.1fx%.1f\t%.2f\t%.2f\t%.2f\t%d\n",
			path, r.Notes, len(distinct), r.RepeatingLength, r.RepeatingPitch,
			r.Passages.Repetitions, r.Passages.Length,
			r.RhythmicPassages.Repetitions, r.RhythmicPassages.Length, r.OnBeat, r.InScale,
			r.MelodicIntervals, r.DissonantLeaps)
		if reportChords {
			fmt.Fprintf(w, "\t%s\n", strings.Join(util.GetKeys(distinct), " "))
		}
		counts = append(counts, r.Notes)
	}
	fmt.Fprintf(w, "%d files\t%d\n", len(counts), util.Sum(counts))
	return w.Flush()
}
