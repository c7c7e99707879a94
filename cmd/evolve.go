package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsphweid/fugue/constants"
	"github.com/jsphweid/fugue/evolve"
	"github.com/jsphweid/fugue/feature"
	"github.com/jsphweid/fugue/fitness"
	"github.com/jsphweid/fugue/midi"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/sample"
	"github.com/jsphweid/fugue/theory"
	"github.com/jsphweid/fugue/util"
)

var evolveFlags struct {
	style       string
	key         string
	bars        int
	generations int
	population  int
	workers     int
	seed        uint64
	melody      string
	from        string
	to          string
	context     int
}

func init() {
	f := evolveCmd.Flags()
	f.StringVarP(&evolveFlags.style, "style", "s", "C", "fitness style: "+strings.Join(fitness.Styles(), ", "))
	f.StringVarP(&evolveFlags.key, "key", "k", "C", "key; lower case for minor")
	f.IntVarP(&evolveFlags.bars, "bars", "b", 4, "bars to evolve")
	f.IntVarP(&evolveFlags.generations, "generations", "g", 500, "generations to run")
	f.IntVar(&evolveFlags.population, "population", 100, "population size")
	f.IntVar(&evolveFlags.workers, "workers", 1, "goroutines evaluating fitness")
	f.Uint64Var(&evolveFlags.seed, "seed", 0, "random seed; 0 picks one")
	f.StringVar(&evolveFlags.melody, "melody", "", "MIDI file with the melody to harmonize")
	f.StringVar(&evolveFlags.from, "from", "", "MIDI file with the bars before the passage")
	f.StringVar(&evolveFlags.to, "to", "", "MIDI file with the bars after the passage")
	f.IntVar(&evolveFlags.context, "context", 1, "bars kept from the end of --from and the start of --to")
	rootCmd.AddCommand(evolveCmd)
}

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Evolves a passage and writes it as MIDI",
	Long: `Evolves a passage for the chosen style. The best passage is written to
the output directory as <id>.mid, next to a <id>.dat checkpoint holding its
fitness and the per-generation history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := evolveConfig(cmd)
		if err != nil {
			return err
		}
		in, err := readInputs(cfg)
		if err != nil {
			return err
		}
		style, err := fitness.Parse(evolveFlags.style, in)
		if err != nil {
			return err
		}

		progress := newProgressPrinter(cmd.OutOrStdout(), 250*time.Millisecond)
		e, err := evolve.New(cfg, style,
			evolve.WithLogger(logger),
			evolve.WithObserver(progress.Observe))
		if err != nil {
			return err
		}
		res, err := e.Run()
		if err != nil {
			return err
		}
		progress.Flush()

		name, err := save(constants.GetOutputDir(), style, in, cfg, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nfitness %.4f after %d generations, saved to %s\n",
			res.Best, res.Fitness, res.Generation, name)
		if chords := chordsPerBar(arrange(style, in, res.Best)); chords > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f chords per bar against the melody\n", chords)
		}
		return nil
	},
}

// evolveConfig overlays the flags the user set on the loaded config.
func evolveConfig(cmd *cobra.Command) (evolve.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("key") {
		key, err := theory.ParseKey(evolveFlags.key)
		if err != nil {
			return cfg, err
		}
		cfg.Key = key
	}
	if f.Changed("bars") {
		cfg.Bars = evolveFlags.bars
	}
	if f.Changed("generations") {
		cfg.Generations = evolveFlags.generations
	}
	if f.Changed("population") {
		cfg.PopulationSize = evolveFlags.population
	}
	if f.Changed("workers") {
		cfg.Workers = evolveFlags.workers
	}
	if f.Changed("seed") {
		cfg.Seed = evolveFlags.seed
	}
	return cfg, cfg.Validate()
}

func readInputs(cfg evolve.Config) (fitness.Inputs, error) {
	in := fitness.Inputs{Key: cfg.Key, Bars: cfg.Bars}
	var err error
	if in.Melody, err = readOptional(evolveFlags.melody, cfg.Key); err != nil {
		return in, err
	}
	from, err := readOptional(evolveFlags.from, cfg.Key)
	if err != nil {
		return in, err
	}
	if from.Len() > 0 {
		if in.From, err = sample.Tail(from, evolveFlags.context); err != nil {
			return in, fmt.Errorf("--from: %w", err)
		}
	}
	to, err := readOptional(evolveFlags.to, cfg.Key)
	if err != nil {
		return in, err
	}
	if to.Len() > 0 {
		if in.To, err = sample.Head(to, evolveFlags.context); err != nil {
			return in, fmt.Errorf("--to: %w", err)
		}
	}
	return in, nil
}

func readOptional(path string, key theory.Key) (model.Track, error) {
	if path == "" {
		return model.Track{}, nil
	}
	return midi.ReadTrack(path, key)
}

// arrange lays the best passage out with its context: splice styles put it
// between From and To, and two voice styles add the melody as a first voice.
func arrange(style fitness.Style, in fitness.Inputs, best model.Track) []model.Track {
	switch style.(type) {
	case fitness.Modulate:
		return []model.Track{model.Concat(in.From, best, in.To)}
	case fitness.Harmony, fitness.Counter:
		return []model.Track{in.Melody, best}
	case fitness.Ending:
		return []model.Track{in.Melody, model.Concat(in.From, best, in.To)}
	}
	return []model.Track{best}
}

// chordsPerBar measures a two voice arrangement and is 0 for a single voice.
func chordsPerBar(voices []model.Track) float64 {
	if len(voices) != 2 {
		return 0
	}
	return feature.ChordsPerBar(feature.NewVoice(voices[0]), feature.NewVoice(voices[1]))
}

// save writes <id>.mid and <id>.dat under dir and returns the MIDI path.
func save(dir string, style fitness.Style, in fitness.Inputs, cfg evolve.Config, res evolve.Result) (string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return "", err
	}
	id := uuid.New().String()
	path := filepath.Join(dir, id+".mid")
	if err := midi.Write(path, arrange(style, in, res.Best)...); err != nil {
		return "", err
	}
	c := evolve.Checkpoint{Style: style.Name(), Key: cfg.Key, Seed: cfg.Seed, Result: res}
	if err := evolve.SaveCheckpoint(filepath.Join(dir, id+".dat"), c); err != nil {
		return "", err
	}
	return path, nil
}

// progressPrinter prints the latest improvement once improvements stop
// arriving for a moment, so fast runs do not flood the terminal.
type progressPrinter struct {
	mu        sync.Mutex
	w         io.Writer
	last      *evolve.Progress
	done      bool
	debounced func(f func())
}

func newProgressPrinter(w io.Writer, wait time.Duration) *progressPrinter {
	return &progressPrinter{w: w, debounced: debounce.New(wait)}
}

func (p *progressPrinter) Observe(pr evolve.Progress) {
	p.mu.Lock()
	p.last = &pr
	p.mu.Unlock()
	p.debounced(p.print)
}

func (p *progressPrinter) print() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done || p.last == nil {
		return
	}
	fmt.Fprintf(p.w, "generation %d: fitness %.4f\n", p.last.Generation, p.last.Fitness)
	p.last = nil
}

// Flush prints anything pending and stops later prints.
func (p *progressPrinter) Flush() {
	p.print()
	p.mu.Lock()
	p.done = true
	p.mu.Unlock()
}
