package evolve

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

var ErrConfig = errors.New("invalid config")

// PitchRange bounds generated pitches, in half steps relative to C-4.
type PitchRange struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

type Config struct {
	Key            theory.Key `yaml:"key"`
	Bars           int        `yaml:"bars"`
	PopulationSize int        `yaml:"population_size"`
	Generations    int        `yaml:"generations"`

	// RestProbability is the chance that the initializer places a rest.
	RestProbability float64 `yaml:"rest_probability"`
	// CrossoverProbability is applied per pair of selected parents.
	CrossoverProbability float64 `yaml:"crossover_probability"`
	TournamentSize       int     `yaml:"tournament_size"`
	// TournamentParameter is the chance of taking each rank, best first.
	TournamentParameter float64 `yaml:"tournament_selection_parameter"`
	// Copies is the number of slots the best track takes in the next
	// generation.
	Copies int `yaml:"copies"`

	// PitchProbability splits mutations between pitch and duration.
	PitchProbability float64 `yaml:"pitch_probability"`
	// PauseProbability is the chance that time freed by a shortened note is
	// filled by the same pitch rather than a rest.
	PauseProbability float64 `yaml:"pause_probability"`
	// PitchSigma is the standard deviation, in half steps, of a pitch
	// mutation.
	PitchSigma float64 `yaml:"pitch_sigma"`

	// Wildness draws octaves from a normal distribution around 4.
	Wildness    bool        `yaml:"wildness"`
	OctaveSigma float64     `yaml:"octave_sigma"`
	PitchRange  PitchRange  `yaml:"pitch_range"`
	Meter       model.Meter `yaml:"meter"`

	// Workers evaluates fitness concurrently when above 1.
	Workers int `yaml:"workers"`
	// Seed fixes the random stream; 0 picks a random seed.
	Seed uint64 `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Key:                  "C",
		Bars:                 4,
		PopulationSize:       100,
		Generations:          500,
		RestProbability:      0.05,
		CrossoverProbability: 0.8,
		TournamentSize:       2,
		TournamentParameter:  0.75,
		Copies:               1,
		PitchProbability:     0.5,
		PauseProbability:     0.5,
		PitchSigma:           4,
		OctaveSigma:          0.5,
		PitchRange:           PitchRange{Low: -12, High: 24},
		Meter:                model.CommonTime,
		Workers:              1,
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := c.Key.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	switch {
	case c.Bars < 1:
		return fmt.Errorf("%w: bars must be at least 1, got %d", ErrConfig, c.Bars)
	case c.PopulationSize < 1:
		return fmt.Errorf("%w: population_size must be at least 1, got %d", ErrConfig, c.PopulationSize)
	case c.Generations < 0:
		return fmt.Errorf("%w: generations must not be negative, got %d", ErrConfig, c.Generations)
	case c.TournamentSize < 1:
		return fmt.Errorf("%w: tournament_size must be at least 1, got %d", ErrConfig, c.TournamentSize)
	case c.Copies < 0 || c.Copies > c.PopulationSize:
		return fmt.Errorf("%w: copies must be within [0, population_size], got %d", ErrConfig, c.Copies)
	case c.PitchRange.High-c.PitchRange.Low < 12:
		return fmt.Errorf("%w: pitch_range must span at least an octave", ErrConfig)
	case c.PitchSigma < 0 || c.OctaveSigma < 0:
		return fmt.Errorf("%w: sigmas must not be negative", ErrConfig)
	case c.Meter.Beats < 1 || c.Meter.Unit < 1:
		return fmt.Errorf("%w: bad meter %d/%d", ErrConfig, c.Meter.Beats, c.Meter.Unit)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrConfig, c.Workers)
	}

	probabilities := map[string]float64{
		"rest_probability":               c.RestProbability,
		"crossover_probability":          c.CrossoverProbability,
		"tournament_selection_parameter": c.TournamentParameter,
		"pitch_probability":              c.PitchProbability,
		"pause_probability":              c.PauseProbability,
	}
	for name, p := range probabilities {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrConfig, name, p)
		}
	}
	return nil
}
