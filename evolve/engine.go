package evolve

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/jsphweid/fugue/fitness"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/util"
)

// Stats summarises the fitness of one generation.
type Stats struct {
	Generation int
	Best       float64
	Mean       float64
	StdDev     float64
}

// Progress is reported each time the best track improves.
type Progress struct {
	Generation int
	Fitness    float64
	Best       model.Track
}

type Result struct {
	Best       model.Track
	Fitness    float64
	Generation int
	History    []Stats
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithObserver registers f to be called, on the engine's goroutine, with
// every improvement of the best track.
func WithObserver(f func(Progress)) Option {
	return func(e *Engine) {
		e.observer = f
	}
}

// WithRand replaces the random stream derived from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// Engine runs the generational loop for one style.
type Engine struct {
	cfg      Config
	style    fitness.Style
	rng      *rand.Rand
	logger   *slog.Logger
	observer func(Progress)

	best        model.Track
	bestFitness float64
	hasBest     bool
}

func New(cfg Config, style fitness.Style, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		style:  style,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		e.rng = rand.New(rand.NewPCG(seed, seed))
	}
	return e, nil
}

// Run evolves a fresh population and returns the best track found. It
// stops after cfg.Generations generations, or earlier when the style's
// global maximum is reached.
func (e *Engine) Run() (Result, error) {
	e.hasBest = false
	pop, err := Initialize(e.rng, e.cfg)
	if err != nil {
		return Result{}, err
	}
	e.logger.Info("starting run",
		"style", e.style.Name(),
		"key", e.cfg.Key,
		"bars", e.cfg.Bars,
		"population", e.cfg.PopulationSize,
		"generations", e.cfg.Generations)

	var history []Stats
	for gen := 0; gen < e.cfg.Generations; gen++ {
		scores, err := e.evaluate(pop)
		if err != nil {
			return Result{}, err
		}
		history = append(history, e.snapshot(gen, pop, scores))
		if e.reachedMax() {
			e.logger.Info("reached global maximum", "generation", gen, "fitness", e.bestFitness)
			return e.result(gen, history), nil
		}

		next := Select(e.rng, pop, scores, e.cfg.TournamentSize, e.cfg.TournamentParameter)
		for i := 0; i+1 < len(next); i += 2 {
			if e.rng.Float64() < e.cfg.CrossoverProbability {
				next[i], next[i+1], err = Crossover(e.rng, next[i], next[i+1])
				if err != nil {
					return Result{}, err
				}
			}
		}
		for i := range next {
			if next[i], err = Mutate(e.rng, e.cfg, next[i]); err != nil {
				return Result{}, err
			}
		}
		pop = InsertElite(next, e.best, e.cfg.Copies)
	}

	scores, err := e.evaluate(pop)
	if err != nil {
		return Result{}, err
	}
	history = append(history, e.snapshot(e.cfg.Generations, pop, scores))
	e.logger.Info("run finished", "generation", e.cfg.Generations, "fitness", e.bestFitness)
	return e.result(e.cfg.Generations, history), nil
}

func (e *Engine) evaluate(pop model.Population) ([]float64, error) {
	return fitness.EvaluateAll(e.style, pop, e.cfg.Workers)
}

// snapshot keeps a copy of the generation's best track when it beats the
// previous best, and returns the generation's stats.
func (e *Engine) snapshot(gen int, pop model.Population, scores []float64) Stats {
	i := util.ArgMax(scores)
	if !e.hasBest || scores[i] > e.bestFitness {
		e.best = pop[i].Clone()
		e.bestFitness = scores[i]
		e.hasBest = true
		e.logger.Info("new best", "generation", gen, "fitness", e.bestFitness)
		if e.observer != nil {
			e.observer(Progress{Generation: gen, Fitness: e.bestFitness, Best: e.best.Clone()})
		}
	}

	s := Stats{Generation: gen, Best: scores[i]}
	if len(scores) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(scores, nil)
	} else {
		s.Mean = scores[i]
	}
	e.logger.Debug("generation",
		"generation", gen,
		"best", s.Best,
		"mean", s.Mean,
		"std", s.StdDev)
	return s
}

func (e *Engine) reachedMax() bool {
	top, ok := e.style.GlobalMax()
	return ok && e.bestFitness >= top
}

func (e *Engine) result(gen int, history []Stats) Result {
	return Result{
		Best:       e.best.Clone(),
		Fitness:    e.bestFitness,
		Generation: gen,
		History:    history,
	}
}
