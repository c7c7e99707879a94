package evolve

import (
	"math"
	"math/rand/v2"

	"github.com/jsphweid/fugue/constants"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

// Initialize builds cfg.PopulationSize random tracks of cfg.Bars full bars.
func Initialize(rng *rand.Rand, cfg Config) (model.Population, error) {
	scale := cfg.Key.Scale()
	pop := make(model.Population, cfg.PopulationSize)
	for i := range pop {
		t, err := randomTrack(rng, cfg, scale)
		if err != nil {
			return nil, err
		}
		pop[i] = t
	}
	return pop, nil
}

func randomTrack(rng *rand.Rand, cfg Config, scale []theory.Pitch) (model.Track, error) {
	t := model.Track{Bars: make([]model.Bar, cfg.Bars)}
	for i := range t.Bars {
		bar := model.NewBar(cfg.Key)
		bar.Meter = cfg.Meter
		for !bar.IsFull() {
			length := randomLength(rng, bar.Remaining())
			var err error
			if rng.Float64() < cfg.RestProbability {
				err = bar.PlaceRest(length)
			} else {
				err = bar.Place(length, randomPitch(rng, cfg, scale))
			}
			if err != nil {
				return model.Track{}, err
			}
		}
		t.Bars[i] = bar
	}
	return t, nil
}

// randomLength draws legal lengths until one fits in left. The sixteenth
// always fits a bar that is filled on the sixteenth grid.
func randomLength(rng *rand.Rand, left float64) float64 {
	for {
		length := constants.LegalLengths[rng.IntN(len(constants.LegalLengths))]
		if length <= left+model.Epsilon {
			return length
		}
	}
}

// randomPitch picks a scale tone at octave 4, or around octave 4 when
// cfg.Wildness is set, kept inside cfg.PitchRange.
func randomPitch(rng *rand.Rand, cfg Config, scale []theory.Pitch) theory.Pitch {
	p := scale[rng.IntN(len(scale))]
	octave := 4
	if cfg.Wildness {
		octave = int(math.Round(rng.NormFloat64()*cfg.OctaveSigma + 4))
	}
	p.Octave += octave - scale[0].Octave
	return clamp(p, cfg.PitchRange)
}

func clamp(p theory.Pitch, r PitchRange) theory.Pitch {
	for theory.Measure(theory.MiddleC, p) < r.Low {
		p.Octave++
	}
	for theory.Measure(theory.MiddleC, p) > r.High {
		p.Octave--
	}
	return p
}
