package evolve

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/jsphweid/fugue/constants"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

// piece is a note waiting to be packed into bars.
type piece struct {
	length  float64
	pitches []theory.Pitch
}

// Mutate walks the notes of t and changes each one, with probability
// 2/notes, in pitch or in length. A lengthened note swallows the notes it
// now covers, cutting the last one short when needed.
func Mutate(rng *rand.Rand, cfg Config, t model.Track) (model.Track, error) {
	notes := t.Notes()
	if len(notes) == 0 {
		return model.Track{}, fmt.Errorf("%w: nothing to mutate", ErrInvariant)
	}
	scale := cfg.Key.Scale()
	p := 2 / float64(len(notes))

	var out []piece
	cursor := 0.0
	emit := func(length float64, pitches []theory.Pitch) {
		out = append(out, piece{length: length, pitches: pitches})
		cursor += length
	}

	for _, n := range notes {
		end := n.End()
		if end <= cursor+model.Epsilon {
			continue
		}
		if n.Start < cursor-model.Epsilon {
			emit(end-cursor, n.Pitches)
			continue
		}
		if rng.Float64() >= p {
			emit(n.Length, n.Pitches)
			continue
		}
		if rng.Float64() < cfg.PitchProbability {
			emit(n.Length, mutatePitch(rng, cfg, scale, n.Pitches))
			continue
		}

		left := float64(n.Bar+1) - cursor
		length, err := mutateLength(rng, left)
		if err != nil {
			return model.Track{}, err
		}
		for _, r := range resize(n.Note, length, rng.Float64() < cfg.PauseProbability) {
			emit(r.length, r.pitches)
		}
	}

	mutated, err := pack(t, out)
	if err != nil {
		return model.Track{}, err
	}
	if err := mutated.Validate(t.Len()); err != nil {
		return model.Track{}, fmt.Errorf("%w: mutation: %w", ErrInvariant, err)
	}
	return mutated, nil
}

// mutatePitch moves every pitch of a group by the same normally distributed
// number of half steps. A rest turns into a fresh scale tone.
func mutatePitch(rng *rand.Rand, cfg Config, scale []theory.Pitch, pitches []theory.Pitch) []theory.Pitch {
	if len(pitches) == 0 {
		return []theory.Pitch{randomPitch(rng, cfg, scale)}
	}
	steps := int(math.Round(rng.NormFloat64() * cfg.PitchSigma))
	out := make([]theory.Pitch, len(pitches))
	for i, p := range pitches {
		out[i] = cfg.Key.Spell(theory.Transpose(p, steps))
	}
	return out
}

// mutateLength picks a legal length that fits in left. When all of them fit
// the longest is left out, so that whole bars keep being broken up.
func mutateLength(rng *rand.Rand, left float64) (float64, error) {
	var fits []float64
	for _, l := range constants.LegalLengths {
		if l <= left+model.Epsilon {
			fits = append(fits, l)
		}
	}
	if len(fits) == 0 {
		return 0, fmt.Errorf("%w: no legal length fits in %v", ErrInvariant, left)
	}
	if len(fits) == len(constants.LegalLengths) {
		fits = fits[:len(fits)-1]
	}
	return fits[rng.IntN(len(fits))], nil
}

// resize gives n the new length. Time it frees is filled with the same
// pitch when repeat is set, and with a rest otherwise.
func resize(n model.Note, length float64, repeat bool) []piece {
	out := []piece{{length: length, pitches: n.Pitches}}
	if freed := n.Length - length; freed > model.Epsilon {
		filler := piece{length: freed}
		if repeat {
			filler.pitches = n.Pitches
		}
		out = append(out, filler)
	}
	return out
}

// pack lays pieces into bars shaped like those of t.
func pack(t model.Track, pieces []piece) (model.Track, error) {
	out := model.Track{Bars: make([]model.Bar, 0, t.Len())}
	next := func() error {
		i := len(out.Bars)
		if i >= t.Len() {
			return fmt.Errorf("%w: mutation overflows %d bars", ErrInvariant, t.Len())
		}
		bar := model.NewBar(t.Bars[i].Key)
		bar.Meter = t.Bars[i].Meter
		out.Bars = append(out.Bars, bar)
		return nil
	}

	for _, pc := range pieces {
		if len(out.Bars) == 0 || out.Bars[len(out.Bars)-1].IsFull() {
			if err := next(); err != nil {
				return model.Track{}, err
			}
		}
		if err := out.Bars[len(out.Bars)-1].Place(pc.length, pc.pitches...); err != nil {
			return model.Track{}, fmt.Errorf("%w: %w", ErrInvariant, err)
		}
	}
	return out, nil
}
