// Package transform holds melodic transformations of tracks. Each one returns
// a new track and leaves its input alone.
package transform

import (
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
	"github.com/jsphweid/fugue/util"
)

// mapPitches copies t, replacing every pitch with f(bar key, pitch).
func mapPitches(t model.Track, f func(theory.Key, theory.Pitch) theory.Pitch) model.Track {
	out := t.Clone()
	for i := range out.Bars {
		bar := &out.Bars[i]
		for j := range bar.Notes {
			for k, p := range bar.Notes[j].Pitches {
				bar.Notes[j].Pitches[k] = f(bar.Key, p)
			}
		}
	}
	return out
}

// Transpose moves every pitch by halfSteps. Octaves are split off first so
// the simple interval decides the spelling.
func Transpose(t model.Track, halfSteps int) model.Track {
	return mapPitches(t, func(_ theory.Key, p theory.Pitch) theory.Pitch {
		return theory.Transpose(p, halfSteps)
	})
}

// Reverse plays t backwards in the key of its first bar.
func Reverse(t model.Track) (model.Track, error) {
	notes := t.Notes()
	key := t.Key()
	var out model.Track
	for i := len(notes) - 1; i >= 0; i-- {
		n := notes[i].Clone()
		if err := out.AddTied(key, n.Length, n.Pitches...); err != nil {
			return model.Track{}, err
		}
	}
	if err := out.PadLast(); err != nil {
		return model.Track{}, err
	}
	return out, nil
}

// Inverse mirrors t diatonically around its first pitch. Letters take the
// accidental of the bar's key; a chromatic alteration is mirrored too.
func Inverse(t model.Track) model.Track {
	var axis theory.Pitch
	found := false
	for _, n := range t.Notes() {
		if p, ok := n.Pitch(); ok {
			axis, found = p, true
			break
		}
	}
	if !found {
		return t.Clone()
	}

	return mapPitches(t, func(key theory.Key, p theory.Pitch) theory.Pitch {
		if p.Step() == axis.Step() {
			return p
		}
		altered := p.Accidental - key.AccidentalOf(p.Letter)
		q := key.AtStep(2*axis.Step() - p.Step())
		q.Accidental -= altered
		if util.Abs(q.Accidental) > 1 {
			return key.Spell(q)
		}
		return q
	})
}

// RelativeMinor moves t from a major key into its relative minor. Scale
// tones keep their degree and drop a third; the leading tone is raised when
// harmonic is set. Other tones drop three half steps.
func RelativeMinor(t model.Track, key theory.Key, harmonic bool) (model.Track, theory.Key, error) {
	minor, err := key.RelativeMinor()
	if err != nil {
		return model.Track{}, "", err
	}
	leading := minor.Scale()[6].Letter

	out := mapPitches(t, func(_ theory.Key, p theory.Pitch) theory.Pitch {
		if key.Degree(p) < 0 {
			return theory.Simplify(theory.Transpose(p, -3))
		}
		q := minor.AtStep(p.Step() - 2)
		if harmonic && q.Letter == leading {
			q.Accidental++
		}
		return q
	})
	for i := range out.Bars {
		out.Bars[i].Key = minor
	}
	return out, minor, nil
}

// Answer builds a tonal answer to a subject: a tonic followed by the fifth
// above in the first bar has that fifth narrowed to a fourth, then the whole
// subject moves up a fifth into the dominant key.
func Answer(t model.Track, key theory.Key) model.Track {
	subject := t.Clone()
	tonic := key.Tonic().Name()
	if len(subject.Bars) > 0 {
		notes := subject.Bars[0].Notes
		for i := 0; i+1 < len(notes); i++ {
			first, ok := notes[i].Pitch()
			if !ok || first.Name() != tonic {
				continue
			}
			second, ok := notes[i+1].Pitch()
			if !ok || !perfectFifth(first, second) {
				continue
			}
			notes[i+1].Pitches[0] = theory.Transpose(second, -2)
		}
	}

	dominant := key.Dominant()
	out := mapPitches(subject, func(_ theory.Key, p theory.Pitch) theory.Pitch {
		return dominant.Spell(theory.Transpose(p, 7))
	})
	for i := range out.Bars {
		out.Bars[i].Key = dominant
	}
	return out
}

// perfectFifth reports whether b names the perfect fifth above a, in any
// octave.
func perfectFifth(a, b theory.Pitch) bool {
	return util.FloorMod(theory.Measure(a, b), 12) == 7 &&
		util.FloorMod(b.Step()-a.Step(), 7) == 4
}

// Shift delays t by a rest of the given length, tying notes over the bar
// lines they now cross. Used to enter a second voice in canon.
func Shift(t model.Track, rest float64) (model.Track, error) {
	key := t.Key()
	var out model.Track
	if rest > model.Epsilon {
		if err := out.AddTied(key, rest); err != nil {
			return model.Track{}, err
		}
	}
	for _, n := range t.Notes() {
		n := n.Clone()
		if err := out.AddTied(key, n.Length, n.Pitches...); err != nil {
			return model.Track{}, err
		}
	}
	if err := out.PadLast(); err != nil {
		return model.Track{}, err
	}
	return out, nil
}

// ChangeSpeed plays t factor times faster when up is set, factor times
// slower otherwise. Lengths that now cross a bar line are tied over it. A
// factor that is not positive yields an empty track.
func ChangeSpeed(t model.Track, factor float64, up bool) (model.Track, error) {
	if factor <= 0 {
		return model.Track{}, nil
	}
	scale := factor
	if up {
		scale = 1 / factor
	}
	key := t.Key()
	var out model.Track
	for _, n := range t.Notes() {
		n := n.Clone()
		if err := out.AddTied(key, n.Length*scale, n.Pitches...); err != nil {
			return model.Track{}, err
		}
	}
	if err := out.PadLast(); err != nil {
		return model.Track{}, err
	}
	return out, nil
}
