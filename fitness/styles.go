package fitness

import (
	"github.com/jsphweid/fugue/feature"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
	"github.com/jsphweid/fugue/util"
)

const closeToCMax = 2.0

// CloseToC favours short distances from middle C and penalises rests.
type CloseToC struct {
	Bars int
}

func (CloseToC) Name() string               { return "C" }
func (CloseToC) GlobalMax() (float64, bool) { return closeToCMax, true }
func (CloseToC) style()                     {}

func (s CloseToC) Evaluate(t model.Track) (float64, error) {
	notes := t.Notes()
	if len(notes) == 0 {
		return 0, ErrEmptyPassage
	}
	bars := float64(s.Bars)
	if s.Bars <= 0 {
		bars = float64(t.Len())
	}

	penalty := 0.0
	pitched := 0
	for _, n := range notes {
		p, ok := n.Pitch()
		if !ok {
			penalty += n.Length / bars
			continue
		}
		pitched++
		penalty += n.Duration() * 10 * float64(util.Abs(theory.Measure(theory.MiddleC, p))) / bars
	}
	if pitched == 0 || penalty == 0 {
		return closeToCMax, nil
	}
	return util.Min(closeToCMax, 1/penalty), nil
}

// Rests scores the total rest length, in bars.
type Rests struct{}

func (Rests) Name() string               { return "rests" }
func (Rests) GlobalMax() (float64, bool) { return 0, false }
func (Rests) style()                     {}

func (Rests) Evaluate(t model.Track) (float64, error) {
	notes := t.Notes()
	if len(notes) == 0 {
		return 0, ErrEmptyPassage
	}
	total := 0.0
	for _, n := range notes {
		if n.IsRest() {
			total += n.Length
		}
	}
	return total, nil
}

// Modulate scores the candidate as a bridge between two context passages.
type Modulate struct {
	From model.Track
	To   model.Track
	Key  theory.Key
}

func (Modulate) Name() string               { return "modulate" }
func (Modulate) GlobalMax() (float64, bool) { return 0, false }
func (Modulate) style()                     {}

func (s Modulate) Evaluate(t model.Track) (float64, error) {
	if t.Len() == 0 || len(t.Notes()) == 0 {
		return 0, ErrEmptyPassage
	}
	v := feature.NewVoice(model.Concat(s.From, t, s.To))
	r := feature.AnalyzeVoice(v, s.Key)

	sc := newScore()
	melodic(&sc, r, 5)
	sc.more(r.Durations.Score(feature.PassagePoints), DefaultBias)
	return float64(sc), nil
}

// Harmony scores the candidate as a second voice under a given melody.
type Harmony struct {
	Melody model.Track
	Key    theory.Key
}

func (Harmony) Name() string               { return "harmony" }
func (Harmony) GlobalMax() (float64, bool) { return 0, false }
func (Harmony) style()                     {}

func (s Harmony) Evaluate(t model.Track) (float64, error) {
	return harmonize(s.Melody, t, s.Key, false)
}

// Counter is Harmony with rhythmic independence: it pulls the share of
// shared rhythm toward IdealSamePattern instead of maximising it.
type Counter struct {
	Melody model.Track
	Key    theory.Key
}

func (Counter) Name() string               { return "counter" }
func (Counter) GlobalMax() (float64, bool) { return 0, false }
func (Counter) style()                     {}

func (s Counter) Evaluate(t model.Track) (float64, error) {
	return harmonize(s.Melody, t, s.Key, true)
}

func harmonize(melody, t model.Track, key theory.Key, counter bool) (float64, error) {
	if len(melody.Notes()) == 0 {
		return 0, ErrEmptyMelody
	}
	if len(t.Notes()) == 0 {
		return 0, ErrEmptyPassage
	}
	first, second := feature.NewVoice(melody), feature.NewVoice(t)
	r := feature.AnalyzeVoice(second, key)

	sc := newScore()
	melodic(&sc, r, 1.2)
	twoVoice(&sc, first, second, r, counter)
	sc.more(r.Durations.Score(feature.PassagePoints), DefaultBias*4)
	return float64(sc), nil
}

// Ending scores the candidate as the closing passage: it bridges From and To
// while harmonizing Melody, with long notes favoured.
type Ending struct {
	From   model.Track
	To     model.Track
	Melody model.Track
	Key    theory.Key
}

func (Ending) Name() string               { return "ending" }
func (Ending) GlobalMax() (float64, bool) { return 0, false }
func (Ending) style()                     {}

func (s Ending) Evaluate(t model.Track) (float64, error) {
	if len(s.Melody.Notes()) == 0 {
		return 0, ErrEmptyMelody
	}
	if len(t.Notes()) == 0 {
		return 0, ErrEmptyPassage
	}
	first := feature.NewVoice(s.Melody)
	second := feature.NewVoice(model.Concat(s.From, t, s.To))
	r := feature.AnalyzeVoice(second, s.Key)

	sc := newScore()
	melodic(&sc, r, 5)
	twoVoice(&sc, first, second, r, false)
	sc.more(r.Durations.Score(feature.EndingPoints), DefaultBias)
	return float64(sc), nil
}

// melodic adds the single voice terms shared by every composite style.
// contour weighs the melodic interval and motion rewards.
func melodic(sc *score, r feature.Report, contour float64) {
	b := DefaultBias
	sc.near(r.RepeatingLength, IdealRepeatingLength, b)
	sc.near(r.LengthClusters, IdealLengthClusters, b)
	sc.near(r.Passages.Repetitions, IdealRepetitions, b)
	sc.near(r.Passages.Length, IdealPassageLength, b)
	sc.more(r.Passages.Coverage, b)

	sc.more(r.OnBeat, b*2)
	sc.more(r.OnHalfBeat, b/2)

	sc.less(r.RepeatingPitch, b)
	sc.less(float64(r.DissonantLeaps), b*1.2)
	sc.more(r.MelodicIntervals, b*contour)
	sc.more(r.MelodicMotion, b*contour)
}

func twoVoice(sc *score, first, second feature.Voice, r feature.Report, counter bool) {
	b := DefaultBias
	sc.more(r.InScale, b*5)

	pattern := feature.SamePattern(first, second)
	if counter {
		sc.near(pattern, IdealSamePattern, b)
	} else {
		sc.more(pattern, b)
	}

	consonant, tooLarge := feature.Consonance(first, second)
	sc.more(consonant, b*2)
	sc.less(tooLarge, b*5)

	m := feature.Contrapuntal(first, second)
	sc.more(m.Contrary, b*2)
	sc.more(m.Oblique, b*1.2)
	sc.more(m.Similar, b*1.2)
	sc.less(m.Parallel, b*3)
	sc.less(m.Rest, b)
}
