package feature

import (
	"math"
	"sort"

	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
	"github.com/jsphweid/fugue/util"
)

// Span is a stretch of time over which the harmonic interval between two
// voices does not change. Rest is set when either voice rests.
type Span struct {
	Start     float64
	Length    float64
	Rest      bool
	Semitones int
}

func (s Span) End() float64 {
	return s.Start + s.Length
}

// overlap is the time both voices cover.
func overlap(first, second Voice) float64 {
	return math.Min(first.End(), second.End())
}

// Intervals splits [from, to) into maximal spans of constant interval from
// the first voice to the second. to is clipped to the shorter voice.
func Intervals(first, second Voice, from, to float64) []Span {
	to = math.Min(to, overlap(first, second))
	if to-from <= model.Epsilon {
		return nil
	}

	bounds := []float64{from, to}
	for _, v := range []Voice{first, second} {
		for _, e := range v.Events {
			if e.Start > from+model.Epsilon && e.Start < to-model.Epsilon {
				bounds = append(bounds, e.Start)
			}
		}
	}
	bounds = uniqueSorted(bounds)

	var spans []Span
	for i := 0; i+1 < len(bounds); i++ {
		a, b := bounds[i], bounds[i+1]
		s := Span{Start: a, Length: b - a}
		x, y := first.At(a), second.At(a)
		if x < 0 || y < 0 || first.Events[x].Rest || second.Events[y].Rest {
			s.Rest = true
		} else {
			s.Semitones = second.Events[y].Semitones - first.Events[x].Semitones
		}

		if n := len(spans); n > 0 && spans[n-1].Rest == s.Rest && spans[n-1].Semitones == s.Semitones {
			spans[n-1].Length += s.Length
			continue
		}
		spans = append(spans, s)
	}
	return spans
}

// intervalBefore is the interval sounding just before t, if both voices sound.
func intervalBefore(first, second Voice, t float64) (int, bool) {
	if t <= model.Epsilon {
		return 0, false
	}
	x, y := first.Before(t), second.Before(t)
	if x < 0 || y < 0 || first.Events[x].Rest || second.Events[y].Rest {
		return 0, false
	}
	return second.Events[y].Semitones - first.Events[x].Semitones, true
}

func uniqueSorted(xs []float64) []float64 {
	sort.Float64s(xs)
	out := xs[:0]
	for _, x := range xs {
		if len(out) > 0 && model.Equal(out[len(out)-1], x) {
			continue
		}
		out = append(out, x)
	}
	return out
}

// ChordsPerBar merges two voices and counts, per bar, the stretches where
// more than one pitch sounds. A pitch group within one voice counts as well.
func ChordsPerBar(first, second Voice) float64 {
	end := math.Max(first.End(), second.End())
	if end <= model.Epsilon {
		return 0
	}
	var bounds []float64
	for _, v := range []Voice{first, second} {
		for _, e := range v.Events {
			bounds = append(bounds, e.Start)
		}
	}
	chords := 0
	for _, t := range uniqueSorted(bounds) {
		if sounding(first, t)+sounding(second, t) > 1 {
			chords++
		}
	}
	return float64(chords) / math.Ceil(end-model.Epsilon)
}

// sounding is the number of pitches v plays at t.
func sounding(v Voice, t float64) int {
	i := v.At(t)
	if i < 0 || v.Events[i].Rest {
		return 0
	}
	return len(v.Events[i].Names)
}

// Consonance returns the shares of the overlap spent on consonant intervals
// and on intervals wider than 16 half steps. A wide interval can be both.
func Consonance(first, second Voice) (consonant, tooLarge float64) {
	total := overlap(first, second)
	if total <= model.Epsilon {
		return 0, 0
	}
	for _, s := range Intervals(first, second, 0, total) {
		if s.Rest {
			continue
		}
		if theory.IsConsonant(s.Semitones) {
			consonant += s.Length
		}
		if util.Abs(s.Semitones) > 16 {
			tooLarge += s.Length
		}
	}
	return consonant / total, tooLarge / total
}

// SamePattern is the share of the overlap covered by notes that start at the
// same time and last as long in both voices. Rests count as notes.
func SamePattern(first, second Voice) float64 {
	total := overlap(first, second)
	if total <= model.Epsilon {
		return 0
	}
	same := 0.0
	i, j := 0, 0
	for i < len(first.Events) && j < len(second.Events) {
		a, b := first.Events[i], second.Events[j]
		switch {
		case a.Start < b.Start-model.Epsilon:
			i++
		case b.Start < a.Start-model.Epsilon:
			j++
		default:
			if model.Equal(a.Length, b.Length) && a.End() <= total+model.Epsilon {
				same += a.Length
			}
			i++
			j++
		}
	}
	return same / total
}

// equivalent reports whether two intervals count as the same for parallel
// motion: equal, or both thirds, both seconds or both sevenths within the
// same octave.
func equivalent(a, b int) bool {
	if a == b {
		return true
	}
	if util.FloorDiv(a, 12) != util.FloorDiv(b, 12) {
		return false
	}
	ca, cb := util.FloorMod(a, 12), util.FloorMod(b, 12)
	for _, group := range [][2]int{{3, 4}, {1, 2}, {10, 11}} {
		if (ca == group[0] || ca == group[1]) && (cb == group[0] || cb == group[1]) {
			return true
		}
	}
	return false
}
