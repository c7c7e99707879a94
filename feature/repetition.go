package feature

import (
	"fmt"
	"math"

	"github.com/jsphweid/fugue/model"
)

// RepeatingLength is the share of notes, rests included, that have the most
// common length.
func RepeatingLength(v Voice) float64 {
	if len(v.Events) == 0 {
		return 0
	}
	counts := map[float64]int{}
	best := 0
	for _, e := range v.Events {
		counts[e.Length]++
		if counts[e.Length] > best {
			best = counts[e.Length]
		}
	}
	return float64(best) / float64(len(v.Events))
}

// LengthClusters is the mean size of runs of consecutive equal lengths.
func LengthClusters(v Voice) float64 {
	if len(v.Events) == 0 {
		return 0
	}
	clusters := 1
	for i := 1; i < len(v.Events); i++ {
		if !model.Equal(v.Events[i].Length, v.Events[i-1].Length) {
			clusters++
		}
	}
	return float64(len(v.Events)) / float64(clusters)
}

// RepeatingPitch is the count of the most common pitch name over the number
// of pitched notes. Exact tells C# from C; otherwise only letters count.
func RepeatingPitch(v Voice, exact bool) float64 {
	counts := map[string]int{}
	pitched, best := 0, 0
	for _, e := range v.Events {
		if e.Rest {
			continue
		}
		pitched++
		names := e.Names
		if exact {
			names = e.Exact
		}
		for _, n := range names {
			counts[n]++
			if counts[n] > best {
				best = counts[n]
			}
		}
	}
	if pitched == 0 {
		return 0
	}
	return float64(best) / float64(pitched)
}

type Passages struct {
	// Repetitions is the mean number of repeats of a repeated passage.
	Repetitions float64
	// Length is the mean length, in notes, of a repeated passage.
	Length float64
	// Coverage approximates the share of notes that belong to a repeat.
	// Overlapping repeats are counted once each, so it is capped at 1.
	Coverage float64
}

// step is one move of a passage: the interval to the next pitch and, when
// rhythm counts, the change in note value code.
type step struct {
	Interval int
	Duration float64
}

// RepeatingPassages finds interval sequences that recur within bars. Each
// bar restarts the running passage; rests are skipped. With rhythm set, two
// moves only match when the note values change the same way too.
func RepeatingPassages(v Voice, rhythm bool) Passages {
	repetitions := map[string]float64{}
	lengths := map[string]float64{}
	var current []step
	havePrev := false
	prev, prevCode := 0, 0.0

	for _, e := range v.Events {
		if e.Rest {
			continue
		}
		code := 1 / e.Length
		if model.Equal(e.Onset, 0) || !havePrev {
			prev, prevCode, havePrev = e.Semitones, code, true
			current = current[:0]
			continue
		}
		s := step{Interval: e.Semitones - prev}
		if rhythm {
			s.Duration = prevCode - code
		}
		current = append(current, s)
		prev, prevCode = e.Semitones, code

		for i := range current {
			key := fmt.Sprint(current[i:])
			if _, ok := repetitions[key]; ok {
				repetitions[key]++
				break
			}
			repetitions[key] = 0
			lengths[key] = float64(len(current)-i) + 1
		}
	}

	var p Passages
	repeated := 0.0
	for key, n := range repetitions {
		if n > 0 {
			p.Repetitions += n
			p.Length += lengths[key]
			p.Coverage += lengths[key] * n
			repeated++
		}
	}
	if repeated > 0 && len(v.Events) > 0 {
		p.Repetitions /= repeated
		p.Length /= repeated
		p.Coverage = math.Min(1, p.Coverage/float64(len(v.Events)))
	}
	return p
}

// BeatAlignment returns the shares of notes that start on a multiple of
// their own length, and of those that start halfway between two such
// positions.
func BeatAlignment(v Voice) (onBeat, onHalfBeat float64) {
	if len(v.Events) == 0 {
		return 0, 0
	}
	on, half := 0, 0
	for _, e := range v.Events {
		switch {
		case divides(e.Onset, e.Length):
			on++
		case divides(e.Onset, e.Length/2):
			half++
		}
	}
	n := float64(len(v.Events))
	return float64(on) / n, float64(half) / n
}

func divides(x, step float64) bool {
	r := math.Mod(x, step)
	return r <= model.Epsilon || step-r <= model.Epsilon
}
