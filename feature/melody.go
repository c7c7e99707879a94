package feature

import (
	"github.com/jsphweid/fugue/theory"
	"github.com/jsphweid/fugue/util"
)

// InScale is the share of pitched notes whose first pitch is named in the
// key's scale.
func InScale(v Voice, key theory.Key) float64 {
	names := map[string]bool{}
	for _, n := range key.Names() {
		names[n] = true
	}
	pitched, in := 0, 0
	for _, e := range v.Events {
		if e.Rest {
			continue
		}
		pitched++
		if names[e.Exact[0]] {
			in++
		}
	}
	if pitched == 0 {
		return 0
	}
	return float64(in) / float64(pitched)
}

// MelodicIntervals is the share of melodic steps between consecutive pitched
// notes that are singable: unison, seconds, thirds, the fourth, the fifth,
// the octave, or an upward sixth followed by a downward move.
func MelodicIntervals(v Voice) float64 {
	m := v.Pitched()
	if len(m) <= 1 {
		return 0
	}
	good := 0
	for i := 0; i < len(m)-1; i++ {
		interval := m[i+1] - m[i]
		switch util.Abs(interval) {
		case 0, 1, 2, 3, 4, 5, 7, 12:
			good++
			continue
		}
		if (interval == 8 || interval == 9) && i+2 < len(m) && m[i+2]-m[i+1] < 0 {
			good++
		}
	}
	return float64(good) / float64(len(m)-1)
}

// MelodicMotion scores the contour: steps are always good, a leap is good
// when it ends the melody, is followed by a step, by a leap the other way,
// or by a smaller leap the same way. Three leaps in one direction are not.
func MelodicMotion(v Voice) float64 {
	m := v.Pitched()
	if len(m) <= 1 {
		return 0
	}
	good := 0
	skip := false
	lastDir := 0
	for i := 0; i < len(m)-1; i++ {
		if skip {
			skip = false
			continue
		}
		interval := m[i+1] - m[i]
		if util.Abs(interval) <= 2 {
			good++
			lastDir = 0
			continue
		}
		dir := sign(interval)
		if dir == lastDir {
			continue
		}
		lastDir = 0
		if i+2 >= len(m) {
			good++
			continue
		}

		// the next interval is judged together with this one
		skip = true
		next := m[i+2] - m[i+1]
		switch {
		case util.Abs(next) <= 2:
			good += 2
		case sign(next) != dir:
			good += 2
		case util.Abs(next) < util.Abs(interval):
			good += 2
			lastDir = dir
		default:
			lastDir = dir
		}
	}
	return float64(good) / float64(len(m)-1)
}

// DissonantLeaps counts tritones and sevenths, octaves folded, between each
// note and the note two places later. Pairs touching a rest are skipped.
func DissonantLeaps(v Voice) int {
	n := 0
	for i := 0; i+2 < len(v.Events); i++ {
		a, b := v.Events[i], v.Events[i+2]
		if a.Rest || b.Rest {
			continue
		}
		switch util.Abs(b.Semitones-a.Semitones) % 12 {
		case 6, 10, 11:
			n++
		}
	}
	return n
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
