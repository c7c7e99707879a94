package theory

import "github.com/jsphweid/fugue/util"

// how many letters each interval of 1..11 half steps spans
var intervalDegrees = [11]int{1, 1, 2, 2, 3, 3, 4, 5, 5, 6, 6}

// Transpose moves p by halfSteps, spelling the result by interval degree
// (a minor third up from E is G, not F##). Whole octaves are split off
// first, so steps beyond 11 become an octave shift plus a simple interval.
func Transpose(p Pitch, halfSteps int) Pitch {
	simple := halfSteps % 12
	degree := 0
	if simple != 0 {
		degree = intervalDegrees[util.Abs(simple)-1]
	}
	if simple < 0 {
		degree = -degree
	}
	idx := util.FloorMod(letterIndex(p.Letter)+degree, 7)
	return spell(idx, p.Semitones()+halfSteps)
}

// IsConsonant reports whether the interval is a unison, third, fourth, fifth,
// sixth or a compound of one.
func IsConsonant(halfSteps int) bool {
	switch util.Abs(halfSteps) % 12 {
	case 0, 3, 4, 5, 7, 8, 9:
		return true
	}
	return false
}
