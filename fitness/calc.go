// Package fitness turns feature measurements into a single score per
// candidate track. Higher is better.
package fitness

import "math"

// DefaultBias is the base weight of every term.
const DefaultBias = 10.0

// Ideal values that near terms pull toward.
const (
	IdealRepeatingLength = 0.5
	IdealLengthClusters  = 4.0
	IdealRepetitions     = 1.0
	IdealPassageLength   = 3.0
	IdealSamePattern     = 0.85
)

// NearCalc penalises distance from an ideal value.
func NearCalc(value, ideal, bias float64) float64 {
	return -math.Abs(value-ideal) * bias
}

// MoreCalc rewards (or, when subtracted, penalises) a measurement in
// proportion to its size.
func MoreCalc(value, bias float64) float64 {
	return value * bias
}

// score accumulates terms on top of the base fitness of 1.
type score float64

func newScore() score {
	return 1
}

func (s *score) near(value, ideal, bias float64) {
	*s += score(NearCalc(value, ideal, bias))
}

func (s *score) more(value, bias float64) {
	*s += score(MoreCalc(value, bias))
}

func (s *score) less(value, bias float64) {
	*s -= score(MoreCalc(value, bias))
}
