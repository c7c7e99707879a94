package feature

import (
	"github.com/jsphweid/fugue/constants"
	"github.com/jsphweid/fugue/model"
)

// Histogram counts notes per legal length, in the order of
// constants.LegalLengths. Strange counts every other length.
type Histogram struct {
	Counts  []int
	Strange int
}

// Points weighs each legal length, in the order of constants.LegalLengths.
type Points []float64

var (
	// PassagePoints favours quarters and halves inside a passage.
	PassagePoints = Points{1.0 / 32, 1.0 / 4, 2.0 / 32, 1, 1.0 / 4, 1, 2.0 / 4, 1.0 / 2}
	// EndingPoints favours long notes at a cadence.
	EndingPoints = Points{1.0 / 64, 1.0 / 8, 2.0 / 64, 1, 1.0 / 8, 2, 2.0 / 4, 1.0 / 2}
)

func Durations(v Voice) Histogram {
	h := Histogram{Counts: make([]int, len(constants.LegalLengths))}
	for _, e := range v.Events {
		found := false
		for i, l := range constants.LegalLengths {
			if model.Equal(e.Length, l) {
				h.Counts[i]++
				found = true
				break
			}
		}
		if !found {
			h.Strange++
		}
	}
	return h
}

// Score is the sum of count times points over the legal lengths.
func (h Histogram) Score(p Points) float64 {
	var total float64
	for i, n := range h.Counts {
		if i < len(p) {
			total += float64(n) * p[i]
		}
	}
	return total
}
