// Package feature measures musical properties of tracks. Every feature is a
// pure function of its inputs and returns a count or a fraction.
package feature

import (
	"sort"

	"github.com/jsphweid/fugue/model"
)

// Event is a note of a voice. Start is absolute, in bars; Onset is the
// position within the note's own bar. Semitones is the first pitch's value.
type Event struct {
	Start     float64
	Onset     float64
	Length    float64
	Rest      bool
	Semitones int
	Names     []string
	Exact     []string
}

func (e Event) End() float64 {
	return e.Start + e.Length
}

// Voice is a track flattened into absolute time.
type Voice struct {
	Events []Event
}

func NewVoice(t model.Track) Voice {
	notes := t.Notes()
	v := Voice{Events: make([]Event, len(notes))}
	for i, n := range notes {
		e := Event{Start: n.Start, Onset: n.Onset, Length: n.Length, Rest: n.IsRest()}
		if p, ok := n.Pitch(); ok {
			e.Semitones = p.Semitones()
		}
		for _, p := range n.Pitches {
			e.Names = append(e.Names, string(p.Letter))
			e.Exact = append(e.Exact, p.Name())
		}
		v.Events[i] = e
	}
	return v
}

func (v Voice) End() float64 {
	if len(v.Events) == 0 {
		return 0
	}
	return v.Events[len(v.Events)-1].End()
}

// At returns the index of the event sounding at t, or -1.
func (v Voice) At(t float64) int {
	i := sort.Search(len(v.Events), func(i int) bool {
		return v.Events[i].Start > t+model.Epsilon
	}) - 1
	if i < 0 || v.Events[i].End() <= t+model.Epsilon {
		return -1
	}
	return i
}

// Before returns the index of the event sounding just before t, or -1.
func (v Voice) Before(t float64) int {
	return sort.Search(len(v.Events), func(i int) bool {
		return v.Events[i].Start >= t-model.Epsilon
	}) - 1
}

// Pitched returns the semitone values of the pitched events in order.
func (v Voice) Pitched() []int {
	var out []int
	for _, e := range v.Events {
		if !e.Rest {
			out = append(out, e.Semitones)
		}
	}
	return out
}
