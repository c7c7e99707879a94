package model

import (
	"math"
	"strings"

	"github.com/jsphweid/fugue/theory"
)

// Epsilon is the tolerance for comparing positions and lengths within a bar.
const Epsilon = 1e-9

func Equal(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// Note is a pitch group (or a rest when Pitches is empty) placed at Onset
// within its bar. Onset and Length are fractions of a bar.
type Note struct {
	Onset   float64
	Length  float64
	Pitches []theory.Pitch
}

func (n Note) IsRest() bool {
	return len(n.Pitches) == 0
}

// Duration is the note value code: 4 for a quarter, 16/3 for a dotted eighth.
func (n Note) Duration() float64 {
	return 1 / n.Length
}

func (n Note) End() float64 {
	return n.Onset + n.Length
}

// Pitch returns the first pitch of the group.
func (n Note) Pitch() (theory.Pitch, bool) {
	if n.IsRest() {
		return theory.Pitch{}, false
	}
	return n.Pitches[0], true
}

func (n Note) Clone() Note {
	c := n
	if n.Pitches != nil {
		c.Pitches = append([]theory.Pitch(nil), n.Pitches...)
	}
	return c
}

func (n Note) String() string {
	name := "r"
	if !n.IsRest() {
		names := make([]string, len(n.Pitches))
		for i, p := range n.Pitches {
			names[i] = p.String()
		}
		name = strings.Join(names, "+")
	}
	return name + "/" + formatCode(n.Duration())
}
