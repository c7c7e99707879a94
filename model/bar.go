package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/fugue/theory"
)

var (
	ErrBarOverflow = errors.New("note does not fit in bar")
	ErrZeroLength  = errors.New("note length must be positive")
)

type Meter struct {
	Beats int `yaml:"beats" json:"beats"`
	Unit  int `yaml:"unit" json:"unit"`
}

var CommonTime = Meter{Beats: 4, Unit: 4}

type Bar struct {
	Key   theory.Key
	Meter Meter
	Notes []Note
}

func NewBar(key theory.Key) Bar {
	return Bar{Key: key, Meter: CommonTime}
}

func (b Bar) Fill() float64 {
	var fill float64
	for _, n := range b.Notes {
		fill += n.Length
	}
	return fill
}

func (b Bar) Remaining() float64 {
	return 1 - b.Fill()
}

func (b Bar) IsFull() bool {
	return Equal(b.Fill(), 1)
}

// Place appends a note of the given length at the current fill. No pitches
// places a rest.
func (b *Bar) Place(length float64, pitches ...theory.Pitch) error {
	if length <= Epsilon {
		return fmt.Errorf("%w: %v", ErrZeroLength, length)
	}
	fill := b.Fill()
	if fill+length > 1+Epsilon {
		return fmt.Errorf("%w: %v on top of %v", ErrBarOverflow, length, fill)
	}
	n := Note{Onset: fill, Length: length}
	if len(pitches) > 0 {
		n.Pitches = append([]theory.Pitch(nil), pitches...)
	}
	b.Notes = append(b.Notes, n)
	return nil
}

func (b *Bar) PlaceRest(length float64) error {
	return b.Place(length)
}

func (b Bar) Clone() Bar {
	c := b
	c.Notes = make([]Note, len(b.Notes))
	for i, n := range b.Notes {
		c.Notes[i] = n.Clone()
	}
	return c
}

func (b Bar) String() string {
	parts := make([]string, len(b.Notes))
	for i, n := range b.Notes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// formatCode prints 4 as "4" and 16/3 as "5.33".
func formatCode(code float64) string {
	s := strconv.FormatFloat(code, 'f', 2, 64)
	return strings.TrimRight(strings.TrimRight(s, "0"), ".")
}
