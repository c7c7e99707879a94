package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jsphweid/fugue/theory"
)

var (
	ErrBarCount   = errors.New("wrong number of bars")
	ErrBarNotFull = errors.New("bar is not full")
)

// Track is an ordered run of bars. Operators treat it as a value and return
// new tracks instead of editing their inputs.
type Track struct {
	Bars []Bar
}

func NewTrack(bars ...Bar) Track {
	return Track{Bars: bars}
}

func (t Track) Len() int {
	return len(t.Bars)
}

func (t Track) Clone() Track {
	if t.Bars == nil {
		return Track{}
	}
	c := Track{Bars: make([]Bar, len(t.Bars))}
	for i, b := range t.Bars {
		c.Bars[i] = b.Clone()
	}
	return c
}

// Key is the key of the first bar.
func (t Track) Key() theory.Key {
	if len(t.Bars) == 0 {
		return ""
	}
	return t.Bars[0].Key
}

// TimedNote is a note with its bar index and its absolute start, counted in
// bars from the beginning of the track.
type TimedNote struct {
	Bar   int
	Start float64
	Note
}

func (n TimedNote) End() float64 {
	return n.Start + n.Length
}

// Notes flattens the track in onset order.
func (t Track) Notes() []TimedNote {
	var notes []TimedNote
	for i, b := range t.Bars {
		for _, n := range b.Notes {
			notes = append(notes, TimedNote{Bar: i, Start: float64(i) + n.Onset, Note: n})
		}
	}
	return notes
}

// Length is the summed length of all notes, in bars.
func (t Track) Length() float64 {
	var total float64
	for _, b := range t.Bars {
		total += b.Fill()
	}
	return total
}

// Validate checks that the track has exactly bars full bars.
func (t Track) Validate(bars int) error {
	if len(t.Bars) != bars {
		return fmt.Errorf("%w: have %d, want %d", ErrBarCount, len(t.Bars), bars)
	}
	for i, b := range t.Bars {
		if !b.IsFull() {
			return fmt.Errorf("%w: bar %d holds %v", ErrBarNotFull, i, b.Fill())
		}
	}
	return nil
}

// Add places a note in the last bar, opening a new bar in key when the
// track is empty or the last bar is full. Notes never cross a bar line.
func (t *Track) Add(key theory.Key, length float64, pitches ...theory.Pitch) error {
	if len(t.Bars) == 0 || t.Bars[len(t.Bars)-1].IsFull() {
		bar := NewBar(key)
		if len(t.Bars) > 0 {
			bar.Meter = t.Bars[len(t.Bars)-1].Meter
		}
		t.Bars = append(t.Bars, bar)
	}
	return t.Bars[len(t.Bars)-1].Place(length, pitches...)
}

// AddTied appends a note of any length, splitting it at bar lines into
// tied parts.
func (t *Track) AddTied(key theory.Key, length float64, pitches ...theory.Pitch) error {
	for length > Epsilon {
		room := 1.0
		if n := len(t.Bars); n > 0 && !t.Bars[n-1].IsFull() {
			room = t.Bars[n-1].Remaining()
		}
		part := math.Min(length, room)
		if err := t.Add(key, part, pitches...); err != nil {
			return err
		}
		length -= part
	}
	return nil
}

// PadLast fills the last bar up with a rest.
func (t *Track) PadLast() error {
	if len(t.Bars) == 0 {
		return nil
	}
	last := &t.Bars[len(t.Bars)-1]
	if left := last.Remaining(); left > Epsilon {
		return last.PlaceRest(left)
	}
	return nil
}

// Concat joins copies of the given tracks.
func Concat(tracks ...Track) Track {
	var out Track
	for _, t := range tracks {
		out.Bars = append(out.Bars, t.Clone().Bars...)
	}
	return out
}

func (t Track) String() string {
	parts := make([]string, len(t.Bars))
	for i, b := range t.Bars {
		parts[i] = b.String()
	}
	return "| " + strings.Join(parts, " | ") + " |"
}

type Population []Track
