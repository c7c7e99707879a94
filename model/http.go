package model

import (
	"fmt"
	"strings"

	"github.com/jsphweid/fugue/theory"
)

// NoteBody is the wire form of a note. Pitch holds one pitch ("C#-4"),
// several separated by spaces, or nothing for a rest.
type NoteBody struct {
	Pitch  string  `json:"pitch"`
	Length float64 `json:"length"`
}

type EvolveRequestBody struct {
	Key            string     `json:"key"`
	Bars           int        `json:"bars"`
	Style          string     `json:"style"`
	Generations    int        `json:"generations"`
	PopulationSize int        `json:"population_size"`
	Seed           uint64     `json:"seed"`
	Melody         []NoteBody `json:"melody"`
	From           []NoteBody `json:"from"`
	To             []NoteBody `json:"to"`
}

type EvolveResponse struct {
	Fitness      float64      `json:"fitness"`
	Generation   int          `json:"generation"`
	Bars         [][]NoteBody `json:"bars"`
	Text         string       `json:"text"`
	ChordsPerBar float64      `json:"chords_per_bar,omitempty"`
}

type StylesResponse struct {
	Styles []string `json:"styles"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

// BuildTrack packs wire notes into bars of the given key. A partially filled
// last bar is padded with a rest.
func BuildTrack(key theory.Key, notes []NoteBody) (Track, error) {
	var t Track
	for i, n := range notes {
		var pitches []theory.Pitch
		for _, field := range strings.Fields(n.Pitch) {
			p, err := theory.ParsePitch(field)
			if err != nil {
				return Track{}, fmt.Errorf("note %d: %w", i, err)
			}
			pitches = append(pitches, p)
		}
		if err := t.Add(key, n.Length, pitches...); err != nil {
			return Track{}, fmt.Errorf("note %d: %w", i, err)
		}
	}
	if err := t.PadLast(); err != nil {
		return Track{}, err
	}
	return t, nil
}

func (t Track) Body() [][]NoteBody {
	bars := make([][]NoteBody, len(t.Bars))
	for i, b := range t.Bars {
		bars[i] = make([]NoteBody, len(b.Notes))
		for j, n := range b.Notes {
			names := make([]string, len(n.Pitches))
			for k, p := range n.Pitches {
				names[k] = p.String()
			}
			bars[i][j] = NoteBody{Pitch: strings.Join(names, " "), Length: n.Length}
		}
	}
	return bars
}
