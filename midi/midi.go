package midi

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/fugue/chord"
	"github.com/jsphweid/fugue/constants"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

var ErrTimeFormat = errors.New("unsupported time format")

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("parsing midi file %s: %w", filepath, err)
	}
	return res, nil
}

// ReadTrack loads a melody from a MIDI file and spells it in key.
func ReadTrack(path string, key theory.Key) (model.Track, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return model.Track{}, err
	}
	ticks, err := Resolution(s)
	if err != nil {
		return model.Track{}, err
	}
	return ToTrack(chord.GetChords(s), ticks, key)
}

// Resolution is the number of ticks per quarter note.
func Resolution(s *smf.SMF) (uint32, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrTimeFormat, s.TimeFormat)
	}
	return uint32(ticks), nil
}

// ToTrack lays chords out in 4/4 bars. Onsets and releases snap to the
// sixteenth grid, a chord is cut short where the next one starts, gaps
// become rests and notes crossing a bar line are tied.
func ToTrack(chords []model.Chord, ticks4th uint32, key theory.Key) (model.Track, error) {
	if ticks4th == 0 {
		return model.Track{}, fmt.Errorf("%w: zero resolution", ErrTimeFormat)
	}
	sorted := append([]model.Chord(nil), chords...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tick < sorted[j].Tick
	})

	step := float64(ticks4th) * 4 / constants.GridSteps
	snap := func(tick uint32) int {
		return int(math.Round(float64(tick) / step))
	}

	var t model.Track
	cursor := 0
	for i, c := range sorted {
		start := snap(c.Tick)
		if start < cursor {
			continue
		}
		end := snap(c.End())
		if i+1 < len(sorted) {
			if next := snap(sorted[i+1].Tick); next > start && end > next {
				end = next
			}
		}
		if end <= start {
			end = start + 1
		}

		if start > cursor {
			if err := t.AddTied(key, grid(start-cursor)); err != nil {
				return model.Track{}, err
			}
		}
		pitches := make([]theory.Pitch, len(c.Keys))
		for k, n := range c.Keys {
			pitches[k] = key.FromNote(gomidi.Note(n))
		}
		if err := t.AddTied(key, grid(end-start), pitches...); err != nil {
			return model.Track{}, err
		}
		cursor = end
	}
	if err := t.PadLast(); err != nil {
		return model.Track{}, err
	}
	return t, nil
}

func grid(steps int) float64 {
	return float64(steps) / constants.GridSteps
}

// FromTrack renders tracks as one SMF, one MIDI track and channel per voice.
func FromTrack(tracks ...model.Track) (*smf.SMF, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)

	for v, t := range tracks {
		var tr smf.Track
		meter := model.CommonTime
		if len(t.Bars) > 0 {
			meter = t.Bars[0].Meter
		}
		if v == 0 {
			tr.Add(0, smf.MetaMeter(uint8(meter.Beats), uint8(meter.Unit)))
			tr.Add(0, smf.MetaTempo(constants.Tempo))
		}

		ch := uint8(v % 16)
		var pending uint32
		for _, b := range t.Bars {
			perBar := float64(constants.TicksPerQuarter*4*b.Meter.Beats) / float64(b.Meter.Unit)
			for _, n := range b.Notes {
				ticks := uint32(math.Round(n.Length * perBar))
				if n.IsRest() {
					pending += ticks
					continue
				}
				for k, p := range n.Pitches {
					delta := uint32(0)
					if k == 0 {
						delta = pending
					}
					tr.Add(delta, gomidi.NoteOn(ch, p.Note().Value(), constants.Velocity))
				}
				for k, p := range n.Pitches {
					delta := uint32(0)
					if k == 0 {
						delta = ticks
					}
					tr.Add(delta, gomidi.NoteOff(ch, p.Note().Value()))
				}
				pending = 0
			}
		}
		tr.Close(pending)
		if err := s.Add(tr); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Write saves tracks as a MIDI file at path.
func Write(path string, tracks ...model.Track) error {
	s, err := FromTrack(tracks...)
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("writing midi file %s: %w", path, err)
	}
	return nil
}
