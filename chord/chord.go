package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/fugue/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

func CreateChordKey(notes []uint8) string {
	sorted := append([]uint8(nil), notes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

// ReduceEvents flattens every track of s into note on / note off events at
// absolute ticks. A note on with zero velocity counts as a note off.
func ReduceEvents(s *smf.SMF) []model.ReducedEvent {
	var reducedEvents []model.ReducedEvent
	for _, events := range s.Tracks {
		var absTicks uint32
		for _, event := range events {
			absTicks += event.Delta
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				reducedEvents = append(reducedEvents, model.ReducedEvent{
					Tick:      absTicks,
					IsNoteOff: velocity == 0,
					Note:      key,
				})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				reducedEvents = append(reducedEvents, model.ReducedEvent{
					Tick:      absTicks,
					IsNoteOff: true,
					Note:      key,
				})
			}
		}
	}

	// smaller ticks first, then note offs
	sort.SliceStable(reducedEvents, func(i, j int) bool {
		if reducedEvents[i].Tick != reducedEvents[j].Tick {
			return reducedEvents[i].Tick < reducedEvents[j].Tick
		}
		return reducedEvents[i].IsNoteOff && !reducedEvents[j].IsNoteOff
	})
	return reducedEvents
}

// GroupEvents turns reduced events into chords: keys struck on the same
// tick form one chord, which lasts until the last of them is released.
// Keys still held at the end are released on the last event's tick.
func GroupEvents(events []model.ReducedEvent) []model.Chord {
	var chords []model.Chord
	pressed := make(map[uint8]int)
	var last uint32
	for _, evt := range events {
		last = evt.Tick
		if evt.IsNoteOff {
			i, ok := pressed[evt.Note]
			if !ok {
				continue
			}
			delete(pressed, evt.Note)
			if d := evt.Tick - chords[i].Tick; d > chords[i].Duration {
				chords[i].Duration = d
			}
			continue
		}

		n := len(chords)
		if n == 0 || chords[n-1].Tick != evt.Tick {
			chords = append(chords, model.Chord{Tick: evt.Tick})
			n++
		}
		if i, held := pressed[evt.Note]; held {
			if d := evt.Tick - chords[i].Tick; d > chords[i].Duration {
				chords[i].Duration = d
			}
		}
		chords[n-1].Keys = append(chords[n-1].Keys, evt.Note)
		pressed[evt.Note] = n - 1
	}

	for _, i := range pressed {
		if d := last - chords[i].Tick; d > chords[i].Duration {
			chords[i].Duration = d
		}
	}
	for i := range chords {
		sort.Slice(chords[i].Keys, func(a, b int) bool {
			return chords[i].Keys[a] < chords[i].Keys[b]
		})
	}
	return chords
}

func GetChords(s *smf.SMF) []model.Chord {
	return GroupEvents(ReduceEvents(s))
}
