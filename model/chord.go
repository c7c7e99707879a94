package model

// Chord is a group of MIDI keys struck on the same tick. Duration runs to
// the release of the longest held key.
type Chord struct {
	Tick     uint32
	Duration uint32
	Keys     []uint8
}

func (c Chord) End() uint32 {
	return c.Tick + c.Duration
}

type ReducedEvent struct {
	Tick      uint32
	IsNoteOff bool
	Note      uint8
}
