package evolve

import (
	"github.com/jsphweid/fugue/theory"
	"github.com/jsphweid/fugue/util"
)

// Checkpoint is what a finished run leaves on disk next to its MIDI file.
type Checkpoint struct {
	Style  string
	Key    theory.Key
	Seed   uint64
	Result Result
}

func SaveCheckpoint(path string, c Checkpoint) error {
	return util.CreateBinary(path, c)
}

func LoadCheckpoint(path string) (Checkpoint, error) {
	return util.ReadBinary[Checkpoint](path)
}
