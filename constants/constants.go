package constants

import "os"

func GetOutputDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

// GetMediaDir is where the report command looks for MIDI files when no path
// is given.
func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}
	return "."
}

// LegalLengths are the note lengths, as fractions of a bar, that the
// generator draws from: sixteenth, eighth, dotted eighth, quarter, dotted
// quarter, half, dotted half and whole.
var LegalLengths = []float64{1.0 / 16, 1.0 / 8, 3.0 / 16, 1.0 / 4, 3.0 / 8, 1.0 / 2, 3.0 / 4, 1}

// GridSteps is the number of crossover positions per bar.
const GridSteps = 16

const TicksPerQuarter = 960

const Velocity = 100

const Tempo = 120.0

// Caps on runs requested over HTTP.
const (
	MaxServeGenerations = 2000
	MaxServePopulation  = 1000
)
