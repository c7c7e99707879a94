package fitness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

var (
	ErrUnknownStyle = errors.New("unknown style")
	ErrEmptyMelody  = errors.New("input melody is empty")
	ErrEmptyPassage = errors.New("candidate has no notes")
)

// Style is a fitness objective. The set of styles is closed; see Parse.
type Style interface {
	Name() string
	// GlobalMax is the best attainable fitness, when one is known. Runs stop
	// as soon as it is reached.
	GlobalMax() (float64, bool)
	Evaluate(t model.Track) (float64, error)

	style()
}

// Inputs carries everything a style may need. Each style reads only the
// fields it uses.
type Inputs struct {
	Key    theory.Key
	Bars   int
	Melody model.Track
	From   model.Track
	To     model.Track
}

var names = []string{"C", "rests", "modulate", "harmony", "counter", "ending"}

// Styles lists the names Parse accepts.
func Styles() []string {
	return append([]string(nil), names...)
}

func Parse(name string, in Inputs) (Style, error) {
	switch strings.ToLower(name) {
	case "c":
		return CloseToC{Bars: in.Bars}, nil
	case "rests", "pauses":
		return Rests{}, nil
	case "modulate":
		return Modulate{From: in.From, To: in.To, Key: in.Key}, nil
	case "harmony":
		return Harmony{Melody: in.Melody, Key: in.Key}, nil
	case "counter":
		return Counter{Melody: in.Melody, Key: in.Key}, nil
	case "ending":
		return Ending{From: in.From, To: in.To, Melody: in.Melody, Key: in.Key}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}
