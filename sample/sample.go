package sample

import (
	"errors"
	"fmt"

	"github.com/jsphweid/fugue/model"
)

var ErrTooShort = errors.New("track is too short")

// Create copies count bars of t starting at bar start.
func Create(t model.Track, start, count int) (model.Track, error) {
	if start < 0 || count < 1 || start+count > t.Len() {
		return model.Track{}, fmt.Errorf("%w: want bars %d..%d of %d", ErrTooShort, start, start+count-1, t.Len())
	}
	return model.Track{Bars: t.Clone().Bars[start : start+count]}, nil
}

// Head is the first count bars of t, used as the context after a passage.
func Head(t model.Track, count int) (model.Track, error) {
	return Create(t, 0, count)
}

// Tail is the last count bars of t, used as the context before a passage.
func Tail(t model.Track, count int) (model.Track, error) {
	return Create(t, t.Len()-count, count)
}
