package evolve

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/jsphweid/fugue/constants"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

var (
	// ErrInvariant means an operator produced a track with the wrong number
	// of bars or a bar that is not full.
	ErrInvariant = errors.New("track invariant broken")
	ErrOverlap   = errors.New("fragments overlap")
)

// Fragment is part of a bar: notes laid end to end from Start, with onsets
// relative to the bar.
type Fragment struct {
	Key   theory.Key
	Meter model.Meter
	Start float64
	Notes []model.Note
}

func (f Fragment) End() float64 {
	end := f.Start
	for _, n := range f.Notes {
		end += n.Length
	}
	return end
}

// SplitBar cuts a bar at offset. A note straddling the cut becomes two notes
// of the same pitch whose lengths add up to the original.
func SplitBar(bar model.Bar, offset float64) (head, tail Fragment) {
	head = Fragment{Key: bar.Key, Meter: bar.Meter}
	tail = Fragment{Key: bar.Key, Meter: bar.Meter, Start: offset}
	for _, n := range bar.Notes {
		switch {
		case n.End() <= offset+model.Epsilon:
			head.Notes = append(head.Notes, n.Clone())
		case n.Onset >= offset-model.Epsilon:
			tail.Notes = append(tail.Notes, n.Clone())
		default:
			first := n.Clone()
			first.Length = offset - n.Onset
			second := n.Clone()
			second.Onset = offset
			second.Length = n.Length - first.Length
			head.Notes = append(head.Notes, first)
			tail.Notes = append(tail.Notes, second)
		}
	}
	return head, tail
}

// Combine joins the start of one bar with the end of another. A gap between
// them becomes a rest.
func Combine(head, tail Fragment) (model.Bar, error) {
	end := head.End()
	if end > tail.Start+model.Epsilon {
		return model.Bar{}, fmt.Errorf("%w: head ends at %v, tail starts at %v", ErrOverlap, end, tail.Start)
	}

	bar := model.NewBar(head.Key)
	bar.Meter = head.Meter
	for _, n := range head.Notes {
		if err := bar.Place(n.Length, n.Pitches...); err != nil {
			return model.Bar{}, err
		}
	}
	if gap := tail.Start - end; gap > model.Epsilon {
		if err := bar.PlaceRest(gap); err != nil {
			return model.Bar{}, err
		}
	}
	for _, n := range tail.Notes {
		if err := bar.Place(n.Length, n.Pitches...); err != nil {
			return model.Bar{}, err
		}
	}
	return bar, nil
}

// Crossover cuts both parents at the same random sixteenth and swaps tails.
func Crossover(rng *rand.Rand, p1, p2 model.Track) (model.Track, model.Track, error) {
	bar := rng.IntN(p1.Len())
	offset := float64(rng.IntN(constants.GridSteps)) / constants.GridSteps
	return CrossoverAt(p1, p2, bar, offset)
}

// CrossoverAt cuts both parents at offset within bar and returns
// p1's head with p2's tail, and p2's head with p1's tail.
func CrossoverAt(p1, p2 model.Track, bar int, offset float64) (model.Track, model.Track, error) {
	n := p1.Len()
	if p2.Len() != n {
		return model.Track{}, model.Track{}, fmt.Errorf("%w: parents have %d and %d bars", ErrInvariant, n, p2.Len())
	}
	if bar < 0 || bar >= n {
		return model.Track{}, model.Track{}, fmt.Errorf("%w: break bar %d out of %d", ErrInvariant, bar, n)
	}

	parents := [2]model.Track{p1, p2}
	var heads, tails [2][]model.Bar
	var endOfHead, startOfTail [2]Fragment
	for i, p := range parents {
		c := p.Clone()
		heads[i] = c.Bars[:bar]
		if offset <= model.Epsilon {
			tails[i] = c.Bars[bar:]
			continue
		}
		tails[i] = c.Bars[bar+1:]
		endOfHead[i], startOfTail[i] = SplitBar(p.Bars[bar], offset)
	}

	var children [2]model.Track
	for i := range children {
		other := 1 - i
		bars := append([]model.Bar(nil), heads[i]...)
		if offset > model.Epsilon {
			middle, err := Combine(endOfHead[i], startOfTail[other])
			if err != nil {
				return model.Track{}, model.Track{}, fmt.Errorf("%w: %w", ErrInvariant, err)
			}
			bars = append(bars, middle)
		}
		bars = append(bars, tails[other]...)

		child := model.Track{Bars: bars}
		if err := child.Validate(n); err != nil {
			return model.Track{}, model.Track{}, fmt.Errorf("%w: crossover child %d: %w", ErrInvariant, i+1, err)
		}
		children[i] = child
	}
	return children[0], children[1], nil
}
