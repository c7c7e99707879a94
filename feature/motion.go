package feature

import "github.com/jsphweid/fugue/model"

type Direction int

const (
	Same Direction = iota
	Up
	Down
	Rest
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Rest:
		return "Rest"
	}
	return "Same"
}

// Segment is a run of a voice moving one way.
type Segment struct {
	Start     float64
	Length    float64
	Direction Direction
}

func (s Segment) End() float64 {
	return s.Start + s.Length
}

// Motion splits a voice into non-overlapping runs. A note carries the
// direction of the move into it; a note with no pitched predecessor carries
// the direction of the move out of it, or Same when there is none.
func Motion(v Voice) []Segment {
	const unknown Direction = -1
	dirs := make([]Direction, len(v.Events))
	for i, e := range v.Events {
		switch {
		case e.Rest:
			dirs[i] = Rest
		case i == 0 || v.Events[i-1].Rest:
			dirs[i] = unknown
		default:
			dirs[i] = between(v.Events[i-1].Semitones, e.Semitones)
		}
	}
	for i, d := range dirs {
		if d != unknown {
			continue
		}
		dirs[i] = Same
		if i+1 < len(dirs) && dirs[i+1] != Rest {
			dirs[i] = dirs[i+1]
		}
	}

	var segments []Segment
	for i, e := range v.Events {
		if n := len(segments); n > 0 && segments[n-1].Direction == dirs[i] {
			segments[n-1].Length += e.Length
			continue
		}
		segments = append(segments, Segment{Start: e.Start, Length: e.Length, Direction: dirs[i]})
	}
	return segments
}

func between(a, b int) Direction {
	switch {
	case b > a:
		return Up
	case b < a:
		return Down
	}
	return Same
}

func directionAt(segments []Segment, t float64) Direction {
	for _, s := range segments {
		if t >= s.Start-model.Epsilon && t < s.End()-model.Epsilon {
			return s.Direction
		}
	}
	return Rest
}

// Motions holds the share of the overlap of two voices spent in each kind
// of contrapuntal motion. One means exactly one voice rests.
type Motions struct {
	Contrary float64
	Parallel float64
	Similar  float64
	Oblique  float64
	Rest     float64
	One      float64
}

// Contrapuntal classifies the motion between two voices over the time both
// cover. Where both move the same way, spans keeping an equivalent interval
// count as parallel and the rest as similar.
func Contrapuntal(first, second Voice) Motions {
	var m Motions
	total := overlap(first, second)
	if total <= model.Epsilon {
		return m
	}
	s1, s2 := Motion(first), Motion(second)

	bounds := []float64{0, total}
	for _, segments := range [][]Segment{s1, s2} {
		for _, s := range segments {
			if s.Start > model.Epsilon && s.Start < total-model.Epsilon {
				bounds = append(bounds, s.Start)
			}
		}
	}
	bounds = uniqueSorted(bounds)

	for i := 0; i+1 < len(bounds); i++ {
		a, b := bounds[i], bounds[i+1]
		d1, d2 := directionAt(s1, a), directionAt(s2, a)
		switch {
		case d1 == Rest && d2 == Rest:
			m.Rest += b - a
		case d1 == d2:
			parallel, similar := parallelOrSimilar(first, second, a, b)
			m.Parallel += parallel
			m.Similar += similar
		case d1 == Same || d2 == Same:
			m.Oblique += b - a
		case d1 == Rest || d2 == Rest:
			m.One += b - a
		default:
			m.Contrary += b - a
		}
	}

	m.Contrary /= total
	m.Parallel /= total
	m.Similar /= total
	m.Oblique /= total
	m.Rest /= total
	m.One /= total
	return m
}

// parallelOrSimilar splits [a, b) by comparing each interval span to the
// one before it, which may lie just before a. A first span with nothing
// before it is judged against the span after it, and a lone span keeps a
// constant interval, so it is parallel.
func parallelOrSimilar(first, second Voice, a, b float64) (parallel, similar float64) {
	spans := Intervals(first, second, a, b)
	prev, ok := intervalBefore(first, second, a)
	for i, s := range spans {
		var same bool
		switch {
		case ok:
			same = equivalent(prev, s.Semitones)
		case i+1 < len(spans):
			same = equivalent(s.Semitones, spans[i+1].Semitones)
		default:
			same = true
		}
		if same {
			parallel += s.Length
		} else {
			similar += s.Length
		}
		prev, ok = s.Semitones, !s.Rest
	}
	return parallel, similar
}
