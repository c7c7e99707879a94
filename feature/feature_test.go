package feature

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

// voice builds a voice from "pitch:code" tokens, "r" being a rest and "+"
// joining a pitch group, e.g. voice(t, "C-4:4 r:4 E-4+G-4:2").
func voice(t *testing.T, notes string) Voice {
	t.Helper()
	var body []model.NoteBody
	for _, tok := range strings.Fields(notes) {
		parts := strings.Split(tok, ":")
		require.Len(t, parts, 2, tok)
		code, err := strconv.ParseFloat(parts[1], 64)
		require.NoError(t, err)
		pitch := strings.ReplaceAll(parts[0], "+", " ")
		if pitch == "r" {
			pitch = ""
		}
		body = append(body, model.NoteBody{Pitch: pitch, Length: 1 / code})
	}
	track, err := model.BuildTrack("C", body)
	require.NoError(t, err)
	return NewVoice(track)
}

func TestRepeatingLengthAndClusters(t *testing.T) {
	v := voice(t, "C-4:4 D-4:4 E-4:4 F-4:8 G-4:8")
	assert.InDelta(t, 0.6, RepeatingLength(v), 1e-9)
	assert.InDelta(t, 2.5, LengthClusters(v), 1e-9)
}

func TestRepeatingPitch(t *testing.T) {
	v := voice(t, "C-4:4 C#-4:4 C-5:4 D-4:4")
	assert.InDelta(t, 0.5, RepeatingPitch(v, true), 1e-9)
	assert.InDelta(t, 0.75, RepeatingPitch(v, false), 1e-9)
}

func TestRepeatingPassages(t *testing.T) {
	v := voice(t, "C-4:8 D-4:8 C-4:8 D-4:8 C-4:8 D-4:8 C-4:8 D-4:8")
	p := RepeatingPassages(v, false)
	assert.InDelta(t, 1, p.Repetitions, 1e-9)
	assert.InDelta(t, 4, p.Length, 1e-9)
	assert.InDelta(t, 1, p.Coverage, 1e-9)
	assert.Equal(t, p, RepeatingPassages(v, true))

	none := RepeatingPassages(voice(t, "C-4:2 G-4:2"), false)
	assert.Equal(t, Passages{}, none)
}

func TestRepeatingPassagesCoverageIsCapped(t *testing.T) {
	scale := voice(t, "C-4:4 D-4:4 E-4:4 F-4:4 G-4:4 A-4:4 B-4:4 C-5:4")
	p := RepeatingPassages(scale, false)
	assert.InDelta(t, 4.0/3, p.Repetitions, 1e-9)
	assert.InDelta(t, 3, p.Length, 1e-9)
	assert.InDelta(t, 1, p.Coverage, 1e-9)
}

func TestRepeatingPassagesWithRhythm(t *testing.T) {
	v := voice(t, "C-4:4 D-4:4 C-4:8 D-4:8 C-4:4")

	p := RepeatingPassages(v, false)
	assert.InDelta(t, 1, p.Repetitions, 1e-9)
	assert.InDelta(t, 2.5, p.Length, 1e-9)
	assert.InDelta(t, 1, p.Coverage, 1e-9)

	r := RepeatingPassages(v, true)
	assert.InDelta(t, 1, r.Repetitions, 1e-9)
	assert.InDelta(t, 2, r.Length, 1e-9)
	assert.InDelta(t, 0.4, r.Coverage, 1e-9)
}

func TestBeatAlignment(t *testing.T) {
	on, half := BeatAlignment(voice(t, "C-4:8 D-4:4 E-4:8 F-4:2"))
	assert.InDelta(t, 0.75, on, 1e-9)
	assert.InDelta(t, 0.25, half, 1e-9)
}

func TestInScaleCountsPitchedNotesOnly(t *testing.T) {
	v := voice(t, "C-4:4 C#-4:4 r:4 E-4:4")
	assert.InDelta(t, 2.0/3, InScale(v, "C"), 1e-9)
	assert.Equal(t, 0.0, InScale(voice(t, "r:1"), "C"))
}

func TestMelodicIntervals(t *testing.T) {
	assert.InDelta(t, 1, MelodicIntervals(voice(t, "C-4:8 E-4:8 C-4:8 A-4:8 G-4:2")), 1e-9)
	assert.InDelta(t, 0, MelodicIntervals(voice(t, "C-4:2 F#-4:2")), 1e-9)
	assert.Equal(t, 0.0, MelodicIntervals(voice(t, "C-4:1")))
}

func TestMelodicMotion(t *testing.T) {
	assert.InDelta(t, 1, MelodicMotion(voice(t, "C-4:4 D-4:4 E-4:4 F-4:4")), 1e-9)
	assert.InDelta(t, 2.0/3, MelodicMotion(voice(t, "C-4:4 E-4:4 G-4:4 C-5:4")), 1e-9)
}

func TestDissonantLeaps(t *testing.T) {
	assert.Equal(t, 1, DissonantLeaps(voice(t, "C-4:4 D-4:4 F#-4:2")))
	assert.Equal(t, 1, DissonantLeaps(voice(t, "C-4:4 r:4 F#-4:2")))
	assert.Equal(t, 0, DissonantLeaps(voice(t, "C-4:4 D-4:4 E-4:2")))
}

func TestMotionSegments(t *testing.T) {
	segments := Motion(voice(t, "C-4:8 D-4:8 D-4:8 C-4:8 r:8 E-4:8 F-4:8"))
	dirs := make([]Direction, len(segments))
	for i, s := range segments {
		dirs[i] = s.Direction
	}
	assert.Equal(t, []Direction{Up, Same, Down, Rest, Up, Rest}, dirs)
	assert.Equal(t, 0.25, segments[0].Length)
	assert.Equal(t, 0.625, segments[4].Start)
}

func TestContrapuntal(t *testing.T) {
	melody := voice(t, "C-4:4 D-4:4 E-4:4 F-4:4")
	cases := map[string]struct {
		second string
		check  func(Motions) float64
	}{
		"contrary": {"E-4:4 D-4:4 C-4:4 B-3:4", func(m Motions) float64 { return m.Contrary }},
		"parallel": {"E-4:4 F-4:4 G-4:4 A-4:4", func(m Motions) float64 { return m.Parallel }},
		"similar":  {"C-4:4 E-4:4 G-4:4 B-4:4", func(m Motions) float64 { return m.Similar }},
		"oblique":  {"C-3:4 C-3:4 C-3:4 C-3:4", func(m Motions) float64 { return m.Oblique }},
		"one":      {"r:1", func(m Motions) float64 { return m.One }},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			m := Contrapuntal(melody, voice(t, c.second))
			assert.InDelta(t, 1, c.check(m), 1e-9)
		})
	}

	m := Contrapuntal(voice(t, "r:1"), voice(t, "r:2 r:2"))
	assert.InDelta(t, 1, m.Rest, 1e-9)
}

func TestIntervals(t *testing.T) {
	first := voice(t, "C-4:2 r:2")
	second := voice(t, "E-4:2 G-4:2")

	spans := Intervals(first, second, 0, 10)
	require.Len(t, spans, 2)
	assert.Equal(t, Span{Start: 0, Length: 0.5, Semitones: 4}, spans[0])
	assert.True(t, spans[1].Rest)

	spans = Intervals(first, second, 0.25, 1)
	require.Len(t, spans, 2)
	assert.Equal(t, 0.25, spans[0].Length)
}

func TestChordsPerBar(t *testing.T) {
	first := voice(t, "C-4:4 E-4:4 G-4:2")
	second := voice(t, "C-5:2 r:2")
	assert.InDelta(t, 2, ChordsPerBar(first, second), 1e-9)

	long := voice(t, "C-4:1 C-4:1")
	assert.InDelta(t, 0.5, ChordsPerBar(long, voice(t, "C-5:1")), 1e-9)
	assert.InDelta(t, 1, ChordsPerBar(voice(t, "C-4+E-4:1"), Voice{}), 1e-9)
	assert.Equal(t, 0.0, ChordsPerBar(Voice{}, Voice{}))
}

func TestConsonance(t *testing.T) {
	consonant, tooLarge := Consonance(voice(t, "C-4:1"), voice(t, "E-4:2 F#-4:2"))
	assert.InDelta(t, 0.5, consonant, 1e-9)
	assert.Equal(t, 0.0, tooLarge)

	consonant, tooLarge = Consonance(voice(t, "C-4:1"), voice(t, "E-6:1"))
	assert.InDelta(t, 1, consonant, 1e-9)
	assert.InDelta(t, 1, tooLarge, 1e-9)
}

func TestSamePattern(t *testing.T) {
	first := voice(t, "C-4:4 D-4:4 E-4:2")
	second := voice(t, "E-4:4 F-4:8 G-4:8 A-4:2")
	assert.InDelta(t, 0.75, SamePattern(first, second), 1e-9)
	assert.InDelta(t, 1, SamePattern(first, first), 1e-9)
}

func TestDurations(t *testing.T) {
	h := Durations(voice(t, "C-4:4 D-4:4 E-4:2"))
	assert.Equal(t, []int{0, 0, 0, 2, 0, 1, 0, 0}, h.Counts)
	assert.Equal(t, 0, h.Strange)
	assert.InDelta(t, 3, h.Score(PassagePoints), 1e-9)
	assert.InDelta(t, 4, h.Score(EndingPoints), 1e-9)

	odd := Durations(voice(t, "C-4:3.2"))
	assert.Equal(t, 2, odd.Strange)
}

func TestAnalyze(t *testing.T) {
	var track model.Track
	require.NoError(t, track.Add("C", 0.5, theory.MustParsePitch("C-4")))
	require.NoError(t, track.Add("C", 0.5, theory.MustParsePitch("G-4")))

	r := Analyze(track, "C")
	assert.Equal(t, 2, r.Notes)
	assert.Equal(t, 1.0, r.RepeatingLength)
	assert.Equal(t, 1.0, r.InScale)
	assert.Equal(t, 1.0, r.OnBeat)
	assert.Equal(t, 1.0, r.MelodicIntervals)
}
