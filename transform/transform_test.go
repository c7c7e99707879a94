package transform

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

// build packs "C-4:4 r:4" style notes (length in sixteenths) into a track.
func build(t *testing.T, key theory.Key, notes string) model.Track {
	t.Helper()
	var track model.Track
	for _, field := range strings.Fields(notes) {
		name, code, ok := strings.Cut(field, ":")
		require.True(t, ok, field)
		sixteenths, err := strconv.Atoi(code)
		require.NoError(t, err, field)
		length := float64(sixteenths) / 16
		var pitches []theory.Pitch
		if name != "r" {
			pitches = append(pitches, theory.MustParsePitch(name))
		}
		require.NoError(t, track.Add(key, length, pitches...))
	}
	return track
}

// names lists the notes of a track as "C-4" or "r", in order.
func names(track model.Track) []string {
	var out []string
	for _, n := range track.Notes() {
		if p, ok := n.Pitch(); ok {
			out = append(out, p.String())
		} else {
			out = append(out, "r")
		}
	}
	return out
}

func lengths(track model.Track) []float64 {
	var out []float64
	for _, n := range track.Notes() {
		out = append(out, n.Length)
	}
	return out
}

func TestTranspose(t *testing.T) {
	in := build(t, "C", "C-4:4 r:4 E-4:8")
	out := Transpose(in, 7)
	assert.Equal(t, []string{"G-4", "r", "B-4"}, names(out))
	assert.Equal(t, lengths(in), lengths(out))
	assert.Equal(t, []string{"C-4", "r", "E-4"}, names(in))

	down := Transpose(in, -13)
	assert.Equal(t, []string{"B-2", "r", "D#-3"}, names(down))
}

func TestReverse(t *testing.T) {
	in := build(t, "C", "C-4:4 D-4:12 E-4:8 F-4:8")
	out, err := Reverse(in)
	require.NoError(t, err)
	require.NoError(t, out.Validate(2))
	assert.Equal(t, []string{"F-4", "E-4", "D-4", "C-4"}, names(out))
	assert.Equal(t, []float64{0.5, 0.5, 0.75, 0.25}, lengths(out))
}

func TestInverse(t *testing.T) {
	in := build(t, "C", "C-4:4 E-4:4 G-4:4 r:4")
	assert.Equal(t, []string{"C-4", "A-3", "F-3", "r"}, names(Inverse(in)))

	g := build(t, "G", "G-4:4 B-4:4 D-5:4 F#-4:4")
	assert.Equal(t, []string{"G-4", "E-4", "C-4", "A-4"}, names(Inverse(g)))

	chromatic := build(t, "C", "C-4:8 D#-4:8")
	assert.Equal(t, []string{"C-4", "Bb-3"}, names(Inverse(chromatic)))

	rests := build(t, "C", "r:16")
	assert.Equal(t, rests, Inverse(rests))
}

func TestRelativeMinor(t *testing.T) {
	in := build(t, "C", "C-4:4 E-4:4 G-4:4 C#-4:4")

	out, key, err := RelativeMinor(in, "C", false)
	require.NoError(t, err)
	assert.Equal(t, theory.Key("a"), key)
	assert.Equal(t, theory.Key("a"), out.Key())
	assert.Equal(t, []string{"A-3", "C-4", "E-4", "A#-3"}, names(out))

	harmonic, _, err := RelativeMinor(build(t, "C", "B-4:16"), "C", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"G#-4"}, names(harmonic))

	_, _, err = RelativeMinor(in, "a", false)
	assert.ErrorIs(t, err, theory.ErrBadKey)
}

func TestAnswerNarrowsLeapFromTonic(t *testing.T) {
	in := build(t, "C", "C-4:4 G-4:4 E-4:4 F-4:4")
	out := Answer(in, "C")
	assert.Equal(t, []string{"G-4", "C-5", "B-4", "C-5"}, names(out))
	assert.Equal(t, theory.Key("G"), out.Key())
	assert.Equal(t, []string{"C-4", "G-4", "E-4", "F-4"}, names(in))

	plain := Answer(build(t, "C", "D-4:8 A-4:8"), "C")
	assert.Equal(t, []string{"A-4", "E-5"}, names(plain))
}

func TestShift(t *testing.T) {
	in := build(t, "C", "C-4:8 D-4:8")
	out, err := Shift(in, 0.25)
	require.NoError(t, err)
	require.NoError(t, out.Validate(2))
	assert.Equal(t, []string{"r", "C-4", "D-4", "D-4", "r"}, names(out))
	assert.Equal(t, []float64{0.25, 0.5, 0.25, 0.25, 0.75}, lengths(out))

	same, err := Shift(in, 0)
	require.NoError(t, err)
	assert.Equal(t, in, same)
}

func TestChangeSpeed(t *testing.T) {
	in := build(t, "C", "C-4:4 D-4:4 E-4:8")

	faster, err := ChangeSpeed(in, 2, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"C-4", "D-4", "E-4", "r"}, names(faster))
	assert.Equal(t, []float64{0.125, 0.125, 0.25, 0.5}, lengths(faster))

	slower, err := ChangeSpeed(in, 2, false)
	require.NoError(t, err)
	require.NoError(t, slower.Validate(2))
	assert.Equal(t, []string{"C-4", "D-4", "E-4"}, names(slower))
	assert.Equal(t, []float64{0.5, 0.5, 1}, lengths(slower))

	empty, err := ChangeSpeed(in, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, []string{"C-4", "D-4", "E-4"}, names(in))
}

func TestChangeSpeedTiesOverBarLines(t *testing.T) {
	in := build(t, "C", "C-4:8 D-4:8")
	out, err := ChangeSpeed(in, 1.5, false)
	require.NoError(t, err)
	require.NoError(t, out.Validate(2))
	assert.Equal(t, []string{"C-4", "D-4", "D-4", "r"}, names(out))
	assert.Equal(t, []float64{0.75, 0.25, 0.5, 0.5}, lengths(out))
}
