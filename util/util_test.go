package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorDivAndMod(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-2, FloorDiv(-13, 12))
	assert.Equal(11, FloorMod(-13, 12))
	assert.Equal(1, FloorDiv(13, 12))
	assert.Equal(1, FloorMod(13, 12))
	assert.Equal(-1, FloorDiv(-12, 12))
	assert.Equal(0, FloorMod(-12, 12))
}

func TestArgMaxPicksFirstMaximum(t *testing.T) {
	assert.Equal(t, 1, ArgMax([]float64{1, 3, 2, 3}))
	assert.Equal(t, -1, ArgMax([]int{}))
}

func TestGetKeysSorted(t *testing.T) {
	m := map[string]int{"b": 1, "c": 2, "a": 3}
	assert.Equal(t, []string{"a", "b", "c"}, GetKeys(m))
}

func TestBinaryRoundTrip(t *testing.T) {
	type payload struct {
		Name   string
		Values []float64
	}
	path := filepath.Join(t.TempDir(), "p.dat")
	in := payload{Name: "x", Values: []float64{0.25, 0.5}}

	require.NoError(t, CreateBinary(path, in))
	out, err := ReadBinary[payload](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestGatherAllMidiPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mid", "a.midi", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	paths, err := GatherAllMidiPaths(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.midi"), filepath.Join(dir, "b.mid")}, paths)

	paths, err = GatherAllMidiPaths(dir, 1)
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}
