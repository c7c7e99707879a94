//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/fugue/cmd"
	"github.com/jsphweid/fugue/midi"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

func createMelody(t *testing.T, dir string) string {
	t.Helper()
	var melody model.Track
	for _, name := range []string{"C-4", "E-4", "G-4", "E-4", "F-4", "D-4", "B-3", "C-4"} {
		require.NoError(t, melody.Add("C", 0.25, theory.MustParsePitch(name)))
	}
	path := filepath.Join(dir, "melody.mid")
	require.NoError(t, midi.Write(path, melody))
	return path
}

func createEvolveReqBody(t *testing.T, melody model.Track) io.Reader {
	t.Helper()
	var notes []model.NoteBody
	for _, bar := range melody.Body() {
		notes = append(notes, bar...)
	}
	data, err := json.Marshal(model.EvolveRequestBody{
		Key:            "C",
		Bars:           melody.Len(),
		Style:          "counter",
		Generations:    10,
		PopulationSize: 20,
		Seed:           11,
		Melody:         notes,
	})
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestCounterMelodyFromMidiE2E(t *testing.T) {
	dir := t.TempDir()
	melody, err := midi.ReadTrack(createMelody(t, dir), "C")
	require.NoError(t, err)
	require.Equal(t, 2, melody.Len())

	req := httptest.NewRequest(http.MethodPost, "/evolve", createEvolveReqBody(t, melody))
	w := httptest.NewRecorder()
	cmd.HandleEvolve(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode, string(respBody))

	var evolveResponse model.EvolveResponse
	require.NoError(t, json.Unmarshal(respBody, &evolveResponse))
	assert.Len(evolveResponse.Bars, 2)

	var notes []model.NoteBody
	for _, bar := range evolveResponse.Bars {
		notes = append(notes, bar...)
	}
	best, err := model.BuildTrack("C", notes)
	require.NoError(t, err)

	out := filepath.Join(dir, "duet.mid")
	require.NoError(t, midi.Write(out, melody, best))
	back, err := midi.ReadMidiFile(out)
	require.NoError(t, err)
	assert.Len(back.Tracks, 2)
}
