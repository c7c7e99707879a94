package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/fugue/evolve"
	"github.com/jsphweid/fugue/fitness"
	"github.com/jsphweid/fugue/midi"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
	"github.com/jsphweid/fugue/util"
)

func post(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/evolve", bytes.NewReader(data))
	w := httptest.NewRecorder()
	NewRouter().ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var res model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Error
}

func TestHandleStyles(t *testing.T) {
	w := httptest.NewRecorder()
	NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/styles", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var res model.StylesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, fitness.Styles(), res.Styles)
}

func TestHandleEvolve(t *testing.T) {
	w := post(t, model.EvolveRequestBody{
		Key: "G", Bars: 2, Style: "C", Generations: 5, PopulationSize: 10, Seed: 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res model.EvolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Bars, 2)
	assert.Greater(t, res.Fitness, 0.0)
	assert.LessOrEqual(t, res.Generation, 5)
	assert.NotEmpty(t, res.Text)

	track, err := model.BuildTrack("G", append(res.Bars[0], res.Bars[1]...))
	require.NoError(t, err)
	assert.NoError(t, track.Validate(2))
}

func TestHandleEvolveHarmonyWithMelody(t *testing.T) {
	w := post(t, model.EvolveRequestBody{
		Bars: 1, Style: "harmony", Generations: 2, PopulationSize: 6, Seed: 9,
		Melody: []model.NoteBody{
			{Pitch: "E-4", Length: 0.5},
			{Pitch: "G-4", Length: 0.25},
			{Pitch: "", Length: 0.25},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHandleEvolveRejectsBadInput(t *testing.T) {
	cases := map[string]model.EvolveRequestBody{
		"key":         {Key: "H", Generations: 1},
		"style":       {Style: "jazz", Generations: 1},
		"generations": {Generations: 100000},
		"population":  {Generations: 1, PopulationSize: 100000},
		"melody":      {Style: "harmony", Generations: 1, PopulationSize: 4},
		"pitch":       {Style: "harmony", Generations: 1, Melody: []model.NoteBody{{Pitch: "X", Length: 1}}},
	}
	for name, body := range cases {
		w := post(t, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		assert.NotEmpty(t, detail(t, w), name)
	}

	w := httptest.NewRecorder()
	NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/evolve", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestConfigKeepsBase(t *testing.T) {
	base := evolve.DefaultConfig()
	cfg, err := requestConfig(base, model.EvolveRequestBody{Bars: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Bars)
	assert.Equal(t, base.PopulationSize, cfg.PopulationSize)
	assert.Equal(t, base.Key, cfg.Key)
}

func TestArrange(t *testing.T) {
	var one model.Track
	require.NoError(t, one.Add("C", 1))
	in := fitness.Inputs{Melody: one, From: one, To: one}

	assert.Len(t, arrange(fitness.CloseToC{}, in, one), 1)
	assert.Len(t, arrange(fitness.Harmony{}, in, one), 2)

	spliced := arrange(fitness.Modulate{}, in, one)
	require.Len(t, spliced, 1)
	assert.Equal(t, 3, spliced[0].Len())
}

func TestChordsPerBar(t *testing.T) {
	var melody, second model.Track
	require.NoError(t, melody.Add("C", 0.5, theory.MustParsePitch("C-4")))
	require.NoError(t, melody.Add("C", 0.5, theory.MustParsePitch("E-4")))
	require.NoError(t, second.Add("C", 0.5, theory.MustParsePitch("G-4")))
	require.NoError(t, second.Add("C", 0.5))

	assert.InDelta(t, 1, chordsPerBar([]model.Track{melody, second}), 1e-9)
	assert.Equal(t, 0.0, chordsPerBar([]model.Track{melody}))
}

func TestApplySpeed(t *testing.T) {
	var in model.Track
	require.NoError(t, in.Add("C", 0.5, theory.MustParsePitch("C-4")))
	require.NoError(t, in.Add("C", 0.5, theory.MustParsePitch("D-4")))

	transformFlags.factor, transformFlags.slower = 2, true
	defer func() { transformFlags.factor, transformFlags.slower = 2, false }()
	out, err := applyTransform("speed", in, "C")
	require.NoError(t, err)
	assert.NoError(t, out.Validate(2))

	_, err = applyTransform("retrograde", in, "C")
	assert.Error(t, err)
}

func TestProgressPrinterFlushesLatest(t *testing.T) {
	var out bytes.Buffer
	p := newProgressPrinter(&out, time.Hour)
	p.Observe(evolve.Progress{Generation: 1, Fitness: 0.5})
	p.Observe(evolve.Progress{Generation: 3, Fitness: 1})
	p.Flush()
	p.Flush()
	assert.Equal(t, "generation 3: fitness 1.0000\n", out.String())
}

func TestReportReadsMidiFiles(t *testing.T) {
	dir := t.TempDir()
	var melody model.Track
	for _, name := range []string{"C-4", "E-4", "G-4", "C-5"} {
		require.NoError(t, melody.Add("C", 0.25, theory.MustParsePitch(name)))
	}
	require.NoError(t, midi.Write(filepath.Join(dir, "a.mid"), melody))

	paths, err := util.GatherAllMidiPaths(dir, 0)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	var out bytes.Buffer
	require.NoError(t, report(&out, paths, "C"))
	assert.Contains(t, out.String(), "a.mid")
	assert.Contains(t, out.String(), "1 files")
}
