package feature

import (
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

// Report bundles the single voice features of one track.
type Report struct {
	Notes            int
	RepeatingLength  float64
	LengthClusters   float64
	RepeatingPitch   float64
	Passages         Passages
	RhythmicPassages Passages
	OnBeat           float64
	OnHalfBeat       float64
	InScale          float64
	MelodicIntervals float64
	MelodicMotion    float64
	DissonantLeaps   int
	Durations        Histogram
}

func Analyze(t model.Track, key theory.Key) Report {
	return AnalyzeVoice(NewVoice(t), key)
}

func AnalyzeVoice(v Voice, key theory.Key) Report {
	r := Report{
		Notes:            len(v.Events),
		RepeatingLength:  RepeatingLength(v),
		LengthClusters:   LengthClusters(v),
		RepeatingPitch:   RepeatingPitch(v, true),
		Passages:         RepeatingPassages(v, false),
		RhythmicPassages: RepeatingPassages(v, true),
		InScale:          InScale(v, key),
		MelodicIntervals: MelodicIntervals(v),
		MelodicMotion:    MelodicMotion(v),
		DissonantLeaps:   DissonantLeaps(v),
		Durations:        Durations(v),
	}
	r.OnBeat, r.OnHalfBeat = BeatAlignment(v)
	return r
}
