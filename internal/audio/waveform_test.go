package audio

import (
	"math"
	"reflect"
	"testing"

	"github.com/jscyril/golang_timeline_editor/api"
)

func rampPCM(frames int) *api.PCM {
	left := make([]float64, frames)
	right := make([]float64, frames)
	for i := range left {
		v := float64(i) / float64(frames)
		left[i] = v
		right[i] = -v
	}
	return &api.PCM{SampleRate: 1000, Channels: [][]float64{left, right}}
}

func TestLoRes_NormalizedAndDeterministic(t *testing.T) {
	pcm := &api.PCM{SampleRate: 1000, Channels: [][]float64{make([]float64, 4000)}}
	for i := range pcm.Channels[0] {
		pcm.Channels[0][i] = math.Sin(float64(i) / 10)
	}

	first := LoRes(pcm, LoResPoints)
	second := LoRes(pcm, LoResPoints)

	if len(first) != LoResPoints {
		t.Fatalf("len = %d, want %d", len(first), LoResPoints)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("LoRes is not deterministic")
	}

	var peak float64
	for i, v := range first {
		if v < 0 || v > 1 {
			t.Errorf("point %d = %v, want within [0,1]", i, v)
		}
		peak = math.Max(peak, v)
	}
	if peak != 1 {
		t.Errorf("peak = %v, want 1", peak)
	}
}

func TestLoRes_Silence(t *testing.T) {
	pcm := &api.PCM{SampleRate: 1000, Channels: [][]float64{make([]float64, 500)}}
	for i, v := range LoRes(pcm, 50) {
		if v != 0 {
			t.Fatalf("point %d = %v, want 0", i, v)
		}
	}
}

func TestHiRes_MinMax(t *testing.T) {
	pcm := &api.PCM{
		SampleRate: 4,
		Channels:   [][]float64{{0.5, -0.25, 1, -1, 0, 0.75}},
	}

	got := HiRes(pcm, 3)
	want := []api.MinMax{{Min: -0.25, Max: 0.5}, {Min: -1, Max: 1}, {Min: 0, Max: 0.75}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HiRes() = %v, want %v", got, want)
	}
}

func TestHiRes_PointCount(t *testing.T) {
	tests := []struct {
		frames int
		want   int
	}{
		{10, 10},
		{MaxHiResPoints, MaxHiResPoints},
		{MaxHiResPoints * 3, MaxHiResPoints},
	}

	for _, tt := range tests {
		got := HiRes(rampPCM(tt.frames), MaxHiResPoints)
		if len(got) != tt.want {
			t.Errorf("HiRes(%d frames) len = %d, want %d", tt.frames, len(got), tt.want)
		}
	}
}

func TestHiRes_StereoAveraged(t *testing.T) {
	// left and right cancel out, so the mono envelope is flat
	for i, mm := range HiRes(rampPCM(100), 10) {
		if mm.Min != 0 || mm.Max != 0 {
			t.Fatalf("block %d = %+v, want zero", i, mm)
		}
	}
}

func TestSlice(t *testing.T) {
	env := make([]api.MinMax, 100)

	if got := len(Slice(env, 10, 2, 4)); got != 20 {
		t.Errorf("Slice(2,4) len = %d, want 20", got)
	}
	if got := len(Slice(env, 10, 8, 20)); got != 20 {
		t.Errorf("Slice(8,20) len = %d, want 20", got)
	}
	if got := Slice(env, 10, 4, 4); got != nil {
		t.Errorf("Slice(4,4) = %v, want nil", got)
	}
}
