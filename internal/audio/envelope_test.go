package audio

import (
	"math"
	"testing"

	"github.com/jscyril/golang_timeline_editor/api"
)

func TestEnvelope_Linear(t *testing.T) {
	clip := &api.Clip{Duration: 10, FadeIn: 2, FadeOut: 4}

	tests := []struct {
		at   float64
		want float64
	}{
		{0, 0},
		{1, 0.5},
		{2, 1},
		{5, 1},
		{8, 0.5},
		{10, 0},
	}

	for _, tt := range tests {
		if got := Envelope(clip, tt.at, FadeLinear); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Envelope(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestEnvelope_NoFades(t *testing.T) {
	clip := &api.Clip{Duration: 3}
	for _, at := range []float64{0, 1.5, 3} {
		if got := Envelope(clip, at, FadeSmoothstep); got != 1 {
			t.Errorf("Envelope(%v) = %v, want 1", at, got)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := Smoothstep(tt.in); got != tt.want {
			t.Errorf("Smoothstep(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if Smoothstep(0.25) >= 0.25 {
		t.Error("Smoothstep should ease in below the linear ramp")
	}
}

func TestParseFadeCurve(t *testing.T) {
	if ParseFadeCurve("smoothstep") != FadeSmoothstep {
		t.Error("smoothstep not parsed")
	}
	if ParseFadeCurve("") != FadeLinear || ParseFadeCurve("bogus") != FadeLinear {
		t.Error("unknown names should default to linear")
	}
}

func TestPanGains(t *testing.T) {
	tests := []struct {
		pan         float64
		left, right float64
	}{
		{0, 1, 1},
		{-1, 1, 0},
		{1, 0, 1},
		{0.5, 0.5, 1},
	}
	for _, tt := range tests {
		l, r := PanGains(tt.pan)
		if l != tt.left || r != tt.right {
			t.Errorf("PanGains(%v) = (%v, %v), want (%v, %v)", tt.pan, l, r, tt.left, tt.right)
		}
	}
}

func TestPCMStreamer(t *testing.T) {
	pcm := &api.PCM{SampleRate: 10, Channels: [][]float64{{0, 1, 2, 3, 4, 5}}}
	s := NewPCMStreamer(pcm, 2, 10)

	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	buf := make([][2]float64, 3)
	n, ok := s.Stream(buf)
	if n != 3 || !ok {
		t.Fatalf("Stream() = (%d, %v), want (3, true)", n, ok)
	}
	if buf[0] != [2]float64{2, 2} {
		t.Errorf("first frame = %v, want [2 2]", buf[0])
	}
	n, _ = s.Stream(buf)
	if n != 1 {
		t.Errorf("second Stream() n = %d, want 1", n)
	}
	if _, ok := s.Stream(buf); ok {
		t.Error("Stream() past the end should report drained")
	}
}

func TestResample_Length(t *testing.T) {
	pcm := &api.PCM{SampleRate: 22050, Channels: [][]float64{make([]float64, 22050)}}
	out := Resample(pcm, 44100)

	if out.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", out.SampleRate)
	}
	if diff := math.Abs(float64(out.Frames() - 44100)); diff > 16 {
		t.Errorf("Frames() = %d, want about 44100", out.Frames())
	}
}

func TestClipStreamer_AppliesGainAndFade(t *testing.T) {
	src := make([]float64, 100)
	for i := range src {
		src[i] = 0.5
	}
	pcm := &api.PCM{SampleRate: 10, Channels: [][]float64{src}}
	clip := api.Clip{Duration: 4, SourceOffset: 1, FadeIn: 2}

	s := NewClipStreamer(pcm, clip, 0, 2, FadeLinear)
	if s.Len() != 40 {
		t.Fatalf("Len() = %d, want 40", s.Len())
	}

	buf := make([][2]float64, 64)
	n, _ := s.Stream(buf)
	if n != 40 {
		t.Fatalf("Stream() n = %d, want 40", n)
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample = %v, want 0 at the start of the fade", buf[0][0])
	}
	if got := buf[10][0]; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("sample at 1s = %v, want 0.5", got)
	}
	if got := buf[30][1]; got != 1 {
		t.Errorf("sample at 3s = %v, want 1", got)
	}
}

func TestClipStreamer_Offset(t *testing.T) {
	pcm := &api.PCM{SampleRate: 10, Channels: [][]float64{make([]float64, 100)}}
	clip := api.Clip{Duration: 5, SourceOffset: 2}

	if got := NewClipStreamer(pcm, clip, 3, 1, FadeLinear).Len(); got != 20 {
		t.Errorf("Len() = %d, want 20", got)
	}
}
