package audio

import (
	"math"

	"github.com/jscyril/golang_timeline_editor/api"
)

// FadeCurve selects the shape of clip fade ramps
type FadeCurve int

const (
	FadeLinear FadeCurve = iota
	FadeSmoothstep
)

// ParseFadeCurve maps a config name to a curve, defaulting to linear
func ParseFadeCurve(name string) FadeCurve {
	if name == "smoothstep" {
		return FadeSmoothstep
	}
	return FadeLinear
}

// Smoothstep returns 3t^2 - 2t^3 for t in [0,1]
func Smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func (c FadeCurve) apply(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if c == FadeSmoothstep {
		return Smoothstep(t)
	}
	return t
}

// Envelope returns the fade multiplier at clip-relative time t
func Envelope(clip *api.Clip, t float64, curve FadeCurve) float64 {
	g := 1.0
	if clip.FadeIn > 0 && t < clip.FadeIn {
		g *= curve.apply(t / clip.FadeIn)
	}
	if clip.FadeOut > 0 {
		if remaining := clip.Duration - t; remaining < clip.FadeOut {
			g *= curve.apply(remaining / clip.FadeOut)
		}
	}
	return g
}

// PanGains returns the left and right multipliers for pan in [-1,1], using
// the same law as beep's effects.Pan
func PanGains(pan float64) (left, right float64) {
	return math.Min(1, 1-pan), math.Min(1, 1+pan)
}
