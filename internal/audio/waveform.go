package audio

import (
	"math"

	"github.com/jscyril/golang_timeline_editor/api"
)

const (
	// LoResPoints is the size of the thumbnail envelope
	LoResPoints = 200
	// MaxHiResPoints caps the min/max envelope used for continuous rendering
	MaxHiResPoints = 50000
)

// Analyze computes both envelopes at the default resolutions
func Analyze(pcm *api.PCM) ([]float64, []api.MinMax) {
	return LoRes(pcm, LoResPoints), HiRes(pcm, MaxHiResPoints)
}

// mono averages the channels of every frame
func mono(pcm *api.PCM) []float64 {
	frames := pcm.Frames()
	out := make([]float64, frames)
	if frames == 0 {
		return out
	}
	scale := 1 / float64(len(pcm.Channels))
	for i := 0; i < frames; i++ {
		var sum float64
		for _, ch := range pcm.Channels {
			sum += ch[i]
		}
		out[i] = sum * scale
	}
	return out
}

// blockBounds splits n frames into points contiguous blocks using integer
// arithmetic so the split never depends on floating point rounding
func blockBounds(i, points, n int) (int, int) {
	return int(int64(i) * int64(n) / int64(points)), int(int64(i+1) * int64(n) / int64(points))
}

// LoRes returns points values of mean absolute amplitude, max-normalized to [0,1]
func LoRes(pcm *api.PCM, points int) []float64 {
	out := make([]float64, points)
	if points <= 0 || pcm.Frames() == 0 {
		return out
	}

	samples := mono(pcm)
	var peak float64
	for i := range out {
		from, to := blockBounds(i, points, len(samples))
		if to <= from {
			continue
		}
		var sum float64
		for _, s := range samples[from:to] {
			sum += math.Abs(s)
		}
		out[i] = sum / float64(to-from)
		if out[i] > peak {
			peak = out[i]
		}
	}

	if peak > 0 {
		for i := range out {
			out[i] /= peak
		}
	}
	return out
}

// HiRes returns up to maxPoints blocks holding the true min and max sample.
// Audio is bipolar, so keeping both extremes preserves transients that a
// single downsampled value would lose.
func HiRes(pcm *api.PCM, maxPoints int) []api.MinMax {
	samples := mono(pcm)
	points := len(samples)
	if points > maxPoints {
		points = maxPoints
	}
	if points <= 0 {
		return []api.MinMax{}
	}

	out := make([]api.MinMax, points)
	for i := range out {
		from, to := blockBounds(i, points, len(samples))
		lo, hi := samples[from], samples[from]
		for _, s := range samples[from+1 : to] {
			if s < lo {
				lo = s
			}
			if s > hi {
				hi = s
			}
		}
		out[i] = api.MinMax{Min: lo, Max: hi}
	}
	return out
}

// Slice returns the portion of a hi-res envelope covering [from, to) seconds
// of an asset lasting duration seconds
func Slice(env []api.MinMax, duration, from, to float64) []api.MinMax {
	if len(env) == 0 || duration <= 0 || to <= from {
		return nil
	}
	per := float64(len(env)) / duration
	start := int(math.Floor(from * per))
	end := int(math.Ceil(to * per))
	if start < 0 {
		start = 0
	}
	if end > len(env) {
		end = len(env)
	}
	if start >= end {
		return nil
	}
	return env[start:end]
}
