package audio

import (
	"math"

	"github.com/faiface/beep"
	"github.com/jscyril/golang_timeline_editor/api"
)

// ClipStreamer plays one clip's region of source PCM scaled by a gain and
// the clip's fade envelope. Both the live scheduler and the offline mixdown
// render clips through it, so they agree sample for sample.
type ClipStreamer struct {
	src    *PCMStreamer
	clip   api.Clip
	rate   float64
	offset float64
	gain   float64
	curve  FadeCurve
}

var _ beep.StreamSeeker = (*ClipStreamer)(nil)

// NewClipStreamer starts clip at offset seconds into the clip. pcm must
// already be at the output rate.
func NewClipStreamer(pcm *api.PCM, clip api.Clip, offset, gain float64, curve FadeCurve) *ClipStreamer {
	if offset < 0 {
		offset = 0
	}
	rate := float64(pcm.SampleRate)
	from := int(math.Round((clip.SourceOffset + offset) * rate))
	to := int(math.Round((clip.SourceOffset + clip.Duration) * rate))
	return &ClipStreamer{
		src:    NewPCMStreamer(pcm, from, to),
		clip:   clip,
		rate:   rate,
		offset: offset,
		gain:   gain,
		curve:  curve,
	}
}

// Stream implements beep.Streamer
func (s *ClipStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	pos := s.src.Position()
	n, ok = s.src.Stream(samples)
	for i := range samples[:n] {
		t := s.offset + float64(pos+i)/s.rate
		g := s.gain * Envelope(&s.clip, t, s.curve)
		samples[i][0] *= g
		samples[i][1] *= g
	}
	return n, ok
}

// Err implements beep.Streamer
func (s *ClipStreamer) Err() error { return nil }

// Len implements beep.StreamSeeker
func (s *ClipStreamer) Len() int { return s.src.Len() }

// Position implements beep.StreamSeeker
func (s *ClipStreamer) Position() int { return s.src.Position() }

// Seek implements beep.StreamSeeker
func (s *ClipStreamer) Seek(p int) error { return s.src.Seek(p) }
