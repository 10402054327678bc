package audio

import (
	"github.com/faiface/beep"
	"github.com/jscyril/golang_timeline_editor/api"
)

// resampleQuality is the beep interpolation quality used for rate conversion
const resampleQuality = 4

// PCMStreamer streams frames [from, to) of decoded PCM as a beep.StreamSeeker.
// Mono sources are duplicated to both sides.
type PCMStreamer struct {
	pcm   *api.PCM
	start int
	pos   int
	end   int
}

// NewPCMStreamer creates a streamer over frames [from, to), clamped to the PCM
func NewPCMStreamer(pcm *api.PCM, from, to int) *PCMStreamer {
	frames := pcm.Frames()
	if from < 0 {
		from = 0
	}
	if to > frames {
		to = frames
	}
	if from > to {
		from = to
	}
	return &PCMStreamer{pcm: pcm, start: from, pos: from, end: to}
}

// Stream implements beep.Streamer
func (s *PCMStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.end {
		return 0, false
	}
	left := s.pcm.Channels[0]
	right := left
	if len(s.pcm.Channels) > 1 {
		right = s.pcm.Channels[1]
	}
	for n < len(samples) && s.pos < s.end {
		samples[n] = [2]float64{left[s.pos], right[s.pos]}
		n++
		s.pos++
	}
	return n, true
}

// Err implements beep.Streamer
func (s *PCMStreamer) Err() error { return nil }

// Len implements beep.StreamSeeker
func (s *PCMStreamer) Len() int { return s.end - s.start }

// Position implements beep.StreamSeeker
func (s *PCMStreamer) Position() int { return s.pos - s.start }

// Seek implements beep.StreamSeeker
func (s *PCMStreamer) Seek(p int) error {
	if p < 0 {
		p = 0
	}
	if p > s.Len() {
		p = s.Len()
	}
	s.pos = s.start + p
	return nil
}

// Resample converts pcm to rate with beep's resampler. The conversion is a
// pure computation, so repeated calls yield identical samples.
func Resample(pcm *api.PCM, rate int) *api.PCM {
	if pcm.SampleRate == rate || rate <= 0 {
		return pcm
	}

	src := NewPCMStreamer(pcm, 0, pcm.Frames())
	resampler := beep.Resample(resampleQuality, beep.SampleRate(pcm.SampleRate), beep.SampleRate(rate), src)

	expected := int(int64(pcm.Frames())*int64(rate)/int64(pcm.SampleRate)) + 1
	out := &api.PCM{
		SampleRate: rate,
		Channels:   make([][]float64, len(pcm.Channels)),
	}
	for c := range out.Channels {
		out.Channels[c] = make([]float64, 0, expected)
	}

	buf := make([][2]float64, 4096)
	for {
		n, ok := resampler.Stream(buf)
		for _, frame := range buf[:n] {
			for c := range out.Channels {
				out.Channels[c] = append(out.Channels[c], frame[c])
			}
		}
		if !ok {
			break
		}
	}
	return out
}
