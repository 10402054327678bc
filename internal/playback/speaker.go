package playback

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// SpeakerBackend plays voices on the default output device through
// beep's speaker mixer
type SpeakerBackend struct {
	rate beep.SampleRate

	once    sync.Once
	initErr error
}

var _ Backend = (*SpeakerBackend)(nil)

// NewSpeakerBackend creates a backend at the output sample rate. The device
// is opened on the first voice.
func NewSpeakerBackend(sampleRate int) *SpeakerBackend {
	return &SpeakerBackend{rate: beep.SampleRate(sampleRate)}
}

// SampleRate implements Backend
func (b *SpeakerBackend) SampleRate() int {
	return int(b.rate)
}

func (b *SpeakerBackend) init() error {
	b.once.Do(func() {
		b.initErr = speaker.Init(b.rate, b.rate.N(time.Second/10))
	})
	return b.initErr
}

// Start implements Backend. The voice is preceded by Delay of silence so
// every voice of a session shares the speaker's sample clock.
func (b *SpeakerBackend) Start(v Voice) (Handle, error) {
	if err := b.init(); err != nil {
		return nil, err
	}

	panned := &effects.Pan{Streamer: v.Streamer, Pan: v.Pan}
	ctrl := &beep.Ctrl{Streamer: beep.Seq(beep.Silence(b.rate.N(v.Delay)), panned)}
	speaker.Play(ctrl)
	return &speakerHandle{ctrl: ctrl}, nil
}

type speakerHandle struct {
	ctrl *beep.Ctrl
}

// Stop detaches the voice; the mixer drops it on its next buffer
func (h *speakerHandle) Stop() {
	speaker.Lock()
	h.ctrl.Streamer = nil
	speaker.Unlock()
}
