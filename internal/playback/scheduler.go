package playback

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/audio"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
	"github.com/jscyril/golang_timeline_editor/pkg/events"
)

// Clock tells the scheduler what time it is
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Voice is one clip handed to the backend
type Voice struct {
	ClipID  string
	TrackID string
	// Delay is how long after the call the voice becomes audible
	Delay    time.Duration
	Pan      float64
	Streamer beep.Streamer
}

// Handle stops a started voice
type Handle interface {
	Stop()
}

// Backend starts voices on an audio device
type Backend interface {
	SampleRate() int
	Start(v Voice) (Handle, error)
}

// Options tune the scheduler
type Options struct {
	Lookahead     float64
	FrameInterval time.Duration
	Curve         audio.FadeCurve
	Clock         Clock
	Logger        *log.Logger
	Bus           *events.Bus
}

// session is the set of sources started by one Play call
type session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	parent  context.Context
	doc     *api.Document
	start   time.Time
	from    float64
	end     float64
	horizon float64
	handles []Handle
	started map[string]bool
}

// Scheduler plays a document by starting every audible clip at its offset
// from a single start instant. The playhead is always derived from that
// instant, never accumulated, so it cannot drift.
type Scheduler struct {
	assets  audio.Resolver
	backend Backend
	clock   Clock
	bus     *events.Bus
	logger  *log.Logger
	opts    Options

	mu       sync.Mutex
	session  *session
	playhead float64
}

// NewScheduler creates a stopped scheduler
func NewScheduler(assets audio.Resolver, backend Backend, opts Options) *Scheduler {
	if opts.Lookahead <= 0 {
		opts.Lookahead = 60
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 33 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Scheduler{
		assets:  assets,
		backend: backend,
		clock:   opts.Clock,
		bus:     opts.Bus,
		logger:  opts.Logger.WithPrefix("playback"),
		opts:    opts,
	}
}

// Play stops any active session and starts playing doc from the given time
func (s *Scheduler) Play(ctx context.Context, doc *api.Document, from float64) error {
	if doc == nil {
		return playerrors.ErrEmptyDocument
	}
	if from < 0 {
		from = 0
	}

	s.mu.Lock()
	s.stopLocked()

	sctx, cancel := context.WithCancel(ctx)
	sess := &session{
		ctx:     sctx,
		cancel:  cancel,
		parent:  ctx,
		doc:     doc,
		start:   s.clock.Now().Add(-seconds(from)),
		from:    from,
		end:     doc.End(),
		horizon: from,
		started: make(map[string]bool),
	}
	s.session = sess
	s.playhead = from
	failures := s.scheduleLocked(sess, from)
	s.mu.Unlock()

	s.report(failures)
	s.logger.Debug("play", "from", from, "voices", len(sess.handles))
	s.publishState()

	go s.run(sess)
	return nil
}

// scheduleLocked starts every audible clip intersecting the lookahead window
// at pos that this session has not started yet
func (s *Scheduler) scheduleLocked(sess *session, pos float64) []error {
	var failures []error
	rate := s.backend.SampleRate()
	to := pos + s.opts.Lookahead

	for _, track := range sess.doc.AudibleTracks() {
		for _, clip := range track.Clips {
			if sess.started[clip.ID] || !clip.Overlaps(pos, to) {
				continue
			}
			sess.started[clip.ID] = true

			asset, ok := s.assets.Lookup(clip.AssetID)
			if !ok {
				failures = append(failures, &playerrors.SchedulingError{ClipID: clip.ID, Err: playerrors.ErrAssetNotFound})
				continue
			}

			offset := pos - clip.StartTime
			delay := clip.StartTime - pos
			if offset < 0 {
				offset = 0
			}
			if delay < 0 {
				delay = 0
			}

			streamer := audio.NewClipStreamer(s.assets.Resampled(asset, rate), *clip, offset, track.Volume*clip.Gain, s.opts.Curve)
			if streamer.Len() == 0 {
				continue
			}

			handle, err := s.backend.Start(Voice{
				ClipID:   clip.ID,
				TrackID:  track.ID,
				Delay:    seconds(delay),
				Pan:      track.Pan,
				Streamer: streamer,
			})
			if err != nil {
				failures = append(failures, &playerrors.SchedulingError{ClipID: clip.ID, Err: err})
				continue
			}
			sess.handles = append(sess.handles, handle)
		}
	}
	sess.horizon = to
	return failures
}

// run drives the frame loop of one session
func (s *Scheduler) run(sess *session) {
	ticker := time.NewTicker(s.opts.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sess.ctx.Done():
			s.mu.Lock()
			if s.session == sess {
				s.stopLocked()
			}
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.tick(sess)
		}
	}
}

// tick advances one frame of sess
func (s *Scheduler) tick(sess *session) {
	s.mu.Lock()
	if s.session != sess {
		s.mu.Unlock()
		return
	}

	pos := s.positionLocked(sess)
	s.playhead = pos

	if loop := sess.doc.Loop; loop != nil && loop.Enabled && sess.from < loop.End && pos >= loop.End {
		s.mu.Unlock()
		s.logger.Debug("loop restart", "start", loop.Start)
		if err := s.Play(sess.parent, sess.doc, loop.Start); err != nil {
			s.logger.Warn("loop restart failed", "err", err)
		}
		return
	}

	if pos >= sess.end {
		s.stopLocked()
		s.playhead = sess.end
		s.mu.Unlock()
		s.publishState()
		return
	}

	var failures []error
	if pos+s.opts.Lookahead >= sess.horizon+1 {
		failures = s.scheduleLocked(sess, pos)
	}
	state := s.stateLocked()
	s.mu.Unlock()

	s.report(failures)
	s.bus.Publish(api.Event{Type: api.EventPlayheadUpdate, Payload: state})
}

// Stop halts every scheduled source and freezes the playhead
func (s *Scheduler) Stop() {
	s.mu.Lock()
	wasActive := s.session != nil
	s.stopLocked()
	s.mu.Unlock()

	if wasActive {
		s.publishState()
	}
}

func (s *Scheduler) stopLocked() {
	sess := s.session
	if sess == nil {
		return
	}
	s.playhead = s.positionLocked(sess)
	for _, h := range sess.handles {
		h.Stop()
	}
	sess.cancel()
	s.session = nil
}

// IsActive reports whether a session is playing
func (s *Scheduler) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Position returns the current playhead in seconds
func (s *Scheduler) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return s.positionLocked(s.session)
	}
	return s.playhead
}

// State returns a snapshot of the transport
func (s *Scheduler) State() api.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Scheduler) stateLocked() api.PlaybackState {
	state := api.PlaybackState{Status: api.StatusStopped, Playhead: s.playhead}
	if sess := s.session; sess != nil {
		state.Status = api.StatusPlaying
		state.Playhead = s.positionLocked(sess)
		state.Looping = sess.doc.Loop != nil && sess.doc.Loop.Enabled
	}
	return state
}

func (s *Scheduler) positionLocked(sess *session) float64 {
	return s.clock.Now().Sub(sess.start).Seconds()
}

func (s *Scheduler) publishState() {
	s.bus.Publish(api.Event{Type: api.EventStateChange, Payload: s.State()})
}

// report logs clips that could not be scheduled. Playback continues
// without them.
func (s *Scheduler) report(failures []error) {
	for _, err := range failures {
		s.logger.Warn("clip skipped", "err", err)
		s.bus.Publish(api.Event{Type: api.EventError, Payload: err})
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
