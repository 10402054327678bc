package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/jscyril/golang_timeline_editor/api"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
	"github.com/jscyril/golang_timeline_editor/pkg/events"
)

const testRate = 100

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeHandle struct {
	stopped bool
}

func (h *fakeHandle) Stop() { h.stopped = true }

type fakeBackend struct {
	voices  []Voice
	handles []*fakeHandle
	refuse  map[string]bool
}

func (b *fakeBackend) SampleRate() int { return testRate }

func (b *fakeBackend) Start(v Voice) (Handle, error) {
	if b.refuse[v.ClipID] {
		return nil, errors.New("device busy")
	}
	h := &fakeHandle{}
	b.voices = append(b.voices, v)
	b.handles = append(b.handles, h)
	return h, nil
}

func (b *fakeBackend) voice(clipID string) (Voice, bool) {
	for _, v := range b.voices {
		if v.ClipID == clipID {
			return v, true
		}
	}
	return Voice{}, false
}

type fakeAssets struct {
	assets map[string]*api.Asset
}

func (f *fakeAssets) Resolve(ctx context.Context, path string) (*api.Asset, error) {
	return nil, playerrors.ErrAssetNotFound
}

func (f *fakeAssets) Lookup(id string) (*api.Asset, bool) {
	a, ok := f.assets[id]
	return a, ok
}

func (f *fakeAssets) Resampled(asset *api.Asset, rate int) *api.PCM {
	return asset.PCM
}

func newFakeAssets() *fakeAssets {
	pcm := &api.PCM{SampleRate: testRate, Channels: [][]float64{make([]float64, 20*testRate)}}
	for i := range pcm.Channels[0] {
		pcm.Channels[0][i] = 0.25
	}
	return &fakeAssets{assets: map[string]*api.Asset{
		"a1": {ID: "a1", DurationSeconds: 20, PCM: pcm},
	}}
}

func clip(id string, start, dur float64) *api.Clip {
	return &api.Clip{ID: id, AssetID: "a1", StartTime: start, Duration: dur, Gain: 1}
}

func testDoc() *api.Document {
	doc := api.NewDocument()
	doc.Tracks = []*api.Track{
		{ID: "t1", Volume: 1, Clips: []*api.Clip{clip("c1", 0, 10), clip("c2", 8, 4), clip("far", 100, 2)}},
		{ID: "t2", Volume: 1, Muted: true, Clips: []*api.Clip{clip("muted", 0, 5)}},
	}
	return doc
}

func newTestScheduler(backend *fakeBackend, clock *fakeClock, bus *events.Bus) *Scheduler {
	return NewScheduler(newFakeAssets(), backend, Options{
		Lookahead:     60,
		FrameInterval: time.Hour,
		Clock:         clock,
		Bus:           bus,
	})
}

func TestPlay_PlayheadDerivedFromStartInstant(t *testing.T) {
	clock := newFakeClock()
	s := newTestScheduler(&fakeBackend{}, clock, nil)

	if err := s.Play(context.Background(), testDoc(), 5); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	defer s.Stop()

	clock.Advance(2 * time.Second)
	if got := s.Position(); got != 7 {
		t.Errorf("Position() = %v, want 7", got)
	}
	if st := s.State(); st.Status != api.StatusPlaying {
		t.Errorf("Status = %v, want playing", st.Status)
	}
}

func TestPlay_SchedulesAudibleClipsInWindow(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestScheduler(backend, newFakeClock(), nil)

	if err := s.Play(context.Background(), testDoc(), 5); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	defer s.Stop()

	if len(backend.voices) != 2 {
		t.Fatalf("started %d voices, want 2", len(backend.voices))
	}

	c1, ok := backend.voice("c1")
	if !ok {
		t.Fatal("c1 not started")
	}
	if c1.Delay != 0 {
		t.Errorf("c1 delay = %v, want 0", c1.Delay)
	}
	if got := c1.Streamer.(beep.StreamSeeker).Len(); got != 5*testRate {
		t.Errorf("c1 frames = %d, want %d", got, 5*testRate)
	}

	c2, ok := backend.voice("c2")
	if !ok {
		t.Fatal("c2 not started")
	}
	if c2.Delay != 3*time.Second {
		t.Errorf("c2 delay = %v, want 3s", c2.Delay)
	}

	if _, ok := backend.voice("muted"); ok {
		t.Error("clip on a muted track was started")
	}
	if _, ok := backend.voice("far"); ok {
		t.Error("clip beyond the lookahead was started")
	}
}

func TestPlay_SoloLimitsVoices(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestScheduler(backend, newFakeClock(), nil)

	doc := testDoc()
	doc.Tracks = append(doc.Tracks, &api.Track{ID: "t3", Volume: 1, Solo: true, Clips: []*api.Clip{clip("solo", 0, 3)}})

	if err := s.Play(context.Background(), doc, 0); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	defer s.Stop()

	if len(backend.voices) != 1 || backend.voices[0].ClipID != "solo" {
		t.Errorf("voices = %v, want only the soloed clip", backend.voices)
	}
}

func TestStop_CancelsSourcesAndFreezesPlayhead(t *testing.T) {
	backend := &fakeBackend{}
	clock := newFakeClock()
	s := newTestScheduler(backend, clock, nil)

	if err := s.Play(context.Background(), testDoc(), 1); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	clock.Advance(1500 * time.Millisecond)
	s.Stop()

	if s.IsActive() {
		t.Error("IsActive() = true after Stop")
	}
	for i, h := range backend.handles {
		if !h.stopped {
			t.Errorf("handle %d still running", i)
		}
	}

	clock.Advance(10 * time.Second)
	if got := s.Position(); got != 2.5 {
		t.Errorf("Position() = %v, want frozen at 2.5", got)
	}
}

func TestPlay_RestartStopsPreviousSession(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestScheduler(backend, newFakeClock(), nil)

	if err := s.Play(context.Background(), testDoc(), 0); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	first := len(backend.handles)

	if err := s.Play(context.Background(), testDoc(), 9); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	defer s.Stop()

	for i := 0; i < first; i++ {
		if !backend.handles[i].stopped {
			t.Errorf("handle %d from the first session still running", i)
		}
	}
	if got := s.Position(); got != 9 {
		t.Errorf("Position() = %v, want 9", got)
	}
}

func TestTick_StopsAtEndOfClips(t *testing.T) {
	clock := newFakeClock()
	bus := events.NewBus()
	defer bus.Close()
	states := bus.Subscribe(api.EventStateChange)
	s := newTestScheduler(&fakeBackend{}, clock, bus)

	doc := api.NewDocument()
	doc.Tracks = []*api.Track{{ID: "t1", Volume: 1, Clips: []*api.Clip{clip("c1", 0, 4)}}}
	if err := s.Play(context.Background(), doc, 0); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	<-states

	clock.Advance(5 * time.Second)
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	s.tick(sess)

	if s.IsActive() {
		t.Error("scheduler still active past the last clip")
	}
	if got := s.Position(); got != 4 {
		t.Errorf("Position() = %v, want 4", got)
	}
	select {
	case ev := <-states:
		if ev.Payload.(api.PlaybackState).Status != api.StatusStopped {
			t.Errorf("state event = %+v, want stopped", ev.Payload)
		}
	case <-time.After(time.Second):
		t.Error("no state change on reaching the end")
	}
}

func TestTick_LoopRestartsFromLoopStart(t *testing.T) {
	backend := &fakeBackend{}
	clock := newFakeClock()
	s := newTestScheduler(backend, clock, nil)

	doc := testDoc()
	doc.Loop = &api.LoopRegion{Start: 2, End: 4, Enabled: true}
	if err := s.Play(context.Background(), doc, 2); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	defer s.Stop()
	started := len(backend.voices)

	clock.Advance(2500 * time.Millisecond)
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	s.tick(sess)

	if !s.IsActive() {
		t.Fatal("loop restart left the scheduler stopped")
	}
	if got := s.Position(); got != 2 {
		t.Errorf("Position() = %v, want 2", got)
	}
	if len(backend.voices) != 2*started {
		t.Errorf("voices = %d, want %d after restart", len(backend.voices), 2*started)
	}
	if !s.State().Looping {
		t.Error("State().Looping = false")
	}
}

func TestTick_ExtendsLookahead(t *testing.T) {
	backend := &fakeBackend{}
	clock := newFakeClock()
	s := newTestScheduler(backend, clock, nil)

	if err := s.Play(context.Background(), testDoc(), 0); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	defer s.Stop()

	clock.Advance(45 * time.Second)
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	s.tick(sess)

	far, ok := backend.voice("far")
	if !ok {
		t.Fatal("clip entering the lookahead window was not started")
	}
	if far.Delay != 55*time.Second {
		t.Errorf("far delay = %v, want 55s", far.Delay)
	}
}

func TestPlay_SkipsUnschedulableClips(t *testing.T) {
	backend := &fakeBackend{refuse: map[string]bool{"c2": true}}
	bus := events.NewBus()
	defer bus.Close()
	errs := bus.Subscribe(api.EventError)
	s := newTestScheduler(backend, newFakeClock(), bus)

	doc := testDoc()
	missing := clip("ghost", 1, 2)
	missing.AssetID = "nope"
	doc.Tracks[0].Clips = append(doc.Tracks[0].Clips, missing)
	doc.Tracks[0].SortClips()

	if err := s.Play(context.Background(), doc, 0); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	defer s.Stop()

	if _, ok := backend.voice("c1"); !ok {
		t.Error("healthy clip was not started")
	}

	skipped := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-errs:
			var schedErr *playerrors.SchedulingError
			if !errors.As(ev.Payload.(error), &schedErr) {
				t.Fatalf("error event = %v, want SchedulingError", ev.Payload)
			}
			skipped[schedErr.ClipID] = true
		case <-time.After(time.Second):
			t.Fatal("missing error event")
		}
	}
	if !skipped["c2"] || !skipped["ghost"] {
		t.Errorf("skipped = %v, want c2 and ghost", skipped)
	}
}

func TestPlay_NilDocument(t *testing.T) {
	s := newTestScheduler(&fakeBackend{}, newFakeClock(), nil)
	if err := s.Play(context.Background(), nil, 0); !errors.Is(err, playerrors.ErrEmptyDocument) {
		t.Errorf("Play(nil) error = %v, want ErrEmptyDocument", err)
	}
}

func TestPlay_ParentCancelStops(t *testing.T) {
	s := newTestScheduler(&fakeBackend{}, newFakeClock(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	if err := s.Play(ctx, testDoc(), 0); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(time.Second)
	for s.IsActive() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.IsActive() {
		t.Error("scheduler still active after the context was cancelled")
	}
}
