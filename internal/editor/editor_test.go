package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/audio"
	"github.com/jscyril/golang_timeline_editor/internal/audio/audiotest"
	"github.com/jscyril/golang_timeline_editor/internal/config"
	"github.com/jscyril/golang_timeline_editor/internal/timeline"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
)

type fakePlayer struct {
	mu     sync.Mutex
	active bool
	pos    float64
	plays  []float64
	stops  int
}

func (p *fakePlayer) Play(ctx context.Context, doc *api.Document, from float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = true
	p.pos = from
	p.plays = append(p.plays, from)
	return nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = false
	p.stops++
}

func (p *fakePlayer) IsActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *fakePlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *fakePlayer) advanceTo(pos float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pos
}

func (p *fakePlayer) playCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.plays)
}

type fakeExporter struct {
	mu      sync.Mutex
	paths   []string
	release chan struct{}
	err     error
}

func (x *fakeExporter) Export(ctx context.Context, doc *api.Document, path string) error {
	if x.release != nil {
		<-x.release
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.paths = append(x.paths, path)
	return x.err
}

type fixture struct {
	editor   *Editor
	player   *fakePlayer
	exporter *fakeExporter
	fs       *audiotest.MemFS
	settings *config.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := audiotest.NewMemFS()
	fs.Put("/audio/kick.wav", audiotest.WAV(8000, 1, audiotest.Constant(8000, 1, 2, 1000)))

	n := 0
	f := &fixture{
		player:   &fakePlayer{},
		exporter: &fakeExporter{},
		fs:       fs,
		settings: config.NewMemoryStore(nil),
	}
	f.editor = New(Deps{
		Assets:   audio.NewStore(fs, nil, nil),
		Player:   f.player,
		Exporter: f.exporter,
		Settings: f.settings,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	return f
}

// withClip inserts a clip on the first track and selects it
func (f *fixture) withClip(t *testing.T, start, dur float64) string {
	t.Helper()
	track := f.editor.Document().Tracks[0]
	id := fmt.Sprintf("clip-%v", start)
	err := f.editor.Apply(timeline.Insert{TrackID: track.ID, Clip: api.Clip{
		ID: id, AssetID: "asset", StartTime: start, Duration: dur, Gain: 1,
	}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := f.editor.SelectClip(id); err != nil {
		t.Fatalf("select: %v", err)
	}
	return id
}

func TestNew_StartsWithOneTrack(t *testing.T) {
	f := newFixture(t)
	doc := f.editor.Document()
	if len(doc.Tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(doc.Tracks))
	}
	s := f.editor.Session()
	if s.SelectedTrackID != doc.Tracks[0].ID {
		t.Errorf("SelectedTrackID = %q, want %q", s.SelectedTrackID, doc.Tracks[0].ID)
	}
	if s.PixelsPerSecond != 10 || s.GridSize != 1 || !s.SnapEnabled {
		t.Errorf("session = %+v, want config defaults", s)
	}
	if f.editor.CanUndo() {
		t.Error("a fresh editor should have no history")
	}
}

func TestDropAsset(t *testing.T) {
	f := newFixture(t)

	if err := f.editor.DropAsset(context.Background(), "", "/audio/kick.wav", 35); err != nil {
		t.Fatalf("DropAsset() error = %v", err)
	}

	doc := f.editor.Document()
	clips := doc.Tracks[0].Clips
	if len(clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(clips))
	}
	c := clips[0]
	if c.StartTime != 4 || c.Duration != 2 || c.SourceOffset != 0 {
		t.Errorf("clip = start %v dur %v offset %v, want 4, 2, 0", c.StartTime, c.Duration, c.SourceOffset)
	}
	if c.DisplayName != "kick" {
		t.Errorf("DisplayName = %q, want kick", c.DisplayName)
	}
	if f.editor.Session().SelectedClipID != c.ID {
		t.Error("dropped clip not selected")
	}
	if !f.editor.CanUndo() {
		t.Error("drop did not create history")
	}
}

func TestDropAsset_Unreadable(t *testing.T) {
	f := newFixture(t)
	err := f.editor.DropAsset(context.Background(), "", "/audio/missing.wav", 0)
	var decodeErr *playerrors.AssetDecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("DropAsset() error = %v, want AssetDecodeError", err)
	}
	if f.editor.Document().ClipCount() != 0 || f.editor.CanUndo() {
		t.Error("failed drop changed the document")
	}
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t)
	id := f.withClip(t, 0, 4)

	if err := f.editor.Nudge(2); err != nil {
		t.Fatalf("Nudge() error = %v", err)
	}
	if ok, err := f.editor.Undo(); !ok || err != nil {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if c, _ := f.editor.Document().FindClip(id); c.StartTime != 0 {
		t.Errorf("StartTime after undo = %v, want 0", c.StartTime)
	}
	if ok, _ := f.editor.Redo(); !ok {
		t.Fatal("Redo() = false")
	}
	if c, _ := f.editor.Document().FindClip(id); c.StartTime != 2 {
		t.Errorf("StartTime after redo = %v, want 2", c.StartTime)
	}
	if ok, _ := f.editor.Redo(); ok {
		t.Error("Redo() with an empty stack = true")
	}
}

func TestRejectedEditLeavesHistoryAlone(t *testing.T) {
	f := newFixture(t)
	id := f.withClip(t, 0, 4)
	before := f.editor.Document()

	err := f.editor.Apply(timeline.Split{ClipID: id, At: 9})
	if !playerrors.IsInvalidEdit(err) {
		t.Fatalf("Apply() error = %v, want InvalidEditError", err)
	}
	if f.editor.Document() != before {
		t.Error("rejected edit replaced the document")
	}
	if got := f.editor.history.Len(); got != 1 {
		t.Errorf("history = %d, want 1", got)
	}
}

func TestCutCopyPaste(t *testing.T) {
	f := newFixture(t)

	if err := f.editor.Paste(); !errors.Is(err, playerrors.ErrNothingToPaste) {
		t.Errorf("Paste() on empty clipboard error = %v", err)
	}
	if err := f.editor.Copy(); !errors.Is(err, playerrors.ErrClipNotFound) {
		t.Errorf("Copy() with no selection error = %v", err)
	}

	id := f.withClip(t, 1, 3)
	if err := f.editor.Cut(); err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	if c, _ := f.editor.Document().FindClip(id); c != nil {
		t.Error("cut clip still in the document")
	}
	if s := f.editor.Session(); s.Clipboard == nil || s.Clipboard.ID != id {
		t.Fatalf("clipboard = %+v, want the cut clip", s.Clipboard)
	}

	f.editor.Seek(10)
	if err := f.editor.Paste(); err != nil {
		t.Fatalf("Paste() error = %v", err)
	}
	if err := f.editor.Paste(); err != nil {
		t.Fatalf("second Paste() error = %v", err)
	}

	doc := f.editor.Document()
	if doc.ClipCount() != 2 {
		t.Fatalf("ClipCount() = %d, want 2", doc.ClipCount())
	}
	for _, c := range doc.Tracks[0].Clips {
		if c.StartTime != 10 || c.Duration != 3 {
			t.Errorf("pasted clip = start %v dur %v, want 10, 3", c.StartTime, c.Duration)
		}
	}
	if doc.Tracks[0].Clips[0].ID == doc.Tracks[0].Clips[1].ID {
		t.Error("pasted clips share an ID")
	}
}

func TestSplitAtPlayhead(t *testing.T) {
	f := newFixture(t)
	id := f.withClip(t, 0, 4)

	f.editor.Seek(1.5)
	if err := f.editor.SplitAtPlayhead(); err != nil {
		t.Fatalf("SplitAtPlayhead() error = %v", err)
	}

	doc := f.editor.Document()
	first, _ := doc.FindClip(id)
	second, _ := doc.FindClip(f.editor.Session().SelectedClipID)
	if first == nil || second == nil || first == second {
		t.Fatal("split did not produce two clips")
	}
	if first.Duration != 1.5 || second.Duration != 2.5 || second.SourceOffset != 1.5 {
		t.Errorf("halves = %v/%v offset %v", first.Duration, second.Duration, second.SourceOffset)
	}

	f.editor.Seek(100)
	if err := f.editor.SplitAtPlayhead(); !errors.Is(err, playerrors.ErrClipNotFound) {
		t.Errorf("split over empty space error = %v", err)
	}
}

func TestDragCommitsOneHistoryEntry(t *testing.T) {
	f := newFixture(t)
	id := f.withClip(t, 2, 4)
	depth := f.editor.history.Len()

	if err := f.editor.BeginDrag(id, DragMove); err != nil {
		t.Fatalf("BeginDrag() error = %v", err)
	}
	if err := f.editor.BeginDrag(id, DragMove); !errors.Is(err, playerrors.ErrBusy) {
		t.Errorf("second BeginDrag() error = %v, want ErrBusy", err)
	}
	if err := f.editor.Play(context.Background()); !errors.Is(err, playerrors.ErrBusy) {
		t.Errorf("Play() while dragging error = %v, want ErrBusy", err)
	}
	if err := f.editor.Export(context.Background(), "/out.wav"); !errors.Is(err, playerrors.ErrBusy) {
		t.Errorf("Export() while dragging error = %v, want ErrBusy", err)
	}
	if err := f.editor.Apply(timeline.Delete{ClipID: id}); !errors.Is(err, playerrors.ErrBusy) {
		t.Errorf("edit of the dragged clip error = %v, want ErrBusy", err)
	}

	for _, delta := range []float64{0.4, 1.2, 2.6} {
		if err := f.editor.UpdateDrag(delta, ""); err != nil {
			t.Fatalf("UpdateDrag(%v) error = %v", delta, err)
		}
	}
	if c, _ := f.editor.Document().FindClip(id); c.StartTime != 5 {
		t.Errorf("StartTime during drag = %v, want 5", c.StartTime)
	}

	if !f.editor.EndDrag() {
		t.Fatal("EndDrag() = false, want a committed change")
	}
	if got := f.editor.history.Len(); got != depth+1 {
		t.Errorf("history = %d, want %d", got, depth+1)
	}

	f.editor.Undo()
	if c, _ := f.editor.Document().FindClip(id); c.StartTime != 2 {
		t.Errorf("StartTime after undo = %v, want 2", c.StartTime)
	}
}

func TestDragRefusesOtherEdits(t *testing.T) {
	f := newFixture(t)
	dragged := f.withClip(t, 0, 2)
	other := f.withClip(t, 6, 2)
	trackID := f.editor.Document().Tracks[0].ID
	depth := f.editor.history.Len()

	if err := f.editor.BeginDrag(dragged, DragMove); err != nil {
		t.Fatalf("BeginDrag() error = %v", err)
	}

	edits := []struct {
		name string
		run  func() error
	}{
		{"delete other clip", func() error { return f.editor.Apply(timeline.Delete{ClipID: other}) }},
		{"add track", func() error { return f.editor.AddTrack("") }},
		{"add marker", func() error { return f.editor.AddMarker("verse") }},
		{"cut", f.editor.Cut},
		{"mute", func() error { return f.editor.Transport(timeline.ToggleMute{TrackID: trackID}) }},
		{"solo", func() error { return f.editor.Transport(timeline.ToggleSolo{TrackID: trackID}) }},
	}
	for _, tt := range edits {
		if err := tt.run(); !errors.Is(err, playerrors.ErrBusy) {
			t.Errorf("%s during drag error = %v, want ErrBusy", tt.name, err)
		}
	}

	if err := f.editor.UpdateDrag(1, ""); err != nil {
		t.Fatalf("UpdateDrag() error = %v", err)
	}
	if !f.editor.EndDrag() {
		t.Fatal("EndDrag() = false, want a committed change")
	}

	doc := f.editor.Document()
	if c, _ := doc.FindClip(other); c == nil {
		t.Error("clip deleted during the drag")
	}
	if len(doc.Tracks) != 1 || len(doc.Markers) != 0 || doc.Tracks[0].Muted {
		t.Errorf("tracks %d markers %d muted %v, want the drag to be the only change", len(doc.Tracks), len(doc.Markers), doc.Tracks[0].Muted)
	}
	if got := f.editor.history.Len(); got != depth+1 {
		t.Errorf("history = %d, want %d", got, depth+1)
	}

	if err := f.editor.Transport(timeline.ToggleMute{TrackID: trackID}); err != nil {
		t.Errorf("mute after drag error = %v", err)
	}
}

func TestDragBackToStartSkipsHistory(t *testing.T) {
	f := newFixture(t)
	id := f.withClip(t, 2, 4)
	depth := f.editor.history.Len()

	if err := f.editor.BeginDrag(id, DragMove); err != nil {
		t.Fatalf("BeginDrag() error = %v", err)
	}
	for _, delta := range []float64{1, 3, 0} {
		if err := f.editor.UpdateDrag(delta, ""); err != nil {
			t.Fatalf("UpdateDrag(%v) error = %v", delta, err)
		}
	}
	if f.editor.EndDrag() {
		t.Error("EndDrag() = true for a clip back where it started")
	}
	if got := f.editor.history.Len(); got != depth {
		t.Errorf("history = %d, want %d", got, depth)
	}
	if c, _ := f.editor.Document().FindClip(id); c.StartTime != 2 {
		t.Errorf("StartTime = %v, want 2", c.StartTime)
	}
}

func TestDragResizeAndCancel(t *testing.T) {
	f := newFixture(t)
	id := f.withClip(t, 2, 10)

	if err := f.editor.BeginDrag(id, DragResizeLeft); err != nil {
		t.Fatalf("BeginDrag() error = %v", err)
	}
	if err := f.editor.UpdateDrag(4, ""); err != nil {
		t.Fatalf("UpdateDrag() error = %v", err)
	}
	c, _ := f.editor.Document().FindClip(id)
	if c.StartTime != 4 || c.Duration != 8 || c.SourceOffset != 2 {
		t.Errorf("clip = %v/%v/%v, want 4/8/2", c.StartTime, c.Duration, c.SourceOffset)
	}

	f.editor.CancelDrag()
	if c, _ := f.editor.Document().FindClip(id); c.StartTime != 2 || c.Duration != 10 {
		t.Errorf("clip after cancel = %v/%v, want 2/10", c.StartTime, c.Duration)
	}
	if f.editor.Session().Dragging {
		t.Error("Dragging still set after cancel")
	}
	if f.editor.EndDrag() {
		t.Error("EndDrag() without a drag = true")
	}
}

func TestDragLockedTrack(t *testing.T) {
	f := newFixture(t)
	id := f.withClip(t, 0, 2)
	trackID := f.editor.Document().Tracks[0].ID

	if err := f.editor.Transport(timeline.ToggleLock{TrackID: trackID}); err != nil {
		t.Fatalf("Transport() error = %v", err)
	}
	if err := f.editor.BeginDrag(id, DragMove); !errors.Is(err, playerrors.ErrTrackLocked) {
		t.Errorf("BeginDrag() on locked track error = %v", err)
	}
}

func TestTransportSkipsHistory(t *testing.T) {
	f := newFixture(t)
	trackID := f.editor.Document().Tracks[0].ID

	if err := f.editor.Transport(timeline.ToggleMute{TrackID: trackID}); err != nil {
		t.Fatalf("Transport() error = %v", err)
	}
	if !f.editor.Document().Tracks[0].Muted {
		t.Error("track not muted")
	}
	if f.editor.CanUndo() {
		t.Error("mute created a history entry")
	}
}

func TestPlayPauseSeek(t *testing.T) {
	f := newFixture(t)
	f.withClip(t, 0, 10)
	ctx := context.Background()

	f.editor.Seek(1)
	if err := f.editor.TogglePlay(ctx); err != nil {
		t.Fatalf("TogglePlay() error = %v", err)
	}
	if !f.editor.IsPlaying() || f.player.plays[0] != 1 {
		t.Fatalf("plays = %v, want playback from 1", f.player.plays)
	}

	f.player.advanceTo(3)
	if got := f.editor.Playhead(); got != 3 {
		t.Errorf("Playhead() = %v, want 3", got)
	}

	f.editor.SeekBy(1)
	if got := f.player.plays[len(f.player.plays)-1]; got != 4 {
		t.Errorf("seek while playing restarted at %v, want 4", got)
	}

	f.player.advanceTo(6)
	if err := f.editor.TogglePlay(ctx); err != nil {
		t.Fatalf("TogglePlay() error = %v", err)
	}
	if f.editor.IsPlaying() {
		t.Error("still playing after pause")
	}
	if got := f.editor.Playhead(); got != 6 {
		t.Errorf("Playhead() after pause = %v, want 6", got)
	}

	f.editor.GoToEnd()
	if got := f.editor.Playhead(); got != 10 {
		t.Errorf("GoToEnd() playhead = %v, want 10", got)
	}
	f.editor.GoToStart()
	if got := f.editor.Playhead(); got != 0 {
		t.Errorf("GoToStart() playhead = %v, want 0", got)
	}
}

func TestEditWhilePlayingRestarts(t *testing.T) {
	f := newFixture(t)
	f.withClip(t, 0, 10)

	if err := f.editor.Play(context.Background()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	before := f.player.playCount()
	if err := f.editor.AdjustGain(0.5); err != nil {
		t.Fatalf("AdjustGain() error = %v", err)
	}
	if f.player.playCount() != before+1 {
		t.Error("edit during playback did not restart the player")
	}
}

func TestPlaybackEndsOnItsOwn(t *testing.T) {
	f := newFixture(t)
	f.withClip(t, 0, 2)
	f.editor.Play(context.Background())

	f.player.advanceTo(2)
	f.player.Stop()

	if f.editor.IsPlaying() {
		t.Error("editor still playing after the player stopped")
	}
	if got := f.editor.Playhead(); got != 2 {
		t.Errorf("Playhead() = %v, want 2", got)
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	f.withClip(t, 0, 2)
	f.exporter.release = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- f.editor.Export(context.Background(), "/out/a.wav") }()

	deadline := time.Now().Add(time.Second)
	for !f.editor.Session().Exporting && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := f.editor.Export(context.Background(), "/out/b.wav"); !errors.Is(err, playerrors.ErrBusy) {
		t.Errorf("overlapping Export() error = %v, want ErrBusy", err)
	}

	close(f.exporter.release)
	if err := <-done; err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if f.editor.Session().Exporting {
		t.Error("Exporting still set")
	}
	if len(f.exporter.paths) != 1 || f.exporter.paths[0] != "/out/a.wav" {
		t.Errorf("paths = %v", f.exporter.paths)
	}
}

func TestExportPath(t *testing.T) {
	f := newFixture(t)
	got := f.editor.ExportPath(time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC))
	if want := "exports/mixdown-20240309-140506.wav"; got != want {
		t.Errorf("ExportPath() = %q, want %q", got, want)
	}
}

func TestViewSettingsPersist(t *testing.T) {
	f := newFixture(t)

	f.editor.ZoomIn()
	if got := f.settings.Get().PixelsPerSecond; got != 12.5 {
		t.Errorf("saved zoom = %v, want 12.5", got)
	}
	for i := 0; i < 100; i++ {
		f.editor.ZoomOut()
	}
	if got := f.editor.Session().PixelsPerSecond; got != MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", got, MinZoom)
	}

	if f.editor.ToggleSnap() || f.settings.Get().SnapEnabled {
		t.Error("snap should be off and saved")
	}
	if err := f.editor.SetGridSize(3); !errors.Is(err, playerrors.ErrOutOfBounds) {
		t.Errorf("SetGridSize(3) error = %v", err)
	}
	if got := f.editor.CycleGridSize(); got != 2 {
		t.Errorf("CycleGridSize() = %v, want 2", got)
	}
	f.editor.SetGridSize(4)
	if got := f.editor.CycleGridSize(); got != 0.25 {
		t.Errorf("CycleGridSize() from 4 = %v, want 0.25", got)
	}
}

func TestMarkersAndLoop(t *testing.T) {
	f := newFixture(t)
	f.withClip(t, 0, 8)

	f.editor.Seek(2)
	f.editor.AddMarker("verse")
	f.editor.Seek(6)
	f.editor.AddMarker("")

	f.editor.Seek(0)
	if !f.editor.JumpToMarker(1) || f.editor.Playhead() != 2 {
		t.Errorf("JumpToMarker(1) playhead = %v, want 2", f.editor.Playhead())
	}
	if !f.editor.JumpToMarker(1) || f.editor.Playhead() != 6 {
		t.Errorf("JumpToMarker(1) playhead = %v, want 6", f.editor.Playhead())
	}
	if f.editor.JumpToMarker(1) {
		t.Error("JumpToMarker past the last marker = true")
	}
	if !f.editor.JumpToMarker(-1) || f.editor.Playhead() != 2 {
		t.Errorf("JumpToMarker(-1) playhead = %v, want 2", f.editor.Playhead())
	}

	if err := f.editor.RemoveMarkerNearPlayhead(); err != nil {
		t.Fatalf("RemoveMarkerNearPlayhead() error = %v", err)
	}
	if m := f.editor.Document().Markers; len(m) != 1 || m[0].Time != 6 {
		t.Errorf("markers = %+v, want only the one at 6", m)
	}

	if err := f.editor.ToggleLoop(); err != nil {
		t.Fatalf("ToggleLoop() error = %v", err)
	}
	loop := f.editor.Document().Loop
	if loop == nil || !loop.Enabled || loop.Start != 0 || loop.End != 8 {
		t.Errorf("loop = %+v, want the clip span enabled", loop)
	}
	f.editor.ToggleLoop()
	if f.editor.Document().Loop.Enabled {
		t.Error("second ToggleLoop() left the loop enabled")
	}
}

func TestTracksAndSelection(t *testing.T) {
	f := newFixture(t)
	first := f.editor.Document().Tracks[0].ID
	id := f.withClip(t, 0, 2)

	if err := f.editor.AddTrack("Bass"); err != nil {
		t.Fatalf("AddTrack() error = %v", err)
	}
	doc := f.editor.Document()
	if len(doc.Tracks) != 2 || doc.Tracks[1].Name != "Bass" {
		t.Fatalf("tracks = %+v", doc.Tracks)
	}

	f.editor.SelectClip(id)
	if err := f.editor.MoveToTrack(1); err != nil {
		t.Fatalf("MoveToTrack() error = %v", err)
	}
	if _, owner := f.editor.Document().FindClip(id); owner.ID != doc.Tracks[1].ID {
		t.Error("clip not moved to the second track")
	}

	f.editor.SelectAdjacentTrack(-1)
	if f.editor.Session().SelectedTrackID != first {
		t.Error("SelectAdjacentTrack(-1) did not select the first track")
	}
	if err := f.editor.RemoveTrack(); err != nil {
		t.Fatalf("RemoveTrack() error = %v", err)
	}
	if got := f.editor.Session().SelectedTrackID; got != f.editor.Document().Tracks[0].ID {
		t.Errorf("selection after remove = %q, want the remaining track", got)
	}
}

func TestToolActivate(t *testing.T) {
	f := newFixture(t)
	id := f.withClip(t, 0, 4)
	f.editor.SelectClip("")

	f.editor.Seek(1)
	if err := f.editor.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if f.editor.Session().SelectedClipID != id {
		t.Error("select tool did not pick the clip under the playhead")
	}

	if f.editor.CycleTool() != ToolRazor {
		t.Fatal("CycleTool() did not switch to the razor")
	}
	if err := f.editor.Activate(); err != nil {
		t.Fatalf("razor Activate() error = %v", err)
	}
	if f.editor.Document().ClipCount() != 2 {
		t.Error("razor did not split")
	}
}
