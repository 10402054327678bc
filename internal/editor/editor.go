package editor

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/audio"
	"github.com/jscyril/golang_timeline_editor/internal/config"
	"github.com/jscyril/golang_timeline_editor/internal/history"
	"github.com/jscyril/golang_timeline_editor/internal/timeline"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
	"github.com/jscyril/golang_timeline_editor/pkg/events"
)

// Player is the transport the editor drives
type Player interface {
	Play(ctx context.Context, doc *api.Document, from float64) error
	Stop()
	IsActive() bool
	Position() float64
}

// Exporter bounces a document to a file
type Exporter interface {
	Export(ctx context.Context, doc *api.Document, path string) error
}

// Deps are the collaborators an editor coordinates
type Deps struct {
	Assets   audio.Resolver
	Player   Player
	Exporter Exporter
	Settings *config.Store
	Bus      *events.Bus
	Logger   *log.Logger
	// NewID generates clip, track and marker IDs
	NewID func() string
}

// Editor owns the document and session and routes every user action to the
// edit engine, history, playback or export. Structural edits push the
// pre-edit document onto history before the new document is committed.
type Editor struct {
	mu      sync.Mutex
	doc     *api.Document
	session Session
	history *history.Manager
	drag    *dragState
	playCtx context.Context

	assets   audio.Resolver
	player   Player
	exporter Exporter
	settings *config.Store
	bus      *events.Bus
	logger   *log.Logger

	normalizeGain float64
	newID         func() string
}

// New creates an editor with an empty document holding one track
func New(deps Deps) *Editor {
	if deps.Settings == nil {
		deps.Settings = config.NewMemoryStore(nil)
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	cfg := deps.Settings.Get()

	e := &Editor{
		doc:     api.NewDocument(),
		history: history.NewManager(cfg.HistoryDepth),
		session: Session{
			PixelsPerSecond: cfg.PixelsPerSecond,
			GridSize:        cfg.GridSize,
			SnapEnabled:     cfg.SnapEnabled,
		},
		assets:        deps.Assets,
		player:        deps.Player,
		exporter:      deps.Exporter,
		settings:      deps.Settings,
		bus:           deps.Bus,
		logger:        deps.Logger.WithPrefix("editor"),
		normalizeGain: cfg.NormalizeGain,
		newID:         deps.NewID,
	}

	doc, err := timeline.Apply(e.doc, timeline.AddTrack{ID: e.newID()}, e.optionsLocked())
	if err == nil {
		e.doc = doc
		e.session.SelectedTrackID = doc.Tracks[0].ID
	}
	return e
}

func (e *Editor) optionsLocked() timeline.Options {
	return timeline.Options{
		Grid:          e.gridLocked(),
		NormalizeGain: e.normalizeGain,
		NewID:         e.newID,
	}
}

func (e *Editor) gridLocked() timeline.Grid {
	return timeline.Grid{Size: e.session.GridSize, Enabled: e.session.SnapEnabled}
}

// Document returns the current document. Callers must not modify it.
func (e *Editor) Document() *api.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Session returns a copy of the session state with a live playhead
func (e *Editor) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncPlayheadLocked()
	s := e.session
	if s.Clipboard != nil {
		c := *s.Clipboard
		s.Clipboard = &c
	}
	return s
}

// Playhead returns the current playhead in seconds
func (e *Editor) Playhead() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncPlayheadLocked()
	return e.session.Playhead
}

// CanUndo reports whether there is an edit to undo
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether there is an undone edit to redo
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Apply runs a structural edit and records it in history. A rejected edit
// leaves both the document and history untouched. Every edit is refused
// with ErrBusy while a drag is in progress.
func (e *Editor) Apply(intent timeline.Intent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(intent)
}

func (e *Editor) applyLocked(intent timeline.Intent) error {
	if e.drag != nil {
		return playerrors.ErrBusy
	}

	next, err := timeline.Apply(e.doc, intent, e.optionsLocked())
	if err != nil {
		e.logger.Debug("edit rejected", "err", err)
		return err
	}

	e.history.Push(e.doc)
	e.commitLocked(next)
	return nil
}

// commitLocked makes doc current, drops selections that no longer resolve
// and restarts playback so it hears the change
func (e *Editor) commitLocked(doc *api.Document) {
	e.doc = doc
	if c, _ := doc.FindClip(e.session.SelectedClipID); c == nil {
		e.session.SelectedClipID = ""
	}
	if t, _ := doc.Track(e.session.SelectedTrackID); t == nil {
		e.session.SelectedTrackID = ""
		if len(doc.Tracks) > 0 {
			e.session.SelectedTrackID = doc.Tracks[0].ID
		}
	}
	if e.session.Playing && e.drag == nil {
		e.restartLocked()
	}
	e.bus.Publish(api.Event{Type: api.EventDocumentChanged, Payload: doc})
}

// Transport applies a mixer or track flag change. It does not enter
// history.
func (e *Editor) Transport(t timeline.Transport) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag != nil {
		return playerrors.ErrBusy
	}

	next := e.doc.Clone()
	if err := timeline.ApplyTransport(next, t); err != nil {
		return err
	}
	e.commitLocked(next)
	return nil
}

// Undo restores the document before the last edit
func (e *Editor) Undo() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag != nil {
		return false, playerrors.ErrBusy
	}
	doc, ok := e.history.Undo(e.doc)
	if ok {
		e.commitLocked(doc)
	}
	return ok, nil
}

// Redo re-applies the last undone edit
func (e *Editor) Redo() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag != nil {
		return false, playerrors.ErrBusy
	}
	doc, ok := e.history.Redo(e.doc)
	if ok {
		e.commitLocked(doc)
	}
	return ok, nil
}

// SelectClip selects a clip and its track; an empty ID clears the clip
// selection
func (e *Editor) SelectClip(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == "" {
		e.session.SelectedClipID = ""
		return nil
	}
	c, track := e.doc.FindClip(id)
	if c == nil {
		return playerrors.ErrClipNotFound
	}
	e.session.SelectedClipID = id
	e.session.SelectedTrackID = track.ID
	return nil
}

// SelectTrack selects a track and clears the clip selection
func (e *Editor) SelectTrack(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, _ := e.doc.Track(id); t == nil {
		return playerrors.ErrTrackNotFound
	}
	e.session.SelectedTrackID = id
	e.session.SelectedClipID = ""
	return nil
}

// SelectAdjacentClip moves the selection to the next (dir > 0) or previous
// clip on the selected track
func (e *Editor) SelectAdjacentClip(dir int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	track, _ := e.doc.Track(e.session.SelectedTrackID)
	if track == nil || len(track.Clips) == 0 {
		return
	}
	i := track.ClipIndex(e.session.SelectedClipID)
	switch {
	case i < 0 && dir >= 0:
		i = 0
	case i < 0:
		i = len(track.Clips) - 1
	default:
		i += dir
	}
	if i < 0 || i >= len(track.Clips) {
		return
	}
	e.session.SelectedClipID = track.Clips[i].ID
}

// SelectAdjacentTrack moves the track selection up (dir < 0) or down
func (e *Editor) SelectAdjacentTrack(dir int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.doc.Tracks) == 0 {
		return
	}
	_, i := e.doc.Track(e.session.SelectedTrackID)
	i += dir
	if i < 0 {
		i = 0
	}
	if i >= len(e.doc.Tracks) {
		i = len(e.doc.Tracks) - 1
	}
	e.session.SelectedTrackID = e.doc.Tracks[i].ID
	e.session.SelectedClipID = ""
}

func (e *Editor) selectedClipLocked() (*api.Clip, *api.Track, error) {
	c, track := e.doc.FindClip(e.session.SelectedClipID)
	if c == nil {
		return nil, nil, playerrors.ErrClipNotFound
	}
	return c, track, nil
}

// Copy stores a detached copy of the selected clip
func (e *Editor) Copy() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyLocked()
}

func (e *Editor) copyLocked() error {
	c, track, err := e.selectedClipLocked()
	if err != nil {
		return err
	}
	clip := *c
	e.session.Clipboard = &clip
	e.session.ClipboardTrack = track.ID
	return nil
}

// Cut copies the selected clip and deletes it
func (e *Editor) Cut() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag != nil {
		return playerrors.ErrBusy
	}
	if err := e.copyLocked(); err != nil {
		return err
	}
	return e.applyLocked(timeline.Delete{ClipID: e.session.SelectedClipID})
}

// Paste inserts the clipboard at the playhead on the selected track
func (e *Editor) Paste() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Clipboard == nil {
		return playerrors.ErrNothingToPaste
	}
	e.syncPlayheadLocked()

	trackID := e.session.SelectedTrackID
	if trackID == "" {
		trackID = e.session.ClipboardTrack
	}
	clip := *e.session.Clipboard
	clip.ID = e.newID()
	clip.StartTime = e.session.Playhead

	if err := e.applyLocked(timeline.Insert{TrackID: trackID, Clip: clip}); err != nil {
		return err
	}
	e.session.SelectedClipID = clip.ID
	e.session.SelectedTrackID = trackID
	return nil
}

// Delete removes the selected clip
func (e *Editor) Delete() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, _, err := e.selectedClipLocked(); err != nil {
		return err
	}
	return e.applyLocked(timeline.Delete{ClipID: e.session.SelectedClipID})
}

// Duplicate copies the selected clip right after itself and selects the copy
func (e *Editor) Duplicate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, _, err := e.selectedClipLocked(); err != nil {
		return err
	}
	id := e.newID()
	if err := e.applyLocked(timeline.Duplicate{ClipID: e.session.SelectedClipID, NewID: id}); err != nil {
		return err
	}
	e.session.SelectedClipID = id
	return nil
}

// clipAtPlayheadLocked prefers the selected clip, then the selected track,
// then any track
func (e *Editor) clipAtPlayheadLocked() *api.Clip {
	at := e.session.Playhead
	if c, _, err := e.selectedClipLocked(); err == nil && c.Contains(at) {
		return c
	}
	if track, _ := e.doc.Track(e.session.SelectedTrackID); track != nil {
		for _, c := range track.Clips {
			if c.Contains(at) {
				return c
			}
		}
	}
	for _, track := range e.doc.Tracks {
		for _, c := range track.Clips {
			if c.Contains(at) {
				return c
			}
		}
	}
	return nil
}

// SplitAtPlayhead splits the clip under the playhead
func (e *Editor) SplitAtPlayhead() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncPlayheadLocked()

	c := e.clipAtPlayheadLocked()
	if c == nil {
		return playerrors.NewInvalidEditError("split", "", playerrors.ErrClipNotFound)
	}
	id := e.newID()
	if err := e.applyLocked(timeline.Split{ClipID: c.ID, At: e.session.Playhead, NewID: id}); err != nil {
		return err
	}
	e.session.SelectedClipID = id
	return nil
}

// Nudge moves the selected clip by delta seconds
func (e *Editor) Nudge(delta float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, _, err := e.selectedClipLocked(); err != nil {
		return err
	}
	return e.applyLocked(timeline.Move{ClipID: e.session.SelectedClipID, Delta: delta})
}

// MoveToTrack moves the selected clip to the adjacent track in dir
func (e *Editor) MoveToTrack(dir int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, track, err := e.selectedClipLocked()
	if err != nil {
		return err
	}
	_, i := e.doc.Track(track.ID)
	i += dir
	if i < 0 || i >= len(e.doc.Tracks) {
		return playerrors.NewInvalidEditError("move", e.session.SelectedClipID, playerrors.ErrTrackNotFound)
	}
	target := e.doc.Tracks[i].ID
	if err := e.applyLocked(timeline.Move{ClipID: e.session.SelectedClipID, TargetTrackID: target}); err != nil {
		return err
	}
	e.session.SelectedTrackID = target
	return nil
}

// AdjustFade changes the selected clip's fades by the given deltas
func (e *Editor) AdjustFade(deltaIn, deltaOut float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, _, err := e.selectedClipLocked()
	if err != nil {
		return err
	}
	return e.applyLocked(timeline.SetFade{
		ClipID:  c.ID,
		FadeIn:  math.Max(0, c.FadeIn+deltaIn),
		FadeOut: math.Max(0, c.FadeOut+deltaOut),
	})
}

// AdjustGain changes the selected clip's gain by delta
func (e *Editor) AdjustGain(delta float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, _, err := e.selectedClipLocked()
	if err != nil {
		return err
	}
	return e.applyLocked(timeline.SetGain{ClipID: c.ID, Gain: math.Max(0, c.Gain+delta)})
}

// Normalize applies the fixed normalize boost to the selected clip
func (e *Editor) Normalize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, _, err := e.selectedClipLocked(); err != nil {
		return err
	}
	return e.applyLocked(timeline.Normalize{ClipID: e.session.SelectedClipID})
}

// AddTrack appends a track and selects it
func (e *Editor) AddTrack(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.newID()
	if err := e.applyLocked(timeline.AddTrack{ID: id, Title: name}); err != nil {
		return err
	}
	e.session.SelectedTrackID = id
	e.session.SelectedClipID = ""
	return nil
}

// RemoveTrack removes the selected track
func (e *Editor) RemoveTrack() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(timeline.RemoveTrack{TrackID: e.session.SelectedTrackID})
}

// AddMarker labels the playhead position
func (e *Editor) AddMarker(label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncPlayheadLocked()
	return e.applyLocked(timeline.AddMarker{ID: e.newID(), Time: e.session.Playhead, Label: label})
}

// RemoveMarkerNearPlayhead removes the marker closest to the playhead
func (e *Editor) RemoveMarkerNearPlayhead() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncPlayheadLocked()

	if len(e.doc.Markers) == 0 {
		return playerrors.NewInvalidEditError("remove-marker", "", playerrors.ErrMarkerNotFound)
	}
	best := e.doc.Markers[0]
	for _, m := range e.doc.Markers[1:] {
		if math.Abs(m.Time-e.session.Playhead) < math.Abs(best.Time-e.session.Playhead) {
			best = m
		}
	}
	return e.applyLocked(timeline.RemoveMarker{MarkerID: best.ID})
}

// JumpToMarker moves the playhead to the next (dir > 0) or previous marker
func (e *Editor) JumpToMarker(dir int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncPlayheadLocked()

	at := e.session.Playhead
	target, found := 0.0, false
	for _, m := range e.doc.Markers {
		if dir > 0 && m.Time > at && (!found || m.Time < target) {
			target, found = m.Time, true
		}
		if dir <= 0 && m.Time < at && (!found || m.Time > target) {
			target, found = m.Time, true
		}
	}
	if found {
		e.seekLocked(target)
	}
	return found
}

// ToggleLoop loops the selected clip's span, or disables an active loop
func (e *Editor) ToggleLoop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if loop := e.doc.Loop; loop != nil {
		return e.applyLocked(timeline.SetLoop{Start: loop.Start, End: loop.End, Enabled: !loop.Enabled})
	}
	c, _, err := e.selectedClipLocked()
	if err != nil {
		return err
	}
	return e.applyLocked(timeline.SetLoop{Start: c.StartTime, End: c.End(), Enabled: true})
}

// ClearLoop removes the loop region
func (e *Editor) ClearLoop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(timeline.ClearLoop{})
}

// DropAsset resolves the file at path and places it on a track at the time
// under pixelX
func (e *Editor) DropAsset(ctx context.Context, trackID, path string, pixelX float64) error {
	if e.assets == nil {
		return playerrors.ErrAssetNotFound
	}
	// decoding can take a while; do not hold the editor meanwhile
	asset, err := e.assets.Resolve(ctx, path)
	if err != nil {
		e.logger.Warn("drop failed", "path", path, "err", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if trackID == "" {
		trackID = e.session.SelectedTrackID
	}
	track, _ := e.doc.Track(trackID)
	if track == nil {
		return playerrors.NewInvalidEditError("insert", trackID, playerrors.ErrTrackNotFound)
	}

	at := math.Max(0, e.gridLocked().Snap(pixelX/e.session.PixelsPerSecond))
	clip := api.Clip{
		ID:          e.newID(),
		AssetID:     asset.ID,
		StartTime:   at,
		Duration:    asset.DurationSeconds,
		Gain:        1,
		DisplayName: asset.Title,
		ColorIndex:  track.ColorIndex,
	}
	if err := e.applyLocked(timeline.Insert{TrackID: trackID, Clip: clip}); err != nil {
		return err
	}
	e.session.SelectedClipID = clip.ID
	e.session.SelectedTrackID = trackID
	e.logger.Info("asset placed", "path", path, "track", trackID, "at", at)
	return nil
}

// PixelToTime converts a horizontal pixel offset to snapped timeline time
func (e *Editor) PixelToTime(pixelX float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return math.Max(0, e.gridLocked().Snap(pixelX/e.session.PixelsPerSecond))
}
