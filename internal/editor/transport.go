package editor

import (
	"context"
	"math"

	"github.com/jscyril/golang_timeline_editor/internal/config"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
)

// syncPlayheadLocked pulls the playhead from the player while it runs and
// notices when it stopped on its own at the end of the document
func (e *Editor) syncPlayheadLocked() {
	if !e.session.Playing || e.player == nil {
		return
	}
	e.session.Playhead = e.player.Position()
	if !e.player.IsActive() {
		e.session.Playing = false
	}
}

// Play starts playback at the playhead
func (e *Editor) Play(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playLocked(ctx)
}

func (e *Editor) playLocked(ctx context.Context) error {
	if e.drag != nil {
		return playerrors.ErrBusy
	}
	if e.player == nil {
		return playerrors.ErrBusy
	}
	e.syncPlayheadLocked()
	if err := e.player.Play(ctx, e.doc, e.session.Playhead); err != nil {
		return err
	}
	e.playCtx = ctx
	e.session.Playing = true
	return nil
}

// Pause stops playback and leaves the playhead where it stopped
func (e *Editor) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauseLocked()
}

func (e *Editor) pauseLocked() {
	if e.player == nil {
		return
	}
	e.syncPlayheadLocked()
	e.player.Stop()
	if e.session.Playing {
		e.session.Playhead = e.player.Position()
	}
	e.session.Playing = false
}

// TogglePlay pauses a running transport or starts a stopped one
func (e *Editor) TogglePlay(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.syncPlayheadLocked()
	if e.session.Playing {
		e.pauseLocked()
		return nil
	}
	return e.playLocked(ctx)
}

// IsPlaying reports whether the transport is running
func (e *Editor) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncPlayheadLocked()
	return e.session.Playing
}

// restartLocked replays from the current position so the player hears the
// current document
func (e *Editor) restartLocked() {
	e.syncPlayheadLocked()
	if !e.session.Playing {
		return
	}
	ctx := e.playCtx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.player.Play(ctx, e.doc, e.session.Playhead); err != nil {
		e.logger.Warn("playback restart failed", "err", err)
		e.session.Playing = false
	}
}

// Seek moves the playhead, restarting playback there when it runs
func (e *Editor) Seek(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seekLocked(t)
}

func (e *Editor) seekLocked(t float64) {
	e.syncPlayheadLocked()
	e.session.Playhead = math.Max(0, t)
	if e.session.Playing {
		ctx := e.playCtx
		if ctx == nil {
			ctx = context.Background()
		}
		if err := e.player.Play(ctx, e.doc, e.session.Playhead); err != nil {
			e.logger.Warn("seek failed", "err", err)
			e.session.Playing = false
		}
	}
}

// SeekBy moves the playhead by delta seconds
func (e *Editor) SeekBy(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncPlayheadLocked()
	e.seekLocked(e.session.Playhead + delta)
}

// GoToStart moves the playhead to zero
func (e *Editor) GoToStart() { e.Seek(0) }

// GoToEnd moves the playhead to the end of the last clip
func (e *Editor) GoToEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seekLocked(e.doc.End())
}

// ZoomIn widens the timeline
func (e *Editor) ZoomIn() { e.zoom(zoomFactor) }

// ZoomOut narrows the timeline
func (e *Editor) ZoomOut() { e.zoom(1 / zoomFactor) }

func (e *Editor) zoom(factor float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pps := e.session.PixelsPerSecond * factor
	e.session.PixelsPerSecond = math.Min(MaxZoom, math.Max(MinZoom, pps))
	e.persistLocked()
}

// ToggleSnap flips grid snapping
func (e *Editor) ToggleSnap() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.SnapEnabled = !e.session.SnapEnabled
	e.persistLocked()
	return e.session.SnapEnabled
}

// SetGridSize selects one of config.GridSizes
func (e *Editor) SetGridSize(size float64) error {
	if !config.IsGridSize(size) {
		return playerrors.ErrOutOfBounds
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.GridSize = size
	e.persistLocked()
	return nil
}

// CycleGridSize steps to the next grid size, wrapping around
func (e *Editor) CycleGridSize() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := config.GridSizes[0]
	for i, size := range config.GridSizes {
		if size == e.session.GridSize && i+1 < len(config.GridSizes) {
			next = config.GridSizes[i+1]
		}
	}
	e.session.GridSize = next
	e.persistLocked()
	return next
}

// CycleTool switches between the select and razor tools
func (e *Editor) CycleTool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Tool == ToolSelect {
		e.session.Tool = ToolRazor
	} else {
		e.session.Tool = ToolSelect
	}
	return e.session.Tool
}

// Activate applies the active tool at the playhead: the razor splits,
// the select tool picks the clip under the playhead
func (e *Editor) Activate() error {
	e.mu.Lock()
	tool := e.session.Tool
	if tool == ToolSelect {
		defer e.mu.Unlock()
		e.syncPlayheadLocked()
		c := e.clipAtPlayheadLocked()
		if c == nil {
			e.session.SelectedClipID = ""
			return nil
		}
		_, track := e.doc.FindClip(c.ID)
		e.session.SelectedClipID = c.ID
		e.session.SelectedTrackID = track.ID
		return nil
	}
	e.mu.Unlock()
	return e.SplitAtPlayhead()
}

// persistLocked saves the view settings that outlive the session
func (e *Editor) persistLocked() {
	s := e.session
	err := e.settings.Update(func(c *config.Config) {
		c.PixelsPerSecond = s.PixelsPerSecond
		c.GridSize = s.GridSize
		c.SnapEnabled = s.SnapEnabled
	})
	if err != nil {
		e.logger.Warn("save settings", "err", err)
	}
}
