package editor

import (
	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/timeline"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
)

// DragKind is the clip handle being dragged
type DragKind int

const (
	DragMove DragKind = iota
	DragResizeLeft
	DragResizeRight
)

// dragState owns the dragged clip's geometry until the drag ends. Every
// update is applied to the document as it was when the drag began, so
// only the final position reaches history.
type dragState struct {
	clipID string
	kind   DragKind
	before *api.Document
}

// BeginDrag takes exclusive ownership of a clip's geometry. Playback stops
// for the duration of the drag.
func (e *Editor) BeginDrag(clipID string, kind DragKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag != nil || e.session.Exporting {
		return playerrors.ErrBusy
	}
	c, track := e.doc.FindClip(clipID)
	if c == nil {
		return playerrors.ErrClipNotFound
	}
	if track.Locked {
		return playerrors.ErrTrackLocked
	}

	e.pauseLocked()
	e.drag = &dragState{clipID: clipID, kind: kind, before: e.doc}
	e.session.Dragging = true
	e.session.SelectedClipID = clipID
	e.session.SelectedTrackID = track.ID
	return nil
}

// UpdateDrag moves the dragged handle. For a move value is the offset from
// the drag origin in seconds and targetTrackID an optional new owner; for
// resizes value is the new edge time.
func (e *Editor) UpdateDrag(value float64, targetTrackID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag == nil {
		return playerrors.NewInvalidEditError("drag", "", playerrors.ErrInvalidIntent)
	}

	var intent timeline.Intent
	switch e.drag.kind {
	case DragResizeLeft:
		intent = timeline.ResizeLeft{ClipID: e.drag.clipID, NewStart: value}
	case DragResizeRight:
		intent = timeline.ResizeRight{ClipID: e.drag.clipID, NewEnd: value}
	default:
		intent = timeline.Move{ClipID: e.drag.clipID, Delta: value, TargetTrackID: targetTrackID}
	}

	next, err := timeline.Apply(e.drag.before, intent, e.optionsLocked())
	if err != nil {
		return err
	}
	e.doc = next
	if _, track := next.FindClip(e.drag.clipID); track != nil {
		e.session.SelectedTrackID = track.ID
	}
	e.bus.Publish(api.Event{Type: api.EventDocumentChanged, Payload: next})
	return nil
}

// EndDrag commits the drag as a single history entry. It reports whether
// the document changed.
func (e *Editor) EndDrag() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.drag
	if d == nil {
		return false
	}
	e.drag = nil
	e.session.Dragging = false

	if !moved(d.before, e.doc, d.clipID) {
		e.doc = d.before
		e.bus.Publish(api.Event{Type: api.EventDocumentChanged, Payload: e.doc})
		return false
	}
	e.history.Push(d.before)
	e.commitLocked(e.doc)
	return true
}

// moved reports whether the clip's geometry or owning track differs
// between two documents
func moved(before, after *api.Document, clipID string) bool {
	if before == after {
		return false
	}
	a, at := before.FindClip(clipID)
	b, bt := after.FindClip(clipID)
	if a == nil || b == nil {
		return a != b
	}
	return at.ID != bt.ID ||
		a.StartTime != b.StartTime ||
		a.Duration != b.Duration ||
		a.SourceOffset != b.SourceOffset
}

// CancelDrag restores the clip to where the drag began
func (e *Editor) CancelDrag() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag == nil {
		return
	}
	e.doc = e.drag.before
	e.drag = nil
	e.session.Dragging = false
	e.bus.Publish(api.Event{Type: api.EventDocumentChanged, Payload: e.doc})
}
