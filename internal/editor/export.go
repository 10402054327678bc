package editor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jscyril/golang_timeline_editor/api"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
)

// Export renders the current document to path. Only one export runs at a
// time and none may start while a clip is being dragged.
func (e *Editor) Export(ctx context.Context, path string) error {
	e.mu.Lock()
	if e.drag != nil || e.session.Exporting || e.exporter == nil {
		e.mu.Unlock()
		return playerrors.ErrBusy
	}
	e.session.Exporting = true
	doc := e.doc
	e.mu.Unlock()

	err := e.exporter.Export(ctx, doc, path)

	e.mu.Lock()
	e.session.Exporting = false
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("export failed", "path", path, "err", err)
		e.bus.Publish(api.Event{Type: api.EventError, Payload: err})
		return err
	}
	return nil
}

// ExportPath names a new mixdown file in the configured export directory
func (e *Editor) ExportPath(now time.Time) string {
	dir := e.settings.Get().ExportDir
	return filepath.Join(dir, fmt.Sprintf("mixdown-%s.wav", now.Format("20060102-150405")))
}
