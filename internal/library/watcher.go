package library

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Change describes an audio file appearing in or leaving a watched directory
type Change struct {
	Path    string
	Removed bool
}

// Watch reports audio files created, removed or renamed inside dirs until ctx
// is cancelled. The returned channel is closed when watching stops.
func Watch(ctx context.Context, logger *log.Logger, dirs ...string) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
	}

	changes := make(chan Change, 16)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !IsAudioFile(event.Name) {
					continue
				}
				var change Change
				switch {
				case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
					change = Change{Path: event.Name}
				case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
					change = Change{Path: event.Name, Removed: true}
				default:
					continue
				}
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if logger != nil {
					logger.Warn("watch error", "err", err)
				}
			}
		}
	}()

	return changes, nil
}

// Apply updates the bin for a watched change
func (b *Bin) Apply(change Change) {
	if change.Removed {
		b.Remove(change.Path)
		return
	}
	b.AddFile(change.Path)
}
