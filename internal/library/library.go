package library

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
)

// Item is an audio file known to the bin, ready to be dropped on a track
type Item struct {
	AssetID string `json:"asset_id"`
	Path    string `json:"path"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
}

// Bin is the set of source files the editor can drop onto tracks
type Bin struct {
	items       map[string]*Item
	LastScanned time.Time

	mu      sync.RWMutex
	scanner *Scanner
}

// NewBin creates a new empty bin
func NewBin() *Bin {
	return &Bin{
		items:   make(map[string]*Item),
		scanner: NewScanner(4),
	}
}

// Add inserts or replaces an item keyed by its path
func (b *Bin) Add(item *Item) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[item.Path] = item
}

// AddFile reads metadata for a single file and adds it
func (b *Bin) AddFile(path string) (*Item, error) {
	if !IsAudioFile(path) {
		return nil, playerrors.ErrUnsupportedFormat
	}
	item := b.scanner.metaReader.Read(path)
	b.Add(item)
	return item, nil
}

// Remove drops the item with the given path
func (b *Bin) Remove(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.items[path]; !ok {
		return false
	}
	delete(b.items, path)
	return true
}

// Get returns the item for a path
func (b *Bin) Get(path string) (*Item, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	item, ok := b.items[path]
	return item, ok
}

// Items returns all items sorted by title then path
func (b *Bin) Items() []*Item {
	b.mu.RLock()
	defer b.mu.RUnlock()

	items := make([]*Item, 0, len(b.items))
	for _, item := range b.items {
		items = append(items, item)
	}
	sortItems(items)
	return items
}

// Len returns the number of items
func (b *Bin) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Search matches title, artist and file path, title matches first
func (b *Bin) Search(query string) []*Item {
	b.mu.RLock()
	defer b.mu.RUnlock()

	query = strings.ToLower(query)
	results := make([]*Item, 0, 10)
	for _, item := range b.items {
		if strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Artist), query) ||
			strings.Contains(strings.ToLower(item.Path), query) {
			results = append(results, item)
		}
	}

	sortItems(results)
	sort.SliceStable(results, func(i, j int) bool {
		iTitle := strings.Contains(strings.ToLower(results[i].Title), query)
		jTitle := strings.Contains(strings.ToLower(results[j].Title), query)
		return iTitle && !jTitle
	})
	return results
}

// Scan walks the given roots and adds every audio file found
func (b *Bin) Scan(ctx context.Context, paths []string) []error {
	items, errs := b.scanner.Scan(ctx, paths)

	var (
		scanErrors []error
		done       = make(chan struct{})
	)
	go func() {
		defer close(done)
		for err := range errs {
			scanErrors = append(scanErrors, err)
		}
	}()

	for item := range items {
		b.Add(item)
	}
	<-done

	b.mu.Lock()
	b.LastScanned = time.Now()
	b.mu.Unlock()

	return scanErrors
}

func sortItems(items []*Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Title != items[j].Title {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		}
		return items[i].Path < items[j].Path
	})
}
