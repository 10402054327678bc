package audio

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/library"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
	"github.com/jscyril/golang_timeline_editor/pkg/events"
	"golang.org/x/sync/singleflight"
)

// Resolver is the read side of the store used by playback and mixdown
type Resolver interface {
	Resolve(ctx context.Context, path string) (*api.Asset, error)
	Lookup(id string) (*api.Asset, bool)
	Resampled(asset *api.Asset, rate int) *api.PCM
}

type resampleKey struct {
	id   string
	rate int
}

// Store resolves file paths to decoded assets and caches them for the
// session. Concurrent resolutions of one path share a single decode.
type Store struct {
	fileIO library.FileIO
	logger *log.Logger
	bus    *events.Bus

	mu        sync.RWMutex
	byPath    map[string]*api.Asset
	byID      map[string]*api.Asset
	resampled map[resampleKey]*api.PCM

	group   singleflight.Group
	decodes atomic.Int64
}

var _ Resolver = (*Store)(nil)

// NewStore creates an empty store reading through fileIO
func NewStore(fileIO library.FileIO, logger *log.Logger, bus *events.Bus) *Store {
	if fileIO == nil {
		fileIO = library.OSFileIO{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		fileIO:    fileIO,
		logger:    logger.WithPrefix("assets"),
		bus:       bus,
		byPath:    make(map[string]*api.Asset),
		byID:      make(map[string]*api.Asset),
		resampled: make(map[resampleKey]*api.PCM),
	}
}

// Resolve returns the cached asset for path, decoding it on first use
func (s *Store) Resolve(ctx context.Context, path string) (*api.Asset, error) {
	if asset, ok := s.Cached(path); ok {
		return asset, nil
	}

	ch := s.group.DoChan(path, func() (interface{}, error) {
		return s.load(path)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*api.Asset), nil
	}
}

// load decodes and analyzes one file. Failures are not cached so that a
// retry after fixing the file can succeed.
func (s *Store) load(path string) (*api.Asset, error) {
	if asset, ok := s.Cached(path); ok {
		return asset, nil
	}

	data, err := s.fileIO.ReadFileBuffer(path)
	if err != nil {
		s.logger.Warn("read failed", "path", path, "err", err)
		return nil, &playerrors.AssetDecodeError{Path: path, Err: err}
	}

	s.decodes.Add(1)
	pcm, err := DecodePCM(data, path)
	if err != nil {
		s.logger.Warn("decode failed", "path", path, "err", err)
		return nil, &playerrors.AssetDecodeError{Path: path, Err: err}
	}

	title, _ := library.ReadTags(bytes.NewReader(data))
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	lo, hi := Analyze(pcm)
	asset := &api.Asset{
		ID:              library.AssetID(path),
		Path:            path,
		Title:           title,
		DurationSeconds: pcm.Duration(),
		PCM:             pcm,
		LoRes:           lo,
		HiRes:           hi,
	}

	s.mu.Lock()
	s.byPath[path] = asset
	s.byID[asset.ID] = asset
	s.mu.Unlock()

	s.logger.Debug("asset loaded", "path", path, "seconds", asset.DurationSeconds)
	s.bus.Publish(api.Event{Type: api.EventAssetLoaded, Payload: asset})
	return asset, nil
}

// Cached returns an already decoded asset without touching the file
func (s *Store) Cached(path string) (*api.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.byPath[path]
	return asset, ok
}

// Lookup returns an already decoded asset by ID
func (s *Store) Lookup(id string) (*api.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.byID[id]
	return asset, ok
}

// Resampled returns the asset PCM at rate, converting and caching on first use
func (s *Store) Resampled(asset *api.Asset, rate int) *api.PCM {
	if asset.PCM.SampleRate == rate {
		return asset.PCM
	}
	key := resampleKey{id: asset.ID, rate: rate}

	s.mu.RLock()
	pcm, ok := s.resampled[key]
	s.mu.RUnlock()
	if ok {
		return pcm
	}

	pcm = Resample(asset.PCM, rate)

	s.mu.Lock()
	if existing, ok := s.resampled[key]; ok {
		pcm = existing
	} else {
		s.resampled[key] = pcm
	}
	s.mu.Unlock()
	return pcm
}

// Decodes returns how many decodes the store has run
func (s *Store) Decodes() int64 {
	return s.decodes.Load()
}

// Len returns the number of cached assets
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byPath)
}
