package mixdown

import (
	"context"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep/effects"
	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/audio"
	"github.com/jscyril/golang_timeline_editor/internal/library"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Mix is a rendered stereo buffer
type Mix struct {
	SampleRate int
	Channels   int
	Frames     [][2]float64
}

// Duration returns the mix length in seconds
func (m *Mix) Duration() float64 {
	if m.SampleRate <= 0 {
		return 0
	}
	return float64(len(m.Frames)) / float64(m.SampleRate)
}

// Options configure the renderer
type Options struct {
	SampleRate int
	Channels   int
	Curve      audio.FadeCurve
	// Workers bounds concurrent asset preparation
	Workers int
	Logger  *log.Logger
}

// Renderer bounces a document to a single buffer, offline and
// deterministically
type Renderer struct {
	assets audio.Resolver
	fileIO library.FileIO
	logger *log.Logger
	opts   Options
}

// NewRenderer creates a renderer reading assets from the resolver
func NewRenderer(assets audio.Resolver, fileIO library.FileIO, opts Options) *Renderer {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	if opts.Channels < 1 || opts.Channels > 2 {
		opts.Channels = 2
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if fileIO == nil {
		fileIO = library.OSFileIO{}
	}
	return &Renderer{
		assets: assets,
		fileIO: fileIO,
		logger: opts.Logger.WithPrefix("mixdown"),
		opts:   opts,
	}
}

// Render mixes every audible clip of doc. A document without clips cannot
// be rendered.
func (r *Renderer) Render(ctx context.Context, doc *api.Document) (*Mix, error) {
	if doc == nil || doc.End() <= 0 {
		return nil, &playerrors.ExportError{Err: playerrors.ErrEmptyDocument}
	}

	rate := float64(r.opts.SampleRate)
	mix := &Mix{
		SampleRate: r.opts.SampleRate,
		Channels:   r.opts.Channels,
		Frames:     make([][2]float64, int(math.Round(doc.End()*rate))),
	}

	tracks := doc.AudibleTracks()
	sources, err := r.prepare(ctx, tracks)
	if err != nil {
		return nil, &playerrors.ExportError{Err: err}
	}

	buf := make([][2]float64, 4096)
	for _, track := range tracks {
		for _, clip := range track.Clips {
			if err := ctx.Err(); err != nil {
				return nil, &playerrors.ExportError{Err: err}
			}
			pcm, ok := sources[clip.AssetID]
			if !ok {
				continue
			}

			streamer := &effects.Pan{
				Streamer: audio.NewClipStreamer(pcm, *clip, 0, track.Volume*clip.Gain, r.opts.Curve),
				Pan:      track.Pan,
			}
			pos := int(math.Round(clip.StartTime * rate))
			for pos < len(mix.Frames) {
				n, ok := streamer.Stream(buf)
				for i := 0; i < n && pos+i < len(mix.Frames); i++ {
					mix.Frames[pos+i][0] += buf[i][0]
					mix.Frames[pos+i][1] += buf[i][1]
				}
				pos += n
				if !ok {
					break
				}
			}
		}
	}

	r.logger.Debug("rendered", "seconds", mix.Duration(), "tracks", len(tracks))
	return mix, nil
}

// prepare resolves and resamples every asset the tracks use, concurrently.
// Mixing itself runs afterwards in track order so the sum is reproducible.
// Missing assets are logged and their clips skipped.
func (r *Renderer) prepare(ctx context.Context, tracks []*api.Track) (map[string]*api.PCM, error) {
	ids := make(map[string]bool)
	for _, track := range tracks {
		for _, clip := range track.Clips {
			ids[clip.AssetID] = true
		}
	}
	ordered := make([]string, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	var mu sync.Mutex
	sources := make(map[string]*api.PCM, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, id := range ordered {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			asset, ok := r.assets.Lookup(id)
			if !ok {
				r.logger.Warn("asset unavailable, skipping its clips", "asset", id)
				return nil
			}
			pcm := r.assets.Resampled(asset, r.opts.SampleRate)

			mu.Lock()
			sources[id] = pcm
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// Export renders doc and writes it to path as a WAV file. Nothing is
// written unless rendering and encoding both succeed.
func (r *Renderer) Export(ctx context.Context, doc *api.Document, path string) error {
	mix, err := r.Render(ctx, doc)
	if err != nil {
		return withPath(err, path)
	}

	data, err := EncodeWAV(mix)
	if err != nil {
		return &playerrors.ExportError{Path: path, Err: err}
	}

	if err := r.fileIO.WriteFileBuffer(path, data); err != nil {
		return &playerrors.ExportError{Path: path, Err: err}
	}
	r.logger.Info("exported", "path", path, "bytes", len(data))
	return nil
}

func withPath(err error, path string) error {
	if exportErr, ok := err.(*playerrors.ExportError); ok && exportErr.Path == "" {
		return &playerrors.ExportError{Path: path, Err: exportErr.Err}
	}
	return err
}
