package timeline

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jscyril/golang_timeline_editor/api"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
)

const (
	// MinClipDuration is the shortest clip an edit may produce
	MinClipDuration = 0.1
	// DuplicateGap separates a duplicate from its original
	DuplicateGap = 0.001
	// DefaultNormalizeGain is the fixed boost applied by Normalize
	DefaultNormalizeGain = 1.5
	// trackColors is the size of the track and clip palette
	trackColors = 8
)

// Options carry the editor settings an edit depends on
type Options struct {
	Grid          Grid
	NormalizeGain float64
	// NewID generates clip, track and marker IDs
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.NormalizeGain <= 0 {
		o.NormalizeGain = DefaultNormalizeGain
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

func (o Options) id(want string) string {
	if want != "" {
		return want
	}
	return o.NewID()
}

// Apply returns the document produced by intent. doc is never modified;
// when the intent is rejected doc itself is returned together with an
// InvalidEditError.
func Apply(doc *api.Document, intent Intent, opts Options) (*api.Document, error) {
	if intent == nil {
		return doc, playerrors.NewInvalidEditError("apply", "", playerrors.ErrInvalidIntent)
	}
	if doc == nil {
		doc = api.NewDocument()
	}
	if err := intent.Validate(); err != nil {
		return doc, playerrors.NewInvalidEditError(intent.Name(), intent.Target(), err)
	}

	next := doc.Clone()
	if err := intent.apply(next, opts.withDefaults()); err != nil {
		return doc, playerrors.NewInvalidEditError(intent.Name(), intent.Target(), err)
	}
	return next, nil
}

// editableClip finds a clip whose track accepts edits
func editableClip(doc *api.Document, id string) (*api.Clip, *api.Track, error) {
	clip, track := doc.FindClip(id)
	if clip == nil {
		return nil, nil, playerrors.ErrClipNotFound
	}
	if track.Locked {
		return nil, nil, playerrors.ErrTrackLocked
	}
	return clip, track, nil
}

func editableTrack(doc *api.Document, id string) (*api.Track, error) {
	track, _ := doc.Track(id)
	if track == nil {
		return nil, playerrors.ErrTrackNotFound
	}
	if track.Locked {
		return nil, playerrors.ErrTrackLocked
	}
	return track, nil
}

// clampFades keeps fadeIn + fadeOut within the clip
func clampFades(c *api.Clip) {
	c.FadeIn = math.Max(0, math.Min(c.FadeIn, c.Duration))
	c.FadeOut = math.Max(0, math.Min(c.FadeOut, c.Duration-c.FadeIn))
}

func removeClip(track *api.Track, id string) *api.Clip {
	i := track.ClipIndex(id)
	if i < 0 {
		return nil
	}
	clip := track.Clips[i]
	track.Clips = append(track.Clips[:i], track.Clips[i+1:]...)
	return clip
}

func (m Move) apply(doc *api.Document, opts Options) error {
	clip, src, err := editableClip(doc, m.ClipID)
	if err != nil {
		return err
	}

	dst := src
	if m.TargetTrackID != "" && m.TargetTrackID != src.ID {
		if dst, err = editableTrack(doc, m.TargetTrackID); err != nil {
			return err
		}
	}

	clip.StartTime = math.Max(0, opts.Grid.Snap(clip.StartTime+m.Delta))
	if dst != src {
		removeClip(src, clip.ID)
		dst.Clips = append(dst.Clips, clip)
	}
	dst.SortClips()
	return nil
}

func (r ResizeLeft) apply(doc *api.Document, opts Options) error {
	clip, track, err := editableClip(doc, r.ClipID)
	if err != nil {
		return err
	}

	end := clip.End()
	// the source cannot be extended before its first sample
	origin := math.Max(0, clip.StartTime-clip.SourceOffset)
	start := math.Max(opts.Grid.Snap(r.NewStart), origin)
	if start > end-MinClipDuration {
		start = end - MinClipDuration
	}
	if start < origin {
		return fmt.Errorf("%w: clip cannot be shorter than %vs", playerrors.ErrOutOfBounds, MinClipDuration)
	}

	clip.SourceOffset += start - clip.StartTime
	clip.StartTime = start
	clip.Duration = end - start
	clampFades(clip)
	track.SortClips()
	return nil
}

func (r ResizeRight) apply(doc *api.Document, opts Options) error {
	clip, _, err := editableClip(doc, r.ClipID)
	if err != nil {
		return err
	}

	clip.Duration = math.Max(MinClipDuration, opts.Grid.Snap(r.NewEnd)-clip.StartTime)
	clampFades(clip)
	return nil
}

func (s Split) apply(doc *api.Document, opts Options) error {
	clip, track, err := editableClip(doc, s.ClipID)
	if err != nil {
		return err
	}
	if !clip.Contains(s.At) {
		return fmt.Errorf("%w: %v is not inside [%v, %v]", playerrors.ErrOutOfBounds, s.At, clip.StartTime, clip.End())
	}

	first, rest := splitDuration(clip.Duration, s.At-clip.StartTime)
	second := *clip
	second.ID = opts.id(s.NewID)
	second.StartTime = s.At
	second.Duration = rest
	second.SourceOffset = clip.SourceOffset + first
	second.FadeIn = 0

	clip.Duration = first
	clip.FadeOut = 0
	clampFades(clip)
	clampFades(&second)

	track.Clips = append(track.Clips, &second)
	track.SortClips()
	return nil
}

// splitDuration divides d into two parts near first whose float sum is
// exactly d
func splitDuration(d, first float64) (float64, float64) {
	rest := d - first
	first = d - rest
	for i := 0; i < 64 && first+rest != d; i++ {
		if first+rest > d {
			first = math.Nextafter(first, math.Inf(-1))
		} else {
			first = math.Nextafter(first, math.Inf(1))
		}
	}
	return first, rest
}

func (d Duplicate) apply(doc *api.Document, opts Options) error {
	clip, track, err := editableClip(doc, d.ClipID)
	if err != nil {
		return err
	}

	dup := *clip
	dup.ID = opts.id(d.NewID)
	dup.StartTime = clip.End() + DuplicateGap
	track.Clips = append(track.Clips, &dup)
	track.SortClips()
	return nil
}

func (d Delete) apply(doc *api.Document, _ Options) error {
	_, track, err := editableClip(doc, d.ClipID)
	if err != nil {
		return err
	}
	removeClip(track, d.ClipID)
	return nil
}

func (i Insert) apply(doc *api.Document, opts Options) error {
	track, err := editableTrack(doc, i.TrackID)
	if err != nil {
		return err
	}

	clip := i.Clip
	if clip.ID == "" {
		clip.ID = opts.NewID()
	} else if existing, _ := doc.FindClip(clip.ID); existing != nil {
		clip.ID = opts.NewID()
	}
	clampFades(&clip)
	track.Clips = append(track.Clips, &clip)
	track.SortClips()
	return nil
}

func (s SetFade) apply(doc *api.Document, _ Options) error {
	clip, _, err := editableClip(doc, s.ClipID)
	if err != nil {
		return err
	}
	half := clip.Duration / 2
	clip.FadeIn = math.Min(s.FadeIn, half)
	clip.FadeOut = math.Min(s.FadeOut, half)
	clampFades(clip)
	return nil
}

func (s SetGain) apply(doc *api.Document, _ Options) error {
	clip, _, err := editableClip(doc, s.ClipID)
	if err != nil {
		return err
	}
	clip.Gain = s.Gain
	return nil
}

// apply boosts gain by a fixed factor. There is no peak analysis.
func (n Normalize) apply(doc *api.Document, opts Options) error {
	clip, _, err := editableClip(doc, n.ClipID)
	if err != nil {
		return err
	}
	clip.Gain *= opts.NormalizeGain
	return nil
}

func (a AddTrack) apply(doc *api.Document, opts Options) error {
	id := opts.id(a.ID)
	if t, _ := doc.Track(id); t != nil {
		return fmt.Errorf("%w: track %s already exists", playerrors.ErrInvalidIntent, id)
	}
	title := a.Title
	if title == "" {
		title = fmt.Sprintf("Track %d", len(doc.Tracks)+1)
	}
	doc.Tracks = append(doc.Tracks, &api.Track{
		ID:         id,
		Name:       title,
		Clips:      make([]*api.Clip, 0),
		Volume:     1,
		ColorIndex: len(doc.Tracks) % trackColors,
	})
	return nil
}

func (r RemoveTrack) apply(doc *api.Document, _ Options) error {
	if _, err := editableTrack(doc, r.TrackID); err != nil {
		return err
	}
	_, i := doc.Track(r.TrackID)
	doc.Tracks = append(doc.Tracks[:i], doc.Tracks[i+1:]...)
	return nil
}

func (a AddMarker) apply(doc *api.Document, opts Options) error {
	label := a.Label
	if label == "" {
		label = fmt.Sprintf("Marker %d", len(doc.Markers)+1)
	}
	doc.Markers = append(doc.Markers, api.Marker{ID: opts.id(a.ID), Time: a.Time, Label: label})
	doc.SortMarkers()
	return nil
}

func (r RemoveMarker) apply(doc *api.Document, _ Options) error {
	for i, m := range doc.Markers {
		if m.ID == r.MarkerID {
			doc.Markers = append(doc.Markers[:i], doc.Markers[i+1:]...)
			return nil
		}
	}
	return playerrors.ErrMarkerNotFound
}

func (s SetLoop) apply(doc *api.Document, _ Options) error {
	doc.Loop = &api.LoopRegion{Start: s.Start, End: s.End, Enabled: s.Enabled}
	return nil
}

func (ClearLoop) apply(doc *api.Document, _ Options) error {
	doc.Loop = nil
	return nil
}
