package timeline

import (
	"fmt"
	"math"

	"github.com/jscyril/golang_timeline_editor/api"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
)

// Intent is a structural edit. The set of intents is closed: every intent
// is defined in this package.
type Intent interface {
	// Name identifies the intent in errors and logs
	Name() string
	// Target is the clip, track or marker the intent edits, if any
	Target() string
	// Validate rejects malformed intents before they reach the document
	Validate() error

	apply(doc *api.Document, opts Options) error
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", playerrors.ErrInvalidIntent, fmt.Sprintf(format, args...))
}

// Move shifts a clip by Delta seconds, optionally onto another track
type Move struct {
	ClipID        string
	Delta         float64
	TargetTrackID string
}

func (Move) Name() string     { return "move" }
func (m Move) Target() string { return m.ClipID }
func (m Move) Validate() error {
	if err := requireID(m.ClipID); err != nil {
		return err
	}
	return requireFinite(m.Delta)
}

// ResizeLeft drags the start edge of a clip, keeping its end fixed
type ResizeLeft struct {
	ClipID   string
	NewStart float64
}

func (ResizeLeft) Name() string     { return "resize-left" }
func (r ResizeLeft) Target() string { return r.ClipID }
func (r ResizeLeft) Validate() error {
	if err := requireID(r.ClipID); err != nil {
		return err
	}
	return requireFinite(r.NewStart)
}

// ResizeRight drags the end edge of a clip
type ResizeRight struct {
	ClipID string
	NewEnd float64
}

func (ResizeRight) Name() string     { return "resize-right" }
func (r ResizeRight) Target() string { return r.ClipID }
func (r ResizeRight) Validate() error {
	if err := requireID(r.ClipID); err != nil {
		return err
	}
	return requireFinite(r.NewEnd)
}

// Split cuts a clip in two at timeline time At. NewID names the second
// half; an empty NewID is generated.
type Split struct {
	ClipID string
	At     float64
	NewID  string
}

func (Split) Name() string     { return "split" }
func (s Split) Target() string { return s.ClipID }
func (s Split) Validate() error {
	if err := requireID(s.ClipID); err != nil {
		return err
	}
	return requireFinite(s.At)
}

// Duplicate places a copy of a clip right after it on the same track
type Duplicate struct {
	ClipID string
	NewID  string
}

func (Duplicate) Name() string      { return "duplicate" }
func (d Duplicate) Target() string  { return d.ClipID }
func (d Duplicate) Validate() error { return requireID(d.ClipID) }

// Delete removes a clip
type Delete struct {
	ClipID string
}

func (Delete) Name() string      { return "delete" }
func (d Delete) Target() string  { return d.ClipID }
func (d Delete) Validate() error { return requireID(d.ClipID) }

// Insert adds a clip to a track. Paste and asset drops both insert.
type Insert struct {
	TrackID string
	Clip    api.Clip
}

func (Insert) Name() string     { return "insert" }
func (i Insert) Target() string { return i.TrackID }

func (i Insert) Validate() error {
	if err := requireID(i.TrackID); err != nil {
		return err
	}
	if i.Clip.AssetID == "" {
		return invalid("clip has no asset")
	}
	if i.Clip.Duration <= 0 {
		return invalid("duration %v must be positive", i.Clip.Duration)
	}
	if i.Clip.StartTime < 0 || i.Clip.SourceOffset < 0 || i.Clip.Gain < 0 {
		return invalid("negative start, offset or gain")
	}
	return nil
}

// SetFade sets both fade lengths of a clip
type SetFade struct {
	ClipID  string
	FadeIn  float64
	FadeOut float64
}

func (SetFade) Name() string     { return "set-fade" }
func (s SetFade) Target() string { return s.ClipID }

func (s SetFade) Validate() error {
	if err := requireID(s.ClipID); err != nil {
		return err
	}
	if s.FadeIn < 0 || s.FadeOut < 0 {
		return invalid("negative fade")
	}
	return requireFinite(s.FadeIn, s.FadeOut)
}

// SetGain sets the gain of a clip; 1 is unity
type SetGain struct {
	ClipID string
	Gain   float64
}

func (SetGain) Name() string     { return "set-gain" }
func (s SetGain) Target() string { return s.ClipID }

func (s SetGain) Validate() error {
	if err := requireID(s.ClipID); err != nil {
		return err
	}
	if s.Gain < 0 {
		return invalid("gain %v is negative", s.Gain)
	}
	return requireFinite(s.Gain)
}

// Normalize boosts a clip's gain by the configured fixed factor
type Normalize struct {
	ClipID string
}

func (Normalize) Name() string      { return "normalize" }
func (n Normalize) Target() string  { return n.ClipID }
func (n Normalize) Validate() error { return requireID(n.ClipID) }

// AddTrack appends an empty track
type AddTrack struct {
	ID    string
	Title string
}

func (AddTrack) Name() string     { return "add-track" }
func (a AddTrack) Target() string { return a.ID }
func (AddTrack) Validate() error  { return nil }

// RemoveTrack deletes a track and every clip on it
type RemoveTrack struct {
	TrackID string
}

func (RemoveTrack) Name() string      { return "remove-track" }
func (r RemoveTrack) Target() string  { return r.TrackID }
func (r RemoveTrack) Validate() error { return requireID(r.TrackID) }

// AddMarker labels a point in time
type AddMarker struct {
	ID    string
	Time  float64
	Label string
}

func (AddMarker) Name() string     { return "add-marker" }
func (a AddMarker) Target() string { return a.ID }

func (a AddMarker) Validate() error {
	if a.Time < 0 {
		return invalid("marker time %v is negative", a.Time)
	}
	return requireFinite(a.Time)
}

// RemoveMarker deletes a marker
type RemoveMarker struct {
	MarkerID string
}

func (RemoveMarker) Name() string      { return "remove-marker" }
func (r RemoveMarker) Target() string  { return r.MarkerID }
func (r RemoveMarker) Validate() error { return requireID(r.MarkerID) }

// SetLoop sets the loop region
type SetLoop struct {
	Start   float64
	End     float64
	Enabled bool
}

func (SetLoop) Name() string   { return "set-loop" }
func (SetLoop) Target() string { return "" }

func (s SetLoop) Validate() error {
	if s.Start < 0 || s.End <= s.Start {
		return invalid("loop [%v, %v) is empty", s.Start, s.End)
	}
	return requireFinite(s.Start, s.End)
}

// ClearLoop removes the loop region
type ClearLoop struct{}

func (ClearLoop) Name() string    { return "clear-loop" }
func (ClearLoop) Target() string  { return "" }
func (ClearLoop) Validate() error { return nil }

func requireID(id string) error {
	if id == "" {
		return invalid("missing target")
	}
	return nil
}

func requireFinite(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("value %v is not finite", v)
		}
	}
	return nil
}
