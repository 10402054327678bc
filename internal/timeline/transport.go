package timeline

import (
	"github.com/jscyril/golang_timeline_editor/api"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
)

// Transport is a mixer or track-state change. Transport changes are made
// in place and never enter history.
type Transport interface {
	Name() string
	Validate() error

	applyTransport(track *api.Track)
	trackID() string
}

// SetTrackMix sets a track's volume and pan
type SetTrackMix struct {
	TrackID string
	Volume  float64
	Pan     float64
}

// ToggleMute flips a track's mute flag
type ToggleMute struct{ TrackID string }

// ToggleSolo flips a track's solo flag
type ToggleSolo struct{ TrackID string }

// ToggleArm flips a track's record-arm flag
type ToggleArm struct{ TrackID string }

// ToggleLock flips a track's lock flag
type ToggleLock struct{ TrackID string }

func (SetTrackMix) Name() string { return "set-track-mix" }
func (ToggleMute) Name() string  { return "toggle-mute" }
func (ToggleSolo) Name() string  { return "toggle-solo" }
func (ToggleArm) Name() string   { return "toggle-arm" }
func (ToggleLock) Name() string  { return "toggle-lock" }

func (s SetTrackMix) Validate() error {
	if err := requireID(s.TrackID); err != nil {
		return err
	}
	if s.Volume < 0 {
		return invalid("volume %v is negative", s.Volume)
	}
	if s.Pan < -1 || s.Pan > 1 {
		return invalid("pan %v outside [-1, 1]", s.Pan)
	}
	return nil
}

func (t ToggleMute) Validate() error { return requireID(t.TrackID) }
func (t ToggleSolo) Validate() error { return requireID(t.TrackID) }
func (t ToggleArm) Validate() error  { return requireID(t.TrackID) }
func (t ToggleLock) Validate() error { return requireID(t.TrackID) }

func (s SetTrackMix) trackID() string { return s.TrackID }
func (t ToggleMute) trackID() string  { return t.TrackID }
func (t ToggleSolo) trackID() string  { return t.TrackID }
func (t ToggleArm) trackID() string   { return t.TrackID }
func (t ToggleLock) trackID() string  { return t.TrackID }

func (s SetTrackMix) applyTransport(track *api.Track) {
	track.Volume = s.Volume
	track.Pan = s.Pan
}

func (ToggleMute) applyTransport(track *api.Track) { track.Muted = !track.Muted }
func (ToggleSolo) applyTransport(track *api.Track) { track.Solo = !track.Solo }
func (ToggleArm) applyTransport(track *api.Track)  { track.Armed = !track.Armed }
func (ToggleLock) applyTransport(track *api.Track) { track.Locked = !track.Locked }

// ApplyTransport changes doc in place. Locked tracks still accept
// transport changes.
func ApplyTransport(doc *api.Document, t Transport) error {
	if t == nil {
		return playerrors.NewInvalidEditError("transport", "", playerrors.ErrInvalidIntent)
	}
	if err := t.Validate(); err != nil {
		return playerrors.NewInvalidEditError(t.Name(), t.trackID(), err)
	}
	track, _ := doc.Track(t.trackID())
	if track == nil {
		return playerrors.NewInvalidEditError(t.Name(), t.trackID(), playerrors.ErrTrackNotFound)
	}
	t.applyTransport(track)
	return nil
}
