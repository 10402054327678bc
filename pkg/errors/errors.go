package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrClipNotFound      = errors.New("clip not found")
	ErrTrackNotFound     = errors.New("track not found")
	ErrMarkerNotFound    = errors.New("marker not found")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyDocument     = errors.New("document has no clips")
	ErrBusy              = errors.New("another operation is in progress")
	ErrNothingToPaste    = errors.New("clipboard is empty")
	ErrTrackLocked       = errors.New("track is locked")
	ErrOutOfBounds       = errors.New("value out of bounds")
	ErrInvalidIntent     = errors.New("invalid edit intent")
)

// AssetDecodeError reports an unreadable or undecodable source file
type AssetDecodeError struct {
	Path string
	Err  error
}

func (e *AssetDecodeError) Error() string {
	return fmt.Sprintf("decode asset %s: %v", e.Path, e.Err)
}

func (e *AssetDecodeError) Unwrap() error {
	return e.Err
}

// InvalidEditError reports an edit intent that was dropped as a no-op
type InvalidEditError struct {
	Op     string // Intent that failed
	Target string // Clip, track or marker ID if applicable
	Err    error  // Underlying error
}

func (e *InvalidEditError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *InvalidEditError) Unwrap() error {
	return e.Err
}

// NewInvalidEditError creates a new InvalidEditError
func NewInvalidEditError(op, target string, err error) *InvalidEditError {
	return &InvalidEditError{Op: op, Target: target, Err: err}
}

// SchedulingError reports a clip the audio backend refused to start
type SchedulingError struct {
	ClipID string
	Err    error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("schedule clip %s: %v", e.ClipID, e.Err)
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// ExportError reports an aborted mixdown export
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("export to %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("export: %v", e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsInvalidEdit reports whether err is an InvalidEditError
func IsInvalidEdit(err error) bool {
	var ie *InvalidEditError
	return errors.As(err, &ie)
}
