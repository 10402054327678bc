package editor

import "github.com/jscyril/golang_timeline_editor/api"

// Tool is the active pointer tool
type Tool int

const (
	ToolSelect Tool = iota
	ToolRazor
)

func (t Tool) String() string {
	if t == ToolRazor {
		return "razor"
	}
	return "select"
}

// Zoom limits in pixels per second
const (
	MinZoom    = 1.0
	MaxZoom    = 400.0
	zoomFactor = 1.25
)

// Session is the transient editor state. It is never snapshotted by
// history.
type Session struct {
	Playhead        float64
	PixelsPerSecond float64
	Tool            Tool
	SelectedClipID  string
	SelectedTrackID string
	GridSize        float64
	SnapEnabled     bool
	// Clipboard is a detached copy of the last cut or copied clip
	Clipboard      *api.Clip
	ClipboardTrack string
	Dragging       bool
	Exporting      bool
	Playing        bool
}
