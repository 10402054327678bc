package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/editor"
	"github.com/jscyril/golang_timeline_editor/internal/ui/components"
)

// TimelineView draws the ruler over the track lanes and scrolls to keep
// the playhead visible
type TimelineView struct {
	Width    int
	Viewport components.Viewport
	Ruler    components.Ruler
	Lanes    components.Lanes

	BorderStyle lipgloss.Style
}

// NewTimelineView creates a timeline view drawing waveforms from assets
func NewTimelineView(assets components.AssetLookup, width int) TimelineView {
	return TimelineView{
		Width: width,
		Ruler: components.NewRuler(),
		Lanes: components.NewLanes(assets),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")),
	}
}

// laneWidth is the number of columns left for clips
func (v TimelineView) laneWidth() int {
	w := v.Width - v.Lanes.HeaderWidth - 4
	if w < 10 {
		w = 10
	}
	return w
}

// SetState updates the view for a session and document
func (v *TimelineView) SetState(s editor.Session, doc *api.Document) {
	vp := components.NewViewport(v.laneWidth(), s.PixelsPerSecond, v.Viewport.Offset)
	v.Viewport = vp.Follow(s.Playhead)

	v.Ruler.Viewport = v.Viewport
	v.Ruler.Playhead = s.Playhead
	v.Ruler.Markers = nil
	v.Ruler.Loop = nil
	if doc != nil {
		v.Ruler.Markers = doc.Markers
		v.Ruler.Loop = doc.Loop
	}

	v.Lanes.Viewport = v.Viewport
	v.Lanes.Playhead = s.Playhead
	v.Lanes.SelectedClip = s.SelectedClipID
	v.Lanes.SelectedTrack = s.SelectedTrackID
}

// View renders the ruler and lanes for doc
func (v TimelineView) View(doc *api.Document) string {
	pad := strings.Repeat(" ", v.Lanes.HeaderWidth+2)
	ruler := strings.Split(v.Ruler.View(), "\n")
	for i := range ruler {
		ruler[i] = pad + ruler[i]
	}
	body := strings.Join(ruler, "\n") + "\n" + v.Lanes.View(doc)
	return v.BorderStyle.Width(v.Width - 2).Render(body)
}
