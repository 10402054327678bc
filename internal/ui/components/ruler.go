package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_timeline_editor/api"
)

// CellPixels is how many timeline pixels one terminal column stands for
const CellPixels = 8.0

// Viewport maps terminal columns to timeline seconds
type Viewport struct {
	Width            int
	Offset           float64
	SecondsPerColumn float64
}

// NewViewport creates a viewport for a zoom level in pixels per second
func NewViewport(width int, pixelsPerSecond, offset float64) Viewport {
	if pixelsPerSecond <= 0 {
		pixelsPerSecond = 1
	}
	return Viewport{Width: width, Offset: offset, SecondsPerColumn: CellPixels / pixelsPerSecond}
}

// Time returns the timeline time at the left edge of col
func (v Viewport) Time(col int) float64 {
	return v.Offset + float64(col)*v.SecondsPerColumn
}

// Column returns the column holding t, or -1 when t is off screen
func (v Viewport) Column(t float64) int {
	if v.SecondsPerColumn <= 0 || t < v.Offset {
		return -1
	}
	col := int(math.Floor((t - v.Offset) / v.SecondsPerColumn))
	if col >= v.Width {
		return -1
	}
	return col
}

// Follow scrolls so that t stays inside the middle of the viewport
func (v Viewport) Follow(t float64) Viewport {
	span := float64(v.Width) * v.SecondsPerColumn
	if span <= 0 {
		return v
	}
	if t < v.Offset || t >= v.Offset+span {
		v.Offset = math.Max(0, t-span/4)
	}
	return v
}

// Ruler draws time labels, markers, the loop region and the playhead
// above the track lanes
type Ruler struct {
	Viewport Viewport
	Playhead float64
	Markers  []api.Marker
	Loop     *api.LoopRegion

	LabelStyle    lipgloss.Style
	PlayheadStyle lipgloss.Style
	MarkerStyle   lipgloss.Style
	LoopStyle     lipgloss.Style
}

// NewRuler creates a ruler
func NewRuler() Ruler {
	return Ruler{
		LabelStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		PlayheadStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		MarkerStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		LoopStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	}
}

// labelEvery returns the column stride between time labels
func labelEvery(width int) int {
	if width < 40 {
		return 10
	}
	return 12
}

// View renders the ruler as two lines
func (r Ruler) View() string {
	width := r.Viewport.Width
	if width <= 0 {
		return ""
	}

	labels := []rune(strings.Repeat(" ", width))
	stride := labelEvery(width)
	for col := 0; col < width; col += stride {
		text := FormatTime(r.Viewport.Time(col))
		for i, ch := range text {
			if col+i < width {
				labels[col+i] = ch
			}
		}
	}

	marks := make([]string, width)
	for col := range marks {
		marks[col] = r.LabelStyle.Render("·")
		if col%stride == 0 {
			marks[col] = r.LabelStyle.Render("┬")
		}
	}
	if r.Loop != nil && r.Loop.Enabled {
		for col := 0; col < width; col++ {
			t := r.Viewport.Time(col)
			if t >= r.Loop.Start && t < r.Loop.End {
				marks[col] = r.LoopStyle.Render("═")
			}
		}
	}
	for _, m := range r.Markers {
		if col := r.Viewport.Column(m.Time); col >= 0 {
			marks[col] = r.MarkerStyle.Render("◆")
		}
	}
	if col := r.Viewport.Column(r.Playhead); col >= 0 {
		marks[col] = r.PlayheadStyle.Render("▼")
	}

	return r.LabelStyle.Render(string(labels)) + "\n" + strings.Join(marks, "")
}

// FormatTime formats seconds as MM:SS.t
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	tenths := int(math.Round(seconds * 10))
	m := tenths / 600
	s := (tenths % 600) / 10
	return fmt.Sprintf("%02d:%02d.%d", m, s, tenths%10)
}
