package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/editor"
	"github.com/jscyril/golang_timeline_editor/internal/ui/components"
)

// TransportView shows the transport state, view settings and the selected
// clip
type TransportView struct {
	Width   int
	Session editor.Session
	Doc     *api.Document
	CanUndo bool
	CanRedo bool

	// Styles
	TitleStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	InfoStyle   lipgloss.Style
	BorderStyle lipgloss.Style
}

// NewTransportView creates a transport view
func NewTransportView(width int) TransportView {
	return TransportView{
		Width: width,
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		StatusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		InfoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
	}
}

// SetState updates what the view shows
func (v *TransportView) SetState(s editor.Session, doc *api.Document, canUndo, canRedo bool) {
	v.Session = s
	v.Doc = doc
	v.CanUndo = canUndo
	v.CanRedo = canRedo
}

// View renders the transport bar
func (v TransportView) View() string {
	s := v.Session

	statusIcon := "⏹"
	switch {
	case s.Exporting:
		statusIcon = "⏺ exporting"
	case s.Dragging:
		statusIcon = "✥ dragging"
	case s.Playing:
		statusIcon = "▶"
	}

	var end float64
	if v.Doc != nil {
		end = v.Doc.End()
	}

	var sb strings.Builder
	sb.WriteString(v.StatusStyle.Render(statusIcon))
	sb.WriteString(" ")
	sb.WriteString(v.TitleStyle.Render(components.FormatTime(s.Playhead) + " / " + components.FormatTime(end)))

	snap := "off"
	if s.SnapEnabled {
		snap = fmt.Sprintf("%gs", s.GridSize)
	}
	info := []string{
		"tool " + s.Tool.String(),
		"snap " + snap,
		fmt.Sprintf("zoom %.1fpx/s", s.PixelsPerSecond),
	}
	if v.Doc != nil && v.Doc.Loop != nil && v.Doc.Loop.Enabled {
		info = append(info, fmt.Sprintf("loop %s-%s", components.FormatTime(v.Doc.Loop.Start), components.FormatTime(v.Doc.Loop.End)))
	}
	if v.CanUndo {
		info = append(info, "undo")
	}
	if v.CanRedo {
		info = append(info, "redo")
	}
	sb.WriteString("  ")
	sb.WriteString(v.InfoStyle.Render(strings.Join(info, " | ")))

	if v.Doc != nil {
		if c, _ := v.Doc.FindClip(s.SelectedClipID); c != nil {
			sb.WriteString("\n")
			sb.WriteString(v.InfoStyle.Render(fmt.Sprintf(
				"%s  %s +%.2fs  gain %.2f  fade %.2f/%.2f",
				c.DisplayName, components.FormatTime(c.StartTime), c.Duration, c.Gain, c.FadeIn, c.FadeOut,
			)))
		}
	}

	return v.BorderStyle.Width(v.Width - 2).Render(sb.String())
}
