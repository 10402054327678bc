package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_timeline_editor/internal/library"
)

// BinList is a scrollable list of bin items. Items whose asset is already
// decoded show their length.
type BinList struct {
	Items    []*library.Item
	Selected int
	Height   int
	Width    int
	Offset   int
	Title    string
	Assets   AssetLookup

	SelectedStyle lipgloss.Style
	NormalStyle   lipgloss.Style
	TitleStyle    lipgloss.Style
	dimStyle      lipgloss.Style
}

// NewBinList creates an empty bin list
func NewBinList(height, width int) BinList {
	return BinList{
		Height: height,
		Width:  width,
		SelectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1),
		NormalStyle: lipgloss.NewStyle().Padding(0, 1),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		dimStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SetItems replaces the items and resets the selection
func (l *BinList) SetItems(items []*library.Item) {
	l.Items = items
	l.Selected, l.Offset = 0, 0
}

// rows is the number of items that fit under the title
func (l *BinList) rows() int {
	if h := l.Height - 2; h > 0 {
		return h
	}
	return 1
}

// Select moves the selection to i, clamped, and scrolls it into view
func (l *BinList) Select(i int) {
	if i >= len(l.Items) {
		i = len(l.Items) - 1
	}
	if i < 0 {
		i = 0
	}
	l.Selected = i

	switch rows := l.rows(); {
	case l.Selected < l.Offset:
		l.Offset = l.Selected
	case l.Selected >= l.Offset+rows:
		l.Offset = l.Selected - rows + 1
	}
}

// Update moves the selection
func (l BinList) Update(msg tea.Msg) (BinList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	k := browserKeys
	switch {
	case key.Matches(keyMsg, k.Up):
		l.Select(l.Selected - 1)
	case key.Matches(keyMsg, k.Down):
		l.Select(l.Selected + 1)
	case key.Matches(keyMsg, k.PageUp):
		l.Select(l.Selected - l.rows())
	case key.Matches(keyMsg, k.PageDown):
		l.Select(l.Selected + l.rows())
	case key.Matches(keyMsg, k.First):
		l.Select(0)
	case key.Matches(keyMsg, k.Last):
		l.Select(len(l.Items) - 1)
	}
	return l, nil
}

// SelectedItem returns the selected item
func (l *BinList) SelectedItem() *library.Item {
	if l.Selected >= 0 && l.Selected < len(l.Items) {
		return l.Items[l.Selected]
	}
	return nil
}

// length returns the formatted duration of a decoded item, or blanks
func (l BinList) length(item *library.Item) string {
	if l.Assets != nil {
		if asset, ok := l.Assets.Lookup(item.AssetID); ok {
			return FormatTime(asset.DurationSeconds)
		}
	}
	return "       "
}

// View renders the list
func (l BinList) View() string {
	var sb strings.Builder
	if l.Title != "" {
		sb.WriteString(l.TitleStyle.Render(fmt.Sprintf("%s (%d)", l.Title, len(l.Items))))
		sb.WriteString("\n")
	}
	if len(l.Items) == 0 {
		sb.WriteString(l.dimStyle.Render("Bin is empty"))
		return sb.String()
	}

	end := min(l.Offset+l.rows(), len(l.Items))
	lines := make([]string, 0, end-l.Offset)
	for i := l.Offset; i < end; i++ {
		item := l.Items[i]
		name := item.Title
		if item.Artist != "" {
			name = item.Artist + " - " + item.Title
		}
		line := truncate(l.length(item)+"  "+name, l.Width-2)

		if i == l.Selected {
			lines = append(lines, l.SelectedStyle.Render(line))
		} else {
			lines = append(lines, l.NormalStyle.Render(line))
		}
	}
	sb.WriteString(strings.Join(lines, "\n"))

	if len(l.Items) > l.rows() {
		sb.WriteString("\n")
		sb.WriteString(l.dimStyle.Render(fmt.Sprintf("  %d/%d", l.Selected+1, len(l.Items))))
	}
	return sb.String()
}
