package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_timeline_editor/internal/library"
	"github.com/jscyril/golang_timeline_editor/internal/ui/components"
)

// DropMsg asks the editor to place the file at path on the selected track
// at the playhead
type DropMsg struct {
	Path string
}

// BinView lists the asset bin and a file browser for files outside it
type BinView struct {
	Width       int
	Height      int
	List        components.BinList
	SearchBar   components.Prompt
	FileBrowser components.FileBrowser
	Searching   bool
	Browsing    bool
	// StartDir is where the file browser opens
	StartDir    string
	bin         *library.Bin
	BorderStyle lipgloss.Style
}

// NewBinView creates a view over bin
func NewBinView(bin *library.Bin, width, height int) BinView {
	list := components.NewBinList(height-8, width-6)
	list.Title = "Bin"

	v := BinView{
		Width:     width,
		Height:    height,
		List:      list,
		SearchBar: components.NewPrompt(width-6, "/ ", "Search bin..."),
		bin:       bin,
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
	}
	v.Refresh()
	return v
}

// SetSize resizes the view and its list
func (v *BinView) SetSize(width, height int) {
	v.Width = width
	v.Height = height
	v.List.Width = width - 6
	v.List.Height = height - 8
	v.SearchBar.Width = width - 6
}

// Refresh reloads the list from the bin, keeping the search filter
func (v *BinView) Refresh() {
	if v.bin == nil {
		return
	}
	selected := v.List.Selected
	if q := v.SearchBar.Value(); q != "" {
		v.List.SetItems(v.bin.Search(q))
	} else {
		v.List.SetItems(v.bin.Items())
	}
	if selected < len(v.List.Items) {
		v.List.Selected = selected
	}
}

// Capturing reports whether the view wants every key
func (v BinView) Capturing() bool {
	return v.Searching || v.Browsing
}

// Update handles messages
func (v BinView) Update(msg tea.Msg) (BinView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.Browsing {
		switch keyMsg.String() {
		case "esc":
			v.Browsing = false
		case "enter":
			if path := v.FileBrowser.Enter(); path != "" {
				v.Browsing = false
				return v, drop(path)
			}
		default:
			v.FileBrowser, _ = v.FileBrowser.Update(msg)
		}
		return v, nil
	}

	if v.Searching {
		switch keyMsg.String() {
		case "enter", "esc":
			v.Searching = false
			v.SearchBar.Blur()
			v.Refresh()
			return v, nil
		}
		var cmd tea.Cmd
		v.SearchBar, cmd = v.SearchBar.Update(msg)
		v.Refresh()
		return v, cmd
	}

	switch keyMsg.String() {
	case "/":
		v.Searching = true
		return v, v.SearchBar.Focus()
	case "o":
		v.Browsing = true
		v.FileBrowser = components.NewFileBrowser(v.StartDir, v.Width, v.Height)
		if v.bin != nil {
			v.FileBrowser.InBin = func(path string) bool {
				_, ok := v.bin.Get(path)
				return ok
			}
		}
	case "enter":
		if item := v.List.SelectedItem(); item != nil {
			return v, drop(item.Path)
		}
	default:
		v.List, _ = v.List.Update(msg)
	}
	return v, nil
}

func drop(path string) tea.Cmd {
	return func() tea.Msg { return DropMsg{Path: path} }
}

// View renders the bin
func (v BinView) View() string {
	if v.Browsing {
		return v.FileBrowser.View()
	}

	var sb strings.Builder
	sb.WriteString(v.SearchBar.View())
	sb.WriteString("\n")
	sb.WriteString(v.List.View())
	sb.WriteString("\n\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if v.Searching {
		sb.WriteString(helpStyle.Render("[Enter] Confirm  [Esc] Done"))
	} else {
		sb.WriteString(helpStyle.Render("[/] Search  [o] Open file  [Enter] Drop at playhead"))
	}

	return v.BorderStyle.Width(v.Width - 2).Render(sb.String())
}
