package components

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_timeline_editor/internal/library"
)

// browserKeys are the navigation bindings of the file browser
var browserKeys = struct {
	Up, Down, PageUp, PageDown, First, Last, Parent, Home key.Binding
}{
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
	First:    key.NewBinding(key.WithKeys("home")),
	Last:     key.NewBinding(key.WithKeys("end")),
	Parent:   key.NewBinding(key.WithKeys("backspace")),
	Home:     key.NewBinding(key.WithKeys("~")),
}

// FileBrowser walks directories to pick an audio file that is not in the
// bin yet. Files already in the bin are marked.
type FileBrowser struct {
	Width    int
	Height   int
	Dir      string
	Entries  []library.Entry
	Selected int
	Offset   int
	Err      error
	// InBin reports whether a path is already in the bin
	InBin    func(path string) bool

	dirStyle      lipgloss.Style
	fileStyle     lipgloss.Style
	selectedStyle lipgloss.Style
	pathStyle     lipgloss.Style
	dimStyle      lipgloss.Style
	borderStyle   lipgloss.Style
}

// NewFileBrowser opens a browser at dir, or the home directory when dir is empty
func NewFileBrowser(dir string, width, height int) FileBrowser {
	fb := FileBrowser{
		Width:         width,
		Height:        height,
		dirStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		fileStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		selectedStyle: lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")).Bold(true),
		pathStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
	}
	if dir == "" {
		dir = homeDir()
	}
	fb.Open(dir)
	return fb
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "/"
}

// Open lists dir, with a ".." entry first unless dir is the root
func (fb *FileBrowser) Open(dir string) {
	fb.Dir = dir
	fb.Selected, fb.Offset = 0, 0
	fb.Entries = nil

	entries, err := library.ListDirectory(dir)
	fb.Err = err
	if err != nil {
		return
	}
	if parent := filepath.Dir(dir); parent != dir {
		fb.Entries = append(fb.Entries, library.Entry{Name: "..", Path: parent, IsDirectory: true})
	}
	fb.Entries = append(fb.Entries, entries...)
}

// Update moves the selection or changes directory
func (fb FileBrowser) Update(msg tea.Msg) (FileBrowser, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fb, nil
	}

	k := browserKeys
	switch {
	case key.Matches(keyMsg, k.Up):
		fb.selectAt(fb.Selected - 1)
	case key.Matches(keyMsg, k.Down):
		fb.selectAt(fb.Selected + 1)
	case key.Matches(keyMsg, k.PageUp):
		fb.selectAt(fb.Selected - fb.rows())
	case key.Matches(keyMsg, k.PageDown):
		fb.selectAt(fb.Selected + fb.rows())
	case key.Matches(keyMsg, k.First):
		fb.selectAt(0)
	case key.Matches(keyMsg, k.Last):
		fb.selectAt(len(fb.Entries) - 1)
	case key.Matches(keyMsg, k.Parent):
		fb.Open(filepath.Dir(fb.Dir))
	case key.Matches(keyMsg, k.Home):
		fb.Open(homeDir())
	}
	return fb, nil
}

// selectAt clamps i to the entries and scrolls it into view
func (fb *FileBrowser) selectAt(i int) {
	if i >= len(fb.Entries) {
		i = len(fb.Entries) - 1
	}
	if i < 0 {
		i = 0
	}
	fb.Selected = i

	rows := fb.rows()
	switch {
	case fb.Selected < fb.Offset:
		fb.Offset = fb.Selected
	case fb.Selected >= fb.Offset+rows:
		fb.Offset = fb.Selected - rows + 1
	}
}

// Enter opens the selected directory, or returns the selected file's path
func (fb *FileBrowser) Enter() string {
	if fb.Selected < 0 || fb.Selected >= len(fb.Entries) {
		return ""
	}
	entry := fb.Entries[fb.Selected]
	if entry.IsDirectory {
		fb.Open(entry.Path)
		return ""
	}
	return entry.Path
}

// rows is the number of entries that fit
func (fb *FileBrowser) rows() int {
	if h := fb.Height - 6; h > 0 {
		return h
	}
	return 1
}

// View renders the directory listing
func (fb FileBrowser) View() string {
	var sb strings.Builder
	sb.WriteString(fb.pathStyle.Render(truncate(fb.Dir, fb.Width-6)))
	sb.WriteString("\n")
	if fb.Err != nil {
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fb.Err.Error()))
		sb.WriteString("\n")
	}

	end := min(fb.Offset+fb.rows(), len(fb.Entries))
	files := 0
	for _, e := range fb.Entries {
		if !e.IsDirectory {
			files++
		}
	}

	for i := fb.Offset; i < end; i++ {
		entry := fb.Entries[i]
		line, style := "▸ "+entry.Name+"/", fb.dirStyle
		if !entry.IsDirectory {
			ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(entry.Name), "."))
			mark := " "
			if fb.InBin != nil && fb.InBin(entry.Path) {
				mark = "●"
			}
			line, style = fmt.Sprintf("%s %-4s %s", mark, ext, entry.Name), fb.fileStyle
		}
		line = truncate(line, fb.Width-6)
		if i == fb.Selected {
			style = fb.selectedStyle
		}
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}
	for i := end - fb.Offset; i < fb.rows(); i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(fb.dimStyle.Render(fmt.Sprintf("%d audio files  ● in bin", files)))
	sb.WriteString("\n")
	sb.WriteString(fb.dimStyle.Render("enter open/drop • backspace up • ~ home • esc close"))
	return fb.borderStyle.Width(fb.Width - 2).Render(sb.String())
}
