package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/config"
	"github.com/jscyril/golang_timeline_editor/internal/editor"
	"github.com/jscyril/golang_timeline_editor/internal/library"
	"github.com/jscyril/golang_timeline_editor/internal/timeline"
	"github.com/jscyril/golang_timeline_editor/internal/ui/components"
	"github.com/jscyril/golang_timeline_editor/internal/ui/views"
	"github.com/jscyril/golang_timeline_editor/pkg/events"
)

// Seek and edit step sizes for keyboard commands
const (
	seekStep  = 1.0
	fineStep  = 0.1
	nudgeStep = 0.1
	fadeStep  = 0.1
	gainStep  = 0.1
)

// Focus is the panel receiving keys
type Focus int

const (
	FocusTimeline Focus = iota
	FocusBin
	FocusMarker
)

// Deps are the collaborators the TUI drives
type Deps struct {
	Editor   *editor.Editor
	Bin      *library.Bin
	Assets   components.AssetLookup
	Bus      *events.Bus
	Settings *config.Store
	// Changes reports files appearing in or leaving watched directories
	Changes <-chan library.Change
	Logger  *log.Logger
}

// mouseDrag remembers where a mouse drag started
type mouseDrag struct {
	kind   editor.DragKind
	origin float64
}

// Model is the main bubbletea model
type Model struct {
	// Dimensions
	width  int
	height int

	focus Focus

	// Views
	transport views.TransportView
	timeline  views.TimelineView
	binView   views.BinView
	marker    components.Prompt
	help      help.Model
	keys      keyMap

	// Components
	editor   *editor.Editor
	bin      *library.Bin
	settings *config.Store
	events   <-chan api.Event
	changes  <-chan library.Change
	logger   *log.Logger
	drag     *mouseDrag

	// State
	ctx    context.Context
	cancel context.CancelFunc
	status string
	err    error

	// Styles
	statusStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

// TickMsg is sent periodically to update the playhead
type TickMsg time.Time

// eventMsg carries an event from the bus
type eventMsg api.Event

// changeMsg carries a watched directory change
type changeMsg library.Change

// exportDoneMsg reports a finished export
type exportDoneMsg struct {
	path string
	err  error
}

// dropDoneMsg reports a finished asset drop
type dropDoneMsg struct {
	path string
	err  error
}

// NewModel creates a new application model
func NewModel(ctx context.Context, deps Deps) Model {
	ctx, cancel := context.WithCancel(ctx)
	if deps.Settings == nil {
		deps.Settings = config.NewMemoryStore(nil)
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	cfg := deps.Settings.Get()

	m := Model{
		width:     80,
		height:    24,
		transport: views.NewTransportView(80),
		timeline:  views.NewTimelineView(deps.Assets, 80),
		binView:   views.NewBinView(deps.Bin, 80, 12),
		marker:    components.NewPrompt(40, "◆ ", "Marker label"),
		help:      help.New(),
		keys:      newKeyMap(cfg.KeyBindings),
		editor:    deps.Editor,
		bin:       deps.Bin,
		settings:  deps.Settings,
		changes:   deps.Changes,
		logger:    deps.Logger.WithPrefix("ui"),
		ctx:       ctx,
		cancel:    cancel,
		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
	m.binView.List.Assets = deps.Assets
	if len(cfg.AssetDirectories) > 0 {
		m.binView.StartDir = cfg.AssetDirectories[0]
	}
	if deps.Bus != nil {
		m.events = deps.Bus.SubscribeAll()
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		listen(m.events),
		watch(m.changes),
	)
}

// tickCmd polls the playhead so a transport that stopped on its own is
// noticed
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// listen waits for the next bus event
func listen(ch <-chan api.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

// watch waits for the next directory change
func watch(ch <-chan library.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg(change)
	}
}

// refresh copies editor state into the views
func (m *Model) refresh() {
	s := m.editor.Session()
	doc := m.editor.Document()
	m.transport.SetState(s, doc, m.editor.CanUndo(), m.editor.CanRedo())
	m.timeline.SetState(s, doc)
}

// report records the outcome of a user action for the status line
func (m *Model) report(err error) {
	m.err = err
	if err != nil {
		m.logger.Debug("action failed", "err", err)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewSizes()

	case TickMsg:
		cmds = append(cmds, tickCmd())

	case eventMsg:
		if msg.Type == api.EventError {
			if err, ok := msg.Payload.(error); ok {
				m.err = err
			}
		}
		cmds = append(cmds, listen(m.events))

	case changeMsg:
		if m.bin != nil {
			m.bin.Apply(library.Change(msg))
			m.binView.Refresh()
		}
		cmds = append(cmds, watch(m.changes))

	case views.DropMsg:
		cmds = append(cmds, m.dropCmd(msg.Path))

	case dropDoneMsg:
		m.report(msg.err)
		if msg.err == nil {
			m.status = "placed " + msg.path
			if m.bin != nil {
				if _, ok := m.bin.Get(msg.path); !ok {
					if _, err := m.bin.AddFile(msg.path); err == nil {
						m.binView.Refresh()
					}
				}
			}
		}

	case exportDoneMsg:
		m.report(msg.err)
		if msg.err == nil {
			m.status = "exported " + msg.path
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			return m, tea.Quit
		}
		cmds = append(cmds, m.handleKey(msg))
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.focus {
	case FocusMarker:
		switch msg.String() {
		case "enter":
			m.report(m.editor.AddMarker(strings.TrimSpace(m.marker.Value())))
			fallthrough
		case "esc":
			m.marker.Blur()
			m.marker.Clear()
			m.focus = FocusTimeline
			return nil
		}
		var cmd tea.Cmd
		m.marker, cmd = m.marker.Update(msg)
		return cmd

	case FocusBin:
		if !m.binView.Capturing() && (key.Matches(msg, m.keys.Bin) || key.Matches(msg, m.keys.Cancel)) {
			m.focus = FocusTimeline
			return nil
		}
		var cmd tea.Cmd
		m.binView, cmd = m.binView.Update(msg)
		return cmd
	}

	ed := m.editor
	k := m.keys
	m.status = ""

	switch {
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Bin):
		m.focus = FocusBin
	case key.Matches(msg, k.Cancel):
		ed.CancelDrag()
		m.drag = nil
		m.err = nil

	case key.Matches(msg, k.PlayPause):
		m.report(ed.TogglePlay(m.ctx))
	case key.Matches(msg, k.GoToStart):
		ed.GoToStart()
	case key.Matches(msg, k.GoToEnd):
		ed.GoToEnd()
	case key.Matches(msg, k.SeekForward):
		ed.SeekBy(seekStep)
	case key.Matches(msg, k.SeekBack):
		ed.SeekBy(-seekStep)
	case key.Matches(msg, k.FineForward):
		ed.SeekBy(fineStep)
	case key.Matches(msg, k.FineBack):
		ed.SeekBy(-fineStep)
	case key.Matches(msg, k.JumpForward):
		ed.JumpToMarker(1)
	case key.Matches(msg, k.JumpBack):
		ed.JumpToMarker(-1)

	case key.Matches(msg, k.Undo):
		ok, err := ed.Undo()
		m.report(err)
		if !ok && err == nil {
			m.status = "nothing to undo"
		}
	case key.Matches(msg, k.Redo):
		ok, err := ed.Redo()
		m.report(err)
		if !ok && err == nil {
			m.status = "nothing to redo"
		}
	case key.Matches(msg, k.Cut):
		m.report(ed.Cut())
	case key.Matches(msg, k.Copy):
		m.report(ed.Copy())
	case key.Matches(msg, k.Paste):
		m.report(ed.Paste())
	case key.Matches(msg, k.Delete):
		m.report(ed.Delete())
	case key.Matches(msg, k.Duplicate):
		m.report(ed.Duplicate())
	case key.Matches(msg, k.Split):
		m.report(ed.SplitAtPlayhead())
	case key.Matches(msg, k.Tool):
		m.status = "tool: " + ed.CycleTool().String()
	case key.Matches(msg, k.Activate):
		m.report(ed.Activate())

	case key.Matches(msg, k.NextClip):
		ed.SelectAdjacentClip(1)
	case key.Matches(msg, k.PrevClip):
		ed.SelectAdjacentClip(-1)
	case key.Matches(msg, k.TrackUp):
		ed.SelectAdjacentTrack(-1)
	case key.Matches(msg, k.TrackDown):
		ed.SelectAdjacentTrack(1)
	case key.Matches(msg, k.NudgeLeft):
		m.report(ed.Nudge(-nudgeStep))
	case key.Matches(msg, k.NudgeRight):
		m.report(ed.Nudge(nudgeStep))
	case key.Matches(msg, k.ClipUp):
		m.report(ed.MoveToTrack(-1))
	case key.Matches(msg, k.ClipDown):
		m.report(ed.MoveToTrack(1))
	case key.Matches(msg, k.FadeInMore):
		m.report(ed.AdjustFade(fadeStep, 0))
	case key.Matches(msg, k.FadeInLess):
		m.report(ed.AdjustFade(-fadeStep, 0))
	case key.Matches(msg, k.FadeOutMore):
		m.report(ed.AdjustFade(0, fadeStep))
	case key.Matches(msg, k.FadeOutLess):
		m.report(ed.AdjustFade(0, -fadeStep))
	case key.Matches(msg, k.GainUp):
		m.report(ed.AdjustGain(gainStep))
	case key.Matches(msg, k.GainDown):
		m.report(ed.AdjustGain(-gainStep))
	case key.Matches(msg, k.Normalize):
		m.report(ed.Normalize())

	case key.Matches(msg, k.AddMarker):
		m.focus = FocusMarker
		return m.marker.Focus()
	case key.Matches(msg, k.DelMarker):
		m.report(ed.RemoveMarkerNearPlayhead())
	case key.Matches(msg, k.Loop):
		m.report(ed.ToggleLoop())
	case key.Matches(msg, k.ClearLoop):
		m.report(ed.ClearLoop())

	case key.Matches(msg, k.AddTrack):
		m.report(ed.AddTrack(""))
	case key.Matches(msg, k.DelTrack):
		m.report(ed.RemoveTrack())
	case key.Matches(msg, k.Mute):
		m.report(ed.Transport(timeline.ToggleMute{TrackID: ed.Session().SelectedTrackID}))
	case key.Matches(msg, k.Solo):
		m.report(ed.Transport(timeline.ToggleSolo{TrackID: ed.Session().SelectedTrackID}))
	case key.Matches(msg, k.Lock):
		m.report(ed.Transport(timeline.ToggleLock{TrackID: ed.Session().SelectedTrackID}))
	case key.Matches(msg, k.Arm):
		m.report(ed.Transport(timeline.ToggleArm{TrackID: ed.Session().SelectedTrackID}))

	case key.Matches(msg, k.ZoomIn):
		ed.ZoomIn()
	case key.Matches(msg, k.ZoomOut):
		ed.ZoomOut()
	case key.Matches(msg, k.ToggleSnap):
		if ed.ToggleSnap() {
			m.status = "snap on"
		} else {
			m.status = "snap off"
		}
	case key.Matches(msg, k.CycleGrid):
		m.status = fmt.Sprintf("grid %gs", ed.CycleGridSize())

	case key.Matches(msg, k.Export):
		return m.exportCmd()
	}
	return nil
}

// handleMouse maps presses on the lanes to clip drags. Presses near a clip
// edge resize it; elsewhere they move it.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	doc := m.editor.Document()
	top := lipgloss.Height(m.transport.View()) + 3
	row := msg.Y - top
	col := msg.X - (m.timeline.Lanes.HeaderWidth + 3)
	vp := m.timeline.Viewport
	t := vp.Time(col)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || row < 0 || row >= len(doc.Tracks) || col < 0 {
			return
		}
		track := doc.Tracks[row]
		clip := components.ClipAt(track, t)
		if clip == nil {
			m.report(m.editor.SelectTrack(track.ID))
			m.editor.Seek(t)
			return
		}

		kind := editor.DragMove
		switch {
		case t-clip.StartTime < vp.SecondsPerColumn:
			kind = editor.DragResizeLeft
		case clip.End()-t < vp.SecondsPerColumn:
			kind = editor.DragResizeRight
		}
		if err := m.editor.BeginDrag(clip.ID, kind); err != nil {
			m.report(err)
			return
		}
		m.drag = &mouseDrag{kind: kind, origin: t}

	case tea.MouseActionMotion:
		if m.drag == nil {
			return
		}
		switch m.drag.kind {
		case editor.DragMove:
			target := ""
			if row >= 0 && row < len(doc.Tracks) {
				target = doc.Tracks[row].ID
			}
			m.report(m.editor.UpdateDrag(t-m.drag.origin, target))
		default:
			m.report(m.editor.UpdateDrag(t, ""))
		}

	case tea.MouseActionRelease:
		if m.drag != nil {
			m.editor.EndDrag()
			m.drag = nil
		}
	}
}

func (m *Model) dropCmd(path string) tea.Cmd {
	ed := m.editor
	ctx := m.ctx
	return func() tea.Msg {
		s := ed.Session()
		err := ed.DropAsset(ctx, s.SelectedTrackID, path, s.Playhead*s.PixelsPerSecond)
		return dropDoneMsg{path: path, err: err}
	}
}

func (m *Model) exportCmd() tea.Cmd {
	ed := m.editor
	ctx := m.ctx
	path := ed.ExportPath(time.Now())
	m.status = "exporting " + path
	return func() tea.Msg {
		return exportDoneMsg{path: path, err: ed.Export(ctx, path)}
	}
}

// updateViewSizes updates view dimensions
func (m *Model) updateViewSizes() {
	m.transport.Width = m.width
	m.timeline.Width = m.width
	m.binView.SetSize(m.width, m.height/2)
	m.help.Width = m.width
}

// View renders the UI
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.transport.View())
	sb.WriteString("\n")
	sb.WriteString(m.timeline.View(m.editor.Document()))
	sb.WriteString("\n")

	switch m.focus {
	case FocusBin:
		sb.WriteString(m.binView.View())
		sb.WriteString("\n")
	case FocusMarker:
		sb.WriteString(m.marker.View())
		sb.WriteString("\n")
	}

	switch {
	case m.err != nil:
		sb.WriteString(m.errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.status != "":
		sb.WriteString(m.statusStyle.Render(m.status))
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

// Run starts the bubbletea program
func Run(ctx context.Context, deps Deps) error {
	model := NewModel(ctx, deps)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
