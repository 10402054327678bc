package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/jscyril/golang_timeline_editor/internal/config"
)

// keyMap holds every timeline shortcut. The core editing keys come from
// the configured key bindings.
type keyMap struct {
	PlayPause   key.Binding
	GoToStart   key.Binding
	GoToEnd     key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Cut         key.Binding
	Copy        key.Binding
	Paste       key.Binding
	Delete      key.Binding
	Split       key.Binding
	SeekForward key.Binding
	SeekBack    key.Binding
	FineForward key.Binding
	FineBack    key.Binding
	JumpForward key.Binding
	JumpBack    key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	ToggleSnap  key.Binding
	CycleGrid   key.Binding
	Export      key.Binding
	Quit        key.Binding

	NextClip    key.Binding
	PrevClip    key.Binding
	TrackUp     key.Binding
	TrackDown   key.Binding
	NudgeLeft   key.Binding
	NudgeRight  key.Binding
	ClipUp      key.Binding
	ClipDown    key.Binding
	Duplicate   key.Binding
	FadeInMore  key.Binding
	FadeInLess  key.Binding
	FadeOutMore key.Binding
	FadeOutLess key.Binding
	GainUp      key.Binding
	GainDown    key.Binding
	Normalize   key.Binding
	AddMarker   key.Binding
	DelMarker   key.Binding
	Loop        key.Binding
	ClearLoop   key.Binding
	AddTrack    key.Binding
	DelTrack    key.Binding
	Mute        key.Binding
	Solo        key.Binding
	Lock        key.Binding
	Arm         key.Binding
	Tool        key.Binding
	Activate    key.Binding
	Bin         key.Binding
	Cancel      key.Binding
	Help        key.Binding
}

func bind(k, help string) key.Binding {
	return key.NewBinding(key.WithKeys(k), key.WithHelp(k, help))
}

func newKeyMap(km config.KeyMap) keyMap {
	return keyMap{
		PlayPause:   key.NewBinding(key.WithKeys(km.PlayPause), key.WithHelp("space", "play/pause")),
		GoToStart:   bind(km.GoToStart, "start"),
		GoToEnd:     bind(km.GoToEnd, "end"),
		Undo:        bind(km.Undo, "undo"),
		Redo:        bind(km.Redo, "redo"),
		Cut:         bind(km.Cut, "cut"),
		Copy:        bind(km.Copy, "copy"),
		Paste:       bind(km.Paste, "paste"),
		Delete:      key.NewBinding(key.WithKeys(km.Delete, "backspace"), key.WithHelp(km.Delete, "delete")),
		Split:       bind(km.Split, "split"),
		SeekForward: bind(km.SeekForward, "+1s"),
		SeekBack:    bind(km.SeekBack, "-1s"),
		FineForward: bind(".", "+0.1s"),
		FineBack:    bind(",", "-0.1s"),
		JumpForward: bind(km.JumpForward, "next marker"),
		JumpBack:    bind(km.JumpBack, "prev marker"),
		ZoomIn:      key.NewBinding(key.WithKeys(km.ZoomIn, "="), key.WithHelp(km.ZoomIn, "zoom in")),
		ZoomOut:     bind(km.ZoomOut, "zoom out"),
		ToggleSnap:  bind(km.ToggleSnap, "snap"),
		CycleGrid:   bind("G", "grid size"),
		Export:      bind(km.Export, "export"),
		Quit:        bind(km.Quit, "quit"),

		NextClip:    bind("tab", "next clip"),
		PrevClip:    bind("shift+tab", "prev clip"),
		TrackUp:     bind("up", "track up"),
		TrackDown:   bind("down", "track down"),
		NudgeLeft:   bind("[", "nudge left"),
		NudgeRight:  bind("]", "nudge right"),
		ClipUp:      bind("shift+up", "clip to track above"),
		ClipDown:    bind("shift+down", "clip to track below"),
		Duplicate:   bind("ctrl+d", "duplicate"),
		FadeInMore:  bind("f", "fade in +"),
		FadeInLess:  bind("F", "fade in -"),
		FadeOutMore: bind("r", "fade out +"),
		FadeOutLess: bind("R", "fade out -"),
		GainUp:      bind("}", "gain +"),
		GainDown:    bind("{", "gain -"),
		Normalize:   bind("n", "normalize"),
		AddMarker:   bind("k", "marker"),
		DelMarker:   bind("K", "remove marker"),
		Loop:        bind("l", "loop"),
		ClearLoop:   bind("L", "clear loop"),
		AddTrack:    bind("t", "add track"),
		DelTrack:    bind("T", "remove track"),
		Mute:        bind("m", "mute"),
		Solo:        bind("S", "solo"),
		Lock:        bind("ctrl+l", "lock"),
		Arm:         bind("ctrl+r", "arm"),
		Tool:        bind("w", "tool"),
		Activate:    bind("enter", "apply tool"),
		Bin:         bind("b", "bin"),
		Cancel:      bind("esc", "cancel"),
		Help:        bind("?", "help"),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Split, k.Undo, k.Redo, k.Bin, k.Export, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.GoToStart, k.GoToEnd, k.SeekForward, k.SeekBack, k.FineForward, k.FineBack, k.JumpForward, k.JumpBack},
		{k.Undo, k.Redo, k.Cut, k.Copy, k.Paste, k.Delete, k.Duplicate, k.Split, k.Tool, k.Activate},
		{k.NextClip, k.PrevClip, k.NudgeLeft, k.NudgeRight, k.ClipUp, k.ClipDown, k.FadeInMore, k.FadeInLess, k.FadeOutMore, k.FadeOutLess},
		{k.GainUp, k.GainDown, k.Normalize, k.AddMarker, k.DelMarker, k.Loop, k.ClearLoop, k.ZoomIn, k.ZoomOut, k.ToggleSnap, k.CycleGrid},
		{k.TrackUp, k.TrackDown, k.AddTrack, k.DelTrack, k.Mute, k.Solo, k.Lock, k.Arm, k.Bin, k.Export, k.Help, k.Quit},
	}
}
