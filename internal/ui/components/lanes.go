package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_timeline_editor/api"
	"github.com/jscyril/golang_timeline_editor/internal/audio"
)

// AssetLookup finds decoded assets for waveform drawing
type AssetLookup interface {
	Lookup(id string) (*api.Asset, bool)
}

// levels are the bar glyphs for waveform peaks, quietest first
var levels = []rune("▁▂▃▄▅▆▇█")

// palette holds the eight track colors
var palette = []lipgloss.Color{"39", "170", "78", "214", "141", "203", "44", "227"}

// Color returns the palette entry for a color index
func Color(index int) lipgloss.Color {
	if index < 0 {
		index = -index
	}
	return palette[index%len(palette)]
}

// Lanes draws one row per track: a header with the mixer flags and the
// clips on the lane as waveform bars
type Lanes struct {
	Viewport      Viewport
	HeaderWidth   int
	Playhead      float64
	SelectedClip  string
	SelectedTrack string
	Assets        AssetLookup

	HeaderStyle   lipgloss.Style
	SelectedStyle lipgloss.Style
	EmptyStyle    lipgloss.Style
	PlayheadStyle lipgloss.Style
}

// NewLanes creates a lane renderer
func NewLanes(assets AssetLookup) Lanes {
	return Lanes{
		HeaderWidth: 18,
		Assets:      assets,
		HeaderStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		SelectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true),
		EmptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("237")),
		PlayheadStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
	}
}

// Header renders the fixed-width track header
func (l Lanes) Header(track *api.Track) string {
	flags := []byte("----")
	if track.Muted {
		flags[0] = 'M'
	}
	if track.Solo {
		flags[1] = 'S'
	}
	if track.Locked {
		flags[2] = 'L'
	}
	if track.Armed {
		flags[3] = 'R'
	}
	name := truncate(track.Name, l.HeaderWidth-6)
	text := fmt.Sprintf("%-*s %s", l.HeaderWidth-5, name, flags)

	style := l.HeaderStyle.BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(Color(track.ColorIndex))
	if track.ID == l.SelectedTrack {
		style = style.Bold(true).Foreground(lipgloss.Color("212"))
	}
	return style.Render(text)
}

// Peak returns the loudest absolute sample of clip between timeline times
// from and to, including clip gain, in [0,1]. It returns -1 when the asset
// is not loaded.
func Peak(asset *api.Asset, clip *api.Clip, from, to float64) float64 {
	if asset == nil || len(asset.HiRes) == 0 {
		return -1
	}
	src := clip.SourceOffset + (from - clip.StartTime)
	env := audio.Slice(asset.HiRes, asset.DurationSeconds, src, src+(to-from))
	var peak float64
	for _, mm := range env {
		peak = math.Max(peak, math.Max(math.Abs(mm.Min), math.Abs(mm.Max)))
	}
	return math.Min(1, peak*clip.Gain)
}

// Glyph maps a peak in [0,1] to a bar glyph
func Glyph(peak float64) rune {
	if peak < 0 {
		return '▒'
	}
	i := int(math.Round(peak * float64(len(levels)-1)))
	if i >= len(levels) {
		i = len(levels) - 1
	}
	return levels[i]
}

// ClipAt returns the clip of track under timeline time t
func ClipAt(track *api.Track, t float64) *api.Clip {
	for _, c := range track.Clips {
		if t >= c.StartTime && t < c.End() {
			return c
		}
	}
	return nil
}

// Lane renders the clip area of one track
func (l Lanes) Lane(track *api.Track) string {
	var sb strings.Builder
	playCol := l.Viewport.Column(l.Playhead)

	for col := 0; col < l.Viewport.Width; col++ {
		from := l.Viewport.Time(col)
		to := from + l.Viewport.SecondsPerColumn

		if col == playCol {
			sb.WriteString(l.PlayheadStyle.Render("│"))
			continue
		}

		clip := ClipAt(track, from+l.Viewport.SecondsPerColumn/2)
		if clip == nil {
			sb.WriteString(l.EmptyStyle.Render("·"))
			continue
		}

		var asset *api.Asset
		if l.Assets != nil {
			asset, _ = l.Assets.Lookup(clip.AssetID)
		}
		glyph := string(Glyph(Peak(asset, clip, from, to)))

		style := lipgloss.NewStyle().Foreground(Color(clip.ColorIndex))
		if clip.ID == l.SelectedClip {
			style = l.SelectedStyle
		}
		if track.Muted {
			style = style.Faint(true)
		}
		sb.WriteString(style.Render(glyph))
	}
	return sb.String()
}

// View renders every track of doc
func (l Lanes) View(doc *api.Document) string {
	if doc == nil || len(doc.Tracks) == 0 {
		return l.EmptyStyle.Render("No tracks")
	}
	rows := make([]string, 0, len(doc.Tracks))
	for _, track := range doc.Tracks {
		rows = append(rows, l.Header(track)+" "+l.Lane(track))
	}
	return strings.Join(rows, "\n")
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
