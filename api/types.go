package api

import (
	"sort"
)

// MinMax holds the extreme sample values of one waveform block
type MinMax struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PCM is decoded audio stored as one sample slice per channel
type PCM struct {
	SampleRate int         `json:"sample_rate"`
	Channels   [][]float64 `json:"-"`
}

// Frames returns the number of sample frames
func (p *PCM) Frames() int {
	if p == nil || len(p.Channels) == 0 {
		return 0
	}
	return len(p.Channels[0])
}

// Duration returns the length in seconds
func (p *PCM) Duration() float64 {
	if p == nil || p.SampleRate <= 0 {
		return 0
	}
	return float64(p.Frames()) / float64(p.SampleRate)
}

// Asset is a decoded source file plus its waveform envelopes.
// Assets are immutable once the store has published them.
type Asset struct {
	ID              string    `json:"id"`
	Path            string    `json:"path"`
	Title           string    `json:"title"`
	DurationSeconds float64   `json:"duration_seconds"`
	PCM             *PCM      `json:"-"`
	LoRes           []float64 `json:"-"`
	HiRes           []MinMax  `json:"-"`
}

// Clip is a placed, time-bounded reference to a region of an asset
type Clip struct {
	ID           string  `json:"id"`
	AssetID      string  `json:"asset_id"`
	StartTime    float64 `json:"start_time"`
	Duration     float64 `json:"duration"`
	SourceOffset float64 `json:"source_offset"`
	Gain         float64 `json:"gain"`
	FadeIn       float64 `json:"fade_in"`
	FadeOut      float64 `json:"fade_out"`
	DisplayName  string  `json:"display_name"`
	ColorIndex   int     `json:"color_index"`
}

// End returns the timeline time at which the clip stops
func (c *Clip) End() float64 {
	return c.StartTime + c.Duration
}

// Contains reports whether t lies strictly inside the clip
func (c *Clip) Contains(t float64) bool {
	return t > c.StartTime && t < c.End()
}

// Overlaps reports whether [c.StartTime, c.End()) intersects [from, to]
func (c *Clip) Overlaps(from, to float64) bool {
	return c.StartTime <= to && c.End() > from
}

// Track is one lane of the timeline
type Track struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Clips      []*Clip `json:"clips"`
	Volume     float64 `json:"volume"`
	Pan        float64 `json:"pan"`
	Muted      bool    `json:"muted"`
	Solo       bool    `json:"solo"`
	ColorIndex int     `json:"color_index"`
	Locked     bool    `json:"locked"`
	Armed      bool    `json:"armed"`
}

// SortClips orders clips by start time, breaking ties by ID
func (t *Track) SortClips() {
	sort.SliceStable(t.Clips, func(i, j int) bool {
		if t.Clips[i].StartTime != t.Clips[j].StartTime {
			return t.Clips[i].StartTime < t.Clips[j].StartTime
		}
		return t.Clips[i].ID < t.Clips[j].ID
	})
}

// ClipIndex returns the index of the clip with the given ID or -1
func (t *Track) ClipIndex(id string) int {
	for i, c := range t.Clips {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Marker labels a point on the timeline
type Marker struct {
	ID    string  `json:"id"`
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// LoopRegion is a playback loop with Start < End
type LoopRegion struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Enabled bool    `json:"enabled"`
}

// Document is the arrangement snapshotted by the history manager
type Document struct {
	Tracks  []*Track    `json:"tracks"`
	Markers []Marker    `json:"markers"`
	Loop    *LoopRegion `json:"loop,omitempty"`
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{
		Tracks:  make([]*Track, 0),
		Markers: make([]Marker, 0),
	}
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Tracks:  make([]*Track, len(d.Tracks)),
		Markers: make([]Marker, len(d.Markers)),
	}
	copy(out.Markers, d.Markers)
	for i, t := range d.Tracks {
		tc := *t
		tc.Clips = make([]*Clip, len(t.Clips))
		for j, c := range t.Clips {
			cc := *c
			tc.Clips[j] = &cc
		}
		out.Tracks[i] = &tc
	}
	if d.Loop != nil {
		loop := *d.Loop
		out.Loop = &loop
	}
	return out
}

// Track returns the track with the given ID
func (d *Document) Track(id string) (*Track, int) {
	for i, t := range d.Tracks {
		if t.ID == id {
			return t, i
		}
	}
	return nil, -1
}

// FindClip returns a clip and the track that owns it
func (d *Document) FindClip(id string) (*Clip, *Track) {
	for _, t := range d.Tracks {
		if i := t.ClipIndex(id); i >= 0 {
			return t.Clips[i], t
		}
	}
	return nil, nil
}

// End returns the latest clip end time across all tracks
func (d *Document) End() float64 {
	var end float64
	for _, t := range d.Tracks {
		for _, c := range t.Clips {
			if e := c.End(); e > end {
				end = e
			}
		}
	}
	return end
}

// ClipCount returns the total number of clips
func (d *Document) ClipCount() int {
	n := 0
	for _, t := range d.Tracks {
		n += len(t.Clips)
	}
	return n
}

// AudibleTracks returns the tracks that playback and mixdown should hear.
// When any track is soloed only soloed tracks are audible; muted tracks never are.
func (d *Document) AudibleTracks() []*Track {
	soloed := false
	for _, t := range d.Tracks {
		if t.Solo {
			soloed = true
			break
		}
	}
	out := make([]*Track, 0, len(d.Tracks))
	for _, t := range d.Tracks {
		if t.Muted || (soloed && !t.Solo) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortMarkers orders markers by time
func (d *Document) SortMarkers() {
	sort.SliceStable(d.Markers, func(i, j int) bool {
		return d.Markers[i].Time < d.Markers[j].Time
	})
}
