package timeline

import "math"

// Grid quantizes edited times
type Grid struct {
	Size    float64
	Enabled bool
}

// Snap rounds t to the nearest multiple of the grid size when snapping is
// enabled. Grid sizes are powers of two, so snapping an already snapped
// value returns it unchanged.
func (g Grid) Snap(t float64) float64 {
	if !g.Enabled || g.Size <= 0 {
		return t
	}
	return math.Round(t/g.Size) * g.Size
}
