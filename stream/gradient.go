package stream

import (
	"github.com/lucasb-eyer/go-colorful"
)

// GradientTable stores a look-up table of colours interpolated by hue.
type GradientTable []struct {
	Hue float64
	Pos float64
}

// LoadGradient runs from green at idle to red at full capacity.
var LoadGradient = GradientTable{
	{130.0, 0.0}, // Green
	{100.0, 0.4}, // Lime
	{85.0, 0.6},  // Yellow
	{50.0, 0.8},  // Orange
	{12.0, 1.0},  // Red
}

// GetColor gets a colour at the specified point on the look-up table.
func (g GradientTable) GetColor(t, c, l float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Hcl(0, 0, l)
	}
	if t <= g[0].Pos {
		return colorful.Hcl(g[0].Hue, c, l).Clamped()
	}

	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			// We are in between c1 and c2. Go blend them!
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return colorful.Hcl(h, c, l).Clamped()
		}
	}

	// Nothing found? Means we're at (or past) the last gradient keypoint.
	return colorful.Hcl(g[len(g)-1].Hue, c, l).Clamped()
}

// Heat maps a percentage onto the load gradient.
func (g GradientTable) Heat(percent float64) Colour {
	return Colour(g.GetColor(percent/100, 0.7, 0.65))
}
