package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/matt-g-everett/cmdcenter/stream"
)

const (
	barFull  = '█'
	barEmpty = '░'
)

var (
	background = stream.MustHex("#0a0f1e")
	panel      = stream.MustHex("#141a2b")
	white      = stream.MustHex("#ffffff")
	grey       = stream.MustHex("#6b7280")
	darkGrey   = stream.MustHex("#374151")
	blue       = stream.MustHex("#60a5fa")
	blueDeep   = stream.MustHex("#2563eb")
	indigo     = stream.MustHex("#6366f1")
	emerald    = stream.MustHex("#10b981")
	yellow     = stream.MustHex("#eab308")
)

func colour(c stream.Colour) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func style(fg, bg stream.Colour) tcell.Style {
	return tcell.StyleDefault.Foreground(colour(fg)).Background(colour(bg))
}

// canvas clips drawing to a rectangle of the screen.
type canvas struct {
	screen tcell.Screen
	x, y   int
	w, h   int
}

func (c canvas) set(x, y int, r rune, st tcell.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.screen.SetContent(c.x+x, c.y+y, r, nil, st)
}

func (c canvas) fill(st tcell.Style) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			c.set(x, y, ' ', st)
		}
	}
}

// text draws s at (x, y), truncated to limit cells, and returns the cells used.
func (c canvas) text(x, y int, s string, limit int, st tcell.Style) int {
	if limit <= 0 {
		return 0
	}
	if runewidth.StringWidth(s) > limit {
		s = runewidth.Truncate(s, limit, "…")
	}

	used := 0
	for _, r := range s {
		c.set(x+used, y, r, st)
		used += runewidth.RuneWidth(r)
	}
	return used
}

// textRight draws s so that it ends at column right.
func (c canvas) textRight(right, y int, s string, st tcell.Style) {
	c.text(right-runewidth.StringWidth(s), y, s, runewidth.StringWidth(s), st)
}

type segment struct {
	percent float64
	colour  stream.Colour
}

// bar draws a horizontal bar of segments sized in percent of w.
func (c canvas) bar(x, y, w int, bg stream.Colour, segments ...segment) {
	pos := 0
	for _, s := range segments {
		n := int(float64(w) * s.percent / 100)
		for i := 0; i < n && pos < w; i++ {
			c.set(x+pos, y, barFull, style(s.colour, bg))
			pos++
		}
	}
	for ; pos < w; pos++ {
		c.set(x+pos, y, barEmpty, style(darkGrey, bg))
	}
}

func (c canvas) sub(x, y, w, h int) canvas {
	return canvas{screen: c.screen, x: c.x + x, y: c.y + y, w: w, h: h}
}
