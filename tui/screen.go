package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/matt-g-everett/cmdcenter/stream"
)

// Below this width the three panels stack instead of sitting side by side.
const wideLayout = 90

// Screen renders dashboard frames to a terminal.
type Screen struct {
	screen     tcell.Screen
	fullscreen atomic.Bool
}

// NewScreen wraps an initialised tcell.Screen.
func NewScreen(s tcell.Screen) *Screen {
	t := new(Screen)
	t.screen = s
	return t
}

// Open creates and initialises the terminal screen.
func Open() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "create terminal screen")
	}
	if err := s.Init(); err != nil {
		return nil, errors.Wrap(err, "init terminal screen")
	}
	return NewScreen(s), nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

// Fullscreen reports whether the header and footer are hidden.
func (s *Screen) Fullscreen() bool {
	return s.fullscreen.Load()
}

// ToggleFullscreen hides or shows the header and footer.
func (s *Screen) ToggleFullscreen() {
	s.fullscreen.Store(!s.fullscreen.Load())
}

// HandleEvent processes one terminal event and reports whether to keep running.
func (s *Screen) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'f':
			s.ToggleFullscreen()
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

// Run handles terminal input until ctx is done or the user quits, in which case
// quit is called.
func (s *Screen) Run(ctx context.Context, quit func()) {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !s.HandleEvent(ev) {
				quit()
				return
			}
		}
	}
}

// Render draws a frame.
func (s *Screen) Render(f *stream.Frame) error {
	w, h := s.screen.Size()
	c := canvas{screen: s.screen, w: w, h: h}
	c.fill(style(white, background))

	top, bottom := 0, h
	if !s.Fullscreen() {
		drawHeader(c, f)
		drawFooter(c.sub(0, h-1, w, 1), f)
		top, bottom = 2, h-2
	}

	y := top
	y = drawHero(c.sub(1, y, w-2, bottom-y), f) + y
	y = drawStatus(c.sub(1, y, w-2, bottom-y), f) + y
	drawPanels(c.sub(1, y, w-2, bottom-y), f)

	s.screen.Show()
	return nil
}

func drawHeader(c canvas, f *stream.Frame) {
	x := 1
	x += c.text(x, 0, "Cidade", c.w, style(white, background).Bold(true))
	x += c.text(x, 0, "Conectada", c.w, style(blue, background))
	c.text(x+2, 0, "COMMAND CENTER v4.0", c.w-x-2, style(grey, background))

	live := emerald.Blend(background, 0.6*(1-f.LiveGain))
	label := "● LIVE MONITORING"
	if f.Notifications > 0 {
		label = fmt.Sprintf("● LIVE MONITORING · %d ALERTA(S)", f.Notifications)
	}
	c.textRight(c.w-1, 0, label, style(live, background).Bold(true))
}

func drawFooter(c canvas, f *stream.Frame) {
	st := style(darkGrey, background)
	x := 1
	x += c.text(x, 0, "TERMINAL: "+f.Terminal, c.w, st)
	c.text(x+3, 0, "SECURED_ENCRYPTION_ACTIVE", c.w-x-3, style(blueDeep, background))
	c.textRight(c.w-1, 0, "● ESTÁVEL   © 2025 CIDADE CONECTADA PLATFORM", st)
}

// drawHero draws the live counter and the highlight banner and returns the rows
// used.
func drawHero(c canvas, f *stream.Frame) int {
	c.text(0, 0, "↯ FLUXO DE DADOS EM TEMPO REAL", c.w, style(blue, background).Bold(true))
	c.text(0, 1, f.TotalText, c.w, style(white, background).Bold(true))

	h := f.Highlight
	if h == nil {
		return 4
	}

	// The incoming banner fades in from the background over the transition.
	accent := background.Blend(h.Accent, h.Transition)
	banner := c.sub(0, 3, c.w, 1)
	banner.fill(style(white, panel))
	x := 1
	x += banner.text(x, 0, h.Icon+" ", banner.w, style(accent, panel))
	x += banner.text(x, 0, h.Label+"  ", banner.w-x, style(grey, panel).Bold(true))
	banner.text(x, 0, h.Value, banner.w-x-14, style(white.Blend(panel, 1-h.Transition), panel).Bold(true))

	dots := make([]string, h.Count)
	for i := range dots {
		dots[i] = "○"
		if i == h.Index {
			dots[i] = "●"
		}
	}
	banner.textRight(banner.w-1, 0, strings.Join(dots, "")+" DATA_FEED", style(accent, panel))
	return 5
}

func drawStatus(c canvas, f *stream.Frame) int {
	if len(f.Status) == 0 {
		return 0
	}

	w := c.w / len(f.Status)
	for i, s := range f.Status {
		box := c.sub(i*w, 0, w-1, 2)
		box.fill(style(white, panel))
		box.text(1, 0, s.Label, box.w-2, style(grey, panel))
		box.text(1, 1, s.Value, box.w-2, style(s.Colour, panel).Bold(true))
	}
	return 3
}

func drawPanels(c canvas, f *stream.Frame) {
	panels := []func(canvas, *stream.Frame) int{drawCards, drawServices, drawDepartments}

	if c.w < wideLayout {
		y := 0
		for _, p := range panels {
			y += p(c.sub(0, y, c.w, c.h-y), f) + 1
		}
		return
	}

	w := c.w / len(panels)
	for i, p := range panels {
		p(c.sub(i*w, 0, w-2, c.h), f)
	}
}

func drawCards(c canvas, f *stream.Frame) int {
	y := 0
	for _, card := range f.Cards {
		c.text(0, y, card.Label, c.w, style(blue, background).Bold(true))
		c.text(0, y+1, card.Text, c.w, style(white, background).Bold(true))
		c.text(c.w-1, y, "■", 1, style(card.Colour, background))
		y += 3
	}
	return y
}

func drawServices(c canvas, f *stream.Frame) int {
	c.text(0, 0, "Carga Operacional", c.w, style(white, background).Bold(true))
	y := 2
	for _, s := range f.Services {
		pct := fmt.Sprintf("%.0f%%", s.TotalPercentage)
		c.text(0, y, s.Label, c.w-len(pct)-1, style(white, background))
		c.textRight(c.w, y, pct, style(s.Heat, background).Bold(true))
		c.bar(0, y+1, c.w, background,
			segment{s.Operational, blueDeep},
			segment{s.Fiscalization, indigo})
		y += 3
	}
	return y
}

func drawDepartments(c canvas, f *stream.Frame) int {
	c.text(0, 0, "★ Eficiência Depto", c.w, style(yellow, background).Bold(true))
	y := 2
	for _, d := range f.Departments {
		pct := fmt.Sprintf("%.0f%%", d.Efficiency)
		x := c.text(0, y, d.Code+" ", c.w, style(blue, background).Bold(true))
		x += c.text(x, y, d.Name+" ", c.w-x-len(pct)-1, style(white, background).Bold(true))
		c.text(x, y, d.Solicitations, c.w-x-len(pct)-1, style(grey, background))
		c.textRight(c.w, y, pct, style(emerald, background).Bold(true))
		c.bar(0, y+1, c.w, background, segment{d.Efficiency, d.Colour})
		y += 3
	}
	return y
}
