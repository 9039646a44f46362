package stream

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fogleman/ease"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/matt-g-everett/cmdcenter/animate"
	"github.com/matt-g-everett/cmdcenter/stream/source"
	"github.com/matt-g-everett/cmdcenter/util"
)

type card struct {
	def     CardSpec
	counter *animate.Counter
}

// Controller owns the dashboard state and renders frames from it. All state is
// touched only by the goroutine running Run; other goroutines talk to it through
// ObserveTarget and Notify.
type Controller struct {
	config DashboardConfig
	clock  clock.Clock
	logger *zap.SugaredLogger
	format *Formatter

	source *source.RandomIncrementGenerator
	total  *animate.Counter
	cards  []*card

	highlights     *animate.Rotation[Highlight]
	baseHighlights []Highlight
	notifications  []Notification
	onHighlight    func(Highlight)

	transitionStart time.Time
	transition      time.Duration
	prevAccent      Colour
	accent          Colour

	services    []ServiceMetric
	departments []DeptEfficiency
	status      []StatusBox

	pulse      []float64
	pulseIndex int

	renderers []Renderer
	targets   chan TargetMessage
	notices   chan Notification
}

// NewController creates an instance of a Controller. The total and every card
// count up from zero to their first targets.
func NewController(config DashboardConfig, clk clock.Clock, logger *zap.SugaredLogger) (*Controller, error) {
	format, err := NewFormatter(config.Locale)
	if err != nil {
		return nil, err
	}
	easing, err := animate.EasingByName(config.Easing)
	if err != nil {
		return nil, errors.Wrap(err, "dashboard easing")
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	c := new(Controller)
	c.config = config
	c.clock = clk
	c.logger = logger
	c.format = format

	var r *rand.Rand
	if config.Seed != 0 {
		r = rand.New(rand.NewSource(config.Seed))
	}
	c.source = source.NewRandomIncrementGenerator(config.InitialTotal, config.MaxIncrement, r)

	now := clk.Now()
	newCounter := func() *animate.Counter {
		return animate.NewCounter(0, config.CounterDuration(), animate.WithClock(clk), animate.WithEasing(easing))
	}
	c.total = newCounter()
	c.total.ObserveAt(config.InitialTotal, now)
	for _, def := range DefaultCards() {
		cd := &card{def: def, counter: newCounter()}
		cd.counter.ObserveAt(c.cardTarget(def), now)
		c.cards = append(c.cards, cd)
	}

	c.baseHighlights = DefaultHighlights()
	c.highlights = animate.NewRotation(c.baseHighlights, config.RotationPeriod())
	c.transition = config.Transition()
	c.accent = c.baseHighlights[0].Kind.Accent()
	c.prevAccent = c.accent
	c.transitionStart = now

	c.services = DefaultServices()
	c.departments = DefaultDepartments()
	c.status = DefaultStatus()

	// One pulse of the live indicator every two seconds.
	c.pulse = util.GenerateLut(int(math.Max(2, math.Round(config.FrameRate*2))))

	c.targets = make(chan TargetMessage, 16)
	c.notices = make(chan Notification, 16)

	return c, nil
}

// Locale returns the language tag used to format counters.
func (c *Controller) Locale() language.Tag {
	return c.format.Locale()
}

// AddRenderer registers a Renderer for every frame.
func (c *Controller) AddRenderer(r Renderer) {
	c.renderers = append(c.renderers, r)
}

// OnHighlight sets a hook called whenever the carousel advances.
func (c *Controller) OnHighlight(fn func(Highlight)) {
	c.onHighlight = fn
}

// ObserveTarget queues a counter target. Safe from any goroutine; drops the
// message when the queue is full.
func (c *Controller) ObserveTarget(msg TargetMessage) {
	select {
	case c.targets <- msg:
	default:
		c.logger.Warnw("target queue full, dropping", "counter", msg.Counter, "value", msg.Value)
	}
}

// Notify queues a notification. Safe from any goroutine; drops the notification
// when the queue is full.
func (c *Controller) Notify(n Notification) {
	select {
	case c.notices <- n:
	default:
		c.logger.Warnw("notification queue full, dropping", "id", n.ID)
	}
}

// Run drives the dashboard until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	frameTimer := c.clock.Ticker(c.config.FrameInterval())
	defer frameTimer.Stop()
	counterTimer := c.clock.Ticker(c.config.CounterInterval())
	defer counterTimer.Stop()
	rotationTimer := c.clock.Ticker(c.highlights.Period())
	defer rotationTimer.Stop()

	c.logger.Infow("dashboard running",
		"frameInterval", c.config.FrameInterval(),
		"counterInterval", c.config.CounterInterval(),
		"rotationPeriod", c.highlights.Period())

	for {
		select {
		case <-ctx.Done():
			c.logger.Infow("dashboard stopped")
			return nil
		case now := <-frameTimer.C:
			c.renderFrame(now)
		case now := <-counterTimer.C:
			c.advanceTotal(now)
		case now := <-rotationTimer.C:
			c.advanceHighlight(now)
		case msg := <-c.targets:
			c.applyTarget(msg, c.clock.Now())
		case n := <-c.notices:
			c.applyNotification(n, c.clock.Now())
		}
	}
}

func (c *Controller) renderFrame(now time.Time) {
	f := c.CalculateFrame(now)
	for _, r := range c.renderers {
		if err := r.Render(f); err != nil {
			c.logger.Warnw("render failed", "error", err)
		}
	}
}

func (c *Controller) cardTarget(def CardSpec) float64 {
	if def.Share > 0 {
		return math.Floor(c.source.Current() * def.Share)
	}
	return def.Value
}

func (c *Controller) observeTotal(target float64, now time.Time) {
	c.total.ObserveAt(target, now)
	for _, cd := range c.cards {
		if cd.def.Share > 0 {
			cd.counter.ObserveAt(c.cardTarget(cd.def), now)
		}
	}
}

func (c *Controller) advanceTotal(now time.Time) {
	c.observeTotal(c.source.Next(), now)
}

func (c *Controller) applyTarget(msg TargetMessage, now time.Time) {
	switch msg.Counter {
	case "", CardTotal:
		c.source.Reset(msg.Value)
		c.observeTotal(msg.Value, now)
		c.logger.Debugw("total target", "value", msg.Value)
		return
	}

	for _, cd := range c.cards {
		if cd.def.Key == msg.Counter && cd.def.Share == 0 {
			cd.counter.ObserveAt(msg.Value, now)
			c.logger.Debugw("card target", "counter", msg.Counter, "value", msg.Value)
			return
		}
	}

	c.logger.Warnw("unknown counter in target", "counter", msg.Counter)
}

func (c *Controller) advanceHighlight(now time.Time) {
	if err := c.highlights.Tick(); err != nil {
		c.logger.Debugw("no highlight to rotate", "error", err)
		return
	}
	c.showHighlight(now)
}

func (c *Controller) showHighlight(now time.Time) {
	h, err := c.highlights.Item()
	if err != nil {
		return
	}

	c.prevAccent = c.currentAccent(now)
	c.accent = h.Kind.Accent()
	c.transitionStart = now

	if c.onHighlight != nil {
		c.onHighlight(h)
	}
}

func (c *Controller) transitionProgress(now time.Time) float64 {
	if c.transition <= 0 {
		return 1
	}
	p := float64(now.Sub(c.transitionStart)) / float64(c.transition)
	return ease.OutQuad(util.Clamp(p, 0, 1))
}

func (c *Controller) currentAccent(now time.Time) Colour {
	return c.prevAccent.Blend(c.accent, c.transitionProgress(now))
}

func (c *Controller) applyNotification(n Notification, now time.Time) {
	if n.ID == "" {
		c.logger.Warnw("notification without id", "title", n.Title)
		return
	}

	i := c.findNotification(n.ID)
	switch n.Status {
	case StatusDone:
		if i < 0 {
			return
		}
		c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
	case StatusNew, StatusProcessing:
		if i >= 0 {
			c.notifications[i] = n
			break
		}
		c.notifications = append(c.notifications, n)
		if over := len(c.notifications) - c.config.MaxNotifications; over > 0 {
			c.notifications = append([]Notification(nil), c.notifications[over:]...)
		}
	default:
		c.logger.Warnw("unknown notification status", "id", n.ID, "status", n.Status)
		return
	}

	prevIndex, _ := c.highlights.Current()
	prev, _ := c.highlights.Item()

	items := append([]Highlight(nil), c.baseHighlights...)
	for _, pending := range c.notifications {
		items = append(items, pending.highlight())
	}
	c.highlights.SetItems(items)
	c.logger.Debugw("notification applied", "id", n.ID, "status", n.Status, "highlights", len(items))

	// A removal can leave a different banner under the index.
	index, _ := c.highlights.Current()
	if h, err := c.highlights.Item(); err == nil && (index != prevIndex || h.ID != prev.ID) {
		c.showHighlight(now)
	}
}

func (c *Controller) findNotification(id string) int {
	for i, n := range c.notifications {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// CalculateFrame samples every animation at now and builds a new Frame.
func (c *Controller) CalculateFrame(now time.Time) *Frame {
	f := NewFrame(now)

	total := c.total.Sample(now)
	f.Total = int64(total)
	f.TotalText = c.format.Int(total)
	f.Settled = c.total.Done(now)

	for _, cd := range c.cards {
		v := cd.counter.Sample(now)
		f.Settled = f.Settled && cd.counter.Done(now)
		f.Cards = append(f.Cards, Card{
			Key:    cd.def.Key,
			Label:  cd.def.Label,
			Value:  int64(v),
			Text:   c.format.Int(v),
			Colour: cd.def.Colour,
		})
	}

	if idx, err := c.highlights.Current(); err == nil {
		h, _ := c.highlights.Item()
		f.Highlight = &ActiveHighlight{
			Highlight:  h,
			Index:      idx,
			Count:      c.highlights.Len(),
			Transition: c.transitionProgress(now),
			Accent:     c.currentAccent(now),
		}
	}

	for _, s := range c.services {
		f.Services = append(f.Services, ServiceBar{ServiceMetric: s, Heat: LoadGradient.Heat(s.TotalPercentage)})
	}
	f.Departments = append(f.Departments, c.departments...)
	f.Status = append(f.Status, c.status...)
	f.Notifications = len(c.notifications)
	f.Terminal = c.config.Terminal

	f.LiveGain = c.pulse[c.pulseIndex]
	c.pulseIndex = (c.pulseIndex + 1) % len(c.pulse)

	return f
}
