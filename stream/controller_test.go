package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testConfig() DashboardConfig {
	c := DefaultConfig().Dashboard
	c.Seed = 7
	return c
}

func newTestController(t *testing.T, config DashboardConfig) (*Controller, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(epoch)

	c, err := NewController(config, mock, nil)
	require.NoError(t, err)
	return c, mock
}

func TestControllerCountsUpOnStart(t *testing.T) {
	c, _ := newTestController(t, testConfig())

	f := c.CalculateFrame(epoch)
	assert.Equal(t, int64(0), f.Total)
	assert.False(t, f.Settled)

	f = c.CalculateFrame(epoch.Add(time.Second))
	assert.Equal(t, int64(512280), f.Total)

	f = c.CalculateFrame(epoch.Add(2 * time.Second))
	assert.Equal(t, int64(1024560), f.Total)
	assert.Equal(t, "1.024.560", f.TotalText)
	assert.True(t, f.Settled)
	assert.Equal(t, "CN-JPA-01", f.Terminal)

	want := map[string]int64{CardPending: 51228, CardResolved: 2450, CardProcessing: 1820}
	for key, v := range want {
		card, ok := f.Card(key)
		require.True(t, ok, key)
		assert.Equal(t, v, card.Value, key)
	}
	card, _ := f.Card(CardResolved)
	assert.Equal(t, "2.450", card.Text)
}

func TestControllerAdvanceTotal(t *testing.T) {
	c, _ := newTestController(t, testConfig())
	settled := epoch.Add(2 * time.Second)

	prev := c.total.Target()
	for i := 0; i < 50; i++ {
		c.advanceTotal(settled)
		target := c.total.Target()
		require.GreaterOrEqual(t, target, prev)
		require.Less(t, target, prev+20)
		prev = target
	}
	assert.Equal(t, c.source.Current(), prev)
}

func TestControllerTotalRedirects(t *testing.T) {
	c, _ := newTestController(t, testConfig())
	settled := epoch.Add(2 * time.Second)
	require.Equal(t, int64(1024560), c.CalculateFrame(settled).Total)

	c.observeTotal(1024600, settled)

	// A newer target arrives half-way through the first animation.
	half := settled.Add(time.Second)
	mid := c.CalculateFrame(half).Total
	require.Equal(t, int64(1024580), mid)
	c.observeTotal(1024700, half)
	assert.Equal(t, float64(mid), c.total.Start())

	prev := mid
	for ms := 0; ms <= 2000; ms += 100 {
		v := c.CalculateFrame(half.Add(time.Duration(ms) * time.Millisecond)).Total
		require.GreaterOrEqual(t, v, prev)
		prev = v
	}
	assert.Equal(t, int64(1024700), prev)
}

func TestControllerApplyTarget(t *testing.T) {
	c, _ := newTestController(t, testConfig())

	c.applyTarget(TargetMessage{Value: 2000000}, epoch)
	f := c.CalculateFrame(epoch.Add(2 * time.Second))
	assert.Equal(t, int64(2000000), f.Total)
	pending, _ := f.Card(CardPending)
	assert.Equal(t, int64(100000), pending.Value)
	assert.Equal(t, 2000000.0, c.source.Current())

	c.applyTarget(TargetMessage{Counter: CardResolved, Value: 3000}, epoch.Add(2*time.Second))
	f = c.CalculateFrame(epoch.Add(4 * time.Second))
	resolved, _ := f.Card(CardResolved)
	assert.Equal(t, int64(3000), resolved.Value)

	// Derived and unknown counters cannot be set directly.
	c.applyTarget(TargetMessage{Counter: CardPending, Value: 1}, epoch.Add(4*time.Second))
	c.applyTarget(TargetMessage{Counter: "bogus", Value: 1}, epoch.Add(4*time.Second))
	f = c.CalculateFrame(epoch.Add(6 * time.Second))
	pending, _ = f.Card(CardPending)
	assert.Equal(t, int64(100000), pending.Value)
}

func TestControllerRotatesHighlights(t *testing.T) {
	c, _ := newTestController(t, testConfig())

	var seen []HighlightKind
	c.OnHighlight(func(h Highlight) { seen = append(seen, h.Kind) })

	var indices []int
	now := epoch
	for i := 0; i < 5; i++ {
		f := c.CalculateFrame(now)
		require.NotNil(t, f.Highlight)
		indices = append(indices, f.Highlight.Index)
		assert.Equal(t, 4, f.Highlight.Count)

		now = now.Add(4 * time.Second)
		c.advanceHighlight(now)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 0}, indices)
	assert.Equal(t, []HighlightKind{KindRating, KindTrend, KindAlert, KindDemand, KindRating}, seen)
}

func TestControllerHighlightTransition(t *testing.T) {
	c, _ := newTestController(t, testConfig())
	start := epoch.Add(4 * time.Second)
	c.advanceHighlight(start)

	f := c.CalculateFrame(start)
	assert.Equal(t, 0.0, f.Highlight.Transition)
	assert.Equal(t, KindDemand.Accent().Hex(), f.Highlight.Accent.Hex())

	f = c.CalculateFrame(start.Add(350 * time.Millisecond))
	assert.Greater(t, f.Highlight.Transition, 0.5)
	assert.Less(t, f.Highlight.Transition, 1.0)

	f = c.CalculateFrame(start.Add(700 * time.Millisecond))
	assert.Equal(t, 1.0, f.Highlight.Transition)
	assert.Equal(t, KindRating.Accent().Hex(), f.Highlight.Accent.Hex())
}

func TestControllerNotifications(t *testing.T) {
	c, _ := newTestController(t, testConfig())

	c.applyNotification(Notification{ID: "n1", Title: "Buraco na via", Department: "SEINFRA", Status: StatusNew}, epoch)
	assert.Equal(t, 5, c.highlights.Len())

	// Rotate onto the notification banner.
	for i := 0; i < 4; i++ {
		c.advanceHighlight(epoch)
	}
	f := c.CalculateFrame(epoch)
	require.Equal(t, 4, f.Highlight.Index)
	assert.Equal(t, "n1", f.Highlight.ID)
	assert.Equal(t, KindAlert, f.Highlight.Kind)
	assert.Equal(t, "ALERTA EM TEMPO REAL", f.Highlight.Label)
	assert.Equal(t, "Buraco na via · SEINFRA", f.Highlight.Value)
	assert.Equal(t, 1, f.Notifications)

	var seen []HighlightKind
	c.OnHighlight(func(h Highlight) { seen = append(seen, h.Kind) })

	// Updating the visible banner keeps it in place without announcing it again.
	c.applyNotification(Notification{ID: "n1", Title: "Buraco na via", Status: StatusProcessing}, epoch)
	f = c.CalculateFrame(epoch)
	assert.Equal(t, "EM ATENDIMENTO", f.Highlight.Label)
	assert.Equal(t, 5, f.Highlight.Count)
	assert.Empty(t, seen)

	// Removing the visible banner clamps the index onto the last remaining one,
	// which is announced and faded in.
	removed := epoch.Add(time.Second)
	c.applyNotification(Notification{ID: "n1", Status: StatusDone}, removed)
	f = c.CalculateFrame(removed)
	assert.Equal(t, 4, f.Highlight.Count)
	assert.Equal(t, 3, f.Highlight.Index)
	assert.Equal(t, 0, f.Notifications)
	assert.Equal(t, []HighlightKind{KindDemand}, seen)
	assert.Equal(t, 0.0, f.Highlight.Transition)
	assert.Equal(t, KindAlert.Accent().Hex(), f.Highlight.Accent.Hex())

	f = c.CalculateFrame(removed.Add(700 * time.Millisecond))
	assert.Equal(t, KindDemand.Accent().Hex(), f.Highlight.Accent.Hex())

	// Unknown ids and statuses are ignored.
	c.applyNotification(Notification{ID: "n2", Status: StatusDone}, removed)
	c.applyNotification(Notification{ID: "n3", Status: "archived"}, removed)
	c.applyNotification(Notification{Title: "no id", Status: StatusNew}, removed)
	assert.Equal(t, 4, c.highlights.Len())
	assert.Equal(t, []HighlightKind{KindDemand}, seen)
}

func TestControllerNotificationRemovalShiftsBanner(t *testing.T) {
	c, _ := newTestController(t, testConfig())
	c.applyNotification(Notification{ID: "a", Title: "a", Status: StatusNew}, epoch)
	c.applyNotification(Notification{ID: "b", Title: "b", Status: StatusNew}, epoch)
	for i := 0; i < 4; i++ {
		c.advanceHighlight(epoch)
	}

	var seen []string
	c.OnHighlight(func(h Highlight) { seen = append(seen, h.ID) })

	// The index stays at 4 but now points at the next notification.
	c.applyNotification(Notification{ID: "a", Status: StatusDone}, epoch)
	f := c.CalculateFrame(epoch)
	assert.Equal(t, 4, f.Highlight.Index)
	assert.Equal(t, "b", f.Highlight.ID)
	assert.Equal(t, []string{"b"}, seen)
}

func TestControllerNotificationCap(t *testing.T) {
	config := testConfig()
	config.MaxNotifications = 2
	c, _ := newTestController(t, config)

	for _, id := range []string{"a", "b", "c"} {
		c.applyNotification(Notification{ID: id, Title: id, Status: StatusNew}, epoch)
	}

	require.Equal(t, 6, c.highlights.Len())
	items := c.highlights.Items()
	assert.Equal(t, "b", items[4].ID)
	assert.Equal(t, "c", items[5].ID)
}

func TestControllerLivePulse(t *testing.T) {
	config := testConfig()
	config.FrameRate = 5
	c, _ := newTestController(t, config)

	var gains []float64
	for i := 0; i < 20; i++ {
		gains = append(gains, c.CalculateFrame(epoch).LiveGain)
	}
	assert.Equal(t, gains[:10], gains[10:])
	assert.Equal(t, 0.0, gains[0])
}

func TestControllerLocale(t *testing.T) {
	c, _ := newTestController(t, testConfig())
	assert.Equal(t, "pt-BR", c.Locale().String())
}

func TestControllerBadConfig(t *testing.T) {
	config := testConfig()
	config.Locale = "??"
	_, err := NewController(config, nil, nil)
	assert.Error(t, err)

	config = testConfig()
	config.Easing = "elastic"
	_, err = NewController(config, nil, nil)
	assert.Error(t, err)
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []*Frame
}

func (r *frameRecorder) record(f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

func (r *frameRecorder) last() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

func TestControllerRun(t *testing.T) {
	c, mock := newTestController(t, testConfig())
	rec := &frameRecorder{}
	latest := &Latest{}
	c.AddRenderer(RendererFunc(rec.record))
	c.AddRenderer(latest)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	c.ObserveTarget(TargetMessage{Counter: CardResolved, Value: 5000})
	c.Notify(Notification{ID: "x", Title: "Teste", Status: StatusNew})

	require.Eventually(t, func() bool {
		mock.Add(100 * time.Millisecond)
		f := rec.last()
		if f == nil {
			return false
		}
		resolved, _ := f.Card(CardResolved)
		return resolved.Value == 5000 && f.Notifications == 1
	}, 5*time.Second, time.Millisecond)

	assert.NotNil(t, latest.Frame())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestLatestBeforeFirstFrame(t *testing.T) {
	var l Latest
	assert.Nil(t, l.Frame())
	require.NoError(t, l.Render(NewFrame(epoch)))
	assert.Equal(t, epoch, l.Frame().Time)
}
