package chime

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

// SampleRate is the speaker rate used for alert tones.
const SampleRate = beep.SampleRate(44100)

// Chime plays a short sine tone, used to announce alert highlights.
type Chime struct {
	frequency float64
	duration  time.Duration
	play      func(beep.Streamer)
	closer    func()
}

// New creates a Chime and opens the speaker.
func New(frequency float64, duration time.Duration) (*Chime, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, errors.Wrap(err, "init speaker")
	}

	c := newChime(frequency, duration, func(s beep.Streamer) { speaker.Play(s) })
	c.closer = speaker.Close
	return c, nil
}

func newChime(frequency float64, duration time.Duration, play func(beep.Streamer)) *Chime {
	c := new(Chime)
	c.frequency = frequency
	c.duration = duration
	c.play = play
	return c
}

// Tone returns a stream of the configured tone.
func (c *Chime) Tone() (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, c.frequency)
	if err != nil {
		return nil, errors.Wrapf(err, "sine tone at %vHz", c.frequency)
	}
	return beep.Take(SampleRate.N(c.duration), sine), nil
}

// Play starts the tone without waiting for it to finish.
func (c *Chime) Play() error {
	tone, err := c.Tone()
	if err != nil {
		return err
	}
	c.play(tone)
	return nil
}

// Close releases the speaker.
func (c *Chime) Close() {
	if c.closer != nil {
		c.closer()
	}
}
