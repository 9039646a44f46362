package stream

import (
	"encoding/json"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Colour is a colorful.Color that encodes as a hex string.
type Colour colorful.Color

// MustHex parses a hex colour and panics on bad input. Only for literals.
func MustHex(s string) Colour {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return Colour(c)
}

// Hex returns the clamped colour as #rrggbb.
func (c Colour) Hex() string {
	return colorful.Color(c).Clamped().Hex()
}

// RGB255 returns the clamped 8-bit channels.
func (c Colour) RGB255() (r, g, b uint8) {
	return colorful.Color(c).Clamped().RGB255()
}

// Blend mixes c towards c2 in HCL space. t is clamped to [0, 1].
func (c Colour) Blend(c2 Colour, t float64) Colour {
	switch {
	case t <= 0:
		return c
	case t >= 1:
		return c2
	}
	return Colour(colorful.Color(c).BlendHcl(colorful.Color(c2), t).Clamped())
}

// MarshalText implements encoding.TextMarshaler.
func (c Colour) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Colour) UnmarshalText(text []byte) error {
	parsed, err := colorful.Hex(string(text))
	if err != nil {
		return errors.Wrapf(err, "parse colour %q", text)
	}
	*c = Colour(parsed)
	return nil
}

// Card is an animated metric card as displayed in one frame.
type Card struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Value  int64  `json:"value"`
	Text   string `json:"text"`
	Colour Colour `json:"colour"`
}

// ActiveHighlight is the visible banner of the carousel.
type ActiveHighlight struct {
	Highlight
	Index      int     `json:"index"`
	Count      int     `json:"count"`
	Transition float64 `json:"transition"`
	Accent     Colour  `json:"accent"`
}

// ServiceBar is a service workload row with its heat colour.
type ServiceBar struct {
	ServiceMetric
	Heat Colour `json:"heat"`
}

// Frame is a complete snapshot of the dashboard at one instant.
type Frame struct {
	Time          time.Time        `json:"time"`
	Total         int64            `json:"total"`
	TotalText     string           `json:"totalText"`
	Settled       bool             `json:"settled"`
	Cards         []Card           `json:"cards"`
	Highlight     *ActiveHighlight `json:"highlight,omitempty"`
	Services      []ServiceBar     `json:"services"`
	Departments   []DeptEfficiency `json:"departments"`
	Status        []StatusBox      `json:"status"`
	Notifications int              `json:"notifications"`
	LiveGain      float64          `json:"liveGain"`
	Terminal      string           `json:"terminal"`
}

// NewFrame creates a new Frame instance.
func NewFrame(now time.Time) *Frame {
	f := new(Frame)
	f.Time = now
	return f
}

// Card returns the card with the given key.
func (f *Frame) Card(key string) (Card, bool) {
	for _, c := range f.Cards {
		if c.Key == key {
			return c, true
		}
	}
	return Card{}, false
}

// MarshalBinary encodes the frame as the JSON payload published to subscribers.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	return json.Marshal(f)
}
