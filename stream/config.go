package stream

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// TopicsConfig names the MQTT topics the dashboard uses.
type TopicsConfig struct {
	Frames        string `yaml:"frames"`
	Targets       string `yaml:"targets"`
	Notifications string `yaml:"notifications"`
}

// MqttConfig configures the broker connection. An empty URL disables MQTT.
type MqttConfig struct {
	URL      string       `yaml:"url"`
	ClientID string       `yaml:"clientID"`
	Username string       `yaml:"username"`
	Password string       `yaml:"password"`
	Topics   TopicsConfig `yaml:"topics"`
}

// DashboardConfig configures the animated dashboard.
type DashboardConfig struct {
	InitialTotal      float64 `yaml:"initialTotal"`
	CounterDurationMs int     `yaml:"counterDurationMs"`
	CounterIntervalMs int     `yaml:"counterIntervalMs"`
	MaxIncrement      int     `yaml:"maxIncrement"`
	RotationPeriodMs  int     `yaml:"rotationPeriodMs"`
	FrameRate         float64 `yaml:"frameRate"`
	TransitionMs      int     `yaml:"transitionMs"`
	Easing            string  `yaml:"easing"`
	Locale            string  `yaml:"locale"`
	Terminal          string  `yaml:"terminal"`
	MaxNotifications  int     `yaml:"maxNotifications"`
	Seed              int64   `yaml:"seed"`
}

// ApiConfig configures the HTTP server. An empty Listen disables it.
type ApiConfig struct {
	Listen string `yaml:"listen"`
	Static string `yaml:"static"`
}

// ChimeConfig configures the alert tone.
type ChimeConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Frequency  float64 `yaml:"frequency"`
	DurationMs int     `yaml:"durationMs"`
}

// Config is the application configuration.
type Config struct {
	Mqtt      MqttConfig      `yaml:"mqtt"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Api       ApiConfig       `yaml:"api"`
	Chime     ChimeConfig     `yaml:"chime"`
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	var c Config

	c.Mqtt.ClientID = "cmdcenter"
	c.Mqtt.Topics.Frames = "cidade/cmdcenter/frame"
	c.Mqtt.Topics.Targets = "cidade/cmdcenter/target"
	c.Mqtt.Topics.Notifications = "cidade/cmdcenter/notification"

	c.Dashboard.InitialTotal = 1024560
	c.Dashboard.CounterDurationMs = 2000
	c.Dashboard.CounterIntervalMs = 1000
	c.Dashboard.MaxIncrement = 20
	c.Dashboard.RotationPeriodMs = 4000
	c.Dashboard.FrameRate = 30
	c.Dashboard.TransitionMs = 700
	c.Dashboard.Easing = "linear"
	c.Dashboard.Locale = "pt-BR"
	c.Dashboard.Terminal = "CN-JPA-01"
	c.Dashboard.MaxNotifications = 4

	c.Api.Static = "client/dist"

	c.Chime.Frequency = 880
	c.Chime.DurationMs = 50

	return c
}

// LoadConfig reads a YAML file over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return c, c.Validate()
	}
	if err != nil {
		return c, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return c, errors.Wrapf(err, "decode config %s", path)
	}

	return c, c.Validate()
}

// Validate checks the values that would stall or panic the tickers.
func (c Config) Validate() error {
	d := c.Dashboard
	if d.FrameRate <= 0 {
		return errors.Errorf("dashboard.frameRate must be positive, got %v", d.FrameRate)
	}
	if d.CounterIntervalMs <= 0 {
		return errors.Errorf("dashboard.counterIntervalMs must be positive, got %d", d.CounterIntervalMs)
	}
	if d.RotationPeriodMs <= 0 {
		return errors.Errorf("dashboard.rotationPeriodMs must be positive, got %d", d.RotationPeriodMs)
	}
	if d.MaxIncrement < 0 {
		return errors.Errorf("dashboard.maxIncrement must not be negative, got %d", d.MaxIncrement)
	}
	if d.MaxNotifications < 0 {
		return errors.Errorf("dashboard.maxNotifications must not be negative, got %d", d.MaxNotifications)
	}
	if c.Chime.Enabled && (c.Chime.Frequency <= 0 || c.Chime.DurationMs <= 0) {
		return errors.New("chime frequency and durationMs must be positive when enabled")
	}
	return nil
}

// CounterDuration is the time a counter takes to reach a new target.
func (d DashboardConfig) CounterDuration() time.Duration {
	return time.Duration(d.CounterDurationMs) * time.Millisecond
}

// CounterInterval is the time between simulated total increments.
func (d DashboardConfig) CounterInterval() time.Duration {
	return time.Duration(d.CounterIntervalMs) * time.Millisecond
}

// RotationPeriod is the time each highlight stays visible.
func (d DashboardConfig) RotationPeriod() time.Duration {
	return time.Duration(d.RotationPeriodMs) * time.Millisecond
}

// FrameInterval is the time between rendered frames.
func (d DashboardConfig) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / d.FrameRate)
}

// Transition is the duration of the highlight banner cross-fade.
func (d DashboardConfig) Transition() time.Duration {
	return time.Duration(d.TransitionMs) * time.Millisecond
}
