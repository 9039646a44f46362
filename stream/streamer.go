package stream

import (
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Streamer publishes dashboard frames over MQTT and feeds targets and
// notifications received over MQTT into the Controller.
type Streamer struct {
	client     mqtt.Client
	topics     TopicsConfig
	controller *Controller
	logger     *zap.SugaredLogger
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config MqttConfig, client mqtt.Client, controller *Controller, logger *zap.SugaredLogger) *Streamer {
	s := new(Streamer)
	s.client = client
	s.topics = config.Topics
	s.controller = controller
	s.logger = logger
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	return s
}

// Render publishes a frame without waiting for delivery. Frames are dropped
// while the connection is down.
func (s *Streamer) Render(f *Frame) error {
	if s.topics.Frames == "" || !s.client.IsConnectionOpen() {
		return nil
	}

	b, err := f.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "encode frame")
	}

	// QoS 0 has no acknowledgement to wait for; Render runs on the frame loop.
	token := s.client.Publish(s.topics.Frames, 0, false, b)
	select {
	case <-token.Done():
		return errors.Wrapf(token.Error(), "publish to %s", s.topics.Frames)
	default:
		return nil
	}
}

func (s *Streamer) handleTarget(client mqtt.Client, msg mqtt.Message) {
	var target TargetMessage
	if err := json.Unmarshal(msg.Payload(), &target); err != nil {
		s.logger.Warnw("bad target message", "topic", msg.Topic(), "error", err)
		return
	}
	s.controller.ObserveTarget(target)
}

func (s *Streamer) handleNotification(client mqtt.Client, msg mqtt.Message) {
	var n Notification
	if err := json.Unmarshal(msg.Payload(), &n); err != nil {
		s.logger.Warnw("bad notification message", "topic", msg.Topic(), "error", err)
		return
	}
	s.controller.Notify(n)
}

// Subscribe listens on the target and notification topics. Call it from the
// client's on-connect handler so subscriptions survive reconnects.
func (s *Streamer) Subscribe() error {
	subs := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{s.topics.Targets, s.handleTarget},
		{s.topics.Notifications, s.handleNotification},
	}

	for _, sub := range subs {
		if sub.topic == "" {
			continue
		}
		token := s.client.Subscribe(sub.topic, 0, sub.handler)
		if token.Wait() && token.Error() != nil {
			return errors.Wrapf(token.Error(), "subscribe to %s", sub.topic)
		}
		s.logger.Infow("subscribed", "topic", sub.topic)
	}
	return nil
}
