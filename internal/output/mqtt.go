package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SergeyKa2021/rtl-433/internal/config"
	"github.com/SergeyKa2021/rtl-433/internal/device"
	"github.com/SergeyKa2021/rtl-433/internal/logging"
)

const publishTimeout = 5 * time.Second

// MQTTPublisher publishes decoded records to an MQTT broker, one topic
// per sensor: <prefix>/<model>/<channel>.
type MQTTPublisher struct {
	client mqtt.Client
	cfg    config.MQTTConfig
}

// NewMQTTPublisher connects to the broker in cfg and returns a
// publisher. The client auto-reconnects; records published while the
// connection is down are dropped, not queued.
func NewMQTTPublisher(cfg config.MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID("rtl433-" + uuid.NewString()[:8])

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(mqtt.Client) {
		logging.Info("connected to MQTT broker", zap.String("broker", cfg.Broker))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logging.Warn("MQTT connection lost", zap.Error(err))
	})
	opts.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		logging.Debug("reconnecting to MQTT broker")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, token.Error())
	}

	return &MQTTPublisher{client: client, cfg: cfg}, nil
}

// Publish sends rec as JSON to its per-sensor topic.
func (p *MQTTPublisher) Publish(rec *device.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return &PublishError{Sink: "mqtt", Err: err}
	}

	topic := p.cfg.TopicPrefix + "/" + rec.Model + "/" + strconv.Itoa(rec.Channel)
	token := p.client.Publish(topic, 0, p.cfg.Retain, data)
	if !token.WaitTimeout(publishTimeout) {
		return &PublishError{Sink: "mqtt", Err: fmt.Errorf("timed out publishing to %s", topic)}
	}
	if err := token.Error(); err != nil {
		return &PublishError{Sink: "mqtt", Err: fmt.Errorf("failed to publish to %s: %w", topic, err)}
	}
	return nil
}

// Close disconnects from the broker, allowing in-flight messages a
// short grace period.
func (p *MQTTPublisher) Close() error {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
	return nil
}
