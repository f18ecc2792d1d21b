// harness/mqtt.go
package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// DefaultMQTTTopic is where suite reports land unless the config says
// otherwise; EGSE dashboards subscribe here.
const DefaultMQTTTopic = "paylink/selftest"

const mqttConnectTimeout = 10 * time.Second

// PublishMQTT pushes one suite result to a broker as a retained JSON
// message (QoS 1), so a dashboard that connects later still sees the most
// recent run. The connection is one-shot: connect, publish, disconnect.
func PublishMQTT(ctx context.Context, broker, topic string, s SuiteResult) error {
	if topic == "" {
		topic = DefaultMQTTTopic
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode suite result: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(mqttClientID(s)).
		SetConnectTimeout(mqttConnectTimeout).
		SetAutoReconnect(false).
		SetCleanSession(true)
	client := paho.NewClient(opts)

	if err := waitToken(ctx, client.Connect()); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	defer client.Disconnect(250)

	if err := waitToken(ctx, client.Publish(topic, 1, true, payload)); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	glog.V(1).Infof("harness: published %s (%d bytes) to %s", s.Suite, len(payload), topic)
	return nil
}

// mqttClientID derives a broker-friendly client id from the rig and run
// identifiers, so concurrent benches do not evict each other's sessions.
func mqttClientID(s SuiteResult) string {
	if s.Rig == "" {
		return "paylink-" + short(s.RunID)
	}
	return fmt.Sprintf("paylink-%s-%s", short(s.Rig), short(s.RunID))
}

func waitToken(ctx context.Context, t paho.Token) error {
	select {
	case <-t.Done():
		return t.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
