package cube

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ResultPublisher publishes recognition results to MQTT
type ResultPublisher struct {
	client mqtt.Client
	topic  string
	qos    byte
	retain bool
	last   *RecognizeResult
	mu     sync.RWMutex
}

// NewResultPublisher creates a publisher for recognition results
// If client is nil, publishing is disabled (for testing)
func NewResultPublisher(client mqtt.Client, topic string) *ResultPublisher {
	if env := os.Getenv("MQTT_RESULT_TOPIC"); env != "" {
		topic = env
	}
	if topic == "" {
		topic = "cubewatch/result"
	}

	return &ResultPublisher{
		client: client,
		topic:  topic,
		qos:    0,    // fire and forget, the next frame supersedes this one
		retain: true, // retain so late subscribers see the latest state
	}
}

// PublishResult publishes one recognition outcome to the result topic.
func (p *ResultPublisher) PublishResult(res *RecognizeResult) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	p.mu.Lock()
	p.last = res
	p.mu.Unlock()

	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	token := p.client.Publish(p.topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", p.topic, token.Error())
	}

	if res.Success {
		log.Printf("Published result: %d case(s), confidence %.1f", len(res.Cases), res.Confidence)
	} else {
		log.Printf("Published result: %s", res.ErrorReason)
	}
	return nil
}

// PublishAnnotated publishes the annotated debug frame to a sibling topic.
// Failures here are logged but never block result delivery.
func (p *ResultPublisher) PublishAnnotated(frame []byte) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}
	if len(frame) == 0 {
		return nil
	}

	topic := p.topic + "/annotated"
	token := p.client.Publish(topic, p.qos, p.retain, frame)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

// LastResult returns the most recently published result, or nil.
func (p *ResultPublisher) LastResult() *RecognizeResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// SetQoS sets the Quality of Service level for publishing (0, 1, or 2)
func (p *ResultPublisher) SetQoS(qos byte) {
	if qos <= 2 {
		p.qos = qos
	}
}

// SetRetain sets whether published messages should be retained by the broker
func (p *ResultPublisher) SetRetain(retain bool) {
	p.retain = retain
}
