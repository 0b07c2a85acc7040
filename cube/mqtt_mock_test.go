package cube

import (
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func TestMockToken(t *testing.T) {
	t.Run("Wait", func(t *testing.T) {
		token := NewMockToken(nil)
		if !token.Wait() {
			t.Error("Wait() = false, want true")
		}
	})

	t.Run("WaitTimeout", func(t *testing.T) {
		token := NewMockToken(nil)
		if !token.WaitTimeout(time.Millisecond) {
			t.Error("WaitTimeout() = false, want true")
		}
	})

	t.Run("Done", func(t *testing.T) {
		token := NewMockToken(nil)
		select {
		case <-token.Done():
		case <-time.After(time.Second):
			t.Error("Done() channel never closed")
		}
	})

	t.Run("Error", func(t *testing.T) {
		want := errors.New("boom")
		token := NewMockToken(want)
		if got := token.Error(); got != want {
			t.Errorf("Error() = %v, want %v", got, want)
		}
	})
}

func TestMockClientConnect(t *testing.T) {
	client := NewMockClient()
	if client.IsConnected() {
		t.Error("fresh mock reports connected")
	}

	token := client.Connect()
	if !token.WaitTimeout(time.Second) || token.Error() != nil {
		t.Fatalf("Connect failed: %v", token.Error())
	}
	if !client.IsConnected() || !client.IsConnectionOpen() {
		t.Error("mock not connected after Connect")
	}

	client.Disconnect(0)
	if client.IsConnected() {
		t.Error("mock still connected after Disconnect")
	}
}

func TestMockClientPublish(t *testing.T) {
	client := NewMockClient()
	client.SetConnected(true)

	token := client.Publish("a/b", 1, true, []byte("payload"))
	if token.Error() != nil {
		t.Fatalf("Publish: %v", token.Error())
	}

	msgs := client.GetPublishedMessages()
	if len(msgs) != 1 {
		t.Fatalf("captured %d messages, want 1", len(msgs))
	}
	m := msgs[0]
	if m.Topic != "a/b" || m.QoS != 1 || !m.Retain || string(m.Payload) != "payload" {
		t.Errorf("captured message = %+v", m)
	}

	// String payloads are captured too.
	client.Publish("a/b", 0, false, "text")
	msgs = client.GetPublishedMessages()
	if len(msgs) != 2 || string(msgs[1].Payload) != "text" {
		t.Errorf("string payload not captured: %+v", msgs)
	}
}

func TestMockClientPublishWhileDisconnected(t *testing.T) {
	client := NewMockClient()
	if token := client.Publish("a/b", 0, false, []byte("x")); token.Error() == nil {
		t.Error("publish on disconnected mock returned no error")
	}
	if len(client.GetPublishedMessages()) != 0 {
		t.Error("disconnected publish was captured")
	}
}

func TestMockClientSubscribeAndSimulate(t *testing.T) {
	client := NewMockClient()
	client.SetConnected(true)

	var gotTopic string
	var gotPayload []byte
	token := client.Subscribe("camera/frames", 0, func(c mqtt.Client, m mqtt.Message) {
		gotTopic = m.Topic()
		gotPayload = m.Payload()
	})
	if token.Error() != nil {
		t.Fatalf("Subscribe: %v", token.Error())
	}

	client.SimulateMessage("camera/frames", []byte("frame-bytes"))
	if gotTopic != "camera/frames" || string(gotPayload) != "frame-bytes" {
		t.Errorf("handler saw %q / %q", gotTopic, gotPayload)
	}

	// Messages on other topics are not delivered.
	gotPayload = nil
	client.SimulateMessage("other/topic", []byte("x"))
	if gotPayload != nil {
		t.Error("handler received a message for an unsubscribed topic")
	}

	// Unsubscribe removes the route.
	client.Unsubscribe("camera/frames")
	client.SimulateMessage("camera/frames", []byte("y"))
	if gotPayload != nil {
		t.Error("handler received a message after unsubscribe")
	}
}

func TestMockClientSubscribeError(t *testing.T) {
	client := NewMockClient()
	client.SetConnected(true)
	client.SetSubscribeError(errors.New("denied"))

	token := client.Subscribe("a/b", 0, nil)
	if token.Error() == nil {
		t.Error("subscribe error swallowed")
	}
}
