package cube

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// FrameHandler is called for each camera frame received on the frame topic.
// The payload is the raw encoded image bytes.
type FrameHandler func(payload []byte)

// FrameClient manages the MQTT connection and the camera frame subscription
type FrameClient struct {
	client       mqtt.Client
	config       *Config
	frameHandler FrameHandler
	isConnected  bool
	mu           sync.RWMutex
}

var (
	globalClient *FrameClient
	clientMu     sync.Mutex
)

// InitMQTT initializes the global MQTT client with the provided configuration
// If neither MQTT_BROKER nor mqtt.broker is set, MQTT is disabled and this
// returns nil
func InitMQTT(config *Config, handler FrameHandler) (*FrameClient, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	broker := os.Getenv("MQTT_BROKER")
	if broker == "" && config != nil && config.MQTT.Broker != "" {
		broker = config.MQTT.Broker
	}

	if broker == "" {
		log.Println("MQTT disabled: MQTT_BROKER not set")
		return nil, nil
	}

	if config == nil || config.MQTT.FrameTopic == "" {
		return nil, fmt.Errorf("MQTT enabled but no frame topic configured")
	}

	client := &FrameClient{
		config:       config,
		frameHandler: handler,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)

	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" && config.MQTT.ClientID != "" {
		clientID = config.MQTT.ClientID
	}
	if clientID == "" {
		clientID = "cubewatch"
	}
	opts.SetClientID(clientID)

	username := os.Getenv("MQTT_USERNAME")
	if username == "" && config.MQTT.Username != "" {
		username = config.MQTT.Username
	}
	if username != "" {
		opts.SetUsername(username)
		password := os.Getenv("MQTT_PASSWORD")
		if password == "" && config.MQTT.Password != "" {
			password = config.MQTT.Password
		}
		opts.SetPassword(password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false)
	opts.SetOrderMatters(true) // Frames must be processed in arrival order

	opts.SetOnConnectHandler(client.onConnect)
	opts.SetConnectionLostHandler(client.onConnectionLost)
	opts.SetReconnectingHandler(client.onReconnecting)

	client.client = mqtt.NewClient(opts)

	go client.connectWithRetry()

	globalClient = client
	return client, nil
}

// GetMQTTClient returns the global MQTT client instance
func GetMQTTClient() *FrameClient {
	clientMu.Lock()
	defer clientMu.Unlock()
	return globalClient
}

// connectWithRetry attempts to connect to the MQTT broker with exponential backoff
func (c *FrameClient) connectWithRetry() {
	retryDelay := 1 * time.Second
	maxRetryDelay := 60 * time.Second

	for {
		log.Println("Connecting to MQTT broker...")

		token := c.client.Connect()
		if token.WaitTimeout(10 * time.Second) {
			if token.Error() == nil {
				log.Println("Successfully connected to MQTT broker")
				c.setConnected(true)
				return
			}
			log.Printf("MQTT connection failed: %v", token.Error())
		} else {
			log.Println("MQTT connection timeout")
		}

		log.Printf("Retrying MQTT connection in %v...", retryDelay)
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}
	}
}

// onConnect is called when the MQTT connection is established
func (c *FrameClient) onConnect(client mqtt.Client) {
	c.setConnected(true)

	topic := c.config.MQTT.FrameTopic
	log.Printf("MQTT connected, subscribing to frame topic %s", topic)

	token := client.Subscribe(topic, 0, c.handleFrameMessage)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("Error subscribing to %s: %v", topic, token.Error())
	} else {
		log.Printf("Successfully subscribed to %s", topic)
	}
}

// onConnectionLost is called when the MQTT connection is lost
// Auto-reconnect is enabled, so this is typically a transient event
func (c *FrameClient) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection interrupted (%v), auto-reconnect will retry", err)
	c.setConnected(false)
}

// onReconnecting is called when the client attempts to reconnect
func (c *FrameClient) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	log.Println("MQTT reconnecting...")
}

// handleFrameMessage validates and dispatches one camera frame. Payloads
// that are not a recognizable image are dropped here so the handler only
// ever sees decodable frames.
func (c *FrameClient) handleFrameMessage(client mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()
	log.Printf("Received frame (topic: %s, size: %d bytes)", msg.Topic(), len(payload))

	if !IsPNG(payload) && !IsJPEG(payload) {
		log.Printf("Dropping frame: payload is neither PNG nor JPEG (%d bytes)", len(payload))
		return
	}

	if c.frameHandler != nil {
		c.frameHandler(payload)
	}
}

// IsConnected returns true if the MQTT client is connected
func (c *FrameClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// setConnected updates the connection status
func (c *FrameClient) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isConnected = connected
}

// Disconnect gracefully closes the MQTT connection
func (c *FrameClient) Disconnect() {
	if c.client != nil && c.client.IsConnected() {
		log.Println("Disconnecting from MQTT broker...")
		c.client.Disconnect(250) // 250ms quiesce time
		c.setConnected(false)
	}
}

// GetClient returns the underlying MQTT client for publishing
func (c *FrameClient) GetClient() mqtt.Client {
	return c.client
}

// newFrameClientWithMock creates a FrameClient with a provided mqtt.Client
// This is used for testing with mock clients
func newFrameClientWithMock(client mqtt.Client, config *Config, handler FrameHandler) *FrameClient {
	return &FrameClient{
		client:       client,
		config:       config,
		frameHandler: handler,
	}
}
