// Package telemetry publishes parameter changes to an MQTT broker.
//
// A Publisher subscribes to device parameters and forwards every change
// as a retained JSON message on <prefix>/<device>/<parameter>, so late
// joiners immediately see the current rig state.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/concert-control/concert-go/pkg/unit"
)

const (
	defaultQoS     = 1
	connectTimeout = 10 * time.Second
)

// Client is the slice of the paho client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Message is the JSON payload published on every parameter change.
type Message struct {
	Device    string  `json:"device"`
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// Publisher forwards parameter changes to a broker. It implements
// param.Observer and is subscribed like any other observer.
type Publisher struct {
	client Client
	prefix string
}

// NewPublisher creates a publisher with the given topic prefix,
// typically the rig name.
func NewPublisher(client Client, prefix string) *Publisher {
	return &Publisher{client: client, prefix: prefix}
}

// OnParameterChanged publishes the new value. Notification runs on the
// mutating goroutine, so the token is not waited on here; delivery
// failures surface through the client's connection handling.
func (p *Publisher) OnParameterChanged(owner, name string, value unit.Value) {
	msg := Message{
		Device:    owner,
		Parameter: name,
		Value:     value.Magnitude(),
		Unit:      value.Dim().String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	p.client.Publish(p.topic(owner, name), defaultQoS, true, payload)
}

func (p *Publisher) topic(owner, name string) string {
	return fmt.Sprintf("%s/%s/%s", p.prefix, owner, name)
}

// Connect dials the broker and returns a connected paho client.
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOrderMatters(false)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}
	return client, nil
}
