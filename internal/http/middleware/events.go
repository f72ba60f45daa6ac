package middleware

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// MQTT push of settings/schedule changes to live storefront widgets. The
// broker is optional: with no client configured every publish is a no-op.

var (
	eventMutex  sync.RWMutex
	eventClient mqtt.Client
)

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// InitEventClient connects the shared publisher to the broker.
func InitEventClient(brokerURL, clientID string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	eventMutex.Lock()
	eventClient = client
	eventMutex.Unlock()
	return nil
}

// PublishShopUpdate notifies a shop's widgets that the popup configuration
// changed. Fire and forget; a dark widget refetches on its next page view
// anyway.
func PublishShopUpdate(shop, kind string) {
	eventMutex.RLock()
	client := eventClient
	eventMutex.RUnlock()
	if client == nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"kind":       kind,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	topic := fmt.Sprintf("popup/%s/updates", shop)
	token := client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to publish shop update")
	}
}

// CleanupEvents disconnects the publisher.
func CleanupEvents() {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	if eventClient != nil {
		eventClient.Disconnect(250)
		eventClient = nil
	}
}
