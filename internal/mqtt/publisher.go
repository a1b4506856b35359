package mqtt

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Publisher pushes refresh notices to per-screen topics so players re-poll
// immediately instead of waiting out their heartbeat interval. A nil
// Publisher is a no-op, so the broker stays optional in development.
type Publisher struct {
	client mqtt.Client
}

func NewPublisher(brokerURL, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Publisher{client: client}, nil
}

// NotifyDevice tells one device its content may have changed.
func (p *Publisher) NotifyDevice(deviceID int) {
	if p == nil {
		return
	}
	p.publish(fmt.Sprintf("screens/%d/refresh", deviceID))
}

// NotifyTenant tells every device of a tenant to re-resolve, used when an
// emergency is raised or cancelled and when shared content mutates.
func (p *Publisher) NotifyTenant(tenantID int) {
	if p == nil {
		return
	}
	p.publish(fmt.Sprintf("tenants/%d/refresh", tenantID))
}

func (p *Publisher) publish(topic string) {
	token := p.client.Publish(topic, 1, false, "refresh")
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Str("topic", topic).Msg("failed to publish refresh notice")
		}
	}()
}
