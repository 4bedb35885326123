package mqtt

import (
	"fmt"

	"github.com/PancyStudios/aqualink/pkg/lavalink"
	"github.com/PancyStudios/aqualink/pkg/logger"
)

// EventSink publishes audio backend events to the broker so other services
// can observe playback without talking to the backend themselves.
//
// Guild-scoped events go to aqualink/events/{guild}/{event}, everything else
// to aqualink/events/node/{event}. Consumers subscribe with the usual
// wildcards, e.g. aqualink/events/+/TrackStart.
type EventSink struct {
	mc *MqttCommunicator
}

// NewEventSink wraps a communicator as a lavalink event sink.
func NewEventSink(mc *MqttCommunicator) *EventSink {
	return &EventSink{mc: mc}
}

// Publish implements lavalink.EventSink.
func (s *EventSink) Publish(event lavalink.Event) {
	if s.mc == nil || !s.mc.IsConnected() {
		return
	}

	topic := fmt.Sprintf("aqualink/events/node/%s", event.EventName())
	if guildEvent, ok := event.(lavalink.GuildEvent); ok {
		topic = fmt.Sprintf("aqualink/events/%s/%s", guildEvent.Guild(), event.EventName())
	}

	if err := s.mc.Publish(topic, event); err != nil {
		logger.Warn(fmt.Sprintf("Failed to publish %s to %s: %v", event.EventName(), topic, err), "MQTT")
	}
}
