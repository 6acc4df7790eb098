package eventpubsub

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

// Bus carries domain events between the simulation components. Subscribers
// run synchronously on the publisher's goroutine, in subscription order, and
// must not publish or subscribe from inside a callback.
type Bus struct {
	bus EventBus.Bus
}

func (b *Bus) Publish(publisherName string, topic EventName, event interface{}) {
	log.Tracef("[%v] Published to topic %s", publisherName, topic)
	b.bus.Publish(string(topic), event)
}

func (b *Bus) Subscribe(subscriberName string, topic EventName, callbackFn interface{}) error {
	if err := b.bus.Subscribe(string(topic), callbackFn); err != nil {
		return fmt.Errorf("[%v] failed to subscribe to %s: %w", subscriberName, topic, err)
	}

	log.Debugf("[%v] Subscribed to topic %s", subscriberName, topic)
	return nil
}

func (b *Bus) HasSubscribers(topic EventName) bool {
	return b.bus.HasCallback(string(topic))
}

func NewBus() *Bus {
	return &Bus{
		bus: EventBus.New(),
	}
}
