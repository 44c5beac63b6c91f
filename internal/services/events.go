package services

import (
	"encoding/json"
	"log"
)

// EventPublisher sends a message to a broker exchange.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Events publishes domain events on a best-effort basis. A nil *Events or nil
// publisher drops every event.
type Events struct {
	pub      EventPublisher
	exchange string
}

func NewEvents(pub EventPublisher, exchange string) *Events {
	return &Events{pub: pub, exchange: exchange}
}

func (e *Events) emit(routingKey string, payload interface{}) {
	if e == nil || e.pub == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[events] failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := e.pub.Publish(e.exchange, routingKey, body); err != nil {
		log.Printf("[events] warning: failed to publish %s event: %v", routingKey, err)
	}
}
