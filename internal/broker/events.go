package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"pharmaflow/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSaleCommitted publishes a SaleCommitted event
func (ep *EventPublisher) PublishSaleCommitted(ctx context.Context, event *models.SaleCommittedEvent) error {
	key := fmt.Sprintf("sale-%d", event.TransactionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming events to registered handlers
type EventHandler struct {
	onSaleCommitted func(context.Context, *models.SaleCommittedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnSaleCommitted registers a handler for SaleCommitted events
func (eh *EventHandler) OnSaleCommitted(handler func(context.Context, *models.SaleCommittedEvent) error) {
	eh.onSaleCommitted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeSaleCommitted:
		if eh.onSaleCommitted != nil {
			var event models.SaleCommittedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SaleCommitted event: %w", err)
			}
			return eh.onSaleCommitted(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
