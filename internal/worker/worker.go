package worker

import (
	"context"
	"log"

	"pharmaflow/internal/broker"
	"pharmaflow/internal/models"
	"pharmaflow/internal/store"
	"pharmaflow/internal/util"
)

// AuditWorker consumes SaleCommitted events and appends them to the sales
// audit log. Events are applied at most once via the processed_events
// table, so redeliveries are safe.
type AuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, store *store.Store) *AuditWorker {
	w := &AuditWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		store:        store,
	}
	w.eventHandler.OnSaleCommitted(w.handleSaleCommitted)
	return w
}

func (w *AuditWorker) handleSaleCommitted(ctx context.Context, event *models.SaleCommittedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		log.Printf("Skipping already-processed event: %s", event.EventID)
		return nil
	}

	entry := &models.AuditEntry{
		TransactionID:    event.TransactionID,
		EmployeeUsername: event.EmployeeUsername,
		TotalAmount:      event.TotalAmount,
		ItemCount:        len(event.Items),
	}
	if err := w.store.InsertAuditEntry(ctx, entry); err != nil {
		return err
	}

	if err := w.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		return err
	}

	util.AuditEventsProcessed.Inc()
	return nil
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	log.Println("Starting audit worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	log.Println("Stopping audit worker...")
	return w.consumer.Close()
}
