// Package bigquery streams outbox events into a BigQuery table for analytics.
package bigquery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/eventpublisher"
)

// EventRow is one outbox event in the events table.
type EventRow struct {
	EventID       string            `bigquery:"event_id"`       // REQUIRED
	EventType     string            `bigquery:"event_type"`     // REQUIRED
	AggregateType string            `bigquery:"aggregate_type"` // REQUIRED
	AggregateID   string            `bigquery:"aggregate_id"`   // REQUIRED
	Payload       bigquery.NullJSON `bigquery:"payload"`        // NULLABLE JSON
	CreatedTS     time.Time         `bigquery:"created_ts"`     // REQUIRED
	PublishedTS   time.Time         `bigquery:"published_ts"`   // REQUIRED
}

// Inserter streams rows into a table.
type Inserter interface {
	Put(ctx context.Context, src interface{}) error
}

// Publisher implements eventpublisher.Publisher.
type Publisher struct {
	inserter Inserter
	now      func() time.Time
}

var _ eventpublisher.Publisher = (*Publisher)(nil)

// NewPublisher creates a Publisher writing through inserter.
func NewPublisher(inserter Inserter) *Publisher {
	return &Publisher{inserter: inserter, now: time.Now}
}

// NewClient creates a BigQuery client. An empty credentialsFile uses
// application default credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*bigquery.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return client, nil
}

// TableInserter returns the streaming inserter for dataset.table.
func TableInserter(client *bigquery.Client, dataset, table string) *bigquery.Inserter {
	return client.Dataset(dataset).Table(table).Inserter()
}

// Publish inserts the event. The event ID is the insert ID, so an event
// retried by the outbox is not counted twice.
func (p *Publisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	row, err := p.row(event)
	if err != nil {
		return err
	}

	saver := &bigquery.StructSaver{Struct: row, InsertID: event.ID}
	if err := p.inserter.Put(ctx, saver); err != nil {
		return fmt.Errorf("bigquery: inserting event %s: %w", event.ID, err)
	}
	return nil
}

func (p *Publisher) row(event *domain.OutboxEvent) (*EventRow, error) {
	row := &EventRow{
		EventID:       event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		CreatedTS:     event.CreatedAt,
		PublishedTS:   p.now().UTC(),
	}
	if event.Payload != nil {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return nil, fmt.Errorf("bigquery: encoding payload of event %s: %w", event.ID, err)
		}
		row.Payload = bigquery.NullJSON{JSONVal: string(payload), Valid: true}
	}
	return row, nil
}
