package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"medicine-service/internal/catalog"
	"medicine-service/internal/connectivity"
	"medicine-service/internal/models"
	"medicine-service/internal/store"

	"github.com/google/uuid"
)

// EventPublisher publishes ledger events after a record is persisted
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, event *models.ReservationCreatedEvent) error
	PublishQualityReportSubmitted(ctx context.Context, event *models.QualityReportSubmittedEvent) error
	PublishNotificationRequested(ctx context.Context, event *models.NotificationRequestedEvent) error
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishReservationCreated(context.Context, *models.ReservationCreatedEvent) error {
	return nil
}

func (NopPublisher) PublishQualityReportSubmitted(context.Context, *models.QualityReportSubmittedEvent) error {
	return nil
}

func (NopPublisher) PublishNotificationRequested(context.Context, *models.NotificationRequestedEvent) error {
	return nil
}

// IDGenerator produces user-visible record ids
type IDGenerator interface {
	NewID(prefix string, at time.Time) string
}

// TimestampIDs generates ids shaped PREFIX-<unix millis>-<9 char token>
type TimestampIDs struct{}

func (TimestampIDs) NewID(prefix string, at time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, at.UnixMilli(), token)
}

// Latency simulates the processing time of a remote lookup
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// Wait sleeps for a random duration in [Min, Max] or until ctx is done
func (l Latency) Wait(ctx context.Context) error {
	d := l.Min
	if l.Max > l.Min {
		d += time.Duration(rand.Int63n(int64(l.Max - l.Min + 1)))
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Dependencies are shared by every service
type Dependencies struct {
	Store     store.Persistence
	Gate      connectivity.Port
	Catalog   *catalog.Catalog
	IDs       IDGenerator
	Clock     func() time.Time
	Publisher EventPublisher
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.IDs == nil {
		d.IDs = TimestampIDs{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Publisher == nil {
		d.Publisher = NopPublisher{}
	}
	return d
}

func newBaseEvent(eventType string, at time.Time) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: at,
	}
}
