package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"medicine-service/internal/models"
	"medicine-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventSink is anything that can publish a keyed event
type EventSink interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing ledger events
type EventPublisher struct {
	sink EventSink
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(sink EventSink) *EventPublisher {
	return &EventPublisher{sink: sink}
}

// PublishReservationCreated publishes ReservationCreated event
func (ep *EventPublisher) PublishReservationCreated(ctx context.Context, event *models.ReservationCreatedEvent) error {
	return ep.sink.PublishEvent(ctx, models.KeyReservations, event)
}

// PublishQualityReportSubmitted publishes QualityReportSubmitted event
func (ep *EventPublisher) PublishQualityReportSubmitted(ctx context.Context, event *models.QualityReportSubmittedEvent) error {
	return ep.sink.PublishEvent(ctx, models.KeyQualityReports, event)
}

// PublishNotificationRequested publishes NotificationRequested event
func (ep *EventPublisher) PublishNotificationRequested(ctx context.Context, event *models.NotificationRequestedEvent) error {
	return ep.sink.PublishEvent(ctx, models.KeyMedicineNotifications, event)
}

// EventHandler routes incoming ledger events to registered handlers
type EventHandler struct {
	onReservationCreated     func(context.Context, *models.ReservationCreatedEvent) error
	onQualityReportSubmitted func(context.Context, *models.QualityReportSubmittedEvent) error
	onNotificationRequested  func(context.Context, *models.NotificationRequestedEvent) error
	logger                   *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

func (eh *EventHandler) OnReservationCreated(handler func(context.Context, *models.ReservationCreatedEvent) error) {
	eh.onReservationCreated = handler
}

func (eh *EventHandler) OnQualityReportSubmitted(handler func(context.Context, *models.QualityReportSubmittedEvent) error) {
	eh.onQualityReportSubmitted = handler
}

func (eh *EventHandler) OnNotificationRequested(handler func(context.Context, *models.NotificationRequestedEvent) error) {
	eh.onNotificationRequested = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeReservationCreated:
		if eh.onReservationCreated != nil {
			var event models.ReservationCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ReservationCreated event: %w", err)
			}
			return eh.onReservationCreated(ctx, &event)
		}

	case models.EventTypeQualityReportSubmitted:
		if eh.onQualityReportSubmitted != nil {
			var event models.QualityReportSubmittedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal QualityReportSubmitted event: %w", err)
			}
			return eh.onQualityReportSubmitted(ctx, &event)
		}

	case models.EventTypeNotificationRequested:
		if eh.onNotificationRequested != nil {
			var event models.NotificationRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal NotificationRequested event: %w", err)
			}
			return eh.onNotificationRequested(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
