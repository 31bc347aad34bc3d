package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"medicine-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	keys   []string
	events []interface{}
}

func (s *recordingSink) PublishEvent(ctx context.Context, key string, event interface{}) error {
	s.keys = append(s.keys, key)
	s.events = append(s.events, event)
	return nil
}

func TestPublisherKeysByLedger(t *testing.T) {
	sink := &recordingSink{}
	ep := NewEventPublisher(sink)
	ctx := context.Background()

	require.NoError(t, ep.PublishReservationCreated(ctx, &models.ReservationCreatedEvent{}))
	require.NoError(t, ep.PublishQualityReportSubmitted(ctx, &models.QualityReportSubmittedEvent{}))
	require.NoError(t, ep.PublishNotificationRequested(ctx, &models.NotificationRequestedEvent{}))

	assert.Equal(t, []string{
		models.KeyReservations,
		models.KeyQualityReports,
		models.KeyMedicineNotifications,
	}, sink.keys)
}

func TestHandleMessageRoutesByType(t *testing.T) {
	eh := NewEventHandler()

	var gotReservation *models.ReservationCreatedEvent
	var gotReport *models.QualityReportSubmittedEvent
	eh.OnReservationCreated(func(ctx context.Context, e *models.ReservationCreatedEvent) error {
		gotReservation = e
		return nil
	})
	eh.OnQualityReportSubmitted(func(ctx context.Context, e *models.QualityReportSubmittedEvent) error {
		gotReport = e
		return nil
	})

	reservation := models.ReservationCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeReservationCreated,
			Timestamp: time.Now(),
		},
		Reservation: models.Reservation{ID: "RES-1", MedicineID: "1", PharmacyID: "2", Quantity: 1},
	}
	value, err := json.Marshal(reservation)
	require.NoError(t, err)

	require.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: value}))
	require.NotNil(t, gotReservation)
	assert.Equal(t, "RES-1", gotReservation.Reservation.ID)
	assert.Nil(t, gotReport)
}

func TestHandleMessageIgnoresUnknownAndUnregistered(t *testing.T) {
	eh := NewEventHandler()

	unknown, _ := json.Marshal(models.BaseEvent{EventID: "x", EventType: "SOMETHING_ELSE"})
	assert.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: unknown}))

	noHandler, _ := json.Marshal(models.BaseEvent{EventID: "y", EventType: models.EventTypeNotificationRequested})
	assert.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: noHandler}))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	eh := NewEventHandler()
	assert.Error(t, eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")}))
}
