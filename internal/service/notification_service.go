package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medicine-service/internal/connectivity"
	"medicine-service/internal/models"
	"medicine-service/internal/store"
	"medicine-service/internal/util"

	"go.uber.org/zap"
)

const minPhoneDigits = 10

// NotificationService records requests to be notified when a medicine is
// available again. Nothing is ever sent.
type NotificationService struct {
	store     store.Persistence
	gate      connectivity.Port
	ids       IDGenerator
	clock     func() time.Time
	publisher EventPublisher
	logger    *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(deps Dependencies) *NotificationService {
	deps = deps.withDefaults()
	return &NotificationService{
		store:     deps.Store,
		gate:      deps.Gate,
		ids:       deps.IDs,
		clock:     deps.Clock,
		publisher: deps.Publisher,
		logger:    util.GetLogger(),
	}
}

// RequestNotification stores an opt-in for medicineName. The phone number is
// kept as digits only and needs a country code.
func (s *NotificationService) RequestNotification(ctx context.Context, medicineName, phone string) (*models.MedicineNotification, error) {
	ctx, span := util.StartSpan(ctx, "NotificationService.RequestNotification")
	defer span.End()

	if err := connectivity.RequireOnline(s.gate, "requestNotification"); err != nil {
		return nil, err
	}

	medicineName = strings.TrimSpace(medicineName)
	var missing []string
	if medicineName == "" {
		missing = append(missing, "medicineName")
	}
	if strings.TrimSpace(phone) == "" {
		missing = append(missing, "phoneNumber")
	}
	if len(missing) > 0 {
		return nil, &models.ValidationError{Fields: missing}
	}

	digits := digitsOnly(phone)
	if len(digits) < minPhoneDigits {
		return nil, &models.ValidationError{
			Fields: []string{"phoneNumber"},
			Reason: "phone number must include the country code",
		}
	}

	now := s.clock()
	notification := &models.MedicineNotification{
		ID:           s.ids.NewID("NTF", now),
		MedicineName: medicineName,
		PhoneNumber:  digits,
		CreatedAt:    now,
		Status:       models.NotificationStatusActive,
	}

	if err := s.store.Append(ctx, models.KeyMedicineNotifications, notification); err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	util.NotificationsRequestedTotal.Inc()
	s.logger.Info("Notification requested",
		zap.String("notification_id", notification.ID),
		zap.String("medicine", medicineName))

	event := &models.NotificationRequestedEvent{
		BaseEvent:    newBaseEvent(models.EventTypeNotificationRequested, now),
		Notification: *notification,
	}
	if err := s.publisher.PublishNotificationRequested(ctx, event); err != nil {
		s.logger.Error("Failed to publish NotificationRequested event", zap.Error(err))
	}

	return notification, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
