package worker

import (
	"context"

	"medicine-service/internal/broker"
	"medicine-service/internal/models"
	"medicine-service/internal/util"

	"go.uber.org/zap"
)

// MessageSource is the consuming side of the ledger topic
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// LedgerWorker consumes ledger events and writes them to the review log
type LedgerWorker struct {
	source       MessageSource
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewLedgerWorker creates a new ledger worker
func NewLedgerWorker(source MessageSource) *LedgerWorker {
	w := &LedgerWorker{
		source:       source,
		eventHandler: broker.NewEventHandler(),
		logger:       util.GetLogger().Named("review"),
	}

	w.eventHandler.OnReservationCreated(w.handleReservationCreated)
	w.eventHandler.OnQualityReportSubmitted(w.handleQualityReportSubmitted)
	w.eventHandler.OnNotificationRequested(w.handleNotificationRequested)

	return w
}

// Start consumes until ctx is cancelled
func (w *LedgerWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting ledger worker...")
	return w.source.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *LedgerWorker) Stop() error {
	w.logger.Info("Stopping ledger worker...")
	return w.source.Close()
}

func (w *LedgerWorker) handleReservationCreated(ctx context.Context, event *models.ReservationCreatedEvent) error {
	util.LedgerEventsConsumedTotal.WithLabelValues(event.EventType).Inc()
	w.logger.Info("Reservation to confirm with pharmacy",
		zap.String("event_id", event.EventID),
		zap.String("reservation_id", event.Reservation.ID),
		zap.String("pharmacy_id", event.Reservation.PharmacyID),
		zap.String("medicine_id", event.Reservation.MedicineID),
		zap.Int("quantity", event.Reservation.Quantity),
		zap.Time("expires_at", event.Reservation.ExpiresAt))
	return nil
}

func (w *LedgerWorker) handleQualityReportSubmitted(ctx context.Context, event *models.QualityReportSubmittedEvent) error {
	util.LedgerEventsConsumedTotal.WithLabelValues(event.EventType).Inc()

	fields := []zap.Field{
		zap.String("event_id", event.EventID),
		zap.String("report_id", event.Report.ID),
		zap.String("medicine", event.Report.MedicineName),
		zap.String("issue_type", event.Report.IssueType),
		zap.Bool("anonymous", event.Report.Anonymous),
	}
	if event.Report.IssueType == models.IssueTypeCounterfeit {
		w.logger.Warn("Suspected counterfeit reported", fields...)
		return nil
	}
	w.logger.Info("Quality report awaiting review", fields...)
	return nil
}

func (w *LedgerWorker) handleNotificationRequested(ctx context.Context, event *models.NotificationRequestedEvent) error {
	util.LedgerEventsConsumedTotal.WithLabelValues(event.EventType).Inc()
	// phone numbers stay out of the review log
	w.logger.Info("Availability notification requested",
		zap.String("event_id", event.EventID),
		zap.String("notification_id", event.Notification.ID),
		zap.String("medicine", event.Notification.MedicineName))
	return nil
}
