package models

import "time"

// Event types
const (
	EventTypeReservationCreated     = "RESERVATION_CREATED"
	EventTypeQualityReportSubmitted = "QUALITY_REPORT_SUBMITTED"
	EventTypeNotificationRequested  = "NOTIFICATION_REQUESTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ReservationCreatedEvent published when a reservation is appended to the ledger
type ReservationCreatedEvent struct {
	BaseEvent
	Reservation Reservation `json:"reservation"`
}

// QualityReportSubmittedEvent published when a report is appended to the ledger
type QualityReportSubmittedEvent struct {
	BaseEvent
	Report QualityReport `json:"report"`
}

// NotificationRequestedEvent published when a user opts in to a stock notification
type NotificationRequestedEvent struct {
	BaseEvent
	Notification MedicineNotification `json:"notification"`
}
