package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medicine-service/internal/catalog"
	"medicine-service/internal/connectivity"
	"medicine-service/internal/models"
	"medicine-service/internal/store"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type sequenceIDs struct {
	n int
}

func (s *sequenceIDs) NewID(prefix string, at time.Time) string {
	s.n++
	return fmt.Sprintf("%s-%d-%09d", prefix, at.UnixMilli(), s.n)
}

type recordingPublisher struct {
	reservations  []*models.ReservationCreatedEvent
	reports       []*models.QualityReportSubmittedEvent
	notifications []*models.NotificationRequestedEvent
	err           error
}

func (p *recordingPublisher) PublishReservationCreated(ctx context.Context, e *models.ReservationCreatedEvent) error {
	p.reservations = append(p.reservations, e)
	return p.err
}

func (p *recordingPublisher) PublishQualityReportSubmitted(ctx context.Context, e *models.QualityReportSubmittedEvent) error {
	p.reports = append(p.reports, e)
	return p.err
}

func (p *recordingPublisher) PublishNotificationRequested(ctx context.Context, e *models.NotificationRequestedEvent) error {
	p.notifications = append(p.notifications, e)
	return p.err
}

var errStoreDown = errors.New("store down")

// failingStore fails every append and behaves like an empty store otherwise
type failingStore struct {
	*store.MemoryStore
}

func (f failingStore) Append(ctx context.Context, key string, record interface{}) error {
	return errStoreDown
}

type fixture struct {
	deps      Dependencies
	gate      *connectivity.Gate
	store     *store.MemoryStore
	publisher *recordingPublisher
}

func newFixture(online bool) *fixture {
	gate := connectivity.NewGate(online)
	mem := store.NewMemoryStore()
	pub := &recordingPublisher{}
	return &fixture{
		deps: Dependencies{
			Store:     mem,
			Gate:      gate,
			Catalog:   catalog.Default(),
			IDs:       &sequenceIDs{},
			Clock:     func() time.Time { return fixedNow },
			Publisher: pub,
		},
		gate:      gate,
		store:     mem,
		publisher: pub,
	}
}

func (f *fixture) count(key string) int {
	n, _ := f.store.Count(context.Background(), key)
	return n
}
