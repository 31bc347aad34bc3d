package service

import (
	"context"
	"fmt"
	"time"

	"medicine-service/internal/catalog"
	"medicine-service/internal/connectivity"
	"medicine-service/internal/models"
	"medicine-service/internal/store"
	"medicine-service/internal/util"

	"go.uber.org/zap"
)

// ReservationPolicy controls how reservations are checked and how long they last
type ReservationPolicy struct {
	TTL time.Duration
	// Validate checks ids and quantity against the catalog snapshot.
	// Catalog stock is never decremented either way.
	Validate bool
}

// DefaultReservationPolicy holds reservations for 24 hours with validation on
func DefaultReservationPolicy() ReservationPolicy {
	return ReservationPolicy{TTL: 24 * time.Hour, Validate: true}
}

// ReservationService appends reservations to the persisted ledger
type ReservationService struct {
	store     store.Persistence
	gate      connectivity.Port
	catalog   *catalog.Catalog
	ids       IDGenerator
	clock     func() time.Time
	publisher EventPublisher
	policy    ReservationPolicy
	latency   Latency
	logger    *zap.Logger
}

// NewReservationService creates a new reservation service
func NewReservationService(deps Dependencies, policy ReservationPolicy, latency Latency) *ReservationService {
	deps = deps.withDefaults()
	if policy.TTL <= 0 {
		policy.TTL = DefaultReservationPolicy().TTL
	}
	return &ReservationService{
		store:     deps.Store,
		gate:      deps.Gate,
		catalog:   deps.Catalog,
		ids:       deps.IDs,
		clock:     deps.Clock,
		publisher: deps.Publisher,
		policy:    policy,
		latency:   latency,
		logger:    util.GetLogger(),
	}
}

// Reserve holds quantity units of a medicine at a pharmacy. A zero quantity
// means one. Every call creates a new reservation.
func (s *ReservationService) Reserve(ctx context.Context, medicineID, pharmacyID string, quantity int) (*models.Reservation, error) {
	ctx, span := util.StartSpan(ctx, "ReservationService.Reserve")
	defer span.End()

	if err := connectivity.RequireOnline(s.gate, "reserve"); err != nil {
		util.ReservationsFailedTotal.WithLabelValues("offline").Inc()
		return nil, err
	}

	if quantity == 0 {
		quantity = 1
	}

	if err := s.checkReservation(medicineID, pharmacyID, quantity); err != nil {
		util.ReservationsFailedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	now := s.clock()
	reservation := &models.Reservation{
		ID:         s.ids.NewID("RES", now),
		MedicineID: medicineID,
		PharmacyID: pharmacyID,
		Quantity:   quantity,
		Status:     models.ReservationStatusConfirmed,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.policy.TTL),
	}

	start := time.Now()
	err := s.store.Append(ctx, models.KeyReservations, reservation)
	util.LedgerAppendLatency.WithLabelValues(models.KeyReservations).Observe(time.Since(start).Seconds())
	if err != nil {
		util.ReservationsFailedTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("failed to persist reservation: %w", err)
	}

	util.ReservationsCreatedTotal.Inc()
	s.logger.Info("Reservation created",
		zap.String("reservation_id", reservation.ID),
		zap.String("medicine_id", medicineID),
		zap.String("pharmacy_id", pharmacyID),
		zap.Int("quantity", quantity))

	event := &models.ReservationCreatedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeReservationCreated, now),
		Reservation: *reservation,
	}
	if err := s.publisher.PublishReservationCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish ReservationCreated event", zap.Error(err))
	}

	return reservation, nil
}

// checkReservation applies the reservation policy
func (s *ReservationService) checkReservation(medicineID, pharmacyID string, quantity int) error {
	if quantity < 0 {
		return &models.ValidationError{Fields: []string{"quantity"}, Reason: "quantity must be at least 1"}
	}

	if !s.policy.Validate {
		return nil
	}

	if _, ok := s.catalog.Get(medicineID); !ok {
		return &models.NotFoundError{Kind: "medicine", ID: medicineID}
	}

	stock, ok := s.catalog.Stock(medicineID, pharmacyID)
	if !ok {
		if !s.catalog.HasPharmacy(pharmacyID) {
			return &models.NotFoundError{Kind: "pharmacy", ID: pharmacyID}
		}
		return &models.ValidationError{
			Fields: []string{"pharmacyId"},
			Reason: fmt.Sprintf("pharmacy %s does not stock medicine %s", pharmacyID, medicineID),
		}
	}

	if quantity > stock.StockCount {
		return &models.ValidationError{
			Fields: []string{"quantity"},
			Reason: fmt.Sprintf("only %d available at %s", stock.StockCount, stock.Name),
		}
	}

	return nil
}

// ListUserReservations returns every persisted reservation in creation order
func (s *ReservationService) ListUserReservations(ctx context.Context) ([]models.Reservation, error) {
	ctx, span := util.StartSpan(ctx, "ReservationService.ListUserReservations")
	defer span.End()

	if err := connectivity.RequireOnline(s.gate, "listReservations"); err != nil {
		return nil, err
	}

	reservations := make([]models.Reservation, 0)
	if err := s.store.List(ctx, models.KeyReservations, &reservations); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}
