package scheduler

import (
	"context"
	"fmt"
	"time"

	"medicine-service/internal/models"
	"medicine-service/internal/util"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// GaugeRefreshSchedule is how often ledger sizes are exported
const GaugeRefreshSchedule = "@every 1m"

// LedgerKeys are the ledgers whose sizes are exported as gauges
var LedgerKeys = []string{
	models.KeyReservations,
	models.KeyQualityReports,
	models.KeyMedicineNotifications,
}

// Prober performs one connectivity check
type Prober interface {
	Run(ctx context.Context)
}

// Counter reports the number of records in a ledger
type Counter interface {
	Count(ctx context.Context, key string) (int, error)
}

// Scheduler runs the periodic connectivity probe and ledger gauge refresh
type Scheduler struct {
	cron          *cron.Cron
	probe         Prober
	probeSchedule string
	ledgers       Counter
}

// NewScheduler creates a new scheduler instance
func NewScheduler(probe Prober, probeSchedule string, ledgers Counter) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		probe:         probe,
		probeSchedule: probeSchedule,
		ledgers:       ledgers,
	}
}

// Start registers the jobs, runs each once and starts the cron loop
func (s *Scheduler) Start() error {
	if s.probe != nil {
		if _, err := s.cron.AddFunc(s.probeSchedule, s.runProbe); err != nil {
			return fmt.Errorf("failed to register connectivity probe job: %w", err)
		}
	}

	if s.ledgers != nil {
		if _, err := s.cron.AddFunc(GaugeRefreshSchedule, s.RefreshLedgerGauges); err != nil {
			return fmt.Errorf("failed to register ledger gauge job: %w", err)
		}
	}

	s.runProbe()
	s.RefreshLedgerGauges()

	s.cron.Start()
	zap.S().Infow("Scheduler started", "probe_schedule", s.probeSchedule)
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Scheduler stopped")
}

func (s *Scheduler) runProbe() {
	if s.probe == nil {
		return
	}
	s.probe.Run(context.Background())
}

// RefreshLedgerGauges exports the current size of every ledger
func (s *Scheduler) RefreshLedgerGauges() {
	if s.ledgers == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, key := range LedgerKeys {
		n, err := s.ledgers.Count(ctx, key)
		if err != nil {
			zap.S().Errorw("failed to count ledger records", "key", key, "error", err)
			continue
		}
		util.LedgerRecords.WithLabelValues(key).Set(float64(n))
	}
}
