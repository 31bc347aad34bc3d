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

// ReportStats summarizes a user's submitted reports
type ReportStats struct {
	Total       int            `json:"total"`
	ByIssueType map[string]int `json:"byIssueType"`
}

// ReportService validates and persists quality reports
type ReportService struct {
	store     store.Persistence
	gate      connectivity.Port
	ids       IDGenerator
	clock     func() time.Time
	publisher EventPublisher
	latency   Latency
	logger    *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(deps Dependencies, latency Latency) *ReportService {
	deps = deps.withDefaults()
	return &ReportService{
		store:     deps.Store,
		gate:      deps.Gate,
		ids:       deps.IDs,
		clock:     deps.Clock,
		publisher: deps.Publisher,
		latency:   latency,
		logger:    util.GetLogger(),
	}
}

// SubmitReport validates the input and appends a new report. Anonymous
// reports never keep contact details.
func (s *ReportService) SubmitReport(ctx context.Context, input models.QualityReportInput) (*models.QualityReport, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.SubmitReport")
	defer span.End()

	if err := connectivity.RequireOnline(s.gate, "submitReport"); err != nil {
		return nil, err
	}

	input = normalizeReport(input)
	if err := validateReport(input); err != nil {
		util.QualityReportsRejectedTotal.Inc()
		return nil, err
	}

	if input.Anonymous {
		input.ContactInfo = ""
	}

	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	now := s.clock()
	report := &models.QualityReport{
		ID:           s.ids.NewID("QR", now),
		MedicineName: input.MedicineName,
		PharmacyName: input.PharmacyName,
		Location:     input.Location,
		IssueType:    input.IssueType,
		Description:  input.Description,
		Anonymous:    input.Anonymous,
		ContactInfo:  input.ContactInfo,
		Status:       models.ReportStatusSubmitted,
		CreatedAt:    now,
	}

	start := time.Now()
	err := s.store.Append(ctx, models.KeyQualityReports, report)
	util.LedgerAppendLatency.WithLabelValues(models.KeyQualityReports).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to persist quality report: %w", err)
	}

	util.QualityReportsSubmittedTotal.WithLabelValues(report.IssueType).Inc()
	s.logger.Info("Quality report submitted",
		zap.String("report_id", report.ID),
		zap.String("issue_type", report.IssueType),
		zap.Bool("anonymous", report.Anonymous))

	event := &models.QualityReportSubmittedEvent{
		BaseEvent: newBaseEvent(models.EventTypeQualityReportSubmitted, now),
		Report:    *report,
	}
	if err := s.publisher.PublishQualityReportSubmitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish QualityReportSubmitted event", zap.Error(err))
	}

	return report, nil
}

func normalizeReport(in models.QualityReportInput) models.QualityReportInput {
	in.MedicineName = strings.TrimSpace(in.MedicineName)
	in.PharmacyName = strings.TrimSpace(in.PharmacyName)
	in.Location = strings.TrimSpace(in.Location)
	in.IssueType = strings.TrimSpace(in.IssueType)
	in.Description = strings.TrimSpace(in.Description)
	in.ContactInfo = strings.TrimSpace(in.ContactInfo)
	return in
}

func validateReport(in models.QualityReportInput) error {
	var missing []string
	if in.MedicineName == "" {
		missing = append(missing, "medicineName")
	}
	if in.IssueType == "" {
		missing = append(missing, "issueType")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}

	if !models.IsValidIssueType(in.IssueType) {
		return &models.ValidationError{
			Fields: []string{"issueType"},
			Reason: fmt.Sprintf("unknown issue type %q", in.IssueType),
		}
	}
	return nil
}

// ListUserReports returns every persisted report in submission order
func (s *ReportService) ListUserReports(ctx context.Context) ([]models.QualityReport, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.ListUserReports")
	defer span.End()

	if err := connectivity.RequireOnline(s.gate, "listUserReports"); err != nil {
		return nil, err
	}

	reports := make([]models.QualityReport, 0)
	if err := s.store.List(ctx, models.KeyQualityReports, &reports); err != nil {
		return nil, fmt.Errorf("failed to list quality reports: %w", err)
	}
	return reports, nil
}

// Stats counts the user's reports by issue type
func (s *ReportService) Stats(ctx context.Context) (*ReportStats, error) {
	reports, err := s.ListUserReports(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ReportStats{
		Total:       len(reports),
		ByIssueType: make(map[string]int, len(models.IssueTypes)),
	}
	for _, t := range models.IssueTypes {
		stats.ByIssueType[t] = 0
	}
	for _, r := range reports {
		stats.ByIssueType[r.IssueType]++
	}
	return stats, nil
}
