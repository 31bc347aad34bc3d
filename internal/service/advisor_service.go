package service

import (
	"context"
	"fmt"
	"strings"

	"medicine-service/internal/catalog"
	"medicine-service/internal/connectivity"
	"medicine-service/internal/models"
	"medicine-service/internal/util"

	"go.uber.org/zap"
)

const fallbackAdvice = `I understand you're asking about "%s". Based on your symptoms, I recommend consulting with a healthcare provider for proper diagnosis. In the meantime, you can search our pharmacy network for common medications that might help.`

// AdvisorService answers symptom queries from the canned keyword table
type AdvisorService struct {
	catalog *catalog.Catalog
	gate    connectivity.Port
	latency Latency
	logger  *zap.Logger
}

// NewAdvisorService creates a new advisor service
func NewAdvisorService(deps Dependencies, latency Latency) *AdvisorService {
	deps = deps.withDefaults()
	return &AdvisorService{
		catalog: deps.Catalog,
		gate:    deps.Gate,
		latency: latency,
		logger:  util.GetLogger(),
	}
}

// Advise returns the response of the first table entry whose keyword occurs
// in the lowercased query. Recommended ids missing from the catalog are
// dropped.
func (s *AdvisorService) Advise(ctx context.Context, query string) (*models.Advice, error) {
	ctx, span := util.StartSpan(ctx, "AdvisorService.Advise")
	defer span.End()

	if err := connectivity.RequireOnline(s.gate, "advise"); err != nil {
		return nil, err
	}

	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	term := strings.ToLower(query)
	for _, entry := range s.catalog.AdvisorEntries() {
		if !strings.Contains(term, entry.Keyword) {
			continue
		}

		recommended := make([]models.Medicine, 0, len(entry.RecommendedMedicines))
		for _, id := range entry.RecommendedMedicines {
			if m, ok := s.catalog.Get(id); ok {
				recommended = append(recommended, m)
			}
		}

		util.AdvisorRequestsTotal.WithLabelValues("true").Inc()
		s.logger.Debug("Advisor matched", zap.String("keyword", entry.Keyword))

		return &models.Advice{
			Response:             entry.Response,
			RecommendedMedicines: recommended,
		}, nil
	}

	util.AdvisorRequestsTotal.WithLabelValues("false").Inc()

	return &models.Advice{
		Response:             fmt.Sprintf(fallbackAdvice, query),
		RecommendedMedicines: []models.Medicine{},
	}, nil
}
