package service

import (
	"context"
	"strings"

	"medicine-service/internal/catalog"
	"medicine-service/internal/connectivity"
	"medicine-service/internal/models"
	"medicine-service/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SearchService matches free-text queries against the catalog
type SearchService struct {
	catalog *catalog.Catalog
	gate    connectivity.Port
	latency Latency
	logger  *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(deps Dependencies, latency Latency) *SearchService {
	deps = deps.withDefaults()
	return &SearchService{
		catalog: deps.Catalog,
		gate:    deps.Gate,
		latency: latency,
		logger:  util.GetLogger(),
	}
}

// Search returns the medicines whose name, generic name or description
// contains the query, case-insensitively, in catalog order. A blank query
// returns the whole catalog.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.Medicine, error) {
	ctx, span := util.StartSpan(ctx, "SearchService.Search")
	defer span.End()

	if err := connectivity.RequireOnline(s.gate, "search"); err != nil {
		return nil, err
	}

	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	util.SearchesTotal.Inc()

	medicines := s.catalog.Medicines()
	term := strings.ToLower(query)
	if strings.TrimSpace(query) == "" {
		util.SearchResults.Observe(float64(len(medicines)))
		return medicines, nil
	}

	results := make([]models.Medicine, 0)
	for _, m := range medicines {
		if matches(m, term) {
			results = append(results, m)
		}
	}

	span.SetAttributes(attribute.Int("results", len(results)))
	util.SearchResults.Observe(float64(len(results)))
	s.logger.Debug("Search completed", zap.String("query", query), zap.Int("results", len(results)))

	return results, nil
}

func matches(m models.Medicine, term string) bool {
	return strings.Contains(strings.ToLower(m.Name), term) ||
		strings.Contains(strings.ToLower(m.GenericName), term) ||
		strings.Contains(strings.ToLower(m.Description), term)
}

// GetMedicineByID looks up one medicine
func (s *SearchService) GetMedicineByID(ctx context.Context, id string) (*models.Medicine, error) {
	ctx, span := util.StartSpan(ctx, "SearchService.GetMedicineByID")
	defer span.End()

	if err := connectivity.RequireOnline(s.gate, "getMedicineById"); err != nil {
		return nil, err
	}

	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	m, ok := s.catalog.Get(id)
	if !ok {
		return nil, &models.NotFoundError{Kind: "medicine", ID: id}
	}
	return &m, nil
}
