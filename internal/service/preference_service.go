package service

import (
	"context"
	"fmt"

	"medicine-service/internal/models"
	"medicine-service/internal/store"
)

// PreferenceService stores the language choice and location-gate flag.
// These are local settings and work offline.
type PreferenceService struct {
	store store.Persistence
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(deps Dependencies) *PreferenceService {
	return &PreferenceService{store: deps.Store}
}

// GetPreferences returns the stored preferences, English by default
func (s *PreferenceService) GetPreferences(ctx context.Context) (*models.Preferences, error) {
	prefs := &models.Preferences{Language: models.LanguageEnglish}

	if _, err := s.store.Get(ctx, models.KeyPreferredLanguage, &prefs.Language); err != nil {
		return nil, err
	}
	if _, err := s.store.Get(ctx, models.KeyLocationDetected, &prefs.LocationDetected); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SetLanguage stores the preferred language
func (s *PreferenceService) SetLanguage(ctx context.Context, language string) error {
	if language != models.LanguageEnglish && language != models.LanguageFrench {
		return &models.ValidationError{
			Fields: []string{"language"},
			Reason: fmt.Sprintf("unsupported language %q", language),
		}
	}
	return s.store.Put(ctx, models.KeyPreferredLanguage, language)
}

// MarkLocationDetected records that the location prompt has been answered
func (s *PreferenceService) MarkLocationDetected(ctx context.Context) error {
	return s.store.Put(ctx, models.KeyLocationDetected, true)
}
