package settings

import (
	"context"
	"strconv"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// SettingsService handles business logic for site settings: typed access to
// the key-value table through the cache, and validated admin updates.
type SettingsService interface {
	// Config returns the typed site configuration, served from cache when warm.
	Config(ctx context.Context) (*SiteConfig, error)

	// Update applies the given key-value pairs. Keys outside the editable
	// allow-list are rejected; the cache is invalidated on success.
	Update(ctx context.Context, values map[string]string) error
}

// settingsService implements SettingsService.
type settingsService struct {
	repo  SettingsRepository
	cache *Cache
}

// NewSettingsService creates a new settings service.
func NewSettingsService(repo SettingsRepository, cache *Cache) SettingsService {
	return &settingsService{repo: repo, cache: cache}
}

// Config reads all settings (cache first) and parses them into SiteConfig.
func (s *settingsService) Config(ctx context.Context) (*SiteConfig, error) {
	values, ok := s.cache.Get(ctx)
	if !ok {
		var err error
		values, err = s.repo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Put(ctx, values)
	}

	return &SiteConfig{
		SiteName:           valueOr(values, KeySiteName, "Resonora"),
		Tagline:            values[KeySiteTagline],
		LogoMediaID:        parseInt64(values[KeySiteLogoMediaID]),
		ContactEmail:       values[KeyContactEmail],
		ContactNotifyEmail: values[KeyContactNotifyEmail],
		SEOTitle:           valueOr(values, KeySEOTitle, "Resonora Loudspeakers"),
		SEODescription:     values[KeySEODescription],
		SEOImageMediaID:    parseInt64(values[KeySEOImageMediaID]),
	}, nil
}

// Update validates and persists each pair, then invalidates the cache once.
func (s *settingsService) Update(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return apperror.NewBadRequest("no settings provided")
	}
	for key := range values {
		if !editableKeys[key] {
			return apperror.NewBadRequest("unknown setting: " + key)
		}
	}

	for key, value := range values {
		if err := s.repo.Set(ctx, key, value); err != nil {
			return err
		}
	}
	s.cache.Invalidate(ctx)
	return nil
}

// valueOr returns the map value or a default when absent/empty.
func valueOr(values map[string]string, key, fallback string) string {
	if v := values[key]; v != "" {
		return v
	}
	return fallback
}

// parseInt64 parses a stored numeric setting; unparseable input reads as 0.
func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
