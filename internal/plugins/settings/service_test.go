package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// mockSettingsRepo implements SettingsRepository for testing.
type mockSettingsRepo struct {
	getFn    func(ctx context.Context, key string) (string, error)
	setFn    func(ctx context.Context, key, value string) error
	getAllFn func(ctx context.Context) (map[string]string, error)

	getAllCalls int
}

func (m *mockSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return "", apperror.NewNotFound("setting not found")
}

func (m *mockSettingsRepo) Set(ctx context.Context, key, value string) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockSettingsRepo) GetAll(ctx context.Context) (map[string]string, error) {
	m.getAllCalls++
	if m.getAllFn != nil {
		return m.getAllFn(ctx)
	}
	return map[string]string{}, nil
}

// newTestCache returns a miniredis-backed cache with a controllable clock.
func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCache(rdb, ttl)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestConfig_ParsesAndDefaults(t *testing.T) {
	repo := &mockSettingsRepo{
		getAllFn: func(ctx context.Context) (map[string]string, error) {
			return map[string]string{
				KeySiteTagline:     "Speakers with soul",
				KeySiteLogoMediaID: "14",
				KeySEOImageMediaID: "not a number",
			}, nil
		},
	}
	cache, _ := newTestCache(t, time.Minute)
	svc := NewSettingsService(repo, cache)

	config, err := svc.Config(context.Background())
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if config.SiteName != "Resonora" {
		t.Errorf("missing site name must default, got %q", config.SiteName)
	}
	if config.Tagline != "Speakers with soul" {
		t.Errorf("tagline = %q", config.Tagline)
	}
	if config.LogoMediaID != 14 {
		t.Errorf("logo media id = %d, want 14", config.LogoMediaID)
	}
	if config.SEOImageMediaID != 0 {
		t.Errorf("unparseable numeric setting must read 0, got %d", config.SEOImageMediaID)
	}
}

func TestConfig_ServedFromCache(t *testing.T) {
	repo := &mockSettingsRepo{
		getAllFn: func(ctx context.Context) (map[string]string, error) {
			return map[string]string{KeySiteName: "Resonora Audio"}, nil
		},
	}
	cache, _ := newTestCache(t, time.Minute)
	svc := NewSettingsService(repo, cache)

	for i := 0; i < 3; i++ {
		if _, err := svc.Config(context.Background()); err != nil {
			t.Fatalf("Config: %v", err)
		}
	}
	if repo.getAllCalls != 1 {
		t.Errorf("expected 1 repository read, got %d", repo.getAllCalls)
	}
}

func TestConfig_StaleCacheEntryIgnored(t *testing.T) {
	repo := &mockSettingsRepo{}
	cache, now := newTestCache(t, time.Minute)
	svc := NewSettingsService(repo, cache)

	if _, err := svc.Config(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Advance past the TTL: the payload timestamp makes the entry stale even
	// though miniredis has not expired the key.
	*now = now.Add(2 * time.Minute)
	if _, err := svc.Config(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.getAllCalls != 2 {
		t.Errorf("stale entry must trigger a fresh read, got %d reads", repo.getAllCalls)
	}
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	stored := make(map[string]string)
	repo := &mockSettingsRepo{
		setFn: func(ctx context.Context, key, value string) error {
			stored[key] = value
			return nil
		},
		getAllFn: func(ctx context.Context) (map[string]string, error) {
			return stored, nil
		},
	}
	cache, _ := newTestCache(t, time.Minute)
	svc := NewSettingsService(repo, cache)

	// Warm the cache, then write.
	if _, err := svc.Config(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Update(context.Background(), map[string]string{KeySiteTagline: "New tagline"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	config, err := svc.Config(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if config.Tagline != "New tagline" {
		t.Errorf("update not visible after invalidation, tagline = %q", config.Tagline)
	}
}

func TestUpdate_RejectsUnknownKeys(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	svc := NewSettingsService(&mockSettingsRepo{}, cache)

	err := svc.Update(context.Background(), map[string]string{"storage.max_upload_size": "1"})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 400 {
		t.Errorf("expected a 400 AppError, got %v", err)
	}
}
