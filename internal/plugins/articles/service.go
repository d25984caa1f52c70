package articles

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
	"github.com/resonoraudio/resonora/internal/plugins/media"
	"github.com/resonoraudio/resonora/internal/sanitize"
)

const maxSlugAttempts = 20

// ArticleView is an article joined with its formatted media for rendering.
type ArticleView struct {
	Article
	Media media.OwnerMedia `json:"media"`
}

// ArticleService handles business logic for the news section.
type ArticleService interface {
	Create(ctx context.Context, in CreateArticleInput) (*Article, error)
	Get(ctx context.Context, id int64) (*Article, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	Update(ctx context.Context, id int64, in UpdateArticleInput) (*Article, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, publishedOnly bool) ([]Article, error)
	WithMedia(ctx context.Context, a *Article) (*ArticleView, error)
}

// articleService implements ArticleService.
type articleService struct {
	repo     ArticleRepository
	mediaSvc media.MediaService
}

// NewArticleService creates a new article service.
func NewArticleService(repo ArticleRepository, mediaSvc media.MediaService) ArticleService {
	return &articleService{repo: repo, mediaSvc: mediaSvc}
}

// Create validates and persists a new draft article.
func (s *articleService) Create(ctx context.Context, in CreateArticleInput) (*Article, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.NewBadRequest("article title is required")
	}

	slug, err := s.generateSlug(ctx, title)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating slug: %w", err))
	}

	now := time.Now().UTC()
	a := &Article{
		Slug:      slug,
		Title:     title,
		Excerpt:   strings.TrimSpace(in.Excerpt),
		BodyHTML:  sanitize.HTML(in.BodyHTML),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	slog.Info("article created", slog.Int64("id", a.ID), slog.String("slug", a.Slug))
	return a, nil
}

// Get retrieves an article by ID.
func (s *articleService) Get(ctx context.Context, id int64) (*Article, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug retrieves an article by its public slug.
func (s *articleService) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// Update applies the non-nil fields. Publishing for the first time stamps
// PublishedAt; it is kept on later unpublish/republish cycles so the public
// date stays stable.
func (s *articleService) Update(ctx context.Context, id int64, in UpdateArticleInput) (*Article, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.NewBadRequest("article title is required")
		}
		if title != a.Title {
			slug, err := s.generateSlug(ctx, title)
			if err != nil {
				return nil, apperror.NewInternal(fmt.Errorf("generating slug: %w", err))
			}
			a.Slug = slug
		}
		a.Title = title
	}
	if in.Excerpt != nil {
		a.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.BodyHTML != nil {
		a.BodyHTML = sanitize.HTML(*in.BodyHTML)
	}
	if in.IsPublished != nil {
		a.IsPublished = *in.IsPublished
		if a.IsPublished && a.PublishedAt == nil {
			now := time.Now().UTC()
			a.PublishedAt = &now
		}
	}
	a.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an article after detaching its media items back into the
// unassigned library.
func (s *articleService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	owned, err := s.mediaSvc.MediaForOwner(ctx, media.OwnerArticle, id, assetstore.SizeThumb)
	if err != nil {
		return err
	}
	for _, item := range owned.Items {
		if err := s.mediaSvc.SyncOwner(ctx, item.ID, media.OwnerNone, 0); err != nil {
			return fmt.Errorf("detaching media item %d: %w", item.ID, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("article deleted", slog.Int64("id", id), slog.Int("detached_media", len(owned.Items)))
	return nil
}

// List returns articles newest-first.
func (s *articleService) List(ctx context.Context, publishedOnly bool) ([]Article, error) {
	return s.repo.List(ctx, publishedOnly)
}

// WithMedia joins an article with its formatted media collection.
func (s *articleService) WithMedia(ctx context.Context, a *Article) (*ArticleView, error) {
	owned, err := s.mediaSvc.MediaForOwner(ctx, media.OwnerArticle, a.ID, assetstore.SizeLarge)
	if err != nil {
		return nil, err
	}
	return &ArticleView{Article: *a, Media: *owned}, nil
}

// generateSlug creates a unique slug, trying numbered suffixes first and a
// random suffix as the last resort.
func (s *articleService) generateSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	slug := base

	for i := 2; i < maxSlugAttempts+2; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random slug suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s", base, hex.EncodeToString(b)), nil
}
