package pages

import (
	"context"
	"log/slog"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/sanitize"
)

// PageService handles business logic for page content.
type PageService interface {
	Page(ctx context.Context, slug string) (*Page, error)
	UpdateSections(ctx context.Context, slug string, sections map[string]string) (*Page, error)
	DeleteSection(ctx context.Context, slug, key string) error
	ListPages(ctx context.Context) ([]string, error)
}

// pageService implements PageService.
type pageService struct {
	repo PageRepository
}

// NewPageService creates a new page service.
func NewPageService(repo PageRepository) PageService {
	return &pageService{repo: repo}
}

// Page assembles one page's sections. Unknown slugs return an empty page.
func (s *pageService) Page(ctx context.Context, slug string) (*Page, error) {
	if !ValidKey(slug) {
		return nil, apperror.NewBadRequest("invalid page slug")
	}
	sections, err := s.repo.GetSections(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &Page{Slug: slug, Sections: sections}, nil
}

// UpdateSections sanitizes and writes the given sections, then returns the
// full page. Section content is HTML and goes through bluemonday on the way
// in, never on the way out.
func (s *pageService) UpdateSections(ctx context.Context, slug string, sections map[string]string) (*Page, error) {
	if !ValidKey(slug) {
		return nil, apperror.NewBadRequest("invalid page slug")
	}
	if len(sections) == 0 {
		return nil, apperror.NewBadRequest("no sections provided")
	}
	for key := range sections {
		if !ValidKey(key) {
			return nil, apperror.NewBadRequest("invalid section key: " + key)
		}
	}

	for key, content := range sections {
		if err := s.repo.Upsert(ctx, slug, key, sanitize.HTML(content)); err != nil {
			return nil, err
		}
	}

	slog.Info("page sections updated", slog.String("page", slug), slog.Int("sections", len(sections)))
	return s.Page(ctx, slug)
}

// DeleteSection removes one section from a page.
func (s *pageService) DeleteSection(ctx context.Context, slug, key string) error {
	if !ValidKey(slug) || !ValidKey(key) {
		return apperror.NewBadRequest("invalid page slug or section key")
	}
	return s.repo.DeleteSection(ctx, slug, key)
}

// ListPages returns the slugs of pages with stored content.
func (s *pageService) ListPages(ctx context.Context) ([]string, error) {
	return s.repo.ListPageSlugs(ctx)
}
