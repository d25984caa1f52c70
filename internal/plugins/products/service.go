package products

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

// maxSlugAttempts bounds the numbered-suffix loop before falling back to a
// random suffix.
const maxSlugAttempts = 20

// ProductView is a product joined with its formatted media for rendering.
type ProductView struct {
	Product
	Media media.OwnerMedia `json:"media"`
}

// ProductService handles business logic for the catalog. It owns slug
// generation, description sanitization, and the media detach on delete.
type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Update(ctx context.Context, id int64, in UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, category string, publishedOnly bool) ([]Product, error)
	WithMedia(ctx context.Context, p *Product) (*ProductView, error)
}

// productService implements ProductService.
type productService struct {
	repo     ProductRepository
	mediaSvc media.MediaService
}

// NewProductService creates a new product service.
func NewProductService(repo ProductRepository, mediaSvc media.MediaService) ProductService {
	return &productService{repo: repo, mediaSvc: mediaSvc}
}

// Create validates the input, generates a unique slug, sanitizes the
// description, and persists the product.
func (s *productService) Create(ctx context.Context, in CreateProductInput) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.NewBadRequest("product name is required")
	}
	if !validCategories[in.Category] {
		return nil, apperror.NewBadRequest("unknown product category: " + in.Category)
	}

	slug, err := s.generateSlug(ctx, name)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating slug: %w", err))
	}

	now := time.Now().UTC()
	p := &Product{
		Slug:            slug,
		Name:            name,
		Category:        in.Category,
		Tagline:         strings.TrimSpace(in.Tagline),
		DescriptionHTML: sanitize.HTML(in.DescriptionHTML),
		Specs:           in.Specs,
		PriceCents:      in.PriceCents,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.Specs == nil {
		p.Specs = make(map[string]string)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	slog.Info("product created", slog.Int64("id", p.ID), slog.String("slug", p.Slug))
	return p, nil
}

// Get retrieves a product by ID.
func (s *productService) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug retrieves a product by its public slug.
func (s *productService) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// Update applies the non-nil fields. A name change regenerates the slug.
func (s *productService) Update(ctx context.Context, id int64, in UpdateProductInput) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.NewBadRequest("product name is required")
		}
		if name != p.Name {
			slug, err := s.generateSlug(ctx, name)
			if err != nil {
				return nil, apperror.NewInternal(fmt.Errorf("generating slug: %w", err))
			}
			p.Slug = slug
		}
		p.Name = name
	}
	if in.Category != nil {
		if !validCategories[*in.Category] {
			return nil, apperror.NewBadRequest("unknown product category: " + *in.Category)
		}
		p.Category = *in.Category
	}
	if in.Tagline != nil {
		p.Tagline = strings.TrimSpace(*in.Tagline)
	}
	if in.DescriptionHTML != nil {
		p.DescriptionHTML = sanitize.HTML(*in.DescriptionHTML)
	}
	if in.Specs != nil {
		p.Specs = *in.Specs
	}
	if in.PriceCents != nil {
		p.PriceCents = *in.PriceCents
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
	if in.Position != nil {
		p.Position = *in.Position
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product. Attached media items are detached first, back
// into the unassigned library, so their files survive the product.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	owned, err := s.mediaSvc.MediaForOwner(ctx, media.OwnerProduct, id, assetstore.SizeThumb)
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

	slog.Info("product deleted", slog.Int64("id", id), slog.Int("detached_media", len(owned.Items)))
	return nil
}

// List returns catalog products, optionally filtered.
func (s *productService) List(ctx context.Context, category string, publishedOnly bool) ([]Product, error) {
	return s.repo.List(ctx, category, publishedOnly)
}

// WithMedia joins a product with its formatted media collection.
func (s *productService) WithMedia(ctx context.Context, p *Product) (*ProductView, error) {
	owned, err := s.mediaSvc.MediaForOwner(ctx, media.OwnerProduct, p.ID, assetstore.SizeLarge)
	if err != nil {
		return nil, err
	}
	return &ProductView{Product: *p, Media: *owned}, nil
}

// generateSlug creates a unique slug, trying numbered suffixes first and a
// random suffix as the last resort.
func (s *productService) generateSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
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
