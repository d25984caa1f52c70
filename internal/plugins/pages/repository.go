package pages

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PageRepository defines the data access contract for page sections.
type PageRepository interface {
	GetSections(ctx context.Context, pageSlug string) (map[string]string, error)
	Upsert(ctx context.Context, pageSlug, sectionKey, content string) error
	DeleteSection(ctx context.Context, pageSlug, sectionKey string) error
	ListPageSlugs(ctx context.Context) ([]string, error)
}

// pageRepository implements PageRepository with MariaDB queries.
type pageRepository struct {
	db *sql.DB
}

// NewPageRepository creates a new page repository.
func NewPageRepository(db *sql.DB) PageRepository {
	return &pageRepository{db: db}
}

// GetSections returns all stored sections of one page. An unknown page slug
// yields an empty map, not an error; templates render their defaults.
func (r *pageRepository) GetSections(ctx context.Context, pageSlug string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT section_key, content FROM page_sections WHERE page_slug = ?`, pageSlug)
	if err != nil {
		return nil, fmt.Errorf("loading page sections: %w", err)
	}
	defer rows.Close()

	sections := make(map[string]string)
	for rows.Next() {
		var key, content string
		if err := rows.Scan(&key, &content); err != nil {
			return nil, fmt.Errorf("scanning page section: %w", err)
		}
		sections[key] = content
	}
	return sections, rows.Err()
}

// Upsert writes one section, inserting or replacing.
func (r *pageRepository) Upsert(ctx context.Context, pageSlug, sectionKey, content string) error {
	query := `INSERT INTO page_sections (page_slug, section_key, content, updated_at)
	          VALUES (?, ?, ?, ?)
	          ON DUPLICATE KEY UPDATE content = VALUES(content), updated_at = VALUES(updated_at)`

	if _, err := r.db.ExecContext(ctx, query, pageSlug, sectionKey, content, time.Now().UTC()); err != nil {
		return fmt.Errorf("upserting page section %s/%s: %w", pageSlug, sectionKey, err)
	}
	return nil
}

// DeleteSection removes one section. Deleting a missing section is a no-op.
func (r *pageRepository) DeleteSection(ctx context.Context, pageSlug, sectionKey string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM page_sections WHERE page_slug = ? AND section_key = ?`,
		pageSlug, sectionKey); err != nil {
		return fmt.Errorf("deleting page section %s/%s: %w", pageSlug, sectionKey, err)
	}
	return nil
}

// ListPageSlugs returns the distinct page slugs that have stored content.
func (r *pageRepository) ListPageSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT page_slug FROM page_sections ORDER BY page_slug`)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scanning page slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}
