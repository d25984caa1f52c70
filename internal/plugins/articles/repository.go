package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// ArticleRepository defines the data access contract for articles.
type ArticleRepository interface {
	Create(ctx context.Context, a *Article) error
	FindByID(ctx context.Context, id int64) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, a *Article) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, publishedOnly bool) ([]Article, error)
}

// articleRepository implements ArticleRepository with MariaDB queries.
type articleRepository struct {
	db *sql.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *sql.DB) ArticleRepository {
	return &articleRepository{db: db}
}

const articleColumns = `id, slug, title, excerpt, body_html, is_published,
	          published_at, created_at, updated_at`

// Create inserts a new article and sets the generated ID.
func (r *articleRepository) Create(ctx context.Context, a *Article) error {
	query := `INSERT INTO articles (slug, title, excerpt, body_html, is_published,
	          published_at, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		a.Slug, a.Title, a.Excerpt, a.BodyHTML, a.IsPublished,
		a.PublishedAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading article insert id: %w", err)
	}
	a.ID = id
	return nil
}

// FindByID retrieves an article by ID.
func (r *articleRepository) FindByID(ctx context.Context, id int64) (*Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

// FindBySlug retrieves an article by its public slug.
func (r *articleRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = ?`, slug)
	return scanArticle(row)
}

// SlugExists reports whether an article already uses the slug.
func (r *articleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM articles WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking article slug: %w", err)
	}
	return exists, nil
}

// Update persists every editable field.
func (r *articleRepository) Update(ctx context.Context, a *Article) error {
	query := `UPDATE articles
	          SET slug = ?, title = ?, excerpt = ?, body_html = ?, is_published = ?,
	              published_at = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		a.Slug, a.Title, a.Excerpt, a.BodyHTML, a.IsPublished,
		a.PublishedAt, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("article not found")
	}
	return nil
}

// Delete removes an article row.
func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("article not found")
	}
	return nil
}

// List returns articles newest-first. The public news page orders by publish
// date; drafts without one sort by creation date in the admin listing.
func (r *articleRepository) List(ctx context.Context, publishedOnly bool) ([]Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles`
	if publishedOnly {
		query += ` WHERE is_published = true`
	}
	query += ` ORDER BY COALESCE(published_at, created_at) DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanArticle scans one articles row.
func scanArticle(row rowScanner) (*Article, error) {
	a := &Article{}
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Excerpt, &a.BodyHTML, &a.IsPublished,
		&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("article not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning article row: %w", err)
	}
	return a, nil
}
