package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// ProductRepository defines the data access contract for products.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, category string, publishedOnly bool) ([]Product, error)
}

// productRepository implements ProductRepository with MariaDB queries.
type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, slug, name, category, tagline, description_html,
	          specs, price_cents, is_published, position, created_at, updated_at`

// Create inserts a new product and sets the generated ID.
func (r *productRepository) Create(ctx context.Context, p *Product) error {
	specsJSON, err := json.Marshal(p.Specs)
	if err != nil {
		return fmt.Errorf("marshaling specs: %w", err)
	}

	query := `INSERT INTO products (slug, name, category, tagline, description_html,
	          specs, price_cents, is_published, position, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		p.Slug, p.Name, p.Category, p.Tagline, p.DescriptionHTML,
		specsJSON, p.PriceCents, p.IsPublished, p.Position, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading product insert id: %w", err)
	}
	p.ID = id
	return nil
}

// FindByID retrieves a product by ID.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// FindBySlug retrieves a product by its public slug.
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = ?`, slug)
	return scanProduct(row)
}

// SlugExists reports whether a product already uses the slug.
func (r *productRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking product slug: %w", err)
	}
	return exists, nil
}

// Update persists every editable field.
func (r *productRepository) Update(ctx context.Context, p *Product) error {
	specsJSON, err := json.Marshal(p.Specs)
	if err != nil {
		return fmt.Errorf("marshaling specs: %w", err)
	}

	query := `UPDATE products
	          SET slug = ?, name = ?, category = ?, tagline = ?, description_html = ?,
	              specs = ?, price_cents = ?, is_published = ?, position = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		p.Slug, p.Name, p.Category, p.Tagline, p.DescriptionHTML,
		specsJSON, p.PriceCents, p.IsPublished, p.Position, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("product not found")
	}
	return nil
}

// Delete removes a product row.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("product not found")
	}
	return nil
}

// List returns products ordered by position. category filters when non-empty;
// publishedOnly hides drafts for the public catalog.
func (r *productRepository) List(ctx context.Context, category string, publishedOnly bool) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	if publishedOnly {
		query += ` AND is_published = true`
	}
	query += ` ORDER BY position ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct scans one products row, decoding the specs JSON column.
func scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	var specsJSON []byte
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Category, &p.Tagline, &p.DescriptionHTML,
		&specsJSON, &p.PriceCents, &p.IsPublished, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning product row: %w", err)
	}

	if len(specsJSON) > 0 {
		if err := json.Unmarshal(specsJSON, &p.Specs); err != nil {
			return nil, fmt.Errorf("decoding product specs: %w", err)
		}
	}
	if p.Specs == nil {
		p.Specs = make(map[string]string)
	}
	return p, nil
}
