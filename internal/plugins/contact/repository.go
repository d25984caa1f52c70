package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// ContactRepository defines the data access contract for submissions.
type ContactRepository interface {
	Create(ctx context.Context, s *Submission) error
	FindByID(ctx context.Context, id int64) (*Submission, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, unreadOnly bool) ([]Submission, error)
}

// contactRepository implements ContactRepository with MariaDB queries.
type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts a submission and sets the generated ID.
func (r *contactRepository) Create(ctx context.Context, s *Submission) error {
	query := `INSERT INTO contact_submissions (name, email, phone, message, is_read, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		s.Name, s.Email, s.Phone, s.Message, s.IsRead, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting contact submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading submission insert id: %w", err)
	}
	s.ID = id
	return nil
}

// FindByID retrieves one submission.
func (r *contactRepository) FindByID(ctx context.Context, id int64) (*Submission, error) {
	s := &Submission{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, message, is_read, created_at
		 FROM contact_submissions WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Message, &s.IsRead, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning submission: %w", err)
	}
	return s, nil
}

// MarkRead flags a submission as handled.
func (r *contactRepository) MarkRead(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_submissions SET is_read = true WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking submission read: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("submission not found")
	}
	return nil
}

// Delete removes a submission.
func (r *contactRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contact_submissions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting submission: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("submission not found")
	}
	return nil
}

// List returns submissions newest-first.
func (r *contactRepository) List(ctx context.Context, unreadOnly bool) ([]Submission, error) {
	query := `SELECT id, name, email, phone, message, is_read, created_at
	          FROM contact_submissions`
	if unreadOnly {
		query += ` WHERE is_read = false`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Message, &s.IsRead, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
