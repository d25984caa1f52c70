package contact

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/plugins/settings"
	"github.com/resonoraudio/resonora/internal/plugins/smtp"
)

// ContactService handles contact form submissions and admin review.
type ContactService interface {
	Submit(ctx context.Context, in SubmitInput) (*Submission, error)
	List(ctx context.Context, unreadOnly bool) ([]Submission, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// contactService implements ContactService.
type contactService struct {
	repo     ContactRepository
	mailer   smtp.Mailer
	settings settings.SettingsService
}

// NewContactService creates a new contact service.
func NewContactService(repo ContactRepository, mailer smtp.Mailer, settingsSvc settings.SettingsService) ContactService {
	return &contactService{repo: repo, mailer: mailer, settings: settingsSvc}
}

// Submit validates and stores a submission, then sends the notification
// mail. The store is the commit point: a failing mailer is logged and the
// submission still succeeds.
func (s *contactService) Submit(ctx context.Context, in SubmitInput) (*Submission, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)

	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.NewValidation("a valid email address is required")
	}
	if message == "" {
		return nil, apperror.NewValidation("message is required")
	}
	if len(message) > maxMessageLength {
		return nil, apperror.NewValidation("message is too long")
	}

	sub := &Submission{
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.notify(ctx, sub)
	return sub, nil
}

// notify sends the notification mail for a stored submission. Best-effort.
func (s *contactService) notify(ctx context.Context, sub *Submission) {
	if !s.mailer.IsConfigured() {
		return
	}

	recipient := ""
	if cfg, err := s.settings.Config(ctx); err == nil {
		recipient = cfg.ContactNotifyEmail
		if recipient == "" {
			recipient = cfg.ContactEmail
		}
	}
	if recipient == "" {
		slog.Warn("contact notification skipped, no recipient configured",
			slog.Int64("submission_id", sub.ID))
		return
	}

	subject := fmt.Sprintf("New contact submission from %s", sub.Name)
	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\n%s",
		sub.Name, sub.Email, sub.Phone, sub.Message)

	if err := s.mailer.Send(ctx, []string{recipient}, subject, body); err != nil {
		slog.Error("contact notification failed",
			slog.Int64("submission_id", sub.ID),
			slog.String("error", err.Error()))
	}
}

// List returns submissions for the admin inbox.
func (s *contactService) List(ctx context.Context, unreadOnly bool) ([]Submission, error) {
	return s.repo.List(ctx, unreadOnly)
}

// MarkRead flags a submission as handled.
func (s *contactService) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkRead(ctx, id)
}

// Delete removes a submission.
func (s *contactService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
