// Package contact stores contact form submissions and sends the notification
// mail. The submission is the source of truth; mail is best-effort.
package contact

import "time"

// Submission is one contact form entry.
type Submission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitInput is the public contact form payload.
type SubmitInput struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}

// maxMessageLength caps the stored message body.
const maxMessageLength = 5000
