package auth

import (
	"context"
	"html"
	"io"

	"github.com/a-h/templ"
)

// LoginPage renders the admin login form. Kept as a plain component so the
// auth plugin has no dependency on the site's page templates.
func LoginPage(csrfToken, email, errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b []byte
		b = append(b, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`...)
		b = append(b, `<meta name="viewport" content="width=device-width, initial-scale=1">`...)
		b = append(b, `<title>Sign in - Resonora</title></head><body class="admin-login">`...)
		b = append(b, `<main><h1>Resonora Admin</h1>`...)
		if errorMsg != "" {
			b = append(b, `<p class="error" role="alert">`...)
			b = append(b, html.EscapeString(errorMsg)...)
			b = append(b, `</p>`...)
		}
		b = append(b, `<form method="post" action="/admin/login">`...)
		b = append(b, `<input type="hidden" name="csrf_token" value="`...)
		b = append(b, html.EscapeString(csrfToken)...)
		b = append(b, `">`...)
		b = append(b, `<label>Email <input type="email" name="email" required value="`...)
		b = append(b, html.EscapeString(email)...)
		b = append(b, `"></label>`...)
		b = append(b, `<label>Password <input type="password" name="password" required></label>`...)
		b = append(b, `<button type="submit">Sign in</button>`...)
		b = append(b, `</form></main></body></html>`...)
		_, err := w.Write(b)
		return err
	})
}
